package bootstrap

import (
	"bookline/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	CacheModule,
	JWTModule,
	ClockModule,
	CronModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
)
