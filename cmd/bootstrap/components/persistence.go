package components

import (
	"bookline/internal/infra/db"
	"bookline/internal/infra/readstore"
	"bookline/internal/infra/repository"
	"bookline/internal/infra/uow"
	"bookline/internal/usecase/commands"
	"bookline/internal/usecase/queries"
	"bookline/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		// Pool-backed read store serves the queries and the advisory
		// pre-transaction snapshot; the unit of work builds its own
		// tx-backed instances.
		fx.Annotate(
			readstore.NewReadStore,
			fx.As(new(queries.AvailabilityReadStore)),
			fx.As(new(queries.AppointmentReadStore)),
			fx.As(new(commands.SnapshotReader)),
		),
		fx.Annotate(
			repository.NewIdempotencyRepository,
			fx.As(new(commands.IdempotencyStore)),
		),
		fx.Annotate(
			uow.NewPostgresUnitOfWork,
			fx.As(new(shared.UnitOfWork)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
