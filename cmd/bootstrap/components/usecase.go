package components

import (
	"bookline/internal/pkg/clock"
	"bookline/internal/pkg/config"
	"bookline/internal/usecase/commands"
	"bookline/internal/usecase/queries"
	"bookline/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		queries.NewAvailabilityQueries,
		queries.NewAppointmentQueries,
		commands.NewAppointmentCommands,
		NewBookingCommands,
	),
)

func NewBookingCommands(
	reader commands.SnapshotReader,
	idempotency commands.IdempotencyStore,
	unitOfWork shared.UnitOfWork,
	cache commands.SlotCacheInvalidator,
	clk clock.Clock,
	cfg config.Config,
) commands.BookingCommands {
	return commands.NewBookingCommands(reader, idempotency, unitOfWork, cache, clk, cfg.Booking.IdempotencyTTL)
}
