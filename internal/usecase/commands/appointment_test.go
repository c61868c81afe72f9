//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"bookline/internal/domain/appointment"
	"bookline/internal/domain/schedule"
	"bookline/internal/infra"
	"bookline/internal/usecase/commands"
	"bookline/internal/usecase/shared"
	commandsmock "bookline/tests/mock/commands"
	sharedmock "bookline/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type transitionFixture struct {
	appointments *sharedmock.MockAppointmentRepository
	cache        *commandsmock.MockSlotCacheInvalidator
	commands     commands.AppointmentCommands
}

func newTransitionFixture(t *testing.T) *transitionFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	appointments := sharedmock.NewMockAppointmentRepository(ctrl)
	tx := sharedmock.NewMockTx(ctrl)
	tx.EXPECT().Appointments().Return(appointments).AnyTimes()

	uow := sharedmock.NewMockUnitOfWork(ctrl)
	uow.EXPECT().Within(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, tx)
		},
	).AnyTimes()

	cache := commandsmock.NewMockSlotCacheInvalidator(ctrl)
	return &transitionFixture{
		appointments: appointments,
		cache:        cache,
		commands:     commands.NewAppointmentCommands(uow, cache),
	}
}

func bookedRecord(id, companyID uuid.UUID) *shared.AppointmentRecord {
	return &shared.AppointmentRecord{
		ID:            id,
		CompanyID:     companyID,
		ServiceID:     uuid.New(),
		EmployeeID:    uuid.New(),
		CustomerID:    uuid.New(),
		Date:          time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Slot:          schedule.Interval{Start: schedule.TimeOfDay(600), End: schedule.TimeOfDay(660)},
		Status:        string(appointment.StatusBooked),
		PaymentStatus: string(appointment.PaymentPending),
		PriceCents:    5000,
		CreatedAt:     time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
	}
}

func TestAppointmentTransitions(t *testing.T) {
	companyID := uuid.New()

	t.Run("complete a booked appointment", func(t *testing.T) {
		f := newTransitionFixture(t)
		id := uuid.New()

		f.appointments.EXPECT().FindByIDForUpdate(gomock.Any(), id).Return(bookedRecord(id, companyID), nil)
		f.appointments.EXPECT().UpdateStatus(gomock.Any(), id, appointment.StatusCompleted).Return(nil)

		// Completing keeps the slot occupied, so no cache invalidation.
		assert.NoError(t, f.commands.Complete(context.Background(), id, companyID))
	})

	t.Run("cancel frees the day's cached listing", func(t *testing.T) {
		f := newTransitionFixture(t)
		id := uuid.New()
		rec := bookedRecord(id, companyID)

		f.appointments.EXPECT().FindByIDForUpdate(gomock.Any(), id).Return(rec, nil)
		f.appointments.EXPECT().UpdateStatus(gomock.Any(), id, appointment.StatusCancelled).Return(nil)
		f.cache.EXPECT().Invalidate(gomock.Any(), rec.CompanyID, rec.ServiceID, rec.Date)

		assert.NoError(t, f.commands.Cancel(context.Background(), id, companyID))
	})

	t.Run("unknown appointment", func(t *testing.T) {
		f := newTransitionFixture(t)
		id := uuid.New()

		f.appointments.EXPECT().FindByIDForUpdate(gomock.Any(), id).
			Return(nil, infra.WrapRepoErr("appointment not found", nil, infra.KindNotFound))

		err := f.commands.Complete(context.Background(), id, companyID)
		assert.ErrorIs(t, err, commands.ErrAppointmentNotFound)
	})

	t.Run("appointment of another company reports as not found", func(t *testing.T) {
		f := newTransitionFixture(t)
		id := uuid.New()
		rec := bookedRecord(id, uuid.New())

		f.appointments.EXPECT().FindByIDForUpdate(gomock.Any(), id).Return(rec, nil).Times(2)

		assert.ErrorIs(t, f.commands.Complete(context.Background(), id, companyID), commands.ErrAppointmentNotFound)
		assert.ErrorIs(t, f.commands.Cancel(context.Background(), id, companyID), commands.ErrAppointmentNotFound)
	})

	t.Run("terminal states reject further transitions", func(t *testing.T) {
		for _, status := range []appointment.Status{appointment.StatusCompleted, appointment.StatusCancelled} {
			f := newTransitionFixture(t)
			id := uuid.New()
			rec := bookedRecord(id, companyID)
			rec.Status = string(status)

			f.appointments.EXPECT().FindByIDForUpdate(gomock.Any(), id).Return(rec, nil).Times(2)

			assert.ErrorIs(t, f.commands.Complete(context.Background(), id, companyID), commands.ErrInvalidTransition)
			assert.ErrorIs(t, f.commands.Cancel(context.Background(), id, companyID), commands.ErrInvalidTransition)
		}
	})
}
