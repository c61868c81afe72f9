//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"bookline/internal/domain/schedule"
	"bookline/internal/infra"
	"bookline/internal/pkg/clock"
	"bookline/internal/usecase/commands"
	"bookline/internal/usecase/shared"
	"bookline/tests/common/builder"
	commandsmock "bookline/tests/mock/commands"
	sharedmock "bookline/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type bookingFixture struct {
	ctrl          *gomock.Controller
	reader        *commandsmock.MockSnapshotReader
	idempotency   *commandsmock.MockIdempotencyStore
	uow           *sharedmock.MockUnitOfWork
	cache         *commandsmock.MockSlotCacheInvalidator
	tx            *sharedmock.MockTx
	appointments  *sharedmock.MockAppointmentRepository
	customers     *sharedmock.MockCustomerRepository
	idemRepo      *sharedmock.MockIdempotencyRepository
	notifications *sharedmock.MockNotificationRepository
	reads         *sharedmock.MockCommandReads
	clock         *clock.MockClock
	commands      commands.BookingCommands
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &bookingFixture{
		ctrl:          ctrl,
		reader:        commandsmock.NewMockSnapshotReader(ctrl),
		idempotency:   commandsmock.NewMockIdempotencyStore(ctrl),
		uow:           sharedmock.NewMockUnitOfWork(ctrl),
		cache:         commandsmock.NewMockSlotCacheInvalidator(ctrl),
		tx:            sharedmock.NewMockTx(ctrl),
		appointments:  sharedmock.NewMockAppointmentRepository(ctrl),
		customers:     sharedmock.NewMockCustomerRepository(ctrl),
		idemRepo:      sharedmock.NewMockIdempotencyRepository(ctrl),
		notifications: sharedmock.NewMockNotificationRepository(ctrl),
		reads:         sharedmock.NewMockCommandReads(ctrl),
		clock:         clock.NewMockClock(time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)),
	}

	f.tx.EXPECT().Appointments().Return(f.appointments).AnyTimes()
	f.tx.EXPECT().Customers().Return(f.customers).AnyTimes()
	f.tx.EXPECT().Idempotency().Return(f.idemRepo).AnyTimes()
	f.tx.EXPECT().Notifications().Return(f.notifications).AnyTimes()
	f.tx.EXPECT().Reads().Return(f.reads).AnyTimes()

	f.commands = commands.NewBookingCommands(f.reader, f.idempotency, f.uow, f.cache, f.clock, 24*time.Hour)
	return f
}

// expectWithin runs the transactional closure against the mock Tx.
func (f *bookingFixture) expectWithin() {
	f.uow.EXPECT().Within(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, f.tx)
		},
	)
}

func TestSubmitBooking(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	slot := schedule.Interval{Start: schedule.TimeOfDay(600), End: schedule.TimeOfDay(660)}

	t.Run("books the first available employee", func(t *testing.T) {
		f := newBookingFixture(t)

		company := builder.NewCompanySnapshotBuilder().Build()
		svc := builder.NewServiceSnapshotBuilder().WithCompanyID(company.ID).Build()
		params := builder.NewBookingParamsBuilder().
			WithCompanyID(company.ID).
			WithServiceID(svc.ID).
			WithDate(date).
			WithStart(slot.Start).
			Build()

		busyFirst := builder.NewEmployeeDayBuilder().WithBusy(slot).Build()
		freeSecond := builder.NewEmployeeDayBuilder().Build()
		customerID := uuid.New()
		apptID := uuid.New()

		f.reader.EXPECT().CompanyByID(gomock.Any(), company.ID).Return(company, nil)
		f.reader.EXPECT().ServiceByID(gomock.Any(), svc.ID).Return(svc, nil)
		f.reader.EXPECT().EmployeeDays(gomock.Any(), svc.ID, date).
			Return([]schedule.EmployeeDay{busyFirst, freeSecond}, nil)

		f.expectWithin()
		f.appointments.EXPECT().LockEmployee(gomock.Any(), freeSecond.EmployeeID).Return(nil)
		f.reads.EXPECT().EmployeeDay(gomock.Any(), freeSecond.EmployeeID, svc.ID, date).
			Return(&freeSecond, nil)
		f.customers.EXPECT().
			GetOrCreate(gomock.Any(), company.ID, "jordan@example.com", "Jordan Lee", "+1 555 0100").
			Return(&shared.CustomerRecord{ID: customerID, CompanyID: company.ID}, nil)
		f.appointments.EXPECT().Create(gomock.Any(), gomock.Any()).Return(apptID, nil)
		f.notifications.EXPECT().
			CreateJob(gomock.Any(), "email", "booking_confirmed", gomock.Any(), gomock.Any()).
			Return(nil)
		f.cache.EXPECT().Invalidate(gomock.Any(), company.ID, svc.ID, date)

		result, err := f.commands.SubmitBooking(context.Background(), params, uuid.Nil)
		require.NoError(t, err)

		assert.Equal(t, apptID, result.AppointmentID)
		assert.Equal(t, freeSecond.EmployeeID, result.EmployeeID)
		assert.Equal(t, customerID, result.CustomerID)
		assert.Equal(t, slot, result.Slot)
		assert.False(t, result.IsReplayed)
	})

	t.Run("honors the preferred employee", func(t *testing.T) {
		f := newBookingFixture(t)

		company := builder.NewCompanySnapshotBuilder().Build()
		svc := builder.NewServiceSnapshotBuilder().WithCompanyID(company.ID).Build()
		preferred := builder.NewEmployeeDayBuilder().Build()
		other := builder.NewEmployeeDayBuilder().Build()

		params := builder.NewBookingParamsBuilder().
			WithCompanyID(company.ID).
			WithServiceID(svc.ID).
			WithDate(date).
			WithStart(slot.Start).
			WithPreferredEmployee(preferred.EmployeeID).
			Build()

		f.reader.EXPECT().CompanyByID(gomock.Any(), company.ID).Return(company, nil)
		f.reader.EXPECT().ServiceByID(gomock.Any(), svc.ID).Return(svc, nil)
		f.reader.EXPECT().EmployeeDays(gomock.Any(), svc.ID, date).
			Return([]schedule.EmployeeDay{other, preferred}, nil)

		f.expectWithin()
		f.appointments.EXPECT().LockEmployee(gomock.Any(), preferred.EmployeeID).Return(nil)
		f.reads.EXPECT().EmployeeDay(gomock.Any(), preferred.EmployeeID, svc.ID, date).
			Return(&preferred, nil)
		f.customers.EXPECT().GetOrCreate(gomock.Any(), company.ID, gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&shared.CustomerRecord{ID: uuid.New()}, nil)
		f.appointments.EXPECT().Create(gomock.Any(), gomock.Any()).Return(uuid.New(), nil)
		f.notifications.EXPECT().
			CreateJob(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)
		f.cache.EXPECT().Invalidate(gomock.Any(), company.ID, svc.ID, date)

		result, err := f.commands.SubmitBooking(context.Background(), params, uuid.Nil)
		require.NoError(t, err)
		assert.Equal(t, preferred.EmployeeID, result.EmployeeID)
	})

	t.Run("preferred employee not assigned to service", func(t *testing.T) {
		f := newBookingFixture(t)

		company := builder.NewCompanySnapshotBuilder().Build()
		svc := builder.NewServiceSnapshotBuilder().WithCompanyID(company.ID).Build()
		stranger := uuid.New()

		params := builder.NewBookingParamsBuilder().
			WithCompanyID(company.ID).
			WithServiceID(svc.ID).
			WithDate(date).
			WithStart(slot.Start).
			WithPreferredEmployee(stranger).
			Build()

		f.reader.EXPECT().CompanyByID(gomock.Any(), company.ID).Return(company, nil)
		f.reader.EXPECT().ServiceByID(gomock.Any(), svc.ID).Return(svc, nil)
		f.reader.EXPECT().EmployeeDays(gomock.Any(), svc.ID, date).
			Return([]schedule.EmployeeDay{builder.NewEmployeeDayBuilder().Build()}, nil)

		_, err := f.commands.SubmitBooking(context.Background(), params, uuid.Nil)
		assert.ErrorIs(t, err, commands.ErrEmployeeNotEligible)
	})

	t.Run("no employee free at the requested time", func(t *testing.T) {
		f := newBookingFixture(t)

		company := builder.NewCompanySnapshotBuilder().Build()
		svc := builder.NewServiceSnapshotBuilder().WithCompanyID(company.ID).Build()
		busy := builder.NewEmployeeDayBuilder().WithBusy(slot).Build()

		params := builder.NewBookingParamsBuilder().
			WithCompanyID(company.ID).
			WithServiceID(svc.ID).
			WithDate(date).
			WithStart(slot.Start).
			Build()

		f.reader.EXPECT().CompanyByID(gomock.Any(), company.ID).Return(company, nil)
		f.reader.EXPECT().ServiceByID(gomock.Any(), svc.ID).Return(svc, nil)
		f.reader.EXPECT().EmployeeDays(gomock.Any(), svc.ID, date).
			Return([]schedule.EmployeeDay{busy}, nil)

		_, err := f.commands.SubmitBooking(context.Background(), params, uuid.Nil)
		assert.ErrorIs(t, err, commands.ErrNoAvailability)
	})

	t.Run("off-grid start rejected", func(t *testing.T) {
		f := newBookingFixture(t)

		company := builder.NewCompanySnapshotBuilder().Build()
		svc := builder.NewServiceSnapshotBuilder().WithCompanyID(company.ID).Build()

		params := builder.NewBookingParamsBuilder().
			WithCompanyID(company.ID).
			WithServiceID(svc.ID).
			WithDate(date).
			WithStart(schedule.TimeOfDay(605)). // 10:05
			Build()

		f.reader.EXPECT().CompanyByID(gomock.Any(), company.ID).Return(company, nil)
		f.reader.EXPECT().ServiceByID(gomock.Any(), svc.ID).Return(svc, nil)

		_, err := f.commands.SubmitBooking(context.Background(), params, uuid.Nil)
		assert.ErrorIs(t, err, commands.ErrValidation)
	})

	t.Run("slot past closing rejected", func(t *testing.T) {
		f := newBookingFixture(t)

		company := builder.NewCompanySnapshotBuilder().Build() // closes 18:00
		svc := builder.NewServiceSnapshotBuilder().WithCompanyID(company.ID).WithDuration(90).Build()

		params := builder.NewBookingParamsBuilder().
			WithCompanyID(company.ID).
			WithServiceID(svc.ID).
			WithDate(date).
			WithStart(schedule.TimeOfDay(1050)). // 17:30 + 90min > 18:00
			Build()

		f.reader.EXPECT().CompanyByID(gomock.Any(), company.ID).Return(company, nil)
		f.reader.EXPECT().ServiceByID(gomock.Any(), svc.ID).Return(svc, nil)

		_, err := f.commands.SubmitBooking(context.Background(), params, uuid.Nil)
		assert.ErrorIs(t, err, commands.ErrValidation)
	})

	t.Run("invalid customer identity rejected before any read", func(t *testing.T) {
		f := newBookingFixture(t)

		params := builder.NewBookingParamsBuilder().
			WithCustomer("Jordan", "not-an-email", "").
			Build()

		_, err := f.commands.SubmitBooking(context.Background(), params, uuid.Nil)
		assert.ErrorIs(t, err, commands.ErrValidation)
	})

	t.Run("stale snapshot surfaces as slot conflict at commit", func(t *testing.T) {
		f := newBookingFixture(t)

		company := builder.NewCompanySnapshotBuilder().Build()
		svc := builder.NewServiceSnapshotBuilder().WithCompanyID(company.ID).Build()
		day := builder.NewEmployeeDayBuilder().Build()

		params := builder.NewBookingParamsBuilder().
			WithCompanyID(company.ID).
			WithServiceID(svc.ID).
			WithDate(date).
			WithStart(slot.Start).
			Build()

		f.reader.EXPECT().CompanyByID(gomock.Any(), company.ID).Return(company, nil)
		f.reader.EXPECT().ServiceByID(gomock.Any(), svc.ID).Return(svc, nil)
		f.reader.EXPECT().EmployeeDays(gomock.Any(), svc.ID, date).
			Return([]schedule.EmployeeDay{day}, nil)

		// Inside the transaction the slot is taken by now.
		taken := day
		taken.Busy = []schedule.Interval{slot}

		f.expectWithin()
		f.appointments.EXPECT().LockEmployee(gomock.Any(), day.EmployeeID).Return(nil)
		f.reads.EXPECT().EmployeeDay(gomock.Any(), day.EmployeeID, svc.ID, date).
			Return(&taken, nil)

		_, err := f.commands.SubmitBooking(context.Background(), params, uuid.Nil)
		assert.ErrorIs(t, err, commands.ErrSlotConflict)
	})

	t.Run("exclusion constraint violation maps to slot conflict", func(t *testing.T) {
		f := newBookingFixture(t)

		company := builder.NewCompanySnapshotBuilder().Build()
		svc := builder.NewServiceSnapshotBuilder().WithCompanyID(company.ID).Build()
		day := builder.NewEmployeeDayBuilder().Build()

		params := builder.NewBookingParamsBuilder().
			WithCompanyID(company.ID).
			WithServiceID(svc.ID).
			WithDate(date).
			WithStart(slot.Start).
			Build()

		f.reader.EXPECT().CompanyByID(gomock.Any(), company.ID).Return(company, nil)
		f.reader.EXPECT().ServiceByID(gomock.Any(), svc.ID).Return(svc, nil)
		f.reader.EXPECT().EmployeeDays(gomock.Any(), svc.ID, date).
			Return([]schedule.EmployeeDay{day}, nil)

		f.expectWithin()
		f.appointments.EXPECT().LockEmployee(gomock.Any(), day.EmployeeID).Return(nil)
		f.reads.EXPECT().EmployeeDay(gomock.Any(), day.EmployeeID, svc.ID, date).Return(&day, nil)
		f.customers.EXPECT().GetOrCreate(gomock.Any(), company.ID, gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&shared.CustomerRecord{ID: uuid.New()}, nil)
		f.appointments.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(uuid.Nil, infra.WrapRepoErr("overlap", nil, infra.KindConflict))

		_, err := f.commands.SubmitBooking(context.Background(), params, uuid.Nil)
		assert.ErrorIs(t, err, commands.ErrSlotConflict)
	})

	t.Run("customer resolution failure is marked", func(t *testing.T) {
		f := newBookingFixture(t)

		company := builder.NewCompanySnapshotBuilder().Build()
		svc := builder.NewServiceSnapshotBuilder().WithCompanyID(company.ID).Build()
		day := builder.NewEmployeeDayBuilder().Build()

		params := builder.NewBookingParamsBuilder().
			WithCompanyID(company.ID).
			WithServiceID(svc.ID).
			WithDate(date).
			WithStart(slot.Start).
			Build()

		f.reader.EXPECT().CompanyByID(gomock.Any(), company.ID).Return(company, nil)
		f.reader.EXPECT().ServiceByID(gomock.Any(), svc.ID).Return(svc, nil)
		f.reader.EXPECT().EmployeeDays(gomock.Any(), svc.ID, date).
			Return([]schedule.EmployeeDay{day}, nil)

		f.expectWithin()
		f.appointments.EXPECT().LockEmployee(gomock.Any(), day.EmployeeID).Return(nil)
		f.reads.EXPECT().EmployeeDay(gomock.Any(), day.EmployeeID, svc.ID, date).Return(&day, nil)
		f.customers.EXPECT().GetOrCreate(gomock.Any(), company.ID, gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, infra.WrapRepoErr("insert failed", nil, infra.KindDBFailure))

		_, err := f.commands.SubmitBooking(context.Background(), params, uuid.Nil)
		assert.ErrorIs(t, err, commands.ErrCustomerResolution)
	})

	t.Run("unknown company", func(t *testing.T) {
		f := newBookingFixture(t)
		params := builder.NewBookingParamsBuilder().Build()

		f.reader.EXPECT().CompanyByID(gomock.Any(), params.CompanyID).
			Return(nil, infra.WrapRepoErr("company not found", nil, infra.KindNotFound))

		_, err := f.commands.SubmitBooking(context.Background(), params, uuid.Nil)
		assert.ErrorIs(t, err, commands.ErrCompanyNotFound)
	})
}

func TestSubmitBookingIdempotency(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	slot := schedule.Interval{Start: schedule.TimeOfDay(600), End: schedule.TimeOfDay(660)}
	key := uuid.New()

	t.Run("fresh claim proceeds and marks completed", func(t *testing.T) {
		f := newBookingFixture(t)

		company := builder.NewCompanySnapshotBuilder().Build()
		svc := builder.NewServiceSnapshotBuilder().WithCompanyID(company.ID).Build()
		day := builder.NewEmployeeDayBuilder().Build()
		apptID := uuid.New()

		params := builder.NewBookingParamsBuilder().
			WithCompanyID(company.ID).
			WithServiceID(svc.ID).
			WithDate(date).
			WithStart(slot.Start).
			Build()

		f.idempotency.EXPECT().
			Claim(gomock.Any(), key, company.ID, gomock.Any(), gomock.Any(), gomock.Any()).
			Return(true, nil)
		f.reader.EXPECT().CompanyByID(gomock.Any(), company.ID).Return(company, nil)
		f.reader.EXPECT().ServiceByID(gomock.Any(), svc.ID).Return(svc, nil)
		f.reader.EXPECT().EmployeeDays(gomock.Any(), svc.ID, date).
			Return([]schedule.EmployeeDay{day}, nil)

		f.expectWithin()
		f.appointments.EXPECT().LockEmployee(gomock.Any(), day.EmployeeID).Return(nil)
		f.reads.EXPECT().EmployeeDay(gomock.Any(), day.EmployeeID, svc.ID, date).Return(&day, nil)
		f.customers.EXPECT().GetOrCreate(gomock.Any(), company.ID, gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&shared.CustomerRecord{ID: uuid.New()}, nil)
		f.appointments.EXPECT().Create(gomock.Any(), gomock.Any()).Return(apptID, nil)
		f.notifications.EXPECT().
			CreateJob(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)
		f.idemRepo.EXPECT().MarkCompleted(gomock.Any(), key, company.ID, apptID).Return(nil)
		f.cache.EXPECT().Invalidate(gomock.Any(), company.ID, svc.ID, date)

		result, err := f.commands.SubmitBooking(context.Background(), params, key)
		require.NoError(t, err)
		assert.Equal(t, apptID, result.AppointmentID)
	})

	t.Run("completed key replays the stored booking", func(t *testing.T) {
		f := newBookingFixture(t)

		params := builder.NewBookingParamsBuilder().WithDate(date).WithStart(slot.Start).Build()
		apptID := uuid.New()
		employeeID := uuid.New()
		customerID := uuid.New()

		f.idempotency.EXPECT().
			Claim(gomock.Any(), key, params.CompanyID, gomock.Any(), gomock.Any(), gomock.Any()).
			Return(false, nil)
		f.idempotency.EXPECT().Get(gomock.Any(), key, params.CompanyID).
			Return(&shared.IdempotencyRecord{
				Key:                 key,
				CompanyID:           params.CompanyID,
				Status:              "completed",
				ResultAppointmentID: &apptID,
			}, nil)
		f.reader.EXPECT().AppointmentByID(gomock.Any(), apptID).
			Return(&shared.AppointmentRecord{
				ID:         apptID,
				EmployeeID: employeeID,
				CustomerID: customerID,
				Slot:       slot,
			}, nil)

		result, err := f.commands.SubmitBooking(context.Background(), params, key)
		require.NoError(t, err)

		assert.True(t, result.IsReplayed)
		assert.Equal(t, apptID, result.AppointmentID)
		assert.Equal(t, employeeID, result.EmployeeID)
		assert.Equal(t, customerID, result.CustomerID)
	})

	t.Run("failed booking releases the claim", func(t *testing.T) {
		f := newBookingFixture(t)

		company := builder.NewCompanySnapshotBuilder().Build()
		svc := builder.NewServiceSnapshotBuilder().WithCompanyID(company.ID).Build()
		busy := builder.NewEmployeeDayBuilder().WithBusy(slot).Build()

		params := builder.NewBookingParamsBuilder().
			WithCompanyID(company.ID).
			WithServiceID(svc.ID).
			WithDate(date).
			WithStart(slot.Start).
			Build()

		f.idempotency.EXPECT().
			Claim(gomock.Any(), key, company.ID, gomock.Any(), gomock.Any(), gomock.Any()).
			Return(true, nil)
		f.reader.EXPECT().CompanyByID(gomock.Any(), company.ID).Return(company, nil)
		f.reader.EXPECT().ServiceByID(gomock.Any(), svc.ID).Return(svc, nil)
		f.reader.EXPECT().EmployeeDays(gomock.Any(), svc.ID, date).
			Return([]schedule.EmployeeDay{busy}, nil)
		f.idempotency.EXPECT().Release(gomock.Any(), key, company.ID).Return(nil)

		_, err := f.commands.SubmitBooking(context.Background(), params, key)
		assert.ErrorIs(t, err, commands.ErrNoAvailability)
	})

	t.Run("commit conflict releases the claim for a retry", func(t *testing.T) {
		f := newBookingFixture(t)

		company := builder.NewCompanySnapshotBuilder().Build()
		svc := builder.NewServiceSnapshotBuilder().WithCompanyID(company.ID).Build()
		day := builder.NewEmployeeDayBuilder().Build()

		params := builder.NewBookingParamsBuilder().
			WithCompanyID(company.ID).
			WithServiceID(svc.ID).
			WithDate(date).
			WithStart(slot.Start).
			Build()

		f.idempotency.EXPECT().
			Claim(gomock.Any(), key, company.ID, gomock.Any(), gomock.Any(), gomock.Any()).
			Return(true, nil)
		f.reader.EXPECT().CompanyByID(gomock.Any(), company.ID).Return(company, nil)
		f.reader.EXPECT().ServiceByID(gomock.Any(), svc.ID).Return(svc, nil)
		f.reader.EXPECT().EmployeeDays(gomock.Any(), svc.ID, date).
			Return([]schedule.EmployeeDay{day}, nil)

		taken := day
		taken.Busy = []schedule.Interval{slot}

		f.expectWithin()
		f.appointments.EXPECT().LockEmployee(gomock.Any(), day.EmployeeID).Return(nil)
		f.reads.EXPECT().EmployeeDay(gomock.Any(), day.EmployeeID, svc.ID, date).
			Return(&taken, nil)
		f.idempotency.EXPECT().Release(gomock.Any(), key, company.ID).Return(nil)

		_, err := f.commands.SubmitBooking(context.Background(), params, key)
		assert.ErrorIs(t, err, commands.ErrSlotConflict)
	})

	t.Run("processing key with same payload is in progress", func(t *testing.T) {
		f := newBookingFixture(t)
		params := builder.NewBookingParamsBuilder().WithDate(date).WithStart(slot.Start).Build()

		var seenHash string
		f.idempotency.EXPECT().
			Claim(gomock.Any(), key, params.CompanyID, gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _ uuid.UUID, _, requestHash string, _ time.Time) (bool, error) {
				seenHash = requestHash
				return false, nil
			})
		f.idempotency.EXPECT().Get(gomock.Any(), key, params.CompanyID).
			DoAndReturn(func(context.Context, uuid.UUID, uuid.UUID) (*shared.IdempotencyRecord, error) {
				return &shared.IdempotencyRecord{
					Key:         key,
					CompanyID:   params.CompanyID,
					Status:      "processing",
					RequestHash: seenHash,
				}, nil
			})

		_, err := f.commands.SubmitBooking(context.Background(), params, key)
		assert.ErrorIs(t, err, commands.ErrBookingInProgress)
	})

	t.Run("processing key with different payload is rejected", func(t *testing.T) {
		f := newBookingFixture(t)
		params := builder.NewBookingParamsBuilder().WithDate(date).WithStart(slot.Start).Build()

		f.idempotency.EXPECT().
			Claim(gomock.Any(), key, params.CompanyID, gomock.Any(), gomock.Any(), gomock.Any()).
			Return(false, nil)
		f.idempotency.EXPECT().Get(gomock.Any(), key, params.CompanyID).
			Return(&shared.IdempotencyRecord{
				Key:         key,
				CompanyID:   params.CompanyID,
				Status:      "processing",
				RequestHash: "some-other-request",
			}, nil)

		_, err := f.commands.SubmitBooking(context.Background(), params, key)
		assert.ErrorIs(t, err, commands.ErrIdempotencyKeyReused)
	})
}
