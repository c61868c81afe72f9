package builder

import (
	"time"

	"bookline/internal/domain/schedule"
	"bookline/internal/usecase/commands"
	"bookline/internal/usecase/shared"

	"github.com/google/uuid"
)

// BookingParamsBuilder assembles valid SubmitBookingParams for tests;
// individual cases mutate one field at a time.
type BookingParamsBuilder struct {
	params commands.SubmitBookingParams
}

func NewBookingParamsBuilder() *BookingParamsBuilder {
	return &BookingParamsBuilder{
		params: commands.SubmitBookingParams{
			CompanyID:     uuid.New(),
			ServiceID:     uuid.New(),
			Date:          time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			Start:         schedule.TimeOfDay(600), // 10:00
			CustomerName:  "Jordan Lee",
			CustomerEmail: "jordan@example.com",
			CustomerPhone: "+1 555 0100",
		},
	}
}

func (b *BookingParamsBuilder) WithCompanyID(id uuid.UUID) *BookingParamsBuilder {
	b.params.CompanyID = id
	return b
}

func (b *BookingParamsBuilder) WithServiceID(id uuid.UUID) *BookingParamsBuilder {
	b.params.ServiceID = id
	return b
}

func (b *BookingParamsBuilder) WithDate(d time.Time) *BookingParamsBuilder {
	b.params.Date = d
	return b
}

func (b *BookingParamsBuilder) WithStart(start schedule.TimeOfDay) *BookingParamsBuilder {
	b.params.Start = start
	return b
}

func (b *BookingParamsBuilder) WithPreferredEmployee(id uuid.UUID) *BookingParamsBuilder {
	b.params.PreferredEmployeeID = &id
	return b
}

func (b *BookingParamsBuilder) WithCustomer(name, email, phone string) *BookingParamsBuilder {
	b.params.CustomerName = name
	b.params.CustomerEmail = email
	b.params.CustomerPhone = phone
	return b
}

func (b *BookingParamsBuilder) WithNotes(notes string) *BookingParamsBuilder {
	b.params.Notes = notes
	return b
}

func (b *BookingParamsBuilder) WithPaymentStatus(status string) *BookingParamsBuilder {
	b.params.PaymentStatus = status
	return b
}

func (b *BookingParamsBuilder) Build() commands.SubmitBookingParams {
	return b.params
}

// CompanySnapshotBuilder builds the write-side company snapshot with a
// standard 08:00-18:00 grid at 30 minute granularity.
type CompanySnapshotBuilder struct {
	snap shared.CompanySnapshot
}

func NewCompanySnapshotBuilder() *CompanySnapshotBuilder {
	grid, _ := schedule.NewGrid(schedule.TimeOfDay(480), schedule.TimeOfDay(1080), 30)
	return &CompanySnapshotBuilder{
		snap: shared.CompanySnapshot{
			ID:       uuid.New(),
			Name:     "Test Salon",
			Grid:     grid,
			TimeZone: "UTC",
		},
	}
}

func (b *CompanySnapshotBuilder) WithID(id uuid.UUID) *CompanySnapshotBuilder {
	b.snap.ID = id
	return b
}

func (b *CompanySnapshotBuilder) WithGrid(open, close schedule.TimeOfDay, step int) *CompanySnapshotBuilder {
	grid, _ := schedule.NewGrid(open, close, step)
	b.snap.Grid = grid
	return b
}

func (b *CompanySnapshotBuilder) Build() *shared.CompanySnapshot {
	return &b.snap
}

// ServiceSnapshotBuilder builds an active 60 minute service.
type ServiceSnapshotBuilder struct {
	snap shared.ServiceSnapshot
}

func NewServiceSnapshotBuilder() *ServiceSnapshotBuilder {
	return &ServiceSnapshotBuilder{
		snap: shared.ServiceSnapshot{
			ID:          uuid.New(),
			CompanyID:   uuid.New(),
			Name:        "Haircut",
			DurationMin: 60,
			PriceCents:  5000,
			Active:      true,
		},
	}
}

func (b *ServiceSnapshotBuilder) WithID(id uuid.UUID) *ServiceSnapshotBuilder {
	b.snap.ID = id
	return b
}

func (b *ServiceSnapshotBuilder) WithCompanyID(id uuid.UUID) *ServiceSnapshotBuilder {
	b.snap.CompanyID = id
	return b
}

func (b *ServiceSnapshotBuilder) WithDuration(min int) *ServiceSnapshotBuilder {
	b.snap.DurationMin = min
	return b
}

func (b *ServiceSnapshotBuilder) WithActive(active bool) *ServiceSnapshotBuilder {
	b.snap.Active = active
	return b
}

func (b *ServiceSnapshotBuilder) Build() *shared.ServiceSnapshot {
	return &b.snap
}

// EmployeeDayBuilder builds a calendar with one 09:00-18:00 window.
type EmployeeDayBuilder struct {
	day schedule.EmployeeDay
}

func NewEmployeeDayBuilder() *EmployeeDayBuilder {
	return &EmployeeDayBuilder{
		day: schedule.EmployeeDay{
			EmployeeID: uuid.New(),
			Windows: []schedule.Interval{
				{Start: schedule.TimeOfDay(540), End: schedule.TimeOfDay(1080)},
			},
		},
	}
}

func (b *EmployeeDayBuilder) WithEmployeeID(id uuid.UUID) *EmployeeDayBuilder {
	b.day.EmployeeID = id
	return b
}

func (b *EmployeeDayBuilder) WithWindows(windows ...schedule.Interval) *EmployeeDayBuilder {
	b.day.Windows = windows
	return b
}

func (b *EmployeeDayBuilder) WithBusy(busy ...schedule.Interval) *EmployeeDayBuilder {
	b.day.Busy = busy
	return b
}

func (b *EmployeeDayBuilder) Build() schedule.EmployeeDay {
	return b.day
}
