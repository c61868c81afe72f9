package shared

import (
	"time"

	"bookline/internal/domain/schedule"

	"github.com/google/uuid"
)

// Write-side snapshots keep the command layer off the read-side view
// types (CQRS separation).

type CompanySnapshot struct {
	ID       uuid.UUID
	Name     string
	Grid     schedule.Grid
	TimeZone string
}

type ServiceSnapshot struct {
	ID          uuid.UUID
	CompanyID   uuid.UUID
	Name        string
	DurationMin int
	PriceCents  int64
	Active      bool
}

type CustomerRecord struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	Email     string
	Name      string
	Phone     string
	CreatedAt time.Time
}

type AppointmentRecord struct {
	ID            uuid.UUID
	CompanyID     uuid.UUID
	ServiceID     uuid.UUID
	EmployeeID    uuid.UUID
	CustomerID    uuid.UUID
	Date          time.Time
	Slot          schedule.Interval
	Status        string
	PaymentStatus string
	PriceCents    int64
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type IdempotencyRecord struct {
	Key                 uuid.UUID
	CompanyID           uuid.UUID
	Status              string
	RequestHash         string
	ResultAppointmentID *uuid.UUID
	ExpiresAt           time.Time
}
