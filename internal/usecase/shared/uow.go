package shared

import (
	"context"
	"time"

	"bookline/internal/domain/appointment"
	"bookline/internal/domain/schedule"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full transaction for write operations with retry on
	// serialization failures. The booking commit path runs here.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx exposes the transaction-scoped repositories. Everything obtained
// from one Tx shares a single database transaction; the commit-time
// conflict re-check and the appointment insert are atomic.
type Tx interface {
	Appointments() AppointmentRepository
	Customers() CustomerRepository
	Idempotency() IdempotencyRepository
	Notifications() NotificationRepository
	Reads() CommandReads
}

// CommandReads are the current-state reads the committer performs inside
// the transaction. They see rows as of the transaction, not the advisory
// snapshot the availability listing was computed from.
type CommandReads interface {
	CompanyByID(ctx context.Context, id uuid.UUID) (*CompanySnapshot, error)
	ServiceByID(ctx context.Context, id uuid.UUID) (*ServiceSnapshot, error)
	// EmployeeDay returns the employee's windows and non-cancelled busy
	// intervals for the date. Returns KindNotFound if the employee does
	// not exist, is hidden, or is not assigned to the service.
	EmployeeDay(ctx context.Context, employeeID, serviceID uuid.UUID, date time.Time) (*schedule.EmployeeDay, error)
}

type AppointmentRepository interface {
	// LockEmployee takes a row lock on the employee, serializing
	// concurrent booking writes for the same calendar.
	LockEmployee(ctx context.Context, employeeID uuid.UUID) error
	Create(ctx context.Context, appt *appointment.Appointment) (uuid.UUID, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*AppointmentRecord, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status appointment.Status) error
}

type CustomerRepository interface {
	// GetOrCreate is exactly-once per (companyID, email): the insert
	// races through the unique constraint and reselects on conflict.
	GetOrCreate(ctx context.Context, companyID uuid.UUID, email, name, phone string) (*CustomerRecord, error)
}

type IdempotencyRepository interface {
	// Claim inserts the key (or reclaims an expired one) and reports
	// whether this request won the claim. A false return means a live
	// row already exists; the caller reads it with Get and decides
	// between replay and rejection.
	Claim(ctx context.Context, key, companyID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	Get(ctx context.Context, key, companyID uuid.UUID) (*IdempotencyRecord, error)
	MarkCompleted(ctx context.Context, key, companyID uuid.UUID, resultAppointmentID uuid.UUID) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
}
