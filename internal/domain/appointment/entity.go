package appointment

import (
	"errors"
	"time"

	"bookline/internal/domain/schedule"

	"github.com/google/uuid"
)

var (
	ErrDurationMismatch     = errors.New("slot length does not match service duration")
	ErrInvalidStatus        = errors.New("invalid appointment status")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrAlreadyCompleted     = errors.New("appointment is already completed")
	ErrAlreadyCancelled     = errors.New("appointment is already cancelled")
)

// ServiceSpec is the write-side snapshot of the booked service. The
// duration is captured here at booking time; later edits to the service
// never alter existing appointments.
type ServiceSpec struct {
	ID          uuid.UUID
	DurationMin int
	PriceCents  int64
}

type Appointment struct {
	id            uuid.UUID
	companyID     uuid.UUID
	serviceID     uuid.UUID
	employeeID    uuid.UUID
	customerID    uuid.UUID
	date          time.Time
	slot          schedule.Interval
	status        Status
	paymentStatus PaymentStatus
	priceCents    int64
	notes         string
	createdAt     time.Time
	updatedAt     time.Time
}

// NewAppointment builds a booked appointment for the given slot. The
// slot must be exactly the service duration long; employee availability
// is not checked here, that is the committer's transactional concern.
func NewAppointment(
	companyID uuid.UUID,
	svc ServiceSpec,
	employeeID uuid.UUID,
	customerID uuid.UUID,
	date time.Time,
	slot schedule.Interval,
	paymentStatus PaymentStatus,
	notes string,
) (*Appointment, error) {
	if slot.DurationMin() != svc.DurationMin {
		return nil, ErrDurationMismatch
	}
	if !paymentStatus.IsValid() {
		return nil, ErrInvalidPaymentStatus
	}

	return &Appointment{
		id:            uuid.New(),
		companyID:     companyID,
		serviceID:     svc.ID,
		employeeID:    employeeID,
		customerID:    customerID,
		date:          date,
		slot:          slot,
		status:        StatusBooked,
		paymentStatus: paymentStatus,
		priceCents:    svc.PriceCents,
		notes:         notes,
	}, nil
}

func ReconstructAppointment(
	id, companyID, serviceID, employeeID, customerID uuid.UUID,
	date time.Time,
	slot schedule.Interval,
	status Status,
	paymentStatus PaymentStatus,
	priceCents int64,
	notes string,
	createdAt, updatedAt time.Time,
) (*Appointment, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if !paymentStatus.IsValid() {
		return nil, ErrInvalidPaymentStatus
	}
	return &Appointment{
		id:            id,
		companyID:     companyID,
		serviceID:     serviceID,
		employeeID:    employeeID,
		customerID:    customerID,
		date:          date,
		slot:          slot,
		status:        status,
		paymentStatus: paymentStatus,
		priceCents:    priceCents,
		notes:         notes,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}, nil
}

// Complete moves booked → completed. Completed and cancelled are
// terminal; callers go through this method, never raw status writes.
func (a *Appointment) Complete() error {
	switch a.status {
	case StatusCompleted:
		return ErrAlreadyCompleted
	case StatusCancelled:
		return ErrAlreadyCancelled
	}
	a.status = StatusCompleted
	return nil
}

// Cancel moves booked → cancelled. Cancelling does not touch
// paymentStatus; refunds are an external concern.
func (a *Appointment) Cancel() error {
	switch a.status {
	case StatusCompleted:
		return ErrAlreadyCompleted
	case StatusCancelled:
		return ErrAlreadyCancelled
	}
	a.status = StatusCancelled
	return nil
}

func (a *Appointment) IsActive() bool {
	return a.status == StatusBooked
}

func (a *Appointment) ID() uuid.UUID                { return a.id }
func (a *Appointment) CompanyID() uuid.UUID         { return a.companyID }
func (a *Appointment) ServiceID() uuid.UUID         { return a.serviceID }
func (a *Appointment) EmployeeID() uuid.UUID        { return a.employeeID }
func (a *Appointment) CustomerID() uuid.UUID        { return a.customerID }
func (a *Appointment) Date() time.Time              { return a.date }
func (a *Appointment) Slot() schedule.Interval      { return a.slot }
func (a *Appointment) Status() Status               { return a.status }
func (a *Appointment) PaymentStatus() PaymentStatus { return a.paymentStatus }
func (a *Appointment) PriceCents() int64            { return a.priceCents }
func (a *Appointment) Notes() string                { return a.notes }
func (a *Appointment) CreatedAt() time.Time         { return a.createdAt }
func (a *Appointment) UpdatedAt() time.Time         { return a.updatedAt }
