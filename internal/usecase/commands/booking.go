package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"bookline/internal/domain/appointment"
	"bookline/internal/domain/customer"
	"bookline/internal/domain/schedule"
	"bookline/internal/infra"
	"bookline/internal/pkg/clock"
	"bookline/internal/pkg/errs"
	"bookline/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrValidation             = errs.New("validation error")
	ErrCompanyNotFound        = errs.New("company not found")
	ErrServiceNotFound        = errs.New("service not found")
	ErrEmployeeNotEligible    = errs.New("employee not eligible for service")
	ErrNoAvailability         = errs.New("no employee available for requested time")
	ErrSlotConflict           = errs.New("slot taken by a concurrent booking")
	ErrCustomerResolution     = errs.New("customer resolution failed")
	ErrBookingInProgress      = errs.New("booking request in progress")
	ErrIdempotencyKeyReused   = errs.New("idempotency key reused with different request")
	ErrIdempotencyCheckFailed = errs.New("idempotency check failed")
	ErrPersistence            = errs.New("persistence failure")
)

const bookingEndpoint = "POST /bookings"

type SubmitBookingParams struct {
	CompanyID           uuid.UUID
	ServiceID           uuid.UUID
	Date                time.Time
	Start               schedule.TimeOfDay
	PreferredEmployeeID *uuid.UUID
	CustomerName        string
	CustomerEmail       string
	CustomerPhone       string
	Notes               string
	// Initial payment status as decided by the caller's payment method
	// policy; empty means pending.
	PaymentStatus string
}

type SubmitBookingResult struct {
	AppointmentID uuid.UUID
	EmployeeID    uuid.UUID
	CustomerID    uuid.UUID
	Slot          schedule.Interval
	IsReplayed    bool
}

type BookingCommands interface {
	// SubmitBooking resolves the serving employee and the customer, then
	// commits the appointment atomically, re-validating conflicts at
	// commit time. idempotencyKey may be uuid.Nil (no protection).
	SubmitBooking(ctx context.Context, params SubmitBookingParams, idempotencyKey uuid.UUID) (*SubmitBookingResult, error)
}

type bookingCommandsImpl struct {
	reader      SnapshotReader
	idempotency IdempotencyStore
	uow         shared.UnitOfWork
	cache       SlotCacheInvalidator
	clock       clock.Clock
	keyTTL      time.Duration
}

func NewBookingCommands(
	reader SnapshotReader,
	idempotency IdempotencyStore,
	uow shared.UnitOfWork,
	cache SlotCacheInvalidator,
	clk clock.Clock,
	keyTTL time.Duration,
) BookingCommands {
	return &bookingCommandsImpl{
		reader:      reader,
		idempotency: idempotency,
		uow:         uow,
		cache:       cache,
		clock:       clk,
		keyTTL:      keyTTL,
	}
}

func (b *bookingCommandsImpl) SubmitBooking(ctx context.Context, params SubmitBookingParams, idempotencyKey uuid.UUID) (*SubmitBookingResult, error) {
	// All input validation happens before any store access.
	identity, err := customer.NewIdentity(params.CustomerName, params.CustomerEmail, params.CustomerPhone)
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}
	if params.Date.IsZero() || !params.Start.Valid() {
		return nil, ErrValidation
	}

	if idempotencyKey != uuid.Nil {
		replayed, err := b.claimIdempotencyKey(ctx, params, idempotencyKey)
		if err != nil {
			return nil, err
		}
		if replayed != nil {
			return replayed, nil
		}
	}

	result, err := b.place(ctx, params, identity, idempotencyKey)
	if err != nil {
		// The claim is ours and the booking did not happen; release it
		// so the caller can refresh and retry with the same key. Best
		// effort, an unreleased claim only lasts until its TTL.
		if idempotencyKey != uuid.Nil {
			_ = b.idempotency.Release(ctx, idempotencyKey, params.CompanyID)
		}
		return nil, err
	}
	return result, nil
}

func (b *bookingCommandsImpl) place(ctx context.Context, params SubmitBookingParams, identity customer.Identity, idempotencyKey uuid.UUID) (*SubmitBookingResult, error) {
	company, svc, slot, err := b.resolveSlot(ctx, params)
	if err != nil {
		return nil, err
	}

	employeeID, err := b.resolveEmployee(ctx, params, slot)
	if err != nil {
		return nil, err
	}

	paymentStatus := appointment.PaymentStatus(params.PaymentStatus)
	if params.PaymentStatus == "" {
		paymentStatus = appointment.PaymentPending
	}
	if !paymentStatus.IsValid() {
		return nil, ErrValidation
	}

	return b.commit(ctx, company, svc, employeeID, identity, params, slot, paymentStatus, idempotencyKey)
}

// resolveSlot loads the company grid and service, and validates the
// requested start against them: on-grid and fully inside operating
// hours.
func (b *bookingCommandsImpl) resolveSlot(ctx context.Context, params SubmitBookingParams) (*shared.CompanySnapshot, *shared.ServiceSnapshot, schedule.Interval, error) {
	company, err := b.reader.CompanyByID(ctx, params.CompanyID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, schedule.Interval{}, ErrCompanyNotFound
		}
		return nil, nil, schedule.Interval{}, errs.Mark(err, ErrPersistence)
	}

	svc, err := b.reader.ServiceByID(ctx, params.ServiceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, schedule.Interval{}, ErrServiceNotFound
		}
		return nil, nil, schedule.Interval{}, errs.Mark(err, ErrPersistence)
	}
	if svc.CompanyID != params.CompanyID || !svc.Active {
		return nil, nil, schedule.Interval{}, ErrServiceNotFound
	}

	if !company.Grid.Aligned(params.Start) {
		return nil, nil, schedule.Interval{}, errs.Mark(errs.New("start time not on slot grid"), ErrValidation)
	}

	slot, err := schedule.NewInterval(params.Start, params.Start.Add(svc.DurationMin))
	if err != nil {
		return nil, nil, schedule.Interval{}, errs.Mark(err, ErrValidation)
	}
	if slot.End > company.Grid.Close {
		return nil, nil, schedule.Interval{}, errs.Mark(errs.New("slot extends past closing time"), ErrValidation)
	}

	return company, svc, slot, nil
}

// resolveEmployee picks the serving employee from the advisory
// snapshot: the preferred one when requested, otherwise the first fit
// in the deterministic assignment order. The committer re-validates the
// choice inside the transaction; a stale snapshot surfaces there as
// ErrSlotConflict, never as a double booking.
func (b *bookingCommandsImpl) resolveEmployee(ctx context.Context, params SubmitBookingParams, slot schedule.Interval) (uuid.UUID, error) {
	days, err := b.reader.EmployeeDays(ctx, params.ServiceID, params.Date)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrPersistence)
	}

	if params.PreferredEmployeeID != nil {
		for _, d := range days {
			if d.EmployeeID == *params.PreferredEmployeeID {
				if !d.CanServe(slot) {
					return uuid.Nil, ErrNoAvailability
				}
				return d.EmployeeID, nil
			}
		}
		return uuid.Nil, ErrEmployeeNotEligible
	}

	employeeID, ok := schedule.FirstAvailable(days, slot)
	if !ok {
		return uuid.Nil, ErrNoAvailability
	}
	return employeeID, nil
}

func (b *bookingCommandsImpl) commit(
	ctx context.Context,
	company *shared.CompanySnapshot,
	svc *shared.ServiceSnapshot,
	employeeID uuid.UUID,
	identity customer.Identity,
	params SubmitBookingParams,
	slot schedule.Interval,
	paymentStatus appointment.PaymentStatus,
	idempotencyKey uuid.UUID,
) (*SubmitBookingResult, error) {
	result := &SubmitBookingResult{
		EmployeeID: employeeID,
		Slot:       slot,
	}

	err := b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Serialize writers against this employee's calendar, then
		// re-check against current rows. The availability snapshot and
		// the assignment both may be stale by now.
		if err := tx.Appointments().LockEmployee(ctx, employeeID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrEmployeeNotEligible
			}
			return errs.Mark(err, ErrPersistence)
		}

		day, err := tx.Reads().EmployeeDay(ctx, employeeID, params.ServiceID, params.Date)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrEmployeeNotEligible
			}
			return errs.Mark(err, ErrPersistence)
		}
		if !day.CanServe(slot) {
			return ErrSlotConflict
		}

		cust, err := tx.Customers().GetOrCreate(ctx, params.CompanyID, identity.Email(), identity.Name(), identity.Phone())
		if err != nil {
			return errs.Mark(err, ErrCustomerResolution)
		}
		result.CustomerID = cust.ID

		appt, err := appointment.NewAppointment(
			params.CompanyID,
			appointment.ServiceSpec{ID: svc.ID, DurationMin: svc.DurationMin, PriceCents: svc.PriceCents},
			employeeID,
			cust.ID,
			params.Date,
			slot,
			paymentStatus,
			params.Notes,
		)
		if err != nil {
			return errs.Mark(err, ErrValidation)
		}

		apptID, err := tx.Appointments().Create(ctx, appt)
		if err != nil {
			// The exclusion constraint catches writers that slipped past
			// the row lock (e.g. rows inserted by a different code path).
			if infra.IsKind(err, infra.KindConflict) {
				return ErrSlotConflict
			}
			return errs.Mark(err, ErrPersistence)
		}
		result.AppointmentID = apptID

		if err := b.enqueueConfirmation(ctx, tx, company, apptID, identity); err != nil {
			return errs.Mark(err, ErrPersistence)
		}

		if idempotencyKey != uuid.Nil {
			if err := tx.Idempotency().MarkCompleted(ctx, idempotencyKey, params.CompanyID, apptID); err != nil {
				return errs.Mark(err, ErrPersistence)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The day's listing changed; drop it so the next read recomputes.
	if b.cache != nil {
		b.cache.Invalidate(ctx, params.CompanyID, params.ServiceID, params.Date)
	}
	return result, nil
}

// claimIdempotencyKey returns a non-nil result when the key has already
// completed and the stored booking should be replayed.
func (b *bookingCommandsImpl) claimIdempotencyKey(ctx context.Context, params SubmitBookingParams, key uuid.UUID) (*SubmitBookingResult, error) {
	requestHash := calculateRequestHash(params)
	expiresAt := b.clock.Now().Add(b.keyTTL)

	claimed, err := b.idempotency.Claim(ctx, key, params.CompanyID, bookingEndpoint, requestHash, expiresAt)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}
	if claimed {
		return nil, nil
	}

	existing, err := b.idempotency.Get(ctx, key, params.CompanyID)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}

	switch existing.Status {
	case "completed":
		if existing.ResultAppointmentID == nil {
			return nil, errs.Mark(errs.New("completed key missing result appointment"), ErrIdempotencyCheckFailed)
		}
		rec, err := b.reader.AppointmentByID(ctx, *existing.ResultAppointmentID)
		if err != nil {
			return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
		}
		return &SubmitBookingResult{
			AppointmentID: rec.ID,
			EmployeeID:    rec.EmployeeID,
			CustomerID:    rec.CustomerID,
			Slot:          rec.Slot,
			IsReplayed:    true,
		}, nil

	case "processing":
		if existing.RequestHash != requestHash {
			return nil, ErrIdempotencyKeyReused
		}
		return nil, ErrBookingInProgress

	default:
		return nil, errs.Mark(errs.New("invalid idempotency key status"), ErrIdempotencyCheckFailed)
	}
}

func calculateRequestHash(params SubmitBookingParams) string {
	data, _ := json.Marshal(map[string]any{
		"company_id": params.CompanyID,
		"service_id": params.ServiceID,
		"date":       params.Date.Format(time.DateOnly),
		"start":      params.Start.String(),
		"preferred":  params.PreferredEmployeeID,
		"email":      params.CustomerEmail,
		"name":       params.CustomerName,
		"phone":      params.CustomerPhone,
		"notes":      params.Notes,
		"pay_status": params.PaymentStatus,
	})
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func (b *bookingCommandsImpl) enqueueConfirmation(ctx context.Context, tx shared.Tx, company *shared.CompanySnapshot, apptID uuid.UUID, identity customer.Identity) error {
	payload, err := json.Marshal(map[string]any{
		"appointment_id": apptID,
		"company":        company.Name,
		"email":          identity.Email(),
		"type":           "booking_confirmed",
	})
	if err != nil {
		return err
	}
	return tx.Notifications().CreateJob(ctx, "email", "booking_confirmed", payload, b.clock.Now())
}
