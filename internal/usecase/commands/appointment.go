package commands

import (
	"context"

	"bookline/internal/domain/appointment"
	"bookline/internal/infra"
	"bookline/internal/pkg/errs"
	"bookline/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrAppointmentNotFound = errs.New("appointment not found")
	ErrInvalidTransition   = errs.New("invalid appointment status transition")
)

type AppointmentCommands interface {
	// Complete marks a booked appointment as completed. companyID scopes
	// the lookup to the caller's company.
	Complete(ctx context.Context, id, companyID uuid.UUID) error
	// Cancel marks a booked appointment as cancelled, freeing its slot
	// for new bookings.
	Cancel(ctx context.Context, id, companyID uuid.UUID) error
}

type appointmentCommandsImpl struct {
	uow   shared.UnitOfWork
	cache SlotCacheInvalidator
}

func NewAppointmentCommands(uow shared.UnitOfWork, cache SlotCacheInvalidator) AppointmentCommands {
	return &appointmentCommandsImpl{uow: uow, cache: cache}
}

func (a *appointmentCommandsImpl) Complete(ctx context.Context, id, companyID uuid.UUID) error {
	// Completing does not free the slot, so no listing changes.
	_, err := a.transition(ctx, id, companyID, (*appointment.Appointment).Complete)
	return err
}

func (a *appointmentCommandsImpl) Cancel(ctx context.Context, id, companyID uuid.UUID) error {
	rec, err := a.transition(ctx, id, companyID, (*appointment.Appointment).Cancel)
	if err != nil {
		return err
	}
	if a.cache != nil {
		a.cache.Invalidate(ctx, rec.CompanyID, rec.ServiceID, rec.Date)
	}
	return nil
}

// transition loads the row under FOR UPDATE, runs the state machine on
// the reconstructed aggregate and writes the new status back. Both
// transitions share this shape; the aggregate decides legality. A row
// belonging to a different company reports as not found.
func (a *appointmentCommandsImpl) transition(ctx context.Context, id, companyID uuid.UUID, apply func(*appointment.Appointment) error) (*shared.AppointmentRecord, error) {
	var rec *shared.AppointmentRecord
	err := a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		rec, err = tx.Appointments().FindByIDForUpdate(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrAppointmentNotFound
			}
			return errs.Mark(err, ErrPersistence)
		}
		if rec.CompanyID != companyID {
			return ErrAppointmentNotFound
		}

		appt, err := appointment.ReconstructAppointment(
			rec.ID, rec.CompanyID, rec.ServiceID, rec.EmployeeID, rec.CustomerID,
			rec.Date, rec.Slot,
			appointment.Status(rec.Status),
			appointment.PaymentStatus(rec.PaymentStatus),
			rec.PriceCents, rec.Notes,
			rec.CreatedAt, rec.UpdatedAt,
		)
		if err != nil {
			return errs.Mark(err, ErrPersistence)
		}

		if err := apply(appt); err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}

		if err := tx.Appointments().UpdateStatus(ctx, id, appt.Status()); err != nil {
			return errs.Mark(err, ErrPersistence)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}
