package repository

import (
	"context"

	"bookline/internal/domain/appointment"
	"bookline/internal/domain/schedule"
	"bookline/internal/infra"
	"bookline/internal/infra/db"
	"bookline/internal/pkg/pgconv"
	"bookline/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type AppointmentRepository struct {
	db db.DBTX
}

func NewAppointmentRepository(dbtx db.DBTX) *AppointmentRepository {
	return &AppointmentRepository{db: dbtx}
}

// LockEmployee serializes booking writes against one employee's
// calendar. Every committer locks before re-checking conflicts, so the
// read-check-insert sequence runs one writer at a time per employee;
// the exclusion constraint on appointments is the independent backstop.
func (r *AppointmentRepository) LockEmployee(ctx context.Context, employeeID uuid.UUID) error {
	var id uuid.UUID
	err := r.db.QueryRow(ctx, `
		SELECT id
		FROM employees
		WHERE id = $1
		FOR UPDATE
	`, employeeID).Scan(&id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return infra.WrapRepoErr("employee not found", err, infra.KindNotFound)
		}
		return infra.WrapRepoErr("failed to lock employee", err)
	}
	return nil
}

func (r *AppointmentRepository) Create(ctx context.Context, appt *appointment.Appointment) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx, `
		INSERT INTO appointments
			(id, company_id, service_id, employee_id, customer_id, date, start_time, end_time,
			 status, payment_status, price_cents, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`,
		appt.ID(),
		appt.CompanyID(),
		appt.ServiceID(),
		appt.EmployeeID(),
		appt.CustomerID(),
		pgconv.DateToPgtype(appt.Date()),
		pgconv.TimeOfDayToPgtype(appt.Slot().Start),
		pgconv.TimeOfDayToPgtype(appt.Slot().End),
		appt.Status().String(),
		appt.PaymentStatus().String(),
		appt.PriceCents(),
		appt.Notes(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create appointment", err)
	}
	return id, nil
}

func (r *AppointmentRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*shared.AppointmentRecord, error) {
	var (
		rec       shared.AppointmentRecord
		date      pgtype.Date
		startTime pgtype.Time
		endTime   pgtype.Time
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, company_id, service_id, employee_id, customer_id, date, start_time, end_time,
			status, payment_status, price_cents, notes, created_at, updated_at
		FROM appointments
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(
		&rec.ID,
		&rec.CompanyID,
		&rec.ServiceID,
		&rec.EmployeeID,
		&rec.CustomerID,
		&date,
		&startTime,
		&endTime,
		&rec.Status,
		&rec.PaymentStatus,
		&rec.PriceCents,
		&rec.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("appointment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find appointment for update", err)
	}

	rec.Date = pgconv.DateFromPgtype(date)
	rec.Slot = schedule.Interval{
		Start: pgconv.TimeOfDayFromPgtype(startTime),
		End:   pgconv.TimeOfDayFromPgtype(endTime),
	}
	rec.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	rec.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &rec, nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status appointment.Status) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE appointments
		SET status = $2,
			updated_at = now()
		WHERE id = $1
	`, id, status.String())
	if err != nil {
		return infra.WrapRepoErr("failed to update appointment status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("appointment not found", nil, infra.KindNotFound)
	}
	return nil
}
