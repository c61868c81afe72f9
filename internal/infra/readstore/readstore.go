package readstore

import (
	"context"
	"time"

	"bookline/internal/domain/schedule"
	"bookline/internal/infra"
	"bookline/internal/infra/db"
	"bookline/internal/pkg/pgconv"
	"bookline/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// ReadStore serves the read side over a pool or an open transaction.
// The pool-backed instance feeds the availability queries and the
// advisory snapshot before a booking; a tx-backed instance gives the
// committer current-state reads inside its transaction.
type ReadStore struct {
	db db.DBTX
}

func NewReadStore(dbtx db.DBTX) *ReadStore {
	return &ReadStore{db: dbtx}
}

func (s *ReadStore) CompanyByID(ctx context.Context, id uuid.UUID) (*shared.CompanySnapshot, error) {
	var (
		snap      shared.CompanySnapshot
		openTime  pgtype.Time
		closeTime pgtype.Time
		stepMin   int
	)
	err := s.db.QueryRow(ctx, `
		SELECT id, name, open_time, close_time, slot_granularity_min, timezone
		FROM companies
		WHERE id = $1
	`, id).Scan(&snap.ID, &snap.Name, &openTime, &closeTime, &stepMin, &snap.TimeZone)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("company not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get company", err)
	}

	grid, err := schedule.NewGrid(
		pgconv.TimeOfDayFromPgtype(openTime),
		pgconv.TimeOfDayFromPgtype(closeTime),
		stepMin,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("company has invalid slot grid", err)
	}
	snap.Grid = grid
	return &snap, nil
}

func (s *ReadStore) ServiceByID(ctx context.Context, id uuid.UUID) (*shared.ServiceSnapshot, error) {
	var snap shared.ServiceSnapshot
	err := s.db.QueryRow(ctx, `
		SELECT id, company_id, name, duration_min, price_cents, active
		FROM services
		WHERE id = $1
	`, id).Scan(&snap.ID, &snap.CompanyID, &snap.Name, &snap.DurationMin, &snap.PriceCents, &snap.Active)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("service not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get service", err)
	}
	return &snap, nil
}

// EmployeeDays loads the day view for every visible employee assigned
// to the service, in assignment order. Order decides who serves a slot
// when no employee is requested, so it must be stable across calls:
// priority first, then assignment age, then id.
func (s *ReadStore) EmployeeDays(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]schedule.EmployeeDay, error) {
	rows, err := s.db.Query(ctx, `
		SELECT e.id
		FROM employees e
		JOIN employee_services es ON es.employee_id = e.id
		WHERE es.service_id = $1 AND e.visible
		ORDER BY es.priority ASC, es.assigned_at ASC, e.id ASC
	`, serviceID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list eligible employees", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan employee id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list eligible employees", err)
	}

	days := make([]schedule.EmployeeDay, 0, len(ids))
	for _, id := range ids {
		day, err := s.loadDay(ctx, id, date)
		if err != nil {
			return nil, err
		}
		days = append(days, *day)
	}
	return days, nil
}

// EmployeeDay is the single-employee variant the committer re-checks
// against inside the transaction. KindNotFound covers missing, hidden
// and unassigned employees alike.
func (s *ReadStore) EmployeeDay(ctx context.Context, employeeID, serviceID uuid.UUID, date time.Time) (*schedule.EmployeeDay, error) {
	var id uuid.UUID
	err := s.db.QueryRow(ctx, `
		SELECT e.id
		FROM employees e
		JOIN employee_services es ON es.employee_id = e.id
		WHERE e.id = $1 AND es.service_id = $2 AND e.visible
	`, employeeID, serviceID).Scan(&id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("employee not eligible for service", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to check employee eligibility", err)
	}
	return s.loadDay(ctx, employeeID, date)
}

// loadDay gathers working windows and busy intervals for one employee
// on one date. Windows match on weekday within their effective range;
// busy intervals are all non-cancelled appointments that day.
func (s *ReadStore) loadDay(ctx context.Context, employeeID uuid.UUID, date time.Time) (*schedule.EmployeeDay, error) {
	day := &schedule.EmployeeDay{EmployeeID: employeeID}
	pgDate := pgconv.DateToPgtype(date)

	windows, err := s.queryIntervals(ctx, `
		SELECT start_time, end_time
		FROM schedule_windows
		WHERE employee_id = $1
			AND weekday = $2
			AND effective_from <= $3
			AND (effective_until IS NULL OR effective_until >= $3)
		ORDER BY start_time ASC
	`, employeeID, int(date.Weekday()), pgDate)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load schedule windows", err)
	}
	day.Windows = windows

	busy, err := s.queryIntervals(ctx, `
		SELECT start_time, end_time
		FROM appointments
		WHERE employee_id = $1
			AND date = $2
			AND status <> 'cancelled'
		ORDER BY start_time ASC
	`, employeeID, pgDate)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load booked intervals", err)
	}
	day.Busy = busy

	return day, nil
}

func (s *ReadStore) queryIntervals(ctx context.Context, sql string, args ...any) ([]schedule.Interval, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []schedule.Interval
	for rows.Next() {
		var start, end pgtype.Time
		if err := rows.Scan(&start, &end); err != nil {
			return nil, err
		}
		out = append(out, schedule.Interval{
			Start: pgconv.TimeOfDayFromPgtype(start),
			End:   pgconv.TimeOfDayFromPgtype(end),
		})
	}
	return out, rows.Err()
}

func (s *ReadStore) AppointmentByID(ctx context.Context, id uuid.UUID) (*shared.AppointmentRecord, error) {
	var (
		rec       shared.AppointmentRecord
		date      pgtype.Date
		startTime pgtype.Time
		endTime   pgtype.Time
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	err := s.db.QueryRow(ctx, `
		SELECT id, company_id, service_id, employee_id, customer_id, date, start_time, end_time,
			status, payment_status, price_cents, notes, created_at, updated_at
		FROM appointments
		WHERE id = $1
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
		return nil, infra.WrapRepoErr("failed to get appointment", err)
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
