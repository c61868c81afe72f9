package readstore

import (
	"context"
	"time"

	"bookline/internal/infra"
	"bookline/internal/pkg/pgconv"
	"bookline/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// FindByID joins the display names in so the API layer never has to
// fan out extra lookups for one appointment.
func (s *ReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AppointmentView, error) {
	var (
		view      queries.AppointmentView
		date      pgtype.Date
		startTime pgtype.Time
		endTime   pgtype.Time
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	err := s.db.QueryRow(ctx, `
		SELECT a.id, a.company_id, a.service_id, s.name, a.employee_id, e.name,
			a.customer_id, c.name, c.email,
			a.date, a.start_time, a.end_time,
			a.status, a.payment_status, a.price_cents, a.notes,
			a.created_at, a.updated_at
		FROM appointments a
		JOIN services s ON s.id = a.service_id
		JOIN employees e ON e.id = a.employee_id
		JOIN customers c ON c.id = a.customer_id
		WHERE a.id = $1
	`, id).Scan(
		&view.ID,
		&view.CompanyID,
		&view.ServiceID,
		&view.ServiceName,
		&view.EmployeeID,
		&view.EmployeeName,
		&view.CustomerID,
		&view.CustomerName,
		&view.CustomerEmail,
		&date,
		&startTime,
		&endTime,
		&view.Status,
		&view.PaymentStatus,
		&view.PriceCents,
		&view.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("appointment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get appointment view", err)
	}

	view.Date = pgconv.DateFromPgtype(date).Format(time.DateOnly)
	view.StartTime = pgconv.TimeOfDayFromPgtype(startTime).String()
	view.EndTime = pgconv.TimeOfDayFromPgtype(endTime).String()
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &view, nil
}
