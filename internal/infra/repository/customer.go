package repository

import (
	"context"

	"bookline/internal/infra"
	"bookline/internal/infra/db"
	"bookline/internal/pkg/pgconv"
	"bookline/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CustomerRepository struct {
	db db.DBTX
}

func NewCustomerRepository(dbtx db.DBTX) *CustomerRepository {
	return &CustomerRepository{db: dbtx}
}

// GetOrCreate resolves the customer a booking is attributed to,
// creating the row on first contact. A bare select-then-insert races
// under concurrent first-time bookings, so the insert goes through the
// (company_id, email) unique constraint with DO NOTHING and the select
// afterward reads whichever insert won.
func (r *CustomerRepository) GetOrCreate(ctx context.Context, companyID uuid.UUID, email, name, phone string) (*shared.CustomerRecord, error) {
	_, err := r.db.Exec(ctx, `
		INSERT INTO customers (company_id, email, name, phone)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (company_id, email) DO NOTHING
	`, companyID, email, name, phone)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to insert customer", err)
	}

	var (
		rec       shared.CustomerRecord
		createdAt pgtype.Timestamptz
	)
	err = r.db.QueryRow(ctx, `
		SELECT id, company_id, email, name, phone, created_at
		FROM customers
		WHERE company_id = $1 AND email = $2
	`, companyID, email).Scan(
		&rec.ID,
		&rec.CompanyID,
		&rec.Email,
		&rec.Name,
		&rec.Phone,
		&createdAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("customer vanished after upsert", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to select customer", err)
	}

	rec.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	return &rec, nil
}
