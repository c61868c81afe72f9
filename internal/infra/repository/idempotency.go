package repository

import (
	"context"
	"time"

	"bookline/internal/infra"
	"bookline/internal/infra/db"
	"bookline/internal/pkg/pgconv"
	"bookline/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type IdempotencyRepository struct {
	db db.DBTX
}

func NewIdempotencyRepository(dbtx db.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{db: dbtx}
}

// Claim inserts the key, reclaiming an expired row in place. The
// RETURNING clause only yields a row when the insert or the reclaiming
// update took effect, so scanning it tells us whether we won. Losing to
// a concurrent request is not an error; the caller reads the winning
// row with Get and decides between replay and rejection.
func (r *IdempotencyRepository) Claim(ctx context.Context, key, companyID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	var claimed uuid.UUID
	err := r.db.QueryRow(ctx, `
		INSERT INTO idempotency_keys (key, company_id, endpoint, request_hash, status, expires_at)
		VALUES ($1, $2, $3, $4, 'processing', $5)
		ON CONFLICT (key, company_id) DO UPDATE
		SET endpoint = EXCLUDED.endpoint,
			request_hash = EXCLUDED.request_hash,
			status = 'processing',
			result_appointment_id = NULL,
			expires_at = EXCLUDED.expires_at
		WHERE idempotency_keys.expires_at <= now()
		RETURNING key
	`, key, companyID, endpoint, requestHash, pgconv.TimeToPgtype(expiresAt)).Scan(&claimed)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return false, nil
		}
		return false, infra.WrapRepoErr("failed to claim idempotency key", err)
	}
	return true, nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, key, companyID uuid.UUID) (*shared.IdempotencyRecord, error) {
	var (
		rec       shared.IdempotencyRecord
		resultID  pgtype.UUID
		expiresAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, `
		SELECT key, company_id, status, request_hash, result_appointment_id, expires_at
		FROM idempotency_keys
		WHERE key = $1 AND company_id = $2
	`, key, companyID).Scan(
		&rec.Key,
		&rec.CompanyID,
		&rec.Status,
		&rec.RequestHash,
		&resultID,
		&expiresAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}

	rec.ResultAppointmentID = pgconv.UUIDPtrFromPgtype(resultID)
	rec.ExpiresAt = pgconv.TimeFromPgtype(expiresAt)
	return &rec, nil
}

func (r *IdempotencyRepository) MarkCompleted(ctx context.Context, key, companyID uuid.UUID, resultAppointmentID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE idempotency_keys
		SET status = 'completed',
			result_appointment_id = $3
		WHERE key = $1 AND company_id = $2
	`, key, companyID, resultAppointmentID)
	if err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	return nil
}

// Release drops a claim whose booking failed, so the same key can be
// retried before the TTL runs out. The status guard keeps completed
// keys replayable.
func (r *IdempotencyRepository) Release(ctx context.Context, key, companyID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM idempotency_keys
		WHERE key = $1 AND company_id = $2 AND status = 'processing'
	`, key, companyID)
	if err != nil {
		return infra.WrapRepoErr("failed to release idempotency key", err)
	}
	return nil
}

// DeleteExpired backs the cron sweeper; runs outside any business
// transaction.
func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM idempotency_keys
		WHERE expires_at <= $1
	`, pgconv.TimeToPgtype(now))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency keys", err)
	}
	return tag.RowsAffected(), nil
}
