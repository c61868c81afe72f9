package commands

import (
	"context"
	"time"

	"bookline/internal/domain/schedule"
	"bookline/internal/usecase/shared"

	"github.com/google/uuid"
)

// SnapshotReader provides the advisory, non-locking reads the booking
// flow uses before entering the transaction. The same read store backs
// the availability queries; here it only informs the employee choice,
// which the committer re-validates against current rows.
type SnapshotReader interface {
	CompanyByID(ctx context.Context, id uuid.UUID) (*shared.CompanySnapshot, error)
	ServiceByID(ctx context.Context, id uuid.UUID) (*shared.ServiceSnapshot, error)
	EmployeeDays(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]schedule.EmployeeDay, error)
	AppointmentByID(ctx context.Context, id uuid.UUID) (*shared.AppointmentRecord, error)
}

// IdempotencyStore is the pool-backed (non-transactional) side of the
// idempotency protocol: the key is claimed before the booking
// transaction so a crash between claim and commit leaves a reclaimable
// 'processing' row, not a phantom booking.
type IdempotencyStore interface {
	Claim(ctx context.Context, key, companyID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	Get(ctx context.Context, key, companyID uuid.UUID) (*shared.IdempotencyRecord, error)
	// Release drops a still-processing claim after the booking failed,
	// so a retry with the same key is not locked out until the TTL.
	// Completed keys are never released.
	Release(ctx context.Context, key, companyID uuid.UUID) error
}

// SlotCacheInvalidator drops cached availability listings made stale by
// a committed write. A nil invalidator means no cache is configured.
type SlotCacheInvalidator interface {
	Invalidate(ctx context.Context, companyID, serviceID uuid.UUID, date time.Time)
}
