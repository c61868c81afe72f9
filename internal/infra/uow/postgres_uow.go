package uow

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"bookline/internal/infra"
	"bookline/internal/infra/readstore"
	"bookline/internal/infra/repository"
	"bookline/internal/usecase/shared"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	maxRetries   = 3
	baseBackoff  = 10 * time.Millisecond
	maxJitterMs  = 20
	pgSerialFail = "40001"
	pgDeadlock   = "40P01"
)

type PostgresUnitOfWork struct {
	pool *pgxpool.Pool
}

func NewPostgresUnitOfWork(pool *pgxpool.Pool) *PostgresUnitOfWork {
	return &PostgresUnitOfWork{pool: pool}
}

// Within runs fn in a read-committed transaction. Serialization
// failures and deadlocks retry with jittered backoff; business errors
// abort immediately. Row locks taken by fn give per-employee write
// serialization, so read committed is enough here.
func (u *PostgresUnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepBackoff(ctx, attempt); err != nil {
				return err
			}
		}

		err := u.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		lastErr = err
	}
	return errors.Wrap(lastErr, "transaction retries exhausted")
}

func (u *PostgresUnitOfWork) runOnce(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	pgtx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return infra.WrapRepoErr("failed to begin transaction", err)
	}
	defer func() {
		_ = pgtx.Rollback(ctx)
	}()

	if err := fn(ctx, newTx(pgtx)); err != nil {
		return err
	}

	if err := pgtx.Commit(ctx); err != nil {
		return infra.WrapRepoErr("failed to commit transaction", err)
	}
	return nil
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerialFail || pgErr.Code == pgDeadlock
	}
	return false
}

func sleepBackoff(ctx context.Context, attempt int) error {
	backoff := baseBackoff * time.Duration(1<<uint(attempt-1))
	if n, err := rand.Int(rand.Reader, big.NewInt(maxJitterMs)); err == nil {
		backoff += time.Duration(n.Int64()) * time.Millisecond
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(backoff):
		return nil
	}
}

// pgTx hands out transaction-scoped repositories lazily; everything
// shares the one pgx.Tx underneath.
type pgTx struct {
	tx pgx.Tx

	appointments  *repository.AppointmentRepository
	customers     *repository.CustomerRepository
	idempotency   *repository.IdempotencyRepository
	notifications *repository.NotificationRepository
	reads         *readstore.ReadStore
}

func newTx(tx pgx.Tx) shared.Tx {
	return &pgTx{tx: tx}
}

func (t *pgTx) Appointments() shared.AppointmentRepository {
	if t.appointments == nil {
		t.appointments = repository.NewAppointmentRepository(t.tx)
	}
	return t.appointments
}

func (t *pgTx) Customers() shared.CustomerRepository {
	if t.customers == nil {
		t.customers = repository.NewCustomerRepository(t.tx)
	}
	return t.customers
}

func (t *pgTx) Idempotency() shared.IdempotencyRepository {
	if t.idempotency == nil {
		t.idempotency = repository.NewIdempotencyRepository(t.tx)
	}
	return t.idempotency
}

func (t *pgTx) Notifications() shared.NotificationRepository {
	if t.notifications == nil {
		t.notifications = repository.NewNotificationRepository(t.tx)
	}
	return t.notifications
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.reads == nil {
		t.reads = readstore.NewReadStore(t.tx)
	}
	return t.reads
}
