package jobs

import (
	"context"
	"log/slog"
	"time"

	"bookline/internal/infra/repository"
	"bookline/internal/pkg/clock"

	"github.com/robfig/cron/v3"
)

// Sweeper deletes expired idempotency keys on a schedule. Expired rows
// only waste space; correctness never depends on the sweep because the
// claim query reclaims expired keys in place.
type Sweeper struct {
	cron  *cron.Cron
	repo  *repository.IdempotencyRepository
	clk   clock.Clock
	sched string
}

func NewSweeper(repo *repository.IdempotencyRepository, clk clock.Clock, schedule string) *Sweeper {
	return &Sweeper{
		cron:  cron.New(),
		repo:  repo,
		clk:   clk,
		sched: schedule,
	}
}

func (s *Sweeper) Start() error {
	_, err := s.cron.AddFunc(s.sched, s.sweep)
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
	}
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deleted, err := s.repo.DeleteExpired(ctx, s.clk.Now())
	if err != nil {
		slog.Error("idempotency key sweep failed", "error", err)
		return
	}
	if deleted > 0 {
		slog.Info("swept expired idempotency keys", "deleted", deleted)
	}
}
