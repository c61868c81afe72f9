package queries

import (
	"context"
	"time"

	"bookline/internal/domain/schedule"
	"bookline/internal/infra"
	"bookline/internal/pkg/errs"
	"bookline/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrCompanyNotFound = errs.New("company not found")
	ErrServiceNotFound = errs.New("service not found")
)

// AvailabilityReadStore supplies the advisory snapshot the calculator
// runs over. EmployeeDays returns the eligible (assigned + visible)
// employees in the company's deterministic assignment order.
type AvailabilityReadStore interface {
	CompanyByID(ctx context.Context, id uuid.UUID) (*shared.CompanySnapshot, error)
	ServiceByID(ctx context.Context, id uuid.UUID) (*shared.ServiceSnapshot, error)
	EmployeeDays(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]schedule.EmployeeDay, error)
}

// SlotCache is an optional read-through cache for listings, keyed by
// service day. The write side invalidates the day on commits that
// change availability; the cache owns the key format. A nil cache
// disables caching.
type SlotCache interface {
	Get(ctx context.Context, companyID, serviceID uuid.UUID, date time.Time) ([]string, bool)
	Set(ctx context.Context, companyID, serviceID uuid.UUID, date time.Time, slots []string)
}

type AvailabilityQueries interface {
	ListAvailableSlots(ctx context.Context, companyID, serviceID uuid.UUID, date time.Time) (*DaySlots, error)
}

type availabilityQueriesImpl struct {
	store AvailabilityReadStore
	cache SlotCache
}

func NewAvailabilityQueries(store AvailabilityReadStore, cache SlotCache) AvailabilityQueries {
	return &availabilityQueriesImpl{
		store: store,
		cache: cache,
	}
}

func (q *availabilityQueriesImpl) ListAvailableSlots(ctx context.Context, companyID, serviceID uuid.UUID, date time.Time) (*DaySlots, error) {
	company, err := q.store.CompanyByID(ctx, companyID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, errs.Wrap(err, "failed to load company")
	}

	svc, err := q.store.ServiceByID(ctx, serviceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, errs.Wrap(err, "failed to load service")
	}
	if svc.CompanyID != companyID || !svc.Active {
		return nil, ErrServiceNotFound
	}

	result := &DaySlots{
		CompanyID:   companyID,
		ServiceID:   serviceID,
		Date:        date.Format(time.DateOnly),
		DurationMin: svc.DurationMin,
	}

	if q.cache != nil {
		if slots, ok := q.cache.Get(ctx, companyID, serviceID, date); ok {
			result.Slots = slots
			return result, nil
		}
	}

	days, err := q.store.EmployeeDays(ctx, serviceID, date)
	if err != nil {
		return nil, errs.Wrap(err, "failed to load employee calendars")
	}

	starts, err := schedule.AvailableSlots(company.Grid, svc.DurationMin, days)
	if err != nil {
		return nil, errs.Wrap(err, "failed to compute available slots")
	}

	slots := make([]string, len(starts))
	for i, s := range starts {
		slots[i] = s.String()
	}
	result.Slots = slots

	if q.cache != nil {
		q.cache.Set(ctx, companyID, serviceID, date, slots)
	}
	return result, nil
}
