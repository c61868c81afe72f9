package schedule

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidGrid     = errors.New("invalid slot grid")
	ErrInvalidDuration = errors.New("invalid service duration")
)

// Grid is a company's operating window and slot granularity. It comes
// from the company record, never from a constant.
type Grid struct {
	Open    TimeOfDay
	Close   TimeOfDay
	StepMin int
}

func NewGrid(open, close TimeOfDay, stepMin int) (Grid, error) {
	if !open.Valid() || close <= open || close > MinutesPerDay || stepMin <= 0 {
		return Grid{}, ErrInvalidGrid
	}
	return Grid{Open: open, Close: close, StepMin: stepMin}, nil
}

// Aligned reports whether t sits on the grid.
func (g Grid) Aligned(t TimeOfDay) bool {
	return t >= g.Open && (int(t-g.Open)%g.StepMin) == 0
}

// EmployeeDay is one eligible employee's calendar for a single date:
// the schedule windows covering that date and the busy intervals of
// non-cancelled appointments. Windows are independent availability
// periods; when several cover the same date their union is bookable,
// but a slot must fit entirely inside one window (no bridging gaps).
type EmployeeDay struct {
	EmployeeID uuid.UUID
	Windows    []Interval
	Busy       []Interval
}

// CanServe reports whether the employee can take the given interval:
// some window fully contains it and no busy interval overlaps it.
func (d EmployeeDay) CanServe(slot Interval) bool {
	inWindow := false
	for _, w := range d.Windows {
		if w.Contains(slot) {
			inWindow = true
			break
		}
	}
	if !inWindow {
		return false
	}
	return !Conflicts(slot, d.Busy)
}

// AvailableSlots enumerates candidate slot starts across the grid and
// keeps those bookable by at least one employee. The result is ordered
// and advisory: it reflects a snapshot that may be stale by the time a
// booking is submitted; the committer re-validates.
func AvailableSlots(grid Grid, durationMin int, days []EmployeeDay) ([]TimeOfDay, error) {
	if grid.StepMin <= 0 {
		return nil, ErrInvalidGrid
	}
	if durationMin <= 0 {
		return nil, ErrInvalidDuration
	}

	slots := make([]TimeOfDay, 0)
	for start := grid.Open; start < grid.Close; start = start.Add(grid.StepMin) {
		end := start.Add(durationMin)
		if end > grid.Close {
			break
		}
		slot := Interval{Start: start, End: end}
		for _, d := range days {
			if d.CanServe(slot) {
				slots = append(slots, start)
				break
			}
		}
	}
	return slots, nil
}

// FirstAvailable picks the employee that serves a booking when the
// customer expressed no preference: the first entry in days (already in
// the company's deterministic assignment order) that can serve the
// interval. Pure decision function; the committer re-validates the
// choice inside the transaction.
func FirstAvailable(days []EmployeeDay, slot Interval) (uuid.UUID, bool) {
	for _, d := range days {
		if d.CanServe(slot) {
			return d.EmployeeID, true
		}
	}
	return uuid.Nil, false
}
