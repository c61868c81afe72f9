package schedule

// Overlaps is the single definition of "conflict" between two half-open
// intervals [aStart, aEnd) and [bStart, bEnd). An appointment ending
// exactly when another starts does not conflict. Every Go call site uses
// this predicate and the repository SQL mirrors it verbatim
// (start_time < $end AND end_time > $start); do not restate it inline.
func Overlaps(aStart, aEnd, bStart, bEnd TimeOfDay) bool {
	return aStart < bEnd && aEnd > bStart
}

// Conflicts reports whether candidate overlaps any of the given busy
// intervals.
func Conflicts(candidate Interval, busy []Interval) bool {
	for _, b := range busy {
		if Overlaps(candidate.Start, candidate.End, b.Start, b.End) {
			return true
		}
	}
	return false
}
