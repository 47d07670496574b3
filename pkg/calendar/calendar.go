package calendar

import "time"

// MonthStart returns midnight UTC on the first day of t's month. The reward
// pacer compares month starts across rollovers to detect pacing-window
// boundaries.
func MonthStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// SameMonth reports whether two timestamps fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return MonthStart(a).Equal(MonthStart(b))
}
