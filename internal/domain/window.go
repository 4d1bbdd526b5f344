package domain

import "time"

// Window is a half-open time range [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// MonthWindow returns the calendar month containing asOf, evaluated in loc.
// A nil loc means UTC.
func MonthWindow(asOf time.Time, loc *time.Location) Window {
	if loc == nil {
		loc = time.UTC
	}
	local := asOf.In(loc)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// ParseMonth parses a YYYY-MM string into its window in loc.
func ParseMonth(s string, loc *time.Location) (Window, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation("2006-01", s, loc)
	if err != nil {
		return Window{}, err
	}
	return MonthWindow(t, loc), nil
}
