// Package hours evaluates weekly recurring opening-hours schedules.
// Schedules follow the Google Places periods shape: spans of an open
// marker and an optional close marker, weekdays indexed 0 (Sunday) to 6,
// times encoded as "HHMM" strings. Evaluation compares times as
// hour*100+minute integers so schedule strings and the current clock use
// the same encoding.
package hours

import (
	"strconv"
	"time"
)

// Status is the tri-state open determination for a business.
type Status int

const (
	// StatusUnknown means no schedule data is available. It is distinct
	// from a definite closed determination.
	StatusUnknown Status = iota
	// StatusOpen means some span of the schedule covers the current instant.
	StatusOpen
	// StatusClosed means a schedule exists and no span matches.
	StatusClosed
)

// String returns the status name for logs.
func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Marker is one endpoint of a span: a weekday plus a 24-hour clock time.
type Marker struct {
	Day  int    `json:"day"`  // 0=Sunday .. 6=Saturday
	Time string `json:"time"` // "HHMM", e.g. "0900"
}

// Span is a single weekly recurring open interval. A nil Close means the
// business counts as open throughout the open weekday.
type Span struct {
	Open  Marker  `json:"open"`
	Close *Marker `json:"close,omitempty"`
}

// Schedule is the full weekly schedule of a business.
type Schedule []Span

// NowInZone decomposes an instant in the given civil timezone into the
// weekday index and HHMM clock integer used by Evaluate.
func NowInZone(t time.Time, loc *time.Location) (weekday, clock int) {
	local := t.In(loc)
	return int(local.Weekday()), local.Hour()*100 + local.Minute()
}

// Evaluate determines the open status at the given weekday and HHMM
// clock. A nil or empty schedule is StatusUnknown. Malformed spans are
// skipped so one bad entry cannot poison the rest of the schedule; a
// schedule with no matching span is definitively StatusClosed.
func Evaluate(schedule Schedule, weekday, clock int) Status {
	if len(schedule) == 0 {
		return StatusUnknown
	}

	for _, span := range schedule {
		if spanMatches(span, weekday, clock) {
			return StatusOpen
		}
	}
	return StatusClosed
}

// spanMatches reports whether a single span covers the given instant.
func spanMatches(span Span, weekday, clock int) bool {
	openTime, ok := parseClock(span.Open.Time)
	if !ok || !validDay(span.Open.Day) {
		return false
	}

	// No close marker: open throughout the open weekday.
	if span.Close == nil {
		return weekday == span.Open.Day
	}

	closeTime, ok := parseClock(span.Close.Time)
	if !ok || !validDay(span.Close.Day) {
		return false
	}

	// Same-weekday span: half-open interval, the close minute is closed.
	if span.Open.Day == span.Close.Day {
		return weekday == span.Open.Day && clock >= openTime && clock < closeTime
	}

	// Cross-midnight span: unbounded after opening on the open weekday,
	// bounded by the close time on the close weekday.
	switch weekday {
	case span.Open.Day:
		return clock >= openTime
	case span.Close.Day:
		return clock < closeTime
	default:
		return false
	}
}

func validDay(day int) bool {
	return day >= 0 && day <= 6
}

// parseClock converts an "HHMM" string to an hour*100+minute integer.
func parseClock(s string) (int, bool) {
	if len(s) != 4 {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	if n/100 > 23 || n%100 > 59 {
		return 0, false
	}
	return n, true
}
