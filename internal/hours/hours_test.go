package hours

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marker(day int, clock string) Marker {
	return Marker{Day: day, Time: clock}
}

func span(open Marker, close *Marker) Span {
	return Span{Open: open, Close: close}
}

func closeAt(day int, clock string) *Marker {
	m := marker(day, clock)
	return &m
}

func TestEvaluateEmptySchedule(t *testing.T) {
	t.Parallel()
	assert.Equal(t, StatusUnknown, Evaluate(nil, 1, 1000))
	assert.Equal(t, StatusUnknown, Evaluate(Schedule{}, 1, 1000))
}

func TestEvaluateSameDaySpan(t *testing.T) {
	t.Parallel()
	schedule := Schedule{span(marker(1, "0900"), closeAt(1, "1700"))}

	tests := []struct {
		name    string
		weekday int
		clock   int
		want    Status
	}{
		{name: "mid-span", weekday: 1, clock: 1000, want: StatusOpen},
		{name: "exact opening minute", weekday: 1, clock: 900, want: StatusOpen},
		{name: "minute before close", weekday: 1, clock: 1659, want: StatusOpen},
		{name: "close minute is closed", weekday: 1, clock: 1700, want: StatusClosed},
		{name: "after close", weekday: 1, clock: 1800, want: StatusClosed},
		{name: "before open", weekday: 1, clock: 859, want: StatusClosed},
		{name: "wrong weekday", weekday: 2, clock: 1000, want: StatusClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Evaluate(schedule, tt.weekday, tt.clock))
		})
	}
}

func TestEvaluateCrossMidnightSpan(t *testing.T) {
	t.Parallel()
	// Friday 22:00 to Saturday 02:00.
	schedule := Schedule{span(marker(5, "2200"), closeAt(6, "0200"))}

	tests := []struct {
		name    string
		weekday int
		clock   int
		want    Status
	}{
		{name: "friday late evening", weekday: 5, clock: 2300, want: StatusOpen},
		{name: "friday at opening", weekday: 5, clock: 2200, want: StatusOpen},
		{name: "friday before opening", weekday: 5, clock: 2159, want: StatusClosed},
		{name: "saturday small hours", weekday: 6, clock: 100, want: StatusOpen},
		{name: "saturday at close", weekday: 6, clock: 200, want: StatusClosed},
		{name: "saturday after close", weekday: 6, clock: 300, want: StatusClosed},
		{name: "unrelated weekday", weekday: 3, clock: 2300, want: StatusClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Evaluate(schedule, tt.weekday, tt.clock))
		})
	}
}

func TestEvaluateCloselessSpan(t *testing.T) {
	t.Parallel()
	schedule := Schedule{span(marker(2, "0800"), nil)}

	assert.Equal(t, StatusOpen, Evaluate(schedule, 2, 1200))
	// Open for the stated weekday only, not 24/7.
	assert.Equal(t, StatusClosed, Evaluate(schedule, 3, 1200))
	assert.Equal(t, StatusClosed, Evaluate(schedule, 1, 1200))
}

func TestEvaluateMultipleSpans(t *testing.T) {
	t.Parallel()
	schedule := Schedule{
		span(marker(1, "0900"), closeAt(1, "1400")),
		span(marker(1, "1700"), closeAt(1, "2100")),
		span(marker(3, "0900"), closeAt(3, "1700")),
	}

	assert.Equal(t, StatusOpen, Evaluate(schedule, 1, 1000))
	assert.Equal(t, StatusClosed, Evaluate(schedule, 1, 1500)) // afternoon break
	assert.Equal(t, StatusOpen, Evaluate(schedule, 1, 1800))
	assert.Equal(t, StatusOpen, Evaluate(schedule, 3, 1200))
	assert.Equal(t, StatusClosed, Evaluate(schedule, 2, 1200))
}

func TestEvaluateSkipsMalformedSpans(t *testing.T) {
	t.Parallel()
	schedule := Schedule{
		span(marker(1, "9am"), closeAt(1, "1700")),   // unparseable open time
		span(marker(1, "0900"), closeAt(1, "2460")),  // invalid close minute
		span(marker(9, "0900"), closeAt(9, "1700")),  // weekday out of range
		span(marker(1, "0900"), closeAt(1, "1700")),  // the one valid span
	}

	assert.Equal(t, StatusOpen, Evaluate(schedule, 1, 1000))
	assert.Equal(t, StatusClosed, Evaluate(schedule, 2, 1000))
}

func TestEvaluateAllMalformedIsClosed(t *testing.T) {
	t.Parallel()
	// A schedule exists, so the result is a definite negative, not unknown.
	schedule := Schedule{span(marker(1, "nope"), nil)}
	assert.Equal(t, StatusClosed, Evaluate(schedule, 1, 1000))
}

func TestParseClock(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{in: "0000", want: 0, wantOK: true},
		{in: "0900", want: 900, wantOK: true},
		{in: "1405", want: 1405, wantOK: true},
		{in: "2359", want: 2359, wantOK: true},
		{in: "2400", wantOK: false},
		{in: "1260", wantOK: false},
		{in: "900", wantOK: false},
		{in: "09:0", wantOK: false},
		{in: "", wantOK: false},
		{in: "-100", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := parseClock(tt.in)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNowInZone(t *testing.T) {
	t.Parallel()
	taipei, err := time.LoadLocation("Asia/Taipei")
	require.NoError(t, err)

	// 2026-08-30 06:05 UTC is 14:05 the same Sunday in Taipei.
	instant := time.Date(2026, 8, 30, 6, 5, 0, 0, time.UTC)
	weekday, clock := NowInZone(instant, taipei)
	assert.Equal(t, 0, weekday)
	assert.Equal(t, 1405, clock)

	// 2026-08-29 18:30 UTC crosses into Sunday 02:30 in Taipei.
	instant = time.Date(2026, 8, 29, 18, 30, 0, 0, time.UTC)
	weekday, clock = NowInZone(instant, taipei)
	assert.Equal(t, 0, weekday)
	assert.Equal(t, 230, clock)
}
