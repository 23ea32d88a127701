/*
Package clock provides wall-clock time arithmetic for daily work periods.

PURPOSE:
  Everything in the time accounting engine is computed from "HH:MM" clock
  strings entered by a user: period durations, overall day spans, break gaps.
  This package owns that primitive layer so the higher-level calculators can
  work in plain minutes without re-parsing strings.

KEY CONCEPTS:
  - ClockTime: minutes since midnight (0..1439). Same-day only, no dates.
  - Period:    a single start/end interval within one day. End must be
               strictly after Start; periods never wrap past midnight.
  - MergeSpan: the envelope of several periods (earliest start, latest end).
               Overlap and gaps between periods are legal at this layer;
               what they mean is decided by the day calculator.

USAGE:
  start, _ := clock.Parse("09:00")
  end, _   := clock.Parse("17:30")
  p := clock.Period{Start: start, End: end}
  minutes, _ := p.Duration() // 510

SEE ALSO:
  - workday: consumes periods to compute presence, work and break time
  - report:  uses MergeSpan to reconstruct day spans for display
*/
package clock

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrInvalidTimeFormat is returned for clock strings that are not a
	// parsable "HH:MM" within 00:00..23:59.
	ErrInvalidTimeFormat = errors.New("invalid time format")

	// ErrInvalidPeriod is returned when a period's end is not after its start.
	ErrInvalidPeriod = errors.New("invalid period: end not after start")
)

// TimeFormatError carries the offending input alongside ErrInvalidTimeFormat.
type TimeFormatError struct {
	Input string
}

func (e *TimeFormatError) Error() string {
	return fmt.Sprintf("invalid time format %q: want HH:MM in 00:00..23:59", e.Input)
}

func (e *TimeFormatError) Unwrap() error { return ErrInvalidTimeFormat }

// PeriodError carries the offending bounds alongside ErrInvalidPeriod.
type PeriodError struct {
	Start ClockTime
	End   ClockTime
}

func (e *PeriodError) Error() string {
	return fmt.Sprintf("invalid period %s-%s: end must be after start", e.Start, e.End)
}

func (e *PeriodError) Unwrap() error { return ErrInvalidPeriod }

// =============================================================================
// CLOCK TIME - minutes since midnight
// =============================================================================

type ClockTime int

const minutesPerDay = 24 * 60

// Parse converts an "HH:MM" string into a ClockTime.
func Parse(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, &TimeFormatError{Input: s}
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, &TimeFormatError{Input: s}
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, &TimeFormatError{Input: s}
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, &TimeFormatError{Input: s}
	}
	return ClockTime(hour*60 + minute), nil
}

func (t ClockTime) Hour() int    { return int(t) / 60 }
func (t ClockTime) Minute() int  { return int(t) % 60 }
func (t ClockTime) Minutes() int { return int(t) }

func (t ClockTime) Valid() bool { return t >= 0 && t < minutesPerDay }

// String renders the canonical "HH:MM" form.
func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// =============================================================================
// PERIOD - a single work interval within one day
// =============================================================================

type Period struct {
	Start ClockTime
	End   ClockTime
}

// ParsePeriod builds a validated Period from two "HH:MM" strings.
func ParsePeriod(start, end string) (Period, error) {
	s, err := Parse(start)
	if err != nil {
		return Period{}, err
	}
	e, err := Parse(end)
	if err != nil {
		return Period{}, err
	}
	p := Period{Start: s, End: e}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// Validate checks the end-after-start invariant.
func (p Period) Validate() error {
	if !p.Start.Valid() || !p.End.Valid() {
		return &TimeFormatError{Input: fmt.Sprintf("%d..%d", p.Start, p.End)}
	}
	if p.End <= p.Start {
		return &PeriodError{Start: p.Start, End: p.End}
	}
	return nil
}

// Duration returns the period length in minutes.
func (p Period) Duration() (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	return int(p.End - p.Start), nil
}

func (p Period) String() string {
	return p.Start.String() + "-" + p.End.String()
}

// =============================================================================
// SPAN OPERATIONS
// =============================================================================

// SortByStart returns a copy of periods ordered by ascending start time.
func SortByStart(periods []Period) []Period {
	sorted := make([]Period, len(periods))
	copy(sorted, periods)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	return sorted
}

// MergeSpan returns the envelope of the given periods: earliest start to
// latest end. Overlap between periods is not an error here. The second
// return is false when no periods are given.
func MergeSpan(periods []Period) (Period, bool) {
	if len(periods) == 0 {
		return Period{}, false
	}
	span := periods[0]
	for _, p := range periods[1:] {
		if p.Start < span.Start {
			span.Start = p.Start
		}
		if p.End > span.End {
			span.End = p.End
		}
	}
	return span, true
}

// SumDurations returns the total length of all periods in minutes.
// Overlapping stretches are counted once per period, not de-duplicated.
func SumDurations(periods []Period) (int, error) {
	total := 0
	for _, p := range periods {
		d, err := p.Duration()
		if err != nil {
			return 0, err
		}
		total += d
	}
	return total, nil
}
