/*
Package workday turns raw clock-in/clock-out entries for a single day into
validated work-time, break-time, overtime and labor-law compliance figures.

PURPOSE:
  This is the core of the time accounting engine. One DayEntry (up to three
  start/end periods) goes in, one immutable DayComputation comes out. The
  package also owns duplicate-entry consolidation for an (employee, date).

KEY CONCEPTS:
  - Present time: first start to last end, including gaps between periods.
  - Worked time:  sum of all period durations, excluding gaps.
  - Break time:   present minus worked (the gaps, i.e. lunch windows).
  - Break deficit: shortfall against the statutory minimum break.
  - Overtime:    credited hours beyond the contractual daily baseline.

DESIGN:
  All computations are pure functions over explicit inputs: periods, the
  daily baseline and a compliance.Config. Internal arithmetic runs in whole
  minutes; hour values are converted to decimals and rounded to two places
  only at the output boundary.

SEE ALSO:
  - clock:      period parsing and span arithmetic
  - compliance: break tiers and the daily ceiling
  - summary:    aggregates day records into period summaries
*/
package workday

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/timecard-engine/clock"
)

// DateLayout is the wire format for day-record dates.
const DateLayout = "2006-01-02"

// MaxPeriodsPerDay bounds the number of work periods a single day can carry.
const MaxPeriodsPerDay = 3

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrTooManyPeriods is returned when an entry carries more than
	// MaxPeriodsPerDay periods.
	ErrTooManyPeriods = errors.New("too many periods for one day")

	// ErrUnknownRecordType is returned for record types outside the
	// work/vacation/sick/holiday set.
	ErrUnknownRecordType = errors.New("unknown record type")

	// ErrInvalidDate is returned for dates that are not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")
)

// ComputeError annotates a per-day computation failure with the employee
// and date so callers can surface a user-facing message.
type ComputeError struct {
	EmployeeID string
	Date       time.Time
	Err        error
}

func (e *ComputeError) Error() string {
	return fmt.Sprintf("day computation for employee %s on %s: %v",
		e.EmployeeID, e.Date.Format(DateLayout), e.Err)
}

func (e *ComputeError) Unwrap() error { return e.Err }

// IsClientError returns true if the error is due to invalid entry input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrTooManyPeriods) ||
		errors.Is(err, ErrUnknownRecordType) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, clock.ErrInvalidTimeFormat) ||
		errors.Is(err, clock.ErrInvalidPeriod)
}

// =============================================================================
// RECORD TYPE
// =============================================================================

type RecordType string

const (
	RecordWork     RecordType = "work"
	RecordVacation RecordType = "vacation"
	RecordSick     RecordType = "sick"
	RecordHoliday  RecordType = "holiday"
)

// Priority ranks record types for duplicate consolidation. Lower wins:
// a day that is both "work" and "vacation" is a work day.
func (t RecordType) Priority() int {
	switch t {
	case RecordWork:
		return 1
	case RecordHoliday:
		return 2
	case RecordSick:
		return 3
	case RecordVacation:
		return 4
	default:
		return 5
	}
}

func (t RecordType) Valid() bool {
	switch t {
	case RecordWork, RecordVacation, RecordSick, RecordHoliday:
		return true
	default:
		return false
	}
}

// =============================================================================
// DAY ENTRY - raw user input for one employee, one date
// =============================================================================

type DayEntry struct {
	ID         string
	EmployeeID string
	Date       time.Time // normalized to UTC midnight
	Type       RecordType
	Periods    []clock.Period // 0..3, only meaningful for RecordWork
	Note       string
}

// Validate checks structural invariants before computation or persistence.
func (e DayEntry) Validate() error {
	if !e.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRecordType, e.Type)
	}
	if len(e.Periods) > MaxPeriodsPerDay {
		return fmt.Errorf("%w: got %d, max %d", ErrTooManyPeriods, len(e.Periods), MaxPeriodsPerDay)
	}
	for _, p := range e.Periods {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidDate)
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD wire date into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d.UTC(), nil
}

// FormatDate renders a date in the YYYY-MM-DD wire format.
func FormatDate(d time.Time) string { return d.Format(DateLayout) }

// =============================================================================
// DAY COMPUTATION - derived figures, immutable once computed
// =============================================================================

// DayComputation holds the derived figures for one DayEntry. All hour values
// are rounded to two decimal places. Non-work entries get the zero
// computation with both compliance flags true.
type DayComputation struct {
	TotalPresent  decimal.Decimal // hours, first start to last end
	HoursWorked   decimal.Decimal // hours credited, net of deficit when configured
	TotalBreak    decimal.Decimal // hours of gaps between periods
	MinimumBreak  decimal.Decimal // hours of statutory minimum break
	BreakDeficit  decimal.Decimal // hours of break shortfall
	OvertimeHours decimal.Decimal // credited hours beyond the daily baseline

	BreakCompliant    bool
	MaxHoursCompliant bool

	// OverlapWarning is set when period overlap forced the defensive clamp
	// (summed work exceeded the outer span). Likely a data-entry error.
	OverlapWarning bool
}

// ZeroComputation is the computation for a day with no work attempted:
// all figures zero, nothing to violate.
func ZeroComputation() DayComputation {
	return DayComputation{
		TotalPresent:      decimal.Zero,
		HoursWorked:       decimal.Zero,
		TotalBreak:        decimal.Zero,
		MinimumBreak:      decimal.Zero,
		BreakDeficit:      decimal.Zero,
		OvertimeHours:     decimal.Zero,
		BreakCompliant:    true,
		MaxHoursCompliant: true,
	}
}

// =============================================================================
// RECORD - the persisted unit: entry plus its computation
// =============================================================================

// Record is what the persistence collaborator stores per (employee, date)
// after consolidation: the raw entry and its derived figures as one flat row.
type Record struct {
	Entry       DayEntry
	Computation DayComputation
}
