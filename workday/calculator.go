package workday

import (
	"github.com/shopspring/decimal"
	"github.com/warp/timecard-engine/clock"
	"github.com/warp/timecard-engine/compliance"
)

// =============================================================================
// DAY CALCULATOR
// =============================================================================
//
// Pipeline for a work day with n periods (n <= 3):
//
//   present = span(first start .. last end)        including gaps
//   worked  = sum of period durations              excluding gaps
//   break   = present - worked                     the gaps
//   deficit = max(0, statutory minimum - break)
//   credited = worked - deficit                    when deduction is enabled
//   overtime = max(0, credited - daily baseline)
//
// Everything runs in whole minutes; hours are rounded to two places only
// when the DayComputation is assembled.

var sixty = decimal.NewFromInt(60)

func minutesToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(sixty)
}

// Compute derives the DayComputation for up to three work periods against a
// contractual daily baseline. Zero periods is a valid no-work day, not an
// error. Invalid periods abort the computation; callers must not persist a
// partial result.
func Compute(periods []clock.Period, standardDailyHours decimal.Decimal, cfg compliance.Config) (DayComputation, error) {
	if len(periods) > MaxPeriodsPerDay {
		return DayComputation{}, ErrTooManyPeriods
	}
	if len(periods) == 0 {
		return ZeroComputation(), nil
	}

	workedMin, err := clock.SumDurations(periods)
	if err != nil {
		return DayComputation{}, err
	}

	span, _ := clock.MergeSpan(periods)
	presentMin, err := span.Duration()
	if err != nil {
		return DayComputation{}, err
	}

	// Defensive clamp: overlapping periods can push summed work past the
	// outer span. Cap worked at present and surface a warning instead of
	// silently normalizing.
	overlap := false
	breakMin := presentMin - workedMin
	if breakMin < 0 {
		overlap = true
		breakMin = 0
		workedMin = presentMin
	}

	workedHours := minutesToHours(workedMin)
	requiredMin := compliance.MinimumBreak(workedHours, cfg)

	deficitMin := requiredMin - breakMin
	if deficitMin < 0 {
		deficitMin = 0
	}

	creditedMin := workedMin
	if cfg.DeductBreakDeficit {
		creditedMin -= deficitMin
	}

	creditedHours := minutesToHours(creditedMin)
	overtime := creditedHours.Sub(standardDailyHours)
	if overtime.IsNegative() {
		overtime = decimal.Zero
	}

	return DayComputation{
		TotalPresent:      minutesToHours(presentMin).Round(2),
		HoursWorked:       creditedHours.Round(2),
		TotalBreak:        minutesToHours(breakMin).Round(2),
		MinimumBreak:      minutesToHours(requiredMin).Round(2),
		BreakDeficit:      minutesToHours(deficitMin).Round(2),
		OvertimeHours:     overtime.Round(2),
		BreakCompliant:    deficitMin == 0,
		MaxHoursCompliant: compliance.WithinMaxDaily(workedHours, cfg),
		OverlapWarning:    overlap,
	}, nil
}

// ComputeEntry validates an entry and derives its computation. Non-work
// entries always get the zero computation. Failures are wrapped with the
// employee id and date for user-facing messages.
func ComputeEntry(e DayEntry, standardDailyHours decimal.Decimal, cfg compliance.Config) (DayComputation, error) {
	if err := e.Validate(); err != nil {
		return DayComputation{}, &ComputeError{EmployeeID: e.EmployeeID, Date: e.Date, Err: err}
	}
	if e.Type != RecordWork {
		return ZeroComputation(), nil
	}
	comp, err := Compute(e.Periods, standardDailyHours, cfg)
	if err != nil {
		return DayComputation{}, &ComputeError{EmployeeID: e.EmployeeID, Date: e.Date, Err: err}
	}
	return comp, nil
}
