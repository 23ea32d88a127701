/*
Package summary aggregates daily records into period summaries.

PURPOSE:
  Turns a range of work/vacation/sick/holiday records for one employee into
  the figures payroll and leave tracking need: total hours, overtime, break
  minutes, leave-day counts, compliance violation counts and pay. Summaries
  are built fresh on every query and never persisted by the engine.

AGGREGATION:
  Single pass by record type. Work records contribute hours, overtime,
  breaks, presence and violation counts; vacation/sick/holiday records each
  count as one day regardless of computed hours.

PAY:
  regular  = (total work hours - overtime) * hourly rate
  overtime = overtime hours * hourly rate * multiplier (default 1.5x)

YEAR CONTEXT:
  Monthly summaries carry a year-to-date block and the remaining vacation
  and sick allowances derived from it. Yearly summaries carry the remaining
  allowances directly.

SEE ALSO:
  - workday:  produces the per-day records this package consumes
  - employee: supplies the profile (rate, weekly hours, allowances)
*/
package summary

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/timecard-engine/compliance"
	"github.com/warp/timecard-engine/employee"
	"github.com/warp/timecard-engine/workday"
)

// =============================================================================
// SUMMARY TYPES
// =============================================================================

// PeriodSummary is the aggregate over a date range for one employee.
type PeriodSummary struct {
	EmployeeID   string
	EmployeeName string
	PeriodStart  time.Time
	PeriodEnd    time.Time

	TotalWorkHours    decimal.Decimal
	TotalOvertime     decimal.Decimal
	TotalPresentHours decimal.Decimal
	TotalBreakMinutes int

	WorkDays     int
	VacationDays int
	SickDays     int
	HolidayDays  int

	BreakViolations       int
	WorkingTimeViolations int

	RegularPay  decimal.Decimal
	OvertimePay decimal.Decimal
	TotalPay    decimal.Decimal

	// YearToDate is set on monthly summaries.
	YearToDate *YearToDate
	// Allowance is set when a yearly context is available.
	Allowance *AllowanceStatus
}

// YearToDate surfaces the yearly totals alongside a monthly summary.
type YearToDate struct {
	TotalWorkHours   decimal.Decimal
	TotalOvertime    decimal.Decimal
	VacationDaysUsed int
	SickDaysUsed     int
}

// AllowanceStatus is the remaining leave derived from the yearly allowances.
type AllowanceStatus struct {
	RemainingVacationDays int
	RemainingSickDays     int
}

// =============================================================================
// PURE AGGREGATION
// =============================================================================

// Build accumulates records into a PeriodSummary. Pure: callers supply the
// records, the profile and the config.
func Build(records []workday.Record, profile employee.Profile, cfg compliance.Config, from, to time.Time) PeriodSummary {
	s := PeriodSummary{
		EmployeeID:        profile.ID,
		EmployeeName:      profile.Name,
		PeriodStart:       from,
		PeriodEnd:         to,
		TotalWorkHours:    decimal.Zero,
		TotalOvertime:     decimal.Zero,
		TotalPresentHours: decimal.Zero,
		RegularPay:        decimal.Zero,
		OvertimePay:       decimal.Zero,
		TotalPay:          decimal.Zero,
	}

	breakHours := decimal.Zero
	for _, rec := range records {
		switch rec.Entry.Type {
		case workday.RecordWork:
			s.TotalWorkHours = s.TotalWorkHours.Add(rec.Computation.HoursWorked)
			s.TotalOvertime = s.TotalOvertime.Add(rec.Computation.OvertimeHours)
			s.TotalPresentHours = s.TotalPresentHours.Add(rec.Computation.TotalPresent)
			breakHours = breakHours.Add(rec.Computation.TotalBreak)
			s.WorkDays++
			if !rec.Computation.BreakCompliant {
				s.BreakViolations++
			}
			if !rec.Computation.MaxHoursCompliant {
				s.WorkingTimeViolations++
			}
		case workday.RecordVacation:
			s.VacationDays++
		case workday.RecordSick:
			s.SickDays++
		case workday.RecordHoliday:
			s.HolidayDays++
		}
	}

	s.TotalBreakMinutes = int(breakHours.Mul(decimal.NewFromInt(60)).Round(0).IntPart())

	regularHours := s.TotalWorkHours.Sub(s.TotalOvertime)
	s.RegularPay = regularHours.Mul(profile.HourlyRate).Round(2)
	s.OvertimePay = s.TotalOvertime.Mul(profile.HourlyRate).Mul(cfg.OvertimeMultiplier).Round(2)
	s.TotalPay = s.RegularPay.Add(s.OvertimePay)
	return s
}

// =============================================================================
// AGGREGATOR - store-backed queries
// =============================================================================

// Aggregator answers period-summary queries against the stores.
type Aggregator struct {
	Profiles employee.Store
	Entries  workday.EntryStore
	Config   compliance.Config
}

// ForRange builds the summary for an arbitrary date range.
func (a *Aggregator) ForRange(ctx context.Context, employeeID string, from, to time.Time) (PeriodSummary, error) {
	profile, err := a.Profiles.GetProfile(ctx, employeeID)
	if err != nil {
		return PeriodSummary{}, err
	}
	records, err := a.Entries.ListRecords(ctx, employeeID, from, to)
	if err != nil {
		return PeriodSummary{}, err
	}
	return Build(records, profile, a.Config, from, to), nil
}

// ForYear builds the yearly summary including remaining allowances.
func (a *Aggregator) ForYear(ctx context.Context, employeeID string, year int) (PeriodSummary, error) {
	from, to := YearRange(year)
	s, err := a.ForRange(ctx, employeeID, from, to)
	if err != nil {
		return PeriodSummary{}, err
	}

	profile, err := a.Profiles.GetProfile(ctx, employeeID)
	if err != nil {
		return PeriodSummary{}, err
	}
	s.Allowance = &AllowanceStatus{
		RemainingVacationDays: remaining(profile.VacationDaysPerYear, s.VacationDays),
		RemainingSickDays:     remaining(profile.SickDaysPerYear, s.SickDays),
	}
	return s, nil
}

// ForMonth builds the monthly summary plus the year-to-date block and the
// remaining allowances derived from the full year.
func (a *Aggregator) ForMonth(ctx context.Context, employeeID string, year int, month time.Month) (PeriodSummary, error) {
	from, to := MonthRange(year, month)
	s, err := a.ForRange(ctx, employeeID, from, to)
	if err != nil {
		return PeriodSummary{}, err
	}

	yearly, err := a.ForYear(ctx, employeeID, year)
	if err != nil {
		return PeriodSummary{}, err
	}
	s.YearToDate = &YearToDate{
		TotalWorkHours:   yearly.TotalWorkHours,
		TotalOvertime:    yearly.TotalOvertime,
		VacationDaysUsed: yearly.VacationDays,
		SickDaysUsed:     yearly.SickDays,
	}
	s.Allowance = yearly.Allowance
	return s, nil
}

// =============================================================================
// DATE RANGES
// =============================================================================

// MonthRange returns the first and last day of a month.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return from, to
}

// YearRange returns January 1 and December 31 of a year.
func YearRange(year int) (time.Time, time.Time) {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
}

func remaining(allowance, used int) int {
	r := allowance - used
	if r < 0 {
		return 0
	}
	return r
}
