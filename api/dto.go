/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model (decimal figures, clock types) from the external
  API contract (plain floats and "HH:MM"/"YYYY-MM-DD" strings).

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers and the domain packages, not in DTOs.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/shopspring/decimal"
	"github.com/warp/timecard-engine/clock"
	"github.com/warp/timecard-engine/employee"
	"github.com/warp/timecard-engine/report"
	"github.com/warp/timecard-engine/summary"
	"github.com/warp/timecard-engine/workday"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee profile in API responses.
type EmployeeDTO struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Position            string  `json:"position,omitempty"`
	HoursPerWeek        float64 `json:"hours_per_week"`
	HourlyRate          float64 `json:"hourly_rate"`
	VacationDaysPerYear int     `json:"vacation_days_per_year"`
	SickDaysPerYear     int     `json:"sick_days_per_year"`
	Active              bool    `json:"active"`
}

// CreateEmployeeRequest is the request to create an employee.
type CreateEmployeeRequest struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Position            string  `json:"position"`
	HoursPerWeek        float64 `json:"hours_per_week"`
	HourlyRate          float64 `json:"hourly_rate"`
	VacationDaysPerYear int     `json:"vacation_days_per_year"`
	SickDaysPerYear     int     `json:"sick_days_per_year"`
}

// UpdateEmployeeRequest carries the mutable profile fields; absent fields
// are left unchanged.
type UpdateEmployeeRequest struct {
	Name                *string  `json:"name,omitempty"`
	Position            *string  `json:"position,omitempty"`
	HoursPerWeek        *float64 `json:"hours_per_week,omitempty"`
	HourlyRate          *float64 `json:"hourly_rate,omitempty"`
	VacationDaysPerYear *int     `json:"vacation_days_per_year,omitempty"`
	SickDaysPerYear     *int     `json:"sick_days_per_year,omitempty"`
}

// =============================================================================
// TIME ENTRIES
// =============================================================================

// PeriodDTO is one start/end interval in "HH:MM".
type PeriodDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// EntryRequest is the request to record one day for an employee. Periods
// with an empty start or end are treated as absent, not as errors.
type EntryRequest struct {
	Date    string      `json:"date"` // YYYY-MM-DD
	Type    string      `json:"type"` // work | vacation | sick | holiday
	Periods []PeriodDTO `json:"periods,omitempty"`
	Note    string      `json:"note,omitempty"`
}

// EntryDTO is the flat persisted record: raw entry plus derived figures.
type EntryDTO struct {
	ID                string      `json:"id"`
	EmployeeID        string      `json:"employee_id"`
	Date              string      `json:"date"`
	Type              string      `json:"type"`
	Periods           []PeriodDTO `json:"periods,omitempty"`
	Note              string      `json:"note,omitempty"`
	TotalPresent      float64     `json:"total_present"`
	HoursWorked       float64     `json:"hours_worked"`
	TotalBreak        float64     `json:"total_break"`
	MinimumBreak      float64     `json:"minimum_break"`
	BreakDeficit      float64     `json:"break_deficit"`
	OvertimeHours     float64     `json:"overtime_hours"`
	BreakCompliant    bool        `json:"break_compliant"`
	MaxHoursCompliant bool        `json:"max_hours_compliant"`
	OverlapWarning    bool        `json:"overlap_warning,omitempty"`
}

// EntryResponse wraps the stored entry with the consolidation outcome of
// the post-write sweep.
type EntryResponse struct {
	Entry             EntryDTO `json:"entry"`
	ConsolidatedDates int      `json:"consolidated_dates"`
}

// =============================================================================
// SUMMARIES AND REPORTS
// =============================================================================

// SummaryDTO is the PeriodSummary on the wire.
type SummaryDTO struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	PeriodStart  string `json:"period_start"`
	PeriodEnd    string `json:"period_end"`

	TotalWorkHours    float64 `json:"total_work_hours"`
	TotalOvertime     float64 `json:"total_overtime"`
	TotalPresentHours float64 `json:"total_present_hours"`
	TotalBreakMinutes int     `json:"total_break_minutes"`

	WorkDays     int `json:"work_days"`
	VacationDays int `json:"vacation_days"`
	SickDays     int `json:"sick_days"`
	HolidayDays  int `json:"holiday_days"`

	BreakViolations       int `json:"break_violations"`
	WorkingTimeViolations int `json:"working_time_violations"`

	RegularPay  float64 `json:"regular_pay"`
	OvertimePay float64 `json:"overtime_pay"`
	TotalPay    float64 `json:"total_pay"`

	YearToDate *YearToDateDTO `json:"year_to_date,omitempty"`
	Allowance  *AllowanceDTO  `json:"allowance,omitempty"`
}

type YearToDateDTO struct {
	TotalWorkHours   float64 `json:"total_work_hours"`
	TotalOvertime    float64 `json:"total_overtime"`
	VacationDaysUsed int     `json:"vacation_days_used"`
	SickDaysUsed     int     `json:"sick_days_used"`
}

type AllowanceDTO struct {
	RemainingVacationDays int `json:"remaining_vacation_days"`
	RemainingSickDays     int `json:"remaining_sick_days"`
}

// ReportRowDTO is one rendering-ready report line.
type ReportRowDTO struct {
	Date           string  `json:"date"`
	Periods        string  `json:"periods"`
	TotalPresent   float64 `json:"total_present"`
	HoursWorked    float64 `json:"hours_worked"`
	BreakMinutes   int     `json:"break_minutes"`
	Overtime       float64 `json:"overtime"`
	Type           string  `json:"type,omitempty"`
	Compliance     string  `json:"compliance,omitempty"`
	Note           string  `json:"note,omitempty"`
}

// ConfigDTO echoes the active compliance configuration.
type ConfigDTO struct {
	StandardDailyHours  float64        `json:"standard_daily_hours"`
	MaxDailyHours       float64        `json:"max_daily_hours"`
	BreakTiers          []BreakTierDTO `json:"break_tiers"`
	OvertimeMultiplier  float64        `json:"overtime_multiplier"`
	BusinessDaysPerWeek int            `json:"business_days_per_week"`
	DeductBreakDeficit  bool           `json:"deduct_break_deficit"`
}

type BreakTierDTO struct {
	AboveHours      float64 `json:"above_hours"`
	RequiredMinutes int     `json:"required_minutes"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toEmployeeDTO(p employee.Profile) EmployeeDTO {
	return EmployeeDTO{
		ID:                  p.ID,
		Name:                p.Name,
		Position:            p.Position,
		HoursPerWeek:        p.HoursPerWeek.InexactFloat64(),
		HourlyRate:          p.HourlyRate.InexactFloat64(),
		VacationDaysPerYear: p.VacationDaysPerYear,
		SickDaysPerYear:     p.SickDaysPerYear,
		Active:              p.Active,
	}
}

func toEntryDTO(rec workday.Record) EntryDTO {
	dto := EntryDTO{
		ID:                rec.Entry.ID,
		EmployeeID:        rec.Entry.EmployeeID,
		Date:              workday.FormatDate(rec.Entry.Date),
		Type:              string(rec.Entry.Type),
		Note:              rec.Entry.Note,
		TotalPresent:      rec.Computation.TotalPresent.InexactFloat64(),
		HoursWorked:       rec.Computation.HoursWorked.InexactFloat64(),
		TotalBreak:        rec.Computation.TotalBreak.InexactFloat64(),
		MinimumBreak:      rec.Computation.MinimumBreak.InexactFloat64(),
		BreakDeficit:      rec.Computation.BreakDeficit.InexactFloat64(),
		OvertimeHours:     rec.Computation.OvertimeHours.InexactFloat64(),
		BreakCompliant:    rec.Computation.BreakCompliant,
		MaxHoursCompliant: rec.Computation.MaxHoursCompliant,
		OverlapWarning:    rec.Computation.OverlapWarning,
	}
	for _, p := range rec.Entry.Periods {
		dto.Periods = append(dto.Periods, PeriodDTO{Start: p.Start.String(), End: p.End.String()})
	}
	return dto
}

func toSummaryDTO(s summary.PeriodSummary) SummaryDTO {
	dto := SummaryDTO{
		EmployeeID:            s.EmployeeID,
		EmployeeName:          s.EmployeeName,
		PeriodStart:           workday.FormatDate(s.PeriodStart),
		PeriodEnd:             workday.FormatDate(s.PeriodEnd),
		TotalWorkHours:        s.TotalWorkHours.InexactFloat64(),
		TotalOvertime:         s.TotalOvertime.InexactFloat64(),
		TotalPresentHours:     s.TotalPresentHours.InexactFloat64(),
		TotalBreakMinutes:     s.TotalBreakMinutes,
		WorkDays:              s.WorkDays,
		VacationDays:          s.VacationDays,
		SickDays:              s.SickDays,
		HolidayDays:           s.HolidayDays,
		BreakViolations:       s.BreakViolations,
		WorkingTimeViolations: s.WorkingTimeViolations,
		RegularPay:            s.RegularPay.InexactFloat64(),
		OvertimePay:           s.OvertimePay.InexactFloat64(),
		TotalPay:              s.TotalPay.InexactFloat64(),
	}
	if s.YearToDate != nil {
		dto.YearToDate = &YearToDateDTO{
			TotalWorkHours:   s.YearToDate.TotalWorkHours.InexactFloat64(),
			TotalOvertime:    s.YearToDate.TotalOvertime.InexactFloat64(),
			VacationDaysUsed: s.YearToDate.VacationDaysUsed,
			SickDaysUsed:     s.YearToDate.SickDaysUsed,
		}
	}
	if s.Allowance != nil {
		dto.Allowance = &AllowanceDTO{
			RemainingVacationDays: s.Allowance.RemainingVacationDays,
			RemainingSickDays:     s.Allowance.RemainingSickDays,
		}
	}
	return dto
}

func toReportRowDTO(row report.Row) ReportRowDTO {
	return ReportRowDTO{
		Date:         row.Date,
		Periods:      row.PeriodsDisplay,
		TotalPresent: row.TotalPresent.InexactFloat64(),
		HoursWorked:  row.HoursWorked.InexactFloat64(),
		BreakMinutes: row.BreakMinutes,
		Overtime:     row.Overtime.InexactFloat64(),
		Type:         string(row.RecordType),
		Compliance:   row.ComplianceText,
		Note:         row.Note,
	}
}

// parsePeriods converts the wire periods, skipping absent ones (missing
// start or end means "not entered", not zero-length).
func parsePeriods(dtos []PeriodDTO) ([]clock.Period, error) {
	var periods []clock.Period
	for _, d := range dtos {
		if d.Start == "" || d.End == "" {
			continue
		}
		p, err := clock.ParsePeriod(d.Start, d.End)
		if err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, nil
}

func decimalPtr(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}
