/*
Package report prepares rendering-ready data for the reporting collaborator.

PURPOSE:
  Reports display an overall start/end and a break figure per day, but after
  consolidation a record may only carry aggregated hours and a stored break
  time, with few or no explicit periods left. This package reconstructs a
  best-effort span from whatever is available and lays out one row per
  weekday of a month for the downstream report renderer.

BREAK FALLBACK:
  The stored break time is authoritative when present (> 0). Otherwise the
  break is estimated as the larger of the reconstructed span gap and the
  statutory minimum for the worked hours. Stored aggregates and reconstructed
  spans can legitimately disagree after consolidation.

OUT OF SCOPE:
  PDF/LaTeX typesetting. This package emits plain rows; layout belongs to
  the reporting collaborator.
*/
package report

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/timecard-engine/clock"
	"github.com/warp/timecard-engine/compliance"
	"github.com/warp/timecard-engine/workday"
)

// DisplayDateLayout is the day-first date format used in rendered reports.
const DisplayDateLayout = "02.01.2006"

// placeholder marks values that cannot be reconstructed.
const placeholder = "-"

// =============================================================================
// SPAN RECONSTRUCTION
// =============================================================================

// SpanEstimate is the best-effort overall start/end and break figure for one
// day. Start and End are nil when no explicit periods survive.
type SpanEstimate struct {
	Start        *clock.ClockTime
	End          *clock.ClockTime
	BreakMinutes int
}

// ReconstructSpan derives a SpanEstimate from the surviving periods plus the
// aggregated figures. hoursWorked and storedBreak are in hours.
func ReconstructSpan(periods []clock.Period, hoursWorked, storedBreak decimal.Decimal, cfg compliance.Config) SpanEstimate {
	est := SpanEstimate{}

	storedBreakMin := int(storedBreak.Mul(decimal.NewFromInt(60)).Round(0).IntPart())
	legalMin := compliance.MinimumBreak(hoursWorked, cfg)

	span, ok := clock.MergeSpan(clock.SortByStart(periods))
	if !ok {
		if storedBreakMin > 0 {
			est.BreakMinutes = storedBreakMin
		} else {
			est.BreakMinutes = legalMin
		}
		return est
	}

	start, end := span.Start, span.End
	est.Start = &start
	est.End = &end

	if storedBreakMin > 0 {
		est.BreakMinutes = storedBreakMin
		return est
	}

	spanMin := int(end - start)
	workedMin := int(hoursWorked.Mul(decimal.NewFromInt(60)).Round(0).IntPart())
	calculated := spanMin - workedMin
	if calculated < legalMin {
		calculated = legalMin
	}
	est.BreakMinutes = calculated
	return est
}

// =============================================================================
// REPORT ROWS
// =============================================================================

// Row is the rendering-ready tuple for one report line.
type Row struct {
	Date           string // DD.MM.YYYY display form
	PeriodsDisplay string // "09:00-12:00, 13:00-17:00" or "-"
	TotalPresent   decimal.Decimal
	HoursWorked    decimal.Decimal
	BreakMinutes   int
	Overtime       decimal.Decimal
	RecordType     workday.RecordType
	ComplianceText string
	Note           string
}

// MonthRows lays out one row per weekday of the month. Weekdays without a
// record get placeholder rows; weekend days appear only when a record exists
// for them.
func MonthRows(year int, month time.Month, records []workday.Record, cfg compliance.Config) []Row {
	byDate := make(map[string]workday.Record, len(records))
	for _, rec := range records {
		byDate[workday.FormatDate(rec.Entry.Date)] = rec
	}

	var rows []Row
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		rec, ok := byDate[workday.FormatDate(d)]
		if !ok {
			if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
				continue
			}
			rows = append(rows, emptyRow(d))
			continue
		}
		rows = append(rows, recordRow(rec, cfg))
	}
	return rows
}

func emptyRow(date time.Time) Row {
	return Row{
		Date:           date.Format(DisplayDateLayout),
		PeriodsDisplay: placeholder,
		TotalPresent:   decimal.Zero,
		HoursWorked:    decimal.Zero,
		Overtime:       decimal.Zero,
		ComplianceText: "",
	}
}

func recordRow(rec workday.Record, cfg compliance.Config) Row {
	return Row{
		Date:           rec.Entry.Date.Format(DisplayDateLayout),
		PeriodsDisplay: periodsDisplay(rec, cfg),
		TotalPresent:   rec.Computation.TotalPresent,
		HoursWorked:    rec.Computation.HoursWorked,
		BreakMinutes:   dayBreakMinutes(rec, cfg),
		Overtime:       rec.Computation.OvertimeHours,
		RecordType:     rec.Entry.Type,
		ComplianceText: ComplianceText(rec.Computation),
		Note:           rec.Entry.Note,
	}
}

func periodsDisplay(rec workday.Record, cfg compliance.Config) string {
	if rec.Entry.Type != workday.RecordWork {
		return placeholder
	}
	if len(rec.Entry.Periods) > 0 {
		parts := make([]string, 0, len(rec.Entry.Periods))
		for _, p := range clock.SortByStart(rec.Entry.Periods) {
			parts = append(parts, p.String())
		}
		return strings.Join(parts, ", ")
	}

	// No explicit periods survived; fall back to the reconstructed span.
	est := ReconstructSpan(nil, rec.Computation.HoursWorked, rec.Computation.TotalBreak, cfg)
	if est.Start == nil || est.End == nil {
		return placeholder
	}
	return est.Start.String() + "-" + est.End.String()
}

func dayBreakMinutes(rec workday.Record, cfg compliance.Config) int {
	if rec.Entry.Type != workday.RecordWork {
		return 0
	}
	est := ReconstructSpan(rec.Entry.Periods, rec.Computation.HoursWorked, rec.Computation.TotalBreak, cfg)
	return est.BreakMinutes
}

// ComplianceText renders the compliance findings of one day for display.
// Empty means no findings.
func ComplianceText(c workday.DayComputation) string {
	var findings []string
	if !c.BreakCompliant {
		deficitMin := c.BreakDeficit.Mul(decimal.NewFromInt(60)).Round(0).IntPart()
		findings = append(findings, "break short by "+decimal.NewFromInt(deficitMin).String()+" min")
	}
	if !c.MaxHoursCompliant {
		findings = append(findings, "exceeds daily working-time limit")
	}
	if c.OverlapWarning {
		findings = append(findings, "overlapping periods")
	}
	return strings.Join(findings, "; ")
}
