package report_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/timecard-engine/clock"
	"github.com/warp/timecard-engine/compliance"
	"github.com/warp/timecard-engine/report"
	"github.com/warp/timecard-engine/workday"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func period(t *testing.T, start, end string) clock.Period {
	t.Helper()
	p, err := clock.ParsePeriod(start, end)
	if err != nil {
		t.Fatalf("ParsePeriod(%q, %q) failed: %v", start, end, err)
	}
	return p
}

// =============================================================================
// SPAN RECONSTRUCTION
// =============================================================================

func TestReconstructSpan_StoredBreakWins(t *testing.T) {
	// GIVEN: a stored break of 45 min that disagrees with the span gap
	periods := []clock.Period{period(t, "09:00", "12:00"), period(t, "13:00", "17:00")}

	est := report.ReconstructSpan(periods, dec(7), dec(0.75), compliance.DefaultConfig())

	// THEN: the stored value is authoritative
	if est.BreakMinutes != 45 {
		t.Errorf("BreakMinutes = %d, want stored 45", est.BreakMinutes)
	}
	if est.Start == nil || est.Start.String() != "09:00" {
		t.Errorf("Start = %v, want 09:00", est.Start)
	}
	if est.End == nil || est.End.String() != "17:00" {
		t.Errorf("End = %v, want 17:00", est.End)
	}
}

func TestReconstructSpan_FallbackToSpanGap(t *testing.T) {
	// No stored break: gap between span (8h) and worked (7h) is 60 min.
	periods := []clock.Period{period(t, "09:00", "12:00"), period(t, "13:00", "17:00")}

	est := report.ReconstructSpan(periods, dec(7), decimal.Zero, compliance.DefaultConfig())
	if est.BreakMinutes != 60 {
		t.Errorf("BreakMinutes = %d, want calculated 60", est.BreakMinutes)
	}
}

func TestReconstructSpan_FallbackFloorsAtLegalMinimum(t *testing.T) {
	// Span equals worked time: calculated gap 0, but >6h worked requires 30.
	periods := []clock.Period{period(t, "09:00", "17:00")}

	est := report.ReconstructSpan(periods, dec(8), decimal.Zero, compliance.DefaultConfig())
	if est.BreakMinutes != 30 {
		t.Errorf("BreakMinutes = %d, want statutory 30", est.BreakMinutes)
	}
}

func TestReconstructSpan_NoPeriods_Unknown(t *testing.T) {
	est := report.ReconstructSpan(nil, dec(8), decimal.Zero, compliance.DefaultConfig())

	if est.Start != nil || est.End != nil {
		t.Error("start/end should be unknown without periods")
	}
	if est.BreakMinutes != 30 {
		t.Errorf("BreakMinutes = %d, want statutory 30", est.BreakMinutes)
	}
}

// =============================================================================
// MONTH ROWS
// =============================================================================

func TestMonthRows_WeekdayPlaceholders(t *testing.T) {
	// GIVEN: one work record in a month, no weekend records
	date := time.Date(2024, time.April, 3, 0, 0, 0, 0, time.UTC) // a Wednesday
	records := []workday.Record{{
		Entry: workday.DayEntry{
			EmployeeID: "emp-1",
			Date:       date,
			Type:       workday.RecordWork,
			Periods:    []clock.Period{period(t, "09:00", "17:30")},
			Note:       "on site",
		},
		Computation: workday.DayComputation{
			TotalPresent:      dec(8.5),
			HoursWorked:       dec(8.5),
			TotalBreak:        decimal.Zero,
			BreakDeficit:      dec(0.5),
			OvertimeHours:     dec(0.5),
			BreakCompliant:    false,
			MaxHoursCompliant: true,
		},
	}}

	rows := report.MonthRows(2024, time.April, records, compliance.DefaultConfig())

	// April 2024 has 22 weekdays.
	if len(rows) != 22 {
		t.Fatalf("rows = %d, want 22 weekdays", len(rows))
	}

	var found *report.Row
	empty := 0
	for i := range rows {
		if rows[i].Date == "03.04.2024" {
			found = &rows[i]
		}
		if rows[i].PeriodsDisplay == "-" {
			empty++
		}
	}

	if found == nil {
		t.Fatal("record day 03.04.2024 missing from rows")
	}
	if found.PeriodsDisplay != "09:00-17:30" {
		t.Errorf("PeriodsDisplay = %q, want 09:00-17:30", found.PeriodsDisplay)
	}
	if found.ComplianceText == "" {
		t.Error("ComplianceText should flag the break violation")
	}
	if found.Note != "on site" {
		t.Errorf("Note = %q, want %q", found.Note, "on site")
	}
	if empty != 21 {
		t.Errorf("placeholder rows = %d, want 21", empty)
	}
}

func TestMonthRows_ConsolidatedRecordWithoutPeriods(t *testing.T) {
	// A consolidated work record carries hours but no periods: the row falls
	// back to the statutory break and a placeholder span.
	date := time.Date(2024, time.April, 4, 0, 0, 0, 0, time.UTC)
	records := []workday.Record{{
		Entry: workday.DayEntry{EmployeeID: "emp-1", Date: date, Type: workday.RecordWork},
		Computation: workday.DayComputation{
			HoursWorked:       dec(8),
			TotalBreak:        decimal.Zero,
			BreakCompliant:    true,
			MaxHoursCompliant: true,
		},
	}}

	rows := report.MonthRows(2024, time.April, records, compliance.DefaultConfig())

	for _, row := range rows {
		if row.Date != "04.04.2024" {
			continue
		}
		if row.PeriodsDisplay != "-" {
			t.Errorf("PeriodsDisplay = %q, want placeholder", row.PeriodsDisplay)
		}
		if row.BreakMinutes != 30 {
			t.Errorf("BreakMinutes = %d, want statutory 30", row.BreakMinutes)
		}
		return
	}
	t.Fatal("record day 04.04.2024 missing from rows")
}

func TestComplianceText_Findings(t *testing.T) {
	c := workday.DayComputation{
		BreakDeficit:      dec(0.5),
		BreakCompliant:    false,
		MaxHoursCompliant: false,
		OverlapWarning:    true,
	}

	text := report.ComplianceText(c)
	for _, want := range []string{"break short by 30 min", "exceeds daily working-time limit", "overlapping periods"} {
		if !strings.Contains(text, want) {
			t.Errorf("ComplianceText = %q, missing %q", text, want)
		}
	}

	if report.ComplianceText(workday.ZeroComputation()) != "" {
		t.Error("compliant day should have empty compliance text")
	}
}
