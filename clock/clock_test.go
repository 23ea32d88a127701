package clock_test

import (
	"errors"
	"testing"

	"github.com/warp/timecard-engine/clock"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func mustParse(t *testing.T, s string) clock.ClockTime {
	t.Helper()
	ct, err := clock.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", s, err)
	}
	return ct
}

func period(t *testing.T, start, end string) clock.Period {
	t.Helper()
	p, err := clock.ParsePeriod(start, end)
	if err != nil {
		t.Fatalf("ParsePeriod(%q, %q) failed: %v", start, end, err)
	}
	return p
}

// =============================================================================
// PARSING
// =============================================================================

func TestParse_Valid(t *testing.T) {
	cases := []struct {
		in      string
		minutes int
	}{
		{"00:00", 0},
		{"09:00", 540},
		{"12:30", 750},
		{"23:59", 1439},
		{" 08:15 ", 495}, // surrounding whitespace tolerated
	}

	for _, tc := range cases {
		ct, err := clock.Parse(tc.in)
		if err != nil {
			t.Errorf("Parse(%q): unexpected error %v", tc.in, err)
			continue
		}
		if ct.Minutes() != tc.minutes {
			t.Errorf("Parse(%q) = %d minutes, want %d", tc.in, ct.Minutes(), tc.minutes)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := []string{"", "9", "24:00", "12:60", "ab:cd", "12:3x", "12.30", "-1:00", "12:-5"}

	for _, in := range cases {
		_, err := clock.Parse(in)
		if err == nil {
			t.Errorf("Parse(%q): expected error, got none", in)
			continue
		}
		if !errors.Is(err, clock.ErrInvalidTimeFormat) {
			t.Errorf("Parse(%q): error %v does not wrap ErrInvalidTimeFormat", in, err)
		}
		var tfe *clock.TimeFormatError
		if !errors.As(err, &tfe) {
			t.Errorf("Parse(%q): error %v is not a *TimeFormatError", in, err)
		}
	}
}

func TestClockTime_RoundTrip(t *testing.T) {
	ct := mustParse(t, "07:05")
	if got := ct.String(); got != "07:05" {
		t.Errorf("String() = %q, want %q", got, "07:05")
	}
}

// =============================================================================
// PERIODS
// =============================================================================

func TestPeriod_Duration(t *testing.T) {
	p := period(t, "09:00", "17:30")
	d, err := p.Duration()
	if err != nil {
		t.Fatalf("Duration failed: %v", err)
	}
	if d != 510 {
		t.Errorf("Duration = %d, want 510", d)
	}
}

func TestPeriod_EndNotAfterStart_Rejected(t *testing.T) {
	for _, tc := range [][2]string{{"17:00", "09:00"}, {"09:00", "09:00"}} {
		_, err := clock.ParsePeriod(tc[0], tc[1])
		if !errors.Is(err, clock.ErrInvalidPeriod) {
			t.Errorf("ParsePeriod(%q, %q): error %v does not wrap ErrInvalidPeriod", tc[0], tc[1], err)
		}
	}
}

// =============================================================================
// SPAN OPERATIONS
// =============================================================================

func TestMergeSpan_GapsAndOverlap(t *testing.T) {
	// GIVEN: periods out of order, with a gap and an overlap
	periods := []clock.Period{
		period(t, "13:00", "17:00"),
		period(t, "09:00", "12:00"),
		period(t, "11:30", "12:30"),
	}

	// WHEN: merging the span
	span, ok := clock.MergeSpan(periods)

	// THEN: envelope is earliest start to latest end
	if !ok {
		t.Fatal("MergeSpan returned ok=false for non-empty input")
	}
	if span.Start.String() != "09:00" || span.End.String() != "17:00" {
		t.Errorf("MergeSpan = %s, want 09:00-17:00", span)
	}
}

func TestMergeSpan_Empty(t *testing.T) {
	_, ok := clock.MergeSpan(nil)
	if ok {
		t.Error("MergeSpan(nil) returned ok=true, want false")
	}
}

func TestSortByStart_DoesNotMutateInput(t *testing.T) {
	periods := []clock.Period{
		period(t, "13:00", "17:00"),
		period(t, "09:00", "12:00"),
	}
	sorted := clock.SortByStart(periods)

	if sorted[0].Start.String() != "09:00" {
		t.Errorf("sorted[0].Start = %s, want 09:00", sorted[0].Start)
	}
	if periods[0].Start.String() != "13:00" {
		t.Error("SortByStart mutated its input slice")
	}
}

func TestSumDurations(t *testing.T) {
	periods := []clock.Period{
		period(t, "09:00", "12:00"),
		period(t, "13:00", "17:00"),
	}
	total, err := clock.SumDurations(periods)
	if err != nil {
		t.Fatalf("SumDurations failed: %v", err)
	}
	if total != 420 {
		t.Errorf("SumDurations = %d, want 420", total)
	}
}
