package employee

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func validProfile() Profile {
	return Profile{
		ID:                  "emp-1",
		Name:                "Ada Wong",
		Position:            "Analyst",
		HoursPerWeek:        decimal.NewFromInt(40),
		HourlyRate:          decimal.NewFromInt(20),
		VacationDaysPerYear: 30,
		SickDaysPerYear:     10,
		Active:              true,
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Profile)
		wantOK bool
	}{
		{"valid", func(*Profile) {}, true},
		{"missing id", func(p *Profile) { p.ID = "" }, false},
		{"missing name", func(p *Profile) { p.Name = "" }, false},
		{"negative hours", func(p *Profile) { p.HoursPerWeek = decimal.NewFromInt(-1) }, false},
		{"negative rate", func(p *Profile) { p.HourlyRate = decimal.NewFromInt(-1) }, false},
		{"negative vacation allowance", func(p *Profile) { p.VacationDaysPerYear = -1 }, false},
		{"negative sick allowance", func(p *Profile) { p.SickDaysPerYear = -1 }, false},
		{"zero hours part-timer", func(p *Profile) { p.HoursPerWeek = decimal.Zero }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validProfile()
			tc.mutate(&p)

			err := p.Validate()
			if tc.wantOK && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if !tc.wantOK {
				if err == nil {
					t.Fatal("Validate() = nil, want error")
				}
				if !errors.Is(err, ErrInvalidProfile) {
					t.Fatalf("Validate() = %v, want ErrInvalidProfile", err)
				}
			}
		})
	}
}

func TestStandardDailyHours(t *testing.T) {
	p := validProfile()

	// 40h over 5 business days is an 8h baseline.
	if got := p.StandardDailyHours(5); !got.Equal(decimal.NewFromInt(8)) {
		t.Errorf("StandardDailyHours(5) = %s, want 8", got)
	}

	// 40h over a 4-day week is 10h.
	if got := p.StandardDailyHours(4); !got.Equal(decimal.NewFromInt(10)) {
		t.Errorf("StandardDailyHours(4) = %s, want 10", got)
	}

	// Nonsensical divisors fall back to 5.
	if got := p.StandardDailyHours(0); !got.Equal(decimal.NewFromInt(8)) {
		t.Errorf("StandardDailyHours(0) = %s, want 8", got)
	}
}

func TestPatchApply(t *testing.T) {
	p := validProfile()

	rate := decimal.NewFromFloat(22.5)
	vacation := 28
	patched, err := Patch{HourlyRate: &rate, VacationDaysPerYear: &vacation}.Apply(p)
	if err != nil {
		t.Fatalf("Apply() = %v, want nil", err)
	}

	if !patched.HourlyRate.Equal(rate) {
		t.Errorf("HourlyRate = %s, want %s", patched.HourlyRate, rate)
	}
	if patched.VacationDaysPerYear != 28 {
		t.Errorf("VacationDaysPerYear = %d, want 28", patched.VacationDaysPerYear)
	}

	// Untouched fields survive, and the input profile is unchanged.
	if patched.Name != "Ada Wong" || !patched.HoursPerWeek.Equal(decimal.NewFromInt(40)) {
		t.Errorf("unexpected side effects: %+v", patched)
	}
	if !p.HourlyRate.Equal(decimal.NewFromInt(20)) {
		t.Error("Apply mutated the input profile")
	}
}

func TestPatchApplyRejectsInvalidResult(t *testing.T) {
	p := validProfile()

	empty := ""
	if _, err := (Patch{Name: &empty}).Apply(p); !errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("Apply() = %v, want ErrInvalidProfile", err)
	}

	negative := decimal.NewFromInt(-5)
	if _, err := (Patch{HoursPerWeek: &negative}).Apply(p); !errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("Apply() = %v, want ErrInvalidProfile", err)
	}
}

func TestNotFoundErrorUnwrap(t *testing.T) {
	err := error(&NotFoundError{ID: "ghost"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatal("NotFoundError must unwrap to ErrNotFound")
	}
}
