/*
Package compliance implements configurable working-time rules.

PURPOSE:
  Maps hours worked on one day to the statutory minimum break and checks the
  daily working-time ceiling. All thresholds live in Config so jurisdictions
  can be swapped without code changes; DefaultConfig carries the German ArbZG
  reference values.

RULES (default config):
  worked >  6h  ->  30 min minimum break
  worked >  9h  ->  45 min minimum break
  worked <= 6h  ->  no minimum break
  worked <= 10h ->  within the daily ceiling

  Tier thresholds are strictly-greater: exactly 6.00 hours worked requires
  no break, 6.01 hours requires 30 minutes.

DESIGN:
  Pure functions over an explicit Config value. No ambient settings object:
  callers own the config and pass it into every calculation.

SEE ALSO:
  - workday: applies these rules per day and derives the break deficit
*/
package compliance

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CONFIG
// =============================================================================

// BreakTier is one row of the minimum-break table: working strictly more
// than AboveHours requires at least RequiredMinutes of break.
type BreakTier struct {
	AboveHours      decimal.Decimal
	RequiredMinutes int
}

// Config holds every jurisdiction- and contract-specific threshold used by
// the engine. Callers pass it explicitly into each calculation.
type Config struct {
	// StandardDailyHours is the contractual baseline a day is measured
	// against for overtime. Usually hoursPerWeek / BusinessDaysPerWeek.
	StandardDailyHours decimal.Decimal

	// MaxDailyHours is the statutory ceiling on worked hours per day.
	MaxDailyHours decimal.Decimal

	// BreakTiers is the minimum-break table, any order.
	BreakTiers []BreakTier

	// OvertimeMultiplier scales the hourly rate for overtime pay.
	OvertimeMultiplier decimal.Decimal

	// BusinessDaysPerWeek is used to derive daily baselines from weekly hours.
	BusinessDaysPerWeek int

	// DeductBreakDeficit controls whether an untaken statutory break is
	// subtracted from credited work hours. The break-compliance flag is set
	// either way; this switch only affects paid hours.
	DeductBreakDeficit bool
}

// DefaultConfig returns the German ArbZG reference configuration.
func DefaultConfig() Config {
	return Config{
		StandardDailyHours: decimal.NewFromInt(8),
		MaxDailyHours:      decimal.NewFromInt(10),
		BreakTiers: []BreakTier{
			{AboveHours: decimal.NewFromInt(6), RequiredMinutes: 30},
			{AboveHours: decimal.NewFromInt(9), RequiredMinutes: 45},
		},
		OvertimeMultiplier:  decimal.NewFromFloat(1.5),
		BusinessDaysPerWeek: 5,
		DeductBreakDeficit:  true,
	}
}

// =============================================================================
// RULES
// =============================================================================

// MinimumBreak returns the required break in minutes for the given worked
// hours: the tier with the greatest threshold strictly below hoursWorked,
// or 0 below the lowest tier.
func MinimumBreak(hoursWorked decimal.Decimal, cfg Config) int {
	tiers := make([]BreakTier, len(cfg.BreakTiers))
	copy(tiers, cfg.BreakTiers)
	sort.Slice(tiers, func(i, j int) bool {
		return tiers[i].AboveHours.LessThan(tiers[j].AboveHours)
	})

	required := 0
	for _, tier := range tiers {
		if hoursWorked.GreaterThan(tier.AboveHours) {
			required = tier.RequiredMinutes
		}
	}
	return required
}

// WithinMaxDaily reports whether the worked hours respect the daily ceiling.
func WithinMaxDaily(hoursWorked decimal.Decimal, cfg Config) bool {
	return hoursWorked.LessThanOrEqual(cfg.MaxDailyHours)
}
