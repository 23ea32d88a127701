// Package employee defines the employee profile consumed by the time
// accounting engine and the storage interface behind it. Profiles are
// read-only to the calculators; mutation happens through the statically
// typed Patch so persistence never builds column lists dynamically.
package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotFound is returned when no profile exists for an employee id.
	ErrNotFound = errors.New("employee not found")

	// ErrInvalidProfile is returned for profiles or patches that violate
	// basic field constraints.
	ErrInvalidProfile = errors.New("invalid employee profile")
)

// NotFoundError carries the missing employee id alongside ErrNotFound.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("employee %q not found", e.ID) }
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// =============================================================================
// PROFILE
// =============================================================================

// Profile is the contractual data the engine needs about one employee.
type Profile struct {
	ID                  string
	Name                string
	Position            string
	HoursPerWeek        decimal.Decimal
	HourlyRate          decimal.Decimal
	VacationDaysPerYear int
	SickDaysPerYear     int
	Active              bool
}

// Validate checks field constraints before persistence.
func (p Profile) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidProfile)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if p.HoursPerWeek.IsNegative() {
		return fmt.Errorf("%w: hours per week must not be negative", ErrInvalidProfile)
	}
	if p.HourlyRate.IsNegative() {
		return fmt.Errorf("%w: hourly rate must not be negative", ErrInvalidProfile)
	}
	if p.VacationDaysPerYear < 0 || p.SickDaysPerYear < 0 {
		return fmt.Errorf("%w: allowances must not be negative", ErrInvalidProfile)
	}
	return nil
}

// StandardDailyHours derives the contractual daily baseline from the weekly
// hours, typically over 5 business days.
func (p Profile) StandardDailyHours(businessDaysPerWeek int) decimal.Decimal {
	if businessDaysPerWeek <= 0 {
		businessDaysPerWeek = 5
	}
	return p.HoursPerWeek.Div(decimal.NewFromInt(int64(businessDaysPerWeek)))
}

// =============================================================================
// PATCH - explicit mutable-field updates
// =============================================================================

// Patch lists the mutable profile fields. Nil means "leave unchanged".
type Patch struct {
	Name                *string
	Position            *string
	HoursPerWeek        *decimal.Decimal
	HourlyRate          *decimal.Decimal
	VacationDaysPerYear *int
	SickDaysPerYear     *int
}

// Apply returns a copy of p with the patch's non-nil fields replaced,
// validated as a whole.
func (patch Patch) Apply(p Profile) (Profile, error) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Position != nil {
		p.Position = *patch.Position
	}
	if patch.HoursPerWeek != nil {
		p.HoursPerWeek = *patch.HoursPerWeek
	}
	if patch.HourlyRate != nil {
		p.HourlyRate = *patch.HourlyRate
	}
	if patch.VacationDaysPerYear != nil {
		p.VacationDaysPerYear = *patch.VacationDaysPerYear
	}
	if patch.SickDaysPerYear != nil {
		p.SickDaysPerYear = *patch.SickDaysPerYear
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// =============================================================================
// STORE
// =============================================================================

// Store is the persistence interface for profiles. The engine receives
// profiles through it and never touches the database directly.
type Store interface {
	CreateProfile(ctx context.Context, p Profile) error
	GetProfile(ctx context.Context, id string) (Profile, error)
	ListProfiles(ctx context.Context, includeInactive bool) ([]Profile, error)
	UpdateProfile(ctx context.Context, id string, patch Patch) (Profile, error)
	SetActive(ctx context.Context, id string, active bool) error
}
