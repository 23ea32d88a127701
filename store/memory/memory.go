// Package memory provides in-memory implementations of the storage
// interfaces for testing and development.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/warp/timecard-engine/employee"
	"github.com/warp/timecard-engine/workday"
)

// =============================================================================
// MEMORY STORE - employee.Store + workday.EntryStore
// =============================================================================

type Store struct {
	mu       sync.RWMutex
	profiles map[string]employee.Profile
	records  map[string][]workday.Record // keyed by employee id
}

func New() *Store {
	return &Store{
		profiles: make(map[string]employee.Profile),
		records:  make(map[string][]workday.Record),
	}
}

// Compile-time interface checks.
var (
	_ employee.Store     = (*Store)(nil)
	_ workday.EntryStore = (*Store)(nil)
)

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

func (s *Store) CreateProfile(_ context.Context, p employee.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = p
	return nil
}

func (s *Store) GetProfile(_ context.Context, id string) (employee.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	if !ok {
		return employee.Profile{}, &employee.NotFoundError{ID: id}
	}
	return p, nil
}

func (s *Store) ListProfiles(_ context.Context, includeInactive bool) ([]employee.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []employee.Profile
	for _, p := range s.profiles {
		if !includeInactive && !p.Active {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateProfile(_ context.Context, id string, patch employee.Patch) (employee.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return employee.Profile{}, &employee.NotFoundError{ID: id}
	}
	updated, err := patch.Apply(p)
	if err != nil {
		return employee.Profile{}, err
	}
	s.profiles[id] = updated
	return updated, nil
}

func (s *Store) SetActive(_ context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return &employee.NotFoundError{ID: id}
	}
	p.Active = active
	s.profiles[id] = p
	return nil
}

// =============================================================================
// ENTRY STORE
// =============================================================================

func (s *Store) InsertRecord(_ context.Context, rec workday.Record) (workday.Record, error) {
	if rec.Entry.ID == "" {
		rec.Entry.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.Entry.EmployeeID] = append(s.records[rec.Entry.EmployeeID], rec)
	return rec, nil
}

func (s *Store) ListRecords(_ context.Context, employeeID string, from, to time.Time) ([]workday.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []workday.Record
	for _, r := range s.records[employeeID] {
		if r.Entry.Date.Before(from) || r.Entry.Date.After(to) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Entry.Date.Before(out[j].Entry.Date) })
	return out, nil
}

func (s *Store) RecordsForDate(ctx context.Context, employeeID string, date time.Time) ([]workday.Record, error) {
	return s.ListRecords(ctx, employeeID, date, date)
}

func (s *Store) ReplaceDay(_ context.Context, employeeID string, date time.Time, rec workday.Record) (workday.Record, error) {
	if rec.Entry.ID == "" {
		rec.Entry.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []workday.Record
	for _, r := range s.records[employeeID] {
		if r.Entry.Date.Equal(date) {
			continue
		}
		kept = append(kept, r)
	}
	s.records[employeeID] = append(kept, rec)
	return rec, nil
}

func (s *Store) DeleteDay(_ context.Context, employeeID string, date time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []workday.Record
	deleted := 0
	for _, r := range s.records[employeeID] {
		if r.Entry.Date.Equal(date) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	s.records[employeeID] = kept
	return deleted, nil
}
