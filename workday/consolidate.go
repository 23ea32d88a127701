package workday

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// =============================================================================
// RECORD CONSOLIDATION
// =============================================================================
//
// Duplicate rows for one (employee, date) are an expected, recoverable
// user-input condition: two "work" entries saved for the same day, or a
// vacation entry colliding with a work entry. Consolidation collapses them
// to one canonical row:
//
//   1. Rank rows by type priority: work > holiday > sick > vacation > other.
//   2. Keep the highest-priority type present.
//   3. Sum worked hours and overtime across rows of the kept type and join
//      their non-empty notes with " | ".
//   4. Rows of lower-priority types are dropped entirely: a day cannot be
//      both "work" and "vacation".
//
// Consolidation never fails on content, only on storage errors.

const noteSeparator = " | "

// Consolidate resolves duplicate rows for one (employee, date) into a single
// canonical record. The second return is false when fewer than two rows were
// given and nothing had to change.
func Consolidate(records []Record) (Record, bool) {
	if len(records) == 0 {
		return Record{}, false
	}
	if len(records) == 1 {
		return records[0], false
	}

	// Stable sort keeps the original row order within one type.
	ranked := make([]Record, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Entry.Type.Priority() < ranked[j].Entry.Type.Priority()
	})

	keep := ranked[0]
	keepType := keep.Entry.Type

	hours := decimal.Zero
	overtime := decimal.Zero
	breakHours := decimal.Zero
	present := decimal.Zero
	var notes []string

	for _, rec := range ranked {
		if rec.Entry.Type != keepType {
			continue
		}
		hours = hours.Add(rec.Computation.HoursWorked)
		overtime = overtime.Add(rec.Computation.OvertimeHours)
		breakHours = breakHours.Add(rec.Computation.TotalBreak)
		present = present.Add(rec.Computation.TotalPresent)
		if note := strings.TrimSpace(rec.Entry.Note); note != "" {
			notes = append(notes, note)
		}
	}

	keep.Entry.Note = strings.Join(notes, noteSeparator)
	keep.Computation.HoursWorked = hours
	keep.Computation.OvertimeHours = overtime
	keep.Computation.TotalBreak = breakHours
	keep.Computation.TotalPresent = present
	return keep, true
}

// =============================================================================
// CONSOLIDATOR - store-driven sweep
// =============================================================================

// Consolidator runs opportunistically after writes and collapses duplicate
// (employee, date) groups through the entry store.
type Consolidator struct {
	Entries EntryStore
	Log     *logrus.Logger
}

// Sweep consolidates every date with duplicate rows for one employee within
// [from, to] and returns the number of dates that were consolidated. Dates
// without duplicates are skipped.
func (c *Consolidator) Sweep(ctx context.Context, employeeID string, from, to time.Time) (int, error) {
	records, err := c.Entries.ListRecords(ctx, employeeID, from, to)
	if err != nil {
		return 0, err
	}

	byDate := make(map[string][]Record)
	for _, rec := range records {
		key := FormatDate(rec.Entry.Date)
		byDate[key] = append(byDate[key], rec)
	}

	consolidated := 0
	for _, group := range byDate {
		merged, changed := Consolidate(group)
		if !changed {
			continue
		}
		if _, err := c.Entries.ReplaceDay(ctx, employeeID, merged.Entry.Date, merged); err != nil {
			return consolidated, err
		}
		consolidated++

		if c.Log != nil {
			c.Log.WithFields(logrus.Fields{
				"employee_id": employeeID,
				"date":        FormatDate(merged.Entry.Date),
				"kept_type":   merged.Entry.Type,
				"row_count":   len(group),
			}).Info("Consolidated duplicate day entries")
		}
	}
	return consolidated, nil
}
