package workday

import (
	"context"
	"time"
)

// =============================================================================
// ENTRY STORE - persistence interface for day records
// =============================================================================

// EntryStore is the persistence interface the engine writes computed records
// through and reads them back from. Implementations live under store/; the
// engine never opens connections or manages transactions itself.
//
// Multiple rows for one (employee, date) are a transient, invalid state that
// the Consolidator eliminates; InsertRecord therefore does not enforce
// uniqueness, ReplaceDay does.
type EntryStore interface {
	// InsertRecord adds a record row. An empty Entry.ID is assigned by the
	// implementation.
	InsertRecord(ctx context.Context, rec Record) (Record, error)

	// ListRecords returns all rows for an employee with from <= date <= to,
	// ordered by date ascending.
	ListRecords(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error)

	// RecordsForDate returns all rows for one (employee, date).
	RecordsForDate(ctx context.Context, employeeID string, date time.Time) ([]Record, error)

	// ReplaceDay atomically deletes every row for (employee, date) and
	// inserts the single canonical record.
	ReplaceDay(ctx context.Context, employeeID string, date time.Time, rec Record) (Record, error)

	// DeleteDay removes all rows for (employee, date) and reports how many
	// rows were deleted.
	DeleteDay(ctx context.Context, employeeID string, date time.Time) (int, error)
}
