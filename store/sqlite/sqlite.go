/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements employee.Store and workday.EntryStore using SQLite. The engine
  itself never opens connections or manages transactions; everything behind
  these interfaces is this package's concern.

KEY TABLES:
  employees:     one row per employee, soft-deleted via the active flag
  time_records:  one row per day entry - the flat consolidated record with
                 the raw periods and every derived figure

DUPLICATES:
  time_records deliberately has no UNIQUE(employee_id, date) constraint:
  duplicate rows for one day are a transient state the consolidator
  eliminates through ReplaceDay, which deletes and reinserts atomically.

VALUES:
  Decimal figures are stored as TEXT to avoid float drift; clock times as
  "HH:MM" strings; dates as "YYYY-MM-DD". Parsing back goes through the
  same validation as user input.

WAL MODE:
  The database is opened with WAL for better crash recovery and so readers
  don't block the writer. A sync.RWMutex serializes access on top; with a
  server-grade database this would be handled by the database itself.

USAGE:
  store, err := sqlite.New("./data/timecard.db")
  if err != nil { ... }
  defer store.Close()

SEE ALSO:
  - store/memory: in-memory implementation for tests
  - workday/store.go, employee/employee.go: interface definitions
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/timecard-engine/clock"
	"github.com/warp/timecard-engine/employee"
	"github.com/warp/timecard-engine/workday"
)

// Store implements the storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	_ employee.Store     = (*Store)(nil)
	_ workday.EntryStore = (*Store)(nil)
)

// New creates a store backed by the given database path. Use ":memory:"
// for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		position TEXT NOT NULL DEFAULT '',
		hours_per_week TEXT NOT NULL,
		hourly_rate TEXT NOT NULL,
		vacation_days_per_year INTEGER NOT NULL DEFAULT 0,
		sick_days_per_year INTEGER NOT NULL DEFAULT 0,
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS time_records (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		date TEXT NOT NULL,
		record_type TEXT NOT NULL,
		start1 TEXT, end1 TEXT,
		start2 TEXT, end2 TEXT,
		start3 TEXT, end3 TEXT,
		total_present TEXT NOT NULL,
		hours_worked TEXT NOT NULL,
		total_break TEXT NOT NULL,
		minimum_break TEXT NOT NULL,
		break_deficit TEXT NOT NULL,
		overtime_hours TEXT NOT NULL,
		break_compliant INTEGER NOT NULL,
		max_hours_compliant INTEGER NOT NULL,
		overlap_warning INTEGER NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	-- Hot path: range scans per employee for summaries and consolidation.
	CREATE INDEX IF NOT EXISTS idx_time_records_employee_date
		ON time_records(employee_id, date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

func (s *Store) CreateProfile(ctx context.Context, p employee.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees
			(id, name, position, hours_per_week, hourly_rate,
			 vacation_days_per_year, sick_days_per_year, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Position,
		p.HoursPerWeek.String(), p.HourlyRate.String(),
		p.VacationDaysPerYear, p.SickDaysPerYear,
		boolToInt(p.Active), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to create employee %s: %w", p.ID, err)
	}
	return nil
}

func (s *Store) GetProfile(ctx context.Context, id string) (employee.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, position, hours_per_week, hourly_rate,
		       vacation_days_per_year, sick_days_per_year, active
		FROM employees WHERE id = ?`, id)
	return scanProfile(row, id)
}

func (s *Store) ListProfiles(ctx context.Context, includeInactive bool) ([]employee.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, name, position, hours_per_week, hourly_rate,
		       vacation_days_per_year, sick_days_per_year, active
		FROM employees`
	if !includeInactive {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var profiles []employee.Profile
	for rows.Next() {
		p, err := scanProfile(rows, "")
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// UpdateProfile reads the current profile, applies the patch in Go and
// writes all mutable columns back. Column lists are never built dynamically.
func (s *Store) UpdateProfile(ctx context.Context, id string, patch employee.Patch) (employee.Profile, error) {
	current, err := s.GetProfile(ctx, id)
	if err != nil {
		return employee.Profile{}, err
	}
	updated, err := patch.Apply(current)
	if err != nil {
		return employee.Profile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		UPDATE employees
		SET name = ?, position = ?, hours_per_week = ?, hourly_rate = ?,
		    vacation_days_per_year = ?, sick_days_per_year = ?
		WHERE id = ?`,
		updated.Name, updated.Position,
		updated.HoursPerWeek.String(), updated.HourlyRate.String(),
		updated.VacationDaysPerYear, updated.SickDaysPerYear, id,
	)
	if err != nil {
		return employee.Profile{}, fmt.Errorf("failed to update employee %s: %w", id, err)
	}
	return updated, nil
}

func (s *Store) SetActive(ctx context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE employees SET active = ? WHERE id = ?`, boolToInt(active), id)
	if err != nil {
		return fmt.Errorf("failed to set active for employee %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &employee.NotFoundError{ID: id}
	}
	return nil
}

// =============================================================================
// ENTRY STORE
// =============================================================================

const recordColumns = `
	id, employee_id, date, record_type,
	start1, end1, start2, end2, start3, end3,
	total_present, hours_worked, total_break,
	minimum_break, break_deficit, overtime_hours,
	break_compliant, max_hours_compliant, overlap_warning, notes`

func (s *Store) InsertRecord(ctx context.Context, rec workday.Record) (workday.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insertRecord(ctx, s.db, rec)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertRecord(ctx context.Context, db execer, rec workday.Record) (workday.Record, error) {
	if rec.Entry.ID == "" {
		rec.Entry.ID = uuid.NewString()
	}

	starts, ends := periodColumns(rec.Entry.Periods)
	c := rec.Computation

	_, err := db.ExecContext(ctx, `
		INSERT INTO time_records (`+recordColumns+`, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Entry.ID, rec.Entry.EmployeeID,
		workday.FormatDate(rec.Entry.Date), string(rec.Entry.Type),
		starts[0], ends[0], starts[1], ends[1], starts[2], ends[2],
		c.TotalPresent.String(), c.HoursWorked.String(), c.TotalBreak.String(),
		c.MinimumBreak.String(), c.BreakDeficit.String(), c.OvertimeHours.String(),
		boolToInt(c.BreakCompliant), boolToInt(c.MaxHoursCompliant),
		boolToInt(c.OverlapWarning), rec.Entry.Note,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return workday.Record{}, fmt.Errorf("failed to insert time record: %w", err)
	}
	return rec, nil
}

func (s *Store) ListRecords(ctx context.Context, employeeID string, from, to time.Time) ([]workday.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM time_records
		WHERE employee_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC, created_at ASC`,
		employeeID, workday.FormatDate(from), workday.FormatDate(to),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list time records: %w", err)
	}
	defer rows.Close()

	var records []workday.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) RecordsForDate(ctx context.Context, employeeID string, date time.Time) ([]workday.Record, error) {
	return s.ListRecords(ctx, employeeID, date, date)
}

func (s *Store) ReplaceDay(ctx context.Context, employeeID string, date time.Time, rec workday.Record) (workday.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return workday.Record{}, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM time_records WHERE employee_id = ? AND date = ?`,
		employeeID, workday.FormatDate(date))
	if err != nil {
		return workday.Record{}, fmt.Errorf("failed to clear day: %w", err)
	}

	rec.Entry.ID = "" // force a fresh id for the canonical row
	inserted, err := insertRecord(ctx, tx, rec)
	if err != nil {
		return workday.Record{}, err
	}
	if err := tx.Commit(); err != nil {
		return workday.Record{}, err
	}
	return inserted, nil
}

func (s *Store) DeleteDay(ctx context.Context, employeeID string, date time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM time_records WHERE employee_id = ? AND date = ?`,
		employeeID, workday.FormatDate(date))
	if err != nil {
		return 0, fmt.Errorf("failed to delete day: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner, wantID string) (employee.Profile, error) {
	var p employee.Profile
	var hoursPerWeek, hourlyRate string
	var active int

	err := row.Scan(&p.ID, &p.Name, &p.Position, &hoursPerWeek, &hourlyRate,
		&p.VacationDaysPerYear, &p.SickDaysPerYear, &active)
	if err == sql.ErrNoRows {
		return employee.Profile{}, &employee.NotFoundError{ID: wantID}
	}
	if err != nil {
		return employee.Profile{}, fmt.Errorf("failed to scan employee: %w", err)
	}

	if p.HoursPerWeek, err = decimal.NewFromString(hoursPerWeek); err != nil {
		return employee.Profile{}, fmt.Errorf("corrupt hours_per_week for %s: %w", p.ID, err)
	}
	if p.HourlyRate, err = decimal.NewFromString(hourlyRate); err != nil {
		return employee.Profile{}, fmt.Errorf("corrupt hourly_rate for %s: %w", p.ID, err)
	}
	p.Active = active != 0
	return p, nil
}

func scanRecord(row rowScanner) (workday.Record, error) {
	var rec workday.Record
	var dateStr, recordType string
	var starts, ends [3]sql.NullString
	var present, worked, brk, minBreak, deficit, overtime string
	var breakOK, maxOK, overlap int

	err := row.Scan(
		&rec.Entry.ID, &rec.Entry.EmployeeID, &dateStr, &recordType,
		&starts[0], &ends[0], &starts[1], &ends[1], &starts[2], &ends[2],
		&present, &worked, &brk, &minBreak, &deficit, &overtime,
		&breakOK, &maxOK, &overlap, &rec.Entry.Note,
	)
	if err != nil {
		return workday.Record{}, fmt.Errorf("failed to scan time record: %w", err)
	}

	rec.Entry.Type = workday.RecordType(recordType)
	if rec.Entry.Date, err = workday.ParseDate(dateStr); err != nil {
		return workday.Record{}, err
	}

	for i := 0; i < 3; i++ {
		if !starts[i].Valid || !ends[i].Valid || starts[i].String == "" || ends[i].String == "" {
			continue
		}
		p, err := clock.ParsePeriod(starts[i].String, ends[i].String)
		if err != nil {
			return workday.Record{}, fmt.Errorf("corrupt period on record %s: %w", rec.Entry.ID, err)
		}
		rec.Entry.Periods = append(rec.Entry.Periods, p)
	}

	c := &rec.Computation
	for _, field := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&c.TotalPresent, present}, {&c.HoursWorked, worked}, {&c.TotalBreak, brk},
		{&c.MinimumBreak, minBreak}, {&c.BreakDeficit, deficit}, {&c.OvertimeHours, overtime},
	} {
		if *field.dst, err = decimal.NewFromString(field.src); err != nil {
			return workday.Record{}, fmt.Errorf("corrupt figure on record %s: %w", rec.Entry.ID, err)
		}
	}
	c.BreakCompliant = breakOK != 0
	c.MaxHoursCompliant = maxOK != 0
	c.OverlapWarning = overlap != 0
	return rec, nil
}

func periodColumns(periods []clock.Period) ([3]any, [3]any) {
	var starts, ends [3]any
	for i := 0; i < 3; i++ {
		if i < len(periods) {
			starts[i] = periods[i].Start.String()
			ends[i] = periods[i].End.String()
		} else {
			starts[i] = nil
			ends[i] = nil
		}
	}
	return starts, ends
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
