/*
handlers.go - HTTP API handlers for the time accounting engine

PURPOSE:
  Exposes the time accounting engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Employees:
    GET    /api/employees                    List employees (?include_inactive=true)
    POST   /api/employees                    Create employee
    GET    /api/employees/{id}               Get employee details
    PATCH  /api/employees/{id}               Update mutable profile fields
    POST   /api/employees/{id}/deactivate    Soft-delete
    POST   /api/employees/{id}/reactivate    Restore

  Time entries:
    POST   /api/employees/{id}/entries        Record a day (compute + store + consolidate)
    GET    /api/employees/{id}/entries        List a month (?year=&month=)
    DELETE /api/employees/{id}/entries/{date} Delete all rows for one date

  Derived views:
    GET    /api/employees/{id}/summary       Monthly or yearly summary (?year=&month=)
    GET    /api/employees/{id}/report        Rendering-ready month report (?year=&month=)

  Config:
    GET    /api/config                       Active compliance configuration

REQUEST FLOW (entries):
  1. Parse HTTP request, resolve the employee profile
  2. Compute the day figures against the profile's daily baseline
  3. Persist the record
  4. Sweep the surrounding month for duplicate dates
  5. Serialize the stored record plus the sweep outcome

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Employee not found
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/warp/timecard-engine/compliance"
	"github.com/warp/timecard-engine/employee"
	"github.com/warp/timecard-engine/report"
	"github.com/warp/timecard-engine/summary"
	"github.com/warp/timecard-engine/workday"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Employees employee.Store
	Entries   workday.EntryStore
	Config    compliance.Config
	Log       *logrus.Logger
}

// NewHandler wires the handler with its stores and the active compliance
// configuration.
func NewHandler(employees employee.Store, entries workday.EntryStore, cfg compliance.Config, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{
		Employees: employees,
		Entries:   entries,
		Config:    cfg,
		Log:       log,
	}
}

func (h *Handler) consolidator() *workday.Consolidator {
	return &workday.Consolidator{Entries: h.Entries, Log: h.Log}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns active employees; ?include_inactive=true returns all.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	profiles, err := h.Employees.ListProfiles(r.Context(), includeInactive)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(profiles))
	for i, p := range profiles {
		dtos[i] = toEmployeeDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee profile.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.Employees.GetProfile(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "Failed to get employee")
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(p))
}

// CreateEmployee creates a new employee profile.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	p := employee.Profile{
		ID:                  req.ID,
		Name:                req.Name,
		Position:            req.Position,
		HoursPerWeek:        decimal.NewFromFloat(req.HoursPerWeek),
		HourlyRate:          decimal.NewFromFloat(req.HourlyRate),
		VacationDaysPerYear: req.VacationDaysPerYear,
		SickDaysPerYear:     req.SickDaysPerYear,
		Active:              true,
	}
	if err := p.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid employee profile", err)
		return
	}

	if err := h.Employees.CreateProfile(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}

	h.Log.WithFields(logrus.Fields{"employee_id": p.ID, "name": p.Name}).Info("employee created")
	writeJSON(w, http.StatusCreated, toEmployeeDTO(p))
}

// UpdateEmployee applies a partial update to the mutable profile fields.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	patch := employee.Patch{
		Name:                req.Name,
		Position:            req.Position,
		HoursPerWeek:        decimalPtr(req.HoursPerWeek),
		HourlyRate:          decimalPtr(req.HourlyRate),
		VacationDaysPerYear: req.VacationDaysPerYear,
		SickDaysPerYear:     req.SickDaysPerYear,
	}

	p, err := h.Employees.UpdateProfile(r.Context(), id, patch)
	if err != nil {
		writeDomainError(w, err, "Failed to update employee")
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(p))
}

// DeactivateEmployee soft-deletes a profile; its records stay queryable.
func (h *Handler) DeactivateEmployee(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

// ReactivateEmployee restores a soft-deleted profile.
func (h *Handler) ReactivateEmployee(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	id := chi.URLParam(r, "id")

	if err := h.Employees.SetActive(r.Context(), id, active); err != nil {
		writeDomainError(w, err, "Failed to change employee status")
		return
	}
	p, err := h.Employees.GetProfile(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "Failed to load employee")
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(p))
}

// =============================================================================
// TIME ENTRY HANDLERS
// =============================================================================

// CreateEntry records one day for an employee: the entry is computed against
// the profile's contractual baseline, stored, and the surrounding month is
// swept for dates with duplicate rows.
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")
	ctx := r.Context()

	var req EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	profile, err := h.Employees.GetProfile(ctx, employeeID)
	if err != nil {
		writeDomainError(w, err, "Failed to resolve employee")
		return
	}

	date, err := workday.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	periods, err := parsePeriods(req.Periods)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}

	entry := workday.DayEntry{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Date:       date,
		Type:       workday.RecordType(req.Type),
		Periods:    periods,
		Note:       req.Note,
	}

	baseline := profile.StandardDailyHours(h.Config.BusinessDaysPerWeek)
	comp, err := workday.ComputeEntry(entry, baseline, h.Config)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid time entry", err)
		return
	}

	stored, err := h.Entries.InsertRecord(ctx, workday.Record{Entry: entry, Computation: comp})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store entry", err)
		return
	}

	from, to := summary.MonthRange(date.Year(), date.Month())
	swept, err := h.consolidator().Sweep(ctx, employeeID, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to consolidate duplicate dates", err)
		return
	}
	if swept > 0 {
		// The stored row may have been merged away; re-read the date.
		dayRecords, err := h.Entries.RecordsForDate(ctx, employeeID, date)
		if err == nil && len(dayRecords) > 0 {
			stored = dayRecords[0]
		}
	}

	writeJSON(w, http.StatusCreated, EntryResponse{
		Entry:             toEntryDTO(stored),
		ConsolidatedDates: swept,
	})
}

// ListEntries returns all records of one month, ordered by date.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	year, month, ok := yearMonthParams(w, r)
	if !ok {
		return
	}

	if _, err := h.Employees.GetProfile(r.Context(), employeeID); err != nil {
		writeDomainError(w, err, "Failed to resolve employee")
		return
	}

	from, to := summary.MonthRange(year, month)
	records, err := h.Entries.ListRecords(r.Context(), employeeID, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list entries", err)
		return
	}

	dtos := make([]EntryDTO, len(records))
	for i, rec := range records {
		dtos[i] = toEntryDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// DeleteEntry removes every row an employee has on one date.
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	date, err := workday.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	deleted, err := h.Entries.DeleteDay(r.Context(), employeeID, date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete entries", err)
		return
	}
	if deleted == 0 {
		writeError(w, http.StatusNotFound, "No entries on that date", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

// =============================================================================
// SUMMARY AND REPORT HANDLERS
// =============================================================================

// GetSummary returns the yearly summary, or the monthly summary with
// year-to-date figures when ?month= is given.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	agg := &summary.Aggregator{Profiles: h.Employees, Entries: h.Entries, Config: h.Config}

	var (
		s   summary.PeriodSummary
		err error
	)
	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		month, perr := parseMonth(monthStr)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "Invalid month (use 1-12)", perr)
			return
		}
		s, err = agg.ForMonth(r.Context(), employeeID, year, month)
	} else {
		s, err = agg.ForYear(r.Context(), employeeID, year)
	}
	if err != nil {
		writeDomainError(w, err, "Failed to build summary")
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(s))
}

// GetReport returns the rendering-ready rows of one month: a row per
// weekday, weekend rows only where records exist.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	year, ok := yearParam(w, r)
	if !ok {
		return
	}
	month, err := parseMonth(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month (use 1-12)", err)
		return
	}

	if _, err := h.Employees.GetProfile(r.Context(), employeeID); err != nil {
		writeDomainError(w, err, "Failed to resolve employee")
		return
	}

	from, to := summary.MonthRange(year, month)
	records, err := h.Entries.ListRecords(r.Context(), employeeID, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list entries", err)
		return
	}

	rows := report.MonthRows(year, month, records, h.Config)
	dtos := make([]ReportRowDTO, len(rows))
	for i, row := range rows {
		dtos[i] = toReportRowDTO(row)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// CONFIG HANDLER
// =============================================================================

// GetConfig echoes the active compliance configuration.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	dto := ConfigDTO{
		StandardDailyHours:  h.Config.StandardDailyHours.InexactFloat64(),
		MaxDailyHours:       h.Config.MaxDailyHours.InexactFloat64(),
		OvertimeMultiplier:  h.Config.OvertimeMultiplier.InexactFloat64(),
		BusinessDaysPerWeek: h.Config.BusinessDaysPerWeek,
		DeductBreakDeficit:  h.Config.DeductBreakDeficit,
	}
	for _, tier := range h.Config.BreakTiers {
		dto.BreakTiers = append(dto.BreakTiers, BreakTierDTO{
			AboveHours:      tier.AboveHours.InexactFloat64(),
			RequiredMinutes: tier.RequiredMinutes,
		})
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// HELPERS
// =============================================================================

func yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 1 {
		writeError(w, http.StatusBadRequest, "Invalid or missing year", err)
		return 0, false
	}
	return year, true
}

func yearMonthParams(w http.ResponseWriter, r *http.Request) (int, time.Month, bool) {
	year, ok := yearParam(w, r)
	if !ok {
		return 0, 0, false
	}
	month, err := parseMonth(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month (use 1-12)", err)
		return 0, 0, false
	}
	return year, month, true
}

func parseMonth(s string) (time.Month, error) {
	m, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if m < 1 || m > 12 {
		return 0, errors.New("month out of range")
	}
	return time.Month(m), nil
}

// writeDomainError maps domain sentinels to HTTP statuses; anything
// unrecognized is a 500.
func writeDomainError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, employee.ErrNotFound):
		writeError(w, http.StatusNotFound, "Employee not found", err)
	case errors.Is(err, employee.ErrInvalidProfile), workday.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
