package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/timecard-engine/compliance"
	"github.com/warp/timecard-engine/store/memory"
)

// =============================================================================
// TEST HARNESS
// =============================================================================

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})

	store := memory.New()
	h := NewHandler(store, store, compliance.DefaultConfig(), log)
	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
}

func createEmployee(t *testing.T, srv *httptest.Server) EmployeeDTO {
	t.Helper()

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/employees", CreateEmployeeRequest{
		ID:                  "emp-1",
		Name:                "Ada Wong",
		Position:            "Analyst",
		HoursPerWeek:        40,
		HourlyRate:          20,
		VacationDaysPerYear: 30,
		SickDaysPerYear:     10,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var dto EmployeeDTO
	decode(t, resp, &dto)
	return dto
}

// =============================================================================
// EMPLOYEE ENDPOINTS
// =============================================================================

func TestCreateAndGetEmployee(t *testing.T) {
	srv := newTestServer(t)

	// GIVEN a created employee
	created := createEmployee(t, srv)
	assert.Equal(t, "emp-1", created.ID)
	assert.True(t, created.Active)

	// WHEN fetching it
	resp, err := http.Get(srv.URL + "/api/employees/emp-1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// THEN the profile round-trips
	var got EmployeeDTO
	decode(t, resp, &got)
	assert.Equal(t, "Ada Wong", got.Name)
	assert.Equal(t, 40.0, got.HoursPerWeek)
	assert.Equal(t, 30, got.VacationDaysPerYear)
}

func TestGetEmployeeNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/employees/ghost")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateEmployeeRejectsInvalidProfile(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/employees", CreateEmployeeRequest{
		ID:           "emp-bad",
		Name:         "", // required
		HoursPerWeek: 40,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateEmployeePartial(t *testing.T) {
	srv := newTestServer(t)
	createEmployee(t, srv)

	// WHEN patching only the rate
	rate := 25.0
	resp := doJSON(t, http.MethodPatch, srv.URL+"/api/employees/emp-1", UpdateEmployeeRequest{
		HourlyRate: &rate,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// THEN only that field changes
	var got EmployeeDTO
	decode(t, resp, &got)
	assert.Equal(t, 25.0, got.HourlyRate)
	assert.Equal(t, "Ada Wong", got.Name)
	assert.Equal(t, 40.0, got.HoursPerWeek)
}

func TestDeactivateHidesFromDefaultList(t *testing.T) {
	srv := newTestServer(t)
	createEmployee(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/employees/emp-1/deactivate", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var deactivated EmployeeDTO
	decode(t, resp, &deactivated)
	assert.False(t, deactivated.Active)

	// Default listing skips inactive profiles.
	resp, err := http.Get(srv.URL + "/api/employees")
	require.NoError(t, err)
	var active []EmployeeDTO
	decode(t, resp, &active)
	assert.Empty(t, active)

	// include_inactive=true returns them.
	resp, err = http.Get(srv.URL + "/api/employees?include_inactive=true")
	require.NoError(t, err)
	var all []EmployeeDTO
	decode(t, resp, &all)
	assert.Len(t, all, 1)
}

// =============================================================================
// TIME ENTRY ENDPOINTS
// =============================================================================

func TestCreateEntryComputesFigures(t *testing.T) {
	srv := newTestServer(t)
	createEmployee(t, srv)

	// GIVEN a standard 9-to-5 day with a lunch break
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/employees/emp-1/entries", EntryRequest{
		Date: "2024-04-03",
		Type: "work",
		Periods: []PeriodDTO{
			{Start: "09:00", End: "12:00"},
			{Start: "13:00", End: "17:00"},
		},
		Note: "onsite",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// THEN the stored record carries the derived figures
	var got EntryResponse
	decode(t, resp, &got)
	assert.Equal(t, 7.0, got.Entry.HoursWorked)
	assert.Equal(t, 8.0, got.Entry.TotalPresent)
	assert.Equal(t, 1.0, got.Entry.TotalBreak)
	assert.True(t, got.Entry.BreakCompliant)
	assert.True(t, got.Entry.MaxHoursCompliant)
	assert.Equal(t, 0, got.ConsolidatedDates)
}

func TestCreateEntryFlagsBreakViolation(t *testing.T) {
	srv := newTestServer(t)
	createEmployee(t, srv)

	// 08:00-19:00 without breaks: too long and break-deficient.
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/employees/emp-1/entries", EntryRequest{
		Date:    "2024-04-04",
		Type:    "work",
		Periods: []PeriodDTO{{Start: "08:00", End: "19:00"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var got EntryResponse
	decode(t, resp, &got)
	assert.False(t, got.Entry.BreakCompliant)
	assert.False(t, got.Entry.MaxHoursCompliant)
	assert.Equal(t, 0.75, got.Entry.BreakDeficit)
	assert.Equal(t, 10.25, got.Entry.HoursWorked)
}

func TestCreateEntryConsolidatesDuplicateDate(t *testing.T) {
	srv := newTestServer(t)
	createEmployee(t, srv)

	// GIVEN a vacation day already on record
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/employees/emp-1/entries", EntryRequest{
		Date: "2024-04-05",
		Type: "vacation",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// WHEN work is recorded on the same date
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/employees/emp-1/entries", EntryRequest{
		Date:    "2024-04-05",
		Type:    "work",
		Periods: []PeriodDTO{{Start: "09:00", End: "13:00"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// THEN the two rows collapse and work wins
	var got EntryResponse
	decode(t, resp, &got)
	assert.Equal(t, 1, got.ConsolidatedDates)
	assert.Equal(t, "work", got.Entry.Type)

	resp, err := http.Get(srv.URL + "/api/employees/emp-1/entries?year=2024&month=4")
	require.NoError(t, err)
	var entries []EntryDTO
	decode(t, resp, &entries)
	assert.Len(t, entries, 1)
}

func TestCreateEntryRejectsBadInput(t *testing.T) {
	srv := newTestServer(t)
	createEmployee(t, srv)

	cases := []struct {
		name string
		req  EntryRequest
	}{
		{"bad date", EntryRequest{Date: "03.04.2024", Type: "work"}},
		{"bad time", EntryRequest{Date: "2024-04-03", Type: "work", Periods: []PeriodDTO{{Start: "9am", End: "17:00"}}}},
		{"end before start", EntryRequest{Date: "2024-04-03", Type: "work", Periods: []PeriodDTO{{Start: "17:00", End: "09:00"}}}},
		{"unknown type", EntryRequest{Date: "2024-04-03", Type: "sabbatical"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, srv.URL+"/api/employees/emp-1/entries", tc.req)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestCreateEntryUnknownEmployee(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/employees/ghost/entries", EntryRequest{
		Date: "2024-04-03",
		Type: "work",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteEntry(t *testing.T) {
	srv := newTestServer(t)
	createEmployee(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/employees/emp-1/entries", EntryRequest{
		Date: "2024-04-08",
		Type: "sick",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/employees/emp-1/entries/2024-04-08", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Deleting again finds nothing.
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// SUMMARY AND REPORT ENDPOINTS
// =============================================================================

func TestMonthlySummaryEndpoint(t *testing.T) {
	srv := newTestServer(t)
	createEmployee(t, srv)

	// GIVEN three 8h days and a vacation day in April
	for _, day := range []string{"2024-04-01", "2024-04-02", "2024-04-03"} {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/employees/emp-1/entries", EntryRequest{
			Date: day,
			Type: "work",
			Periods: []PeriodDTO{
				{Start: "08:00", End: "12:00"},
				{Start: "12:30", End: "16:30"},
			},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/employees/emp-1/entries", EntryRequest{
		Date: "2024-04-04",
		Type: "vacation",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// WHEN asking for the monthly summary
	resp, err := http.Get(srv.URL + "/api/employees/emp-1/summary?year=2024&month=4")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// THEN totals, pay, YTD and allowances are present
	var s SummaryDTO
	decode(t, resp, &s)
	assert.Equal(t, 24.0, s.TotalWorkHours)
	assert.Equal(t, 3, s.WorkDays)
	assert.Equal(t, 1, s.VacationDays)
	assert.Equal(t, 480.0, s.TotalPay) // 24h at 20/h, no overtime
	require.NotNil(t, s.YearToDate)
	assert.Equal(t, 24.0, s.YearToDate.TotalWorkHours)
	require.NotNil(t, s.Allowance)
	assert.Equal(t, 29, s.Allowance.RemainingVacationDays)
	assert.Equal(t, 10, s.Allowance.RemainingSickDays)
}

func TestYearlySummaryEndpoint(t *testing.T) {
	srv := newTestServer(t)
	createEmployee(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/employees/emp-1/entries", EntryRequest{
		Date: "2024-02-14",
		Type: "sick",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err := http.Get(srv.URL + "/api/employees/emp-1/summary?year=2024")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var s SummaryDTO
	decode(t, resp, &s)
	assert.Equal(t, 1, s.SickDays)
	assert.Nil(t, s.YearToDate) // yearly summaries carry no YTD block
	require.NotNil(t, s.Allowance)
	assert.Equal(t, 9, s.Allowance.RemainingSickDays)
}

func TestReportEndpoint(t *testing.T) {
	srv := newTestServer(t)
	createEmployee(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/employees/emp-1/entries", EntryRequest{
		Date:    "2024-04-03",
		Type:    "work",
		Periods: []PeriodDTO{{Start: "09:00", End: "17:30"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err := http.Get(srv.URL + "/api/employees/emp-1/report?year=2024&month=4")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rows []ReportRowDTO
	decode(t, resp, &rows)
	// April 2024 has 22 weekdays; no weekend records were entered.
	require.Len(t, rows, 22)

	var found bool
	for _, row := range rows {
		if row.Date == "03.04.2024" {
			found = true
			assert.Equal(t, "09:00-17:30", row.Periods)
			assert.Equal(t, 8.5, row.TotalPresent)
		} else {
			assert.Equal(t, "-", row.Periods)
		}
	}
	assert.True(t, found, "entered day missing from report")
}

func TestSummaryRequiresYear(t *testing.T) {
	srv := newTestServer(t)
	createEmployee(t, srv)

	resp, err := http.Get(srv.URL + "/api/employees/emp-1/summary")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// CONFIG ENDPOINT
// =============================================================================

func TestConfigEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/config")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cfg ConfigDTO
	decode(t, resp, &cfg)
	assert.Equal(t, 8.0, cfg.StandardDailyHours)
	assert.Equal(t, 10.0, cfg.MaxDailyHours)
	require.Len(t, cfg.BreakTiers, 2)
	assert.Equal(t, 6.0, cfg.BreakTiers[0].AboveHours)
	assert.Equal(t, 30, cfg.BreakTiers[0].RequiredMinutes)
	assert.Equal(t, 45, cfg.BreakTiers[1].RequiredMinutes)
	assert.True(t, cfg.DeductBreakDeficit)
}
