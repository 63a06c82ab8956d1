package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cuemby/nurseduty/pkg/export"
	"github.com/cuemby/nurseduty/pkg/metrics"
	"github.com/cuemby/nurseduty/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testRoster = `{"nurses": [
  {"id": 1, "name": "王子夙", "role": "leader", "group": 2, "active": true},
  {"id": 2, "name": "洪秀玲", "role": "member", "group": 1, "active": false}
]}`

func newTestServer(t testing.TB, cfg Config) (*Server, *storage.MemoryBackend) {
	t.Helper()
	backend := storage.NewMemoryBackend()
	store := storage.NewDocumentStore(backend)
	_, err := store.Seed()
	require.NoError(t, err)
	return NewServer(store, cfg), backend
}

func markHealthy() {
	metrics.RegisterComponent("api", true, "")
	metrics.RegisterComponent("storage", true, "")
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Detail
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Message
}

func TestGetNurses(t *testing.T) {
	srv, backend := newTestServer(t, Config{})

	w := do(t, srv, http.MethodGet, "/api/nurses", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Nurse roster not found", detail(t, w))

	require.NoError(t, backend.Write("nurses", []byte(testRoster)))

	w = do(t, srv, http.MethodGet, "/api/nurses", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, testRoster, w.Body.String())
	assert.Contains(t, w.Body.String(), "王子夙")
}

func TestUpdateNurse(t *testing.T) {
	srv, backend := newTestServer(t, Config{})
	require.NoError(t, backend.Write("nurses", []byte(testRoster)))

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantDetail string
	}{
		{name: "group only", path: "/api/nurses/1", body: `{"group": 4}`, wantStatus: http.StatusOK},
		{name: "group and active", path: "/api/nurses/2", body: `{"group": 3, "active": true}`, wantStatus: http.StatusOK},
		{name: "unknown id", path: "/api/nurses/99", body: `{"group": 1}`, wantStatus: http.StatusNotFound, wantDetail: "Nurse not found"},
		{name: "missing group", path: "/api/nurses/1", body: `{"active": false}`, wantStatus: http.StatusUnprocessableEntity, wantDetail: "group: field required"},
		{name: "group wrong type", path: "/api/nurses/1", body: `{"group": "two"}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "malformed body", path: "/api/nurses/1", body: `{"group": `, wantStatus: http.StatusBadRequest},
		{name: "empty body", path: "/api/nurses/1", body: ``, wantStatus: http.StatusUnprocessableEntity},
		{name: "bad id", path: "/api/nurses/abc", body: `{"group": 1}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, http.MethodPut, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "Nurse updated successfully", message(t, w))
			}
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, detail(t, w))
			}
		})
	}

	w := do(t, srv, http.MethodGet, "/api/nurses", "")
	assert.JSONEq(t, `{"nurses": [
	  {"id": 1, "name": "王子夙", "role": "leader", "group": 4, "active": true},
	  {"id": 2, "name": "洪秀玲", "role": "member", "group": 3, "active": true}
	]}`, w.Body.String())
}

func TestUpdateNurseWithoutRoster(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	w := do(t, srv, http.MethodPut, "/api/nurses/1", `{"group": 1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Nurse roster not found", detail(t, w))
}

func TestNursesWithForeignRecords(t *testing.T) {
	srv, backend := newTestServer(t, Config{})
	roster := `{"nurses": [
	  {"id": "tmp-1", "name": "新人"},
	  {"name": "no id"},
	  {"id": 2, "name": "b", "group": 1}
	], "updatedBy": "admin"}`
	require.NoError(t, backend.Write("nurses", []byte(roster)))

	w := do(t, srv, http.MethodGet, "/api/nurses", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, roster, w.Body.String())

	w = do(t, srv, http.MethodPut, "/api/nurses/2", `{"group": 4}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, srv, http.MethodGet, "/api/nurses", "")
	assert.JSONEq(t, `{"nurses": [
	  {"id": "tmp-1", "name": "新人"},
	  {"name": "no id"},
	  {"id": 2, "name": "b", "group": 4}
	], "updatedBy": "admin"}`, w.Body.String())
}

func TestResetGroups(t *testing.T) {
	srv, backend := newTestServer(t, Config{})
	require.NoError(t, backend.Write("nurses", []byte(testRoster)))

	w := do(t, srv, http.MethodPost, "/api/nurses/reset-groups", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "All nurse groups reset to 0", message(t, w))

	w = do(t, srv, http.MethodGet, "/api/nurses", "")
	var roster struct {
		Nurses []map[string]any `json:"nurses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &roster))
	for _, n := range roster.Nurses {
		assert.Equal(t, float64(0), n["group"])
	}

	// reset-groups is not a nurse id
	w = do(t, srv, http.MethodPut, "/api/nurses/reset-groups", `{"group": 1}`)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "POST", w.Header().Get("Allow"))
}

func TestFormulas(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	w := do(t, srv, http.MethodGet, "/api/formula", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[
	  {"type": "regular", "formula_data": []},
	  {"type": "por", "formula_data": []},
	  {"type": "leader", "formula_data": []},
	  {"type": "secretary", "formula_data": []}
	]`, w.Body.String())

	body := `[{"type": "regular", "formula_data": [{"day1": "D", "note": "<early>"}]}]`
	w = do(t, srv, http.MethodPost, "/api/formula", body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "All formula schedules saved successfully", message(t, w))

	w = do(t, srv, http.MethodGet, "/api/formula", "")
	assert.JSONEq(t, body, w.Body.String())
	assert.Contains(t, w.Body.String(), "<early>")

	w = do(t, srv, http.MethodPost, "/api/formula", `[{"type": "regular"}]`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "0.formula_data: field required", detail(t, w))

	w = do(t, srv, http.MethodPost, "/api/formula", `{"type": "regular"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSettings(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	w := do(t, srv, http.MethodGet, "/api/settings", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Settings not found", detail(t, w))

	w = do(t, srv, http.MethodPost, "/api/settings", `{"regularGroupCount": 3}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, detail(t, w), "porGroupCount: field required")

	body := `{"regularGroupCount": 3, "porGroupCount": 2, "leaderGroupCount": 1, "secretaryGroupCount": 0}`
	w = do(t, srv, http.MethodPost, "/api/settings", body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Settings saved successfully", message(t, w))

	w = do(t, srv, http.MethodGet, "/api/settings", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, body, w.Body.String())
}

func monthlyBody(year, month int, name string) string {
	return `{"year": ` + itoa(year) + `, "month": ` + itoa(month) + `, "schedule": [
	  {"name": "` + name + `", "role": "leader", "group": 1, "shifts": ["D", "E", "N"]}
	]}`
}

func itoa(v int) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func TestMonthlySchedule(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	w := do(t, srv, http.MethodGet, "/api/monthly-schedule/2024/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No monthly schedules found", detail(t, w))

	w = do(t, srv, http.MethodPost, "/api/monthly-schedule", monthlyBody(2024, 1, "王子夙"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Monthly schedule saved successfully", message(t, w))

	w = do(t, srv, http.MethodPost, "/api/monthly-schedule", monthlyBody(2024, 2, "洪秀玲"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, srv, http.MethodGet, "/api/monthly-schedule/2024/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"year": 2024, "month": 1, "schedule": [
	  {"name": "王子夙", "role": "leader", "group": 1, "shifts": ["D", "E", "N"], "vacationDays": 0, "accumulatedLeave": 0}
	]}`, w.Body.String())

	w = do(t, srv, http.MethodGet, "/api/monthly-schedule/2024/3", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Schedule for specified month not found", detail(t, w))

	w = do(t, srv, http.MethodGet, "/api/monthly-schedule/2024/march", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMonthlyScheduleValidation(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	tests := []struct {
		name       string
		body       string
		wantDetail string
	}{
		{name: "month wrong type", body: `{"year": 2024, "month": "may", "schedule": []}`, wantDetail: "month: expected int, got string"},
		{name: "missing schedule", body: `{"year": 2024, "month": 1}`, wantDetail: "schedule: field required"},
		{name: "missing item field", body: `{"year": 2024, "month": 1, "schedule": [{"name": "A", "role": "r", "group": 1}]}`, wantDetail: "schedule.0.shifts: field required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, "/api/monthly-schedule", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Equal(t, tt.wantDetail, detail(t, w))
		})
	}
}

func TestMonthlyScheduleAnyMonthNumber(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	w := do(t, srv, http.MethodPost, "/api/monthly-schedule", monthlyBody(2024, 13, "A"))
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, srv, http.MethodGet, "/api/monthly-schedule/2024/13", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"month":13`)

	// a workbook is laid out by calendar day
	w = do(t, srv, http.MethodGet, "/api/monthly-schedule/2024/13/export", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "month: must be between 1 and 12, got 13", detail(t, w))
}

func TestExportMonthlySchedule(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	w := do(t, srv, http.MethodGet, "/api/monthly-schedule/2024/2/export", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/monthly-schedule", monthlyBody(2024, 2, "王子夙")).Code)

	w = do(t, srv, http.MethodGet, "/api/monthly-schedule/2024/2/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "schedule-2024-02.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("2024-02")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "王子夙", rows[1][0])
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	w := do(t, srv, http.MethodDelete, "/api/settings", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "GET, POST", w.Header().Get("Allow"))
	assert.Equal(t, "Method Not Allowed", detail(t, w))
}

func TestUnknownRoute(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	w := do(t, srv, http.MethodGet, "/api/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not Found", detail(t, w))
}

func TestServeAndShutdown(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	t.Cleanup(markHealthy)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(lis) }()

	url := "http://" + lis.Addr().String() + "/api/formula"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.NoError(t, <-errCh)
}
