package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-records/internal/analytics"
	internalmiddleware "github.com/noah-isme/sma-records/internal/middleware"
	"github.com/noah-isme/sma-records/internal/repository"
	"github.com/noah-isme/sma-records/internal/service"
)

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *struct{ Code string } `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func buildTestRouter(t *testing.T) (*gin.Engine, *service.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	metrics := service.NewMetricsService()
	repo := repository.NewCollectionRepository(repository.NewMemoryBackend(), "test:")
	store := service.NewStore(repo, nil, metrics, nil, service.StoreOptions{
		Now: func() time.Time { return fixedNow },
	})
	require.NoError(t, store.Load(context.Background()))

	reports := service.NewReportService(store)
	handlers := Handlers{
		Students:   NewStudentHandler(service.NewStudentService(store)),
		Courses:    NewCourseHandler(service.NewCourseService(store)),
		Attendance: NewAttendanceHandler(service.NewAttendanceService(store)),
		Grades:     NewGradeHandler(service.NewGradeService(store)),
		Events:     NewEventHandler(service.NewEventService(store)),
		Activities: NewActivityHandler(service.NewActivityService(store)),
		Analytics:  NewAnalyticsHandler(service.NewAnalyticsService(store, analytics.DashboardOptions{})),
		Reports:    NewReportHandler(reports, service.NewExportService(reports, nil)),
		Transfer:   NewTransferHandler(service.NewTransferService(store)),
	}
	system := NewSystemHandler(metrics, store, "memory")

	router := gin.New()
	router.Use(internalmiddleware.Metrics(metrics))
	router.GET("/health", system.Health)
	router.GET("/metrics", system.Prometheus)
	RegisterRoutes(router.Group("/api/v1"), handlers)
	return router, store
}

func performRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	env := decodeEnvelope(t, w)
	require.Nil(t, env.Error)
	require.NoError(t, json.Unmarshal(env.Data, dest))
}

func requireErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, code, env.Error.Code)
}

const studentPayload = `{"id":"S1","firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","class":"10A"}`

func TestStudentRoutes(t *testing.T) {
	router, _ := buildTestRouter(t)

	w := performRequest(router, http.MethodPost, "/api/v1/students", studentPayload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created map[string]interface{}
	decodeData(t, w, &created)
	assert.Equal(t, "S1", created["id"])
	assert.Equal(t, "active", created["status"])
	assert.Equal(t, "2024-05-01", created["enrollmentDate"])

	w = performRequest(router, http.MethodPost, "/api/v1/students", studentPayload)
	requireErrorCode(t, w, http.StatusConflict, "CONFLICT")

	w = performRequest(router, http.MethodGet, "/api/v1/students?search=love", "")
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.EqualValues(t, 1, env.Meta["total"])

	w = performRequest(router, http.MethodPatch, "/api/v1/students/S1", `{"class":"11B"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated map[string]interface{}
	decodeData(t, w, &updated)
	assert.Equal(t, "11B", updated["class"])

	w = performRequest(router, http.MethodGet, "/api/v1/students/S1/summary", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, http.MethodDelete, "/api/v1/students/S1", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = performRequest(router, http.MethodGet, "/api/v1/students/S1", "")
	requireErrorCode(t, w, http.StatusNotFound, "NOT_FOUND")
}

func TestStudentRoutesRejectInvalidPayloads(t *testing.T) {
	router, _ := buildTestRouter(t)

	w := performRequest(router, http.MethodPost, "/api/v1/students", `{"firstName":`)
	requireErrorCode(t, w, http.StatusBadRequest, "VALIDATION_ERROR")

	w = performRequest(router, http.MethodPost, "/api/v1/students", `{"firstName":"Ada","lastName":"L","email":"nope","class":"10A"}`)
	requireErrorCode(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestGradeRoutesCascadeOnStudentDelete(t *testing.T) {
	router, _ := buildTestRouter(t)

	require.Equal(t, http.StatusCreated, performRequest(router, http.MethodPost, "/api/v1/students", studentPayload).Code)
	require.Equal(t, http.StatusCreated, performRequest(router, http.MethodPost, "/api/v1/courses", `{"id":"C1","code":"MATH","name":"Mathematics"}`).Code)

	w := performRequest(router, http.MethodPost, "/api/v1/grades", `{"studentId":"S1","courseId":"C1","score":85}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var grade map[string]interface{}
	decodeData(t, w, &grade)
	assert.Equal(t, "B", grade["grade"])

	w = performRequest(router, http.MethodPost, "/api/v1/grades", `{"studentId":"S9","courseId":"C1","score":85}`)
	requireErrorCode(t, w, http.StatusBadRequest, "VALIDATION_ERROR")

	w = performRequest(router, http.MethodPost, "/api/v1/attendance", `{"studentId":"S1","status":"present"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.Equal(t, http.StatusNoContent, performRequest(router, http.MethodDelete, "/api/v1/students/S1", "").Code)

	var grades []map[string]interface{}
	decodeData(t, performRequest(router, http.MethodGet, "/api/v1/grades", ""), &grades)
	assert.Empty(t, grades)
	var attendance []map[string]interface{}
	decodeData(t, performRequest(router, http.MethodGet, "/api/v1/attendance?studentId=S1", ""), &attendance)
	assert.Empty(t, attendance)
}

func TestEventAndActivityRoutes(t *testing.T) {
	router, _ := buildTestRouter(t)

	w := performRequest(router, http.MethodPost, "/api/v1/events", `{"title":"Finals","date":"2024-05-03","type":"exam"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Equal(t, http.StatusCreated, performRequest(router, http.MethodPost, "/api/v1/students", studentPayload).Code)

	var events []map[string]interface{}
	decodeData(t, performRequest(router, http.MethodGet, "/api/v1/events?type=exam", ""), &events)
	require.Len(t, events, 1)

	var activities []map[string]interface{}
	decodeData(t, performRequest(router, http.MethodGet, "/api/v1/activities?limit=1", ""), &activities)
	require.Len(t, activities, 1)
	assert.Equal(t, "student_added", activities[0]["type"])

	w = performRequest(router, http.MethodGet, "/api/v1/activities?limit=many", "")
	requireErrorCode(t, w, http.StatusBadRequest, "VALIDATION_ERROR")

	id := activities[0]["id"].(string)
	require.Equal(t, http.StatusNoContent, performRequest(router, http.MethodDelete, "/api/v1/activities/"+id, "").Code)
	w = performRequest(router, http.MethodGet, "/api/v1/activities/"+id, "")
	requireErrorCode(t, w, http.StatusNotFound, "NOT_FOUND")
}

func TestAnalyticsRoutes(t *testing.T) {
	router, _ := buildTestRouter(t)

	var letter map[string]interface{}
	decodeData(t, performRequest(router, http.MethodGet, "/api/v1/analytics/letter-grade?score=85", ""), &letter)
	assert.Equal(t, "B", letter["letterGrade"])

	w := performRequest(router, http.MethodGet, "/api/v1/analytics/letter-grade?score=abc", "")
	requireErrorCode(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
	for _, score := range []string{"NaN", "101", "-1"} {
		w = performRequest(router, http.MethodGet, "/api/v1/analytics/letter-grade?score="+score, "")
		requireErrorCode(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
	}

	var dist map[string]int
	decodeData(t, performRequest(router, http.MethodGet, "/api/v1/analytics/grade-distribution", ""), &dist)
	assert.Equal(t, map[string]int{"A": 0, "B": 0, "C": 0, "D": 0, "F": 0}, dist)

	w = performRequest(router, http.MethodGet, "/api/v1/analytics/gpa", "")
	requireErrorCode(t, w, http.StatusBadRequest, "VALIDATION_ERROR")

	for _, path := range []string{
		"/api/v1/analytics/dashboard",
		"/api/v1/analytics/top-students?n=3",
		"/api/v1/analytics/classes",
		"/api/v1/analytics/attendance-by-date",
		"/api/v1/analytics/upcoming-events?days=14",
		"/api/v1/analytics/attendance-rate?date=2024-05-01",
		"/api/v1/analytics/average-score?courseId=C1",
	} {
		w := performRequest(router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestUpcomingEventsHorizon(t *testing.T) {
	router, _ := buildTestRouter(t)
	for _, body := range []string{
		`{"title":"Assembly","date":"2024-05-01"}`,
		`{"title":"Finals","date":"2024-05-03","type":"exam"}`,
	} {
		require.Equal(t, http.StatusCreated, performRequest(router, http.MethodPost, "/api/v1/events", body).Code)
	}

	var today []map[string]interface{}
	decodeData(t, performRequest(router, http.MethodGet, "/api/v1/analytics/upcoming-events?days=0", ""), &today)
	require.Len(t, today, 1)
	assert.Equal(t, "Assembly", today[0]["title"])

	var week []map[string]interface{}
	decodeData(t, performRequest(router, http.MethodGet, "/api/v1/analytics/upcoming-events", ""), &week)
	assert.Len(t, week, 2)
}

func TestReportRoutes(t *testing.T) {
	router, _ := buildTestRouter(t)
	require.Equal(t, http.StatusCreated, performRequest(router, http.MethodPost, "/api/v1/students", studentPayload).Code)

	var report map[string]interface{}
	decodeData(t, performRequest(router, http.MethodGet, "/api/v1/reports/students", ""), &report)
	assert.Equal(t, "Students Report", report["title"])
	assert.NotNil(t, report["students"])

	w := performRequest(router, http.MethodGet, "/api/v1/reports/finance", "")
	requireErrorCode(t, w, http.StatusBadRequest, "VALIDATION_ERROR")

	w = performRequest(router, http.MethodGet, "/api/v1/reports/students/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="students-report-2024-05-01.csv"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "Total Students,1\n"))

	w = performRequest(router, http.MethodGet, "/api/v1/reports/students/export?format=pdf", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))

	w = performRequest(router, http.MethodGet, "/api/v1/reports/students/export?format=docx", "")
	requireErrorCode(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestTransferRoutes(t *testing.T) {
	router, store := buildTestRouter(t)
	require.Equal(t, http.StatusCreated, performRequest(router, http.MethodPost, "/api/v1/students", studentPayload).Code)

	w := performRequest(router, http.MethodGet, "/api/v1/data/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="student-management-backup-2024-05-01.json"`, w.Header().Get("Content-Disposition"))
	exported := w.Body.String()
	assert.Contains(t, exported, `"version": "1.0"`)

	w = performRequest(router, http.MethodPost, "/api/v1/data/import", `{"students":[],"courses":[]}`)
	requireErrorCode(t, w, http.StatusPreconditionFailed, "PRECONDITION_FAILED")

	w = performRequest(router, http.MethodPost, "/api/v1/data/import?confirm=true", `{"students":[]}`)
	requireErrorCode(t, w, http.StatusBadRequest, "MALFORMED_IMPORT")

	w = performRequest(router, http.MethodPost, "/api/v1/data/import?confirm=true", `not json`)
	requireErrorCode(t, w, http.StatusBadRequest, "MALFORMED_IMPORT")
	assert.Len(t, store.Snapshot().Students, 1)

	w = performRequest(router, http.MethodPost, "/api/v1/data/import?confirm=true", `{"students":[],"courses":[]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, store.Snapshot().Students)

	w = performRequest(router, http.MethodPost, "/api/v1/data/import?confirm=true", exported)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, store.Snapshot().Students, 1)
}

func TestSystemRoutes(t *testing.T) {
	router, _ := buildTestRouter(t)
	require.Equal(t, http.StatusCreated, performRequest(router, http.MethodPost, "/api/v1/students", studentPayload).Code)

	w := performRequest(router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	var health struct {
		Status      string         `json:"status"`
		Driver      string         `json:"driver"`
		Collections map[string]int `json:"collections"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "memory", health.Driver)
	assert.Equal(t, 1, health.Collections["students"])

	w = performRequest(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `http_requests_total{method="POST",path="/api/v1/students",status="201"} 1`)
	assert.Contains(t, body, `records_mutations_total{action="create",collection="students"} 1`)
	assert.Contains(t, body, `records_collection_size{collection="students"} 1`)
}
