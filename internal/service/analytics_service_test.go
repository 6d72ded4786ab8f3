package service

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-records/internal/analytics"
	"github.com/noah-isme/sma-records/internal/dto"
	"github.com/noah-isme/sma-records/internal/models"
	appErrors "github.com/noah-isme/sma-records/pkg/errors"
)

func createEvent(t *testing.T, store *Store, title, date string) {
	t.Helper()
	_, err := NewEventService(store).Create(context.Background(), CreateEventRequest{Title: title, Date: date})
	require.NoError(t, err)
}

func TestAnalyticsServiceDashboard(t *testing.T) {
	store, _ := newTestStore(t)
	seedReportData(t, store)
	createEvent(t, store, "Yesterday", "2024-04-30")
	createEvent(t, store, "Week end", "2024-05-08")
	createEvent(t, store, "Today", "2024-05-01")
	createEvent(t, store, "Too far", "2024-05-09")

	svc := NewAnalyticsService(store, analytics.DashboardOptions{})
	dashboard, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, dashboard.TotalStudents)
	assert.Equal(t, 2, dashboard.TotalCourses)
	assert.Equal(t, 50, dashboard.AttendanceRate)
	assert.Equal(t, 83.3, dashboard.AverageScore)
	assert.Len(t, dashboard.RecentActivities, DefaultDashboardRecentActivities)
	assert.Equal(t, "Added event: Too far", dashboard.RecentActivities[0].Description)

	require.Len(t, dashboard.TopStudents, 3)
	assert.Equal(t, "S2", dashboard.TopStudents[0].Student.ID)
	assert.Equal(t, "S1", dashboard.TopStudents[1].Student.ID)

	require.Len(t, dashboard.UpcomingEvents, 2)
	assert.Equal(t, "Today", dashboard.UpcomingEvents[0].Title)
	assert.Equal(t, "Week end", dashboard.UpcomingEvents[1].Title)
}

func TestAnalyticsServiceDashboardOptions(t *testing.T) {
	store, _ := newTestStore(t)
	seedReportData(t, store)

	svc := NewAnalyticsService(store, analytics.DashboardOptions{TopStudents: 1, RecentActivities: 2, UpcomingDays: 1})
	dashboard, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Len(t, dashboard.TopStudents, 1)
	assert.Len(t, dashboard.RecentActivities, 2)
}

func TestAnalyticsServiceLetterGrade(t *testing.T) {
	store, _ := newTestStore(t)
	svc := NewAnalyticsService(store, analytics.DashboardOptions{})
	ctx := context.Background()

	cases := map[float64]models.LetterGrade{
		100: models.LetterA, 90: models.LetterA, 89.99: models.LetterB, 80: models.LetterB,
		79.5: models.LetterC, 70: models.LetterC, 60: models.LetterD, 59.9: models.LetterF, 0: models.LetterF,
	}
	for score, want := range cases {
		got, err := svc.LetterGrade(ctx, score)
		require.NoError(t, err)
		assert.Equal(t, want, got.LetterGrade, "score %v", score)
	}

	for _, score := range []float64{120, -0.5, math.NaN(), math.Inf(1)} {
		_, err := svc.LetterGrade(ctx, score)
		assert.ErrorIs(t, err, appErrors.ErrValidation, "score %v", score)
	}
}

func TestAnalyticsServiceQueries(t *testing.T) {
	store, _ := newTestStore(t)
	seedReportData(t, store)
	svc := NewAnalyticsService(store, analytics.DashboardOptions{})
	ctx := context.Background()

	gpa, err := svc.GPA(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, &dto.GPAResponse{StudentID: "S1", GradeCount: 2, GPA: 2.5}, gpa)

	gpa, err = svc.GPA(ctx, "S3")
	require.NoError(t, err)
	assert.Equal(t, 0.0, gpa.GPA)

	_, err = svc.GPA(ctx, "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	_, err = svc.GPA(ctx, "")
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	rate, err := svc.AttendanceRate(ctx, models.AttendanceFilter{Date: "2024-05-01"})
	require.NoError(t, err)
	assert.Equal(t, 2, rate.Total)
	assert.Equal(t, 50, rate.Rate)

	avg, err := svc.AverageScore(ctx, models.GradeFilter{CourseID: "C1"})
	require.NoError(t, err)
	assert.Equal(t, 2, avg.GradeCount)
	assert.Equal(t, 89.0, avg.AverageScore)

	dist, err := svc.GradeDistribution(ctx, models.GradeFilter{StudentID: "S1"})
	require.NoError(t, err)
	assert.Equal(t, 1, dist[models.LetterB])
	assert.Equal(t, 1, dist[models.LetterC])
	assert.Equal(t, 0, dist[models.LetterA])

	top, err := svc.TopStudents(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "S2", top[0].Student.ID)
	assert.Equal(t, 93.0, top[0].Average)

	classes, err := svc.Classes(ctx)
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.Equal(t, "10A", classes[0].ClassName)
	assert.Equal(t, "9C", classes[1].ClassName)
	assert.Equal(t, 1, classes[1].Inactive)

	days, err := svc.AttendanceByDate(ctx, models.AttendanceFilter{})
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "2024-05-01", days[0].Date)

	createEvent(t, store, "Finals", "2024-05-20")
	createEvent(t, store, "Assembly", "2024-05-01")
	events, err := svc.UpcomingEvents(ctx, 30)
	require.NoError(t, err)
	require.Len(t, events, 2)
	events, err = svc.UpcomingEvents(ctx, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Assembly", events[0].Title)
	events, err = svc.UpcomingEvents(ctx, -1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Assembly", events[0].Title)
}

func TestAnalyticsServiceAverageScoreIsPlainMean(t *testing.T) {
	store, _ := newTestStore(t)
	createStudent(t, store, "S1", "Ada", "Lovelace", "10A")
	createCourse(t, store, "C1", "Mathematics")
	for _, score := range []float64{70, 71, 71} {
		addGrade(t, store, "S1", "C1", score)
	}

	avg, err := NewAnalyticsService(store, analytics.DashboardOptions{}).AverageScore(context.Background(), models.GradeFilter{CourseID: "C1"})
	require.NoError(t, err)
	assert.Equal(t, 3, avg.GradeCount)
	assert.InDelta(t, 212.0/3, avg.AverageScore, 1e-9)
	assert.NotEqual(t, 70.7, avg.AverageScore)
}
