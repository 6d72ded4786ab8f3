package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-records/internal/dto"
	"github.com/noah-isme/sma-records/internal/models"
	appErrors "github.com/noah-isme/sma-records/pkg/errors"
)

func seedReportData(t *testing.T, store *Store) {
	t.Helper()
	seedRelations(t, store)
	inactive := models.StudentInactive
	createStudent(t, store, "S3", "Grace", "Hopper", "9C")
	_, err := NewStudentService(store).Update(context.Background(), "S3", models.StudentPatch{Status: &inactive})
	require.NoError(t, err)
	markAttendance(t, store, "S3", "2024-04-30", models.AttendancePresent)
}

func TestReportServiceAttendance(t *testing.T) {
	store, _ := newTestStore(t)
	seedReportData(t, store)

	report, err := NewReportService(store).Generate(context.Background(), dto.ReportAttendance)
	require.NoError(t, err)
	assert.Equal(t, "Attendance Report", report.Title)
	assert.Equal(t, testNow, report.GeneratedAt)
	require.NotNil(t, report.Attendance)
	assert.Nil(t, report.Grades)

	body := report.Attendance
	assert.Equal(t, 3, body.TotalRecords)
	assert.Equal(t, 2, body.ReportingDays)
	assert.Equal(t, []dto.AttendanceDay{
		{Date: "2024-05-01", Present: 1, Absent: 1, Total: 2, Rate: 50},
		{Date: "2024-04-30", Present: 1, Absent: 0, Total: 1, Rate: 100},
	}, body.Days)
}

func TestReportServiceGrades(t *testing.T) {
	store, _ := newTestStore(t)
	seedReportData(t, store)

	report, err := NewReportService(store).Generate(context.Background(), dto.ReportGrades)
	require.NoError(t, err)
	body := report.Grades
	require.NotNil(t, body)
	assert.Equal(t, 3, body.TotalGrades)
	assert.Equal(t, 83.3, body.AverageScore)
	assert.Equal(t, 3, body.TotalStudents)
	assert.Equal(t, 2, body.TotalCourses)
	assert.Equal(t, []dto.GradeBand{
		{Letter: models.LetterA, Count: 1, Percentage: 33.3},
		{Letter: models.LetterB, Count: 1, Percentage: 33.3},
		{Letter: models.LetterC, Count: 1, Percentage: 33.3},
		{Letter: models.LetterD, Count: 0, Percentage: 0},
		{Letter: models.LetterF, Count: 0, Percentage: 0},
	}, body.Distribution)
}

func TestReportServiceGradesEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	report, err := NewReportService(store).Generate(context.Background(), dto.ReportGrades)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Grades.TotalGrades)
	assert.Equal(t, 0.0, report.Grades.AverageScore)
	for _, band := range report.Grades.Distribution {
		assert.Zero(t, band.Percentage)
	}
}

func TestReportServiceStudents(t *testing.T) {
	store, _ := newTestStore(t)
	seedReportData(t, store)

	report, err := NewReportService(store).Generate(context.Background(), dto.ReportStudents)
	require.NoError(t, err)
	body := report.Students
	require.NotNil(t, body)
	assert.Equal(t, 3, body.TotalStudents)
	assert.Equal(t, 2, body.ActiveStudents)
	assert.Equal(t, []dto.ClassBreakdown{
		{ClassName: "10A", Total: 2, Active: 2, Inactive: 0},
		{ClassName: "9C", Total: 1, Active: 0, Inactive: 1},
	}, body.Classes)
}

func TestReportServiceCourses(t *testing.T) {
	store, _ := newTestStore(t)
	seedReportData(t, store)
	createCourse(t, store, "C3", "Chemistry")

	report, err := NewReportService(store).Generate(context.Background(), dto.ReportCourses)
	require.NoError(t, err)
	body := report.Courses
	require.NotNil(t, body)
	assert.Equal(t, 3, body.TotalCourses)
	require.Len(t, body.Courses, 3)

	math := body.Courses[0]
	assert.Equal(t, "Mathematics", math.Name)
	assert.Equal(t, 2, math.GradeCount)
	require.NotNil(t, math.AverageScore)
	assert.Equal(t, 89.0, *math.AverageScore)
	assert.Nil(t, body.Courses[2].AverageScore)
}

func TestReportServiceUnknownKind(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := NewReportService(store).Generate(context.Background(), dto.ReportKind("finance"))
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
