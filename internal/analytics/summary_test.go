package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-records/internal/models"
)

func sampleStudents() []models.Student {
	return []models.Student{
		{ID: "STU1001", FirstName: "John", LastName: "Doe", Email: "john.doe@school.edu", ClassName: "10A", Status: models.StudentActive},
		{ID: "STU1002", FirstName: "Jane", LastName: "Roe", Email: "jane@school.edu", ClassName: "10B", Status: models.StudentInactive},
		{ID: "STU1003", FirstName: "Ada", LastName: "Johnson", Email: "ada@school.edu", ClassName: "10A", Status: models.StudentActive},
	}
}

func TestFilterStudents(t *testing.T) {
	students := sampleStudents()

	ids := func(list []models.Student) []string {
		out := make([]string, 0, len(list))
		for _, s := range list {
			out = append(out, s.ID)
		}
		return out
	}

	assert.Equal(t, []string{"STU1001", "STU1003"}, ids(FilterStudents(students, models.StudentFilter{Search: "  JOHN "})))
	assert.Equal(t, []string{"STU1002"}, ids(FilterStudents(students, models.StudentFilter{Search: "stu1002"})))
	assert.Equal(t, []string{"STU1001", "STU1003"}, ids(FilterStudents(students, models.StudentFilter{Status: models.StudentActive})))
	assert.Equal(t, []string{"STU1003"}, ids(FilterStudents(students, models.StudentFilter{Search: "ada", ClassName: "10A"})))
	assert.Len(t, FilterStudents(students, models.StudentFilter{}), 3)
	assert.Empty(t, FilterStudents(students, models.StudentFilter{Search: "nobody"}))
}

func TestSummarizeStudent(t *testing.T) {
	student := sampleStudents()[0]
	grades := []models.Grade{
		{StudentID: "STU1001", Score: 92, LetterGrade: models.LetterA},
		{StudentID: "STU1001", Score: 81, LetterGrade: models.LetterB},
		{StudentID: "STU1002", Score: 40, LetterGrade: models.LetterF},
	}
	attendance := []models.AttendanceRecord{
		{StudentID: "STU1001", Status: models.AttendancePresent},
		{StudentID: "STU1001", Status: models.AttendanceLate},
		{StudentID: "STU1003", Status: models.AttendanceAbsent},
	}

	summary := SummarizeStudent(student, grades, attendance)
	assert.Equal(t, 2, summary.GradeCount)
	assert.Equal(t, 86.5, summary.AverageScore)
	assert.Equal(t, 3.5, summary.GPA)
	assert.Equal(t, 2, summary.AttendanceCount)
	assert.Equal(t, 50, summary.AttendanceRate)

	empty := SummarizeStudent(sampleStudents()[2], nil, nil)
	assert.Equal(t, 0, empty.GradeCount)
	assert.Equal(t, 0.0, empty.GPA)
	assert.Equal(t, 0, empty.AttendanceRate)
}

func TestBuildDashboard(t *testing.T) {
	today := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	activities := make([]models.ActivityLogEntry, 0, 8)
	for i := 0; i < 8; i++ {
		activities = append(activities, models.ActivityLogEntry{ID: string(rune('a' + i)), Data: json.RawMessage(`{}`)})
	}
	snapshot := models.Snapshot{
		Students: sampleStudents(),
		Courses:  []models.Course{{ID: "C1"}, {ID: "C2"}},
		Attendance: []models.AttendanceRecord{
			{StudentID: "STU1001", Date: "2024-05-10", Status: models.AttendancePresent},
			{StudentID: "STU1003", Date: "2024-05-10", Status: models.AttendanceAbsent},
			{StudentID: "STU1003", Date: "2024-05-10", Status: models.AttendancePresent},
			{StudentID: "STU1002", Date: "2024-05-09", Status: models.AttendanceAbsent},
		},
		Grades: []models.Grade{
			{StudentID: "STU1003", Score: 95},
			{StudentID: "STU1001", Score: 70},
			{StudentID: "STU1001", Score: 72.3},
		},
		Events: []models.Event{
			{ID: "E1", Date: "2024-05-20"},
			{ID: "E2", Date: "2024-05-11"},
		},
		Activities: activities,
	}

	dashboard := BuildDashboard(snapshot, today, DashboardOptions{TopStudents: 2, UpcomingDays: 7, RecentActivities: 5})
	assert.Equal(t, 3, dashboard.TotalStudents)
	assert.Equal(t, 2, dashboard.TotalCourses)
	assert.Equal(t, 67, dashboard.AttendanceRate)
	assert.Equal(t, 79.1, dashboard.AverageScore)
	require.Len(t, dashboard.RecentActivities, 5)
	assert.Equal(t, "a", dashboard.RecentActivities[0].ID)
	require.Len(t, dashboard.TopStudents, 2)
	assert.Equal(t, "STU1003", dashboard.TopStudents[0].Student.ID)
	require.Len(t, dashboard.UpcomingEvents, 1)
	assert.Equal(t, "E2", dashboard.UpcomingEvents[0].ID)

	empty := BuildDashboard(models.Snapshot{}, today, DashboardOptions{TopStudents: 5, UpcomingDays: 7, RecentActivities: 5})
	assert.Equal(t, 0, empty.AttendanceRate)
	assert.Equal(t, 0.0, empty.AverageScore)
	assert.Empty(t, empty.RecentActivities)
	assert.Empty(t, empty.TopStudents)
}
