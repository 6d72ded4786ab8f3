package analytics

import (
	"strings"
	"time"

	"github.com/noah-isme/sma-records/internal/models"
)

// FilterStudents applies the free-text search and the status/class filters. The
// search matches case-insensitively against first name, last name, email and id.
func FilterStudents(students []models.Student, filter models.StudentFilter) []models.Student {
	term := strings.ToLower(strings.TrimSpace(filter.Search))
	result := make([]models.Student, 0, len(students))
	for _, s := range students {
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.ClassName != "" && s.ClassName != filter.ClassName {
			continue
		}
		if term != "" && !matchesSearch(s, term) {
			continue
		}
		result = append(result, s)
	}
	return result
}

func matchesSearch(s models.Student, term string) bool {
	for _, field := range []string{s.FirstName, s.LastName, s.Email, s.ID} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// StudentSummary is the academic overview of one student.
type StudentSummary struct {
	Student         models.Student `json:"student"`
	GradeCount      int            `json:"gradeCount"`
	AverageScore    float64        `json:"averageScore"`
	GPA             float64        `json:"gpa"`
	AttendanceCount int            `json:"attendanceCount"`
	AttendanceRate  int            `json:"attendanceRate"`
}

// SummarizeStudent computes the overview of student from the full grade and
// attendance collections.
func SummarizeStudent(student models.Student, grades []models.Grade, attendance []models.AttendanceRecord) StudentSummary {
	own := make([]models.Grade, 0)
	for _, g := range grades {
		if g.StudentID == student.ID {
			own = append(own, g)
		}
	}
	marks := make([]models.AttendanceRecord, 0)
	for _, a := range attendance {
		if a.StudentID == student.ID {
			marks = append(marks, a)
		}
	}
	return StudentSummary{
		Student:         student,
		GradeCount:      len(own),
		AverageScore:    Round(AverageScore(own), 1),
		GPA:             GPA(own),
		AttendanceCount: len(marks),
		AttendanceRate:  AttendanceRate(marks),
	}
}

// DashboardOptions bounds the lists shown on the dashboard.
type DashboardOptions struct {
	TopStudents      int
	UpcomingDays     int
	RecentActivities int
}

// Dashboard is the landing overview of the whole school.
type Dashboard struct {
	TotalStudents    int                       `json:"totalStudents"`
	TotalCourses     int                       `json:"totalCourses"`
	AttendanceRate   int                       `json:"attendanceRate"`
	AverageScore     float64                   `json:"averageScore"`
	RecentActivities []models.ActivityLogEntry `json:"recentActivities"`
	TopStudents      []StudentRanking          `json:"topStudents"`
	UpcomingEvents   []models.Event            `json:"upcomingEvents"`
}

// BuildDashboard composes the dashboard for the given day. The attendance rate covers
// only marks recorded for today; activities are expected newest first.
func BuildDashboard(snapshot models.Snapshot, today time.Time, opts DashboardOptions) Dashboard {
	day := today.Format(models.DateLayout)
	todays := make([]models.AttendanceRecord, 0)
	for _, a := range snapshot.Attendance {
		if a.Date == day {
			todays = append(todays, a)
		}
	}

	recent := snapshot.Activities
	if opts.RecentActivities >= 0 && len(recent) > opts.RecentActivities {
		recent = recent[:opts.RecentActivities]
	}
	recentCopy := make([]models.ActivityLogEntry, len(recent))
	copy(recentCopy, recent)

	return Dashboard{
		TotalStudents:    len(snapshot.Students),
		TotalCourses:     len(snapshot.Courses),
		AttendanceRate:   AttendanceRate(todays),
		AverageScore:     Round(AverageScore(snapshot.Grades), 1),
		RecentActivities: recentCopy,
		TopStudents:      TopStudents(snapshot.Students, snapshot.Grades, opts.TopStudents),
		UpcomingEvents:   UpcomingEvents(snapshot.Events, today, opts.UpcomingDays),
	}
}
