package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/noah-isme/sma-records/internal/analytics"
	"github.com/noah-isme/sma-records/internal/dto"
	"github.com/noah-isme/sma-records/internal/models"
	appErrors "github.com/noah-isme/sma-records/pkg/errors"
)

// Dashboard list sizes used when none are configured.
const (
	DefaultDashboardTopStudents      = 5
	DefaultDashboardUpcomingDays     = 7
	DefaultDashboardRecentActivities = 5
)

// AnalyticsService answers aggregation queries over the current records.
type AnalyticsService struct {
	store *Store
	opts  analytics.DashboardOptions
}

// NewAnalyticsService constructs the analytics service. Non-positive list sizes fall
// back to the defaults.
func NewAnalyticsService(store *Store, opts analytics.DashboardOptions) *AnalyticsService {
	if opts.TopStudents <= 0 {
		opts.TopStudents = DefaultDashboardTopStudents
	}
	if opts.UpcomingDays <= 0 {
		opts.UpcomingDays = DefaultDashboardUpcomingDays
	}
	if opts.RecentActivities <= 0 {
		opts.RecentActivities = DefaultDashboardRecentActivities
	}
	return &AnalyticsService{store: store, opts: opts}
}

// Dashboard composes the landing overview for the current day.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*analytics.Dashboard, error) {
	snapshot := s.store.Snapshot()
	dashboard := analytics.BuildDashboard(snapshot, s.store.Now(), s.opts)
	return &dashboard, nil
}

// LetterGrade maps a score to its letter.
func (s *AnalyticsService) LetterGrade(ctx context.Context, score float64) (*dto.LetterGradeResponse, error) {
	if math.IsNaN(score) || score < 0 || score > 100 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "score must be between 0 and 100")
	}
	return &dto.LetterGradeResponse{Score: score, LetterGrade: analytics.LetterGrade(score)}, nil
}

// GradeDistribution counts the grades matching filter per letter.
func (s *AnalyticsService) GradeDistribution(ctx context.Context, filter models.GradeFilter) (map[models.LetterGrade]int, error) {
	return analytics.GradeDistribution(s.grades(filter)), nil
}

// TopStudents ranks students by average score. n <= 0 uses the dashboard size.
func (s *AnalyticsService) TopStudents(ctx context.Context, n int) ([]analytics.StudentRanking, error) {
	if n <= 0 {
		n = s.opts.TopStudents
	}
	snapshot := s.store.Snapshot()
	return analytics.TopStudents(snapshot.Students, snapshot.Grades, n), nil
}

// Classes groups students by class name, in ascending class order.
func (s *AnalyticsService) Classes(ctx context.Context) ([]analytics.ClassGroup, error) {
	groups := analytics.GroupByClass(s.store.Snapshot().Students)
	result := make([]analytics.ClassGroup, 0, len(groups))
	for _, group := range groups {
		result = append(result, group)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ClassName < result[j].ClassName
	})
	return result, nil
}

// AttendanceByDate tallies the marks matching filter per day, latest day first.
func (s *AnalyticsService) AttendanceByDate(ctx context.Context, filter models.AttendanceFilter) ([]dto.AttendanceDay, error) {
	report := buildAttendanceReport(s.attendance(filter))
	return report.Days, nil
}

// UpcomingEvents lists events from today through the given number of days. days == 0
// keeps today's events only; a negative value uses the dashboard horizon.
func (s *AnalyticsService) UpcomingEvents(ctx context.Context, days int) ([]models.Event, error) {
	if days < 0 {
		days = s.opts.UpcomingDays
	}
	return analytics.UpcomingEvents(s.store.Snapshot().Events, s.store.Now(), days), nil
}

// GPA computes the grade point average of one student.
func (s *AnalyticsService) GPA(ctx context.Context, studentID string) (*dto.GPAResponse, error) {
	if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "studentId is required")
	}
	s.store.mu.Lock()
	_, ok := s.store.students.find(studentID)
	grades := filterGrades(s.store.grades.rows, models.GradeFilter{StudentID: studentID})
	s.store.mu.Unlock()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %q not found", studentID))
	}
	return &dto.GPAResponse{StudentID: studentID, GradeCount: len(grades), GPA: analytics.GPA(grades)}, nil
}

// AttendanceRate computes the share of present marks matching filter.
func (s *AnalyticsService) AttendanceRate(ctx context.Context, filter models.AttendanceFilter) (*dto.AttendanceRateResponse, error) {
	records := s.attendance(filter)
	return &dto.AttendanceRateResponse{
		Date:      filter.Date,
		StudentID: filter.StudentID,
		Total:     len(records),
		Rate:      analytics.AttendanceRate(records),
	}, nil
}

// AverageScore computes the mean score of the grades matching filter.
func (s *AnalyticsService) AverageScore(ctx context.Context, filter models.GradeFilter) (*dto.AverageScoreResponse, error) {
	grades := s.grades(filter)
	return &dto.AverageScoreResponse{
		CourseID:     filter.CourseID,
		StudentID:    filter.StudentID,
		GradeCount:   len(grades),
		AverageScore: analytics.AverageScore(grades),
	}, nil
}

func (s *AnalyticsService) grades(filter models.GradeFilter) []models.Grade {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return filterGrades(s.store.grades.rows, filter)
}

func (s *AnalyticsService) attendance(filter models.AttendanceFilter) []models.AttendanceRecord {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return filterAttendance(s.store.attendance.rows, filter)
}
