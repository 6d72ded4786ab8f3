package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/noah-isme/sma-records/internal/analytics"
	"github.com/noah-isme/sma-records/internal/dto"
	"github.com/noah-isme/sma-records/internal/models"
	appErrors "github.com/noah-isme/sma-records/pkg/errors"
)

var reportTitles = map[dto.ReportKind]string{
	dto.ReportAttendance: "Attendance Report",
	dto.ReportGrades:     "Grades Report",
	dto.ReportStudents:   "Students Report",
	dto.ReportCourses:    "Courses Report",
}

// ReportService composes report documents from the current records.
type ReportService struct {
	store *Store
}

// NewReportService constructs the report service.
func NewReportService(store *Store) *ReportService {
	return &ReportService{store: store}
}

// Generate builds the report of the given kind.
func (s *ReportService) Generate(ctx context.Context, kind dto.ReportKind) (*dto.Report, error) {
	if _, ok := reportTitles[kind]; !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown report kind %q", kind))
	}
	snapshot := s.store.Snapshot()
	report := BuildReport(kind, snapshot, s.store.Now())
	return &report, nil
}

// BuildReport composes a report from snapshot. kind must be one of dto.ReportKinds.
func BuildReport(kind dto.ReportKind, snapshot models.Snapshot, generatedAt time.Time) dto.Report {
	report := dto.Report{Kind: kind, Title: reportTitles[kind], GeneratedAt: generatedAt}
	switch kind {
	case dto.ReportAttendance:
		body := buildAttendanceReport(snapshot.Attendance)
		report.Attendance = &body
	case dto.ReportGrades:
		body := buildGradesReport(snapshot)
		report.Grades = &body
	case dto.ReportStudents:
		body := buildStudentsReport(snapshot.Students)
		report.Students = &body
	case dto.ReportCourses:
		body := buildCoursesReport(snapshot.Courses, snapshot.Grades)
		report.Courses = &body
	}
	return report
}

func buildAttendanceReport(records []models.AttendanceRecord) dto.AttendanceReport {
	byDate := analytics.GroupByDate(records)
	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	days := make([]dto.AttendanceDay, 0, len(dates))
	for _, date := range dates {
		day := byDate[date]
		days = append(days, dto.AttendanceDay{
			Date:    date,
			Present: day.Present,
			Absent:  day.Total - day.Present,
			Total:   day.Total,
			Rate:    day.Rate(),
		})
	}
	return dto.AttendanceReport{
		TotalRecords:  len(records),
		ReportingDays: len(dates),
		Days:          days,
	}
}

func buildGradesReport(snapshot models.Snapshot) dto.GradesReport {
	total := len(snapshot.Grades)
	dist := analytics.GradeDistribution(snapshot.Grades)
	bands := make([]dto.GradeBand, 0, len(models.Letters))
	for _, letter := range models.Letters {
		band := dto.GradeBand{Letter: letter, Count: dist[letter]}
		if total > 0 {
			band.Percentage = analytics.Round(float64(band.Count)/float64(total)*100, 1)
		}
		bands = append(bands, band)
	}
	return dto.GradesReport{
		TotalGrades:   total,
		AverageScore:  analytics.Round(analytics.AverageScore(snapshot.Grades), 1),
		TotalStudents: len(snapshot.Students),
		TotalCourses:  len(snapshot.Courses),
		Distribution:  bands,
	}
}

func buildStudentsReport(students []models.Student) dto.StudentsReport {
	groups := analytics.GroupByClass(students)
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	report := dto.StudentsReport{TotalStudents: len(students), Classes: make([]dto.ClassBreakdown, 0, len(names))}
	for _, name := range names {
		group := groups[name]
		report.ActiveStudents += group.Active
		report.Classes = append(report.Classes, dto.ClassBreakdown{
			ClassName: name,
			Total:     len(group.Students),
			Active:    group.Active,
			Inactive:  group.Inactive,
		})
	}
	return report
}

func buildCoursesReport(courses []models.Course, grades []models.Grade) dto.CoursesReport {
	rows := make([]dto.CourseRow, 0, len(courses))
	for _, course := range courses {
		own := filterGrades(grades, models.GradeFilter{CourseID: course.ID})
		row := dto.CourseRow{
			ID:         course.ID,
			Code:       course.Code,
			Name:       course.Name,
			Instructor: course.Instructor,
			Status:     course.Status,
			GradeCount: len(own),
		}
		if len(own) > 0 {
			avg := analytics.Round(analytics.AverageScore(own), 1)
			row.AverageScore = &avg
		}
		rows = append(rows, row)
	}
	return dto.CoursesReport{TotalCourses: len(courses), Courses: rows}
}
