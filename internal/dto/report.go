package dto

import (
	"time"

	"github.com/noah-isme/sma-records/internal/models"
)

// ReportKind selects one of the report documents.
type ReportKind string

const (
	ReportAttendance ReportKind = "attendance"
	ReportGrades     ReportKind = "grades"
	ReportStudents   ReportKind = "students"
	ReportCourses    ReportKind = "courses"
)

// ReportKinds lists every supported report kind.
var ReportKinds = []ReportKind{ReportAttendance, ReportGrades, ReportStudents, ReportCourses}

// ReportFormat selects the download rendering of a report.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

// Report wraps exactly one of the report bodies.
type Report struct {
	Kind        ReportKind        `json:"kind"`
	Title       string            `json:"title"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Attendance  *AttendanceReport `json:"attendance,omitempty"`
	Grades      *GradesReport     `json:"grades,omitempty"`
	Students    *StudentsReport   `json:"students,omitempty"`
	Courses     *CoursesReport    `json:"courses,omitempty"`
}

// AttendanceDay is one row of the attendance report.
type AttendanceDay struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
	Total   int    `json:"total"`
	Rate    int    `json:"rate"`
}

// AttendanceReport summarises attendance per day, latest day first.
type AttendanceReport struct {
	TotalRecords  int             `json:"totalRecords"`
	ReportingDays int             `json:"reportingDays"`
	Days          []AttendanceDay `json:"days"`
}

// GradeBand is one letter of the grade distribution.
type GradeBand struct {
	Letter     models.LetterGrade `json:"letter"`
	Count      int                `json:"count"`
	Percentage float64            `json:"percentage"`
}

// GradesReport summarises all recorded grades.
type GradesReport struct {
	TotalGrades   int         `json:"totalGrades"`
	AverageScore  float64     `json:"averageScore"`
	TotalStudents int         `json:"totalStudents"`
	TotalCourses  int         `json:"totalCourses"`
	Distribution  []GradeBand `json:"distribution"`
}

// ClassBreakdown is one class row of the students report.
type ClassBreakdown struct {
	ClassName string `json:"className"`
	Total     int    `json:"total"`
	Active    int    `json:"active"`
	Inactive  int    `json:"inactive"`
}

// StudentsReport summarises enrolment per class, classes in ascending order.
type StudentsReport struct {
	TotalStudents  int              `json:"totalStudents"`
	ActiveStudents int              `json:"activeStudents"`
	Classes        []ClassBreakdown `json:"classes"`
}

// CourseRow is one course of the courses report. AverageScore is nil when the
// course has no grades.
type CourseRow struct {
	ID           string              `json:"id"`
	Code         string              `json:"code"`
	Name         string              `json:"name"`
	Instructor   string              `json:"instructor"`
	Status       models.CourseStatus `json:"status"`
	GradeCount   int                 `json:"gradeCount"`
	AverageScore *float64            `json:"averageScore"`
}

// CoursesReport lists every course with its grade statistics.
type CoursesReport struct {
	TotalCourses int         `json:"totalCourses"`
	Courses      []CourseRow `json:"courses"`
}
