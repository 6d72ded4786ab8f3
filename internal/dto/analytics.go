package dto

import "github.com/noah-isme/sma-records/internal/models"

// LetterGradeResponse answers a score to letter lookup.
type LetterGradeResponse struct {
	Score       float64            `json:"score"`
	LetterGrade models.LetterGrade `json:"letterGrade"`
}

// GPAResponse carries a grade point average over a set of grades.
type GPAResponse struct {
	StudentID  string  `json:"studentId,omitempty"`
	GradeCount int     `json:"gradeCount"`
	GPA        float64 `json:"gpa"`
}

// AttendanceRateResponse carries an attendance rate over a set of marks.
type AttendanceRateResponse struct {
	Date      string `json:"date,omitempty"`
	StudentID string `json:"studentId,omitempty"`
	Total     int    `json:"total"`
	Rate      int    `json:"rate"`
}

// AverageScoreResponse carries the mean score over a set of grades.
type AverageScoreResponse struct {
	CourseID     string  `json:"courseId,omitempty"`
	StudentID    string  `json:"studentId,omitempty"`
	GradeCount   int     `json:"gradeCount"`
	AverageScore float64 `json:"averageScore"`
}

// ImportResult reports the collection sizes after an import.
type ImportResult struct {
	Students   int `json:"students"`
	Courses    int `json:"courses"`
	Attendance int `json:"attendance"`
	Grades     int `json:"grades"`
	Events     int `json:"events"`
	Activities int `json:"activities"`
}
