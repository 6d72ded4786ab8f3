package models

import "time"

// LetterGrade is the A-F band derived from a numeric score.
type LetterGrade string

const (
	LetterA LetterGrade = "A"
	LetterB LetterGrade = "B"
	LetterC LetterGrade = "C"
	LetterD LetterGrade = "D"
	LetterF LetterGrade = "F"
)

// Letters lists every letter grade from best to worst.
var Letters = []LetterGrade{LetterA, LetterB, LetterC, LetterD, LetterF}

// Grade represents a score a student obtained in a course. LetterGrade is derived
// from Score and stored under the "grade" key.
type Grade struct {
	ID          string      `json:"id" validate:"required"`
	StudentID   string      `json:"studentId" validate:"required"`
	CourseID    string      `json:"courseId" validate:"required"`
	Score       float64     `json:"score" validate:"gte=0,lte=100"`
	Date        string      `json:"date" validate:"required,datetime=2006-01-02"`
	Remarks     string      `json:"remarks,omitempty"`
	LetterGrade LetterGrade `json:"grade"`
	RecordedAt  time.Time   `json:"recordedAt"`
}

// RecordID implements Record.
func (g Grade) RecordID() string { return g.ID }

// Reference implements Referencing.
func (g Grade) Reference(key ReferenceKey) string {
	switch key {
	case RefStudent:
		return g.StudentID
	case RefCourse:
		return g.CourseID
	default:
		return ""
	}
}

// GradePatch carries the fields of a partial grade update.
type GradePatch struct {
	StudentID *string  `json:"studentId"`
	CourseID  *string  `json:"courseId"`
	Score     *float64 `json:"score"`
	Date      *string  `json:"date"`
	Remarks   *string  `json:"remarks"`
}

// Apply merges the patch into g. The letter grade is not touched here.
func (p GradePatch) Apply(g *Grade) {
	setString(&g.StudentID, p.StudentID)
	setString(&g.CourseID, p.CourseID)
	setString(&g.Date, p.Date)
	setString(&g.Remarks, p.Remarks)
	if p.Score != nil {
		g.Score = *p.Score
	}
}

// GradeFilter allows querying of grade entries.
type GradeFilter struct {
	CourseID  string
	StudentID string
}
