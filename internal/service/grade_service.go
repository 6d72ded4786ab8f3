package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/noah-isme/sma-records/internal/analytics"
	"github.com/noah-isme/sma-records/internal/models"
	appErrors "github.com/noah-isme/sma-records/pkg/errors"
)

// CreateGradeRequest holds payload for recording a grade. Score is a pointer so a
// missing score is rejected instead of read as zero.
type CreateGradeRequest struct {
	ID        string   `json:"id"`
	StudentID string   `json:"studentId"`
	CourseID  string   `json:"courseId"`
	Score     *float64 `json:"score" validate:"required"`
	Date      string   `json:"date"`
	Remarks   string   `json:"remarks"`
}

// GradeService handles grade use-cases.
type GradeService struct {
	store *Store
}

// NewGradeService constructs the grade service.
func NewGradeService(store *Store) *GradeService {
	return &GradeService{store: store}
}

// List returns grades matching filter.
func (s *GradeService) List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return filterGrades(s.store.grades.rows, filter), nil
}

// Get returns a single grade.
func (s *GradeService) Get(ctx context.Context, id string) (*models.Grade, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	grade, ok := s.store.grades.find(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "grade not found")
	}
	return &grade, nil
}

// Create records a grade and derives its letter.
func (s *GradeService) Create(ctx context.Context, req CreateGradeRequest) (*models.Grade, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if err := s.store.validate(req, "invalid grade payload"); err != nil {
		return nil, err
	}
	grade := models.Grade{
		ID:         resolveID(s.store, req.ID),
		StudentID:  req.StudentID,
		CourseID:   req.CourseID,
		Score:      *req.Score,
		Date:       req.Date,
		Remarks:    req.Remarks,
		RecordedAt: s.store.timestamp(),
	}
	if grade.Date == "" {
		grade.Date = s.store.today()
	}
	grade.LetterGrade = analytics.LetterGrade(grade.Score)
	if err := s.store.validate(grade, "invalid grade payload"); err != nil {
		return nil, err
	}
	student, course, err := s.requireReferences(grade)
	if err != nil {
		return nil, err
	}
	if err := insert(ctx, s.store, &s.store.grades, grade); err != nil {
		return nil, err
	}
	if err := s.store.logActivity(ctx, models.ActivityGradeAdded,
		fmt.Sprintf("Added grade %s for %s in %s", formatScore(grade.Score), student.FullName(), course.Name),
		map[string]interface{}{"id": grade.ID, "studentId": grade.StudentID, "courseId": grade.CourseID},
	); err != nil {
		return nil, err
	}
	return &grade, nil
}

// Update merges patch into an existing grade and re-derives its letter.
func (s *GradeService) Update(ctx context.Context, id string, patch models.GradePatch) (*models.Grade, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	grade, ok := s.store.grades.find(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "grade not found")
	}
	patch.Apply(&grade)
	grade.LetterGrade = analytics.LetterGrade(grade.Score)
	if err := s.store.validate(grade, "invalid grade payload"); err != nil {
		return nil, err
	}
	student, course, err := s.requireReferences(grade)
	if err != nil {
		return nil, err
	}
	if err := replace(ctx, s.store, &s.store.grades, grade); err != nil {
		return nil, err
	}
	if err := s.store.logActivity(ctx, models.ActivityGradeUpdated,
		fmt.Sprintf("Updated grade to %s for %s in %s", formatScore(grade.Score), student.FullName(), course.Name),
		map[string]interface{}{"id": grade.ID, "studentId": grade.StudentID, "courseId": grade.CourseID},
	); err != nil {
		return nil, err
	}
	return &grade, nil
}

// Delete removes a grade. Unknown ids are ignored.
func (s *GradeService) Delete(ctx context.Context, id string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	grade, ok := s.store.grades.find(id)
	if !ok {
		return nil
	}
	if err := remove(ctx, s.store, &s.store.grades, id); err != nil {
		return err
	}
	return s.store.logActivity(ctx, models.ActivityGradeDeleted,
		fmt.Sprintf("Deleted grade %s of %s", formatScore(grade.Score), s.store.studentLabel(grade.StudentID)),
		map[string]interface{}{"id": id, "studentId": grade.StudentID, "courseId": grade.CourseID},
	)
}

func (s *GradeService) requireReferences(grade models.Grade) (models.Student, models.Course, error) {
	student, ok := s.store.students.find(grade.StudentID)
	if !ok {
		return models.Student{}, models.Course{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("student %q does not exist", grade.StudentID))
	}
	course, ok := s.store.courses.find(grade.CourseID)
	if !ok {
		return models.Student{}, models.Course{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("course %q does not exist", grade.CourseID))
	}
	return student, course, nil
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

func filterGrades(rows []models.Grade, filter models.GradeFilter) []models.Grade {
	result := make([]models.Grade, 0, len(rows))
	for _, grade := range rows {
		if filter.CourseID != "" && grade.CourseID != filter.CourseID {
			continue
		}
		if filter.StudentID != "" && grade.StudentID != filter.StudentID {
			continue
		}
		result = append(result, grade)
	}
	return result
}
