package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-records/internal/analytics"
	"github.com/noah-isme/sma-records/internal/models"
	appErrors "github.com/noah-isme/sma-records/pkg/errors"
)

// CreateStudentRequest holds payload for creating students. ID, EnrollmentDate and
// Status are optional.
type CreateStudentRequest struct {
	ID             string               `json:"id"`
	FirstName      string               `json:"firstName"`
	LastName       string               `json:"lastName"`
	Email          string               `json:"email"`
	Phone          string               `json:"phone"`
	DateOfBirth    string               `json:"dob"`
	Gender         string               `json:"gender"`
	ClassName      string               `json:"class"`
	Section        string               `json:"section"`
	Address        string               `json:"address"`
	EnrollmentDate string               `json:"enrollmentDate"`
	Status         models.StudentStatus `json:"status"`
	Notes          string               `json:"notes"`
}

// StudentService handles student use-cases.
type StudentService struct {
	store *Store
}

// NewStudentService constructs the student service.
func NewStudentService(store *Store) *StudentService {
	return &StudentService{store: store}
}

// List returns the students matching filter in insertion order.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return analytics.FilterStudents(s.store.students.rows, filter), nil
}

// Get returns a single student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	student, ok := s.store.students.find(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return &student, nil
}

// Summary returns the academic overview of a student.
func (s *StudentService) Summary(ctx context.Context, id string) (*analytics.StudentSummary, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	student, ok := s.store.students.find(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	summary := analytics.SummarizeStudent(student, s.store.grades.rows, s.store.attendance.rows)
	return &summary, nil
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	now := s.store.timestamp()
	student := models.Student{
		ID:             resolveID(s.store, req.ID),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		DateOfBirth:    req.DateOfBirth,
		Gender:         req.Gender,
		ClassName:      req.ClassName,
		Section:        req.Section,
		Address:        req.Address,
		EnrollmentDate: req.EnrollmentDate,
		Status:         req.Status,
		Notes:          req.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if student.EnrollmentDate == "" {
		student.EnrollmentDate = s.store.today()
	}
	if student.Status == "" {
		student.Status = models.StudentActive
	}
	if err := s.store.validate(student, "invalid student payload"); err != nil {
		return nil, err
	}
	if err := insert(ctx, s.store, &s.store.students, student); err != nil {
		return nil, err
	}
	if err := s.store.logActivity(ctx, models.ActivityStudentAdded,
		fmt.Sprintf("Added new student: %s", student.FullName()),
		map[string]interface{}{"id": student.ID},
	); err != nil {
		return nil, err
	}
	s.store.logger.Debug("student created", zap.String("id", student.ID))
	return &student, nil
}

// Update merges patch into an existing student.
func (s *StudentService) Update(ctx context.Context, id string, patch models.StudentPatch) (*models.Student, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	student, ok := s.store.students.find(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	patch.Apply(&student)
	student.UpdatedAt = s.store.timestamp()
	if err := s.store.validate(student, "invalid student payload"); err != nil {
		return nil, err
	}
	if err := replace(ctx, s.store, &s.store.students, student); err != nil {
		return nil, err
	}
	if err := s.store.logActivity(ctx, models.ActivityStudentUpdated,
		fmt.Sprintf("Updated student: %s", student.FullName()),
		map[string]interface{}{"id": student.ID},
	); err != nil {
		return nil, err
	}
	s.store.logger.Debug("student updated", zap.String("id", student.ID))
	return &student, nil
}

// Delete removes a student together with their grades and attendance marks. Dependents
// referencing an unknown id are still removed; only the activity entry is skipped.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	student, ok := s.store.students.find(id)
	removed, err := s.store.cascade(ctx, models.CollectionStudents, id)
	if err != nil {
		return err
	}
	if err := remove(ctx, s.store, &s.store.students, id); err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return s.store.logActivity(ctx, models.ActivityStudentDeleted,
		fmt.Sprintf("Deleted student: %s", student.FullName()),
		map[string]interface{}{"id": id, "removed": removed},
	)
}
