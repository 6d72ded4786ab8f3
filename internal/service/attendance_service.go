package service

import (
	"context"
	"fmt"

	"github.com/noah-isme/sma-records/internal/models"
	appErrors "github.com/noah-isme/sma-records/pkg/errors"
)

// MarkAttendanceRequest holds payload for recording an attendance mark.
type MarkAttendanceRequest struct {
	ID        string                  `json:"id"`
	StudentID string                  `json:"studentId"`
	Date      string                  `json:"date"`
	Status    models.AttendanceStatus `json:"status"`
	Remarks   string                  `json:"remarks"`
}

// AttendanceService handles attendance use-cases.
type AttendanceService struct {
	store *Store
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(store *Store) *AttendanceService {
	return &AttendanceService{store: store}
}

// List returns attendance marks matching filter.
func (s *AttendanceService) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return filterAttendance(s.store.attendance.rows, filter), nil
}

// Get returns a single attendance mark.
func (s *AttendanceService) Get(ctx context.Context, id string) (*models.AttendanceRecord, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	record, ok := s.store.attendance.find(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
	}
	return &record, nil
}

// Mark records attendance for a student. Several marks for the same day are kept.
func (s *AttendanceService) Mark(ctx context.Context, req MarkAttendanceRequest) (*models.AttendanceRecord, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	record := models.AttendanceRecord{
		ID:         resolveID(s.store, req.ID),
		StudentID:  req.StudentID,
		Date:       req.Date,
		Status:     req.Status,
		Remarks:    req.Remarks,
		RecordedAt: s.store.timestamp(),
	}
	if record.Date == "" {
		record.Date = s.store.today()
	}
	if err := s.store.validate(record, "invalid attendance payload"); err != nil {
		return nil, err
	}
	student, err := s.requireStudent(record.StudentID)
	if err != nil {
		return nil, err
	}
	if err := insert(ctx, s.store, &s.store.attendance, record); err != nil {
		return nil, err
	}
	if err := s.store.logActivity(ctx, models.ActivityAttendanceMarked,
		fmt.Sprintf("Marked %s for %s", record.Status, student.FullName()),
		map[string]interface{}{"id": record.ID, "studentId": record.StudentID, "date": record.Date},
	); err != nil {
		return nil, err
	}
	return &record, nil
}

// Update merges patch into an existing attendance mark.
func (s *AttendanceService) Update(ctx context.Context, id string, patch models.AttendancePatch) (*models.AttendanceRecord, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	record, ok := s.store.attendance.find(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
	}
	patch.Apply(&record)
	if err := s.store.validate(record, "invalid attendance payload"); err != nil {
		return nil, err
	}
	student, err := s.requireStudent(record.StudentID)
	if err != nil {
		return nil, err
	}
	if err := replace(ctx, s.store, &s.store.attendance, record); err != nil {
		return nil, err
	}
	if err := s.store.logActivity(ctx, models.ActivityAttendanceUpdated,
		fmt.Sprintf("Updated attendance for %s to %s", student.FullName(), record.Status),
		map[string]interface{}{"id": record.ID, "studentId": record.StudentID, "date": record.Date},
	); err != nil {
		return nil, err
	}
	return &record, nil
}

// Delete removes an attendance mark. Unknown ids are ignored.
func (s *AttendanceService) Delete(ctx context.Context, id string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	record, ok := s.store.attendance.find(id)
	if !ok {
		return nil
	}
	if err := remove(ctx, s.store, &s.store.attendance, id); err != nil {
		return err
	}
	return s.store.logActivity(ctx, models.ActivityAttendanceDeleted,
		fmt.Sprintf("Deleted attendance record of %s", s.store.studentLabel(record.StudentID)),
		map[string]interface{}{"id": id, "studentId": record.StudentID, "date": record.Date},
	)
}

func (s *AttendanceService) requireStudent(id string) (models.Student, error) {
	student, ok := s.store.students.find(id)
	if !ok {
		return models.Student{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("student %q does not exist", id))
	}
	return student, nil
}

// studentLabel names a student for activity descriptions, falling back to the id.
func (s *Store) studentLabel(id string) string {
	if student, ok := s.students.find(id); ok {
		return student.FullName()
	}
	return id
}

func filterAttendance(rows []models.AttendanceRecord, filter models.AttendanceFilter) []models.AttendanceRecord {
	result := make([]models.AttendanceRecord, 0, len(rows))
	for _, record := range rows {
		if filter.Date != "" && record.Date != filter.Date {
			continue
		}
		if filter.StudentID != "" && record.StudentID != filter.StudentID {
			continue
		}
		result = append(result, record)
	}
	return result
}
