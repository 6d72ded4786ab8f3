package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-records/internal/models"
)

// SampleStudentID identifies the student written by SeedSampleData.
const SampleStudentID = "STU1001"

// SeedSampleData writes one sample student when no students exist yet. It reports
// whether anything was written. The sample is not recorded in the activity log.
func (s *Store) SeedSampleData(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.students.rows) > 0 {
		return false, nil
	}
	now := s.timestamp()
	sample := models.Student{
		ID:             SampleStudentID,
		FirstName:      "John",
		LastName:       "Doe",
		Email:          "john.doe@example.com",
		Phone:          "123-456-7890",
		DateOfBirth:    "2005-06-15",
		Gender:         "male",
		ClassName:      "10A",
		Section:        "Science",
		Address:        "123 Main St, City",
		EnrollmentDate: now.Format(models.DateLayout),
		Status:         models.StudentActive,
		Notes:          "Sample student record",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := commit(ctx, s, &s.students, []models.Student{sample}); err != nil {
		return false, err
	}
	s.logger.Info("sample data seeded", zap.String("student_id", sample.ID))
	return true, nil
}
