package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-records/internal/models"
	appErrors "github.com/noah-isme/sma-records/pkg/errors"
)

// CreateCourseRequest holds payload for creating courses. Credits and Duration fall
// back to their defaults when zero.
type CreateCourseRequest struct {
	ID          string              `json:"id"`
	Code        string              `json:"code"`
	Name        string              `json:"name"`
	Instructor  string              `json:"instructor"`
	Credits     int                 `json:"credits"`
	Duration    int                 `json:"duration"`
	Schedule    string              `json:"schedule"`
	Description string              `json:"description"`
	StartDate   string              `json:"startDate"`
	EndDate     string              `json:"endDate"`
	Status      models.CourseStatus `json:"status"`
}

// CourseService handles course use-cases.
type CourseService struct {
	store *Store
}

// NewCourseService constructs the course service.
func NewCourseService(store *Store) *CourseService {
	return &CourseService{store: store}
}

// List returns every course.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return s.store.courses.all(), nil
}

// Get returns a single course.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	course, ok := s.store.courses.find(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	return &course, nil
}

// Create registers a new course.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	now := s.store.timestamp()
	course := models.Course{
		ID:          resolveID(s.store, req.ID),
		Code:        req.Code,
		Name:        req.Name,
		Instructor:  req.Instructor,
		Credits:     req.Credits,
		Duration:    req.Duration,
		Schedule:    req.Schedule,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      req.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if course.Status == "" {
		course.Status = models.CourseActive
	}
	applyCourseDefaults(&course)
	if err := s.store.validate(course, "invalid course payload"); err != nil {
		return nil, err
	}
	if err := insert(ctx, s.store, &s.store.courses, course); err != nil {
		return nil, err
	}
	if err := s.store.logActivity(ctx, models.ActivityCourseAdded,
		fmt.Sprintf("Added new course: %s", course.Name),
		map[string]interface{}{"id": course.ID},
	); err != nil {
		return nil, err
	}
	s.store.logger.Debug("course created", zap.String("id", course.ID))
	return &course, nil
}

// Update merges patch into an existing course.
func (s *CourseService) Update(ctx context.Context, id string, patch models.CoursePatch) (*models.Course, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	course, ok := s.store.courses.find(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	patch.Apply(&course)
	applyCourseDefaults(&course)
	course.UpdatedAt = s.store.timestamp()
	if err := s.store.validate(course, "invalid course payload"); err != nil {
		return nil, err
	}
	if err := replace(ctx, s.store, &s.store.courses, course); err != nil {
		return nil, err
	}
	if err := s.store.logActivity(ctx, models.ActivityCourseUpdated,
		fmt.Sprintf("Updated course: %s", course.Name),
		map[string]interface{}{"id": course.ID},
	); err != nil {
		return nil, err
	}
	return &course, nil
}

// Delete removes a course together with its grades. Attendance is not tied to
// courses and is left alone.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	course, ok := s.store.courses.find(id)
	removed, err := s.store.cascade(ctx, models.CollectionCourses, id)
	if err != nil {
		return err
	}
	if err := remove(ctx, s.store, &s.store.courses, id); err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return s.store.logActivity(ctx, models.ActivityCourseDeleted,
		fmt.Sprintf("Deleted course: %s", course.Name),
		map[string]interface{}{"id": id, "removed": removed},
	)
}

// applyCourseDefaults treats zero credits or duration as unset.
func applyCourseDefaults(course *models.Course) {
	if course.Credits == 0 {
		course.Credits = models.DefaultCourseCredits
	}
	if course.Duration == 0 {
		course.Duration = models.DefaultCourseDuration
	}
}
