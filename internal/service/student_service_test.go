package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-records/internal/models"
	appErrors "github.com/noah-isme/sma-records/pkg/errors"
)

func TestStudentServiceCreateDefaults(t *testing.T) {
	store, _ := newTestStore(t)
	svc := NewStudentService(store)

	student, err := svc.Create(context.Background(), CreateStudentRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		ClassName: "10A",
	})
	require.NoError(t, err)
	assert.Equal(t, "ID-1", student.ID)
	assert.Equal(t, "2024-05-01", student.EnrollmentDate)
	assert.Equal(t, models.StudentActive, student.Status)
	assert.Equal(t, testNow, student.CreatedAt)

	activities := store.Snapshot().Activities
	require.Len(t, activities, 1)
	assert.Equal(t, "Added new student: Ada Lovelace", activities[0].Description)
}

func TestStudentServiceCreateValidation(t *testing.T) {
	store, _ := newTestStore(t)
	svc := NewStudentService(store)

	_, err := svc.Create(context.Background(), CreateStudentRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "not-an-email",
		ClassName: "10A",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Empty(t, store.Snapshot().Students)
}

func TestStudentServiceCreateDuplicateID(t *testing.T) {
	store, _ := newTestStore(t)
	createStudent(t, store, "S1", "Ada", "Lovelace", "10A")

	_, err := NewStudentService(store).Create(context.Background(), CreateStudentRequest{
		ID: "S1", FirstName: "Alan", LastName: "Turing", Email: "alan@example.com", ClassName: "10B",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrConflict)
	assert.Len(t, store.Snapshot().Students, 1)
}

func TestStudentServiceUpdate(t *testing.T) {
	store, _ := newTestStore(t)
	createStudent(t, store, "S1", "Ada", "Lovelace", "10A")
	svc := NewStudentService(store)

	class := "11B"
	status := models.StudentGraduated
	updated, err := svc.Update(context.Background(), "S1", models.StudentPatch{ClassName: &class, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "11B", updated.ClassName)
	assert.Equal(t, models.StudentGraduated, updated.Status)
	assert.Equal(t, "Ada", updated.FirstName)
	assert.Equal(t, "Updated student: Ada Lovelace", store.Snapshot().Activities[0].Description)

	bad := "archived"
	_, err = svc.Update(context.Background(), "S1", models.StudentPatch{Status: (*models.StudentStatus)(&bad)})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Update(context.Background(), "missing", models.StudentPatch{ClassName: &class})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestStudentServiceListFilters(t *testing.T) {
	store, _ := newTestStore(t)
	createStudent(t, store, "S1", "Ada", "Lovelace", "10A")
	createStudent(t, store, "S2", "Alan", "Turing", "10B")
	svc := NewStudentService(store)
	ctx := context.Background()

	all, err := svc.List(ctx, models.StudentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := svc.List(ctx, models.StudentFilter{Search: "TURING"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "S2", found[0].ID)

	byClass, err := svc.List(ctx, models.StudentFilter{ClassName: "10A"})
	require.NoError(t, err)
	require.Len(t, byClass, 1)
	assert.Equal(t, "S1", byClass[0].ID)
}

func TestStudentServiceSummary(t *testing.T) {
	store, _ := newTestStore(t)
	createStudent(t, store, "S1", "Ada", "Lovelace", "10A")
	createCourse(t, store, "C1", "Mathematics")
	addGrade(t, store, "S1", "C1", 95)
	addGrade(t, store, "S1", "C1", 82)
	markAttendance(t, store, "S1", "2024-05-01", models.AttendancePresent)
	markAttendance(t, store, "S1", "2024-05-02", models.AttendanceAbsent)

	summary, err := NewStudentService(store).Summary(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.GradeCount)
	assert.Equal(t, 88.5, summary.AverageScore)
	assert.Equal(t, 3.5, summary.GPA)
	assert.Equal(t, 2, summary.AttendanceCount)
	assert.Equal(t, 50, summary.AttendanceRate)

	_, err = NewStudentService(store).Summary(context.Background(), "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
