package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-records/internal/models"
	appErrors "github.com/noah-isme/sma-records/pkg/errors"
)

func seedRelations(t *testing.T, store *Store) {
	t.Helper()
	createStudent(t, store, "S1", "Ada", "Lovelace", "10A")
	createStudent(t, store, "S2", "Alan", "Turing", "10A")
	createCourse(t, store, "C1", "Mathematics")
	createCourse(t, store, "C2", "Physics")
	addGrade(t, store, "S1", "C1", 85)
	addGrade(t, store, "S1", "C2", 72)
	addGrade(t, store, "S2", "C1", 93)
	markAttendance(t, store, "S1", "2024-05-01", models.AttendancePresent)
	markAttendance(t, store, "S2", "2024-05-01", models.AttendanceLate)
}

func TestDeleteStudentCascades(t *testing.T) {
	store, _ := newTestStore(t)
	seedRelations(t, store)
	ctx := context.Background()

	require.NoError(t, NewStudentService(store).Delete(ctx, "S1"))

	_, err := NewStudentService(store).Get(ctx, "S1")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	grades, err := NewGradeService(store).List(ctx, models.GradeFilter{StudentID: "S1"})
	require.NoError(t, err)
	assert.Empty(t, grades)
	attendance, err := NewAttendanceService(store).List(ctx, models.AttendanceFilter{StudentID: "S1"})
	require.NoError(t, err)
	assert.Empty(t, attendance)

	snapshot := store.Snapshot()
	assert.Len(t, snapshot.Grades, 1)
	assert.Len(t, snapshot.Attendance, 1)

	entry := snapshot.Activities[0]
	assert.Equal(t, models.ActivityStudentDeleted, entry.Type)
	assert.Equal(t, "Deleted student: Ada Lovelace", entry.Description)
	var data struct {
		ID      string         `json:"id"`
		Removed map[string]int `json:"removed"`
	}
	require.NoError(t, json.Unmarshal(entry.Data, &data))
	assert.Equal(t, "S1", data.ID)
	assert.Equal(t, map[string]int{"grades": 2, "attendance": 1}, data.Removed)
}

func TestDeleteCourseCascadesGradesOnly(t *testing.T) {
	store, _ := newTestStore(t)
	seedRelations(t, store)
	ctx := context.Background()

	require.NoError(t, NewCourseService(store).Delete(ctx, "C1"))

	snapshot := store.Snapshot()
	require.Len(t, snapshot.Courses, 1)
	assert.Equal(t, "C2", snapshot.Courses[0].ID)
	require.Len(t, snapshot.Grades, 1)
	assert.Equal(t, "C2", snapshot.Grades[0].CourseID)
	assert.Len(t, snapshot.Attendance, 2)
	assert.Len(t, snapshot.Students, 2)
}

func TestDeleteUnknownIDIsNoop(t *testing.T) {
	store, _ := newTestStore(t)
	seedRelations(t, store)
	ctx := context.Background()
	before := store.Snapshot()

	require.NoError(t, NewStudentService(store).Delete(ctx, "missing"))
	require.NoError(t, NewCourseService(store).Delete(ctx, "missing"))
	require.NoError(t, NewGradeService(store).Delete(ctx, "missing"))
	require.NoError(t, NewAttendanceService(store).Delete(ctx, "missing"))
	require.NoError(t, NewEventService(store).Delete(ctx, "missing"))

	assert.Equal(t, before, store.Snapshot())
}

func TestDeleteAbsentParentRemovesOrphans(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	students := []models.Student{}
	courses := []models.Course{}
	doc := &models.Document{
		Students: &students,
		Courses:  &courses,
		Grades: []models.Grade{
			{ID: "G1", StudentID: "S9", CourseID: "C9", Score: 70, Date: "2024-04-01", LetterGrade: models.LetterC},
			{ID: "G2", StudentID: "S8", CourseID: "C9", Score: 95, Date: "2024-04-01", LetterGrade: models.LetterA},
		},
		Attendance: []models.AttendanceRecord{
			{ID: "A1", StudentID: "S9", Date: "2024-04-01", Status: models.AttendancePresent},
		},
	}
	_, err := NewTransferService(store).Import(ctx, doc, true)
	require.NoError(t, err)

	require.NoError(t, NewStudentService(store).Delete(ctx, "S9"))
	snapshot := store.Snapshot()
	assert.Empty(t, snapshot.Attendance)
	require.Len(t, snapshot.Grades, 1)
	assert.Equal(t, "G2", snapshot.Grades[0].ID)
	assert.Empty(t, snapshot.Activities)

	require.NoError(t, NewCourseService(store).Delete(ctx, "C9"))
	snapshot = store.Snapshot()
	assert.Empty(t, snapshot.Grades)
	assert.Empty(t, snapshot.Activities)
}

func TestCascadeRulesCoverReferencingCollections(t *testing.T) {
	store, _ := newTestStore(t)
	for parent, deps := range cascadeRules {
		for _, dep := range deps {
			_, ok := store.cascadeTarget(dep.collection)
			assert.True(t, ok, "%s depends on unregistered %s", parent, dep.collection)
		}
	}
}
