package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-records/internal/models"
	"github.com/noah-isme/sma-records/internal/repository"
	appErrors "github.com/noah-isme/sma-records/pkg/errors"
)

func TestTransferExportDocument(t *testing.T) {
	store, _ := newTestStore(t)
	seedRelations(t, store)

	doc, err := NewTransferService(store).Export(context.Background())
	require.NoError(t, err)
	require.NotNil(t, doc.Students)
	require.NotNil(t, doc.Courses)
	assert.Len(t, *doc.Students, 2)
	assert.Len(t, *doc.Courses, 2)
	assert.Len(t, doc.Grades, 3)
	assert.Len(t, doc.Attendance, 2)
	assert.NotNil(t, doc.Events)
	assert.Equal(t, testNow, doc.ExportDate)
	assert.Equal(t, models.DocumentVersion, doc.Version)
	assert.Equal(t, "student-management-backup-2024-05-01.json", ExportFilename(doc.ExportDate))
}

func TestTransferRoundTrip(t *testing.T) {
	source, _ := newTestStore(t)
	seedRelations(t, source)
	_, err := NewEventService(source).Create(context.Background(), CreateEventRequest{Title: "Finals", Date: "2024-06-10", Type: models.EventExam})
	require.NoError(t, err)

	doc, err := NewTransferService(source).Export(context.Background())
	require.NoError(t, err)
	payload, err := json.Marshal(doc)
	require.NoError(t, err)

	decoded, err := DecodeDocument(bytes.NewReader(payload))
	require.NoError(t, err)
	target, _ := newTestStore(t)
	result, err := NewTransferService(target).Import(context.Background(), decoded, true)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Students)
	assert.Equal(t, 3, result.Grades)

	want, got := source.Snapshot(), target.Snapshot()
	assert.ElementsMatch(t, want.Students, got.Students)
	assert.ElementsMatch(t, want.Courses, got.Courses)
	assert.ElementsMatch(t, want.Attendance, got.Attendance)
	assert.ElementsMatch(t, want.Grades, got.Grades)
	assert.ElementsMatch(t, want.Events, got.Events)
	assert.ElementsMatch(t, want.Activities, got.Activities)
}

func TestTransferImportRequiresConfirmation(t *testing.T) {
	store, repo := newTestStore(t)
	seedRelations(t, store)
	before := store.Snapshot()
	savesBefore := len(repo.saves)

	empty := []models.Student{}
	courses := []models.Course{}
	_, err := NewTransferService(store).Import(context.Background(), &models.Document{Students: &empty, Courses: &courses}, false)
	assert.ErrorIs(t, err, appErrors.ErrPreconditionFailed)
	assert.Equal(t, before, store.Snapshot())
	assert.Len(t, repo.saves, savesBefore)
}

func TestTransferImportRejectsMissingCourses(t *testing.T) {
	store, repo := newTestStore(t)
	seedRelations(t, store)
	before := store.Snapshot()
	savesBefore := len(repo.saves)

	doc, err := DecodeDocument(strings.NewReader(`{"students": [], "grades": []}`))
	require.NoError(t, err)
	_, err = NewTransferService(store).Import(context.Background(), doc, true)
	assert.ErrorIs(t, err, appErrors.ErrMalformedImport)
	assert.Equal(t, before, store.Snapshot())
	assert.Len(t, repo.saves, savesBefore)
}

func TestDecodeDocumentRejectsInvalidJSON(t *testing.T) {
	_, err := DecodeDocument(strings.NewReader(`{"students": [`))
	assert.ErrorIs(t, err, appErrors.ErrMalformedImport)
}

func TestTransferImportDefaultsMissingCollections(t *testing.T) {
	store, _ := newTestStore(t)
	seedRelations(t, store)

	doc, err := DecodeDocument(strings.NewReader(`{
		"students": [{"id": "S7", "firstName": "Grace", "lastName": "Hopper", "email": "grace@example.com", "class": "12C", "enrollmentDate": "2023-09-01", "status": "active"}],
		"courses": []
	}`))
	require.NoError(t, err)
	result, err := NewTransferService(store).Import(context.Background(), doc, true)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Students)

	snapshot := store.Snapshot()
	require.Len(t, snapshot.Students, 1)
	assert.Equal(t, "Grace Hopper", snapshot.Students[0].FullName())
	assert.Empty(t, snapshot.Courses)
	assert.Empty(t, snapshot.Grades)
	assert.Empty(t, snapshot.Attendance)
	assert.Empty(t, snapshot.Events)
	assert.Empty(t, snapshot.Activities)
}

func TestTransferImportTruncatesActivities(t *testing.T) {
	store := newTestStoreWith(t, newFlakyRepo(repository.NewMemoryBackend()), StoreOptions{ActivityLimit: 2})
	students := []models.Student{}
	courses := []models.Course{}
	doc := &models.Document{
		Students: &students,
		Courses:  &courses,
		Activities: []models.ActivityLogEntry{
			{ID: "A3", Type: models.ActivityEventAdded, Description: "third"},
			{ID: "A2", Type: models.ActivityEventAdded, Description: "second"},
			{ID: "A1", Type: models.ActivityEventAdded, Description: "first"},
		},
	}

	result, err := NewTransferService(store).Import(context.Background(), doc, true)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Activities)
	activities := store.Snapshot().Activities
	assert.Equal(t, "A3", activities[0].ID)
	assert.Equal(t, "A2", activities[1].ID)
}

func TestTransferImportRollsBackOnStorageFailure(t *testing.T) {
	backend := repository.NewMemoryBackend()
	repo := newFlakyRepo(backend)
	store := newTestStoreWith(t, repo, StoreOptions{})
	seedRelations(t, store)
	before := store.Snapshot()

	students := []models.Student{{ID: "S7", FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", ClassName: "12C", EnrollmentDate: "2023-09-01", Status: models.StudentActive}}
	courses := []models.Course{}
	repo.failSave[models.CollectionGrades] = errors.New("quota exceeded")

	_, err := NewTransferService(store).Import(context.Background(), &models.Document{Students: &students, Courses: &courses}, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrStorage)
	assert.Equal(t, before, store.Snapshot())

	reloaded := newTestStoreWith(t, newFlakyRepo(backend), StoreOptions{})
	assert.Equal(t, before, reloaded.Snapshot())
}
