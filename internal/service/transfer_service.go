package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-records/internal/dto"
	"github.com/noah-isme/sma-records/internal/models"
	appErrors "github.com/noah-isme/sma-records/pkg/errors"
)

// TransferService moves the whole record set in and out as a single document.
type TransferService struct {
	store *Store
}

// NewTransferService constructs the transfer service.
func NewTransferService(store *Store) *TransferService {
	return &TransferService{store: store}
}

// Export captures every collection in an interchange document.
func (s *TransferService) Export(ctx context.Context) (*models.Document, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	snapshot := s.store.snapshotLocked()
	return &models.Document{
		Students:   &snapshot.Students,
		Courses:    &snapshot.Courses,
		Attendance: snapshot.Attendance,
		Grades:     snapshot.Grades,
		Events:     snapshot.Events,
		Activities: snapshot.Activities,
		ExportDate: s.store.timestamp(),
		Version:    models.DocumentVersion,
	}, nil
}

// ExportFilename names the download of a document exported at the given time.
func ExportFilename(at time.Time) string {
	return fmt.Sprintf("student-management-backup-%s.json", at.Format(models.DateLayout))
}

// DecodeDocument parses an interchange document.
func DecodeDocument(r io.Reader) (*models.Document, error) {
	var doc models.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, appErrors.WrapKind(err, appErrors.ErrMalformedImport, "import document is not valid JSON")
	}
	return &doc, nil
}

// Import replaces all six collections with the document contents. It requires
// confirmed to be true and a document carrying students and courses. Missing other
// collections import as empty. Either every collection is replaced or none is.
func (s *TransferService) Import(ctx context.Context, doc *models.Document, confirmed bool) (*dto.ImportResult, error) {
	if !confirmed {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "import replaces all records and must be confirmed")
	}
	if doc == nil || doc.Students == nil || doc.Courses == nil {
		return nil, appErrors.Clone(appErrors.ErrMalformedImport, "import document must contain students and courses")
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	activities := orEmpty(doc.Activities)
	if len(activities) > s.store.logLimit {
		activities = activities[:s.store.logLimit]
	}
	writes := []stagedWrite{
		stage(s.store, &s.store.students, orEmpty(*doc.Students)),
		stage(s.store, &s.store.courses, orEmpty(*doc.Courses)),
		stage(s.store, &s.store.attendance, orEmpty(doc.Attendance)),
		stage(s.store, &s.store.grades, orEmpty(doc.Grades)),
		stage(s.store, &s.store.events, orEmpty(doc.Events)),
		stage(s.store, &s.store.activities, activities),
	}

	for i, write := range writes {
		if err := write.save(ctx); err != nil {
			s.store.rollback(ctx, writes[:i])
			s.store.logger.Error("import aborted", zap.String("collection", string(write.name)), zap.Error(err))
			return nil, appErrors.WrapKind(err, appErrors.ErrStorage, fmt.Sprintf("failed to import %s", write.name))
		}
	}
	for _, write := range writes {
		write.apply()
	}

	result := &dto.ImportResult{
		Students:   len(s.store.students.rows),
		Courses:    len(s.store.courses.rows),
		Attendance: len(s.store.attendance.rows),
		Grades:     len(s.store.grades.rows),
		Events:     len(s.store.events.rows),
		Activities: len(s.store.activities.rows),
	}
	s.store.logger.Info("records imported",
		zap.Int("students", result.Students),
		zap.Int("courses", result.Courses),
		zap.Int("attendance", result.Attendance),
		zap.Int("grades", result.Grades),
		zap.Int("events", result.Events),
		zap.Int("activities", result.Activities),
	)
	return result, nil
}

// stagedWrite is one collection replacement of an import. save writes the new rows,
// restore writes the previous rows back and apply installs the new rows in memory.
type stagedWrite struct {
	name    models.Collection
	save    func(ctx context.Context) error
	restore func(ctx context.Context) error
	apply   func()
}

func stage[T models.Record](s *Store, t *table[T], rows []T) stagedWrite {
	previous := t.all()
	persist := func(ctx context.Context, records []T) error {
		start := time.Now()
		err := s.repo.Save(ctx, t.name, records)
		s.metrics.ObservePersistence(string(t.name), "save", time.Since(start))
		return err
	}
	return stagedWrite{
		name:    t.name,
		save:    func(ctx context.Context) error { return persist(ctx, rows) },
		restore: func(ctx context.Context) error { return persist(ctx, previous) },
		apply: func() {
			t.set(rows, s.metrics)
			s.metrics.RecordMutation(string(t.name), "import")
		},
	}
}

// rollback restores the collections already written by an aborted import, newest
// first. Failures are logged; the in-memory state is untouched either way.
func (s *Store) rollback(ctx context.Context, written []stagedWrite) {
	for i := len(written) - 1; i >= 0; i-- {
		if err := written[i].restore(ctx); err != nil {
			s.logger.Error("import rollback", zap.String("collection", string(written[i].name)), zap.Error(err))
		}
	}
}

func orEmpty[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
