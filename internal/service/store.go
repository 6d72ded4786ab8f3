package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-records/internal/models"
	appErrors "github.com/noah-isme/sma-records/pkg/errors"
)

// DefaultActivityLimit caps the activity log when no limit is configured.
const DefaultActivityLimit = 50

type collectionStore interface {
	Load(ctx context.Context, name models.Collection, dest interface{}) error
	Save(ctx context.Context, name models.Collection, records interface{}) error
}

// StoreOptions tunes a Store. Zero values fall back to defaults.
type StoreOptions struct {
	ActivityLimit int
	Now           func() time.Time
	NewID         func() string
}

// Store owns the six record collections. One mutex guards every operation, from a
// single lookup to a full cascade or import, so callers never observe partial state.
// A collection is written to the backend before the in-memory copy changes.
type Store struct {
	mu        sync.Mutex
	repo      collectionStore
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	now       func() time.Time
	newID     func() string
	logLimit  int

	students   table[models.Student]
	courses    table[models.Course]
	attendance table[models.AttendanceRecord]
	grades     table[models.Grade]
	events     table[models.Event]
	activities table[models.ActivityLogEntry]
}

// NewStore constructs an empty store. Call Load to read persisted collections.
func NewStore(repo collectionStore, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, opts StoreOptions) *Store {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ActivityLimit <= 0 {
		opts.ActivityLimit = DefaultActivityLimit
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Store{
		repo:       repo,
		validator:  validate,
		logger:     logger,
		metrics:    metrics,
		now:        opts.Now,
		newID:      opts.NewID,
		logLimit:   opts.ActivityLimit,
		students:   newTable[models.Student](models.CollectionStudents),
		courses:    newTable[models.Course](models.CollectionCourses),
		attendance: newTable[models.AttendanceRecord](models.CollectionAttendance),
		grades:     newTable[models.Grade](models.CollectionGrades),
		events:     newTable[models.Event](models.CollectionEvents),
		activities: newTable[models.ActivityLogEntry](models.CollectionActivities),
	}
}

// Load replaces the in-memory collections with the persisted ones. Missing
// collections load as empty.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	students, err := load(ctx, s, &s.students)
	if err != nil {
		return err
	}
	courses, err := load(ctx, s, &s.courses)
	if err != nil {
		return err
	}
	attendance, err := load(ctx, s, &s.attendance)
	if err != nil {
		return err
	}
	grades, err := load(ctx, s, &s.grades)
	if err != nil {
		return err
	}
	events, err := load(ctx, s, &s.events)
	if err != nil {
		return err
	}
	activities, err := load(ctx, s, &s.activities)
	if err != nil {
		return err
	}
	if len(activities) > s.logLimit {
		activities = activities[:s.logLimit]
	}

	s.students.set(students, s.metrics)
	s.courses.set(courses, s.metrics)
	s.attendance.set(attendance, s.metrics)
	s.grades.set(grades, s.metrics)
	s.events.set(events, s.metrics)
	s.activities.set(activities, s.metrics)

	s.logger.Info("records loaded",
		zap.Int("students", len(students)),
		zap.Int("courses", len(courses)),
		zap.Int("attendance", len(attendance)),
		zap.Int("grades", len(grades)),
		zap.Int("events", len(events)),
		zap.Int("activities", len(activities)),
	)
	return nil
}

// Snapshot returns a copy of every collection.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() models.Snapshot {
	return models.Snapshot{
		Students:   s.students.all(),
		Courses:    s.courses.all(),
		Attendance: s.attendance.all(),
		Grades:     s.grades.all(),
		Events:     s.events.all(),
		Activities: s.activities.all(),
	}
}

// Now returns the store clock's current time in UTC.
func (s *Store) Now() time.Time {
	return s.timestamp()
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC().Round(0)
}

func (s *Store) today() string {
	return s.timestamp().Format(models.DateLayout)
}

func (s *Store) validate(record interface{}, message string) error {
	if err := s.validator.Struct(record); err != nil {
		return appErrors.WrapKind(err, appErrors.ErrValidation, message)
	}
	return nil
}

// logActivity prepends an entry to the activity log and evicts the oldest entries
// beyond the cap. Callers hold s.mu.
func (s *Store) logActivity(ctx context.Context, kind models.ActivityType, description string, data interface{}) error {
	if data == nil {
		data = map[string]interface{}{}
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return appErrors.WrapKind(err, appErrors.ErrInternal, "failed to encode activity payload")
	}
	now := s.timestamp()
	entry := models.ActivityLogEntry{
		ID:          s.newID(),
		Type:        kind,
		Description: description,
		Data:        payload,
		Timestamp:   now,
		Date:        now.Format(models.DateLayout),
	}

	current := s.activities.rows
	next := make([]models.ActivityLogEntry, 0, len(current)+1)
	next = append(next, entry)
	next = append(next, current...)
	evicted := 0
	if len(next) > s.logLimit {
		evicted = len(next) - s.logLimit
		next = next[:s.logLimit]
	}
	if err := commit(ctx, s, &s.activities, next); err != nil {
		return err
	}
	s.metrics.RecordActivityEvictions(evicted)
	s.logger.Debug("activity recorded", zap.String("type", string(kind)), zap.String("id", entry.ID))
	return nil
}

// table is the in-memory copy of one collection.
type table[T models.Record] struct {
	name models.Collection
	rows []T
}

func newTable[T models.Record](name models.Collection) table[T] {
	return table[T]{name: name, rows: []T{}}
}

func (t *table[T]) index(id string) int {
	for i, row := range t.rows {
		if row.RecordID() == id {
			return i
		}
	}
	return -1
}

func (t *table[T]) find(id string) (T, bool) {
	if i := t.index(id); i >= 0 {
		return t.rows[i], true
	}
	var zero T
	return zero, false
}

func (t *table[T]) all() []T {
	out := make([]T, len(t.rows))
	copy(out, t.rows)
	return out
}

func (t *table[T]) set(rows []T, metrics *MetricsService) {
	if rows == nil {
		rows = []T{}
	}
	t.rows = rows
	metrics.SetCollectionSize(string(t.name), len(rows))
}

func load[T models.Record](ctx context.Context, s *Store, t *table[T]) ([]T, error) {
	start := time.Now()
	rows := []T{}
	err := s.repo.Load(ctx, t.name, &rows)
	s.metrics.ObservePersistence(string(t.name), "load", time.Since(start))
	if err != nil {
		s.logger.Error("load collection", zap.String("collection", string(t.name)), zap.Error(err))
		return nil, appErrors.WrapKind(err, appErrors.ErrStorage, fmt.Sprintf("failed to load %s", t.name))
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

// commit persists rows and, once the backend accepted them, installs them in memory.
func commit[T models.Record](ctx context.Context, s *Store, t *table[T], rows []T) error {
	if rows == nil {
		rows = []T{}
	}
	start := time.Now()
	err := s.repo.Save(ctx, t.name, rows)
	s.metrics.ObservePersistence(string(t.name), "save", time.Since(start))
	if err != nil {
		s.logger.Error("persist collection", zap.String("collection", string(t.name)), zap.Error(err))
		return appErrors.WrapKind(err, appErrors.ErrStorage, fmt.Sprintf("failed to save %s", t.name))
	}
	t.set(rows, s.metrics)
	return nil
}

func insert[T models.Record](ctx context.Context, s *Store, t *table[T], record T) error {
	if t.index(record.RecordID()) >= 0 {
		return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("%s id %q already exists", t.name, record.RecordID()))
	}
	rows := append(t.all(), record)
	if err := commit(ctx, s, t, rows); err != nil {
		return err
	}
	s.metrics.RecordMutation(string(t.name), "create")
	return nil
}

func replace[T models.Record](ctx context.Context, s *Store, t *table[T], record T) error {
	i := t.index(record.RecordID())
	if i < 0 {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s record not found", t.name))
	}
	rows := t.all()
	rows[i] = record
	if err := commit(ctx, s, t, rows); err != nil {
		return err
	}
	s.metrics.RecordMutation(string(t.name), "update")
	return nil
}

func remove[T models.Record](ctx context.Context, s *Store, t *table[T], id string) error {
	i := t.index(id)
	if i < 0 {
		return nil
	}
	rows := make([]T, 0, len(t.rows)-1)
	rows = append(rows, t.rows[:i]...)
	rows = append(rows, t.rows[i+1:]...)
	if err := commit(ctx, s, t, rows); err != nil {
		return err
	}
	s.metrics.RecordMutation(string(t.name), "delete")
	return nil
}

func resolveID(s *Store, requested string) string {
	if requested != "" {
		return requested
	}
	return s.newID()
}
