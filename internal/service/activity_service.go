package service

import (
	"context"

	"github.com/noah-isme/sma-records/internal/models"
	appErrors "github.com/noah-isme/sma-records/pkg/errors"
)

// ActivityService exposes the activity journal. Entries are only ever appended by
// other mutations, so there is no create or update here.
type ActivityService struct {
	store *Store
}

// NewActivityService constructs the activity service.
func NewActivityService(store *Store) *ActivityService {
	return &ActivityService{store: store}
}

// List returns every entry, newest first.
func (s *ActivityService) List(ctx context.Context) ([]models.ActivityLogEntry, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return s.store.activities.all(), nil
}

// Recent returns at most n of the newest entries.
func (s *ActivityService) Recent(ctx context.Context, n int) ([]models.ActivityLogEntry, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	rows := s.store.activities.all()
	if n >= 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows, nil
}

// Get returns a single entry.
func (s *ActivityService) Get(ctx context.Context, id string) (*models.ActivityLogEntry, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	entry, ok := s.store.activities.find(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "activity not found")
	}
	return &entry, nil
}

// Delete removes an entry without logging anything. Unknown ids are ignored.
func (s *ActivityService) Delete(ctx context.Context, id string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return remove(ctx, s.store, &s.store.activities, id)
}
