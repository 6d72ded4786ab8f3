package service

import (
	"context"
	"fmt"

	"github.com/noah-isme/sma-records/internal/models"
	appErrors "github.com/noah-isme/sma-records/pkg/errors"
)

// CreateEventRequest holds payload for creating calendar events.
type CreateEventRequest struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Date        string           `json:"date"`
	Time        string           `json:"time"`
	Type        models.EventType `json:"type"`
	Description string           `json:"description"`
}

// EventService handles calendar event use-cases.
type EventService struct {
	store *Store
}

// NewEventService constructs the event service.
func NewEventService(store *Store) *EventService {
	return &EventService{store: store}
}

// List returns events matching filter.
func (s *EventService) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	result := make([]models.Event, 0, len(s.store.events.rows))
	for _, event := range s.store.events.rows {
		if filter.Type != "" && event.Type != filter.Type {
			continue
		}
		result = append(result, event)
	}
	return result, nil
}

// Get returns a single event.
func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	event, ok := s.store.events.find(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	return &event, nil
}

// Create adds a calendar event.
func (s *EventService) Create(ctx context.Context, req CreateEventRequest) (*models.Event, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	event := models.Event{
		ID:          resolveID(s.store, req.ID),
		Title:       req.Title,
		Date:        req.Date,
		Time:        req.Time,
		Type:        req.Type,
		Description: req.Description,
		CreatedAt:   s.store.timestamp(),
	}
	if event.Type == "" {
		event.Type = models.EventOther
	}
	if err := s.store.validate(event, "invalid event payload"); err != nil {
		return nil, err
	}
	if err := insert(ctx, s.store, &s.store.events, event); err != nil {
		return nil, err
	}
	if err := s.store.logActivity(ctx, models.ActivityEventAdded,
		fmt.Sprintf("Added event: %s", event.Title),
		map[string]interface{}{"id": event.ID, "date": event.Date},
	); err != nil {
		return nil, err
	}
	return &event, nil
}

// Update merges patch into an existing event.
func (s *EventService) Update(ctx context.Context, id string, patch models.EventPatch) (*models.Event, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	event, ok := s.store.events.find(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	patch.Apply(&event)
	if err := s.store.validate(event, "invalid event payload"); err != nil {
		return nil, err
	}
	if err := replace(ctx, s.store, &s.store.events, event); err != nil {
		return nil, err
	}
	if err := s.store.logActivity(ctx, models.ActivityEventUpdated,
		fmt.Sprintf("Updated event: %s", event.Title),
		map[string]interface{}{"id": event.ID, "date": event.Date},
	); err != nil {
		return nil, err
	}
	return &event, nil
}

// Delete removes an event. Unknown ids are ignored.
func (s *EventService) Delete(ctx context.Context, id string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	event, ok := s.store.events.find(id)
	if !ok {
		return nil
	}
	if err := remove(ctx, s.store, &s.store.events, id); err != nil {
		return err
	}
	return s.store.logActivity(ctx, models.ActivityEventDeleted,
		fmt.Sprintf("Deleted event: %s", event.Title),
		map[string]interface{}{"id": id},
	)
}
