package models

import "time"

// EventType classifies calendar events.
type EventType string

const (
	EventExam     EventType = "exam"
	EventHoliday  EventType = "holiday"
	EventMeeting  EventType = "meeting"
	EventActivity EventType = "activity"
	EventOther    EventType = "other"
)

// Event is a dated calendar entry.
type Event struct {
	ID          string    `json:"id" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	Date        string    `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string    `json:"time,omitempty"`
	Type        EventType `json:"type" validate:"required,oneof=exam holiday meeting activity other"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RecordID implements Record.
func (e Event) RecordID() string { return e.ID }

// EventPatch carries the fields of a partial event update.
type EventPatch struct {
	Title       *string    `json:"title"`
	Date        *string    `json:"date"`
	Time        *string    `json:"time"`
	Type        *EventType `json:"type"`
	Description *string    `json:"description"`
}

// Apply merges the patch into e.
func (p EventPatch) Apply(e *Event) {
	setString(&e.Title, p.Title)
	setString(&e.Date, p.Date)
	setString(&e.Time, p.Time)
	setString(&e.Description, p.Description)
	if p.Type != nil {
		e.Type = *p.Type
	}
}

// EventFilter narrows event listings.
type EventFilter struct {
	Type EventType
}
