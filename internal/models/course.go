package models

import "time"

// CourseStatus enumerates course lifecycle states.
type CourseStatus string

const (
	CourseActive    CourseStatus = "active"
	CourseInactive  CourseStatus = "inactive"
	CourseCompleted CourseStatus = "completed"
)

// Default course sizing applied when a value is omitted.
const (
	DefaultCourseCredits  = 3
	DefaultCourseDuration = 16
)

// Course represents a taught subject. Code is not required to be unique.
type Course struct {
	ID          string       `json:"id" validate:"required"`
	Code        string       `json:"code" validate:"required"`
	Name        string       `json:"name" validate:"required"`
	Instructor  string       `json:"instructor,omitempty"`
	Credits     int          `json:"credits" validate:"gte=0"`
	Duration    int          `json:"duration" validate:"gte=0"`
	Schedule    string       `json:"schedule,omitempty"`
	Description string       `json:"description,omitempty"`
	StartDate   string       `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string       `json:"endDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status      CourseStatus `json:"status" validate:"required,oneof=active inactive completed"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// RecordID implements Record.
func (c Course) RecordID() string { return c.ID }

// CoursePatch carries the fields of a partial course update.
type CoursePatch struct {
	Code        *string       `json:"code"`
	Name        *string       `json:"name"`
	Instructor  *string       `json:"instructor"`
	Credits     *int          `json:"credits"`
	Duration    *int          `json:"duration"`
	Schedule    *string       `json:"schedule"`
	Description *string       `json:"description"`
	StartDate   *string       `json:"startDate"`
	EndDate     *string       `json:"endDate"`
	Status      *CourseStatus `json:"status"`
}

// Apply merges the patch into c.
func (p CoursePatch) Apply(c *Course) {
	setString(&c.Code, p.Code)
	setString(&c.Name, p.Name)
	setString(&c.Instructor, p.Instructor)
	setString(&c.Schedule, p.Schedule)
	setString(&c.Description, p.Description)
	setString(&c.StartDate, p.StartDate)
	setString(&c.EndDate, p.EndDate)
	if p.Credits != nil {
		c.Credits = *p.Credits
	}
	if p.Duration != nil {
		c.Duration = *p.Duration
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
}
