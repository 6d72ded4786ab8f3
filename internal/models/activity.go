package models

import (
	"encoding/json"
	"time"
)

// ActivityType tags an activity log entry.
type ActivityType string

const (
	ActivityStudentAdded      ActivityType = "student_added"
	ActivityStudentUpdated    ActivityType = "student_updated"
	ActivityStudentDeleted    ActivityType = "student_deleted"
	ActivityCourseAdded       ActivityType = "course_added"
	ActivityCourseUpdated     ActivityType = "course_updated"
	ActivityCourseDeleted     ActivityType = "course_deleted"
	ActivityAttendanceMarked  ActivityType = "attendance_marked"
	ActivityAttendanceUpdated ActivityType = "attendance_updated"
	ActivityAttendanceDeleted ActivityType = "attendance_deleted"
	ActivityGradeAdded        ActivityType = "grade_added"
	ActivityGradeUpdated      ActivityType = "grade_updated"
	ActivityGradeDeleted      ActivityType = "grade_deleted"
	ActivityEventAdded        ActivityType = "event_added"
	ActivityEventUpdated      ActivityType = "event_updated"
	ActivityEventDeleted      ActivityType = "event_deleted"
)

// ActivityLogEntry records one mutation for display. Data is an opaque payload.
type ActivityLogEntry struct {
	ID          string          `json:"id"`
	Type        ActivityType    `json:"type"`
	Description string          `json:"description"`
	Data        json.RawMessage `json:"data,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
	Date        string          `json:"date"`
}

// RecordID implements Record.
func (a ActivityLogEntry) RecordID() string { return a.ID }
