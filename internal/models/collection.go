package models

import "time"

// Collection names a persisted record collection. The names double as storage keys.
type Collection string

const (
	CollectionStudents   Collection = "students"
	CollectionCourses    Collection = "courses"
	CollectionAttendance Collection = "attendance"
	CollectionGrades     Collection = "grades"
	CollectionEvents     Collection = "events"
	CollectionActivities Collection = "activities"
)

// Collections lists every collection in load order.
var Collections = []Collection{
	CollectionStudents,
	CollectionCourses,
	CollectionAttendance,
	CollectionGrades,
	CollectionEvents,
	CollectionActivities,
}

// DateLayout is the layout used by every date-only field.
const DateLayout = "2006-01-02"

// DocumentVersion is the compatibility tag written into exported documents.
const DocumentVersion = "1.0"

// Record is implemented by every stored entity.
type Record interface {
	RecordID() string
}

// ReferenceKey names a foreign-key field on a dependent record.
type ReferenceKey string

const (
	RefStudent ReferenceKey = "studentId"
	RefCourse  ReferenceKey = "courseId"
)

// Referencing is implemented by records that point at other records.
type Referencing interface {
	Record
	Reference(key ReferenceKey) string
}

// Snapshot is the full state of all six collections at one point in time.
type Snapshot struct {
	Students   []Student          `json:"students"`
	Courses    []Course           `json:"courses"`
	Attendance []AttendanceRecord `json:"attendance"`
	Grades     []Grade            `json:"grades"`
	Events     []Event            `json:"events"`
	Activities []ActivityLogEntry `json:"activities"`
}

// Document is the bulk interchange format used by export and import. Students and
// Courses are pointers so that a document lacking them can be told apart from one
// carrying empty lists.
type Document struct {
	Students   *[]Student         `json:"students"`
	Courses    *[]Course          `json:"courses"`
	Attendance []AttendanceRecord `json:"attendance"`
	Grades     []Grade            `json:"grades"`
	Events     []Event            `json:"events"`
	Activities []ActivityLogEntry `json:"activities"`
	ExportDate time.Time          `json:"exportDate"`
	Version    string             `json:"version"`
}
