package models

import "time"

// AttendanceStatus enumerates the possible marks for a day.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// AttendanceRecord is one attendance mark. Several marks for the same student and
// day are allowed and all of them count.
type AttendanceRecord struct {
	ID         string           `json:"id" validate:"required"`
	StudentID  string           `json:"studentId" validate:"required"`
	Date       string           `json:"date" validate:"required,datetime=2006-01-02"`
	Status     AttendanceStatus `json:"status" validate:"required,oneof=present absent late excused"`
	Remarks    string           `json:"remarks,omitempty"`
	RecordedAt time.Time        `json:"recordedAt"`
}

// RecordID implements Record.
func (a AttendanceRecord) RecordID() string { return a.ID }

// Reference implements Referencing.
func (a AttendanceRecord) Reference(key ReferenceKey) string {
	if key == RefStudent {
		return a.StudentID
	}
	return ""
}

// AttendancePatch carries the fields of a partial attendance update.
type AttendancePatch struct {
	StudentID *string           `json:"studentId"`
	Date      *string           `json:"date"`
	Status    *AttendanceStatus `json:"status"`
	Remarks   *string           `json:"remarks"`
}

// Apply merges the patch into a.
func (p AttendancePatch) Apply(a *AttendanceRecord) {
	setString(&a.StudentID, p.StudentID)
	setString(&a.Date, p.Date)
	setString(&a.Remarks, p.Remarks)
	if p.Status != nil {
		a.Status = *p.Status
	}
}

// AttendanceFilter narrows attendance listings.
type AttendanceFilter struct {
	Date      string
	StudentID string
}
