package models

import "time"

// StudentStatus enumerates the enrolment states of a student.
type StudentStatus string

const (
	StudentActive    StudentStatus = "active"
	StudentInactive  StudentStatus = "inactive"
	StudentGraduated StudentStatus = "graduated"
	StudentSuspended StudentStatus = "suspended"
)

// Student represents a learner registered in the school.
type Student struct {
	ID             string        `json:"id" validate:"required"`
	FirstName      string        `json:"firstName" validate:"required"`
	LastName       string        `json:"lastName" validate:"required"`
	Email          string        `json:"email" validate:"required,email"`
	Phone          string        `json:"phone,omitempty"`
	DateOfBirth    string        `json:"dob,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Gender         string        `json:"gender,omitempty"`
	ClassName      string        `json:"class" validate:"required"`
	Section        string        `json:"section,omitempty"`
	Address        string        `json:"address,omitempty"`
	EnrollmentDate string        `json:"enrollmentDate" validate:"required,datetime=2006-01-02"`
	Status         StudentStatus `json:"status" validate:"required,oneof=active inactive graduated suspended"`
	Notes          string        `json:"notes,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// RecordID implements Record.
func (s Student) RecordID() string { return s.ID }

// FullName joins first and last name.
func (s Student) FullName() string { return s.FirstName + " " + s.LastName }

// StudentPatch carries the fields of a partial student update. Nil fields are left untouched.
type StudentPatch struct {
	FirstName      *string        `json:"firstName"`
	LastName       *string        `json:"lastName"`
	Email          *string        `json:"email"`
	Phone          *string        `json:"phone"`
	DateOfBirth    *string        `json:"dob"`
	Gender         *string        `json:"gender"`
	ClassName      *string        `json:"class"`
	Section        *string        `json:"section"`
	Address        *string        `json:"address"`
	EnrollmentDate *string        `json:"enrollmentDate"`
	Status         *StudentStatus `json:"status"`
	Notes          *string        `json:"notes"`
}

// Apply merges the patch into s.
func (p StudentPatch) Apply(s *Student) {
	setString(&s.FirstName, p.FirstName)
	setString(&s.LastName, p.LastName)
	setString(&s.Email, p.Email)
	setString(&s.Phone, p.Phone)
	setString(&s.DateOfBirth, p.DateOfBirth)
	setString(&s.Gender, p.Gender)
	setString(&s.ClassName, p.ClassName)
	setString(&s.Section, p.Section)
	setString(&s.Address, p.Address)
	setString(&s.EnrollmentDate, p.EnrollmentDate)
	setString(&s.Notes, p.Notes)
	if p.Status != nil {
		s.Status = *p.Status
	}
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search    string
	Status    StudentStatus
	ClassName string
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
