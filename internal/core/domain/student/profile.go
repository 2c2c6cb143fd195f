package student

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the denormalized academic record for a student. Attendance and
// marks are stored as JSONB documents; the relational columns only carry the
// lookup keys.
type Profile struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	UserID       uuid.UUID  `json:"user_id" db:"user_id"`
	StudentID    string     `json:"student_id" db:"student_id"`
	CounsellorID *uuid.UUID `json:"counsellor_id,omitempty" db:"counsellor_id"`
	Attendance   Attendance `json:"attendance" db:"attendance"`
	Marks        Marks      `json:"marks" db:"marks"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

type Attendance struct {
	TotalClasses    int                 `json:"total_classes"`
	ClassesAttended int                 `json:"classes_attended"`
	Percentage      float64             `json:"percentage"`
	Subjects        []SubjectAttendance `json:"subjects,omitempty"`
	LastUpdated     *time.Time          `json:"last_updated,omitempty"`
}

type SubjectAttendance struct {
	Name       string  `json:"name"`
	Classes    int     `json:"classes"`
	Attended   int     `json:"attended"`
	Percentage float64 `json:"percentage"`
}

type Marks struct {
	Semester    int           `json:"semester"`
	Subjects    []SubjectMark `json:"subjects,omitempty"`
	GPA         float64       `json:"gpa"`
	CGPA        float64       `json:"cgpa"`
	LastUpdated *time.Time    `json:"last_updated,omitempty"`
}

type SubjectMark struct {
	Name          string  `json:"name"`
	InternalMarks float64 `json:"internal_marks"`
	ExternalMarks float64 `json:"external_marks"`
	TotalMarks    float64 `json:"total_marks"`
	Grade         string  `json:"grade"`
}

// MarksSummary is the compact view returned by the marks summary endpoint.
type MarksSummary struct {
	GPA           float64 `json:"gpa"`
	CGPA          float64 `json:"cgpa"`
	Semester      int     `json:"semester"`
	TotalSubjects int     `json:"total_subjects"`
}

// UpdateAttendanceRequest replaces a student's attendance document.
type UpdateAttendanceRequest struct {
	TotalClasses    int                 `json:"total_classes"`
	ClassesAttended int                 `json:"classes_attended"`
	Subjects        []SubjectAttendance `json:"subjects,omitempty"`
}

// UpdateMarksRequest replaces a student's marks document.
type UpdateMarksRequest struct {
	Semester int           `json:"semester"`
	Subjects []SubjectMark `json:"subjects,omitempty"`
	GPA      float64       `json:"gpa"`
	CGPA     float64       `json:"cgpa"`
}
