package dashboard

import "github.com/acmshq/acms/internal/core/domain/onduty"

// StudentStats is the cached dashboard payload for a student.
type StudentStats struct {
	AttendancePercentage float64             `json:"attendance_percentage"`
	TotalClasses         int                 `json:"total_classes"`
	ClassesAttended      int                 `json:"classes_attended"`
	GPA                  float64             `json:"gpa"`
	CGPA                 float64             `json:"cgpa"`
	Semester             int                 `json:"semester"`
	OnDuty               onduty.StatusCounts `json:"on_duty"`
}

// CounsellorStats is the cached dashboard payload for a counsellor.
type CounsellorStats struct {
	AssignedStudents int                 `json:"assigned_students"`
	OnDuty           onduty.StatusCounts `json:"on_duty"`
	LowAttendance    int                 `json:"low_attendance"`
}

// AdminStats is the cached dashboard payload for an admin.
type AdminStats struct {
	TotalUsers          int                 `json:"total_users"`
	TotalStudents       int                 `json:"total_students"`
	TotalCounsellors    int                 `json:"total_counsellors"`
	TotalAdmins         int                 `json:"total_admins"`
	OnDuty              onduty.StatusCounts `json:"on_duty"`
	ActiveAnnouncements int                 `json:"active_announcements"`
}
