package model

import "time"

// CourseEnrollment links one student to one course. Progress and completion
// are derived state: they are only ever written by a recomputation, never
// directly by a user action.
// swagger:model CourseEnrollment
type CourseEnrollment struct {
	BaseModel
	StudentID      uint       `gorm:"index:idx_student_course,unique;type:bigint unsigned" json:"studentId"`
	CourseID       uint       `gorm:"index:idx_student_course,unique;type:bigint unsigned" json:"courseId"`
	EnrolledAt     time.Time  `json:"enrolledAt"`
	Progress       float64    `gorm:"default:0" json:"progress"` // 0-100
	Completed      bool       `gorm:"default:false" json:"completed"`
	CompletionDate *time.Time `json:"completionDate,omitempty"`
}

func (CourseEnrollment) TableName() string {
	return "course_enrollments"
}
