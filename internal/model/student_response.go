package model

import "time"

// StudentResponse records one interaction of a student with a content item:
// a graded quiz submission, or a view-completion of non-quiz content. Rows
// are append-only once written; retries of a failed quiz create new rows.
// swagger:model StudentResponse
type StudentResponse struct {
	BaseModel
	StudentID      uint       `gorm:"index;type:bigint unsigned" json:"studentId"`
	ContentItemID  uint       `gorm:"index;type:bigint unsigned" json:"contentItemId"`
	Response       string     `gorm:"type:text" json:"response,omitempty"` // raw answers as JSON
	Score          *float64   `json:"score,omitempty"`                     // 0-10, quizzes only
	Completed      bool       `gorm:"default:false" json:"completed"`
	CompletionDate *time.Time `json:"completionDate,omitempty"`
}

func (StudentResponse) TableName() string {
	return "student_responses"
}
