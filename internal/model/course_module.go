package model

// CourseModule groups the content items of a course. Order is assigned on
// creation as max+1 within the course; ties keep insertion order.
// swagger:model CourseModule
type CourseModule struct {
	BaseModel
	Title        string        `gorm:"size:200;not null" json:"title"`
	Description  string        `gorm:"size:500" json:"description"`
	Order        int           `gorm:"default:0" json:"order"`
	CourseID     uint          `gorm:"index;type:bigint unsigned" json:"courseId"`
	ContentItems []ContentItem `gorm:"foreignKey:ModuleID" json:"contentItems,omitempty"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}
