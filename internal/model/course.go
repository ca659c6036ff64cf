package model

// swagger:model Course
type Course struct {
	BaseModel
	Name         string         `gorm:"size:200;not null" json:"name"`
	Description  string         `gorm:"size:500" json:"description"`
	InstructorID uint           `gorm:"index;type:bigint unsigned" json:"instructorId"`
	Modules      []CourseModule `gorm:"foreignKey:CourseID" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}
