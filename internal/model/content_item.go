package model

type ContentType string

const (
	ContentText  ContentType = "text"
	ContentVideo ContentType = "video"
	ContentFile  ContentType = "file"
	ContentQuiz  ContentType = "quiz"
)

// ContentItem is the smallest unit of course material. Content holds the text
// body or video URL depending on Type; FilePath holds the stored object name
// for uploaded files. Quiz items own their questions.
// swagger:model ContentItem
type ContentItem struct {
	BaseModel
	Title    string      `gorm:"size:100;not null" json:"title"`
	Type     ContentType `gorm:"size:50;not null" json:"type"`
	Content  string      `gorm:"type:text" json:"content,omitempty"`
	FilePath string      `gorm:"size:255" json:"filePath,omitempty"`
	Duration float64     `gorm:"default:0" json:"duration,omitempty"` // seconds, videos only
	Order    int         `gorm:"default:0" json:"order"`
	ModuleID uint        `gorm:"index;type:bigint unsigned" json:"moduleId"`

	Questions []QuizQuestion `gorm:"foreignKey:ContentItemID" json:"questions,omitempty"`
}

func (ContentItem) TableName() string {
	return "content_items"
}
