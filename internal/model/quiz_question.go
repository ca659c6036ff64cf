package model

import "encoding/json"

// swagger:model QuizQuestion
type QuizQuestion struct {
	BaseModel
	ContentItemID uint            `gorm:"index;type:bigint unsigned" json:"contentItemId"`
	QuestionText  string          `gorm:"type:text;not null" json:"questionText"`
	QuestionType  string          `gorm:"size:50;default:'multiple_choice'" json:"questionType"` // multiple_choice, short_answer
	CorrectAnswer string          `gorm:"type:text" json:"-"`
	Options       json.RawMessage `gorm:"type:json" json:"options,omitempty"` // JSON: []string
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// OptionList decodes the stored options. A question with no options decodes
// to nil; anything that fails to parse indicates corrupted stored data.
func (q *QuizQuestion) OptionList() ([]string, error) {
	if len(q.Options) == 0 {
		return nil, nil
	}
	var opts []string
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil, err
	}
	return opts, nil
}
