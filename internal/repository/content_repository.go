package repository

import (
	"elearning_backend/internal/model"

	"gorm.io/gorm"
)

type ContentRepository struct {
	DB *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

func (r *ContentRepository) Create(item *model.ContentItem) error {
	return r.DB.Create(item).Error
}

func (r *ContentRepository) Update(item *model.ContentItem) error {
	return r.DB.Save(item).Error
}

func (r *ContentRepository) FindByID(id uint) (*model.ContentItem, error) {
	var item model.ContentItem
	err := r.DB.First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ContentRepository) FindByIDWithQuestions(id uint) (*model.ContentItem, error) {
	var item model.ContentItem
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("quiz_questions.id")
	}).First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// NextOrder returns max(order)+1 among the module's content items.
func (r *ContentRepository) NextOrder(moduleID uint) (int, error) {
	var max int
	err := r.DB.Model(&model.ContentItem{}).
		Where("module_id = ?", moduleID).
		Select("COALESCE(MAX(`order`), 0)").
		Scan(&max).Error
	return max + 1, err
}

// CourseID resolves the owning course of a content item.
func (r *ContentRepository) CourseID(tx *gorm.DB, contentItemID uint) (uint, error) {
	var courseID uint
	err := tx.Model(&model.CourseModule{}).
		Joins("JOIN content_items ON content_items.module_id = course_modules.id").
		Where("content_items.id = ?", contentItemID).
		Select("course_modules.course_id").
		Scan(&courseID).Error
	return courseID, err
}

func (r *ContentRepository) CreateQuestion(q *model.QuizQuestion) error {
	return r.DB.Create(q).Error
}

func (r *ContentRepository) ListQuestions(contentItemID uint) ([]model.QuizQuestion, error) {
	var questions []model.QuizQuestion
	err := r.DB.Where("content_item_id = ?", contentItemID).
		Order("id").Find(&questions).Error
	return questions, err
}
