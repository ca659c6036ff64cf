package repository

import (
	"elearning_backend/internal/model"
	"elearning_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type ResponseRepository struct {
	DB *gorm.DB
}

func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{DB: db}
}

func (r *ResponseRepository) Create(tx *gorm.DB, response *model.StudentResponse) error {
	return tx.Create(response).Error
}

func (r *ResponseRepository) FindByStudentAndContent(studentID, contentItemID uint) (*model.StudentResponse, error) {
	var response model.StudentResponse
	err := r.DB.Where("student_id = ? AND content_item_id = ?", studentID, contentItemID).
		First(&response).Error
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// HasPassingResponse reports whether any prior response for this content item
// reached the passing score. A passing attempt locks the quiz.
func (r *ResponseRepository) HasPassingResponse(studentID, contentItemID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.StudentResponse{}).
		Where("student_id = ? AND content_item_id = ? AND score >= ?",
			studentID, contentItemID, util.QuizPassingScore).
		Count(&count).Error
	return count > 0, err
}

// CountDistinctCompleted counts how many of the given content items have at
// least one completed response by the student. Multiple responses for the
// same item count once.
func (r *ResponseRepository) CountDistinctCompleted(tx *gorm.DB, studentID uint, contentItemIDs []uint) (int64, error) {
	if len(contentItemIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := tx.Model(&model.StudentResponse{}).
		Where("student_id = ? AND completed = ? AND content_item_id IN ?",
			studentID, true, contentItemIDs).
		Distinct("content_item_id").
		Count(&count).Error
	return count, err
}

// CompletedSet returns which of the given content items the student has a
// completed response for.
func (r *ResponseRepository) CompletedSet(studentID uint, contentItemIDs []uint) (map[uint]bool, error) {
	completed := make(map[uint]bool)
	if len(contentItemIDs) == 0 {
		return completed, nil
	}

	var ids []uint
	err := r.DB.Model(&model.StudentResponse{}).
		Where("student_id = ? AND completed = ? AND content_item_id IN ?",
			studentID, true, contentItemIDs).
		Distinct().
		Pluck("content_item_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		completed[id] = true
	}
	return completed, nil
}

// LatestCompletionDate finds the newest completion date among the student's
// completed responses, for backfilling enrollments that predate the column.
func (r *ResponseRepository) LatestCompletionDate(studentID uint) (*time.Time, error) {
	var response model.StudentResponse
	err := r.DB.Where("student_id = ? AND completed = ? AND completion_date IS NOT NULL", studentID, true).
		Order("completion_date DESC").
		First(&response).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return response.CompletionDate, nil
}

// ListByCourseItems returns scored responses for a set of content items,
// used by the instructor analytics.
func (r *ResponseRepository) ListByCourseItems(contentItemIDs []uint) ([]model.StudentResponse, error) {
	if len(contentItemIDs) == 0 {
		return nil, nil
	}
	var responses []model.StudentResponse
	err := r.DB.Where("content_item_id IN ?", contentItemIDs).Find(&responses).Error
	return responses, err
}
