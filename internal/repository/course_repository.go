package repository

import (
	"elearning_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// FindByIDWithOutline loads the course with its modules and content items in
// display order. Questions are intentionally not preloaded.
func (r *CourseRepository) FindByIDWithOutline(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("course_modules.`order`, course_modules.id")
		}).
		Preload("Modules.ContentItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("content_items.`order`, content_items.id")
		}).
		First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) List(page, limit int) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	if err := r.DB.Model(&model.Course{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Offset((page - 1) * limit).Limit(limit).Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) ListByInstructor(instructorID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("instructor_id = ?", instructorID).Find(&courses).Error
	return courses, err
}

// ListNotEnrolled returns courses the student has no enrollment in yet.
func (r *CourseRepository) ListNotEnrolled(studentID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.
		Where("id NOT IN (?)", r.DB.Model(&model.CourseEnrollment{}).
			Select("course_id").Where("student_id = ?", studentID)).
		Find(&courses).Error
	return courses, err
}

// ContentItemIDs enumerates every content item under the course, in one
// query across the module level. This is the progress denominator.
func (r *CourseRepository) ContentItemIDs(tx *gorm.DB, courseID uint) ([]uint, error) {
	var ids []uint
	err := tx.Model(&model.ContentItem{}).
		Joins("JOIN course_modules ON course_modules.id = content_items.module_id").
		Where("course_modules.course_id = ?", courseID).
		Pluck("content_items.id", &ids).Error
	return ids, err
}
