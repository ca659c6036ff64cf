package repository

import (
	"elearning_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(enrollment *model.CourseEnrollment) error {
	return r.DB.Create(enrollment).Error
}

func (r *EnrollmentRepository) Save(tx *gorm.DB, enrollment *model.CourseEnrollment) error {
	return tx.Save(enrollment).Error
}

func (r *EnrollmentRepository) FindByStudentAndCourse(studentID, courseID uint) (*model.CourseEnrollment, error) {
	var enrollment model.CourseEnrollment
	err := r.DB.Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// FindForUpdate reads the enrollment row with a row-level lock so concurrent
// recomputations for the same enrollment serialize. SQLite has no FOR UPDATE
// and serializes writers on its own.
func (r *EnrollmentRepository) FindForUpdate(tx *gorm.DB, studentID, courseID uint) (*model.CourseEnrollment, error) {
	q := tx.Where("student_id = ? AND course_id = ?", studentID, courseID)
	if tx.Dialector.Name() == "mysql" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var enrollment model.CourseEnrollment
	if err := q.First(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) ListByStudent(studentID uint) ([]model.CourseEnrollment, error) {
	var enrollments []model.CourseEnrollment
	err := r.DB.Where("student_id = ?", studentID).Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) ListByCourse(tx *gorm.DB, courseID uint) ([]model.CourseEnrollment, error) {
	var enrollments []model.CourseEnrollment
	err := tx.Where("course_id = ?", courseID).Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) ListAll() ([]model.CourseEnrollment, error) {
	var enrollments []model.CourseEnrollment
	err := r.DB.Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) CountByCourse(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.CourseEnrollment{}).
		Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}
