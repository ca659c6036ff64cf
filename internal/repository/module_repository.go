package repository

import (
	"elearning_backend/internal/model"

	"gorm.io/gorm"
)

type ModuleRepository struct {
	DB *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

func (r *ModuleRepository) Create(module *model.CourseModule) error {
	return r.DB.Create(module).Error
}

func (r *ModuleRepository) Update(module *model.CourseModule) error {
	return r.DB.Save(module).Error
}

func (r *ModuleRepository) FindByID(id uint) (*model.CourseModule, error) {
	var module model.CourseModule
	err := r.DB.First(&module, id).Error
	if err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *ModuleRepository) ListByCourse(courseID uint) ([]model.CourseModule, error) {
	var modules []model.CourseModule
	err := r.DB.Where("course_id = ?", courseID).
		Order("`order`, id").Find(&modules).Error
	return modules, err
}

// NextOrder returns max(order)+1 among the course's modules, starting at 1.
func (r *ModuleRepository) NextOrder(courseID uint) (int, error) {
	var max int
	err := r.DB.Model(&model.CourseModule{}).
		Where("course_id = ?", courseID).
		Select("COALESCE(MAX(`order`), 0)").
		Scan(&max).Error
	return max + 1, err
}
