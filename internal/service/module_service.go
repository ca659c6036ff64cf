package service

import (
	"elearning_backend/internal/model"
	"elearning_backend/internal/repository"
	"elearning_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type ModuleService struct {
	ModuleRepo *repository.ModuleRepository
	Courses    *CourseService
}

func NewModuleService(moduleRepo *repository.ModuleRepository, courses *CourseService) *ModuleService {
	return &ModuleService{ModuleRepo: moduleRepo, Courses: courses}
}

type ModuleReq struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// CreateModule appends a module to the course; its order is max+1 among the
// course's existing modules.
func (s *ModuleService) CreateModule(courseID uint, req ModuleReq) (*model.CourseModule, error) {
	if _, err := s.Courses.GetCourse(courseID); err != nil {
		return nil, err
	}

	order, err := s.ModuleRepo.NextOrder(courseID)
	if err != nil {
		return nil, err
	}

	module := &model.CourseModule{
		Title:       req.Title,
		Description: req.Description,
		Order:       order,
		CourseID:    courseID,
	}
	if err := s.ModuleRepo.Create(module); err != nil {
		return nil, err
	}

	s.Courses.InvalidateOutline(courseID)
	return module, nil
}

func (s *ModuleService) UpdateModule(moduleID uint, req ModuleReq) (*model.CourseModule, error) {
	module, err := s.GetModule(moduleID)
	if err != nil {
		return nil, err
	}

	module.Title = req.Title
	module.Description = req.Description
	if err := s.ModuleRepo.Update(module); err != nil {
		return nil, err
	}

	s.Courses.InvalidateOutline(module.CourseID)
	return module, nil
}

func (s *ModuleService) GetModule(moduleID uint) (*model.CourseModule, error) {
	module, err := s.ModuleRepo.FindByID(moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}
	return module, nil
}
