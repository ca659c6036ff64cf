package service

import (
	"elearning_backend/internal/model"
	"elearning_backend/internal/repository"
	"elearning_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

// CascadeService removes a course, module or content item together with
// everything that exists only in its context: quiz questions and student
// responses first, then the structure itself. Each deletion is one
// transaction; if any step fails nothing is deleted. Structural deletions
// below a course change the progress denominator, so every enrollment of the
// owning course is recomputed before the transaction commits.
type CascadeService struct {
	CourseRepo     *repository.CourseRepository
	ModuleRepo     *repository.ModuleRepository
	ContentRepo    *repository.ContentRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Progress       *ProgressService
	Courses        *CourseService
	DB             *gorm.DB
}

func NewCascadeService(
	courseRepo *repository.CourseRepository,
	moduleRepo *repository.ModuleRepository,
	contentRepo *repository.ContentRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	progress *ProgressService,
	courses *CourseService,
	db *gorm.DB,
) *CascadeService {
	return &CascadeService{
		CourseRepo:     courseRepo,
		ModuleRepo:     moduleRepo,
		ContentRepo:    contentRepo,
		EnrollmentRepo: enrollmentRepo,
		Progress:       progress,
		Courses:        courses,
		DB:             db,
	}
}

// DeleteCourse removes the course and its whole subtree, enrollments
// included.
func (s *CascadeService) DeleteCourse(courseID uint) error {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var moduleIDs []uint
		if err := tx.Model(&model.CourseModule{}).
			Where("course_id = ?", courseID).
			Pluck("id", &moduleIDs).Error; err != nil {
			return err
		}

		itemIDs, err := contentItemIDsOfModules(tx, moduleIDs)
		if err != nil {
			return err
		}

		if err := purgeContentSubtree(tx, itemIDs); err != nil {
			return err
		}
		if len(moduleIDs) > 0 {
			if err := tx.Unscoped().
				Where("course_id = ?", courseID).
				Delete(&model.CourseModule{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Unscoped().
			Where("course_id = ?", courseID).
			Delete(&model.CourseEnrollment{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.Course{}, courseID).Error
	})
	if err != nil {
		return err
	}

	s.Courses.InvalidateOutline(courseID)
	return nil
}

// DeleteModule removes one module and its content subtree, then recomputes
// every enrollment of the owning course against the shrunken denominator.
func (s *CascadeService) DeleteModule(moduleID uint) error {
	module, err := s.ModuleRepo.FindByID(moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrModuleNotFound
		}
		return err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		itemIDs, err := contentItemIDsOfModules(tx, []uint{moduleID})
		if err != nil {
			return err
		}

		if err := purgeContentSubtree(tx, itemIDs); err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&model.CourseModule{}, moduleID).Error; err != nil {
			return err
		}

		return s.recalculateCourse(tx, module.CourseID)
	})
	if err != nil {
		return err
	}

	s.Courses.InvalidateOutline(module.CourseID)
	return nil
}

// DeleteContentItem removes one content item with its questions and
// responses, then recomputes the owning course's enrollments.
func (s *CascadeService) DeleteContentItem(contentItemID uint) error {
	item, err := s.ContentRepo.FindByID(contentItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrContentNotFound
		}
		return err
	}

	module, err := s.ModuleRepo.FindByID(item.ModuleID)
	if err != nil {
		return err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := purgeContentSubtree(tx, []uint{contentItemID}); err != nil {
			return err
		}
		return s.recalculateCourse(tx, module.CourseID)
	})
	if err != nil {
		return err
	}

	s.Courses.InvalidateOutline(module.CourseID)
	return nil
}

func (s *CascadeService) recalculateCourse(tx *gorm.DB, courseID uint) error {
	enrollments, err := s.EnrollmentRepo.ListByCourse(tx, courseID)
	if err != nil {
		return err
	}
	for _, e := range enrollments {
		if _, err := s.Progress.Recalculate(tx, e.StudentID, courseID); err != nil {
			return err
		}
	}
	return nil
}

func contentItemIDsOfModules(tx *gorm.DB, moduleIDs []uint) ([]uint, error) {
	if len(moduleIDs) == 0 {
		return nil, nil
	}
	var itemIDs []uint
	err := tx.Model(&model.ContentItem{}).
		Where("module_id IN ?", moduleIDs).
		Pluck("id", &itemIDs).Error
	return itemIDs, err
}

// purgeContentSubtree hard-deletes the given content items bottom-up:
// responses, then questions, then the items themselves. No orphaned ledger
// rows may survive a structural deletion.
func purgeContentSubtree(tx *gorm.DB, itemIDs []uint) error {
	if len(itemIDs) == 0 {
		return nil
	}
	if err := tx.Unscoped().
		Where("content_item_id IN ?", itemIDs).
		Delete(&model.StudentResponse{}).Error; err != nil {
		return err
	}
	if err := tx.Unscoped().
		Where("content_item_id IN ?", itemIDs).
		Delete(&model.QuizQuestion{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().
		Where("id IN ?", itemIDs).
		Delete(&model.ContentItem{}).Error
}
