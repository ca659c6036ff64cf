package service

import (
	"elearning_backend/internal/model"
	"elearning_backend/internal/repository"
	"elearning_backend/internal/util"
	"elearning_backend/pkg/monitoring"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ProgressService derives an enrollment's progress percentage from stored
// state: the course's content items (denominator) and the student's completed
// responses (numerator, distinct by content item). It owns the enrollment's
// completion state machine.
type ProgressService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	ResponseRepo   *repository.ResponseRepository
	DB             *gorm.DB
}

func NewProgressService(
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	responseRepo *repository.ResponseRepository,
	db *gorm.DB,
) *ProgressService {
	return &ProgressService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		ResponseRepo:   responseRepo,
		DB:             db,
	}
}

// Recalculate recomputes one enrollment inside the caller's transaction. The
// enrollment row is locked for the duration so concurrent submissions cannot
// interleave stale reads. Completion transitions both ways: reaching 100
// stamps the completion date, falling below 100 clears it again (content
// added to a finished course reopens the enrollment).
//
// The computation is a pure function of stored state, so calling it any
// number of times without intervening writes yields the same result.
func (s *ProgressService) Recalculate(tx *gorm.DB, studentID, courseID uint) (*model.CourseEnrollment, error) {
	enrollment, err := s.EnrollmentRepo.FindForUpdate(tx, studentID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}

	itemIDs, err := s.CourseRepo.ContentItemIDs(tx, courseID)
	if err != nil {
		return nil, err
	}

	// A course with no content has zero progress, never a division by zero.
	progress := 0.0
	if len(itemIDs) > 0 {
		completed, err := s.ResponseRepo.CountDistinctCompleted(tx, studentID, itemIDs)
		if err != nil {
			return nil, err
		}
		progress = util.Round2(float64(completed) / float64(len(itemIDs)) * 100)
	}

	enrollment.Progress = progress
	if progress == 100 {
		if !enrollment.Completed || enrollment.CompletionDate == nil {
			now := time.Now()
			enrollment.CompletionDate = &now
		}
		enrollment.Completed = true
	} else {
		enrollment.Completed = false
		enrollment.CompletionDate = nil
	}

	if err := s.EnrollmentRepo.Save(tx, enrollment); err != nil {
		return nil, err
	}

	monitoring.ProgressRecomputeCounter.Inc()
	return enrollment, nil
}

// RecomputeProgress runs a standalone recomputation as its own unit of work.
func (s *ProgressService) RecomputeProgress(studentID, courseID uint) (*model.CourseEnrollment, error) {
	var enrollment *model.CourseEnrollment
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		enrollment, err = s.Recalculate(tx, studentID, courseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}
