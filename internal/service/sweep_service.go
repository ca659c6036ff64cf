package service

import (
	"elearning_backend/internal/repository"
	"elearning_backend/internal/util"
	"elearning_backend/pkg/logger"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SweepService is the periodic consistency pass: it re-derives progress and
// completion for every enrollment and backfills completion dates that are
// missing on completed enrollments. Used for backfills after imports and as
// a safety net; steady-state it is a no-op because every mutation already
// recomputes inline.
type SweepService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	ResponseRepo   *repository.ResponseRepository
	Progress       *ProgressService
	DB             *gorm.DB
}

func NewSweepService(
	enrollmentRepo *repository.EnrollmentRepository,
	responseRepo *repository.ResponseRepository,
	progress *ProgressService,
	db *gorm.DB,
) *SweepService {
	return &SweepService{
		EnrollmentRepo: enrollmentRepo,
		ResponseRepo:   responseRepo,
		Progress:       progress,
		DB:             db,
	}
}

// RecomputeAll recalculates every enrollment, each in its own transaction so
// one bad enrollment cannot wedge the whole sweep.
func (s *SweepService) RecomputeAll() error {
	enrollments, err := s.EnrollmentRepo.ListAll()
	if err != nil {
		return err
	}

	var failed int
	for _, e := range enrollments {
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			_, err := s.Progress.Recalculate(tx, e.StudentID, e.CourseID)
			return err
		})
		if err != nil && !errors.Is(err, util.ErrEnrollmentNotFound) {
			failed++
			logger.Log.Error("sweep: recompute failed",
				zap.Uint("studentID", e.StudentID),
				zap.Uint("courseID", e.CourseID),
				zap.Error(err))
		}
	}

	logger.Log.Info("consistency sweep finished",
		zap.Int("enrollments", len(enrollments)),
		zap.Int("failed", failed))
	return nil
}

// BackfillCompletionDates stamps a completion date on completed enrollments
// that are missing one, using the student's latest completed response, or
// now as a last resort.
func (s *SweepService) BackfillCompletionDates() error {
	enrollments, err := s.EnrollmentRepo.ListAll()
	if err != nil {
		return err
	}

	for i := range enrollments {
		e := &enrollments[i]
		if !e.Completed || e.CompletionDate != nil {
			continue
		}

		latest, err := s.ResponseRepo.LatestCompletionDate(e.StudentID)
		if err != nil {
			return err
		}
		if latest == nil {
			now := time.Now()
			latest = &now
		}

		e.CompletionDate = latest
		if err := s.EnrollmentRepo.Save(s.DB, e); err != nil {
			return err
		}
	}
	return nil
}
