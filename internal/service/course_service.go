package service

import (
	"context"
	"elearning_backend/internal/model"
	"elearning_backend/internal/repository"
	"elearning_backend/internal/util"
	"elearning_backend/pkg/logger"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const outlineCacheTTL = 10 * time.Minute

type CourseService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	ResponseRepo   *repository.ResponseRepository
	Redis          *redis.Client
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	responseRepo *repository.ResponseRepository,
	rdb *redis.Client,
) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		ResponseRepo:   responseRepo,
		Redis:          rdb,
	}
}

type CourseReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
}

func (s *CourseService) CreateCourse(instructorID uint, req CourseReq) (*model.Course, error) {
	course := &model.Course{
		Name:         req.Name,
		Description:  req.Description,
		InstructorID: instructorID,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) UpdateCourse(courseID, instructorID uint, req CourseReq) (*model.Course, error) {
	course, err := s.ownedCourse(courseID, instructorID)
	if err != nil {
		return nil, err
	}

	course.Name = req.Name
	course.Description = req.Description
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}

	s.InvalidateOutline(courseID)
	return course, nil
}

func (s *CourseService) GetCourse(courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) ListByInstructor(instructorID uint) ([]model.Course, error) {
	return s.CourseRepo.ListByInstructor(instructorID)
}

// CourseOutline is the ordered read-side view over the course hierarchy:
// modules in order, each with its content items in order.
type CourseOutline struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Modules     []OutlineModule `json:"modules"`
	TotalItems  int             `json:"totalItems"`
}

type OutlineModule struct {
	ID          uint          `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Order       int           `json:"order"`
	Items       []OutlineItem `json:"items"`
}

type OutlineItem struct {
	ID        uint              `json:"id"`
	Title     string            `json:"title"`
	Type      model.ContentType `json:"type"`
	Order     int               `json:"order"`
	Completed bool              `json:"completed"`
}

// GetOutline builds the course outline. When studentID is non-zero each item
// carries the student's completion status; the outline skeleton itself is
// cached in redis and invalidated on every structural change.
func (s *CourseService) GetOutline(courseID, studentID uint) (*CourseOutline, error) {
	outline, err := s.cachedOutline(courseID)
	if err != nil {
		return nil, err
	}

	if studentID != 0 {
		itemIDs := make([]uint, 0, outline.TotalItems)
		for _, m := range outline.Modules {
			for _, item := range m.Items {
				itemIDs = append(itemIDs, item.ID)
			}
		}

		completed, err := s.ResponseRepo.CompletedSet(studentID, itemIDs)
		if err != nil {
			return nil, err
		}
		for i := range outline.Modules {
			for j := range outline.Modules[i].Items {
				item := &outline.Modules[i].Items[j]
				item.Completed = completed[item.ID]
			}
		}
	}

	return outline, nil
}

func (s *CourseService) cachedOutline(courseID uint) (*CourseOutline, error) {
	key := outlineCacheKey(courseID)

	if s.Redis != nil {
		cached, err := s.Redis.Get(context.Background(), key).Result()
		if err == nil {
			var outline CourseOutline
			if err := json.Unmarshal([]byte(cached), &outline); err == nil {
				return &outline, nil
			}
		}
	}

	course, err := s.CourseRepo.FindByIDWithOutline(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	outline := &CourseOutline{
		ID:          course.ID,
		Name:        course.Name,
		Description: course.Description,
		Modules:     make([]OutlineModule, 0, len(course.Modules)),
	}
	for _, m := range course.Modules {
		om := OutlineModule{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Order:       m.Order,
			Items:       make([]OutlineItem, 0, len(m.ContentItems)),
		}
		for _, item := range m.ContentItems {
			om.Items = append(om.Items, OutlineItem{
				ID:    item.ID,
				Title: item.Title,
				Type:  item.Type,
				Order: item.Order,
			})
			outline.TotalItems++
		}
		outline.Modules = append(outline.Modules, om)
	}

	if s.Redis != nil {
		if data, err := json.Marshal(outline); err == nil {
			s.Redis.Set(context.Background(), key, data, outlineCacheTTL)
		}
	}

	return outline, nil
}

// InvalidateOutline drops the cached outline after a structural change.
func (s *CourseService) InvalidateOutline(courseID uint) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.Background(), outlineCacheKey(courseID)).Err(); err != nil {
		logger.Log.Warn("failed to invalidate outline cache",
			zap.Uint("courseID", courseID), zap.Error(err))
	}
}

func outlineCacheKey(courseID uint) string {
	return fmt.Sprintf("course:outline:%d", courseID)
}

type CourseStats struct {
	Enrollments     int64   `json:"enrollments"`
	Completed       int64   `json:"completed"`
	AverageProgress float64 `json:"averageProgress"`
	AverageScore    float64 `json:"averageScore"`
}

// GetStats aggregates enrollment and quiz figures for the instructor view.
func (s *CourseService) GetStats(courseID, instructorID uint) (*CourseStats, error) {
	if _, err := s.ownedCourse(courseID, instructorID); err != nil {
		return nil, err
	}

	stats := &CourseStats{}

	enrollments, err := s.EnrollmentRepo.ListByCourse(s.CourseRepo.DB, courseID)
	if err != nil {
		return nil, err
	}
	stats.Enrollments = int64(len(enrollments))

	var progressSum float64
	for _, e := range enrollments {
		progressSum += e.Progress
		if e.Completed {
			stats.Completed++
		}
	}
	if stats.Enrollments > 0 {
		stats.AverageProgress = util.Round2(progressSum / float64(stats.Enrollments))
	}

	itemIDs, err := s.CourseRepo.ContentItemIDs(s.CourseRepo.DB, courseID)
	if err != nil {
		return nil, err
	}
	responses, err := s.ResponseRepo.ListByCourseItems(itemIDs)
	if err != nil {
		return nil, err
	}

	var scoreSum float64
	var scored int
	for _, r := range responses {
		if r.Score != nil {
			scoreSum += *r.Score
			scored++
		}
	}
	if scored > 0 {
		stats.AverageScore = util.Round2(scoreSum / float64(scored))
	}

	return stats, nil
}

func (s *CourseService) ownedCourse(courseID, instructorID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if course.InstructorID != instructorID {
		return nil, util.ErrPermissionDenied
	}
	return course, nil
}

// CheckCourseOwnership exposes the instructor check to other services.
func (s *CourseService) CheckCourseOwnership(courseID, instructorID uint) error {
	_, err := s.ownedCourse(courseID, instructorID)
	return err
}
