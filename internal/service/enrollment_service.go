package service

import (
	"elearning_backend/internal/model"
	"elearning_backend/internal/repository"
	"elearning_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
}

func NewEnrollmentService(
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
	}
}

type EnrollResult struct {
	Created    bool                    `json:"created"`
	Enrollment *model.CourseEnrollment `json:"enrollment"`
}

// Enroll creates the (student, course) enrollment. Enrolling twice is not an
// error: the existing enrollment is returned with Created=false.
func (s *EnrollmentService) Enroll(studentID, courseID uint) (*EnrollResult, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	existing, err := s.EnrollmentRepo.FindByStudentAndCourse(studentID, courseID)
	if err == nil {
		return &EnrollResult{Created: false, Enrollment: existing}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment := &model.CourseEnrollment{
		StudentID:  studentID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
	}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		// Two concurrent enrollments race on the unique index; the loser
		// reads back the winner's row.
		existing, findErr := s.EnrollmentRepo.FindByStudentAndCourse(studentID, courseID)
		if findErr == nil {
			return &EnrollResult{Created: false, Enrollment: existing}, nil
		}
		return nil, err
	}

	return &EnrollResult{Created: true, Enrollment: enrollment}, nil
}

type EnrolledCourse struct {
	Course         model.Course `json:"course"`
	Progress       float64      `json:"progress"`
	Completed      bool         `json:"completed"`
	CompletionDate *time.Time   `json:"completionDate,omitempty"`
}

// ListMyCourses returns the student's enrollments with their stored progress.
func (s *EnrollmentService) ListMyCourses(studentID uint) ([]EnrolledCourse, error) {
	enrollments, err := s.EnrollmentRepo.ListByStudent(studentID)
	if err != nil {
		return nil, err
	}

	courses := make([]EnrolledCourse, 0, len(enrollments))
	for _, e := range enrollments {
		course, err := s.CourseRepo.FindByID(e.CourseID)
		if err != nil {
			return nil, err
		}
		courses = append(courses, EnrolledCourse{
			Course:         *course,
			Progress:       e.Progress,
			Completed:      e.Completed,
			CompletionDate: e.CompletionDate,
		})
	}
	return courses, nil
}

// ListAvailableCourses returns courses the student can still enroll in.
func (s *EnrollmentService) ListAvailableCourses(studentID uint) ([]model.Course, error) {
	return s.CourseRepo.ListNotEnrolled(studentID)
}
