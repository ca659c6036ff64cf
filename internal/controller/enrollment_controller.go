package controller

import (
	"elearning_backend/internal/service"
	"elearning_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
	ProgressService   *service.ProgressService
	SweepService      *service.SweepService
}

func NewEnrollmentController(
	enrollmentService *service.EnrollmentService,
	progressService *service.ProgressService,
	sweepService *service.SweepService,
) *EnrollmentController {
	return &EnrollmentController{
		EnrollmentService: enrollmentService,
		ProgressService:   progressService,
		SweepService:      sweepService,
	}
}

// Enroll godoc
// @Summary Enroll in a course
// @Description Enrolling twice is not an error; created=false signals the enrollment already existed
// @Tags enrollments
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "course id"
// @Success 201 {object} util.Response{data=service.EnrollResult}
// @Success 200 {object} util.Response{data=service.EnrollResult}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id}/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	result, err := c.EnrollmentService.Enroll(claims.UserID, courseID)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	if result.Created {
		util.Created(ctx, result)
	} else {
		util.Success(ctx, result)
	}
}

// MyCourses godoc
// @Summary Courses the student is enrolled in, with progress
// @Tags enrollments
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.EnrolledCourse}
// @Router /api/my-courses [get]
func (c *EnrollmentController) MyCourses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courses, err := c.EnrollmentService.ListMyCourses(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, courses)
}

// AvailableCourses godoc
// @Summary Courses the student has not enrolled in yet
// @Tags enrollments
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/courses/available [get]
func (c *EnrollmentController) AvailableCourses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courses, err := c.EnrollmentService.ListAvailableCourses(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, courses)
}

// RecomputeProgress godoc
// @Summary Recompute the caller's progress for one course
// @Description Re-derives progress and completion from stored responses; safe to call any number of times
// @Tags enrollments
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "course id"
// @Success 200 {object} util.Response{data=model.CourseEnrollment}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id}/progress/recompute [post]
func (c *EnrollmentController) RecomputeProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	enrollment, err := c.ProgressService.RecomputeProgress(claims.UserID, courseID)
	if err != nil {
		if errors.Is(err, util.ErrEnrollmentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, enrollment)
}

// RecomputeAll godoc
// @Summary Recompute progress for every enrollment
// @Description Admin maintenance endpoint; also runs on the sweep schedule
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/progress/recompute [post]
func (c *EnrollmentController) RecomputeAll(ctx *gin.Context) {
	if err := c.SweepService.RecomputeAll(); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"status": "recomputed"})
}

// BackfillCompletionDates godoc
// @Summary Backfill missing completion dates
// @Description Stamps completed enrollments that predate completion-date tracking
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/completion-dates/backfill [post]
func (c *EnrollmentController) BackfillCompletionDates(ctx *gin.Context) {
	if err := c.SweepService.BackfillCompletionDates(); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"status": "backfilled"})
}
