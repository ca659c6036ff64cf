package controller

import (
	"elearning_backend/internal/model"
	"elearning_backend/internal/service"
	"elearning_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CourseController struct {
	CourseService  *service.CourseService
	CascadeService *service.CascadeService
}

func NewCourseController(courseService *service.CourseService, cascadeService *service.CascadeService) *CourseController {
	return &CourseController{
		CourseService:  courseService,
		CascadeService: cascadeService,
	}
}

// courseOwnerID verifies the caller may manage the course and returns the
// owning instructor's ID for owner-scoped service calls. Admins pass
// unconditionally and act as the owner. Writes the error response itself.
func courseOwnerID(ctx *gin.Context, courses *service.CourseService, courseID uint) (uint, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return 0, false
	}

	course, err := courses.GetCourse(courseID)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return 0, false
	}

	if claims.Role != model.Admin && course.InstructorID != claims.UserID {
		util.Forbidden(ctx)
		return 0, false
	}
	return course.InstructorID, true
}

// CreateCourse godoc
// @Summary Create a course
// @Tags courses
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.CourseReq true "course payload"
// @Success 201 {object} util.Response{data=model.Course}
// @Failure 400 {object} util.Response
// @Router /api/instructor/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CourseReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.CreateCourse(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, course)
}

// UpdateCourse godoc
// @Summary Update a course
// @Tags courses
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "course id"
// @Param   body body service.CourseReq true "course payload"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/instructor/courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("id"))
	ownerID, ok := courseOwnerID(ctx, c.CourseService, courseID)
	if !ok {
		return
	}

	var req service.CourseReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.UpdateCourse(courseID, ownerID, req)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, course)
}

// ListMyCourses godoc
// @Summary Courses taught by the current instructor
// @Tags courses
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/instructor/courses [get]
func (c *CourseController) ListMyCourses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courses, err := c.CourseService.ListByInstructor(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, courses)
}

// GetCourse godoc
// @Summary Course outline with the caller's completion state
// @Tags courses
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "course id"
// @Success 200 {object} util.Response{data=service.CourseOutline}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	outline, err := c.CourseService.GetOutline(courseID, claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, outline)
}

// GetStats godoc
// @Summary Enrollment and score statistics for a course
// @Tags courses
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "course id"
// @Success 200 {object} util.Response{data=service.CourseStats}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/instructor/courses/{id}/stats [get]
func (c *CourseController) GetStats(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("id"))
	ownerID, ok := courseOwnerID(ctx, c.CourseService, courseID)
	if !ok {
		return
	}

	stats, err := c.CourseService.GetStats(courseID, ownerID)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, stats)
}

// DeleteCourse godoc
// @Summary Delete a course and everything under it
// @Description Removes the course with its modules, content, questions, responses and enrollments in one transaction
// @Tags courses
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "course id"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/instructor/courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("id"))
	if _, ok := courseOwnerID(ctx, c.CourseService, courseID); !ok {
		return
	}

	if err := c.CascadeService.DeleteCourse(courseID); err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"deleted": courseID})
}
