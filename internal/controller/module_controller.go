package controller

import (
	"elearning_backend/internal/service"
	"elearning_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type ModuleController struct {
	ModuleService  *service.ModuleService
	CourseService  *service.CourseService
	CascadeService *service.CascadeService
}

func NewModuleController(
	moduleService *service.ModuleService,
	courseService *service.CourseService,
	cascadeService *service.CascadeService,
) *ModuleController {
	return &ModuleController{
		ModuleService:  moduleService,
		CourseService:  courseService,
		CascadeService: cascadeService,
	}
}

// CreateModule godoc
// @Summary Add a module to a course
// @Description The new module is appended after the course's existing modules
// @Tags modules
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "course id"
// @Param   body body service.ModuleReq true "module payload"
// @Success 201 {object} util.Response{data=model.CourseModule}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/instructor/courses/{id}/modules [post]
func (c *ModuleController) CreateModule(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("id"))
	if _, ok := courseOwnerID(ctx, c.CourseService, courseID); !ok {
		return
	}

	var req service.ModuleReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.ModuleService.CreateModule(courseID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, module)
}

// UpdateModule godoc
// @Summary Update a module
// @Tags modules
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "module id"
// @Param   body body service.ModuleReq true "module payload"
// @Success 200 {object} util.Response{data=model.CourseModule}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/instructor/modules/{id} [put]
func (c *ModuleController) UpdateModule(ctx *gin.Context) {
	moduleID := util.MustParseUint(ctx.Param("id"))
	module, err := c.ModuleService.GetModule(moduleID)
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	if _, ok := courseOwnerID(ctx, c.CourseService, module.CourseID); !ok {
		return
	}

	var req service.ModuleReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updated, err := c.ModuleService.UpdateModule(moduleID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, updated)
}

// DeleteModule godoc
// @Summary Delete a module and its content
// @Description Removes the module, its content items, quiz questions and student responses, then recomputes progress for every enrollment of the course
// @Tags modules
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "module id"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/instructor/modules/{id} [delete]
func (c *ModuleController) DeleteModule(ctx *gin.Context) {
	moduleID := util.MustParseUint(ctx.Param("id"))
	module, err := c.ModuleService.GetModule(moduleID)
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	if _, ok := courseOwnerID(ctx, c.CourseService, module.CourseID); !ok {
		return
	}

	if err := c.CascadeService.DeleteModule(moduleID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": moduleID})
}
