package controller

import (
	"elearning_backend/internal/service"
	"elearning_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
	ModuleService  *service.ModuleService
	CourseService  *service.CourseService
	CascadeService *service.CascadeService
}

func NewContentController(
	contentService *service.ContentService,
	moduleService *service.ModuleService,
	courseService *service.CourseService,
	cascadeService *service.CascadeService,
) *ContentController {
	return &ContentController{
		ContentService: contentService,
		ModuleService:  moduleService,
		CourseService:  courseService,
		CascadeService: cascadeService,
	}
}

func (c *ContentController) ownModule(ctx *gin.Context, moduleID uint) bool {
	module, err := c.ModuleService.GetModule(moduleID)
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return false
	}
	_, ok := courseOwnerID(ctx, c.CourseService, module.CourseID)
	return ok
}

// CreateContent godoc
// @Summary Add a text or video item to a module
// @Tags content
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "module id"
// @Param   body body service.ContentReq true "content payload"
// @Success 201 {object} util.Response{data=model.ContentItem}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/instructor/modules/{id}/content [post]
func (c *ContentController) CreateContent(ctx *gin.Context) {
	moduleID := util.MustParseUint(ctx.Param("id"))
	if !c.ownModule(ctx, moduleID) {
		return
	}

	var req service.ContentReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	item, err := c.ContentService.CreateContent(moduleID, req)
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Created(ctx, item)
}

// UploadContent godoc
// @Summary Upload a file or video as module content
// @Tags content
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "module id"
// @Param   title formData string true "content title"
// @Param   file formData file true "file to upload"
// @Success 201 {object} util.Response{data=model.ContentItem}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/instructor/modules/{id}/content/upload [post]
func (c *ContentController) UploadContent(ctx *gin.Context) {
	moduleID := util.MustParseUint(ctx.Param("id"))
	if !c.ownModule(ctx, moduleID) {
		return
	}

	title := ctx.PostForm("title")
	if title == "" {
		util.BadRequest(ctx, "title is required")
		return
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	item, err := c.ContentService.UploadFileContent(moduleID, title, header)
	if err != nil {
		if errors.Is(err, util.ErrUnsupportedFileType) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, item)
}

// CreateQuiz godoc
// @Summary Add a quiz with its questions to a module
// @Tags content
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "module id"
// @Param   body body service.QuizReq true "quiz payload"
// @Success 201 {object} util.Response{data=model.ContentItem}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/instructor/modules/{id}/quizzes [post]
func (c *ContentController) CreateQuiz(ctx *gin.Context) {
	moduleID := util.MustParseUint(ctx.Param("id"))
	if !c.ownModule(ctx, moduleID) {
		return
	}

	var req service.QuizReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	item, err := c.ContentService.CreateQuiz(moduleID, req)
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else if errors.Is(err, util.ErrEmptyQuiz) {
			util.BadRequest(ctx, "quiz needs at least one question")
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Created(ctx, item)
}

// GetContent godoc
// @Summary View one content item
// @Description Quiz questions are returned without their correct answers
// @Tags content
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "content item id"
// @Success 200 {object} util.Response{data=service.ContentView}
// @Failure 404 {object} util.Response
// @Router /api/content/{id} [get]
func (c *ContentController) GetContent(ctx *gin.Context) {
	contentID := util.MustParseUint(ctx.Param("id"))
	view, err := c.ContentService.GetContentView(contentID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrContentNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrMalformedOptions):
			util.Error(ctx, 422, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, view)
}

// MarkCompleted godoc
// @Summary Mark a text, video or file item as completed
// @Description Quizzes cannot be marked; they complete through submission. Repeat marks are no-ops.
// @Tags content
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "content item id"
// @Success 200 {object} util.Response{data=model.CourseEnrollment}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/content/{id}/complete [post]
func (c *ContentController) MarkCompleted(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	contentID := util.MustParseUint(ctx.Param("id"))
	enrollment, err := c.ContentService.MarkCompleted(claims.UserID, contentID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrContentNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrQuizNotMarkable):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, enrollment)
}

// DeleteContent godoc
// @Summary Delete a content item
// @Description Removes the item with its questions and responses, then recomputes progress for the course's enrollments
// @Tags content
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "content item id"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/instructor/content/{id} [delete]
func (c *ContentController) DeleteContent(ctx *gin.Context) {
	contentID := util.MustParseUint(ctx.Param("id"))
	courseID, err := c.ContentService.CourseIDOf(contentID)
	if err != nil {
		if errors.Is(err, util.ErrContentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	if _, ok := courseOwnerID(ctx, c.CourseService, courseID); !ok {
		return
	}

	if err := c.CascadeService.DeleteContentItem(contentID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": contentID})
}
