package controller

import (
	"elearning_backend/internal/service"
	"elearning_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// swagger:model SubmitQuizRequest
type SubmitQuizRequest struct {
	// Answers maps question IDs to the student's answer text.
	Answers map[uint]string `json:"answers" binding:"required"`
}

// SubmitQuiz godoc
// @Summary Submit quiz answers for grading
// @Description Grades the submission on a 0-10 scale. A student who already passed gets blocked=true and no new attempt is recorded. Failing attempts may be retried.
// @Tags quizzes
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "quiz content item id"
// @Param   body body SubmitQuizRequest true "answers keyed by question id"
// @Success 200 {object} util.Response{data=service.SubmitQuizResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{id}/submit [post]
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quizID := util.MustParseUint(ctx.Param("id"))
	result, err := c.QuizService.SubmitQuiz(claims.UserID, quizID, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrContentNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotAQuiz), errors.Is(err, util.ErrEmptyQuiz):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}
