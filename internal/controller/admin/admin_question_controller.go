package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/mbti-compass/internal/controller"
	"github.com/lshigami/mbti-compass/internal/dto"
	"github.com/lshigami/mbti-compass/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminQuestionController struct {
	questionService service.QuestionBankService
}

func NewAdminQuestionController(qs service.QuestionBankService) *AdminQuestionController {
	return &AdminQuestionController{questionService: qs}
}

func (c *AdminQuestionController) RegisterRoutes(admin *gin.RouterGroup) {
	questions := admin.Group("/questions")
	questions.GET("", c.ListStored)
	questions.POST("/reconcile", c.Reconcile)
}

// Reconcile godoc
// @Summary (Admin) Reconcile the question bank
// @Description Inserts missing canonical questions and rewrites drifted ones. Stored questions are never deleted.
// @Tags Admin - Questions
// @Produce json
// @Success 200 {object} dto.ReconcileResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions/reconcile [post]
func (c *AdminQuestionController) Reconcile(ctx *gin.Context) {
	changed, err := c.questionService.Reconcile(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	stored, err := c.questionService.ListStored(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	log.Info().Bool("changed", changed).Int("questions", len(stored)).Msg("Admin Reconcile: done")
	ctx.JSON(http.StatusOK, dto.ReconcileResponse{Changed: changed, QuestionCount: len(stored)})
}

// ListStored godoc
// @Summary (Admin) List stored questions
// @Description Reads storage directly, bypassing the question cache.
// @Tags Admin - Questions
// @Produce json
// @Success 200 {array} dto.QuestionResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions [get]
func (c *AdminQuestionController) ListStored(ctx *gin.Context) {
	questions, err := c.questionService.ListStored(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, questions)
}
