package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/mbti-compass/internal/controller"
	"github.com/lshigami/mbti-compass/internal/dto"
	"github.com/lshigami/mbti-compass/internal/service"
	"github.com/rs/zerolog/log"
)

type TestSessionController struct {
	sessionService    service.TestSessionService
	submissionService service.TestSubmissionService
	questionService   service.QuestionBankService
}

func NewTestSessionController(
	ss service.TestSessionService,
	tss service.TestSubmissionService,
	qs service.QuestionBankService,
) *TestSessionController {
	return &TestSessionController{
		sessionService:    ss,
		submissionService: tss,
		questionService:   qs,
	}
}

func (c *TestSessionController) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/questions", c.GetQuestions)
	api.POST("/test-session", c.StartSession)
	api.GET("/test-session/:session_id", c.GetSession)
	api.POST("/test-session/:session_id/answer", c.SubmitAnswer)
	api.POST("/test-session/:session_id/rewind", c.Rewind)
	api.POST("/submit-test", c.SubmitTest)
}

// GetQuestions godoc
// @Summary List the questionnaire
// @Tags Questions
// @Produce json
// @Success 200 {array} dto.QuestionResponse
// @Failure 503 {object} dto.ErrorResponse "Question bank is empty"
// @Router /questions [get]
func (c *TestSessionController) GetQuestions(ctx *gin.Context) {
	questions, err := c.questionService.ListQuestions(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// StartSession godoc
// @Summary Start or resume a test session
// @Description Resumes the user's latest in-progress session unless restart is set, in which case in-progress sessions are cancelled and a fresh one starts.
// @Tags Test Sessions
// @Accept json
// @Produce json
// @Param request body dto.StartSessionRequest true "User ID and restart flag"
// @Success 200 {object} dto.SessionView
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 503 {object} dto.ErrorResponse "No questions available"
// @Router /test-session [post]
func (c *TestSessionController) StartSession(ctx *gin.Context) {
	var req dto.StartSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(ctx, err)
		return
	}
	view, err := c.sessionService.CreateOrResume(ctx.Request.Context(), req.UserID, req.Restart)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// GetSession godoc
// @Summary Get a test session
// @Tags Test Sessions
// @Produce json
// @Param session_id path int true "Session ID"
// @Success 200 {object} dto.SessionView
// @Failure 400 {object} dto.ErrorResponse "Invalid Session ID format"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /test-session/{session_id} [get]
func (c *TestSessionController) GetSession(ctx *gin.Context) {
	sessionID, ok := controller.ParseUintParam(ctx, "session_id")
	if !ok {
		return
	}
	view, err := c.sessionService.GetSession(ctx.Request.Context(), sessionID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// SubmitAnswer godoc
// @Summary Answer the current question
// @Description Answers must follow the session's question order. Answering the last question completes the session and stores its result.
// @Tags Test Sessions
// @Accept json
// @Produce json
// @Param session_id path int true "Session ID"
// @Param answer body dto.SessionAnswerRequest true "Question ID and a 1-5 answer"
// @Success 200 {object} dto.SessionView
// @Failure 400 {object} dto.ErrorResponse "Invalid answer"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session not in progress or question out of sequence"
// @Router /test-session/{session_id}/answer [post]
func (c *TestSessionController) SubmitAnswer(ctx *gin.Context) {
	sessionID, ok := controller.ParseUintParam(ctx, "session_id")
	if !ok {
		return
	}
	var req dto.SessionAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(ctx, err)
		return
	}
	view, err := c.sessionService.SubmitAnswer(ctx.Request.Context(), sessionID, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// Rewind godoc
// @Summary Undo the last answer
// @Tags Test Sessions
// @Produce json
// @Param session_id path int true "Session ID"
// @Success 200 {object} dto.SessionView
// @Failure 400 {object} dto.ErrorResponse "Invalid Session ID format"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session not in progress"
// @Router /test-session/{session_id}/rewind [post]
func (c *TestSessionController) Rewind(ctx *gin.Context) {
	sessionID, ok := controller.ParseUintParam(ctx, "session_id")
	if !ok {
		return
	}
	view, err := c.sessionService.Rewind(ctx.Request.Context(), sessionID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// SubmitTest godoc
// @Summary Submit the whole questionnaire at once
// @Description Requires exactly one 1-5 answer for every current question.
// @Tags Results
// @Accept json
// @Produce json
// @Param submission body dto.TestSubmissionRequest true "User ID and answers"
// @Success 200 {object} dto.SubmissionResultResponse
// @Failure 400 {object} dto.ErrorResponse "Missing, duplicate or invalid answers"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /submit-test [post]
func (c *TestSessionController) SubmitTest(ctx *gin.Context) {
	var req dto.TestSubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(ctx, err)
		return
	}
	log.Info().Uint("userID", req.UserID).Int("answerCount", len(req.Answers)).Msg("Received bulk test submission")
	resp, err := c.submissionService.SubmitTest(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
