package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/mbti-compass/internal/controller"
	"github.com/lshigami/mbti-compass/internal/dto"
	"github.com/lshigami/mbti-compass/internal/service"
)

type ChatController struct {
	chatService service.ChatService
}

func NewChatController(cs service.ChatService) *ChatController {
	return &ChatController{chatService: cs}
}

func (c *ChatController) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/chat", c.PostMessage)
	api.GET("/chat/:user_id", c.GetHistory)
}

// PostMessage godoc
// @Summary Send a chat message
// @Description Stores the message and the companion's canned reply, and returns the reply.
// @Tags Chat
// @Accept json
// @Produce json
// @Param message body dto.ChatMessageRequest true "User ID and message"
// @Success 200 {object} dto.ChatMessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /chat [post]
func (c *ChatController) PostMessage(ctx *gin.Context) {
	var req dto.ChatMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(ctx, err)
		return
	}
	reply, err := c.chatService.PostMessage(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, reply)
}

// GetHistory godoc
// @Summary Chat history of a user
// @Tags Chat
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {array} dto.ChatMessageResponse
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /chat/{user_id} [get]
func (c *ChatController) GetHistory(ctx *gin.Context) {
	userID, ok := controller.ParseUintParam(ctx, "user_id")
	if !ok {
		return
	}
	history, err := c.chatService.History(ctx.Request.Context(), userID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, history)
}
