package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/mbti-compass/internal/controller"
	"github.com/lshigami/mbti-compass/internal/dto"
	"github.com/lshigami/mbti-compass/internal/service"
	"github.com/rs/zerolog/log"
)

type UserController struct {
	userService   service.UserService
	resultService service.ResultService
}

func NewUserController(us service.UserService, rs service.ResultService) *UserController {
	return &UserController{userService: us, resultService: rs}
}

func (c *UserController) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/users", c.CreateUser)
	api.GET("/users/:user_id", c.GetUser)
	api.GET("/users/:user_id/test-results", c.GetTestResults)
	api.GET("/users/:user_id/personality", c.GetPersonality)
}

// CreateUser godoc
// @Summary Register a user
// @Tags Users
// @Accept json
// @Produce json
// @Param user body dto.CreateUserRequest true "Name and email"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users [post]
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req dto.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(ctx, err)
		return
	}
	user, err := c.userService.Create(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, user)
}

// GetUser godoc
// @Summary Get a user
// @Tags Users
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid User ID format"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{user_id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	userID, ok := controller.ParseUintParam(ctx, "user_id")
	if !ok {
		return
	}
	user, err := c.userService.Get(ctx.Request.Context(), userID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// GetTestResults godoc
// @Summary List a user's test results
// @Description Results from completed sessions and bulk submissions, most recent first.
// @Tags Results
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {array} dto.TestResultResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid User ID format"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{user_id}/test-results [get]
func (c *UserController) GetTestResults(ctx *gin.Context) {
	userID, ok := controller.ParseUintParam(ctx, "user_id")
	if !ok {
		return
	}
	results, err := c.resultService.ListUserResults(ctx.Request.Context(), userID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	log.Debug().Uint("userID", userID).Int("count", len(results)).Msg("Listed test results")
	ctx.JSON(http.StatusOK, results)
}

// GetPersonality godoc
// @Summary Latest personality type of a user
// @Tags Results
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} dto.PersonalityResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid User ID format"
// @Failure 404 {object} dto.ErrorResponse "No test result yet"
// @Router /users/{user_id}/personality [get]
func (c *UserController) GetPersonality(ctx *gin.Context) {
	userID, ok := controller.ParseUintParam(ctx, "user_id")
	if !ok {
		return
	}
	personality, err := c.resultService.LatestPersonality(ctx.Request.Context(), userID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, personality)
}
