// Package controller holds helpers shared by the HTTP handlers.
package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/lshigami/mbti-compass/internal/dto"
	"github.com/lshigami/mbti-compass/internal/middleware"
	"github.com/lshigami/mbti-compass/internal/service"
	"github.com/rs/zerolog/log"
)

var statusByCode = map[string]int{
	service.CodeNotFound:      http.StatusNotFound,
	service.CodeConflict:      http.StatusConflict,
	service.CodeInvalidInput:  http.StatusBadRequest,
	service.CodeInvalidState:  http.StatusConflict,
	service.CodeOutOfSequence: http.StatusConflict,
	service.CodeConfiguration: http.StatusServiceUnavailable,
}

// StatusOf maps a service error onto an HTTP status.
func StatusOf(err error) int {
	if status, ok := statusByCode[service.CodeOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// RespondError writes err as a dto.ErrorResponse. Internal errors are logged
// and reported without their details.
func RespondError(ctx *gin.Context, err error) {
	code := service.CodeOf(err)
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", ctx.FullPath()).Str("request_id", ctx.GetString(middleware.RequestIDKey)).Msg("Request failed")
		ctx.AbortWithStatusJSON(status, dto.ErrorResponse{Code: code, Message: "Internal server error"})
		return
	}
	log.Warn().Err(err).Str("path", ctx.FullPath()).Int("status", status).Msg("Request rejected")
	ctx.AbortWithStatusJSON(status, dto.ErrorResponse{Code: code, Message: err.Error()})
}

// RespondBindError reports a request body that failed gin binding.
func RespondBindError(ctx *gin.Context, err error) {
	log.Warn().Err(err).Str("path", ctx.FullPath()).Msg("Failed to bind request")
	details := []string{err.Error()}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details = details[:0]
		for _, fe := range verrs {
			details = append(details, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
		}
	}
	ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{
		Code:    service.CodeInvalidInput,
		Message: "Invalid request body",
		Details: details,
	})
}

// ParseUintParam reads a positive id path parameter, answering 400 when it is malformed.
func ParseUintParam(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    service.CodeInvalidInput,
			Message: fmt.Sprintf("Invalid %s format", name),
		})
		return 0, false
	}
	return uint(v), true
}
