package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RequestLogger writes one zerolog line per request.
func RequestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		status := ctx.Writer.Status()
		var event *zerolog.Event
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		default:
			event = log.Info()
		}
		event.
			Str("request_id", ctx.GetString(RequestIDKey)).
			Str("client_ip", ctx.ClientIP()).
			Str("method", ctx.Request.Method).
			Str("path", ctx.Request.URL.Path).
			Int("status_code", status).
			Dur("latency", time.Since(start)).
			Str("user_agent", ctx.Request.UserAgent()).
			Str("error_message", ctx.Errors.ByType(gin.ErrorTypePrivate).String()).
			Msg("gin_request")
	}
}
