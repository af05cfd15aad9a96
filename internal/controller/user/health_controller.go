package user

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/mbti-compass/internal/dto"
	"github.com/rs/zerolog/log"
)

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

type HealthController struct {
	pingDB Pinger
}

func NewHealthController(pingDB Pinger) *HealthController {
	return &HealthController{pingDB: pingDB}
}

func (c *HealthController) RegisterRoutes(r gin.IRoutes) {
	r.GET("/healthz", c.Health)
}

// Health answers 200 while the database is reachable and 503 otherwise.
// It is mounted outside the versioned API.
func (c *HealthController) Health(ctx *gin.Context) {
	if err := c.pingDB(ctx.Request.Context()); err != nil {
		log.Warn().Err(err).Msg("Health check: database unreachable")
		ctx.JSON(http.StatusServiceUnavailable, dto.HealthResponse{Status: "degraded", Database: "unreachable"})
		return
	}
	ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Database: "ok"})
}
