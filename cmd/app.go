package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/mbti-compass/config"
	"github.com/lshigami/mbti-compass/database"
	_ "github.com/lshigami/mbti-compass/docs" // Swagger docs - auto-generated
	"github.com/lshigami/mbti-compass/internal/cache"
	adminctrl "github.com/lshigami/mbti-compass/internal/controller/admin"
	userctrl "github.com/lshigami/mbti-compass/internal/controller/user"
	"github.com/lshigami/mbti-compass/internal/middleware"
	"github.com/lshigami/mbti-compass/internal/repository"
	"github.com/lshigami/mbti-compass/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func newApp(c *config.Config) *fx.App {
	return fx.New(
		fx.Supply(c),

		// Core Application Components
		fx.Provide(
			database.NewDatabase,
			NewQuestionCache,
			NewGinEngine,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewUserRepository,
			repository.NewQuestionRepository,
			repository.NewTestSessionRepository,
			repository.NewTestResultRepository,
			repository.NewChatMessageRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewQuestionBankService,
			service.NewUserService,
			service.NewTestSessionService,
			service.NewTestSubmissionService,
			service.NewResultService,
			service.NewChatService,
		),

		// API Controllers Layer
		fx.Provide(
			adminctrl.NewAdminQuestionController,
			userctrl.NewUserController,
			userctrl.NewTestSessionController,
			userctrl.NewChatController,
			func(db *gorm.DB) *userctrl.HealthController {
				return userctrl.NewHealthController(func(ctx context.Context) error {
					return database.Ping(ctx, db)
				})
			},
		),

		fx.Invoke(
			MigrateDB,
			ReconcileQuestionBank,
			RegisterRoutesAndStartServer,
		),
	)
}

// NewQuestionCache picks redis when REDIS_ADDR is set and the in-process cache otherwise.
func NewQuestionCache(lc fx.Lifecycle, c *config.Config) (cache.QuestionCache, error) {
	if c.Redis.Addr == "" {
		log.Info().Dur("ttl", c.QuestionCache.TTL).Msg("Using in-memory question cache")
		return cache.NewMemoryQuestionCache(c.QuestionCache.TTL), nil
	}
	rc, err := cache.NewRedisQuestionCache(c.Redis.Addr, c.Redis.Password, c.QuestionCache.TTL)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("redis question cache at %s: %w", c.Redis.Addr, err)
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return rc.Close()
		},
	})
	log.Info().Str("addr", c.Redis.Addr).Dur("ttl", c.QuestionCache.TTL).Msg("Using redis question cache")
	return rc, nil
}

func NewGinEngine(c *config.Config) *gin.Engine {
	switch c.Server.GinMode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(c.Server.GinMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(gin.Recovery())

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(c.Server.AllowOrigins) == 0 || (len(c.Server.AllowOrigins) == 1 && c.Server.AllowOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = c.Server.AllowOrigins
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))

	// Swagger UI
	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func MigrateDB(db *gorm.DB) error {
	return database.Migrate(db)
}

// ReconcileQuestionBank makes the stored questions match the canonical catalog before traffic arrives.
func ReconcileQuestionBank(bank service.QuestionBankService) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_, err := bank.Reconcile(ctx)
	return err
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	c *config.Config,
	adminQuestionCtrl *adminctrl.AdminQuestionController,
	userCtrl *userctrl.UserController,
	sessionCtrl *userctrl.TestSessionController,
	chatCtrl *userctrl.ChatController,
	healthCtrl *userctrl.HealthController,
) {
	healthCtrl.RegisterRoutes(router)

	// Admin Routes (prefixed with /api/v1/admin)
	adminQuestionCtrl.RegisterRoutes(router.Group("/api/v1/admin"))

	// User Routes (prefixed with /api/v1)
	api := router.Group("/api/v1")
	userCtrl.RegisterRoutes(api)
	sessionCtrl.RegisterRoutes(api)
	chatCtrl.RegisterRoutes(api)

	server := &http.Server{
		Addr:              ":" + c.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("MBTI Compass API server starting on port %s", c.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", c.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}
