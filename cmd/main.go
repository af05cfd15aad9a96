package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lshigami/mbti-compass/config"
	"github.com/lshigami/mbti-compass/database"
	"github.com/lshigami/mbti-compass/internal/cache"
	"github.com/lshigami/mbti-compass/internal/logger"
	"github.com/lshigami/mbti-compass/internal/repository"
	"github.com/lshigami/mbti-compass/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	cfg      *config.Config
	logLevel string
)

// @title MBTI Compass API
// @version 1.0
// @description Personality assessment backend: resumable question sessions, bulk submissions, results history and a keyword chat assistant.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init("info")
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mbti-compass",
	Short: "MBTI Compass API server",
	Long: `MBTI Compass serves the personality assessment API.

Running without a subcommand is the same as "serve".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.NewConfig()
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.LogLevel = logLevel
		}
		logger.Init(loaded.LogLevel)
		cfg = loaded
		return nil
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate, reconcile the question bank and start the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply schema migrations and reconcile the question bank, then exit",
	RunE:  runMigrate,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL (debug, info, warn, error)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	app := newApp(cfg)
	if err := app.Err(); err != nil {
		log.Error().Err(err).Msg("Failed to build application")
		return err
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		log.Error().Err(err).Msg("Failed to start application")
		return err
	}

	sig := <-app.Done()
	log.Info().Str("signal", sig.String()).Msg("Application shutting down gracefully...")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer stopCancel()
	return app.Stop(stopCtx)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	db, err := database.NewDatabase(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := database.Migrate(db); err != nil {
		return err
	}

	bank := service.NewQuestionBankService(repository.NewQuestionRepository(db), cache.NewMemoryQuestionCache(0))
	changed, err := bank.Reconcile(cmd.Context())
	if err != nil {
		return fmt.Errorf("reconcile question bank: %w", err)
	}
	log.Info().Bool("changed", changed).Msg("Migration finished")
	return nil
}
