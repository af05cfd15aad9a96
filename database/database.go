package database

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/lshigami/mbti-compass/config"
	"github.com/lshigami/mbti-compass/internal/model"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDatabase opens the configured database, retrying with a fixed interval
// until the server answers or the attempts are exhausted.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg.Database)
	if err != nil {
		return nil, err
	}
	return openWithRetry(dialector, cfg.Database.ConnectRetries, cfg.Database.ConnectRetryPeriod)
}

func dialectorFor(d config.Database) (gorm.Dialector, error) {
	switch d.Driver {
	case config.DriverPostgres:
		return postgres.Open(d.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(d.SQLitePath), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", d.Driver)
	}
}

func openWithRetry(dialector gorm.Dialector, attempts int, interval time.Duration) (*gorm.DB, error) {
	if attempts < 1 {
		attempts = 1
	}
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := gorm.Open(dialector, gormCfg)
		if err == nil {
			err = Ping(context.Background(), db)
			if err == nil {
				log.Info().Int("attempt", attempt).Msg("Database connection established")
				return db, nil
			}
		}
		lastErr = err
		if attempt < attempts {
			log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", interval).Msg("Database connection failed, retrying")
			time.Sleep(interval)
		}
	}
	return nil, fmt.Errorf("connect database after %d attempts: %w", attempts, lastErr)
}

// Ping checks the underlying connection pool.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// Migrate brings the schema up to date. Every step is additive and idempotent.
func Migrate(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	if err := db.AutoMigrate(
		&model.User{},
		&model.Question{},
		&model.TestResult{},
		&model.ChatMessage{},
	); err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := ensureSessionResultLink(db); err != nil {
		log.Error().Err(err).Msg("Adding test_sessions.test_result_id failed")
		return err
	}
	if err := db.AutoMigrate(&model.TestSession{}); err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return fmt.Errorf("auto migrate test sessions: %w", err)
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

// ensureSessionResultLink adds the nullable test_result_id column to a
// test_sessions table created before sessions were linked to results.
// The foreign key itself is created by the AutoMigrate that follows.
func ensureSessionResultLink(db *gorm.DB) error {
	m := db.Migrator()
	if !m.HasTable(&model.TestSession{}) {
		return nil
	}
	if m.HasColumn(&model.TestSession{}, "TestResultID") {
		return nil
	}
	log.Info().Msg("Adding nullable test_sessions.test_result_id column")
	if err := m.AddColumn(&model.TestSession{}, "TestResultID"); err != nil {
		return fmt.Errorf("add test_result_id column: %w", err)
	}
	return nil
}
