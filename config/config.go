package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server        Server
	Database      Database
	Redis         Redis
	LogLevel      string
	QuestionCache QuestionCache
}

type Server struct {
	Port         string
	GinMode      string
	AllowOrigins []string
}

type Database struct {
	Driver             string
	URL                string
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SQLitePath         string
	ConnectRetries     int
	ConnectRetryPeriod time.Duration
}

type Redis struct {
	Addr     string
	Password string
}

type QuestionCache struct {
	TTL time.Duration
}

// DSN builds the postgres connection string. DATABASE_URL wins over the individual parts.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port)
}

func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = v.GetString("SERVER_PORT")
	config.Server.GinMode = v.GetString("GIN_MODE")
	config.Server.AllowOrigins = splitCSV(v.GetString("CORS_ALLOW_ORIGINS"))
	config.LogLevel = v.GetString("LOG_LEVEL")

	config.Database.Driver = strings.ToLower(strings.TrimSpace(v.GetString("DATABASE_DRIVER")))
	config.Database.URL = v.GetString("DATABASE_URL")
	config.Database.Host = v.GetString("DATABASE_HOST")
	config.Database.Port = v.GetString("DATABASE_PORT")
	config.Database.User = v.GetString("DATABASE_USER")
	config.Database.Password = v.GetString("DATABASE_PASSWORD")
	config.Database.Name = v.GetString("DATABASE_NAME")
	config.Database.SQLitePath = v.GetString("DATABASE_SQLITE_PATH")
	config.Database.ConnectRetries = v.GetInt("DATABASE_CONNECT_RETRIES")
	config.Database.ConnectRetryPeriod = v.GetDuration("DATABASE_CONNECT_RETRY_INTERVAL")

	config.Redis.Addr = strings.TrimSpace(v.GetString("REDIS_ADDR"))
	config.Redis.Password = v.GetString("REDIS_PASSWORD")

	config.QuestionCache.TTL = v.GetDuration("QUESTION_CACHE_TTL")

	if err := validate(config); err != nil {
		return nil, err
	}

	log.Info().
		Str("port", config.Server.Port).
		Str("db_driver", config.Database.Driver).
		Bool("redis", config.Redis.Addr != "").
		Dur("question_cache_ttl", config.QuestionCache.TTL).
		Msg("Config loaded")
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("DATABASE_DRIVER", DriverPostgres)
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_USER", "mbti_user")
	v.SetDefault("DATABASE_NAME", "mbti_db")
	v.SetDefault("DATABASE_SQLITE_PATH", "mbti.db")
	v.SetDefault("DATABASE_CONNECT_RETRIES", 30)
	v.SetDefault("DATABASE_CONNECT_RETRY_INTERVAL", "2s")
	v.SetDefault("QUESTION_CACHE_TTL", "30s")
}

func validate(c Config) error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("config: unsupported DATABASE_DRIVER %q (want %s or %s)", c.Database.Driver, DriverPostgres, DriverSQLite)
	}
	if c.Server.Port == "" {
		return fmt.Errorf("config: SERVER_PORT is required")
	}
	if c.Database.ConnectRetries < 1 {
		return fmt.Errorf("config: DATABASE_CONNECT_RETRIES must be >= 1")
	}
	if c.Database.ConnectRetryPeriod < 0 {
		return fmt.Errorf("config: DATABASE_CONNECT_RETRY_INTERVAL must be >= 0")
	}
	if c.QuestionCache.TTL < 0 {
		return fmt.Errorf("config: QUESTION_CACHE_TTL must be >= 0")
	}
	return nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
