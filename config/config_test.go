package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "SQLite")
	t.Setenv("DATABASE_SQLITE_PATH", "/tmp/x.db")
	t.Setenv("DATABASE_CONNECT_RETRIES", "3")
	t.Setenv("DATABASE_CONNECT_RETRY_INTERVAL", "150ms")
	t.Setenv("QUESTION_CACHE_TTL", "1m")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("REDIS_ADDR", " localhost:6379 ")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/x.db", cfg.Database.SQLitePath)
	assert.Equal(t, 3, cfg.Database.ConnectRetries)
	assert.Equal(t, 150*time.Millisecond, cfg.Database.ConnectRetryPeriod)
	assert.Equal(t, time.Minute, cfg.QuestionCache.TTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowOrigins)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestNewConfig_FallbackValues(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "postgres")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30, cfg.Database.ConnectRetries)
	assert.Equal(t, 2*time.Second, cfg.Database.ConnectRetryPeriod)
	assert.Equal(t, 30*time.Second, cfg.QuestionCache.TTL)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowOrigins)
}

func TestNewConfig_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "oracle")
	_, err := NewConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_DRIVER")
}

func TestNewConfig_RejectsZeroRetries(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_CONNECT_RETRIES", "0")
	_, err := NewConfig()
	require.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	d := Database{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", d.DSN())

	d.URL = "postgres://u:p@db/n"
	assert.Equal(t, "postgres://u:p@db/n", d.DSN())
}
