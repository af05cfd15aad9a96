package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/mbti-compass/config"
	"github.com/lshigami/mbti-compass/database"
	"github.com/lshigami/mbti-compass/internal/cache"
	"github.com/lshigami/mbti-compass/internal/dto"
	"github.com/lshigami/mbti-compass/internal/repository"
	"github.com/lshigami/mbti-compass/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db, err := database.NewDatabase(&config.Config{Database: config.Database{
		Driver:         config.DriverSQLite,
		SQLitePath:     filepath.Join(t.TempDir(), "admin.db"),
		ConnectRetries: 1,
	}})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	bank := service.NewQuestionBankService(repository.NewQuestionRepository(db), cache.NewMemoryQuestionCache(time.Minute))
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewAdminQuestionController(bank).RegisterRoutes(r.Group("/api/v1/admin"))
	return r
}

func do(t *testing.T, r *gin.Engine, method, path string, out any) int {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	return w.Code
}

func TestAdminReconcileAndList(t *testing.T) {
	r := newAdminRouter(t)

	var listed []dto.QuestionResponse
	require.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/v1/admin/questions", &listed))
	assert.Empty(t, listed)

	var resp dto.ReconcileResponse
	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/api/v1/admin/questions/reconcile", &resp))
	assert.True(t, resp.Changed)
	assert.Equal(t, 12, resp.QuestionCount)

	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/api/v1/admin/questions/reconcile", &resp))
	assert.False(t, resp.Changed)

	require.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/v1/admin/questions", &listed))
	assert.Len(t, listed, 12)
}
