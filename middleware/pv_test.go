package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mizutamari/gallery/middleware"
	"github.com/mizutamari/gallery/models"
)

func newPVRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.PageView{}))

	r := gin.New()
	r.Use(middleware.PageViewRecorder(db))
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	r.GET("/wall", ok)
	r.GET("/health", ok)
	r.GET("/api/v1/photos", ok)
	r.POST("/wall", ok)
	return r, db
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPageViewRecorder_AccumulatesPerPath(t *testing.T) {
	r, db := newPVRouter(t)

	get(r, "/wall")
	get(r, "/wall")

	var rows []models.PageView
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "/wall", rows[0].Path)
	assert.Equal(t, int64(2), rows[0].Count)
}

func TestPageViewRecorder_SkipsNonContentPaths(t *testing.T) {
	r, db := newPVRouter(t)

	get(r, "/health")
	get(r, "/api/v1/photos")
	get(r, "/favicon.ico")
	get(r, "/no-such-route")

	var count int64
	require.NoError(t, db.Model(&models.PageView{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestPageViewRecorder_SkipsNonGET(t *testing.T) {
	r, db := newPVRouter(t)

	req := httptest.NewRequest("POST", "/wall", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.PageView{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
