package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizutamari/gallery/middleware"
	"github.com/mizutamari/gallery/utils"
)

const testSecret = "middleware-test-secret"

func TestMain(m *testing.M) {
	os.Setenv("SESSION_SECRET", testSecret)
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newProtectedRouter() *gin.Engine {
	r := gin.New()
	ok := func(c *gin.Context) { utils.Success(c, gin.H{"status": "ok"}) }
	r.GET("/api/v1/admin/photos", middleware.AdminRequired(), ok)
	r.GET("/panel", middleware.AdminRequired(), ok)
	return r
}

func responseCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var resp utils.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Code
}

func TestAdminRequired_NoToken(t *testing.T) {
	r := newProtectedRouter()

	req := httptest.NewRequest("GET", "/api/v1/admin/photos", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 40101, responseCode(t, w))
}

func TestAdminRequired_ValidCookie(t *testing.T) {
	r := newProtectedRouter()
	token, err := utils.GenerateToken(time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/v1/admin/photos", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRequired_ValidBearer(t *testing.T) {
	r := newProtectedRouter()
	token, err := utils.GenerateToken(time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/v1/admin/photos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRequired_BlacklistedToken(t *testing.T) {
	r := newProtectedRouter()
	token, err := utils.GenerateToken(time.Hour)
	require.NoError(t, err)
	utils.BlacklistToken(token, time.Now().Add(time.Hour))

	req := httptest.NewRequest("GET", "/api/v1/admin/photos", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 40102, responseCode(t, w))
}

func TestAdminRequired_GarbageToken(t *testing.T) {
	r := newProtectedRouter()

	req := httptest.NewRequest("GET", "/api/v1/admin/photos", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 40103, responseCode(t, w))
}

func TestAdminRequired_NonAdminClaims(t *testing.T) {
	r := newProtectedRouter()

	claims := utils.Claims{
		Admin: false,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/v1/admin/photos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 40104, responseCode(t, w))
}

func TestAdminRequired_BrowserRedirectsToLogin(t *testing.T) {
	r := newProtectedRouter()

	req := httptest.NewRequest("GET", "/panel", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestAdminRequired_APIStaysJSONForBrowsers(t *testing.T) {
	r := newProtectedRouter()

	req := httptest.NewRequest("GET", "/api/v1/admin/photos", nil)
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
