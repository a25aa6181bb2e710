package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/orionsociety/astroclub-backend/config"
	utils "github.com/orionsociety/astroclub-backend/utils"
)

func testRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id"), "role": c.GetString("role")})
	})
	r.GET("/admin", AuthMiddleware(cfg), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/open", OptionalAuth(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})
	return r
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	r := testRouter(&config.Config{JWTSecret: "s3cret"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s3cret"}
	r := testRouter(cfg)

	token, err := utils.GenerateAccessToken(cfg.JWTSecret, "507f1f77bcf86cd799439011", "member")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "507f1f77bcf86cd799439011")
	assert.Contains(t, w.Body.String(), "member")
}

func TestAuthMiddlewareRejectsRefreshToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s3cret", RefreshSecret: "s3cret"}
	r := testRouter(cfg)

	token, err := utils.GenerateRefreshToken(cfg.RefreshSecret, "507f1f77bcf86cd799439011", "member")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s3cret"}
	r := testRouter(cfg)

	memberToken, err := utils.GenerateAccessToken(cfg.JWTSecret, "507f1f77bcf86cd799439011", "member")
	require.NoError(t, err)
	adminToken, err := utils.GenerateAccessToken(cfg.JWTSecret, "507f1f77bcf86cd799439012", "admin")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+memberToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuthAnonymous(t *testing.T) {
	r := testRouter(&config.Config{JWTSecret: "s3cret"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":""`)
}

func TestOptionalAuthIgnoresBadToken(t *testing.T) {
	r := testRouter(&config.Config{JWTSecret: "s3cret"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
