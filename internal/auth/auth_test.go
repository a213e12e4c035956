package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/journal-content-api/internal/config"
	"github.com/journal-content-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = strings.Repeat("k", 32)

func newTestManager() *TokenManager {
	return NewTokenManager(&config.AuthConfig{
		JWTSecret: testSecret,
		Issuer:    "journal-content-api",
		TokenTTL:  time.Hour,
	})
}

var editor = &models.User{ID: "u-1", Email: "editor@journal.test", Role: models.RoleEditor}

func TestTokenManager_IssueAndParse(t *testing.T) {
	m := newTestManager()

	token, expiresAt, err := m.Issue(editor)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "editor@journal.test", claims.Email)
	assert.Equal(t, models.RoleEditor, claims.Role)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	m := newTestManager()
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := m.Issue(editor)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsWrongSecretAndIssuer(t *testing.T) {
	m := newTestManager()
	token, _, err := m.Issue(editor)
	require.NoError(t, err)

	other := NewTokenManager(&config.AuthConfig{JWTSecret: strings.Repeat("x", 32), Issuer: "journal-content-api", TokenTTL: time.Hour})
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign := NewTokenManager(&config.AuthConfig{JWTSecret: testSecret, Issuer: "someone-else", TokenTTL: time.Hour})
	_, err = foreign.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsNoneAlgorithm(t *testing.T) {
	m := newTestManager()

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		Role: models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "journal-content-api",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.NoError(t, CheckPassword(hash, "correct horse battery staple"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), ErrPasswordMismatch)
}

func setupRouter(m *TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	admin := r.Group("/admin", Middleware(m))
	admin.GET("/me", func(c *gin.Context) {
		claims, _ := GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"email": claims.Email})
	})
	admin.DELETE("/danger", RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestMiddleware(t *testing.T) {
	m := newTestManager()
	router := setupRouter(m)
	token, _, err := m.Issue(editor)
	require.NoError(t, err)

	tests := []struct {
		name       string
		method     string
		path       string
		header     string
		wantStatus int
	}{
		{"no header", http.MethodGet, "/admin/me", "", http.StatusUnauthorized},
		{"wrong scheme", http.MethodGet, "/admin/me", "Basic abc", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/admin/me", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid token", http.MethodGet, "/admin/me", "Bearer " + token, http.StatusOK},
		{"editor cannot use admin route", http.MethodDelete, "/admin/danger", "Bearer " + token, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestRequireRole_Admin(t *testing.T) {
	m := newTestManager()
	router := setupRouter(m)
	token, _, err := m.Issue(&models.User{ID: "u-2", Email: "admin@journal.test", Role: models.RoleAdmin})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/admin/danger", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
