package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, role string, expiresAt time.Time) string {
	t.Helper()

	claims := JWTClaims{
		UserID:   "8d5c1b7e-0000-4000-8000-000000000001",
		Email:    "manager@furniadmin.local",
		RoleName: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func setupAuthRouter() *gin.Engine {
	m := NewAuthMiddleware(testSecret)

	router := gin.New()
	router.GET("/protected", m.Authenticate(), m.RequireRole("admin", "manager"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("user_id"),
			"role":    c.GetString("role_name"),
		})
	})
	return router
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	hour := time.Now().Add(time.Hour)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", "admin", hour), http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, testSecret, "admin", time.Now().Add(-time.Hour)), http.StatusUnauthorized},
		{"admin", "Bearer " + signToken(t, testSecret, "admin", hour), http.StatusOK},
		{"manager", "Bearer " + signToken(t, testSecret, "manager", hour), http.StatusOK},
		{"customer", "Bearer " + signToken(t, testSecret, "customer", hour), http.StatusForbidden},
		{"no role", "Bearer " + signToken(t, testSecret, "", hour), http.StatusUnauthorized},
	}

	router := setupAuthRouter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAuthMiddleware_SetsClaimsInContext(t *testing.T) {
	router := setupAuthRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "manager", time.Now().Add(time.Hour)))

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"manager"`)
	assert.Contains(t, w.Body.String(), "8d5c1b7e-0000-4000-8000-000000000001")
}

func TestAuthMiddleware_RejectsOtherSigningMethod(t *testing.T) {
	router := setupAuthRouter()

	claims := JWTClaims{
		RoleName: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
