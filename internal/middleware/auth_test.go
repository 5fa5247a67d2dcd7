package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/categorization_engine/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims middleware.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", middleware.AuthMiddleware(testSecret, "test-issuer"), func(c *gin.Context) {
		org, ok := middleware.GetOrgContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"org": org.OrgID, "user": org.UserID})
	})
	return r
}

func TestAuthMiddlewareSetsOrgContext(t *testing.T) {
	router := newAuthRouter()
	token := signToken(t, middleware.Claims{
		OrgID: "org-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    "test-issuer",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"org":"org-1","user":"user-1"}`, w.Body.String())
}

func TestAuthMiddlewareRejects(t *testing.T) {
	router := newAuthRouter()

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "garbage token", header: "Bearer not-a-jwt"},
		{name: "missing org claim", header: "Bearer " + signToken(t, middleware.Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", Issuer: "test-issuer"},
		})},
		{name: "expired", header: "Bearer " + signToken(t, middleware.Claims{
			OrgID: "org-1",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-1",
				Issuer:    "test-issuer",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		})},
		{name: "wrong issuer", header: "Bearer " + signToken(t, middleware.Claims{
			OrgID:            "org-1",
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", Issuer: "someone-else"},
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
