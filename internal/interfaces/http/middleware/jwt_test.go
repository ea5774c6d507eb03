package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/infrastructure/auth"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/infrastructure/config"
)

func newTestJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-for-jwt-middleware",
		AccessTokenExpiration: expiration,
		Issuer:                "shipment-ledger-test",
	})
}

func issueTestToken(t *testing.T, svc *auth.JWTService, tenantID, userID uuid.UUID, username string) string {
	t.Helper()
	token, err := svc.GenerateAccessToken(auth.GenerateTokenInput{
		TenantID: tenantID,
		UserID:   userID,
		Username: username,
	})
	require.NoError(t, err)
	return token.AccessToken
}

func jwtTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":   GetJWTUserID(c),
			"tenant_id": GetJWTTenantID(c),
			"username":  GetJWTUsername(c),
		})
	}
	r.GET("/api/v1/shipments", handler)
	r.GET("/health", handler)
	r.GET("/api/v1/health", handler)
	r.GET("/public/docs", handler)
	return r
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	tenantID := uuid.New()
	userID := uuid.New()
	token := issueTestToken(t, svc, tenantID, userID, "dispatcher")

	r := jwtTestRouter(JWTAuthMiddleware(svc))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shipments", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), tenantID.String())
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), "dispatcher")
}

func TestJWTAuthMiddleware_MissingHeader(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	r := jwtTestRouter(JWTAuthMiddleware(svc))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shipments", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestJWTAuthMiddleware_MalformedHeader(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	r := jwtTestRouter(JWTAuthMiddleware(svc))

	tests := []struct {
		name   string
		header string
	}{
		{"no bearer prefix", "some-raw-token"},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"empty token", "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/shipments", nil)
			req.Header.Set(AuthHeaderKey, tt.header)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
		})
	}
}

func TestJWTAuthMiddleware_InvalidToken(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	r := jwtTestRouter(JWTAuthMiddleware(svc))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shipments", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+"not.a.jwt")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_WrongSigningKey(t *testing.T) {
	issuer := newTestJWTService(time.Hour)
	token := issueTestToken(t, issuer, uuid.New(), uuid.New(), "")

	verifier := auth.NewJWTService(config.JWTConfig{
		Secret:                "a-completely-different-secret",
		AccessTokenExpiration: time.Hour,
		Issuer:                "shipment-ledger-test",
	})
	r := jwtTestRouter(JWTAuthMiddleware(verifier))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shipments", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_ExpiredToken(t *testing.T) {
	svc := newTestJWTService(-time.Minute)
	token := issueTestToken(t, svc, uuid.New(), uuid.New(), "")

	r := jwtTestRouter(JWTAuthMiddleware(svc))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shipments", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
}

func TestJWTAuthMiddleware_DefaultSkipPaths(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	r := jwtTestRouter(JWTAuthMiddleware(svc))

	for _, path := range []string{"/health", "/api/v1/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, "expected %s to bypass auth", path)
	}
}

func TestJWTAuthMiddleware_CustomSkipPathPrefix(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	cfg := DefaultJWTConfig(svc)
	cfg.SkipPathPrefixes = []string{"/public/"}
	r := jwtTestRouter(JWTAuthMiddlewareWithConfig(cfg))

	req := httptest.NewRequest(http.MethodGet, "/public/docs", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	// Non-matching paths still require a token.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/shipments", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_CustomOnError(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	cfg := DefaultJWTConfig(svc)

	var capturedErr error
	cfg.OnError = func(c *gin.Context, err error) {
		capturedErr = err
		c.AbortWithStatusJSON(http.StatusTeapot, gin.H{"custom": true})
	}

	r := jwtTestRouter(JWTAuthMiddlewareWithConfig(cfg))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shipments", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.ErrorIs(t, capturedErr, auth.ErrInvalidToken)
	assert.Contains(t, w.Body.String(), "custom")
}

func TestGetJWTClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("present", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		claims := &auth.Claims{TenantID: uuid.New().String(), UserID: uuid.New().String(), Username: "ops"}
		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTTenantIDKey, claims.TenantID)
		c.Set(JWTUsernameKey, claims.Username)

		assert.Equal(t, claims, GetJWTClaims(c))
		assert.Equal(t, claims.UserID, GetJWTUserID(c))
		assert.Equal(t, claims.TenantID, GetJWTTenantID(c))
		assert.Equal(t, "ops", GetJWTUsername(c))
	})

	t.Run("absent", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())

		assert.Nil(t, GetJWTClaims(c))
		assert.Empty(t, GetJWTUserID(c))
		assert.Empty(t, GetJWTTenantID(c))
		assert.Empty(t, GetJWTUsername(c))
	})

	t.Run("wrong type", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(JWTClaimsKey, "not-claims")
		c.Set(JWTUserIDKey, 42)

		assert.Nil(t, GetJWTClaims(c))
		assert.Empty(t, GetJWTUserID(c))
	})
}
