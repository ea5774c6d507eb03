package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/infrastructure/logger"
)

func tenantTestRouter(cfg TenantMiddlewareConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(TenantMiddlewareWithConfig(cfg))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tenant_id": GetTenantID(c)})
	})
	return router
}

func TestTenantMiddleware_HeaderExtraction(t *testing.T) {
	validTenant := uuid.New().String()

	tests := []struct {
		name           string
		tenantID       string
		expectedStatus int
	}{
		{
			name:           "valid tenant header",
			tenantID:       validTenant,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing tenant header",
			tenantID:       "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed tenant ID",
			tenantID:       "not-a-uuid",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := tenantTestRouter(DefaultTenantConfig())

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.tenantID != "" {
				req.Header.Set(TenantHeaderKey, tt.tenantID)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Contains(t, w.Body.String(), tt.tenantID)
			}
		})
	}
}

func TestTenantMiddleware_JWTClaimExtraction(t *testing.T) {
	tenantID := uuid.New().String()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(JWTTenantIDKey, tenantID)
		c.Next()
	})
	router.Use(TenantMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tenant_id": GetTenantID(c)})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), tenantID)
}

func TestTenantMiddleware_JWTOverridesHeader(t *testing.T) {
	jwtTenantID := uuid.New().String()
	headerTenantID := uuid.New().String()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(JWTTenantIDKey, jwtTenantID)
		c.Next()
	})
	router.Use(TenantMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tenant_id": GetTenantID(c)})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(TenantHeaderKey, headerTenantID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), jwtTenantID)
	assert.NotContains(t, w.Body.String(), headerTenantID)
}

func TestTenantMiddleware_SkipPaths(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		sendTenant     bool
		expectedStatus int
	}{
		{
			name:           "health endpoint bypasses tenant resolution",
			path:           "/health",
			sendTenant:     false,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "login endpoint bypasses tenant resolution",
			path:           "/api/v1/auth/login",
			sendTenant:     false,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "ledger endpoint requires a tenant",
			path:           "/api/v1/payments",
			sendTenant:     false,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "ledger endpoint passes with a tenant",
			path:           "/api/v1/payments",
			sendTenant:     true,
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.Use(TenantMiddlewareWithConfig(DefaultTenantConfig()))
			router.GET(tt.path, func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"ok": true})
			})

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.sendTenant {
				req.Header.Set(TenantHeaderKey, uuid.New().String())
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestTenantMiddleware_OptionalTenant(t *testing.T) {
	cfg := DefaultTenantConfig()
	cfg.Required = false
	router := tenantTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTenantMiddleware_LoggerContextPropagation(t *testing.T) {
	tenantID := uuid.New().String()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(TenantMiddleware())

	var propagated string
	router.GET("/test", func(c *gin.Context) {
		propagated = logger.GetTenantID(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(TenantHeaderKey, tenantID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, tenantID, propagated)
}

func TestGetTenantUUID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns the resolved tenant", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		tenantID := uuid.New()
		c.Set(TenantIDKey, tenantID.String())

		got, ok := GetTenantUUID(c)
		assert.True(t, ok)
		assert.Equal(t, tenantID, got)
	})

	t.Run("reports when no tenant was resolved", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())

		got, ok := GetTenantUUID(c)
		assert.False(t, ok)
		assert.Equal(t, uuid.Nil, got)
	})
}

func TestDefaultTenantConfig(t *testing.T) {
	cfg := DefaultTenantConfig()

	assert.True(t, cfg.Required)
	assert.Contains(t, cfg.SkipPaths, "/health")
	assert.Contains(t, cfg.SkipPaths, "/api/v1/auth/login")
}
