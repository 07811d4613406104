package middleware

import (
	"net/http"
	"testing"

	"github.com/bergizi/backend/internal/infrastructure/auth"
	"github.com/bergizi/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func permissionRouter(claims *auth.Claims, guard gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(withClaims(claims), guard)
	router.Any("/test", okHandler)
	return router
}

func TestRequirePermission(t *testing.T) {
	tenantID := uuid.New()
	tests := []struct {
		name   string
		claims *auth.Claims
		status int
	}{
		{"exact grant", sppgClaims(tenantID, "SPPG_AHLI_GIZI", "menu:read"), http.StatusOK},
		{"resource wildcard", sppgClaims(tenantID, "SPPG_AHLI_GIZI", "menu:*"), http.StatusOK},
		{"global wildcard", platformClaims("*"), http.StatusOK},
		{"other resource", sppgClaims(tenantID, "SPPG_STAFF_DAPUR", "production:read"), http.StatusForbidden},
		{"no claims", nil, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(permissionRouter(tt.claims, RequirePermission("menu:read")), http.MethodGet, "/test", nil)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusForbidden {
				assert.Equal(t, dto.ErrCodeForbidden, errorCode(t, rec))
			}
		})
	}
}

func TestRequireAnyPermission(t *testing.T) {
	claims := sppgClaims(uuid.New(), "SPPG_DISTRIBUSI_MANAGER", "distribution:update")
	router := permissionRouter(claims, RequireAnyPermission("production:update", "distribution:update"))
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/test", nil).Code)

	router = permissionRouter(claims, RequireAnyPermission("production:update", "inventory:update"))
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodGet, "/test", nil).Code)
}

func TestRequireAnyPermissionWithConfig_LogsDenial(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	claims := sppgClaims(uuid.New(), "SPPG_VIEWER", "dashboard:read")
	router := permissionRouter(claims, RequireAnyPermissionWithConfig(PermissionConfig{Logger: zap.New(core)}, "hr:read"))

	rec := serve(router, http.MethodGet, "/test", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 1, logs.FilterMessage("Permission denied").Len())
}

func TestRequireResource_MapsMethodToAction(t *testing.T) {
	claims := sppgClaims(uuid.New(), "SPPG_STAFF_DAPUR", "inventory:read", "inventory:create")
	router := permissionRouter(claims, RequireResource("inventory"))

	tests := []struct {
		method string
		status int
	}{
		{http.MethodGet, http.StatusOK},
		{http.MethodPost, http.StatusOK},
		{http.MethodPut, http.StatusForbidden},
		{http.MethodPatch, http.StatusForbidden},
		{http.MethodDelete, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			assert.Equal(t, tt.status, serve(router, tt.method, "/test", nil).Code)
		})
	}
}

func TestRequirePlatformRole(t *testing.T) {
	assert.Equal(t, http.StatusOK,
		serve(permissionRouter(platformClaims("sppg:*"), RequirePlatformRole()), http.MethodGet, "/test", nil).Code)
	assert.Equal(t, http.StatusForbidden,
		serve(permissionRouter(sppgClaims(uuid.New(), "SPPG_KEPALA", "*"), RequirePlatformRole()), http.MethodGet, "/test", nil).Code)
	assert.Equal(t, http.StatusForbidden,
		serve(permissionRouter(nil, RequirePlatformRole()), http.MethodGet, "/test", nil).Code)
}

func TestMethodToAction(t *testing.T) {
	assert.Equal(t, "read", methodToAction(http.MethodHead))
	assert.Equal(t, "create", methodToAction(http.MethodPost))
	assert.Equal(t, "update", methodToAction(http.MethodPatch))
	assert.Equal(t, "delete", methodToAction(http.MethodDelete))
}
