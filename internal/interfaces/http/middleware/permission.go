package middleware

import (
	"net/http"

	"github.com/bergizi/backend/internal/domain/identity"
	"github.com/bergizi/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PermissionConfig holds configuration for permission middleware
type PermissionConfig struct {
	Logger *zap.Logger
}

// RequirePermission creates middleware that requires a specific permission
func RequirePermission(permission string) gin.HandlerFunc {
	return RequireAnyPermission(permission)
}

// RequireAnyPermission creates middleware that requires any of the specified permissions
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return RequireAnyPermissionWithConfig(PermissionConfig{}, permissions...)
}

// RequireAnyPermissionWithConfig creates middleware that requires any of the specified permissions with custom config
func RequireAnyPermissionWithConfig(cfg PermissionConfig, permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handlePermissionDenied(c, cfg, permissions, "No authentication claims found")
			return
		}

		if !claims.HasAnyPermission(permissions...) {
			handlePermissionDenied(c, cfg, permissions, "User lacks required permission")
			return
		}

		c.Next()
	}
}

// RequireResource checks permission for a resource with the action derived
// from the HTTP method: GET is read, POST create, PUT/PATCH update and
// DELETE delete.
func RequireResource(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		permission := string(identity.NewPermission(resource, methodToAction(c.Request.Method)))
		claims := GetJWTClaims(c)
		if claims == nil || !claims.HasPermission(permission) {
			handlePermissionDenied(c, PermissionConfig{}, []string{permission}, "User lacks required permission for resource")
			return
		}
		c.Next()
	}
}

// RequirePlatformRole restricts a route to platform console users
func RequirePlatformRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil || !claims.IsPlatform() {
			abortWithError(c, dto.ErrCodeForbidden, "Platform role required")
			return
		}
		c.Next()
	}
}

func methodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return identity.ActionRead
	case http.MethodPost:
		return identity.ActionCreate
	case http.MethodPut, http.MethodPatch:
		return identity.ActionUpdate
	case http.MethodDelete:
		return identity.ActionDelete
	default:
		return identity.ActionRead
	}
}

func handlePermissionDenied(c *gin.Context, cfg PermissionConfig, required []string, reason string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("Permission denied",
			zap.String("user_id", GetJWTUserID(c)),
			zap.Strings("required", required),
			zap.String("reason", reason),
			zap.String("path", c.Request.URL.Path),
		)
	}
	abortWithError(c, dto.ErrCodeForbidden, "You do not have permission to perform this action")
}
