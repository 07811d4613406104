package middleware

import (
	"context"
	"strings"

	"github.com/bergizi/backend/internal/infrastructure/logger"
	"github.com/bergizi/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Tenant context keys
const (
	TenantIDKey     = "tenant_id"
	TenantCodeKey   = "tenant_code"
	TenantHeaderKey = "X-Tenant-ID"
)

// TenantInfo holds the resolved SPPG
type TenantInfo struct {
	ID     uuid.UUID `json:"id"`
	Code   string    `json:"code"`
	Active bool      `json:"active"`
}

// TenantResolver looks SPPGs up by ID or by code
type TenantResolver interface {
	ResolveByID(ctx context.Context, id uuid.UUID) (*TenantInfo, error)
	ResolveByCode(ctx context.Context, code string) (*TenantInfo, error)
}

// TenantMiddlewareConfig holds configuration for tenant middleware
type TenantMiddlewareConfig struct {
	// HeaderEnabled lets platform users pick an SPPG with X-Tenant-ID
	HeaderEnabled bool
	// SubdomainEnabled lets platform users pick an SPPG by subdomain code
	SubdomainEnabled bool
	// BaseDomain is the base domain for subdomain extraction (e.g. "bergizi.id")
	BaseDomain string
	// Required determines if tenant context is mandatory
	Required bool
	// Resolver checks the selected SPPG exists and is active. Required for
	// subdomain extraction.
	Resolver TenantResolver
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultTenantConfig returns default tenant middleware configuration
func DefaultTenantConfig() TenantMiddlewareConfig {
	return TenantMiddlewareConfig{
		HeaderEnabled: true,
		Required:      true,
	}
}

// TenantMiddleware resolves the SPPG a request works on
func TenantMiddleware() gin.HandlerFunc {
	return TenantMiddlewareWithConfig(DefaultTenantConfig())
}

// TenantMiddlewareWithConfig returns tenant middleware with custom configuration.
// SPPG users are bound to the tenant in their token and may not select
// another one. Platform users select an SPPG with the X-Tenant-ID header
// or, when enabled, by subdomain.
func TenantMiddlewareWithConfig(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		claims := GetJWTClaims(c)
		header := c.GetHeader(TenantHeaderKey)

		var tenantID uuid.UUID
		var info *TenantInfo
		method := ""

		switch {
		case claims != nil && !claims.IsPlatform():
			id, err := uuid.Parse(claims.TenantID)
			if err != nil || id == uuid.Nil {
				abortWithError(c, dto.ErrCodeUnauthorized, "Token carries no SPPG")
				return
			}
			if header != "" && !strings.EqualFold(header, claims.TenantID) {
				abortWithError(c, dto.ErrCodeForbidden, "Cannot access another SPPG")
				return
			}
			tenantID, method = id, "jwt"

		case cfg.HeaderEnabled && header != "":
			id, err := uuid.Parse(header)
			if err != nil || id == uuid.Nil {
				abortWithError(c, dto.ErrCodeBadRequest, "Invalid tenant ID format")
				return
			}
			tenantID, method = id, "header"
			if cfg.Resolver != nil {
				resolved, err := cfg.Resolver.ResolveByID(ctx, id)
				if !checkResolved(c, cfg, resolved, err, header) {
					return
				}
				info = resolved
			}

		case cfg.SubdomainEnabled && cfg.BaseDomain != "" && cfg.Resolver != nil:
			code := extractTenantFromSubdomain(c.Request.Host, cfg.BaseDomain)
			if code == "" {
				break
			}
			resolved, err := cfg.Resolver.ResolveByCode(ctx, strings.ToUpper(code))
			if !checkResolved(c, cfg, resolved, err, code) {
				return
			}
			info, tenantID, method = resolved, resolved.ID, "subdomain"
		}

		if tenantID == uuid.Nil {
			if cfg.Required {
				abortWithError(c, dto.ErrCodeTenantRequired, "SPPG context required")
				return
			}
			c.Next()
			return
		}

		c.Set(TenantIDKey, tenantID.String())
		if info != nil {
			c.Set(TenantCodeKey, info.Code)
		}

		log := logger.FromContext(ctx)
		ctx, _ = logger.WithTenantID(ctx, log, tenantID.String())
		c.Request = c.Request.WithContext(ctx)

		if cfg.Logger != nil {
			cfg.Logger.Debug("Tenant identified",
				zap.String("tenant_id", tenantID.String()),
				zap.String("method", method),
			)
		}

		c.Next()
	}
}

func checkResolved(c *gin.Context, cfg TenantMiddlewareConfig, info *TenantInfo, err error, ref string) bool {
	if err != nil || info == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("Tenant resolution failed", zap.String("tenant", ref), zap.Error(err))
		}
		abortWithError(c, dto.ErrCodeNotFound, "SPPG not found")
		return false
	}
	if !info.Active {
		abortWithError(c, dto.ErrCodeForbidden, "SPPG is not active")
		return false
	}
	return true
}

// extractTenantFromSubdomain extracts the SPPG code from the subdomain
// e.g. "sppg-bdg01.bergizi.id" with baseDomain "bergizi.id" returns "sppg-bdg01"
func extractTenantFromSubdomain(host, baseDomain string) string {
	if idx := strings.Index(host, ":"); idx != -1 {
		host = host[:idx]
	}
	if !strings.HasSuffix(host, "."+baseDomain) {
		return ""
	}
	subdomain := strings.TrimSuffix(host, "."+baseDomain)
	if subdomain == "" || subdomain == "www" || subdomain == "api" {
		return ""
	}
	parts := strings.Split(subdomain, ".")
	return parts[0]
}

// GetTenantID retrieves the tenant ID from gin.Context
func GetTenantID(c *gin.Context) string {
	return c.GetString(TenantIDKey)
}

// GetTenantUUID retrieves the tenant ID as UUID from gin.Context
func GetTenantUUID(c *gin.Context) (uuid.UUID, error) {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(tenantID)
}

// GetTenantCode retrieves the tenant code from gin.Context
func GetTenantCode(c *gin.Context) string {
	return c.GetString(TenantCodeKey)
}
