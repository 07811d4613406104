package middleware

import (
	"net/http/httptest"

	"github.com/bergizi/backend/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// withClaims installs claims the way JWTAuthMiddleware does
func withClaims(claims *auth.Claims) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims != nil {
			setClaims(c, claims)
		}
		c.Next()
	}
}

func sppgClaims(tenantID uuid.UUID, role string, perms ...string) *auth.Claims {
	return &auth.Claims{
		TenantID:    tenantID.String(),
		UserID:      uuid.NewString(),
		Username:    "staf",
		Role:        role,
		Permissions: perms,
		TokenType:   auth.TokenTypeAccess,
	}
}

func platformClaims(perms ...string) *auth.Claims {
	return &auth.Claims{
		TenantID:    uuid.Nil.String(),
		UserID:      uuid.NewString(),
		Username:    "superadmin",
		Role:        "PLATFORM_SUPERADMIN",
		Permissions: perms,
		TokenType:   auth.TokenTypeAccess,
	}
}

func serve(router *gin.Engine, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		if k == "Host" {
			req.Host = v
			continue
		}
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

