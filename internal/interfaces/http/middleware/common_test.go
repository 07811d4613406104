package middleware

import (
	"net/http"
	"strings"
	"testing"

	"github.com/bergizi/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCORSWithConfig(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"https://dashboard.bergizi.id"}
	router := gin.New()
	router.Use(CORSWithConfig(cfg))
	router.GET("/test", okHandler)

	t.Run("allowed origin", func(t *testing.T) {
		rec := serve(router, http.MethodGet, "/test", map[string]string{"Origin": "https://dashboard.bergizi.id"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://dashboard.bergizi.id", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Last-Event-ID")
		assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
		assert.Equal(t, "43200", rec.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("unknown origin gets no headers", func(t *testing.T) {
		rec := serve(router, http.MethodGet, "/test", map[string]string{"Origin": "https://evil.example"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight returns 204", func(t *testing.T) {
		rec := serve(router, http.MethodOptions, "/test", map[string]string{"Origin": "https://dashboard.bergizi.id"})
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestCORSWithConfig_Wildcard(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"*"}
	router := gin.New()
	router.Use(CORSWithConfig(cfg))
	router.GET("/test", okHandler)

	rec := serve(router, http.MethodGet, "/test", map[string]string{"Origin": "https://any.example"})
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, logger.GetRequestID(c.Request.Context())+"|"+c.GetString(RequestIDKey))
	})

	t.Run("generates an ID", func(t *testing.T) {
		rec := serve(router, http.MethodGet, "/test", nil)
		id := rec.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id+"|"+id, rec.Body.String())
	})

	t.Run("keeps the caller's ID", func(t *testing.T) {
		rec := serve(router, http.MethodGet, "/test", map[string]string{RequestIDHeader: "trace-abc"})
		assert.Equal(t, "trace-abc", rec.Header().Get(RequestIDHeader))
	})

	t.Run("replaces an oversized ID", func(t *testing.T) {
		rec := serve(router, http.MethodGet, "/test", map[string]string{RequestIDHeader: strings.Repeat("a", 200)})
		assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
	})
}

func TestSecureWithConfig(t *testing.T) {
	cfg := DefaultSecurityConfig()
	cfg.HSTSEnabled = true
	router := gin.New()
	router.Use(SecureWithConfig(cfg))
	router.GET("/test", okHandler)
	router.GET("/swagger/index.html", okHandler)

	rec := serve(router, http.MethodGet, "/test", nil)
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, cfg.CSPDirective, rec.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "max-age=31536000; includeSubDomains", rec.Header().Get("Strict-Transport-Security"))

	rec = serve(router, http.MethodGet, "/swagger/index.html", nil)
	assert.Empty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestSecure_DefaultsWithoutHSTS(t *testing.T) {
	router := gin.New()
	router.Use(Secure())
	router.GET("/test", okHandler)

	rec := serve(router, http.MethodGet, "/test", nil)
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}
