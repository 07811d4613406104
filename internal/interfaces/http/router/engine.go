package router

import (
	"net/http"

	"github.com/bergizi/backend/internal/infrastructure/logger"
	"github.com/bergizi/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// EngineConfig holds what the global middleware stack needs
type EngineConfig struct {
	TrustedProxies []string
	// ServiceName enables otelgin tracing when set
	ServiceName string
	// Meter records HTTP metrics. Nil disables them.
	Meter       metric.Meter
	CORS        middleware.CORSConfig
	MaxBodySize int64
	// RateLimiter limits requests per client IP. Nil disables limiting.
	RateLimiter *middleware.RateLimiter
	Swagger     middleware.SwaggerConfig
	// Metrics serves /metrics. Nil leaves the endpoint out.
	Metrics http.Handler
	Logger  *zap.Logger
}

// NewEngine builds the gin engine with the global middleware stack, the
// unversioned operational endpoints and every API group.
func NewEngine(cfg EngineConfig, h Handlers, g Guards) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(cfg.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Order matters: the request ID must exist before the logger reads it
	// and recovery must wrap everything after it.
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	if cfg.ServiceName != "" {
		engine.Use(middleware.Tracing(cfg.ServiceName))
	}
	engine.Use(middleware.HTTPMetrics(cfg.Meter, log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(cfg.CORS))
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}
	if cfg.RateLimiter != nil {
		engine.Use(middleware.RateLimit(cfg.RateLimiter))
	}

	engine.GET("/health", h.System.Health)
	if cfg.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(cfg.Metrics))
	}
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	r := NewRouter(engine, WithAPIVersion("v1"))
	for _, group := range APIGroups(h, g) {
		r.Register(group)
	}
	r.Setup()

	return engine
}
