package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	dashboardapp "github.com/bergizi/backend/internal/application/dashboard"
	distributionapp "github.com/bergizi/backend/internal/application/distribution"
	feedbackapp "github.com/bergizi/backend/internal/application/feedback"
	hrapp "github.com/bergizi/backend/internal/application/hr"
	identityapp "github.com/bergizi/backend/internal/application/identity"
	inventoryapp "github.com/bergizi/backend/internal/application/inventory"
	menuapp "github.com/bergizi/backend/internal/application/menu"
	procurementapp "github.com/bergizi/backend/internal/application/procurement"
	productionapp "github.com/bergizi/backend/internal/application/production"
	sppgapp "github.com/bergizi/backend/internal/application/sppg"
	"github.com/bergizi/backend/internal/domain/hr"
	"github.com/bergizi/backend/internal/domain/menu"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/bergizi/backend/internal/infrastructure/auth"
	"github.com/bergizi/backend/internal/infrastructure/cache"
	"github.com/bergizi/backend/internal/infrastructure/config"
	"github.com/bergizi/backend/internal/infrastructure/event"
	"github.com/bergizi/backend/internal/infrastructure/logger"
	"github.com/bergizi/backend/internal/infrastructure/persistence"
	"github.com/bergizi/backend/internal/infrastructure/printing"
	"github.com/bergizi/backend/internal/infrastructure/realtime"
	"github.com/bergizi/backend/internal/infrastructure/storage"
	"github.com/bergizi/backend/internal/infrastructure/telemetry"
	"github.com/bergizi/backend/internal/interfaces/http/handler"
	"github.com/bergizi/backend/internal/interfaces/http/middleware"
	"github.com/bergizi/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	_ "github.com/bergizi/backend/docs"
)

//	@title			Bergizi-ID API
//	@version		1.0
//	@description	Backend API for SPPG kitchens of the school feeding programme: menus and nutrition, inventory, procurement, production, distribution, HR, feedback and realtime dashboards.

//	@contact.name	Bergizi-ID
//	@contact.url	https://github.com/bergizi/backend

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// OTLP log export is attached as an extra zap core, so the provider
	// has to exist before the application logger.
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	log, err := logger.New(logCfg, telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		LoggerProvider: logProvider,
		Level:          logger.ParseLevel(cfg.Log.Level),
	}))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Bergizi-ID backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracer, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter", zap.Error(err))
	}
	var meter metric.Meter
	if meterProvider.IsEnabled() {
		meter = meterProvider.Meter(cfg.Telemetry.ServiceName)
	}
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Pyroscope.Enabled,
		ServerAddress:   cfg.Pyroscope.ServerAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if cfg.Pyroscope.Enabled && cfg.Pyroscope.SpanProfiles {
		tracer.EnableSpanProfiles()
	}

	// Database with zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.DBTraceEnabled {
		var queryDuration *telemetry.Histogram
		if meter != nil {
			queryDuration, err = telemetry.NewHistogram(meter, telemetry.HistogramOpts{
				Name:        "db.query.duration",
				Description: "Database query duration",
				Unit:        "ms",
			})
			if err != nil {
				log.Warn("Failed to create query duration histogram", zap.Error(err))
			}
		}
		plugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		}, queryDuration, log)
		if err := plugin.Register(db.DB); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	clock := clockwork.NewRealClock()

	// Redis backs token revocation, idempotency keys, the tenant cache's
	// second tier and the realtime fan-out. Without it those fall back to
	// process memory and realtime stays local.
	var rdb *redis.Client
	var blacklist auth.TokenBlacklist
	var idempotencyStore shared.IdempotencyStore
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error("Error closing redis", zap.Error(err))
			}
		}()
		blacklist = auth.NewRedisTokenBlacklist(rdb, "bergizi:token:revoked:")
		idempotencyStore = cache.NewRedisIdempotencyStore(rdb, "bergizi:idempotency:")
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		idempotencyStore = cache.NewInMemoryIdempotencyStore(clock)
		log.Warn("Redis disabled, using in-memory token blacklist and idempotency store")
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Repositories
	sppgRepo := persistence.NewGormSPPGRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	menuRepo := persistence.NewGormMenuRepository(db.DB)
	planRepo := persistence.NewGormMenuPlanRepository(db.DB)
	itemRepo := persistence.NewGormInventoryItemRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	orderRepo := persistence.NewGormProcurementOrderRepository(db.DB)
	productionRepo := persistence.NewGormProductionRepository(db.DB)
	schoolRepo := persistence.NewGormSchoolRepository(db.DB)
	distributionRepo := persistence.NewGormDistributionRepository(db.DB)
	employeeRepo := persistence.NewGormEmployeeRepository(db.DB)
	attendanceRepo := persistence.NewGormAttendanceRepository(db.DB)
	feedbackRepo := persistence.NewGormFeedbackRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Object storage for delivery proofs and feedback photos
	var objectStorage distributionapp.ObjectStorage
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3ObjectStorage(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare storage bucket", zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
		}
		objectStorage = s3
	}

	// PDF documents
	var documents *printing.DocumentRenderer
	if cfg.Printing.Enabled {
		templates, err := printing.NewTemplateEngine(cfg.App.Location())
		if err != nil {
			log.Fatal("Failed to load print templates", zap.Error(err))
		}
		pdf := printing.NewChromedpRenderer(printing.ChromedpConfig{
			ExecPath:       cfg.Printing.ChromePath,
			DefaultTimeout: cfg.Printing.Timeout,
			NoSandbox:      true,
			Logger:         log,
		})
		defer func() {
			if err := pdf.Close(); err != nil {
				log.Error("Error closing PDF renderer", zap.Error(err))
			}
		}()
		documents = printing.NewDocumentRenderer(templates, pdf, log)
	}
	var deliveryNotes distributionapp.DeliveryNotePrinter
	if documents != nil {
		deliveryNotes = documents
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, sppgRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, blacklist, cfg.JWT.AccessTokenExpiration, log)
	sppgService := sppgapp.NewSPPGService(sppgRepo, userRepo, log)
	menuService := menuapp.NewMenuService(menuRepo, planRepo, itemRepo, menu.NewNutritionCalculator())
	if documents != nil {
		menuService.SetPrinter(documents)
	}
	inventoryService := inventoryapp.NewInventoryService(itemRepo, movementRepo, txScope)
	supplierService := procurementapp.NewSupplierService(supplierRepo, orderRepo)
	orderService := procurementapp.NewOrderService(orderRepo, supplierRepo, itemRepo, txScope)
	productionService := productionapp.NewProductionService(productionRepo, menuRepo, planRepo, txScope)
	schoolService := distributionapp.NewSchoolService(schoolRepo, distributionRepo)
	distributionService := distributionapp.NewDistributionService(
		distributionRepo, schoolRepo, productionRepo, menuRepo, sppgRepo,
		objectStorage, deliveryNotes, log,
	)
	feedbackService := feedbackapp.NewFeedbackService(feedbackRepo, schoolRepo, objectStorage, log)
	employeeService := hrapp.NewEmployeeService(employeeRepo)
	attendanceService := hrapp.NewAttendanceService(employeeRepo, attendanceRepo, hr.Shift{
		Start:    cfg.Attendance.ShiftOffset(),
		Grace:    cfg.Attendance.GracePeriod,
		Location: cfg.App.Location(),
	})

	// Realtime fan-out. The hub always serves this instance's clients; the
	// bridge feeds it from Redis when realtime is enabled.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	realtimeMetrics := realtime.NewMetrics(registry)
	channels := realtime.Channels{Prefix: cfg.Realtime.ChannelPrefix}
	hub := realtime.NewHub(realtime.HubConfig{
		MaxClients:        cfg.Realtime.MaxClients,
		HeartbeatInterval: cfg.Realtime.HeartbeatInterval,
	}, clock, realtimeMetrics, log)
	go hub.Run(ctx)

	var publisher *realtime.Publisher
	var bridgeStatus handler.BridgeStatus
	if cfg.Realtime.Enabled {
		publisher = realtime.NewPublisher(rdb, cfg.Realtime.HistorySize, cfg.Realtime.HistoryTTL)
		bridge := realtime.NewBridge(rdb, hub, realtime.BridgeConfig{
			Patterns:       cfg.Realtime.Patterns,
			InitialBackoff: cfg.Realtime.InitialBackoff,
			MaxBackoff:     cfg.Realtime.MaxBackoff,
		}, clock, realtimeMetrics, log)
		go bridge.Run(ctx)
		bridgeStatus = bridge
	}
	var history dashboardapp.EventHistory
	var replay handler.ReplaySource
	if publisher != nil {
		history = publisher
		replay = publisher
	}
	dashboardService := dashboardapp.NewService(dashboardapp.Repositories{
		Plans:         planRepo,
		Productions:   productionRepo,
		Distributions: distributionRepo,
		Items:         itemRepo,
		Attendance:    attendanceRepo,
		Feedback:      feedbackRepo,
		SPPG:          sppgRepo,
		Users:         userRepo,
	}, history, hub, channels, cfg.App.Location(), log)

	// Domain events
	var tenantCacheClient redis.Cmdable
	if rdb != nil {
		tenantCacheClient = rdb
	}
	tenantCache := cache.NewTenantCache(sppgRepo, tenantCacheClient, cache.DefaultTenantCacheConfig(), clock, log)

	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(tenantCache)
	if publisher != nil {
		eventBus.Subscribe(dashboardapp.NewRealtimeHandler(publisher, channels, log))
	}
	if meter != nil {
		businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{Meter: meter, Logger: log})
		if err != nil {
			log.Warn("Failed to create business metrics", zap.Error(err))
		} else {
			eventBus.Subscribe(businessMetrics)
		}
	}
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	userService.SetEventPublisher(eventBus)
	sppgService.SetEventPublisher(eventBus)
	inventoryService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)
	productionService.SetEventPublisher(eventBus)
	distributionService.SetEventPublisher(eventBus)
	feedbackService.SetEventPublisher(eventBus)

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log

	var rateLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow, clock)
		go rateLimiter.Run(ctx)
	}

	cors := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	var serviceName string
	if tracer.IsEnabled() {
		serviceName = cfg.Telemetry.ServiceName
	}

	engine := router.NewEngine(router.EngineConfig{
		TrustedProxies: cfg.HTTP.TrustedProxies,
		ServiceName:    serviceName,
		Meter:          meter,
		CORS:           cors,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		RateLimiter:    rateLimiter,
		Swagger: middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		},
		Metrics: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Logger:  log,
	}, router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		User:         handler.NewUserHandler(userService),
		SPPG:         handler.NewSPPGHandler(sppgService),
		Menu:         handler.NewMenuHandler(menuService),
		Inventory:    handler.NewInventoryHandler(inventoryService),
		Procurement:  handler.NewProcurementHandler(supplierService, orderService),
		Production:   handler.NewProductionHandler(productionService),
		Distribution: handler.NewDistributionHandler(schoolService, distributionService, cfg.Storage.MaxUploadSize),
		HR:           handler.NewHRHandler(employeeService, attendanceService),
		Feedback:     handler.NewFeedbackHandler(feedbackService, cfg.Storage.MaxUploadSize),
		Dashboard:    handler.NewDashboardHandler(dashboardService),
		Realtime: handler.NewRealtimeHandler(hub, replay, channels, handler.RealtimeConfig{
			ClientBuffer:   cfg.Realtime.ClientBuffer,
			MaxReplay:      cfg.Realtime.MaxReplay,
			PongWait:       2 * cfg.Realtime.HeartbeatInterval,
			AllowedOrigins: cfg.HTTP.CORSAllowOrigins,
		}, clock, log),
		System: handler.NewSystemHandler(db, bridgeStatus, version, clock),
	}, router.Guards{
		Auth: middleware.JWTAuthMiddlewareWithConfig(jwtConfig),
		Tenant: middleware.TenantMiddlewareWithConfig(middleware.TenantMiddlewareConfig{
			HeaderEnabled:    true,
			SubdomainEnabled: cfg.HTTP.TenantBaseDomain != "",
			BaseDomain:       cfg.HTTP.TenantBaseDomain,
			Required:         true,
			Resolver:         router.NewTenantResolver(tenantCache),
			Logger:           log,
		}),
		Idempotency: middleware.Idempotency(idempotencyStore, shared.DefaultIdempotencyConfig().TTL),
		Profiling:   cfg.Pyroscope.Enabled,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	stop()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracer.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down log provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
