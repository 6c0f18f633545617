package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/retaildash/backend/internal/application/admin"
	catalogapp "github.com/retaildash/backend/internal/application/catalog"
	"github.com/retaildash/backend/internal/application/identity"
	partnerapp "github.com/retaildash/backend/internal/application/partner"
	"github.com/retaildash/backend/internal/application/saga"
	tradeapp "github.com/retaildash/backend/internal/application/trade"
	"github.com/retaildash/backend/internal/domain/catalog"
	"github.com/retaildash/backend/internal/domain/shared"
	"github.com/retaildash/backend/internal/infrastructure/auth"
	"github.com/retaildash/backend/internal/infrastructure/cache"
	"github.com/retaildash/backend/internal/infrastructure/config"
	"github.com/retaildash/backend/internal/infrastructure/logger"
	"github.com/retaildash/backend/internal/infrastructure/persistence"
	"github.com/retaildash/backend/internal/infrastructure/storage"
	"github.com/retaildash/backend/internal/infrastructure/telemetry"
	"github.com/retaildash/backend/internal/interfaces/http/handler"
	"github.com/retaildash/backend/internal/interfaces/http/middleware"
	"github.com/retaildash/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "1.0.0"

//	@title			Retail Admin API
//	@version		1.0
//	@description	Back office API for customers, employees, products and orders

//	@contact.name	API Support

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	SessionCookie
//	@in							cookie
//	@name						retail_client
//	@description				Signed client cookie unlocked by the shared password

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx := context.Background()

	// Telemetry: traces, metrics and log export are each optional
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(cfg.Telemetry.Profiler, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && cfg.Telemetry.Profiler.SpanProfiles {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = loggerProvider.Bridge(log, zapcore.WarnLevel)
	zap.ReplaceGlobals(log)

	log.Info("Starting retail admin backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), 200*time.Millisecond)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL: cfg.Telemetry.DBLogFullSQL,
		DBName:     cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	registry := telemetry.NewRegistry()
	if sqlDB, err := db.DB.DB(); err == nil {
		if err := registry.RegisterDB(sqlDB, cfg.Database.DBName); err != nil {
			log.Warn("Failed to export connection pool metrics", zap.Error(err))
		}
	}

	// Sessions, idempotency keys and the product cache live in Redis when it is enabled
	backends, err := cache.NewBackends(ctx, cfg.Redis, cfg.Session, cache.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize cache backends", zap.Error(err))
	}
	defer func() {
		if err := backends.Close(); err != nil {
			log.Error("Error closing cache backends", zap.Error(err))
		}
	}()

	// Repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	employeeRepo := persistence.NewGormEmployeeRepository(db.DB)
	productStore := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	stockGateway := persistence.NewGormStockGateway(db.DB)

	var (
		productRepo  catalog.ProductRepository = productStore
		productCache *cache.CachedProductRepository
	)
	if backends.Redis != nil {
		productCache = cache.NewCachedProductRepository(productStore, backends.Redis, cfg.Redis.Prefix, cfg.Cache.ProductTTL, log)
		productRepo = productCache
	}

	// Business metrics
	orderMetrics, err := telemetry.NewOrderMetrics(meterProvider.Meter("retail/orders"))
	if err != nil {
		log.Fatal("Failed to create order metrics", zap.Error(err))
	}

	runner := saga.NewRunner(log,
		saga.WithTransactor(persistence.NewGormTransactor(db.DB)),
		saga.WithMetrics(orderMetrics),
	)

	// Application services
	customerService := partnerapp.NewCustomerService(customerRepo, log)
	employeeService := partnerapp.NewEmployeeService(employeeRepo, log)
	if cfg.Storage.Enabled {
		var objectStorage partnerapp.ObjectStorage
		if cfg.Storage.Driver == "stub" {
			log.Warn("Using stub object storage, profile images are not persisted")
			objectStorage = storage.NewStubObjectStorage()
		} else {
			s3Storage, err := storage.NewS3ObjectStorage(ctx, &cfg.Storage, storage.WithLogger(log))
			if err != nil {
				log.Fatal("Failed to initialize object storage", zap.Error(err))
			}
			if cfg.Storage.CreateBucket {
				if err := s3Storage.EnsureBucket(ctx); err != nil {
					log.Fatal("Failed to create storage bucket", zap.Error(err))
				}
			}
			objectStorage = s3Storage
		}
		imageCfg := partnerapp.DefaultProfileImageConfig()
		imageCfg.UploadURLExpiry = cfg.Storage.PresignExpiry
		employeeService.SetStorage(objectStorage, imageCfg)
	}

	productService := catalogapp.NewProductService(productStore, runner, log)

	// Stock checks read the store directly; the cache is only invalidated
	orderService := tradeapp.NewOrderService(orderRepo, customerRepo, employeeRepo, productStore, stockGateway, runner, log)
	orderService.SetIdempotencyStore(backends.Idempotency, shared.IdempotencyConfig{
		Enabled: cfg.Idempotency.Enabled,
		TTL:     cfg.Idempotency.TTL,
	})
	orderService.SetMetrics(orderMetrics)

	purgeService := admin.NewPurgeService(persistence.NewGormPurger(db.DB), cfg.HTTP.AdminConfirmationValue, log)
	dashboardService := admin.NewDashboardService(customerRepo, employeeRepo, productRepo, orderRepo)
	if productCache != nil {
		productService.SetCache(productCache)
		orderService.SetProductCache(productCache)
		purgeService.AddCache(productCache)
	}

	verifier, err := auth.NewPasswordVerifier(cfg.Session)
	if err != nil {
		log.Fatal("Failed to initialize password verifier", zap.Error(err))
	}
	sessionService := identity.NewSessionService(backends.Sessions, verifier, identity.PolicyFromConfig(cfg.Session), log)
	clientTokens := auth.NewClientTokenService(cfg.Session)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}
	middleware.SetupValidator()

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	corsConfig.AllowCredentials = true

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tracerProvider.IsEnabled(),
		}),
		logger.GinMiddleware(log),
		middleware.SpanErrorMarker(),
		middleware.Profiling(middleware.ProfilingConfig{
			Enabled:   profiler.IsEnabled(),
			SkipPaths: middleware.DefaultProfilingConfig().SkipPaths,
		}),
		middleware.SecureWithConfig(middleware.DefaultSecurityConfig()),
		middleware.CORSWithConfig(corsConfig),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			Enabled:       cfg.HTTP.MetricsEnabled,
			Logger:        log,
		}),
	)

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version)
	systemHandler.AddCheck("database", db.Ping)
	if backends.Redis != nil {
		systemHandler.AddCheck("redis", func(ctx context.Context) error {
			return backends.Redis.Ping(ctx).Err()
		})
	}
	engine.GET("/health", systemHandler.Health)
	if cfg.HTTP.MetricsEnabled {
		engine.GET("/metrics", gin.WrapH(registry.Handler()))
	}

	// API routes
	clientIdentity := middleware.ClientIdentity(middleware.ClientIdentityConfig{
		Tokens:     clientTokens,
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Session.CookieSecure,
		Logger:     log,
	})
	requireSession := middleware.RequireSession(sessionService)
	apiMiddleware := []gin.HandlerFunc{
		clientIdentity,
		middleware.Timeout(cfg.Database.QueryTimeout),
	}
	routeOpts := handler.RouteOptions{
		Protected: []gin.HandlerFunc{requireSession},
	}
	var limiters []*middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		apiLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst, 10*time.Minute)
		loginLimiter := middleware.NewRateLimiter(cfg.HTTP.LoginRateLimitRPS, cfg.HTTP.LoginRateLimitBurst, 10*time.Minute)
		limiters = append(limiters, apiLimiter, loginLimiter)
		apiMiddleware = append(apiMiddleware, middleware.RateLimitByKey(apiLimiter, middleware.KeyByClient))
		routeOpts.Login = []gin.HandlerFunc{middleware.RateLimit(loginLimiter)}
	}
	defer func() {
		for _, l := range limiters {
			l.Close()
		}
	}()

	handlers := &handler.Handlers{
		Session:  handler.NewSessionHandler(sessionService),
		Customer: handler.NewCustomerHandler(customerService),
		Employee: handler.NewEmployeeHandler(employeeService),
		Product:  handler.NewProductHandler(productService),
		Order:    handler.NewOrderHandler(orderService),
		Admin:    handler.NewAdminHandler(dashboardService, purgeService),
		System:   systemHandler,
	}

	routerOpts := []router.RouterOption{router.WithAPIVersion("v1")}
	if cfg.HTTP.DocsEnabled {
		// Swagger UI sits outside /api/v1, so it brings its own client identity
		routerOpts = append(routerOpts, router.WithAPIDocs(middleware.APIDocsProtection(middleware.APIDocsConfig{
			Enabled:        true,
			RequireSession: cfg.HTTP.DocsRequireSession,
			AllowedIPs:     cfg.HTTP.DocsAllowedIPs,
		}, clientIdentity, requireSession)))
	}
	r := router.NewRouter(engine, routerOpts...).Use(apiMiddleware...)
	for _, group := range handlers.DomainGroups(routeOpts) {
		r.Register(group)
	}
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Profiler shutdown failed", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Logger provider shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
