package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	bundleapp "github.com/storefront/backend/internal/application/bundle"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
)

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
		_ = logger.Sync(log)
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing. Disabled by default, a no-op provider keeps the rest of
	// the wiring unconditional.
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}()

	// Initialize database with a GORM logger bridged to zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.Enabled {
		if err := telemetry.RegisterDBTracing(db.DB, log); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("database", cfg.Database.DBName),
	)

	// Repositories
	itemRepo := persistence.NewGormItemRepository(db.DB)
	bundleRepo := persistence.NewGormConfigurationRepository(db.DB)
	cartRepo := persistence.NewGormCartLineRepository(db.DB)

	// Catalog snapshot cache. Redis when enabled, otherwise an in-process
	// cache so single-node deployments need no extra infrastructure.
	var snapCache interface {
		catalogapp.SnapshotCache
		catalogapp.SnapshotInvalidator
	}
	if cfg.Catalog.SnapshotCacheEnabled {
		redisCache, err := cache.NewRedisSnapshotCache(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Catalog.SnapshotTTL)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		snapCache = redisCache
		log.Info("Catalog snapshot cache using Redis",
			zap.String("host", cfg.Redis.Host),
			zap.Duration("ttl", cfg.Catalog.SnapshotTTL),
		)
	} else {
		snapCache = cache.NewInMemorySnapshotCache(cfg.Catalog.SnapshotTTL)
		log.Info("Catalog snapshot cache using in-memory store",
			zap.Duration("ttl", cfg.Catalog.SnapshotTTL),
		)
	}

	// Application services
	lookupService := catalogapp.NewLookupService(itemRepo, snapCache, log)
	itemService := catalogapp.NewItemService(itemRepo, snapCache)
	bundleService := bundleapp.NewService(bundleRepo, cartRepo, lookupService, log)

	// JWT for the admin surface
	jwtService := auth.NewJWTService(cfg.JWT)

	// HTTP handlers
	bundleHandler := handler.NewBundleHandler(bundleService)
	bundleAdminHandler := handler.NewBundleAdminHandler(bundleService)
	catalogAdminHandler := handler.NewCatalogAdminHandler(itemService)
	authHandler := handler.NewAuthHandler(jwtService, cfg.Admin, log)
	systemHandler := handler.NewSystemHandler()

	// Gin engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.DefaultTracingConfig(cfg.Telemetry.ServiceName)))
		engine.Use(middleware.SpanErrorMarker())
		engine.Use(middleware.TracingAttributeInjector())
	}
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders: []string{
			"X-Request-ID",
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
		},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	// Liveness endpoint outside the versioned API
	engine.GET("/health", healthHandler(db, log))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	jwtRequired := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		Logger:     log,
	})

	// Storefront endpoints, no authentication
	bundleRoutes := router.NewDomainGroup("bundles", "/bundles").
		GET("/product/:product_id", bundleHandler.GetByProduct).
		GET("/:id/slots", bundleHandler.ResolveSlots).
		GET("/:id/shipping-policy", bundleHandler.ShippingPolicy).
		POST("/:id/price", bundleHandler.Price).
		POST("/:id/cart", bundleHandler.AddToCart)

	cartRoutes := router.NewDomainGroup("cart", "/cart").
		GET("", bundleHandler.GetCart).
		DELETE("/lines/:id", bundleHandler.RemoveCartLine)

	authRoutes := router.NewDomainGroup("auth", "/auth").
		POST("/login", authHandler.Login)

	// Admin endpoints require a valid token; mutations additionally
	// require a role with write access.
	adminBundleRoutes := router.NewDomainGroup("admin-bundles", "/admin/bundles").
		Use(jwtRequired).
		GET("", bundleAdminHandler.List).
		GET("/:id", bundleAdminHandler.Get).
		POST("", middleware.RequireWrite(), bundleAdminHandler.Create).
		PUT("/:id", middleware.RequireWrite(), bundleAdminHandler.Update).
		DELETE("/:id", middleware.RequireWrite(), bundleAdminHandler.Delete).
		POST("/:id/enable", middleware.RequireWrite(), bundleAdminHandler.Enable).
		POST("/:id/disable", middleware.RequireWrite(), bundleAdminHandler.Disable)

	adminCatalogRoutes := router.NewDomainGroup("catalog", "/catalog/items").
		Use(jwtRequired).
		GET("", catalogAdminHandler.List).
		GET("/:id", catalogAdminHandler.Get).
		POST("", middleware.RequireWrite(), catalogAdminHandler.Create).
		PUT("/:id", middleware.RequireWrite(), catalogAdminHandler.Update).
		DELETE("/:id", middleware.RequireWrite(), catalogAdminHandler.Delete)

	systemRoutes := router.NewDomainGroup("system", "/system").
		GET("/info", systemHandler.GetSystemInfo).
		GET("/ping", systemHandler.Ping)

	r.Register(bundleRoutes).
		Register(cartRoutes).
		Register(authRoutes).
		Register(adminBundleRoutes).
		Register(adminCatalogRoutes).
		Register(systemRoutes)

	r.Setup()

	// HTTP server with timeouts from configuration
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// healthHandler reports process liveness and database reachability.
func healthHandler(db *persistence.Database, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ok"
		dbStatus := "ok"
		code := http.StatusOK

		if err := db.Ping(); err != nil {
			log.Warn("Health check database ping failed", zap.Error(err))
			status = "degraded"
			dbStatus = "unreachable"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":   status,
			"database": dbStatus,
			"time":     time.Now().UTC().Format(time.RFC3339),
		})
	}
}
