package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/arghosts/affiliate-shop-sub000/internal/application/catalog"
	contentapp "github.com/arghosts/affiliate-shop-sub000/internal/application/content"
	"github.com/arghosts/affiliate-shop-sub000/internal/application/dashboard"
	identityapp "github.com/arghosts/affiliate-shop-sub000/internal/application/identity"
	importapp "github.com/arghosts/affiliate-shop-sub000/internal/application/import"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/auth"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/cache"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/config"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/logger"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/metrics"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/persistence"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/storage"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/telemetry"
	"github.com/arghosts/affiliate-shop-sub000/internal/interfaces/http/handler"
	"github.com/arghosts/affiliate-shop-sub000/internal/interfaces/http/middleware"
	"github.com/arghosts/affiliate-shop-sub000/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			JagoPilih API
//	@version		1.0
//	@description	Storefront, auth and admin API of the JagoPilih affiliate catalog.

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	SessionCookie
//	@in							cookie
//	@name						admin_session

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

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

	log.Info("Starting JagoPilih API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log,
		telemetry.WithServiceVersion(version),
		telemetry.WithEnvironment(cfg.App.Env),
	)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	profiler, err := telemetry.StartProfiler(cfg.Profiling, cfg.Telemetry.ServiceName, tracerProvider, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()

	logExporter, err := telemetry.NewLogExporter(ctx, cfg.Telemetry,
		telemetry.WithServiceVersion(version),
		telemetry.WithEnvironment(cfg.App.Env),
	)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	exported, err := logExporter.Attach(log, logger.ParseLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to attach log export", zap.Error(err))
	}
	log = exported
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := logExporter.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down log exporter", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.NewDBTracingPlugin(cfg.Telemetry, log).Register(db.DB); err != nil {
		log.Warn("Failed to enable database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	cacheStack, err := cache.NewStack(ctx, cfg, cache.WithStackLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize page cache", zap.Error(err))
	}
	defer func() {
		if err := cacheStack.Close(); err != nil {
			log.Error("Error closing page cache", zap.Error(err))
		}
	}()

	listenCtx, stopListening := context.WithCancel(ctx)
	defer stopListening()
	if cacheStack.Bus != nil {
		go func() {
			if err := cacheStack.Revalidator.Listen(listenCtx, cacheStack.Bus); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("Revalidation subscriber stopped", zap.Error(err))
			}
		}()
	}

	var appMetrics *metrics.Metrics
	if cfg.Metrics.Enabled {
		appMetrics = metrics.New(cfg.Metrics.Prefix)
		sqlDB, err := db.SQLDB()
		if err != nil {
			log.Fatal("Failed to access connection pool", zap.Error(err))
		}
		if err := appMetrics.RegisterDB(sqlDB, cfg.Database.DBName); err != nil {
			log.Warn("Connection pool metrics unavailable", zap.Error(err))
		}
	}

	uploader, err := storage.NewUploader(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize image storage", zap.Error(err))
	}
	if bucket, ok := uploader.(*storage.S3ObjectStorage); ok && cfg.Storage.CreateBucket {
		if err := bucket.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare storage bucket", zap.Error(err))
		}
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	tagRepo := persistence.NewGormTagRepository(db.DB)
	historyRepo := persistence.NewGormPriceHistoryRepository(db.DB)
	postRepo := persistence.NewGormPostRepository(db.DB)
	navbarRepo := persistence.NewGormNavbarLinkRepository(db.DB)
	settingRepo := persistence.NewGormSiteSettingRepository(db.DB)
	adminRepo := persistence.NewGormAdminRepository(db.DB)

	// Services
	revalidator := cacheStack.Revalidator
	imageService := catalogapp.NewImageService(uploader, cfg.Storage.Folder, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, tagRepo, historyRepo, imageService, revalidator, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, revalidator, log)
	tagService := catalogapp.NewTagService(tagRepo, revalidator, log)
	postService := contentapp.NewPostService(postRepo, revalidator, log)
	navbarService := contentapp.NewNavbarService(navbarRepo, revalidator, log)
	settingService := contentapp.NewSiteSettingService(settingRepo, revalidator, log)
	importService := importapp.NewBulkImportService(productRepo, categoryRepo, tagRepo, revalidator, log,
		importapp.WithLimits(cfg.Import.MaxRows, cfg.Import.MaxFileSize))
	authService := identityapp.NewAuthService(adminRepo, auth.NewJWTService(cfg.Session), log)
	dashboardService := dashboard.NewService(productRepo, categoryRepo, tagRepo, postRepo, log)

	handlers := router.Handlers{
		Product:   handler.NewProductHandler(productService, appMetrics),
		Category:  handler.NewCategoryHandler(categoryService, appMetrics),
		Tag:       handler.NewTagHandler(tagService, appMetrics),
		Post:      handler.NewPostHandler(postService, appMetrics),
		Navbar:    handler.NewNavbarHandler(navbarService, appMetrics),
		Setting:   handler.NewSiteSettingHandler(settingService, appMetrics),
		Auth:      handler.NewAuthHandler(authService, handler.NewSessionCookie(cfg.Session, cfg.Cookie), appMetrics),
		Import:    handler.NewImportHandler(importService, appMetrics),
		Image:     handler.NewImageHandler(imageService, appMetrics),
		Dashboard: handler.NewDashboardHandler(dashboardService),
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	sessionGuard := middleware.SessionGuardConfig{
		CookieName: cfg.Session.CookieName,
		LoginPath:  cfg.Session.LoginPath,
		HomePath:   cfg.Session.HomePath,
	}

	securityConfig := middleware.DefaultSecurityConfig()
	securityConfig.HSTSEnabled = cfg.Cookie.Secure

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	// Request ID first, page gate last
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log, "/health", cfg.Metrics.Path))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
		SkipPaths:   []string{"/health", cfg.Metrics.Path},
	}))
	engine.Use(middleware.SpanDecorator())
	if appMetrics != nil {
		engine.Use(middleware.HTTPMetrics(appMetrics))
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.SecureWithConfig(securityConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.PageGate(authService, sessionGuard))

	engine.GET("/health", handler.NewHealthHandler(db, version).Check)
	if appMetrics != nil {
		engine.GET(cfg.Metrics.Path, gin.WrapH(appMetrics.Handler()))
	}

	var loginLimiter *middleware.RateLimiter
	if cfg.HTTP.LoginRateLimit > 0 {
		loginLimiter = middleware.NewRateLimiter(cfg.HTTP.LoginRateLimit, cfg.HTTP.LoginRateWindow)
		defer loginLimiter.Stop()
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	router.RegisterAPI(r, handlers, router.Guards{
		Sessions:     authService,
		Session:      sessionGuard,
		LoginLimiter: loginLimiter,
		PageCache: middleware.PageCacheConfig{
			Cache:   cacheStack.Cache,
			TTL:     cacheStack.TTL,
			Metrics: appMetrics,
		},
	})
	routes := r.Setup()
	for _, rt := range routes {
		log.Debug("Route registered",
			zap.String("group", rt.Group),
			zap.String("method", rt.Method),
			zap.String("path", rt.Path))
	}
	log.Info("API routes registered", zap.Int("count", len(routes)), zap.String("base_path", r.BasePath()))

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
