package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/BradenHooton/wikiboard/internal/auth"
	"github.com/BradenHooton/wikiboard/internal/config"
	"github.com/BradenHooton/wikiboard/internal/database"
	"github.com/BradenHooton/wikiboard/internal/handlers"
	"github.com/BradenHooton/wikiboard/internal/metrics"
	middlewareCustom "github.com/BradenHooton/wikiboard/internal/middleware"
	"github.com/BradenHooton/wikiboard/internal/repositories"
	"github.com/BradenHooton/wikiboard/internal/routes"
	"github.com/BradenHooton/wikiboard/internal/services"
	pkghttp "github.com/BradenHooton/wikiboard/pkg/http"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.Observability.LogLevel)}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	if cfg.Observability.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Observability.SentryDSN,
			Environment:      cfg.Observability.SentryEnv,
			SampleRate:       cfg.Observability.SentrySampleRate,
			AttachStacktrace: true,
		}); err != nil {
			logger.Error("failed to initialize sentry", slog.Any("error", err))
		} else {
			defer sentry.Flush(2 * time.Second)
			logger.Info("sentry error reporting enabled")
		}
	}

	m, err := metrics.New()
	if err != nil {
		logger.Error("failed to initialize metrics", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize database
	db, err := database.NewConnection(context.Background(), &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := db.Migrate(ctx, "up")
		cancel()
		if err != nil {
			logger.Error("failed to apply migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	entryRepo := repositories.NewEntryRepository(db)
	imageRepo := repositories.NewImageRepository(db)
	reportRepo := repositories.NewReportRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	likeRepo := repositories.NewLikeRepository(db)
	auditRepo := repositories.NewAuditLogRepository(db)

	notifier, err := newNotifier(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize email notifier", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize services
	auditService := services.NewAuditService(auditRepo, logger)
	userService := services.NewUserService(userRepo, logger)
	banService := services.NewBanService(userRepo, m.Moderation, logger)
	entryService := services.NewEntryService(entryRepo, userRepo, auditService, notifier, m.Moderation, logger)
	galleryService := services.NewGalleryService(imageRepo, logger)
	reportService := services.NewReportService(reportRepo, entryRepo, auditService, m.Moderation, logger)
	engagementService := services.NewEngagementService(commentRepo, likeRepo, entryRepo, auditService, m.Moderation, logger)
	adminService := services.NewAdminService(userRepo, entryRepo, reportRepo, auditService, m.Moderation, logger)

	verifier := auth.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Audience)
	authn := auth.NewMiddleware(verifier, userService, banService, logger)

	h := routes.Handlers{
		Entries:    handlers.NewEntryHandler(entryService, logger),
		Profiles:   handlers.NewProfileHandler(userService, logger),
		Gallery:    handlers.NewGalleryHandler(galleryService, logger),
		Reports:    handlers.NewReportHandler(reportService, logger),
		Engagement: handlers.NewEngagementHandler(engagementService, logger),
		Admin:      handlers.NewAdminHandler(adminService, auditService, logger),
	}

	ips := pkghttp.NewClientIPResolver(cfg.Server.TrustedProxies)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(middlewareCustom.CORSConfig{AllowedOrigins: cfg.Server.AllowedOrigins, MaxAge: 300}))
	router.Use(middlewareCustom.SecureLogger(logger, ips))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	router.Use(middlewareCustom.Metrics(m.HTTP))
	router.Use(middlewareCustom.RequestMeta(ips))

	router.Get("/health", handlers.Health(db, logger))
	router.Handle("/metrics", m.Handler())

	writeLimit := middlewareCustom.RateLimitByIP(middlewareCustom.RateLimitConfig{RequestsPerMinute: cfg.Server.WriteRateLimit}, ips)
	routes.RegisterRoutes(router, h, authn, writeLimit)

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

// newNotifier returns the SES notifier when email is enabled and a logging
// no-op otherwise
func newNotifier(cfg *config.Config, logger *slog.Logger) (services.Notifier, error) {
	if !cfg.Email.Enabled {
		logger.Info("email notifications disabled")
		return services.NewNoopNotifier(logger), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return services.NewSESNotifier(ctx, cfg.Email.AWSRegion, cfg.Email.FromAddress, cfg.Email.BaseURL, logger)
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}
