package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BradenHooton/loginwatch/internal/activity"
	"github.com/BradenHooton/loginwatch/internal/auth"
	"github.com/BradenHooton/loginwatch/internal/background"
	"github.com/BradenHooton/loginwatch/internal/config"
	"github.com/BradenHooton/loginwatch/internal/database"
	"github.com/BradenHooton/loginwatch/internal/handlers"
	"github.com/BradenHooton/loginwatch/internal/metrics"
	middlewareCustom "github.com/BradenHooton/loginwatch/internal/middleware"
	"github.com/BradenHooton/loginwatch/internal/models"
	"github.com/BradenHooton/loginwatch/internal/repositories"
	"github.com/BradenHooton/loginwatch/internal/routes"
	"github.com/BradenHooton/loginwatch/internal/services"
	pkgauth "github.com/BradenHooton/loginwatch/pkg/auth"
	pkglogger "github.com/BradenHooton/loginwatch/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Failed logins are padded to at least this long to blunt account enumeration
const (
	loginFailureBaseDelay = 300 * time.Millisecond
	loginFailureJitter    = 100 * time.Millisecond
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

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.Server.LogLevel)}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.String("env", cfg.Server.Env),
		slog.String("activity_timezone", cfg.Activity.Location.String()),
	)

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = db.Migrate(migrateCtx)
	migrateCancel()
	if err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)
	metrics.RegisterPoolStats(registry, db.Stats)

	// Initialize repositories
	accountRepo := repositories.NewAccountRepository(db)
	eventRepo := repositories.NewLoginEventRepository(db)
	revokeRepo := repositories.NewSessionRevocationRepository(db)

	// Initialize services
	auditLogger := pkglogger.NewAuditLogger(logger)
	sessions := auth.NewSessionManager(cfg.Auth.SessionSecret, cfg.Auth.SessionExpiry)
	generator := activity.NewGenerator(rand.NewPCG(rand.Uint64(), rand.Uint64()), cfg.Activity.Location)

	activityService := services.NewActivityService(accountRepo, eventRepo, generator, services.ActivityConfig{
		Classifier:     activity.NewClassifier(cfg.Activity.Location, cfg.Activity.NormalizationDays),
		PresenceWindow: cfg.Activity.PresenceWindow,
		Backfill: activity.BackfillOptions{
			DaysBack:          cfg.Activity.BackfillDaysBack,
			MinPerDay:         cfg.Activity.BackfillMinPerDay,
			MaxPerDay:         cfg.Activity.BackfillMaxPerDay,
			SuspiciousPattern: cfg.Activity.BackfillSuspicious,
		},
	}, appMetrics, logger)
	accountService := services.NewAccountService(accountRepo, cfg.Activity.PresenceWindow, appMetrics, auditLogger, logger)
	authService := services.NewAuthService(
		accountRepo,
		sessions,
		revokeRepo,
		activityService,
		auth.NewFailureDelay(loginFailureBaseDelay, loginFailureJitter),
		appMetrics,
		logger,
		auditLogger,
	)

	// Bootstrap first admin account if configured
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ensureAdminAccount(ctx, accountRepo, cfg.Auth, logger); err != nil {
		logger.Error("failed to ensure admin account", slog.Any("error", err))
	}
	cancel()

	// Initialize handlers
	cookies := auth.CookieConfig{
		Domain:   cfg.Auth.CookieDomain,
		Secure:   cfg.Auth.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	routeHandlers := routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService, cookies),
		Account:  handlers.NewAccountHandler(accountService, activityService),
		Activity: handlers.NewActivityHandler(activityService),
		Users:    handlers.NewUserHandler(accountService, activityService),
		Health:   handlers.Health(db),
		Metrics:  metrics.Handler(registry),
	}

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(middlewareCustom.DashboardCORSConfig(cfg.Server.AllowedOrigins)))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(appMetrics.Middleware)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, routeHandlers, authService, routes.Limits{
		LoginPerMinute: cfg.Server.LoginRateLimit,
		PingPerMinute:  cfg.Server.PingRateLimit,
	}, logger)

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start background jobs
	scheduler, err := background.NewScheduler(background.Schedules{
		SessionCleanup: cfg.Auth.SessionCleanupSchedule,
		PresenceSweep:  cfg.Activity.PresenceSweepSchedule,
	}, revokeRepo, accountService, appMetrics, logger)
	if err != nil {
		logger.Error("invalid background schedule", slog.Any("error", err))
		os.Exit(1)
	}

	jobsCtx, jobsCancel := context.WithCancel(context.Background())
	defer jobsCancel()
	scheduler.Start(jobsCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	jobsCancel()
	scheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// ensureAdminAccount creates the first admin if ADMIN_EMAIL and ADMIN_PASSWORD are set
func ensureAdminAccount(ctx context.Context, accountRepo *repositories.AccountRepository, cfg config.AuthConfig, logger *slog.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		logger.Info("no ADMIN_EMAIL or ADMIN_PASSWORD set, skipping admin account creation")
		return nil
	}

	_, err := accountRepo.GetByEmail(ctx, cfg.AdminEmail)
	if err == nil {
		logger.Info("admin account already exists")
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to check if admin exists: %w", err)
	}

	hashedPassword, err := pkgauth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	_, err = accountRepo.Create(ctx, &models.Account{
		Email:        cfg.AdminEmail,
		Name:         "Admin",
		PasswordHash: hashedPassword,
		Verified:     true,
		Role:         models.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	logger.Info("admin account created", slog.String("email", pkglogger.SanitizedEmail(cfg.AdminEmail)))
	return nil
}
