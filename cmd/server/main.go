package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hanifn/tagihin/internal"
	"github.com/hanifn/tagihin/internal/billing"
	"github.com/hanifn/tagihin/internal/bootstrap"
	"github.com/hanifn/tagihin/internal/cookie"
	"github.com/hanifn/tagihin/internal/domain"
	"github.com/hanifn/tagihin/internal/email"
	"github.com/hanifn/tagihin/internal/handler"
	"github.com/hanifn/tagihin/internal/handler/account"
	"github.com/hanifn/tagihin/internal/handler/admin"
	"github.com/hanifn/tagihin/internal/handler/client"
	"github.com/hanifn/tagihin/internal/middleware"
	"github.com/hanifn/tagihin/internal/postgres"
	"github.com/hanifn/tagihin/internal/router"
	"github.com/hanifn/tagihin/internal/routes"
	"github.com/hanifn/tagihin/internal/service"
	"github.com/hanifn/tagihin/internal/telemetry"
	"github.com/hanifn/tagihin/internal/worker"
	"github.com/hanifn/tagihin/web/templates"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize Sentry error tracking
	sentryFlush, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:              cfg.Sentry.DSN,
		Enabled:          cfg.Sentry.Enabled,
		Environment:      cfg.Sentry.Environment,
		Release:          cfg.Sentry.Release,
		SampleRate:       cfg.Sentry.SampleRate,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
		Debug:            cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer sentryFlush()

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	// Verify database connection
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	// Initialize stores
	userStore := postgres.NewUserStore(pool)
	adminStore := postgres.NewAdminStore(pool)
	sessionStore := postgres.NewSessionStore(pool)
	invoiceStore := postgres.NewInvoiceStore(pool)
	subscriptionStore := postgres.NewSubscriptionStore(pool)

	// Seed the initial admin account if configured
	if err := bootstrap.EnsureAdmin(ctx, adminStore, &bootstrap.AdminConfig{
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
		Name:     cfg.Admin.Name,
	}, logger); err != nil {
		return fmt.Errorf("admin bootstrap failed: %w", err)
	}

	// Initialize services
	userService := service.NewUserService(userStore)
	adminService := service.NewAdminService(adminStore)
	userSessions := service.NewSessionService(sessionStore, domain.SessionScopeUser, cfg.Session.TTL)
	adminSessions := service.NewSessionService(sessionStore, domain.SessionScopeAdmin, cfg.Session.TTL)
	accessService := service.NewInvoiceAccessService(invoiceStore)

	// Invoice email delivery is optional; invoices work without it
	var invoiceOpts []service.InvoiceServiceOption
	if cfg.Email.Enabled {
		var sender email.Sender
		switch cfg.Email.Provider {
		case "postmark":
			sender = email.NewPostmarkSender(cfg.Email.PostmarkToken)
		default:
			sender = email.NewSMTPSender(cfg.Email.Host, cfg.Email.Port,
				cfg.Email.Username, cfg.Email.Password, cfg.Email.From, cfg.Email.FromName)
		}
		mailer, err := email.NewService(sender, cfg.Email.From, cfg.Email.FromName, templates.FS)
		if err != nil {
			return fmt.Errorf("failed to initialize email service: %w", err)
		}
		invoiceOpts = append(invoiceOpts, service.WithInvoiceNotifier(
			service.NewEmailNotifier(mailer, cfg.BaseURL, logger)))
		logger.Info("Invoice email delivery enabled", "provider", cfg.Email.Provider)
	}
	invoiceService := service.NewInvoiceService(invoiceStore, invoiceOpts...)

	// Initialize Stripe billing provider
	logger.Info("Initializing Stripe billing provider...")
	stripeConfig := billing.StripeConfig{
		APIKey: cfg.Stripe.SecretKey,
	}
	billingProvider, err := billing.NewStripeProvider(stripeConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize Stripe provider: %w", err)
	}
	logger.Info("Stripe billing provider initialized", "test_mode", stripeConfig.IsTestMode())

	billingService := service.NewBillingService(subscriptionStore, billingProvider, logger)

	// Load templates with renderer
	logger.Info("Loading templates...")
	renderer, err := handler.NewRenderer(templates.FS)
	if err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}
	logger.Info("Templates loaded successfully")

	cookies := cookie.NewConfig(cfg.Session.SecureCookie)

	// ==========================================================================
	// Initialize middleware
	// ==========================================================================

	// Initialize Prometheus metrics
	metrics := middleware.NewMetrics("tagihin")

	// Configure security headers
	securityConfig := middleware.DefaultSecurityHeadersConfig()
	if cfg.Env == "dev" {
		// Relax CSP in development for easier debugging
		securityConfig.ContentSecurityPolicy = ""
		securityConfig.HSTSMaxAge = 0 // Disable HSTS in development
	}

	// Configure rate limiting
	defaultRateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer defaultRateLimiter.Stop()
	authRateLimiter := middleware.NewRateLimiter(middleware.StrictRateLimiterConfig())
	defer authRateLimiter.Stop()

	// ==========================================================================
	// Build route dependencies
	// ==========================================================================

	clientDeps := routes.ClientDeps{
		InvoiceHandler: client.NewInvoiceHandler(accessService, renderer),
		HealthHandler: func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		},
		MetricsHandler: metrics.Handler(),
	}

	accountDeps := routes.AccountDeps{
		AuthHandler:    account.NewAuthHandler(userService, userSessions, cookies, cfg.Session.TTL),
		InvoiceHandler: account.NewInvoiceHandler(invoiceService),
		BillingHandler: account.NewBillingHandler(billingService),
		WithUser:       middleware.WithUser(userSessions, userService),
		RequireUser:    middleware.RequireUser,
		LoginLimiter:   authRateLimiter.Middleware,
	}

	adminDeps := routes.AdminDeps{
		AuthHandler:  admin.NewAuthHandler(adminService, adminSessions, cookies, cfg.Session.TTL),
		UserHandler:  admin.NewUserHandler(userService),
		WithAdmin:    middleware.WithAdmin(adminSessions, adminService),
		RequireAdmin: middleware.RequireAdmin,
		LoginLimiter: authRateLimiter.Middleware,
	}

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		telemetry.SentryMiddleware(),
		middleware.SecurityHeaders(securityConfig),
		middleware.MaxBodySize(middleware.DefaultMaxBodySize),
		middleware.Timeout(middleware.DefaultTimeout),
		defaultRateLimiter.Middleware,
		middleware.WithClientIP(),
		router.Logger(logger),
		middleware.WithRequestLogger(logger),
	)

	routes.RegisterClientRoutes(r, clientDeps)
	routes.RegisterAccountRoutes(r, accountDeps)
	routes.RegisterAdminRoutes(r, adminDeps)

	// ==========================================================================
	// Start background worker
	// ==========================================================================

	if cfg.Worker.Enabled {
		w := worker.NewWorker(invoiceService, sessionStore, worker.Config{
			OverdueInterval: cfg.Worker.OverdueInterval,
		}, logger)
		go func() {
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Worker stopped", "error", err)
			}
		}()
	}

	// ==========================================================================
	// Start server
	// ==========================================================================

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("Server stopped")

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
