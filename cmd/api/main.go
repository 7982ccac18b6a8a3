package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"financeiro/internal/cache"
	"financeiro/internal/config"
	"financeiro/internal/database"
	"financeiro/internal/handlers"
	"financeiro/internal/jobs"
	"financeiro/internal/logger"
	"financeiro/internal/mail"
	"financeiro/internal/middleware"
	"financeiro/internal/router"
	"financeiro/internal/services"
	"financeiro/internal/validator"
)

// @title           Financeiro API
// @version         1.0
// @description     Financeiro is a household finance application for tracking income, expenses and fuel consumption per family member.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.basic BasicAuth

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("failed to close database: %v", err)
		}
	}()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Authority cache
	var authorityCache cache.AuthorityCache = cache.NopAuthorityCache{}
	if appConfig.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, appConfig.Redis.Addr, appConfig.Redis.Password, appConfig.Redis.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer client.Close()
		authorityCache = cache.NewRedisAuthorityCache(client, appConfig.Redis.AuthorityTTL)
		log.Infof("Caching user authorities in redis at %s", appConfig.Redis.Addr)
	}

	// Outgoing mail
	var sender mail.Sender = mail.LogSender{}
	if appConfig.Mail.SMTPHost != "" {
		sender = mail.NewSMTPSender(appConfig.Mail.SMTPHost, appConfig.Mail.SMTPPort,
			appConfig.Mail.Username, appConfig.Mail.Password, appConfig.Mail.From)
	} else {
		log.Warn("SMTP_HOST not set, recovery emails will only be logged")
	}
	mailQueue := mail.NewQueue(sender, appConfig.Mail.QueueSize)
	mailQueue.Start()
	defer mailQueue.Close()

	validator.Register()

	// Initialize services
	st := services.NewStores(dbManager.DB())
	tokens := middleware.NewTokenManager(appConfig.JWT.Secret, appConfig.JWT.AccessTTL, appConfig.JWT.RefreshTTL)

	userService := services.NewUserService(st, authorityCache)
	roleService := services.NewRoleService(st)
	memberService := services.NewMemberService(st)
	categoryService := services.NewCategoryService(st)
	transactionService := services.NewTransactionService(st)
	reportService := services.NewReportService(st)
	exportService := services.NewExportService(st)
	auditService := services.NewAuditService(st)
	authService := services.NewAuthService(st, userService, tokens, mailQueue, services.RecoverConfig{
		URI:      appConfig.Recover.URI,
		TokenTTL: appConfig.Recover.TokenTTL,
	})

	if appConfig.Admin.Email != "" {
		if err := userService.EnsureAdmin(ctx, appConfig.Admin.Email, appConfig.Admin.Password); err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
	}

	// Background jobs
	scheduler := jobs.NewScheduler(time.Minute)
	err = scheduler.Register(appConfig.Recover.PurgeSchedule, "purge-recover-tokens", func(ctx context.Context) error {
		purged, err := authService.PurgeExpiredTokens(ctx)
		if err != nil {
			return err
		}
		if purged > 0 {
			logger.FromContext(ctx).Infow("Purged expired recovery tokens", "count", purged)
		}
		return nil
	})
	if err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	authLimiter := middleware.NewRateLimiter(appConfig.HTTP.AuthRateLimit, time.Minute)
	defer authLimiter.Stop()

	// Initialize router
	engine := router.New(router.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Category:    handlers.NewCategoryHandler(categoryService),
		Member:      handlers.NewMemberHandler(memberService),
		Role:        handlers.NewRoleHandler(roleService, auditService),
		User:        handlers.NewUserHandler(userService, auditService),
		Transaction: handlers.NewTransactionHandler(transactionService, exportService, auditService),
		Report:      handlers.NewReportHandler(reportService),
	}, router.Options{
		Tokens:             tokens,
		Authorities:        userService,
		ClientID:           appConfig.OAuth.ClientID,
		ClientSecret:       appConfig.OAuth.ClientSecret,
		AuthLimiter:        authLimiter,
		CORSAllowedOrigins: appConfig.HTTP.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("Starting Financeiro backend server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
