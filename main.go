// Package main provides the main entry point for the Hydra Marketing backend
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/sepehrdad/Hydra-Marketing/app/handlers"
	"github.com/sepehrdad/Hydra-Marketing/app/middleware"
	"github.com/sepehrdad/Hydra-Marketing/app/platforms"
	"github.com/sepehrdad/Hydra-Marketing/app/router"
	"github.com/sepehrdad/Hydra-Marketing/app/scheduler"
	"github.com/sepehrdad/Hydra-Marketing/app/services"
	businessflow "github.com/sepehrdad/Hydra-Marketing/business_flow"
	"github.com/sepehrdad/Hydra-Marketing/config"
	"github.com/sepehrdad/Hydra-Marketing/repository"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting Hydra Marketing application...")

	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg.Logging)

	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// setupLogging routes the standard logger to stdout, a rotating file, or both
func setupLogging(cfg config.LoggingConfig) {
	if cfg.Output == "stdout" || cfg.FilePath == "" {
		return
	}

	fileWriter := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	switch cfg.Output {
	case "file":
		log.SetOutput(fileWriter)
	default:
		log.SetOutput(io.MultiWriter(os.Stdout, fileWriter))
	}
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Redis client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// buildRegistry wires every platform adapter into the shared registry
func buildRegistry(cfg *config.ProductionConfig) *platforms.Registry {
	registry := platforms.NewRegistry()

	registry.RegisterPublisher(platforms.NewFacebookPublisher(cfg.Meta))
	registry.RegisterPublisher(platforms.NewInstagramPublisher(cfg.Meta))
	registry.RegisterPublisher(platforms.NewLinkedInPublisher(cfg.LinkedIn))
	registry.RegisterPublisher(platforms.NewTwitterPublisher(cfg.Twitter))
	registry.RegisterPublisher(platforms.NewPinterestPublisher(cfg.Pinterest))

	registry.RegisterOAuthProvider(platforms.NewMetaOAuthProvider(cfg.Meta))
	registry.RegisterOAuthProvider(platforms.NewInstagramOAuthProvider(cfg.Meta))
	registry.RegisterOAuthProvider(platforms.NewLinkedInOAuthProvider(cfg.LinkedIn))
	registry.RegisterOAuthProvider(platforms.NewTwitterOAuthProvider(cfg.Twitter))
	registry.RegisterOAuthProvider(platforms.NewPinterestOAuthProvider(cfg.Pinterest))

	return registry
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	// Initialize repositories
	customerRepo := repository.NewCustomerRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	accountRepo := repository.NewSocialAccountRepository(db)
	whatsappRepo := repository.NewWhatsAppCampaignRepository(db)
	emailRepo := repository.NewEmailCampaignRepository(db)
	postRepo := repository.NewSocialPostRepository(db)
	adRepo := repository.NewAdRepository(db)
	proposalRepo := repository.NewProposalRepository(db)

	// Initialize platform adapters
	registry := buildRegistry(cfg)
	whatsappSender := platforms.NewWhatsAppSender(cfg.WhatsApp)
	emailSender := platforms.NewEmailSender(cfg.Email)
	adsClient := platforms.NewMetaAdsClient(cfg.Meta)

	// Initialize services
	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.SecretKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	var stateStore services.StateStore
	if rc != nil {
		stateStore = services.NewRedisStateStore(rc, cfg.Cache.RedisPrefix+"oauth_state")
	} else {
		stateStore = services.NewMemoryStateStore()
	}

	oauthService := services.NewOAuthService(cfg.OAuth, registry, stateStore, accountRepo)
	reconciler := services.NewReconciler(whatsappRepo, emailRepo, postRepo, adRepo)
	aiService := services.NewAIService(cfg.AI)

	// Initialize flows
	loginFlow := businessflow.NewLoginFlow(customerRepo, auditRepo, tokenService, db)
	whatsappFlow := businessflow.NewWhatsAppCampaignFlow(whatsappRepo, auditRepo, whatsappSender, reconciler, db)
	emailFlow := businessflow.NewEmailCampaignFlow(emailRepo, auditRepo, emailSender, reconciler, db)
	postFlow := businessflow.NewSocialPostFlow(postRepo, accountRepo, auditRepo, registry, reconciler, db)
	adFlow := businessflow.NewAdFlow(adRepo, accountRepo, auditRepo, adsClient, reconciler, db)
	connectFlow := businessflow.NewConnectFlow(oauthService, accountRepo, auditRepo)
	proposalFlow := businessflow.NewProposalFlow(proposalRepo, auditRepo, aiService, emailSender, db)
	reportFlow := businessflow.NewReportFlow(whatsappRepo, emailRepo, postRepo, adRepo)

	// Initialize handlers
	h := router.Handlers{
		Auth:             handlers.NewAuthHandler(loginFlow),
		WhatsAppCampaign: handlers.NewWhatsAppCampaignHandler(whatsappFlow),
		EmailCampaign:    handlers.NewEmailCampaignHandler(emailFlow),
		SocialPost:       handlers.NewSocialPostHandler(postFlow),
		Ad:               handlers.NewAdHandler(adFlow),
		Connect:          handlers.NewConnectHandler(connectFlow),
		Proposal:         handlers.NewProposalHandler(proposalFlow),
		Report:           handlers.NewReportHandler(reportFlow),
	}

	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	appRouter := router.NewFiberRouter(cfg, h, authMiddleware)

	if cfg.Scheduler.Enabled {
		sched := scheduler.NewCampaignScheduler(whatsappRepo, emailRepo, postRepo, whatsappFlow, emailFlow, postFlow, cfg.Scheduler)
		stopScheduler := sched.Start(context.Background())
		stopFuncs = append(stopFuncs, stopScheduler)
	}

	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}
