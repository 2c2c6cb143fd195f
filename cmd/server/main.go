package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/acmshq/acms/configs"
	"github.com/acmshq/acms/internal/application/services"
	"github.com/acmshq/acms/internal/core/ports"
	"github.com/acmshq/acms/internal/infrastructure/db"
	"github.com/acmshq/acms/internal/infrastructure/email"
	"github.com/acmshq/acms/internal/infrastructure/health"
	"github.com/acmshq/acms/internal/infrastructure/httpserver"
	"github.com/acmshq/acms/internal/infrastructure/redis"
	"github.com/acmshq/acms/internal/infrastructure/repositories"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting ACMS portal...")

	// Initialize database (apply pool settings from config)
	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	// Initialize Redis client
	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	logger.Info("Connected to Redis successfully")

	// Run migrations
	if err := database.Migrate("./migrations"); err != nil {
		logger.Warn("Failed to run migrations:", err)
	}

	// Shared-store infrastructure
	redisCache := redis.NewRedisCache(redisClient)
	rateLimitRepo := repositories.NewRateLimitRedisRepository(redisClient)

	// Database repositories
	userRepo := repositories.NewUserRepository(database, logger)
	profileRepo := repositories.NewStudentProfileRepository(database, logger)
	ondutyRepo := repositories.NewOnDutyRepository(database, logger)
	announcementRepo := repositories.NewAnnouncementRepository(database, logger)
	auditRepo := repositories.NewAuditRepository(database, logger)

	// Email notifications
	emailConfig := &email.EmailConfig{
		SendGridAPIKey: cfg.Email.SendGridAPIKey,
		FromEmail:      cfg.Email.FromEmail,
		FromName:       cfg.Email.FromName,
		PortalName:     cfg.Email.InstituteName,
		BaseURL:        cfg.Email.BaseURL,
	}
	emailService, err := email.NewEmailService(emailConfig, logger)
	if err != nil {
		logger.Fatal("Failed to initialize email service:", err)
	}

	// Services
	cacheService := services.NewCacheService(redisCache, logger)
	rateLimiterService := services.NewRateLimiterService(rateLimitRepo, &cfg.RateLimit, logger)
	authService := services.NewAuthService(userRepo, emailService, &cfg.JWT, logger)
	userService := services.NewUserService(userRepo, profileRepo, cacheService, emailService, cfg.Cache, logger)
	studentService := services.NewStudentService(profileRepo, cacheService, cfg.Cache, logger)
	ondutyService := services.NewOnDutyService(ondutyRepo, userRepo, cacheService, emailService, logger)
	announcementService := services.NewAnnouncementService(announcementRepo, cacheService, cfg.Cache, logger)
	dashboardService := services.NewDashboardService(profileRepo, userRepo, ondutyRepo, announcementRepo, cacheService, cfg.Cache, logger)
	auditService := services.NewAuditService(auditRepo, logger)

	healthCheckers := []ports.HealthChecker{
		health.NewDBHealthChecker(database),
		health.NewRedisHealthChecker(redisClient),
	}

	serverConfig := &httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		TLSCertFile:  cfg.Server.TLSCertFile,
		TLSKeyFile:   cfg.Server.TLSKeyFile,
	}

	deps := httpserver.ServerDeps{
		AuthService:         authService,
		UserService:         userService,
		StudentService:      studentService,
		OnDutyService:       ondutyService,
		AnnouncementService: announcementService,
		DashboardService:    dashboardService,
		AuditService:        auditService,
		RateLimiterService:  rateLimiterService,
		HealthCheckers:      healthCheckers,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
