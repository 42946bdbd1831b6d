package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/FullFarming/v0-invoice-management-system/config"
	"github.com/FullFarming/v0-invoice-management-system/internal/app/controller"
	"github.com/FullFarming/v0-invoice-management-system/internal/app/repository"
	"github.com/FullFarming/v0-invoice-management-system/internal/app/service"
	"github.com/FullFarming/v0-invoice-management-system/internal/db"
	"github.com/FullFarming/v0-invoice-management-system/internal/middleware"
	"github.com/FullFarming/v0-invoice-management-system/internal/router"
	"github.com/FullFarming/v0-invoice-management-system/internal/scheduler"
	"github.com/FullFarming/v0-invoice-management-system/internal/storage"
	"github.com/FullFarming/v0-invoice-management-system/internal/websocket"
	"github.com/FullFarming/v0-invoice-management-system/pkg/logger"
	"github.com/FullFarming/v0-invoice-management-system/pkg/redis"
	"github.com/FullFarming/v0-invoice-management-system/pkg/referral"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Invoice Portal Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed database (optional)
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Initialize Redis (optional - events and token revocation degrade gracefully)
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, continuing without event publishing", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer redis.Close()
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	invoiceRepo := repository.NewInvoiceRepository(db.GetDB())
	companyRepo := repository.NewCompanyRepository(db.GetDB())
	employeeRepo := repository.NewEmployeeRepository(db.GetDB())
	rateRepo := repository.NewExchangeRateRepository(db.GetDB())
	socRepo := repository.NewSocRepository(db.GetDB())

	// WebSocket hub for real-time invoice events
	hub := websocket.NewHub()
	go hub.Run()

	// Referral award policy (bracket table or department rates)
	directoryService := service.NewDirectoryService(companyRepo, employeeRepo)
	referralRates, err := directoryService.ReferralRates()
	if err != nil {
		logger.Warn("Failed to load department referral rates", map[string]interface{}{
			"error": err.Error(),
		})
	}
	referralPolicy := referral.Select(cfg.Referral.Policy, referralRates)
	logger.Info("Referral award policy selected", map[string]interface{}{
		"policy": referralPolicy.Name(),
	})

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	notificationService := service.NewNotificationService(hub)
	invoiceService := service.NewInvoiceService(invoiceRepo, employeeRepo, referralPolicy, notificationService)
	approvalService := service.NewApprovalService(invoiceRepo, rateRepo, notificationService)
	currencyService := service.NewCurrencyService(rateRepo)
	exportService := service.NewExportService(invoiceRepo)
	socService := service.NewSocService(socRepo, companyRepo)

	// S3 storage for attachment uploads
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	invoiceController := controller.NewInvoiceController(invoiceService, exportService)
	approvalController := controller.NewApprovalController(approvalService)
	directoryController := controller.NewDirectoryController(directoryService, currencyService)
	socController := controller.NewSocController(socService)
	uploadController := controller.NewUploadController(s3Storage)
	wsController := controller.NewWSController(hub)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		authController,
		invoiceController,
		approvalController,
		directoryController,
		socController,
		uploadController,
		wsController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Approval reminder scheduler
	if cfg.Reminder.Enabled {
		reminderScheduler := scheduler.NewReminderScheduler(approvalService, cfg.Reminder.CronSpec)
		if err := reminderScheduler.Start(); err != nil {
			logger.Error("Failed to start reminder scheduler", err)
		} else {
			defer reminderScheduler.Stop()
		}
	}

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
