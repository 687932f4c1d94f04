package app

import (
	"fmt"

	"petnest_backend/database"
	"petnest_backend/internal/auth"
	"petnest_backend/internal/config"
	"petnest_backend/internal/email"
	"petnest_backend/internal/handlers"
	"petnest_backend/internal/logger"
	"petnest_backend/internal/middleware"
	"petnest_backend/internal/models"
	"petnest_backend/internal/repositories"
	"petnest_backend/internal/routes"
	"petnest_backend/internal/services"
	"petnest_backend/internal/services/gateway"
	"petnest_backend/internal/storage"
	"petnest_backend/internal/validator"
	"petnest_backend/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	auth.InitJWT(cfg.JWT.Secret)

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err := sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.Migrate(db); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	if err := repositories.NewRefreshTokenRepository(db).CleanExpired(); err != nil {
		logger.Warn("Failed to clean expired refresh tokens", "error", err)
	}

	if err := seedFirstAdmin(db, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	router := SetupRouter(cfg, db)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := router.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	store, err := storage.NewLocalStorage(storage.Config{
		BasePath: cfg.Storage.BasePath,
		BaseURL:  cfg.Storage.BaseURL,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}

	var emailService services.EmailService
	if cfg.Email.SMTPHost != "" {
		emailService = services.NewEmailService(email.NewSMTPSender(email.Config{
			SMTPHost:     cfg.Email.SMTPHost,
			SMTPPort:     cfg.Email.SMTPPort,
			SMTPUsername: cfg.Email.SMTPUsername,
			SMTPPassword: cfg.Email.SMTPPassword,
			FromEmail:    cfg.Email.FromEmail,
			FromName:     cfg.Email.FromName,
		}))
	} else {
		logger.Warn("SMTP not configured, outgoing email disabled")
		emailService = services.NoopEmailService{}
	}

	paymentGateway := gateway.NewSSLCommerzClient(
		cfg.Payment.StoreID,
		cfg.Payment.StorePassword,
		cfg.Payment.Sandbox,
		cfg.Payment.SuccessURL,
		cfg.Payment.FailURL,
		cfg.Payment.CancelURL,
	)

	serviceContainer := services.NewServiceContainer(db, cfg, paymentGateway, emailService)

	wsManager := ws.NewManager(serviceContainer.Messages)
	go wsManager.Run()
	wsHandler := ws.NewHandler(wsManager)

	uploads := handlers.NewUploader(store, cfg.Upload.MaxSize, cfg.Upload.AllowedExts)
	appHandlers := handlers.NewAppHandlers(serviceContainer, uploads, validator.New(), wsManager.SendToUser)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logging())
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS())
	router.Use(middleware.DBMiddleware(db))

	router.Static(cfg.Storage.BaseURL, cfg.Storage.BasePath)

	routes.RegisterRoutes(router, appHandlers, wsHandler)
	return router
}

// seedFirstAdmin creates the bootstrap admin account once, from config.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.FirstAdminEmail == "" || cfg.FirstAdminPassword == "" {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("role = ?", models.UserRoleAdmin).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		hash, err := auth.HashPassword(cfg.FirstAdminPassword)
		if err != nil {
			return err
		}

		username := cfg.FirstAdminUsername
		if username == "" {
			username = "admin"
		}

		admin := &models.User{
			Username:           username,
			Email:              cfg.FirstAdminEmail,
			PasswordHash:       hash,
			Role:               models.UserRoleAdmin,
			IsVerified:         true,
			VerificationStatus: models.VerificationVerified,
			IsActive:           true,
		}
		if err := tx.Create(admin).Error; err != nil {
			return err
		}
		logger.Info("First admin user created", "email", admin.Email)
		return nil
	})
}
