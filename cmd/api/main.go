package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/registrapos/register-api/internal/application/register"
	"github.com/registrapos/register-api/internal/application/service"
	"github.com/registrapos/register-api/internal/config"
	"github.com/registrapos/register-api/internal/infrastructure/database"
	"github.com/registrapos/register-api/internal/infrastructure/repository"
	"github.com/registrapos/register-api/internal/presentation/http/handler"
	"github.com/registrapos/register-api/internal/presentation/http/routes"
	"github.com/registrapos/register-api/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger, err := newLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Seed default data
	if err := database.SeedDefaultData(db, &cfg.Register); err != nil {
		logger.Warn("Failed to seed default data", zap.Error(err))
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	heldOrderRepo := repository.NewHeldOrderRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	branchService := service.NewBranchService(branchRepo)
	productService := service.NewProductService(productRepo, categoryRepo)
	customerService := service.NewCustomerService(customerRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo)

	// Initialize the register manager holding live sessions
	registerManager := register.NewManager(
		productRepo,
		invoiceRepo,
		heldOrderRepo,
		customerRepo,
		register.Options{
			AllowOversell:     cfg.Register.AllowOversell,
			ClearAfterSale:    cfg.Register.ClearAfterSale,
			LoyaltyEnabled:    cfg.Register.LoyaltyEnabled,
			PointsPerCurrency: cfg.Register.PointsPerCurrency,
		},
		logger,
	)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Branch:   handler.NewBranchHandler(branchService),
		Product:  handler.NewProductHandler(productService),
		Customer: handler.NewCustomerHandler(customerService),
		Invoice:  handler.NewInvoiceHandler(invoiceService),
		Register: handler.NewRegisterHandler(registerManager, branchRepo, userRepo),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
		Logger:     logger,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	logger.Info("Starting server",
		zap.String("service", cfg.App.Name),
		zap.String("port", port),
		zap.String("env", cfg.App.Env),
	)

	if err := router.Run(":" + port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
