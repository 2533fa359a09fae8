package database

import (
	"fmt"
	"log"

	"github.com/registrapos/register-api/internal/config"
	"github.com/registrapos/register-api/internal/domain/entity"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.Branch{},
		&entity.User{},

		&entity.Category{},
		&entity.Product{},

		&entity.Customer{},
		&entity.PointsEntry{},

		&entity.Invoice{},
		&entity.InvoiceItem{},
		&entity.InvoiceSequence{},

		&entity.HeldOrder{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData creates the default branch and, when configured, an admin
// user. Both are idempotent: existing rows are left alone.
func SeedDefaultData(db *gorm.DB, cfg *config.RegisterConfig) error {
	log.Println("Seeding default data...")

	var branch entity.Branch
	if err := db.Where("name = ?", "Main Branch").First(&branch).Error; err != nil {
		branch = entity.Branch{
			Name:          "Main Branch",
			InvoicePrefix: cfg.InvoicePrefix,
			Currency:      cfg.Currency,
			DecimalPlaces: cfg.DecimalPlaces,
			TaxEnabled:    cfg.TaxEnabled,
			TaxRate:       cfg.TaxRate,
			TaxIncluded:   cfg.TaxIncluded,
			TaxPerItem:    cfg.TaxPerItem,
		}
		if err := db.Create(&branch).Error; err != nil {
			return fmt.Errorf("failed to create default branch: %w", err)
		}
		log.Printf("Default branch created: %s", branch.ID)
	}

	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail != "" && adminPassword != "" {
		var existing entity.User
		if err := db.Where("email = ?", adminEmail).First(&existing).Error; err != nil {
			hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash admin password: %w", err)
			}
			if adminName == "" {
				adminName = "Administrator"
			}
			admin := entity.User{
				BranchID: branch.ID,
				Name:     adminName,
				Email:    adminEmail,
				Password: string(hashed),
				Capabilities: []string{
					entity.CapabilityCheckout,
					entity.CapabilityManageProducts,
					entity.CapabilityManageCustomers,
					entity.CapabilityManageBranches,
				},
			}
			if err := db.Create(&admin).Error; err != nil {
				return fmt.Errorf("failed to create admin user: %w", err)
			}
			log.Printf("Admin user created: %s", adminEmail)
		} else {
			log.Printf("Admin user already exists: %s", adminEmail)
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
