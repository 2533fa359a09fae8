package config

import (
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Register  RegisterConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

// RegisterConfig carries the point-of-sale behavior knobs. Branch settings
// override the pricing fields per branch; these are the fallbacks used when
// seeding a new branch.
type RegisterConfig struct {
	Currency          string
	DecimalPlaces     int32
	InvoicePrefix     string
	TaxEnabled        bool
	TaxRate           decimal.Decimal
	TaxIncluded       bool
	TaxPerItem        bool
	AllowOversell     bool
	ClearAfterSale    bool
	LoyaltyEnabled    bool
	PointsPerCurrency decimal.Decimal
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "register-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "register")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Africa/Nairobi")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("REGISTER_CURRENCY", "KES")
	viper.SetDefault("REGISTER_DECIMAL_PLACES", 2)
	viper.SetDefault("REGISTER_INVOICE_PREFIX", "INV-")
	viper.SetDefault("REGISTER_TAX_ENABLED", true)
	viper.SetDefault("REGISTER_TAX_RATE", "16")
	viper.SetDefault("REGISTER_TAX_INCLUDED", false)
	viper.SetDefault("REGISTER_TAX_PER_ITEM", false)
	viper.SetDefault("REGISTER_ALLOW_OVERSELL", false)
	viper.SetDefault("REGISTER_CLEAR_AFTER_SALE", true)
	viper.SetDefault("REGISTER_LOYALTY_ENABLED", false)
	viper.SetDefault("REGISTER_POINTS_PER_CURRENCY", "0.01")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		Register: RegisterConfig{
			Currency:          viper.GetString("REGISTER_CURRENCY"),
			DecimalPlaces:     viper.GetInt32("REGISTER_DECIMAL_PLACES"),
			InvoicePrefix:     viper.GetString("REGISTER_INVOICE_PREFIX"),
			TaxEnabled:        viper.GetBool("REGISTER_TAX_ENABLED"),
			TaxRate:           mustDecimal(viper.GetString("REGISTER_TAX_RATE")),
			TaxIncluded:       viper.GetBool("REGISTER_TAX_INCLUDED"),
			TaxPerItem:        viper.GetBool("REGISTER_TAX_PER_ITEM"),
			AllowOversell:     viper.GetBool("REGISTER_ALLOW_OVERSELL"),
			ClearAfterSale:    viper.GetBool("REGISTER_CLEAR_AFTER_SALE"),
			LoyaltyEnabled:    viper.GetBool("REGISTER_LOYALTY_ENABLED"),
			PointsPerCurrency: mustDecimal(viper.GetString("REGISTER_POINTS_PER_CURRENCY")),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
	}
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		log.Printf("Warning: invalid decimal %q in config, using 0", s)
		return decimal.Zero
	}
	return d
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
