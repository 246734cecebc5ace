package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters and is passed
// explicitly to the components that need it.
type Config struct {
	Port      string
	Env       string
	JWTSecret string

	// UploadsDir is the shared filesystem area for comprobantes, product
	// images and generated invoices. Created at startup if missing.
	UploadsDir string

	DB         DatabaseConfig
	Redis      RedisConfig
	Recurrente RecurrenteConfig
	Invoice    InvoiceConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// RecurrenteConfig contains API keys for the Recurrente checkout integration.
type RecurrenteConfig struct {
	PublicKey  string
	SecretKey  string
	SuccessURL string
	CancelURL  string
}

// InvoiceConfig contains branding values rendered on invoice PDFs.
type InvoiceConfig struct {
	WhatsAppNumber string // international format without '+'
	BrandName      string
	ContactLine    string
	TagLine        string
	LogoPath       string
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory it is loaded first; a missing file is not an error
// so production environments relying solely on real environment variables
// keep working.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:       getEnv("PORT", "3000"),
		Env:        getEnv("ENV", "development"),
		JWTSecret:  getEnv("JWT_SECRET", ""),
		UploadsDir: getEnv("UPLOADS_DIR", "uploads"),
	}

	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	cfg.Recurrente = RecurrenteConfig{
		PublicKey:  getEnv("PUBLICKEY", ""),
		SecretKey:  getEnv("SECRETKEY", ""),
		SuccessURL: getEnv("RECURRENTE_SUCCESS_URL", "https://www.google.com"),
		CancelURL:  getEnv("RECURRENTE_CANCEL_URL", "https://www.amazon.com"),
	}

	cfg.Invoice = InvoiceConfig{
		WhatsAppNumber: getEnv("INVOICE_WHATSAPP", "50249998437"),
		BrandName:      getEnv("INVOICE_BRAND", "MVTech - Soluciones Digitales"),
		ContactLine:    getEnv("INVOICE_CONTACT", "www.mvtechgt.com | ventas@mvtechgt.com | +502 49998437"),
		TagLine:        getEnv("INVOICE_TAGLINE", "Jesús Mi Buen Pastor"),
		LogoPath:       getEnv("INVOICE_LOGO", "assets/logoBlue.png"),
	}

	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a
// default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
