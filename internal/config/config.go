package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port           int
	GinMode        string
	AllowedOrigins []string

	// Extraction service configuration
	VeryfiClientID string
	VeryfiUsername string
	VeryfiAPIKey   string
	VeryfiAPIURL   string
	VeryfiTimeout  time.Duration

	// Store configuration
	StoreDriver   string // "postgres" or "bolt"
	PostgresDBURL string
	BoltPath      string

	// Auth configuration
	JWTSecret        string
	AccessExpiration time.Duration

	// Image archive configuration
	ArchiveEnabled bool
	S3Region       string
	S3Bucket       string
}

// LoadConfig loads the application configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env file. Using environment variables.")
	}

	config := &Config{
		Port:           getEnvInt("PORT", 8080),
		GinMode:        getEnvString("GIN_MODE", "debug"),
		AllowedOrigins: getEnvStringSlice("ALLOWED_ORIGINS", []string{"*"}),

		VeryfiClientID: os.Getenv("VERYFI_CLIENT_ID"),
		VeryfiUsername: os.Getenv("VERYFI_USERNAME"),
		VeryfiAPIKey:   os.Getenv("VERYFI_API_KEY"),
		VeryfiAPIURL:   getEnvString("VERYFI_API_URL", "https://api.veryfi.com/api/v8/partner/documents/"),
		VeryfiTimeout:  time.Duration(getEnvInt("VERYFI_TIMEOUT", 60)) * time.Second,

		StoreDriver:   getEnvString("STORE_DRIVER", "postgres"),
		PostgresDBURL: os.Getenv("POSTGRES_DB_URL"),
		BoltPath:      getEnvString("BOLT_PATH", "wastewise.db"),

		JWTSecret:        os.Getenv("JWT_SECRET"),
		AccessExpiration: time.Duration(getEnvInt("ACCESS_EXPIRATION_MINUTES", 60)) * time.Minute,

		ArchiveEnabled: getEnvBool("ARCHIVE_ENABLED", false),
		S3Region:       getEnvString("S3_REGION", "us-east-1"),
		S3Bucket:       os.Getenv("S3_BUCKET"),
	}

	validateConfig(config)

	return config, nil
}

// validateConfig checks if critical configuration values are set and logs warnings if they're missing
func validateConfig(config *Config) {
	if config.VeryfiClientID == "" || config.VeryfiAPIKey == "" {
		log.Println("Warning: Veryfi credentials are not fully set. Receipt scanning will fail.")
	}

	if config.StoreDriver == "postgres" && config.PostgresDBURL == "" {
		log.Println("Warning: No Postgres URL provided. Receipt persistence will fail.")
	}

	if config.JWTSecret == "" {
		log.Println("Warning: No JWT secret provided. Authenticated endpoints will reject all requests.")
	}

	if config.ArchiveEnabled && config.S3Bucket == "" {
		log.Println("Warning: Image archive enabled but no S3 bucket provided. Archiving will fail.")
	}
}

// getEnvInt gets an integer from an environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// getEnvBool gets a boolean from an environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	valueStr = strings.ToLower(valueStr)
	return valueStr == "true" || valueStr == "1" || valueStr == "yes"
}

// getEnvString gets a string from an environment variable with a default value
func getEnvString(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvStringSlice gets a string slice from a comma-separated environment variable
func getEnvStringSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	return strings.Split(valueStr, ",")
}
