package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Scheduler
	SchedulerAPIKey   string
	GeneratorInterval time.Duration
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Get values from environment variables with defaults
	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "vaadly"),
		DBPassword: getEnv("DB_PASSWORD", "vaadly"),
		DBName:     getEnv("DB_NAME", "vaadly"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Scheduler API key protects the generation/rollover trigger
		// endpoints. Empty means those endpoints are disabled.
		SchedulerAPIKey: getEnv("SCHEDULER_API_KEY", ""),
	}

	// Parse generator interval; the daily trigger is the intended cadence
	intervalStr := getEnv("GENERATOR_INTERVAL", "24h")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		log.Printf("Warning: invalid GENERATOR_INTERVAL value '%s', falling back to 24h\n", intervalStr)
		interval = 24 * time.Hour
	}
	config.GeneratorInterval = interval

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
