package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Environment string
	LogLevel    string
	LogFormat   string
	ServiceName string
	Version     string

	DiscordToken   string
	DiscordAppID   string
	DiscordGuildID string // empty registers commands globally

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	OpsPort int // health + metrics HTTP server
}

// Load loads the configuration from environment variables.
// A .env file is honored when present but not required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		ServiceName: getEnv("SERVICE_NAME", "barkeep"),
		Version:     getEnv("VERSION", "dev"),

		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordAppID:   os.Getenv("DISCORD_APP_ID"),
		DiscordGuildID: os.Getenv("DISCORD_GUILD_ID"),

		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "barkeep"),
	}

	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is required")
	}
	if cfg.DiscordAppID == "" {
		return nil, fmt.Errorf("DISCORD_APP_ID is required")
	}

	opsPort, err := strconv.Atoi(getEnv("OPS_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid OPS_PORT value: %w", err)
	}
	cfg.OpsPort = opsPort

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// DBConnString returns the PostgreSQL connection string
func (c *Config) DBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
