package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	AI       AIConfig
	Uploads  UploadsConfig
	JWT      JWTConfig
	Mail     MailConfig
	Worker   WorkerConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Addr string
}

// AIConfig holds completion-backend configuration. Service selects the
// backend adapter: "ollama" or "huggingface".
type AIConfig struct {
	Service     string
	BaseURL     string
	Model       string
	AccessToken string
	Temperature float32
	Timeout     time.Duration
}

// UploadsConfig holds upload intake configuration
type UploadsConfig struct {
	Directory   string
	MaxFileSize int64
}

// JWTConfig holds token signing configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

// MailConfig holds verification-email configuration
type MailConfig struct {
	APIKey      string
	FromEmail   string
	FromName    string
	FrontendURL string
}

// WorkerConfig holds background-queue configuration
type WorkerConfig struct {
	Workers        int
	QueueSize      int
	ProcessTimeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Server: ServerConfig{
			Addr: ":" + getEnv("PORT", "5001"),
		},
		AI: AIConfig{
			Service:     getEnv("AI_SERVICE", "ollama"),
			BaseURL:     getEnv("AI_BASE_URL", "http://localhost:11434"),
			Model:       getEnv("AI_MODEL", "llama2"),
			AccessToken: getEnv("AI_ACCESS_TOKEN", ""),
			Temperature: getEnvAsFloat32("AI_TEMPERATURE", 0.3),
			Timeout:     getEnvAsDuration("AI_TIMEOUT", 120*time.Second),
		},
		Uploads: UploadsConfig{
			Directory:   getEnv("UPLOADS_DIR", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10<<20),
		},
		JWT: JWTConfig{
			Secret:    getEnv("JWT_SECRET", ""),
			ExpiresIn: getEnvAsDuration("JWT_EXPIRES_IN", 7*24*time.Hour),
		},
		Mail: MailConfig{
			APIKey:      getEnv("MAILERSEND_API_KEY", ""),
			FromEmail:   getEnv("FROM_EMAIL", "noreply@budgetwise.com"),
			FromName:    getEnv("FROM_NAME", "BudgetWise"),
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5001"),
		},
		Worker: WorkerConfig{
			Workers:        getEnvAsInt("WORKERS", 4),
			QueueSize:      getEnvAsInt("QUEUE_SIZE", 256),
			ProcessTimeout: getEnvAsDuration("PROCESS_TIMEOUT", 5*time.Minute),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DATABASE_URL is required", ErrInvalidInput)
	}
	if c.JWT.Secret == "" {
		return NewAppError("CONFIG_ERROR", "JWT_SECRET is required", ErrInvalidInput)
	}
	if c.AI.Service != "ollama" && c.AI.Service != "huggingface" {
		return NewAppError("CONFIG_ERROR", "AI_SERVICE must be ollama or huggingface", ErrInvalidInput)
	}
	if c.AI.BaseURL == "" {
		return NewAppError("CONFIG_ERROR", "AI_BASE_URL is required", ErrInvalidInput)
	}
	return nil
}
