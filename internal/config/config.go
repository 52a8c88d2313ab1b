package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"clinicsetup/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	AI      AIConfig
	Server  ServerConfig
	Storage StorageConfig
	Import  ImportConfig
	Log     LogConfig
}

// AIConfig holds extraction collaborator settings
type AIConfig struct {
	OpenAIKey         string
	Model             string
	BaseURL           string
	ReasoningEffort   string
	ExtractionTimeout time.Duration
	PromptsDir        string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// StorageConfig holds upload storage settings
type StorageConfig struct {
	UploadDir       string
	UploadRetention time.Duration
}

// ImportConfig holds import pipeline limits
type ImportConfig struct {
	MaxUploadBytes int64
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables and validates it.
// The given env files, or ./.env when none are given, are loaded first
// when they exist; variables already set in the environment win.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "failed to load env file")
	}

	timeout, err := getEnvDurationOrError("EXTRACTION_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	retention, err := getEnvDurationOrError("UPLOAD_RETENTION", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	config := &Config{
		AI: AIConfig{
			OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
			Model:             getEnvOrDefault("LLM_MODEL", "o3-mini"),
			BaseURL:           getEnvOrDefault("LLM_BASE_URL", "https://api.openai.com/v1"),
			ReasoningEffort:   getEnvOrDefault("LLM_REASONING_EFFORT", "high"),
			ExtractionTimeout: timeout,
			PromptsDir:        getEnvOrDefault("PROMPTS_DIR", ""),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Storage: StorageConfig{
			UploadDir:       getEnvOrDefault("UPLOAD_DIR", "./uploads"),
			UploadRetention: retention,
		},
		Import: ImportConfig{
			MaxUploadBytes: getEnvInt64OrDefault("MAX_UPLOAD_BYTES", 10<<20),
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "INFO"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// RequireExtraction checks the settings needed to call the extraction
// collaborator.
func (c *Config) RequireExtraction() error {
	if c.AI.OpenAIKey == "" {
		return errors.ConfigInvalid("OPENAI_API_KEY is required")
	}
	return nil
}

func validateConfig(config *Config) error {
	if config.AI.ExtractionTimeout <= 0 {
		return errors.ConfigInvalid("EXTRACTION_TIMEOUT must be positive")
	}
	if config.Import.MaxUploadBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_BYTES must be positive")
	}
	if config.Storage.UploadDir == "" {
		return errors.ConfigInvalid("UPLOAD_DIR is required")
	}
	switch strings.ToLower(config.AI.ReasoningEffort) {
	case "", "low", "medium", "high":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("LLM_REASONING_EFFORT %q is not one of low, medium, high", config.AI.ReasoningEffort))
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("GIN_MODE %q is not one of debug, release, test", config.Server.GinMode))
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrError(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s: %v", key, err))
	}
	return duration, nil
}
