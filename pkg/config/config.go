package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	EventLog   EventLogConfig
	Reference  ReferenceConfig
	Monitoring MonitoringConfig
	Predict    PredictConfig
	Redis      RedisConfig
	OTEL       OTELConfig
	Env        string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// EventLogConfig holds inference event log configuration
type EventLogConfig struct {
	Path string
}

// ReferenceConfig holds reference (training baseline) dataset configuration
type ReferenceConfig struct {
	Path string
}

// MonitoringConfig holds drift and feedback monitoring configuration
type MonitoringConfig struct {
	AlertThreshold float64
	HistogramBins  int
	SnapshotTTL    time.Duration
}

// PredictConfig holds prediction endpoint configuration for the evaluator
type PredictConfig struct {
	URL     string
	Timeout time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	Enabled  bool
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from the environment, reading a .env file first
// when one is present
func Load() (*Config, error) {
	_ = godotenv.Load()

	threshold := getEnvAsFloat("ALERT_THRESHOLD", 0.80)
	if threshold <= 0 || threshold > 1 {
		return nil, fmt.Errorf("ALERT_THRESHOLD must be in (0, 1], got %v", threshold)
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8000),
		},
		EventLog: EventLogConfig{
			Path: getEnv("PREDICTION_LOG_PATH", "logs/prediction_logs.json"),
		},
		Reference: ReferenceConfig{
			Path: getEnv("REFERENCE_DATASET_PATH", "data/reference_reviews.csv"),
		},
		Monitoring: MonitoringConfig{
			AlertThreshold: threshold,
			HistogramBins:  getEnvAsInt("DRIFT_HISTOGRAM_BINS", 20),
			SnapshotTTL:    time.Duration(getEnvAsInt("SNAPSHOT_TTL_SECONDS", 15)) * time.Second,
		},
		Predict: PredictConfig{
			URL:     getEnv("PREDICT_URL", "http://localhost:8000/predict"),
			Timeout: time.Duration(getEnvAsInt("PREDICT_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "sentiment-monitor"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Env: getEnv("APP_ENV", "development"),
	}, nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ServerAddr returns the HTTP listen address
func (c *ServerConfig) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
