// Package config loads service settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// maxFetchConcurrency caps parallel candidate fetches to keep load on
// the NASA POWER API within polite bounds.
const maxFetchConcurrency = 8

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// NASA POWER historical source.
	PowerBaseURL    string        `envconfig:"POWER_BASE_URL" default:"https://power.larc.nasa.gov/api/temporal/daily/point"`
	PowerTimeout    time.Duration `envconfig:"POWER_TIMEOUT" default:"30s"`
	PowerMaxRetries int           `envconfig:"POWER_MAX_RETRIES" default:"2"`
	HistoricalYears int           `envconfig:"HISTORICAL_YEARS" default:"20"`
	CacheSize       int           `envconfig:"HISTORICAL_CACHE_SIZE" default:"1000"`

	// Open-Meteo forecast source.
	OpenMeteoBaseURL string        `envconfig:"OPENMETEO_BASE_URL" default:"https://api.open-meteo.com/v1/forecast"`
	OpenMeteoTimeout time.Duration `envconfig:"OPENMETEO_TIMEOUT" default:"15s"`

	// Best-window search.
	FetchConcurrency int `envconfig:"SEARCH_FETCH_CONCURRENCY" default:"8"`

	// Default risk thresholds, overridable per request.
	HotThresholdC   float64 `envconfig:"HOT_THRESHOLD_C" default:"32"`
	RainThresholdMM float64 `envconfig:"RAIN_THRESHOLD_MM" default:"10"`
	ColdThresholdC  float64 `envconfig:"COLD_THRESHOLD_C" default:"5"`

	// Optional Kafka publishing of completed assessments.
	KafkaEnabled bool     `envconfig:"KAFKA_ENABLED" default:"false"`
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"risk-assessments"`
}

// Load reads configuration from environment variables, applying
// defaults where unset.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if cfg.ShutdownTimeout <= 0 {
		return nil, errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	if cfg.PowerTimeout <= 0 || cfg.OpenMeteoTimeout <= 0 {
		return nil, errors.New("upstream timeouts must be positive")
	}
	if cfg.PowerMaxRetries < 0 {
		return nil, errors.New("POWER_MAX_RETRIES must not be negative")
	}
	if cfg.HistoricalYears < 1 {
		return nil, errors.New("HISTORICAL_YEARS must be at least 1")
	}
	if cfg.CacheSize < 1 {
		return nil, errors.New("HISTORICAL_CACHE_SIZE must be at least 1")
	}
	if cfg.FetchConcurrency < 1 || cfg.FetchConcurrency > maxFetchConcurrency {
		return nil, fmt.Errorf("SEARCH_FETCH_CONCURRENCY must be between 1 and %d", maxFetchConcurrency)
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaTopic == "" {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
		}
	}

	return &cfg, nil
}
