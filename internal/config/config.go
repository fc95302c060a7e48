package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/heatwave-ews/internal/domain"
)

// Config holds all service settings, populated from environment variables
// with an optional YAML thresholds file layered on top.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Analytics tuning. Bands and the forecast knobs have documented
	// defaults; THRESHOLDS_FILE points at a YAML override.
	RiskBands       domain.RiskBands
	HorizonDays     int
	TrendWindowDays int
	SyntheticDays   int
	ThresholdsFile  string
}

// thresholdsFile mirrors the YAML override document. Fields left out of the
// file keep their defaults because unmarshalling runs over a prefilled value.
type thresholdsFile struct {
	RiskBands domain.RiskBands `yaml:"risk_bands"`
	Forecast  struct {
		TrendWindowDays    int `yaml:"trend_window_days"`
		DefaultHorizonDays int `yaml:"default_horizon_days"`
	} `yaml:"forecast"`
	Synthetic struct {
		Days int `yaml:"days"`
	} `yaml:"synthetic"`
}

// Load reads configuration from environment variables, applying defaults
// where unset, then layers the thresholds file (if configured) and validates
// the result.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	flushInterval, err := parseDuration("BATCH_FLUSH_INTERVAL", "500ms")
	if err != nil {
		return nil, err
	}
	batchSize, err := parsePositiveInt("BATCH_SIZE", 50)
	if err != nil {
		return nil, err
	}
	horizon, err := parsePositiveInt("FORECAST_HORIZON_DAYS", 5)
	if err != nil {
		return nil, err
	}
	window, err := parsePositiveInt("TREND_WINDOW_DAYS", 7)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:     splitBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic: envOrDefault("KAFKA_SOURCE_TOPIC", "raw-weather-observations"),
		KafkaSinkTopic:   envOrDefault("KAFKA_SINK_TOPIC", "heatwave-alerts"),
		KafkaGroupID:     envOrDefault("KAFKA_GROUP_ID", "heatwave-ews"),
		HTTPAddr:         envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		LogFormat:        envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:  shutdownTimeout,

		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		RiskBands:       domain.DefaultRiskBands(),
		HorizonDays:     horizon,
		TrendWindowDays: window,
		SyntheticDays:   domain.DefaultSyntheticOptions().Days,
		ThresholdsFile:  os.Getenv("THRESHOLDS_FILE"),
	}

	if cfg.ThresholdsFile != "" {
		if err := cfg.applyThresholdsFile(cfg.ThresholdsFile); err != nil {
			return nil, err
		}
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.TrendWindowDays < 2 {
		return nil, errors.New("TREND_WINDOW_DAYS must be at least 2")
	}
	if err := domain.ValidateRiskBands(cfg.RiskBands); err != nil {
		return nil, fmt.Errorf("thresholds: %w", err)
	}

	return cfg, nil
}

// applyThresholdsFile overrides the analytics constants from a YAML file.
func (c *Config) applyThresholdsFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read thresholds file: %w", err)
	}

	tf := thresholdsFile{RiskBands: c.RiskBands}
	tf.Forecast.TrendWindowDays = c.TrendWindowDays
	tf.Forecast.DefaultHorizonDays = c.HorizonDays
	tf.Synthetic.Days = c.SyntheticDays

	if err := yaml.Unmarshal(data, &tf); err != nil {
		return fmt.Errorf("parse thresholds file: %w", err)
	}

	c.RiskBands = tf.RiskBands
	c.TrendWindowDays = tf.Forecast.TrendWindowDays
	c.HorizonDays = tf.Forecast.DefaultHorizonDays
	c.SyntheticDays = tf.Synthetic.Days

	if c.HorizonDays <= 0 {
		return errors.New("thresholds: default_horizon_days must be positive")
	}
	if c.SyntheticDays <= 0 {
		return errors.New("thresholds: synthetic days must be positive")
	}
	return nil
}

// ApplyThresholds layers a thresholds file over the current configuration
// and revalidates the analytics constants. The offline CLI uses it to honor
// a thresholds flag without round-tripping through the environment.
func (c *Config) ApplyThresholds(path string) error {
	if err := c.applyThresholdsFile(path); err != nil {
		return err
	}
	if c.TrendWindowDays < 2 {
		return errors.New("thresholds: trend_window_days must be at least 2")
	}
	if err := domain.ValidateRiskBands(c.RiskBands); err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}
	return nil
}

// ForecastOptions returns the domain options the configuration describes.
func (c *Config) ForecastOptions() domain.ForecastOptions {
	return domain.ForecastOptions{TrendWindowDays: c.TrendWindowDays}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitBrokers(raw string) []string {
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func parseDuration(key, fallback string) (time.Duration, error) {
	raw := envOrDefault(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return n, nil
}
