package cmd

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Config holds every setting of the service. LoadConfig fills it from the
// environment; unset variables fall back to the defaults below.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	ModelDir string

	CrewEndpointURL     string
	DispatchTimeout     time.Duration
	DispatchConcurrency int

	MonitorEnabled  bool
	MonitorInterval time.Duration
	ScanConcurrency int

	KafkaHost           string
	KafkaExceptionTopic string
	KafkaPublishTimeout time.Duration

	LogLevel slog.Level
}

var defaults = map[string]string{
	"HTTP_PORT":             "8002",
	"DB_HOST":               "localhost",
	"DB_PORT":               "5432",
	"DB_USER":               "postgres",
	"DB_PASSWORD":           "",
	"DB_NAME":               "logistics",
	"DB_SSLMODE":            "disable",
	"MODEL_DIR":             "models",
	"CREW_ENDPOINT_URL":     "http://localhost:9000/message:send",
	"DISPATCH_TIMEOUT":      "30s",
	"DISPATCH_CONCURRENCY":  "10",
	"MONITOR_ENABLED":       "true",
	"MONITOR_INTERVAL":      "5m",
	"SCAN_CONCURRENCY":      "8",
	"KAFKA_HOST":            "",
	"KAFKA_EXCEPTION_TOPIC": "shipment.exceptions",
	"KAFKA_PUBLISH_TIMEOUT": "5s",
	"LOG_LEVEL":             "info",
}

// LoadConfig reads the configuration through getenv, usually os.Getenv.
func LoadConfig(getenv func(string) string) (Config, error) {
	get := func(key string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return defaults[key]
	}

	cfg := Config{
		HTTPPort:            get("HTTP_PORT"),
		DBHost:              get("DB_HOST"),
		DBPort:              get("DB_PORT"),
		DBUser:              get("DB_USER"),
		DBPassword:          get("DB_PASSWORD"),
		DBName:              get("DB_NAME"),
		DBSslMode:           get("DB_SSLMODE"),
		ModelDir:            get("MODEL_DIR"),
		CrewEndpointURL:     get("CREW_ENDPOINT_URL"),
		KafkaHost:           get("KAFKA_HOST"),
		KafkaExceptionTopic: get("KAFKA_EXCEPTION_TOPIC"),
	}

	var err error
	if cfg.DispatchTimeout, err = parseDuration("DISPATCH_TIMEOUT", get("DISPATCH_TIMEOUT")); err != nil {
		return Config{}, err
	}
	if cfg.MonitorInterval, err = parseDuration("MONITOR_INTERVAL", get("MONITOR_INTERVAL")); err != nil {
		return Config{}, err
	}
	if cfg.MonitorInterval < time.Second {
		return Config{}, fmt.Errorf("MONITOR_INTERVAL must be at least 1s, got %s", cfg.MonitorInterval)
	}
	if cfg.KafkaPublishTimeout, err = parseDuration("KAFKA_PUBLISH_TIMEOUT", get("KAFKA_PUBLISH_TIMEOUT")); err != nil {
		return Config{}, err
	}
	if cfg.DispatchConcurrency, err = parsePositiveInt("DISPATCH_CONCURRENCY", get("DISPATCH_CONCURRENCY")); err != nil {
		return Config{}, err
	}
	if cfg.ScanConcurrency, err = parsePositiveInt("SCAN_CONCURRENCY", get("SCAN_CONCURRENCY")); err != nil {
		return Config{}, err
	}
	if cfg.MonitorEnabled, err = strconv.ParseBool(get("MONITOR_ENABLED")); err != nil {
		return Config{}, fmt.Errorf("MONITOR_ENABLED: %w", err)
	}
	if err = cfg.LogLevel.UnmarshalText([]byte(get("LOG_LEVEL"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

// DSN returns the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// KafkaBrokers splits KAFKA_HOST on commas. Empty means no Kafka sink.
func (c Config) KafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaHost, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseDuration(key, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, raw)
	}
	return d, nil
}

func parsePositiveInt(key, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, n)
	}
	return n, nil
}
