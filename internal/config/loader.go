package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "relay.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// The YAML file is optional; a missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg. Returns nil
// if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg. Only non-empty
// values override. The SHORTCUT_* and SENTRY_SECRET names predate this
// server and are kept for deployment compatibility.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.CORSOrigin, "RELAY_CORS_ORIGIN")
	setString(&cfg.Webhook.Port, "WEBHOOK_PORT")
	setString(&cfg.Webhook.SentrySecret, "SENTRY_SECRET")
	setInt64(&cfg.Webhook.MaxBodyBytes, "RELAY_WEBHOOK_MAX_BODY")
	setDuration(&cfg.Webhook.DedupTTL, "RELAY_WEBHOOK_DEDUP_TTL")
	setString(&cfg.Notify.ShortcutURL, "SHORTCUT_URL")
	setString(&cfg.Notify.ShortcutToken, "SHORTCUT_API_TOKEN")
	setString(&cfg.Notify.TelegramToken, "TELEGRAM_BOT_TOKEN")
	setString(&cfg.Notify.TelegramChatID, "TELEGRAM_CHAT_ID")
	setInt64(&cfg.Cache.MaxSizeMB, "RELAY_CACHE_SIZE_MB")
	setBool(&cfg.Telemetry.Enabled, "RELAY_OTEL_ENABLED")
	setString(&cfg.Telemetry.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setString(&cfg.Logging.Level, "LOG_LEVEL")
	setString(&cfg.Logging.Format, "LOG_FORMAT")
	setString(&cfg.Logging.Service, "RELAY_LOG_SERVICE")
}

// validate rejects configurations the server cannot start with.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server port is required")
	}
	if cfg.Webhook.MaxBodyBytes <= 0 {
		return errors.New("webhook max_body_bytes must be positive")
	}
	if cfg.Webhook.DedupTTL <= 0 {
		return errors.New("webhook dedup_ttl must be positive")
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", cfg.Logging.Format)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = parsed
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			*dst = parsed
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}
