// Package config provides hierarchical configuration loading for the
// relay server. Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Config holds all runtime configuration.
type Config struct {
	Server    Server    `yaml:"server"`
	Webhook   Webhook   `yaml:"webhook"`
	Notify    Notify    `yaml:"notify"`
	Cache     Cache     `yaml:"cache"`
	Telemetry Telemetry `yaml:"telemetry"`
	Logging   Logging   `yaml:"logging"`
}

// Server holds the main HTTP/WebSocket listener configuration.
type Server struct {
	Port       string `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"`
}

// Webhook holds the inbound webhook surface configuration. When Port is
// set, webhooks get their own listener (the original deployment ran the
// relay on :3000 and the webhook on :3335); otherwise they share the
// main one.
type Webhook struct {
	Port         string        `yaml:"port"`
	SentrySecret string        `yaml:"sentry_secret"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	DedupTTL     time.Duration `yaml:"dedup_ttl"`
}

// Notify holds outbound notification configuration. Empty values
// disable the corresponding integration.
type Notify struct {
	ShortcutURL    string `yaml:"shortcut_url"`
	ShortcutToken  string `yaml:"shortcut_token"`
	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID string `yaml:"telegram_chat_id"`
}

// Cache holds the in-process dedup cache configuration.
type Cache struct {
	MaxSizeMB int64 `yaml:"max_size_mb"`
}

// Telemetry holds OpenTelemetry export configuration.
type Telemetry struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"` // "json" or "text"
	Service string `yaml:"service"`
}

// Defaults returns a Config with sensible defaults for local use.
func Defaults() Config {
	return Config{
		Server: Server{
			Port:       "3000",
			CORSOrigin: "*",
		},
		Webhook: Webhook{
			MaxBodyBytes: 1 << 20,
			DedupTTL:     10 * time.Minute,
		},
		Cache: Cache{
			MaxSizeMB: 16,
		},
		Telemetry: Telemetry{
			Endpoint: "localhost:4317",
		},
		Logging: Logging{
			Level:   "info",
			Format:  "text",
			Service: "websocket-relay",
		},
	}
}
