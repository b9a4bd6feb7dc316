// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the JSON API listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// GRPCAddr is the address of the gRPC health server (e.g. :9090). Empty disables it.
	GRPCAddr string `mapstructure:"GRPC_ADDR"`
	// DatabaseURL is the Postgres DSN. Empty runs the server on in-memory repositories (not allowed in production).
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`

	// RedisAddr enables the OTP resend limiter when set (e.g. localhost:6379).
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// OTPResendCooldown is the minimum gap between two issuance calls for one phone.
	OTPResendCooldown string `mapstructure:"OTP_RESEND_COOLDOWN"`
	// OTPWindow and OTPMaxPerWindow bound issuance calls per phone per window.
	OTPWindow       string `mapstructure:"OTP_WINDOW"`
	OTPMaxPerWindow int    `mapstructure:"OTP_MAX_PER_WINDOW"`

	// Twilio credentials. All three must be set for SMS delivery; otherwise issuance runs in demo mode.
	TwilioAccountSID  string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken   string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber string `mapstructure:"TWILIO_PHONE_NUMBER"`
	// TwilioBaseURL overrides the Twilio API root (tests, proxies).
	TwilioBaseURL string `mapstructure:"TWILIO_BASE_URL"`

	// SMTP settings for contact form delivery. Empty SMTPHost stores messages without mailing them.
	SMTPHost         string `mapstructure:"SMTP_HOST"`
	SMTPPort         int    `mapstructure:"SMTP_PORT"`
	SMTPUsername     string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword     string `mapstructure:"SMTP_PASSWORD"`
	ContactToEmail   string `mapstructure:"CONTACT_TO_EMAIL"`
	ContactFromEmail string `mapstructure:"CONTACT_FROM_EMAIL"`

	// DeliveryPolicyFile is an optional Rego module replacing the built-in serviceable pincode policy.
	DeliveryPolicyFile string `mapstructure:"DELIVERY_POLICY_FILE"`

	// OTLPEndpoint is the OTel collector endpoint; empty keeps no-op providers.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure bool   `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`

	// Telemetry (optional). When Kafka brokers are set, the server emits auth and request events to Kafka.
	// TelemetryKafkaBrokers is a comma-separated list of Kafka broker addresses (e.g. "localhost:9092").
	TelemetryKafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// TelemetryKafkaTopic is the Kafka topic for telemetry events (default mithai-telemetry).
	TelemetryKafkaTopic string `mapstructure:"TELEMETRY_KAFKA_TOPIC"`

	// Worker-only: Loki URL for the telemetry worker to push logs (e.g. http://localhost:3100).
	LokiURL string `mapstructure:"LOKI_URL"`
	// KafkaGroupID is the consumer group ID for the telemetry worker.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("GRPC_ADDR", ":9090")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("APP_ENV", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("OTP_RESEND_COOLDOWN", "30s")
	v.SetDefault("OTP_WINDOW", "10m")
	v.SetDefault("OTP_MAX_PER_WINDOW", 5)
	v.SetDefault("TWILIO_ACCOUNT_SID", "")
	v.SetDefault("TWILIO_AUTH_TOKEN", "")
	v.SetDefault("TWILIO_PHONE_NUMBER", "")
	v.SetDefault("TWILIO_BASE_URL", "https://api.twilio.com/2010-04-01")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("CONTACT_TO_EMAIL", "")
	v.SetDefault("CONTACT_FROM_EMAIL", "no-reply@mithaibhandar.in")
	v.SetDefault("DELIVERY_POLICY_FILE", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("TELEMETRY_KAFKA_TOPIC", "mithai-telemetry")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("LOKI_URL", "")
	v.SetDefault("KAFKA_GROUP_ID", "mithai-telemetry-worker")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.IsProduction() && cfg.DatabaseURL == "" {
		return nil, errors.New("config: DATABASE_URL must be set when APP_ENV=production")
	}
	if cfg.OTPMaxPerWindow <= 0 {
		cfg.OTPMaxPerWindow = 5
	}
	if cfg.SMTPPort <= 0 || cfg.SMTPPort > 65535 {
		return nil, errors.New("config: SMTP_PORT must be between 1 and 65535")
	}

	return &cfg, nil
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "production")
}

// SMSConfigured reports whether all Twilio credentials are present. When false, issuance runs in demo mode.
func (c *Config) SMSConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioPhoneNumber != ""
}

// MailConfigured reports whether contact messages can be mailed.
func (c *Config) MailConfigured() bool {
	return c.SMTPHost != "" && c.ContactToEmail != ""
}

// ResendCooldown parses OTPResendCooldown. Returns 30s if unset or invalid.
func (c *Config) ResendCooldown() time.Duration {
	return parseDurationOr(c.OTPResendCooldown, 30*time.Second)
}

// ResendWindow parses OTPWindow. Returns 10m if unset or invalid.
func (c *Config) ResendWindow() time.Duration {
	return parseDurationOr(c.OTPWindow, 10*time.Minute)
}

// TelemetryKafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if telemetry is enabled (non-empty list) and to create the producer.
func (c *Config) TelemetryKafkaBrokersList() []string {
	if c == nil || c.TelemetryKafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.TelemetryKafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
