package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/tournevent/pochta/pkg/pochta"
	"github.com/tournevent/pochta/pkg/tracking"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the CLI.
type Config struct {
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	MetricsPort int    `envconfig:"METRICS_PORT" default:"9090"`

	// Otpravka REST API
	PochtaLogin       string        `envconfig:"POCHTA_LOGIN"`
	PochtaPassword    string        `envconfig:"POCHTA_PASSWORD"`
	PochtaAccessToken string        `envconfig:"POCHTA_ACCESS_TOKEN"`
	PochtaBaseURL     string        `envconfig:"POCHTA_BASE_URL" default:"https://otpravka-api.pochta.ru"`
	PochtaTimeout     time.Duration `envconfig:"POCHTA_TIMEOUT" default:"30s"`
	PochtaUseMock     bool          `envconfig:"POCHTA_USE_MOCK" default:"false"`

	// Tracking SOAP API
	TrackingLogin     string        `envconfig:"TRACKING_LOGIN"`
	TrackingPassword  string        `envconfig:"TRACKING_PASSWORD"`
	TrackingSingleURL string        `envconfig:"TRACKING_SINGLE_URL" default:"https://tracking.russianpost.ru/rtm34"`
	TrackingBatchURL  string        `envconfig:"TRACKING_BATCH_URL" default:"https://tracking.russianpost.ru/fc"`
	TrackingTimeout   time.Duration `envconfig:"TRACKING_TIMEOUT" default:"30s"`
	TrackingUseMock   bool          `envconfig:"TRACKING_USE_MOCK" default:"false"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"pochta"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// Pochta returns the REST client configuration.
func (c *Config) Pochta() pochta.Config {
	return pochta.Config{
		Login:       c.PochtaLogin,
		Password:    c.PochtaPassword,
		AccessToken: c.PochtaAccessToken,
		BaseURL:     c.PochtaBaseURL,
		Timeout:     c.PochtaTimeout,
		UseMock:     c.PochtaUseMock,
	}
}

// Tracking returns the tracking client configuration.
func (c *Config) Tracking() tracking.Config {
	return tracking.Config{
		Login:     c.TrackingLogin,
		Password:  c.TrackingPassword,
		SingleURL: c.TrackingSingleURL,
		BatchURL:  c.TrackingBatchURL,
		Timeout:   c.TrackingTimeout,
		UseMock:   c.TrackingUseMock,
	}
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.String("pochta.base_url", c.PochtaBaseURL),
		attribute.Bool("pochta.use_mock", c.PochtaUseMock),
		attribute.Bool("tracking.use_mock", c.TrackingUseMock),
	}
}
