package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/tournevent/pochta/internal/config"
	"github.com/tournevent/pochta/internal/telemetry"
	"github.com/tournevent/pochta/pkg/pochta"
	"github.com/tournevent/pochta/pkg/tracking"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// app carries what every command needs: configuration and telemetry.
type app struct {
	cfg      *config.Config
	logger   *otelzap.Logger
	tracer   trace.Tracer
	registry *prometheus.Registry
	metrics  *telemetry.Metrics
	shutdown func(context.Context) error
}

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

func initTracer(ctx context.Context, cfg *config.Config) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return otel.Tracer(cfg.ServiceName), func(context.Context) error { return nil }, nil
	}

	return telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version, cfg.Attributes()...)
}

// newApp loads configuration and telemetry for cmd. The caller must call
// close when the command is done.
func newApp(cmd *cobra.Command) (*app, error) {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	tracer, shutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
		tracer = otel.Tracer(cfg.ServiceName)
		shutdown = func(context.Context) error { return nil }
	}

	registry := prometheus.NewRegistry()

	return &app{
		cfg:      cfg,
		logger:   logger,
		tracer:   tracer,
		registry: registry,
		metrics:  telemetry.NewMetrics(registry),
		shutdown: shutdown,
	}, nil
}

func (a *app) close(ctx context.Context) {
	if err := a.shutdown(ctx); err != nil {
		a.logger.Warn("Failed to flush traces", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func (a *app) pochtaClient() *pochta.Client {
	cfg := a.cfg.Pochta()
	cfg.Metrics = a.metrics.Recorder(telemetry.APIPochta)
	return pochta.New(cfg, a.logger, a.tracer)
}

func (a *app) trackingClient() *tracking.Client {
	cfg := a.cfg.Tracking()
	cfg.Metrics = a.metrics.Recorder(telemetry.APITracking)
	return tracking.New(cfg, a.logger, a.tracer)
}

// withPochta runs fn with a REST client and prints its result as JSON.
func withPochta(cmd *cobra.Command, fn func(ctx context.Context, c *pochta.Client) (any, error)) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close(cmd.Context())

	client := a.pochtaClient()
	defer client.Close()

	result, err := fn(cmd.Context(), client)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

// withTracking runs fn with a tracking client and prints its result as JSON.
func withTracking(cmd *cobra.Command, fn func(ctx context.Context, a *app, c *tracking.Client) (any, error)) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close(cmd.Context())

	client := a.trackingClient()
	defer client.Close()

	result, err := fn(cmd.Context(), a, client)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
