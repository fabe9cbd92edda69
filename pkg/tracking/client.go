// Package tracking is a client for the Russian Post tracking service. Single
// tracking returns the history of one postal item immediately. Batch tracking
// is a two-phase protocol: Ticket submits up to MaxTicketBarcodes barcodes
// and ResponseByTicket collects the answer later. The service expects callers
// to wait TicketPollInterval between asks; this client does not wait or
// retry on its own.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/tournevent/pochta/pkg/tracking"

// ErrInvalidArgument is wrapped by errors reported for caller input before any
// request is sent.
var ErrInvalidArgument = errors.New("tracking: invalid argument")

// Recorder receives one observation per API call.
type Recorder interface {
	RecordRequest(operation, status string, duration time.Duration)
}

// Config holds tracking service configuration.
type Config struct {
	Login     string
	Password  string
	SingleURL string
	BatchURL  string
	Timeout   time.Duration
	UseMock   bool     // When true, uses mock API client
	Metrics   Recorder // Optional
}

// Client is the tracking service client.
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new tracking client.
// If cfg.UseMock is true, it uses a mock API client for testing.
// Otherwise, it uses the real SOAP API client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewSOAPAPIClient(SOAPAPIClientConfig{
			SingleURL: cfg.SingleURL,
			BatchURL:  cfg.BatchURL,
			Login:     cfg.Login,
			Password:  cfg.Password,
			Timeout:   cfg.Timeout,
		})
	}

	return NewWithAPIClient(cfg, apiClient, logger, tracer)
}

// NewWithAPIClient creates a new tracking client with a custom API client.
// This is useful for injecting mock clients in tests.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}
	if tracer == nil {
		tracer = otel.Tracer(instrumentationName)
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// Close releases the connection pool of the production transport.
func (c *Client) Close() error {
	if closer, ok := c.apiClient.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// History returns every operation registered for a barcode, oldest first.
// An item with no operations yet yields an empty slice.
func (c *Client) History(ctx context.Context, barcode string) ([]HistoryRecord, error) {
	if barcode == "" {
		return nil, fmt.Errorf("%w: empty barcode", ErrInvalidArgument)
	}

	ctx, finish := c.start(ctx, "history", attribute.String("tracking.barcode", barcode))
	records, err := c.apiClient.OperationHistory(ctx, barcode)
	finish(err)
	if err != nil {
		return nil, err
	}

	c.logger.Ctx(ctx).Debug("Tracking history received",
		zap.String("barcode", barcode),
		zap.Int("record_count", len(records)),
	)
	return records, nil
}

// PostalOrderEvents returns the cash-on-delivery money order events linked
// to a postal item.
func (c *Client) PostalOrderEvents(ctx context.Context, barcode string) ([]PostalOrderEvent, error) {
	if barcode == "" {
		return nil, fmt.Errorf("%w: empty barcode", ErrInvalidArgument)
	}

	ctx, finish := c.start(ctx, "postal_order_events", attribute.String("tracking.barcode", barcode))
	events, err := c.apiClient.PostalOrderEvents(ctx, barcode)
	finish(err)
	return events, err
}

// Ticket submits barcodes for batch tracking and returns the ticket. Between
// 1 and MaxTicketBarcodes barcodes are accepted. An error reported by the
// service is returned as *APIError.
func (c *Client) Ticket(ctx context.Context, barcodes []string) (string, error) {
	switch {
	case len(barcodes) == 0:
		return "", fmt.Errorf("%w: no barcodes", ErrInvalidArgument)
	case len(barcodes) > MaxTicketBarcodes:
		return "", fmt.Errorf("%w: %d barcodes, at most %d per ticket", ErrInvalidArgument, len(barcodes), MaxTicketBarcodes)
	}

	ctx, finish := c.start(ctx, "ticket", attribute.Int("tracking.barcode_count", len(barcodes)))
	ticket, err := c.apiClient.Ticket(ctx, barcodes)
	finish(err)
	if err != nil {
		return "", err
	}

	c.logger.Ctx(ctx).Info("Tracking ticket issued",
		zap.String("ticket", ticket),
		zap.Int("barcode_count", len(barcodes)),
	)
	return ticket, nil
}

// ResponseByTicket collects the answer prepared for a ticket. Per-barcode
// failures are left in TicketItem.Error; only a failure of the whole request
// is returned as an error.
func (c *Client) ResponseByTicket(ctx context.Context, ticket string) ([]TicketItem, error) {
	if ticket == "" {
		return nil, fmt.Errorf("%w: empty ticket", ErrInvalidArgument)
	}

	ctx, finish := c.start(ctx, "response_by_ticket", attribute.String("tracking.ticket", ticket))
	items, err := c.apiClient.ResponseByTicket(ctx, ticket)
	finish(err)
	return items, err
}

// start opens a span for operation and returns a func that ends it, logs a
// failure and records the call.
func (c *Client) start(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := c.tracer.Start(ctx, "tracking."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
	begin := time.Now()

	return ctx, func(err error) {
		defer span.End()

		status := "ok"
		if err != nil {
			status = "error"
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				status = apiErr.Code
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.logger.Ctx(ctx).Error("Tracking API error",
				zap.String("operation", operation),
				zap.String("status", status),
				zap.Error(err),
			)
		}

		if c.config.Metrics != nil {
			c.config.Metrics.RecordRequest(operation, status, time.Since(begin))
		}
	}
}
