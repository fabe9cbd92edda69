// Package pochta is a client for the Russian Post "Otpravka" REST API: the
// order backlog, batches, printed forms, the archive, address/name/phone
// normalization, tariff calculation, post office lookup and account settings.
//
// Every facade method is a single request. Nothing is retried, cached or
// paginated on the caller's behalf.
package pochta

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/tournevent/pochta/pkg/pochta/payload"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/tournevent/pochta/pkg/pochta"

// Config holds Otpravka configuration.
type Config struct {
	Login       string
	Password    string
	AccessToken string // Application token issued in the Otpravka account
	BaseURL     string
	Timeout     time.Duration
	UseMock     bool     // When true, uses mock API client
	Metrics     Recorder // Optional
}

// Client is the Otpravka API client. Auth headers are derived once from the
// credentials in Config and reused for every request.
type Client struct {
	config    Config
	apiClient APIClient
	header    http.Header
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new Otpravka client.
// If cfg.UseMock is true, it uses a mock API client for testing.
// Otherwise, it uses the real HTTP API client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			Timeout: cfg.Timeout,
		})
	}

	return NewWithAPIClient(cfg, apiClient, logger, tracer)
}

// NewWithAPIClient creates a new Otpravka client with a custom API client.
// This is useful for injecting mock clients in tests.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}
	if tracer == nil {
		tracer = otel.Tracer(instrumentationName)
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		header:    authHeader(cfg.Login, cfg.Password, cfg.AccessToken),
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

// Orders returns the backlog facade.
func (c *Client) Orders() *Orders { return NewOrders(c) }

// Batches returns the batch facade.
func (c *Client) Batches() *Batches { return NewBatches(c) }

// Documents returns the printed forms facade.
func (c *Client) Documents() *Documents { return NewDocuments(c) }

// Archive returns the archive facade.
func (c *Client) Archive() *Archive { return NewArchive(c) }

// LongTermArchive returns the long-term archive facade.
func (c *Client) LongTermArchive() *LongTermArchive { return NewLongTermArchive(c) }

// Data returns the normalization, tariff and balance facade.
func (c *Client) Data() *Data { return NewData(c) }

// PostOffices returns the post office lookup facade.
func (c *Client) PostOffices() *PostOffices { return NewPostOffices(c) }

// Settings returns the account settings facade.
func (c *Client) Settings() *Settings { return NewSettings(c) }

// Do sends a request built by NewRequest. It is exported for endpoints that
// have no facade method.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	operation := req.Operation
	if operation == "" {
		operation = "custom"
	}

	ctx, span := c.tracer.Start(ctx, "pochta."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.Path),
		),
	)
	defer span.End()

	log := c.logger.Ctx(ctx)
	log.Debug("Calling Otpravka API",
		zap.String("operation", operation),
		zap.String("method", req.Method),
		zap.String("path", req.Path),
	)

	start := time.Now()
	resp, err := c.apiClient.Do(ctx, req)
	if err != nil {
		status := "error"
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			status = strconv.Itoa(httpErr.StatusCode)
			span.SetAttributes(attribute.Int("http.response.status_code", httpErr.StatusCode))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.record(operation, status, start)

		log.Error("Otpravka API error",
			zap.String("operation", operation),
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.String("status", status),
			zap.Error(err),
		)
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	c.record(operation, strconv.Itoa(resp.StatusCode), start)
	return resp, nil
}

func (c *Client) record(operation, status string, start time.Time) {
	if c.config.Metrics != nil {
		c.config.Metrics.RecordRequest(operation, status, time.Since(start))
	}
}

// send builds and sends a request.
func (c *Client) send(ctx context.Context, operation, method, path string, query payload.Object, body payload.Value, stream bool) (*Response, error) {
	req, err := c.NewRequest(method, path, query, body, stream)
	if err != nil {
		return nil, err
	}
	req.Operation = operation
	return c.Do(ctx, req)
}

// call sends a buffered request and decodes the JSON response into T.
func call[T any](ctx context.Context, c *Client, operation, method, path string, query payload.Object, body payload.Value) (T, error) {
	var out T
	resp, err := c.send(ctx, operation, method, path, query, body, false)
	if err != nil {
		return out, err
	}
	if len(resp.Body) == 0 {
		return out, nil
	}
	if err := resp.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

// stream sends a request whose response body is handed to the caller unread.
func stream(ctx context.Context, c *Client, operation, path string, query payload.Object) (*Response, error) {
	return c.send(ctx, operation, http.MethodGet, path, query, payload.Absent(), true)
}
