package pochta

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"resty.dev/v3"
)

// HTTPAPIClient is the production implementation of APIClient. It keeps one
// resty client, and so one connection pool, for its whole lifetime.
type HTTPAPIClient struct {
	client  *resty.Client
	timeout time.Duration
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	Timeout time.Duration
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	// Timeout bounds the wait for response headers on every request. Buffered
	// requests are also bounded as a whole in Do; streamed bodies are not, so
	// a large document may take as long as it needs to download.
	client := resty.NewWithTransportSettings(&resty.TransportSettings{
		ResponseHeaderTimeout: timeout,
	}).
		SetAllowMethodDeletePayload(true).
		SetHeader("User-Agent", "tournevent-pochta/1.0")

	return &HTTPAPIClient{client: client, timeout: timeout}
}

// Do sends req. Buffered responses are read fully before returning; streamed
// responses hand the open body to the caller.
func (c *HTTPAPIClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if !req.Stream {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	r := c.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetQueryParamsFromValues(req.Query)
	for k, vs := range req.Header {
		for _, v := range vs {
			r.SetHeader(k, v)
		}
	}
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	res, err := r.Execute(req.Method, req.URL)
	if err != nil {
		if res != nil && res.Body != nil {
			res.Body.Close()
		}
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL, err)
	}

	if res.StatusCode() < 200 || res.StatusCode() > 299 {
		return nil, c.parseError(req, res)
	}

	resp := &Response{
		StatusCode: res.StatusCode(),
		Header:     res.Header(),
	}

	if req.Stream {
		resp.Stream = res.Body
		return resp, nil
	}

	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	resp.Body = body
	return resp, nil
}

// Close releases idle connections held by the underlying client.
func (c *HTTPAPIClient) Close() error {
	return c.client.Close()
}

// parseError builds an HTTPError from a non-2xx response.
func (c *HTTPAPIClient) parseError(req *Request, res *resty.Response) error {
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	status := res.Status()
	if status == "" {
		status = http.StatusText(res.StatusCode())
	}

	return &HTTPError{
		Method:     req.Method,
		URL:        req.URL,
		StatusCode: res.StatusCode(),
		Status:     status,
		Body:       body,
	}
}

// Ensure HTTPAPIClient implements APIClient interface
var _ APIClient = (*HTTPAPIClient)(nil)
