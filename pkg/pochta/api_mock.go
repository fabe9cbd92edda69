package pochta

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"time"
)

// MockAPIClient is a mock implementation of APIClient for testing. It records
// every request it receives. Without an OnDo hook it answers 200 with a canned
// body for a few well-known paths, JSON null (which decodes into any result
// type) for the rest, or an empty stream for streamed requests.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnDo func(ctx context.Context, req *Request) (*Response, error)

	mu       sync.Mutex
	requests []*Request
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// Do records req and returns the canned or hooked response.
func (m *MockAPIClient) Do(ctx context.Context, req *Request) (*Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &HTTPError{
			Method:     req.Method,
			URL:        req.URL,
			StatusCode: http.StatusInternalServerError,
			Status:     "500 Internal Server Error",
			Body:       []byte(`{"code":"MOCK_ERROR","desc":"Simulated API error"}`),
		}
	}

	if m.OnDo != nil {
		return m.OnDo(ctx, req)
	}

	if req.Stream {
		return &Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": {"application/pdf"}},
			Stream:     io.NopCloser(bytes.NewReader(nil)),
		}, nil
	}
	body, ok := mockBodies[req.Path]
	if !ok {
		body = "null"
	}
	return JSONResponse(body), nil
}

var mockBodies = map[string]string{
	"/1.0/tariff":               `{"total-rate":24800,"total-vat":4960,"delivery-time":{"min-days":2,"max-days":4}}`,
	"/1.0/counterpart/balance":  `{"balance":150000,"balance-date":"2026-01-01","work-with-balance":true}`,
	"/1.0/settings":             `{"shipping-points":[],"use-online-balance":false}`,
	"/1.0/user-shipping-points": `[]`,
}

// Requests returns the requests received so far.
func (m *MockAPIClient) Requests() []*Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Request(nil), m.requests...)
}

// JSONResponse is a helper for OnDo hooks returning a buffered 200 response.
func JSONResponse(body string) *Response {
	return &Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       []byte(body),
	}
}

// Ensure MockAPIClient implements APIClient interface
var _ APIClient = (*MockAPIClient)(nil)
