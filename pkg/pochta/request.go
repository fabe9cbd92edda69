package pochta

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tournevent/pochta/pkg/pochta/payload"
)

// Request is one Otpravka API call ready to be sent. It is built fresh per
// call by Client.NewRequest.
type Request struct {
	// Operation names the call in logs, spans and metrics.
	Operation string
	Method    string
	Path      string
	URL       string
	Query     url.Values
	Header    http.Header
	Body      []byte
	// Stream asks the transport to hand the response body over unread.
	Stream bool
}

// Response is the result of a successful (2xx) call. Exactly one of Body and
// Stream is set: Body for buffered calls, Stream when the request asked for
// streaming. A streamed response must be closed by the caller.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Stream     io.ReadCloser
}

// Decode unmarshals the JSON response body into v.
func (r *Response) Decode(v any) error {
	if r.Stream != nil {
		defer r.Stream.Close()
		if err := json.NewDecoder(r.Stream).Decode(v); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Close releases the response stream, if any.
func (r *Response) Close() error {
	if r.Stream == nil {
		return nil
	}
	return r.Stream.Close()
}

// authHeader returns the static headers sent with every request.
func authHeader(login, password, accessToken string) http.Header {
	key := base64.StdEncoding.EncodeToString([]byte(login + ":" + password))

	h := make(http.Header)
	h.Set("Authorization", "AccessToken "+accessToken)
	h.Set("X-User-Authorization", "Basic "+key)
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json;charset=UTF-8")
	return h
}

// NewRequest builds a request for path relative to the configured base URL.
// Absent query entries are omitted. An absent body means no body is sent;
// any other body is normalized and encoded as JSON.
func (c *Client) NewRequest(method, path string, query payload.Object, body payload.Value, stream bool) (*Request, error) {
	req := &Request{
		Method: method,
		Path:   path,
		URL:    strings.TrimRight(c.config.BaseURL, "/") + path,
		Query:  queryValues(query),
		Header: c.header.Clone(),
		Stream: stream,
	}

	if !body.IsAbsent() {
		data, err := json.Marshal(payload.Normalize(body))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		req.Body = data
	}

	return req, nil
}

func queryValues(query payload.Object) url.Values {
	values := make(url.Values)
	for k, v := range query.Normalize() {
		switch v.Kind() {
		case payload.KindScalar:
			s, _ := v.ScalarValue()
			values.Set(k, fmt.Sprint(s))
		case payload.KindList:
			items, _ := v.ListValue()
			for _, item := range items {
				if s, ok := item.ScalarValue(); ok {
					values.Add(k, fmt.Sprint(s))
				}
			}
		}
	}
	return values
}
