package pochta

import (
	"context"
	"time"
)

// DefaultBaseURL is the production Otpravka API endpoint.
const DefaultBaseURL = "https://otpravka-api.pochta.ru"

// APIClient sends prepared requests to the Otpravka API.
// Implementations: HTTPAPIClient (production), MockAPIClient (testing).
type APIClient interface {
	// Do sends req. A non-2xx response is returned as *HTTPError.
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Recorder receives one observation per API call.
type Recorder interface {
	RecordRequest(operation, status string, duration time.Duration)
}

// Object is a decoded JSON object from an API response.
type Object = map[string]any
