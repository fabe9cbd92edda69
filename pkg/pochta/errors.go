package pochta

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is wrapped by errors reported for caller input before any
// request is sent.
var ErrInvalidArgument = errors.New("pochta: invalid argument")

// HTTPError is returned for every non-2xx response of the Otpravka API. Body
// holds the raw response body; the API usually puts a JSON description of the
// problem there.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       []byte
}

func (e *HTTPError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("pochta: %s %s: %s", e.Method, e.URL, e.Status)
	}
	return fmt.Sprintf("pochta: %s %s: %s: %s", e.Method, e.URL, e.Status, e.Body)
}

// IsStatus reports whether err is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == code
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
