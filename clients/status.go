package clients

import (
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// StatusError is a non-2xx reply from an upstream service. It keeps the
// upstream status and body so boundary handlers can proxy 404s verbatim.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Code, e.Body)
}

func statusErr(resp *resty.Response) error {
	return &StatusError{Code: resp.StatusCode(), Body: resp.String()}
}

// StatusCode extracts the upstream status from an error chain, or 0 when the
// failure was not an HTTP status (network error, timeout).
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}
