package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

var ErrNoSessionID = errors.New("no session_id in response")

// StatusError is a non-2xx reply from a backend.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if body := strings.TrimSpace(e.Body); body != "" {
		return body
	}
	return fmt.Sprintf("Request failed with status %d", e.Code)
}

func statusError(resp *resty.Response) error {
	return &StatusError{Code: resp.StatusCode(), Body: resp.String()}
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
