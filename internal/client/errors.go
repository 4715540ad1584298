// File: internal/client/errors.go
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrSessionInvalid is returned once the stored tokens have been proven dead:
// a 401 with no refresh token on hand, or a failed refresh attempt. The token
// store has already been cleared when this error surfaces.
var ErrSessionInvalid = errors.New("session invalid")

// APIError is a non-2xx response decoded from the backend error envelope.
type APIError struct {
	StatusCode int         `json:"-"`
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// newAPIError decodes the backend's JSON error envelope, falling back to a
// generic message when the body is empty or not the expected shape.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	if len(body) > 0 {
		_ = json.Unmarshal(body, apiErr)
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
