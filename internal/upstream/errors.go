package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
)

// GenericFailure is shown when neither the server nor the transport produced
// a usable message.
const GenericFailure = "Unknown error"

// APIError normalizes every upstream failure. The display message is chosen
// by priority: the server's "message" field, then its "error" field, then the
// transport error text.
type APIError struct {
	StatusCode int
	Message    string
	ErrField   string
	transport  error
}

func (e *APIError) Error() string {
	if msg := e.DisplayMessage(); msg != GenericFailure {
		return msg
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream returned status %d", e.StatusCode)
	}
	return GenericFailure
}

func (e *APIError) Unwrap() error {
	return e.transport
}

// DisplayMessage applies the extraction priority rule.
func (e *APIError) DisplayMessage() string {
	if e.Message != "" {
		return e.Message
	}
	if e.ErrField != "" {
		return e.ErrField
	}
	if e.transport != nil {
		return e.transport.Error()
	}
	return GenericFailure
}

func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var payload struct {
		Message string `json:"message"`
		Err     string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = payload.Message
		apiErr.ErrField = payload.Err
	}
	return apiErr
}

// Message extracts the human-readable text for any error produced by this
// package, falling back to the plain error text and then the generic message.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.DisplayMessage()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return GenericFailure
}

// StatusOf returns the upstream HTTP status, or 0 for transport failures.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
