package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrorPayload carries the machine-readable fields ComunaVision attaches to
// failure responses. Code/Field disambiguate conflicts, e.g. a duplicate
// documento arrives as {code: "DOCUMENTO_DUPLICADO", field: "documento"}.
type ErrorPayload struct {
	Detail     string `json:"detail,omitempty"`
	Code       string `json:"code,omitempty"`
	Field      string `json:"field,omitempty"`
	Constraint string `json:"constraint,omitempty"`
}

// Error is raised for any non-2xx response. Message prefers the server's
// detail field, then the raw body, then a generic status line.
type Error struct {
	Status  int
	Message string
	Payload *ErrorPayload
}

func (e *Error) Error() string {
	return fmt.Sprintf("apiclient: HTTP %d: %s", e.Status, e.Message)
}

// AsError unwraps err into *Error when the failure originated from a server
// response rather than the transport.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsStatus reports whether err is a server response with the given status.
func IsStatus(err error, status int) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Status == status
}

func newError(status int, statusText string, body []byte) *Error {
	apiErr := &Error{Status: status}

	var payload ErrorPayload
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Detail != "" || payload.Code != "" || payload.Field != "" || payload.Constraint != "" {
			apiErr.Payload = &payload
		}
	}

	switch {
	case apiErr.Payload != nil && apiErr.Payload.Detail != "":
		apiErr.Message = apiErr.Payload.Detail
	case strings.TrimSpace(string(body)) != "":
		apiErr.Message = strings.TrimSpace(string(body))
	default:
		apiErr.Message = fmt.Sprintf("HTTP %d %s", status, statusText)
	}
	return apiErr
}
