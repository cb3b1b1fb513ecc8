package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx response. Message is the server-supplied text taken
// from the body's message, error or msg field, in that order.
type APIError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("http %d %s", e.Status, http.StatusText(e.Status))
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 and 403 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden)
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status, Body: body}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Msg     string `json:"msg"`
	}
	if json.Unmarshal(body, &payload) == nil {
		switch {
		case payload.Message != "":
			e.Message = payload.Message
		case payload.Error != "":
			e.Message = payload.Error
		default:
			e.Message = payload.Msg
		}
	}
	return e
}

// ServerMessage extracts the server-supplied message from err, if any.
func ServerMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}
