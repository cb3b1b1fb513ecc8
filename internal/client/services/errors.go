package services

import (
	"errors"

	"github.com/dmitrijs2005/mangareader/internal/client/client"
	"github.com/dmitrijs2005/mangareader/internal/common"
)

// RequestError is a failed backend call reduced to the human-readable
// message the user should see. Err keeps the underlying cause for errors.Is.
type RequestError struct {
	Message string
	Err     error
}

func (e *RequestError) Error() string { return e.Message }

func (e *RequestError) Unwrap() error { return e.Err }

// requestError prefers the server's own message, then a fixed text for an
// undecodable body, then fallback.
func requestError(err error, fallback string) error {
	if msg, ok := client.ServerMessage(err); ok {
		return &RequestError{Message: msg, Err: err}
	}
	if errors.Is(err, common.ErrMalformedResponse) {
		return &RequestError{Message: "Invalid response from server", Err: err}
	}
	return &RequestError{Message: fallback, Err: err}
}

// envelope is the {success, message|error|msg} wrapper most endpoints use.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Msg     string `json:"msg"`
}

// check turns a 2xx reply with success=false into an error.
func (e envelope) check(fallback string) error {
	if e.Success {
		return nil
	}
	return &RequestError{Message: common.FirstNonEmpty(e.Error, e.Message, e.Msg, fallback)}
}
