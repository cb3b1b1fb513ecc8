// Package common defines shared constants and sentinel errors used across
// client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Validation errors.
	ErrInvalidInput = errors.New("invalid input")

	// Session errors.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("admin role required")

	// Response shape errors.
	ErrMalformedResponse = errors.New("invalid response from server")
)
