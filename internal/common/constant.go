// Package common contains shared constants and sentinel errors used across
// the mangareader client packages.
package common

const (
	// AuthorizationHeaderName carries the bearer credential on outbound requests.
	AuthorizationHeaderName = "Authorization"

	// RequestIDHeaderName carries a per-request correlation id.
	RequestIDHeaderName = "X-Request-ID"

	// DefaultPageSize is the catalog page size assumed when the backend
	// omits totalItemsPerPage.
	DefaultPageSize = 24
)
