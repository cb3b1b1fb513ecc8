// Package client contains client-side building blocks for the manga reader.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) for the
//     REST backend: JSON GET/POST/PUT/DELETE and multipart uploads.
//  2. A concrete net/http implementation (see HTTPClient) that resolves paths
//     against the configured API base URL, attaches the bearer credential and
//     a request id, and maps failures to sentinel errors.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations),
//     wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Non-2xx responses are returned as
// *APIError carrying the server message; 401/403 additionally match
// ErrUnauthorized with errors.Is. Undecodable success bodies wrap
// common.ErrMalformedResponse.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation/timeouts.
package client
