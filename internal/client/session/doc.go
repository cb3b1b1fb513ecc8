// Package session holds "who is logged in" for the client: the bearer
// credential and the user profile, persisted to local storage and fanned out
// to subscribers whenever they change.
//
// A Store is constructed explicitly and passed to whatever needs it. The
// credential and the profile are always set and cleared together, so
// IsAuthenticated is the only predicate callers should consult.
package session
