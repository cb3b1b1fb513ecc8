package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the roles the backend assigns.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Profile is the user record the backend returns on login and registration.
type Profile struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt Timestamp `json:"created_at"`
}

func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

var errIncompleteProfile = errors.New("incomplete profile")

// validate rejects a decoded profile that cannot stand for a logged-in user:
// a JSON null, a missing username or an unknown role.
func (p *Profile) validate() error {
	switch {
	case p == nil:
		return fmt.Errorf("%w: null", errIncompleteProfile)
	case strings.TrimSpace(p.Username) == "":
		return fmt.Errorf("%w: no username", errIncompleteProfile)
	case !p.Role.Valid():
		return fmt.Errorf("%w: role %q", errIncompleteProfile, p.Role)
	}
	return nil
}

// Timestamp accepts the several datetime renderings seen from the backend
// (RFC 3339, ISO 8601 with or without an offset, RFC 1123 "GMT", Unix epoch
// seconds or milliseconds) and always marshals RFC 3339 UTC. A value in any
// other shape decodes to the zero time so it never spoils the profile.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02T15:04:05.999999999-07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-0700",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999",
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02",
}

// epochMillisThreshold separates epoch seconds from epoch milliseconds.
const epochMillisThreshold = 1e11

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	t.Time = time.Time{}

	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}

	switch value := v.(type) {
	case float64:
		t.Time = fromEpoch(value)
	case string:
		t.Time = parseTimestamp(strings.TrimSpace(value))
	}
	return nil
}

func fromEpoch(v float64) time.Time {
	if v <= 0 {
		return time.Time{}
	}
	if v >= epochMillisThreshold {
		return time.UnixMilli(int64(v)).UTC()
	}
	return time.Unix(int64(v), 0).UTC()
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}
