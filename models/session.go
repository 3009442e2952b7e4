package models

import (
	"encoding/json"
	"time"
)

// SessionLifetime is how long a login remains valid.
const SessionLifetime = 24 * time.Hour

// Session is the authenticated user's session record. It lives inside the
// signed token handed to the client, not in any table.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	LoginTime time.Time `json:"loginTime"`
}

// Expired reports whether the session is past its 24-hour lifetime.
func (s Session) Expired(now time.Time) bool {
	return now.Sub(s.LoginTime) >= SessionLifetime
}

// User is a row returned by the remote get_user_by_credentials procedure.
// IDs come back numeric from the hosted store.
type User struct {
	ID       json.Number `json:"id"`
	Username string      `json:"username"`
}
