// Package session owns the authenticated session: the bearer token and the
// identity it belongs to. It is the single source of truth for "is the user
// logged in, and with what credential". Nothing here knows about specific
// backend operations.
package session

import "time"

// User is the identity the backend reported at login time.
type User struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Session is the live credential. The token is opaque; no format validation
// is performed on it.
type Session struct {
	Token    string    `json:"token"`
	User     User      `json:"user"`
	IssuedAt time.Time `json:"issued_at"`
}

// Store persists at most one Session at a time.
//
// Save replaces any previous session. Load reports the current session, or
// ok=false when none is stored. Clear removes the session and is idempotent.
// Clear performs no navigation or signalling; reacting to a cleared session
// is the dispatcher's and the application's concern.
type Store interface {
	Save(s Session) error
	Load() (Session, bool)
	Clear() error
}
