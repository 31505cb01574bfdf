package model

import "time"

// Account is the credential record held by the identity layer.
// Its ID is shared with the matching Profile.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize
	CreatedAt    time.Time `json:"created_at"`
}

// Session is a server-side record of a signed-in user.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired returns true once the session lifetime has passed.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Identity is the authenticated caller injected into request contexts
// by the session middleware.
type Identity struct {
	UserID    string
	Email     string
	SessionID string
}

// AuthEventType names a change in authentication state.
type AuthEventType string

const (
	AuthSignedIn  AuthEventType = "SIGNED_IN"
	AuthSignedOut AuthEventType = "SIGNED_OUT"
	AuthSignedUp  AuthEventType = "SIGNED_UP"
)

// AuthEvent is delivered to auth state listeners.
type AuthEvent struct {
	Type      AuthEventType
	UserID    string
	SessionID string
	At        time.Time
}
