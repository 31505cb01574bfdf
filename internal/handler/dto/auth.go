package dto

import (
	"time"

	"github.com/bentossell/rewriter-cursor/internal/model"
)

// CredentialsRequest is the body of sign-up and sign-in.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public view of a profile.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionResponse carries the bearer token for non-browser clients.
type SessionResponse struct {
	ID          string    `json:"id"`
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AuthResponse is returned by sign-up, sign-in and session lookup.
// Both fields are null when there is no session.
type AuthResponse struct {
	User    *UserResponse    `json:"user"`
	Session *SessionResponse `json:"session"`
}

// SignOutAllResponse reports how many sessions were revoked.
type SignOutAllResponse struct {
	Revoked int `json:"revoked"`
}

// ToAuthResponse builds the response for an authenticated caller.
func ToAuthResponse(profile *model.Profile, sess *model.Session, token string) *AuthResponse {
	resp := &AuthResponse{}
	if profile != nil {
		resp.User = &UserResponse{
			ID:        profile.ID,
			Email:     profile.Email,
			CreatedAt: profile.CreatedAt,
		}
	}
	if sess != nil {
		resp.Session = &SessionResponse{
			ID:          sess.ID,
			AccessToken: token,
			TokenType:   "bearer",
			ExpiresAt:   sess.ExpiresAt,
		}
	}
	return resp
}
