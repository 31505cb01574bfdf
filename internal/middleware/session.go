package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bentossell/rewriter-cursor/internal/auth"
	"github.com/bentossell/rewriter-cursor/internal/model"
)

// Authenticator resolves a session token to the caller.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Identity, error)
}

// SessionConfig holds configuration for the session middleware.
type SessionConfig struct {
	Logger        *slog.Logger
	Authenticator Authenticator
	CookieName    string
}

// RequireSession rejects requests without a live session with
// 401 {"error":"Unauthorized"} and injects the caller otherwise.
func RequireSession(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r, cfg.CookieName)
			if token == "" {
				logAuthFailure(cfg.Logger, r, "missing_token")
				writeUnauthorized(w)
				return
			}

			id, err := cfg.Authenticator.Authenticate(r.Context(), token)
			if err != nil || id == nil {
				logAuthFailure(cfg.Logger, r, "invalid_session")
				writeUnauthorized(w)
				return
			}

			ctx := auth.ContextWithIdentity(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalSession injects the caller when a valid session is present and
// passes anonymous requests through unchanged.
func OptionalSession(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r, cfg.CookieName)
			if token != "" {
				if id, err := cfg.Authenticator.Authenticate(r.Context(), token); err == nil && id != nil {
					r = r.WithContext(auth.ContextWithIdentity(r.Context(), id))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// TokenFromRequest returns the session token from the Authorization bearer
// header, falling back to the session cookie.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
			return strings.TrimSpace(h[7:])
		}
	}
	if cookieName != "" {
		if c, err := r.Cookie(cookieName); err == nil {
			return c.Value
		}
	}
	return ""
}

func logAuthFailure(logger *slog.Logger, r *http.Request, reason string) {
	if logger == nil {
		return
	}
	logger.Warn("authentication_failed",
		slog.String("reason", reason),
		slog.String("ip", r.RemoteAddr),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.String("request_id", GetRequestID(r.Context())),
	)
}

// writeUnauthorized writes the uniform 401 body used for every gate failure.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
}
