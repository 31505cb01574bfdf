package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bentossell/rewriter-cursor/internal/auth"
	"github.com/bentossell/rewriter-cursor/internal/handler/dto"
	"github.com/bentossell/rewriter-cursor/internal/middleware"
	"github.com/bentossell/rewriter-cursor/internal/model"
	"github.com/bentossell/rewriter-cursor/internal/service"
)

// AccountService is the part of service.AccountService the handlers use.
type AccountService interface {
	SignUp(ctx context.Context, email, password string) (*service.AuthResult, error)
	SignIn(ctx context.Context, email, password string) (*service.AuthResult, error)
	SignOut(ctx context.Context, id *model.Identity) error
	SignOutEverywhere(ctx context.Context, id *model.Identity) (int, error)
	CurrentSession(ctx context.Context, token string) (*service.AuthResult, error)
}

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler handles sign-up, sign-in, sign-out and session lookup.
type AuthHandler struct {
	svc    AccountService
	cookie CookieConfig
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc AccountService, cookie CookieConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		cookie: cookie,
		logger: logger,
	}
}

// SignUp handles POST /api/auth/signup.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req dto.CredentialsRequest
	if tooLarge, err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, tooLarge)
		return
	}

	result, err := h.svc.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.setSessionCookie(w, result.Token, result.Session.ExpiresAt)
	writeJSON(w, http.StatusCreated, dto.ToAuthResponse(result.Profile, result.Session, result.Token))
}

// SignIn handles POST /api/auth/signin.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req dto.CredentialsRequest
	if tooLarge, err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, tooLarge)
		return
	}

	result, err := h.svc.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.setSessionCookie(w, result.Token, result.Session.ExpiresAt)
	writeJSON(w, http.StatusOK, dto.ToAuthResponse(result.Profile, result.Session, result.Token))
}

// SignOut handles POST /api/auth/signout.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.SignOut(r.Context(), auth.IdentityFromContext(r.Context())); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// SignOutAll handles POST /api/auth/signout-all.
func (h *AuthHandler) SignOutAll(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.SignOutEverywhere(r.Context(), auth.IdentityFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, dto.SignOutAllResponse{Revoked: n})
}

// Session handles GET /api/auth/session. Anonymous callers get
// {"user":null,"session":null} rather than an error.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	if auth.IdentityFromContext(r.Context()) == nil {
		writeJSON(w, http.StatusOK, dto.AuthResponse{})
		return
	}

	token := middleware.TokenFromRequest(r, h.cookie.Name)
	result, err := h.svc.CurrentSession(r.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			writeJSON(w, http.StatusOK, dto.AuthResponse{})
			return
		}
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToAuthResponse(result.Profile, result.Session, result.Token))
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// handleServiceError maps service errors to HTTP responses.
func (h *AuthHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "Missing required fields")
	case errors.Is(err, service.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "Invalid email address")
	case errors.Is(err, service.ErrPasswordTooShort):
		writeError(w, http.StatusBadRequest, "Password must be at least 6 characters")
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, "Email already registered")
	default:
		h.logger.Error("internal_error",
			"error", err,
			"path", r.URL.Path,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
