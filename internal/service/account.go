package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/bentossell/rewriter-cursor/internal/auth"
	"github.com/bentossell/rewriter-cursor/internal/metrics"
	"github.com/bentossell/rewriter-cursor/internal/model"
	"github.com/bentossell/rewriter-cursor/internal/repository"
	"github.com/bentossell/rewriter-cursor/internal/session"
)

// AccountStore is the persistence the account service needs.
type AccountStore interface {
	RegisterAccount(ctx context.Context, account *model.Account) (*model.Profile, error)
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)
	GetProfile(ctx context.Context, id string) (*model.Profile, error)
}

// SessionStore keeps live sessions so they can be revoked.
type SessionStore interface {
	Create(ctx context.Context, s *model.Session) error
	Get(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, s *model.Session) error
	DeleteAllForUser(ctx context.Context, userID string) (int, error)
}

// AccountConfig holds session signing settings.
type AccountConfig struct {
	Secret     []byte
	SessionTTL time.Duration
	// PasswordParams overrides auth.DefaultParams when non-zero.
	PasswordParams auth.Params
}

// AuthResult is returned by sign-up, sign-in and session lookups.
type AuthResult struct {
	Profile *model.Profile
	Session *model.Session
	Token   string
}

// AccountService handles identity: sign-up, sign-in, sign-out and session checks.
type AccountService struct {
	accounts  AccountStore
	sessions  SessionStore
	cfg       AccountConfig
	events    *auth.Broadcaster
	metrics   metrics.Recorder
	logger    *slog.Logger
	now       func() time.Time
	dummyHash string
}

// NewAccountService creates a new AccountService.
func NewAccountService(accounts AccountStore, sessions SessionStore, cfg AccountConfig, recorder metrics.Recorder, logger *slog.Logger) *AccountService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PasswordParams == (auth.Params{}) {
		cfg.PasswordParams = auth.DefaultParams
	}

	// Used to keep sign-in timing uniform for unknown emails.
	dummy, _ := auth.HashPasswordWithParams("placeholder-password", cfg.PasswordParams)

	return &AccountService{
		accounts:  accounts,
		sessions:  sessions,
		cfg:       cfg,
		events:    auth.NewBroadcaster(),
		metrics:   recorder,
		logger:    logger,
		now:       time.Now,
		dummyHash: dummy,
	}
}

// OnAuthStateChange subscribes fn to sign-up, sign-in and sign-out events.
// Call the returned function to unsubscribe.
func (s *AccountService) OnAuthStateChange(fn func(model.AuthEvent)) func() {
	return s.events.Subscribe(fn)
}

// Close stops every auth state listener.
func (s *AccountService) Close() {
	s.events.Close()
}

// SignUp creates an account with its profile and starts a session.
func (s *AccountService) SignUp(ctx context.Context, email, password string) (*AuthResult, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPasswordWithParams(password, s.cfg.PasswordParams)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, ErrPasswordTooShort
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}

	profile, err := s.accounts.RegisterAccount(ctx, account)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) || errors.Is(err, repository.ErrProfileExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("register account: %w", err)
	}

	result, err := s.startSession(ctx, profile)
	if err != nil {
		return nil, err
	}

	s.emit(model.AuthSignedUp, profile.ID, result.Session.ID)
	return result, nil
}

// SignIn checks credentials and starts a new session.
func (s *AccountService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			_, _ = auth.VerifyPassword(password, s.dummyHash)
			s.logger.Info("sign_in_rejected", "email_hash", auth.Fingerprint(email), "reason", "unknown_email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	ok, err := auth.VerifyPassword(password, account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		s.logger.Info("sign_in_rejected", "email_hash", auth.Fingerprint(email), "reason", "wrong_password")
		return nil, ErrInvalidCredentials
	}

	profile, err := s.accounts.GetProfile(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	result, err := s.startSession(ctx, profile)
	if err != nil {
		return nil, err
	}

	s.emit(model.AuthSignedIn, profile.ID, result.Session.ID)
	return result, nil
}

// SignOut revokes the caller's current session.
func (s *AccountService) SignOut(ctx context.Context, id *model.Identity) error {
	if id == nil {
		return ErrUnauthorized
	}

	if err := s.sessions.Delete(ctx, &model.Session{ID: id.SessionID, UserID: id.UserID}); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	s.emit(model.AuthSignedOut, id.UserID, id.SessionID)
	return nil
}

// SignOutEverywhere revokes every session of the caller and returns how many
// were live.
func (s *AccountService) SignOutEverywhere(ctx context.Context, id *model.Identity) (int, error) {
	if id == nil {
		return 0, ErrUnauthorized
	}

	n, err := s.sessions.DeleteAllForUser(ctx, id.UserID)
	if err != nil {
		return 0, fmt.Errorf("revoke sessions: %w", err)
	}

	s.emit(model.AuthSignedOut, id.UserID, id.SessionID)
	return n, nil
}

// Authenticate resolves a session token to the caller. The token must be
// validly signed and its session must still be live.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*model.Identity, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	claims, err := auth.ParseToken(token, s.cfg.Secret)
	if err != nil {
		return nil, ErrUnauthorized
	}

	sess, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess.UserID != claims.UserID() {
		return nil, ErrUnauthorized
	}

	return &model.Identity{
		UserID:    sess.UserID,
		Email:     sess.Email,
		SessionID: sess.ID,
	}, nil
}

// CurrentSession returns the profile and session behind token.
func (s *AccountService) CurrentSession(ctx context.Context, token string) (*AuthResult, error) {
	id, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Get(ctx, id.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	profile, err := s.accounts.GetProfile(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}

	return &AuthResult{Profile: profile, Session: sess, Token: token}, nil
}

func (s *AccountService) startSession(ctx context.Context, profile *model.Profile) (*AuthResult, error) {
	now := s.now().UTC().Truncate(time.Second)
	sess := &model.Session{
		ID:        ulid.Make().String(),
		UserID:    profile.ID,
		Email:     profile.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}

	token, err := auth.IssueToken(sess.ID, sess.UserID, sess.Email, s.cfg.Secret, sess.CreatedAt, sess.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return &AuthResult{Profile: profile, Session: sess, Token: token}, nil
}

func (s *AccountService) emit(t model.AuthEventType, userID, sessionID string) {
	s.metrics.IncAuthEvent(string(t))
	s.logger.Info("auth_state_changed", "event", string(t), "user_id", userID, "session_id", sessionID)

	dropped := s.events.Publish(model.AuthEvent{
		Type:      t,
		UserID:    userID,
		SessionID: sessionID,
		At:        s.now().UTC(),
	})
	if dropped > 0 {
		s.logger.Warn("auth_event_dropped", "event", string(t), "listeners", dropped)
	}
}

// normalizeEmail trims and lower-cases the address and checks it parses as
// a bare address.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return "", ErrInvalidEmail
	}
	return email, nil
}
