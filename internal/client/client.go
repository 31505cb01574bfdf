// Package client is a Go client for the rewriter HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bentossell/rewriter-cursor/internal/auth"
	"github.com/bentossell/rewriter-cursor/internal/handler/dto"
	"github.com/bentossell/rewriter-cursor/internal/model"
)

// ErrUnauthorized matches any *APIError with status 401.
var ErrUnauthorized = errors.New("unauthorized")

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// Is reports 401 responses as ErrUnauthorized.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// Client talks to a rewriter server and holds the current session token.
type Client struct {
	baseURL    string
	httpClient *http.Client
	events     *auth.Broadcaster
	now        func() time.Time

	mu      sync.RWMutex
	token   string
	session *dto.AuthResponse
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken starts the client with a previously issued session token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 90 * time.Second},
		events:     auth.NewBroadcaster(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the current session token, or "" when signed out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// OnAuthStateChange subscribes fn to sign-in, sign-up and sign-out events.
// The returned function unsubscribes and waits for pending deliveries.
func (c *Client) OnAuthStateChange(fn func(model.AuthEvent)) func() {
	return c.events.Subscribe(fn)
}

// Close stops every listener after delivering queued events.
func (c *Client) Close() {
	c.events.Close()
}

// SignUp creates an account and signs in.
func (c *Client) SignUp(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	return c.authenticate(ctx, "/api/auth/signup", email, password, model.AuthSignedUp)
}

// SignIn starts a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	return c.authenticate(ctx, "/api/auth/signin", email, password, model.AuthSignedIn)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string, evType model.AuthEventType) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	body := dto.CredentialsRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	if resp.Session == nil || resp.Session.AccessToken == "" {
		return nil, errors.New("server returned no session")
	}

	c.mu.Lock()
	c.token = resp.Session.AccessToken
	c.session = &resp
	c.mu.Unlock()

	c.publish(evType, &resp)
	return &resp, nil
}

// SignOut ends the current session. The local token is dropped even when
// the server has already forgotten the session.
func (c *Client) SignOut(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/signout", nil, nil)
	if err != nil && !errors.Is(err, ErrUnauthorized) {
		return err
	}
	c.clearSession()
	return nil
}

// SignOutAll revokes every session of the current user.
func (c *Client) SignOutAll(ctx context.Context) (int, error) {
	var resp dto.SignOutAllResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/signout-all", nil, &resp); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			c.clearSession()
		}
		return 0, err
	}
	c.clearSession()
	return resp.Revoked, nil
}

// Session returns the current user and session. Both are nil when the
// token is missing or no longer valid, in which case a held token is
// dropped and listeners see SIGNED_OUT.
func (c *Client) Session(ctx context.Context) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/session", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Session == nil {
		c.clearSession()
	}
	return &resp, nil
}

// Modes lists the supported rewrite modes.
func (c *Client) Modes(ctx context.Context) ([]dto.ModeResponse, error) {
	var resp dto.ModeListResponse
	if err := c.do(ctx, http.MethodGet, "/api/modes", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Modes, nil
}

// Rewrite asks the server to rewrite text with mode.
func (c *Client) Rewrite(ctx context.Context, text string, mode model.RewriteMode) (*dto.GenerateRewriteResponse, error) {
	var resp dto.GenerateRewriteResponse
	body := dto.GenerateRewriteRequest{OriginalText: text, RewriteMode: string(mode)}
	if err := c.do(ctx, http.MethodPost, "/api/rewrite", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Save stores a rewrite in the caller's history.
func (c *Client) Save(ctx context.Context, original, rewritten string, mode model.RewriteMode) (*dto.RewriteResponse, error) {
	var resp dto.RewriteResponse
	body := dto.SaveRewriteRequest{OriginalText: original, RewrittenText: rewritten, RewriteMode: string(mode)}
	if err := c.do(ctx, http.MethodPost, "/api/rewrites", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// History returns one page of saved rewrites, newest first.
func (c *Client) History(ctx context.Context, cursor string, limit int) (*dto.RewriteListResponse, error) {
	q := url.Values{}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/rewrites"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp dto.RewriteListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Get returns one saved rewrite.
func (c *Client) Get(ctx context.Context, id string) (*dto.RewriteResponse, error) {
	var resp dto.RewriteResponse
	if err := c.do(ctx, http.MethodGet, "/api/rewrites/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Edit replaces the rewritten text of a saved rewrite.
func (c *Client) Edit(ctx context.Context, id, text string) (*dto.RewriteResponse, error) {
	var resp dto.RewriteResponse
	body := dto.EditRewriteRequest{RewrittenText: text}
	if err := c.do(ctx, http.MethodPatch, "/api/rewrites/"+url.PathEscape(id), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) clearSession() {
	c.mu.Lock()
	prev := c.session
	had := c.token != ""
	c.token = ""
	c.session = nil
	c.mu.Unlock()

	if had {
		c.publish(model.AuthSignedOut, prev)
	}
}

func (c *Client) publish(t model.AuthEventType, resp *dto.AuthResponse) {
	ev := model.AuthEvent{Type: t, At: c.now().UTC()}
	if resp != nil {
		if resp.User != nil {
			ev.UserID = resp.User.ID
		}
		if resp.Session != nil {
			ev.SessionID = resp.Session.ID
		}
	}
	c.events.Publish(ev)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var e dto.ErrorResponse
		msg := strings.TrimSpace(string(raw))
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
