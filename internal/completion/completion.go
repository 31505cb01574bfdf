// Package completion talks to third-party language-model APIs.
// Each provider performs exactly one non-streaming call per request.
package completion

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Client generates a completion from a system instruction and a user prompt.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Provider names a completion backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// ErrMissingAPIKey is returned when a provider is configured without a key.
var ErrMissingAPIKey = errors.New("completion API key not configured")

// APIError is returned when the provider answers with a non-success status
// or an error payload.
type APIError struct {
	Provider   Provider
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (%d): %s", e.Provider, e.StatusCode, e.Message)
}

// Transport timeouts for provider connections. The overall request
// timeout comes from configuration.
const (
	DialTimeout           = 10 * time.Second
	TLSHandshakeTimeout   = 10 * time.Second
	ResponseHeaderTimeout = 55 * time.Second
)

// NewHTTPClient creates an HTTP client for provider calls.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   TLSHandshakeTimeout,
			ResponseHeaderTimeout: ResponseHeaderTimeout,
			MaxIdleConns:          20,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}

// ClientFunc adapts an ordinary function to the Client interface.
type ClientFunc func(ctx context.Context, system, user string) (string, error)

// Complete calls f(ctx, system, user).
func (f ClientFunc) Complete(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}
