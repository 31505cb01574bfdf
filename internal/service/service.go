// Package service provides business logic for the application.
package service

import (
	"errors"
)

// Service errors.
var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidMode        = errors.New("invalid rewrite mode")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrRewriteNotFound    = errors.New("rewrite not found")
	ErrInvalidCursor      = errors.New("invalid pagination cursor")
	ErrCompletionFailed   = errors.New("completion request failed")
)
