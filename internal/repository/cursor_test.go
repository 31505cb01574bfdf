package repository

import (
	"encoding/base64"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestCursor_RoundTrip(t *testing.T) {
	t.Parallel()

	in := &PaginationCursor{ID: "0b0c6a2e-7f43-4c1e-9a55-2f1d4e6b8c10", CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 6000, time.UTC)}

	out, err := decodeCursor(encodeCursor(in))
	if err != nil {
		t.Fatalf("decodeCursor failed: %v", err)
	}
	if out.ID != in.ID || !out.CreatedAt.Equal(in.CreatedAt) {
		t.Errorf("decodeCursor = %+v, want %+v", out, in)
	}
}

func TestDecodeCursor_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cursor string
	}{
		{"not base64", "%%%"},
		{"not json", "bm90LWpzb24="},
		{"empty object", "e30="},
		{"id is not a uuid", base64.URLEncoding.EncodeToString([]byte(`{"id":"not-a-uuid","created_at":"2024-01-01T00:00:00Z"}`))},
		{"missing created_at", base64.URLEncoding.EncodeToString([]byte(`{"id":"0b0c6a2e-7f43-4c1e-9a55-2f1d4e6b8c10"}`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := decodeCursor(tt.cursor)
			if err == nil {
				t.Fatalf("decodeCursor(%q) should fail", tt.cursor)
			}
			if tt.name == "id is not a uuid" && !errors.Is(err, ErrInvalidCursor) {
				t.Errorf("decodeCursor() error = %v, want ErrInvalidCursor", err)
			}
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("unique something"), false},
		{"pg unique", &pgconn.PgError{Code: "23505"}, true},
		{"wrapped pg unique", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"pg fk", &pgconn.PgError{Code: "23503"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := isUniqueViolation(tt.err); got != tt.want {
				t.Errorf("isUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}
