package repository

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidCursor is returned for cursors not produced by this package.
var ErrInvalidCursor = errors.New("invalid pagination cursor")

// PaginationCursor represents a decoded keyset cursor.
type PaginationCursor struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// encodeCursor encodes pagination cursor to base64.
func encodeCursor(cursor *PaginationCursor) string {
	data, _ := json.Marshal(cursor)
	return base64.URLEncoding.EncodeToString(data)
}

// decodeCursor decodes base64 pagination cursor.
func decodeCursor(s string) (*PaginationCursor, error) {
	data, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}

	var cursor PaginationCursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return nil, err
	}
	if cursor.CreatedAt.IsZero() {
		return nil, ErrInvalidCursor
	}
	// ids are UUID columns; anything else would fail inside Postgres.
	if _, err := uuid.Parse(cursor.ID); err != nil {
		return nil, ErrInvalidCursor
	}

	return &cursor, nil
}
