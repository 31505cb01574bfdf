// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// TimestampLayout renders times as UTC with millisecond precision,
// e.g. 2024-05-01T12:00:00.000Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Pagination provides cursor-based pagination info.
type Pagination struct {
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}
