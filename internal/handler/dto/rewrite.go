package dto

import (
	"time"

	"github.com/bentossell/rewriter-cursor/internal/model"
)

// GenerateRewriteRequest is the body of POST /api/rewrite.
type GenerateRewriteRequest struct {
	OriginalText string `json:"originalText"`
	RewriteMode  string `json:"rewriteMode"`
}

// GenerateRewriteResponse is the success body of POST /api/rewrite.
type GenerateRewriteResponse struct {
	RewrittenText string `json:"rewrittenText"`
	Timestamp     string `json:"timestamp"`
}

// SaveRewriteRequest is the body of POST /api/rewrites.
type SaveRewriteRequest struct {
	OriginalText  string `json:"originalText"`
	RewrittenText string `json:"rewrittenText"`
	RewriteMode   string `json:"rewriteMode"`
}

// EditRewriteRequest is the body of PATCH /api/rewrites/{id}.
type EditRewriteRequest struct {
	RewrittenText string `json:"rewrittenText"`
}

// RewriteResponse mirrors the rewrites table columns.
type RewriteResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	OriginalText  string    `json:"original_text"`
	RewrittenText string    `json:"rewritten_text"`
	RewriteMode   string    `json:"rewrite_mode"`
	ModeLabel     string    `json:"mode_label"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RewriteListResponse represents a page of history.
type RewriteListResponse struct {
	Data       []RewriteResponse `json:"data"`
	Pagination *Pagination       `json:"pagination"`
}

// ModeResponse describes one rewrite mode.
type ModeResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ModeListResponse is the body of GET /api/modes.
type ModeListResponse struct {
	Modes []ModeResponse `json:"modes"`
}

// FormatTimestamp formats t with TimestampLayout in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ToRewriteResponse converts a Rewrite model to its DTO.
func ToRewriteResponse(rw *model.Rewrite) RewriteResponse {
	return RewriteResponse{
		ID:            rw.ID,
		UserID:        rw.UserID,
		OriginalText:  rw.OriginalText,
		RewrittenText: rw.RewrittenText,
		RewriteMode:   string(rw.Mode),
		ModeLabel:     rw.Mode.Label(),
		CreatedAt:     rw.CreatedAt,
		UpdatedAt:     rw.UpdatedAt,
	}
}

// ToRewriteListResponse converts a history page to its DTO.
func ToRewriteListResponse(rewrites []*model.Rewrite, nextCursor string) *RewriteListResponse {
	data := make([]RewriteResponse, len(rewrites))
	for i, rw := range rewrites {
		data[i] = ToRewriteResponse(rw)
	}
	return &RewriteListResponse{
		Data: data,
		Pagination: &Pagination{
			NextCursor: nextCursor,
			HasMore:    nextCursor != "",
		},
	}
}

// ToModeListResponse lists every supported mode in display order.
func ToModeListResponse() *ModeListResponse {
	modes := model.AllModes()
	out := make([]ModeResponse, len(modes))
	for i, m := range modes {
		out[i] = ModeResponse{Value: string(m), Label: m.Label()}
	}
	return &ModeListResponse{Modes: out}
}
