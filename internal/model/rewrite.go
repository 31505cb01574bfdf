// Package model defines domain entities for the application.
package model

import "time"

// RewriteMode selects the prompt template used for a rewrite.
type RewriteMode string

const (
	ModeSummary      RewriteMode = "summary"
	ModeBulletPoints RewriteMode = "bullet_points"
	ModeCasual       RewriteMode = "casual"
	ModeFormal       RewriteMode = "formal"
)

// modeLabels keeps the display order used by the UI.
var modeLabels = []struct {
	mode  RewriteMode
	label string
}{
	{ModeSummary, "Summarize"},
	{ModeBulletPoints, "Bullet Points"},
	{ModeCasual, "Casual Tone"},
	{ModeFormal, "Formal Tone"},
}

// AllModes returns every supported mode in display order.
func AllModes() []RewriteMode {
	modes := make([]RewriteMode, len(modeLabels))
	for i, m := range modeLabels {
		modes[i] = m.mode
	}
	return modes
}

// IsValid reports whether m is one of the four supported modes.
func (m RewriteMode) IsValid() bool {
	for _, ml := range modeLabels {
		if ml.mode == m {
			return true
		}
	}
	return false
}

// Label returns the human readable name of the mode.
// Unknown modes are returned unchanged.
func (m RewriteMode) Label() string {
	for _, ml := range modeLabels {
		if ml.mode == m {
			return ml.label
		}
	}
	return string(m)
}

// Rewrite is a saved rewrite owned by a single user.
type Rewrite struct {
	ID            string      `json:"id"`
	UserID        string      `json:"user_id"`
	OriginalText  string      `json:"original_text"`
	RewrittenText string      `json:"rewritten_text"`
	Mode          RewriteMode `json:"rewrite_mode"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// IsOwnedBy returns true if the rewrite belongs to userID.
func (r *Rewrite) IsOwnedBy(userID string) bool {
	return r.UserID != "" && r.UserID == userID
}
