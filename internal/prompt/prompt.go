// Package prompt builds completion prompts for each rewrite mode.
package prompt

import (
	"fmt"

	"github.com/bentossell/rewriter-cursor/internal/model"
)

// SystemInstruction is sent as the system message with every rewrite.
const SystemInstruction = "You are a helpful assistant that rewrites text based on the given instructions."

// Instruction phrases, one per mode. Generic is used for unknown modes.
const (
	SummaryInstruction      = "Please provide a concise summary of the following text:"
	BulletPointsInstruction = "Please convert the following text into clear, concise bullet points:"
	CasualInstruction       = "Please rewrite the following text in a more casual, conversational tone:"
	FormalInstruction       = "Please rewrite the following text in a more formal, professional tone:"
	GenericInstruction      = "Please rewrite the following text:"
)

// Instruction returns the instruction phrase for mode.
func Instruction(mode model.RewriteMode) string {
	switch mode {
	case model.ModeSummary:
		return SummaryInstruction
	case model.ModeBulletPoints:
		return BulletPointsInstruction
	case model.ModeCasual:
		return CasualInstruction
	case model.ModeFormal:
		return FormalInstruction
	default:
		return GenericInstruction
	}
}

// Build returns the user prompt for text rewritten in the given mode.
// The text is embedded verbatim after a blank line.
func Build(mode model.RewriteMode, text string) string {
	return fmt.Sprintf("%s\n\n%s", Instruction(mode), text)
}
