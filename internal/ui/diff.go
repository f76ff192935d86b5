package ui

import (
	"fmt"
	"strings"

	"github.com/tsugix/tsugix/internal/model"
)

// RenderOutcome renders the terminal outcome of one pipeline run.
func RenderOutcome(outcome model.RunOutcome) string {
	switch outcome {
	case model.OutcomeApplied:
		return SuccessStyle.Render("✓ fix applied")
	case model.OutcomeRejected:
		return WarningStyle.Render("· fix rejected")
	case model.OutcomeFailed:
		return ErrorStyle.Render("✗ patch failed")
	case model.OutcomeNoFix:
		return MutedStyle.Render("· no usable fix returned")
	case model.OutcomeAiError:
		return ErrorStyle.Render("✗ AI request failed")
	default:
		return MutedStyle.Render("· skipped")
	}
}

// RenderDiff renders a cosmetic unified-diff-style view of a fix suggestion,
// shown in the confirmation prompt. It is display only: whether the edit
// applies is up to the operator's answer and C9's own content match.
func RenderDiff(suggestion *model.FixSuggestion) string {
	if suggestion == nil {
		return ""
	}
	var b strings.Builder
	for _, edit := range suggestion.Edits {
		fmt.Fprintf(&b, "%s\n", BoldStyle.Render(edit.FilePath))
		for _, line := range edit.OriginalLines {
			b.WriteString(DiffRemoveStyle.Render("- "+line) + "\n")
		}
		for _, line := range strings.Split(edit.Replacement, "\n") {
			b.WriteString(DiffAddStyle.Render("+ "+line) + "\n")
		}
	}
	if suggestion.Explanation != "" {
		fmt.Fprintf(&b, "\n%s\n", SecondaryStyle.Render(suggestion.Explanation))
	}
	return b.String()
}
