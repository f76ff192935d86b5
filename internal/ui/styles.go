// Package ui holds cosmetic rendering helpers for the CLI host (C12):
// lipgloss styles, a bubbletea confirmation prompt and a spinner. The
// confirmation prompt's answer decides whether C9 is asked to apply a fix;
// everything else here is display only.
package ui

import "github.com/charmbracelet/lipgloss"

// Semantic color palette shared by every rendering helper in this package.
const (
	ColorPrimary   = "255"
	ColorSecondary = "245"
	ColorMuted     = "240"
	ColorSuccess   = "42"
	ColorError     = "203"
	ColorWarning   = "214"
	ColorAccent    = "45"
)

var (
	PrimaryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimary))
	SecondaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondary))
	MutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted))

	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning))

	DiffAddStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess))
	DiffRemoveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))
	BoldStyle       = lipgloss.NewStyle().Bold(true)
)

// Bullet returns a muted bullet point.
func Bullet() string {
	return MutedStyle.Render("·")
}

// StatusIcon returns a colored check or cross for a boolean outcome.
func StatusIcon(success bool) string {
	if success {
		return SuccessStyle.Render("✓")
	}
	return ErrorStyle.Render("✗")
}

// ExitError formats a final error line for stderr.
func ExitError(msg string) string {
	return ErrorStyle.Render("✗ " + msg)
}
