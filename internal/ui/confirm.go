package ui

import (
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmModel is a bubbletea model for a y/n confirmation prompt, shown
// before C9 applies a fix. y or enter confirms; n, esc or ctrl+c declines;
// any other key is ignored. Pressing c copies the rendered diff to the
// clipboard without answering.
type ConfirmModel struct {
	prompt    string
	detail    string
	confirmed bool
	answered  bool
	quitting  bool
	copied    bool
}

// NewConfirmModel builds a confirmation prompt with a headline and a
// pre-rendered detail block (e.g. a diff) shown above the question.
func NewConfirmModel(prompt, detail string) *ConfirmModel {
	return &ConfirmModel{prompt: prompt, detail: detail}
}

// Confirmed reports the user's answer once the program has quit.
func (m *ConfirmModel) Confirmed() bool {
	return m.answered && m.confirmed
}

func (m *ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m *ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch strings.ToLower(keyMsg.String()) {
	case "y", "enter":
		m.confirmed = true
		m.answered = true
		m.quitting = true
		return m, tea.Quit
	case "n", "ctrl+c", "esc":
		m.confirmed = false
		m.answered = true
		m.quitting = true
		return m, tea.Quit
	case "c":
		if err := clipboard.WriteAll(m.detail); err == nil {
			m.copied = true
		}
		return m, nil
	}
	return m, nil
}

func (m *ConfirmModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	if m.detail != "" {
		b.WriteString(m.detail)
		b.WriteString("\n")
	}
	b.WriteString(BoldStyle.Render(m.prompt))
	b.WriteString(MutedStyle.Render(" [Y/n, c to copy diff] "))
	if m.copied {
		b.WriteString(SuccessStyle.Render("copied"))
	}
	return b.String()
}
