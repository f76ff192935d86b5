package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type spinnerDoneMsg struct{}

type spinnerModel struct {
	spinner spinner.Model
	label   string
	quit    bool
}

func newSpinnerModel(label string) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = PrimaryStyle
	return spinnerModel{spinner: s, label: label}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(spinnerDoneMsg); ok {
		m.quit = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m spinnerModel) View() string {
	if m.quit {
		return ""
	}
	return m.spinner.View() + " " + MutedStyle.Render(m.label) + "\n"
}

// RunWithSpinner runs fn on a background goroutine, showing an animated
// spinner labeled label while it's in flight. When interactive is false
// (no TTY), it skips the TUI entirely and just calls fn directly.
func RunWithSpinner[T any](label string, interactive bool, fn func() T) T {
	if !interactive {
		return fn()
	}

	m := newSpinnerModel(label)
	p := tea.NewProgram(m)

	result := make(chan T, 1)
	go func() {
		r := fn()
		result <- r
		p.Send(spinnerDoneMsg{})
	}()

	_, _ = p.Run()
	return <-result
}
