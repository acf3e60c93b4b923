package exec

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// runWithSpinner runs a command with a progress spinner on stderr.
// Output is captured, not streamed.
func (e *Executor) runWithSpinner(ctx context.Context, c Command) (Result, error) {
	type outcome struct {
		res Result
		err error
	}
	done := make(chan outcome, 1)

	go func() {
		res, err := e.run(ctx, c, false)
		done <- outcome{res, err}
	}()

	m := newSpinnerModel(c.Spinner)
	p := tea.NewProgram(m, tea.WithOutput(e.stderr), tea.WithInput(nil))

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		// Spinner failures are cosmetic.
		_, _ = p.Run()
	}()

	out := <-done
	p.Send(spinnerDoneMsg{err: out.err})

	select {
	case <-finished:
	case <-time.After(200 * time.Millisecond):
		p.Quit()
		<-finished
	}

	return out.res, out.err
}

// spinnerModel is the bubbletea model for the spinner
type spinnerModel struct {
	spinner spinner.Model
	message string
	done    bool
	err     error
}

type spinnerDoneMsg struct {
	err error
}

func newSpinnerModel(message string) *spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return &spinnerModel{
		spinner: s,
		message: message,
	}
}

func (m *spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *spinnerModel) View() string {
	if m.done {
		if m.err != nil {
			return fmt.Sprintf("❌ %s\n", m.message)
		}
		return fmt.Sprintf("✅ %s\n", m.message)
	}
	return fmt.Sprintf("%s %s...", m.spinner.View(), m.message)
}
