package cli

import (
	"errors"
	"fmt"

	"github.com/avoronova/tally/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// errVerifyAborted is returned when the user quits the view before the
// poll finished; the write itself was already acknowledged.
var errVerifyAborted = errors.New("verification aborted before the store confirmed the write")

// pollTickMsg carries the poller's countdown: attempts still remaining.
type pollTickMsg int

// verifyDoneMsg ends the verification view.
type verifyDoneMsg struct{ err error }

// verifyModel renders the visibility poll as a spinner with a live
// attempt countdown.
type verifyModel struct {
	spin      spinner.Model
	date      string
	total     int
	remaining int
	err       error
	done      bool

	// verify runs the poll; wired by the command so the model stays
	// free of service dependencies.
	verify tea.Cmd
}

func newVerifyModel(date string, attempts int, verify tea.Cmd) verifyModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = formatter.StylePurple
	return verifyModel{
		spin:      s,
		date:      date,
		total:     attempts,
		remaining: attempts,
		verify:    verify,
	}
}

func (m verifyModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.verify)
}

func (m verifyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pollTickMsg:
		m.remaining = int(msg)
		return m, nil

	case verifyDoneMsg:
		m.err = msg.err
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.err = errVerifyAborted
			m.done = true
			return m, tea.Quit
		}
		return m, nil

	default:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
}

func (m verifyModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("  %s waiting for %s to become visible %s\n",
		m.spin.View(),
		formatter.Bold(m.date),
		formatter.Dim(fmt.Sprintf("(%d/%d attempts left)", m.remaining, m.total)),
	)
}
