package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/report"
)

// List styles
var (
	listNormalStyle = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// maxVisibleFailures bounds the failure list shown while a run is live.
const maxVisibleFailures = 10

// =============================================================================
// RunModel - Live corpus run progress
// =============================================================================

// resultMsg carries one finished document result into the model.
type resultMsg report.DocumentResult

// runDoneMsg signals that the harness finished.
type runDoneMsg struct {
	rep *report.Report
	err error
}

// RunModel is the bubbletea model showing live progress of a corpus run.
// Results arrive on a channel fed by the harness OnResult callback.
type RunModel struct {
	Total    int
	Results  <-chan report.DocumentResult
	Done     <-chan runDoneMsg
	Report   *report.Report
	Err      error
	Canceled bool

	checked  int
	failed   int
	lastPath string
	failures []string
	frame    int
}

// NewRunModel creates a progress model for a run over total documents.
func NewRunModel(total int, results <-chan report.DocumentResult, done <-chan runDoneMsg) RunModel {
	return RunModel{Total: total, Results: results, Done: done}
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (m RunModel) Init() tea.Cmd {
	return m.wait()
}

// wait blocks on the next event from the harness.
func (m RunModel) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case res, ok := <-m.Results:
			if !ok {
				return <-m.Done
			}
			return resultMsg(res)
		case done := <-m.Done:
			return done
		}
	}
}

func (m RunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Canceled = true
			return m, tea.Quit
		}
	case resultMsg:
		m.checked++
		m.frame++
		m.lastPath = msg.Path
		if !report.DocumentResult(msg).Passed() {
			m.failed++
			m.failures = append(m.failures, msg.Path)
		}
		return m, m.wait()
	case runDoneMsg:
		m.Report = msg.rep
		m.Err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m RunModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Checking corpus"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("q: abort"))
	b.WriteString("\n\n")

	frame := spinnerFrames[m.frame%len(spinnerFrames)]
	b.WriteString(fmt.Sprintf("%s %s %s\n",
		styleIconSpinner.Render(frame),
		StyleNumber.Render(fmt.Sprintf("%d/%d", m.checked, m.Total)),
		listDimStyle.Render(m.lastPath)))

	if m.failed > 0 {
		b.WriteString("\n")
		b.WriteString(StyleWarning.Render(fmt.Sprintf("%d failing", m.failed)))
		b.WriteString("\n")
		start := 0
		if len(m.failures) > maxVisibleFailures {
			start = len(m.failures) - maxVisibleFailures
			b.WriteString(listDimStyle.Render(fmt.Sprintf("  … %d earlier\n", start)))
		}
		for _, path := range m.failures[start:] {
			b.WriteString("  " + styleIconError.Render(iconError) + " " + listNormalStyle.Render(path) + "\n")
		}
	}

	return b.String()
}
