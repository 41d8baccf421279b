package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mab8192/tcgprint/pkg/pipeline"
)

var (
	barFullStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle = lipgloss.NewStyle().Foreground(colorDim)
)

const barWidth = 30

// =============================================================================
// ProgressModel - page rendering progress
// =============================================================================

type pageDoneMsg struct{ done, total int }

type runDoneMsg struct {
	result *pipeline.Result
	err    error
}

// ProgressModel is the bubbletea model shown while pages render.
type ProgressModel struct {
	Output string
	Done   int
	Total  int
	Result *pipeline.Result
	Err    error

	cancel   context.CancelFunc
	finished bool
}

// NewProgressModel creates a progress model. cancel is called when the user
// quits before the run finishes.
func NewProgressModel(output string, cancel context.CancelFunc) ProgressModel {
	return ProgressModel{Output: output, cancel: cancel}
}

func (m ProgressModel) Init() tea.Cmd {
	return nil
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
	case pageDoneMsg:
		m.Done, m.Total = msg.done, msg.total
	case runDoneMsg:
		m.Result, m.Err = msg.result, msg.err
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m ProgressModel) View() string {
	if m.finished {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Generating " + m.Output))
	b.WriteString("\n")

	if m.Total == 0 {
		b.WriteString(StyleDim.Render("scanning and laying out..."))
	} else {
		filled := barWidth * m.Done / m.Total
		b.WriteString(barFullStyle.Render(strings.Repeat("█", filled)))
		b.WriteString(barEmptyStyle.Render(strings.Repeat("░", barWidth-filled)))
		b.WriteString(" ")
		b.WriteString(StyleNumber.Render(fmt.Sprintf("%d/%d", m.Done, m.Total)))
		b.WriteString(StyleDim.Render(" pages"))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("q to cancel"))
	b.WriteString("\n")
	return b.String()
}

// runWithProgress executes the pipeline behind a bubbletea progress bar.
// Log output is silenced while the bar is on screen. Quitting the view
// cancels the run, and the function returns only once the run has stopped.
func runWithProgress(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewProgressModel(opts.Output, cancel), tea.WithOutput(os.Stderr))

	opts.Logger = newLogger(io.Discard, LogInfo)
	opts.Progress = func(done, total int) {
		p.Send(pageDoneMsg{done: done, total: total})
	}

	finished := make(chan runDoneMsg, 1)
	go func() {
		result, err := runner.Execute(ctx, opts)
		msg := runDoneMsg{result: result, err: err}
		finished <- msg
		p.Send(msg)
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-finished
		return nil, err
	}
	msg := <-finished
	return msg.result, msg.err
}
