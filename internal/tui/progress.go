package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
)

// ProgressMsg reports how many showdowns have been evaluated.
type ProgressMsg struct {
	Done  uint64
	Total uint64
}

// DoneMsg ends the progress display.
type DoneMsg struct{}

// ProgressModel draws a single progress bar for a running calculation.
type ProgressModel struct {
	label string
	bar   progress.Model
	done  uint64
	total uint64
	quit  bool
}

// NewProgressModel creates a progress bar model with the given label.
func NewProgressModel(label string) ProgressModel {
	return ProgressModel{
		label: label,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

// Init implements tea.Model.
func (m ProgressModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ProgressMsg:
		m.done, m.total = msg.Done, msg.Total
	case DoneMsg:
		m.quit = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.bar.Width = max(10, min(60, msg.Width-len(m.label)-30))
	}
	return m, nil
}

// Fraction is the completed share of the work, in [0, 1].
func (m ProgressModel) Fraction() float64 {
	if m.total == 0 {
		return 0
	}
	return min(1, float64(m.done)/float64(m.total))
}

// View implements tea.Model.
func (m ProgressModel) View() string {
	if m.quit {
		return ""
	}
	var b strings.Builder
	if m.label != "" {
		b.WriteString(InfoStyle.Render(m.label))
		b.WriteByte(' ')
	}
	b.WriteString(m.bar.ViewAs(m.Fraction()))
	fmt.Fprintf(&b, " %s / %s\n", humanize.Comma(int64(m.done)), humanize.Comma(int64(m.total)))
	return b.String()
}

// Progress runs a ProgressModel in the background and feeds it updates.
type Progress struct {
	program *tea.Program
	exited  chan struct{}
	last    int
}

// StartProgress draws a progress bar on w until Stop is called or ctx ends.
func StartProgress(ctx context.Context, w io.Writer, label string) *Progress {
	p := &Progress{
		program: tea.NewProgram(NewProgressModel(label),
			tea.WithOutput(w), tea.WithInput(nil), tea.WithContext(ctx)),
		exited: make(chan struct{}),
		last:   -1,
	}
	go func() {
		defer close(p.exited)
		_, _ = p.program.Run()
	}()
	return p
}

// Update reports progress. Updates that do not move the bar by at least a
// tenth of a percent are dropped; callers must not call Update concurrently.
func (p *Progress) Update(done, total uint64) {
	step := 0
	if total > 0 {
		step = int(min(done, total) * 1000 / total)
	}
	if step == p.last {
		return
	}
	p.last = step
	p.program.Send(ProgressMsg{Done: done, Total: total})
}

// Stop clears the bar and waits for the display to exit.
func (p *Progress) Stop() {
	p.program.Send(DoneMsg{})
	<-p.exited
}
