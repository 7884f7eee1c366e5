// Package ui holds the Bubble Tea view shown while a directory is generated.
package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"spoke/internal/pipeline"
)

// stageInfo is how a running stage is shown and how far along it counts.
var stageInfo = map[pipeline.Stage]struct {
	label    string
	fraction float64
}{
	pipeline.StageLex:      {"lexing", 0.1},
	pipeline.StageParse:    {"parsing", 0.3},
	pipeline.StageGenerate: {"generating", 0.5},
	pipeline.StageRender:   {"rendering", 0.7},
	pipeline.StageWrite:    {"writing", 0.9},
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

const statusWidth = 12

type fileRow struct {
	path   string
	label  string // queued, parsing, done...
	status pipeline.Status
	stage  pipeline.Stage
}

func (r fileRow) fraction() float64 {
	if r.status.Terminal() {
		return 1
	}
	return stageInfo[r.stage].fraction
}

func (r fileRow) style() lipgloss.Style {
	switch r.status {
	case pipeline.StatusDone, pipeline.StatusCached:
		return okStyle
	case pipeline.StatusError:
		return failStyle
	case pipeline.StatusWorking:
		return workingStyle
	}
	return idleStyle
}

type progressModel struct {
	title   string
	events  <-chan pipeline.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []fileRow
	byPath  map[string]int
	phase   string // этап всего прогона, когда событие без файла
	width   int
	done    bool
}

type eventMsg pipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model listing files with their
// current stage. It quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan pipeline.Event) tea.Model {
	m := &progressModel{
		title:   title,
		events:  events,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(workingStyle)),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	for _, f := range files {
		m.byPath[f] = len(m.rows)
		m.rows = append(m.rows, fileRow{path: f, label: string(pipeline.StatusQueued), status: pipeline.StatusQueued})
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

// next waits for one event from the driver.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(pipeline.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func label(ev pipeline.Event) string {
	if ev.Status == pipeline.StatusWorking {
		return stageInfo[ev.Stage].label
	}
	if ev.Status.Terminal() || ev.Status == pipeline.StatusQueued {
		return string(ev.Status)
	}
	return ""
}

func (m *progressModel) apply(ev pipeline.Event) tea.Cmd {
	text := label(ev)
	if text == "" {
		return nil
	}
	if ev.File == "" {
		m.phase = text
		return nil
	}
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	m.rows[i] = fileRow{path: ev.File, label: text, status: ev.Status, stage: ev.Stage}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range m.rows {
		sum += r.fraction()
	}
	return sum / float64(len(m.rows))
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	header := m.title
	if m.phase != "" {
		header += " (" + m.phase + ")"
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header) + "\n\n")
	nameWidth := max(m.width-statusWidth-4, 20)
	for _, r := range m.rows {
		status := r.style().Render(fmt.Sprintf("%*s", statusWidth, r.label))
		fmt.Fprintf(&b, "  %s %s\n", status, truncate(r.path, nameWidth))
	}
	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n" + m.summary() + "\n")
	return b.String()
}

func (m *progressModel) summary() string {
	count := func(s pipeline.Status) int {
		return len(slices.DeleteFunc(slices.Clone(m.rows), func(r fileRow) bool { return r.status != s }))
	}
	return fmt.Sprintf("%d files: %d done, %d cached, %d failed",
		len(m.rows), count(pipeline.StatusDone), count(pipeline.StatusCached), count(pipeline.StatusError))
}

// truncate cuts value to width terminal columns, marking the cut with "...".
func truncate(value string, width int) string {
	switch {
	case width <= 0 || runewidth.StringWidth(value) <= width:
		return value
	case width <= 3:
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
