// Package ui renders interactive progress for directory runs.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"underware/internal/driver"
)

const statusColumn = 8

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	summaryStyle = lipgloss.NewStyle().Faint(true)
	statusStyles = map[string]lipgloss.Style{
		"done":      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"cached":    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"error":     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		"loading":   lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		"parsing":   lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		"expanding": lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		"splicing":  lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	}
	queuedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type fileRow struct {
	path  string
	label string
	stage driver.Stage
	final bool
}

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []fileRow
	index   map[string]int
	width   int
	errors  int
	done    bool
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that follows driver events for
// files until events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		rows:    make([]fileRow, 0, len(files)),
		index:   make(map[string]int, len(files)),
		width:   80,
	}
	for i, f := range files {
		m.rows = append(m.rows, fileRow{path: f, label: "queued"})
		m.index[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
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
			m.bar.Width = max(msg.Width-4, 10)
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	header := m.title
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusColumn-4, 20)
	for _, row := range m.rows {
		status := styleFor(row.label).Render(fmt.Sprintf("%*s", statusColumn, row.label))
		fmt.Fprintf(&b, "  %s %s\n", status, truncate(row.path, nameWidth))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	finished := m.finished()
	b.WriteString(summaryStyle.Render(fmt.Sprintf("%d/%d files, %d with errors", finished, len(m.rows), m.errors)))
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) apply(ev driver.Event) tea.Cmd {
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	row := &m.rows[idx]
	if row.final {
		return nil
	}
	row.stage = ev.Stage
	row.label = label(ev.Stage, ev.Status)
	switch ev.Status {
	case driver.StatusDone, driver.StatusCached:
		row.final = true
	case driver.StatusError:
		row.final = true
		m.errors++
	}
	return m.bar.SetPercent(m.fraction())
}

func (m *progressModel) finished() int {
	n := 0
	for _, r := range m.rows {
		if r.final {
			n++
		}
	}
	return n
}

func (m *progressModel) fraction() float64 {
	total := 0.0
	for _, r := range m.rows {
		if r.final {
			total++
			continue
		}
		total += stageWeight(r.stage)
	}
	return total / float64(len(m.rows))
}

func stageWeight(stage driver.Stage) float64 {
	switch stage {
	case driver.StageLoad:
		return 0.1
	case driver.StageParse:
		return 0.3
	case driver.StageExpand:
		return 0.6
	case driver.StageSplice:
		return 0.9
	}
	return 0
}

func label(stage driver.Stage, status driver.Status) string {
	switch status {
	case driver.StatusDone:
		return "done"
	case driver.StatusCached:
		return "cached"
	case driver.StatusError:
		return "error"
	case driver.StatusWorking:
		switch stage {
		case driver.StageLoad:
			return "loading"
		case driver.StageParse:
			return "parsing"
		case driver.StageExpand:
			return "expanding"
		case driver.StageSplice:
			return "splicing"
		}
	}
	return "queued"
}

func styleFor(label string) lipgloss.Style {
	if s, ok := statusStyles[label]; ok {
		return s
	}
	return queuedStyle
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
