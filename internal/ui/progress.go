// Package ui renders driver progress as a Bubble Tea program.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"bibfmt/internal/driver"
)

// maxRows ограничивает список файлов; остальные сворачиваются в "+N more".
const maxRows = 12

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	statusStyles = map[driver.Status]lipgloss.Style{
		driver.StatusDone:      lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		driver.StatusUnchanged: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		driver.StatusCached:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		driver.StatusError:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		driver.StatusWorking:   lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	}
)

type fileRow struct {
	path    string
	status  driver.Status
	stage   driver.Stage
	elapsed time.Duration
}

func (r fileRow) finished() bool {
	switch r.status {
	case driver.StatusDone, driver.StatusUnchanged, driver.StatusCached, driver.StatusError:
		return true
	}
	return false
}

// weight is the share of the row that counts towards the progress bar.
func (r fileRow) weight() float64 {
	if r.finished() {
		return 1
	}
	switch r.stage {
	case driver.StageFormat:
		return 0.5
	case driver.StageWrite:
		return 0.8
	}
	return 0
}

func (r fileRow) label() string {
	switch r.status {
	case driver.StatusDone:
		return "reformatted"
	case driver.StatusWorking:
		switch r.stage {
		case driver.StageLoad:
			return "loading"
		case driver.StageFormat:
			return "formatting"
		case driver.StageWrite:
			return "writing"
		}
	case "":
		return "queued"
	}
	return string(r.status)
}

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []fileRow
	byPath  map[string]int
	width   int
	done    bool
	stopped bool
}

type eventMsg driver.Event
type closedMsg struct{}

// NewProgressModel returns a model that tracks one row per file and quits
// once events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	rows := make([]fileRow, len(files))
	byPath := make(map[string]int, len(files))
	for i, f := range files {
		rows[i] = fileRow{path: f}
		byPath[f] = i
	}
	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient()),
		rows:    rows,
		byPath:  byPath,
	}
	m.resize(80)
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(driver.Event(msg)), m.next())
	case closedMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.stopped = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width)
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// Interrupted reports whether the user pressed Ctrl+C before the run ended.
func (m *progressModel) Interrupted() bool { return m.stopped }

func (m *progressModel) resize(width int) {
	if width <= 0 {
		return
	}
	m.width = width
	m.bar.Width = max(width-4, 10)
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

// applyEvent обновляет строку файла и возвращает команду анимации бара.
// События без файла и события о незнакомых путях игнорируются.
func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	row := &m.rows[i]
	row.status, row.stage = ev.Status, ev.Stage
	if ev.Elapsed > 0 {
		row.elapsed = ev.Elapsed
	}
	return m.bar.SetPercent(m.fraction())
}

func (m *progressModel) fraction() float64 {
	if len(m.rows) == 0 {
		return 1
	}
	var sum float64
	for _, r := range m.rows {
		sum += r.weight()
	}
	return sum / float64(len(m.rows))
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder
	head := m.title
	if m.done {
		head = "done: " + head
	} else {
		head = m.spinner.View() + " " + head
	}
	b.WriteString(titleStyle.Render(head))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.tally()))
	b.WriteString("\n\n")

	nameWidth := max(m.width-16, 20)
	shown := m.visibleRows()
	for _, i := range shown {
		r := m.rows[i]
		label := fmt.Sprintf("%12s", r.label())
		if st, ok := statusStyles[r.status]; ok {
			label = st.Render(label)
		} else {
			label = dimStyle.Render(label)
		}
		line := "  " + label + " " + truncate(r.path, nameWidth)
		if r.finished() && r.elapsed > 0 {
			line += dimStyle.Render(" " + r.elapsed.Round(time.Millisecond).String())
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if hidden := len(m.rows) - len(shown); hidden > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  +%d more", hidden)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

// visibleRows отдаёт индексы строк для отрисовки: сначала файлы в работе
// и с ошибками, затем остальные в исходном порядке, не больше maxRows.
func (m *progressModel) visibleRows() []int {
	if len(m.rows) <= maxRows {
		out := make([]int, len(m.rows))
		for i := range out {
			out[i] = i
		}
		return out
	}
	out := make([]int, 0, maxRows)
	picked := make(map[int]bool, maxRows)
	for pass := 0; pass < 2 && len(out) < maxRows; pass++ {
		for i, r := range m.rows {
			if len(out) == maxRows {
				break
			}
			urgent := r.status == driver.StatusWorking || r.status == driver.StatusError
			if picked[i] || (pass == 0 && !urgent) {
				continue
			}
			picked[i] = true
			out = append(out, i)
		}
	}
	return out
}

func (m *progressModel) tally() string {
	counts := make(map[driver.Status]int, 5)
	for _, r := range m.rows {
		counts[r.status]++
	}
	return fmt.Sprintf("%d/%d files · %d reformatted · %d unchanged · %d cached · %d errors",
		counts[driver.StatusDone]+counts[driver.StatusUnchanged]+counts[driver.StatusCached]+counts[driver.StatusError],
		len(m.rows),
		counts[driver.StatusDone], counts[driver.StatusUnchanged], counts[driver.StatusCached], counts[driver.StatusError])
}

// truncate сокращает путь слева, чтобы имя файла оставалось видно.
func truncate(path string, width int) string {
	if width <= 0 || runewidth.StringWidth(path) <= width {
		return path
	}
	if width <= 3 {
		return runewidth.Truncate(path, width, "")
	}
	// runewidth режет только справа: разворачиваем по рунам
	runes := []rune(path)
	keep := 0
	w := 0
	for i := len(runes) - 1; i >= 0; i-- {
		rw := runewidth.RuneWidth(runes[i])
		if w+rw > width-3 {
			break
		}
		w += rw
		keep++
	}
	return "..." + string(runes[len(runes)-keep:])
}
