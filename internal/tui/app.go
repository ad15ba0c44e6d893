// Package tui provides an interactive terminal view of filtered log groups.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Geun-Oh/logsieve/internal/entry"
	"github.com/Geun-Oh/logsieve/internal/monitor"
)

// --- Styles ---

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			PaddingLeft(1).
			PaddingRight(1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#353533"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4444")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#44AAFF"))

	debugStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4"))

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6600")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

// --- Messages ---

// GroupMsg delivers a finished group to the TUI.
type GroupMsg entry.Group

// TickMsg triggers periodic UI updates.
type TickMsg time.Time

// DoneMsg signals the source has finished. Err is set when the run failed.
type DoneMsg struct {
	Err error
}

// --- Model ---

// Model is the bubbletea model for the group viewer.
type Model struct {
	// Display state.
	logs       []string
	maxLines   int
	width      int
	height     int
	scrollPos  int // 0 = bottom (auto-scroll), >0 = scrolled up
	paused     bool
	pauseQueue []string
	separator  string

	// Search state.
	searching    bool
	searchQuery  string
	searchResult []int // indices into logs that match

	Stats  *monitor.Stats
	Source string
	Filter string

	// Counters over displayed lines.
	groups     int
	errorCount int
	warnCount  int
	lineCount  int

	done    bool
	doneErr error
}

// NewModel creates a new TUI model.
func NewModel(stats *monitor.Stats, sourceName, filterDesc, separator string) Model {
	if stats == nil {
		stats = monitor.NewStats()
	}
	return Model{
		maxLines:  1000,
		separator: separator,
		Stats:     stats,
		Source:    sourceName,
		Filter:    filterDesc,
	}
}

// Init starts the tick timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), tea.WindowSize())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case GroupMsg:
		return m.handleGroup(msg)

	case TickMsg:
		if m.done {
			return m, nil
		}
		return m, tickCmd()

	case DoneMsg:
		m.done = true
		m.doneErr = msg.Err
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "esc":
			m.searching = false
			m.searchQuery = ""
			m.searchResult = nil
			return m, nil
		case "enter":
			m.searching = false
			m.performSearch()
			return m, nil
		case "backspace":
			if len(m.searchQuery) > 0 {
				m.searchQuery = m.searchQuery[:len(m.searchQuery)-1]
			}
			return m, nil
		default:
			if len(msg.String()) == 1 {
				m.searchQuery += msg.String()
			}
			return m, nil
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "p":
		m.paused = !m.paused
		if !m.paused {
			m.logs = append(m.logs, m.pauseQueue...)
			m.pauseQueue = nil
			m.trimLogs()
		}
		return m, nil
	case "/":
		m.searching = true
		m.searchQuery = ""
		m.searchResult = nil
		return m, nil
	case "n":
		m.nextResult()
		return m, nil
	case "up", "k":
		if m.scrollPos < len(m.logs)-1 {
			m.scrollPos++
		}
		return m, nil
	case "down", "j":
		if m.scrollPos > 0 {
			m.scrollPos--
		}
		return m, nil
	case "g":
		m.scrollPos = 0 // jump to bottom (latest)
		return m, nil
	case "G":
		m.scrollPos = max(len(m.logs)-1, 0) // jump to top (oldest)
		return m, nil
	}

	return m, nil
}

func (m Model) handleGroup(msg GroupMsg) (tea.Model, tea.Cmd) {
	g := entry.Group(msg)

	lines := make([]string, 0, len(g.Lines)+1)
	if m.groups > 0 && m.separator != "" {
		lines = append(lines, separatorStyle.Render(m.separator))
	}
	m.groups++

	for i := range g.Lines {
		e := &g.Lines[i]
		m.lineCount++
		if e.Matched {
			switch e.Level {
			case entry.LevelError, entry.LevelFatal:
				m.errorCount++
			case entry.LevelWarn:
				m.warnCount++
			}
		}
		lines = append(lines, m.formatLine(e))
	}

	if m.paused {
		m.pauseQueue = append(m.pauseQueue, lines...)
		return m, nil
	}

	m.logs = append(m.logs, lines...)
	m.trimLogs()

	return m, nil
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var sb strings.Builder

	title := titleStyle.Render(fmt.Sprintf(" logsieve: %s ", m.Source))
	status := "▶ RUNNING"
	if m.paused {
		status = "⏸ PAUSED"
	}
	if m.done {
		status = "✔ DONE"
		if m.doneErr != nil {
			status = "✖ FAILED"
		}
	}
	statusText := statusBarStyle.Render(fmt.Sprintf(" %s  %d groups ", status, m.groups))
	gap := max(m.width-lipgloss.Width(title)-lipgloss.Width(statusText), 0)
	sb.WriteString(title + statusBarStyle.Render(strings.Repeat(" ", gap)) + statusText)
	sb.WriteString("\n")

	headerLines := 1
	if m.doneErr != nil {
		sb.WriteString(errorStyle.Render(truncate(m.doneErr.Error(), m.width)))
		sb.WriteString("\n")
		headerLines++
	}
	if m.searching {
		sb.WriteString(fmt.Sprintf(" 🔍 Search: %s█", m.searchQuery))
		sb.WriteString("\n")
		headerLines++
	}

	footerLines := 2 // stats bar + help bar
	viewportHeight := max(m.height-headerLines-footerLines, 1)

	visible := m.getVisibleLogs(viewportHeight)
	for _, line := range visible {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	for i := len(visible); i < viewportHeight; i++ {
		sb.WriteString("\n")
	}

	statsLine := fmt.Sprintf(" %s │ Read: %d │ Matched: %d │ Shown: %d │ ERR: %d │ WARN: %d │ %.0f/s",
		m.Filter, m.Stats.Total(), m.Stats.Matched(), m.lineCount, m.errorCount, m.warnCount, m.Stats.Rate())
	if m.scrollPos > 0 {
		statsLine += fmt.Sprintf(" │ ↑ %d", m.scrollPos)
	}
	if len(m.searchResult) > 0 {
		statsLine += fmt.Sprintf(" │ hits: %d", len(m.searchResult))
	}
	sb.WriteString(statusBarStyle.Render(padRight(statsLine, m.width)))
	sb.WriteString("\n")

	helpText := " [/]Search  [n]Next  [p]Pause  [↑↓]Scroll  [g]Bottom  [q]Quit"
	if m.paused {
		helpText += fmt.Sprintf("  (queued: %d)", len(m.pauseQueue))
	}
	sb.WriteString(helpStyle.Render(helpText))

	return sb.String()
}

// --- Helpers ---

func (m *Model) formatLine(e *entry.LogEntry) string {
	prefix := fmt.Sprintf("%6d", e.Index)
	if e.Matched {
		prefix += ":"
	} else {
		prefix += "-"
	}
	if !e.Timestamp.IsZero() {
		prefix += " " + e.Timestamp.Format("15:04:05")
	}

	text := truncate(e.Text, m.width-len(prefix)-1)
	if !e.Matched {
		return dimStyle.Render(prefix + " " + text)
	}
	return dimStyle.Render(prefix) + " " + levelStyle(e.Level).Render(text)
}

func levelStyle(l entry.Level) lipgloss.Style {
	switch l {
	case entry.LevelError, entry.LevelFatal:
		return errorStyle
	case entry.LevelWarn:
		return warnStyle
	case entry.LevelInfo:
		return infoStyle
	case entry.LevelDebug, entry.LevelTrace:
		return debugStyle
	default:
		return lipgloss.NewStyle()
	}
}

func (m *Model) getVisibleLogs(height int) []string {
	if len(m.logs) == 0 {
		return nil
	}

	end := max(len(m.logs)-m.scrollPos, 0)
	start := max(end-height, 0)

	result := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		line := m.logs[i]
		if m.searchQuery != "" && strings.Contains(line, m.searchQuery) {
			line = strings.ReplaceAll(line, m.searchQuery, highlightStyle.Render(m.searchQuery))
		}
		result = append(result, line)
	}
	return result
}

func (m *Model) performSearch() {
	m.searchResult = nil
	if m.searchQuery == "" {
		return
	}
	for i, line := range m.logs {
		if strings.Contains(line, m.searchQuery) {
			m.searchResult = append(m.searchResult, i)
		}
	}
	// Scroll to last match.
	if len(m.searchResult) > 0 {
		last := m.searchResult[len(m.searchResult)-1]
		m.scrollPos = len(m.logs) - last - 1
	}
}

// nextResult moves to the previous (older) search hit, wrapping to the newest.
func (m *Model) nextResult() {
	if len(m.searchResult) == 0 {
		return
	}
	current := len(m.logs) - m.scrollPos - 1
	for i := len(m.searchResult) - 1; i >= 0; i-- {
		if m.searchResult[i] < current {
			m.scrollPos = len(m.logs) - m.searchResult[i] - 1
			return
		}
	}
	m.scrollPos = len(m.logs) - m.searchResult[len(m.searchResult)-1] - 1
}

func (m *Model) trimLogs() {
	if len(m.logs) > m.maxLines {
		excess := len(m.logs) - m.maxLines
		m.logs = m.logs[excess:]
		m.searchResult = nil
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-1] + "…"
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
