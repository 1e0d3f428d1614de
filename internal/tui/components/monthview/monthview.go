// Package monthview renders one month of history as a heat-map grid.
package monthview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dailyquest/internal/history"
)

// Level buckets a completion percentage for coloring.
type Level int

const (
	LevelNone Level = iota // 0%
	LevelLow               // 1-49%
	LevelHalf              // 50-74%
	LevelHigh              // 75-99%
	LevelFull              // 100%
)

func LevelFor(pct float64) Level {
	switch {
	case pct >= 100:
		return LevelFull
	case pct >= 75:
		return LevelHigh
	case pct >= 50:
		return LevelHalf
	case pct > 0:
		return LevelLow
	default:
		return LevelNone
	}
}

var (
	cellStyle = lipgloss.NewStyle().Width(4).Align(lipgloss.Center)

	levelStyles = map[Level]lipgloss.Style{
		LevelNone: cellStyle.Foreground(lipgloss.Color("245")).Background(lipgloss.Color("236")),
		LevelLow:  cellStyle.Foreground(lipgloss.Color("252")).Background(lipgloss.Color("239")),
		LevelHalf: cellStyle.Foreground(lipgloss.Color("255")).Background(lipgloss.Color("61")),
		LevelHigh: cellStyle.Foreground(lipgloss.Color("255")).Background(lipgloss.Color("99")),
		LevelFull: cellStyle.Foreground(lipgloss.Color("231")).Background(lipgloss.Color("201")).Bold(true),
	}

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	weekdayStyle = cellStyle.Foreground(lipgloss.Color("240")).Bold(true)
	legendStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Italic(true)
)

// MonthChangedMsg asks the parent to load entries for a new month.
type MonthChangedMsg struct {
	Year  int
	Month time.Month
}

type KeyMap struct {
	Prev  key.Binding
	Next  key.Binding
	Today key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev month"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next month"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "this month"),
		),
	}
}

type Model struct {
	keys    KeyMap
	year    int
	month   time.Month
	current time.Time
	days    []history.DayEntry
}

// New starts on the month containing current, the logical today.
func New(current time.Time) Model {
	return Model{
		keys:    DefaultKeyMap(),
		year:    current.Year(),
		month:   current.Month(),
		current: current,
	}
}

func (m Model) Keys() KeyMap { return m.keys }

func (m Model) Month() (int, time.Month) { return m.year, m.month }

// SetDays replaces the entries shown for the current month.
func (m *Model) SetDays(days []history.DayEntry) {
	m.days = days
}

// SetCurrent moves the "this month" anchor, e.g. after a day rollover.
func (m *Model) SetCurrent(t time.Time) {
	m.current = t
}

func (m *Model) shift(delta int) {
	first := time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	m.year, m.month = first.Year(), first.Month()
}

func (m Model) changed() tea.Cmd {
	year, month := m.year, m.month
	return func() tea.Msg { return MonthChangedMsg{Year: year, Month: month} }
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Prev):
			m.shift(-1)
			return m, m.changed()
		case key.Matches(msg, m.keys.Next):
			m.shift(1)
			return m, m.changed()
		case key.Matches(msg, m.keys.Today):
			m.year, m.month = m.current.Year(), m.current.Month()
			return m, m.changed()
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	title := time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
	b.WriteString(headerStyle.Render("‹ " + title + " ›"))
	b.WriteString("\n\n")

	var header []string
	for _, d := range []string{"S", "M", "T", "W", "T", "F", "S"} {
		header = append(header, weekdayStyle.Render(d))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...))
	b.WriteString("\n")

	var today *history.DayEntry
	row := make([]string, 0, 7)
	if len(m.days) > 0 {
		for i := 0; i < int(m.days[0].Date.Weekday()); i++ {
			row = append(row, cellStyle.Render(""))
		}
	}
	for i := range m.days {
		d := m.days[i]
		label := fmt.Sprintf("%d", d.Date.Day())
		style := levelStyles[LevelFor(d.Percentage)]
		if d.Today {
			label = "[" + label + "]"
			style = style.Underline(true)
			today = &m.days[i]
		}
		row = append(row, style.Render(label))
		if len(row) == 7 {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
			b.WriteString("\n")
			row = row[:0]
		}
	}
	if len(row) > 0 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(legend())
	if today != nil {
		b.WriteString("\n")
		b.WriteString(detailStyle.Render(fmt.Sprintf("Today: %.0f%% complete", today.Percentage)))
	}
	return b.String()
}

func legend() string {
	items := []struct {
		level Level
		label string
	}{
		{LevelNone, "0%"},
		{LevelLow, "1-49%"},
		{LevelHalf, "50-74%"},
		{LevelHigh, "75-99%"},
		{LevelFull, "100%"},
	}
	var parts []string
	for _, it := range items {
		swatch := levelStyles[it.level].Width(2).Render("")
		parts = append(parts, swatch+" "+legendStyle.Render(it.label))
	}
	return strings.Join(parts, "  ")
}
