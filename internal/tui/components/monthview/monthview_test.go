package monthview

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/dailyquest/internal/history"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		pct  float64
		want Level
	}{
		{0, LevelNone},
		{0.5, LevelLow},
		{49.9, LevelLow},
		{50, LevelHalf},
		{74.99, LevelHalf},
		{75, LevelHigh},
		{99.9, LevelHigh},
		{100, LevelFull},
	}
	for _, tt := range tests {
		if got := LevelFor(tt.pct); got != tt.want {
			t.Errorf("LevelFor(%v) = %v, want %v", tt.pct, got, tt.want)
		}
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNavigation(t *testing.T) {
	m := New(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))

	m, cmd := m.Update(keyMsg("left"))
	if y, mo := m.Month(); y != 2023 || mo != time.December {
		t.Errorf("after left: %d-%d", y, mo)
	}
	if cmd == nil {
		t.Fatal("expected a MonthChangedMsg command")
	}
	if msg, ok := cmd().(MonthChangedMsg); !ok || msg.Year != 2023 || msg.Month != time.December {
		t.Errorf("unexpected message %#v", msg)
	}

	m, _ = m.Update(keyMsg("right"))
	m, _ = m.Update(keyMsg("right"))
	if y, mo := m.Month(); y != 2024 || mo != time.February {
		t.Errorf("after two rights: %d-%d", y, mo)
	}

	m, _ = m.Update(keyMsg("t"))
	if y, mo := m.Month(); y != 2024 || mo != time.January {
		t.Errorf("after t: %d-%d", y, mo)
	}

	if _, cmd := m.Update(keyMsg("x")); cmd != nil {
		t.Error("unbound key should not produce a command")
	}
}

func TestView(t *testing.T) {
	m := New(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
	var days []history.DayEntry
	for d := 1; d <= 29; d++ {
		date := time.Date(2024, 2, d, 0, 0, 0, 0, time.UTC)
		days = append(days, history.DayEntry{
			Day:        date.Format("2006-01-02"),
			Date:       date,
			Percentage: float64(d % 5 * 25),
			Today:      d == 10,
		})
	}
	m.SetDays(days)

	view := m.View()
	for _, want := range []string{"February 2024", "[10]", "29", "100%", "Today: 0% complete"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
