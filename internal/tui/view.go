package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateList:
		content = m.viewList()
	case StateCalendar:
		content = m.monthView.View()
	case StateAddQuest, StateSetProgress:
		content = m.form.View()
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	parts := []string{
		titleStyle.Render("DAILY QUESTS"),
		m.viewTabs(),
		m.viewProgress(),
		docStyle.Render(content),
	}
	if m.status != "" {
		style := infoStyle
		if m.statusIsErr {
			style = warningStyle
		}
		parts = append(parts, style.Render(m.status))
	}
	parts = append(parts, m.help.View(m), m.viewFooter())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Quests", "Calendar"} {
		active := m.state == SessionState(i) || (i == 0 && m.state > StateCalendar)
		if active {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewProgress() string {
	count := countStyle.Render(fmt.Sprintf(" %d/%d done  %.0f%%", m.quests.CompletedCount(), len(m.quests), m.ratio))
	return lipgloss.JoinHorizontal(lipgloss.Center, m.bar.ViewAs(m.ratio/100), count)
}

func (m Model) viewList() string {
	list := m.questList.View()
	if m.ratio == 100 && len(m.quests) > 0 {
		return lipgloss.JoinVertical(lipgloss.Left, bannerStyle.Render("★ All Quests Complete! ★"), "", list)
	}
	return list
}

func (m Model) viewConfirmDelete() string {
	text := "this quest"
	if i := m.quests.Find(m.selectedID); i >= 0 {
		text = fmt.Sprintf("%q", m.quests[i].Text)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		dangerStyle.Render("Delete "+text+"?"),
		"",
		"[y] Yes",
		"[n] No",
	)
}

func (m Model) viewFooter() string {
	cal := m.ctrl.Calendar()
	reset := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).Add(cal.Cutoff()).Format("3:04 PM")
	return footerStyle.Render(fmt.Sprintf(
		"Resets daily at %s.  Now: %s | Logic: %s | Last visit: %s",
		reset,
		cal.Now().Format("2006-01-02 15:04"),
		cal.Today(),
		m.ctrl.Marker(),
	))
}
