package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dailyquest/internal/models"
	"github.com/julianstephens/dailyquest/internal/quest"
	"github.com/julianstephens/dailyquest/internal/tui/components/monthview"
	"github.com/julianstephens/dailyquest/internal/tui/components/questlist"
)

const maxBarWidth = 60

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.bar.Width = min(max(msg.Width-8, 10), maxBarWidth)
		m.questList.SetSize(max(msg.Width-4, 0), max(msg.Height-14, 3))
		return m, nil

	case dayTickMsg:
		m.checkDay()
		return m, m.scheduleCheck()

	case tea.FocusMsg, tea.ResumeMsg:
		m.checkDay()
		return m, nil

	case CelebrateMsg:
		m.setInfo("All Quests Complete! Great job today.")
		return m, nil

	case monthview.MonthChangedMsg:
		m.loadMonth()
		return m, nil
	}

	switch m.state {
	case StateAddQuest, StateSetProgress:
		return m.updateForm(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	switch msg := msg.(type) {
	case questlist.AddQuestMsg:
		m.openAddForm()
		return m, m.form.Init()

	case questlist.ToggleQuestMsg:
		m.apply(func(s *quest.State) (bool, error) { return s.Toggle(msg.ID) })
		return m, nil

	case questlist.StepQuestMsg:
		m.apply(func(s *quest.State) (bool, error) { return s.Increment(msg.ID, msg.Delta) })
		return m, nil

	case questlist.EditProgressMsg:
		if i := m.quests.Find(msg.ID); i >= 0 {
			m.openProgressForm(m.quests[i])
			return m, m.form.Init()
		}
		return m, nil

	case questlist.DeleteQuestMsg:
		m.selectedID = msg.ID
		m.state = StateConfirmDelete
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
			if m.state == StateList {
				m.state = StateCalendar
				m.loadMonth()
			} else {
				m.state = StateList
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateList:
		m.questList, cmd = m.questList.Update(msg)
	case StateCalendar:
		m.monthView, cmd = m.monthView.Update(msg)
	}
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		return m.closeForm(), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if m.state == StateAddQuest {
			m.submitAdd()
		} else {
			m.submitProgress()
		}
		return m.closeForm(), nil
	case huh.StateAborted:
		return m.closeForm(), nil
	}
	return m, cmd
}

func (m Model) closeForm() Model {
	m.form = nil
	m.addForm = nil
	m.progressForm = nil
	m.selectedID = ""
	m.state = StateList
	return m
}

func (m *Model) submitAdd() {
	f := m.addForm
	text := strings.TrimSpace(f.Text)
	if f.Kind == string(models.QuestCounter) {
		target, err := strconv.Atoi(strings.TrimSpace(f.Target))
		if err != nil || target <= 0 {
			return
		}
		unit := strings.TrimSpace(f.Unit)
		m.apply(func(s *quest.State) (bool, error) { return s.AddCounter(text, target, unit) })
		return
	}
	m.apply(func(s *quest.State) (bool, error) { return s.Add(text) })
}

func (m *Model) submitProgress() {
	n, err := strconv.Atoi(strings.TrimSpace(m.progressForm.Value))
	if err != nil {
		return
	}
	id := m.selectedID
	m.apply(func(s *quest.State) (bool, error) { return s.UpdateProgress(id, n) })
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		id := m.selectedID
		m.apply(func(s *quest.State) (bool, error) { return s.Delete(id) })
		m.selectedID = ""
		m.state = StateList
	case key.Matches(keyMsg, m.keys.Cancel):
		m.selectedID = ""
		m.state = StateList
	}
	return m, nil
}
