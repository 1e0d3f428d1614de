package questlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/dailyquest/internal/models"
)

type AddQuestMsg struct{}

type ToggleQuestMsg struct {
	ID string
}

type StepQuestMsg struct {
	ID    string
	Delta int
}

type EditProgressMsg struct {
	ID string
}

type DeleteQuestMsg struct {
	ID string
}

type Item struct {
	Quest models.Quest
}

func (i Item) Title() string {
	mark := "○ "
	if i.Quest.Completed {
		mark = "✓ "
	}
	return mark + i.Quest.Text
}

func (i Item) Description() string {
	q := i.Quest
	if q.IsCounter() {
		desc := fmt.Sprintf("%d / %d", q.CurrentValue(), q.TargetValue())
		if q.Unit != "" {
			desc += " " + q.Unit
		}
		if q.Completed {
			desc += " · done"
		}
		return desc
	}
	if q.Completed {
		return "done today"
	}
	return "not done yet"
}

func (i Item) FilterValue() string { return i.Quest.Text }

type KeyMap struct {
	Add       key.Binding
	Toggle    key.Binding
	Increment key.Binding
	Decrement key.Binding
	Edit      key.Binding
	Delete    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "toggle"),
		),
		Increment: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "step up"),
		),
		Decrement: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "step down"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "set value"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "x"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(quests models.Collection, width, height int) Model {
	l := list.New(toItems(quests), list.NewDefaultDelegate(), width, height)
	l.Title = "Active Quests"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Increment, keys.Decrement}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Increment, keys.Decrement, keys.Edit, keys.Delete}
	}

	return Model{list: l, keys: keys}
}

func toItems(quests models.Collection) []list.Item {
	items := make([]list.Item, len(quests))
	for i, q := range quests {
		items[i] = Item{Quest: q}
	}
	return items
}

// SetQuests replaces the items, keeping the cursor in range.
func (m *Model) SetQuests(quests models.Collection) {
	idx := m.list.Index()
	m.list.SetItems(toItems(quests))
	if n := len(quests); n > 0 && idx >= n {
		m.list.Select(n - 1)
	}
}

// Selected returns the quest under the cursor.
func (m Model) Selected() (models.Quest, bool) {
	i, ok := m.list.SelectedItem().(Item)
	if !ok {
		return models.Quest{}, false
	}
	return i.Quest, true
}

func (m Model) Keys() KeyMap { return m.keys }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		if key.Matches(msg, m.keys.Add) {
			return m, func() tea.Msg { return AddQuestMsg{} }
		}
		if q, ok := m.Selected(); ok {
			switch {
			case key.Matches(msg, m.keys.Toggle):
				if q.IsCounter() {
					return m, func() tea.Msg { return StepQuestMsg{ID: q.ID, Delta: 1} }
				}
				return m, func() tea.Msg { return ToggleQuestMsg{ID: q.ID} }
			case key.Matches(msg, m.keys.Increment):
				if q.IsCounter() {
					return m, func() tea.Msg { return StepQuestMsg{ID: q.ID, Delta: 1} }
				}
				return m, nil
			case key.Matches(msg, m.keys.Decrement):
				if q.IsCounter() && q.CurrentValue() > 0 {
					return m, func() tea.Msg { return StepQuestMsg{ID: q.ID, Delta: -1} }
				}
				return m, nil
			case key.Matches(msg, m.keys.Edit):
				if q.IsCounter() {
					return m, func() tea.Msg { return EditProgressMsg{ID: q.ID} }
				}
				return m, nil
			case key.Matches(msg, m.keys.Delete):
				return m, func() tea.Msg { return DeleteQuestMsg{ID: q.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No quests yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
