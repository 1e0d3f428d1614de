package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dailyquest/internal/constants"
	"github.com/julianstephens/dailyquest/internal/history"
	"github.com/julianstephens/dailyquest/internal/lifecycle"
	"github.com/julianstephens/dailyquest/internal/models"
	"github.com/julianstephens/dailyquest/internal/quest"
	"github.com/julianstephens/dailyquest/internal/tui/components/monthview"
	"github.com/julianstephens/dailyquest/internal/tui/components/questlist"
)

type SessionState int

const (
	StateList SessionState = iota
	StateCalendar
	StateAddQuest
	StateSetProgress
	StateConfirmDelete
)

// CelebrateMsg is sent by the host when every quest is done.
type CelebrateMsg struct {
	Count int
}

type dayTickMsg time.Time

type AddFormModel struct {
	Text   string
	Kind   string
	Target string
	Unit   string
}

type ProgressFormModel struct {
	Value string
}

type Model struct {
	ctrl     *lifecycle.Controller
	ledger   *history.Ledger
	interval time.Duration

	state        SessionState
	keys         KeyMap
	help         help.Model
	questList    questlist.Model
	monthView    monthview.Model
	bar          progress.Model
	form         *huh.Form
	addForm      *AddFormModel
	progressForm *ProgressFormModel

	quests      models.Collection
	ratio       float64
	selectedID  string
	status      string
	statusIsErr bool
	quitting    bool
	width       int
	height      int

	// celebrateOnStart is the quest count to celebrate as soon as the program runs.
	celebrateOnStart int
}

// NewModel builds the TUI over an open lifecycle controller. interval is the
// period of the background day check.
func NewModel(ctrl *lifecycle.Controller, ledger *history.Ledger, interval time.Duration) Model {
	if interval <= 0 {
		interval = constants.DefaultCheckInterval
	}
	today, err := ctrl.Calendar().ParseDay(ctrl.Calendar().Today())
	if err != nil {
		today = ctrl.Calendar().Now()
	}

	m := Model{
		ctrl:      ctrl,
		ledger:    ledger,
		interval:  interval,
		state:     StateList,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		questList: questlist.New(nil, 0, 0),
		monthView: monthview.New(today),
		bar:       progress.New(progress.WithGradient("#8B5CF6", "#D946EF"), progress.WithoutPercentage()),
	}
	m.refresh()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateList:
		qk := m.questList.Keys()
		keys = append(keys, qk.Add, qk.Toggle, qk.Increment, qk.Decrement)
	case StateCalendar:
		mk := m.monthView.Keys()
		keys = append(keys, mk.Prev, mk.Next)
	case StateConfirmDelete:
		keys = []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	switch m.state {
	case StateList:
		qk := m.questList.Keys()
		actions = []key.Binding{qk.Add, qk.Toggle, qk.Increment, qk.Decrement, qk.Edit, qk.Delete}
	case StateCalendar:
		mk := m.monthView.Keys()
		actions = []key.Binding{mk.Prev, mk.Next, mk.Today}
	}
	return [][]key.Binding{global, navigation, actions}
}

// WithStartCelebration queues a CelebrateMsg for Init. Hosts use it when the
// list was already complete before the program existed to receive messages.
func (m Model) WithStartCelebration(count int) Model {
	m.celebrateOnStart = count
	return m
}

func (m Model) Init() tea.Cmd {
	if m.celebrateOnStart > 0 {
		count := m.celebrateOnStart
		return tea.Batch(m.scheduleCheck(), func() tea.Msg { return CelebrateMsg{Count: count} })
	}
	return m.scheduleCheck()
}

func (m Model) scheduleCheck() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return dayTickMsg(t)
	})
}

// refresh pulls the quest snapshot and the visible month into the view.
func (m *Model) refresh() {
	m.quests = m.ctrl.State().Snapshot()
	m.ratio = quest.CompletionRatio(m.quests)
	m.questList.SetQuests(m.quests)
	m.loadMonth()
}

func (m *Model) loadMonth() {
	year, month := m.monthView.Month()
	m.monthView.SetDays(m.ledger.Month(year, month))
}

// checkDay runs the lifecycle check; a reset shows up in the status line.
func (m *Model) checkDay() {
	before := m.ctrl.Marker()
	reset, err := m.ctrl.Check()
	switch {
	case err != nil:
		m.setError(err)
	case reset:
		m.setInfo("A new day has begun. Quests have been reset.")
	}
	if m.ctrl.Marker() != before {
		if today, err := m.ctrl.Calendar().ParseDay(m.ctrl.Marker()); err == nil {
			m.monthView.SetCurrent(today)
		}
	}
	m.refresh()
}

func (m *Model) setInfo(s string) {
	m.status, m.statusIsErr = s, false
}

func (m *Model) setError(err error) {
	m.status = "Changes are kept for this session but were not saved: " + err.Error()
	m.statusIsErr = true
}

// apply runs a State mutation and refreshes the view.
func (m *Model) apply(fn func(*quest.State) (bool, error)) {
	if _, err := fn(m.ctrl.State()); err != nil {
		m.setError(err)
	} else if m.statusIsErr {
		m.status, m.statusIsErr = "", false
	}
	m.refresh()
}

func (m *Model) openAddForm() {
	m.addForm = &AddFormModel{Kind: string(models.QuestBoolean)}
	f := m.addForm
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Quest").
				Placeholder("Add a new daily quest...").
				Value(&f.Text).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("quest text is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Kind").
				Options(
					huh.NewOption("Checkbox", string(models.QuestBoolean)),
					huh.NewOption("Counter", string(models.QuestCounter)),
				).
				Value(&f.Kind),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Target").
				Placeholder("8000").
				Value(&f.Target).
				Validate(validatePositive),
			huh.NewInput().
				Title("Unit").
				Placeholder("steps").
				Value(&f.Unit),
		).WithHideFunc(func() bool { return f.Kind != string(models.QuestCounter) }),
	)
	m.state = StateAddQuest
}

func (m *Model) openProgressForm(q models.Quest) {
	m.selectedID = q.ID
	m.progressForm = &ProgressFormModel{Value: strconv.Itoa(q.CurrentValue())}
	title := fmt.Sprintf("%s (target %d", q.Text, q.TargetValue())
	if q.Unit != "" {
		title += " " + q.Unit
	}
	title += ")"
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Value(&m.progressForm.Value).
				Validate(validateCount),
		),
	)
	m.state = StateSetProgress
}

func validatePositive(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a whole number above zero")
	}
	return nil
}

func validateCount(s string) error {
	if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("enter a whole number")
	}
	return nil
}
