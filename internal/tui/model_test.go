package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/dailyquest/internal/calendar"
	"github.com/julianstephens/dailyquest/internal/history"
	"github.com/julianstephens/dailyquest/internal/lifecycle"
	"github.com/julianstephens/dailyquest/internal/models"
	"github.com/julianstephens/dailyquest/internal/quest"
	"github.com/julianstephens/dailyquest/internal/storage/memory"
	"github.com/julianstephens/dailyquest/internal/tui/components/questlist"
)

func newTestModel(t *testing.T, quests models.Collection) (Model, *calendar.FixedClock, *memory.Store) {
	t.Helper()
	store := memory.New()
	if err := quest.NewRepository(store).Save(quests); err != nil {
		t.Fatal(err)
	}
	clock := &calendar.FixedClock{T: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)}
	cal := calendar.New(clock, calendar.WithLocation(time.UTC))
	ctrl, err := lifecycle.Open(store, cal)
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(ctrl, history.New(store, cal), time.Minute), clock, store
}

func sample() models.Collection {
	return models.Collection{
		{ID: "read", Text: "Read", Type: models.QuestBoolean},
		{ID: "steps", Text: "Walk", Type: models.QuestCounter, Current: models.IntPtr(0), Target: models.IntPtr(3), Unit: "laps"},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm
}

func TestView_Header(t *testing.T) {
	m, _, _ := newTestModel(t, sample())
	view := m.View()
	for _, want := range []string{"DAILY QUESTS", "0/2 done", "Resets daily at 3:00 AM.", "Logic: 2024-03-10"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestUpdate_ToggleAndStep(t *testing.T) {
	m, _, _ := newTestModel(t, sample())

	m = update(t, m, questlist.ToggleQuestMsg{ID: "read"})
	m = update(t, m, questlist.StepQuestMsg{ID: "steps", Delta: 1})

	if m.ratio != 50 {
		t.Errorf("ratio = %v, want 50", m.ratio)
	}
	snap := m.ctrl.State().Snapshot()
	if !snap[0].Completed || snap[1].CurrentValue() != 1 {
		t.Errorf("unexpected state: %+v", snap)
	}
}

func TestUpdate_BannerWhenComplete(t *testing.T) {
	m, _, _ := newTestModel(t, models.Collection{{ID: "read", Text: "Read", Type: models.QuestBoolean}})
	if strings.Contains(m.View(), "All Quests Complete!") {
		t.Fatal("banner shown before completion")
	}
	m = update(t, m, questlist.ToggleQuestMsg{ID: "read"})
	if !strings.Contains(m.View(), "All Quests Complete!") {
		t.Error("banner missing after completion")
	}
}

// initMsgs runs every command Init returns and collects the messages.
func initMsgs(m Model) []tea.Msg {
	var msgs []tea.Msg
	pending := []tea.Cmd{m.Init()}
	for len(pending) > 0 {
		cmd := pending[0]
		pending = pending[1:]
		if cmd == nil {
			continue
		}
		switch msg := cmd().(type) {
		case tea.BatchMsg:
			pending = append(pending, msg...)
		default:
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

func TestInit_StartCelebration(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  bool
	}{
		{"queued at start", 1, true},
		{"nothing queued", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, _ := newTestModel(t, models.Collection{{ID: "read", Text: "Read", Type: models.QuestBoolean, Completed: true}})
			m.interval = time.Millisecond
			m = m.WithStartCelebration(tt.count)

			var celebrate *CelebrateMsg
			for _, msg := range initMsgs(m) {
				if c, ok := msg.(CelebrateMsg); ok {
					celebrate = &c
				}
			}
			if (celebrate != nil) != tt.want {
				t.Fatalf("CelebrateMsg from Init = %v, want %v", celebrate != nil, tt.want)
			}
			if celebrate == nil {
				return
			}
			if celebrate.Count != tt.count {
				t.Errorf("Count = %d, want %d", celebrate.Count, tt.count)
			}
			m = update(t, m, *celebrate)
			if !strings.Contains(m.status, "All Quests Complete!") {
				t.Errorf("status = %q", m.status)
			}
		})
	}
}

func TestUpdate_DayChecks(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.Msg
	}{
		{"tick", dayTickMsg(time.Time{})},
		{"focus", tea.FocusMsg{}},
		{"resume", tea.ResumeMsg{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, clock, _ := newTestModel(t, sample())
			m = update(t, m, questlist.ToggleQuestMsg{ID: "read"})

			clock.Set(time.Date(2024, 3, 11, 2, 0, 0, 0, time.UTC))
			m = update(t, m, tt.msg)
			if m.ctrl.Marker() != "2024-03-10" {
				t.Fatalf("reset before cutoff, marker %q", m.ctrl.Marker())
			}

			clock.Set(time.Date(2024, 3, 11, 3, 0, 0, 0, time.UTC))
			m = update(t, m, tt.msg)
			if m.ctrl.Marker() != "2024-03-11" {
				t.Errorf("marker = %q, want 2024-03-11", m.ctrl.Marker())
			}
			if m.ratio != 0 || m.quests[0].Completed {
				t.Errorf("quests not reset: %+v", m.quests)
			}
		})
	}
}

func TestUpdate_DayCheckPicksUpOtherSession(t *testing.T) {
	m, clock, store := newTestModel(t, sample())

	// Another process resets on the new day and adds a quest.
	clock.Set(time.Date(2024, 3, 11, 8, 0, 0, 0, time.UTC))
	other, err := lifecycle.Open(store, m.ctrl.Calendar())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := other.State().Add("Stretch"); err != nil {
		t.Fatal(err)
	}

	m = update(t, m, tea.FocusMsg{})
	if len(m.quests) != 3 || m.quests[2].Text != "Stretch" {
		t.Errorf("quests = %+v", m.quests)
	}
	if m.ctrl.Marker() != "2024-03-11" {
		t.Errorf("marker = %q, want 2024-03-11", m.ctrl.Marker())
	}
}

func TestUpdate_TickReschedules(t *testing.T) {
	m, _, _ := newTestModel(t, sample())
	if _, cmd := m.Update(dayTickMsg(time.Time{})); cmd == nil {
		t.Error("expected the next tick to be scheduled")
	}
}

func TestUpdate_ConfirmDelete(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		count int
	}{
		{"confirm", "y", 1},
		{"cancel", "n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, _ := newTestModel(t, sample())
			m = update(t, m, questlist.DeleteQuestMsg{ID: "read"})
			if m.state != StateConfirmDelete {
				t.Fatalf("state = %v, want confirm", m.state)
			}
			if !strings.Contains(m.View(), `Delete "Read"?`) {
				t.Error("confirmation prompt missing")
			}
			m = update(t, m, runes(tt.key))
			if m.state != StateList {
				t.Errorf("state = %v, want list", m.state)
			}
			if len(m.quests) != tt.count {
				t.Errorf("quests = %d, want %d", len(m.quests), tt.count)
			}
		})
	}
}

func TestUpdate_WriteFailureKeepsChange(t *testing.T) {
	m, _, store := newTestModel(t, sample())
	store.FailWrites(true)

	m = update(t, m, questlist.ToggleQuestMsg{ID: "read"})
	if !m.quests[0].Completed {
		t.Error("change lost after write failure")
	}
	if !m.statusIsErr || !strings.Contains(m.View(), "not saved") {
		t.Error("write failure not surfaced")
	}

	store.FailWrites(false)
	m = update(t, m, questlist.ToggleQuestMsg{ID: "read"})
	if m.statusIsErr {
		t.Error("warning kept after a successful write")
	}
}

func TestUpdate_TabSwitchesViews(t *testing.T) {
	m, _, _ := newTestModel(t, sample())
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.state != StateCalendar {
		t.Fatalf("state = %v, want calendar", m.state)
	}
	if !strings.Contains(m.View(), "March 2024") {
		t.Error("calendar view missing month title")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.state != StateList {
		t.Errorf("state = %v, want list", m.state)
	}
}

func TestUpdate_OpenForms(t *testing.T) {
	m, _, _ := newTestModel(t, sample())

	m = update(t, m, questlist.AddQuestMsg{})
	if m.state != StateAddQuest || m.form == nil {
		t.Fatal("add form not opened")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != StateList || m.form != nil {
		t.Fatal("esc did not close the form")
	}

	m = update(t, m, questlist.EditProgressMsg{ID: "steps"})
	if m.state != StateSetProgress || m.progressForm.Value != "0" {
		t.Fatalf("progress form not opened: state %v", m.state)
	}
}

func TestSubmitAdd(t *testing.T) {
	tests := []struct {
		name  string
		form  AddFormModel
		count int
	}{
		{"boolean", AddFormModel{Text: " Stretch ", Kind: string(models.QuestBoolean)}, 3},
		{"counter", AddFormModel{Text: "Pushups", Kind: string(models.QuestCounter), Target: "20", Unit: "reps"}, 3},
		{"bad target", AddFormModel{Text: "Pushups", Kind: string(models.QuestCounter), Target: "x"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, _ := newTestModel(t, sample())
			form := tt.form
			m.addForm = &form
			m.submitAdd()
			if len(m.quests) != tt.count {
				t.Fatalf("quests = %d, want %d", len(m.quests), tt.count)
			}
			if tt.count == 3 && m.quests[2].Text != strings.TrimSpace(tt.form.Text) {
				t.Errorf("text = %q", m.quests[2].Text)
			}
		})
	}
}

func TestSubmitProgress(t *testing.T) {
	m, _, _ := newTestModel(t, sample())
	m.selectedID = "steps"
	m.progressForm = &ProgressFormModel{Value: "3"}
	m.submitProgress()
	if !m.quests[1].Completed || m.quests[1].CurrentValue() != 3 {
		t.Errorf("progress not applied: %+v", m.quests[1])
	}
}
