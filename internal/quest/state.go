package quest

import (
	"sync"

	"github.com/julianstephens/dailyquest/internal/models"
)

// Observer receives a snapshot after every effective change.
type Observer func(models.Collection)

// State owns the session's quest list. Each mutation swaps the in-memory
// list under the lock, then persists it; a failed write is returned but the
// new list stays current. Observers run under the lock, in change order, and
// must not call back into State.
type State struct {
	mu        sync.Mutex
	quests    models.Collection
	repo      *Repository
	observers map[int]Observer
	nextID    int
}

func NewState(repo *Repository, initial models.Collection) *State {
	return &State{
		quests:    initial.Clone(),
		repo:      repo,
		observers: make(map[int]Observer),
	}
}

// Snapshot returns a copy of the current list.
func (s *State) Snapshot() models.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quests.Clone()
}

// Subscribe registers fn and returns a function that removes it.
func (s *State) Subscribe(fn Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

func (s *State) Add(text string) (bool, error) {
	return s.apply(func(c models.Collection) models.Collection { return Add(c, text) })
}

func (s *State) AddCounter(text string, target int, unit string) (bool, error) {
	return s.apply(func(c models.Collection) models.Collection { return AddCounter(c, text, target, unit) })
}

func (s *State) Toggle(id string) (bool, error) {
	return s.apply(func(c models.Collection) models.Collection { return Toggle(c, id) })
}

func (s *State) UpdateProgress(id string, current int) (bool, error) {
	return s.apply(func(c models.Collection) models.Collection { return UpdateProgress(c, id, current) })
}

func (s *State) Increment(id string, delta int) (bool, error) {
	return s.apply(func(c models.Collection) models.Collection { return Increment(c, id, delta) })
}

func (s *State) Delete(id string) (bool, error) {
	return s.apply(func(c models.Collection) models.Collection { return Delete(c, id) })
}

// ResetDaily applies the daily reset to the whole list in one step.
func (s *State) ResetDaily() (bool, error) {
	return s.apply(ResetDaily)
}

// Replace swaps in a list read from elsewhere and always persists it, so the
// store ends up holding exactly next. Observers run only if the list changed.
func (s *State) Replace(next models.Collection) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next = next.Clone()
	changed := !next.Equal(s.quests)
	s.quests = next

	var err error
	if s.repo != nil {
		err = s.repo.Save(next)
	}
	if changed {
		s.notify(next)
	}
	return changed, err
}

// Reload adopts a list that is already persisted, without writing it back.
func (s *State) Reload(next models.Collection) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if next.Equal(s.quests) {
		return false
	}
	s.quests = next.Clone()
	s.notify(s.quests)
	return true
}

// apply reports whether the list changed.
func (s *State) apply(fn func(models.Collection) models.Collection) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := fn(s.quests)
	if next.Equal(s.quests) {
		return false, nil
	}
	s.quests = next

	var err error
	if s.repo != nil {
		err = s.repo.Save(next)
	}
	s.notify(next)
	return true, err
}

func (s *State) notify(c models.Collection) {
	for _, fn := range s.observers {
		fn(c.Clone())
	}
}
