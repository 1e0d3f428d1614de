package models

type QuestType string

const (
	QuestBoolean QuestType = "boolean"
	QuestCounter QuestType = "counter"
)

// Quest is a single recurring task. Current and Target are set only for
// counter quests; for those, Completed always equals Current >= Target.
type Quest struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Type      QuestType `json:"type"`
	Completed bool      `json:"completed"`
	Current   *int      `json:"current,omitempty"`
	Target    *int      `json:"target,omitempty"`
	Unit      string    `json:"unit,omitempty"`
}

// Collection is the ordered quest list. Order is display order.
type Collection []Quest

// IsCounter reports whether q tracks numeric progress toward a target.
func (q Quest) IsCounter() bool { return q.Type == QuestCounter }

// CurrentValue returns Current or 0 when unset.
func (q Quest) CurrentValue() int {
	if q.Current == nil {
		return 0
	}
	return *q.Current
}

// TargetValue returns Target or 0 when unset.
func (q Quest) TargetValue() int {
	if q.Target == nil {
		return 0
	}
	return *q.Target
}

// Clone copies q including its pointer fields.
func (q Quest) Clone() Quest {
	out := q
	if q.Current != nil {
		v := *q.Current
		out.Current = &v
	}
	if q.Target != nil {
		v := *q.Target
		out.Target = &v
	}
	return out
}

// Clone returns a deep copy of the collection.
func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	for i, q := range c {
		out[i] = q.Clone()
	}
	return out
}

// Find returns the index of the quest with the given id, or -1.
func (c Collection) Find(id string) int {
	for i, q := range c {
		if q.ID == id {
			return i
		}
	}
	return -1
}

// CompletedCount counts completed quests.
func (c Collection) CompletedCount() int {
	n := 0
	for _, q := range c {
		if q.Completed {
			n++
		}
	}
	return n
}

// Equal reports whether two collections hold the same quests in the same order.
func (c Collection) Equal(other Collection) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if !c[i].equal(other[i]) {
			return false
		}
	}
	return true
}

func (q Quest) equal(o Quest) bool {
	return q.ID == o.ID &&
		q.Text == o.Text &&
		q.Type == o.Type &&
		q.Completed == o.Completed &&
		q.Unit == o.Unit &&
		intPtrEqual(q.Current, o.Current) &&
		intPtrEqual(q.Target, o.Target)
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// IntPtr is a convenience for building counter quests.
func IntPtr(v int) *int { return &v }
