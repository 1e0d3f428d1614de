// Package quest holds the quest list operations. Every operation is a pure
// transform: it returns a new collection and never mutates its input, so
// callers can compare snapshots to detect change.
package quest

import (
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/dailyquest/internal/models"
)

// Add appends a new boolean quest. Text is trimmed; empty text is a no-op.
func Add(c models.Collection, text string) models.Collection {
	text = strings.TrimSpace(text)
	if text == "" {
		return c
	}
	out := make(models.Collection, 0, len(c)+1)
	out = append(out, c.Clone()...)
	return append(out, models.Quest{
		ID:   uuid.NewString(),
		Text: text,
		Type: models.QuestBoolean,
	})
}

// AddCounter appends a counter quest with the given positive target.
func AddCounter(c models.Collection, text string, target int, unit string) models.Collection {
	text = strings.TrimSpace(text)
	if text == "" || target <= 0 {
		return c
	}
	out := make(models.Collection, 0, len(c)+1)
	out = append(out, c.Clone()...)
	return append(out, models.Quest{
		ID:      uuid.NewString(),
		Text:    text,
		Type:    models.QuestCounter,
		Current: models.IntPtr(0),
		Target:  models.IntPtr(target),
		Unit:    strings.TrimSpace(unit),
	})
}

// Toggle flips Completed on the boolean quest with the given id. Unknown ids
// and counter quests are left alone.
func Toggle(c models.Collection, id string) models.Collection {
	i := c.Find(id)
	if i < 0 || c[i].Type != models.QuestBoolean {
		return c
	}
	out := c.Clone()
	out[i].Completed = !out[i].Completed
	return out
}

// UpdateProgress sets Current on the counter quest with the given id, clamped
// at zero, and derives Completed from the target.
func UpdateProgress(c models.Collection, id string, current int) models.Collection {
	i := c.Find(id)
	if i < 0 || !c[i].IsCounter() || c[i].Target == nil {
		return c
	}
	if current < 0 {
		current = 0
	}
	out := c.Clone()
	out[i].Current = models.IntPtr(current)
	out[i].Completed = current >= *out[i].Target
	return out
}

// Increment moves a counter by delta, with the same clamping as UpdateProgress.
func Increment(c models.Collection, id string, delta int) models.Collection {
	i := c.Find(id)
	if i < 0 || !c[i].IsCounter() {
		return c
	}
	return UpdateProgress(c, id, c[i].CurrentValue()+delta)
}

// Delete removes the quest with the given id.
func Delete(c models.Collection, id string) models.Collection {
	i := c.Find(id)
	if i < 0 {
		return c
	}
	out := make(models.Collection, 0, len(c)-1)
	out = append(out, c[:i].Clone()...)
	return append(out, c[i+1:].Clone()...)
}

// ResetDaily clears every quest's completion and zeroes counters. Ids,
// text, type, target and unit survive.
func ResetDaily(c models.Collection) models.Collection {
	out := c.Clone()
	for i := range out {
		out[i].Completed = false
		if out[i].IsCounter() {
			out[i].Current = models.IntPtr(0)
		} else {
			out[i].Current = nil
		}
	}
	return out
}

// CompletionRatio is the percentage of completed quests, 0 for an empty list.
func CompletionRatio(c models.Collection) float64 {
	if len(c) == 0 {
		return 0
	}
	return float64(c.CompletedCount()) / float64(len(c)) * 100
}

// Normalize repairs a loaded collection: duplicate ids are dropped (first
// wins), counters get a non-negative Current and a derived Completed.
func Normalize(c models.Collection) models.Collection {
	seen := make(map[string]bool, len(c))
	out := make(models.Collection, 0, len(c))
	for _, q := range c {
		if q.ID == "" || seen[q.ID] {
			continue
		}
		seen[q.ID] = true
		q = q.Clone()
		switch q.Type {
		case models.QuestCounter:
			cur := q.CurrentValue()
			if cur < 0 {
				cur = 0
			}
			q.Current = models.IntPtr(cur)
			if q.Target != nil {
				q.Completed = cur >= *q.Target
			}
		default:
			q.Type = models.QuestBoolean
			q.Current, q.Target, q.Unit = nil, nil, ""
		}
		out = append(out, q)
	}
	return out
}
