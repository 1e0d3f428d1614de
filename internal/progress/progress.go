// Package progress turns quest list changes into history entries and the
// all-done celebration.
package progress

import (
	"sync"

	"github.com/julianstephens/dailyquest/internal/logger"
	"github.com/julianstephens/dailyquest/internal/models"
	"github.com/julianstephens/dailyquest/internal/quest"
)

// Recorder stores today's completion percentage. *history.Ledger implements it.
type Recorder interface {
	Record(pct float64) (bool, error)
}

// Celebrator is told when every quest is done. Celebrate must not block.
type Celebrator interface {
	Celebrate(models.Collection)
}

type CelebratorFunc func(models.Collection)

func (f CelebratorFunc) Celebrate(c models.Collection) { f(c) }

type multi []Celebrator

func (m multi) Celebrate(c models.Collection) {
	for _, cel := range m {
		cel.Celebrate(c)
	}
}

// Celebrators fans out to every non-nil celebrator.
func Celebrators(cs ...Celebrator) Celebrator {
	out := make(multi, 0, len(cs))
	for _, c := range cs {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

type Reporter struct {
	mu         sync.Mutex
	recorder   Recorder
	celebrator Celebrator

	synced bool
	ratio  float64
	count  int
}

func New(recorder Recorder, celebrator Celebrator) *Reporter {
	return &Reporter{recorder: recorder, celebrator: celebrator}
}

// Sync records the ratio of c when it changed since the last call and
// celebrates when c is fully complete and either the ratio or the number of
// quests changed. The first call always counts as a change.
func (r *Reporter) Sync(c models.Collection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ratio := quest.CompletionRatio(c)
	ratioChanged := !r.synced || ratio != r.ratio
	countChanged := !r.synced || len(c) != r.count
	r.synced, r.ratio, r.count = true, ratio, len(c)

	var err error
	if ratioChanged && r.recorder != nil {
		_, err = r.recorder.Record(ratio)
	}
	if ratio == 100 && len(c) > 0 && (ratioChanged || countChanged) && r.celebrator != nil {
		logger.Debug("All quests complete", "count", len(c))
		r.celebrator.Celebrate(c.Clone())
	}
	return err
}

// Prime records the ratio of c like Sync but never celebrates. One-shot
// commands use it so an already complete list is not announced again.
func (r *Reporter) Prime(c models.Collection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ratio := quest.CompletionRatio(c)
	changed := !r.synced || ratio != r.ratio
	r.synced, r.ratio, r.count = true, ratio, len(c)
	if changed && r.recorder != nil {
		_, err := r.recorder.Record(ratio)
		return err
	}
	return nil
}

// Observe is a quest.Observer. Record failures are logged.
func (r *Reporter) Observe(c models.Collection) {
	if err := r.Sync(c); err != nil {
		logger.Warn("Failed to record daily progress", "error", err)
	}
}

// Ratio returns the last synced completion percentage.
func (r *Reporter) Ratio() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ratio
}
