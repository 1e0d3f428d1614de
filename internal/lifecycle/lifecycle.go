// Package lifecycle performs the daily reset. A Controller remembers the
// last logical day the app was active; when the calendar moves past it,
// every quest is reset exactly once and the marker advances.
package lifecycle

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/julianstephens/dailyquest/internal/calendar"
	"github.com/julianstephens/dailyquest/internal/constants"
	"github.com/julianstephens/dailyquest/internal/logger"
	"github.com/julianstephens/dailyquest/internal/quest"
	"github.com/julianstephens/dailyquest/internal/storage"
)

// ResetFunc is called after a reset with the previous and new logical day.
type ResetFunc func(previous, today string)

type Controller struct {
	mu      sync.Mutex
	kv      storage.KV
	repo    *quest.Repository
	cal     *calendar.Calendar
	state   *quest.State
	marker  string
	seeded  bool
	onReset []ResetFunc
}

type Option func(*Controller)

// OnReset registers fn to run after every reset, including one at Open.
func OnReset(fn ResetFunc) Option {
	return func(c *Controller) {
		if fn != nil {
			c.onReset = append(c.onReset, fn)
		}
	}
}

// Open loads the quests and the last-visit marker. If the marker names an
// earlier logical day the quests are reset before the State is built, so no
// caller ever sees yesterday's progress. The marker is then set to today.
//
// A non-nil error is always a write failure. The returned Controller is
// usable either way and keeps its in-memory state.
func Open(kv storage.KV, cal *calendar.Calendar, opts ...Option) (*Controller, error) {
	c := &Controller{kv: kv, cal: cal, repo: quest.NewRepository(kv)}
	for _, opt := range opts {
		opt(c)
	}

	repo := c.repo
	quests, seeded := repo.Load()
	c.seeded = seeded

	previous, ok, err := kv.Get(constants.LastVisitKey)
	if err != nil {
		logger.Warn("Failed to read last visit marker", "error", err)
		previous, ok = "", false
	}

	today := cal.Today()
	reset := ok && previous != "" && previous != today
	if reset {
		quests = quest.ResetDaily(quests)
		logger.Info("New logical day, quests reset", "previous", previous, "today", today)
	}

	var errs []error
	if seeded || reset {
		if err := repo.Save(quests); err != nil {
			errs = append(errs, err)
		}
	}
	c.state = quest.NewState(repo, quests)

	c.marker = today
	if previous != today {
		if err := storage.SetOrWrap(kv, constants.LastVisitKey, today); err != nil {
			errs = append(errs, err)
		}
	}

	if reset {
		c.notify(previous, today)
	}
	return c, errors.Join(errs...)
}

// Check resets the quests if the logical day changed since the last check.
// Concurrent calls reset at most once per day. It reports whether a reset
// happened; the in-memory marker advances even when persisting fails.
//
// Other processes may have edited the store since Open, so the reset is
// applied to the stored list. If another process already reset today, its
// list is adopted as is and Check reports false.
func (c *Controller) Check() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	today := c.cal.Today()
	if c.marker == today {
		return false, nil
	}
	previous := c.marker

	stored, ok, err := c.kv.Get(constants.LastVisitKey)
	if err != nil {
		logger.Warn("Failed to read last visit marker", "error", err)
	}
	if err == nil && ok && stored == today {
		if quests, seeded := c.repo.Load(); !seeded {
			c.state.Reload(quests)
		}
		c.marker = today
		logger.Info("Logical day already reset elsewhere, reloaded quests", "today", today)
		return false, nil
	}

	var resetErr error
	if quests, seeded := c.repo.Load(); seeded {
		// Nothing usable on disk; reset what this session holds.
		_, resetErr = c.state.ResetDaily()
	} else {
		_, resetErr = c.state.Replace(quest.ResetDaily(quests))
	}
	c.marker = today
	markErr := storage.SetOrWrap(c.kv, constants.LastVisitKey, today)
	logger.Info("New logical day, quests reset", "previous", previous, "today", today)

	c.notify(previous, today)
	return true, errors.Join(resetErr, markErr)
}

// Watch runs Check on every tick and every foreground signal until ctx is
// done. Errors are logged; the loop keeps going.
func (c *Controller) Watch(ctx context.Context, interval time.Duration, foreground <-chan struct{}) error {
	if interval <= 0 {
		interval = constants.DefaultCheckInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.checkAndLog("timer")
		case _, ok := <-foreground:
			if !ok {
				foreground = nil
				continue
			}
			c.checkAndLog("foreground")
		}
	}
}

func (c *Controller) checkAndLog(trigger string) {
	log := logger.With("trigger", trigger)
	reset, err := c.Check()
	if err != nil {
		log.Error("Day check failed to persist", "error", err)
		return
	}
	if reset {
		log.Debug("Day check reset quests")
	}
}

func (c *Controller) notify(previous, today string) {
	for _, fn := range c.onReset {
		fn(previous, today)
	}
}

// Marker is the logical day of the last check.
func (c *Controller) Marker() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.marker
}

// Seeded reports whether Open fell back to the default quest list.
func (c *Controller) Seeded() bool { return c.seeded }

func (c *Controller) State() *quest.State { return c.state }

func (c *Controller) Calendar() *calendar.Calendar { return c.cal }
