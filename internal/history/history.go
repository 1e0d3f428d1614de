// Package history keeps the per-day completion percentages behind the
// calendar view. The whole ledger lives under one store key as a JSON object
// keyed by logical day.
package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/dailyquest/internal/calendar"
	"github.com/julianstephens/dailyquest/internal/constants"
	"github.com/julianstephens/dailyquest/internal/logger"
	"github.com/julianstephens/dailyquest/internal/storage"
)

type Ledger struct {
	kv  storage.KV
	cal *calendar.Calendar
}

// DayEntry is one cell of a month view.
type DayEntry struct {
	Day        string
	Date       time.Time
	Percentage float64
	Recorded   bool
	Today      bool
}

func New(kv storage.KV, cal *calendar.Calendar) *Ledger {
	return &Ledger{kv: kv, cal: cal}
}

// Load returns the stored ledger. Missing or malformed data reads as empty.
func (l *Ledger) Load() map[string]float64 {
	raw, ok, err := l.kv.Get(constants.HistoryKey)
	if err != nil {
		logger.Warn("Failed to read history", "error", err)
		return map[string]float64{}
	}
	if !ok {
		return map[string]float64{}
	}

	var entries map[string]float64
	if err := json.Unmarshal([]byte(raw), &entries); err != nil || entries == nil {
		logger.Warn("Stored history is malformed, starting empty", "error", err)
		return map[string]float64{}
	}
	return entries
}

// Record stores pct for the current logical day, replacing any earlier value.
// It reports whether the store was written; an unchanged value is skipped.
func (l *Ledger) Record(pct float64) (bool, error) {
	day := l.cal.Today()
	entries := l.Load()
	if prev, ok := entries[day]; ok && prev == pct {
		return false, nil
	}
	entries[day] = pct

	data, err := json.Marshal(entries)
	if err != nil {
		return false, fmt.Errorf("failed to serialize history: %w", err)
	}
	if err := storage.SetOrWrap(l.kv, constants.HistoryKey, string(data)); err != nil {
		return false, err
	}
	logger.Debug("Recorded daily progress", "day", day, "percentage", pct)
	return true, nil
}

// Month returns one entry per calendar day of the given month, in order.
func (l *Ledger) Month(year int, month time.Month) []DayEntry {
	entries := l.Load()
	today := l.cal.Today()
	loc := l.cal.Location()

	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	days := first.AddDate(0, 1, -1).Day()

	out := make([]DayEntry, 0, days)
	for d := 0; d < days; d++ {
		date := first.AddDate(0, 0, d)
		key := date.Format(constants.DateFormat)
		pct, ok := entries[key]
		out = append(out, DayEntry{
			Day:        key,
			Date:       date,
			Percentage: pct,
			Recorded:   ok,
			Today:      key == today,
		})
	}
	return out
}
