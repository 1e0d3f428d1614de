package system

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/dailyquest/internal/backup"
	"github.com/julianstephens/dailyquest/internal/cli"
	"github.com/julianstephens/dailyquest/internal/config"
	"github.com/julianstephens/dailyquest/internal/constants"
	"github.com/julianstephens/dailyquest/internal/models"
	"github.com/julianstephens/dailyquest/internal/storage/sqlite"
)

// errWarning marks a check result that is reported but does not fail doctor.
type errWarning struct{ msg string }

func (w errWarning) Error() string { return w.msg }

func warnf(format string, args ...any) error {
	return errWarning{msg: fmt.Sprintf(format, args...)}
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Fprintln(ctx.Out, "Running diagnostics...")
	fmt.Fprintln(ctx.Out)

	hasError := false
	report := func(name string, err error) {
		var w errWarning
		switch {
		case err == nil:
			fmt.Fprintf(ctx.Out, "✓ %s: OK\n", name)
		case errors.As(err, &w):
			fmt.Fprintf(ctx.Out, "⚠ %s: WARNING\n", name)
			fmt.Fprintf(ctx.Out, "   %v\n", err)
		default:
			fmt.Fprintf(ctx.Out, "❌ %s: FAIL\n", name)
			fmt.Fprintf(ctx.Out, "   Error: %v\n", err)
			hasError = true
		}
	}
	skip := func(name string) {
		fmt.Fprintf(ctx.Out, "⊘ %s: SKIPPED (database not reachable)\n", name)
	}

	report("Settings file", checkSettings(ctx))

	dbErr := checkDBReachable(ctx)
	report("Database reachable", dbErr)

	dbChecks := []struct {
		name string
		fn   func(*cli.Context) error
	}{
		{"Migrations complete", checkMigrationsComplete},
		{"Quest data", checkQuestData},
		{"History data", checkHistoryData},
		{"Last visit marker", checkMarker},
	}
	for _, c := range dbChecks {
		if dbErr != nil {
			skip(c.name)
			continue
		}
		report(c.name, c.fn(ctx))
	}

	report("Backups present", checkBackupsPresent(ctx))
	report("Clock/timezone", checkClockTimezone(ctx))

	fmt.Fprintln(ctx.Out)
	if hasError {
		return errors.New("diagnostics found problems")
	}
	fmt.Fprintln(ctx.Out, "All checks passed.")
	return nil
}

func checkSettings(ctx *cli.Context) error {
	if _, err := config.Load(ctx.ConfigPath); err != nil {
		return err
	}
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.Keys(); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	m, ok := ctx.Store.(Migrator)
	if !ok {
		// file and memory stores have no schema
		return nil
	}
	pending, err := m.PendingMigrations()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if pending > 0 {
		return fmt.Errorf("%d pending migration(s), run 'dailyquest migrate'", pending)
	}
	return nil
}

func checkQuestData(ctx *cli.Context) error {
	raw, ok, err := ctx.Store.Get(constants.QuestsKey)
	if err != nil {
		return err
	}
	if !ok {
		return warnf("no quests stored yet, the starter list will be used")
	}

	var quests models.Collection
	if err := json.Unmarshal([]byte(raw), &quests); err != nil {
		return fmt.Errorf("quest list is not valid JSON (it will be replaced by the starter list): %w", err)
	}

	ids := make(map[string]bool, len(quests))
	for _, q := range quests {
		if q.ID == "" {
			return fmt.Errorf("quest %q has no id", q.Text)
		}
		if ids[q.ID] {
			return fmt.Errorf("duplicate quest ID found: %s", q.ID)
		}
		ids[q.ID] = true

		switch q.Type {
		case models.QuestBoolean:
		case models.QuestCounter:
			if q.Target == nil || *q.Target <= 0 {
				return fmt.Errorf("counter quest %s has no positive target", q.ID)
			}
		default:
			return fmt.Errorf("quest %s has unknown type %q", q.ID, q.Type)
		}
	}
	return nil
}

func checkHistoryData(ctx *cli.Context) error {
	raw, ok, err := ctx.Store.Get(constants.HistoryKey)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	var table map[string]float64
	if err := json.Unmarshal([]byte(raw), &table); err != nil {
		return fmt.Errorf("history is not valid JSON (it will be treated as empty): %w", err)
	}
	for day, pct := range table {
		if _, err := time.Parse(constants.DateFormat, day); err != nil {
			return fmt.Errorf("history has an invalid day %q", day)
		}
		if pct < 0 || pct > 100 {
			return fmt.Errorf("history for %s is out of range: %v", day, pct)
		}
	}
	return nil
}

func checkMarker(ctx *cli.Context) error {
	marker, ok, err := ctx.Store.Get(constants.LastVisitKey)
	if err != nil {
		return err
	}
	if !ok {
		return warnf("no last visit recorded yet")
	}

	cal, err := ctx.Calendar()
	if err != nil {
		return err
	}
	day, err := cal.ParseDay(marker)
	if err != nil {
		return err
	}
	today, err := cal.ParseDay(cal.Today())
	if err != nil {
		return err
	}
	if day.After(today) {
		return warnf("last visit %s is after today (%s), check the system clock", marker, cal.Today())
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return warnf("no backups found - consider creating one with 'dailyquest backup create'")
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if _, err := ctx.Calendar(); err != nil {
		return err
	}
	return nil
}
