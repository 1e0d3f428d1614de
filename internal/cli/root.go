package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/julianstephens/dailyquest/internal/backup"
	"github.com/julianstephens/dailyquest/internal/calendar"
	"github.com/julianstephens/dailyquest/internal/config"
	"github.com/julianstephens/dailyquest/internal/constants"
	"github.com/julianstephens/dailyquest/internal/history"
	"github.com/julianstephens/dailyquest/internal/keyring"
	"github.com/julianstephens/dailyquest/internal/lifecycle"
	"github.com/julianstephens/dailyquest/internal/logger"
	"github.com/julianstephens/dailyquest/internal/models"
	"github.com/julianstephens/dailyquest/internal/notifier"
	"github.com/julianstephens/dailyquest/internal/progress"
	"github.com/julianstephens/dailyquest/internal/storage"
	"github.com/julianstephens/dailyquest/internal/storage/memory"
	"github.com/julianstephens/dailyquest/internal/storage/postgres"
	"github.com/julianstephens/dailyquest/internal/storage/sqlite"
)

type Context struct {
	Store      storage.Provider
	Config     config.Config
	ConfigPath string
	Clock      calendar.Clock
	Out        io.Writer
	Err        io.Writer
	In         io.Reader
}

// SelectStore picks the backend for ref. An empty ref falls back to a
// PostgreSQL connection string from the environment or the OS keyring, then
// to defaultPath. Connection strings given on the command line must not
// carry a password.
func SelectStore(ref, defaultPath string) (storage.Provider, error) {
	if ref == "" {
		connStr, source, err := keyring.Resolve("")
		switch {
		case err == nil:
			logger.Debug("Using PostgreSQL connection string", "source", source)
			return postgres.New(connStr), nil
		case !errors.Is(err, keyring.ErrNotFound) && !errors.Is(err, keyring.ErrKeyringUnavailable):
			return nil, err
		}
		ref = defaultPath
	}

	switch {
	case postgres.IsConnString(ref):
		if _, err := postgres.ValidateConnString(ref); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w; store it with 'dailyquest keyring set' or %s instead", err, constants.EnvDBConnection)
			}
			return nil, err
		}
		return postgres.New(ref), nil
	case ref == ":memory:":
		return memory.New(), nil
	case strings.HasSuffix(strings.ToLower(ref), ".json"):
		return storage.NewJSONStore(ref), nil
	default:
		return sqlite.NewStore(ref), nil
	}
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Calendar builds the logical calendar from the loaded settings.
func (c *Context) Calendar() (*calendar.Calendar, error) {
	clock := c.Clock
	if clock == nil {
		clock = calendar.SystemClock{}
	}
	return c.Config.Calendar(clock)
}

// Session is one host's view of the quest engine: the lifecycle controller
// with its State, the history ledger and the progress reporter observing it.
type Session struct {
	Controller *lifecycle.Controller
	Ledger     *history.Ledger
	Reporter   *progress.Reporter

	unsubscribe func()
}

type sessionOptions struct {
	celebrators []progress.Celebrator
	onOpen      bool
	lifecycle   []lifecycle.Option
}

type SessionOption func(*sessionOptions)

// WithCelebrator adds a celebrator next to the tray notifier.
func WithCelebrator(c progress.Celebrator) SessionOption {
	return func(o *sessionOptions) { o.celebrators = append(o.celebrators, c) }
}

// CelebrateOnOpen announces a list that is already complete when the session
// opens. Interactive hosts use it; one-shot commands do not.
func CelebrateOnOpen() SessionOption {
	return func(o *sessionOptions) { o.onOpen = true }
}

func WithLifecycle(opts ...lifecycle.Option) SessionOption {
	return func(o *sessionOptions) { o.lifecycle = append(o.lifecycle, opts...) }
}

// PrintCelebrator announces a completed list on w.
func PrintCelebrator(w io.Writer) progress.Celebrator {
	return progress.CelebratorFunc(func(c models.Collection) {
		fmt.Fprintln(w, "★ "+notifier.CelebrationText(c))
	})
}

// OpenSession runs the start-of-session day check and wires progress
// reporting. Failed writes are reported on c.Err and do not stop the session.
func (c *Context) OpenSession(opts ...SessionOption) (*Session, error) {
	var o sessionOptions
	for _, opt := range opts {
		opt(&o)
	}

	cal, err := c.Calendar()
	if err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", c.ConfigPath, err)
	}

	ctrl, openErr := lifecycle.Open(c.Store, cal, o.lifecycle...)
	ledger := history.New(c.Store, cal)

	celebrators := o.celebrators
	if c.Config.TrayNotifications {
		celebrators = append(celebrators, notifier.New())
	}
	reporter := progress.New(ledger, progress.Celebrators(celebrators...))

	var syncErr error
	if o.onOpen {
		syncErr = reporter.Sync(ctrl.State().Snapshot())
	} else {
		syncErr = reporter.Prime(ctrl.State().Snapshot())
	}

	s := &Session{
		Controller:  ctrl,
		Ledger:      ledger,
		Reporter:    reporter,
		unsubscribe: ctrl.State().Subscribe(reporter.Observe),
	}
	c.WarnWrite(errors.Join(openErr, syncErr))
	return s, nil
}

func (s *Session) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// WarnWrite reports a persistence failure without failing the command.
func (c *Context) WarnWrite(err error) {
	if err == nil {
		return
	}
	logger.Warn("Failed to persist quest data", "error", err)
	if c.Err != nil {
		fmt.Fprintf(c.Err, "⚠️  Warning: %v\n", err)
		fmt.Fprintln(c.Err, "   Changes are kept for this session but were not saved.")
	}
}

// ResolveQuest finds a quest by exact id, 1-based list position, or unique id prefix.
func ResolveQuest(c models.Collection, ref string) (models.Quest, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Quest{}, errors.New("quest reference cannot be empty")
	}
	if i := c.Find(ref); i >= 0 {
		return c[i], nil
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(c) {
		return c[n-1], nil
	}

	var matches []models.Quest
	for _, q := range c {
		if strings.HasPrefix(q.ID, ref) {
			matches = append(matches, q)
		}
	}
	switch len(matches) {
	case 0:
		return models.Quest{}, fmt.Errorf("no quest matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Quest{}, fmt.Errorf("%q matches %d quests, use a longer id", ref, len(matches))
	}
}

// FormatQuest renders one quest as a list line.
func FormatQuest(pos int, q models.Quest) string {
	mark := "○"
	if q.Completed {
		mark = "✓"
	}
	line := fmt.Sprintf("%2d. %s %s", pos, mark, q.Text)
	if q.IsCounter() {
		line += fmt.Sprintf("  [%d/%d", q.CurrentValue(), q.TargetValue())
		if q.Unit != "" {
			line += " " + q.Unit
		}
		line += "]"
	}
	return line
}
