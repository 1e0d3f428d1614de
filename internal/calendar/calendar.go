// Package calendar maps wall-clock instants onto logical days. A logical day
// runs from the cutoff (3 AM by default) until the cutoff on the next calendar
// day, so activity at 01:30 still counts toward the previous date.
package calendar

import (
	"fmt"
	"time"

	"github.com/julianstephens/dailyquest/internal/constants"
)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant. Set replaces it.
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time { return c.T }

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) { c.T = t }

// Calendar derives logical days from a clock, a cutoff offset and a location.
type Calendar struct {
	clock  Clock
	cutoff time.Duration
	loc    *time.Location
}

type Option func(*Calendar)

// WithCutoff overrides the default 3 hour cutoff.
func WithCutoff(d time.Duration) Option {
	return func(c *Calendar) { c.cutoff = d }
}

// WithLocation sets the zone used for date formatting. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(c *Calendar) {
		if loc != nil {
			c.loc = loc
		}
	}
}

func New(clock Clock, opts ...Option) *Calendar {
	if clock == nil {
		clock = SystemClock{}
	}
	c := &Calendar{
		clock:  clock,
		cutoff: constants.DefaultCutoff,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LogicalDay returns the YYYY-MM-DD day that t belongs to.
func (c *Calendar) LogicalDay(t time.Time) string {
	return t.In(c.loc).Add(-c.cutoff).Format(constants.DateFormat)
}

// Today is the logical day of the clock's current instant.
func (c *Calendar) Today() string {
	return c.LogicalDay(c.clock.Now())
}

// Now exposes the underlying clock reading.
func (c *Calendar) Now() time.Time {
	return c.clock.Now().In(c.loc)
}

func (c *Calendar) Cutoff() time.Duration { return c.cutoff }

func (c *Calendar) Location() *time.Location { return c.loc }

// ParseDay parses a YYYY-MM-DD logical day as midnight in the calendar's location.
func (c *Calendar) ParseDay(day string) (time.Time, error) {
	t, err := time.ParseInLocation(constants.DateFormat, day, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q: %w", day, err)
	}
	return t, nil
}

// LoadLocation resolves an IANA zone name; "" and "Local" mean the system zone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == constants.DefaultTimezone {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}
