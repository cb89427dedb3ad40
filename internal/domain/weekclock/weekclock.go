// Package weekclock maps instants and recorded sightings to ISO weeks.
//
// A single Clock is shared by everything that needs "the current week" so
// that the submission guard, the weekly board and the medal engine agree on
// where one week ends and the next begins.
package weekclock

import (
	"time"

	"github.com/okian/birdhunt/internal/domain/model"
)

// TimestampLayout is the layout written into new sightings.
const TimestampLayout = time.RFC3339Nano

// naiveLayout accepts zone-less timestamps written by older clients;
// fractional seconds are optional when parsing.
const naiveLayout = "2006-01-02T15:04:05"

// Option configures a Clock.
type Option func(*Clock)

// WithLocation sets the zone weeks are computed in.
func WithLocation(loc *time.Location) Option {
	return func(c *Clock) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithNow replaces the time source. Used by tests and the simulator.
func WithNow(now func() time.Time) Option {
	return func(c *Clock) {
		if now != nil {
			c.now = now
		}
	}
}

// Clock computes week keys in a fixed location.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// New creates a Clock in the process-local zone using time.Now.
func New(opts ...Option) *Clock {
	c := &Clock{loc: time.Local, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Location returns the configured zone.
func (c *Clock) Location() *time.Location { return c.loc }

// Now returns the current instant in the clock's zone.
func (c *Clock) Now() time.Time { return c.now().In(c.loc) }

// Current returns the ISO week containing Now.
func (c *Clock) Current() model.WeekKey { return c.KeyFor(c.now()) }

// KeyFor returns the ISO week containing t, evaluated in the clock's zone.
func (c *Clock) KeyFor(t time.Time) model.WeekKey {
	y, w := t.In(c.loc).ISOWeek()
	return model.WeekKey{Year: y, Week: w}
}

// Stamp formats t for persistence.
func (c *Clock) Stamp(t time.Time) string { return t.In(c.loc).Format(TimestampLayout) }

// Parse reads a persisted timestamp. Zone-less values are taken to be in the
// clock's zone.
func (c *Clock) Parse(ts string) (time.Time, bool) {
	if t, err := time.Parse(TimestampLayout, ts); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(naiveLayout, ts, c.loc); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// KeyOf returns the week a recorded sighting belongs to. The recorded week
// number is authoritative; entries written before the year was persisted
// borrow the ISO year of their timestamp, and get year 0 if it cannot be
// parsed, which never equals a real current week.
func (c *Clock) KeyOf(s model.Sighting) model.WeekKey {
	if s.Year != 0 {
		return model.WeekKey{Year: s.Year, Week: s.Week}
	}
	t, ok := c.Parse(s.Timestamp)
	if !ok {
		return model.WeekKey{Year: 0, Week: s.Week}
	}
	y, _ := t.In(c.loc).ISOWeek()
	return model.WeekKey{Year: y, Week: s.Week}
}

// InCurrentWeek reports whether s was logged in the current week.
func (c *Clock) InCurrentWeek(s model.Sighting) bool {
	return c.KeyOf(s) == c.Current()
}
