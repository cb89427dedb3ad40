// Package dedupe enforces the once-per-species-per-week rule.
package dedupe

import (
	"github.com/okian/birdhunt/internal/domain/model"
	"github.com/okian/birdhunt/internal/domain/weekclock"
)

// Guard answers whether a user already logged a species in a given week.
// It keeps no state of its own: every answer is derived from the entries
// passed in, so it can never disagree with the record log.
type Guard struct {
	clock *weekclock.Clock
}

// NewGuard creates a Guard with configuration options.
func NewGuard(opts ...Option) *Guard {
	g := &Guard{clock: weekclock.New()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Count returns how many entries match user (case-insensitive), bird
// (exact) and week.
func (g *Guard) Count(entries []model.Sighting, user, bird string, week model.WeekKey) int {
	user = model.NormalizeUser(user)
	n := 0
	for _, e := range entries {
		if e.Bird != bird || model.NormalizeUser(e.User) != user {
			continue
		}
		if g.clock.KeyOf(e) == week {
			n++
		}
	}
	return n
}

// AlreadyLogged reports whether user logged bird during week.
func (g *Guard) AlreadyLogged(entries []model.Sighting, user, bird string, week model.WeekKey) bool {
	return g.Count(entries, user, bird, week) > 0
}

// AlreadyLoggedThisWeek is AlreadyLogged for the clock's current week.
func (g *Guard) AlreadyLoggedThisWeek(entries []model.Sighting, user, bird string) bool {
	return g.AlreadyLogged(entries, user, bird, g.clock.Current())
}
