// Package scoring aggregates the sighting log into point totals and ranked
// standings. Everything here is recomputed from the entries it is given.
package scoring

import (
	"sort"

	"github.com/okian/birdhunt/internal/domain/model"
	"github.com/okian/birdhunt/internal/domain/types"
	"github.com/okian/birdhunt/internal/domain/weekclock"
)

// Tally accumulates points per user and remembers the order in which users
// first contributed. That order breaks ties when ranking.
type Tally struct {
	points map[string]int
	order  []string
}

// NewTally returns an empty Tally.
func NewTally() *Tally {
	return &Tally{points: make(map[string]int)}
}

// Add credits points to user. Users are normalised.
func (t *Tally) Add(user string, points int) {
	user = model.NormalizeUser(user)
	if _, ok := t.points[user]; !ok {
		t.order = append(t.order, user)
	}
	t.points[user] += points
}

// Points returns the total for user.
func (t *Tally) Points(user string) int {
	return t.points[model.NormalizeUser(user)]
}

// Len returns the number of users with at least one entry.
func (t *Tally) Len() int { return len(t.order) }

// Map returns a copy of the totals.
func (t *Tally) Map() map[string]int {
	out := make(map[string]int, len(t.points))
	for u, p := range t.points {
		out[u] = p
	}
	return out
}

// Ranked orders users by points descending. Equal totals keep first-seen
// order. Ranks are positional (1..n, never shared) and the top three carry
// medal glyphs.
func (t *Tally) Ranked() []types.Entry {
	users := make([]string, len(t.order))
	copy(users, t.order)
	sort.SliceStable(users, func(i, j int) bool {
		return t.points[users[i]] > t.points[users[j]]
	})

	out := make([]types.Entry, len(users))
	for i, u := range users {
		out[i] = types.Entry{
			Rank:   i + 1,
			User:   u,
			Points: t.points[u],
			Medal:  types.MedalFor(i + 1),
		}
	}
	return out
}

// RankOf returns user's 1-based position, or 0 if absent.
func (t *Tally) RankOf(user string) int {
	user = model.NormalizeUser(user)
	for _, e := range t.Ranked() {
		if e.User == user {
			return e.Rank
		}
	}
	return 0
}

// Weekly tallies entries belonging to week.
func Weekly(entries []model.Sighting, clock *weekclock.Clock, week model.WeekKey) *Tally {
	t := NewTally()
	for _, e := range entries {
		if clock.KeyOf(e) == week {
			t.Add(e.User, e.Points)
		}
	}
	return t
}

// Lifetime tallies every entry.
func Lifetime(entries []model.Sighting) *Tally {
	t := NewTally()
	for _, e := range entries {
		t.Add(e.User, e.Points)
	}
	return t
}

// WeeklyTotals sums points per user for the clock's current week.
func WeeklyTotals(entries []model.Sighting, clock *weekclock.Clock) map[string]int {
	return Weekly(entries, clock, clock.Current()).Map()
}

// LifetimeTotals sums points per user over the whole log.
func LifetimeTotals(entries []model.Sighting) map[string]int {
	return Lifetime(entries).Map()
}

// Top truncates ranked entries to limit; limit <= 0 keeps everything.
func Top(ranked []types.Entry, limit int) []types.Entry {
	if limit > 0 && len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}
