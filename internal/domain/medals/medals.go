// Package medals replays closed weeks to award podium finishes.
package medals

import (
	"sort"

	"github.com/okian/birdhunt/internal/domain/model"
	"github.com/okian/birdhunt/internal/domain/scoring"
	"github.com/okian/birdhunt/internal/domain/types"
	"github.com/okian/birdhunt/internal/domain/weekclock"
)

const podiumSize = 3

// closedWeeks groups entries by week key, dropping the clock's current week
// which is still open. Each week's tally keeps first-submission order.
func closedWeeks(entries []model.Sighting, clock *weekclock.Clock) (map[model.WeekKey]*scoring.Tally, []model.WeekKey) {
	current := clock.Current()
	weeks := make(map[model.WeekKey]*scoring.Tally)
	var keys []model.WeekKey
	for _, e := range entries {
		k := clock.KeyOf(e)
		if k == current {
			continue
		}
		t, ok := weeks[k]
		if !ok {
			t = scoring.NewTally()
			weeks[k] = t
			keys = append(keys, k)
		}
		t.Add(e.User, e.Points)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	return weeks, keys
}

// LifetimeMedals counts user's gold, silver and bronze finishes over every
// closed week.
func LifetimeMedals(entries []model.Sighting, clock *weekclock.Clock, user string) types.MedalTally {
	user = model.NormalizeUser(user)
	var m types.MedalTally
	weeks, _ := closedWeeks(entries, clock)
	for _, t := range weeks {
		for _, e := range scoring.Top(t.Ranked(), podiumSize) {
			if e.User == user {
				m.Credit(e.Rank)
			}
		}
	}
	return m
}

// All returns the medal tally of every user who ever reached a podium.
func All(entries []model.Sighting, clock *weekclock.Clock) map[string]types.MedalTally {
	out := make(map[string]types.MedalTally)
	weeks, _ := closedWeeks(entries, clock)
	for _, t := range weeks {
		for _, e := range scoring.Top(t.Ranked(), podiumSize) {
			m := out[e.User]
			m.Credit(e.Rank)
			out[e.User] = m
		}
	}
	return out
}

// History returns each closed week's podium, oldest first.
func History(entries []model.Sighting, clock *weekclock.Clock) []types.WeekPodium {
	weeks, keys := closedWeeks(entries, clock)
	out := make([]types.WeekPodium, 0, len(keys))
	for _, k := range keys {
		out = append(out, types.WeekPodium{
			Year:   k.Year,
			Week:   k.Week,
			Podium: scoring.Top(weeks[k].Ranked(), podiumSize),
		})
	}
	return out
}
