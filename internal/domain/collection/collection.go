// Package collection buckets a user's lifetime sightings by rarity tier.
package collection

import (
	"sort"

	"github.com/okian/birdhunt/internal/domain/catalog"
	"github.com/okian/birdhunt/internal/domain/model"
	"github.com/okian/birdhunt/internal/domain/types"
	"github.com/okian/birdhunt/internal/domain/weekclock"
)

// Collection maps each tier to the distinct species collected in it.
// Every tier is present, possibly empty.
type Collection map[catalog.Tier]map[string]struct{}

// New returns a Collection with all five tiers present.
func New() Collection {
	c := make(Collection, len(catalog.Tiers))
	for _, t := range catalog.Tiers {
		c[t] = make(map[string]struct{})
	}
	return c
}

// Total returns the number of distinct (tier, species) pairs.
func (c Collection) Total() int {
	n := 0
	for _, set := range c {
		n += len(set)
	}
	return n
}

// Species returns the sorted names collected in tier.
func (c Collection) Species(tier catalog.Tier) []string {
	out := make([]string, 0, len(c[tier]))
	for name := range c[tier] {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// View renders the collection in tier order.
func (c Collection) View() []types.TierCollection {
	out := make([]types.TierCollection, 0, len(catalog.Tiers))
	for _, t := range catalog.Tiers {
		out = append(out, types.TierCollection{
			Tier:    string(t),
			Points:  t.Points(),
			Color:   t.Color(),
			Species: c.Species(t),
		})
	}
	return out
}

// LifetimeSpeciesByTier collects every species user has logged. The tier
// comes from the points recorded on each entry, so later catalog changes do
// not move historical sightings. Entries whose points match no tier are
// skipped.
func LifetimeSpeciesByTier(entries []model.Sighting, user string) Collection {
	user = model.NormalizeUser(user)
	c := New()
	for _, e := range entries {
		if model.NormalizeUser(e.User) != user {
			continue
		}
		tier, ok := catalog.TierFor(e.Points)
		if !ok {
			continue
		}
		c[tier][e.Bird] = struct{}{}
	}
	return c
}

// SpeciesThisWeek counts the distinct species user logged in the clock's
// current week.
func SpeciesThisWeek(entries []model.Sighting, clock *weekclock.Clock, user string) int {
	user = model.NormalizeUser(user)
	current := clock.Current()
	seen := make(map[string]struct{})
	for _, e := range entries {
		if model.NormalizeUser(e.User) == user && clock.KeyOf(e) == current {
			seen[e.Bird] = struct{}{}
		}
	}
	return len(seen)
}
