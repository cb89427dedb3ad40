// Package catalog holds the species a player can log, their point values
// and rarity tiers.
package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/okian/birdhunt/pkg/logger"
	"github.com/okian/birdhunt/pkg/metrics"
)

const imageBaseURL = "https://commons.wikimedia.org/wiki/Special:FilePath/"

// Species is one catalog entry.
type Species struct {
	Name        string `json:"name"`
	Points      int    `json:"points"`
	Tier        Tier   `json:"tier"`
	Family      string `json:"family,omitempty"`
	Description string `json:"description,omitempty"`
}

// Catalog is an immutable species table. Safe for concurrent use.
type Catalog struct {
	species []Species
	byName  map[string]int // exact name -> index
	byFold  map[string]int // lower-cased name -> index
	folded  foldedNames
	log     logger.Logger
}

// New builds a Catalog from species, applying overrides from opts.
func New(species []Species, opts ...Option) (*Catalog, error) {
	o := options{log: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Catalog{
		species: make([]Species, 0, len(species)),
		byName:  make(map[string]int, len(species)),
		byFold:  make(map[string]int, len(species)),
		log:     o.log,
	}
	for _, s := range species {
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" {
			return nil, fmt.Errorf("%w: empty name", ErrUnknownSpecies)
		}
		key := strings.ToLower(s.Name)
		if _, dup := c.byFold[key]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSpecies, s.Name)
		}
		tier, ok := TierFor(s.Points)
		if !ok {
			return nil, fmt.Errorf("%w: %s has %d", ErrInvalidPoints, s.Name, s.Points)
		}
		s.Tier = tier
		c.byName[s.Name] = len(c.species)
		c.byFold[key] = len(c.species)
		c.species = append(c.species, s)
		c.folded = append(c.folded, key)
	}

	for name, pts := range o.overrides {
		idx, ok := c.byFold[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("%w: override for %q", ErrUnknownSpecies, name)
		}
		tier, ok := TierFor(pts)
		if !ok {
			return nil, fmt.Errorf("%w: override %s=%d", ErrInvalidPoints, name, pts)
		}
		c.species[idx].Points = pts
		c.species[idx].Tier = tier
	}
	return c, nil
}

// Default returns the built-in December catalog.
func Default(opts ...Option) (*Catalog, error) {
	return New(December(), opts...)
}

// PointsFor returns the points awarded for name. Unknown names earn
// UnknownPoints; the miss is logged and counted.
func (c *Catalog) PointsFor(ctx context.Context, name string) int {
	if idx, ok := c.byName[name]; ok {
		return c.species[idx].Points
	}
	c.log.Warn(ctx, "species not in catalog, awarding default points",
		logger.String("bird", name), logger.Int("points", UnknownPoints))
	metrics.RecordUnknownSpecies()
	return UnknownPoints
}

// Contains reports whether name is an exact catalog name.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// Lookup finds a species by name, ignoring case and surrounding space.
func (c *Catalog) Lookup(name string) (Species, bool) {
	idx, ok := c.byFold[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Species{}, false
	}
	return c.species[idx], true
}

// Names returns every species name in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.species))
	for i, s := range c.species {
		out[i] = s.Name
	}
	return out
}

// Species returns a copy of every entry in catalog order.
func (c *Catalog) Species() []Species {
	out := make([]Species, len(c.species))
	copy(out, c.species)
	return out
}

// Len returns the number of species.
func (c *Catalog) Len() int { return len(c.species) }

// Resolve maps free text to a species: an exact case-insensitive match
// first, then the best fuzzy match.
func (c *Catalog) Resolve(query string) (Species, bool) {
	if s, ok := c.Lookup(query); ok {
		return s, true
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Species{}, false
	}
	matches := fuzzy.FindFrom(q, c.folded)
	if len(matches) == 0 {
		return Species{}, false
	}
	return c.species[matches[0].Index], true
}

// Search returns fuzzy matches for query, best first.
func (c *Catalog) Search(query string) []Species {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.Species()
	}
	matches := fuzzy.FindFrom(q, c.folded)
	out := make([]Species, 0, len(matches))
	for _, m := range matches {
		out = append(out, c.species[m.Index])
	}
	return out
}

// IsGull reports whether name belongs to the gull family.
func (c *Catalog) IsGull(name string) bool {
	idx, ok := c.byName[name]
	return ok && c.species[idx].Family == FamilyGull
}

// ImageURL returns a Wikimedia Commons file URL for the species photo.
func ImageURL(name string) string {
	file := strings.ReplaceAll(strings.TrimSpace(name), " ", "_") + ".jpg"
	return imageBaseURL + url.PathEscape(file)
}

// foldedNames adapts lower-cased names to fuzzy.Source.
type foldedNames []string

func (f foldedNames) String(i int) string { return f[i] }
func (f foldedNames) Len() int            { return len(f) }
