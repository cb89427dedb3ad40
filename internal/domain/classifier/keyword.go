package classifier

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/okian/birdhunt/internal/domain/catalog"
)

// Keyword scores species by word overlap between the description and each
// species' name and field notes. It needs no network access and backs the
// service when no model endpoint is configured.
type Keyword struct {
	species []catalog.Species
}

// NewKeyword builds a Keyword classifier over cat.
func NewKeyword(cat *catalog.Catalog) *Keyword {
	return &Keyword{species: cat.Species()}
}

// Classify implements Classifier. Every species with a positive score is
// returned; Refine applies the family filter and the candidate cap.
func (k *Keyword) Classify(_ context.Context, description string) ([]Candidate, error) {
	words := tokens(description)
	if len(words) == 0 {
		return nil, ErrEmpty
	}
	var out []Candidate
	for _, s := range k.species {
		name := tokenSet(s.Name)
		notes := tokenSet(s.Description)
		score := 0.0
		for _, w := range words {
			if _, ok := name[w]; ok {
				score += 3
			} else if compoundOf(w, name, s.Family) {
				score += 2
			} else if _, ok := notes[w]; ok {
				score++
			}
		}
		if score > 0 {
			out = append(out, Candidate{Species: s.Name, Confidence: score})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	return out, nil
}

// minStem is the shortest name token matched as the tail of a compound word.
const minStem = 4

// compoundOf reports whether w ends in the species family or in one of its
// name tokens, so "seagull" reaches the gulls.
func compoundOf(w string, name map[string]struct{}, family string) bool {
	if stemOf(w, family) {
		return true
	}
	for t := range name {
		if stemOf(w, t) {
			return true
		}
	}
	return false
}

func stemOf(w, t string) bool {
	return len(t) >= minStem && len(w) > len(t) && strings.HasSuffix(w, t)
}

var stopWords = map[string]struct{}{ //nolint:gochecknoglobals // lookup table
	"the": {}, "and": {}, "with": {}, "its": {}, "was": {}, "bird": {}, "saw": {},
	"has": {}, "had": {}, "that": {}, "this": {}, "very": {}, "like": {}, "from": {},
}

func tokens(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) < 3 {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range tokens(s) {
		set[t] = struct{}{}
	}
	return set
}
