// Package classifier turns a free-text bird description into a short,
// catalog-valid list of candidate species.
package classifier

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/okian/birdhunt/internal/domain/catalog"
)

// MaxCandidates bounds the refined suggestion list.
const MaxCandidates = 3

// Candidate is one proposed species with a confidence.
type Candidate struct {
	Species    string  `json:"bird"`
	Confidence float64 `json:"confidence"`
}

// Classifier proposes species for a description. Implementations may return
// names outside the catalog and unnormalised confidences; Refine cleans up.
type Classifier interface {
	Classify(ctx context.Context, description string) ([]Candidate, error)
}

// Refine applies the domain post-filter to raw classifier output:
//  1. names not in the catalog and repeated names are dropped;
//  2. descriptions mentioning gulls keep only gull-family species, if any;
//  3. non-positive confidences are dropped, or weighted equally when none
//     is positive;
//  4. the top MaxCandidates by confidence are kept, ties in input order;
//  5. confidences are rescaled to sum to 1.
//
// An empty result means "no suggestions".
func Refine(description string, raw []Candidate, cat *catalog.Catalog) []Candidate {
	seen := make(map[string]struct{}, len(raw))
	valid := make([]Candidate, 0, len(raw))
	for _, c := range raw {
		if !cat.Contains(c.Species) {
			continue
		}
		if _, dup := seen[c.Species]; dup {
			continue
		}
		seen[c.Species] = struct{}{}
		valid = append(valid, c)
	}
	if len(valid) == 0 {
		return nil
	}

	if mentionsGull(description) {
		var gulls []Candidate
		for _, c := range valid {
			if cat.IsGull(c.Species) {
				gulls = append(gulls, c)
			}
		}
		if len(gulls) > 0 {
			valid = gulls
		}
	}

	positive := valid[:0:0]
	for _, c := range valid {
		if c.Confidence > 0 && !math.IsInf(c.Confidence, 0) {
			positive = append(positive, c)
		}
	}
	if len(positive) == 0 {
		for i := range valid {
			valid[i].Confidence = 1
		}
		positive = valid
	}

	sort.SliceStable(positive, func(i, j int) bool {
		return positive[i].Confidence > positive[j].Confidence
	})
	if len(positive) > MaxCandidates {
		positive = positive[:MaxCandidates]
	}

	var total float64
	for _, c := range positive {
		total += c.Confidence
	}
	out := make([]Candidate, len(positive))
	for i, c := range positive {
		out[i] = Candidate{Species: c.Species, Confidence: c.Confidence / total}
	}
	return out
}

func mentionsGull(description string) bool {
	d := strings.ToLower(description)
	return strings.Contains(d, "gull") || strings.Contains(d, "seagull")
}
