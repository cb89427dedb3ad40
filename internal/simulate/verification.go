package simulate

import (
	"context"
	"fmt"

	"github.com/okian/birdhunt/internal/domain/types"
)

// snapshot reads the weekly total of every player.
func snapshot(ctx context.Context, c *httpClient, players []string) (map[string]int, error) {
	out := make(map[string]int, len(players))
	for _, p := range players {
		pts, err := c.weeklyPoints(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("reading stats for %s: %w", p, err)
		}
		out[p] = pts
	}
	return out, nil
}

// compare checks that each player's weekly total grew by exactly the
// points the server acknowledged for them.
func compare(players []string, before, after, awarded map[string]int) ([]PlayerResult, []Mismatch) {
	results := make([]PlayerResult, 0, len(players))
	var mismatches []Mismatch
	for _, p := range players {
		r := PlayerResult{User: p, Before: before[p], After: after[p], Awarded: awarded[p]}
		results = append(results, r)
		if r.After-r.Before != r.Awarded {
			mismatches = append(mismatches, Mismatch{User: p, Expected: r.Before + r.Awarded, Actual: r.After})
		}
	}
	return results, mismatches
}

// leaderboardSorted reports whether entries are ranked 1..n by
// non-increasing points with medals on the podium only.
func leaderboardSorted(entries []types.Entry) bool {
	for i, e := range entries {
		if e.Rank != i+1 || e.Medal != types.MedalFor(e.Rank) {
			return false
		}
		if i > 0 && e.Points > entries[i-1].Points {
			return false
		}
	}
	return true
}
