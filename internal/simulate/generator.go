package simulate

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// randIntn returns a uniform int in [0, n) using crypto/rand.
func randIntn(n int) int {
	if n <= 1 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// playerNames returns the simulated player names for cfg.
func playerNames(cfg *Config) []string {
	names := make([]string, cfg.Players)
	for i := range names {
		names[i] = fmt.Sprintf("%s-%02d", cfg.Prefix, i+1)
	}
	return names
}

// generateSightings picks a random player and bird for each sighting.
// Repeats are expected and exercise duplicate handling.
func generateSightings(cfg *Config, players, birds []string) []Sighting {
	out := make([]Sighting, cfg.Sightings)
	for i := range out {
		out[i] = Sighting{
			User: players[randIntn(len(players))],
			Bird: birds[randIntn(len(birds))],
		}
	}
	return out
}
