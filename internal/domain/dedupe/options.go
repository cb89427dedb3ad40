package dedupe

import "github.com/okian/birdhunt/internal/domain/weekclock"

// Option applies a configuration option to the Guard.
type Option func(*Guard)

// WithClock sets the clock used to key recorded entries by week.
func WithClock(c *weekclock.Clock) Option {
	return func(g *Guard) {
		if c != nil {
			g.clock = c
		}
	}
}
