// Package simulate drives a running bird hunt server with concurrent
// sightings and checks that its weekly standings add up.
package simulate

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL   string        // Base URL of the service
	Players   int           // Distinct players to simulate
	Sightings int           // Sightings to submit in total
	Workers   int           // Concurrent submitters
	Timeout   time.Duration // Per-request HTTP timeout
	Prefix    string        // Player name prefix
	Birds     []string      // Species to pick from; empty means the server catalog
}

// Defaults.
const (
	DefaultPlayers   = 8
	DefaultSightings = 200
	DefaultWorkers   = 4
	DefaultTimeout   = 10 * time.Second
	DefaultPrefix    = "sim"
)

var errNoBaseURL = errors.New("simulate: base URL required")

func (c *Config) normalize() error {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		return errNoBaseURL
	}
	if c.Players <= 0 {
		c.Players = DefaultPlayers
	}
	if c.Sightings <= 0 {
		c.Sightings = DefaultSightings
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if strings.TrimSpace(c.Prefix) == "" {
		c.Prefix = DefaultPrefix
	}
	return nil
}

// Sighting is one generated confirmation request.
type Sighting struct {
	User string `json:"user"`
	Bird string `json:"bird"`
}

// Stats holds run statistics.
type Stats struct {
	Generated int
	Submitted int
	Accepted  int
	Duplicate int
	Failed    int
	Points    int // points the server reported for accepted sightings
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// Mismatch is a player whose weekly total moved by something other than
// the points the server acknowledged.
type Mismatch struct {
	User     string
	Expected int
	Actual   int
}

// Report is the outcome of Run.
type Report struct {
	Stats      Stats
	Players    []PlayerResult
	Mismatches []Mismatch
	Sorted     bool // weekly leaderboard was in descending point order
}

// PlayerResult is one player's weekly total before and after the run.
type PlayerResult struct {
	User    string
	Before  int
	After   int
	Awarded int
}

// OK reports whether every check passed.
func (r *Report) OK() bool { return len(r.Mismatches) == 0 && r.Sorted }
