// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Sighting is one confirmed entry in the record log.
// Field names match the persisted JSON document.
type Sighting struct {
	User      string `json:"user"`
	Bird      string `json:"bird"`
	Points    int    `json:"points"`
	Week      int    `json:"week"`
	Year      int    `json:"year,omitempty"` // absent on legacy entries
	Timestamp string `json:"timestamp"`      // RFC 3339, local time with offset
}

// WeekKey identifies an ISO-8601 week.
type WeekKey struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

// String renders the key as "2025-W07".
func (k WeekKey) String() string {
	return fmt.Sprintf("%04d-W%02d", k.Year, k.Week)
}

// Before orders keys chronologically.
func (k WeekKey) Before(o WeekKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	return k.Week < o.Week
}

// SightingEvent is emitted after a sighting has been appended.
type SightingEvent struct {
	ID     string    `json:"id"`
	User   string    `json:"user"`
	Bird   string    `json:"bird"`
	Points int       `json:"points"`
	Week   int       `json:"week"`
	Year   int       `json:"year"`
	At     time.Time `json:"at"`
}

// NormalizeUser trims and lower-cases a username.
func NormalizeUser(user string) string {
	return strings.ToLower(strings.TrimSpace(user))
}

// SameUser reports whether a and b name the same player.
func SameUser(a, b string) bool {
	return NormalizeUser(a) == NormalizeUser(b)
}
