// Package types contains read shapes shared by the service, API and CLI.
package types

// Medal glyphs for podium positions 1-3.
const (
	GoldMedal   = "🥇"
	SilverMedal = "🥈"
	BronzeMedal = "🥉"
)

// Entry represents a leaderboard row.
type Entry struct {
	Rank   int    `json:"rank"`
	User   string `json:"user"`
	Points int    `json:"points"`
	Medal  string `json:"medal,omitempty"`
}

// MedalFor returns the glyph for a 1-based rank, or "" off the podium.
func MedalFor(rank int) string {
	switch rank {
	case 1:
		return GoldMedal
	case 2:
		return SilverMedal
	case 3:
		return BronzeMedal
	default:
		return ""
	}
}

// MedalTally counts podium finishes over closed weeks.
type MedalTally struct {
	Gold   int `json:"gold"`
	Silver int `json:"silver"`
	Bronze int `json:"bronze"`
}

// Total returns the number of medals.
func (m MedalTally) Total() int { return m.Gold + m.Silver + m.Bronze }

// Credit adds the medal for a 1-based rank; ranks past 3 are ignored.
func (m *MedalTally) Credit(rank int) {
	switch rank {
	case 1:
		m.Gold++
	case 2:
		m.Silver++
	case 3:
		m.Bronze++
	}
}

// WeekPodium is the top of one closed week.
type WeekPodium struct {
	Year   int     `json:"year"`
	Week   int     `json:"week"`
	Podium []Entry `json:"podium"`
}

// TierCollection lists the distinct species a user holds in one tier.
type TierCollection struct {
	Tier    string   `json:"tier"`
	Points  int      `json:"points"`
	Color   string   `json:"color"`
	Species []string `json:"species"`
}

// UserStats summarises one player.
type UserStats struct {
	User            string           `json:"user"`
	WeeklyPoints    int              `json:"weekly_points"`
	WeeklyRank      int              `json:"weekly_rank,omitempty"`
	LifetimePoints  int              `json:"lifetime_points"`
	LifetimeRank    int              `json:"lifetime_rank,omitempty"`
	SpeciesThisWeek int              `json:"species_this_week"`
	SpeciesTotal    int              `json:"species_total"`
	Medals          MedalTally       `json:"medals"`
	Collection      []TierCollection `json:"collection"`
}

// Suggestion is a classifier candidate enriched with catalog data.
type Suggestion struct {
	Bird        string  `json:"bird"`
	Confidence  float64 `json:"confidence"`
	Points      int     `json:"points"`
	Tier        string  `json:"tier"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"image_url"`
}
