package catalog

// Tier is a rarity band. Each tier has exactly one point value.
type Tier string

// Rarity tiers, most to least common.
const (
	Abundant   Tier = "Abundant"
	Common     Tier = "Common"
	Uncommon   Tier = "Uncommon"
	Occasional Tier = "Occasional"
	Rare       Tier = "Rare"
)

// Tiers lists every tier in display order.
var Tiers = []Tier{Abundant, Common, Uncommon, Occasional, Rare} //nolint:gochecknoglobals // fixed table

var tierPoints = map[Tier]int{ //nolint:gochecknoglobals // fixed table
	Abundant:   5,
	Common:     10,
	Uncommon:   15,
	Occasional: 20,
	Rare:       25,
}

var tierColors = map[Tier]string{ //nolint:gochecknoglobals // fixed table
	Abundant:   "#FF8C00",
	Common:     "#FFD700",
	Uncommon:   "#2E8B57",
	Occasional: "#1E90FF",
	Rare:       "#8A2BE2",
}

// UnknownPoints is awarded for a species missing from the catalog.
const UnknownPoints = 1

// TierFor maps a point value to its tier. ok is false for values that are
// not one of the five tier values.
func TierFor(points int) (Tier, bool) {
	for _, t := range Tiers {
		if tierPoints[t] == points {
			return t, true
		}
	}
	return "", false
}

// Points returns the point value of the tier.
func (t Tier) Points() int { return tierPoints[t] }

// Color returns the display color for the tier.
func (t Tier) Color() string { return tierColors[t] }
