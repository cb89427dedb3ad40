package scoring

import "fmt"

// Points at which a confirmation earns a celebration.
const (
	hardToFindPoints = 20
	rarePoints       = 25
)

// Celebration returns the extra message for high-value sightings.
func Celebration(points int) string {
	switch points {
	case hardToFindPoints:
		return "Congrats! This species is hard to find right now."
	case rarePoints:
		return "Wow! This is a rare sighting."
	default:
		return ""
	}
}

// Recorded is the acknowledgement for an accepted sighting.
func Recorded(bird string, points int) string {
	return fmt.Sprintf("Recorded! +%d points for %s", points, bird)
}

// AlreadyFound is the acknowledgement for a repeat sighting.
func AlreadyFound(bird string) string {
	return fmt.Sprintf("Great job! You've already found **%s** this week.", bird)
}
