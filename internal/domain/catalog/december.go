package catalog

// Families used by classifier heuristics.
const (
	FamilyGull = "gull"
)

// December returns the built-in winter list for Central Park.
func December() []Species {
	return []Species{
		// Abundant
		{Name: "House Sparrow", Points: 5, Family: "sparrow", Description: "Small brown-and-gray sparrow commonly found in flocks."},
		{Name: "Rock Pigeon", Points: 5, Family: "pigeon", Description: "It's a pigeon."},
		{Name: "American Robin", Points: 5, Family: "thrush", Description: "Brick-red breast, gray-brown back. Medium sized thrush."},
		{Name: "European Starling", Points: 5, Family: "starling", Description: "Medium sized blackbird with a short tail. Usually seen in groups making a variety of calls."},
		{Name: "Mourning Dove", Points: 5, Family: "pigeon", Description: `Looks like a slimmer, more delicate pigeon with a long tail. Makes a soft, sad, "oo-AH-oo-oo-oo" call usually heard in the early morning.`},
		{Name: "White-throated Sparrow", Points: 5, Family: "sparrow", Description: "Larger and cleaner-looking than a house sparrow, with bold black-and-white head stripes and a bright white throat."},
		{Name: "Canada Goose", Points: 5, Family: "waterfowl", Description: "Large, heavy-bodied goose with a long black neck and a bold white chinstrap. Commonly seen grazing on lawns or honking loudly while flying in V-shaped flocks overhead."},
		{Name: "Mallard", Points: 5, Family: "waterfowl", Description: "Familiar duck often found in city ponds, with males showing a glossy green head and yellow bill and females mottled brown for camouflage."},
		{Name: "Ring-billed Gull", Points: 5, Family: FamilyGull, Description: "Medium-sized gray-and-white gull. Distinguished by a black ring around their bill."},
		{Name: "Herring Gull", Points: 5, Family: FamilyGull, Description: "Larger and bulkier than a ring-billed gull. Yellow bills with a red spot on them (hard to see without binoculars), and pink feet."},

		// Common
		{Name: "Northern Cardinal", Points: 10, Family: "cardinal", Description: "Males are bright red and females are warm brown with a little red; both have a thick, bright red-orange bill."},
		{Name: "Blue Jay", Points: 10, Family: "corvid", Description: `Bright blue with bold white and black markings on the face and wings. Known for being noisy - you can easily ID them from their loud "KEEEEEEER" call.`},
		{Name: "Tufted Titmouse", Points: 10, Family: "tit", Description: `Small gray bird with a crest and orange side. Very high pitched whistle that sounds like "peter-peter-peter".`},
		{Name: "Red-tailed Hawk", Points: 10, Family: "hawk", Description: "A large soaring hawk with broad wings and a brick-red tail. Younger birds lack the red tail, but can be IDed by a band of brown markings on the belly. If you see a big brown and white bird circling, it's probably one of these."},
		{Name: "American Crow", Points: 10, Family: "corvid", Description: `Large black bird, commonly seen in pairs or noisy groups. Gives a familiar "caw-caw" call.`},
		{Name: "Song Sparrow", Points: 10, Family: "sparrow", Description: "Larger and chunkier than a house sparrow, with heavy streaking on the chest and a dark spot in the center. It can look like a messier, browner version of a white-throated sparrow."},
		{Name: "House Finch", Points: 10, Family: "finch", Description: "Slightly smaller than a sparrow. Males have red on the chest and head, and females are streaky brown."},
		{Name: "Dark-eyed Junco", Points: 10, Family: "sparrow", Description: "Looks like the shadow of a sparrow - a small gray bird with a pinkish bill. When flying look for white outer tail feathers."},
		{Name: "Hermit Thrush", Points: 10, Family: "thrush", Description: "A shy brown thrush with a warm reddish tail, often seen hopping on the ground. Looks like a little brown robin."},
		{Name: "Great Black-backed Gull", Points: 10, Family: FamilyGull, Description: "The largest and bulkiest gull. Dark black back, white head, and thick yellow bill."},
		{Name: "Hooded Merganser", Points: 10, Family: "waterfowl", Description: "A medium-sized duck with a thin bill, often seen diving for fish in calm water. Males have a striking black-and-white fan-shaped crest, while females are brown with a shaggy reddish crest."},

		// Uncommon
		{Name: "Carolina Wren", Points: 15, Family: "wren", Description: `A small, round brown bird with a bold white eyebrow. Known for singing a loud song sounding like "tea-kettle, tea-kettle, tea-kettle".`},
		{Name: "Red-bellied Woodpecker", Points: 15, Family: "woodpecker", Description: "A medium-sized woodpecker with bold black-and-white striped wings and a red cap. Often seen high up in trees."},
		{Name: "Downy Woodpecker", Points: 15, Family: "woodpecker", Description: `Small, black-and-white woodpecker about the size of a sparrow. It makes a soft "pik" call and a quick, light tapping noise on trees.`},
		{Name: "Cooper's Hawk", Points: 15, Family: "hawk", Description: "Sleek, medium-sized hawk with a slimmer body and longer tail than a red-tailed hawk. Adults show orange, scaly markings on the chest and bold black bands across the tail."},
		{Name: "White-breasted Nuthatch", Points: 15, Family: "nuthatch", Description: "Small gray-and-white bird with a black cap. Often seen walking headfirst down tree trunks."},
		{Name: "Yellow-bellied Sapsucker", Points: 15, Family: "woodpecker", Description: "Black-and-white woodpecker with some red on the head, often spotted by the neat rows of holes it drills in trees."},
		{Name: "Gray Catbird", Points: 15, Family: "mimid", Description: "Looks like a gray robin. Has a call that sounds like a cat's meow."},
		{Name: "Black-capped Chickadee", Points: 15, Family: "tit", Description: "A tiny, round bird with a black cap and bib and pale cheeks. Curious and energetic, it moves quickly through branches and often comes close to people."},
		{Name: "Fox Sparrow", Points: 15, Family: "sparrow", Description: "A large, chunky sparrow with rich reddish-brown coloring and heavy dark spots on the chest. Often seen scratching loudly in leaf litter on the ground."},
		{Name: "Yellow-rumped Warbler", Points: 15, Family: "warbler", Description: "A small gray-and-yellow songbird with a bright yellow patch on its lower back above the tail."},

		// Occasional
		{Name: "American Goldfinch", Points: 20, Family: "finch", Description: "Males are bright yellow in summer, but by this time both males and females are pale brown with darker wings and subtle yellow hints along with a small, conical orange-pink bill."},
		{Name: "Ruby-crowned Kinglet", Points: 20, Family: "kinglet", Description: "Tiny, fast-moving olive-green bird that flicks its wings as it hops through trees. The red crown is usually hidden and rarely seen."},
		{Name: "Golden-crowned Kinglet", Points: 20, Family: "kinglet", Description: "Tiny, fast-moving olive-green bird with a bold yellow-and-black stripe on its head."},
		{Name: "Peregrine Falcon", Points: 20, Family: "falcon", Description: "A sleek, powerful falcon with a blue-gray back, pale chest, and bold dark markings on the face. Famous for incredible speed, it is often seen perched high on buildings or diving sharply after birds in flight."},
		{Name: "Nashville Warbler", Points: 20, Family: "warbler", Description: "Small bird that looks gray on top and yellow underneath, with a faint eye ring. It's often seen high up in trees and can be hard to spot without binoculars."},

		// Rare
		{Name: "Great Horned Owl", Points: 25, Family: "owl", Description: "Large, powerful owl with prominent ear tufts and bright yellow eyes, often heard more than seen."},
	}
}
