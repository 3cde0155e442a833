package traits

import "math/rand"

type namePool struct {
	prefixes   []string
	suffixes   []string
	standalone []string
}

var seedNames = map[string]namePool{
	"sprout": {
		prefixes: []string{"Petal", "Bloom", "Flora", "Blossom", "Daisy", "Rose", "Lily", "Violet", "Iris", "Poppy"},
		suffixes: []string{"belle", "ina", "ette", "anne", "ia"},
		standalone: []string{
			"Petunia", "Rosie", "Lily", "Violet", "Daisy Mae", "Blossom",
			"Flora", "Petal", "Buttercup", "Clover", "Iris", "Jasmine",
			"Tulip", "Dahlia", "Zinnia", "Magnolia", "Camellia", "Azalea",
			"Daffodil", "Marigold", "Primrose", "Heather", "Holly", "Ivy",
			"Fern", "Sage", "Laurel", "Lavender", "Hyacinth", "Wisteria",
		},
	},
	"acorn": {
		prefixes: []string{"Oak", "Elm", "Ash", "Birch", "Maple", "Pine", "Cedar", "Willow", "Alder", "Rowan"},
		suffixes: []string{"ley", "wood", "ton", "bert", "son"},
		standalone: []string{
			"Oakley", "Woody", "Maple", "Birch", "Willow", "Ashton",
			"Cedar", "Forrest", "Sylvan", "Arbor", "Linden", "Rowan",
			"Alder", "Aspen", "Briar", "Grove", "Thorn", "Branch",
			"Timber", "Acorn Jr.", "Nutkin", "Oaksworth", "Sir Bark",
			"Twiggy", "Pinecone", "Elmsworth", "Sequoia", "Redwood",
		},
	},
	"bean": {
		prefixes: []string{"Bean", "Vine", "Pepper", "Gourd", "Melon", "Squash", "Pea", "Pod"},
		suffixes: []string{"sley", "kins", "worth", "ton", "o"},
		standalone: []string{
			"Jack", "Beansley", "Vinny", "Pepper", "Gourdian",
			"Melonie", "Squashley", "Peabody", "Lima", "Fava",
			"String Bean", "Snapdragon", "Pumpkin", "Butternut",
			"Zucchini", "Cucumber", "Pickle", "Gherkin", "Jalapeño",
			"Cayenne", "Paprika", "Chili", "Climbing Jack", "Bean Sprout",
			"Sir Climbs-a-Lot", "Tendril", "Curly", "Twister",
		},
	},
	"bulb": {
		prefixes: []string{"Onion", "Garlic", "Tulip", "Carrot", "Beet", "Radish", "Turnip", "Potato"},
		suffixes: []string{"sworth", "ton", "kins", "bert", "ia"},
		standalone: []string{
			"Sir Onion", "Garth", "Tulip", "Lotus", "Bulba",
			"Carrot Top", "Beets", "Radley", "Turnsworth", "Tater",
			"Spud", "Ginger", "Shallot", "Leek", "Chive",
			"Scallion", "Pearl", "Root", "Digby", "Earthling",
			"Underground", "Rootsworth", "Sir Digs-a-Lot", "Muddy",
			"Buried Treasure", "Daffodilia", "Hyacinthia", "Croakus",
		},
	},
	"spore": {
		prefixes: []string{"Shroom", "Fungi", "Myco", "Spore", "Cap", "Gill", "Moss", "Lichen"},
		suffixes: []string{"ling", "bert", "wick", "shade", "wood"},
		standalone: []string{
			"Fungus", "Shroom", "Truffle", "Portia", "Chanty",
			"Morel", "Shiitake", "Enoki", "Porcini", "Cremini",
			"Button", "Toadstool", "Sporeling", "Mycelium", "Mildew",
			"Shadowcap", "Nightshade", "Gloomkin", "Duskbell", "Mistling",
			"Whisper", "Murk", "Twilight", "Eclipse", "Phantom",
			"Spectre", "Umbra", "Nocturne", "Vesper",
		},
	},
	"cactus": {
		prefixes: []string{"Spike", "Prickle", "Sandy", "Desert", "Dune", "Succul", "Agave", "Aloe"},
		suffixes: []string{"o", "ita", "sworth", "ton", "y"},
		standalone: []string{
			"Spike", "Sandy", "Prickles", "Aloe", "Vera",
			"Cactus Jack", "Needles", "Thorny", "Dusty", "Sunny",
			"Sunburst", "Oasis", "Mirage", "Sahara", "Mojave",
			"Sedona", "Arizona", "Saguaro", "Agave", "Yucca",
			"Jade", "Succulent Steve", "Prickly Pete", "Sandy Cheeks",
			"Dryden", "Arid", "Solaris", "Blaze", "Scorchy",
		},
	},
}

var defaultNames = namePool{
	prefixes: []string{"Plant", "Leaf", "Green", "Sprout", "Bud", "Stem", "Root", "Seed"},
	suffixes: []string{"y", "ie", "ling", "kins", "bert"},
	standalone: []string{
		"Planty", "Leafy", "Greenie", "Sprouty", "Buddy",
		"Stemmy", "Rooty", "Seedling", "Little One", "Garden Friend",
		"Chlorophyll", "Photon", "Sunbeam", "Dewdrop", "Rainfall",
	},
}

// standaloneChance is the share of names drawn whole rather than composed.
const standaloneChance = 0.7

// Name generates a plant name for a seed lineage.
func Name(seedID string, rng *rand.Rand) string {
	pool, ok := seedNames[seedID]
	if !ok {
		pool = defaultNames
	}
	if rng.Float64() < standaloneChance {
		return pool.standalone[rng.Intn(len(pool.standalone))]
	}
	return pool.prefixes[rng.Intn(len(pool.prefixes))] + pool.suffixes[rng.Intn(len(pool.suffixes))]
}

// PossibleNames lists every name Name can return for a seed.
func PossibleNames(seedID string) []string {
	pool, ok := seedNames[seedID]
	if !ok {
		pool = defaultNames
	}
	names := append([]string(nil), pool.standalone...)
	for _, p := range pool.prefixes {
		for _, s := range pool.suffixes {
			names = append(names, p+s)
		}
	}
	return names
}
