// Package traits defines plant personalities and generates plant names.
// Both are cosmetic: nothing in the simulation reads them.
package traits

import (
	"math/rand"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Trait is a plant personality.
type Trait uint8

const (
	Cheerful Trait = iota
	Bashful
	Dramatic
	Zen
	Curious
	Mysterious
	Sleepy
	Energetic
)

// Profile holds the flavor attached to a personality.
type Profile struct {
	Flavor    string
	Reactions []string // harvest reaction emojis
}

var profiles = [...]Profile{
	Cheerful:   {"Always looking on the bright side!", []string{"✨", "🎉", "💖", "😊"}},
	Bashful:    {"A little shy, but full of love.", []string{"💕", "☺️", "🌸", "💗"}},
	Dramatic:   {"Every moment is a performance!", []string{"🌟", "💫", "👑", "🎭"}},
	Zen:        {"At peace with the garden.", []string{"🧘", "☮️", "🍃", "💚"}},
	Curious:    {"Always wondering what's next!", []string{"✨", "👀", "💡", "🔍"}},
	Mysterious: {"Holds secrets of the garden...", []string{"🌙", "✨", "🔮", "💜"}},
	Sleepy:     {"Dreaming of sunny days...", []string{"💤", "😴", "🌙", "☁️"}},
	Energetic:  {"Can't sit still!", []string{"⚡", "🎊", "💥", "🌈"}},
}

// Names returns the names of all personalities.
// The order matches the Trait constants.
func Names() []string {
	return []string{"cheerful", "bashful", "dramatic", "zen", "curious", "mysterious", "sleepy", "energetic"}
}

// String returns the personality name.
func (t Trait) String() string {
	names := Names()
	if int(t) < len(names) {
		return names[t]
	}
	return "unknown"
}

// Profile returns the flavor for t.
func (t Trait) Profile() Profile {
	if int(t) < len(profiles) {
		return profiles[t]
	}
	return profiles[Cheerful]
}

// Parse looks up a personality by name.
func Parse(name string) (Trait, bool) {
	for i, n := range Names() {
		if n == name {
			return Trait(i), true
		}
	}
	return Cheerful, false
}

// Weights per seed, indexed by Trait.
var seedWeights = map[string][8]int{
	"sprout": {30, 20, 15, 10, 15, 3, 4, 3},
	"acorn":  {15, 10, 10, 25, 20, 10, 5, 5},
	"bean":   {20, 10, 25, 5, 25, 5, 3, 7},
	"bulb":   {15, 25, 10, 15, 15, 10, 7, 3},
	"spore":  {5, 15, 20, 10, 15, 30, 3, 2},
	"cactus": {10, 10, 15, 30, 10, 15, 5, 5},
}

var defaultWeights = [8]int{15, 15, 15, 10, 15, 10, 10, 10}

// Pick draws a personality using the seed's weights.
func Pick(seedID string, rng *rand.Rand) Trait {
	weights, ok := seedWeights[seedID]
	if !ok {
		weights = defaultWeights
	}
	total := 0
	for _, w := range weights {
		total += w
	}
	r := rng.Intn(total)
	for i, w := range weights {
		if r < w {
			return Trait(i)
		}
		r -= w
	}
	return Cheerful
}

// Reaction picks a harvest reaction emoji for t.
func Reaction(t Trait, rng *rand.Rand) string {
	r := t.Profile().Reactions
	return r[rng.Intn(len(r))]
}

// Display title-cases an identifier such as "best friend" or "zen".
func Display(s string) string {
	return cases.Title(language.English).String(s)
}
