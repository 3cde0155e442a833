package components

import "time"

// WishType names a kind of wish.
type WishType string

const (
	WishLonely      WishType = "lonely"
	WishWantVisitor WishType = "want_visitor"
	WishNightWater  WishType = "night_water"
	WishHelpFriend  WishType = "help_friend"
	WishGrowTall    WishType = "grow_tall"
	WishMakeFriend  WishType = "make_friend"
	WishSunnySpot   WishType = "sunny_spot"
)

// Wish is a plant's active desire.
type Wish struct {
	Type      WishType
	Text      string
	Emoji     string
	TargetID  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Desire holds the wish state of a plant.
type Desire struct {
	Wish         *Wish
	LastWishTime time.Time // zero until the first wish expires or is fulfilled
	Granted      int
}
