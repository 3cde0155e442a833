package components

import "fmt"

// String returns the name of a BondLevel.
func (l BondLevel) String() string {
	names := BondLevelNames()
	if int(l) < len(names) {
		return names[l]
	}
	return "unknown"
}

// MarshalText encodes the level by name.
func (l BondLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes a level name.
func (l *BondLevel) UnmarshalText(b []byte) error {
	for i, n := range BondLevelNames() {
		if n == string(b) {
			*l = BondLevel(i)
			return nil
		}
	}
	return fmt.Errorf("unknown bond level %q", b)
}

// Emoji returns the display emoji for a BondLevel.
func (l BondLevel) Emoji() string {
	switch l {
	case Friend:
		return "💚"
	case BestFriend:
		return "💛"
	case Soulmate:
		return "💖"
	}
	return "🤝"
}

// BondLevelNames returns the names of all bond levels.
// The order matches the BondLevel constants.
func BondLevelNames() []string {
	return []string{"acquaintance", "friend", "bestFriend", "soulmate"}
}

// String returns the name of an ElderTier.
func (t ElderTier) String() string {
	names := ElderTierNames()
	if int(t) < len(names) {
		return names[t]
	}
	return "unknown"
}

// MarshalText encodes the tier by name.
func (t ElderTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a tier name.
func (t *ElderTier) UnmarshalText(b []byte) error {
	for i, n := range ElderTierNames() {
		if n == string(b) {
			*t = ElderTier(i)
			return nil
		}
	}
	return fmt.Errorf("unknown elder tier %q", b)
}

// Emoji returns the badge for an ElderTier.
func (t ElderTier) Emoji() string {
	switch t {
	case Elder:
		return "🌟"
	case Ancient:
		return "👑"
	case LegendaryElder:
		return "🏆"
	}
	return ""
}

// ElderTierNames returns the names of all elder tiers.
// The order matches the ElderTier constants.
func ElderTierNames() []string {
	return []string{"none", "elder", "ancient", "legendary"}
}
