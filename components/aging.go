package components

import "time"

// ElderTier is an ordered elder status.
type ElderTier uint8

const (
	NotElder ElderTier = iota
	Elder
	Ancient
	LegendaryElder
)

// Aging tracks time spent at a terminal node.
type Aging struct {
	MaxedAt time.Time // zero until the plant first reaches a terminal node
	Tier    ElderTier // highest tier announced so far
}
