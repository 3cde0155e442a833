package garden

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/garden/components"
)

// EventType identifies garden events.
type EventType string

const (
	EventPlaced         EventType = "placed"
	EventWatered        EventType = "watered"
	EventEvolved        EventType = "evolved"
	EventDiscovered     EventType = "discovered"
	EventMerged         EventType = "merged"
	EventHarvested      EventType = "harvested"
	EventComboWatered   EventType = "combo_watered"
	EventBondFormed     EventType = "bond_formed"
	EventGrieving       EventType = "grieving"
	EventElderReached   EventType = "elder_reached"
	EventWishAppeared   EventType = "wish_appeared"
	EventWishFulfilled  EventType = "wish_fulfilled"
	EventRetired        EventType = "retired"
	EventVisitorTouched EventType = "visitor_touched"
)

// EventTypes lists every event type in a stable order.
func EventTypes() []EventType {
	return []EventType{
		EventPlaced, EventWatered, EventEvolved, EventDiscovered, EventMerged,
		EventHarvested, EventComboWatered, EventBondFormed, EventGrieving,
		EventElderReached, EventWishAppeared, EventWishFulfilled, EventRetired,
		EventVisitorTouched,
	}
}

// Event is emitted synchronously for every state transition. Only the
// fields relevant to Type are set.
type Event struct {
	Type EventType
	At   time.Time

	// Plant is the affected plant after the transition. For harvests and
	// retirements it is the plant as it was just before removal.
	Plant PlantState

	OtherID  string      // bond partner, merge source, grief cause, wish target
	Removed  *PlantState // merge source
	PlantIDs []string    // combo members

	From      string // evolved, merged
	To        string
	Special   bool
	Legendary bool

	Points   int // harvested, retired, wish_fulfilled
	Reaction string

	Free  bool // watered
	Night bool

	Level    components.BondLevel
	Tier     components.ElderTier
	Wish     *components.Wish
	Visitor  string
	Mourning string
}

// LogValue implements slog.LogValuer.
func (e Event) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("type", string(e.Type)),
		slog.Time("at", e.At),
	}
	if e.Plant.ID != "" {
		attrs = append(attrs, slog.String("plant", e.Plant.ID), slog.String("node", e.Plant.NodeID))
	}
	switch e.Type {
	case EventEvolved, EventMerged:
		attrs = append(attrs, slog.String("from", e.From), slog.String("to", e.To), slog.Bool("special", e.Special))
	case EventHarvested, EventRetired:
		attrs = append(attrs, slog.Int("points", e.Points), slog.String("tier", e.Tier.String()))
	case EventBondFormed:
		attrs = append(attrs, slog.String("other", e.OtherID), slog.String("level", e.Level.String()))
	case EventGrieving:
		attrs = append(attrs, slog.String("mourning", e.Mourning), slog.String("level", e.Level.String()))
	case EventElderReached:
		attrs = append(attrs, slog.String("tier", e.Tier.String()))
	case EventComboWatered:
		attrs = append(attrs, slog.Int("size", len(e.PlantIDs)))
	case EventWishAppeared, EventWishFulfilled:
		if e.Wish != nil {
			attrs = append(attrs, slog.String("wish", string(e.Wish.Type)))
		}
	case EventVisitorTouched:
		attrs = append(attrs, slog.String("visitor", e.Visitor))
	}
	return slog.GroupValue(attrs...)
}

// Sink receives garden events. It is called synchronously and must not
// call back into the Garden.
type Sink func(Event)

// Sinks fans an event out to several sinks in order.
func Sinks(sinks ...Sink) Sink {
	return func(e Event) {
		for _, s := range sinks {
			if s != nil {
				s(e)
			}
		}
	}
}
