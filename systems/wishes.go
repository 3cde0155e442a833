package systems

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/pthm-cable/garden/catalog"
	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/config"
)

// WishContext describes what just happened. Fields left zero did not happen.
type WishContext struct {
	JustWatered         bool
	IsNight             bool
	VisitorJustTouched  string
	NeighborJustPlanted bool
}

// WishChange records a wish appearing or being fulfilled.
type WishChange struct {
	PlantID string
	Wish    components.Wish
}

// wishView bundles what a wish predicate may inspect.
type wishView struct {
	p         Plant
	neighbors []Plant
	now       time.Time
}

type wishDef struct {
	typ       components.WishType
	emoji     string
	priority  int
	text      func(name, target string) string
	canAppear func(w *Wishes, v wishView) bool
	fulfilled func(w *Wishes, v wishView, ctx WishContext) bool
}

var wishDefs = []wishDef{
	{
		typ: components.WishLonely, emoji: "🌱", priority: 10,
		text:      func(name, _ string) string { return fmt.Sprintf("%s wants a friend nearby", name) },
		canAppear: func(_ *Wishes, v wishView) bool { return len(v.neighbors) == 0 },
		fulfilled: func(_ *Wishes, v wishView, _ WishContext) bool { return len(v.neighbors) > 0 },
	},
	{
		typ: components.WishWantVisitor, emoji: "🦋", priority: 5,
		text:      func(name, _ string) string { return fmt.Sprintf("%s wants to meet a butterfly", name) },
		canAppear: func(_ *Wishes, v wishView) bool { return len(v.p.Stats.Visitors) == 0 },
		fulfilled: func(_ *Wishes, _ wishView, ctx WishContext) bool { return ctx.VisitorJustTouched != "" },
	},
	{
		typ: components.WishNightWater, emoji: "🌙", priority: 8,
		text:      func(name, _ string) string { return fmt.Sprintf("%s wants moonlit water", name) },
		canAppear: func(w *Wishes, v wishView) bool { return w.cfg.IsNight(v.now.Hour()) },
		fulfilled: func(_ *Wishes, _ wishView, ctx WishContext) bool { return ctx.JustWatered && ctx.IsNight },
	},
	{
		typ: components.WishHelpFriend, emoji: "💧", priority: 12,
		text: func(name, target string) string {
			if target == "" {
				target = "their friend"
			}
			return fmt.Sprintf("%s wants you to water %s", name, target)
		},
		canAppear: func(_ *Wishes, v wishView) bool {
			_, ok := thirstyFriend(v)
			return ok
		},
		fulfilled: func(_ *Wishes, v wishView, _ WishContext) bool {
			if wish := v.p.Desire.Wish; wish != nil && wish.TargetID != "" {
				for _, n := range v.neighbors {
					if n.Ident.ID == wish.TargetID {
						return n.Growth.Watered
					}
				}
				return false
			}
			for _, n := range v.neighbors {
				if bond, ok := v.p.Social.Bond(n.Ident.ID); ok && bond.Level > components.Acquaintance {
					return n.Growth.Watered
				}
			}
			return false
		},
	},
	{
		typ: components.WishGrowTall, emoji: "📈", priority: 4,
		text: func(name, _ string) string { return fmt.Sprintf("%s dreams of growing bigger", name) },
		canAppear: func(w *Wishes, v wishView) bool {
			return !w.cat.IsTerminal(v.p.Growth.NodeID) && v.p.Growth.Progress < 0.3
		},
		fulfilled: func(w *Wishes, v wishView, _ WishContext) bool {
			return v.p.Growth.Progress >= 0.8 || w.cat.IsTerminal(v.p.Growth.NodeID)
		},
	},
	{
		typ: components.WishMakeFriend, emoji: "💕", priority: 7,
		text: func(name, target string) string {
			if target == "" {
				target = "someone"
			}
			return fmt.Sprintf("%s wants to befriend %s", name, target)
		},
		canAppear: func(_ *Wishes, v wishView) bool {
			_, ok := acquaintance(v)
			return ok
		},
		fulfilled: func(_ *Wishes, v wishView, _ WishContext) bool {
			for _, n := range v.neighbors {
				if bond, ok := v.p.Social.Bond(n.Ident.ID); ok && bond.Level > components.Acquaintance {
					return true
				}
			}
			return false
		},
	},
	{
		typ: components.WishSunnySpot, emoji: "☀️", priority: 3,
		text:      func(name, _ string) string { return fmt.Sprintf("%s wants to be surrounded by friends", name) },
		canAppear: func(_ *Wishes, v wishView) bool { return len(v.neighbors) >= 1 && len(v.neighbors) < 4 },
		fulfilled: func(_ *Wishes, v wishView, _ WishContext) bool { return len(v.neighbors) >= 4 },
	},
}

// thirstyFriend finds the first unwatered neighbor bonded above acquaintance.
func thirstyFriend(v wishView) (Plant, bool) {
	for _, n := range v.neighbors {
		if bond, ok := v.p.Social.Bond(n.Ident.ID); ok && bond.Level > components.Acquaintance && !n.Growth.Watered {
			return n, true
		}
	}
	return Plant{}, false
}

// acquaintance finds the first neighbor still at acquaintance level.
func acquaintance(v wishView) (Plant, bool) {
	for _, n := range v.neighbors {
		if bond, ok := v.p.Social.Bond(n.Ident.ID); ok && bond.Level == components.Acquaintance {
			return n, true
		}
	}
	return Plant{}, false
}

func findWishDef(t components.WishType) (*wishDef, bool) {
	for i := range wishDefs {
		if wishDefs[i].typ == t {
			return &wishDefs[i], true
		}
	}
	return nil, false
}

// Wishes generates, expires and resolves plant wishes.
type Wishes struct {
	cfg *config.Config
	cat *catalog.Catalog
	rng *rand.Rand
}

// NewWishes creates the wish system. rng drives generation and selection.
func NewWishes(cfg *config.Config, cat *catalog.Catalog, rng *rand.Rand) *Wishes {
	return &Wishes{cfg: cfg, cat: cat, rng: rng}
}

// Bonus returns the bond-time reward for fulfilling a wish of type t.
func (w *Wishes) Bonus(t components.WishType) time.Duration {
	c := w.cfg.Wishes
	switch t {
	case components.WishHelpFriend:
		return c.HelpFriendBonus
	case components.WishMakeFriend:
		return c.MakeFriendBonus
	case components.WishLonely:
		return c.LonelyBonus
	default:
		return c.DefaultBonus
	}
}

// Chance returns the generation probability for a plant idle for since.
func (w *Wishes) Chance(since time.Duration) float64 {
	c := w.cfg.Wishes
	if since < c.MinInterval {
		return 0
	}
	ramp := float64(since-c.MinInterval) / float64(c.MaxInterval-c.MinInterval)
	return min(ramp, 1) * c.MaxChance
}

// shouldGenerate runs the Bernoulli trial for p.
func (w *Wishes) shouldGenerate(p Plant, now time.Time) bool {
	if p.Desire.Wish != nil {
		return false
	}
	last := p.Desire.LastWishTime
	if last.IsZero() {
		last = p.Stats.PlantedAt
	}
	since := now.Sub(last)
	if since < w.cfg.Wishes.MinInterval {
		return false
	}
	return w.rng.Float64() < w.Chance(since)
}

// Update expires old wishes and rolls new ones. It returns the wishes
// that appeared and the ids of plants whose wish expired.
func (w *Wishes) Update(plot *Plot, now time.Time) (appeared []WishChange, expired []string) {
	for _, p := range plot.Plants() {
		d := p.Desire
		if d.Wish != nil && !now.Before(d.Wish.ExpiresAt) {
			d.Wish = nil
			d.LastWishTime = now
			expired = append(expired, p.Ident.ID)
		}
		if !w.shouldGenerate(p, now) {
			continue
		}
		wish, ok := w.generate(plot, p, now)
		if !ok {
			continue
		}
		d.Wish = &wish
		appeared = append(appeared, WishChange{PlantID: p.Ident.ID, Wish: wish})
	}
	return appeared, expired
}

func (w *Wishes) generate(plot *Plot, p Plant, now time.Time) (components.Wish, bool) {
	v := wishView{p: p, neighbors: plot.Neighbors(*p.Pos), now: now}

	var valid []*wishDef
	total := 0
	for i := range wishDefs {
		if wishDefs[i].canAppear(w, v) {
			valid = append(valid, &wishDefs[i])
			total += wishDefs[i].priority
		}
	}
	if len(valid) == 0 {
		return components.Wish{}, false
	}

	def := valid[0]
	r := w.rng.Float64() * float64(total)
	for _, candidate := range valid {
		r -= float64(candidate.priority)
		if r <= 0 {
			def = candidate
			break
		}
	}

	var target Plant
	var hasTarget bool
	switch def.typ {
	case components.WishHelpFriend:
		target, hasTarget = thirstyFriend(v)
	case components.WishMakeFriend:
		target, hasTarget = acquaintance(v)
	}

	wish := components.Wish{
		Type:      def.typ,
		Emoji:     def.emoji,
		CreatedAt: now,
		ExpiresAt: now.Add(w.cfg.Wishes.Duration),
	}
	targetName := ""
	if hasTarget {
		wish.TargetID = target.Ident.ID
		targetName = target.Ident.Name
	}
	wish.Text = def.text(p.Ident.Name, targetName)
	return wish, true
}

// Resolve checks every active wish against ctx and clears those that are
// fulfilled, crediting the plant.
func (w *Wishes) Resolve(plot *Plot, ctx WishContext, now time.Time) []WishChange {
	var out []WishChange
	for _, p := range plot.Plants() {
		wish := p.Desire.Wish
		if wish == nil {
			continue
		}
		def, ok := findWishDef(wish.Type)
		if !ok {
			continue
		}
		v := wishView{p: p, neighbors: plot.Neighbors(*p.Pos), now: now}
		if !def.fulfilled(w, v, ctx) {
			continue
		}
		p.Desire.Wish = nil
		p.Desire.LastWishTime = now
		p.Desire.Granted++
		out = append(out, WishChange{PlantID: p.Ident.ID, Wish: *wish})
	}
	return out
}
