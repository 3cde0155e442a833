// Package systems provides the plant grid and the rule systems that run over it.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/garden/components"
)

// Plant is a view of one plant's components. The pointers are invalidated
// by any Spawn or Remove on the owning Plot; re-fetch after structural changes.
type Plant struct {
	E      ecs.Entity
	Ident  *components.Identity
	Pos    *components.Position
	Growth *components.Growth
	Social *components.Social
	Aging  *components.Aging
	Desire *components.Desire
	Stats  *components.EvoStats
}

// Plot owns the ECS world holding every plant plus the indices over it:
// insertion order, cell occupancy and id lookup.
type Plot struct {
	size  int
	world *ecs.World

	mapper *ecs.Map7[
		components.Identity,
		components.Position,
		components.Growth,
		components.Social,
		components.Aging,
		components.Desire,
		components.EvoStats,
	]
	filter *ecs.Filter7[
		components.Identity,
		components.Position,
		components.Growth,
		components.Social,
		components.Aging,
		components.Desire,
		components.EvoStats,
	]

	identMap  *ecs.Map1[components.Identity]
	posMap    *ecs.Map1[components.Position]
	growthMap *ecs.Map1[components.Growth]
	socialMap *ecs.Map1[components.Social]
	agingMap  *ecs.Map1[components.Aging]
	desireMap *ecs.Map1[components.Desire]
	statsMap  *ecs.Map1[components.EvoStats]

	order  []ecs.Entity // iteration order, oldest first
	cells  []ecs.Entity // size*size, valid where filled is set
	filled []bool
	byID   map[string]ecs.Entity
}

// NewPlot creates an empty size x size plot.
func NewPlot(size int) *Plot {
	world := ecs.NewWorld()
	return &Plot{
		size:  size,
		world: world,
		mapper: ecs.NewMap7[
			components.Identity,
			components.Position,
			components.Growth,
			components.Social,
			components.Aging,
			components.Desire,
			components.EvoStats,
		](world),
		filter: ecs.NewFilter7[
			components.Identity,
			components.Position,
			components.Growth,
			components.Social,
			components.Aging,
			components.Desire,
			components.EvoStats,
		](world),
		identMap:  ecs.NewMap1[components.Identity](world),
		posMap:    ecs.NewMap1[components.Position](world),
		growthMap: ecs.NewMap1[components.Growth](world),
		socialMap: ecs.NewMap1[components.Social](world),
		agingMap:  ecs.NewMap1[components.Aging](world),
		desireMap: ecs.NewMap1[components.Desire](world),
		statsMap:  ecs.NewMap1[components.EvoStats](world),
		cells:     make([]ecs.Entity, size*size),
		filled:    make([]bool, size*size),
		byID:      make(map[string]ecs.Entity),
	}
}

// Size returns the grid edge length.
func (p *Plot) Size() int { return p.size }

// Len returns the number of plants.
func (p *Plot) Len() int { return len(p.order) }

// InBounds reports whether pos lies on the grid.
func (p *Plot) InBounds(pos components.Position) bool {
	return pos.X >= 0 && pos.X < p.size && pos.Y >= 0 && pos.Y < p.size
}

func (p *Plot) cellIndex(pos components.Position) int {
	return pos.Y*p.size + pos.X
}

// Spawn adds a plant. It fails when the cell is off-grid or occupied, or
// the id is already in use.
func (p *Plot) Spawn(
	ident components.Identity,
	pos components.Position,
	growth components.Growth,
	social components.Social,
	aging components.Aging,
	desire components.Desire,
	stats components.EvoStats,
) (Plant, bool) {
	if !p.InBounds(pos) || p.filled[p.cellIndex(pos)] {
		return Plant{}, false
	}
	if _, dup := p.byID[ident.ID]; dup || ident.ID == "" {
		return Plant{}, false
	}

	e := p.mapper.NewEntity(&ident, &pos, &growth, &social, &aging, &desire, &stats)
	p.order = append(p.order, e)
	p.cells[p.cellIndex(pos)] = e
	p.filled[p.cellIndex(pos)] = true
	p.byID[ident.ID] = e
	return p.Get(e), true
}

// Remove deletes the plant with the given id.
func (p *Plot) Remove(id string) bool {
	e, ok := p.byID[id]
	if !ok {
		return false
	}
	pos := *p.posMap.Get(e)
	p.filled[p.cellIndex(pos)] = false
	delete(p.byID, id)
	for i, o := range p.order {
		if o == e {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	p.mapper.Remove(e)
	return true
}

// Clear removes every plant.
func (p *Plot) Clear() {
	for _, e := range p.order {
		p.mapper.Remove(e)
	}
	p.order = p.order[:0]
	for i := range p.filled {
		p.filled[i] = false
	}
	clear(p.byID)
}

// Get returns the component view of an entity.
func (p *Plot) Get(e ecs.Entity) Plant {
	return Plant{
		E:      e,
		Ident:  p.identMap.Get(e),
		Pos:    p.posMap.Get(e),
		Growth: p.growthMap.Get(e),
		Social: p.socialMap.Get(e),
		Aging:  p.agingMap.Get(e),
		Desire: p.desireMap.Get(e),
		Stats:  p.statsMap.Get(e),
	}
}

// ByID looks up a plant by id.
func (p *Plot) ByID(id string) (Plant, bool) {
	e, ok := p.byID[id]
	if !ok || !p.world.Alive(e) {
		return Plant{}, false
	}
	return p.Get(e), true
}

// At returns the plant occupying pos.
func (p *Plot) At(pos components.Position) (Plant, bool) {
	if !p.InBounds(pos) {
		return Plant{}, false
	}
	idx := p.cellIndex(pos)
	if !p.filled[idx] {
		return Plant{}, false
	}
	return p.Get(p.cells[idx]), true
}

// Plants returns views of every plant in insertion order. Passes that emit
// events iterate this; order-free passes use Scan.
func (p *Plot) Plants() []Plant {
	out := make([]Plant, len(p.order))
	for i, e := range p.order {
		out[i] = p.Get(e)
	}
	return out
}

// Neighbors returns the plants in the eight cells around pos.
func (p *Plot) Neighbors(pos components.Position) []Plant {
	var out []Plant
	for _, off := range components.Offsets8 {
		if n, ok := p.At(components.Position{X: pos.X + off.X, Y: pos.Y + off.Y}); ok {
			out = append(out, n)
		}
	}
	return out
}

// EmptyCells lists unoccupied cells in row-major order.
func (p *Plot) EmptyCells() []components.Position {
	var out []components.Position
	for y := 0; y < p.size; y++ {
		for x := 0; x < p.size; x++ {
			if !p.filled[y*p.size+x] {
				out = append(out, components.Position{X: x, Y: y})
			}
		}
	}
	return out
}

// Scan runs the plant query, visiting every plant in archetype storage
// order. fn may change components but must not spawn or remove.
func (p *Plot) Scan(fn func(Plant)) {
	query := p.filter.Query()
	for query.Next() {
		ident, pos, growth, social, aging, desire, stats := query.Get()
		fn(Plant{
			E:      query.Entity(),
			Ident:  ident,
			Pos:    pos,
			Growth: growth,
			Social: social,
			Aging:  aging,
			Desire: desire,
			Stats:  stats,
		})
	}
}
