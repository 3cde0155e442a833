// Package catalog holds the static evolution graph: seed lineages, their
// nodes, and the conditional branches between them.
package catalog

import (
	_ "embed"
	"fmt"
	"log/slog"
	"math"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed evolutions.yaml
var evolutionsYAML []byte

// Seed is the starting point of a lineage.
type Seed struct {
	ID             string        `yaml:"id" json:"id"`
	Name           string        `yaml:"name" json:"name"`
	Emoji          string        `yaml:"emoji" json:"emoji"`
	Description    string        `yaml:"description" json:"description"`
	Cost           int           `yaml:"cost" json:"cost"`
	BaseGrowthTime time.Duration `yaml:"base_growth_time" json:"base_growth_time"`
}

// Branch is a conditional edge tried before the default edge.
type Branch struct {
	Target  string  `yaml:"target" json:"target"`
	Trigger Trigger `yaml:"trigger" json:"trigger"`
	Hint    string  `yaml:"hint,omitempty" json:"hint,omitempty"`
}

// Node is one stage of a lineage.
type Node struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Emoji  string `yaml:"emoji" json:"emoji"`
	SeedID string `yaml:"seed" json:"seed"`
	Tier   int    `yaml:"tier" json:"tier"`
	// GrowthTime is the base time to grow into this node.
	GrowthTime  time.Duration `yaml:"growth_time" json:"growth_time"`
	Points      int           `yaml:"points" json:"points"`
	Default     string        `yaml:"default,omitempty" json:"default,omitempty"`
	Branches    []Branch      `yaml:"branches,omitempty" json:"branches,omitempty"`
	Rarity      string        `yaml:"rarity" json:"rarity"`
	Legendary   bool          `yaml:"legendary,omitempty" json:"legendary,omitempty"`
	Description string        `yaml:"description,omitempty" json:"description,omitempty"`
}

// Terminal reports whether the node is a harvestable end state.
func (n *Node) Terminal() bool {
	return n.Default == "" && n.Points > 0
}

type file struct {
	Seeds []Seed `yaml:"seeds"`
	Nodes []Node `yaml:"nodes"`
}

// Catalog is an immutable id-indexed lookup over the evolution graph.
type Catalog struct {
	seeds     []*Seed
	seedByID  map[string]*Seed
	nodes     []*Node
	nodeByID  map[string]*Node
	bySeed    map[string][]*Node
	start     map[string]*Node
	tierMults map[int]float64
}

// Load builds the catalog from the embedded evolution data.
// tierMults scales growth times by the tier of the node being grown into.
func Load(tierMults map[int]float64) (*Catalog, error) {
	return Parse(evolutionsYAML, tierMults)
}

// MustLoad is like Load but panics on error.
func MustLoad(tierMults map[int]float64) *Catalog {
	c, err := Load(tierMults)
	if err != nil {
		panic(fmt.Sprintf("catalog: failed to load: %v", err))
	}
	return c
}

// Parse builds a catalog from YAML data.
func Parse(data []byte, tierMults map[int]float64) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing evolutions: %w", err)
	}

	c := &Catalog{
		seedByID:  make(map[string]*Seed, len(f.Seeds)),
		nodeByID:  make(map[string]*Node, len(f.Nodes)),
		bySeed:    make(map[string][]*Node, len(f.Seeds)),
		start:     make(map[string]*Node, len(f.Seeds)),
		tierMults: make(map[int]float64, len(tierMults)),
	}
	for tier, m := range tierMults {
		c.tierMults[tier] = m
	}

	for i := range f.Seeds {
		s := &f.Seeds[i]
		if s.ID == "" {
			return nil, fmt.Errorf("seed %d: missing id", i)
		}
		if _, dup := c.seedByID[s.ID]; dup {
			return nil, fmt.Errorf("seed %q: duplicate id", s.ID)
		}
		c.seeds = append(c.seeds, s)
		c.seedByID[s.ID] = s
	}

	for i := range f.Nodes {
		n := &f.Nodes[i]
		if n.ID == "" {
			return nil, fmt.Errorf("node %d: missing id", i)
		}
		if _, dup := c.nodeByID[n.ID]; dup {
			return nil, fmt.Errorf("node %q: duplicate id", n.ID)
		}
		if _, ok := c.seedByID[n.SeedID]; !ok {
			return nil, fmt.Errorf("node %q: unknown seed %q", n.ID, n.SeedID)
		}
		c.nodes = append(c.nodes, n)
		c.nodeByID[n.ID] = n
		c.bySeed[n.SeedID] = append(c.bySeed[n.SeedID], n)
		if n.Tier == 0 {
			if prev, ok := c.start[n.SeedID]; ok {
				return nil, fmt.Errorf("seed %q: two starting nodes %q and %q", n.SeedID, prev.ID, n.ID)
			}
			c.start[n.SeedID] = n
		}
	}

	if err := c.check(); err != nil {
		return nil, err
	}
	return c, nil
}

// check verifies edges resolve and default edges climb tiers.
func (c *Catalog) check() error {
	for _, s := range c.seeds {
		if _, ok := c.start[s.ID]; !ok {
			return fmt.Errorf("seed %q: no tier 0 node", s.ID)
		}
	}
	for _, n := range c.nodes {
		if n.Default != "" {
			next, ok := c.nodeByID[n.Default]
			if !ok {
				return fmt.Errorf("node %q: unknown default %q", n.ID, n.Default)
			}
			if next.Tier <= n.Tier {
				return fmt.Errorf("node %q: default %q does not increase tier", n.ID, n.Default)
			}
		}
		for _, b := range n.Branches {
			if _, ok := c.nodeByID[b.Target]; !ok {
				return fmt.Errorf("node %q: unknown branch target %q", n.ID, b.Target)
			}
			if !b.Trigger.Valid() {
				// Kept so the rest of the lineage loads; it can never fire.
				slog.Warn("invalid trigger", "node", n.ID, "target", b.Target, "kind", b.Trigger.Kind)
			}
		}
	}
	return nil
}

// Seeds returns all seed lineages in catalog order.
func (c *Catalog) Seeds() []*Seed {
	return c.seeds
}

// Seed looks up a seed by id.
func (c *Catalog) Seed(id string) (*Seed, bool) {
	s, ok := c.seedByID[id]
	return s, ok
}

// Node looks up a node by id.
func (c *Catalog) Node(id string) (*Node, bool) {
	n, ok := c.nodeByID[id]
	return n, ok
}

// Nodes returns the nodes of a lineage in catalog order.
func (c *Catalog) Nodes(seedID string) []*Node {
	return c.bySeed[seedID]
}

// Count returns the total number of nodes.
func (c *Catalog) Count() int {
	return len(c.nodes)
}

// Start returns the tier 0 node of a lineage.
func (c *Catalog) Start(seedID string) (*Node, bool) {
	n, ok := c.start[seedID]
	return n, ok
}

// IsTerminal reports whether id is a harvestable end state. Unknown ids are not.
func (c *Catalog) IsTerminal(id string) bool {
	n, ok := c.nodeByID[id]
	return ok && n.Terminal()
}

// IsLegendary reports whether id is a legendary node.
func (c *Catalog) IsLegendary(id string) bool {
	n, ok := c.nodeByID[id]
	return ok && n.Legendary
}

// Points returns the harvest value of a node, 0 when unknown.
func (c *Catalog) Points(id string) int {
	if n, ok := c.nodeByID[id]; ok {
		return n.Points
	}
	return 0
}

// TierMultiplier returns the growth-time multiplier for a tier.
func (c *Catalog) TierMultiplier(tier int) float64 {
	if m, ok := c.tierMults[tier]; ok {
		return m
	}
	return 1
}

// GrowthTime returns the scaled time needed to leave node id along its
// default edge. ok is false when the node cannot grow.
func (c *Catalog) GrowthTime(id string) (time.Duration, bool) {
	n, ok := c.nodeByID[id]
	if !ok || n.Default == "" {
		return 0, false
	}
	next, ok := c.nodeByID[n.Default]
	if !ok {
		return 0, false
	}
	ms := math.Round(float64(next.GrowthTime.Milliseconds()) * c.TierMultiplier(next.Tier))
	return time.Duration(ms) * time.Millisecond, true
}

// Next picks the node a plant at id evolves into: the first branch whose
// trigger holds, else the default. special is true when a branch fired.
func (c *Catalog) Next(id string, in *Input) (target string, special bool, ok bool) {
	n, found := c.nodeByID[id]
	if !found {
		return "", false, false
	}
	for _, b := range n.Branches {
		if b.Trigger.Eval(in) {
			return b.Target, b.Target != n.Default, true
		}
	}
	if n.Default == "" {
		return "", false, false
	}
	return n.Default, false, true
}

// DefaultNext returns the unconditional next node of id.
func (c *Catalog) DefaultNext(id string) (string, bool) {
	n, ok := c.nodeByID[id]
	if !ok || n.Default == "" {
		return "", false
	}
	return n.Default, true
}
