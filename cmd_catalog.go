package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/garden/catalog"
	"github.com/pthm-cable/garden/config"
	"github.com/pthm-cable/garden/traits"
)

func newCatalogCmd() *cobra.Command {
	var seedID string
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List seeds and their evolution trees",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(config.Cfg().Growth.TierMultipliers)
			if err != nil {
				return err
			}
			seeds := cat.Seeds()
			if seedID != "" {
				s, ok := cat.Seed(seedID)
				if !ok {
					return fmt.Errorf("unknown seed %q", seedID)
				}
				seeds = []*catalog.Seed{s}
			}
			if jsonOut {
				return writeCatalogJSON(os.Stdout, cat, seeds)
			}
			writeCatalogText(os.Stdout, cat, seeds)
			return nil
		},
	}
	cmd.Flags().StringVar(&seedID, "seed", "", "Only list this seed")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

type catalogEntry struct {
	Seed  *catalog.Seed   `json:"seed"`
	Nodes []*catalog.Node `json:"nodes"`
}

func writeCatalogJSON(w io.Writer, cat *catalog.Catalog, seeds []*catalog.Seed) error {
	out := make([]catalogEntry, 0, len(seeds))
	for _, s := range seeds {
		out = append(out, catalogEntry{Seed: s, Nodes: cat.Nodes(s.ID)})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeCatalogText(w io.Writer, cat *catalog.Catalog, seeds []*catalog.Seed) {
	for _, s := range seeds {
		fmt.Fprintf(w, "%s %s (%s), cost %d\n", s.Emoji, s.Name, s.ID, s.Cost)
		for _, n := range cat.Nodes(s.ID) {
			grow, _ := cat.GrowthTime(n.ID)
			line := fmt.Sprintf("  t%d %s %-22s %-8s %s", n.Tier, n.Emoji, n.Name, grow.Round(time.Second), traits.Display(n.Rarity))
			if n.Terminal() {
				line += fmt.Sprintf(", %d pts", n.Points)
			}
			if n.Legendary {
				line += ", legendary"
			}
			fmt.Fprintln(w, line)
			for _, b := range n.Branches {
				fmt.Fprintf(w, "      -> %s if %s\n", b.Target, describeTrigger(b.Trigger))
			}
		}
		fmt.Fprintln(w)
	}
}

// describeTrigger renders a trigger kind with its non-zero parameters.
func describeTrigger(t catalog.Trigger) string {
	parts := []string{string(t.Kind)}
	add := func(key string, v any) {
		parts = append(parts, fmt.Sprintf("%s=%v", key, v))
	}
	if t.Count != 0 {
		add("count", t.Count)
	}
	if t.Min != 0 {
		add("min", t.Min)
	}
	if t.Visitor != "" {
		add("visitor", t.Visitor)
	}
	if t.Hours != 0 {
		add("hours", t.Hours)
	}
	if t.Season != "" {
		add("season", t.Season)
	}
	if t.Month != 0 {
		add("month", time.Month(t.Month))
	}
	if t.Node != "" {
		add("node", t.Node)
	}
	if t.Chance != 0 {
		add("chance", t.Chance)
	}
	return strings.Join(parts, " ")
}
