package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/config"
	"github.com/pthm-cable/garden/garden"
	"github.com/pthm-cable/garden/telemetry"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <snapshot.json>",
		Short: "Summarize a milestone snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, g, err := loadSnapshot(config.Cfg(), args[0])
			if err != nil {
				return err
			}
			writeSnapshotSummary(os.Stdout, snap, g)
			return nil
		},
	}
}

// loadSnapshot reads a snapshot and restores its garden under cfg, which
// rejects snapshots that no longer fit the grid or catalog.
func loadSnapshot(cfg *config.Config, path string) (*telemetry.Snapshot, *garden.Garden, error) {
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return nil, nil, err
	}
	g := garden.New(garden.Options{Config: cfg})
	if err := g.Restore(snap.Garden); err != nil {
		return nil, nil, fmt.Errorf("restore %s: %w", path, err)
	}
	return snap, g, nil
}

func writeSnapshotSummary(w io.Writer, snap *telemetry.Snapshot, g *garden.Garden) {
	if m := snap.Milestone; m != nil {
		fmt.Fprintf(w, "milestone %s at %s: %s\n", m.Type, m.At, m.Description)
	}
	simTime := time.Duration(snap.SimTimeSec * float64(time.Second))
	fmt.Fprintf(w, "seed %d, %s in, %d/%d cells planted, %d merges\n",
		snap.RNGSeed, simTime, g.Len(), g.Size()*g.Size(), g.Merges())

	cat := g.Catalog()
	for _, p := range g.Plants() {
		name := p.NodeID
		if n, ok := cat.Node(p.NodeID); ok {
			name = n.Name
		}
		line := fmt.Sprintf("  (%d,%d) %-12s %-20s %3.0f%%", p.X, p.Y, p.Name, name, p.Progress*100)
		if p.Watered {
			line += " watered"
		}
		if p.ElderTier > components.NotElder {
			line += " " + p.ElderTier.String()
		}
		if b := p.StrongestBond(); b > components.Acquaintance {
			line += " " + b.String()
		}
		fmt.Fprintln(w, line)
	}
}
