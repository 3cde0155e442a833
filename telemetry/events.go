// Package telemetry provides garden health tracking, milestones, and snapshots.
package telemetry

import (
	"strings"
	"time"

	"github.com/pthm-cable/garden/garden"
)

// EventRecord is one row of events.csv.
type EventRecord struct {
	At        string  `csv:"at"`
	SimTime   float64 `csv:"sim_time"`
	Type      string  `csv:"type"`
	PlantID   string  `csv:"plant_id"`
	SeedID    string  `csv:"seed_id"`
	NodeID    string  `csv:"node_id"`
	X         int     `csv:"x"`
	Y         int     `csv:"y"`
	OtherID   string  `csv:"other_id"`
	From      string  `csv:"from"`
	To        string  `csv:"to"`
	Special   bool    `csv:"special"`
	Legendary bool    `csv:"legendary"`
	Points    int     `csv:"points"`
	Level     string  `csv:"level"`
	Tier      string  `csv:"tier"`
	Wish      string  `csv:"wish"`
	Visitor   string  `csv:"visitor"`
	Members   string  `csv:"members"`
}

// NewEventRecord flattens a garden event. SimTime is measured from start.
func NewEventRecord(e garden.Event, start time.Time) EventRecord {
	r := EventRecord{
		At:        e.At.UTC().Format(time.RFC3339),
		Type:      string(e.Type),
		PlantID:   e.Plant.ID,
		SeedID:    e.Plant.SeedID,
		NodeID:    e.Plant.NodeID,
		X:         e.Plant.X,
		Y:         e.Plant.Y,
		OtherID:   e.OtherID,
		From:      e.From,
		To:        e.To,
		Special:   e.Special,
		Legendary: e.Legendary,
		Points:    e.Points,
		Visitor:   e.Visitor,
		Members:   strings.Join(e.PlantIDs, ";"),
	}
	if !start.IsZero() {
		r.SimTime = e.At.Sub(start).Seconds()
	}
	switch e.Type {
	case garden.EventBondFormed, garden.EventGrieving:
		r.Level = e.Level.String()
	case garden.EventElderReached, garden.EventHarvested, garden.EventRetired:
		r.Tier = e.Tier.String()
	}
	if e.Wish != nil {
		r.Wish = string(e.Wish.Type)
	}
	return r
}
