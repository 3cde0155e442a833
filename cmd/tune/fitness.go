package main

import (
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/garden/clock"
	"github.com/pthm-cable/garden/config"
	"github.com/pthm-cable/garden/game"
	"github.com/pthm-cable/garden/garden"
	"github.com/pthm-cable/garden/telemetry"
)

// missPenalty is the fitness of a run in which nothing reached a terminal node.
const missPenalty = 10.0

var tuneEpoch = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

// FitnessEvaluator runs headless auto-played sessions and scores how close
// the time from planting to a terminal node lands to a target.
type FitnessEvaluator struct {
	params     *ParamVector
	ticks      int
	seeds      []int64
	baseConfig *config.Config
	target     time.Duration

	// Best run tracking
	mu             sync.Mutex
	bestFitness    float64
	bestHallOfFame []telemetry.HallEntry
	last           runResult
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, ticks int, seeds []int64, baseCfg *config.Config, target time.Duration) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		ticks:       ticks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		target:      target,
		bestFitness: math.Inf(1),
	}
}

// BestHallOfFame returns the hall of fame from the best evaluation.
func (fe *FitnessEvaluator) BestHallOfFame() []telemetry.HallEntry {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHallOfFame
}

// Last returns the pooled result of the most recent evaluation.
func (fe *FitnessEvaluator) Last() runResult {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// runResult holds what one or more runs measured.
type runResult struct {
	stageMinutes []float64 // planting to terminal, per plant
	hallOfFame   []telemetry.HallEntry
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var pooled runResult
	for _, r := range results {
		pooled.stageMinutes = append(pooled.stageMinutes, r.stageMinutes...)
		if len(r.hallOfFame) > len(pooled.hallOfFame) {
			pooled.hallOfFame = r.hallOfFame
		}
	}
	fitness := computeFitness(pooled.stageMinutes, fe.target)

	fe.mu.Lock()
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
		fe.bestHallOfFame = pooled.hallOfFame
	}
	fe.last = pooled
	fe.mu.Unlock()

	return fitness
}

// runSimulation plays one auto-played session for the configured ticks.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	clk := clock.NewFake(tuneEpoch)
	g, err := game.New(game.Options{Config: cfg, Clock: clk, Seed: seed})
	if err != nil {
		return runResult{}
	}
	defer g.Close()

	var result runResult
	cat := g.Catalog()
	g.Subscribe(func(e garden.Event) {
		reached := (e.Type == garden.EventEvolved || e.Type == garden.EventMerged) && cat.IsTerminal(e.To)
		if reached {
			result.stageMinutes = append(result.stageMinutes, e.At.Sub(e.Plant.PlantedAt).Minutes())
		}
	})

	player := game.NewAutoPlayer(g)
	for range fe.ticks {
		clk.Advance(cfg.Timing.GrowthTick)
		g.Step()
		player.Act()
	}
	result.hallOfFame = g.HallOfFame()
	return result
}

// copyConfig returns a copy of the base config that can be changed freely.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	fe.params.ApplyToConfig(&cfg, fe.params.ExtractFromConfig(fe.baseConfig))
	return &cfg
}

// computeFitness scores stage times against target: the squared relative
// error of the mean plus a tenth of the squared coefficient of variation.
func computeFitness(stageMinutes []float64, target time.Duration) float64 {
	if len(stageMinutes) == 0 {
		return missPenalty
	}
	want := target.Minutes()
	if len(stageMinutes) == 1 {
		rel := (stageMinutes[0] - want) / want
		return rel * rel
	}
	mean, std := stat.MeanStdDev(stageMinutes, nil)
	rel := (mean - want) / want
	cv := 0.0
	if mean > 0 {
		cv = std / mean
	}
	return rel*rel + 0.1*cv*cv
}

func meanOrZero(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}
