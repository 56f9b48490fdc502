package main

import (
	"context"
	"math"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/config"
	"github.com/pthm-cable/biosim/game"
	"github.com/pthm-cable/biosim/telemetry"
)

// Minimum viable population: a species that stays below minViablePop for
// extinctionGraceYears consecutive years counts as functionally extinct.
const (
	minViablePop          = 3
	extinctionGraceYears  = 5
	stabilityWarmupYears  = 10
	stabilityQualityBonus = 0.2
)

// FitnessEvaluator runs simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxYears   int
	seeds      []uint64
	baseConfig *config.Config

	mu          sync.Mutex
	lastQuality float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxYears int, seeds []uint64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxYears:   maxYears,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalYears int
	years         []telemetry.YearStats
}

// Evaluate computes fitness for a raw parameter vector (lower = better):
// -(mean survival years × (1 + 0.2 × mean quality)).
func (fe *FitnessEvaluator) Evaluate(ctx context.Context, x []float64) float64 {
	animal, landscape := fe.params.Overrides(x)

	fitness := make([]float64, len(fe.seeds))
	quality := make([]float64, len(fe.seeds))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, seed := range fe.seeds {
		g.Go(func() error {
			r, err := fe.runSimulation(ctx, seed, animal, landscape)
			if err != nil {
				return err
			}
			quality[i] = computeQuality(r.years)
			fitness[i] = -float64(r.survivalYears) * (1 + stabilityQualityBonus*quality[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Rejected parameter sets and cancelled runs score as the worst outcome.
		return 0
	}

	q := stat.Mean(quality, nil)
	fe.mu.Lock()
	fe.lastQuality = q
	fe.mu.Unlock()
	return stat.Mean(fitness, nil)
}

// runSimulation runs one seed until functional extinction or maxYears.
// Each run owns its island and RNG.
func (fe *FitnessEvaluator) runSimulation(ctx context.Context, seed uint64, animal, landscape []game.Override) (*runResult, error) {
	result := &runResult{}
	g, err := game.NewGame(fe.baseConfig, game.Options{
		Seed:               &seed,
		AnimalOverrides:    animal,
		LandscapeOverrides: landscape,
		YearCallback: func(stats telemetry.YearStats) {
			result.years = append(result.years, stats)
		},
	})
	if err != nil {
		return nil, err
	}
	defer g.Close()

	var herbBelow, carnBelow int
	for g.Year() < fe.maxYears {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g.Step()

		counts := g.Island().Counts()
		herb, carn := counts[components.Herbivore], counts[components.Carnivore]
		if herb == 0 || carn == 0 {
			break
		}
		herbBelow = belowCount(herb, herbBelow)
		carnBelow = belowCount(carn, carnBelow)
		if herbBelow >= extinctionGraceYears || carnBelow >= extinctionGraceYears {
			break
		}
	}
	result.survivalYears = g.Year()
	return result, nil
}

func belowCount(pop, run int) int {
	if pop < minViablePop {
		return run + 1
	}
	return 0
}

// computeQuality scores population stability in [0, 1] from the yearly
// series after warmup, ignoring years where either species is below the
// viable minimum.
func computeQuality(years []telemetry.YearStats) float64 {
	if len(years) <= stabilityWarmupYears {
		return 0
	}
	var herb, carn []float64
	for _, y := range years[stabilityWarmupYears:] {
		if y.Herbivores < minViablePop || y.Carnivores < minViablePop {
			continue
		}
		herb = append(herb, float64(y.Herbivores))
		carn = append(carn, float64(y.Carnivores))
	}
	if len(herb) < 2 {
		return 0
	}
	cvH, cvC := cv(herb), cv(carn)
	return math.Exp(-(cvH*cvH + cvC*cvC))
}

// cv computes the coefficient of variation (std/mean).
func cv(values []float64) float64 {
	mean, std := stat.MeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}
