package simulation

import (
	"github.com/collabsim/netform/internal/engine"
	"github.com/collabsim/netform/internal/metrics"
	"github.com/collabsim/netform/internal/model"
	"github.com/collabsim/netform/internal/pool"
	"github.com/collabsim/netform/internal/rounds"
)

// Scenario defines a complete simulation experiment: one population layout,
// one rule-set, trials over a list of seeds.
type Scenario struct {
	Name  string
	Rules engine.Rules
	Seeds []int64

	// Pool overrides the classic layout when non-nil.
	Pool *pool.Spec

	// Caps overrides the default round cap when non-nil.
	Caps *rounds.Caps
}

// ClassicPool is the study layout: 16 agents, 4 resources, 5 objectives
// each, 3:1 prevalence, 20/10 tier values.
func ClassicPool() pool.Spec {
	return pool.Spec{
		Population:         16,
		Resources:          4,
		ResourceRatio:      3,
		ObjectivesPerAgent: 5,
		ObjectiveRatio:     3,
		HighValue:          20,
		LowValue:           10,
		HighSocialWeight:   20,
		LowSocialWeight:    10,
	}
}

// SeedRange produces n consecutive seeds starting at base.
func SeedRange(base int64, n int) []int64 {
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = base + int64(i)
	}
	return seeds
}

// TrialResult captures one trial's record plus the final world, which the
// flat record cannot express.
type TrialResult struct {
	Seed   int64
	Record metrics.TrialRecord
	World  *model.World

	// DealtObjectives is the number of instances dealt before negotiation,
	// for conservation checks against the final holdings.
	DealtObjectives int
}

// SimulationResult captures all trials and the store they were written to.
type SimulationResult struct {
	Scenario Scenario
	Trials   []TrialResult
	RunID    string
}
