// Package trial runs one complete trial: build pools, deal, negotiate to a
// fixed point, collect the record. Each trial owns a private RNG seeded from
// the experiment seed, so trials are reproducible independently of how they
// are scheduled.
package trial

import (
	"log/slog"
	"math/rand"

	"github.com/collabsim/netform/internal/assign"
	"github.com/collabsim/netform/internal/engine"
	"github.com/collabsim/netform/internal/metrics"
	"github.com/collabsim/netform/internal/pool"
	"github.com/collabsim/netform/internal/rounds"
)

// Params fully determines one trial.
type Params struct {
	Pool  pool.Spec
	Rules engine.Rules
	Caps  rounds.Caps
	Seed  int64
}

// Run executes one trial and returns its record. Identity fields other than
// Seed (condition, trial index, names) are the experiment runner's concern.
func Run(p Params, log *slog.Logger) (metrics.TrialRecord, error) {
	rng := rand.New(rand.NewSource(p.Seed))

	pools, err := pool.Build(p.Pool)
	if err != nil {
		return metrics.TrialRecord{}, err
	}
	w, err := assign.Deal(pools, p.Pool.ObjectivesPerAgent, rng)
	if err != nil {
		return metrics.TrialRecord{}, err
	}
	res, err := rounds.Run(w, p.Rules, p.Caps, rng, log)
	if err != nil {
		return metrics.TrialRecord{}, err
	}

	rec := metrics.Collect(w, res)
	rec.Seed = p.Seed
	rec.Variant = string(p.Rules.Variant)
	rec.Motivation = string(p.Rules.Motivation)
	rec.FillPoolSpec(p.Pool)
	return rec, nil
}
