// Package experiment runs the Monte-Carlo outer loop: every configured
// (variant, motivation) condition crossed with the trial count, distributed
// over a worker pool. Scheduling never affects results; each trial's seed is
// a pure function of its position in the plan.
package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/collabsim/netform/internal/engine"
	"github.com/collabsim/netform/internal/metrics"
	"github.com/collabsim/netform/internal/pool"
	"github.com/collabsim/netform/internal/rounds"
	"github.com/collabsim/netform/internal/trial"
)

// Condition is one cell of the experiment design.
type Condition struct {
	Variant    engine.Variant
	Motivation engine.Motivation
}

// Plan is a fully resolved experiment: validated configuration, condition
// lists in configured order, and the scheduling knobs.
type Plan struct {
	Pool        pool.Spec
	Variants    []engine.Variant
	Motivations []engine.Motivation

	AcceptZeroGain bool
	Caps           rounds.Caps

	Trials int
	Seed   int64

	// Workers caps trial concurrency; 0 means one worker per CPU.
	Workers int
}

// Conditions crosses variants with motivations, variants outermost, in the
// configured order.
func (p Plan) Conditions() []Condition {
	conds := make([]Condition, 0, len(p.Variants)*len(p.Motivations))
	for _, v := range p.Variants {
		for _, m := range p.Motivations {
			conds = append(conds, Condition{Variant: v, Motivation: m})
		}
	}
	return conds
}

// TrialSeed derives the seed for trial k of condition c. The mapping is part
// of the reproducibility contract: records carry their seed, so any single
// trial can be re-run in isolation.
func (p Plan) TrialSeed(condition, k int) int64 {
	return p.Seed + int64(condition*p.Trials+k)
}

type job struct {
	index     int // position in the flat result slice
	condition int
	k         int
}

// Run executes the full plan and returns one record per trial, ordered by
// condition then trial index regardless of worker count. The first trial
// error cancels the remaining work.
func Run(ctx context.Context, p Plan, log *slog.Logger) ([]metrics.TrialRecord, error) {
	conds := p.Conditions()
	if len(conds) == 0 {
		return nil, fmt.Errorf("experiment: no conditions (need at least one variant and one motivation)")
	}
	if p.Trials < 1 {
		return nil, fmt.Errorf("experiment: trials %d, need at least 1", p.Trials)
	}

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	total := len(conds) * p.Trials
	if workers > total {
		workers = total
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan job)
	records := make([]metrics.TrialRecord, total)

	var wg sync.WaitGroup
	var errOnce sync.Once
	var firstErr error
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				cond := conds[j.condition]
				rec, err := trial.Run(trial.Params{
					Pool: p.Pool,
					Rules: engine.Rules{
						Variant:        cond.Variant,
						Motivation:     cond.Motivation,
						AcceptZeroGain: p.AcceptZeroGain,
					},
					Caps: p.Caps,
					Seed: p.TrialSeed(j.condition, j.k),
				}, log)
				if err != nil {
					fail(fmt.Errorf("condition %s/%s trial %d: %w", cond.Variant, cond.Motivation, j.k, err))
					return
				}
				rec.Condition = j.condition
				rec.Trial = j.k
				records[j.index] = rec
			}
		}()
	}

	index := 0
dispatch:
	for c := range conds {
		for k := 0; k < p.Trials; k++ {
			select {
			case jobs <- job{index: index, condition: c, k: k}:
				index++
			case <-ctx.Done():
				break dispatch
			}
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	converged := 0
	for _, rec := range records {
		if rec.Converged {
			converged++
		}
	}
	log.Info("experiment finished",
		"conditions", len(conds),
		"trials_per_condition", p.Trials,
		"trials", total,
		"converged", converged,
	)
	return records, nil
}
