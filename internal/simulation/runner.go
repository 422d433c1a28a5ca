package simulation

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/collabsim/netform/internal/assign"
	"github.com/collabsim/netform/internal/metrics"
	"github.com/collabsim/netform/internal/pool"
	"github.com/collabsim/netform/internal/rounds"
	"github.com/collabsim/netform/internal/store"
)

// Runner orchestrates multi-trial simulation experiments against the real
// negotiation pipeline and results store.
type Runner struct {
	t     *testing.T
	store *store.SQLiteStore
	log   *slog.Logger
}

// NewRunner creates a simulation runner with an isolated SQLite results
// database.
func NewRunner(t *testing.T) *Runner {
	t.Helper()

	s, err := store.OpenSQLite(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("NewRunner: opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return &Runner{
		t:     t,
		store: s,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Store exposes the runner's results store for round-trip assertions.
func (r *Runner) Store() *store.SQLiteStore {
	return r.store
}

// Run executes the scenario, persists every record, and returns the
// collected results. Worlds are retained so assertions can inspect the final
// configuration directly.
func (r *Runner) Run(scenario Scenario) SimulationResult {
	r.t.Helper()
	ctx := context.Background()

	if len(scenario.Seeds) == 0 {
		r.t.Fatalf("scenario %s: no seeds", scenario.Name)
	}
	spec := ClassicPool()
	if scenario.Pool != nil {
		spec = *scenario.Pool
	}
	caps := rounds.Caps{MaxRounds: 1000}
	if scenario.Caps != nil {
		caps = *scenario.Caps
	}

	runID, err := r.store.CreateRun(ctx, "scenario: "+scenario.Name+"\n")
	if err != nil {
		r.t.Fatalf("scenario %s: CreateRun: %v", scenario.Name, err)
	}

	trials := make([]TrialResult, len(scenario.Seeds))
	records := make([]metrics.TrialRecord, len(scenario.Seeds))
	for i, seed := range scenario.Seeds {
		trials[i] = r.runTrial(spec, scenario, caps, seed, i)
		records[i] = trials[i].Record
	}

	if err := r.store.AppendTrials(ctx, runID, records); err != nil {
		r.t.Fatalf("scenario %s: AppendTrials: %v", scenario.Name, err)
	}

	return SimulationResult{Scenario: scenario, Trials: trials, RunID: runID}
}

// runTrial executes one trial inline rather than through the trial package,
// so the final world stays accessible.
func (r *Runner) runTrial(spec pool.Spec, scenario Scenario, caps rounds.Caps, seed int64, index int) TrialResult {
	r.t.Helper()

	rng := rand.New(rand.NewSource(seed))
	pools, err := pool.Build(spec)
	if err != nil {
		r.t.Fatalf("scenario %s seed %d: Build: %v", scenario.Name, seed, err)
	}
	dealt := len(pools.Objectives)

	w, err := assign.Deal(pools, spec.ObjectivesPerAgent, rng)
	if err != nil {
		r.t.Fatalf("scenario %s seed %d: Deal: %v", scenario.Name, seed, err)
	}
	res, err := rounds.Run(w, scenario.Rules, caps, rng, r.log)
	if err != nil {
		r.t.Fatalf("scenario %s seed %d: Run: %v", scenario.Name, seed, err)
	}

	rec := metrics.Collect(w, res)
	rec.Seed = seed
	rec.Trial = index
	rec.Variant = string(scenario.Rules.Variant)
	rec.Motivation = string(scenario.Rules.Motivation)
	rec.FillPoolSpec(spec)

	return TrialResult{Seed: seed, Record: rec, World: w, DealtObjectives: dealt}
}
