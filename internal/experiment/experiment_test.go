package experiment

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/collabsim/netform/internal/engine"
	"github.com/collabsim/netform/internal/pool"
	"github.com/collabsim/netform/internal/rounds"
)

func smallPlan() Plan {
	return Plan{
		Pool: pool.Spec{
			Population:         8,
			Resources:          4,
			ResourceRatio:      3,
			ObjectivesPerAgent: 2,
			ObjectiveRatio:     3,
			HighValue:          20,
			LowValue:           10,
			HighSocialWeight:   20,
			LowSocialWeight:    10,
		},
		Variants:    []engine.Variant{engine.VariantOpen, engine.VariantSinglePartner},
		Motivations: []engine.Motivation{engine.MotivationIndividual, engine.MotivationSocial},
		Caps:        rounds.Caps{MaxRounds: 100},
		Trials:      5,
		Seed:        12345,
	}
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConditionsCrossInConfiguredOrder(t *testing.T) {
	conds := smallPlan().Conditions()
	want := []Condition{
		{engine.VariantOpen, engine.MotivationIndividual},
		{engine.VariantOpen, engine.MotivationSocial},
		{engine.VariantSinglePartner, engine.MotivationIndividual},
		{engine.VariantSinglePartner, engine.MotivationSocial},
	}
	if !reflect.DeepEqual(conds, want) {
		t.Errorf("Conditions() = %v, want %v", conds, want)
	}
}

func TestTrialSeedsAreDistinct(t *testing.T) {
	p := smallPlan()
	seen := make(map[int64]bool)
	for c := range p.Conditions() {
		for k := 0; k < p.Trials; k++ {
			s := p.TrialSeed(c, k)
			if seen[s] {
				t.Fatalf("seed %d assigned twice", s)
			}
			seen[s] = true
		}
	}
	if p.TrialSeed(0, 0) != p.Seed {
		t.Errorf("first trial seed = %d, want base seed %d", p.TrialSeed(0, 0), p.Seed)
	}
}

func TestRunRecordsInPlanOrder(t *testing.T) {
	p := smallPlan()
	recs, err := Run(context.Background(), p, quiet())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(recs) != 4*p.Trials {
		t.Fatalf("got %d records, want %d", len(recs), 4*p.Trials)
	}
	conds := p.Conditions()
	for i, rec := range recs {
		wantCond := i / p.Trials
		wantTrial := i % p.Trials
		if rec.Condition != wantCond || rec.Trial != wantTrial {
			t.Errorf("record %d is condition %d trial %d, want %d/%d", i, rec.Condition, rec.Trial, wantCond, wantTrial)
		}
		if rec.Variant != string(conds[wantCond].Variant) || rec.Motivation != string(conds[wantCond].Motivation) {
			t.Errorf("record %d labeled %s/%s, want %s/%s", i, rec.Variant, rec.Motivation, conds[wantCond].Variant, conds[wantCond].Motivation)
		}
		if rec.Seed != p.TrialSeed(wantCond, wantTrial) {
			t.Errorf("record %d seed = %d, want %d", i, rec.Seed, p.TrialSeed(wantCond, wantTrial))
		}
	}
}

func TestRunIndependentOfWorkerCount(t *testing.T) {
	p := smallPlan()

	p.Workers = 1
	serial, err := Run(context.Background(), p, quiet())
	if err != nil {
		t.Fatalf("Run(workers=1) error = %v", err)
	}

	p.Workers = 8
	parallel, err := Run(context.Background(), p, quiet())
	if err != nil {
		t.Fatalf("Run(workers=8) error = %v", err)
	}

	if !reflect.DeepEqual(serial, parallel) {
		t.Error("records differ between 1 and 8 workers")
	}
}

func TestRunFailsFastOnBadPool(t *testing.T) {
	p := smallPlan()
	p.Pool.Population = 7 // not divisible by the 3:3:1:1 weights

	if _, err := Run(context.Background(), p, quiet()); err == nil {
		t.Fatal("Run() accepted an unrealizable pool configuration")
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Run(ctx, smallPlan(), quiet()); err == nil {
		t.Fatal("Run() returned no error on a cancelled context")
	}
}

func TestRunRejectsEmptyDesign(t *testing.T) {
	p := smallPlan()
	p.Motivations = nil

	if _, err := Run(context.Background(), p, quiet()); err == nil {
		t.Fatal("Run() accepted a plan with no motivations")
	}
}
