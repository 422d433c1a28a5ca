package pool

import (
	"errors"
	"testing"

	"github.com/collabsim/netform/internal/model"
)

// classicSpec mirrors the 16-player, 4-resource baseline study setup.
func classicSpec() Spec {
	return Spec{
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

func TestBuildClassicDistribution(t *testing.T) {
	p, err := Build(classicSpec())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(p.Resources) != 16 {
		t.Errorf("resource pool size = %d, want 16", len(p.Resources))
	}
	wantResources := map[model.Resource]int{"A": 6, "B": 6, "C": 2, "D": 2}
	for letter, want := range wantResources {
		if got := p.ResourceCounts[letter]; got != want {
			t.Errorf("ResourceCounts[%s] = %d, want %d", letter, got, want)
		}
	}

	if len(p.Objectives) != 80 {
		t.Errorf("objective pool size = %d, want 80", len(p.Objectives))
	}
	wantObjectives := map[string]int{
		"a1": 15, "a2": 15,
		"b1": 15, "b2": 15,
		"c1": 5, "c2": 5,
		"d1": 5, "d2": 5,
	}
	for name, want := range wantObjectives {
		ot, err := model.ParseObjectiveType(name)
		if err != nil {
			t.Fatalf("ParseObjectiveType(%q): %v", name, err)
		}
		if got := p.ObjectiveCounts[ot]; got != want {
			t.Errorf("ObjectiveCounts[%s] = %d, want %d", name, got, want)
		}
	}
}

func TestBuildObjectiveValues(t *testing.T) {
	p, err := Build(classicSpec())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for _, obj := range p.Objectives {
		switch obj.Type.Tier {
		case model.TierHigh:
			if obj.Value != 20 || obj.SocialWeight != 20 {
				t.Fatalf("high-tier objective %s has value %v weight %v, want 20/20", obj.Type, obj.Value, obj.SocialWeight)
			}
		case model.TierLow:
			if obj.Value != 10 || obj.SocialWeight != 10 {
				t.Fatalf("low-tier objective %s has value %v weight %v, want 10/10", obj.Type, obj.Value, obj.SocialWeight)
			}
		}
	}
}

func TestBuildConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Spec)
	}{
		{name: "population too small", mutate: func(s *Spec) { s.Population = 1 }},
		{name: "too few resource types", mutate: func(s *Spec) { s.Resources = 1 }},
		{name: "more resources than agents", mutate: func(s *Spec) { s.Resources = 20; s.Population = 10 }},
		{name: "zero objectives per agent", mutate: func(s *Spec) { s.ObjectivesPerAgent = 0 }},
		{name: "negative ratio", mutate: func(s *Spec) { s.ResourceRatio = -1 }},
		// 15 agents over weights 3,3,1,1 gives fractional shares.
		{name: "non-integer resource share", mutate: func(s *Spec) { s.Population = 15 }},
		// 4 agents x 3 objectives = 12 over weight sum 8: letter shares are
		// 4.5 and 1.5.
		{name: "non-integer objective share", mutate: func(s *Spec) { s.Population = 4; s.ObjectivesPerAgent = 3 }},
		// 8 agents x 1 objective = 8: high letters get 3 units, odd split.
		{name: "odd tier split", mutate: func(s *Spec) { s.Population = 8; s.ObjectivesPerAgent = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := classicSpec()
			tt.mutate(&spec)
			_, err := Build(spec)
			if err == nil {
				t.Fatal("Build() = nil error, want ConfigurationError")
			}
			var ce *ConfigurationError
			if !errors.As(err, &ce) {
				t.Errorf("Build() error type = %T, want *ConfigurationError", err)
			}
		})
	}
}

func TestBuildPoolsSumExactly(t *testing.T) {
	// An uneven but exactly realizable config: 6 resource types (3 high, 3
	// low), ratio 2, 18 agents, weights 2,2,2,1,1,1 sum 9 -> shares 4,4,4,2,2,2.
	spec := Spec{
		Population:         18,
		Resources:          6,
		ResourceRatio:      2,
		ObjectivesPerAgent: 2,
		ObjectiveRatio:     2,
		HighValue:          20,
		LowValue:           10,
		HighSocialWeight:   20,
		LowSocialWeight:    10,
	}
	p, err := Build(spec)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var resourceTotal int
	for _, n := range p.ResourceCounts {
		resourceTotal += n
	}
	if resourceTotal != spec.Population {
		t.Errorf("resource counts sum to %d, want %d", resourceTotal, spec.Population)
	}

	var objectiveTotal int
	for _, n := range p.ObjectiveCounts {
		objectiveTotal += n
	}
	if want := spec.Population * spec.ObjectivesPerAgent; objectiveTotal != want {
		t.Errorf("objective counts sum to %d, want %d", objectiveTotal, want)
	}
}
