// Package pool sizes and builds the resource and objective multisets a trial
// deals from. Sizing happens before any trial runs; a configuration whose
// ratios cannot be realized as exact integer pools fails fast with
// *ConfigurationError.
package pool

import (
	"fmt"
	"math"

	"github.com/collabsim/netform/internal/model"
)

// ConfigurationError reports pool sizing that cannot be realized. It is
// fatal: the experiment must not start.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "pool configuration: " + e.Reason
}

func configErrorf(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// Spec carries the sizing inputs for one trial's pools.
//
// The first half of the resource alphabet (rounding down) is the
// high-prevalence group; each high letter receives ResourceRatio times the
// share of each low letter. Objective units follow ObjectiveRatio across
// letters the same way and split evenly across the two tiers within a
// letter.
type Spec struct {
	Population         int
	Resources          int
	ResourceRatio      float64
	ObjectivesPerAgent int
	ObjectiveRatio     float64

	HighValue        float64
	LowValue         float64
	HighSocialWeight float64
	LowSocialWeight  float64
}

// Pools holds the fully sized multisets for one trial, in deterministic
// order: resources grouped by letter, objectives grouped by type. The
// assigner is responsible for shuffling.
type Pools struct {
	Resources  []model.Resource
	Objectives []model.Objective

	ResourceCounts  map[model.Resource]int
	ObjectiveCounts map[model.ObjectiveType]int
}

// Letters returns the resource alphabet for n resource types.
func Letters(n int) []model.Resource {
	letters := make([]model.Resource, n)
	for i := 0; i < n; i++ {
		letters[i] = model.Resource('A' + byte(i))
	}
	return letters
}

// prevalenceWeights assigns ratio to the high-prevalence first half of the
// alphabet and 1 to the rest.
func prevalenceWeights(n int, ratio float64) []float64 {
	weights := make([]float64, n)
	high := n / 2
	for i := range weights {
		if i < high {
			weights[i] = ratio
		} else {
			weights[i] = 1
		}
	}
	return weights
}

// exactShare computes total*w/sum and fails unless the result is an
// integer.
func exactShare(total int, w, sum float64, what string) (int, error) {
	share := float64(total) * w / sum
	rounded := math.Round(share)
	if math.Abs(share-rounded) > 1e-9 {
		return 0, configErrorf("%s share %.4f is not an integer (total %d, weight %g, weight sum %g)", what, share, total, w, sum)
	}
	return int(rounded), nil
}

// Build validates the spec and constructs both pools.
func Build(spec Spec) (*Pools, error) {
	switch {
	case spec.Population < 2:
		return nil, configErrorf("population %d: need at least 2 agents", spec.Population)
	case spec.Resources < 2 || spec.Resources > 26:
		return nil, configErrorf("resources %d: need between 2 and 26 resource types", spec.Resources)
	case spec.Resources > spec.Population:
		return nil, configErrorf("resources %d exceed population %d", spec.Resources, spec.Population)
	case spec.ObjectivesPerAgent < 1:
		return nil, configErrorf("objectives per agent %d: need at least 1", spec.ObjectivesPerAgent)
	case spec.ResourceRatio <= 0 || spec.ObjectiveRatio <= 0:
		return nil, configErrorf("prevalence ratios must be positive, got resource %g objective %g", spec.ResourceRatio, spec.ObjectiveRatio)
	}

	letters := Letters(spec.Resources)
	p := &Pools{
		ResourceCounts:  make(map[model.Resource]int, spec.Resources),
		ObjectiveCounts: make(map[model.ObjectiveType]int, spec.Resources*2),
	}

	// Resource pool: one unit per agent.
	weights := prevalenceWeights(spec.Resources, spec.ResourceRatio)
	var weightSum float64
	for _, w := range weights {
		weightSum += w
	}
	for i, letter := range letters {
		n, err := exactShare(spec.Population, weights[i], weightSum, fmt.Sprintf("resource %s", letter))
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, configErrorf("resource %s receives zero units", letter)
		}
		p.ResourceCounts[letter] = n
		for j := 0; j < n; j++ {
			p.Resources = append(p.Resources, letter)
		}
	}

	// Objective pool: population x objectives-per-agent units, apportioned
	// across letters by objective prevalence and split evenly across tiers.
	totalObjs := spec.Population * spec.ObjectivesPerAgent
	objWeights := prevalenceWeights(spec.Resources, spec.ObjectiveRatio)
	weightSum = 0
	for _, w := range objWeights {
		weightSum += w
	}
	for i, letter := range letters {
		perLetter, err := exactShare(totalObjs, objWeights[i], weightSum, fmt.Sprintf("objective letter %s", letter))
		if err != nil {
			return nil, err
		}
		if perLetter%2 != 0 {
			return nil, configErrorf("objective letter %s receives %d units, not splittable across two tiers", letter, perLetter)
		}
		perTier := perLetter / 2
		if perTier == 0 {
			return nil, configErrorf("objective letter %s receives zero units per tier", letter)
		}
		for _, tier := range []model.Tier{model.TierHigh, model.TierLow} {
			ot := model.ObjectiveType{Resource: letter, Tier: tier}
			p.ObjectiveCounts[ot] = perTier
			obj := model.Objective{
				Type:         ot,
				Value:        spec.HighValue,
				SocialWeight: spec.HighSocialWeight,
			}
			if tier == model.TierLow {
				obj.Value = spec.LowValue
				obj.SocialWeight = spec.LowSocialWeight
			}
			for j := 0; j < perTier; j++ {
				p.Objectives = append(p.Objectives, obj)
			}
		}
	}

	return p, nil
}
