// Package metrics reduces a finished trial to one flat record suitable for
// storage and aggregation across trials.
package metrics

import (
	"github.com/collabsim/netform/internal/model"
	"github.com/collabsim/netform/internal/pool"
	"github.com/collabsim/netform/internal/rounds"
)

// TrialRecord is the flat per-trial result row. Identity and configuration
// fields are filled by the trial driver; Collect fills everything derived
// from the final world state and the round loop.
type TrialRecord struct {
	Variant    string
	Motivation string
	Condition  int
	Trial      int
	Seed       int64

	Converged bool
	Rounds    int
	Meetings  int
	Accepted  int

	NumAgents          int
	NumResources       int
	ObjectivesPerAgent int
	ResourceRatio      float64
	ObjectiveRatio     float64
	HighValue          float64
	LowValue           float64
	HighSocialWeight   float64
	LowSocialWeight    float64

	Networks       int
	LargestNetwork int
	Singletons     int

	TotalIndividualValue float64
	TotalSocialValue     float64

	// ObjectivesHeld counts instances still in play at trial end; forfeited
	// instances are gone, so the denominator can be smaller than dealt.
	ObjectivesHeld      int
	ObjectivesFulfilled int

	// Fulfillment maps an objective type's short name ("a1", "b2", ...) to
	// the fraction of its held instances fulfilled by the holder's network.
	Fulfillment map[string]float64
}

// FillPoolSpec copies the pool sizing a trial was dealt from into the
// record, so a stored record fully describes its own configuration.
func (r *TrialRecord) FillPoolSpec(spec pool.Spec) {
	r.NumResources = spec.Resources
	r.ObjectivesPerAgent = spec.ObjectivesPerAgent
	r.ResourceRatio = spec.ResourceRatio
	r.ObjectiveRatio = spec.ObjectiveRatio
	r.HighValue = spec.HighValue
	r.LowValue = spec.LowValue
	r.HighSocialWeight = spec.HighSocialWeight
	r.LowSocialWeight = spec.LowSocialWeight
}

// PoolSpec reconstructs the sizing recorded by FillPoolSpec. Together with
// Seed, Variant, and Motivation it is enough to re-run the trial alone.
func (r *TrialRecord) PoolSpec() pool.Spec {
	return pool.Spec{
		Population:         r.NumAgents,
		Resources:          r.NumResources,
		ResourceRatio:      r.ResourceRatio,
		ObjectivesPerAgent: r.ObjectivesPerAgent,
		ObjectiveRatio:     r.ObjectiveRatio,
		HighValue:          r.HighValue,
		LowValue:           r.LowValue,
		HighSocialWeight:   r.HighSocialWeight,
		LowSocialWeight:    r.LowSocialWeight,
	}
}

// Collect derives the outcome fields of a record from the final world and
// the round-loop result. Identity fields are left zero for the caller.
func Collect(w *model.World, res rounds.Result) TrialRecord {
	rec := TrialRecord{
		Converged:   res.Converged,
		Rounds:      res.Rounds,
		Meetings:    res.Meetings,
		Accepted:    res.Accepted,
		NumAgents:   len(w.Agents),
		Fulfillment: make(map[string]float64),
	}

	for _, netID := range w.NetworkIDs() {
		rec.Networks++
		size := w.NetworkSize(netID)
		if size > rec.LargestNetwork {
			rec.LargestNetwork = size
		}
		if size == 1 {
			rec.Singletons++
		}
		rec.TotalSocialValue += w.SocialValue(netID)
	}

	held := make(map[string]int)
	fulfilled := make(map[string]int)
	for _, a := range w.Agents {
		set := w.ResourceSet(w.NetworkOf(a.ID))
		for _, obj := range a.Objectives {
			name := obj.Type.String()
			held[name]++
			rec.ObjectivesHeld++
			if set[obj.Type.Resource] {
				fulfilled[name]++
				rec.ObjectivesFulfilled++
				rec.TotalIndividualValue += obj.Value
			}
		}
	}
	for name, n := range held {
		rec.Fulfillment[name] = float64(fulfilled[name]) / float64(n)
	}
	return rec
}
