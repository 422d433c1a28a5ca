package simulation_test

import (
	"testing"

	"github.com/collabsim/netform/internal/engine"
	"github.com/collabsim/netform/internal/simulation"
)

// TestSinglePartnerCapsNetworks validates that the pairing restriction holds
// over whole trials, not just single meetings: once paired, agents refuse
// everything, so no network ever grows past two.
func TestSinglePartnerCapsNetworks(t *testing.T) {
	r := simulation.NewRunner(t)

	result := r.Run(simulation.Scenario{
		Name:  "single-partner-cap",
		Rules: engine.Rules{Variant: engine.VariantSinglePartner, Motivation: engine.MotivationIndividual},
		Seeds: simulation.SeedRange(12345, 25),
	})

	simulation.AssertAllConverged(t, result)
	simulation.AssertInvariantsHold(t, result)
	simulation.AssertHoldingsConserved(t, result)
	simulation.AssertMaxNetworkSize(t, result, 2)
}

// TestCostOfEntryDestroysOnlyForfeits validates the conservation property of
// entry costs: instances only ever leave play through forfeiture, never
// appear from nowhere, and the records stay structurally sound.
func TestCostOfEntryDestroysOnlyForfeits(t *testing.T) {
	r := simulation.NewRunner(t)

	result := r.Run(simulation.Scenario{
		Name:  "cost-of-entry",
		Rules: engine.Rules{Variant: engine.VariantCostOfEntry, Motivation: engine.MotivationIndividual},
		Seeds: simulation.SeedRange(12345, 25),
	})

	simulation.AssertAllConverged(t, result)
	simulation.AssertInvariantsHold(t, result)
	simulation.AssertHoldingsNeverGrow(t, result)
	simulation.AssertRecordsWellFormed(t, result)
}

// TestPayToJoinConservesInstances validates that payments move instances
// between agents without creating or destroying them, including across
// rolled-back refusals.
func TestPayToJoinConservesInstances(t *testing.T) {
	r := simulation.NewRunner(t)

	result := r.Run(simulation.Scenario{
		Name:  "pay-to-join",
		Rules: engine.Rules{Variant: engine.VariantPayToJoin, Motivation: engine.MotivationIndividual},
		Seeds: simulation.SeedRange(12345, 25),
	})

	simulation.AssertAllConverged(t, result)
	simulation.AssertInvariantsHold(t, result)
	simulation.AssertHoldingsConserved(t, result)
	simulation.AssertRecordsWellFormed(t, result)
}
