package simulation_test

import (
	"testing"

	"github.com/collabsim/netform/internal/engine"
	"github.com/collabsim/netform/internal/simulation"
)

// TestOpenVariantFormsNetworks validates the baseline dynamics: under open
// rules with individual motivation, the classic population reliably finds
// mutually beneficial mergers and settles into a stable configuration.
func TestOpenVariantFormsNetworks(t *testing.T) {
	r := simulation.NewRunner(t)

	result := r.Run(simulation.Scenario{
		Name:  "open-individual",
		Rules: engine.Rules{Variant: engine.VariantOpen, Motivation: engine.MotivationIndividual},
		Seeds: simulation.SeedRange(12345, 25),
	})

	simulation.AssertAllConverged(t, result)
	simulation.AssertInvariantsHold(t, result)
	simulation.AssertHoldingsConserved(t, result)
	simulation.AssertRecordsWellFormed(t, result)

	// With 3:1 prevalence and 5 objectives per agent, profitable pairings
	// are plentiful: collaboration should emerge in well over half the
	// trials.
	if n := simulation.CountCollaborating(result); n <= len(result.Trials)/2 {
		t.Errorf("only %d of %d trials formed any network", n, len(result.Trials))
	}
}

// TestOpenSocialMotivationGrowsLargeNetworks validates that social-value
// agents, who credit every member's fulfilled objectives, build much larger
// coalitions than individually motivated ones.
func TestOpenSocialMotivationGrowsLargeNetworks(t *testing.T) {
	r := simulation.NewRunner(t)

	result := r.Run(simulation.Scenario{
		Name:  "open-social",
		Rules: engine.Rules{Variant: engine.VariantOpen, Motivation: engine.MotivationSocial},
		Seeds: simulation.SeedRange(12345, 25),
	})

	simulation.AssertAllConverged(t, result)
	simulation.AssertInvariantsHold(t, result)
	simulation.AssertHoldingsConserved(t, result)
	simulation.AssertRecordsWellFormed(t, result)

	for _, tr := range result.Trials {
		if tr.Record.LargestNetwork < 8 {
			t.Errorf("seed %d: largest network %d, expected social motivation to pool most of 16 agents",
				tr.Seed, tr.Record.LargestNetwork)
		}
	}
}
