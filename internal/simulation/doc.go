// Package simulation provides a multi-trial test harness for validating
// emergent dynamics of the negotiation pipeline.
//
// The harness exercises the real pool builder, assigner, engine, round
// controller, and SQLite results store — no mocks. Scenarios are Go builders
// that fix a population layout and rule-set and run trials over a list of
// seeds, capturing both the flat records and the final world state for
// property-based assertions.
//
// Each test gets an isolated results database via t.TempDir().
//
// Usage:
//
//	func TestPairingCap(t *testing.T) {
//	    r := simulation.NewRunner(t)
//	    result := r.Run(simulation.Scenario{
//	        Name:  "single-partner-cap",
//	        Rules: engine.Rules{Variant: engine.VariantSinglePartner, Motivation: engine.MotivationIndividual},
//	        Seeds: simulation.SeedRange(12345, 20),
//	    })
//	    simulation.AssertMaxNetworkSize(t, result, 2)
//	}
package simulation
