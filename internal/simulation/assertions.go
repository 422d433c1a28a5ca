package simulation

import (
	"testing"
)

// AssertAllConverged asserts that every trial reached a fixed point.
func AssertAllConverged(t *testing.T, result SimulationResult) {
	t.Helper()
	for _, tr := range result.Trials {
		if !tr.Record.Converged {
			t.Errorf("AssertAllConverged: seed %d did not converge (%d rounds, %d meetings)",
				tr.Seed, tr.Record.Rounds, tr.Record.Meetings)
		}
	}
}

// AssertInvariantsHold re-verifies the membership index of every final world.
func AssertInvariantsHold(t *testing.T, result SimulationResult) {
	t.Helper()
	for _, tr := range result.Trials {
		if err := tr.World.CheckInvariants(); err != nil {
			t.Errorf("AssertInvariantsHold: seed %d: %v", tr.Seed, err)
		}
	}
}

// AssertMaxNetworkSize asserts that no final network exceeds max members.
func AssertMaxNetworkSize(t *testing.T, result SimulationResult, max int) {
	t.Helper()
	for _, tr := range result.Trials {
		for _, netID := range tr.World.NetworkIDs() {
			if size := tr.World.NetworkSize(netID); size > max {
				t.Errorf("AssertMaxNetworkSize: seed %d: network %d has %d members (max %d)",
					tr.Seed, netID, size, max)
			}
		}
	}
}

// AssertHoldingsConserved asserts that every trial ends with exactly as many
// objective instances as were dealt. Transfers move instances; only
// forfeiture destroys them.
func AssertHoldingsConserved(t *testing.T, result SimulationResult) {
	t.Helper()
	for _, tr := range result.Trials {
		if tr.Record.ObjectivesHeld != tr.DealtObjectives {
			t.Errorf("AssertHoldingsConserved: seed %d: %d instances held, %d dealt",
				tr.Seed, tr.Record.ObjectivesHeld, tr.DealtObjectives)
		}
	}
}

// AssertHoldingsNeverGrow asserts that no trial ends with more instances
// than were dealt.
func AssertHoldingsNeverGrow(t *testing.T, result SimulationResult) {
	t.Helper()
	for _, tr := range result.Trials {
		if tr.Record.ObjectivesHeld > tr.DealtObjectives {
			t.Errorf("AssertHoldingsNeverGrow: seed %d: %d instances held, %d dealt",
				tr.Seed, tr.Record.ObjectivesHeld, tr.DealtObjectives)
		}
	}
}

// AssertRecordsWellFormed asserts the structural sanity of every record:
// fulfillment fractions in [0,1], counts consistent, network stats within
// population bounds.
func AssertRecordsWellFormed(t *testing.T, result SimulationResult) {
	t.Helper()
	for _, tr := range result.Trials {
		rec := tr.Record
		if rec.ObjectivesFulfilled > rec.ObjectivesHeld {
			t.Errorf("AssertRecordsWellFormed: seed %d: fulfilled %d > held %d",
				tr.Seed, rec.ObjectivesFulfilled, rec.ObjectivesHeld)
		}
		for name, frac := range rec.Fulfillment {
			if frac < 0 || frac > 1 {
				t.Errorf("AssertRecordsWellFormed: seed %d: fulfillment[%s] = %v", tr.Seed, name, frac)
			}
		}
		if rec.Networks < 1 || rec.Networks > rec.NumAgents {
			t.Errorf("AssertRecordsWellFormed: seed %d: %d networks for %d agents",
				tr.Seed, rec.Networks, rec.NumAgents)
		}
		if rec.LargestNetwork < 1 || rec.LargestNetwork > rec.NumAgents {
			t.Errorf("AssertRecordsWellFormed: seed %d: largest network %d of %d agents",
				tr.Seed, rec.LargestNetwork, rec.NumAgents)
		}
		if rec.TotalIndividualValue < 0 || rec.TotalSocialValue < 0 {
			t.Errorf("AssertRecordsWellFormed: seed %d: negative totals %v/%v",
				tr.Seed, rec.TotalIndividualValue, rec.TotalSocialValue)
		}
	}
}

// AssertIdenticalRecords asserts that two results carry byte-for-byte equal
// records in the same order.
func AssertIdenticalRecords(t *testing.T, a, b SimulationResult) {
	t.Helper()
	if len(a.Trials) != len(b.Trials) {
		t.Fatalf("AssertIdenticalRecords: %d vs %d trials", len(a.Trials), len(b.Trials))
	}
	for i := range a.Trials {
		ra, rb := a.Trials[i].Record, b.Trials[i].Record
		if ra.Seed != rb.Seed || ra.Rounds != rb.Rounds || ra.Meetings != rb.Meetings ||
			ra.Accepted != rb.Accepted || ra.Networks != rb.Networks ||
			ra.TotalIndividualValue != rb.TotalIndividualValue ||
			ra.TotalSocialValue != rb.TotalSocialValue ||
			ra.ObjectivesHeld != rb.ObjectivesHeld {
			t.Errorf("AssertIdenticalRecords: trial %d differs:\n%+v\n%+v", i, ra, rb)
		}
	}
}

// CountCollaborating counts trials whose final state has at least one
// network with two or more members.
func CountCollaborating(result SimulationResult) int {
	count := 0
	for _, tr := range result.Trials {
		if tr.Record.LargestNetwork >= 2 {
			count++
		}
	}
	return count
}

// MeanIndividualValue averages the total individual value across trials.
func MeanIndividualValue(result SimulationResult) float64 {
	if len(result.Trials) == 0 {
		return 0
	}
	var sum float64
	for _, tr := range result.Trials {
		sum += tr.Record.TotalIndividualValue
	}
	return sum / float64(len(result.Trials))
}
