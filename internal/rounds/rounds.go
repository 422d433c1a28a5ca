// Package rounds drives repeated meeting rounds over a trial's population
// until the allocation reaches a fixed point or a safety cap.
package rounds

import (
	"log/slog"
	"math/rand"

	"github.com/collabsim/netform/internal/engine"
	"github.com/collabsim/netform/internal/model"
)

// Caps bounds a trial that fails to converge. MaxRounds must be positive;
// MaxMeetings 0 means unlimited. Hitting a cap is reported as
// non-convergence, not an error.
type Caps struct {
	MaxRounds   int
	MaxMeetings int
}

// Result summarizes one trial's convergence loop.
type Result struct {
	Rounds   int
	Meetings int
	Accepted int

	// Converged is true when a full round produced zero accepted changes.
	Converged bool
}

// pair is an unordered agent pair; order within the pair carries no meaning
// because precedence is drawn per meeting.
type pair struct {
	a, b int
}

// Run executes rounds of pairwise meetings until a round accepts no change
// (a fixed point under the configured rules) or a cap is hit. Meetings
// within a round run strictly sequentially: merges mutate shared membership
// state. World invariants are verified at every round boundary; a violation
// is an engine bug and aborts the trial.
func Run(w *model.World, rules engine.Rules, caps Caps, rng *rand.Rand, log *slog.Logger) (Result, error) {
	var res Result
	for res.Rounds < caps.MaxRounds {
		pairs := samplePairs(w, rng)
		res.Rounds++

		acceptedThisRound := 0
		for _, p := range pairs {
			if caps.MaxMeetings > 0 && res.Meetings >= caps.MaxMeetings {
				// The cap cuts the round short, so run the boundary check
				// here before handing back a partially played round.
				return res, w.CheckInvariants()
			}
			// Earlier meetings in the round may have co-networked this
			// pair already.
			if w.NetworkOf(p.a) == w.NetworkOf(p.b) {
				continue
			}
			requester, responder := p.a, p.b
			if rng.Intn(2) == 1 {
				requester, responder = responder, requester
			}
			out := engine.Meet(w, rules, requester, responder, rng)
			res.Meetings++
			if out.Accepted {
				acceptedThisRound++
				res.Accepted++
				log.Debug("proposal accepted",
					"round", res.Rounds,
					"requester", out.Requester,
					"responder", out.Responder,
					"action", out.Action.String(),
					"requester_gain", out.RequesterGain,
					"responder_gain", out.ResponderGain,
				)
			}
		}

		if err := w.CheckInvariants(); err != nil {
			return res, err
		}
		if acceptedThisRound == 0 {
			res.Converged = true
			return res, nil
		}
	}
	return res, nil
}

// samplePairs lists every unordered pair of agents that are not currently
// co-networked, shuffled by the trial RNG. Enumeration order is fixed
// (ascending a, then b) so the shuffle is the only source of randomness.
func samplePairs(w *model.World, rng *rand.Rand) []pair {
	var pairs []pair
	n := len(w.Agents)
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			if w.NetworkOf(a) != w.NetworkOf(b) {
				pairs = append(pairs, pair{a: a, b: b})
			}
		}
	}
	rng.Shuffle(len(pairs), func(i, j int) {
		pairs[i], pairs[j] = pairs[j], pairs[i]
	})
	return pairs
}
