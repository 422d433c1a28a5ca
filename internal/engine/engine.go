// Package engine implements the pairwise meeting protocol: requester action
// selection, responder evaluation, variant gating, and atomic execution of
// accepted proposals.
package engine

import (
	"math/rand"

	"github.com/collabsim/netform/internal/model"
)

// Action is the requester's proposed move.
type Action int

const (
	// ActionNone means no proposal was made.
	ActionNone Action = iota
	// ActionStay absorbs the responder's entire network into the
	// requester's.
	ActionStay
	// ActionLeave departs the requester from its own network to join the
	// responder's.
	ActionLeave
)

func (a Action) String() string {
	switch a {
	case ActionStay:
		return "stay"
	case ActionLeave:
		return "leave"
	default:
		return "none"
	}
}

// Outcome records what one meeting did.
type Outcome struct {
	Requester int
	Responder int

	Proposed bool
	Action   Action
	Accepted bool

	RequesterGain float64
	ResponderGain float64

	// Forfeited is set when a CostOfEntry merge removed an objective from
	// the requester's holdings.
	Forfeited *model.Objective
	// Paid is set when a PayToJoin transfer ended up in the responder's
	// holdings (accepted proposals only; rejected transfers roll back).
	Paid *model.Objective
}

// candidate is one of the requester's two possible moves, evaluated against
// the configuration that would result from it.
type candidate struct {
	action  Action
	members []int                   // resulting network membership
	set     map[model.Resource]bool // resulting network resource set
	payIdx  int                     // requester holding offered as payment, -1 if none
	gain    float64                 // requester's metric gain
}

// Meet runs one meeting between two agents that are not co-networked. The
// requester has precedence; precedence assignment is the caller's concern.
// All stochastic choices draw from rng, which must be the trial's RNG.
//
// A meeting between co-networked agents is a no-op: there is nothing to
// negotiate.
func Meet(w *model.World, rules Rules, requester, responder int, rng *rand.Rand) Outcome {
	out := Outcome{Requester: requester, Responder: responder, Action: ActionNone}

	reqNet := w.NetworkOf(requester)
	respNet := w.NetworkOf(responder)
	if reqNet == respNet {
		return out
	}
	if rules.Variant == VariantSinglePartner && (w.NetworkSize(reqNet) > 1 || w.NetworkSize(respNet) > 1) {
		return out
	}

	// Step 1: the requester evaluates Stay and Leave against its current
	// state.
	stay := buildCandidate(w, rules, requester, ActionStay, reqNet, respNet)
	leave := buildCandidate(w, rules, requester, ActionLeave, reqNet, respNet)

	stayOK := proposable(rules, stay)
	leaveOK := proposable(rules, leave)

	var chosen candidate
	switch {
	case stayOK && leaveOK && stay.gain == leave.gain:
		if rng.Intn(2) == 0 {
			chosen = stay
		} else {
			chosen = leave
		}
	case stayOK && (!leaveOK || stay.gain > leave.gain):
		chosen = stay
	case leaveOK:
		chosen = leave
	default:
		return out
	}

	out.Proposed = true
	out.Action = chosen.action
	out.RequesterGain = chosen.gain

	reqAgent := w.Agents[requester]
	respAgent := w.Agents[responder]

	// Responder baselines are captured before any transfer mutates
	// holdings.
	responderBefore := responderBaseline(w, rules, responder, respNet)

	// Step 3 (PayToJoin): the transfer executes before the responder
	// evaluates, so the payment counts toward the responder's own value.
	var paid *model.Objective
	if rules.Variant == VariantPayToJoin {
		obj := reqAgent.RemoveObjective(chosen.payIdx)
		respAgent.Objectives = append(respAgent.Objectives, obj)
		paid = &obj
	}

	// Step 2: the responder evaluates the proposed configuration.
	var responderAfter float64
	switch rules.Motivation {
	case MotivationSocial:
		responderAfter = w.SocialValueIn(chosen.members, chosen.set)
	default:
		responderAfter = model.ValueIn(respAgent, chosen.set)
	}
	out.ResponderGain = responderAfter - responderBefore

	if !qualifies(rules, out.ResponderGain) {
		// Refused: roll the transfer back so no state changes.
		if paid != nil {
			respAgent.Objectives = respAgent.Objectives[:len(respAgent.Objectives)-1]
			reqAgent.InsertObjective(chosen.payIdx, *paid)
		}
		return out
	}

	// Step 3 (CostOfEntry): forfeiture executes atomically with the merge
	// and is never reversed. The target is the lowest-value objective left
	// unfulfilled under the merged resource set; when everything is
	// fulfilled there is nothing to forfeit.
	if rules.Variant == VariantCostOfEntry {
		if idx := lowestUnfulfilled(reqAgent, chosen.set); idx >= 0 {
			obj := reqAgent.RemoveObjective(idx)
			out.Forfeited = &obj
		}
	}

	// Step 4: execute the merge.
	switch chosen.action {
	case ActionStay:
		w.MergeNetworks(reqNet, respNet)
	case ActionLeave:
		w.MoveAgent(requester, respNet)
	}

	out.Accepted = true
	out.Paid = paid
	return out
}

// qualifies applies the gain threshold: strictly positive, or non-negative
// when zero-gain acceptance is configured.
func qualifies(rules Rules, gain float64) bool {
	if rules.AcceptZeroGain {
		return gain >= 0
	}
	return gain > 0
}

// proposable is qualifies plus the PayToJoin solvency check: a requester
// with no objective left to offer cannot propose under that variant.
func proposable(rules Rules, c candidate) bool {
	if rules.Variant == VariantPayToJoin && c.payIdx < 0 {
		return false
	}
	return qualifies(rules, c.gain)
}

// buildCandidate computes the resulting membership and resource set for one
// action and the requester's metric gain from it, net of the PayToJoin
// payment when that variant is active.
func buildCandidate(w *model.World, rules Rules, requester int, action Action, reqNet, respNet int) candidate {
	c := candidate{action: action, payIdx: -1}

	switch action {
	case ActionStay:
		c.members = unionMembers(w.Members(reqNet), w.Members(respNet))
	case ActionLeave:
		c.members = unionMembers(w.Members(respNet), []int{requester})
	}
	c.set = make(map[model.Resource]bool, len(c.members))
	for _, id := range c.members {
		c.set[w.Agents[id].Resource] = true
	}

	reqAgent := w.Agents[requester]
	if rules.Variant == VariantPayToJoin {
		c.payIdx = choosePayment(reqAgent, c.set)
	}

	switch rules.Motivation {
	case MotivationSocial:
		// The payment moves an instance between two members of the same
		// resulting network, so it cannot change S.
		c.gain = w.SocialValueIn(c.members, c.set) - w.SocialValue(reqNet)
	default:
		var after float64
		for i, obj := range reqAgent.Objectives {
			if i == c.payIdx {
				continue
			}
			if c.set[obj.Type.Resource] {
				after += obj.Value
			}
		}
		c.gain = after - w.PersonalValue(requester)
	}
	return c
}

// responderBaseline is the responder's metric value before the meeting.
func responderBaseline(w *model.World, rules Rules, responder, respNet int) float64 {
	if rules.Motivation == MotivationSocial {
		return w.SocialValue(respNet)
	}
	return w.PersonalValue(responder)
}

// choosePayment picks the requester's cheapest payment for the resulting
// resource set: an objective that stays unfulfilled costs nothing, then
// lower point value, then holding order. Returns -1 when the requester has
// nothing left to offer; proposable rejects that candidate.
func choosePayment(a *model.Agent, set map[model.Resource]bool) int {
	best := -1
	bestFulfilled := false
	bestValue := 0.0
	for i, obj := range a.Objectives {
		fulfilled := set[obj.Type.Resource]
		switch {
		case best == -1:
		case !fulfilled && bestFulfilled:
		case fulfilled == bestFulfilled && obj.Value < bestValue:
		default:
			continue
		}
		best, bestFulfilled, bestValue = i, fulfilled, obj.Value
	}
	return best
}

// lowestUnfulfilled returns the index of the lowest-value objective not
// fulfilled by the given resource set, or -1 when every holding is
// fulfilled. Ties break by holding order.
func lowestUnfulfilled(a *model.Agent, set map[model.Resource]bool) int {
	best := -1
	bestValue := 0.0
	for i, obj := range a.Objectives {
		if set[obj.Type.Resource] {
			continue
		}
		if best == -1 || obj.Value < bestValue {
			best, bestValue = i, obj.Value
		}
	}
	return best
}

// unionMembers merges two ascending member lists into one ascending list.
func unionMembers(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
