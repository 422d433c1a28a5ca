package model

import (
	"fmt"
	"sort"
)

// InvariantViolation reports a corrupted agent/network relationship. It is
// never expected during correct operation; callers treat it as fatal.
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string {
	return "invariant violation: " + e.Reason
}

// World holds the complete mutable state of one trial: the agents and the
// agent-to-network membership index. Networks are identified by int ids and
// exist only as entries in the members map; a network that loses its last
// member is dropped.
//
// World is not safe for concurrent use. Each trial owns exactly one World
// and mutates it sequentially.
type World struct {
	Agents []*Agent

	membership []int         // agent id -> network id
	members    map[int][]int // network id -> member agent ids, ascending
}

// NewWorld creates a world where every agent starts in a singleton network.
// Agent ids must equal their slice index. The initial network id of agent i
// is i.
func NewWorld(agents []*Agent) *World {
	w := &World{
		Agents:     agents,
		membership: make([]int, len(agents)),
		members:    make(map[int][]int, len(agents)),
	}
	for i, a := range agents {
		if a.ID != i {
			panic(fmt.Sprintf("model: agent at index %d has id %d", i, a.ID))
		}
		w.membership[i] = i
		w.members[i] = []int{i}
	}
	return w
}

// NetworkOf returns the network id the agent currently belongs to.
func (w *World) NetworkOf(agentID int) int {
	return w.membership[agentID]
}

// Members returns the member agent ids of a network in ascending order.
// The returned slice is owned by the world and must not be mutated.
func (w *World) Members(netID int) []int {
	return w.members[netID]
}

// NetworkSize returns the number of members in a network.
func (w *World) NetworkSize(netID int) int {
	return len(w.members[netID])
}

// NetworkIDs returns all live network ids in ascending order.
func (w *World) NetworkIDs() []int {
	ids := make([]int, 0, len(w.members))
	for id := range w.members {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// ResourceSet returns the union of the members' resources. It is recomputed
// from membership on every call so it can never drift from the ground truth.
func (w *World) ResourceSet(netID int) map[Resource]bool {
	set := make(map[Resource]bool, len(w.members[netID]))
	for _, id := range w.members[netID] {
		set[w.Agents[id].Resource] = true
	}
	return set
}

// MergeNetworks moves every member of src into dst and drops src. Merging a
// network into itself is a programming error.
func (w *World) MergeNetworks(dst, src int) {
	if dst == src {
		panic("model: merge of a network into itself")
	}
	for _, id := range w.members[src] {
		w.membership[id] = dst
	}
	merged := append(w.members[dst], w.members[src]...)
	sort.Ints(merged)
	w.members[dst] = merged
	delete(w.members, src)
}

// MoveAgent departs the agent from its current network and joins it to dst.
// A vacated singleton network ceases to exist.
func (w *World) MoveAgent(agentID, dst int) {
	src := w.membership[agentID]
	if src == dst {
		return
	}
	remaining := w.members[src][:0:0]
	for _, id := range w.members[src] {
		if id != agentID {
			remaining = append(remaining, id)
		}
	}
	if len(remaining) == 0 {
		delete(w.members, src)
	} else {
		w.members[src] = remaining
	}
	w.membership[agentID] = dst
	joined := append(w.members[dst], agentID)
	sort.Ints(joined)
	w.members[dst] = joined
}

// ValueIn sums the point values of the agent's objectives fulfilled by the
// given resource set.
func ValueIn(a *Agent, set map[Resource]bool) float64 {
	var total float64
	for _, obj := range a.Objectives {
		if set[obj.Type.Resource] {
			total += obj.Value
		}
	}
	return total
}

// PersonalValue is the agent's individual value V: the sum of point values
// of its objectives whose resource letter is in its own network's resource
// set.
func (w *World) PersonalValue(agentID int) float64 {
	return ValueIn(w.Agents[agentID], w.ResourceSet(w.membership[agentID]))
}

// SocialValueIn sums the social weights of all the given members' objectives
// fulfilled by the given resource set.
func (w *World) SocialValueIn(memberIDs []int, set map[Resource]bool) float64 {
	var total float64
	for _, id := range memberIDs {
		for _, obj := range w.Agents[id].Objectives {
			if set[obj.Type.Resource] {
				total += obj.SocialWeight
			}
		}
	}
	return total
}

// SocialValue is the network's social value S: the sum of social weights of
// all members' fulfilled objectives.
func (w *World) SocialValue(netID int) float64 {
	return w.SocialValueIn(w.members[netID], w.ResourceSet(netID))
}

// CheckInvariants verifies the membership index against the member lists.
// Returns *InvariantViolation on the first breach found.
func (w *World) CheckInvariants() error {
	seen := make(map[int]int, len(w.Agents))
	for netID, ids := range w.members {
		if len(ids) == 0 {
			return &InvariantViolation{Reason: fmt.Sprintf("network %d has no members", netID)}
		}
		for _, id := range ids {
			if id < 0 || id >= len(w.Agents) {
				return &InvariantViolation{Reason: fmt.Sprintf("network %d lists unknown agent %d", netID, id)}
			}
			if prev, dup := seen[id]; dup {
				return &InvariantViolation{Reason: fmt.Sprintf("agent %d appears in networks %d and %d", id, prev, netID)}
			}
			seen[id] = netID
			if w.membership[id] != netID {
				return &InvariantViolation{Reason: fmt.Sprintf("agent %d listed in network %d but membership says %d", id, netID, w.membership[id])}
			}
		}
	}
	for id := range w.Agents {
		if _, ok := seen[id]; !ok {
			return &InvariantViolation{Reason: fmt.Sprintf("agent %d belongs to no network", id)}
		}
	}
	return nil
}
