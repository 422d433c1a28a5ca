// Package model defines the per-trial entities of the network-formation
// simulation: agents, their objectives, and the membership-indexed view of
// collaboration networks.
package model

import (
	"fmt"
	"strings"
)

// Resource identifies an agent's fixed competitive asset. Resources are
// single uppercase letters ("A", "B", ...) drawn from a small alphabet.
type Resource string

// Tier splits objective types into a high-value and a low-value band.
type Tier int

const (
	TierHigh Tier = iota
	TierLow
)

// String returns "high" or "low".
func (t Tier) String() string {
	if t == TierHigh {
		return "high"
	}
	return "low"
}

// ObjectiveType identifies a demand unit: the resource letter that fulfills
// it and the value tier it belongs to.
type ObjectiveType struct {
	Resource Resource
	Tier     Tier
}

// String renders the canonical short name, e.g. "a1" for (A, high) and
// "a2" for (A, low).
func (ot ObjectiveType) String() string {
	suffix := "1"
	if ot.Tier == TierLow {
		suffix = "2"
	}
	return strings.ToLower(string(ot.Resource)) + suffix
}

// ParseObjectiveType parses a short name like "a1" or "B2" back into an
// ObjectiveType.
func ParseObjectiveType(s string) (ObjectiveType, error) {
	if len(s) != 2 {
		return ObjectiveType{}, fmt.Errorf("parse objective type %q: want letter followed by tier digit", s)
	}
	letter := s[0]
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	if letter < 'A' || letter > 'Z' {
		return ObjectiveType{}, fmt.Errorf("parse objective type %q: %q is not a resource letter", s, s[0])
	}
	var tier Tier
	switch s[1] {
	case '1':
		tier = TierHigh
	case '2':
		tier = TierLow
	default:
		return ObjectiveType{}, fmt.Errorf("parse objective type %q: tier must be 1 or 2", s)
	}
	return ObjectiveType{Resource: Resource(letter), Tier: tier}, nil
}

// Objective is one concrete objective instance held by an agent. Value is
// the point value credited to the holder when the objective is fulfilled;
// SocialWeight is its independent contribution to a network's social value.
type Objective struct {
	Type         ObjectiveType
	Value        float64
	SocialWeight float64
}

// Agent is one participant in a trial. Resource is immutable for the trial;
// Objectives shrink only through CostOfEntry forfeiture and move only through
// PayToJoin transfers.
type Agent struct {
	ID         int
	Resource   Resource
	Objectives []Objective
}

// RemoveObjective removes the objective at index i, preserving the order of
// the remaining holdings, and returns the removed instance.
func (a *Agent) RemoveObjective(i int) Objective {
	obj := a.Objectives[i]
	a.Objectives = append(a.Objectives[:i], a.Objectives[i+1:]...)
	return obj
}

// InsertObjective reinserts an objective at index i. Together with
// RemoveObjective this restores holdings exactly after a rolled-back
// transfer.
func (a *Agent) InsertObjective(i int, obj Objective) {
	a.Objectives = append(a.Objectives, Objective{})
	copy(a.Objectives[i+1:], a.Objectives[i:])
	a.Objectives[i] = obj
}
