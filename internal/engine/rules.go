package engine

import "fmt"

// Variant selects the negotiation rule-set for a trial.
type Variant string

const (
	// VariantOpen imposes no condition beyond mutual positive gain.
	VariantOpen Variant = "open"
	// VariantSinglePartner caps every network at two members; paired
	// agents cannot entertain new proposals.
	VariantSinglePartner Variant = "single-partner"
	// VariantCostOfEntry makes the requester forfeit one unfulfilled
	// objective instance when its proposal is accepted.
	VariantCostOfEntry Variant = "cost-of-entry"
	// VariantPayToJoin makes the requester transfer one objective
	// instance to the responder before the responder evaluates.
	VariantPayToJoin Variant = "pay-to-join"
)

// Variants lists all rule-set variants in canonical order.
func Variants() []Variant {
	return []Variant{VariantOpen, VariantSinglePartner, VariantCostOfEntry, VariantPayToJoin}
}

// ParseVariant validates a variant name from configuration.
func ParseVariant(s string) (Variant, error) {
	for _, v := range Variants() {
		if s == string(v) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown variant %q (valid: open, single-partner, cost-of-entry, pay-to-join)", s)
}

// Motivation selects the metric every agent judges proposals by. It is
// uniform for a whole trial.
type Motivation string

const (
	// MotivationIndividual judges by personal value V.
	MotivationIndividual Motivation = "individual"
	// MotivationSocial judges by the network-aggregate social value S.
	MotivationSocial Motivation = "social"
)

// Motivations lists both metrics in canonical order.
func Motivations() []Motivation {
	return []Motivation{MotivationIndividual, MotivationSocial}
}

// ParseMotivation validates a motivation name from configuration.
func ParseMotivation(s string) (Motivation, error) {
	for _, m := range Motivations() {
		if s == string(m) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown motivation %q (valid: individual, social)", s)
}

// Rules is the trial-wide negotiation configuration.
//
// AcceptZeroGain resolves an ambiguity in the source study: with it false
// (the default) a zero-gain outcome is rejection, both for the requester's
// proposal floor and the responder's acceptance test.
type Rules struct {
	Variant        Variant
	Motivation     Motivation
	AcceptZeroGain bool
}
