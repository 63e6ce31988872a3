// Package status provides the ordered, per-actor store of timed status effects.
package status

import "math"

// Durable is the duration of an effect that never expires on its own.
// Durable effects are removed only by explicit ability logic (stance change,
// form revert).
var Durable = math.Inf(1)

// Kind identifies a status effect.
type Kind string

const (
	KindSlow        Kind = "slow"
	KindStun        Kind = "stun"
	KindBurn        Kind = "burn"
	KindPoison      Kind = "poison"
	KindRegen       Kind = "regen"
	KindAttackUp    Kind = "attack_up"
	KindDefenseUp   Kind = "defense_up"
	KindDefenseDown Kind = "defense_down"
	KindEngaged     Kind = "engaged"
	KindStance      Kind = "stance"
	KindForm        Kind = "form"
	KindFrenzy      Kind = "frenzy"
	KindInstability Kind = "instability"
	KindScorched    Kind = "scorched"
)

// Policy is the collision rule used when an effect with the same kind and
// source is applied to an actor that already carries it.
type Policy int

const (
	// PolicyRefresh keeps one instance and sets duration to max(current, new).
	PolicyRefresh Policy = iota
	// PolicyStack adds one stack up to the stack limit and refreshes duration.
	PolicyStack
	// PolicyReplace overwrites the existing instance in place.
	PolicyReplace
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case PolicyRefresh:
		return "refresh-duration"
	case PolicyStack:
		return "add-stack"
	case PolicyReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// kindPolicies fixes one collision policy per kind. Kinds not listed refresh.
var kindPolicies = map[Kind]Policy{
	KindSlow:        PolicyRefresh,
	KindStun:        PolicyRefresh,
	KindBurn:        PolicyStack,
	KindPoison:      PolicyStack,
	KindRegen:       PolicyRefresh,
	KindAttackUp:    PolicyRefresh,
	KindDefenseUp:   PolicyRefresh,
	KindDefenseDown: PolicyRefresh,
	KindEngaged:     PolicyRefresh,
	KindStance:      PolicyReplace,
	KindForm:        PolicyReplace,
	KindFrenzy:      PolicyStack,
	KindInstability: PolicyRefresh,
	KindScorched:    PolicyStack,
}

// PolicyFor returns the collision policy declared for a kind.
func PolicyFor(kind Kind) Policy {
	if p, ok := kindPolicies[kind]; ok {
		return p
	}
	return PolicyRefresh
}

// Effect is one active status effect instance.
type Effect struct {
	Kind       Kind
	Source     string  // Name of the ability or character that granted it
	Duration   float64 // Seconds remaining, Durable for non-expiring effects
	Magnitude  float64 // Per-stack strength (slow factor, damage per second, ...)
	Stacks     int
	StackLimit int
}

// IsDurable reports whether the effect never expires on its own.
func (e Effect) IsDurable() bool {
	return math.IsInf(e.Duration, 1)
}

// Total returns magnitude multiplied by stack count.
func (e Effect) Total() float64 {
	return e.Magnitude * float64(e.Stacks)
}

func (e Effect) matches(kind Kind, source string) bool {
	return e.Kind == kind && e.Source == source
}

// normalize fills defaults for stack bookkeeping.
func (e Effect) normalize() Effect {
	if e.StackLimit < 1 {
		e.StackLimit = 1
	}
	if e.Stacks < 1 {
		e.Stacks = 1
	}
	if e.Stacks > e.StackLimit {
		e.Stacks = e.StackLimit
	}
	return e
}
