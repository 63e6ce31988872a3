// Package policy chooses what an actor does when asked to act. Decisions are
// pure reads over actor state: nothing here mutates statuses, resources or
// cooldowns, and targeting uses no randomness.
package policy

import (
	"slices"

	"github.com/samdwyer/battlekit/internal/entity"
	"github.com/samdwyer/battlekit/internal/gamedata"
)

// Decision is the chosen ability and its targets.
type Decision struct {
	Ability string
	Type    gamedata.Category
	Targets []*entity.Actor
	Option  string // Kit-specific choice, e.g. the stance to enter
}

// NoOp returns the decision to do nothing this turn.
func NoOp() Decision {
	return Decision{}
}

// IsNoOp reports whether the decision does nothing.
func (d Decision) IsNoOp() bool {
	return d.Ability == ""
}

// Primary returns the first target, or nil.
func (d Decision) Primary() *entity.Actor {
	if len(d.Targets) == 0 {
		return nil
	}
	return d.Targets[0]
}

// Tier orders rules. Lower tiers are evaluated first.
type Tier int

const (
	TierUltimate Tier = iota
	TierMaintenance
	TierOpportunistic
	TierFallback
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierUltimate:
		return "ultimate"
	case TierMaintenance:
		return "maintenance"
	case TierOpportunistic:
		return "opportunistic"
	case TierFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Situation is the read-only snapshot a rule decides on. Evaluate fills
// Enemies and Allies with live actors only; Allies includes Self.
type Situation struct {
	Self    *entity.Actor
	Enemies []*entity.Actor
	Allies  []*entity.Actor
	Basic   string // Ability ID of the fallback attack
}

// Rule proposes a decision when its condition holds.
type Rule struct {
	Name   string
	Tier   Tier
	Decide func(s Situation) (Decision, bool)
}

// Evaluate runs rules in tier order (declaration order within a tier) and
// returns the first proposal whose ability is ready. When no rule fires the
// actor uses its basic attack on the nearest enemy.
func Evaluate(s Situation, rules []Rule) Decision {
	self := s.Self
	if self == nil || !self.IsAlive() || self.IsStunned() {
		return NoOp()
	}
	s.Enemies = Alive(s.Enemies)
	if len(s.Enemies) == 0 {
		return NoOp()
	}
	s.Allies = Alive(s.Allies)
	if !slices.Contains(s.Allies, self) {
		s.Allies = append([]*entity.Actor{self}, s.Allies...)
	}

	ordered := slices.Clone(rules)
	slices.SortStableFunc(ordered, func(a, b Rule) int {
		return int(a.Tier) - int(b.Tier)
	})

	for _, rule := range ordered {
		if rule.Decide == nil {
			continue
		}
		d, ok := rule.Decide(s)
		if !ok || d.IsNoOp() {
			continue
		}
		if !self.Cooldowns().IsReady(d.Ability) {
			continue
		}
		return d
	}

	return Fallback(s)
}

// Fallback returns the basic attack on the nearest live enemy.
func Fallback(s Situation) Decision {
	if s.Basic == "" || !s.Self.Cooldowns().IsReady(s.Basic) {
		return NoOp()
	}
	target := Nearest(s.Self, s.Enemies)
	if target == nil {
		return NoOp()
	}
	return Decision{
		Ability: s.Basic,
		Type:    gamedata.CategoryBasic,
		Targets: []*entity.Actor{target},
	}
}
