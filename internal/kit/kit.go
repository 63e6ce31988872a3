// Package kit holds the per-character ability modules. A kit parses its
// abilities, decides what its actor does, executes the decision and reacts
// to passive ticks. Kits are stateless: everything they track lives on the
// actor as statuses and resources, so one kit value serves every actor and
// every concurrent battle.
package kit

import (
	"context"

	"github.com/samdwyer/battlekit/internal/ability"
	"github.com/samdwyer/battlekit/internal/cue"
	"github.com/samdwyer/battlekit/internal/entity"
	"github.com/samdwyer/battlekit/internal/executor"
	"github.com/samdwyer/battlekit/internal/gamedata"
	"github.com/samdwyer/battlekit/internal/modifier"
	"github.com/samdwyer/battlekit/internal/passive"
	"github.com/samdwyer/battlekit/internal/policy"
	"github.com/samdwyer/battlekit/internal/status"
)

// DefaultID is the kit used for characters without a dedicated module.
const DefaultID = "default"

// Kit is the set of hooks the battle engine calls for one character.
type Kit interface {
	passive.Hooks

	ID() string
	ParseAbility(id string, level int) (ability.Descriptor, bool)
	Decide(self *entity.Actor, enemies, allies []*entity.Actor) policy.Decision
	Execute(ctx context.Context, b executor.Battle, self *entity.Actor, d policy.Decision, desc ability.Descriptor) executor.Outcome
}

// base carries what every kit shares.
type base struct {
	id     string
	parser *ability.Parser
	exec   *executor.Executor
}

func (k *base) ID() string { return k.id }

func (k *base) ParseAbility(id string, level int) (ability.Descriptor, bool) {
	return k.parser.Parse(id, level)
}

// desc parses id at the actor's level, returning the zero descriptor when
// unknown.
func (k *base) desc(self *entity.Actor, id string) ability.Descriptor {
	d, _ := k.parser.Parse(id, self.Level)
	return d
}

// mechanic reads one mechanic of an ability at the actor's level.
func (k *base) mechanic(self *entity.Actor, id, name string, fallback float64) float64 {
	return k.desc(self, id).Mechanic(name, fallback)
}

// ready reports whether the ability is off cooldown and affordable.
func (k *base) ready(self *entity.Actor, id string) bool {
	d, ok := k.parser.Parse(id, self.Level)
	return ok && self.Cooldowns().IsReady(id) && self.Energy >= d.EnergyCost
}

// basicID returns the first basic ability the actor knows, or the built-in
// basic strike.
func (k *base) basicID(self *entity.Actor) string {
	for _, id := range self.AbilityIDs {
		if d, ok := k.parser.Parse(id, self.Level); ok && d.Category == gamedata.CategoryBasic {
			return id
		}
	}
	return ability.BasicStrikeID
}

func (k *base) situation(self *entity.Actor, enemies, allies []*entity.Actor) policy.Situation {
	return policy.Situation{Self: self, Enemies: enemies, Allies: allies, Basic: k.basicID(self)}
}

func (k *base) Execute(ctx context.Context, b executor.Battle, self *entity.Actor, d policy.Decision, desc ability.Descriptor) executor.Outcome {
	return k.exec.Execute(ctx, b, self, d, desc, executor.Options{})
}

func (k *base) OnExpire(*entity.Actor, status.Effect, *cue.Notifier) {}
func (k *base) UpdatePassives(*entity.Actor, float64)                {}
func (k *base) Modifiers(*entity.Actor, modifier.Table)              {}
func (k *base) Reactions(*entity.Actor, *cue.Notifier)               {}

// Default is the kit for characters without a dedicated module: it only ever
// uses its basic attack.
type Default struct {
	base
}

// NewDefault creates the default kit.
func NewDefault(parser *ability.Parser, exec *executor.Executor) *Default {
	return &Default{base{id: DefaultID, parser: parser, exec: exec}}
}

// Decide always falls back to the basic attack on the nearest enemy.
func (k *Default) Decide(self *entity.Actor, enemies, allies []*entity.Actor) policy.Decision {
	return policy.Evaluate(k.situation(self, enemies, allies), nil)
}

// ultimateRule proposes an energy-gated ultimate on the target pick returns.
func ultimateRule(k *base, id string, pick func(s policy.Situation) *entity.Actor) policy.Rule {
	return policy.Rule{
		Name: id,
		Tier: policy.TierUltimate,
		Decide: func(s policy.Situation) (policy.Decision, bool) {
			if !k.ready(s.Self, id) {
				return policy.Decision{}, false
			}
			target := pick(s)
			if target == nil {
				return policy.Decision{}, false
			}
			return policy.Decision{
				Ability: id,
				Type:    gamedata.CategoryUltimate,
				Targets: []*entity.Actor{target},
			}, true
		},
	}
}

func nearest(s policy.Situation) *entity.Actor { return policy.Nearest(s.Self, s.Enemies) }
