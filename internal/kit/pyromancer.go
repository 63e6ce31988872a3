package kit

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/battlekit/internal/ability"
	"github.com/samdwyer/battlekit/internal/combat"
	"github.com/samdwyer/battlekit/internal/cue"
	"github.com/samdwyer/battlekit/internal/entity"
	"github.com/samdwyer/battlekit/internal/executor"
	"github.com/samdwyer/battlekit/internal/gamedata"
	"github.com/samdwyer/battlekit/internal/modifier"
	"github.com/samdwyer/battlekit/internal/policy"
	"github.com/samdwyer/battlekit/internal/resource"
	"github.com/samdwyer/battlekit/internal/status"
)

// Pyromancer ability IDs.
const (
	PyromancerFlare          = "pyromancer.flare"
	PyromancerScorchedEarth  = "pyromancer.scorched_earth"
	PyromancerInfernoBarrage = "pyromancer.inferno_barrage"
	PyromancerCauterize      = "pyromancer.cauterize"
)

// Pyromancer stacks burns and builds Combustion with every fire hit. Spending
// Combustion calls down a delayed Scorched Earth burst, and each burst leaves
// a charge that boosts magic attack. Below a health threshold Cauterize heals
// automatically.
type Pyromancer struct {
	base
}

// NewPyromancer creates the pyromancer kit.
func NewPyromancer(parser *ability.Parser, exec *executor.Executor) *Pyromancer {
	return &Pyromancer{base{id: "pyromancer", parser: parser, exec: exec}}
}

func (k *Pyromancer) combustionCap(self *entity.Actor) float64 {
	return k.mechanic(self, PyromancerCauterize, "combustion_cap", 100)
}

// Decide channels Inferno Barrage at full energy, spends Combustion on
// Scorched Earth over the densest cluster, else flares the nearest enemy.
func (k *Pyromancer) Decide(self *entity.Actor, enemies, allies []*entity.Actor) policy.Decision {
	rules := []policy.Rule{
		ultimateRule(&k.base, PyromancerInfernoBarrage, func(s policy.Situation) *entity.Actor {
			return policy.LowestHPFraction(s.Enemies)
		}),
		{
			Name: PyromancerScorchedEarth,
			Tier: policy.TierOpportunistic,
			Decide: func(s policy.Situation) (policy.Decision, bool) {
				d := k.desc(s.Self, PyromancerScorchedEarth)
				if s.Self.GetResource(resource.Combustion) < d.Mechanic("combustion_cost", 50) {
					return policy.Decision{}, false
				}
				center, _ := policy.Densest(s.Enemies, d.Mechanic("radius", 2.5))
				if center == nil {
					return policy.Decision{}, false
				}
				return policy.Decision{
					Ability: PyromancerScorchedEarth,
					Type:    gamedata.CategorySkill,
					Targets: []*entity.Actor{center},
				}, true
			},
		},
	}
	return policy.Evaluate(k.situation(self, enemies, allies), rules)
}

// Execute builds Combustion per hit and pays for Scorched Earth.
func (k *Pyromancer) Execute(ctx context.Context, b executor.Battle, self *entity.Actor, d policy.Decision, desc ability.Descriptor) executor.Outcome {
	combustionCap := k.combustionCap(self)

	if desc.Variant == gamedata.VariantDelayedNova {
		if self.GetResource(resource.Combustion) < desc.Mechanic("combustion_cost", 0) {
			return executor.Outcome{Ability: desc.ID}
		}
	}

	opts := executor.Options{
		OnHit: func(_ *entity.Actor, _ int, res combat.ActionResult) {
			if res.Amount > 0 {
				self.AddResource(resource.Combustion, desc.Mechanic("combustion_per_hit", 0), combustionCap)
			}
		},
	}
	if desc.Variant == gamedata.VariantDelayedNova {
		opts.OnCast = func([]*entity.Actor) {
			self.ConsumeResource(resource.Combustion, desc.Mechanic("combustion_cost", 0))
			charges := self.AddResource(resource.ScorchedEarth, 1, desc.Mechanic("charge_cap", 3))
			b.Notifier().FloatingText(self.Name, fmt.Sprintf("Scorched x%.0f", charges), b.ElementColor("fire"))
		}
	}
	return k.exec.Execute(ctx, b, self, d, desc, opts)
}

// UpdatePassives lets Combustion cool off out of combat.
func (k *Pyromancer) UpdatePassives(self *entity.Actor, dt float64) {
	if self.Statuses().Has(status.KindEngaged) {
		return
	}
	rate := k.mechanic(self, PyromancerCauterize, "decay_per_second", 4)
	self.AddResource(resource.Combustion, -rate*dt, k.combustionCap(self))
}

// Modifiers adds magic attack per Scorched Earth charge.
func (k *Pyromancer) Modifiers(self *entity.Actor, t modifier.Table) {
	perCharge := k.mechanic(self, PyromancerScorchedEarth, "charge_magic", 0)
	t.Add(modifier.MagicAttackPct, self.GetResource(resource.ScorchedEarth)*perCharge)
}

// Reactions casts Cauterize when health drops under the threshold.
func (k *Pyromancer) Reactions(self *entity.Actor, n *cue.Notifier) {
	heal := k.desc(self, PyromancerCauterize)
	if heal.IsZero() || !self.Cooldowns().IsReady(heal.ID) {
		return
	}
	if self.HPFraction() >= heal.Mechanic("hp_threshold", 0.3) {
		return
	}

	res := self.ReceiveAction(combat.Action{
		Amount:     heal.Power(self.EffectiveStats(), self.MaxHP),
		EffectType: combat.EffectHeal,
	})
	self.Cooldowns().Start(heal.ID, heal.Cooldown)
	n.ShowAbilityName(self.Name, heal.Name)
	n.FloatingText(self.Name, fmt.Sprintf("+%.0f", res.Amount), tcell.ColorGreen)
}
