package kit

import (
	"context"

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

// Berserker ability IDs.
const (
	BerserkerStrike    = "berserker.strike"
	BerserkerCleave    = "berserker.cleave"
	BerserkerWarcry    = "berserker.warcry"
	BerserkerRampage   = "berserker.rampage"
	BerserkerBloodrage = "berserker.bloodrage"
)

// bloodrageForm is the source name of the transformed form.
const bloodrageForm = "bloodrage"

// Berserker builds Fury by landing hits. At the Bloodrage threshold the actor
// transforms; the form lasts until Fury drains to zero. Out of combat Fury
// decays.
type Berserker struct {
	base
}

// NewBerserker creates the berserker kit.
func NewBerserker(parser *ability.Parser, exec *executor.Executor) *Berserker {
	return &Berserker{base{id: "berserker", parser: parser, exec: exec}}
}

// Transformed reports whether the actor is in Bloodrage.
func Transformed(self *entity.Actor) bool {
	_, ok := self.Statuses().Find(status.KindForm, bloodrageForm)
	return ok
}

func (k *Berserker) furyCap(self *entity.Actor) float64 {
	return k.mechanic(self, BerserkerBloodrage, "fury_cap", 100)
}

// Decide picks Rampage, keeps Warcry up, Cleaves clusters, else strikes.
func (k *Berserker) Decide(self *entity.Actor, enemies, allies []*entity.Actor) policy.Decision {
	rules := []policy.Rule{
		ultimateRule(&k.base, BerserkerRampage, nearest),
		{
			Name: BerserkerWarcry,
			Tier: policy.TierMaintenance,
			Decide: func(s policy.Situation) (policy.Decision, bool) {
				refreshBelow := k.mechanic(s.Self, BerserkerWarcry, "refresh_below", 1)
				for _, e := range s.Self.Statuses().Query(status.KindAttackUp) {
					if e.Duration > refreshBelow {
						return policy.Decision{}, false
					}
				}
				return policy.Decision{
					Ability: BerserkerWarcry,
					Type:    gamedata.CategorySkill,
					Targets: []*entity.Actor{s.Self},
				}, true
			},
		},
		{
			Name: BerserkerCleave,
			Tier: policy.TierOpportunistic,
			Decide: func(s policy.Situation) (policy.Decision, bool) {
				d := k.desc(s.Self, BerserkerCleave)
				center, n := policy.Densest(s.Enemies, d.Mechanic("radius", 3))
				if center == nil || float64(n) < d.Mechanic("min_targets", 2) {
					return policy.Decision{}, false
				}
				return policy.Decision{
					Ability: BerserkerCleave,
					Type:    gamedata.CategorySkill,
					Targets: []*entity.Actor{center},
				}, true
			},
		},
	}
	return policy.Evaluate(k.situation(self, enemies, allies), rules)
}

// Execute grants Fury per landed hit and on Warcry.
func (k *Berserker) Execute(ctx context.Context, b executor.Battle, self *entity.Actor, d policy.Decision, desc ability.Descriptor) executor.Outcome {
	furyCap := k.furyCap(self)
	opts := executor.Options{
		OnHit: func(_ *entity.Actor, _ int, res combat.ActionResult) {
			if res.Amount > 0 {
				self.AddResource(resource.Fury, desc.Mechanic("fury_per_hit", 0), furyCap)
			}
		},
		OnCast: func([]*entity.Actor) {
			if gain := desc.Mechanic("fury_gain", 0); gain > 0 {
				self.AddResource(resource.Fury, gain, furyCap)
			}
		},
	}
	return k.exec.Execute(ctx, b, self, d, desc, opts)
}

// UpdatePassives drains Fury while transformed and decays it out of combat.
func (k *Berserker) UpdatePassives(self *entity.Actor, dt float64) {
	rage := k.desc(self, BerserkerBloodrage)
	furyCap := rage.Mechanic("fury_cap", 100)
	switch {
	case Transformed(self):
		self.AddResource(resource.Fury, -rage.Mechanic("drain_per_second", 8)*dt, furyCap)
	case !self.Statuses().Has(status.KindEngaged):
		self.AddResource(resource.Fury, -rage.Mechanic("decay_per_second", 5)*dt, furyCap)
	}
}

// Modifiers adds Fury-scaled attack and the Bloodrage form bonuses.
func (k *Berserker) Modifiers(self *entity.Actor, t modifier.Table) {
	rage := k.desc(self, BerserkerBloodrage)
	t.Add(modifier.AttackPct, self.GetResource(resource.Fury)*rage.Mechanic("fury_attack_ratio", 0))
	if Transformed(self) {
		t.Add(modifier.AttackPct, rage.Mechanic("attack_bonus", 0))
		t.Add(modifier.DamageReduction, rage.Mechanic("damage_reduction", 0))
		t.Add(modifier.SpeedPct, rage.Mechanic("speed_bonus", 0))
	}
}

// Reactions enters Bloodrage at the Fury threshold and leaves it once Fury
// is spent.
func (k *Berserker) Reactions(self *entity.Actor, n *cue.Notifier) {
	fury := self.GetResource(resource.Fury)
	switch {
	case !Transformed(self) && fury >= k.mechanic(self, BerserkerBloodrage, "threshold", 100):
		self.ApplyStatus(status.Effect{Kind: status.KindForm, Source: bloodrageForm, Duration: status.Durable})
		n.Announce(self.Name + " enters Bloodrage!")
		n.PlayVFX(self.Name, "bloodrage")
	case Transformed(self) && fury <= 0:
		self.Statuses().Remove(status.KindForm, bloodrageForm)
		n.Announce(self.Name + " calms down.")
	}
}
