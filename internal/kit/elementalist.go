package kit

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/battlekit/internal/ability"
	"github.com/samdwyer/battlekit/internal/cue"
	"github.com/samdwyer/battlekit/internal/entity"
	"github.com/samdwyer/battlekit/internal/executor"
	"github.com/samdwyer/battlekit/internal/gamedata"
	"github.com/samdwyer/battlekit/internal/modifier"
	"github.com/samdwyer/battlekit/internal/policy"
	"github.com/samdwyer/battlekit/internal/status"
)

// Elementalist ability IDs.
const (
	ElementalistBolt      = "elementalist.bolt"
	ElementalistShift     = "elementalist.shift"
	ElementalistTidalWall = "elementalist.tidal_wall"
	ElementalistCataclysm = "elementalist.cataclysm"
)

// Stance is an elementalist stance. The empty stance means none.
type Stance string

const (
	StanceNone  Stance = ""
	StanceAir   Stance = "air"
	StanceWater Stance = "water"
	StanceEarth Stance = "earth"
	StanceFire  Stance = "fire"
)

// Elementalist shifts between four stances. Each stance lasts a fixed time;
// when it runs out the actor suffers a short instability debuff.
type Elementalist struct {
	base
}

// NewElementalist creates the elementalist kit.
func NewElementalist(parser *ability.Parser, exec *executor.Executor) *Elementalist {
	return &Elementalist{base{id: "elementalist", parser: parser, exec: exec}}
}

// CurrentStance returns the actor's active stance.
func CurrentStance(self *entity.Actor) Stance {
	stances := self.Statuses().Query(status.KindStance)
	if len(stances) == 0 {
		return StanceNone
	}
	return Stance(stances[0].Source)
}

// Decide casts Cataclysm at full energy, shields a critically injured ally,
// re-enters a stance when none is active, else bolts the nearest enemy.
func (k *Elementalist) Decide(self *entity.Actor, enemies, allies []*entity.Actor) policy.Decision {
	rules := []policy.Rule{
		ultimateRule(&k.base, ElementalistCataclysm, nearest),
		{
			Name: ElementalistTidalWall,
			Tier: policy.TierMaintenance,
			Decide: func(s policy.Situation) (policy.Decision, bool) {
				threshold := k.mechanic(s.Self, ElementalistTidalWall, "ally_threshold", 0.3)
				ally := policy.LowestHPFraction(s.Allies)
				if ally == nil || ally.HPFraction() >= threshold {
					return policy.Decision{}, false
				}
				return policy.Decision{
					Ability: ElementalistTidalWall,
					Type:    gamedata.CategorySkill,
					Targets: []*entity.Actor{ally},
				}, true
			},
		},
		{
			Name: ElementalistShift,
			Tier: policy.TierMaintenance,
			Decide: func(s policy.Situation) (policy.Decision, bool) {
				if CurrentStance(s.Self) != StanceNone {
					return policy.Decision{}, false
				}
				return policy.Decision{
					Ability: ElementalistShift,
					Type:    gamedata.CategorySkill,
					Targets: []*entity.Actor{s.Self},
					Option:  string(k.chooseStance(s)),
				}, true
			},
		},
	}
	return policy.Evaluate(k.situation(self, enemies, allies), rules)
}

// chooseStance picks water when hurt, fire into a cluster, earth when an
// enemy is close, air otherwise.
func (k *Elementalist) chooseStance(s policy.Situation) Stance {
	radius := k.mechanic(s.Self, ElementalistShift, "cluster_radius", 3)
	_, clustered := policy.Densest(s.Enemies, radius)
	switch {
	case s.Self.HPFraction() < 0.5:
		return StanceWater
	case clustered >= 2:
		return StanceFire
	case policy.CountWithin(s.Self, s.Enemies, radius) > 0:
		return StanceEarth
	default:
		return StanceAir
	}
}

// Execute enters the decided stance when shifting.
func (k *Elementalist) Execute(ctx context.Context, b executor.Battle, self *entity.Actor, d policy.Decision, desc ability.Descriptor) executor.Outcome {
	opts := executor.Options{}
	if desc.Variant == gamedata.VariantStanceShift {
		opts.OnCast = func([]*entity.Actor) {
			stance := Stance(d.Option)
			switch stance {
			case StanceAir, StanceWater, StanceEarth, StanceFire:
			default:
				stance = StanceFire
			}
			self.Statuses().RemoveKind(status.KindStance)
			self.ApplyStatus(status.Effect{
				Kind:     status.KindStance,
				Source:   string(stance),
				Duration: desc.Duration,
			})
			b.Notifier().FloatingText(self.Name, string(stance)+" stance", b.ElementColor(string(stance)))
		}
	}
	return k.exec.Execute(ctx, b, self, d, desc, opts)
}

// OnExpire applies instability when a stance runs out.
func (k *Elementalist) OnExpire(self *entity.Actor, e status.Effect, n *cue.Notifier) {
	if e.Kind != status.KindStance {
		return
	}
	shift := k.desc(self, ElementalistShift)
	self.ApplyStatus(status.Effect{
		Kind:      status.KindInstability,
		Source:    ElementalistShift,
		Duration:  shift.Mechanic("instability_duration", 3),
		Magnitude: shift.Mechanic("instability_defense", 0.15),
	})
	n.FloatingText(self.Name, "Unstable!", tcell.ColorYellow)
}

// UpdatePassives heals a percentage of max HP per second in water stance.
func (k *Elementalist) UpdatePassives(self *entity.Actor, dt float64) {
	if CurrentStance(self) != StanceWater {
		return
	}
	shift := k.desc(self, ElementalistShift)
	self.Heal(self.MaxHP * shift.Mechanic("water_heal_pct", 0.02) * shift.Mechanic("stance_scale", 1) * dt)
}

// Modifiers adds the active stance's bonuses.
func (k *Elementalist) Modifiers(self *entity.Actor, t modifier.Table) {
	stance := CurrentStance(self)
	if stance == StanceNone {
		return
	}
	shift := k.desc(self, ElementalistShift)
	scale := shift.Mechanic("stance_scale", 1)
	switch stance {
	case StanceAir:
		t.Add(modifier.SpeedPct, shift.Mechanic("air_speed", 0)*scale)
	case StanceEarth:
		t.Add(modifier.DefensePct, shift.Mechanic("earth_defense", 0)*scale)
		t.Add(modifier.MagicDefensePct, shift.Mechanic("earth_defense", 0)*scale)
	case StanceFire:
		t.Add(modifier.MagicAttackPct, shift.Mechanic("fire_magic", 0)*scale)
	}
}
