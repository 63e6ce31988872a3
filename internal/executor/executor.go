// Package executor applies one resolved ability: energy and cooldown
// bookkeeping, damage through the engine boundary, statuses, cues and
// deferred follow-up hits on the caster's schedule.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/battlekit/internal/ability"
	"github.com/samdwyer/battlekit/internal/combat"
	"github.com/samdwyer/battlekit/internal/cue"
	"github.com/samdwyer/battlekit/internal/entity"
	"github.com/samdwyer/battlekit/internal/gamedata"
	"github.com/samdwyer/battlekit/internal/modifier"
	"github.com/samdwyer/battlekit/internal/policy"
	"github.com/samdwyer/battlekit/internal/status"
	"github.com/samdwyer/battlekit/internal/telemetry"
)

const (
	// CritMultiplier scales critical hits.
	CritMultiplier = 1.5
	// EnergyPerBasicHit is the energy a basic attack hit grants its user.
	EnergyPerBasicHit = 10.0
	// EngagedDuration keeps both sides of a hit in combat for this long.
	EngagedDuration = 3.0
	// baseAccuracy is added to luck to form the attacker's accuracy.
	baseAccuracy = 100.0
)

// Battle is the part of the battle engine the executor talks to.
type Battle interface {
	Enemies(of *entity.Actor) []*entity.Actor
	Allies(of *entity.Actor) []*entity.Actor
	Notifier() *cue.Notifier
	Rand() *rand.Rand
	ElementColor(element string) tcell.Color
	RecordDamage(source, target *entity.Actor, amount float64)
}

// Options are per-call hooks kits use to layer their mechanics on top of the
// generic effects.
type Options struct {
	// OnHit runs after every damage instance that landed, including deferred ones.
	OnHit func(target *entity.Actor, hit int, result combat.ActionResult)
	// OnCast runs once after the generic effects with the resolved targets.
	OnCast func(targets []*entity.Actor)
}

// Outcome reports what an execution did immediately. Deferred hits are
// reported to the battle through RecordDamage when they fire.
type Outcome struct {
	Ability   string
	Executed  bool
	Fallback  bool // Descriptor could not be resolved; basic strike used
	Targets   int
	Hits      int
	Scheduled int
	Damage    float64
	Healed    float64
	Shielded  float64
	Crits     int
}

// Executor applies abilities.
type Executor struct {
	tracer trace.Tracer
	logger *slog.Logger
}

// New creates an executor. A nil tracer disables spans.
func New(tracer trace.Tracer, logger *slog.Logger) *Executor {
	if tracer == nil {
		tracer = telemetry.NoopTracer()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{tracer: tracer, logger: logger}
}

// Execute applies desc as decided by d. A stale decision (caster terminated,
// ability not ready or unaffordable, no live targets) is a no-op that leaves
// all state untouched. An unresolved descriptor falls back to the basic strike.
func (x *Executor) Execute(ctx context.Context, b Battle, self *entity.Actor, d policy.Decision, desc ability.Descriptor, opts Options) Outcome {
	if self == nil || !self.IsAlive() || d.IsNoOp() {
		return Outcome{}
	}

	fallback := false
	if desc.IsZero() {
		desc = ability.BasicStrike()
		fallback = true
	}
	out := Outcome{Ability: desc.ID, Fallback: fallback}

	if !self.Cooldowns().IsReady(desc.ID) || self.Energy < desc.EnergyCost {
		return out
	}
	targets := x.resolveTargets(b, self, d, desc)
	if len(targets) == 0 {
		return out
	}

	_, span := x.tracer.Start(ctx, "ability.execute")
	defer span.End()

	self.SpendEnergy(desc.EnergyCost)
	self.Cooldowns().Start(desc.ID, desc.Cooldown)
	out.Executed = true
	out.Targets = len(targets)

	n := b.Notifier()
	n.ShowAbilityName(self.Name, desc.Name)
	n.PlayVFX(self.Name, desc.ID)

	c := &cast{b: b, self: self, desc: desc, opts: opts, out: &out}

	switch desc.Variant {
	case gamedata.VariantStrike:
		for _, t := range targets {
			c.hit(t, 1)
		}
	case gamedata.VariantMultiHit:
		c.multiHit(targets[0])
	case gamedata.VariantNova:
		for _, t := range targets {
			c.hit(t, 1)
		}
	case gamedata.VariantDelayedNova:
		c.delayedNova(targets[0])
	case gamedata.VariantHeal:
		for _, t := range targets {
			res := t.ReceiveAction(combat.Action{Amount: desc.Power(self.EffectiveStats(), t.MaxHP), EffectType: combat.EffectHeal})
			out.Healed += res.Amount
			n.FloatingText(t.Name, fmt.Sprintf("+%.0f", res.Amount), tcell.ColorGreen)
		}
		c.grant(targets)
	case gamedata.VariantShield:
		for _, t := range targets {
			res := t.ReceiveAction(combat.Action{Amount: desc.Power(self.EffectiveStats(), self.MaxHP), EffectType: combat.EffectShield})
			out.Shielded += res.Amount
			n.FloatingText(t.Name, fmt.Sprintf("(%.0f)", res.Amount), b.ElementColor(string(desc.Element)))
		}
		c.grant(targets)
	case gamedata.VariantBuff, gamedata.VariantDebuff, gamedata.VariantStanceShift, gamedata.VariantTransform:
		c.grant(targets)
	default:
		x.logger.Warn("unknown ability variant", "ability", desc.ID, "variant", desc.Variant)
	}

	if opts.OnCast != nil {
		opts.OnCast(targets)
	}

	span.SetAttributes(
		attribute.String("actor", self.Name),
		attribute.String("ability", desc.ID),
		attribute.String("variant", string(desc.Variant)),
		attribute.String("target", targets[0].Name),
		attribute.Int("targets", out.Targets),
		attribute.Int("hits", out.Hits),
		attribute.Int("scheduled", out.Scheduled),
		attribute.Float64("damage", out.Damage),
		attribute.Bool("fallback", fallback),
	)
	return out
}

// resolveTargets returns the live targets the ability applies to.
func (x *Executor) resolveTargets(b Battle, self *entity.Actor, d policy.Decision, desc ability.Descriptor) []*entity.Actor {
	decided := policy.Alive(d.Targets)

	switch desc.Target {
	case gamedata.TargetSelf:
		return []*entity.Actor{self}
	case gamedata.TargetAllEnemies:
		enemies := policy.Alive(b.Enemies(self))
		radius := desc.Mechanic("radius", 0)
		if radius <= 0 {
			return enemies
		}
		if len(d.Targets) > 0 && len(decided) == 0 {
			return nil
		}
		center := policy.Nearest(self, enemies)
		if len(decided) > 0 {
			center = decided[0]
		}
		if center == nil {
			return nil
		}
		return policy.Within(center.X, center.Y, enemies, radius)
	case gamedata.TargetAllAllies:
		return policy.Alive(b.Allies(self))
	default:
		return decided
	}
}

// cast is the state of one execution, shared with its deferred hits.
type cast struct {
	b    Battle
	self *entity.Actor
	desc ability.Descriptor
	opts Options
	out  *Outcome
}

// hit applies one damage instance. Returns false when the hit was skipped.
func (c *cast) hit(target *entity.Actor, index int) bool {
	if !c.self.IsAlive() || target == nil || !target.IsAlive() {
		return false
	}
	stats := c.self.EffectiveStats()
	mods := c.self.Modifiers()

	amount := c.desc.Power(stats, c.self.MaxHP)
	chance := stats.Luck/100 + mods.Get(modifier.CritChance)
	isCrit := chance > 0 && c.b.Rand().Float64() < chance
	if isCrit {
		amount *= CritMultiplier
	}

	res := target.ReceiveAction(combat.Action{
		Amount:           amount,
		Type:             c.desc.DamageType,
		Element:          c.desc.Element,
		IsCrit:           isCrit,
		EffectType:       combat.EffectDamage,
		AttackerAccuracy: baseAccuracy + stats.Luck,
	})
	c.b.RecordDamage(c.self, target, res.Amount)

	if c.out != nil {
		c.out.Hits++
		c.out.Damage += res.Amount
		if isCrit {
			c.out.Crits++
		}
	}

	text := fmt.Sprintf("-%.0f", res.Amount)
	if isCrit {
		text += "!"
	}
	c.b.Notifier().FloatingText(target.Name, text, c.b.ElementColor(string(c.desc.Element)))

	if ls := mods.Get(modifier.Lifesteal); ls > 0 {
		c.self.Heal(res.Amount * ls)
	}
	engaged := status.Effect{Kind: status.KindEngaged, Source: "combat", Duration: EngagedDuration}
	c.self.ApplyStatus(engaged)
	target.ApplyStatus(engaged)

	if c.desc.GrantsStatus() {
		if c.desc.Status.OnSelf {
			c.self.ApplyStatus(c.effect())
		} else {
			target.ApplyStatus(c.effect())
		}
	}
	if c.desc.Category == gamedata.CategoryBasic {
		c.self.GainEnergy(EnergyPerBasicHit)
	}
	if c.opts.OnHit != nil {
		c.opts.OnHit(target, index, res)
	}
	return true
}

// multiHit lands the first hit now and schedules the rest on the caster's
// queue at index×interval. Once a hit finds the caster or target invalid,
// every later hit is skipped.
func (c *cast) multiHit(target *entity.Actor) {
	hits := max(1, c.desc.Hits)
	if !c.hit(target, 1) {
		return
	}

	if c.desc.HitInterval <= 0 {
		for i := 2; i <= hits; i++ {
			if !c.hit(target, i) {
				return
			}
		}
		return
	}

	deferred := *c
	deferred.out = nil
	cancelled := false
	for i := 2; i <= hits; i++ {
		index := i
		name := fmt.Sprintf("%s#%d", c.desc.ID, index)
		c.self.Schedule().After(float64(index-1)*c.desc.HitInterval, name, func() {
			if cancelled {
				return
			}
			if !deferred.hit(target, index) {
				cancelled = true
			}
		})
		c.out.Scheduled++
	}
}

// delayedNova marks the impact point now and damages everything inside the
// radius when the delay elapses.
func (c *cast) delayedNova(center *entity.Actor) {
	x, y := center.X, center.Y
	radius := c.desc.Mechanic("radius", 0)
	delay := c.desc.Mechanic("delay", 1)

	deferred := *c
	deferred.out = nil
	c.b.Notifier().PlayVFX(center.Name, c.desc.ID+".warning")
	c.self.Schedule().After(delay, c.desc.ID, func() {
		if !deferred.self.IsAlive() {
			return
		}
		deferred.b.Notifier().PlayVFX(center.Name, deferred.desc.ID+".burst")
		for _, t := range policy.Within(x, y, deferred.b.Enemies(deferred.self), radius) {
			deferred.hit(t, 1)
		}
	})
	c.out.Scheduled++
}

// grant applies the ability's status to the caster or to each target.
func (c *cast) grant(targets []*entity.Actor) {
	if !c.desc.GrantsStatus() {
		return
	}
	if c.desc.Status.OnSelf {
		c.self.ApplyStatus(c.effect())
		return
	}
	for _, t := range targets {
		t.ApplyStatus(c.effect())
	}
}

func (c *cast) effect() status.Effect {
	g := c.desc.Status
	return status.Effect{
		Kind:       g.Kind,
		Source:     c.desc.ID,
		Duration:   g.Duration,
		Magnitude:  g.Magnitude,
		StackLimit: g.StackLimit,
	}
}
