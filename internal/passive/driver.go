// Package passive runs the per-step passive update for one actor: cooldowns,
// status expiry, deferred events, over-time effects, modifier recomputation
// and threshold reactions, in that order.
package passive

import (
	"log/slog"

	"github.com/samdwyer/battlekit/internal/cue"
	"github.com/samdwyer/battlekit/internal/entity"
	"github.com/samdwyer/battlekit/internal/modifier"
	"github.com/samdwyer/battlekit/internal/status"
)

// Hooks are the per-character reactions the driver calls into.
type Hooks interface {
	// OnExpire runs once for each status effect that expired this step.
	OnExpire(self *entity.Actor, e status.Effect, n *cue.Notifier)
	// UpdatePassives applies continuous per-second rules (decay, stance healing).
	UpdatePassives(self *entity.Actor, dt float64)
	// Modifiers adds character contributions to a freshly built table.
	Modifiers(self *entity.Actor, t modifier.Table)
	// Reactions evaluates threshold-gated reactions (transformations,
	// emergency heals).
	Reactions(self *entity.Actor, n *cue.Notifier)
}

// NopHooks implements Hooks with no reactions.
type NopHooks struct{}

func (NopHooks) OnExpire(*entity.Actor, status.Effect, *cue.Notifier) {}
func (NopHooks) UpdatePassives(*entity.Actor, float64)                {}
func (NopHooks) Modifiers(*entity.Actor, modifier.Table)              {}
func (NopHooks) Reactions(*entity.Actor, *cue.Notifier)               {}

// StepReport summarizes one passive step.
type StepReport struct {
	Skipped     bool // Actor was terminated
	Expired     []status.Effect
	EventsFired int
	Damage      float64 // Burn and poison
	Healed      float64 // Regen
}

// Driver advances actor state each simulation step.
type Driver struct {
	notifier *cue.Notifier
	logger   *slog.Logger
}

// NewDriver creates a driver. notifier may be nil.
func NewDriver(notifier *cue.Notifier, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{notifier: notifier, logger: logger}
}

// Step runs one passive update of dt seconds for self.
// Terminated actors are skipped entirely.
func (d *Driver) Step(self *entity.Actor, hooks Hooks, dt float64) StepReport {
	if self == nil || !self.IsAlive() {
		return StepReport{Skipped: true}
	}
	if hooks == nil {
		hooks = NopHooks{}
	}
	var report StepReport

	// 1. Cooldowns
	self.Cooldowns().Tick(dt)

	// 2. Status expiry, then deferred events
	report.Expired = self.Statuses().Tick(dt)
	for _, e := range report.Expired {
		hooks.OnExpire(self, e, d.notifier)
	}
	report.EventsFired = self.Schedule().Advance(dt)

	// 3. Over-time effects and continuous rules
	if self.IsAlive() && dt > 0 {
		report.Healed = self.Heal(self.Statuses().Total(status.KindRegen) * dt)
		dot := (self.Statuses().Total(status.KindBurn) + self.Statuses().Total(status.KindPoison)) * dt
		if dot > 0 {
			absorbed := self.AbsorbShield(dot)
			report.Damage = absorbed + self.TakeDamage(dot-absorbed)
		}
		if self.IsAlive() {
			hooks.UpdatePassives(self, dt)
		}
	}

	// 4. Fresh modifier table
	table := Modifiers(self)
	hooks.Modifiers(self, table)
	self.SetModifiers(table)

	// 5. Threshold reactions
	if self.IsAlive() {
		hooks.Reactions(self, d.notifier)
	}

	if !self.IsAlive() {
		d.logger.Debug("actor fell during passive step",
			"actor", self.Name,
			"damage", report.Damage,
		)
	}
	return report
}

// Modifiers builds the status-driven part of an actor's modifier table.
// It is a pure function of the current statuses.
func Modifiers(self *entity.Actor) modifier.Table {
	s := self.Statuses()
	t := modifier.Table{}
	t.Add(modifier.AttackPct, s.Total(status.KindAttackUp)+s.Total(status.KindFrenzy))
	t.Add(modifier.DefensePct, s.Total(status.KindDefenseUp)-s.Total(status.KindDefenseDown)-s.Total(status.KindInstability))
	t.Add(modifier.MagicDefensePct, -s.Total(status.KindScorched)-s.Total(status.KindInstability))
	return t
}
