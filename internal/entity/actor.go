// Package entity provides battle participants and the state they own.
package entity

import (
	"math"

	"github.com/google/uuid"

	"github.com/samdwyer/battlekit/internal/combat"
	"github.com/samdwyer/battlekit/internal/cooldown"
	"github.com/samdwyer/battlekit/internal/gamedata"
	"github.com/samdwyer/battlekit/internal/modifier"
	"github.com/samdwyer/battlekit/internal/resource"
	"github.com/samdwyer/battlekit/internal/schedule"
	"github.com/samdwyer/battlekit/internal/status"
)

const (
	// GaugeFull is the action gauge value at which an actor takes a turn.
	GaugeFull = 100.0
	// EnergyPerStruck is the energy an actor gains when damage lands on it.
	EnergyPerStruck = 5.0
	// minSlowFactor keeps heavily slowed actors acting eventually.
	minSlowFactor = 0.1
)

// Actor is one battle participant. It exclusively owns its statuses,
// resources, cooldowns and scheduled events; other actors mutate them only
// through its methods.
type Actor struct {
	ID        uuid.UUID
	Name      string // Character name
	Character string // Character definition ID
	Kit       string // Ability module driving this actor
	Symbol    rune   // Single character for logs
	Team      Team
	Level     int
	X, Y      float64 // Position for distance-based targeting

	// Combat stats
	HP, MaxHP         float64
	Energy, MaxEnergy float64
	Base              combat.Stats
	Gauge             float64 // Action gauge, acts at GaugeFull
	AbilityIDs        []string

	modifiers modifier.Table
	statuses  *status.Store
	resources *resource.Pool
	cooldowns *cooldown.Tracker
	schedule  *schedule.Queue
	removed   bool
}

// NewActor creates an actor with default stats.
// Use InitFromCharacterDef to load stats from data.
func NewActor(name string, team Team) *Actor {
	a := &Actor{
		ID:        uuid.New(),
		Name:      name,
		Kit:       "default",
		Symbol:    '?',
		Team:      team,
		Level:     1,
		HP:        100, // Default stats
		MaxHP:     100,
		MaxEnergy: 100,
		Base: combat.Stats{
			Attack:  10,
			Defense: 10,
			Speed:   50,
		},
		modifiers: modifier.Table{},
		resources: resource.NewPool(),
		cooldowns: cooldown.NewTracker(),
		schedule:  schedule.NewQueue(),
	}
	a.statuses = status.NewStore(a.IsAlive)
	return a
}

// NewActorFromDef creates an actor from a character definition.
func NewActorFromDef(def *gamedata.CharacterDef, team Team, level int) *Actor {
	a := NewActor("", team)
	a.InitFromCharacterDef(def)
	if level > 0 {
		a.Level = level
	}
	return a
}

// InitFromCharacterDef initializes actor stats from a character definition.
func (a *Actor) InitFromCharacterDef(def *gamedata.CharacterDef) {
	if def == nil {
		return
	}
	a.Name = def.Name
	a.Character = def.ID
	a.Kit = def.Kit
	a.Symbol = def.SymbolRune()
	a.HP = def.HP
	a.MaxHP = def.HP
	a.MaxEnergy = def.Energy
	a.Base = combat.Stats{
		Attack:       def.Attack,
		MagicAttack:  def.MagicAttack,
		Defense:      def.Defense,
		MagicDefense: def.MagicDefense,
		Speed:        def.Speed,
		Luck:         def.Luck,
		Evasion:      def.Evasion,
		Tenacity:     def.Tenacity,
	}
	a.AbilityIDs = make([]string, len(def.Abilities))
	copy(a.AbilityIDs, def.Abilities)
}

// SetPosition updates the actor's position.
func (a *Actor) SetPosition(x, y float64) {
	a.X = x
	a.Y = y
}

// Distance returns the Euclidean distance to another actor.
func (a *Actor) Distance(other *Actor) float64 {
	return math.Hypot(a.X-other.X, a.Y-other.Y)
}

// Remove takes the actor out of the battle without killing it.
// Pending scheduled events are dropped.
func (a *Actor) Remove() {
	a.removed = true
	a.schedule.Clear()
}

// Removed reports whether the actor was taken out of the battle.
func (a *Actor) Removed() bool { return a.removed }

// HPFraction returns current HP as a fraction of max HP.
func (a *Actor) HPFraction() float64 {
	if a.MaxHP <= 0 {
		return 0
	}
	return a.HP / a.MaxHP
}

// =============================================================================
// Owned state
// =============================================================================

// Statuses returns the actor's status effect store.
func (a *Actor) Statuses() *status.Store { return a.statuses }

// Resources returns the actor's custom resource pool.
func (a *Actor) Resources() *resource.Pool { return a.resources }

// Cooldowns returns the actor's cooldown tracker.
func (a *Actor) Cooldowns() *cooldown.Tracker { return a.cooldowns }

// Schedule returns the actor's queue of deferred events.
func (a *Actor) Schedule() *schedule.Queue { return a.schedule }

// Modifiers returns the passive modifier table computed on the last tick.
// Callers must not mutate it.
func (a *Actor) Modifiers() modifier.Table { return a.modifiers }

// SetModifiers replaces the passive modifier table.
func (a *Actor) SetModifiers(t modifier.Table) {
	if t == nil {
		t = modifier.Table{}
	}
	a.modifiers = t
}

// ApplyStatus adds a status effect through the store. Control effects are
// shortened by tenacity. No-op once the actor is terminated.
func (a *Actor) ApplyStatus(e status.Effect) bool {
	if e.Kind == status.KindStun || e.Kind == status.KindSlow {
		tenacity := min(a.EffectiveStats().Tenacity, 90)
		if tenacity > 0 && !e.IsDurable() {
			e.Duration *= 1 - tenacity/100
		}
	}
	return a.statuses.Apply(e)
}

// AddResource adds to a custom resource, clamped to [0, ceiling].
func (a *Actor) AddResource(name resource.Name, amount, ceiling float64) float64 {
	return a.resources.Add(name, amount, ceiling)
}

// ConsumeResource removes up to amount and returns what was removed.
func (a *Actor) ConsumeResource(name resource.Name, amount float64) float64 {
	return a.resources.Consume(name, amount)
}

// GetResource returns the current value of a custom resource.
func (a *Actor) GetResource(name resource.Name) float64 {
	return a.resources.Get(name)
}

// IsStunned reports whether a stun is active.
func (a *Actor) IsStunned() bool {
	return a.statuses.Has(status.KindStun)
}

// SlowFactor returns the multiplier applied to action gauge gain.
func (a *Actor) SlowFactor() float64 {
	return max(minSlowFactor, 1-a.statuses.Total(status.KindSlow))
}

// GaugeRate returns action gauge gained per second.
func (a *Actor) GaugeRate() float64 {
	return a.EffectiveStats().Speed * a.SlowFactor()
}

// SpendEnergy reduces energy and returns false if insufficient.
func (a *Actor) SpendEnergy(amount float64) bool {
	if amount <= 0 {
		return true
	}
	if a.Energy < amount {
		return false
	}
	a.Energy -= amount
	return true
}

// GainEnergy restores energy and returns actual amount gained.
func (a *Actor) GainEnergy(amount float64) float64 {
	if amount <= 0 || !a.IsAlive() {
		return 0
	}
	actual := min(amount, a.MaxEnergy-a.Energy)
	a.Energy += actual
	return actual
}

// ReceiveAction resolves a damage, heal or shield request against this actor
// and returns what was actually applied.
func (a *Actor) ReceiveAction(act combat.Action) combat.ActionResult {
	result := combat.Resolve(a, act)
	if act.EffectType == combat.EffectDamage && result.Amount > 0 {
		a.GainEnergy(EnergyPerStruck)
	}
	return result
}

// =============================================================================
// Combatant interface implementation
// =============================================================================

// GetName returns the actor's name.
func (a *Actor) GetName() string { return a.Name }

// IsAlive returns true if the actor has HP remaining and was not removed.
func (a *Actor) IsAlive() bool { return a.HP > 0 && !a.removed }

// GetHP returns current HP.
func (a *Actor) GetHP() float64 { return a.HP }

// GetMaxHP returns maximum HP.
func (a *Actor) GetMaxHP() float64 { return a.MaxHP }

// EffectiveStats returns base stats adjusted by the passive modifier table.
func (a *Actor) EffectiveStats() combat.Stats {
	m := a.modifiers
	return combat.Stats{
		Attack:       a.Base.Attack * m.Multiplier(modifier.AttackPct),
		MagicAttack:  a.Base.MagicAttack * m.Multiplier(modifier.MagicAttackPct),
		Defense:      a.Base.Defense * m.Multiplier(modifier.DefensePct),
		MagicDefense: a.Base.MagicDefense * m.Multiplier(modifier.MagicDefensePct),
		Speed:        a.Base.Speed * m.Multiplier(modifier.SpeedPct),
		Luck:         a.Base.Luck,
		Evasion:      max(0, a.Base.Evasion+m.Get(modifier.EvasionFlat)),
		Tenacity:     max(0, a.Base.Tenacity+m.Get(modifier.TenacityFlat)),
	}
}

// DamageReduction returns the fraction of incoming damage removed.
func (a *Actor) DamageReduction() float64 {
	return a.modifiers.Get(modifier.DamageReduction)
}

// TakeDamage reduces HP and returns actual damage taken.
func (a *Actor) TakeDamage(amount float64) float64 {
	if !(amount > 0) || !a.IsAlive() {
		return 0
	}
	actual := min(amount, a.HP)
	a.HP -= actual
	return actual
}

// Heal restores HP and returns actual amount healed.
func (a *Actor) Heal(amount float64) float64 {
	if !(amount > 0) || !a.IsAlive() {
		return 0
	}
	actual := min(amount, a.MaxHP-a.HP)
	a.HP += actual
	return actual
}

// GrantShield adds shield capped at max HP and returns the shield total.
func (a *Actor) GrantShield(amount float64) float64 {
	if amount <= 0 {
		return a.resources.Get(resource.Shield)
	}
	return a.resources.Add(resource.Shield, amount, a.MaxHP)
}

// AbsorbShield removes up to amount from the shield and returns what it absorbed.
func (a *Actor) AbsorbShield(amount float64) float64 {
	return a.resources.Consume(resource.Shield, amount)
}

// Ensure Actor implements combat.Combatant
var _ combat.Combatant = (*Actor)(nil)
