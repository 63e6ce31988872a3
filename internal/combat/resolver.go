// Package combat defines the boundary between ability modules and the battle
// engine: the Combatant contract, the Action request and the default
// mitigation used to resolve it.
package combat

// DamageType represents how damage is mitigated.
type DamageType string

const (
	DamagePhysical DamageType = "physical"
	DamageMagical  DamageType = "magical"
	DamageTrue     DamageType = "true"
)

// EffectType represents what an action does to its target.
type EffectType string

const (
	EffectDamage EffectType = "damage"
	EffectHeal   EffectType = "heal"
	EffectShield EffectType = "shield"
)

// Element is an opaque element tag (fire, water, ...).
type Element string

// Stats are the stats mitigation reads.
type Stats struct {
	Attack       float64
	MagicAttack  float64
	Defense      float64
	MagicDefense float64
	Speed        float64
	Luck         float64
	Evasion      float64
	Tenacity     float64
}

// Combatant is the interface for any entity the engine can resolve actions
// against.
type Combatant interface {
	// Identity
	GetName() string
	IsAlive() bool

	// Stats
	GetHP() float64
	GetMaxHP() float64
	EffectiveStats() Stats
	DamageReduction() float64 // Fraction of incoming damage removed, 0..1

	// Mutations
	TakeDamage(amount float64) float64   // Returns actual HP lost
	Heal(amount float64) float64         // Returns actual amount healed
	GrantShield(amount float64) float64  // Returns shield after the grant
	AbsorbShield(amount float64) float64 // Returns amount absorbed by shield
}

// Action is a damage, heal or shield request sent to the engine.
type Action struct {
	Amount           float64
	Type             DamageType
	Element          Element
	IsCrit           bool
	EffectType       EffectType
	AttackerAccuracy float64
}

// ActionResult is what the engine actually applied after mitigation.
type ActionResult struct {
	Amount float64
	IsCrit bool
}

// Resolve applies an action to the target and returns the applied amount.
// Damage is mitigated by defense, reduced by damage reduction, absorbed by
// shield first, then taken from HP. A dead target receives nothing.
func Resolve(target Combatant, a Action) ActionResult {
	if target == nil || !target.IsAlive() || !(a.Amount > 0) {
		return ActionResult{IsCrit: a.IsCrit}
	}

	switch a.EffectType {
	case EffectHeal:
		return ActionResult{Amount: target.Heal(a.Amount), IsCrit: a.IsCrit}
	case EffectShield:
		before := target.GrantShield(0)
		after := target.GrantShield(a.Amount)
		return ActionResult{Amount: after - before, IsCrit: a.IsCrit}
	default:
		damage := Preview(target, a)
		absorbed := target.AbsorbShield(damage)
		taken := target.TakeDamage(damage - absorbed)
		return ActionResult{Amount: absorbed + taken, IsCrit: a.IsCrit}
	}
}

// Preview calculates mitigated damage without applying it (for AI/preview).
func Preview(target Combatant, a Action) float64 {
	if target == nil || !(a.Amount > 0) {
		return 0
	}
	stats := target.EffectiveStats()

	var damage float64
	switch a.Type {
	case DamageMagical:
		damage = a.Amount * mitigation(stats.MagicDefense)
	case DamageTrue:
		damage = a.Amount
	default:
		damage = a.Amount * mitigation(stats.Defense)
	}

	// Glancing blow: evasion above the attacker's accuracy scales damage down.
	if a.AttackerAccuracy > 0 && stats.Evasion > a.AttackerAccuracy {
		damage *= a.AttackerAccuracy / stats.Evasion
	}

	if a.Type != DamageTrue {
		damage *= 1 - clampReduction(target.DamageReduction())
	}
	if damage < 1 {
		damage = 1
	}
	return damage
}

// mitigation returns the fraction of damage that passes through a defense value.
func mitigation(defense float64) float64 {
	if defense <= 0 {
		return 1
	}
	return 100 / (100 + defense)
}

// clampReduction bounds damage reduction to [0, 0.9].
func clampReduction(v float64) float64 {
	return min(max(v, 0), 0.9)
}
