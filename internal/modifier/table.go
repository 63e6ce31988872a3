// Package modifier defines the passive modifier table that the tick driver
// rebuilds from scratch every step.
package modifier

// Key identifies a modifier. Keys are a closed set; a modifier is switched
// off by leaving it out of the next freshly computed table.
type Key string

const (
	AttackPct       Key = "attack_pct"
	MagicAttackPct  Key = "magic_attack_pct"
	DefensePct      Key = "defense_pct"
	MagicDefensePct Key = "magic_defense_pct"
	SpeedPct        Key = "speed_pct"
	CritChance      Key = "crit_chance"
	DamageReduction Key = "damage_reduction"
	Lifesteal       Key = "lifesteal"
	EvasionFlat     Key = "evasion_flat"
	TenacityFlat    Key = "tenacity_flat"
)

// Keys lists every key in a fixed order.
var Keys = []Key{
	AttackPct, MagicAttackPct, DefensePct, MagicDefensePct, SpeedPct,
	CritChance, DamageReduction, Lifesteal, EvasionFlat, TenacityFlat,
}

// Table maps keys to their current value. Missing keys read as zero.
type Table map[Key]float64

// Get returns the value for a key.
func (t Table) Get(k Key) float64 {
	return t[k]
}

// Add accumulates v into k. Used only while building a fresh table.
func (t Table) Add(k Key, v float64) {
	if v == 0 {
		return
	}
	t[k] += v
}

// Multiplier returns 1 + value, floored at zero.
func (t Table) Multiplier(k Key) float64 {
	return max(0, 1+t[k])
}
