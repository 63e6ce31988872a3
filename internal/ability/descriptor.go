// Package ability resolves static ability definitions into level-adjusted
// descriptors that the decision policy and executor consume.
package ability

import (
	"github.com/samdwyer/battlekit/internal/combat"
	"github.com/samdwyer/battlekit/internal/gamedata"
)

// BasicStrikeID is the cooldown key of the built-in default attack.
const BasicStrikeID = "basic_strike"

// Descriptor is the resolved parameters for one ability at one level.
// It is immutable: mechanics are only reachable through accessors.
type Descriptor struct {
	ID             string
	Name           string
	Level          int
	Category       gamedata.Category
	Variant        gamedata.Variant
	Target         gamedata.TargetType
	Element        combat.Element
	DamageType     combat.DamageType
	BaseDamage     float64
	ScalingPercent float64
	ScalingStat    gamedata.Stat
	Cooldown       float64
	Duration       float64
	EnergyCost     float64
	Hits           int
	HitInterval    float64
	Status         gamedata.StatusGrant

	mechanics map[string]float64
}

// IsZero reports whether the descriptor is the empty "unresolved" value.
func (d Descriptor) IsZero() bool {
	return d.ID == ""
}

// GrantsStatus reports whether the ability applies a status effect.
func (d Descriptor) GrantsStatus() bool {
	return d.Status.Kind != ""
}

// Mechanic returns a named ability-specific parameter, or fallback if unset.
func (d Descriptor) Mechanic(name string, fallback float64) float64 {
	if v, ok := d.mechanics[name]; ok {
		return v
	}
	return fallback
}

// Flag returns a boolean mechanic (non-zero is true).
func (d Descriptor) Flag(name string) bool {
	return d.mechanics[name] != 0
}

// Power returns base damage plus scaling from the caster's stats.
// For heals and shields this is the amount granted.
func (d Descriptor) Power(stats combat.Stats, maxHP float64) float64 {
	var stat float64
	switch d.ScalingStat {
	case gamedata.StatAttack:
		stat = stats.Attack
	case gamedata.StatMagicAttack:
		stat = stats.MagicAttack
	case gamedata.StatDefense:
		stat = stats.Defense
	case gamedata.StatMaxHP:
		stat = maxHP
	}
	return max(0, d.BaseDamage+stat*d.ScalingPercent/100)
}

// BasicStrike is the default attack used when an ability cannot be resolved.
func BasicStrike() Descriptor {
	return Descriptor{
		ID:             BasicStrikeID,
		Name:           "Strike",
		Level:          1,
		Category:       gamedata.CategoryBasic,
		Variant:        gamedata.VariantStrike,
		Target:         gamedata.TargetSingleEnemy,
		DamageType:     combat.DamagePhysical,
		BaseDamage:     5,
		ScalingPercent: 100,
		ScalingStat:    gamedata.StatAttack,
		Hits:           1,
	}
}
