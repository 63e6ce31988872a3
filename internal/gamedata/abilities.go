package gamedata

import (
	"fmt"

	"github.com/samdwyer/battlekit/internal/combat"
	"github.com/samdwyer/battlekit/internal/status"
)

// =============================================================================
// ABILITY DEFINITIONS
// =============================================================================
//
// Abilities are static, data-driven definitions loaded from abilities.yaml at
// startup. A definition is never used directly in battle: the ability parser
// resolves it against the actor's level into an immutable descriptor.
//
// Category - when the ability is used:
//    - basic: fallback attack, no cooldown
//    - skill: cooldown-gated
//    - passive: never chosen by the decision policy, tuned by the kit
//    - ultimate: energy-gated
//
// Variant - what the executor does with it. Assigned once here and dispatched
// with a switch; behavior is never inferred from the ability name.
//
// Level effects - additive bonuses applied in level order for every entry
// whose level is at or below the actor's level. Mechanics entries override.
//
// YAML Schema:
// ------------
// - id: pyromancer.flare
//   name: Flare
//   category: basic
//   variant: strike
//   target: single_enemy
//   element: fire
//   damageType: magical
//   baseDamage: 9
//   scaling: {percent: 90, stat: magic_attack}
//   status: {kind: burn, duration: 4, magnitude: 3, stackLimit: 5}
//   mechanics: {combustion_per_hit: 12}
//   levelEffects:
//     - {level: 5, damageBonus: 3}

// Category represents when an ability is used.
type Category string

const (
	CategoryBasic    Category = "basic"
	CategorySkill    Category = "skill"
	CategoryPassive  Category = "passive"
	CategoryUltimate Category = "ultimate"
)

// Variant represents what an ability does when executed.
type Variant string

const (
	VariantStrike      Variant = "strike"
	VariantMultiHit    Variant = "multi_hit"
	VariantNova        Variant = "nova"
	VariantDelayedNova Variant = "delayed_nova"
	VariantHeal        Variant = "heal"
	VariantShield      Variant = "shield"
	VariantBuff        Variant = "buff"
	VariantDebuff      Variant = "debuff"
	VariantStanceShift Variant = "stance_shift"
	VariantTransform   Variant = "transform"
)

// TargetType represents who an ability can target.
type TargetType string

const (
	TargetSelf        TargetType = "self"
	TargetSingleEnemy TargetType = "single_enemy"
	TargetAllEnemies  TargetType = "all_enemies"
	TargetSingleAlly  TargetType = "single_ally"
	TargetAllAllies   TargetType = "all_allies"
)

// Stat names a stat that ability damage scales with.
type Stat string

const (
	StatAttack      Stat = "attack"
	StatMagicAttack Stat = "magic_attack"
	StatDefense     Stat = "defense"
	StatMaxHP       Stat = "max_hp"
)

// Scaling adds a percentage of one of the caster's stats to base damage.
type Scaling struct {
	Percent float64 `yaml:"percent"`
	Stat    Stat    `yaml:"stat"`
}

// StatusGrant is a status effect an ability applies.
type StatusGrant struct {
	Kind       status.Kind `yaml:"kind"`
	Duration   float64     `yaml:"duration"`
	Magnitude  float64     `yaml:"magnitude"`
	StackLimit int         `yaml:"stackLimit"`
	OnSelf     bool        `yaml:"onSelf"` // Applied to the caster instead of the targets
}

// LevelEffect adjusts an ability once the actor reaches Level.
type LevelEffect struct {
	Level             int                `yaml:"level"`
	DamageBonus       float64            `yaml:"damageBonus"`
	ScalingBonus      float64            `yaml:"scalingBonus"`
	CooldownReduction float64            `yaml:"cooldownReduction"`
	DurationBonus     float64            `yaml:"durationBonus"`
	HitsBonus         int                `yaml:"hitsBonus"`
	Mechanics         map[string]float64 `yaml:"mechanics"`
}

// AbilityDef defines an ability loaded from YAML.
type AbilityDef struct {
	ID           string             `yaml:"id"`
	Name         string             `yaml:"name"`
	Description  string             `yaml:"description"`
	Category     Category           `yaml:"category"`
	Variant      Variant            `yaml:"variant"`
	Target       TargetType         `yaml:"target"`
	Tags         []string           `yaml:"tags"`
	Element      string             `yaml:"element"`
	DamageType   combat.DamageType  `yaml:"damageType"`
	BaseDamage   float64            `yaml:"baseDamage"`
	Scaling      Scaling            `yaml:"scaling"`
	Cooldown     float64            `yaml:"cooldown"`
	Duration     float64            `yaml:"duration"`
	EnergyCost   float64            `yaml:"energyCost"`
	Hits         int                `yaml:"hits"`
	HitInterval  float64            `yaml:"hitInterval"`
	Status       *StatusGrant       `yaml:"status"`
	Mechanics    map[string]float64 `yaml:"mechanics"`
	LevelEffects []LevelEffect      `yaml:"levelEffects"`
}

// NeedsTarget returns true if the ability requires target selection.
func (a *AbilityDef) NeedsTarget() bool {
	return a.Target == TargetSingleEnemy || a.Target == TargetSingleAlly
}

// IsOffensive returns true if the ability targets enemies.
func (a *AbilityDef) IsOffensive() bool {
	return a.Target == TargetSingleEnemy || a.Target == TargetAllEnemies
}

// Validate checks that enumerated fields hold known values.
func (a *AbilityDef) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("ability %q: missing id", a.Name)
	}
	switch a.Category {
	case CategoryBasic, CategorySkill, CategoryPassive, CategoryUltimate:
	default:
		return fmt.Errorf("ability %s: unknown category %q", a.ID, a.Category)
	}
	switch a.Variant {
	case VariantStrike, VariantMultiHit, VariantNova, VariantDelayedNova, VariantHeal,
		VariantShield, VariantBuff, VariantDebuff, VariantStanceShift, VariantTransform:
	default:
		return fmt.Errorf("ability %s: unknown variant %q", a.ID, a.Variant)
	}
	switch a.Target {
	case TargetSelf, TargetSingleEnemy, TargetAllEnemies, TargetSingleAlly, TargetAllAllies:
	default:
		return fmt.Errorf("ability %s: unknown target %q", a.ID, a.Target)
	}
	if a.Cooldown < 0 || a.EnergyCost < 0 || a.Hits < 0 || a.HitInterval < 0 {
		return fmt.Errorf("ability %s: negative timing or cost", a.ID)
	}
	return nil
}

// AbilitiesFile represents the structure of abilities.yaml.
type AbilitiesFile struct {
	Abilities []AbilityDef `yaml:"abilities"`
}

// LoadAbilities loads ability definitions from the embedded abilities.yaml file.
func LoadAbilities() ([]AbilityDef, error) {
	file, err := Load[AbilitiesFile]("abilities.yaml")
	if err != nil {
		return nil, err
	}
	for i := range file.Abilities {
		if err := file.Abilities[i].Validate(); err != nil {
			return nil, err
		}
	}
	return file.Abilities, nil
}
