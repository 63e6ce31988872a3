package ability

import (
	"maps"
	"slices"

	"github.com/samdwyer/battlekit/internal/combat"
	"github.com/samdwyer/battlekit/internal/gamedata"
)

// Parse resolves a definition against an actor level. Level effects apply in
// ascending level order for every entry at or below level; numeric bonuses
// add up and mechanics entries override earlier values.
func Parse(def *gamedata.AbilityDef, level int) Descriptor {
	if def == nil {
		return Descriptor{}
	}

	d := Descriptor{
		ID:             def.ID,
		Name:           def.Name,
		Level:          level,
		Category:       def.Category,
		Variant:        def.Variant,
		Target:         def.Target,
		Element:        combat.Element(def.Element),
		DamageType:     def.DamageType,
		BaseDamage:     def.BaseDamage,
		ScalingPercent: def.Scaling.Percent,
		ScalingStat:    def.Scaling.Stat,
		Cooldown:       def.Cooldown,
		Duration:       def.Duration,
		EnergyCost:     def.EnergyCost,
		Hits:           def.Hits,
		HitInterval:    def.HitInterval,
		mechanics:      maps.Clone(def.Mechanics),
	}
	if d.mechanics == nil {
		d.mechanics = make(map[string]float64)
	}
	if def.Status != nil {
		d.Status = *def.Status
	}
	if d.DamageType == "" {
		d.DamageType = combat.DamagePhysical
	}

	effects := slices.Clone(def.LevelEffects)
	slices.SortStableFunc(effects, func(a, b gamedata.LevelEffect) int {
		return a.Level - b.Level
	})
	for _, e := range effects {
		if e.Level > level {
			break
		}
		d.BaseDamage += e.DamageBonus
		d.ScalingPercent += e.ScalingBonus
		d.Cooldown -= e.CooldownReduction
		d.Duration += e.DurationBonus
		if d.GrantsStatus() {
			d.Status.Duration += e.DurationBonus
		}
		d.Hits += e.HitsBonus
		for name, v := range e.Mechanics {
			d.mechanics[name] = v
		}
	}

	d.Cooldown = max(0, d.Cooldown)
	d.Hits = max(1, d.Hits)
	return d
}

// Parser resolves ability IDs through a registry.
type Parser struct {
	registry *gamedata.AbilityRegistry
}

// NewParser creates a parser over an ability registry.
func NewParser(registry *gamedata.AbilityRegistry) *Parser {
	return &Parser{registry: registry}
}

// Parse returns the descriptor for id at level. Unknown IDs return the zero
// descriptor and false.
func (p *Parser) Parse(id string, level int) (Descriptor, bool) {
	if p == nil || p.registry == nil {
		return Descriptor{}, false
	}
	def := p.registry.GetByID(id)
	if def == nil {
		return Descriptor{}, false
	}
	return Parse(def, level), true
}
