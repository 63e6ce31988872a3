package gamedata

import (
	"errors"
	"math/rand"

	"github.com/gdamore/tcell/v2"
)

// ErrNotFound is returned when a definition lookup fails.
var ErrNotFound = errors.New("definition not found")

// CharacterRegistry holds loaded character definitions and provides roster utilities.
type CharacterRegistry struct {
	characters  []CharacterDef
	totalWeight int
}

// NewCharacterRegistry creates a registry from loaded character definitions.
func NewCharacterRegistry(characters []CharacterDef) *CharacterRegistry {
	totalWeight := 0
	for _, c := range characters {
		totalWeight += c.SpawnWeight
	}
	return &CharacterRegistry{
		characters:  characters,
		totalWeight: totalWeight,
	}
}

// SpawnRandom selects a random character definition using weighted probability.
// Characters with higher spawnWeight are more likely to be selected.
func (r *CharacterRegistry) SpawnRandom(rng *rand.Rand) *CharacterDef {
	if r.totalWeight <= 0 || len(r.characters) == 0 {
		return nil
	}

	roll := rng.Intn(r.totalWeight)

	cumulative := 0
	for i := range r.characters {
		cumulative += r.characters[i].SpawnWeight
		if roll < cumulative {
			return &r.characters[i]
		}
	}

	return &r.characters[0]
}

// GetByID returns the character definition with the given ID, or nil if not found.
func (r *CharacterRegistry) GetByID(id string) *CharacterDef {
	for i := range r.characters {
		if r.characters[i].ID == id {
			return &r.characters[i]
		}
	}
	return nil
}

// All returns all character definitions.
func (r *CharacterRegistry) All() []CharacterDef {
	return r.characters
}

// Count returns the number of characters in the registry.
func (r *CharacterRegistry) Count() int {
	return len(r.characters)
}

// =============================================================================
// AbilityRegistry
// =============================================================================

// AbilityRegistry holds loaded ability definitions and provides lookup utilities.
type AbilityRegistry struct {
	abilities map[string]*AbilityDef
	all       []AbilityDef
}

// NewAbilityRegistry creates a registry from loaded ability definitions.
func NewAbilityRegistry(abilities []AbilityDef) *AbilityRegistry {
	registry := &AbilityRegistry{
		abilities: make(map[string]*AbilityDef),
		all:       abilities,
	}
	for i := range abilities {
		registry.abilities[abilities[i].ID] = &abilities[i]
	}
	return registry
}

// GetByID returns the ability definition with the given ID, or nil if not found.
func (r *AbilityRegistry) GetByID(id string) *AbilityDef {
	return r.abilities[id]
}

// GetMultiple returns ability definitions for a list of IDs.
// Missing IDs are silently skipped.
func (r *AbilityRegistry) GetMultiple(ids []string) []*AbilityDef {
	result := make([]*AbilityDef, 0, len(ids))
	for _, id := range ids {
		if ability := r.abilities[id]; ability != nil {
			result = append(result, ability)
		}
	}
	return result
}

// All returns all ability definitions.
func (r *AbilityRegistry) All() []AbilityDef {
	return r.all
}

// Count returns the number of abilities in the registry.
func (r *AbilityRegistry) Count() int {
	return len(r.all)
}

// =============================================================================
// Catalog
// =============================================================================

// Catalog bundles every registry loaded from the embedded data.
type Catalog struct {
	Abilities  *AbilityRegistry
	Characters *CharacterRegistry
	elements   map[string]ElementDef
}

// NewCatalog builds a catalog from already loaded definitions.
func NewCatalog(abilities []AbilityDef, characters []CharacterDef, elements []ElementDef) *Catalog {
	c := &Catalog{
		Abilities:  NewAbilityRegistry(abilities),
		Characters: NewCharacterRegistry(characters),
		elements:   make(map[string]ElementDef, len(elements)),
	}
	for _, e := range elements {
		c.elements[e.ID] = e
	}
	return c
}

// LoadCatalog loads abilities, characters and elements from the embedded files.
func LoadCatalog() (*Catalog, error) {
	abilities, err := LoadAbilities()
	if err != nil {
		return nil, err
	}
	if len(abilities) == 0 {
		return nil, errors.New("no abilities loaded from abilities.yaml")
	}
	characters, err := LoadCharacters()
	if err != nil {
		return nil, err
	}
	if len(characters) == 0 {
		return nil, errors.New("no characters loaded from characters.yaml")
	}
	elements, err := LoadElements()
	if err != nil {
		return nil, err
	}
	return NewCatalog(abilities, characters, elements), nil
}

// MustLoadCatalog loads the catalog, panicking on error.
func MustLoadCatalog() *Catalog {
	catalog, err := LoadCatalog()
	if err != nil {
		panic(err)
	}
	return catalog
}

// ElementColor returns the cue color for an element, white if unknown.
func (c *Catalog) ElementColor(element string) tcell.Color {
	e, ok := c.elements[element]
	if !ok {
		return tcell.ColorWhite
	}
	return e.TCellColor()
}

// Character returns the character definition for an ID.
func (c *Catalog) Character(id string) (*CharacterDef, error) {
	def := c.Characters.GetByID(id)
	if def == nil {
		return nil, ErrNotFound
	}
	return def, nil
}
