package gamedata

// CharacterDef defines a playable character loaded from YAML.
type CharacterDef struct {
	ID           string   `yaml:"id"`           // Unique identifier (e.g., "berserker")
	Name         string   `yaml:"name"`         // Display name (e.g., "Ragnar")
	Kit          string   `yaml:"kit"`          // Ability module that drives this character
	Symbol       string   `yaml:"symbol"`       // Single character for logs (e.g., "B")
	HP           float64  `yaml:"hp"`           // Base hit points
	Energy       float64  `yaml:"energy"`       // Maximum energy
	Attack       float64  `yaml:"attack"`       // Base attack power
	MagicAttack  float64  `yaml:"magicAttack"`  // Base magic power
	Defense      float64  `yaml:"defense"`      // Base defense value
	MagicDefense float64  `yaml:"magicDefense"` // Base magic defense value
	Speed        float64  `yaml:"speed"`        // Action gauge gained per second
	Luck         float64  `yaml:"luck"`         // Crit chance in percent
	Evasion      float64  `yaml:"evasion"`
	Tenacity     float64  `yaml:"tenacity"`     // Percent reduction of control durations
	SpawnWeight  int      `yaml:"spawnWeight"`  // Relative frequency in random rosters
	Abilities    []string `yaml:"abilities"`    // List of ability IDs this character can use
}

// SymbolRune returns the symbol as a rune for logs.
func (c *CharacterDef) SymbolRune() rune {
	if len(c.Symbol) == 0 {
		return '?'
	}
	return rune(c.Symbol[0])
}

// HasAbility reports whether the character lists an ability ID.
func (c *CharacterDef) HasAbility(id string) bool {
	for _, a := range c.Abilities {
		if a == id {
			return true
		}
	}
	return false
}

// CharactersFile represents the structure of characters.yaml.
type CharactersFile struct {
	Characters []CharacterDef `yaml:"characters"`
}

// LoadCharacters loads character definitions from the embedded characters.yaml file.
func LoadCharacters() ([]CharacterDef, error) {
	file, err := Load[CharactersFile]("characters.yaml")
	if err != nil {
		return nil, err
	}
	return file.Characters, nil
}

// MustLoadCharacters loads character definitions, panicking on error.
func MustLoadCharacters() []CharacterDef {
	characters, err := LoadCharacters()
	if err != nil {
		panic(err)
	}
	return characters
}
