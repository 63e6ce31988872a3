package config

import (
	"fmt"
	"math/rand"

	"github.com/samdwyer/battlekit/internal/entity"
	"github.com/samdwyer/battlekit/internal/game"
	"github.com/samdwyer/battlekit/internal/gamedata"
)

// deployGap is the distance between randomly drawn teams.
const deployGap = 4

// BuildRoster creates fresh actors for one battle. A configured roster is
// used as given; otherwise each team draws TeamSize characters from the
// catalog's spawn weights.
func (c Config) BuildRoster(catalog *gamedata.Catalog, rng *rand.Rand) (entity.Roster, error) {
	if len(c.Roster) == 0 {
		return c.randomRoster(catalog, rng)
	}

	roster := make(entity.Roster, 0, len(c.Roster))
	for i, r := range c.Roster {
		def, err := catalog.Character(r.Character)
		if err != nil {
			return nil, fmt.Errorf("roster[%d] %q: %w", i, r.Character, err)
		}
		team, err := entity.ParseTeam(r.Team)
		if err != nil {
			return nil, fmt.Errorf("roster[%d]: %w", i, err)
		}
		a := entity.NewActorFromDef(def, team, r.Level)
		a.SetPosition(r.X, r.Y)
		roster = append(roster, a)
	}
	game.Deploy(roster, deployGap)
	return roster, nil
}

func (c Config) randomRoster(catalog *gamedata.Catalog, rng *rand.Rand) (entity.Roster, error) {
	roster := make(entity.Roster, 0, 2*c.TeamSize)
	for _, team := range []entity.Team{entity.TeamBlue, entity.TeamRed} {
		for range c.TeamSize {
			def := catalog.Characters.SpawnRandom(rng)
			if def == nil {
				return nil, fmt.Errorf("no characters to draw for team %s", team)
			}
			roster = append(roster, entity.NewActorFromDef(def, team, 1))
		}
	}
	game.Deploy(roster, deployGap)
	return roster, nil
}
