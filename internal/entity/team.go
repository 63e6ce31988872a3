package entity

import "fmt"

// Team identifies a side in a battle.
type Team int

const (
	TeamBlue Team = iota
	TeamRed
)

// String returns the team name.
func (t Team) String() string {
	switch t {
	case TeamBlue:
		return "blue"
	case TeamRed:
		return "red"
	default:
		return "unknown"
	}
}

// Opponent returns the opposing team.
func (t Team) Opponent() Team {
	if t == TeamBlue {
		return TeamRed
	}
	return TeamBlue
}

// ParseTeam converts a team name into a Team.
func ParseTeam(name string) (Team, error) {
	switch name {
	case "blue", "":
		return TeamBlue, nil
	case "red":
		return TeamRed, nil
	default:
		return TeamBlue, fmt.Errorf("unknown team %q", name)
	}
}

// Roster is the ordered list of battle participants. Order is the
// deterministic processing order of a battle step.
type Roster []*Actor

// Members returns actors on a team in roster order.
func (r Roster) Members(team Team) []*Actor {
	result := make([]*Actor, 0, len(r))
	for _, a := range r {
		if a.Team == team {
			result = append(result, a)
		}
	}
	return result
}

// AliveCount returns the number of live actors on a team.
func (r Roster) AliveCount(team Team) int {
	count := 0
	for _, a := range r {
		if a.Team == team && a.IsAlive() {
			count++
		}
	}
	return count
}

// IsDefeated returns true if no actor on the team is alive.
func (r Roster) IsDefeated(team Team) bool {
	return r.AliveCount(team) == 0
}

// TotalHP returns the summed current HP of a team.
func (r Roster) TotalHP(team Team) float64 {
	total := 0.0
	for _, a := range r {
		if a.Team == team {
			total += max(0, a.HP)
		}
	}
	return total
}
