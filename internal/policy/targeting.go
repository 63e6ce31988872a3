package policy

import "github.com/samdwyer/battlekit/internal/entity"

// Alive returns the live actors in input order.
func Alive(actors []*entity.Actor) []*entity.Actor {
	result := make([]*entity.Actor, 0, len(actors))
	for _, a := range actors {
		if a != nil && a.IsAlive() {
			result = append(result, a)
		}
	}
	return result
}

// Nearest returns the candidate closest to self. Ties go to the earlier
// candidate.
func Nearest(self *entity.Actor, candidates []*entity.Actor) *entity.Actor {
	var best *entity.Actor
	bestDist := 0.0
	for _, c := range candidates {
		if c == nil || !c.IsAlive() {
			continue
		}
		d := self.Distance(c)
		if best == nil || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// LowestHPFraction returns the candidate with the lowest HP fraction. Ties go
// to the earlier candidate.
func LowestHPFraction(candidates []*entity.Actor) *entity.Actor {
	var best *entity.Actor
	for _, c := range candidates {
		if c == nil || !c.IsAlive() {
			continue
		}
		if best == nil || c.HPFraction() < best.HPFraction() {
			best = c
		}
	}
	return best
}

// CountWithin returns how many live candidates are within radius of center,
// center included.
func CountWithin(center *entity.Actor, candidates []*entity.Actor, radius float64) int {
	count := 0
	for _, c := range candidates {
		if c != nil && c.IsAlive() && center.Distance(c) <= radius {
			count++
		}
	}
	return count
}

// Densest returns the candidate with the most live candidates within radius
// and that count. Ties go to the earlier candidate.
func Densest(candidates []*entity.Actor, radius float64) (*entity.Actor, int) {
	var best *entity.Actor
	bestCount := 0
	for _, c := range candidates {
		if c == nil || !c.IsAlive() {
			continue
		}
		n := CountWithin(c, candidates, radius)
		if n > bestCount {
			best, bestCount = c, n
		}
	}
	return best, bestCount
}

// Within returns the live candidates within radius of a point.
func Within(x, y float64, candidates []*entity.Actor, radius float64) []*entity.Actor {
	center := entity.Actor{X: x, Y: y}
	var result []*entity.Actor
	for _, c := range candidates {
		if c != nil && c.IsAlive() && center.Distance(c) <= radius {
			result = append(result, c)
		}
	}
	return result
}
