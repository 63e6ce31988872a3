package status

import "slices"

// epsilon absorbs float drift from repeated subtraction of dt. A duration
// this close to zero has expired.
const epsilon = 1e-9

// Store is the ordered collection of active effects on one actor.
// Insertion order is preserved so application and expiry are deterministic.
type Store struct {
	effects []Effect
	alive   func() bool
}

// NewStore creates an empty store. alive reports whether the owning actor can
// still receive effects; nil means always.
func NewStore(alive func() bool) *Store {
	return &Store{
		effects: make([]Effect, 0, 8),
		alive:   alive,
	}
}

// Apply adds an effect or resolves a collision with an existing effect of the
// same kind and source using the kind's policy. Returns false without changing
// anything when the owner is terminated or the effect has no duration.
func (s *Store) Apply(e Effect) bool {
	if s.alive != nil && !s.alive() {
		return false
	}
	if !(e.Duration > 0) {
		return false
	}
	e = e.normalize()

	for i := range s.effects {
		existing := &s.effects[i]
		if !existing.matches(e.Kind, e.Source) {
			continue
		}
		switch PolicyFor(e.Kind) {
		case PolicyStack:
			existing.StackLimit = e.StackLimit
			existing.Stacks = min(existing.Stacks+1, existing.StackLimit)
			existing.Duration = max(existing.Duration, e.Duration)
			existing.Magnitude = e.Magnitude
		case PolicyReplace:
			*existing = e
		default:
			existing.Duration = max(existing.Duration, e.Duration)
			existing.Magnitude = max(existing.Magnitude, e.Magnitude)
		}
		return true
	}

	s.effects = append(s.effects, e)
	return true
}

// Tick decrements every finite duration by dt and removes effects whose
// duration reached zero. Expired effects are returned in insertion order so
// callers can run on-expiry reactions.
func (s *Store) Tick(dt float64) []Effect {
	if dt <= 0 || len(s.effects) == 0 {
		return nil
	}

	var expired []Effect
	n := 0
	for _, e := range s.effects {
		if !e.IsDurable() {
			e.Duration -= dt
			if e.Duration <= epsilon {
				e.Duration = 0
				expired = append(expired, e)
				continue
			}
		}
		s.effects[n] = e
		n++
	}
	clear(s.effects[n:])
	s.effects = s.effects[:n]
	return expired
}

// Query returns copies of all active effects of a kind.
func (s *Store) Query(kind Kind) []Effect {
	var result []Effect
	for _, e := range s.effects {
		if e.Kind == kind {
			result = append(result, e)
		}
	}
	return result
}

// Find returns the effect with the given kind and source.
func (s *Store) Find(kind Kind, source string) (Effect, bool) {
	for _, e := range s.effects {
		if e.matches(kind, source) {
			return e, true
		}
	}
	return Effect{}, false
}

// Has reports whether any effect of the kind is active.
func (s *Store) Has(kind Kind) bool {
	for _, e := range s.effects {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// Stacks returns the summed stack count of a kind.
func (s *Store) Stacks(kind Kind) int {
	total := 0
	for _, e := range s.effects {
		if e.Kind == kind {
			total += e.Stacks
		}
	}
	return total
}

// Total returns the summed magnitude×stacks of a kind.
func (s *Store) Total(kind Kind) float64 {
	total := 0.0
	for _, e := range s.effects {
		if e.Kind == kind {
			total += e.Total()
		}
	}
	return total
}

// Remove deletes the effect with the given kind and source.
// Returns true if an effect was removed.
func (s *Store) Remove(kind Kind, source string) bool {
	for i, e := range s.effects {
		if e.matches(kind, source) {
			s.effects = slices.Delete(s.effects, i, i+1)
			return true
		}
	}
	return false
}

// RemoveKind deletes every effect of a kind and returns them.
func (s *Store) RemoveKind(kind Kind) []Effect {
	var removed []Effect
	n := 0
	for _, e := range s.effects {
		if e.Kind == kind {
			removed = append(removed, e)
			continue
		}
		s.effects[n] = e
		n++
	}
	clear(s.effects[n:])
	s.effects = s.effects[:n]
	return removed
}

// All returns a copy of every active effect in insertion order.
func (s *Store) All() []Effect {
	result := make([]Effect, len(s.effects))
	copy(result, s.effects)
	return result
}

// Len returns the number of active effects.
func (s *Store) Len() int {
	return len(s.effects)
}

// Clear removes every effect.
func (s *Store) Clear() {
	s.effects = s.effects[:0]
}
