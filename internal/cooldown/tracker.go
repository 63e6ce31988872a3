// Package cooldown tracks per-ability cooldown timers.
package cooldown

// epsilon absorbs float drift from repeated subtraction of dt. A timer this
// close to zero is ready.
const epsilon = 1e-9

// Tracker holds remaining cooldown seconds keyed by ability ID.
// An ability is ready when its timer is absent or at zero.
type Tracker struct {
	timers map[string]float64
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{timers: make(map[string]float64)}
}

// Start sets the remaining time for an ability, overwriting any running timer.
func (t *Tracker) Start(ability string, seconds float64) {
	if !(seconds > 0) {
		t.timers[ability] = 0
		return
	}
	t.timers[ability] = seconds
}

// Tick decrements every running timer by dt, clamping at zero.
func (t *Tracker) Tick(dt float64) {
	if dt <= 0 {
		return
	}
	for name, remaining := range t.timers {
		if remaining <= 0 {
			continue
		}
		remaining -= dt
		if remaining <= epsilon {
			remaining = 0
		}
		t.timers[name] = remaining
	}
}

// IsReady reports whether the ability can be used.
func (t *Tracker) IsReady(ability string) bool {
	return t.timers[ability] <= 0
}

// Remaining returns seconds left on the ability's cooldown.
func (t *Tracker) Remaining(ability string) float64 {
	return t.timers[ability]
}

// Reset makes the ability ready immediately.
func (t *Tracker) Reset(ability string) {
	delete(t.timers, ability)
}

// Timers returns a copy of every timer.
func (t *Tracker) Timers() map[string]float64 {
	result := make(map[string]float64, len(t.timers))
	for name, remaining := range t.timers {
		result[name] = remaining
	}
	return result
}
