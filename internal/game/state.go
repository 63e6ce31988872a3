// Package game runs battles: it drives every actor's passive step, fills
// action gauges and lets kits decide and execute when a gauge is full.
package game

import (
	"context"
	"log/slog"

	"github.com/looplab/fsm"
)

// Phase is the lifecycle state of a battle.
type Phase string

const (
	// PhasePending - created, not yet started
	PhasePending Phase = "pending"
	// PhaseRunning - actors are acting
	PhaseRunning Phase = "running"
	// PhaseFinished - one team has been defeated
	PhaseFinished Phase = "finished"
	// PhaseExpired - the time limit ran out with both teams standing
	PhaseExpired Phase = "expired"
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhasePending, PhaseRunning, PhaseFinished, PhaseExpired:
		return string(p)
	default:
		return "unknown"
	}
}

// Done reports whether the phase is terminal.
func (p Phase) Done() bool {
	return p == PhaseFinished || p == PhaseExpired
}

const (
	eventStart  = "start"
	eventFinish = "finish"
	eventExpire = "expire"
)

// newPhaseMachine builds the battle lifecycle: pending -> running ->
// finished or expired.
func newPhaseMachine(logger *slog.Logger) *fsm.FSM {
	return fsm.NewFSM(
		string(PhasePending),
		fsm.Events{
			{Name: eventStart, Src: []string{string(PhasePending)}, Dst: string(PhaseRunning)},
			{Name: eventFinish, Src: []string{string(PhaseRunning)}, Dst: string(PhaseFinished)},
			{Name: eventExpire, Src: []string{string(PhaseRunning)}, Dst: string(PhaseExpired)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				logger.Debug("battle phase changed", "from", e.Src, "to", e.Dst, "event", e.Event)
			},
		},
	)
}
