// Package cue carries fire-and-forget UI and VFX notifications (floating
// text, effect playback, ability callouts, announcements) from ability code
// to whatever presentation layer is attached. Cues never affect game state.
package cue

import (
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"
)

// Kind identifies a cue.
type Kind string

const (
	KindFloatingText Kind = "floating_text"
	KindVFX          Kind = "vfx"
	KindAbilityName  Kind = "ability_name"
	KindAnnounce     Kind = "announce"
)

// Cue is one notification.
type Cue struct {
	Kind   Kind
	Actor  string // Actor the cue is attached to, empty for global cues
	Text   string
	Effect string // VFX keyword
	Color  tcell.Color
}

// Sink receives cues. Implementations may drop them.
type Sink interface {
	Send(c Cue)
}

// Notifier is the ability-facing side of the cue pipeline. A nil Notifier,
// a Notifier without a sink, or a sink that panics are all safe.
type Notifier struct {
	sink   Sink
	logger *slog.Logger
}

// NewNotifier creates a notifier. sink may be nil.
func NewNotifier(sink Sink, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{sink: sink, logger: logger}
}

// FloatingText shows text above an actor.
func (n *Notifier) FloatingText(actor, text string, color tcell.Color) {
	n.send(Cue{Kind: KindFloatingText, Actor: actor, Text: text, Color: color})
}

// PlayVFX plays an effect keyword at an actor.
func (n *Notifier) PlayVFX(actor, effect string) {
	n.send(Cue{Kind: KindVFX, Actor: actor, Effect: effect})
}

// ShowAbilityName shows the name of the ability an actor is using.
func (n *Notifier) ShowAbilityName(actor, ability string) {
	n.send(Cue{Kind: KindAbilityName, Actor: actor, Text: ability})
}

// Announce shows a battle-wide message.
func (n *Notifier) Announce(text string) {
	n.send(Cue{Kind: KindAnnounce, Text: text})
}

func (n *Notifier) send(c Cue) {
	if n == nil || n.sink == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			n.logger.Warn("cue sink failed", "kind", c.Kind, "panic", fmt.Sprint(r))
		}
	}()
	n.sink.Send(c)
}
