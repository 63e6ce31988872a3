package ui

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/battlekit/internal/cue"
)

// Line is one rendered cue.
type Line struct {
	Text  string
	Color tcell.Color
}

// Feed is a cue sink keeping the most recent cues as display lines.
type Feed struct {
	mu    sync.Mutex
	limit int
	lines []Line
}

// NewFeed creates a feed holding up to limit lines.
func NewFeed(limit int) *Feed {
	return &Feed{limit: max(1, limit)}
}

// Send implements cue.Sink.
func (f *Feed) Send(c cue.Cue) {
	line := Line{Text: format(c), Color: c.Color}
	if line.Color == tcell.ColorDefault {
		line.Color = tcell.ColorWhite
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines = append(f.lines, line)
	if over := len(f.lines) - f.limit; over > 0 {
		f.lines = f.lines[over:]
	}
}

// Lines returns the buffered lines, oldest first.
func (f *Feed) Lines() []Line {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Line, len(f.lines))
	copy(out, f.lines)
	return out
}

func format(c cue.Cue) string {
	switch c.Kind {
	case cue.KindFloatingText:
		return c.Actor + ": " + c.Text
	case cue.KindAbilityName:
		return c.Actor + " uses " + c.Text
	case cue.KindVFX:
		return c.Actor + " *" + c.Effect + "*"
	default:
		return c.Text
	}
}
