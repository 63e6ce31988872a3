package cue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"
)

// Recorder keeps every cue in memory. Used by tests and battle reports.
type Recorder struct {
	Cues []Cue
}

// Send implements Sink.
func (r *Recorder) Send(c Cue) {
	r.Cues = append(r.Cues, c)
}

// Count returns how many cues of a kind were recorded.
func (r *Recorder) Count(kind Kind) int {
	n := 0
	for _, c := range r.Cues {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// LogSink writes cues to a structured logger at debug level.
type LogSink struct {
	Logger *slog.Logger
}

// Send implements Sink.
func (s LogSink) Send(c Cue) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []slog.Attr{slog.String("kind", string(c.Kind))}
	if c.Actor != "" {
		attrs = append(attrs, slog.String("actor", c.Actor))
	}
	if c.Text != "" {
		attrs = append(attrs, slog.String("text", c.Text))
	}
	if c.Effect != "" {
		attrs = append(attrs, slog.String("effect", c.Effect))
	}
	if c.Color != tcell.ColorDefault {
		attrs = append(attrs, slog.String("color", hexColor(c.Color)))
	}
	logger.LogAttrs(context.Background(), slog.LevelDebug, "cue", attrs...)
}

// Fanout sends each cue to every sink in order.
type Fanout []Sink

// Send implements Sink.
func (f Fanout) Send(c Cue) {
	for _, s := range f {
		if s != nil {
			s.Send(c)
		}
	}
}

func hexColor(c tcell.Color) string {
	r, g, b := c.RGB()
	if r < 0 {
		return "default"
	}
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}
