package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/battlekit/internal/entity"
)

// Layout of the battle view.
const (
	arenaLeft   = 1
	arenaTop    = 2
	arenaWidth  = 40
	arenaHeight = 10
	panelLeft   = arenaLeft + arenaWidth + 3
	barWidth    = 10
)

// Renderer handles drawing a battle to the screen.
type Renderer struct {
	screen *Screen
	feed   *Feed
	scale  float64 // Cells per world unit along x
}

// NewRenderer creates a new renderer for the given screen. feed may be nil.
func NewRenderer(screen *Screen, feed *Feed) *Renderer {
	return &Renderer{screen: screen, feed: feed, scale: 4}
}

// Render draws the arena, the roster panel and the cue feed.
func (r *Renderer) Render(roster entity.Roster, clock float64) {
	r.screen.Clear()

	header := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	r.screen.DrawText(arenaLeft, 0, fmt.Sprintf("t=%.1fs  blue %d  red %d", clock,
		roster.AliveCount(entity.TeamBlue), roster.AliveCount(entity.TeamRed)), header)

	r.drawBorder()

	for _, a := range roster {
		x, y := r.cell(a)
		r.screen.SetContent(x, y, actorRune(a), r.actorStyle(a))
	}

	for i, a := range roster {
		r.drawStatus(panelLeft, arenaTop+i, a)
	}

	if r.feed != nil {
		for i, line := range r.feed.Lines() {
			r.RenderMessage(line.Text, arenaTop+arenaHeight+2+i, line.Color)
		}
	}

	r.screen.Show()
}

// cell maps an actor position into the arena, clamped to its edges.
func (r *Renderer) cell(a *entity.Actor) (int, int) {
	x := arenaLeft + 1 + int(a.X*r.scale)
	y := arenaTop + 1 + int(a.Y)
	x = min(max(x, arenaLeft+1), arenaLeft+arenaWidth-2)
	y = min(max(y, arenaTop+1), arenaTop+arenaHeight-2)
	return x, y
}

func (r *Renderer) drawBorder() {
	style := tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	right := arenaLeft + arenaWidth - 1
	bottom := arenaTop + arenaHeight - 1
	for x := arenaLeft; x <= right; x++ {
		r.screen.SetContent(x, arenaTop, '-', style)
		r.screen.SetContent(x, bottom, '-', style)
	}
	for y := arenaTop + 1; y < bottom; y++ {
		r.screen.SetContent(arenaLeft, y, '|', style)
		r.screen.SetContent(right, y, '|', style)
	}
}

// drawStatus writes "name [####------] hp energy" for one actor.
func (r *Renderer) drawStatus(x, y int, a *entity.Actor) {
	style := r.actorStyle(a)
	filled := min(max(int(a.HPFraction()*barWidth+0.5), 0), barWidth)
	bar := "[" + strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled) + "]"
	text := fmt.Sprintf("%c %-10s %s %4.0f/%-4.0f en %3.0f", actorRune(a), a.Name, bar, max(0, a.HP), a.MaxHP, a.Energy)
	r.screen.DrawText(x, y, text, style)
}

// actorStyle colors by team; fallen actors are grayed out.
func (r *Renderer) actorStyle(a *entity.Actor) tcell.Style {
	if !a.IsAlive() {
		return tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	}
	if a.Team == entity.TeamRed {
		return tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	}
	return tcell.StyleDefault.Foreground(tcell.ColorDodgerBlue).Bold(true)
}

func actorRune(a *entity.Actor) rune {
	if !a.IsAlive() {
		return '%'
	}
	return a.Symbol
}

// RenderMessage displays a message on row y.
func (r *Renderer) RenderMessage(msg string, y int, color tcell.Color) {
	r.screen.DrawText(arenaLeft, y, msg, tcell.StyleDefault.Foreground(color))
}
