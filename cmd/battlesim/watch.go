package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/battlekit/internal/config"
	"github.com/samdwyer/battlekit/internal/game"
	"github.com/samdwyer/battlekit/internal/gamedata"
	"github.com/samdwyer/battlekit/internal/kit"
	"github.com/samdwyer/battlekit/internal/ui"
)

// feedLines is how many cues the live view keeps on screen.
const feedLines = 12

// watchBattle runs the first configured battle in real time on the terminal.
// Escape, Ctrl-C or q stop it early.
func watchBattle(ctx context.Context, cfg config.Config, catalog *gamedata.Catalog, kits *kit.Registry, tracer trace.Tracer, logger *slog.Logger) (game.Result, error) {
	battleCfg := cfg.Battle(0)
	if battleCfg.Seed == 0 {
		battleCfg.Seed = time.Now().UnixNano()
	}
	roster, err := cfg.BuildRoster(catalog, rand.New(rand.NewSource(battleCfg.Seed)))
	if err != nil {
		return game.Result{}, err
	}

	screen, err := ui.NewScreen()
	if err != nil {
		return game.Result{}, fmt.Errorf("open terminal: %w", err)
	}
	defer screen.Close()

	feed := ui.NewFeed(feedLines)
	renderer := ui.NewRenderer(screen, feed)
	// The screen owns the terminal, so logs would corrupt the view.
	quiet := slog.New(slog.DiscardHandler)
	b := game.NewBattle(battleCfg, roster, catalog, kits, game.Options{Sink: feed, Tracer: tracer, Logger: quiet})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		for {
			switch ev := screen.PollEvent().(type) {
			case nil:
				return
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					cancel()
					return
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		}
	}()

	if err := b.Start(ctx); err != nil {
		return game.Result{}, err
	}
	ticker := time.NewTicker(time.Duration(battleCfg.Step * float64(time.Second)))
	defer ticker.Stop()
	for !b.Phase().Done() {
		renderer.Render(b.Roster, b.Clock())
		select {
		case <-ctx.Done():
			logger.Info("battle stopped", "battle", b.ID, "clock", b.Clock())
			return b.Result(), nil
		case <-ticker.C:
		}
		b.Step(ctx)
	}
	renderer.Render(b.Roster, b.Clock())
	return b.Result(), nil
}
