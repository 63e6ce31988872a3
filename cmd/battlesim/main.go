// Package main is the entry point for battlesim, which runs seeded battles
// between kit-driven teams and prints the outcomes.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/samdwyer/battlekit/internal/config"
	"github.com/samdwyer/battlekit/internal/cue"
	"github.com/samdwyer/battlekit/internal/executor"
	"github.com/samdwyer/battlekit/internal/game"
	"github.com/samdwyer/battlekit/internal/gamedata"
	"github.com/samdwyer/battlekit/internal/kit"
	"github.com/samdwyer/battlekit/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "battlesim.yaml", "path to YAML config")
	verbose := flag.Bool("cues", false, "log every UI cue at debug level")
	watch := flag.Bool("watch", false, "render the first battle live in the terminal")
	flag.Parse()

	// Load .env file for local development
	// This makes BATTLEKIT_* and HONEYCOMB_BATTLEKIT_* available
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	tracer := telemetry.NoopTracer()
	if cfg.Telemetry {
		shutdown, err := setupTelemetry(ctx)
		if err != nil {
			log.Printf("Warning: telemetry setup failed: %v", err)
			log.Printf("Battles will run without observability")
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					log.Printf("Error shutting down telemetry: %v", err)
				}
			}()
			tracer = telemetry.Tracer("battle")
		}
	}

	catalog, err := gamedata.LoadCatalog()
	if err != nil {
		log.Fatalf("Failed to load game data: %v", err)
	}
	kits := kit.NewRegistry(catalog, executor.New(telemetry.Tracer("executor"), logger))

	var sink cue.Sink
	if *verbose {
		sink = cue.LogSink{Logger: logger}
	}

	if *watch {
		res, err := watchBattle(ctx, cfg, catalog, kits, tracer, logger)
		if err != nil {
			log.Fatalf("Battle error: %v", err)
		}
		printSummary(os.Stdout, []game.Result{res}, 0)
		return
	}

	start := time.Now()
	results, err := game.RunBatch(ctx, cfg.Battles, cfg.Parallelism, func(i int) (*game.Battle, error) {
		battleCfg := cfg.Battle(i)
		if battleCfg.Seed == 0 {
			battleCfg.Seed = time.Now().UnixNano() + int64(i)
		}
		roster, err := cfg.BuildRoster(catalog, rand.New(rand.NewSource(battleCfg.Seed)))
		if err != nil {
			return nil, err
		}
		return game.NewBattle(battleCfg, roster, catalog, kits, game.Options{
			Sink:   sink,
			Tracer: tracer,
			Logger: logger,
		}), nil
	})
	if err != nil {
		log.Fatalf("Battle error: %v", err)
	}

	printSummary(os.Stdout, results, time.Since(start))
}

// printSummary writes one block per battle and the win tally.
func printSummary(w io.Writer, results []game.Result, elapsed time.Duration) {
	wins := map[string]int{}
	for i, res := range results {
		winner := res.Winner
		if winner == "" {
			winner = "draw"
		}
		wins[winner]++
		fmt.Fprintf(w, "battle %d seed=%d %s winner=%s duration=%.1fs turns=%d\n",
			i+1, res.Seed, res.Outcome, winner, res.Duration, res.Turns)
		for _, a := range res.Actors {
			state := "up"
			if !a.Alive {
				state = "down"
			}
			fmt.Fprintf(w, "  %-4s %-10s hp=%4.0f/%-4.0f dealt=%6.0f taken=%6.0f %s\n",
				a.Team, a.Name, a.HP, a.MaxHP, a.DamageDealt, a.DamageTaken, state)
		}
	}
	fmt.Fprintf(w, "blue=%d red=%d draw=%d in %s\n", wins["blue"], wins["red"], wins["draw"], elapsed.Round(time.Millisecond))
}

// setupTelemetry reads exporter options from the environment and installs
// the tracer provider.
func setupTelemetry(ctx context.Context) (func(context.Context) error, error) {
	opts, err := telemetry.OptionsFromEnv()
	if err != nil {
		return nil, err
	}
	if opts.APIKey == "" {
		log.Printf("Note: HONEYCOMB_BATTLEKIT_API_KEY not set, traces go to %s unauthenticated", opts.Endpoint)
	}
	return telemetry.Setup(ctx, opts)
}
