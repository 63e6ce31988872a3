package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/battlekit/internal/cue"
	"github.com/samdwyer/battlekit/internal/entity"
	"github.com/samdwyer/battlekit/internal/executor"
	"github.com/samdwyer/battlekit/internal/gamedata"
	"github.com/samdwyer/battlekit/internal/kit"
	"github.com/samdwyer/battlekit/internal/passive"
	"github.com/samdwyer/battlekit/internal/telemetry"
)

// clockEpsilon absorbs float drift when comparing the clock to the limit.
const clockEpsilon = 1e-9

// Battle holds all state for one simulated fight between two teams.
// A Battle is driven from a single goroutine.
type Battle struct {
	ID     uuid.UUID
	Seed   int64
	Roster entity.Roster

	cfg      Config
	catalog  *gamedata.Catalog
	kits     *kit.Registry
	driver   *passive.Driver
	notifier *cue.Notifier
	rng      *rand.Rand
	phase    *fsm.FSM
	tracer   trace.Tracer
	logger   *slog.Logger

	clock  float64
	steps  int
	turns  int
	winner string
	dealt  map[uuid.UUID]float64
	taken  map[uuid.UUID]float64
}

// Options carries the optional collaborators of a battle.
type Options struct {
	Sink   cue.Sink // Receives UI cues, may be nil
	Tracer trace.Tracer
	Logger *slog.Logger
}

// NewBattle creates a pending battle over the roster. Roster order is the
// processing order of every step.
func NewBattle(cfg Config, roster entity.Roster, catalog *gamedata.Catalog, kits *kit.Registry, opts Options) *Battle {
	cfg = cfg.withDefaults()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = telemetry.NoopTracer()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	id := uuid.New()
	logger = logger.With("battle", id.String())
	notifier := cue.NewNotifier(opts.Sink, logger)
	return &Battle{
		ID:       id,
		Seed:     seed,
		Roster:   roster,
		cfg:      cfg,
		catalog:  catalog,
		kits:     kits,
		driver:   passive.NewDriver(notifier, logger),
		notifier: notifier,
		rng:      rand.New(rand.NewSource(seed)),
		phase:    newPhaseMachine(logger),
		tracer:   tracer,
		logger:   logger,
		dealt:    make(map[uuid.UUID]float64),
		taken:    make(map[uuid.UUID]float64),
	}
}

// =============================================================================
// executor.Battle implementation
// =============================================================================

// Enemies returns the opposing team in roster order.
func (b *Battle) Enemies(of *entity.Actor) []*entity.Actor {
	return b.Roster.Members(of.Team.Opponent())
}

// Allies returns the actor's team, itself included, in roster order.
func (b *Battle) Allies(of *entity.Actor) []*entity.Actor {
	return b.Roster.Members(of.Team)
}

// Notifier returns the battle's cue notifier.
func (b *Battle) Notifier() *cue.Notifier { return b.notifier }

// Rand returns the battle's seeded random source.
func (b *Battle) Rand() *rand.Rand { return b.rng }

// ElementColor returns the cue color of an element.
func (b *Battle) ElementColor(element string) tcell.Color {
	if b.catalog == nil {
		return tcell.ColorWhite
	}
	return b.catalog.ElementColor(element)
}

// RecordDamage tallies damage dealt and taken.
func (b *Battle) RecordDamage(source, target *entity.Actor, amount float64) {
	if amount <= 0 {
		return
	}
	if source != nil {
		b.dealt[source.ID] += amount
	}
	if target != nil {
		b.taken[target.ID] += amount
	}
}

var _ executor.Battle = (*Battle)(nil)

// =============================================================================
// Loop
// =============================================================================

// Phase returns the current lifecycle phase.
func (b *Battle) Phase() Phase { return Phase(b.phase.Current()) }

// Clock returns simulated seconds elapsed.
func (b *Battle) Clock() float64 { return b.clock }

// Start moves a pending battle to running.
func (b *Battle) Start(ctx context.Context) error {
	_, span := b.tracer.Start(ctx, "battle.start")
	span.SetAttributes(
		attribute.String("battle.id", b.ID.String()),
		attribute.Int64("seed", b.Seed),
		attribute.Int("blue_size", len(b.Roster.Members(entity.TeamBlue))),
		attribute.Int("red_size", len(b.Roster.Members(entity.TeamRed))),
	)
	span.End()

	if err := b.phase.Event(ctx, eventStart); err != nil {
		return fmt.Errorf("start battle: %w", err)
	}
	// A battle with an empty side is over before anyone acts.
	b.checkEnd(ctx)
	return nil
}

// Step advances the battle by one step: every actor's passive update in
// roster order, then action gauges in roster order. An actor whose gauge
// fills takes a turn.
func (b *Battle) Step(ctx context.Context) {
	if b.Phase() != PhaseRunning {
		return
	}
	dt := b.cfg.Step

	for _, a := range b.Roster {
		b.driver.Step(a, b.kits.For(a.Kit), dt)
	}

	for _, a := range b.Roster {
		if b.decided() {
			break
		}
		if !a.IsAlive() {
			continue
		}
		a.Gauge += a.GaugeRate() * dt
		if a.Gauge < entity.GaugeFull {
			continue
		}
		if a.IsStunned() {
			// Acts as soon as the stun ends.
			a.Gauge = entity.GaugeFull
			continue
		}
		a.Gauge -= entity.GaugeFull
		b.takeTurn(ctx, a)
	}

	b.clock += dt
	b.steps++
	b.checkEnd(ctx)
}

// takeTurn asks the actor's kit for a decision and executes it.
func (b *Battle) takeTurn(ctx context.Context, a *entity.Actor) {
	k := b.kits.For(a.Kit)
	d := k.Decide(a, b.Enemies(a), b.Allies(a))
	if d.IsNoOp() {
		return
	}

	ctx, span := b.tracer.Start(ctx, "battle.turn")
	defer span.End()

	desc, ok := k.ParseAbility(d.Ability, a.Level)
	if !ok {
		b.logger.Debug("unknown ability, using basic strike", "actor", a.Name, "ability", d.Ability)
	}
	out := k.Execute(ctx, b, a, d, desc)
	b.turns++

	attrs := []attribute.KeyValue{
		attribute.String("actor", a.Name),
		attribute.String("ability", out.Ability),
		attribute.Int("turn", b.turns),
		attribute.Float64("clock", b.clock),
		attribute.Bool("executed", out.Executed),
	}
	if t := d.Primary(); t != nil {
		attrs = append(attrs, attribute.String("target", t.Name))
	}
	if out.Damage > 0 {
		attrs = append(attrs, attribute.Float64("damage", out.Damage))
	}
	if out.Healed > 0 {
		attrs = append(attrs, attribute.Float64("healing", out.Healed))
	}
	span.SetAttributes(attrs...)

	b.logger.Debug("turn",
		"actor", a.Name,
		"ability", out.Ability,
		"executed", out.Executed,
		"damage", out.Damage,
	)
}

// decided reports whether a team has been wiped out.
func (b *Battle) decided() bool {
	return b.Roster.IsDefeated(entity.TeamBlue) || b.Roster.IsDefeated(entity.TeamRed)
}

// checkEnd finishes the battle on a wipe or expires it at the time limit.
func (b *Battle) checkEnd(ctx context.Context) {
	if b.Phase() != PhaseRunning {
		return
	}
	blueDown := b.Roster.IsDefeated(entity.TeamBlue)
	redDown := b.Roster.IsDefeated(entity.TeamRed)
	switch {
	case blueDown || redDown:
		switch {
		case blueDown && !redDown:
			b.winner = entity.TeamRed.String()
		case redDown && !blueDown:
			b.winner = entity.TeamBlue.String()
		}
		b.end(ctx, eventFinish)
	case b.clock+clockEpsilon >= b.cfg.MaxSeconds:
		b.winner = b.leaderOnTime()
		b.end(ctx, eventExpire)
	}
}

// leaderOnTime picks the team with the larger share of its HP left, or
// none on a tie.
func (b *Battle) leaderOnTime() string {
	blue := b.hpShare(entity.TeamBlue)
	red := b.hpShare(entity.TeamRed)
	switch {
	case blue > red:
		return entity.TeamBlue.String()
	case red > blue:
		return entity.TeamRed.String()
	default:
		return ""
	}
}

func (b *Battle) hpShare(team entity.Team) float64 {
	maxHP := 0.0
	for _, a := range b.Roster.Members(team) {
		maxHP += a.MaxHP
	}
	if maxHP == 0 {
		return 0
	}
	return b.Roster.TotalHP(team) / maxHP
}

// end transitions to a terminal phase and records the battle.end span.
func (b *Battle) end(ctx context.Context, event string) {
	if err := b.phase.Event(ctx, event); err != nil {
		b.logger.Warn("battle phase transition failed", "event", event, "error", err)
		return
	}
	_, span := b.tracer.Start(ctx, "battle.end")
	span.SetAttributes(
		attribute.String("outcome", b.Phase().String()),
		attribute.String("winner", b.winner),
		attribute.Int("turns_taken", b.turns),
		attribute.Float64("duration", b.clock),
		attribute.Float64("blue_hp_remaining", b.Roster.TotalHP(entity.TeamBlue)),
		attribute.Float64("red_hp_remaining", b.Roster.TotalHP(entity.TeamRed)),
	)
	span.End()
}

// Run starts the battle and steps it until it ends or ctx is cancelled.
func (b *Battle) Run(ctx context.Context) (Result, error) {
	if err := b.Start(ctx); err != nil {
		return Result{}, err
	}
	for b.Phase() == PhaseRunning {
		if err := ctx.Err(); err != nil {
			return b.Result(), fmt.Errorf("battle %s interrupted: %w", b.ID, err)
		}
		b.Step(ctx)
	}
	return b.Result(), nil
}

// =============================================================================
// Report
// =============================================================================

// ActorReport is one actor's line in a battle result.
type ActorReport struct {
	Name        string
	Character   string
	Team        string
	HP, MaxHP   float64
	Alive       bool
	DamageDealt float64
	DamageTaken float64
}

// Result summarizes a battle.
type Result struct {
	ID       uuid.UUID
	Seed     int64
	Outcome  Phase
	Winner   string // Empty on a draw
	Duration float64
	Steps    int
	Turns    int
	Actors   []ActorReport
}

// Result reports the battle so far.
func (b *Battle) Result() Result {
	actors := make([]ActorReport, 0, len(b.Roster))
	for _, a := range b.Roster {
		actors = append(actors, ActorReport{
			Name:        a.Name,
			Character:   a.Character,
			Team:        a.Team.String(),
			HP:          max(0, a.HP),
			MaxHP:       a.MaxHP,
			Alive:       a.IsAlive(),
			DamageDealt: b.dealt[a.ID],
			DamageTaken: b.taken[a.ID],
		})
	}
	return Result{
		ID:       b.ID,
		Seed:     b.Seed,
		Outcome:  b.Phase(),
		Winner:   b.winner,
		Duration: b.clock,
		Steps:    b.steps,
		Turns:    b.turns,
		Actors:   actors,
	}
}

// Deploy lines teams up facing each other, gap apart, when the roster has
// no positions set.
func Deploy(roster entity.Roster, gap float64) {
	for _, a := range roster {
		if a.X != 0 || a.Y != 0 {
			return
		}
	}
	rows := map[entity.Team]int{}
	for _, a := range roster {
		x := 0.0
		if a.Team == entity.TeamRed {
			x = gap
		}
		a.SetPosition(x, float64(rows[a.Team]))
		rows[a.Team]++
	}
}
