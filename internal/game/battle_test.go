package game

import (
	"context"
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/battlekit/internal/cue"
	"github.com/samdwyer/battlekit/internal/entity"
	"github.com/samdwyer/battlekit/internal/executor"
	"github.com/samdwyer/battlekit/internal/gamedata"
	"github.com/samdwyer/battlekit/internal/kit"
	"github.com/samdwyer/battlekit/internal/status"
)

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase    Phase
		expected string
	}{
		{PhasePending, "pending"},
		{PhaseRunning, "running"},
		{PhaseFinished, "finished"},
		{PhaseExpired, "expired"},
		{Phase("sideways"), "unknown"},
	}

	for _, tt := range tests {
		got := tt.phase.String()
		if got != tt.expected {
			t.Errorf("Phase(%q).String() = %q, want %q", string(tt.phase), got, tt.expected)
		}
	}
}

func TestPhaseDone(t *testing.T) {
	tests := []struct {
		phase Phase
		done  bool
	}{
		{PhasePending, false},
		{PhaseRunning, false},
		{PhaseFinished, true},
		{PhaseExpired, true},
	}

	for _, tt := range tests {
		if got := tt.phase.Done(); got != tt.done {
			t.Errorf("%s.Done() = %v, want %v", tt.phase, got, tt.done)
		}
	}
}

// newTestBattle builds a battle over the embedded catalog.
func newTestBattle(t *testing.T, cfg Config, sink cue.Sink, roster ...*entity.Actor) *Battle {
	t.Helper()
	catalog, err := gamedata.LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog() error: %v", err)
	}
	kits := kit.NewRegistry(catalog, executor.New(nil, nil))
	return NewBattle(cfg, roster, catalog, kits, Options{Sink: sink})
}

// character creates an actor from a character definition.
func character(t *testing.T, id string, team entity.Team) *entity.Actor {
	t.Helper()
	catalog, err := gamedata.LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog() error: %v", err)
	}
	def, err := catalog.Character(id)
	if err != nil {
		t.Fatalf("Character(%q) error: %v", id, err)
	}
	return entity.NewActorFromDef(def, team, 1)
}

func TestNewBattle(t *testing.T) {
	b := newTestBattle(t, Config{}, nil,
		entity.NewActor("A", entity.TeamBlue),
		entity.NewActor("B", entity.TeamRed),
	)

	if b.Phase() != PhasePending {
		t.Errorf("Phase() = %v, want pending", b.Phase())
	}
	if b.Seed == 0 {
		t.Error("Seed should be generated when config seed is 0")
	}
	if b.cfg.Step != DefaultStep {
		t.Errorf("Step = %v, want %v", b.cfg.Step, DefaultStep)
	}
	if b.cfg.MaxSeconds != DefaultMaxSeconds {
		t.Errorf("MaxSeconds = %v, want %v", b.cfg.MaxSeconds, DefaultMaxSeconds)
	}
}

func TestBattleRunFinishes(t *testing.T) {
	blue := character(t, "berserker", entity.TeamBlue)
	red := character(t, "militia", entity.TeamRed)
	Deploy(entity.Roster{blue, red}, 2)
	rec := &cue.Recorder{}
	b := newTestBattle(t, Config{Seed: 1}, rec, blue, red)

	res, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if res.Outcome != PhaseFinished {
		t.Errorf("Outcome = %v, want finished", res.Outcome)
	}
	if res.Winner != "blue" {
		t.Errorf("Winner = %q, want blue", res.Winner)
	}
	if red.IsAlive() {
		t.Error("militia should be defeated")
	}
	if res.Turns == 0 {
		t.Error("Turns should be counted")
	}
	if res.Actors[0].DamageDealt < red.MaxHP {
		t.Errorf("berserker DamageDealt = %v, want at least %v", res.Actors[0].DamageDealt, red.MaxHP)
	}
	if res.Actors[1].DamageTaken != res.Actors[0].DamageDealt {
		t.Errorf("militia DamageTaken = %v, want %v", res.Actors[1].DamageTaken, res.Actors[0].DamageDealt)
	}
	if rec.Count(cue.KindAbilityName) == 0 {
		t.Error("expected ability name cues")
	}

	// A finished battle ignores further steps.
	steps := res.Steps
	b.Step(context.Background())
	if got := b.Result().Steps; got != steps {
		t.Errorf("Steps after finish = %d, want %d", got, steps)
	}
}

func TestBattleDeterministic(t *testing.T) {
	run := func() Result {
		blue := character(t, "berserker", entity.TeamBlue)
		red := character(t, "pyromancer", entity.TeamRed)
		Deploy(entity.Roster{blue, red}, 2)
		b := newTestBattle(t, Config{Seed: 42}, nil, blue, red)
		res, err := b.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
		return res
	}

	first, second := run(), run()
	if first.Turns != second.Turns || first.Steps != second.Steps || first.Winner != second.Winner {
		t.Fatalf("runs differ: %+v vs %+v", first, second)
	}
	for i := range first.Actors {
		if first.Actors[i].HP != second.Actors[i].HP {
			t.Errorf("actor %d HP = %v and %v, want equal", i, first.Actors[i].HP, second.Actors[i].HP)
		}
		if first.Actors[i].DamageDealt != second.Actors[i].DamageDealt {
			t.Errorf("actor %d DamageDealt = %v and %v, want equal", i, first.Actors[i].DamageDealt, second.Actors[i].DamageDealt)
		}
	}
}

func TestBattleExpires(t *testing.T) {
	b := newTestBattle(t, Config{Seed: 1, Step: 0.25, MaxSeconds: 1}, nil,
		entity.NewActor("A", entity.TeamBlue),
		entity.NewActor("B", entity.TeamRed),
	)

	res, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.Outcome != PhaseExpired {
		t.Errorf("Outcome = %v, want expired", res.Outcome)
	}
	if res.Steps != 4 {
		t.Errorf("Steps = %d, want 4", res.Steps)
	}
	if res.Winner != "" {
		t.Errorf("Winner = %q, want draw", res.Winner)
	}
}

func TestBattleExpiredLeaderOnTime(t *testing.T) {
	blue := entity.NewActor("A", entity.TeamBlue)
	red := entity.NewActor("B", entity.TeamRed)
	red.TakeDamage(30)
	b := newTestBattle(t, Config{Seed: 1, Step: 0.25, MaxSeconds: 0.5}, nil, blue, red)

	res, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.Winner != "blue" {
		t.Errorf("Winner = %q, want blue", res.Winner)
	}
}

func TestBattleEmptySide(t *testing.T) {
	b := newTestBattle(t, Config{Seed: 1}, nil, entity.NewActor("A", entity.TeamBlue))

	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if b.Phase() != PhaseFinished {
		t.Errorf("Phase() = %v, want finished", b.Phase())
	}
	if got := b.Result().Winner; got != "blue" {
		t.Errorf("Winner = %q, want blue", got)
	}
}

func TestBattleStartTwice(t *testing.T) {
	b := newTestBattle(t, Config{Seed: 1},
		nil,
		entity.NewActor("A", entity.TeamBlue),
		entity.NewActor("B", entity.TeamRed),
	)
	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if err := b.Start(context.Background()); err == nil {
		t.Error("second Start() should fail")
	}
}

func TestBattleGaugeFillsThenActs(t *testing.T) {
	blue := entity.NewActor("A", entity.TeamBlue)
	red := entity.NewActor("B", entity.TeamRed)
	red.SetPosition(1, 0)
	b := newTestBattle(t, Config{Seed: 1, Step: 0.5, MaxSeconds: 60}, nil, blue, red)
	ctx := context.Background()
	if err := b.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	// Speed 50 gains 25 gauge per half-second step.
	for range 3 {
		b.Step(ctx)
	}
	if got := b.Result().Turns; got != 0 {
		t.Fatalf("Turns after 3 steps = %d, want 0", got)
	}
	if blue.Gauge != 75 {
		t.Errorf("Gauge = %v, want 75", blue.Gauge)
	}

	b.Step(ctx)
	if got := b.Result().Turns; got != 2 {
		t.Errorf("Turns after 4 steps = %d, want 2", got)
	}
	if blue.Gauge != 0 {
		t.Errorf("Gauge after acting = %v, want 0", blue.Gauge)
	}
	if red.HP >= red.MaxHP {
		t.Error("red should have been hit")
	}
}

func TestBattleStunHoldsGauge(t *testing.T) {
	blue := entity.NewActor("A", entity.TeamBlue)
	red := entity.NewActor("B", entity.TeamRed)
	blue.ApplyStatus(status.Effect{Kind: status.KindStun, Duration: 10})
	b := newTestBattle(t, Config{Seed: 1, Step: 0.5, MaxSeconds: 60}, nil, blue, red)
	ctx := context.Background()
	if err := b.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	for range 6 {
		b.Step(ctx)
	}
	if blue.Gauge != entity.GaugeFull {
		t.Errorf("stunned Gauge = %v, want %v", blue.Gauge, entity.GaugeFull)
	}
	if red.HP != red.MaxHP {
		t.Errorf("stunned actor acted: red HP = %v", red.HP)
	}
}

func TestBattleRecordDamage(t *testing.T) {
	blue := entity.NewActor("A", entity.TeamBlue)
	red := entity.NewActor("B", entity.TeamRed)
	b := newTestBattle(t, Config{Seed: 1}, nil, blue, red)

	b.RecordDamage(blue, red, 12)
	b.RecordDamage(blue, red, 3)
	b.RecordDamage(blue, red, 0)
	b.RecordDamage(nil, red, 5)

	res := b.Result()
	if res.Actors[0].DamageDealt != 15 {
		t.Errorf("DamageDealt = %v, want 15", res.Actors[0].DamageDealt)
	}
	if res.Actors[1].DamageTaken != 20 {
		t.Errorf("DamageTaken = %v, want 20", res.Actors[1].DamageTaken)
	}
}

func TestBattleTeams(t *testing.T) {
	a := entity.NewActor("A", entity.TeamBlue)
	c := entity.NewActor("C", entity.TeamRed)
	d := entity.NewActor("D", entity.TeamBlue)
	b := newTestBattle(t, Config{Seed: 1}, nil, a, c, d)

	enemies := b.Enemies(a)
	if len(enemies) != 1 || enemies[0] != c {
		t.Errorf("Enemies(A) = %v, want [C]", enemies)
	}
	allies := b.Allies(a)
	if len(allies) != 2 || allies[0] != a || allies[1] != d {
		t.Errorf("Allies(A) = %v, want [A D]", allies)
	}
	if got := b.ElementColor("fire"); got != tcell.NewRGBColor(0xFF, 0x45, 0x00) {
		t.Errorf("ElementColor(fire) = %v", got)
	}
}

func TestDeploy(t *testing.T) {
	roster := entity.Roster{
		entity.NewActor("A", entity.TeamBlue),
		entity.NewActor("B", entity.TeamRed),
		entity.NewActor("C", entity.TeamBlue),
	}
	Deploy(roster, 4)

	if roster[0].X != 0 || roster[0].Y != 0 {
		t.Errorf("A at (%v,%v), want (0,0)", roster[0].X, roster[0].Y)
	}
	if roster[1].X != 4 || roster[1].Y != 0 {
		t.Errorf("B at (%v,%v), want (4,0)", roster[1].X, roster[1].Y)
	}
	if roster[2].X != 0 || roster[2].Y != 1 {
		t.Errorf("C at (%v,%v), want (0,1)", roster[2].X, roster[2].Y)
	}

	// Positions already set are kept.
	roster[2].SetPosition(9, 9)
	Deploy(roster, 4)
	if roster[2].X != 9 {
		t.Errorf("Deploy moved a placed roster")
	}
}

// cancelSink cancels the battle context on the first cue.
type cancelSink struct{ cancel context.CancelFunc }

func (s cancelSink) Send(cue.Cue) { s.cancel() }

func TestBattleRunInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b := newTestBattle(t, Config{Seed: 1}, cancelSink{cancel},
		entity.NewActor("A", entity.TeamBlue),
		entity.NewActor("B", entity.TeamRed),
	)

	res, err := b.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if res.Outcome != PhaseRunning {
		t.Errorf("Outcome = %v, want running", res.Outcome)
	}
}

func TestRunBatch(t *testing.T) {
	battles := make([]*Battle, 4)
	for i := range battles {
		blue := character(t, "militia", entity.TeamBlue)
		red := character(t, "militia", entity.TeamRed)
		Deploy(entity.Roster{blue, red}, 1)
		battles[i] = newTestBattle(t, Config{Seed: int64(i + 1)}, nil, blue, red)
	}

	results, err := RunBatch(context.Background(), len(battles), 2, func(i int) (*Battle, error) {
		return battles[i], nil
	})
	if err != nil {
		t.Fatalf("RunBatch() error: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("len(results) = %d, want 4", len(results))
	}
	for i, res := range results {
		if res.Seed != int64(i+1) {
			t.Errorf("results[%d].Seed = %d, want %d", i, res.Seed, i+1)
		}
		if !res.Outcome.Done() {
			t.Errorf("results[%d].Outcome = %v, want terminal", i, res.Outcome)
		}
	}
}

func TestRunBatchError(t *testing.T) {
	boom := errors.New("boom")
	b := newTestBattle(t, Config{Seed: 1, MaxSeconds: 1}, nil,
		entity.NewActor("A", entity.TeamBlue),
		entity.NewActor("B", entity.TeamRed),
	)
	_, err := RunBatch(context.Background(), 2, 1, func(i int) (*Battle, error) {
		if i == 1 {
			return nil, boom
		}
		return b, nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("RunBatch() error = %v, want boom", err)
	}
}
