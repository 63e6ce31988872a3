package executor

import (
	"context"
	"math/rand"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/battlekit/internal/ability"
	"github.com/samdwyer/battlekit/internal/combat"
	"github.com/samdwyer/battlekit/internal/cue"
	"github.com/samdwyer/battlekit/internal/entity"
	"github.com/samdwyer/battlekit/internal/gamedata"
	"github.com/samdwyer/battlekit/internal/policy"
	"github.com/samdwyer/battlekit/internal/status"
)

type damageRecord struct {
	source, target string
	amount         float64
}

type fakeBattle struct {
	roster   entity.Roster
	rec      *cue.Recorder
	notifier *cue.Notifier
	rng      *rand.Rand
	damage   []damageRecord
}

func newFakeBattle(actors ...*entity.Actor) *fakeBattle {
	rec := &cue.Recorder{}
	return &fakeBattle{
		roster:   actors,
		rec:      rec,
		notifier: cue.NewNotifier(rec, nil),
		rng:      rand.New(rand.NewSource(1)),
	}
}

func (b *fakeBattle) Enemies(of *entity.Actor) []*entity.Actor {
	return b.roster.Members(of.Team.Opponent())
}
func (b *fakeBattle) Allies(of *entity.Actor) []*entity.Actor  { return b.roster.Members(of.Team) }
func (b *fakeBattle) Notifier() *cue.Notifier                  { return b.notifier }
func (b *fakeBattle) Rand() *rand.Rand                         { return b.rng }
func (b *fakeBattle) ElementColor(element string) tcell.Color  { return tcell.ColorWhite }
func (b *fakeBattle) RecordDamage(source, target *entity.Actor, amount float64) {
	b.damage = append(b.damage, damageRecord{source.Name, target.Name, amount})
}

// duelists returns an attacker with no crit chance and a defenseless target.
func duelists(targetHP float64) (*entity.Actor, *entity.Actor) {
	attacker := entity.NewActor("Attacker", entity.TeamBlue)
	attacker.Base = combat.Stats{Attack: 0, Speed: 50}
	target := entity.NewActor("Target", entity.TeamRed)
	target.Base = combat.Stats{Speed: 50}
	target.HP = targetHP
	target.MaxHP = targetHP
	target.SetPosition(1, 0)
	return attacker, target
}

func barrage(hits int, interval float64) ability.Descriptor {
	return ability.Parse(&gamedata.AbilityDef{
		ID:          "test.barrage",
		Name:        "Barrage",
		Category:    gamedata.CategoryUltimate,
		Variant:     gamedata.VariantMultiHit,
		Target:      gamedata.TargetSingleEnemy,
		DamageType:  combat.DamagePhysical,
		BaseDamage:  10,
		Cooldown:    5,
		EnergyCost:  100,
		Hits:        hits,
		HitInterval: interval,
	}, 1)
}

func decide(desc ability.Descriptor, targets ...*entity.Actor) policy.Decision {
	return policy.Decision{Ability: desc.ID, Type: desc.Category, Targets: targets}
}

func TestExecute_MultiHitTargetDiesAfterSecondHit(t *testing.T) {
	attacker, target := duelists(20)
	attacker.Energy = 100
	b := newFakeBattle(attacker, target)
	x := New(nil, nil)
	desc := barrage(5, 0.3)

	out := x.Execute(context.Background(), b, attacker, decide(desc, target), desc, Options{})
	require.True(t, out.Executed)
	assert.Equal(t, 1, out.Hits)
	assert.Equal(t, 4, out.Scheduled)

	assert.NotPanics(t, func() {
		for range 10 {
			attacker.Schedule().Advance(0.3)
		}
	})

	assert.Len(t, b.damage, 2, "hits 3-5 are skipped once the target is dead")
	assert.False(t, target.IsAlive())
	assert.Equal(t, 0, attacker.Schedule().Len())
}

func TestExecute_MultiHitSpacing(t *testing.T) {
	attacker, target := duelists(1000)
	attacker.Energy = 100
	b := newFakeBattle(attacker, target)
	desc := barrage(5, 0.4)

	New(nil, nil).Execute(context.Background(), b, attacker, decide(desc, target), desc, Options{})
	require.Len(t, b.damage, 1)

	attacker.Schedule().Advance(0.2)
	assert.Len(t, b.damage, 1)
	attacker.Schedule().Advance(0.2)
	assert.Len(t, b.damage, 2)
	attacker.Schedule().Advance(5)
	assert.Len(t, b.damage, 5)
}

func TestExecute_MultiHitStopsWhenCasterDies(t *testing.T) {
	attacker, target := duelists(1000)
	attacker.Energy = 100
	b := newFakeBattle(attacker, target)
	desc := barrage(5, 0.3)

	New(nil, nil).Execute(context.Background(), b, attacker, decide(desc, target), desc, Options{})
	attacker.Schedule().Advance(0.3)
	attacker.TakeDamage(attacker.HP)
	attacker.Schedule().Advance(5)

	assert.Len(t, b.damage, 2)
}

func TestExecute_MultiHitZeroIntervalIsSequential(t *testing.T) {
	attacker, target := duelists(1000)
	attacker.Energy = 100
	b := newFakeBattle(attacker, target)
	desc := barrage(3, 0)

	out := New(nil, nil).Execute(context.Background(), b, attacker, decide(desc, target), desc, Options{})
	assert.Equal(t, 3, out.Hits)
	assert.Equal(t, 0, out.Scheduled)
	assert.Equal(t, 30.0, out.Damage)
}

func TestExecute_StaleDecisionIsNoop(t *testing.T) {
	attacker, target := duelists(20)
	attacker.Energy = 100
	target.TakeDamage(target.HP)
	b := newFakeBattle(attacker, target)
	desc := barrage(5, 0.3)

	out := New(nil, nil).Execute(context.Background(), b, attacker, decide(desc, target), desc, Options{})

	assert.False(t, out.Executed)
	assert.Equal(t, 100.0, attacker.Energy, "energy untouched")
	assert.True(t, attacker.Cooldowns().IsReady(desc.ID), "cooldown not started")
	assert.Empty(t, b.rec.Cues)
	assert.Empty(t, b.damage)
}

func TestExecute_NotReadyOrUnaffordable(t *testing.T) {
	attacker, target := duelists(100)
	b := newFakeBattle(attacker, target)
	desc := barrage(5, 0.3)
	x := New(nil, nil)

	out := x.Execute(context.Background(), b, attacker, decide(desc, target), desc, Options{})
	assert.False(t, out.Executed, "no energy")

	attacker.Energy = 100
	attacker.Cooldowns().Start(desc.ID, 1)
	out = x.Execute(context.Background(), b, attacker, decide(desc, target), desc, Options{})
	assert.False(t, out.Executed, "on cooldown")
	assert.Equal(t, 100.0, attacker.Energy)
}

func TestExecute_UnresolvedDescriptorFallsBackToBasicStrike(t *testing.T) {
	attacker, target := duelists(100)
	attacker.Base.Attack = 10
	b := newFakeBattle(attacker, target)

	d := policy.Decision{Ability: "nobody.knows", Targets: []*entity.Actor{target}}
	out := New(nil, nil).Execute(context.Background(), b, attacker, d, ability.Descriptor{}, Options{})

	require.True(t, out.Executed)
	assert.True(t, out.Fallback)
	assert.Equal(t, ability.BasicStrikeID, out.Ability)
	assert.Equal(t, 15.0, out.Damage)
	assert.Equal(t, EnergyPerBasicHit, attacker.Energy)
	assert.Equal(t, entity.EnergyPerStruck, target.Energy)
}

func TestExecute_StatusAndEngaged(t *testing.T) {
	attacker, target := duelists(100)
	b := newFakeBattle(attacker, target)
	desc := ability.Parse(&gamedata.AbilityDef{
		ID:         "test.flare",
		Category:   gamedata.CategoryBasic,
		Variant:    gamedata.VariantStrike,
		Target:     gamedata.TargetSingleEnemy,
		DamageType: combat.DamageMagical,
		BaseDamage: 5,
		Status:     &gamedata.StatusGrant{Kind: status.KindBurn, Duration: 4, Magnitude: 3, StackLimit: 2},
	}, 1)
	x := New(nil, nil)

	for range 3 {
		x.Execute(context.Background(), b, attacker, decide(desc, target), desc, Options{})
	}

	assert.Equal(t, 2, target.Statuses().Stacks(status.KindBurn))
	assert.True(t, target.Statuses().Has(status.KindEngaged))
	assert.True(t, attacker.Statuses().Has(status.KindEngaged))
	assert.Equal(t, 3, b.rec.Count(cue.KindFloatingText))
	assert.Equal(t, 3, b.rec.Count(cue.KindAbilityName))
}

func TestExecute_NovaRadius(t *testing.T) {
	attacker, near := duelists(100)
	far := entity.NewActor("Far", entity.TeamRed)
	far.Base.Defense = 0
	far.SetPosition(20, 0)
	b := newFakeBattle(attacker, near, far)
	desc := ability.Parse(&gamedata.AbilityDef{
		ID:         "test.cleave",
		Category:   gamedata.CategorySkill,
		Variant:    gamedata.VariantNova,
		Target:     gamedata.TargetAllEnemies,
		BaseDamage: 10,
		Mechanics:  map[string]float64{"radius": 3},
	}, 1)

	out := New(nil, nil).Execute(context.Background(), b, attacker, decide(desc, near), desc, Options{})
	assert.Equal(t, 1, out.Targets)
	assert.Equal(t, far.MaxHP, far.HP)

	attacker.Cooldowns().Reset(desc.ID)
	global := ability.Parse(&gamedata.AbilityDef{
		ID:         "test.cataclysm",
		Category:   gamedata.CategoryUltimate,
		Variant:    gamedata.VariantNova,
		Target:     gamedata.TargetAllEnemies,
		BaseDamage: 10,
	}, 1)
	out = New(nil, nil).Execute(context.Background(), b, attacker, decide(global), global, Options{})
	assert.Equal(t, 2, out.Targets)
}

func TestExecute_DelayedNova(t *testing.T) {
	attacker, target := duelists(100)
	b := newFakeBattle(attacker, target)
	desc := ability.Parse(&gamedata.AbilityDef{
		ID:         "test.scorch",
		Category:   gamedata.CategorySkill,
		Variant:    gamedata.VariantDelayedNova,
		Target:     gamedata.TargetSingleEnemy,
		BaseDamage: 25,
		Mechanics:  map[string]float64{"delay": 1.5, "radius": 2},
	}, 1)

	out := New(nil, nil).Execute(context.Background(), b, attacker, decide(desc, target), desc, Options{})
	require.True(t, out.Executed)
	assert.Equal(t, 0, out.Hits)
	assert.Equal(t, 1, out.Scheduled)

	target.SetPosition(1.5, 0) // still inside the marked area
	attacker.Schedule().Advance(1)
	assert.Empty(t, b.damage)
	attacker.Schedule().Advance(0.5)
	require.Len(t, b.damage, 1)
	assert.Equal(t, 25.0, b.damage[0].amount)
}

func TestExecute_SelfBuffAndOptions(t *testing.T) {
	attacker, target := duelists(100)
	b := newFakeBattle(attacker, target)
	desc := ability.Parse(&gamedata.AbilityDef{
		ID:       "test.warcry",
		Category: gamedata.CategorySkill,
		Variant:  gamedata.VariantBuff,
		Target:   gamedata.TargetSelf,
		Cooldown: 12,
		Status:   &gamedata.StatusGrant{Kind: status.KindAttackUp, Duration: 6, Magnitude: 0.25, OnSelf: true},
	}, 1)

	var cast []*entity.Actor
	out := New(nil, nil).Execute(context.Background(), b, attacker, decide(desc, attacker), desc, Options{
		OnCast: func(targets []*entity.Actor) { cast = targets },
	})

	require.True(t, out.Executed)
	assert.True(t, attacker.Statuses().Has(status.KindAttackUp))
	assert.Equal(t, 12.0, attacker.Cooldowns().Remaining(desc.ID))
	require.Len(t, cast, 1)
	assert.Same(t, attacker, cast[0])
}

func TestExecute_HealAndShield(t *testing.T) {
	healer := entity.NewActor("Healer", entity.TeamBlue)
	healer.Base.MagicAttack = 20
	ally := entity.NewActor("Ally", entity.TeamBlue)
	ally.HP = 50
	enemy := entity.NewActor("Enemy", entity.TeamRed)
	b := newFakeBattle(healer, ally, enemy)
	x := New(nil, nil)

	heal := ability.Parse(&gamedata.AbilityDef{
		ID: "test.mend", Category: gamedata.CategorySkill, Variant: gamedata.VariantHeal,
		Target: gamedata.TargetSingleAlly, BaseDamage: 30,
	}, 1)
	out := x.Execute(context.Background(), b, healer, decide(heal, ally), heal, Options{})
	assert.Equal(t, 30.0, out.Healed)
	assert.Equal(t, 80.0, ally.HP)

	shield := ability.Parse(&gamedata.AbilityDef{
		ID: "test.wall", Category: gamedata.CategorySkill, Variant: gamedata.VariantShield,
		Target: gamedata.TargetSingleAlly, BaseDamage: 40,
		Scaling: gamedata.Scaling{Percent: 50, Stat: gamedata.StatMagicAttack},
	}, 1)
	out = x.Execute(context.Background(), b, healer, decide(shield, ally), shield, Options{})
	assert.Equal(t, 50.0, out.Shielded)
}

func TestExecute_OnHitSeesDeferredHits(t *testing.T) {
	attacker, target := duelists(1000)
	attacker.Energy = 100
	b := newFakeBattle(attacker, target)
	desc := barrage(3, 0.5)

	var seen []int
	New(nil, nil).Execute(context.Background(), b, attacker, decide(desc, target), desc, Options{
		OnHit: func(_ *entity.Actor, hit int, _ combat.ActionResult) { seen = append(seen, hit) },
	})
	attacker.Schedule().Advance(1)

	assert.Equal(t, []int{1, 2, 3}, seen)
}
