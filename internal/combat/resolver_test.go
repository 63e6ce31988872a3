package combat

import (
	"math"
	"testing"
)

// mockCombatant is a test implementation of the Combatant interface.
type mockCombatant struct {
	name      string
	hp, maxHP float64
	shield    float64
	reduction float64
	stats     Stats
}

func newMockCombatant(name string, hp, defense, magicDefense float64) *mockCombatant {
	return &mockCombatant{
		name:  name,
		hp:    hp,
		maxHP: hp,
		stats: Stats{Defense: defense, MagicDefense: magicDefense},
	}
}

func (m *mockCombatant) GetName() string          { return m.name }
func (m *mockCombatant) IsAlive() bool            { return m.hp > 0 }
func (m *mockCombatant) GetHP() float64           { return m.hp }
func (m *mockCombatant) GetMaxHP() float64        { return m.maxHP }
func (m *mockCombatant) EffectiveStats() Stats    { return m.stats }
func (m *mockCombatant) DamageReduction() float64 { return m.reduction }

func (m *mockCombatant) TakeDamage(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	actual := math.Min(amount, m.hp)
	m.hp -= actual
	return actual
}

func (m *mockCombatant) Heal(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	actual := math.Min(amount, m.maxHP-m.hp)
	m.hp += actual
	return actual
}

func (m *mockCombatant) GrantShield(amount float64) float64 {
	if amount > 0 {
		m.shield = math.Min(m.shield+amount, m.maxHP)
	}
	return m.shield
}

func (m *mockCombatant) AbsorbShield(amount float64) float64 {
	absorbed := math.Min(amount, m.shield)
	m.shield -= absorbed
	return absorbed
}

func TestResolveDamagePhysical(t *testing.T) {
	// 100 defense halves physical damage: 40 * 100/200 = 20
	target := newMockCombatant("Knight", 100, 100, 0)

	result := Resolve(target, Action{Amount: 40, Type: DamagePhysical, EffectType: EffectDamage})

	if result.Amount != 20 {
		t.Errorf("Expected 20 damage, got %v", result.Amount)
	}
	if target.GetHP() != 80 {
		t.Errorf("Expected target HP 80, got %v", target.GetHP())
	}
}

func TestResolveDamageMagicalUsesMagicDefense(t *testing.T) {
	// Physical defense is ignored, 25 magic defense: 50 * 100/125 = 40
	target := newMockCombatant("Armored Orc", 100, 500, 25)

	result := Resolve(target, Action{Amount: 50, Type: DamageMagical, EffectType: EffectDamage})

	if math.Abs(result.Amount-40) > 1e-9 {
		t.Errorf("Expected 40 magical damage, got %v", result.Amount)
	}
}

func TestResolveDamageTrueIgnoresMitigation(t *testing.T) {
	target := newMockCombatant("Tank", 100, 500, 500)
	target.reduction = 0.5

	result := Resolve(target, Action{Amount: 30, Type: DamageTrue, EffectType: EffectDamage})

	if result.Amount != 30 {
		t.Errorf("Expected 30 true damage, got %v", result.Amount)
	}
}

func TestResolveDamageMinimum(t *testing.T) {
	target := newMockCombatant("Wall", 100, 100000, 0)

	result := Resolve(target, Action{Amount: 5, Type: DamagePhysical, EffectType: EffectDamage})

	if result.Amount != 1 {
		t.Errorf("Expected minimum 1 damage, got %v", result.Amount)
	}
}

func TestResolveDamageReductionCapped(t *testing.T) {
	target := newMockCombatant("Juggernaut", 100, 0, 0)
	target.reduction = 5 // capped at 0.9

	result := Resolve(target, Action{Amount: 100, Type: DamagePhysical, EffectType: EffectDamage})

	if math.Abs(result.Amount-10) > 1e-9 {
		t.Errorf("Expected 10 damage after 90%% reduction, got %v", result.Amount)
	}
}

func TestResolveShieldAbsorbsFirst(t *testing.T) {
	target := newMockCombatant("Mage", 50, 0, 0)
	target.GrantShield(15)

	result := Resolve(target, Action{Amount: 20, Type: DamageTrue, EffectType: EffectDamage})

	if result.Amount != 20 {
		t.Errorf("Expected 20 total applied, got %v", result.Amount)
	}
	if target.GetHP() != 45 {
		t.Errorf("Expected HP 45 after shield absorbed 15, got %v", target.GetHP())
	}
	if target.shield != 0 {
		t.Errorf("Expected shield depleted, got %v", target.shield)
	}
}

func TestResolveGlancingBlow(t *testing.T) {
	target := newMockCombatant("Rogue", 100, 0, 0)
	target.stats.Evasion = 40

	result := Resolve(target, Action{Amount: 50, Type: DamageTrue, EffectType: EffectDamage, AttackerAccuracy: 20})

	if result.Amount != 25 {
		t.Errorf("Expected 25 glancing damage, got %v", result.Amount)
	}
}

func TestResolveHealCapped(t *testing.T) {
	target := newMockCombatant("Warrior", 30, 0, 0)
	target.hp = 28

	result := Resolve(target, Action{Amount: 18, EffectType: EffectHeal})

	if result.Amount != 2 {
		t.Errorf("Expected 2 healing (capped), got %v", result.Amount)
	}
	if target.GetHP() != 30 {
		t.Errorf("Expected target HP 30 (max), got %v", target.GetHP())
	}
}

func TestResolveShieldGrant(t *testing.T) {
	target := newMockCombatant("Ally", 40, 0, 0)
	target.GrantShield(30)

	result := Resolve(target, Action{Amount: 25, EffectType: EffectShield})

	if result.Amount != 10 {
		t.Errorf("Expected 10 shield gained (capped at max HP), got %v", result.Amount)
	}
}

func TestResolveDeadTargetNoOp(t *testing.T) {
	target := newMockCombatant("Corpse", 10, 0, 0)
	target.hp = 0

	result := Resolve(target, Action{Amount: 50, EffectType: EffectDamage, IsCrit: true})

	if result.Amount != 0 {
		t.Errorf("Expected no damage on dead target, got %v", result.Amount)
	}
	if !result.IsCrit {
		t.Error("Expected crit flag to be echoed")
	}
}

func TestPreviewDoesNotMutate(t *testing.T) {
	target := newMockCombatant("Goblin", 20, 0, 0)

	got := Preview(target, Action{Amount: 12, Type: DamagePhysical})

	if got != 12 {
		t.Errorf("Preview() = %v, want 12", got)
	}
	if target.GetHP() != 20 {
		t.Errorf("Preview mutated HP to %v", target.GetHP())
	}
}
