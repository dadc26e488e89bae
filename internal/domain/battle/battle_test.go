package battle

import (
	"testing"

	"github.com/dungeoncrawl/engine/internal/domain/events"
	"github.com/dungeoncrawl/engine/internal/domain/model"
)

func TestRollPreviewWin(t *testing.T) {
	monster := model.Item{ID: "m1", Name: "giant_rat", Type: model.ItemDagger, GuardHP: 5}
	b := New("b1", "g1", "p1", "t1", monster, model.Position{}, model.Position{X: 1})
	result := b.RollPreview(6, 6, 0)
	if result != events.BattleWin {
		t.Fatalf("result = %v, want WIN", result)
	}
	if b.Phase != PhaseRolledWeapons {
		t.Fatalf("phase = %v, want ROLLED_WEAPONS (immediate win stays rolled, resolved separately)", b.Phase)
	}
}

func TestRollPreviewDrawThenFinalizeWin(t *testing.T) {
	monster := model.Item{ID: "m1", Name: "skeleton", Type: model.ItemDagger, GuardHP: 9}
	b := New("b1", "g1", "p1", "t1", monster, model.Position{}, model.Position{X: 1})
	result := b.RollPreview(3, 4, 2)
	if result != events.BattleDraw {
		t.Fatalf("preview result = %v, want DRAW", result)
	}
	if b.Phase != PhaseAwaitingConsumable {
		t.Fatalf("phase = %v, want AWAITING_CONSUMABLE", b.Phase)
	}

	final, err := b.Finalize([]string{"fireball-1"}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if final != events.BattleWin {
		t.Fatalf("final = %v, want WIN", final)
	}
	if b.TotalDamage != 10 {
		t.Fatalf("total damage = %d, want 10", b.TotalDamage)
	}
}

func TestRollPreviewAppliesAdjustHook(t *testing.T) {
	monster := model.Item{ID: "m1", Name: "skeleton", Type: model.ItemDagger, GuardHP: 9}
	b := New("b1", "g1", "p1", "t1", monster, model.Position{}, model.Position{X: 1})
	result := b.RollPreview(3, 4, 2, func(total int) int { return total + 2 })
	if result != events.BattleWin {
		t.Fatalf("result = %v, want WIN (hook pushes 9 -> 11)", result)
	}
	if b.TotalDamage != 11 {
		t.Fatalf("total damage = %d, want 11", b.TotalDamage)
	}
}

func TestFinalizeWithoutPreviewFails(t *testing.T) {
	monster := model.Item{ID: "m1", GuardHP: 5}
	b := New("b1", "g1", "p1", "t1", monster, model.Position{}, model.Position{})
	if _, err := b.Finalize(nil, 0); err == nil {
		t.Fatal("expected error finalizing before a preview roll")
	}
}
