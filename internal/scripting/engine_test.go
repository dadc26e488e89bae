package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestAdjustBattleDamageNoScriptsReturnsUnmodified(t *testing.T) {
	e, err := NewEngine(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	got := e.AdjustBattleDamage(BattleDamageContext{Dice1: 3, Dice2: 4, WeaponDamage: 2}, 9)
	if got != 9 {
		t.Fatalf("expected unmodified total 9, got %d", got)
	}
}

func TestAdjustBattleDamageAppliesHook(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "combat", "bonus.lua", `
function adjust_battle_damage(ctx)
  return ctx.total + 5
end
`)

	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	got := e.AdjustBattleDamage(BattleDamageContext{Dice1: 3, Dice2: 4, WeaponDamage: 2}, 9)
	if got != 14 {
		t.Fatalf("expected hook-adjusted total 14, got %d", got)
	}
}

func TestAdjustTileFeatureOverride(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "tile", "fountain.lua", `
function adjust_tile_feature(ctx)
  if ctx.feature == "HEALING_FOUNTAIN" then
    return ctx.max_hp + 1
  end
  return ctx.hp
end
`)

	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	res := e.AdjustTileFeature(TileFeatureContext{Feature: "HEALING_FOUNTAIN", MaxHP: 10, HP: 4})
	if !res.Overridden || res.NewHP != 11 {
		t.Fatalf("expected overridden hp 11, got %+v", res)
	}
}

func TestAdjustTileFeatureNoHookIsNotOverridden(t *testing.T) {
	e, err := NewEngine(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	res := e.AdjustTileFeature(TileFeatureContext{Feature: "HEALING_FOUNTAIN", MaxHP: 10, HP: 4})
	if res.Overridden {
		t.Fatalf("expected no override, got %+v", res)
	}
}

func writeScript(t *testing.T, root, sub, name, contents string) {
	t.Helper()
	dir := filepath.Join(root, sub)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
