package player

import (
	"testing"

	"github.com/dungeoncrawl/engine/internal/domain/model"
	"github.com/dungeoncrawl/engine/internal/errs"
	"github.com/dungeoncrawl/engine/internal/rulebook"
)

func caps() rulebook.InventoryCaps {
	return rulebook.InventoryCaps{Key: 1, Weapons: 2, Spells: 3}
}

func TestAddItemEnforcesWeaponCap(t *testing.T) {
	p := New("p1", "g1", 5)
	if _, err := p.AddItem(model.Item{ID: "sword", Type: model.ItemSword}, caps(), ""); err != nil {
		t.Fatal(err)
	}
	if _, err := p.AddItem(model.Item{ID: "dagger", Type: model.ItemDagger}, caps(), ""); err != nil {
		t.Fatal(err)
	}
	_, err := p.AddItem(model.Item{ID: "axe", Type: model.ItemAxe}, caps(), "")
	if err == nil {
		t.Fatal("expected InventoryFull on third weapon")
	}
	e, ok := err.(*errs.Error)
	if !ok || !e.Is(errs.NewInventoryFull(errs.InventoryFullDetail{})) {
		t.Fatalf("unexpected error kind: %v", err)
	}

	replaced, err := p.AddItem(model.Item{ID: "axe", Type: model.ItemAxe}, caps(), "dagger")
	if err != nil {
		t.Fatal(err)
	}
	if replaced == nil || replaced.ID != "dagger" {
		t.Fatalf("expected dagger to be replaced, got %+v", replaced)
	}
}

func TestRequireKeyForChest(t *testing.T) {
	p := New("p1", "g1", 5)
	if err := p.RequireKeyFor(model.ItemChest); err == nil {
		t.Fatal("expected MissingKey without a key")
	}
	if _, err := p.AddItem(model.Item{ID: "k1", Type: model.ItemKey}, caps(), ""); err != nil {
		t.Fatal(err)
	}
	if err := p.RequireKeyFor(model.ItemChest); err != nil {
		t.Fatalf("unexpected error with a key held: %v", err)
	}
}

func TestReduceHPStunsAtZero(t *testing.T) {
	p := New("p1", "g1", 5)
	p.HP = 1
	stunned := p.ReduceHP(1)
	if !stunned {
		t.Fatal("expected stun at HP 0")
	}
	if p.HP != 0 || !p.Defeated {
		t.Fatalf("HP=%d Defeated=%v, want 0/true", p.HP, p.Defeated)
	}
}

func TestRegenerateToOneClearsDefeated(t *testing.T) {
	p := New("p1", "g1", 5)
	p.ReduceHP(5)
	p.RegenerateToOne()
	if p.HP != 1 || p.Defeated {
		t.Fatalf("HP=%d Defeated=%v, want 1/false", p.HP, p.Defeated)
	}
}
