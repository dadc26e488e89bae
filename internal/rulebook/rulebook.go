// Package rulebook loads the numeric and compositional constants that
// drive the engine from YAML: inventory caps, weapon damages, monster
// HPs, chest values, and the classic deck/bag compositions. No YAML
// file ships with the repository: the compiled-in Default() mirrors
// spec §6's numbers exactly, and a deployment can point the config at
// its own file to run house rules without recompiling.
package rulebook

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dungeoncrawl/engine/internal/domain/model"
)

// Rules holds the engine's numeric constants (spec §6).
type Rules struct {
	MaxPlayers        int            `yaml:"max_players"`
	MaxHP             int            `yaml:"max_hp"`
	MaxActionsPerTurn int            `yaml:"max_actions_per_turn"`
	DeckSize          int            `yaml:"deck_size"`
	InventoryCaps     InventoryCaps  `yaml:"inventory_caps"`
	WeaponDamage      map[string]int `yaml:"weapon_damage"`
	ChestValue        map[string]int `yaml:"chest_value"`
}

// InventoryCaps are per-category slot limits; treasures are unbounded.
type InventoryCaps struct {
	Key     int `yaml:"key"`
	Weapons int `yaml:"weapons"`
	Spells  int `yaml:"spells"`
}

// CapFor returns the slot cap for a category, or -1 if unbounded.
func (c InventoryCaps) CapFor(cat model.Category) int {
	switch cat {
	case model.CategoryKey:
		return c.Key
	case model.CategoryWeapon:
		return c.Weapons
	case model.CategorySpell:
		return c.Spells
	default:
		return -1
	}
}

// Rulebook bundles rules, the classic deck composition, and the classic
// bag distribution.
type Rulebook struct {
	Rules        Rules
	StartingTile TileTemplate
	Deck         []TileEntry
	Bag          []BagEntry
	Dragon       BagEntry
}

type file struct {
	Rules  Rules        `yaml:"rules"`
	Deck   deckSection  `yaml:"deck"`
	Bag    bagSection   `yaml:"bag"`
}

type deckSection struct {
	StartingTile TileTemplate `yaml:"starting_tile"`
	Composition  []TileEntry  `yaml:"composition"`
}

type bagSection struct {
	Dragon  BagEntry   `yaml:"dragon"`
	Entries []BagEntry `yaml:"entries"`
}

// TileTemplate is a tile-template shape as loaded from YAML: a TRBL
// bit mask, a room flag, and a feature list.
type TileTemplate struct {
	ID       string   `yaml:"id"`
	Mask     string   `yaml:"mask"`
	Room     bool     `yaml:"room"`
	Features []string `yaml:"features"`
}

// Orientation parses this template's mask into a model.Orientation.
func (t TileTemplate) Orientation() (model.Orientation, error) {
	return model.OrientationFromString(t.Mask)
}

// FeatureSet converts the template's feature names into model.Feature values.
func (t TileTemplate) FeatureSet() []model.Feature {
	out := make([]model.Feature, 0, len(t.Features))
	for _, f := range t.Features {
		out = append(out, model.Feature(f))
	}
	return out
}

// TileEntry repeats a tile template Count times in the deck composition.
type TileEntry struct {
	Template TileTemplate `yaml:"template"`
	Count    int          `yaml:"count"`
}

// BagEntry repeats an item template Count times in the bag distribution.
type BagEntry struct {
	Name          string `yaml:"name"`
	Type          string `yaml:"type"`
	GuardHP       int    `yaml:"guard_hp"`
	TreasureValue int    `yaml:"treasure_value"`
	Count         int    `yaml:"count"`
}

// Item builds the model.Item value this entry describes.
func (e BagEntry) Item(id string) model.Item {
	return model.Item{
		ID:      id,
		Name:    e.Name,
		Type:    model.ItemType(e.Type),
		GuardHP: e.GuardHP,
		TreasureValue: e.TreasureValue,
	}
}

// Load reads a rulebook YAML file, falling back to Default() for any
// zero-valued section so a partial override file is legal.
func Load(path string) (*Rulebook, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rulebook %s: %w", path, err)
	}
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse rulebook %s: %w", path, err)
	}
	rb := &Rulebook{
		Rules:        f.Rules,
		StartingTile: f.Deck.StartingTile,
		Deck:         f.Deck.Composition,
		Bag:          f.Bag.Entries,
		Dragon:       f.Bag.Dragon,
	}
	def := Default()
	if rb.Rules.MaxPlayers == 0 {
		rb.Rules = def.Rules
	}
	if rb.StartingTile.ID == "" {
		rb.StartingTile = def.StartingTile
	}
	if len(rb.Deck) == 0 {
		rb.Deck = def.Deck
	}
	if len(rb.Bag) == 0 {
		rb.Bag = def.Bag
	}
	if rb.Dragon.Name == "" {
		rb.Dragon = def.Dragon
	}
	return rb, nil
}

// TotalTileCount sums the classic composition's tile counts (excluding
// the starting tile, which is placed immediately rather than drawn).
func (rb *Rulebook) TotalTileCount() int {
	n := 0
	for _, e := range rb.Deck {
		n += e.Count
	}
	return n
}

// RoomTileCount sums the room-tile counts in the classic composition:
// this is the number of field items the Bag must supply.
func (rb *Rulebook) RoomTileCount() int {
	n := 0
	for _, e := range rb.Deck {
		if e.Template.Room {
			n += e.Count
		}
	}
	return n
}
