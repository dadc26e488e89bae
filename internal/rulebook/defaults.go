package rulebook

// Default returns the compiled-in classic rulebook, matching spec §6's
// constants exactly. It is used whenever no override file is configured
// and as the fallback for a partial override file.
func Default() *Rulebook {
	return &Rulebook{
		Rules: Rules{
			MaxPlayers:        4,
			MaxHP:             5,
			MaxActionsPerTurn: 4,
			DeckSize:          88,
			InventoryCaps: InventoryCaps{
				Key:     1,
				Weapons: 2,
				Spells:  3,
			},
			WeaponDamage: map[string]int{
				"DAGGER": 1,
				"SWORD":  2,
				"AXE":    3,
			},
			ChestValue: map[string]int{
				"CHEST":      2,
				"RUBY_CHEST": 3,
			},
		},
		StartingTile: TileTemplate{
			ID:       "starting_room",
			Mask:     "1111",
			Room:     true,
			Features: []string{"HEALING_FOUNTAIN"},
		},
		Deck: []TileEntry{
			{Template: TileTemplate{ID: "straight_corridor", Mask: "1010", Room: false}, Count: 24},
			{Template: TileTemplate{ID: "corner_corridor", Mask: "1100", Room: false}, Count: 24},
			{Template: TileTemplate{ID: "t_room", Mask: "1110", Room: true}, Count: 24},
			{Template: TileTemplate{ID: "cross_room", Mask: "1111", Room: true}, Count: 15},
			{Template: TileTemplate{ID: "cross_room_gate", Mask: "1111", Room: true, Features: []string{"TELEPORTATION_GATE"}}, Count: 1},
		},
		// Bag entries pair a guarding monster's name with the item type
		// it drops; "Chest" is unguarded loot (guardHP 0) needing a key.
		Bag: []BagEntry{
			{Name: "Fallen", Type: "AXE", GuardHP: 12, Count: 1},
			{Name: "SkeletonKing", Type: "SWORD", GuardHP: 10, Count: 2},
			{Name: "SkeletonWarrior", Type: "DAGGER", GuardHP: 9, Count: 3},
			{Name: "SkeletonWarrior", Type: "HEALING", GuardHP: 9, Count: 1},
			{Name: "Mummy", Type: "FIREBALL", GuardHP: 7, Count: 4},
			{Name: "Mummy", Type: "KEY", GuardHP: 7, Count: 1},
			{Name: "SkeletonTurnkey", Type: "KEY", GuardHP: 8, Count: 5},
			{Name: "GiantSpider", Type: "TELEPORT", GuardHP: 6, Count: 10},
			{Name: "GiantRat", Type: "DAGGER", GuardHP: 5, Count: 6},
			{Name: "GiantRat", Type: "SWORD", GuardHP: 5, Count: 3},
			{Name: "Chest", Type: "CHEST", TreasureValue: 2, Count: 3},
		},
		Dragon: BagEntry{Name: "Dragon", Type: "RUBY_CHEST", GuardHP: 15, TreasureValue: 3, Count: 1},
	}
}
