package app

import (
	"go.uber.org/zap"

	"github.com/dungeoncrawl/engine/internal/core/clock"
	"github.com/dungeoncrawl/engine/internal/core/ids"
	"github.com/dungeoncrawl/engine/internal/core/rng"
	"github.com/dungeoncrawl/engine/internal/core/seam"
	"github.com/dungeoncrawl/engine/internal/persist"
	"github.com/dungeoncrawl/engine/internal/rulebook"
	"github.com/dungeoncrawl/engine/internal/scripting"
)

// Aggregate table/kind names, shared by every handler file in this package.
const (
	tableGames     = "games"
	tableDecks     = "decks"
	tableBags      = "bags"
	tableFields    = "fields"
	tableMovements = "movements"
	tablePlayers   = "players"
	tableTurns     = "turns"
	tableBattles   = "battles"
)

// Deps is the wiring struct every handler closes over (teacher's
// internal/handler/context.go Deps pattern, generalized).
type Deps struct {
	Store    *persist.Store
	Rulebook *rulebook.Rulebook
	Clock    clock.Clock
	Seam     *seam.Registry
	Scripts  *scripting.Engine
	Log      *zap.Logger
}

// NewID mints a time-ordered identifier using the engine clock, so
// generated ids stay monotonic even under an injected test clock.
func (d *Deps) NewID() string {
	return ids.MustNew(d.Clock.Now()).String()
}

// diceSourceFor builds the per-game dice source: the fixed override
// sequence when the deterministic seam is active for gameID, else a
// cryptographically-seeded source (spec §4.3, §6).
func (d *Deps) diceSourceFor(gameID string) *rng.DiceSource {
	if ov, ok := d.Seam.Get(gameID); ok && len(ov.DiceRolls) > 0 {
		return rng.NewFixedDiceSource(ov.DiceRolls)
	}
	return rng.NewDiceSource(rng.NewCryptoSource())
}

// shuffleSourceFor builds the per-game shuffle source for Deck/Bag
// construction; deterministic mode installs sequences verbatim
// instead (handled inside deck.New/bag.New), so this only matters
// when no override is active.
func (d *Deps) shuffleSourceFor(gameID string) rng.Source {
	return rng.NewCryptoSource()
}

// startingHPFor resolves a player's starting HP: the seam's
// per-player override, else the rulebook's MaxHP.
func (d *Deps) startingHPFor(gameID, playerID string) int {
	if ov, ok := d.Seam.Get(gameID); ok {
		if hp, ok := ov.StartingHP[playerID]; ok {
			return hp
		}
	}
	return d.Rulebook.Rules.MaxHP
}
