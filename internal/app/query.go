package app

import (
	"context"

	"github.com/dungeoncrawl/engine/internal/domain/deck"
	"github.com/dungeoncrawl/engine/internal/domain/field"
	"github.com/dungeoncrawl/engine/internal/domain/game"
	"github.com/dungeoncrawl/engine/internal/domain/movement"
	"github.com/dungeoncrawl/engine/internal/domain/player"
	"github.com/dungeoncrawl/engine/internal/domain/turn"
)

// GameView is the full read-side snapshot spec §6's GetGame returns.
type GameView struct {
	Game        game.Game
	Field       field.Field
	Movement    movement.Movement
	DeckRemain  int
	Players     map[string]player.Player
	CurrentTurn *turn.Turn
}

// GetGame assembles a full game snapshot in one read-only transaction,
// rolled back (never committed) since it mutates nothing (spec §6
// query surface).
func GetGame(ctx context.Context, deps *Deps, gameID string) (*GameView, error) {
	tx, err := deps.Store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var g game.Game
	if _, _, err := deps.Store.LoadSnapshot(ctx, tx, tableGames, gameID, &g); err != nil {
		return nil, err
	}

	var f field.Field
	if _, _, err := deps.Store.LoadSnapshot(ctx, tx, tableFields, gameID, &f); err != nil {
		return nil, err
	}

	var mv movement.Movement
	if _, _, err := deps.Store.LoadSnapshot(ctx, tx, tableMovements, gameID, &mv); err != nil {
		return nil, err
	}

	var d deck.Deck
	if _, _, err := deps.Store.LoadSnapshot(ctx, tx, tableDecks, gameID, &d); err != nil {
		return nil, err
	}

	players := make(map[string]player.Player, len(g.PlayerOrder))
	for _, pid := range g.PlayerOrder {
		var p player.Player
		if _, _, err := deps.Store.LoadSnapshot(ctx, tx, tablePlayers, pid, &p); err != nil {
			return nil, err
		}
		players[pid] = p
	}

	view := &GameView{Game: g, Field: f, Movement: mv, DeckRemain: d.Remaining(), Players: players}
	if g.CurrentTurnID != "" {
		var t turn.Turn
		if _, found, err := deps.Store.LoadSnapshot(ctx, tx, tableTurns, g.CurrentTurnID, &t); err != nil {
			return nil, err
		} else if found {
			view.CurrentTurn = &t
		}
	}
	return view, nil
}
