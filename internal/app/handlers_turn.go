package app

import (
	"github.com/dungeoncrawl/engine/internal/bus"
	"github.com/dungeoncrawl/engine/internal/domain/turn"
	"github.com/dungeoncrawl/engine/internal/errs"
)

// handleEndTurn explicitly closes the current player's turn (spec §4.5,
// §6). A turn already ended is an idempotent no-op success rather than
// an error.
func handleEndTurn(deps *Deps) bus.CommandHandler {
	return func(c *bus.Context, cmd bus.Command) (any, error) {
		in := cmd.(EndTurn)
		if _, err := loadGameRequiringCurrentPlayer(c, deps, in.Game, in.PlayerID); err != nil {
			return nil, err
		}

		turnL, err := loadTurn(c, deps, in.Game, in.TurnID, in.PlayerID)
		if err != nil {
			return nil, err
		}
		if turnL.Data.Ended() {
			return map[string]bool{"success": true}, nil
		}

		fieldL, err := loadField(c, deps, in.Game)
		if err != nil {
			return nil, err
		}
		if fieldL.Data.Pending != nil {
			return nil, errs.ErrUnplacedTile
		}

		if err := recordTurnAction(c, deps, turnL, in.Game, in.PlayerID, turn.ActionEndTurn, "", nil); err != nil {
			return nil, err
		}
		return map[string]bool{"success": true}, nil
	}
}
