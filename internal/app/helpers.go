package app

import (
	"github.com/dungeoncrawl/engine/internal/bus"
	"github.com/dungeoncrawl/engine/internal/domain/events"
	"github.com/dungeoncrawl/engine/internal/domain/model"
	"github.com/dungeoncrawl/engine/internal/domain/turn"
)

// startingPosition is the fixed center tile every game begins at
// (spec §3 "Position").
func startingPosition() model.Position {
	return model.Position{X: 0, Y: 0}
}

// loadTurn fetches a turn by id, configured with the rulebook's action
// budget (the budget itself is deployment config, not persisted state).
func loadTurn(c *bus.Context, deps *Deps, gameID, turnID, playerID string) (*Loaded[turn.Turn], error) {
	l, err := Load(c, deps.Store, tableTurns, "turn", turnID, func() *turn.Turn { return turn.New(turnID, gameID, playerID) })
	if err != nil {
		return nil, err
	}
	l.Data.SetMaxActions(deps.Rulebook.Rules.MaxActionsPerTurn)
	return l, nil
}

// recordTurnAction appends action to the turn's log, saves it, and, if
// that closed the turn (auto-end or an explicit end-of-turn action),
// publishes TurnEnded and cascades NextTurn in the same transaction
// (spec §4.5, §4.8).
func recordTurnAction(c *bus.Context, deps *Deps, turnL *Loaded[turn.Turn], gameID, playerID string, action turn.Action, tileID string, extra map[string]any) error {
	ended, err := turnL.Data.RecordAction(action, tileID, extra, deps.Clock.Now())
	if err != nil {
		return err
	}
	if err := Save(c, deps.Store, tableTurns, "turn", turnL.Data.ID, turnL); err != nil {
		return err
	}
	if !ended {
		return nil
	}
	if err := c.Publish(events.TurnEnded{GameID: gameID, PlayerID: playerID, TurnID: turnL.Data.ID}, true); err != nil {
		return err
	}
	_, err = c.Dispatch(nextTurn{Game: gameID})
	return err
}
