package app

import (
	"github.com/dungeoncrawl/engine/internal/bus"
	"github.com/dungeoncrawl/engine/internal/domain/events"
	"github.com/dungeoncrawl/engine/internal/domain/model"
	"github.com/dungeoncrawl/engine/internal/domain/turn"
	"github.com/dungeoncrawl/engine/internal/errs"
)

// handlePickItem validates and applies a pickup at position (spec §4.7).
func handlePickItem(deps *Deps) bus.CommandHandler {
	return func(c *bus.Context, cmd bus.Command) (any, error) {
		in := cmd.(PickItem)
		if _, err := loadGameRequiringCurrentPlayer(c, deps, in.Game, in.PlayerID); err != nil {
			return nil, err
		}

		fieldL, err := loadField(c, deps, in.Game)
		if err != nil {
			return nil, err
		}
		item, ok := fieldL.Data.ItemAt(in.Position)
		if !ok {
			return nil, errs.ErrNoItemAtPosition
		}
		if item.IsGuarded() {
			return nil, errs.ErrItemGuarded
		}

		playerL, err := loadPlayer(c, deps, in.Game, in.PlayerID)
		if err != nil {
			return nil, err
		}
		if err := playerL.Data.RequireKeyFor(item.Type); err != nil {
			return nil, err
		}

		replaced, err := playerL.Data.AddItem(item, deps.Rulebook.Rules.InventoryCaps, in.ItemIDToReplace)
		if err != nil {
			return nil, err
		}
		fieldL.Data.RemoveItemAt(in.Position)
		if replaced != nil {
			fieldL.Data.SetItemAt(in.Position, *replaced)
		}

		if err := Save(c, deps.Store, tablePlayers, "player", in.PlayerID, playerL); err != nil {
			return nil, err
		}
		if err := Save(c, deps.Store, tableFields, "field", in.Game, fieldL); err != nil {
			return nil, err
		}

		turnL, err := loadTurn(c, deps, in.Game, in.TurnID, in.PlayerID)
		if err != nil {
			return nil, err
		}
		if err := recordTurnAction(c, deps, turnL, in.Game, in.PlayerID, turn.ActionPickItem, "", map[string]any{"itemId": item.ID}); err != nil {
			return nil, err
		}

		if err := c.Publish(events.ItemAddedToInventory{GameID: in.Game, PlayerID: in.PlayerID, Item: item}, true); err != nil {
			return nil, err
		}

		if model.EndsGame(item.Type) {
			if _, err := c.Dispatch(endGame{Game: in.Game}); err != nil {
				return nil, err
			}
		}

		var replacedOut any
		if replaced != nil {
			replacedOut = *replaced
		}
		return map[string]any{"item": item, "itemReplaced": replacedOut}, nil
	}
}

// handleUseSpell applies HEALING or TELEPORT outside of battle (spec §4.7).
func handleUseSpell(deps *Deps) bus.CommandHandler {
	return func(c *bus.Context, cmd bus.Command) (any, error) {
		in := cmd.(UseSpell)
		if _, err := loadGameRequiringCurrentPlayer(c, deps, in.Game, in.PlayerID); err != nil {
			return nil, err
		}

		playerL, err := loadPlayer(c, deps, in.Game, in.PlayerID)
		if err != nil {
			return nil, err
		}
		spellType, err := playerL.Data.UseSpell(in.SpellID)
		if err != nil {
			return nil, err
		}

		turnL, err := loadTurn(c, deps, in.Game, in.TurnID, in.PlayerID)
		if err != nil {
			return nil, err
		}

		if spellType == model.ItemTeleport {
			if in.TargetPosition == nil {
				return nil, errs.ErrInvalidTurnAction
			}
			fieldL, err := loadField(c, deps, in.Game)
			if err != nil {
				return nil, err
			}
			if !fieldL.Data.HasFeature(*in.TargetPosition, model.FeatureHealingFountain) {
				return nil, errs.ErrInvalidTurnAction
			}
			moveL, err := loadMovement(c, deps, in.Game)
			if err != nil {
				return nil, err
			}
			from, _ := moveL.Data.PositionOf(in.PlayerID)
			moveL.Data.ResetPosition(in.PlayerID, *in.TargetPosition)
			if err := Save(c, deps.Store, tableMovements, "movement", in.Game, moveL); err != nil {
				return nil, err
			}
			if err := c.Publish(events.PlayerMoved{GameID: in.Game, PlayerID: in.PlayerID, From: from, To: *in.TargetPosition}, true); err != nil {
				return nil, err
			}
			if err := Save(c, deps.Store, tablePlayers, "player", in.PlayerID, playerL); err != nil {
				return nil, err
			}
			if err := recordTurnAction(c, deps, turnL, in.Game, in.PlayerID, turn.ActionTeleportSpell, "", nil); err != nil {
				return nil, err
			}
			return map[string]string{"gameId": in.Game}, nil
		}

		if err := Save(c, deps.Store, tablePlayers, "player", in.PlayerID, playerL); err != nil {
			return nil, err
		}
		if err := recordTurnAction(c, deps, turnL, in.Game, in.PlayerID, turn.ActionUseSpell, "", map[string]any{"spell": spellType}); err != nil {
			return nil, err
		}
		return map[string]string{"gameId": in.Game}, nil
	}
}
