package app

import (
	"github.com/dungeoncrawl/engine/internal/bus"
	"github.com/dungeoncrawl/engine/internal/domain/events"
	"github.com/dungeoncrawl/engine/internal/domain/model"
	"github.com/dungeoncrawl/engine/internal/domain/player"
	"github.com/dungeoncrawl/engine/internal/domain/turn"
	"github.com/dungeoncrawl/engine/internal/scripting"
)

func loadPlayer(c *bus.Context, deps *Deps, gameID, playerID string) (*Loaded[player.Player], error) {
	return Load(c, deps.Store, tablePlayers, "player", playerID, func() *player.Player {
		return player.New(playerID, gameID, deps.startingHPFor(gameID, playerID))
	})
}

// applyFountainHeal applies the engine's default full-heal rule, unless
// a house-rule script overrides the resulting HP for this feature.
func applyFountainHeal(deps *Deps, p *player.Player) {
	res := deps.Scripts.AdjustTileFeature(scripting.TileFeatureContext{
		Feature: string(model.FeatureHealingFountain),
		MaxHP:   p.MaxHP,
		HP:      p.HP,
	})
	if !res.Overridden {
		p.Heal()
		return
	}
	p.HP = res.NewHP
	p.Defeated = p.HP <= 0
}

// handleMovePlayer validates and applies one movement step, then either
// kicks off a battle or records the MOVE/HEAL_AT_FOUNTAIN turn action
// (spec §4.4).
func handleMovePlayer(deps *Deps) bus.CommandHandler {
	return func(c *bus.Context, cmd bus.Command) (any, error) {
		in := cmd.(MovePlayer)
		if _, err := loadGameRequiringCurrentPlayer(c, deps, in.Game, in.PlayerID); err != nil {
			return nil, err
		}

		fieldL, err := loadField(c, deps, in.Game)
		if err != nil {
			return nil, err
		}
		moveL, err := loadMovement(c, deps, in.Game)
		if err != nil {
			return nil, err
		}
		turnL, err := loadTurn(c, deps, in.Game, in.TurnID, in.PlayerID)
		if err != nil {
			return nil, err
		}
		playerL, err := loadPlayer(c, deps, in.Game, in.PlayerID)
		if err != nil {
			return nil, err
		}

		undefeatedMonsterAt := func(pos model.Position) bool {
			it, ok := fieldL.Data.ItemAt(pos)
			return ok && it.IsGuarded()
		}
		if err := moveL.Data.MovePlayer(in.PlayerID, in.From, in.To, in.IgnoreMonster, turnL.Data.HasBattleInTurn, playerL.Data.HP == 0, undefeatedMonsterAt); err != nil {
			return nil, err
		}
		if err := Save(c, deps.Store, tableMovements, "movement", in.Game, moveL); err != nil {
			return nil, err
		}
		if err := c.Publish(events.PlayerMoved{
			GameID: in.Game, PlayerID: in.PlayerID, From: in.From, To: in.To,
			IsTilePlacementMove: in.IsTilePlacementMove,
		}, true); err != nil {
			return nil, err
		}

		if undefeatedMonsterAt(in.To) && !in.IgnoreMonster {
			return c.Dispatch(startBattle{Game: in.Game, PlayerID: in.PlayerID, TurnID: in.TurnID, From: in.From, To: in.To})
		}

		if fieldL.Data.HasFeature(in.To, model.FeatureHealingFountain) {
			applyFountainHeal(deps, playerL.Data)
			if err := Save(c, deps.Store, tablePlayers, "player", in.PlayerID, playerL); err != nil {
				return nil, err
			}
			if err := recordTurnAction(c, deps, turnL, in.Game, in.PlayerID, turn.ActionHealAtFountain, "", nil); err != nil {
				return nil, err
			}
			return map[string]any{"healed": true}, nil
		}

		if !in.IsTilePlacementMove {
			if err := recordTurnAction(c, deps, turnL, in.Game, in.PlayerID, turn.ActionMove, "", nil); err != nil {
				return nil, err
			}
		}
		return map[string]any{}, nil
	}
}
