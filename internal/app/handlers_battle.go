package app

import (
	"errors"

	"github.com/dungeoncrawl/engine/internal/bus"
	"github.com/dungeoncrawl/engine/internal/domain/battle"
	"github.com/dungeoncrawl/engine/internal/domain/events"
	"github.com/dungeoncrawl/engine/internal/domain/field"
	"github.com/dungeoncrawl/engine/internal/domain/game"
	"github.com/dungeoncrawl/engine/internal/domain/model"
	"github.com/dungeoncrawl/engine/internal/domain/player"
	"github.com/dungeoncrawl/engine/internal/domain/turn"
	"github.com/dungeoncrawl/engine/internal/errs"
	"github.com/dungeoncrawl/engine/internal/scripting"
)

// battleDamageAdjuster lets a house-rule Lua script rewrite the computed
// total before the outcome is decided (spec §4.6 numbers are the
// default; scripting is the documented override seam).
func battleDamageAdjuster(deps *Deps, b *battle.Battle, die1, die2, weaponDamage, consumableBonus int) func(int) int {
	return func(total int) int {
		return deps.Scripts.AdjustBattleDamage(scripting.BattleDamageContext{
			Dice1: die1, Dice2: die2, WeaponDamage: weaponDamage, ConsumableBonus: consumableBonus,
			MonsterName: b.Monster.Name, MonsterGuardHP: b.Monster.GuardHP,
		}, total)
	}
}

var errMonsterVanished = errors.New("monster no longer present at the battle position")

func loadBattle(c *bus.Context, deps *Deps, battleID string) (*Loaded[battle.Battle], error) {
	return Load(c, deps.Store, tableBattles, "battle", battleID, func() *battle.Battle { return nil })
}

func consumableIDs(p *player.Player) []string {
	avail := p.AvailableConsumables()
	ids := make([]string, 0, len(avail))
	for _, it := range avail {
		ids = append(ids, it.ID)
	}
	return ids
}

// handleStartBattle is Phase 1: roll dice and equipped weapon damage
// against the defending monster at the destination (spec §4.6).
func handleStartBattle(deps *Deps) bus.CommandHandler {
	return func(c *bus.Context, cmd bus.Command) (any, error) {
		in := cmd.(startBattle)
		gameL, err := Load(c, deps.Store, tableGames, "game", in.Game, func() *game.Game { return game.New(in.Game, 0) })
		if err != nil {
			return nil, err
		}
		if err := gameL.Data.RequireMutable(); err != nil {
			return nil, err
		}

		fieldL, err := loadField(c, deps, in.Game)
		if err != nil {
			return nil, err
		}
		monster, ok := fieldL.Data.ItemAt(in.To)
		if !ok {
			return nil, errs.Wrap(errs.ErrInternal, errMonsterVanished)
		}

		playerL, err := loadPlayer(c, deps, in.Game, in.PlayerID)
		if err != nil {
			return nil, err
		}

		battleID := deps.NewID()
		b := battle.New(battleID, in.Game, in.PlayerID, in.TurnID, monster, in.From, in.To)
		dice := deps.diceSourceFor(in.Game)
		d1, d2 := dice.Next(1, 6), dice.Next(1, 6)
		result := b.RollPreview(d1, d2, playerL.Data.WeaponDamage(), battleDamageAdjuster(deps, b, d1, d2, playerL.Data.WeaponDamage(), 0))

		if result == events.BattleWin {
			b.ResolveImmediateWin()
		}
		battleL := &Loaded[battle.Battle]{Data: b}
		if err := Save(c, deps.Store, tableBattles, "battle", battleID, battleL); err != nil {
			return nil, err
		}

		if err := c.Publish(events.BattleCompleted{
			GameID:                      in.Game,
			BattleID:                    battleID,
			PlayerID:                    in.PlayerID,
			Result:                      result,
			NeedsConsumableConfirmation: result != events.BattleWin,
			AvailableConsumables:        consumableIDs(playerL.Data),
			TotalDamage:                 b.TotalDamage,
			Final:                       result == events.BattleWin,
		}, true); err != nil {
			return nil, err
		}

		if result == events.BattleWin {
			if err := processBattleResult(c, deps, in.Game, in.PlayerID, in.TurnID, fieldL, b, result, false, ""); err != nil {
				return nil, err
			}
		}
		return map[string]any{"battleId": battleID, "result": result, "totalDamage": b.TotalDamage}, nil
	}
}

// handleFinalizeBattle is Phase 2: fold in selected consumables and
// settle the final outcome (spec §4.6).
func handleFinalizeBattle(deps *Deps) bus.CommandHandler {
	return func(c *bus.Context, cmd bus.Command) (any, error) {
		in := cmd.(FinalizeBattle)

		battleL, err := loadBattle(c, deps, in.BattleID)
		if err != nil {
			return nil, err
		}
		if battleL.Data == nil {
			return nil, errs.Wrap(errs.ErrInternal, errMonsterVanished)
		}

		playerL, err := loadPlayer(c, deps, in.Game, in.PlayerID)
		if err != nil {
			return nil, err
		}
		damageBonus := playerL.Data.RemoveConsumables(in.SelectedConsumableIDs)
		if err := Save(c, deps.Store, tablePlayers, "player", in.PlayerID, playerL); err != nil {
			return nil, err
		}

		result, err := battleL.Data.Finalize(in.SelectedConsumableIDs, damageBonus,
			battleDamageAdjuster(deps, battleL.Data, battleL.Data.DiceResults[0], battleL.Data.DiceResults[1], 0, damageBonus))
		if err != nil {
			return nil, err
		}
		if err := Save(c, deps.Store, tableBattles, "battle", in.BattleID, battleL); err != nil {
			return nil, err
		}

		if err := c.Publish(events.BattleCompleted{
			GameID: in.Game, BattleID: in.BattleID, PlayerID: in.PlayerID,
			Result: result, TotalDamage: battleL.Data.TotalDamage, Final: true,
		}, true); err != nil {
			return nil, err
		}

		fieldL, err := loadField(c, deps, in.Game)
		if err != nil {
			return nil, err
		}
		itemPickedUpTracker := &itemPickedUpFlag{}
		if err := processBattleResultTracked(c, deps, in.Game, in.PlayerID, in.TurnID, fieldL, battleL.Data, result, in.PickupItem, in.ReplaceItemID, itemPickedUpTracker); err != nil {
			return nil, err
		}

		return map[string]any{"finalTotalDamage": battleL.Data.TotalDamage, "itemPickedUp": itemPickedUpTracker.picked}, nil
	}
}

type itemPickedUpFlag struct{ picked bool }

// processBattleResult applies §4.6's "processing a result" rules for
// the Phase-1 immediate-win path, where pickup is not offered.
func processBattleResult(c *bus.Context, deps *Deps, gameID, playerID, turnID string, fieldL *Loaded[field.Field], b *battle.Battle, result events.BattleResult, pickupItem bool, replaceItemID string) error {
	return processBattleResultTracked(c, deps, gameID, playerID, turnID, fieldL, b, result, pickupItem, replaceItemID, &itemPickedUpFlag{})
}

// processBattleResultTracked implements spec §4.6's common result
// handling: records FIGHT_MONSTER, then settles WIN/DRAW/LOSE.
func processBattleResultTracked(c *bus.Context, deps *Deps, gameID, playerID, turnID string, fieldL *Loaded[field.Field], b *battle.Battle, result events.BattleResult, pickupItem bool, replaceItemID string, tracker *itemPickedUpFlag) error {
	turnL, err := loadTurn(c, deps, gameID, turnID, playerID)
	if err != nil {
		return err
	}
	extra := map[string]any{
		"dice": b.DiceResults, "usedItems": b.UsedItems, "result": result,
		"from": b.FromPos, "to": b.ToPos,
	}
	ended, err := turnL.Data.RecordAction(turn.ActionFightMonster, "", extra, deps.Clock.Now())
	if err != nil {
		return err
	}
	if err := Save(c, deps.Store, tableTurns, "turn", turnID, turnL); err != nil {
		return err
	}
	if ended {
		if err := c.Publish(events.TurnEnded{GameID: gameID, PlayerID: playerID, TurnID: turnID}, true); err != nil {
			return err
		}
		if _, err := c.Dispatch(nextTurn{Game: gameID}); err != nil {
			return err
		}
	}

	switch result {
	case events.BattleWin:
		fieldL.Data.MarkGuardDefeated(b.ToPos)
		if err := Save(c, deps.Store, tableFields, "field", gameID, fieldL); err != nil {
			return err
		}
		if pickupItem {
			if _, err := c.Dispatch(PickItem{Game: gameID, PlayerID: playerID, TurnID: turnID, Position: b.ToPos, ItemIDToReplace: replaceItemID}); err != nil {
				return err
			}
			tracker.picked = true
			if _, err := c.Dispatch(EndTurn{Game: gameID, PlayerID: playerID, TurnID: turnID}); err != nil {
				return err
			}
		}
		return nil

	case events.BattleDraw:
		return bounceBack(c, deps, gameID, playerID, turnID, b.FromPos)

	case events.BattleLose:
		playerL, err := loadPlayer(c, deps, gameID, playerID)
		if err != nil {
			return err
		}
		stunned := playerL.Data.ReduceHP(1) // must precede the return-move (spec §4.6 ordering guarantee)
		if err := Save(c, deps.Store, tablePlayers, "player", playerID, playerL); err != nil {
			return err
		}
		if stunned {
			if err := c.Publish(events.PlayerStunned{GameID: gameID, PlayerID: playerID}, true); err != nil {
				return err
			}
		}
		return bounceBack(c, deps, gameID, playerID, turnID, b.FromPos)

	default:
		return nil
	}
}

// bounceBack resets the player onto their pre-battle position, applies
// a fountain heal there if the starting tile provides one (spec §4.6's
// ordering guarantee: HP reduction on LOSE always precedes this move,
// so a wounded player stepping back onto a HEALING_FOUNTAIN is healed,
// not left stunned), and ends the turn.
func bounceBack(c *bus.Context, deps *Deps, gameID, playerID, turnID string, fromPos model.Position) error {
	moveL, err := loadMovement(c, deps, gameID)
	if err != nil {
		return err
	}
	to, _ := moveL.Data.PositionOf(playerID)
	moveL.Data.ResetPosition(playerID, fromPos)
	if err := Save(c, deps.Store, tableMovements, "movement", gameID, moveL); err != nil {
		return err
	}
	if err := c.Publish(events.PlayerMoved{GameID: gameID, PlayerID: playerID, From: to, To: fromPos, IsBattleReturn: true}, true); err != nil {
		return err
	}

	fieldL, err := loadField(c, deps, gameID)
	if err != nil {
		return err
	}
	if fieldL.Data.HasFeature(fromPos, model.FeatureHealingFountain) {
		playerL, err := loadPlayer(c, deps, gameID, playerID)
		if err != nil {
			return err
		}
		applyFountainHeal(deps, playerL.Data)
		if err := Save(c, deps.Store, tablePlayers, "player", playerID, playerL); err != nil {
			return err
		}
	}

	turnL, err := loadTurn(c, deps, gameID, turnID, playerID)
	if err != nil {
		return err
	}
	return recordTurnAction(c, deps, turnL, gameID, playerID, turn.ActionEndTurn, "", nil)
}
