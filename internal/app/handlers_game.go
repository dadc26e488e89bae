package app

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dungeoncrawl/engine/internal/bus"
	"github.com/dungeoncrawl/engine/internal/domain/bag"
	"github.com/dungeoncrawl/engine/internal/domain/deck"
	"github.com/dungeoncrawl/engine/internal/domain/events"
	"github.com/dungeoncrawl/engine/internal/domain/field"
	"github.com/dungeoncrawl/engine/internal/domain/game"
	"github.com/dungeoncrawl/engine/internal/domain/movement"
	"github.com/dungeoncrawl/engine/internal/domain/player"
	"github.com/dungeoncrawl/engine/internal/domain/turn"
	"github.com/dungeoncrawl/engine/internal/errs"
)

// usernameCaser title-cases a trimmed display name the same way
// regardless of the client's own casing, so two players joining as
// "bob" and "BOB" don't end up with visibly different labels.
var usernameCaser = cases.Title(language.Und)

func normalizeUsername(raw string) string {
	return usernameCaser.String(strings.TrimSpace(raw))
}

func handleCreateGame(deps *Deps) bus.CommandHandler {
	return func(c *bus.Context, cmd bus.Command) (any, error) {
		in := cmd.(CreateGame)
		deckSize := in.DeckSize
		if deckSize == 0 {
			deckSize = deps.Rulebook.Rules.DeckSize
		}

		gameL, err := Load(c, deps.Store, tableGames, "game", in.Game, func() *game.Game { return game.New(in.Game, deckSize) })
		if err != nil {
			return nil, err
		}
		if gameL.Version > 0 {
			return map[string]string{"gameId": in.Game}, nil // already created; idempotent no-op
		}

		ov, _ := deps.Seam.Get(in.Game)
		src := deps.shuffleSourceFor(in.Game)
		nextID := deps.NewID

		d := deck.New(in.Game, deps.Rulebook, src, ov)
		b := bag.New(in.Game, deps.Rulebook, src, ov, nextID)
		startOrientation, err := deps.Rulebook.StartingTile.Orientation()
		if err != nil {
			return nil, errs.Wrap(errs.ErrInternal, err)
		}
		f := field.New(in.Game, nextID(), startOrientation, deps.Rulebook.StartingTile.FeatureSet())
		mv := movement.New(in.Game)

		deckL := &Loaded[deck.Deck]{Data: d}
		bagL := &Loaded[bag.Bag]{Data: b}
		fieldL := &Loaded[field.Field]{Data: f}
		moveL := &Loaded[movement.Movement]{Data: mv}

		if err := Save(c, deps.Store, tableGames, "game", in.Game, gameL); err != nil {
			return nil, err
		}
		if err := Save(c, deps.Store, tableDecks, "deck", in.Game, deckL); err != nil {
			return nil, err
		}
		if err := Save(c, deps.Store, tableBags, "bag", in.Game, bagL); err != nil {
			return nil, err
		}
		if err := Save(c, deps.Store, tableFields, "field", in.Game, fieldL); err != nil {
			return nil, err
		}
		if err := Save(c, deps.Store, tableMovements, "movement", in.Game, moveL); err != nil {
			return nil, err
		}

		if err := c.Publish(events.GameCreated{GameID: in.Game, DeckSize: deckSize}, true); err != nil {
			return nil, err
		}
		if err := c.Publish(events.DeckCreated{GameID: in.Game, RoomCount: deps.Rulebook.RoomTileCount()}, false); err != nil {
			return nil, err
		}
		return map[string]string{"gameId": in.Game}, nil
	}
}

func handleAddPlayer(deps *Deps) bus.CommandHandler {
	return func(c *bus.Context, cmd bus.Command) (any, error) {
		in := cmd.(AddPlayer)

		gameL, err := Load(c, deps.Store, tableGames, "game", in.Game, func() *game.Game { return game.New(in.Game, 0) })
		if err != nil {
			return nil, err
		}
		if err := gameL.Data.RequireMutable(); err != nil {
			return nil, err
		}
		if err := gameL.Data.AddPlayer(in.PlayerID, deps.Rulebook.Rules.MaxPlayers); err != nil {
			return nil, err
		}

		startingHP := deps.startingHPFor(in.Game, in.PlayerID)
		p := player.New(in.PlayerID, in.Game, deps.Rulebook.Rules.MaxHP)
		p.HP = startingHP
		p.ExternalID, p.Username, p.Wallet = in.ExternalID, normalizeUsername(in.Username), in.Wallet
		playerL := &Loaded[player.Player]{Data: p}

		moveL, err := Load(c, deps.Store, tableMovements, "movement", in.Game, func() *movement.Movement { return movement.New(in.Game) })
		if err != nil {
			return nil, err
		}
		moveL.Data.PlacePlayer(in.PlayerID, startingPosition())

		if err := Save(c, deps.Store, tableGames, "game", in.Game, gameL); err != nil {
			return nil, err
		}
		if err := Save(c, deps.Store, tablePlayers, "player", in.PlayerID, playerL); err != nil {
			return nil, err
		}
		if err := Save(c, deps.Store, tableMovements, "movement", in.Game, moveL); err != nil {
			return nil, err
		}
		return map[string]string{"playerId": in.PlayerID}, nil
	}
}

func handleStartGame(deps *Deps) bus.CommandHandler {
	return func(c *bus.Context, cmd bus.Command) (any, error) {
		in := cmd.(StartGame)
		gameL, err := Load(c, deps.Store, tableGames, "game", in.Game, func() *game.Game { return game.New(in.Game, 0) })
		if err != nil {
			return nil, err
		}
		if gameL.Data.Status != game.StatusLobby {
			return map[string]string{"gameId": in.Game}, nil // already started; idempotent
		}
		if err := gameL.Data.Start(); err != nil {
			return nil, err
		}

		turnID := deps.NewID()
		gameL.Data.BeginTurn(turnID)
		newTurn := turn.New(turnID, in.Game, gameL.Data.CurrentPlayerID)
		newTurn.SetMaxActions(deps.Rulebook.Rules.MaxActionsPerTurn)
		turnL := &Loaded[turn.Turn]{Data: newTurn}

		if err := Save(c, deps.Store, tableGames, "game", in.Game, gameL); err != nil {
			return nil, err
		}
		if err := Save(c, deps.Store, tableTurns, "turn", turnID, turnL); err != nil {
			return nil, err
		}
		return map[string]string{"gameId": in.Game, "turnId": turnID, "playerId": gameL.Data.CurrentPlayerID}, nil
	}
}

// handleNextTurn rotates the seat clockwise, applying the stunned-skip
// rule (spec §4.8, open question 1: Game owns the skip behavior).
func handleNextTurn(deps *Deps) bus.CommandHandler {
	return func(c *bus.Context, cmd bus.Command) (any, error) {
		in := cmd.(nextTurn)
		gameL, err := Load(c, deps.Store, tableGames, "game", in.Game, func() *game.Game { return game.New(in.Game, 0) })
		if err != nil {
			return nil, err
		}

		newTurnID := deps.NewID()
		var skippedPlayer string
		nextPlayerID, skip := gameL.Data.Advance(newTurnID, func(playerID string) bool {
			playerL, err := Load(c, deps.Store, tablePlayers, "player", playerID, func() *player.Player { return player.New(playerID, in.Game, deps.Rulebook.Rules.MaxHP) })
			if err != nil {
				return false
			}
			if playerL.Data.Defeated {
				playerL.Data.RegenerateToOne()
				_ = Save(c, deps.Store, tablePlayers, "player", playerID, playerL)
				skippedPlayer = playerID
				return true
			}
			return false
		})

		newTurn := turn.New(newTurnID, in.Game, nextPlayerID)
		newTurn.SetMaxActions(deps.Rulebook.Rules.MaxActionsPerTurn)
		turnL := &Loaded[turn.Turn]{Data: newTurn}

		if skip {
			// skipped player's turn immediately ends per scenario 3.
			if _, err := newTurn.RecordAction(turn.ActionEndTurn, "", nil, deps.Clock.Now()); err != nil {
				return nil, err
			}
			if err := Save(c, deps.Store, tableTurns, "turn", newTurnID, turnL); err != nil {
				return nil, err
			}
			if err := Save(c, deps.Store, tableGames, "game", in.Game, gameL); err != nil {
				return nil, err
			}
			if err := c.Publish(events.TurnEnded{GameID: in.Game, PlayerID: skippedPlayer, TurnID: newTurnID}, true); err != nil {
				return nil, err
			}
			return c.Dispatch(nextTurn{Game: in.Game})
		}

		if err := Save(c, deps.Store, tableTurns, "turn", newTurnID, turnL); err != nil {
			return nil, err
		}
		if err := Save(c, deps.Store, tableGames, "game", in.Game, gameL); err != nil {
			return nil, err
		}
		return nil, nil
	}
}

// handleEndGame finalizes scoring once an endsGame item is picked up
// (spec §4.8).
func handleEndGame(deps *Deps) bus.CommandHandler {
	return func(c *bus.Context, cmd bus.Command) (any, error) {
		in := cmd.(endGame)
		gameL, err := Load(c, deps.Store, tableGames, "game", in.Game, func() *game.Game { return game.New(in.Game, 0) })
		if err != nil {
			return nil, err
		}
		scores := make(map[string]int)
		for _, pid := range gameL.Data.PlayerOrder {
			playerL, err := Load(c, deps.Store, tablePlayers, "player", pid, func() *player.Player { return player.New(pid, in.Game, deps.Rulebook.Rules.MaxHP) })
			if err != nil {
				return nil, err
			}
			total := 0
			for _, it := range playerL.Data.Treasures() {
				total += it.TreasureValue
			}
			scores[pid] = total
		}
		gameL.Data.Finish(scores)
		if err := Save(c, deps.Store, tableGames, "game", in.Game, gameL); err != nil {
			return nil, err
		}
		return nil, c.Publish(events.GameEnded{GameID: in.Game, Winner: gameL.Data.Winner, Scores: scores}, true)
	}
}
