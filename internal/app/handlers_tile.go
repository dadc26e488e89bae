package app

import (
	"github.com/dungeoncrawl/engine/internal/bus"
	"github.com/dungeoncrawl/engine/internal/domain/bag"
	"github.com/dungeoncrawl/engine/internal/domain/deck"
	"github.com/dungeoncrawl/engine/internal/domain/events"
	"github.com/dungeoncrawl/engine/internal/domain/field"
	"github.com/dungeoncrawl/engine/internal/domain/game"
	"github.com/dungeoncrawl/engine/internal/domain/model"
	"github.com/dungeoncrawl/engine/internal/domain/movement"
	"github.com/dungeoncrawl/engine/internal/domain/turn"
)

func loadGameRequiringCurrentPlayer(c *bus.Context, deps *Deps, gameID, playerID string) (*Loaded[game.Game], error) {
	gameL, err := Load(c, deps.Store, tableGames, "game", gameID, func() *game.Game { return game.New(gameID, 0) })
	if err != nil {
		return nil, err
	}
	if err := gameL.Data.RequireMutable(); err != nil {
		return nil, err
	}
	if err := gameL.Data.RequireCurrentPlayer(playerID); err != nil {
		return nil, err
	}
	return gameL, nil
}

func loadField(c *bus.Context, deps *Deps, gameID string) (*Loaded[field.Field], error) {
	return Load(c, deps.Store, tableFields, "field", gameID, func() *field.Field { return field.New(gameID, "", 0, nil) })
}

func loadMovement(c *bus.Context, deps *Deps, gameID string) (*Loaded[movement.Movement], error) {
	return Load(c, deps.Store, tableMovements, "movement", gameID, func() *movement.Movement { return movement.New(gameID) })
}

func handlePickTile(deps *Deps) bus.CommandHandler {
	return func(c *bus.Context, cmd bus.Command) (any, error) {
		in := cmd.(PickTile)
		if _, err := loadGameRequiringCurrentPlayer(c, deps, in.Game, in.PlayerID); err != nil {
			return nil, err
		}

		turnL, err := loadTurn(c, deps, in.Game, in.TurnID, in.PlayerID)
		if err != nil {
			return nil, err
		}

		deckL, err := Load(c, deps.Store, tableDecks, "deck", in.Game, func() *deck.Deck { return deck.New(in.Game, deps.Rulebook, deps.shuffleSourceFor(in.Game), nil) })
		if err != nil {
			return nil, err
		}
		tmpl, err := deckL.Data.PickNext()
		if err != nil {
			return nil, err
		}
		if err := Save(c, deps.Store, tableDecks, "deck", in.Game, deckL); err != nil {
			return nil, err
		}

		orientation, err := tmpl.Orientation()
		if err != nil {
			return nil, err
		}

		fieldL, err := loadField(c, deps, in.Game)
		if err != nil {
			return nil, err
		}
		tileID := in.TileID
		if tileID == "" {
			tileID = deps.NewID()
		}
		fieldL.Data.SetPending(tileID, tmpl.ID, orientation, tmpl.Room, tmpl.FeatureSet(), in.RequiredOpenSide, in.PlayerID, in.TurnID)
		if err := Save(c, deps.Store, tableFields, "field", in.Game, fieldL); err != nil {
			return nil, err
		}

		// PICK_TILE is the counted "exploration" action; the rotate and
		// place steps that follow are bundled into this one (spec §4.5).
		if err := recordTurnAction(c, deps, turnL, in.Game, in.PlayerID, turn.ActionPickTile, tileID, nil); err != nil {
			return nil, err
		}

		return map[string]any{"tile": fieldL.Data.Pending}, nil
	}
}

func handleRotateTile(deps *Deps) bus.CommandHandler {
	return func(c *bus.Context, cmd bus.Command) (any, error) {
		in := cmd.(RotateTile)
		if _, err := loadGameRequiringCurrentPlayer(c, deps, in.Game, in.PlayerID); err != nil {
			return nil, err
		}

		fieldL, err := loadField(c, deps, in.Game)
		if err != nil {
			return nil, err
		}
		if err := fieldL.Data.RotateTile(in.TileID, in.TopSide, in.RequiredOpenSide); err != nil {
			return nil, err
		}
		if err := Save(c, deps.Store, tableFields, "field", in.Game, fieldL); err != nil {
			return nil, err
		}

		turnL, err := loadTurn(c, deps, in.Game, in.TurnID, in.PlayerID)
		if err != nil {
			return nil, err
		}
		if err := recordTurnAction(c, deps, turnL, in.Game, in.PlayerID, turn.ActionRotateTile, in.TileID, nil); err != nil {
			return nil, err
		}
		return map[string]any{"tile": fieldL.Data.Pending}, nil
	}
}

func handlePlaceTile(deps *Deps) bus.CommandHandler {
	return func(c *bus.Context, cmd bus.Command) (any, error) {
		in := cmd.(PlaceTile)
		if _, err := loadGameRequiringCurrentPlayer(c, deps, in.Game, in.PlayerID); err != nil {
			return nil, err
		}

		fieldL, err := loadField(c, deps, in.Game)
		if err != nil {
			return nil, err
		}
		placed, err := fieldL.Data.PlaceTile(in.FieldPlace)
		if err != nil {
			return nil, err
		}

		moveL, err := loadMovement(c, deps, in.Game)
		if err != nil {
			return nil, err
		}
		isGate := fieldL.Data.HasFeature(placed.Position, model.FeatureTeleportationGate)
		moveL.Data.RecordTilePlaced(placed.Position, placed.Orientation, isGate, func(side model.Side) (model.Orientation, bool) {
			nt, ok := fieldL.Data.TileAt(placed.Position.Neighbor(side))
			return nt.Orientation, ok
		})

		if placed.Room {
			bagL, err := Load(c, deps.Store, tableBags, "bag", in.Game, func() *bag.Bag {
				return bag.New(in.Game, deps.Rulebook, deps.shuffleSourceFor(in.Game), nil, deps.NewID)
			})
			if err != nil {
				return nil, err
			}
			item, err := bagL.Data.PickNext()
			if err != nil {
				return nil, err
			}
			if err := Save(c, deps.Store, tableBags, "bag", in.Game, bagL); err != nil {
				return nil, err
			}
			fieldL.Data.SetItemAt(placed.Position, item)
		}

		if err := Save(c, deps.Store, tableFields, "field", in.Game, fieldL); err != nil {
			return nil, err
		}
		if err := Save(c, deps.Store, tableMovements, "movement", in.Game, moveL); err != nil {
			return nil, err
		}

		turnL, err := loadTurn(c, deps, in.Game, in.TurnID, in.PlayerID)
		if err != nil {
			return nil, err
		}
		if err := recordTurnAction(c, deps, turnL, in.Game, in.PlayerID, turn.ActionPlaceTile, placed.ID, nil); err != nil {
			return nil, err
		}

		if err := c.Publish(events.TilePlaced{GameID: in.Game, TileID: placed.ID, Position: placed.Position}, true); err != nil {
			return nil, err
		}

		// The player is always relocated into a tile they just placed,
		// as part of this same command (spec §4.3).
		from, _ := moveL.Data.PositionOf(in.PlayerID)
		moveResult, err := c.Dispatch(MovePlayer{
			Game:                in.Game,
			PlayerID:            in.PlayerID,
			TurnID:              in.TurnID,
			From:                from,
			To:                  placed.Position,
			IsTilePlacementMove: true,
		})
		if err != nil {
			return nil, err
		}

		return map[string]any{
			"tile":            placed,
			"availablePlaces": fieldL.Data.AvailablePlacements(),
			"items":           fieldL.Data.Items,
			"moveResult":      moveResult,
		}, nil
	}
}
