package app

import "github.com/dungeoncrawl/engine/internal/domain/model"

// CreateGame seeds a new game's aggregates (spec §6).
type CreateGame struct {
	Game     string
	DeckSize int
	IdempKey string
}

func (c CreateGame) CommandName() string     { return "CreateGame" }
func (c CreateGame) GameID() string          { return c.Game }
func (c CreateGame) IdempotencyKey() string  { return c.IdempKey }

// AddPlayer seats one player in the lobby.
type AddPlayer struct {
	Game       string
	PlayerID   string
	ExternalID string
	Username   string
	Wallet     string
	IdempKey   string
}

func (c AddPlayer) CommandName() string    { return "AddPlayer" }
func (c AddPlayer) GameID() string         { return c.Game }
func (c AddPlayer) IdempotencyKey() string { return c.IdempKey }

// StartGame closes the lobby and seats the first player.
type StartGame struct {
	Game     string
	IdempKey string
}

func (c StartGame) CommandName() string    { return "StartGame" }
func (c StartGame) GameID() string         { return c.Game }
func (c StartGame) IdempotencyKey() string { return c.IdempKey }

// PickTile draws the next tile template from Deck (spec §4.3).
type PickTile struct {
	Game             string
	TileID           string
	PlayerID         string
	TurnID           string
	RequiredOpenSide model.Side
	IdempKey         string
}

func (c PickTile) CommandName() string    { return "PickTile" }
func (c PickTile) GameID() string         { return c.Game }
func (c PickTile) IdempotencyKey() string { return c.IdempKey }

// RotateTile rotates the pending tile to satisfy a requested opening.
type RotateTile struct {
	Game             string
	TileID           string
	PlayerID         string
	TurnID           string
	TopSide          model.Side
	RequiredOpenSide model.Side
	IdempKey         string
}

func (c RotateTile) CommandName() string    { return "RotateTile" }
func (c RotateTile) GameID() string         { return c.Game }
func (c RotateTile) IdempotencyKey() string { return c.IdempKey }

// PlaceTile commits the pending tile at a frontier position.
type PlaceTile struct {
	Game       string
	TileID     string
	FieldPlace model.Position
	PlayerID   string
	TurnID     string
	IdempKey   string
}

func (c PlaceTile) CommandName() string    { return "PlaceTile" }
func (c PlaceTile) GameID() string         { return c.Game }
func (c PlaceTile) IdempotencyKey() string { return c.IdempKey }

// MovePlayer validates and applies one movement step (spec §4.4).
type MovePlayer struct {
	Game                string
	PlayerID            string
	TurnID              string
	From                model.Position
	To                  model.Position
	IgnoreMonster       bool
	IsTilePlacementMove bool
	IdempKey            string
}

func (c MovePlayer) CommandName() string    { return "MovePlayer" }
func (c MovePlayer) GameID() string         { return c.Game }
func (c MovePlayer) IdempotencyKey() string { return c.IdempKey }

// PickItem picks up the item at a position (spec §4.7).
type PickItem struct {
	Game            string
	PlayerID        string
	TurnID          string
	Position        model.Position
	ItemIDToReplace string
	IdempKey        string
}

func (c PickItem) CommandName() string    { return "PickItem" }
func (c PickItem) GameID() string         { return c.Game }
func (c PickItem) IdempotencyKey() string { return c.IdempKey }

// UseSpell casts HEALING or TELEPORT outside of battle (spec §4.7).
type UseSpell struct {
	Game           string
	PlayerID       string
	TurnID         string
	SpellID        string
	TargetPosition *model.Position
	IdempKey       string
}

func (c UseSpell) CommandName() string    { return "UseSpell" }
func (c UseSpell) GameID() string         { return c.Game }
func (c UseSpell) IdempotencyKey() string { return c.IdempKey }

// startBattle is dispatched internally by MovePlayer's handler when the
// destination holds an undefeated monster (spec §6: "internal; implicit
// on moving onto monster").
type startBattle struct {
	Game     string
	PlayerID string
	TurnID   string
	From     model.Position
	To       model.Position
}

func (c startBattle) CommandName() string { return "StartBattle" }
func (c startBattle) GameID() string      { return c.Game }

// FinalizeBattle commits Phase 2 of combat (spec §4.6, §6).
type FinalizeBattle struct {
	BattleID              string
	Game                  string
	PlayerID              string
	TurnID                string
	SelectedConsumableIDs []string
	PickupItem            bool
	ReplaceItemID         string
	IdempKey              string
}

func (c FinalizeBattle) CommandName() string    { return "FinalizeBattle" }
func (c FinalizeBattle) GameID() string         { return c.Game }
func (c FinalizeBattle) IdempotencyKey() string { return c.IdempKey }

// EndTurn explicitly closes the current player's turn.
type EndTurn struct {
	Game     string
	PlayerID string
	TurnID   string
	IdempKey string
}

func (c EndTurn) CommandName() string    { return "EndTurn" }
func (c EndTurn) GameID() string         { return c.Game }
func (c EndTurn) IdempotencyKey() string { return c.IdempKey }

// nextTurn is dispatched internally by EndTurn's handler to rotate the
// seat and apply the stunned-skip rule (spec §4.8).
type nextTurn struct {
	Game string
}

func (c nextTurn) CommandName() string { return "NextTurn" }
func (c nextTurn) GameID() string      { return c.Game }

// endGame is dispatched internally when an endsGame item is picked up
// (spec §4.8).
type endGame struct {
	Game string
}

func (c endGame) CommandName() string { return "EndGame" }
func (c endGame) GameID() string      { return c.Game }
