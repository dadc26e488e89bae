// Package events lists the past-tense notifications aggregates emit
// on the bus (spec §2, §4). Kept separate from internal/bus so domain
// packages can construct event values without the bus package having
// to import domain types.
package events

import "github.com/dungeoncrawl/engine/internal/domain/model"

// GameCreated fires once a new game's aggregates have been seeded.
type GameCreated struct {
	GameID   string
	DeckSize int
}

func (GameCreated) EventName() string { return "GameCreated" }

// DeckCreated tells Bag how many room tiles it must supply items for.
type DeckCreated struct {
	GameID    string
	RoomCount int
}

func (DeckCreated) EventName() string { return "DeckCreated" }

// TilePlaced fires once Field accepts a placement.
type TilePlaced struct {
	GameID   string
	TileID   string
	Position model.Position
}

func (TilePlaced) EventName() string { return "TilePlaced" }

// PlayerMoved fires on every successful position change, including
// battle-return bounces and tile-placement moves.
type PlayerMoved struct {
	GameID             string
	PlayerID           string
	From               model.Position
	To                 model.Position
	IsBattleReturn      bool
	IsTilePlacementMove bool
}

func (PlayerMoved) EventName() string { return "PlayerMoved" }

// BattleResult names the three outcomes a battle phase can settle on.
type BattleResult string

const (
	BattleWin  BattleResult = "WIN"
	BattleDraw BattleResult = "DRAW"
	BattleLose BattleResult = "LOSE"
)

// BattleCompleted fires after every preview roll (Phase 1, Final false,
// whatever the preview result) and after the final resolution (Phase 2,
// Final true).
type BattleCompleted struct {
	GameID                      string
	BattleID                    string
	PlayerID                    string
	Result                      BattleResult
	NeedsConsumableConfirmation bool
	AvailableConsumables        []string
	TotalDamage                 int
	Final                       bool
}

func (BattleCompleted) EventName() string { return "BattleCompleted" }

// TurnEnded fires once a turn closes, whether by budget, end-of-turn
// action, or explicit EndTurn.
type TurnEnded struct {
	GameID   string
	PlayerID string
	TurnID   string
}

func (TurnEnded) EventName() string { return "TurnEnded" }

// ItemAddedToInventory fires whenever PickItem succeeds.
type ItemAddedToInventory struct {
	GameID   string
	PlayerID string
	Item     model.Item
}

func (ItemAddedToInventory) EventName() string { return "ItemAddedToInventory" }

// PlayerStunned fires when ReducePlayerHP brings HP to 0.
type PlayerStunned struct {
	GameID   string
	PlayerID string
}

func (PlayerStunned) EventName() string { return "PlayerStunned" }

// GameEnded fires once a RUBY_CHEST pickup (or any endsGame item)
// finalizes scoring.
type GameEnded struct {
	GameID string
	Winner string
	Scores map[string]int
}

func (GameEnded) EventName() string { return "GameEnded" }
