// Package errs defines the engine's error taxonomy (spec §7). Every
// domain error is a single tagged type so transport adapters can map
// Kind/Code to a status without string-matching messages.
package errs

import "fmt"

// Kind buckets errors the way the transport layer needs to react to them.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindState         Kind = "state"
	KindAuthorization Kind = "authorization"
	KindMovement      Kind = "movement"
	KindInventory     Kind = "inventory"
	KindDraw          Kind = "draw"
	KindConcurrency   Kind = "concurrency"
	KindInternal      Kind = "internal"
)

// Error is the single error type every engine package returns.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Detail  any
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.cause }

func newErr(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap attaches a lower-level cause while keeping kind/code/message stable.
func Wrap(e *Error, cause error) *Error {
	clone := *e
	clone.cause = cause
	return &clone
}

// State errors
var (
	ErrGameNotFound      = newErr(KindState, "GAME_NOT_FOUND", "game not found")
	ErrGameAlreadyFull   = newErr(KindState, "GAME_ALREADY_FULL", "game already has the maximum number of players")
	ErrNotPreparing      = newErr(KindState, "NOT_PREPARING", "game is not in the lobby")
	ErrNoPlayers         = newErr(KindState, "NO_PLAYERS", "game has no players")
	ErrTurnAlreadyEnded  = newErr(KindState, "TURN_ALREADY_ENDED", "turn has already ended")
	ErrInvalidTurnAction = newErr(KindState, "INVALID_TURN_ACTION", "action is not legal after the previous action")
	ErrUnplacedTile      = newErr(KindState, "UNPLACED_TILE", "a drawn tile must be placed before ending the turn")
)

// GameAlreadyFinished carries no data, but is recognized specially at
// dispatch time so idempotent end-of-life commands no-op instead of erroring.
var ErrGameAlreadyFinished = newErr(KindState, "GAME_ALREADY_FINISHED", "game has already finished")

// Authorization
var ErrNotYourTurn = newErr(KindAuthorization, "NOT_YOUR_TURN", "it is not this player's turn")

// Movement
var (
	ErrInvalidMovement                  = newErr(KindMovement, "INVALID_MOVEMENT", "no path exists between the given positions")
	ErrCannotMoveAfterBattle            = newErr(KindMovement, "CANNOT_MOVE_AFTER_BATTLE", "player already battled this turn")
	ErrPlayerStunnedCanOnlyMoveToMonster = newErr(KindMovement, "PLAYER_STUNNED_CAN_ONLY_MOVE_TO_MONSTERS", "a stunned player may only move onto an undefeated monster")
)

// Draw
var (
	ErrNoTilesLeftInDeck = newErr(KindDraw, "NO_TILES_LEFT_IN_DECK", "deck is empty")
	ErrNoItemsLeftInBag  = newErr(KindDraw, "NO_ITEMS_LEFT_IN_BAG", "bag is empty")
)

// Pickup
var (
	ErrNoItemAtPosition = newErr(KindValidation, "NO_ITEM_AT_POSITION", "no item is waiting at this position")
	ErrItemGuarded      = newErr(KindValidation, "ITEM_GUARDED", "item is still guarded by an undefeated monster")
)

// Tile placement / rotation
var (
	ErrNoRotationSatisfies = newErr(KindValidation, "NO_ROTATION_SATISFIES", "no rotation of this tile satisfies the requested openings")
	ErrPlacementOccupied   = newErr(KindValidation, "PLACEMENT_OCCUPIED", "a tile is already placed at this position")
	ErrPlacementNotAdjacent = newErr(KindValidation, "PLACEMENT_NOT_ADJACENT", "position is not adjacent, through an open side, to a placed tile")
)

// Concurrency
var ErrOptimisticLock = newErr(KindConcurrency, "OPTIMISTIC_LOCK", "aggregate was modified concurrently; retry")

// Internal
var ErrInternal = newErr(KindInternal, "INTERNAL", "internal error")

// InventoryFullDetail carries the context the client needs to prompt a
// replacement choice.
type InventoryFullDetail struct {
	Category      string
	Cap           int
	CurrentItems  []string
	CandidateItem string
}

// NewInventoryFull builds an InventoryFull error carrying its detail.
func NewInventoryFull(d InventoryFullDetail) *Error {
	e := newErr(KindInventory, "INVENTORY_FULL", fmt.Sprintf("%s inventory is full (cap %d)", d.Category, d.Cap))
	e.Detail = d
	return e
}

// MissingKeyDetail carries the chest type that needs a key.
type MissingKeyDetail struct {
	ChestType string
}

// NewMissingKey builds a MissingKey error carrying its detail.
func NewMissingKey(chestType string) *Error {
	e := newErr(KindInventory, "MISSING_KEY", fmt.Sprintf("opening %s requires a key", chestType))
	e.Detail = MissingKeyDetail{ChestType: chestType}
	return e
}

// Is allows errors.Is(err, errs.ErrX) to match by Kind+Code rather than pointer identity,
// so a Wrap()-ed copy still compares equal to the sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}
