// Package turn implements the per-turn action log, the counted-action
// budget, and the legal-next-action table (spec §3 "Turn", §4.5).
package turn

import (
	"time"

	"github.com/dungeoncrawl/engine/internal/errs"
)

// Action names one step of a turn's action log (spec §4.5).
type Action string

const (
	ActionMove           Action = "MOVE"
	ActionPickTile       Action = "PICK_TILE"
	ActionRotateTile     Action = "ROTATE_TILE"
	ActionPlaceTile      Action = "PLACE_TILE"
	ActionFightMonster   Action = "FIGHT_MONSTER"
	ActionPickItem       Action = "PICK_ITEM"
	ActionUseSpell       Action = "USE_SPELL"
	ActionHealAtFountain Action = "HEAL_AT_FOUNTAIN"
	ActionTeleportSpell  Action = "TELEPORT_SPELL"
	ActionEndTurn        Action = "END_TURN"
)

// isCounted reports whether a an action consumes one of the 4
// per-turn action slots (spec §4.5).
func isCounted(a Action) bool {
	switch a {
	case ActionMove, ActionPickTile, ActionPickItem, ActionUseSpell, ActionHealAtFountain:
		return true
	default:
		return false
	}
}

// isEndOfTurn reports whether an action closes the turn outright.
func isEndOfTurn(a Action) bool {
	switch a {
	case ActionHealAtFountain, ActionTeleportSpell, ActionEndTurn:
		return true
	default:
		return false
	}
}

// LogEntry is one recorded action.
type LogEntry struct {
	Action Action
	TileID string
	Extra  map[string]any
	At     time.Time
}

// Turn is one player's per-turn aggregate.
type Turn struct {
	ID              string
	GameID          string
	PlayerID        string
	Log             []LogEntry
	PerformedCount  int
	HasBattleInTurn bool
	EndedAt         *time.Time

	maxActionsOverride int
}

func New(id, gameID, playerID string) *Turn {
	return &Turn{ID: id, GameID: gameID, PlayerID: playerID}
}

// Ended reports whether this turn has already closed.
func (t *Turn) Ended() bool { return t.EndedAt != nil }

// legalNext implements the table in spec §4.5.
func (t *Turn) legalNext(a Action) bool {
	if t.Ended() {
		return false
	}
	if len(t.Log) == 0 {
		return true
	}
	prev := t.Log[len(t.Log)-1].Action
	switch prev {
	case ActionFightMonster:
		return a == ActionPickItem || a == ActionEndTurn
	case ActionPickItem:
		return a != ActionFightMonster
	default:
		if isEndOfTurn(prev) {
			return false
		}
		return true
	}
}

// RecordAction appends a, enforcing the legal-next table and the
// 4-counted-action budget, auto-ending the turn when either an
// end-of-turn action fires or the budget is exhausted with no battle
// this turn (spec §4.5, §9 hasBattleInTurn).
func (t *Turn) RecordAction(a Action, tileID string, extra map[string]any, at time.Time) (autoEnded bool, err error) {
	if t.Ended() {
		return false, errs.ErrTurnAlreadyEnded
	}
	if !t.legalNext(a) {
		return false, errs.ErrInvalidTurnAction
	}
	t.Log = append(t.Log, LogEntry{Action: a, TileID: tileID, Extra: extra, At: at})
	if isCounted(a) {
		t.PerformedCount++
	}
	if a == ActionFightMonster {
		t.HasBattleInTurn = true
	}

	if isEndOfTurn(a) {
		t.end(at)
		return true, nil
	}
	if t.PerformedCount >= maxActionsPerTurn(t) && !t.HasBattleInTurn {
		t.end(at)
		return true, nil
	}
	return false, nil
}

// MaxActionsPerTurn is set by the caller from the rulebook; defaults
// to 4 when zero, so a zero-valued Turn (e.g. in a unit test) still
// behaves correctly.
var defaultMaxActionsPerTurn = 4

func maxActionsPerTurn(t *Turn) int {
	if t.maxActionsOverride > 0 {
		return t.maxActionsOverride
	}
	return defaultMaxActionsPerTurn
}

// SetMaxActions lets the caller inject the rulebook's configured budget.
func (t *Turn) SetMaxActions(n int) { t.maxActionsOverride = n }

func (t *Turn) end(at time.Time) {
	when := at
	t.EndedAt = &when
}
