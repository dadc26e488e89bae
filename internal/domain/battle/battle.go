// Package battle implements the two-phase combat state machine: a
// weapons-only preview roll, an optional consumable commit, and
// outcome resolution (spec §3 "Battle", §4.6).
package battle

import (
	"github.com/dungeoncrawl/engine/internal/domain/events"
	"github.com/dungeoncrawl/engine/internal/domain/model"
	"github.com/dungeoncrawl/engine/internal/errs"
)

// Phase names the state machine's position (spec §4.6 diagram).
type Phase string

const (
	PhaseIdle              Phase = "IDLE"
	PhaseRolledWeapons      Phase = "ROLLED_WEAPONS"
	PhaseAwaitingConsumable Phase = "AWAITING_CONSUMABLE"
	PhaseFinalized          Phase = "FINALIZED"
)

// Battle is one encounter's aggregate.
type Battle struct {
	ID          string
	GameID      string
	PlayerID    string
	TurnID      string
	Monster     model.Item
	FromPos     model.Position
	ToPos       model.Position
	DiceResults []int
	UsedItems   []string
	TotalDamage int
	Phase       Phase
	Completed   bool
}

// New starts a battle against monster, moving from fromPos into toPos.
func New(id, gameID, playerID, turnID string, monster model.Item, fromPos, toPos model.Position) *Battle {
	return &Battle{
		ID: id, GameID: gameID, PlayerID: playerID, TurnID: turnID,
		Monster: monster, FromPos: fromPos, ToPos: toPos, Phase: PhaseIdle,
	}
}

func outcome(total, guardHP int) events.BattleResult {
	switch {
	case total > guardHP:
		return events.BattleWin
	case total == guardHP:
		return events.BattleDraw
	default:
		return events.BattleLose
	}
}

// RollPreview is Phase 1 (StartBattle, spec §4.6): two d6 via the
// caller-supplied dice source plus equipped weapon damage. Returns the
// preview outcome; the caller decides whether a WIN short-circuits
// straight to FinalizeBattle-equivalent processing. An optional adjust
// hook (a house rule) may rewrite the total before the outcome is
// decided; at most one is accepted.
func (b *Battle) RollPreview(die1, die2, weaponDamage int, adjust ...func(int) int) events.BattleResult {
	b.DiceResults = []int{die1, die2}
	b.TotalDamage = applyAdjust(die1+die2+weaponDamage, adjust)
	b.Phase = PhaseRolledWeapons
	result := outcome(b.TotalDamage, b.Monster.GuardHP)
	if result != events.BattleWin {
		b.Phase = PhaseAwaitingConsumable
	}
	return result
}

// Finalize is Phase 2 (FinalizeBattle, spec §4.6): recomputes total
// damage with the selected consumables' bonus folded in and settles
// the final outcome. It is an error to finalize a battle not awaiting
// consumables, or one already finalized.
func (b *Battle) Finalize(consumableIDs []string, consumableDamageBonus int, adjust ...func(int) int) (events.BattleResult, error) {
	if b.Phase != PhaseAwaitingConsumable {
		return "", errs.ErrInvalidTurnAction
	}
	b.TotalDamage = applyAdjust(b.TotalDamage+consumableDamageBonus, adjust)
	b.UsedItems = append(b.UsedItems, consumableIDs...)
	b.Phase = PhaseFinalized
	b.Completed = true
	return outcome(b.TotalDamage, b.Monster.GuardHP), nil
}

func applyAdjust(total int, adjust []func(int) int) int {
	if len(adjust) > 0 && adjust[0] != nil {
		return adjust[0](total)
	}
	return total
}

// ResolveImmediateWin finalizes a Phase-1 WIN without a consumable
// round-trip (spec §4.6: "If WIN: emit BattleCompleted{result=WIN} and
// immediately process result").
func (b *Battle) ResolveImmediateWin() {
	b.Phase = PhaseFinalized
	b.Completed = true
}
