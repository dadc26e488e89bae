// Package game implements the lifecycle, player roster, clockwise turn
// rotation, and scoring (spec §3 "Game", §4.8).
package game

import (
	"github.com/dungeoncrawl/engine/internal/errs"
)

// Status is the game lifecycle state (spec §3).
type Status string

const (
	StatusLobby            Status = "LOBBY"
	StatusStarted           Status = "STARTED"
	StatusTurnInProgress    Status = "TURN_IN_PROGRESS"
	StatusFinished          Status = "FINISHED"
)

// Game is the per-game lifecycle aggregate.
type Game struct {
	ID                 string
	Status             Status
	DeckSize           int
	PlayerOrder        []string // insertion order
	CurrentIndex       int
	CurrentPlayerID    string
	CurrentTurnID      string
	CurrentTurnNumber  int
	Winner             string
	Scores             map[string]int
}

func New(id string, deckSize int) *Game {
	return &Game{ID: id, Status: StatusLobby, DeckSize: deckSize}
}

// AddPlayer appends a player to the roster while the game is in the lobby.
func (g *Game) AddPlayer(playerID string, maxPlayers int) error {
	if g.Status != StatusLobby {
		return errs.ErrNotPreparing
	}
	if len(g.PlayerOrder) >= maxPlayers {
		return errs.ErrGameAlreadyFull
	}
	g.PlayerOrder = append(g.PlayerOrder, playerID)
	return nil
}

// Start transitions LOBBY -> STARTED and seats the first player.
func (g *Game) Start() error {
	if g.Status != StatusLobby {
		return errs.ErrNotPreparing
	}
	if len(g.PlayerOrder) == 0 {
		return errs.ErrNoPlayers
	}
	g.Status = StatusStarted
	g.CurrentIndex = 0
	g.CurrentPlayerID = g.PlayerOrder[0]
	g.CurrentTurnNumber = 1
	return nil
}

// RequireMutable returns ErrGameAlreadyFinished once the game has ended,
// the check every mutating command runs first (spec §4.8, §7).
func (g *Game) RequireMutable() error {
	if g.Status == StatusFinished {
		return errs.ErrGameAlreadyFinished
	}
	return nil
}

// RequireCurrentPlayer validates the caller owns the active turn.
func (g *Game) RequireCurrentPlayer(playerID string) error {
	if g.CurrentPlayerID != playerID {
		return errs.ErrNotYourTurn
	}
	return nil
}

// BeginTurn records the turn id for the current player and flips the
// status to TURN_IN_PROGRESS.
func (g *Game) BeginTurn(turnID string) {
	g.CurrentTurnID = turnID
	g.Status = StatusTurnInProgress
}

// nextIndex computes the clockwise successor of the current seat.
func (g *Game) nextIndex() int {
	return (g.CurrentIndex + 1) % len(g.PlayerOrder)
}

// Advance rotates to the next player, clockwise over insertion order
// (spec §4.8). The caller supplies newTurnID for the seated player and
// reports whether that player is defeated so Game can apply the
// stunned-skip: regen to 1 HP and immediately end that turn again.
func (g *Game) Advance(newTurnID string, nextPlayerDefeated func(playerID string) bool) (nextPlayerID string, skip bool) {
	g.CurrentIndex = g.nextIndex()
	g.CurrentPlayerID = g.PlayerOrder[g.CurrentIndex]
	g.CurrentTurnID = newTurnID
	g.CurrentTurnNumber++
	g.Status = StatusTurnInProgress
	if nextPlayerDefeated(g.CurrentPlayerID) {
		return g.CurrentPlayerID, true
	}
	return g.CurrentPlayerID, false
}

// Finish settles scoring and transitions to FINISHED (spec §4.8).
// Winner is the unique maximum score; ties break by earliest
// insertion order (PlayerOrder is already in that order).
func (g *Game) Finish(treasureTotals map[string]int) {
	g.Scores = treasureTotals
	best := -1
	winner := ""
	for _, pid := range g.PlayerOrder {
		score := treasureTotals[pid]
		if score > best {
			best = score
			winner = pid
		}
	}
	g.Winner = winner
	g.Status = StatusFinished
}
