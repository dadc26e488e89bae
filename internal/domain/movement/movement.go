// Package movement implements the adjacency graph, teleport clique,
// and MovePlayer validation chain (spec §3 "Movement", §4.4).
package movement

import (
	"github.com/dungeoncrawl/engine/internal/domain/model"
	"github.com/dungeoncrawl/engine/internal/errs"
)

// Movement is the per-game player-position and connectivity aggregate.
type Movement struct {
	GameID    string
	Positions map[string]model.Position // playerID -> current position
	Edges     map[string]map[string]bool // position key -> set of reachable position keys
	Gates     map[string]bool            // position key -> bears a teleport gate
}

func New(gameID string) *Movement {
	return &Movement{
		GameID:    gameID,
		Positions: make(map[string]model.Position),
		Edges:     make(map[string]map[string]bool),
		Gates:     make(map[string]bool),
	}
}

// PlacePlayer sets a player's initial position (on AddPlayer, every
// player starts at the starting tile).
func (m *Movement) PlacePlayer(playerID string, pos model.Position) {
	m.Positions[playerID] = pos
}

// PositionOf returns a player's current position.
func (m *Movement) PositionOf(playerID string) (model.Position, bool) {
	p, ok := m.Positions[playerID]
	return p, ok
}

func (m *Movement) link(a, b model.Position) {
	ak, bk := a.Key(), b.Key()
	if m.Edges[ak] == nil {
		m.Edges[ak] = make(map[string]bool)
	}
	if m.Edges[bk] == nil {
		m.Edges[bk] = make(map[string]bool)
	}
	m.Edges[ak][bk] = true
	m.Edges[bk][ak] = true
}

// RecordTilePlaced rebuilds the edges touching a newly placed tile:
// for every already-placed neighbor whose facing side is also open,
// both directions of the shared edge become traversable. If the new
// tile bears a TELEPORTATION_GATE, it joins the teleport clique with
// every other placed gate (spec §4.4).
func (m *Movement) RecordTilePlaced(pos model.Position, orientation model.Orientation, isGate bool, neighborTile func(model.Side) (model.Orientation, bool)) {
	for _, side := range model.AllSides() {
		if !orientation.IsOpen(side) {
			continue
		}
		neighborOrientation, placed := neighborTile(side)
		if !placed {
			continue
		}
		if neighborOrientation.IsOpen(side.Opposite()) {
			m.link(pos, pos.Neighbor(side))
		}
	}
	if isGate {
		for existing := range m.Gates {
			m.Edges[existing] = orDefault(m.Edges[existing])
			m.Edges[existing][pos.Key()] = true
			if m.Edges[pos.Key()] == nil {
				m.Edges[pos.Key()] = make(map[string]bool)
			}
			m.Edges[pos.Key()][existing] = true
		}
		m.Gates[pos.Key()] = true
	}
}

func orDefault(m map[string]bool) map[string]bool {
	if m == nil {
		return make(map[string]bool)
	}
	return m
}

// CanReach reports whether to is reachable from from in one move,
// through an open edge or the teleport clique.
func (m *Movement) CanReach(from, to model.Position) bool {
	return m.Edges[from.Key()][to.Key()]
}

// MovePlayer validates and applies one movement step (spec §4.4).
// hpZero and undefeatedMonsterAt let the caller supply the player's current HP
// and the field's guard state without Movement importing those
// aggregates directly.
func (m *Movement) MovePlayer(playerID string, from, to model.Position, ignoreMonster bool, battledThisTurn bool, hpZero bool, undefeatedMonsterAt func(model.Position) bool) error {
	if battledThisTurn && !ignoreMonster {
		return errs.ErrCannotMoveAfterBattle
	}
	current, ok := m.Positions[playerID]
	if !ok || current != from {
		return errs.ErrInvalidMovement
	}
	if !m.CanReach(from, to) {
		return errs.ErrInvalidMovement
	}
	if hpZero && !undefeatedMonsterAt(to) {
		return errs.ErrPlayerStunnedCanOnlyMoveToMonster
	}
	m.Positions[playerID] = to
	return nil
}

// ResetPosition forcibly moves a player back without edge validation.
// Used for the battle-return bounce (DRAW/LOSE) and fountain/teleport
// spell relocation, which are not ordinary graph moves.
func (m *Movement) ResetPosition(playerID string, pos model.Position) {
	m.Positions[playerID] = pos
}
