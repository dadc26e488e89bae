// Package field implements the placed-tile map: orientations, items,
// features, and the placement frontier (spec §3 "Field", §4.3).
package field

import (
	"strconv"
	"strings"

	"github.com/dungeoncrawl/engine/internal/domain/model"
	"github.com/dungeoncrawl/engine/internal/errs"
)

// Tile is a placed tile: the template it came from, its final
// orientation, and whatever room/feature data it carries.
type Tile struct {
	ID         string
	TemplateID string
	Position   model.Position
	Orientation model.Orientation
	Room       bool
	Features   []model.Feature
}

func (t Tile) hasFeature(f model.Feature) bool {
	for _, have := range t.Features {
		if have == f {
			return true
		}
	}
	return false
}

// Pending is a drawn-but-not-yet-placed tile, tracked between the
// PickTile/RotateTile/PlaceTile commands (each a separate external
// request in spec §4.3's protocol).
type Pending struct {
	TileID           string
	TemplateID       string
	Orientation      model.Orientation
	Room             bool
	Features         []model.Feature
	RequiredOpenSide model.Side
	PlayerID         string
	TurnID           string
}

// BattleInfo is the last-battle scratchpad Field exposes so a move
// response can surface the outcome to the caller (spec §4.3).
type BattleInfo struct {
	BattleID string
	Position model.Position
	Result   string
}

// Field is the per-game placed-tile aggregate.
type Field struct {
	GameID      string
	Tiles       map[string]Tile        // position key -> tile
	Items       map[string]model.Item  // position key -> item
	Available   map[string]bool        // position key -> is a legal next placement
	TeleportPos map[string]bool        // position key -> bears TELEPORTATION_GATE
	Pending     *Pending
	LastBattle  *BattleInfo
}

// New seeds the Field with the starting tile at (0,0), per spec §4.2/§4.3:
// the starting tile is always prepended and placed before play begins.
func New(gameID string, startingTileID string, startOrientation model.Orientation, startFeatures []model.Feature) *Field {
	f := &Field{
		GameID:      gameID,
		Tiles:       make(map[string]Tile),
		Items:       make(map[string]model.Item),
		Available:   make(map[string]bool),
		TeleportPos: make(map[string]bool),
	}
	start := Tile{
		ID:          startingTileID,
		TemplateID:  "starting_tile",
		Position:    model.Position{X: 0, Y: 0},
		Orientation: startOrientation,
		Room:        true,
		Features:    startFeatures,
	}
	f.placeTileUnchecked(start)
	return f
}

func (f *Field) placeTileUnchecked(t Tile) {
	key := t.Position.Key()
	f.Tiles[key] = t
	delete(f.Available, key)
	if t.hasFeature(model.FeatureTeleportationGate) {
		f.TeleportPos[key] = true
	}
	for _, side := range model.AllSides() {
		if !t.Orientation.IsOpen(side) {
			continue
		}
		n := t.Position.Neighbor(side)
		if _, placed := f.Tiles[n.Key()]; placed {
			continue
		}
		f.Available[n.Key()] = true
	}
}

// TileAt returns the placed tile at pos, if any.
func (f *Field) TileAt(pos model.Position) (Tile, bool) {
	t, ok := f.Tiles[pos.Key()]
	return t, ok
}

// IsAvailable reports whether pos is a legal next placement.
func (f *Field) IsAvailable(pos model.Position) bool {
	return f.Available[pos.Key()]
}

// AvailablePlacements lists the current placement frontier.
func (f *Field) AvailablePlacements() []model.Position {
	out := make([]model.Position, 0, len(f.Available))
	for key := range f.Available {
		out = append(out, parseKey(key))
	}
	return out
}

// SetPending installs the drawn, not-yet-placed tile (PickTile, spec §4.3).
func (f *Field) SetPending(tileID, templateID string, orientation model.Orientation, room bool, features []model.Feature, requiredOpenSide model.Side, playerID, turnID string) {
	f.Pending = &Pending{
		TileID:           tileID,
		TemplateID:       templateID,
		Orientation:      orientation,
		Room:             room,
		Features:         features,
		RequiredOpenSide: requiredOpenSide,
		PlayerID:         playerID,
		TurnID:           turnID,
	}
}

// RotateTile rotates the pending tile until topSide faces TOP and
// requiredOpenSide is open, failing if no rotation satisfies both.
func (f *Field) RotateTile(tileID string, topSide, requiredOpenSide model.Side) error {
	if f.Pending == nil || f.Pending.TileID != tileID {
		return errs.ErrInvalidTurnAction
	}
	rotated, _, ok := f.Pending.Orientation.RotateToSatisfy(topSide, requiredOpenSide)
	if !ok {
		return errs.ErrNoRotationSatisfies
	}
	f.Pending.Orientation = rotated
	return nil
}

// PlaceTile places the pending tile at pos, validating occupancy and
// frontier membership (spec §4.3). Returns the placed tile; the
// caller is responsible for drawing a Bag item when Room is true.
func (f *Field) PlaceTile(pos model.Position) (Tile, error) {
	if f.Pending == nil {
		return Tile{}, errs.ErrInvalidTurnAction
	}
	if _, occupied := f.Tiles[pos.Key()]; occupied {
		return Tile{}, errs.ErrPlacementOccupied
	}
	if !f.Available[pos.Key()] {
		return Tile{}, errs.ErrPlacementNotAdjacent
	}

	t := Tile{
		ID:          f.Pending.TileID,
		TemplateID:  f.Pending.TemplateID,
		Position:    pos,
		Orientation: f.Pending.Orientation,
		Room:        f.Pending.Room,
		Features:    f.Pending.Features,
	}
	f.placeTileUnchecked(t)
	f.Pending = nil
	return t, nil
}

// SetItemAt stores a Bag-drawn item at a room tile's position.
func (f *Field) SetItemAt(pos model.Position, item model.Item) {
	f.Items[pos.Key()] = item
}

// ItemAt returns the item guarding/awaiting pickup at pos, if any.
func (f *Field) ItemAt(pos model.Position) (model.Item, bool) {
	it, ok := f.Items[pos.Key()]
	return it, ok
}

// RemoveItemAt clears a position's item once picked up.
func (f *Field) RemoveItemAt(pos model.Position) {
	delete(f.Items, pos.Key())
}

// MarkGuardDefeated flips an item's guard flag after a winning battle.
func (f *Field) MarkGuardDefeated(pos model.Position) {
	it, ok := f.Items[pos.Key()]
	if !ok {
		return
	}
	it.GuardDefeated = true
	f.Items[pos.Key()] = it
}

// FeaturesAt returns the feature set of the placed tile at pos.
func (f *Field) FeaturesAt(pos model.Position) []model.Feature {
	t, ok := f.Tiles[pos.Key()]
	if !ok {
		return nil
	}
	return t.Features
}

// HasFeature reports whether the tile at pos carries f.
func (fld *Field) HasFeature(pos model.Position, feat model.Feature) bool {
	t, ok := fld.Tiles[pos.Key()]
	return ok && t.hasFeature(feat)
}

// TeleportPositions lists every placed gate position (the teleport clique).
func (f *Field) TeleportPositions() []model.Position {
	out := make([]model.Position, 0, len(f.TeleportPos))
	for key := range f.TeleportPos {
		out = append(out, parseKey(key))
	}
	return out
}

// RecordLastBattle stores the scratchpad a move response surfaces.
func (f *Field) RecordLastBattle(info BattleInfo) {
	f.LastBattle = &info
}

// parseKey parses the "x,y" position key format (spec §6). Keys are
// always produced by Position.Key, so a parse failure here would
// indicate aggregate corruption rather than bad input.
func parseKey(key string) model.Position {
	xs, ys, _ := strings.Cut(key, ",")
	x, _ := strconv.Atoi(xs)
	y, _ := strconv.Atoi(ys)
	return model.Position{X: x, Y: y}
}
