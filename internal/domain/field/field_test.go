package field

import (
	"testing"

	"github.com/dungeoncrawl/engine/internal/domain/model"
)

func TestNewOpensAllFourNeighborsFromCrossStart(t *testing.T) {
	f := New("g1", "start", model.OrientationCross, []model.Feature{model.FeatureHealingFountain})
	for _, side := range model.AllSides() {
		n := model.Position{}.Neighbor(side)
		if !f.IsAvailable(n) {
			t.Fatalf("expected %v available from cross-shaped start", n)
		}
	}
}

func TestPlaceTileRejectsOccupiedAndNonAdjacent(t *testing.T) {
	f := New("g1", "start", model.OrientationCross, nil)
	f.SetPending("t2", "straight_corridor", model.OrientationStraight, false, nil, model.Top, "p1", "turn1")
	if _, err := f.PlaceTile(model.Position{X: 0, Y: 0}); err == nil {
		t.Fatal("expected ErrPlacementOccupied at the starting tile")
	}

	f.SetPending("t3", "straight_corridor", model.OrientationStraight, false, nil, model.Top, "p1", "turn1")
	if _, err := f.PlaceTile(model.Position{X: 5, Y: 5}); err == nil {
		t.Fatal("expected ErrPlacementNotAdjacent far from the frontier")
	}
}

func TestPlaceTileSucceedsOnFrontierAndUpdatesAvailability(t *testing.T) {
	f := New("g1", "start", model.OrientationCross, nil)
	f.SetPending("t2", "straight_corridor", model.OrientationStraight, false, nil, model.Top, "p1", "turn1")
	east := model.Position{X: 1, Y: 0}
	tile, err := f.PlaceTile(east)
	if err != nil {
		t.Fatal(err)
	}
	if tile.Position != east {
		t.Fatalf("placed at %v, want %v", tile.Position, east)
	}
	if f.IsAvailable(east) {
		t.Fatal("placed position should no longer be available")
	}
	if f.Pending != nil {
		t.Fatal("pending should be cleared after placement")
	}
}
