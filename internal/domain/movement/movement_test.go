package movement

import (
	"testing"

	"github.com/dungeoncrawl/engine/internal/domain/model"
)

func TestRecordTilePlacedLinksOnSharedOpening(t *testing.T) {
	m := New("g1")
	start := model.Position{}
	east := model.Position{X: 1, Y: 0}
	m.RecordTilePlaced(start, model.OrientationCross, false, func(model.Side) (model.Orientation, bool) { return 0, false })
	// A straight rotated once is open LEFT/RIGHT, so it shares the opening with start.
	m.RecordTilePlaced(east, model.OrientationStraight.Rotate(), false, func(side model.Side) (model.Orientation, bool) {
		if side == model.Left {
			return model.OrientationCross, true
		}
		return 0, false
	})
	if !m.CanReach(start, east) || !m.CanReach(east, start) {
		t.Fatal("expected a bidirectional edge between start and east")
	}
}

func TestMovePlayerRejectsWrongFrom(t *testing.T) {
	m := New("g1")
	m.PlacePlayer("p1", model.Position{})
	err := m.MovePlayer("p1", model.Position{X: 9, Y: 9}, model.Position{X: 1}, false, false, false, func(model.Position) bool { return false })
	if err == nil {
		t.Fatal("expected InvalidMovement when from != current position")
	}
}

func TestMovePlayerStunnedRequiresMonster(t *testing.T) {
	m := New("g1")
	start := model.Position{}
	to := model.Position{X: 1}
	m.PlacePlayer("p1", start)
	m.link(start, to)
	err := m.MovePlayer("p1", start, to, false, false, true, func(model.Position) bool { return false })
	if err == nil {
		t.Fatal("expected PlayerStunnedCanOnlyMoveToMonster")
	}
	err = m.MovePlayer("p1", start, to, false, false, true, func(model.Position) bool { return true })
	if err != nil {
		t.Fatalf("unexpected error when monster present: %v", err)
	}
}
