package deck

import (
	"testing"

	"github.com/dungeoncrawl/engine/internal/core/rng"
	"github.com/dungeoncrawl/engine/internal/core/seam"
	"github.com/dungeoncrawl/engine/internal/rulebook"
)

func TestNewShufflesWithoutOverride(t *testing.T) {
	rb := rulebook.Default()
	d := New("game-1", rb, rng.NewFixed(0), nil)
	if d.Remaining() != rb.TotalTileCount() {
		t.Fatalf("remaining = %d, want %d", d.Remaining(), rb.TotalTileCount())
	}
}

func TestNewInstallsOverrideSequenceVerbatim(t *testing.T) {
	rb := rulebook.Default()
	ov := &seam.Overrides{TileTemplateIDs: []string{"cross_room", "straight_corridor"}}
	d := New("game-1", rb, rng.NewFixed(0), ov)
	if d.Remaining() != 2 {
		t.Fatalf("remaining = %d, want 2", d.Remaining())
	}
	first, err := d.PickNext()
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != "cross_room" {
		t.Fatalf("first = %q, want cross_room", first.ID)
	}
}

func TestPickNextEmpty(t *testing.T) {
	d := &Deck{GameID: "g"}
	if _, err := d.PickNext(); err == nil {
		t.Fatal("expected error on empty deck")
	}
}
