package bag

import (
	"strconv"
	"testing"

	"github.com/dungeoncrawl/engine/internal/core/rng"
	"github.com/dungeoncrawl/engine/internal/core/seam"
	"github.com/dungeoncrawl/engine/internal/rulebook"
)

func sequentialID() func() string {
	n := 0
	return func() string {
		n++
		return "item-" + strconv.Itoa(n)
	}
}

func totalBagCount(rb *rulebook.Rulebook) int {
	n := rb.Dragon.Count
	for _, e := range rb.Bag {
		n += e.Count
	}
	return n
}

func TestNewShufflesWithoutOverride(t *testing.T) {
	rb := rulebook.Default()
	b := New("game-1", rb, rng.NewFixed(0), nil, sequentialID())
	if b.Remaining() != totalBagCount(rb) {
		t.Fatalf("remaining = %d, want %d", b.Remaining(), totalBagCount(rb))
	}
}

func TestNewAppendsDragonLast(t *testing.T) {
	rb := rulebook.Default()
	b := New("game-1", rb, rng.NewFixed(0), nil, sequentialID())
	last := b.Queue[len(b.Queue)-1]
	if last.Name != rb.Dragon.Name {
		t.Fatalf("last item = %q, want dragon %q", last.Name, rb.Dragon.Name)
	}
}

func TestNewInstallsOverrideSequenceVerbatim(t *testing.T) {
	rb := rulebook.Default()
	ov := &seam.Overrides{ItemNames: []string{"GiantRat", "Chest"}}
	b := New("game-1", rb, rng.NewFixed(0), ov, sequentialID())
	if b.Remaining() != 2 {
		t.Fatalf("remaining = %d, want 2", b.Remaining())
	}
	first, err := b.PickNext()
	if err != nil {
		t.Fatal(err)
	}
	if first.Name != "GiantRat" {
		t.Fatalf("first = %q, want GiantRat", first.Name)
	}
}

func TestPickNextEmpty(t *testing.T) {
	b := &Bag{GameID: "g"}
	if _, err := b.PickNext(); err == nil {
		t.Fatal("expected error on empty bag")
	}
}

func TestPickNextDrainsInOrder(t *testing.T) {
	rb := rulebook.Default()
	ov := &seam.Overrides{ItemNames: []string{"Fallen", "SkeletonKing"}}
	b := New("game-1", rb, rng.NewFixed(0), ov, sequentialID())

	first, err := b.PickNext()
	if err != nil {
		t.Fatal(err)
	}
	if first.Name != "Fallen" {
		t.Fatalf("first = %q, want Fallen", first.Name)
	}
	if b.Remaining() != 1 {
		t.Fatalf("remaining = %d, want 1", b.Remaining())
	}
}
