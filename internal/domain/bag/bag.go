// Package bag implements the ordered draw pile of room contents:
// monsters, chests, and the dragon (spec §4.2).
package bag

import (
	"github.com/dungeoncrawl/engine/internal/core/rng"
	"github.com/dungeoncrawl/engine/internal/core/seam"
	"github.com/dungeoncrawl/engine/internal/domain/model"
	"github.com/dungeoncrawl/engine/internal/errs"
	"github.com/dungeoncrawl/engine/internal/rulebook"
)

// Bag is the per-game item draw pile. Queue[0] is the next item PickNext returns.
type Bag struct {
	GameID string
	Queue  []model.Item
}

// New builds a Bag from the rulebook's classic distribution. The
// dragon is always appended last, after shuffling the rest, so it is
// guaranteed to be drawn once the bag is exhausted to its last room
// tile. In deterministic mode the overrides' ItemNames sequence is
// installed verbatim instead, with no dragon added beyond any the
// sequence names; an override without ItemNames keeps the classic
// distribution but skips the shuffle.
func New(gameID string, rb *rulebook.Rulebook, src rng.Source, ov *seam.Overrides, nextID func() string) *Bag {
	if ov != nil && len(ov.ItemNames) > 0 {
		byName := indexEntries(rb)
		queue := make([]model.Item, 0, len(ov.ItemNames))
		for _, name := range ov.ItemNames {
			if e, ok := byName[name]; ok {
				queue = append(queue, e.Item(nextID()))
			}
		}
		return &Bag{GameID: gameID, Queue: queue}
	}

	queue := expand(rb.Bag, nextID)
	if ov == nil {
		rng.Shuffle(len(queue), src, func(i, j int) {
			queue[i], queue[j] = queue[j], queue[i]
		})
	}
	for i := 0; i < rb.Dragon.Count; i++ {
		queue = append(queue, rb.Dragon.Item(nextID()))
	}
	return &Bag{GameID: gameID, Queue: queue}
}

func expand(entries []rulebook.BagEntry, nextID func() string) []model.Item {
	var out []model.Item
	for _, e := range entries {
		for i := 0; i < e.Count; i++ {
			out = append(out, e.Item(nextID()))
		}
	}
	return out
}

func indexEntries(rb *rulebook.Rulebook) map[string]rulebook.BagEntry {
	byName := map[string]rulebook.BagEntry{rb.Dragon.Name: rb.Dragon}
	for _, e := range rb.Bag {
		byName[e.Name] = e
	}
	return byName
}

// PickNext pops the head of the queue, failing typed when empty (spec §4.2).
func (b *Bag) PickNext() (model.Item, error) {
	if len(b.Queue) == 0 {
		return model.Item{}, errs.ErrNoItemsLeftInBag
	}
	it := b.Queue[0]
	b.Queue = b.Queue[1:]
	return it, nil
}

// Remaining reports how many items are left to draw.
func (b *Bag) Remaining() int { return len(b.Queue) }
