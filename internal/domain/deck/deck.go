// Package deck implements the ordered draw pile of tile templates
// (spec §4.2). A Deck is created once per game from the rulebook's
// classic composition, optionally overridden by the game's
// deterministic test seam.
package deck

import (
	"github.com/dungeoncrawl/engine/internal/core/rng"
	"github.com/dungeoncrawl/engine/internal/core/seam"
	"github.com/dungeoncrawl/engine/internal/errs"
	"github.com/dungeoncrawl/engine/internal/rulebook"
)

// Deck is the per-game draw pile. Queue[0] is the next tile PickNext returns.
type Deck struct {
	GameID string
	Queue  []rulebook.TileTemplate
}

// New builds a Deck from the rulebook's classic composition. When the
// game's overrides name a TileTemplateIDs sequence, that sequence is
// installed verbatim (looked up against the rulebook's templates) and
// never shuffled; otherwise the expanded composition is used, shuffled
// with src only when the game has no overrides installed.
func New(gameID string, rb *rulebook.Rulebook, src rng.Source, ov *seam.Overrides) *Deck {
	if ov != nil && len(ov.TileTemplateIDs) > 0 {
		byID := indexTemplates(rb)
		queue := make([]rulebook.TileTemplate, 0, len(ov.TileTemplateIDs))
		for _, id := range ov.TileTemplateIDs {
			if t, ok := byID[id]; ok {
				queue = append(queue, t)
			}
		}
		return &Deck{GameID: gameID, Queue: queue}
	}

	queue := expand(rb.Deck)
	if ov == nil {
		rng.Shuffle(len(queue), src, func(i, j int) {
			queue[i], queue[j] = queue[j], queue[i]
		})
	}
	return &Deck{GameID: gameID, Queue: queue}
}

func expand(entries []rulebook.TileEntry) []rulebook.TileTemplate {
	var out []rulebook.TileTemplate
	for _, e := range entries {
		for i := 0; i < e.Count; i++ {
			out = append(out, e.Template)
		}
	}
	return out
}

func indexTemplates(rb *rulebook.Rulebook) map[string]rulebook.TileTemplate {
	byID := map[string]rulebook.TileTemplate{rb.StartingTile.ID: rb.StartingTile}
	for _, e := range rb.Deck {
		byID[e.Template.ID] = e.Template
	}
	return byID
}

// PickNext pops the head of the queue, failing typed when empty (spec §4.2).
func (d *Deck) PickNext() (rulebook.TileTemplate, error) {
	if len(d.Queue) == 0 {
		return rulebook.TileTemplate{}, errs.ErrNoTilesLeftInDeck
	}
	t := d.Queue[0]
	d.Queue = d.Queue[1:]
	return t, nil
}

// Remaining reports how many tiles are left to draw.
func (d *Deck) Remaining() int { return len(d.Queue) }
