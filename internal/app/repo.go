// Package app wires every command in spec §6 onto the bus: it builds
// the aggregate repositories, constructs the per-game randomness/dice/
// clock services from the deterministic test seam, and registers one
// handler function per command.
package app

import (
	"github.com/dungeoncrawl/engine/internal/bus"
	"github.com/dungeoncrawl/engine/internal/persist"
)

// Loaded pairs an aggregate snapshot with the version its next save
// must be conditioned on: the finder-cache entry spec §4.1 requires
// ("subsequent lookups in the same transaction return the same
// instance").
type Loaded[T any] struct {
	Version int
	Data    *T
}

// Load fetches (table,id) through the transaction's finder cache,
// returning a fresh zero value (version 0) when no row exists yet.
func Load[T any](c *bus.Context, store *persist.Store, table, kind, id string, zero func() *T) (*Loaded[T], error) {
	v, err := c.Find(kind, id, func() (any, error) {
		var out T
		version, found, err := store.LoadSnapshot(c.StdContext(), c.Tx(), table, id, &out)
		if err != nil {
			return nil, err
		}
		if !found {
			return &Loaded[T]{Version: 0, Data: zero()}, nil
		}
		return &Loaded[T]{Version: version, Data: &out}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Loaded[T]), nil
}

// Save persists the aggregate's current in-memory state, bumping the
// cached version so a later Save in the same transaction is
// conditioned on the write that just happened.
func Save[T any](c *bus.Context, store *persist.Store, table, kind, id string, l *Loaded[T]) error {
	newVersion, err := store.SaveSnapshot(c.StdContext(), c.Tx(), table, id, l.Version, l.Data)
	if err != nil {
		return err
	}
	l.Version = newVersion
	c.Put(kind, id, l)
	return nil
}
