package bus

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// Context is the transactional envelope shared by every nested
// dispatch inside one external command (spec §4.1). It carries the
// enclosing database transaction, a per-transaction finder cache so
// repeated aggregate loads return the same instance, and the outbox
// accumulator for events marked external.
type Context struct {
	std   context.Context
	bus   *Bus
	tx    pgx.Tx
	cache map[string]any
	now   time.Time
	outbox []OutboxEntry
}

// StdContext returns the underlying context.Context for cancellation/deadlines.
func (c *Context) StdContext() context.Context { return c.std }

// Tx returns the transaction every repository call in this request must use.
func (c *Context) Tx() pgx.Tx { return c.tx }

// Now returns the request's fixed logical time (stable across the whole
// transaction, avoiding clock drift between nested steps).
func (c *Context) Now() time.Time { return c.now }

// Find returns a cached aggregate instance for (kind,id), loading it with
// loader on first access within this transaction.
func (c *Context) Find(kind, id string, loader func() (any, error)) (any, error) {
	key := kind + ":" + id
	if v, ok := c.cache[key]; ok {
		return v, nil
	}
	v, err := loader()
	if err != nil {
		return nil, err
	}
	c.cache[key] = v
	return v, nil
}

// Put overwrites the finder cache entry, e.g. after a nested handler
// replaces an aggregate instance wholesale.
func (c *Context) Put(kind, id string, v any) {
	c.cache[kind+":"+id] = v
}

// Dispatch runs a nested command synchronously on this transaction.
func (c *Context) Dispatch(cmd Command) (any, error) {
	return c.bus.dispatch(c, cmd)
}

// Publish delivers an event to its subscribers in registration order,
// stopping at the first error (which rolls back the whole transaction).
// Pass external=true to also stage the event in the outbox for
// at-least-once external delivery after commit.
func (c *Context) Publish(evt Event, external bool) error {
	if external {
		entry, err := newOutboxEntry(evt)
		if err != nil {
			return err
		}
		c.outbox = append(c.outbox, entry)
	}
	return c.bus.publish(c, evt)
}
