package bus

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/dungeoncrawl/engine/internal/core/clock"
	"github.com/dungeoncrawl/engine/internal/errs"
	"github.com/dungeoncrawl/engine/internal/persist"
)

// GameScoped is implemented by every command so the bus can partition
// outbox rows and per-game serialization by game id.
type GameScoped interface {
	GameID() string
}

// Idempotent is implemented by commands whose id should be deduplicated
// against the commands_seen table (spec §8).
type Idempotent interface {
	IdempotencyKey() string
}

// Bus is the in-process, synchronous command/event dispatcher (spec §4.1).
// Registration happens once at startup, via a plain handler table wired
// up in cmd/dungeonserver/main.go.
type Bus struct {
	store           *persist.Store
	clock           clock.Clock
	log             *zap.Logger
	commandHandlers map[string]CommandHandler
	eventHandlers   map[string][]EventHandler
	inflight        singleflight.Group
}

func New(store *persist.Store, clk clock.Clock, log *zap.Logger) *Bus {
	return &Bus{
		store:           store,
		clock:           clk,
		log:             log,
		commandHandlers: make(map[string]CommandHandler),
		eventHandlers:   make(map[string][]EventHandler),
	}
}

// RegisterCommand binds the one handler for a command type. Registering
// the same command name twice is a startup-time programming error.
func (b *Bus) RegisterCommand(name string, h CommandHandler) {
	if _, exists := b.commandHandlers[name]; exists {
		panic(fmt.Sprintf("bus: command %q already registered", name))
	}
	b.commandHandlers[name] = h
}

// Subscribe adds an event handler, run in registration order on emission.
func (b *Bus) Subscribe(name string, h EventHandler) {
	b.eventHandlers[name] = append(b.eventHandlers[name], h)
}

func (b *Bus) dispatch(c *Context, cmd Command) (result any, err error) {
	h, ok := b.commandHandlers[cmd.CommandName()]
	if !ok {
		return nil, errs.Wrap(errs.ErrInternal, fmt.Errorf("no handler registered for command %q", cmd.CommandName()))
	}
	return h(c, cmd)
}

func (b *Bus) publish(c *Context, evt Event) error {
	for _, h := range b.eventHandlers[evt.EventName()] {
		if err := h(c, evt); err != nil {
			return err
		}
	}
	return nil
}

// Execute is the external entry point for one command: it opens the
// transaction, dispatches the root command, stages the accumulated
// outbox, and commits, or rolls back entirely on any error (spec §4.1,
// §5 "Resource acquisition").
func (b *Bus) Execute(stdctx context.Context, cmd Command) (any, error) {
	var idemKey string
	if idem, ok := cmd.(Idempotent); ok {
		idemKey = idem.IdempotencyKey()
	}
	var gameID string
	if scoped, ok := cmd.(GameScoped); ok {
		gameID = scoped.GameID()
	}

	if idemKey == "" {
		return b.execute(stdctx, cmd, gameID, "")
	}

	// Concurrent retries of the exact same client idempotency key (a
	// client that times out and resubmits before the first attempt has
	// committed) collapse onto one in-flight transaction instead of
	// racing each other against commands_seen.
	key := fingerprint(cmd.CommandName(), gameID, idemKey)
	v, err, _ := b.inflight.Do(key, func() (any, error) {
		return b.execute(stdctx, cmd, gameID, key)
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// execute runs one command inside its own transaction: dispatch, stage the
// accumulated outbox, mark the idempotency key (if any), and commit, or
// roll back entirely on any error (spec §4.1, §5 "Resource acquisition").
func (b *Bus) execute(stdctx context.Context, cmd Command, gameID, idemKey string) (result any, err error) {
	tx, err := b.store.Begin(stdctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrInternal, fmt.Errorf("begin transaction: %w", err))
	}
	defer func() {
		_ = tx.Rollback(stdctx) // no-op if already committed
	}()

	if idemKey != "" {
		seen, err := b.store.WasProcessed(stdctx, tx, idemKey)
		if err != nil {
			return nil, errs.Wrap(errs.ErrInternal, err)
		}
		if seen {
			return nil, nil
		}
	}

	c := &Context{
		std:   stdctx,
		bus:   b,
		tx:    tx,
		cache: make(map[string]any),
		now:   b.clock.Now(),
	}

	result, err = func() (result any, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = errs.Wrap(errs.ErrInternal, fmt.Errorf("handler panic: %v", r))
			}
		}()
		return c.Dispatch(cmd)
	}()

	if err != nil {
		if isGameAlreadyFinished(err) && isIdempotentEndOfLife(cmd) {
			// spec §7: GameAlreadyFinished silently no-ops for EndTurn/
			// FinalizeBattle so racing clients don't see a hard error.
			return nil, nil
		}
		return nil, err
	}

	if len(c.outbox) > 0 {
		records := make([]persist.OutboxRecord, 0, len(c.outbox))
		for _, e := range c.outbox {
			records = append(records, persist.OutboxRecord{
				GameID:      gameID,
				MessageType: e.MessageType,
				Payload:     e.Payload,
			})
		}
		if err := b.store.RecordOutbox(stdctx, tx, records); err != nil {
			return nil, errs.Wrap(errs.ErrInternal, err)
		}
	}

	if idemKey != "" {
		if err := b.store.MarkProcessed(stdctx, tx, idemKey, gameID); err != nil {
			return nil, errs.Wrap(errs.ErrInternal, err)
		}
	}

	if err := tx.Commit(stdctx); err != nil {
		b.log.Warn("commit failed, caller should retry", zap.Error(err), zap.String("command", cmd.CommandName()))
		return nil, errs.Wrap(errs.ErrOptimisticLock, err)
	}
	return result, nil
}

func isGameAlreadyFinished(err error) bool {
	e, ok := err.(*errs.Error)
	return ok && e.Is(errs.ErrGameAlreadyFinished)
}

// isIdempotentEndOfLife names the commands spec §7 allows to silently
// no-op once the game has finished.
func isIdempotentEndOfLife(cmd Command) bool {
	switch cmd.CommandName() {
	case "EndTurn", "FinalizeBattle":
		return true
	default:
		return false
	}
}
