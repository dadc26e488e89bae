// Package outbox drains the transactional outbox staged by internal/bus
// and hands each row to a Sink for external delivery (spec §4.1, §9:
// per-game FIFO, at-least-once).
package outbox

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dungeoncrawl/engine/internal/persist"
)

// Sink delivers one outbox row to whatever sits outside the engine
// (a webhook, a message broker, a log sink for local development). The
// engine ships no transport of its own (spec §1 puts wire protocols out
// of scope), so Sink is the seam a deployment plugs a real one into.
type Sink interface {
	Deliver(ctx context.Context, row persist.OutboxRow) error
}

// LogSink is the default Sink: it logs every event at info level. Useful
// standalone or in development; production deployments supply their own
// Sink (HTTP webhook, Kafka producer, etc).
type LogSink struct {
	Log *zap.Logger
}

func (s LogSink) Deliver(_ context.Context, row persist.OutboxRow) error {
	s.Log.Info("outbox event",
		zap.Int64("id", row.ID),
		zap.String("gameId", row.GameID),
		zap.String("type", row.MessageType),
	)
	return nil
}

// Dispatcher polls for games with pending rows and delivers each game's
// queue in order, games running concurrently with each other (spec §9:
// FIFO is only guaranteed within one game).
type Dispatcher struct {
	store        *persist.Store
	sink         Sink
	log          *zap.Logger
	pollInterval time.Duration
	batchSize    int
}

func NewDispatcher(store *persist.Store, sink Sink, log *zap.Logger, pollInterval time.Duration, batchSize int) *Dispatcher {
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Dispatcher{store: store, sink: sink, log: log, pollInterval: pollInterval, batchSize: batchSize}
}

// Run polls until ctx is cancelled, fanning each poll's pending games out
// to an errgroup so one game's slow sink can't stall another's delivery.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := d.poll(ctx); err != nil {
				d.log.Warn("outbox poll failed", zap.Error(err))
			}
		}
	}
}

func (d *Dispatcher) poll(ctx context.Context) error {
	gameIDs, err := d.store.PendingGameIDs(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, gameID := range gameIDs {
		gameID := gameID
		g.Go(func() error {
			return d.drainGame(gctx, gameID)
		})
	}
	return g.Wait()
}

// drainGame delivers one game's pending rows in FIFO order, marking each
// sent immediately so a later failure in the same batch doesn't redeliver
// rows the sink already accepted.
func (d *Dispatcher) drainGame(ctx context.Context, gameID string) error {
	rows, err := d.store.PendingOutbox(ctx, gameID, d.batchSize)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := d.sink.Deliver(ctx, row); err != nil {
			d.log.Warn("outbox delivery failed, will retry next poll",
				zap.Error(err), zap.String("gameId", gameID), zap.Int64("id", row.ID))
			return nil // stop this game's batch; earlier rows already marked sent
		}
		if err := d.store.MarkOutboxSent(ctx, []int64{row.ID}); err != nil {
			return err
		}
	}
	return nil
}
