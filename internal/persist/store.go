package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dungeoncrawl/engine/internal/errs"
)

// Store is the generic versioned-aggregate store: one row per
// (table, id) keyed pair, with an integer version column bumped on
// every write (spec §3 "Ownership & lifecycle", §9 "Optimistic
// concurrency"). Every aggregate kind (game, field, deck, bag,
// movement, player, turn, battle) shares this one schema.
type Store struct {
	db *DB
}

func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// Begin starts the transaction that scopes one external command.
func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	return s.db.Pool.Begin(ctx)
}

// LoadSnapshot loads the JSON snapshot and version for (table,id) into out.
// found is false if no row exists yet (a new aggregate).
func (s *Store) LoadSnapshot(ctx context.Context, tx pgx.Tx, table, id string, out any) (version int, found bool, err error) {
	row := tx.QueryRow(ctx, fmt.Sprintf(`SELECT version, data FROM %s WHERE id = $1`, table), id)
	var raw []byte
	if err := row.Scan(&version, &raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("load %s/%s: %w", table, id, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return 0, false, fmt.Errorf("unmarshal %s/%s: %w", table, id, err)
	}
	return version, true, nil
}

// SaveSnapshot inserts a new row (expectedVersion==0) or updates an
// existing one conditioned on expectedVersion, the optimistic-lock
// check from spec §4.1. A mismatched version returns ErrOptimisticLock.
func (s *Store) SaveSnapshot(ctx context.Context, tx pgx.Tx, table, id string, expectedVersion int, data any) (newVersion int, err error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return 0, fmt.Errorf("marshal %s/%s: %w", table, id, err)
	}

	if expectedVersion == 0 {
		_, err := tx.Exec(ctx,
			fmt.Sprintf(`INSERT INTO %s (id, version, data) VALUES ($1, 1, $2)`, table),
			id, raw,
		)
		if err != nil {
			return 0, fmt.Errorf("insert %s/%s: %w", table, id, err)
		}
		return 1, nil
	}

	tag, err := tx.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET version = version + 1, data = $2, updated_at = now()
		              WHERE id = $1 AND version = $3`, table),
		id, raw, expectedVersion,
	)
	if err != nil {
		return 0, fmt.Errorf("update %s/%s: %w", table, id, err)
	}
	if tag.RowsAffected() == 0 {
		return 0, errs.Wrap(errs.ErrOptimisticLock, fmt.Errorf("%s/%s: expected version %d", table, id, expectedVersion))
	}
	return expectedVersion + 1, nil
}

// OutboxRecord is one externally-deliverable event staged for the
// outbox dispatcher (spec §4.1, §9: per-game FIFO, at-least-once).
type OutboxRecord struct {
	GameID      string
	MessageType string
	Payload     []byte
}

// RecordOutbox inserts a batch of outbox rows in the caller's transaction.
func (s *Store) RecordOutbox(ctx context.Context, tx pgx.Tx, records []OutboxRecord) error {
	for _, r := range records {
		if _, err := tx.Exec(ctx,
			`INSERT INTO outbox (game_id, message_type, payload) VALUES ($1, $2, $3)`,
			r.GameID, r.MessageType, r.Payload,
		); err != nil {
			return fmt.Errorf("insert outbox: %w", err)
		}
	}
	return nil
}

// PendingOutbox returns unsent rows for one game in FIFO (id) order.
func (s *Store) PendingOutbox(ctx context.Context, gameID string, limit int) ([]OutboxRow, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT id, game_id, message_type, payload FROM outbox
		 WHERE game_id = $1 AND sent_at IS NULL ORDER BY id ASC LIMIT $2`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	var out []OutboxRow
	for rows.Next() {
		var r OutboxRow
		if err := rows.Scan(&r.ID, &r.GameID, &r.MessageType, &r.Payload); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PendingGameIDs lists the distinct games with at least one undelivered
// outbox row, so the dispatcher can fan out per-game workers without
// scanning the whole table on every poll.
func (s *Store) PendingGameIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.Pool.Query(ctx, `SELECT DISTINCT game_id FROM outbox WHERE sent_at IS NULL`)
	if err != nil {
		return nil, fmt.Errorf("query pending game ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MarkOutboxSent marks rows delivered; the dispatcher calls this after a
// successful at-least-once send, so consumers must be idempotent on id.
func (s *Store) MarkOutboxSent(ctx context.Context, ids []int64) error {
	_, err := s.db.Pool.Exec(ctx, `UPDATE outbox SET sent_at = now() WHERE id = ANY($1)`, ids)
	return err
}

// OutboxRow is one persisted outbox entry.
type OutboxRow struct {
	ID          int64
	GameID      string
	MessageType string
	Payload     []byte
}

// WasProcessed checks the idempotency-key dedup table for a command id
// already committed, so resending a command id is a no-op (spec §7/§8).
func (s *Store) WasProcessed(ctx context.Context, tx pgx.Tx, idempotencyKey string) (bool, error) {
	if idempotencyKey == "" {
		return false, nil
	}
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM commands_seen WHERE idempotency_key = $1)`, idempotencyKey).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check idempotency key: %w", err)
	}
	return exists, nil
}

// MarkProcessed records a command id as committed, in the same transaction.
func (s *Store) MarkProcessed(ctx context.Context, tx pgx.Tx, idempotencyKey, gameID string) error {
	if idempotencyKey == "" {
		return nil
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO commands_seen (idempotency_key, game_id) VALUES ($1, $2)
		 ON CONFLICT (idempotency_key) DO NOTHING`,
		idempotencyKey, gameID,
	)
	return err
}
