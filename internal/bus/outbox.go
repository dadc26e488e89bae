package bus

import (
	"encoding/json"
	"fmt"
)

// OutboxEntry is the transactional-staging shape for at-least-once
// external delivery (spec §4.1, §9): one row per externally-marked
// event, inserted in the same transaction as the state mutation.
type OutboxEntry struct {
	MessageType string
	Payload     json.RawMessage
}

func newOutboxEntry(evt Event) (OutboxEntry, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return OutboxEntry{}, fmt.Errorf("marshal outbox event %s: %w", evt.EventName(), err)
	}
	return OutboxEntry{MessageType: evt.EventName(), Payload: payload}, nil
}
