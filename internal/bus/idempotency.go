package bus

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// fingerprint folds a command's client-supplied idempotency key together
// with its command name and game id into one fixed-size, collision-resistant
// token before it ever reaches commands_seen. Client keys are free-form
// strings of unknown length and origin; hashing them keyed by command+game
// means the same client token reused across two different commands (or two
// different games) never collides in the dedup table.
func fingerprint(commandName, gameID, clientKey string) string {
	h, _ := blake2b.New256(nil)
	_, _ = h.Write([]byte(commandName))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(gameID))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(clientKey))
	return hex.EncodeToString(h.Sum(nil))
}
