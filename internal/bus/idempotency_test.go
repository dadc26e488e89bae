package bus

import "testing"

func TestFingerprintDeterministic(t *testing.T) {
	a := fingerprint("MovePlayer", "game-1", "client-key-1")
	b := fingerprint("MovePlayer", "game-1", "client-key-1")
	if a != b {
		t.Fatalf("fingerprint not deterministic: %q != %q", a, b)
	}
}

func TestFingerprintDistinguishesCommandAndGame(t *testing.T) {
	base := fingerprint("MovePlayer", "game-1", "same-client-key")
	cases := []string{
		fingerprint("PickTile", "game-1", "same-client-key"),
		fingerprint("MovePlayer", "game-2", "same-client-key"),
		fingerprint("MovePlayer", "game-1", "different-client-key"),
	}
	for _, c := range cases {
		if c == base {
			t.Fatalf("fingerprint collided with base for a different command/game/key: %q", c)
		}
	}
}

func TestFingerprintIsHexFixedLength(t *testing.T) {
	fp := fingerprint("EndTurn", "g", "k")
	if len(fp) != 64 { // blake2b-256 -> 32 bytes -> 64 hex chars
		t.Fatalf("expected 64 hex chars, got %d (%q)", len(fp), fp)
	}
}
