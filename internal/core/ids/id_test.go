package ids

import (
	"testing"
	"time"
)

func TestNewMonotonicPrefix(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Millisecond)

	a, err := New(t0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := New(t1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if string(a[:6]) >= string(b[:6]) {
		t.Fatalf("expected prefix of earlier id to sort before later id")
	}
}

func TestStringParseRoundTrip(t *testing.T) {
	id := MustNew(time.Now())
	s := id.String()

	parsed, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed != id {
		t.Fatalf("round trip mismatch: got %s want %s", parsed, id)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse("not-hex"); err == nil {
		t.Fatal("expected error for invalid hex")
	}
	if _, err := Parse("abcd"); err == nil {
		t.Fatal("expected error for short id")
	}
}

func TestIsNil(t *testing.T) {
	var id ID
	if !id.IsNil() {
		t.Fatal("zero value should be nil")
	}
	id = MustNew(time.Now())
	if id.IsNil() {
		t.Fatal("generated id should not be nil")
	}
}
