package rng

import "testing"

func TestFixedIntnCycles(t *testing.T) {
	f := NewFixed(1, 2, 3)
	got := []int{f.Intn(10), f.Intn(10), f.Intn(10), f.Intn(10)}
	want := []int{1, 2, 3, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %d want %d", i, got[i], want[i])
		}
	}
}

func TestDiceSourceFixedCycles(t *testing.T) {
	d := NewFixedDiceSource([]int{6, 6, 3, 2})
	rolls := []int{d.Next(1, 6), d.Next(1, 6), d.Next(1, 6), d.Next(1, 6), d.Next(1, 6)}
	want := []int{6, 6, 3, 2, 6}
	for i := range want {
		if rolls[i] != want[i] {
			t.Fatalf("roll %d: got %d want %d", i, rolls[i], want[i])
		}
	}
}

func TestDiceSourceFromSourceStaysInRange(t *testing.T) {
	d := NewDiceSource(NewCryptoSource())
	for i := 0; i < 100; i++ {
		v := d.Next(1, 6)
		if v < 1 || v > 6 {
			t.Fatalf("roll out of range: %d", v)
		}
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7}
	src := NewFixed(3, 1, 0, 5, 2, 4, 1)
	Shuffle(len(items), src, func(i, j int) { items[i], items[j] = items[j], items[i] })

	seen := make(map[int]bool, len(items))
	for _, v := range items {
		seen[v] = true
	}
	if len(seen) != 8 {
		t.Fatalf("shuffle lost elements: %v", items)
	}
}
