package game

import "testing"

func TestAddPlayerRejectsAfterStart(t *testing.T) {
	g := New("g1", 88)
	if err := g.AddPlayer("p1", 4); err != nil {
		t.Fatal(err)
	}
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	if err := g.AddPlayer("p2", 4); err == nil {
		t.Fatal("expected NotPreparing once started")
	}
}

func TestAddPlayerRejectsOverCap(t *testing.T) {
	g := New("g1", 88)
	for i := 0; i < 4; i++ {
		if err := g.AddPlayer(string(rune('a'+i)), 4); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.AddPlayer("overflow", 4); err == nil {
		t.Fatal("expected GameAlreadyFull")
	}
}

func TestAdvanceRotatesClockwiseAndSkipsDefeated(t *testing.T) {
	g := New("g1", 88)
	for _, id := range []string{"p1", "p2", "p3"} {
		if err := g.AddPlayer(id, 4); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	next, skip := g.Advance("turn-2", func(string) bool { return false })
	if next != "p2" || skip {
		t.Fatalf("next=%s skip=%v, want p2/false", next, skip)
	}
	next, skip = g.Advance("turn-3", func(id string) bool { return id == "p3" })
	if next != "p3" || !skip {
		t.Fatalf("next=%s skip=%v, want p3/true", next, skip)
	}
}

func TestFinishPicksMaxScoreTieBreakByInsertionOrder(t *testing.T) {
	g := New("g1", 88)
	for _, id := range []string{"p1", "p2"} {
		_ = g.AddPlayer(id, 4)
	}
	g.Finish(map[string]int{"p1": 3, "p2": 3})
	if g.Winner != "p1" {
		t.Fatalf("winner = %s, want p1 on tie-break", g.Winner)
	}
	if g.Status != StatusFinished {
		t.Fatalf("status = %v, want FINISHED", g.Status)
	}
}
