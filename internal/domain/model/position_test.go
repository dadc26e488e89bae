package model

import "testing"

func TestPositionKey(t *testing.T) {
	p := Position{X: -1, Y: 2}
	if p.Key() != "-1,2" {
		t.Fatalf("key = %q, want -1,2", p.Key())
	}
}

func TestPositionNeighbor(t *testing.T) {
	p := Position{X: 0, Y: 0}
	cases := []struct {
		side Side
		want Position
	}{
		{Top, Position{X: 0, Y: -1}},
		{Right, Position{X: 1, Y: 0}},
		{Bottom, Position{X: 0, Y: 1}},
		{Left, Position{X: -1, Y: 0}},
	}
	for _, c := range cases {
		if got := p.Neighbor(c.side); got != c.want {
			t.Fatalf("Neighbor(%v) = %v, want %v", c.side, got, c.want)
		}
	}
}

func TestSideOpposite(t *testing.T) {
	cases := []struct{ s, want Side }{
		{Top, Bottom}, {Bottom, Top}, {Left, Right}, {Right, Left},
	}
	for _, c := range cases {
		if got := c.s.Opposite(); got != c.want {
			t.Fatalf("%v.Opposite() = %v, want %v", c.s, got, c.want)
		}
	}
}
