package model

import "testing"

func TestOrientationFromStringRoundTrip(t *testing.T) {
	o, err := OrientationFromString("1110")
	if err != nil {
		t.Fatal(err)
	}
	if o != OrientationT {
		t.Fatalf("parsed = %v, want OrientationT", o)
	}
	if o.String() != "1110" {
		t.Fatalf("String() = %q, want 1110", o.String())
	}
}

func TestOrientationFromStringInvalid(t *testing.T) {
	if _, err := OrientationFromString("101"); err == nil {
		t.Fatal("expected error for short mask")
	}
	if _, err := OrientationFromString("10x0"); err == nil {
		t.Fatal("expected error for non-bit character")
	}
}

func TestOrientationIsOpen(t *testing.T) {
	o := OrientationCorner // TOP,RIGHT
	if !o.IsOpen(Top) || !o.IsOpen(Right) {
		t.Fatal("corner should open TOP and RIGHT")
	}
	if o.IsOpen(Bottom) || o.IsOpen(Left) {
		t.Fatal("corner should not open BOTTOM or LEFT")
	}
}

func TestOrientationRotateCycles(t *testing.T) {
	o := OrientationCorner // 1100
	r1 := o.Rotate()
	if r1.String() != "0110" {
		t.Fatalf("one rotation = %v, want 0110", r1)
	}
	r4 := o.RotateTimes(4)
	if r4 != o {
		t.Fatalf("four rotations = %v, want identity %v", r4, o)
	}
}

func TestOrientationRotateTimesNegative(t *testing.T) {
	o := OrientationCorner
	if o.RotateTimes(-1) != o.RotateTimes(3) {
		t.Fatal("RotateTimes(-1) should equal RotateTimes(3)")
	}
}

func TestOrientationRotateToSatisfy(t *testing.T) {
	// A straight corridor (TOP,BOTTOM open) approached from the south
	// (topSide=Bottom) must end up open on the opposite side too.
	o := OrientationStraight
	rotated, k, ok := o.RotateToSatisfy(Bottom, Top)
	if !ok {
		t.Fatal("expected a satisfying rotation")
	}
	if !rotated.IsOpen(Top) {
		t.Fatalf("rotated mask %v does not open TOP", rotated)
	}
	if o.RotateTimes(k) != rotated {
		t.Fatalf("rotation count %d does not reproduce the returned mask", k)
	}
}
