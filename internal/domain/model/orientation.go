package model

import "fmt"

// Orientation is a four-bit mask of open sides, bit-ordered TOP,RIGHT,
// BOTTOM,LEFT, so printing it with "%04b" yields the TRBL wire
// encoding directly.
type Orientation uint8

const (
	bitTop Orientation = 1 << 3
	bitRgt Orientation = 1 << 2
	bitBot Orientation = 1 << 1
	bitLft Orientation = 1 << 0
)

// Canonical tile shapes named in spec §3.
const (
	OrientationCross    Orientation = bitTop | bitRgt | bitBot | bitLft // 1111
	OrientationT        Orientation = bitTop | bitRgt | bitBot         // 1110
	OrientationCorner   Orientation = bitTop | bitRgt                  // 1100
	OrientationStraight Orientation = bitTop | bitBot                  // 1010
)

func sideBit(s Side) Orientation {
	switch s {
	case Top:
		return bitTop
	case Right:
		return bitRgt
	case Bottom:
		return bitBot
	default:
		return bitLft
	}
}

// sideIndex gives the cyclic position used by Rotate: T=0,R=1,B=2,L=3.
func sideIndex(s Side) int {
	switch s {
	case Top:
		return 0
	case Right:
		return 1
	case Bottom:
		return 2
	default:
		return 3
	}
}

// IsOpen reports whether the given side is open.
func (o Orientation) IsOpen(s Side) bool {
	return o&sideBit(s) != 0
}

func (o Orientation) withOpen(s Side, open bool) Orientation {
	if open {
		return o | sideBit(s)
	}
	return o &^ sideBit(s)
}

// Rotate performs one 90° clockwise cyclic shift of the mask: the
// opening that faced TOP now faces RIGHT, RIGHT now faces BOTTOM, and
// so on, wrapping LEFT back to TOP.
func (o Orientation) Rotate() Orientation {
	var n Orientation
	n = n.withOpen(Right, o.IsOpen(Top))
	n = n.withOpen(Bottom, o.IsOpen(Right))
	n = n.withOpen(Left, o.IsOpen(Bottom))
	n = n.withOpen(Top, o.IsOpen(Left))
	return n
}

// RotateTimes applies Rotate n times (n may be negative or >3; normalized mod 4).
func (o Orientation) RotateTimes(n int) Orientation {
	n = ((n % 4) + 4) % 4
	for i := 0; i < n; i++ {
		o = o.Rotate()
	}
	return o
}

// RotateToSatisfy finds the rotation count k in [0,3] such that the side
// originally labeled topSide ends up facing TOP, and requiredOpenSide is
// open in the resulting mask. Exactly one k can satisfy the first
// condition; it fails if that rotation doesn't also satisfy the second.
func (o Orientation) RotateToSatisfy(topSide, requiredOpenSide Side) (Orientation, int, bool) {
	for k := 0; k < 4; k++ {
		if (sideIndex(topSide)+k)%4 != sideIndex(Top) {
			continue
		}
		rotated := o.RotateTimes(k)
		if rotated.IsOpen(requiredOpenSide) {
			return rotated, k, true
		}
		return o, 0, false
	}
	return o, 0, false
}

// String renders the mask as four bits in TOP,RIGHT,BOTTOM,LEFT order.
func (o Orientation) String() string {
	return fmt.Sprintf("%04b", uint8(o))
}

// OrientationFromString parses a TRBL bit string, e.g. "1110".
func OrientationFromString(s string) (Orientation, error) {
	if len(s) != 4 {
		return 0, fmt.Errorf("parse orientation %q: want 4 bits", s)
	}
	var o Orientation
	bits := [4]Orientation{bitTop, bitRgt, bitBot, bitLft}
	for i, c := range s {
		switch c {
		case '1':
			o |= bits[i]
		case '0':
			// open bit left clear
		default:
			return 0, fmt.Errorf("parse orientation %q: invalid character %q", s, c)
		}
	}
	return o, nil
}
