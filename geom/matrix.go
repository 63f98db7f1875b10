package geom

import "fmt"

// Point is a position on the stage, in twips.
//
// Coordinates are fractional since matrices with scale or rotation produce
// fractional results.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Matrix is a placement matrix as stored in a PlaceObject tag.
//
// Scale and rotate/skew are optional. Translation is always present, and
// defaults to zero. The zero value is the identity placement.
type Matrix struct {
	hasScale                 bool
	scaleX, scaleY           int32
	hasRotate                bool
	rotateSkew0, rotateSkew1 int32
	translateX, translateY   int32
}

// Translate returns a matrix which only moves points by (x, y) twips.
func Translate(x, y int32) Matrix {
	return Matrix{translateX: x, translateY: y}
}

// WithScale returns a copy of m with scaling set. Both factors are 16.16
// fixed point.
func (m Matrix) WithScale(x, y int32) Matrix {
	m.hasScale = true
	m.scaleX = x
	m.scaleY = y
	return m
}

// WithRotate returns a copy of m with the rotate/skew terms set. Both terms
// are 16.16 fixed point.
func (m Matrix) WithRotate(rotateSkew0, rotateSkew1 int32) Matrix {
	m.hasRotate = true
	m.rotateSkew0 = rotateSkew0
	m.rotateSkew1 = rotateSkew1
	return m
}

// WithTranslate returns a copy of m translating by (x, y) twips.
func (m Matrix) WithTranslate(x, y int32) Matrix {
	m.translateX = x
	m.translateY = y
	return m
}

// Scale returns the scale factors, and whether the matrix scales at all.
func (m Matrix) Scale() (x, y int32, ok bool) {
	return m.scaleX, m.scaleY, m.hasScale
}

// Rotate returns the rotate/skew terms, and whether the matrix has them.
func (m Matrix) Rotate() (rotateSkew0, rotateSkew1 int32, ok bool) {
	return m.rotateSkew0, m.rotateSkew1, m.hasRotate
}

// Translation returns the translation in twips.
func (m Matrix) Translation() (x, y int32) {
	return m.translateX, m.translateY
}

// Apply transforms p.
//
// Scale is applied first. The rotate/skew cross terms are then added, computed
// from the coordinates of p before scaling. Translation comes last. This is
// the evaluation order of the container format, and is not the same as
// composing the terms into a single 2x3 matrix multiplication.
func (m Matrix) Apply(p Point) Point {
	x, y := p.X, p.Y

	if m.hasScale {
		x *= fixed(m.scaleX)
		y *= fixed(m.scaleY)
	}

	if m.hasRotate {
		x += p.Y * fixed(m.rotateSkew1)
		y += p.X * fixed(m.rotateSkew0)
	}

	x += float64(m.translateX)
	y += float64(m.translateY)

	return Point{X: x, Y: y}
}

func (m Matrix) String() string {
	s := fmt.Sprintf("translate(%d,%d)", m.translateX, m.translateY)
	if m.hasScale {
		s += fmt.Sprintf(" scale(%g,%g)", fixed(m.scaleX), fixed(m.scaleY))
	}
	if m.hasRotate {
		s += fmt.Sprintf(" rotate(%g,%g)", fixed(m.rotateSkew0), fixed(m.rotateSkew1))
	}
	return s
}

// fixed converts a 16.16 fixed point number.
func fixed(i int32) float64 {
	return float64(i) / (1 << 16)
}
