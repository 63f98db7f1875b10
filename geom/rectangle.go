package geom

import (
	"fmt"
	"math"
)

// TwipsPerPixel is the divisor between stage sub-units and pixels.
const TwipsPerPixel = 20

// Rectangle is an axis-aligned box in twips, such as the bounds of a shape or
// of a whole sprite.
type Rectangle struct {
	XMin, XMax int
	YMin, YMax int
}

// Rect is shorthand for Rectangle{xMin, xMax, yMin, yMax}. Note the argument
// order, which follows the RECT record rather than image.Rect.
func Rect(xMin, xMax, yMin, yMax int) Rectangle {
	return Rectangle{XMin: xMin, XMax: xMax, YMin: yMin, YMax: yMax}
}

// Width in pixels.
func (r Rectangle) Width() float64 {
	return float64(r.XMax-r.XMin) / TwipsPerPixel
}

// Height in pixels.
func (r Rectangle) Height() float64 {
	return float64(r.YMax-r.YMin) / TwipsPerPixel
}

// XOffset is the left edge in pixels, relative to the registration point.
func (r Rectangle) XOffset() float64 {
	return float64(r.XMin) / TwipsPerPixel
}

// YOffset is the top edge in pixels, relative to the registration point.
func (r Rectangle) YOffset() float64 {
	return float64(r.YMin) / TwipsPerPixel
}

// Points returns the four corners, clockwise from the top left.
func (r Rectangle) Points() [4]Point {
	return [4]Point{
		{X: float64(r.XMin), Y: float64(r.YMin)},
		{X: float64(r.XMax), Y: float64(r.YMin)},
		{X: float64(r.XMax), Y: float64(r.YMax)},
		{X: float64(r.XMin), Y: float64(r.YMax)},
	}
}

// Transform maps all four corners through m, and returns the axis-aligned
// box enclosing them.
//
// All corners are needed: under rotation or skew any of them may become the
// extremal one. Fractional results are truncated toward zero.
func (r Rectangle) Transform(m Matrix) Rectangle {
	xMin, xMax := math.Inf(1), math.Inf(-1)
	yMin, yMax := math.Inf(1), math.Inf(-1)

	for _, p := range r.Points() {
		p = m.Apply(p)
		xMin = math.Min(xMin, p.X)
		xMax = math.Max(xMax, p.X)
		yMin = math.Min(yMin, p.Y)
		yMax = math.Max(yMax, p.Y)
	}

	return Rectangle{XMin: int(xMin), XMax: int(xMax), YMin: int(yMin), YMax: int(yMax)}
}

// Merge returns the smallest rectangle containing both r and o.
func (r Rectangle) Merge(o Rectangle) Rectangle {
	return Rectangle{
		XMin: min(r.XMin, o.XMin),
		XMax: max(r.XMax, o.XMax),
		YMin: min(r.YMin, o.YMin),
		YMax: max(r.YMax, o.YMax),
	}
}

// Contains reports whether o lies entirely within r.
func (r Rectangle) Contains(o Rectangle) bool {
	return o.XMin >= r.XMin && o.XMax <= r.XMax && o.YMin >= r.YMin && o.YMax <= r.YMax
}

func (r Rectangle) String() string {
	return fmt.Sprintf("[x %d..%d, y %d..%d]", r.XMin, r.XMax, r.YMin, r.YMax)
}
