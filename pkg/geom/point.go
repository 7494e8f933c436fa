// Package geom provides the integer 2D value types the rest of the
// repository is built on: Point and Rect. Both are plain value types
// with copy-by-assignment semantics and no internal synchronization.
package geom

// Point is an integer 2D coordinate. The zero value is the origin.
type Point struct {
	x int
	y int
}

// New returns a Point at the origin (0, 0).
func New() Point {
	return Point{}
}

// NewPoint returns a Point at the given coordinates.
func NewPoint(x, y int) Point {
	return Point{x: x, y: y}
}

// Move translates the point in place by (dx, dy).
// Arithmetic wraps on overflow, as native int arithmetic does.
func (p *Point) Move(dx, dy int) {
	p.x += dx
	p.y += dy
}

// X returns the x coordinate.
func (p Point) X() int {
	return p.x
}

// Y returns the y coordinate.
func (p Point) Y() int {
	return p.y
}
