package geom

// Rect is an axis-aligned rectangle defined by its bottom-left and
// top-right corner points. Corner ordering is not validated: a Rect
// with inverted corners is representable and yields negative width
// and height. Callers that need well-formed extents are responsible
// for passing ordered corners.
type Rect struct {
	bottomLeft Point
	topRight   Point
}

// NewRect returns a degenerate Rect with both corners at the origin.
func NewRect() Rect {
	return Rect{}
}

// NewRectFromCorners returns a Rect with copies of the given corner
// points.
func NewRectFromCorners(bl, tr Point) Rect {
	return Rect{bottomLeft: bl, topRight: tr}
}

// Move translates both corners in place by the same (dx, dy),
// preserving width and height exactly.
func (r *Rect) Move(dx, dy int) {
	r.bottomLeft.Move(dx, dy)
	r.topRight.Move(dx, dy)
}

// BottomLeft returns a copy of the bottom-left corner.
func (r Rect) BottomLeft() Point {
	return r.bottomLeft
}

// TopRight returns a copy of the top-right corner.
func (r Rect) TopRight() Point {
	return r.topRight
}

// Width returns top-right x minus bottom-left x, without clamping.
func (r Rect) Width() int {
	return r.topRight.x - r.bottomLeft.x
}

// Height returns top-right y minus bottom-left y, without clamping.
func (r Rect) Height() int {
	return r.topRight.y - r.bottomLeft.y
}

// Area returns Width() * Height() as a raw signed product. A rect
// inverted on both axes has positive area; one inverted on a single
// axis has negative area.
func (r Rect) Area() int {
	return r.Width() * r.Height()
}
