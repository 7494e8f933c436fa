package models

import "github.com/kass/go-rect-index/pkg/geom"

// Corner represents one corner of a rectangle
type Corner struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect represents a named rectangle defined by two corners
type Rect struct {
	ID         string `json:"id"`
	BottomLeft Corner `json:"bottom_left"`
	TopRight   Corner `json:"top_right"`
}

// Geom converts the record into a geom.Rect value
func (r *Rect) Geom() geom.Rect {
	return geom.NewRectFromCorners(
		geom.NewPoint(r.BottomLeft.X, r.BottomLeft.Y),
		geom.NewPoint(r.TopRight.X, r.TopRight.Y),
	)
}

// FromGeom builds a record from a geom.Rect value
func FromGeom(id string, g geom.Rect) *Rect {
	return &Rect{
		ID:         id,
		BottomLeft: Corner{X: g.BottomLeft().X(), Y: g.BottomLeft().Y()},
		TopRight:   Corner{X: g.TopRight().X(), Y: g.TopRight().Y()},
	}
}

// Width returns the signed horizontal extent
func (r *Rect) Width() int {
	return r.TopRight.X - r.BottomLeft.X
}

// Height returns the signed vertical extent
func (r *Rect) Height() int {
	return r.TopRight.Y - r.BottomLeft.Y
}

// Area returns the signed product of width and height
func (r *Rect) Area() int {
	return r.Width() * r.Height()
}

// Contains reports whether the point (x, y) lies within the rectangle,
// corners inclusive. Inverted rectangles contain nothing.
func (r *Rect) Contains(x, y int) bool {
	return x >= r.BottomLeft.X && x <= r.TopRight.X &&
		y >= r.BottomLeft.Y && y <= r.TopRight.Y
}
