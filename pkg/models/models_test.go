package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kass/go-rect-index/pkg/geom"
)

func TestGeomRoundTrip(t *testing.T) {
	r := &Rect{
		ID:         "r1",
		BottomLeft: Corner{X: 1, Y: 2},
		TopRight:   Corner{X: 5, Y: 9},
	}

	g := r.Geom()
	assert.Equal(t, 4, g.Width())
	assert.Equal(t, 7, g.Height())
	assert.Equal(t, 28, g.Area())

	back := FromGeom("r1", g)
	assert.Equal(t, r, back)
}

func TestSignedMeasurements(t *testing.T) {
	r := &Rect{
		BottomLeft: Corner{X: 5, Y: 5},
		TopRight:   Corner{X: 2, Y: 2},
	}

	assert.Equal(t, -3, r.Width())
	assert.Equal(t, -3, r.Height())
	assert.Equal(t, 9, r.Area())

	// Record measurements match the core type
	assert.Equal(t, r.Width(), r.Geom().Width())
	assert.Equal(t, r.Height(), r.Geom().Height())
	assert.Equal(t, r.Area(), r.Geom().Area())
}

func TestContains(t *testing.T) {
	r := &Rect{
		BottomLeft: Corner{X: 0, Y: 0},
		TopRight:   Corner{X: 10, Y: 10},
	}

	assert.True(t, r.Contains(5, 5))
	assert.True(t, r.Contains(0, 0))
	assert.True(t, r.Contains(10, 10))
	assert.False(t, r.Contains(11, 5))
	assert.False(t, r.Contains(5, -1))

	// Inverted rectangles contain nothing
	inv := &Rect{
		BottomLeft: Corner{X: 10, Y: 10},
		TopRight:   Corner{X: 0, Y: 0},
	}
	assert.False(t, inv.Contains(5, 5))
}

func TestFromGeomMovedRect(t *testing.T) {
	g := geom.NewRectFromCorners(geom.NewPoint(1, 2), geom.NewPoint(5, 9))
	g.Move(10, -4)

	r := FromGeom("moved", g)
	assert.Equal(t, Corner{X: 11, Y: -2}, r.BottomLeft)
	assert.Equal(t, Corner{X: 15, Y: 5}, r.TopRight)
	assert.Equal(t, 28, r.Area())
}
