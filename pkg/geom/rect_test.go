package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRect(t *testing.T) {
	r := NewRect()
	assert.Equal(t, 0, r.Width())
	assert.Equal(t, 0, r.Height())
	assert.Equal(t, 0, r.Area())
	assert.Equal(t, New(), r.BottomLeft())
	assert.Equal(t, New(), r.TopRight())
}

func TestRectMeasurements(t *testing.T) {
	r := NewRectFromCorners(NewPoint(1, 2), NewPoint(5, 9))
	assert.Equal(t, 4, r.Width())
	assert.Equal(t, 7, r.Height())
	assert.Equal(t, 28, r.Area())
}

func TestRectMove(t *testing.T) {
	r := NewRectFromCorners(NewPoint(1, 2), NewPoint(5, 9))
	r.Move(10, -4)

	assert.Equal(t, NewPoint(11, -2), r.BottomLeft())
	assert.Equal(t, NewPoint(15, 5), r.TopRight())

	// Translation preserves the extent
	assert.Equal(t, 4, r.Width())
	assert.Equal(t, 7, r.Height())
	assert.Equal(t, 28, r.Area())
}

func TestRectDegenerate(t *testing.T) {
	r := NewRectFromCorners(NewPoint(0, 0), NewPoint(0, 0))
	assert.Equal(t, 0, r.Width())
	assert.Equal(t, 0, r.Height())
	assert.Equal(t, 0, r.Area())
}

func TestRectInvertedCorners(t *testing.T) {
	// Corners are not validated; fully inverted corners give negative
	// width and height whose product is positive again.
	r := NewRectFromCorners(NewPoint(5, 5), NewPoint(2, 2))
	assert.Equal(t, -3, r.Width())
	assert.Equal(t, -3, r.Height())
	assert.Equal(t, 9, r.Area())

	// Inverted on one axis only: negative area.
	r = NewRectFromCorners(NewPoint(5, 0), NewPoint(2, 4))
	assert.Equal(t, -3, r.Width())
	assert.Equal(t, 4, r.Height())
	assert.Equal(t, -12, r.Area())
}

func TestRectCornerCopies(t *testing.T) {
	bl := NewPoint(0, 0)
	tr := NewPoint(3, 3)
	r := NewRectFromCorners(bl, tr)

	// Mutating the originals must not affect the rect
	bl.Move(100, 100)
	tr.Move(100, 100)
	assert.Equal(t, NewPoint(0, 0), r.BottomLeft())
	assert.Equal(t, NewPoint(3, 3), r.TopRight())

	// Accessors return copies, not views
	got := r.BottomLeft()
	got.Move(50, 50)
	assert.Equal(t, NewPoint(0, 0), r.BottomLeft())
}
