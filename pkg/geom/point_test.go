package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPoint(t *testing.T) {
	p := New()
	assert.Equal(t, 0, p.X())
	assert.Equal(t, 0, p.Y())

	p = NewPoint(3, -7)
	assert.Equal(t, 3, p.X())
	assert.Equal(t, -7, p.Y())
}

func TestPointMove(t *testing.T) {
	p := NewPoint(10, 20)
	p.Move(5, -3)
	assert.Equal(t, 15, p.X())
	assert.Equal(t, 17, p.Y())

	// Translation is additive across repeated moves
	a := NewPoint(1, 2)
	a.Move(3, 4)
	a.Move(-10, 7)

	b := NewPoint(1, 2)
	b.Move(3-10, 4+7)

	assert.Equal(t, b, a)
}

func TestPointValueSemantics(t *testing.T) {
	p := NewPoint(1, 1)
	q := p
	q.Move(100, 100)

	// Copies are independent
	assert.Equal(t, 1, p.X())
	assert.Equal(t, 1, p.Y())
	assert.Equal(t, 101, q.X())
	assert.Equal(t, 101, q.Y())
}
