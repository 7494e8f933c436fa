package index

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kass/go-rect-index/pkg/models"
)

func TestNewRectIndex(t *testing.T) {
	idx := NewRectIndex()
	assert.NotNil(t, idx)
	assert.NotNil(t, idx.tree)
	assert.Equal(t, int64(0), idx.Count())
}

func TestIndexRects(t *testing.T) {
	idx := NewRectIndex()

	rects := []*models.Rect{
		{ID: "a", BottomLeft: models.Corner{X: 0, Y: 0}, TopRight: models.Corner{X: 10, Y: 10}},
		{ID: "b", BottomLeft: models.Corner{X: 20, Y: 20}, TopRight: models.Corner{X: 30, Y: 40}},
		{ID: "c", BottomLeft: models.Corner{X: 5, Y: 5}, TopRight: models.Corner{X: 5, Y: 5}}, // degenerate
		nil,
	}

	err := idx.IndexRects(rects)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), idx.Count()) // nil entry skipped
}

func TestQueryPoint(t *testing.T) {
	idx := NewRectIndex()

	rects := []*models.Rect{
		{ID: "left", BottomLeft: models.Corner{X: 0, Y: 0}, TopRight: models.Corner{X: 10, Y: 10}},
		{ID: "right", BottomLeft: models.Corner{X: 8, Y: 0}, TopRight: models.Corner{X: 20, Y: 10}},
		{ID: "far", BottomLeft: models.Corner{X: 100, Y: 100}, TopRight: models.Corner{X: 110, Y: 110}},
	}
	require.NoError(t, idx.IndexRects(rects))

	// In the overlap of left and right
	results, err := idx.QueryPoint(9, 5)
	assert.NoError(t, err)
	assert.Len(t, results, 2)

	ids := make(map[string]bool)
	for _, r := range results {
		ids[r.ID] = true
	}
	assert.True(t, ids["left"])
	assert.True(t, ids["right"])
	assert.False(t, ids["far"])

	// Edges are inclusive
	results, err = idx.QueryPoint(0, 0)
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "left", results[0].ID)

	// Outside everything
	results, err = idx.QueryPoint(50, 50)
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestQueryBox(t *testing.T) {
	idx := NewRectIndex()

	rects := []*models.Rect{
		{ID: "a", BottomLeft: models.Corner{X: 0, Y: 0}, TopRight: models.Corner{X: 10, Y: 10}},
		{ID: "b", BottomLeft: models.Corner{X: 15, Y: 15}, TopRight: models.Corner{X: 25, Y: 25}},
		{ID: "c", BottomLeft: models.Corner{X: 40, Y: 40}, TopRight: models.Corner{X: 50, Y: 50}},
	}
	require.NoError(t, idx.IndexRects(rects))

	box := &models.Rect{
		BottomLeft: models.Corner{X: 5, Y: 5},
		TopRight:   models.Corner{X: 20, Y: 20},
	}
	results, err := idx.QueryBox(box)
	assert.NoError(t, err)
	assert.Len(t, results, 2)

	ids := make(map[string]bool)
	for _, r := range results {
		ids[r.ID] = true
	}
	assert.True(t, ids["a"])
	assert.True(t, ids["b"])
	assert.False(t, ids["c"])
}

func TestIndexInvertedRect(t *testing.T) {
	idx := NewRectIndex()

	// Inverted corners: the record keeps its signed measurements, but
	// the index normalizes the extent so queries still find it
	inv := &models.Rect{
		ID:         "inv",
		BottomLeft: models.Corner{X: 5, Y: 5},
		TopRight:   models.Corner{X: 2, Y: 2},
	}
	require.NoError(t, idx.IndexRects([]*models.Rect{inv}))

	results, err := idx.QueryPoint(3, 3)
	assert.NoError(t, err)
	require.Len(t, results, 1)

	got := results[0]
	assert.Equal(t, "inv", got.ID)
	assert.Equal(t, -3, got.Width())
	assert.Equal(t, -3, got.Height())
	assert.Equal(t, 9, got.Area())
}

func TestNearestNeighbors(t *testing.T) {
	idx := NewRectIndex()

	var rects []*models.Rect
	for i := 0; i < 10; i++ {
		for j := 0; j < 10; j++ {
			rects = append(rects, &models.Rect{
				ID:         fmt.Sprintf("%d,%d", i, j),
				BottomLeft: models.Corner{X: i * 10, Y: j * 10},
				TopRight:   models.Corner{X: i*10 + 5, Y: j*10 + 5},
			})
		}
	}
	require.NoError(t, idx.IndexRects(rects))

	neighbors := idx.NearestNeighbors(47, 47, 5)
	assert.Len(t, neighbors, 5)
}

func TestClear(t *testing.T) {
	idx := NewRectIndex()
	require.NoError(t, idx.IndexRects([]*models.Rect{
		{ID: "a", TopRight: models.Corner{X: 1, Y: 1}},
	}))
	require.Equal(t, int64(1), idx.Count())

	idx.Clear()
	assert.Equal(t, int64(0), idx.Count())

	results, err := idx.QueryPoint(0, 0)
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestSaveAndLoad(t *testing.T) {
	idx := NewRectIndex()

	rects := []*models.Rect{
		{ID: "a", BottomLeft: models.Corner{X: 0, Y: 0}, TopRight: models.Corner{X: 10, Y: 10}},
		{ID: "b", BottomLeft: models.Corner{X: -50, Y: -50}, TopRight: models.Corner{X: -40, Y: -45}},
	}
	require.NoError(t, idx.IndexRects(rects))

	path := filepath.Join(t.TempDir(), "index.gob")
	require.NoError(t, idx.SaveToFile(path))

	loaded := NewRectIndex()
	require.NoError(t, loaded.LoadFromFile(path))
	assert.Equal(t, int64(2), loaded.Count())

	results, err := loaded.QueryPoint(5, 5)
	assert.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].ID)
}

func TestLoadMissingFile(t *testing.T) {
	idx := NewRectIndex()
	err := idx.LoadFromFile(filepath.Join(t.TempDir(), "missing.gob"))
	assert.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParallelIndexing(t *testing.T) {
	idx := NewRectIndex()

	numRects := 10000
	rects := make([]*models.Rect, numRects)
	for i := 0; i < numRects; i++ {
		x := rand.Intn(100000)
		y := rand.Intn(100000)
		rects[i] = &models.Rect{
			ID:         fmt.Sprintf("r%d", i),
			BottomLeft: models.Corner{X: x, Y: y},
			TopRight:   models.Corner{X: x + rand.Intn(100) + 1, Y: y + rand.Intn(100) + 1},
		}
	}

	start := time.Now()
	require.NoError(t, idx.IndexRects(rects))
	t.Logf("Indexed %d rects in %v", numRects, time.Since(start))

	assert.Equal(t, int64(numRects), idx.Count())
}

func randomRects(n int) []*models.Rect {
	rects := make([]*models.Rect, n)
	for i := 0; i < n; i++ {
		x := rand.Intn(100000)
		y := rand.Intn(100000)
		rects[i] = &models.Rect{
			ID:         fmt.Sprintf("r%d", i),
			BottomLeft: models.Corner{X: x, Y: y},
			TopRight:   models.Corner{X: x + rand.Intn(200) + 1, Y: y + rand.Intn(200) + 1},
		}
	}
	return rects
}

func BenchmarkQueryPoint(b *testing.B) {
	idx := NewRectIndex()
	if err := idx.IndexRects(randomRects(100000)); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = idx.QueryPoint(rand.Intn(100000), rand.Intn(100000))
	}
}

func BenchmarkQueryBox(b *testing.B) {
	idx := NewRectIndex()
	if err := idx.IndexRects(randomRects(100000)); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		x := rand.Intn(100000)
		y := rand.Intn(100000)
		box := &models.Rect{
			BottomLeft: models.Corner{X: x, Y: y},
			TopRight:   models.Corner{X: x + 500, Y: y + 500},
		}
		_, _ = idx.QueryBox(box)
	}
}

func BenchmarkNearestNeighbors(b *testing.B) {
	idx := NewRectIndex()
	if err := idx.IndexRects(randomRects(100000)); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = idx.NearestNeighbors(rand.Intn(100000), rand.Intn(100000), 10)
	}
}
