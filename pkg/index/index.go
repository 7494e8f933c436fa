// Package index implements a thread-safe R-Tree index over named
// rectangles, with goroutine-based parallel bounds computation for
// bulk loading.
package index

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/dhconnelly/rtreego"

	"github.com/kass/go-rect-index/pkg/models"
)

const (
	tolerance   = 0.01
	minChildren = 25
	maxChildren = 50
	dimensions  = 2
)

// spatialRect wraps a Rect to implement rtreego.Spatial
type spatialRect struct {
	*models.Rect
	bounds *rtreego.Rect
}

func (sr *spatialRect) Bounds() *rtreego.Rect {
	return sr.bounds
}

// boundsOf converts a rectangle record into an rtreego bounding rect.
// rtreego cannot represent negative extents, so inverted corners are
// normalized here; the record itself keeps its signed measurements.
// Degenerate rectangles get a minimal tolerance extent.
func boundsOf(r *models.Rect) (*rtreego.Rect, error) {
	minX := float64(r.BottomLeft.X)
	minY := float64(r.BottomLeft.Y)
	w := float64(r.Width())
	h := float64(r.Height())

	if w < 0 {
		minX += w
		w = -w
	}
	if h < 0 {
		minY += h
		h = -h
	}
	if w == 0 {
		w = tolerance
	}
	if h == 0 {
		h = tolerance
	}

	return rtreego.NewRect(rtreego.Point{minX, minY}, []float64{w, h})
}

// RectIndex is a thread-safe R-Tree based rectangle index
type RectIndex struct {
	tree      *rtreego.Rtree
	mu        sync.RWMutex
	itemCount atomic.Int64
}

// NewRectIndex creates a new rectangle index
func NewRectIndex() *RectIndex {
	return &RectIndex{
		tree: rtreego.NewTree(dimensions, minChildren, maxChildren),
	}
}

// IndexRects indexes a batch of rectangles. Bounds are computed in
// parallel across CPU cores; the tree insert itself is synchronized.
func (ri *RectIndex) IndexRects(rects []*models.Rect) error {
	if len(rects) == 0 {
		return nil
	}

	numCPU := runtime.NumCPU()
	items := make([]rtreego.Spatial, len(rects))
	errs := make([]error, numCPU)
	var wg sync.WaitGroup

	batchSize := len(rects) / numCPU
	if batchSize < 1 {
		batchSize = 1
		numCPU = len(rects)
	}

	for i := 0; i < numCPU && i*batchSize < len(rects); i++ {
		wg.Add(1)
		start := i * batchSize
		end := start + batchSize
		if i == numCPU-1 || end > len(rects) {
			end = len(rects)
		}

		go func(worker, start, end int) {
			defer wg.Done()
			for j := start; j < end; j++ {
				rect := rects[j]
				if rect == nil {
					continue
				}
				bounds, err := boundsOf(rect)
				if err != nil {
					errs[worker] = fmt.Errorf("invalid bounds for rect %s: %w", rect.ID, err)
					return
				}
				items[j] = &spatialRect{rect, bounds}
			}
		}(i, start, end)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	ri.mu.Lock()
	defer ri.mu.Unlock()

	count := int64(0)
	for _, item := range items {
		if item != nil {
			ri.tree.Insert(item)
			count++
		}
	}
	ri.itemCount.Add(count)

	return nil
}

// QueryPoint returns all rectangles whose extent contains the point
// (x, y), corners inclusive
func (ri *RectIndex) QueryPoint(x, y int) ([]*models.Rect, error) {
	ri.mu.RLock()
	defer ri.mu.RUnlock()

	probe, err := rtreego.NewRect(
		rtreego.Point{float64(x), float64(y)},
		[]float64{tolerance, tolerance},
	)
	if err != nil {
		return nil, fmt.Errorf("invalid query point: %w", err)
	}

	results := ri.tree.SearchIntersect(probe)

	// The probe has a tolerance extent, so verify actual containment
	rects := make([]*models.Rect, 0, len(results))
	for _, result := range results {
		item, ok := result.(*spatialRect)
		if !ok || item.Rect == nil {
			continue
		}
		if normalized(item.Rect).Contains(x, y) {
			rects = append(rects, item.Rect)
		}
	}

	return rects, nil
}

// QueryBox returns all rectangles whose extent intersects the given
// box, edges inclusive
func (ri *RectIndex) QueryBox(box *models.Rect) ([]*models.Rect, error) {
	ri.mu.RLock()
	defer ri.mu.RUnlock()

	bounds, err := boundsOf(box)
	if err != nil {
		return nil, fmt.Errorf("invalid query box: %w", err)
	}

	results := ri.tree.SearchIntersect(bounds)

	// Filter out tolerance-extent false positives
	qn := normalized(box)
	rects := make([]*models.Rect, 0, len(results))
	for _, result := range results {
		item, ok := result.(*spatialRect)
		if !ok || item.Rect == nil {
			continue
		}
		rn := normalized(item.Rect)
		if rn.BottomLeft.X <= qn.TopRight.X && rn.TopRight.X >= qn.BottomLeft.X &&
			rn.BottomLeft.Y <= qn.TopRight.Y && rn.TopRight.Y >= qn.BottomLeft.Y {
			rects = append(rects, item.Rect)
		}
	}

	return rects, nil
}

// NearestNeighbors returns the n rectangles whose centers are nearest
// to the point (x, y)
func (ri *RectIndex) NearestNeighbors(x, y, n int) []*models.Rect {
	ri.mu.RLock()
	defer ri.mu.RUnlock()

	query := rtreego.Point{float64(x), float64(y)}
	results := ri.tree.NearestNeighbors(n, query)

	rects := make([]*models.Rect, 0, len(results))
	for _, result := range results {
		if item, ok := result.(*spatialRect); ok && item.Rect != nil {
			rects = append(rects, item.Rect)
		}
	}

	return rects
}

// Count returns the number of rectangles in the index
func (ri *RectIndex) Count() int64 {
	return ri.itemCount.Load()
}

// Clear removes all rectangles from the index
func (ri *RectIndex) Clear() {
	ri.mu.Lock()
	defer ri.mu.Unlock()

	ri.tree = rtreego.NewTree(dimensions, minChildren, maxChildren)
	ri.itemCount.Store(0)
}

// normalized returns a copy of r with its corners ordered so that
// containment and intersection checks are meaningful
func normalized(r *models.Rect) *models.Rect {
	n := *r
	if n.BottomLeft.X > n.TopRight.X {
		n.BottomLeft.X, n.TopRight.X = n.TopRight.X, n.BottomLeft.X
	}
	if n.BottomLeft.Y > n.TopRight.Y {
		n.BottomLeft.Y, n.TopRight.Y = n.TopRight.Y, n.BottomLeft.Y
	}
	return &n
}
