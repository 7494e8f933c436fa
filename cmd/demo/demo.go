package main

import (
	"fmt"
	"log"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kass/go-rect-index/pkg/index"
	"github.com/kass/go-rect-index/pkg/models"
)

// runDemo executes the demo phases in order, reporting progress and
// results through send (the bubbletea program in TUI mode, a printing
// shim in plain mode)
func runDemo(cfg Config, send func(tea.Msg)) {
	idx := indexPhase(cfg, send)

	time.Sleep(500 * time.Millisecond)
	runContainsPhase(cfg, idx, send)

	time.Sleep(500 * time.Millisecond)
	runBoxPhase(cfg, idx, send)

	time.Sleep(500 * time.Millisecond)
	runNearestPhase(cfg, idx, send)
}

func indexPhase(cfg Config, send func(tea.Msg)) *index.RectIndex {
	numRects := cfg.Demo.Rects
	numWorkers := runtime.NumCPU()

	rects := generateRandomRects(cfg)

	idx := index.NewRectIndex()

	start := time.Now()

	batchSize := numRects / numWorkers
	if batchSize < 1 {
		batchSize = 1
	}

	var wg sync.WaitGroup
	var indexed atomic.Int32

	// Progress updater
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for range ticker.C {
			send(progressMsg(float64(indexed.Load()) / float64(numRects)))

			if indexed.Load() >= int32(numRects) {
				break
			}
		}
	}()

	for i := 0; i < numWorkers && i*batchSize < numRects; i++ {
		wg.Add(1)
		startIdx := i * batchSize
		endIdx := startIdx + batchSize
		if i == numWorkers-1 || endIdx > numRects {
			endIdx = numRects
		}

		go func(batch []*models.Rect) {
			defer wg.Done()
			if err := idx.IndexRects(batch); err != nil {
				send(messageMsg(fmt.Sprintf("Error indexing batch: %v", err)))
			}
			indexed.Add(int32(len(batch)))
		}(rects[startIdx:endIdx])
	}

	wg.Wait()
	indexTime := time.Since(start)

	if err := idx.SaveToFile(indexFile); err != nil {
		send(messageMsg(fmt.Sprintf("Error saving index: %v", err)))
	}

	send(stageCompleteMsg{
		stage: stageIndexing,
		stats: indexStats{
			rects:    numRects,
			duration: indexTime,
		},
	})

	return idx
}

// benchmarkPhase drives numQueries invocations of query across worker
// goroutines with progress reporting, then sends the stage result
func benchmarkPhase(cfg Config, s stage, send func(tea.Msg), query func(r *rand.Rand) int) {
	numQueries := cfg.Demo.Queries
	numWorkers := runtime.NumCPU()

	var totalResults atomic.Int64
	var queryCount atomic.Int32

	start := time.Now()

	// Progress updater
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()

		for range ticker.C {
			send(progressMsg(float64(queryCount.Load()) / float64(numQueries)))

			if queryCount.Load() >= int32(numQueries) {
				break
			}
		}
	}()

	var wg sync.WaitGroup
	queriesPerWorker := numQueries / numWorkers
	if queriesPerWorker < 1 {
		queriesPerWorker = 1
	}

	for w := 0; w < numWorkers && w*queriesPerWorker < numQueries; w++ {
		wg.Add(1)
		startIdx := w * queriesPerWorker
		endIdx := startIdx + queriesPerWorker
		if w == numWorkers-1 || endIdx > numQueries {
			endIdx = numQueries
		}

		go func(start, end int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(start)))

			localResults := 0
			for i := start; i < end; i++ {
				localResults += query(r)
				queryCount.Add(1)
			}
			totalResults.Add(int64(localResults))
		}(startIdx, endIdx)
	}

	wg.Wait()
	elapsed := time.Since(start)

	completed := queryCount.Load()
	send(stageCompleteMsg{
		stage: s,
		stats: benchmarkResult{
			totalQueries:  int64(completed),
			totalTime:     elapsed,
			totalResults:  totalResults.Load(),
			avgQueryTime:  elapsed / time.Duration(completed),
			queriesPerSec: float64(completed) / elapsed.Seconds(),
		},
	})
}

func runContainsPhase(cfg Config, idx *index.RectIndex, send func(tea.Msg)) {
	world := cfg.Demo.WorldSize
	benchmarkPhase(cfg, stageContains, send, func(r *rand.Rand) int {
		results, err := idx.QueryPoint(r.Intn(world), r.Intn(world))
		if err != nil {
			return 0
		}
		return len(results)
	})
}

func runBoxPhase(cfg Config, idx *index.RectIndex, send func(tea.Msg)) {
	world := cfg.Demo.WorldSize
	boxSize := cfg.Demo.MaxExtent * 4
	benchmarkPhase(cfg, stageBox, send, func(r *rand.Rand) int {
		x := r.Intn(world)
		y := r.Intn(world)
		box := &models.Rect{
			BottomLeft: models.Corner{X: x, Y: y},
			TopRight:   models.Corner{X: x + boxSize, Y: y + boxSize},
		}
		results, err := idx.QueryBox(box)
		if err != nil {
			return 0
		}
		return len(results)
	})
}

func runNearestPhase(cfg Config, idx *index.RectIndex, send func(tea.Msg)) {
	world := cfg.Demo.WorldSize
	benchmarkPhase(cfg, stageNearest, send, func(r *rand.Rand) int {
		return len(idx.NearestNeighbors(r.Intn(world), r.Intn(world), cfg.Demo.Neighbors))
	})
}

func generateRandomRects(cfg Config) []*models.Rect {
	n := cfg.Demo.Rects
	world := cfg.Demo.WorldSize
	maxExtent := cfg.Demo.MaxExtent

	rects := make([]*models.Rect, n)

	numWorkers := runtime.NumCPU()
	batchSize := n / numWorkers
	if batchSize < 1 {
		batchSize = 1
	}
	var wg sync.WaitGroup

	for w := 0; w < numWorkers && w*batchSize < n; w++ {
		wg.Add(1)
		startIdx := w * batchSize
		endIdx := startIdx + batchSize
		if w == numWorkers-1 || endIdx > n {
			endIdx = n
		}

		go func(start, end int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(start)))

			for i := start; i < end; i++ {
				x := r.Intn(world)
				y := r.Intn(world)
				rects[i] = &models.Rect{
					ID:         fmt.Sprintf("rect_%d", i),
					BottomLeft: models.Corner{X: x, Y: y},
					TopRight:   models.Corner{X: x + r.Intn(maxExtent) + 1, Y: y + r.Intn(maxExtent) + 1},
				}
			}
		}(startIdx, endIdx)
	}

	wg.Wait()
	return rects
}

// runPlain runs the demo without the TUI, printing stage results as
// log lines. Used when stdout is not a terminal.
func runPlain(cfg Config) {
	done := make(chan struct{})

	send := func(msg tea.Msg) {
		switch m := msg.(type) {
		case messageMsg:
			log.Println(string(m))
		case stageCompleteMsg:
			switch stats := m.stats.(type) {
			case indexStats:
				log.Printf("Indexed %d rectangles in %v", stats.rects, stats.duration)
			case benchmarkResult:
				log.Printf("Stage %d: %d queries in %v (%.0f queries/sec, %d results)",
					m.stage, stats.totalQueries, stats.totalTime,
					stats.queriesPerSec, stats.totalResults)
			}
			if m.stage == stageNearest {
				close(done)
			}
		}
	}

	go runDemo(cfg, send)
	<-done
}
