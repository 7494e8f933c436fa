package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/kass/go-rect-index/pkg/index"
	"github.com/kass/go-rect-index/pkg/models"
)

func main() {
	var (
		numRects   = flag.Int("n", 1000000, "Number of rectangles to generate")
		outputFile = flag.String("o", "data/index.gob", "Output file path")
		workers    = flag.Int("w", runtime.NumCPU(), "Number of worker goroutines")
		seed       = flag.Int64("seed", time.Now().UnixNano(), "Random seed")
		// Coordinate bounds for random rectangle generation
		minX      = flag.Int("min-x", 0, "Minimum x coordinate")
		maxX      = flag.Int("max-x", 1000000, "Maximum x coordinate")
		minY      = flag.Int("min-y", 0, "Minimum y coordinate")
		maxY      = flag.Int("max-y", 1000000, "Maximum y coordinate")
		maxExtent = flag.Int("extent", 500, "Maximum rectangle extent per axis")
	)
	flag.Parse()

	// Ensure output directory exists
	if err := os.MkdirAll("data", 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	log.Printf("Generating %d random rectangles with %d workers...\n", *numRects, *workers)
	log.Printf("Coordinate bounds: x[%d, %d], y[%d, %d], extent <= %d\n",
		*minX, *maxX, *minY, *maxY, *maxExtent)

	rand.Seed(*seed)

	rects := generateRandomRects(*numRects, *minX, *maxX, *minY, *maxY, *maxExtent, *workers)

	// Build index
	log.Println("Building R-Tree index...")
	startTime := time.Now()

	idx := index.NewRectIndex()
	if err := idx.IndexRects(rects); err != nil {
		log.Fatalf("Failed to index rectangles: %v", err)
	}

	indexTime := time.Since(startTime)
	log.Printf("Index built in %v (%.2f rects/sec)\n",
		indexTime, float64(*numRects)/indexTime.Seconds())

	// Save to file
	log.Printf("Saving index to %s...\n", *outputFile)
	startTime = time.Now()

	if err := idx.SaveToFile(*outputFile); err != nil {
		log.Fatalf("Failed to save index: %v", err)
	}

	saveTime := time.Since(startTime)
	log.Printf("Index saved in %v\n", saveTime)

	// Print statistics
	fileInfo, err := os.Stat(*outputFile)
	if err == nil {
		log.Printf("Index file size: %.2f MB\n", float64(fileInfo.Size())/(1024*1024))
	}
	log.Printf("Total rectangles indexed: %d\n", idx.Count())
}

func generateRandomRects(n, minX, maxX, minY, maxY, maxExtent, workers int) []*models.Rect {
	rects := make([]*models.Rect, n)

	rectsPerWorker := n / workers
	remainder := n % workers

	// Channel to coordinate work
	type workRange struct {
		start, end int
	}
	work := make(chan workRange, workers)
	done := make(chan bool, workers)

	// Start workers
	for w := 0; w < workers; w++ {
		go func() {
			// Each worker gets its own random generator to avoid contention
			r := rand.New(rand.NewSource(rand.Int63()))

			for wr := range work {
				for i := wr.start; i < wr.end; i++ {
					x := minX + r.Intn(maxX-minX)
					y := minY + r.Intn(maxY-minY)

					rects[i] = &models.Rect{
						ID:         fmt.Sprintf("rect_%d", i),
						BottomLeft: models.Corner{X: x, Y: y},
						TopRight:   models.Corner{X: x + r.Intn(maxExtent) + 1, Y: y + r.Intn(maxExtent) + 1},
					}
				}
			}
			done <- true
		}()
	}

	// Distribute work
	start := 0
	for w := 0; w < workers; w++ {
		size := rectsPerWorker
		if w < remainder {
			size++
		}
		work <- workRange{start: start, end: start + size}
		start += size
	}
	close(work)

	// Wait for completion
	for w := 0; w < workers; w++ {
		<-done
	}

	return rects
}
