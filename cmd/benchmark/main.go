package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kass/go-rect-index/pkg/index"
	"github.com/kass/go-rect-index/pkg/models"
)

type BenchmarkResult struct {
	QueryType     string
	TotalQueries  int
	TotalDuration time.Duration
	AvgDuration   time.Duration
	QueriesPerSec float64
	MinDuration   time.Duration
	MaxDuration   time.Duration
	TotalResults  int64
	AvgResults    float64
}

func main() {
	var (
		indexFile  = flag.String("i", "data/index.gob", "Index file path")
		queryType  = flag.String("t", "box", "Query type: box, contains, nearest, mixed")
		numQueries = flag.Int("n", 1000, "Number of queries to run")
		workers    = flag.Int("w", runtime.NumCPU(), "Number of concurrent workers")
		// Coordinate bounds for random queries
		minX = flag.Int("min-x", 0, "Minimum x for random queries")
		maxX = flag.Int("max-x", 1000000, "Maximum x for random queries")
		minY = flag.Int("min-y", 0, "Minimum y for random queries")
		maxY = flag.Int("max-y", 1000000, "Maximum y for random queries")
		// Query-specific parameters
		boxSize = flag.Int("box-size", 1000, "Box size per axis (for box queries)")
		k       = flag.Int("k", 100, "Number of nearest neighbors")
	)
	flag.Parse()

	// Load index
	log.Printf("Loading index from %s...\n", *indexFile)
	idx := index.NewRectIndex()
	if err := idx.LoadFromFile(*indexFile); err != nil {
		log.Fatalf("Failed to load index: %v", err)
	}
	log.Printf("Index loaded with %d rectangles\n", idx.Count())

	bounds := queryBounds{minX: *minX, maxX: *maxX, minY: *minY, maxY: *maxY}

	log.Printf("Running %d %s queries with %d workers...\n", *numQueries, *queryType, *workers)

	var result BenchmarkResult
	switch *queryType {
	case "box":
		result = benchmarkBox(idx, *numQueries, *workers, bounds, *boxSize)
	case "contains":
		result = benchmarkContains(idx, *numQueries, *workers, bounds)
	case "nearest":
		result = benchmarkNearest(idx, *numQueries, *workers, bounds, *k)
	case "mixed":
		result = benchmarkMixed(idx, *numQueries, *workers, bounds, *boxSize, *k)
	default:
		log.Fatalf("Unknown query type: %s", *queryType)
	}

	fmt.Println("\n=== Benchmark Results ===")
	fmt.Printf("Query Type: %s\n", result.QueryType)
	fmt.Printf("Total Queries: %d\n", result.TotalQueries)
	fmt.Printf("Total Duration: %v\n", result.TotalDuration)
	fmt.Printf("Average Duration: %v\n", result.AvgDuration)
	fmt.Printf("Queries/Second: %.2f\n", result.QueriesPerSec)
	fmt.Printf("Min Duration: %v\n", result.MinDuration)
	fmt.Printf("Max Duration: %v\n", result.MaxDuration)
	fmt.Printf("Total Results: %d\n", result.TotalResults)
	fmt.Printf("Avg Results/Query: %.2f\n", result.AvgResults)
	fmt.Printf("Workers Used: %d\n", *workers)
	fmt.Printf("CPU Cores: %d\n", runtime.NumCPU())
}

type queryBounds struct {
	minX, maxX, minY, maxY int
}

func (b queryBounds) randomPoint(r *rand.Rand) (int, int) {
	return b.minX + r.Intn(b.maxX-b.minX), b.minY + r.Intn(b.maxY-b.minY)
}

// runBenchmark drives a worker pool over numQueries invocations of
// query, tracking per-query latency
func runBenchmark(queryType string, numQueries, workers int,
	query func(r *rand.Rand) int) BenchmarkResult {

	var (
		totalResults atomic.Int64
		minDuration  = time.Hour
		maxDuration  time.Duration
		totalDur     time.Duration
		completed    int
		mu           sync.Mutex
	)

	startTime := time.Now()

	queryCh := make(chan int, numQueries)
	var wg sync.WaitGroup

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			r := rand.New(rand.NewSource(rand.Int63()))

			for range queryCh {
				queryStart := time.Now()
				n := query(r)
				queryDuration := time.Since(queryStart)

				if n < 0 {
					continue // query error, already logged
				}
				totalResults.Add(int64(n))

				mu.Lock()
				totalDur += queryDuration
				completed++
				if queryDuration < minDuration {
					minDuration = queryDuration
				}
				if queryDuration > maxDuration {
					maxDuration = queryDuration
				}
				mu.Unlock()
			}
		}()
	}

	for i := 0; i < numQueries; i++ {
		queryCh <- i
	}
	close(queryCh)

	wg.Wait()
	totalDuration := time.Since(startTime)

	avgDuration := time.Duration(0)
	if completed > 0 {
		avgDuration = totalDur / time.Duration(completed)
	}

	return BenchmarkResult{
		QueryType:     queryType,
		TotalQueries:  numQueries,
		TotalDuration: totalDuration,
		AvgDuration:   avgDuration,
		QueriesPerSec: float64(numQueries) / totalDuration.Seconds(),
		MinDuration:   minDuration,
		MaxDuration:   maxDuration,
		TotalResults:  totalResults.Load(),
		AvgResults:    float64(totalResults.Load()) / float64(numQueries),
	}
}

func benchmarkBox(idx *index.RectIndex, numQueries, workers int,
	bounds queryBounds, boxSize int) BenchmarkResult {

	return runBenchmark("box", numQueries, workers, func(r *rand.Rand) int {
		x, y := bounds.randomPoint(r)
		box := &models.Rect{
			BottomLeft: models.Corner{X: x, Y: y},
			TopRight:   models.Corner{X: x + boxSize, Y: y + boxSize},
		}

		results, err := idx.QueryBox(box)
		if err != nil {
			log.Printf("Box query error: %v", err)
			return -1
		}
		return len(results)
	})
}

func benchmarkContains(idx *index.RectIndex, numQueries, workers int,
	bounds queryBounds) BenchmarkResult {

	return runBenchmark("contains", numQueries, workers, func(r *rand.Rand) int {
		x, y := bounds.randomPoint(r)

		results, err := idx.QueryPoint(x, y)
		if err != nil {
			log.Printf("Contains query error: %v", err)
			return -1
		}
		return len(results)
	})
}

func benchmarkNearest(idx *index.RectIndex, numQueries, workers int,
	bounds queryBounds, k int) BenchmarkResult {

	return runBenchmark("nearest", numQueries, workers, func(r *rand.Rand) int {
		x, y := bounds.randomPoint(r)
		return len(idx.NearestNeighbors(x, y, k))
	})
}

func benchmarkMixed(idx *index.RectIndex, numQueries, workers int,
	bounds queryBounds, boxSize, k int) BenchmarkResult {

	// Run 1/3 of each query type
	queriesPerType := numQueries / 3

	log.Println("Running mixed benchmark (33% each type)...")

	boxResult := benchmarkBox(idx, queriesPerType, workers, bounds, boxSize)
	containsResult := benchmarkContains(idx, queriesPerType, workers, bounds)
	nearestResult := benchmarkNearest(idx, queriesPerType, workers, bounds, k)

	totalQueries := boxResult.TotalQueries + containsResult.TotalQueries + nearestResult.TotalQueries
	totalDuration := boxResult.TotalDuration + containsResult.TotalDuration + nearestResult.TotalDuration
	totalResults := boxResult.TotalResults + containsResult.TotalResults + nearestResult.TotalResults

	return BenchmarkResult{
		QueryType:     "mixed",
		TotalQueries:  totalQueries,
		TotalDuration: totalDuration,
		AvgDuration:   totalDuration / time.Duration(totalQueries),
		QueriesPerSec: float64(totalQueries) / totalDuration.Seconds(),
		MinDuration:   minDur(boxResult.MinDuration, containsResult.MinDuration, nearestResult.MinDuration),
		MaxDuration:   maxDur(boxResult.MaxDuration, containsResult.MaxDuration, nearestResult.MaxDuration),
		TotalResults:  totalResults,
		AvgResults:    float64(totalResults) / float64(totalQueries),
	}
}

func minDur(durations ...time.Duration) time.Duration {
	m := durations[0]
	for _, d := range durations[1:] {
		if d < m {
			m = d
		}
	}
	return m
}

func maxDur(durations ...time.Duration) time.Duration {
	m := durations[0]
	for _, d := range durations[1:] {
		if d > m {
			m = d
		}
	}
	return m
}
