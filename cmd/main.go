package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/kass/go-rect-index/pkg/index"
	"github.com/kass/go-rect-index/pkg/models"
	"github.com/kass/go-rect-index/pkg/postgres"
)

var (
	indexFile string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "go-rect-index",
	Short: "R-Tree based rectangle indexing demo",
	Long:  `A demonstration of R-Tree technology for efficient rectangle queries using Go's concurrency features.`,
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load random rectangles into the index",
	Long:  `Generate and load random rectangles into the R-Tree index.`,
	Run:   runLoad,
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run box intersection benchmarks",
	Long:  `Execute benchmark queries (box intersection searches) on the loaded index.`,
	Run:   runQuery,
}

var containsCmd = &cobra.Command{
	Use:   "contains",
	Short: "Run point containment benchmarks",
	Long:  `Execute point containment benchmarks on the loaded index.`,
	Run:   runContains,
}

var nearestCmd = &cobra.Command{
	Use:   "nearest",
	Short: "Run nearest neighbor benchmarks",
	Long:  `Execute nearest neighbor search benchmarks on the loaded index.`,
	Run:   runNearest,
}

var pgloadCmd = &cobra.Command{
	Use:   "pgload",
	Short: "Load random rectangles into PostGIS",
	Long:  `Generate random rectangles and bulk insert them into a PostGIS table for comparison against the in-memory index.`,
	Run:   runPgLoad,
}

var (
	numRects     int
	numQueries   int
	numNeighbors int
	worldSize    int
	maxExtent    int
	boxSize      int
	numWorkers   int

	pgHost     string
	pgPort     int
	pgUser     string
	pgPassword string
	pgDatabase string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&indexFile, "file", "f", "rect_index.gob", "Index file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	loadCmd.Flags().IntVarP(&numRects, "rects", "r", 1000000, "Number of rectangles to generate")
	loadCmd.Flags().IntVarP(&worldSize, "world", "s", 1000000, "Coordinate range for generated rectangles")
	loadCmd.Flags().IntVarP(&maxExtent, "extent", "e", 500, "Maximum rectangle extent per axis")
	loadCmd.Flags().IntVarP(&numWorkers, "workers", "w", runtime.NumCPU(), "Number of worker goroutines")

	queryCmd.Flags().IntVarP(&numQueries, "queries", "q", 1000, "Number of queries to run")
	queryCmd.Flags().IntVarP(&boxSize, "box", "b", 1000, "Query box size per axis")
	queryCmd.Flags().IntVarP(&numWorkers, "workers", "w", runtime.NumCPU(), "Number of worker goroutines")

	containsCmd.Flags().IntVarP(&numQueries, "queries", "q", 1000, "Number of queries to run")
	containsCmd.Flags().IntVarP(&numWorkers, "workers", "w", runtime.NumCPU(), "Number of worker goroutines")

	nearestCmd.Flags().IntVarP(&numQueries, "queries", "q", 1000, "Number of queries to run")
	nearestCmd.Flags().IntVarP(&numNeighbors, "neighbors", "n", 10, "Number of nearest neighbors to find")
	nearestCmd.Flags().IntVarP(&numWorkers, "workers", "w", runtime.NumCPU(), "Number of worker goroutines")

	pgloadCmd.Flags().IntVarP(&numRects, "rects", "r", 100000, "Number of rectangles to generate")
	pgloadCmd.Flags().IntVarP(&worldSize, "world", "s", 1000000, "Coordinate range for generated rectangles")
	pgloadCmd.Flags().IntVarP(&maxExtent, "extent", "e", 500, "Maximum rectangle extent per axis")
	pgloadCmd.Flags().StringVar(&pgHost, "pg-host", "localhost", "PostgreSQL host")
	pgloadCmd.Flags().IntVar(&pgPort, "pg-port", 5432, "PostgreSQL port")
	pgloadCmd.Flags().StringVar(&pgUser, "pg-user", "postgres", "PostgreSQL user")
	pgloadCmd.Flags().StringVar(&pgPassword, "pg-password", "postgres", "PostgreSQL password")
	pgloadCmd.Flags().StringVar(&pgDatabase, "pg-database", "rectdb", "PostgreSQL database")

	rootCmd.AddCommand(loadCmd, queryCmd, containsCmd, nearestCmd, pgloadCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runLoad(cmd *cobra.Command, args []string) {
	fmt.Printf("Loading %d random rectangles into R-Tree index using %d workers...\n", numRects, numWorkers)

	rects := generateRandomRects(numRects)

	idx := index.NewRectIndex()

	start := time.Now()

	// Split rects into batches for parallel indexing
	batchSize := numRects / numWorkers
	if batchSize < 1 {
		batchSize = 1
	}

	var wg sync.WaitGroup
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
				log.Printf("Indexing error: %v", err)
			}
		}(rects[startIdx:endIdx])
	}

	wg.Wait()
	loadTime := time.Since(start)

	fmt.Printf("Loaded %d rectangles in %v\n", idx.Count(), loadTime)
	fmt.Printf("Rectangles per second: %.0f\n", float64(numRects)/loadTime.Seconds())

	if err := idx.SaveToFile(indexFile); err != nil {
		log.Fatalf("Failed to save index: %v", err)
	}

	fmt.Printf("Index saved to %s\n", indexFile)
}

func runQuery(cmd *cobra.Command, args []string) {
	idx := loadIndex()

	fmt.Printf("Running %d box intersection queries using %d workers...\n", numQueries, numWorkers)

	// Prepare random query boxes
	queries := make([]*models.Rect, numQueries)
	for i := 0; i < numQueries; i++ {
		x := rand.Intn(worldBound)
		y := rand.Intn(worldBound)
		queries[i] = &models.Rect{
			BottomLeft: models.Corner{X: x, Y: y},
			TopRight:   models.Corner{X: x + boxSize, Y: y + boxSize},
		}
	}

	var totalResults atomic.Int64
	var queryCount atomic.Int64

	start := time.Now()

	runWorkers(numQueries, func(workerID, i int) {
		results, err := idx.QueryBox(queries[i])
		if err != nil {
			log.Printf("Worker %d: Query error: %v", workerID, err)
			return
		}
		totalResults.Add(int64(len(results)))
		queryCount.Add(1)

		if verbose && i%100 == 0 {
			fmt.Printf("Worker %d: Query %d found %d results\n", workerID, i, len(results))
		}
	})

	printBenchmark("Box Intersection", queryCount.Load(), totalResults.Load(), time.Since(start))
}

func runContains(cmd *cobra.Command, args []string) {
	idx := loadIndex()

	fmt.Printf("Running %d point containment queries using %d workers...\n", numQueries, numWorkers)

	points := make([]models.Corner, numQueries)
	for i := 0; i < numQueries; i++ {
		points[i] = models.Corner{X: rand.Intn(worldBound), Y: rand.Intn(worldBound)}
	}

	var totalResults atomic.Int64
	var queryCount atomic.Int64

	start := time.Now()

	runWorkers(numQueries, func(workerID, i int) {
		results, err := idx.QueryPoint(points[i].X, points[i].Y)
		if err != nil {
			log.Printf("Worker %d: Query error: %v", workerID, err)
			return
		}
		totalResults.Add(int64(len(results)))
		queryCount.Add(1)

		if verbose && i%100 == 0 {
			fmt.Printf("Worker %d: Query %d found %d results\n", workerID, i, len(results))
		}
	})

	printBenchmark("Point Containment", queryCount.Load(), totalResults.Load(), time.Since(start))
}

func runNearest(cmd *cobra.Command, args []string) {
	idx := loadIndex()

	fmt.Printf("Running %d nearest neighbor searches (k=%d) using %d workers...\n", numQueries, numNeighbors, numWorkers)

	points := make([]models.Corner, numQueries)
	for i := 0; i < numQueries; i++ {
		points[i] = models.Corner{X: rand.Intn(worldBound), Y: rand.Intn(worldBound)}
	}

	var totalResults atomic.Int64
	var queryCount atomic.Int64

	start := time.Now()

	runWorkers(numQueries, func(workerID, i int) {
		results := idx.NearestNeighbors(points[i].X, points[i].Y, numNeighbors)
		totalResults.Add(int64(len(results)))
		queryCount.Add(1)

		if verbose && i%100 == 0 {
			fmt.Printf("Worker %d: Query %d found %d neighbors\n", workerID, i, len(results))
		}
	})

	printBenchmark("Nearest Neighbor", queryCount.Load(), totalResults.Load(), time.Since(start))
}

func runPgLoad(cmd *cobra.Command, args []string) {
	fmt.Printf("Connecting to PostGIS at %s:%d/%s...\n", pgHost, pgPort, pgDatabase)

	store, err := postgres.NewStore(pgHost, pgUser, pgPassword, pgDatabase, pgPort)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer store.Close()

	if err := store.InitSchema(); err != nil {
		log.Fatalf("Failed to init schema: %v", err)
	}

	fmt.Printf("Generating %d random rectangles...\n", numRects)
	rects := generateRandomRects(numRects)

	start := time.Now()
	if err := store.BulkInsertRects(rects); err != nil {
		log.Fatalf("Failed to insert rectangles: %v", err)
	}
	insertTime := time.Since(start)

	fmt.Printf("Inserted %d rectangles in %v (%.0f rects/sec)\n",
		numRects, insertTime, float64(numRects)/insertTime.Seconds())

	if err := store.CreateSpatialIndex(); err != nil {
		log.Fatalf("Failed to create spatial index: %v", err)
	}

	stats, err := store.Stats()
	if err != nil {
		log.Fatalf("Failed to get stats: %v", err)
	}
	for key, value := range stats {
		fmt.Printf("%s: %v\n", key, value)
	}
}

const worldBound = 1000000

func loadIndex() *index.RectIndex {
	idx := index.NewRectIndex()
	fmt.Printf("Loading index from %s...\n", indexFile)
	if err := idx.LoadFromFile(indexFile); err != nil {
		log.Fatalf("Failed to load index: %v", err)
	}
	fmt.Printf("Loaded %d rectangles\n", idx.Count())
	return idx
}

// runWorkers splits n query slots across the configured worker count
func runWorkers(n int, query func(workerID, i int)) {
	var wg sync.WaitGroup
	perWorker := n / numWorkers
	if perWorker < 1 {
		perWorker = 1
	}

	for w := 0; w < numWorkers && w*perWorker < n; w++ {
		wg.Add(1)
		startIdx := w * perWorker
		endIdx := startIdx + perWorker
		if w == numWorkers-1 || endIdx > n {
			endIdx = n
		}

		go func(workerID, start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				query(workerID, i)
			}
		}(w, startIdx, endIdx)
	}

	wg.Wait()
}

func printBenchmark(name string, queries, results int64, elapsed time.Duration) {
	fmt.Printf("\n%s Benchmark Results:\n", name)
	fmt.Printf("Total queries: %d\n", queries)
	fmt.Printf("Total time: %v\n", elapsed)
	if queries > 0 {
		fmt.Printf("Queries per second: %.0f\n", float64(queries)/elapsed.Seconds())
		fmt.Printf("Average query time: %v\n", elapsed/time.Duration(queries))
		fmt.Printf("Average results per query: %.1f\n", float64(results)/float64(queries))
	}
	fmt.Printf("Total results found: %d\n", results)
}

func generateRandomRects(n int) []*models.Rect {
	rects := make([]*models.Rect, n)

	// Generate in parallel across CPU cores
	workers := runtime.NumCPU()
	batchSize := n / workers
	if batchSize < 1 {
		batchSize = 1
	}
	var wg sync.WaitGroup

	for w := 0; w < workers && w*batchSize < n; w++ {
		wg.Add(1)
		startIdx := w * batchSize
		endIdx := startIdx + batchSize
		if w == workers-1 || endIdx > n {
			endIdx = n
		}

		go func(start, end int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(start)))

			for i := start; i < end; i++ {
				// Cluster most rectangles in a few dense regions to
				// give queries a realistic skew
				var x, y int

				switch r.Intn(5) {
				case 0:
					x = r.Intn(worldSize / 10)
					y = r.Intn(worldSize / 10)
				case 1:
					x = worldSize/2 + r.Intn(worldSize/10)
					y = worldSize/2 + r.Intn(worldSize/10)
				case 2:
					x = worldSize - r.Intn(worldSize/10) - maxExtent
					y = r.Intn(worldSize / 10)
				default:
					x = r.Intn(worldSize)
					y = r.Intn(worldSize)
				}

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
