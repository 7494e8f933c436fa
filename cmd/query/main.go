package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kass/go-rect-index/pkg/index"
	"github.com/kass/go-rect-index/pkg/models"
)

func main() {
	var (
		indexFile = flag.String("i", "data/index.gob", "Index file path")
		queryType = flag.String("t", "box", "Query type: box, contains, nearest")
		// Box query parameters
		minX = flag.Int("min-x", 0, "Minimum x (box query)")
		maxX = flag.Int("max-x", 0, "Maximum x (box query)")
		minY = flag.Int("min-y", 0, "Minimum y (box query)")
		maxY = flag.Int("max-y", 0, "Maximum y (box query)")
		// Point query parameters
		x = flag.Int("x", 0, "Point x (contains/nearest query)")
		y = flag.Int("y", 0, "Point y (contains/nearest query)")
		// Nearest query parameters
		k = flag.Int("k", 10, "Number of nearest neighbors (nearest query)")
		// Output format
		outputJSON = flag.Bool("json", false, "Output results as JSON")
		limit      = flag.Int("limit", 100, "Maximum number of results to display")
	)
	flag.Parse()

	// Load index
	log.Printf("Loading index from %s...\n", *indexFile)
	idx := index.NewRectIndex()
	if err := idx.LoadFromFile(*indexFile); err != nil {
		log.Fatalf("Failed to load index: %v", err)
	}
	log.Printf("Index loaded with %d rectangles\n", idx.Count())

	var results []*models.Rect
	var err error

	switch *queryType {
	case "box":
		if *minX == 0 && *maxX == 0 && *minY == 0 && *maxY == 0 {
			log.Fatal("Box query requires --min-x, --max-x, --min-y, --max-y")
		}
		box := &models.Rect{
			BottomLeft: models.Corner{X: *minX, Y: *minY},
			TopRight:   models.Corner{X: *maxX, Y: *maxY},
		}
		results, err = idx.QueryBox(box)
		if err != nil {
			log.Fatalf("Box query failed: %v", err)
		}
		log.Printf("Box query found %d rectangles\n", len(results))

	case "contains":
		results, err = idx.QueryPoint(*x, *y)
		if err != nil {
			log.Fatalf("Contains query failed: %v", err)
		}
		log.Printf("Point (%d, %d) is inside %d rectangles\n", *x, *y, len(results))

	case "nearest":
		results = idx.NearestNeighbors(*x, *y, *k)
		log.Printf("Found %d nearest rectangles\n", len(results))

	default:
		log.Fatalf("Unknown query type: %s", *queryType)
	}

	// Limit results if needed
	if len(results) > *limit {
		log.Printf("Showing first %d results (use --limit to see more)\n", *limit)
		results = results[:*limit]
	}

	// Output results
	if *outputJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			log.Fatalf("Failed to encode results: %v", err)
		}
	} else {
		for i, rect := range results {
			fmt.Printf("%d. %s: (%d, %d)-(%d, %d) %dx%d area=%d\n",
				i+1, rect.ID,
				rect.BottomLeft.X, rect.BottomLeft.Y,
				rect.TopRight.X, rect.TopRight.Y,
				rect.Width(), rect.Height(), rect.Area())
		}
	}
}
