package main

import (
	"fmt"
	"log"

	"github.com/kass/go-rect-index/pkg/geom"
	"github.com/kass/go-rect-index/pkg/index"
	"github.com/kass/go-rect-index/pkg/models"
)

func main() {
	// Core value types: a point and a rectangle
	p := geom.NewPoint(1, 2)
	p.Move(4, 7)
	fmt.Printf("Point moved to (%d, %d)\n", p.X(), p.Y())

	r := geom.NewRectFromCorners(geom.NewPoint(1, 2), geom.NewPoint(5, 9))
	fmt.Printf("Rect %dx%d, area %d\n", r.Width(), r.Height(), r.Area())
	r.Move(10, 10)
	fmt.Printf("After move: bottom-left (%d, %d), area still %d\n\n",
		r.BottomLeft().X(), r.BottomLeft().Y(), r.Area())

	// Index a fixed set of screen regions
	idx := index.NewRectIndex()

	regions := []*models.Rect{
		{ID: "header", BottomLeft: models.Corner{X: 0, Y: 1000}, TopRight: models.Corner{X: 1920, Y: 1080}},
		{ID: "sidebar", BottomLeft: models.Corner{X: 0, Y: 0}, TopRight: models.Corner{X: 300, Y: 1000}},
		{ID: "content", BottomLeft: models.Corner{X: 300, Y: 0}, TopRight: models.Corner{X: 1620, Y: 1000}},
		{ID: "inspector", BottomLeft: models.Corner{X: 1620, Y: 0}, TopRight: models.Corner{X: 1920, Y: 1000}},
		{ID: "dialog", BottomLeft: models.Corner{X: 760, Y: 340}, TopRight: models.Corner{X: 1160, Y: 740}},
		{ID: "tooltip", BottomLeft: models.Corner{X: 900, Y: 500}, TopRight: models.Corner{X: 1100, Y: 560}},
	}

	if err := idx.IndexRects(regions); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Indexed %d regions\n\n", idx.Count())

	// Example 1: which regions contain a click at (1000, 520)?
	fmt.Println("=== Regions under (1000, 520) ===")
	hits, err := idx.QueryPoint(1000, 520)
	if err != nil {
		log.Fatal(err)
	}
	for _, hit := range hits {
		fmt.Printf("  %s (%dx%d)\n", hit.ID, hit.Width(), hit.Height())
	}

	// Example 2: which regions intersect the left half of the screen?
	fmt.Println("\n=== Regions intersecting the left half ===")
	leftHalf := &models.Rect{
		BottomLeft: models.Corner{X: 0, Y: 0},
		TopRight:   models.Corner{X: 960, Y: 1080},
	}
	overlapping, err := idx.QueryBox(leftHalf)
	if err != nil {
		log.Fatal(err)
	}
	for _, region := range overlapping {
		fmt.Printf("  %s\n", region.ID)
	}

	// Example 3: the three regions nearest to the screen center
	fmt.Println("\n=== Nearest regions to screen center ===")
	for _, region := range idx.NearestNeighbors(960, 540, 3) {
		fmt.Printf("  %s\n", region.ID)
	}
}
