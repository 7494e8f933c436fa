package index

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/kass/go-rect-index/pkg/models"
)

// IndexData represents the serializable form of the rectangle index
type IndexData struct {
	Rects []*models.Rect `json:"rects"`
	Count int64          `json:"count"`
}

// SaveToFile saves the index to a binary file
func (ri *RectIndex) SaveToFile(filename string) error {
	// rtreego has no iterator, so snapshot through a query box that
	// covers every indexed extent
	all := &models.Rect{
		BottomLeft: models.Corner{X: minCoord, Y: minCoord},
		TopRight:   models.Corner{X: maxCoord, Y: maxCoord},
	}

	rects, err := ri.QueryBox(all)
	if err != nil {
		return fmt.Errorf("failed to extract rects: %w", err)
	}

	data := IndexData{
		Rects: rects,
		Count: ri.itemCount.Load(),
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := gob.NewEncoder(file)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode data: %w", err)
	}

	return nil
}

// LoadFromFile loads the index from a binary file
func (ri *RectIndex) LoadFromFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var data IndexData
	decoder := gob.NewDecoder(file)
	if err := decoder.Decode(&data); err != nil {
		return fmt.Errorf("failed to decode data: %w", err)
	}

	ri.Clear()
	if err := ri.IndexRects(data.Rects); err != nil {
		return fmt.Errorf("failed to index rects: %w", err)
	}

	return nil
}

// Coordinate range covered by the snapshot query box. Rects outside
// this range are still indexed but will be missed by SaveToFile.
const (
	minCoord = -1 << 30
	maxCoord = 1 << 30
)
