package postgres

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/kass/go-rect-index/pkg/models"
)

// Store is a PostGIS-backed rectangle store used as a comparison
// baseline for the in-memory R-Tree index
type Store struct {
	db *sql.DB
}

// NewStore creates a new PostGIS connection
func NewStore(host, user, password, dbname string, port int) (*Store, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Store{db: db}, nil
}

// InitSchema creates the necessary tables and extensions
func (s *Store) InitSchema() error {
	queries := []string{
		`CREATE EXTENSION IF NOT EXISTS postgis;`,

		`DROP TABLE IF EXISTS rects;`,

		// Corner coordinates are kept alongside the geometry so that
		// signed width/height survive the round trip; the geometry is
		// always the normalized envelope.
		`CREATE TABLE rects (
			id TEXT PRIMARY KEY,
			bl_x INTEGER NOT NULL,
			bl_y INTEGER NOT NULL,
			tr_x INTEGER NOT NULL,
			tr_y INTEGER NOT NULL,
			extent GEOMETRY(POLYGON, 0)
		);`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query '%s': %w", query, err)
		}
	}

	return nil
}

// CreateSpatialIndex creates a GIST index on the extent column
func (s *Store) CreateSpatialIndex() error {
	query := `CREATE INDEX idx_rects_extent ON rects USING GIST(extent);`

	start := time.Now()
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create spatial index: %w", err)
	}

	if _, err := s.db.Exec("ANALYZE rects;"); err != nil {
		return fmt.Errorf("failed to analyze table: %w", err)
	}

	fmt.Printf("Created spatial index in %v\n", time.Since(start))

	return nil
}

// BulkInsertRects inserts rectangles in batches for better performance
func (s *Store) BulkInsertRects(rects []*models.Rect) error {
	const batchSize = 10000

	stmt, err := s.db.Prepare(`
		INSERT INTO rects (id, bl_x, bl_y, tr_x, tr_y, extent)
		VALUES ($1, $2, $3, $4, $5, ST_MakeEnvelope(
			LEAST($2, $4), LEAST($3, $5), GREATEST($2, $4), GREATEST($3, $5), 0))
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txStmt := tx.Stmt(stmt)

	for i := 0; i < len(rects); i++ {
		rect := rects[i]
		_, err := txStmt.Exec(rect.ID,
			rect.BottomLeft.X, rect.BottomLeft.Y,
			rect.TopRight.X, rect.TopRight.Y)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert rect %s: %w", rect.ID, err)
		}

		// Commit batch
		if (i+1)%batchSize == 0 {
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("failed to commit batch: %w", err)
			}

			tx, err = s.db.Begin()
			if err != nil {
				return fmt.Errorf("failed to begin new transaction: %w", err)
			}
			txStmt = tx.Stmt(stmt)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit final batch: %w", err)
	}

	return nil
}

// QueryIntersecting returns rectangles whose extent intersects the box
func (s *Store) QueryIntersecting(box *models.Rect) ([]*models.Rect, error) {
	query := `
		SELECT id, bl_x, bl_y, tr_x, tr_y
		FROM rects
		WHERE extent && ST_MakeEnvelope($1, $2, $3, $4, 0)
	`

	minX, minY := box.BottomLeft.X, box.BottomLeft.Y
	maxX, maxY := box.TopRight.X, box.TopRight.Y
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	if minY > maxY {
		minY, maxY = maxY, minY
	}

	rows, err := s.db.Query(query, minX, minY, maxX, maxY)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	return scanRects(rows)
}

// QueryContaining returns rectangles whose extent contains the point
func (s *Store) QueryContaining(x, y int) ([]*models.Rect, error) {
	query := `
		SELECT id, bl_x, bl_y, tr_x, tr_y
		FROM rects
		WHERE ST_Covers(extent, ST_MakePoint($1, $2))
	`

	rows, err := s.db.Query(query, x, y)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	return scanRects(rows)
}

func scanRects(rows *sql.Rows) ([]*models.Rect, error) {
	var results []*models.Rect
	for rows.Next() {
		var r models.Rect
		if err := rows.Scan(&r.ID,
			&r.BottomLeft.X, &r.BottomLeft.Y,
			&r.TopRight.X, &r.TopRight.Y); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		results = append(results, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return results, nil
}

// Count returns the number of rectangles in the database
func (s *Store) Count() (int64, error) {
	var count int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM rects").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count rects: %w", err)
	}
	return count, nil
}

// Stats returns database size and table statistics
func (s *Store) Stats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var dbSize string
	err := s.db.QueryRow(`
		SELECT pg_size_pretty(pg_database_size(current_database()))
	`).Scan(&dbSize)
	if err != nil {
		return nil, fmt.Errorf("failed to get database size: %w", err)
	}
	stats["database_size"] = dbSize

	var tableSize, indexSize string
	err = s.db.QueryRow(`
		SELECT
			pg_size_pretty(pg_total_relation_size('rects')) as total_size,
			pg_size_pretty(pg_indexes_size('rects')) as index_size
	`).Scan(&tableSize, &indexSize)
	if err != nil {
		// Table might not exist yet
		stats["table_size"] = "0 bytes"
		stats["index_size"] = "0 bytes"
	} else {
		stats["table_size"] = tableSize
		stats["index_size"] = indexSize
	}

	count, _ := s.Count()
	stats["row_count"] = count

	return stats, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
