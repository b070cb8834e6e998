// Package storage provides SQLite-based persistence for render history.
// Only per-run statistics are stored, never frames.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for render history.
type Store struct {
	db *sql.DB
}

// RenderRecord describes one completed render.
type RenderRecord struct {
	ID            int64
	Evaluator     string
	Policy        string
	Layout        string
	Device        string
	Region        string
	Width         int
	Height        int
	MaxIterations int
	DomainMin     float64
	DomainMax     float64
	RangeMin      float64
	RangeMax      float64
	Pixels        int
	Members       int
	Duration      time.Duration
	CreatedAt     time.Time
}

// HistoryStats aggregates the render history.
type HistoryStats struct {
	Renders     int
	Pixels      int64
	AvgDuration time.Duration
	ByEvaluator map[string]int
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS renders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			evaluator TEXT NOT NULL,
			policy TEXT NOT NULL,
			layout TEXT NOT NULL,
			device TEXT NOT NULL,
			region TEXT NOT NULL DEFAULT '',
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			max_iterations INTEGER NOT NULL,
			domain_min REAL NOT NULL,
			domain_max REAL NOT NULL,
			range_min REAL NOT NULL,
			range_max REAL NOT NULL,
			pixels INTEGER NOT NULL DEFAULT 0,
			members INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_renders_evaluator ON renders(evaluator);
		CREATE INDEX IF NOT EXISTS idx_renders_created ON renders(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRender records a completed render.
// Returns the ID of the inserted record.
func (s *Store) SaveRender(r RenderRecord) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO renders
		 (evaluator, policy, layout, device, region, width, height, max_iterations,
		  domain_min, domain_max, range_min, range_max, pixels, members, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Evaluator, r.Policy, r.Layout, r.Device, r.Region,
		r.Width, r.Height, r.MaxIterations,
		r.DomainMin, r.DomainMax, r.RangeMin, r.RangeMax,
		r.Pixels, r.Members, r.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save render: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentRenders retrieves the latest renders, newest first.
// An empty evaluator matches every render.
func (s *Store) RecentRenders(evaluator string, limit int) ([]RenderRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, evaluator, policy, layout, device, region, width, height, max_iterations,
		        domain_min, domain_max, range_min, range_max, pixels, members, duration_ms, created_at
		 FROM renders
		 WHERE ? = '' OR evaluator = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		evaluator, evaluator, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query renders: %w", err)
	}
	defer rows.Close()

	var records []RenderRecord
	for rows.Next() {
		var r RenderRecord
		var durationMS int64
		var createdAt any
		if err := rows.Scan(
			&r.ID, &r.Evaluator, &r.Policy, &r.Layout, &r.Device, &r.Region,
			&r.Width, &r.Height, &r.MaxIterations,
			&r.DomainMin, &r.DomainMax, &r.RangeMin, &r.RangeMax,
			&r.Pixels, &r.Members, &durationMS, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.CreatedAt = parseTime(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// Stats aggregates the whole history.
func (s *Store) Stats() (HistoryStats, error) {
	stats := HistoryStats{ByEvaluator: make(map[string]int)}

	var pixels sql.NullInt64
	var avgMS sql.NullFloat64
	err := s.db.QueryRow(
		"SELECT COUNT(*), SUM(pixels), AVG(duration_ms) FROM renders",
	).Scan(&stats.Renders, &pixels, &avgMS)
	if err != nil {
		return stats, fmt.Errorf("storage: cannot query stats: %w", err)
	}
	if pixels.Valid {
		stats.Pixels = pixels.Int64
	}
	if avgMS.Valid {
		stats.AvgDuration = time.Duration(avgMS.Float64 * float64(time.Millisecond))
	}

	rows, err := s.db.Query("SELECT evaluator, COUNT(*) FROM renders GROUP BY evaluator")
	if err != nil {
		return stats, fmt.Errorf("storage: cannot query stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return stats, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		stats.ByEvaluator[id] = n
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// ClearHistory deletes every render record.
func (s *Store) ClearHistory() error {
	if _, err := s.db.Exec("DELETE FROM renders"); err != nil {
		return fmt.Errorf("storage: cannot clear history: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
