// Package storage provides SQLite-based persistence for match results and
// recorded rallies. Uses the pure-Go modernc.org/sqlite driver to avoid
// CGO dependencies.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/gopongai/gopong/internal/game"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Paddle controller labels stored with each match.
const (
	PlayerHuman = "human"
	PlayerAI    = "ai"
)

// MatchResult is one finished game.
type MatchResult struct {
	ID            int64
	P1Type        string // PlayerHuman or PlayerAI
	P2Type        string
	Score1        int
	Score2        int
	Winner        game.Side
	LeftHits      int
	RightHits     int
	DurationTicks int
	CreatedAt     time.Time
}

// RecordedPoint is a persisted rally with its frame data.
type RecordedPoint struct {
	ID        int64
	Point     game.PointRecord
	CreatedAt time.Time
}

// Stats aggregates the stored match history.
type Stats struct {
	Matches        int
	P1Wins         int
	P2Wins         int
	AvgScore1      float64
	AvgScore2      float64
	TotalHits      int64
	AvgTicks       float64
	LastPlayed     time.Time
	RecordedPoints int
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

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			p1_type TEXT NOT NULL,
			p2_type TEXT NOT NULL,
			score1 INTEGER NOT NULL DEFAULT 0,
			score2 INTEGER NOT NULL DEFAULT 0,
			winner INTEGER NOT NULL,
			left_hits INTEGER NOT NULL DEFAULT 0,
			right_hits INTEGER NOT NULL DEFAULT 0,
			duration_ticks INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_matches_created ON matches(created_at DESC);

		CREATE TABLE IF NOT EXISTS recorded_points (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			winner INTEGER NOT NULL,
			left_hits INTEGER NOT NULL DEFAULT 0,
			right_hits INTEGER NOT NULL DEFAULT 0,
			frames BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_points_created ON recorded_points(created_at DESC);
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

// SaveMatch records a finished game. Returns the ID of the inserted row.
func (s *Store) SaveMatch(m MatchResult) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO matches
		 (p1_type, p2_type, score1, score2, winner, left_hits, right_hits, duration_ticks)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.P1Type, m.P2Type, m.Score1, m.Score2, int(m.Winner),
		m.LeftHits, m.RightHits, m.DurationTicks,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save match: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentMatches retrieves the most recent matches, newest first.
func (s *Store) RecentMatches(limit int) ([]MatchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, p1_type, p2_type, score1, score2, winner,
		        left_hits, right_hits, duration_ticks, created_at
		 FROM matches
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var results []MatchResult
	for rows.Next() {
		var m MatchResult
		var winner int
		var createdAt any
		if err := rows.Scan(
			&m.ID, &m.P1Type, &m.P2Type, &m.Score1, &m.Score2, &winner,
			&m.LeftHits, &m.RightHits, &m.DurationTicks, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		m.Winner = game.Side(winner)
		m.CreatedAt = parseTimestamp(createdAt)
		results = append(results, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// MatchStats aggregates the stored match history and recording counts.
func (s *Store) MatchStats() (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN winner = 0 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN winner = 1 THEN 1 ELSE 0 END), 0),
		        COALESCE(AVG(score1), 0),
		        COALESCE(AVG(score2), 0),
		        COALESCE(SUM(left_hits + right_hits), 0),
		        COALESCE(AVG(duration_ticks), 0)
		 FROM matches`,
	).Scan(
		&stats.Matches, &stats.P1Wins, &stats.P2Wins,
		&stats.AvgScore1, &stats.AvgScore2, &stats.TotalHits, &stats.AvgTicks,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get match stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM matches ORDER BY id DESC LIMIT 1`,
	).Scan(&lastPlayed)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTimestamp(lastPlayed)
	}

	count, err := s.CountRecordedPoints()
	if err != nil {
		return nil, err
	}
	stats.RecordedPoints = count

	return stats, nil
}

// SavePoint persists a recorded rally. The frames are stored as a JSON
// blob so the schema stays stable if the frame layout grows.
func (s *Store) SavePoint(p game.PointRecord) (int64, error) {
	frames, err := json.Marshal(p.Frames)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot marshal frames: %w", err)
	}

	result, err := s.db.Exec(
		`INSERT INTO recorded_points (winner, left_hits, right_hits, frames)
		 VALUES (?, ?, ?, ?)`,
		int(p.Winner), p.LeftHits, p.RightHits, frames,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save recorded point: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecordedPoints retrieves stored rallies, newest first.
func (s *Store) RecordedPoints(limit int) ([]RecordedPoint, error) {
	if limit <= 0 {
		limit = 500
	}

	rows, err := s.db.Query(
		`SELECT id, winner, left_hits, right_hits, frames, created_at
		 FROM recorded_points
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query recorded points: %w", err)
	}
	defer rows.Close()

	var results []RecordedPoint
	for rows.Next() {
		var rp RecordedPoint
		var winner int
		var frames []byte
		var createdAt any
		if err := rows.Scan(&rp.ID, &winner, &rp.Point.LeftHits, &rp.Point.RightHits, &frames, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if err := json.Unmarshal(frames, &rp.Point.Frames); err != nil {
			return nil, fmt.Errorf("storage: cannot unmarshal frames for point %d: %w", rp.ID, err)
		}
		rp.Point.Winner = game.Side(winner)
		rp.CreatedAt = parseTimestamp(createdAt)
		results = append(results, rp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// CountRecordedPoints returns the number of stored rallies.
func (s *Store) CountRecordedPoints() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM recorded_points").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count recorded points: %w", err)
	}
	return count, nil
}

// ClearRecordings deletes all stored rallies.
func (s *Store) ClearRecordings() error {
	_, err := s.db.Exec("DELETE FROM recorded_points")
	if err != nil {
		return fmt.Errorf("storage: cannot clear recordings: %w", err)
	}
	return nil
}

// parseTimestamp handles the driver returning DATETIME columns as either
// time.Time or string.
func parseTimestamp(v any) time.Time {
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

// PointSink adapts a Store to the game.Recorder interface so rallies
// stream into the database as they complete. Save errors do not interrupt
// play; the last one is kept for the caller to report at session end.
type PointSink struct {
	store   *Store
	frames  []game.FrameRecord
	saved   int
	lastErr error
}

// NewPointSink creates a recorder that writes into the given store.
func NewPointSink(store *Store) *PointSink {
	return &PointSink{store: store}
}

// RecordFrame buffers a live frame for the current rally.
func (ps *PointSink) RecordFrame(f game.FrameRecord) {
	ps.frames = append(ps.frames, f)
}

// RecordPoint persists the buffered rally.
func (ps *PointSink) RecordPoint(winner game.Side, leftHits, rightHits int) {
	point := game.PointRecord{
		Winner:    winner,
		LeftHits:  leftHits,
		RightHits: rightHits,
		Frames:    ps.frames,
	}
	ps.frames = nil

	if _, err := ps.store.SavePoint(point); err != nil {
		ps.lastErr = err
		return
	}
	ps.saved++
}

// Saved returns how many rallies reached the database.
func (ps *PointSink) Saved() int {
	return ps.saved
}

// Err returns the last save error, if any.
func (ps *PointSink) Err() error {
	return ps.lastErr
}

// Ensure PointSink implements the game recorder
var _ game.Recorder = (*PointSink)(nil)
