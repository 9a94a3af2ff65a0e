package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gopongai/gopong/internal/game"
)

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieveMatches(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	_, err = store.SaveMatch(MatchResult{
		P1Type: "human", P2Type: "ai",
		Score1: 11, Score2: 7, Winner: game.SideLeft,
		LeftHits: 30, RightHits: 26, DurationTicks: 5400,
	})
	if err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}

	_, err = store.SaveMatch(MatchResult{
		P1Type: "ai", P2Type: "ai",
		Score1: 4, Score2: 11, Winner: game.SideRight,
		LeftHits: 12, RightHits: 19, DurationTicks: 3600,
	})
	if err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}

	matches, err := store.RecentMatches(10)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}

	if len(matches) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(matches))
	}

	// Newest first
	if matches[0].Winner != game.SideRight {
		t.Errorf("Expected newest match winner to be right, got %v", matches[0].Winner)
	}
	if matches[1].Score1 != 11 || matches[1].Score2 != 7 {
		t.Errorf("Expected oldest match 11-7, got %d-%d", matches[1].Score1, matches[1].Score2)
	}
	if matches[1].P1Type != "human" || matches[1].P2Type != "ai" {
		t.Errorf("Player types not preserved: %s vs %s", matches[1].P1Type, matches[1].P2Type)
	}
}

func TestStoreRecentMatchesLimit(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	for i := 0; i < 5; i++ {
		store.SaveMatch(MatchResult{
			P1Type: "ai", P2Type: "ai",
			Score1: 11, Score2: i, Winner: game.SideLeft,
		})
	}

	matches, err := store.RecentMatches(3)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}

	if len(matches) != 3 {
		t.Errorf("Expected 3 matches with limit, got %d", len(matches))
	}
	if matches[0].Score2 != 4 {
		t.Errorf("Expected newest match first (score2 = 4), got %d", matches[0].Score2)
	}
}

func TestStoreMatchStats(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Empty database gives zero stats, not an error
	stats, err := store.MatchStats()
	if err != nil {
		t.Fatalf("MatchStats() on empty db failed: %v", err)
	}
	if stats.Matches != 0 {
		t.Errorf("Expected 0 matches on empty db, got %d", stats.Matches)
	}

	store.SaveMatch(MatchResult{
		P1Type: "human", P2Type: "ai",
		Score1: 11, Score2: 5, Winner: game.SideLeft,
		LeftHits: 20, RightHits: 16, DurationTicks: 4000,
	})
	store.SaveMatch(MatchResult{
		P1Type: "human", P2Type: "ai",
		Score1: 3, Score2: 11, Winner: game.SideRight,
		LeftHits: 10, RightHits: 14, DurationTicks: 2000,
	})

	stats, err = store.MatchStats()
	if err != nil {
		t.Fatalf("MatchStats() failed: %v", err)
	}

	if stats.Matches != 2 {
		t.Errorf("Expected 2 matches, got %d", stats.Matches)
	}
	if stats.P1Wins != 1 || stats.P2Wins != 1 {
		t.Errorf("Expected 1-1 wins, got %d-%d", stats.P1Wins, stats.P2Wins)
	}
	if stats.AvgScore1 != 7 {
		t.Errorf("Expected avg score1 of 7, got %v", stats.AvgScore1)
	}
	if stats.TotalHits != 60 {
		t.Errorf("Expected 60 total hits, got %d", stats.TotalHits)
	}
	if stats.AvgTicks != 3000 {
		t.Errorf("Expected avg 3000 ticks, got %v", stats.AvgTicks)
	}
}

func TestStoreRecordedPoints(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	point := game.PointRecord{
		Winner:   game.SideLeft,
		LeftHits: 2, RightHits: 1,
		Frames: []game.FrameRecord{
			{Tick: 1, Grid: []float64{0, 1, 2}, BallX: 100, BallY: 200, LeftHit: true},
			{Tick: 2, Grid: []float64{2, 0, 1}, BallX: 105, BallY: 205},
		},
	}

	if _, err := store.SavePoint(point); err != nil {
		t.Fatalf("SavePoint() failed: %v", err)
	}

	points, err := store.RecordedPoints(10)
	if err != nil {
		t.Fatalf("RecordedPoints() failed: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("Expected 1 recorded point, got %d", len(points))
	}

	got := points[0].Point
	if got.Winner != game.SideLeft || got.LeftHits != 2 || got.RightHits != 1 {
		t.Errorf("Point header not preserved: %+v", got)
	}
	if len(got.Frames) != 2 {
		t.Fatalf("Expected 2 frames, got %d", len(got.Frames))
	}
	if got.Frames[0].BallX != 100 || !got.Frames[0].LeftHit {
		t.Errorf("Frame data not preserved: %+v", got.Frames[0])
	}
	if len(got.Frames[0].Grid) != 3 || got.Frames[0].Grid[2] != 2 {
		t.Errorf("Grid cells not preserved: %v", got.Frames[0].Grid)
	}

	count, err := store.CountRecordedPoints()
	if err != nil {
		t.Fatalf("CountRecordedPoints() failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected count of 1, got %d", count)
	}
}

func TestStoreClearRecordings(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	store.SavePoint(game.PointRecord{Winner: game.SideLeft})
	store.SavePoint(game.PointRecord{Winner: game.SideRight})

	if err := store.ClearRecordings(); err != nil {
		t.Fatalf("ClearRecordings() failed: %v", err)
	}

	count, _ := store.CountRecordedPoints()
	if count != 0 {
		t.Errorf("Expected 0 recordings after clear, got %d", count)
	}
}

func TestPointSink(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	sink := NewPointSink(store)
	sink.RecordFrame(game.FrameRecord{Tick: 1, Grid: []float64{1, 0}})
	sink.RecordFrame(game.FrameRecord{Tick: 2, Grid: []float64{0, 1}})
	sink.RecordPoint(game.SideRight, 0, 1)

	if err := sink.Err(); err != nil {
		t.Fatalf("PointSink reported error: %v", err)
	}
	if sink.Saved() != 1 {
		t.Errorf("Expected 1 saved rally, got %d", sink.Saved())
	}

	points, err := store.RecordedPoints(10)
	if err != nil {
		t.Fatalf("RecordedPoints() failed: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("Expected 1 stored rally, got %d", len(points))
	}
	if len(points[0].Point.Frames) != 2 {
		t.Errorf("Expected 2 frames in stored rally, got %d", len(points[0].Point.Frames))
	}

	// The next rally starts with an empty frame buffer
	sink.RecordFrame(game.FrameRecord{Tick: 3})
	sink.RecordPoint(game.SideLeft, 1, 0)

	points, _ = store.RecordedPoints(10)
	if len(points) != 2 {
		t.Fatalf("Expected 2 stored rallies, got %d", len(points))
	}
	// Newest first: the second rally has a single frame
	if len(points[0].Point.Frames) != 1 {
		t.Errorf("Expected 1 frame in second rally, got %d", len(points[0].Point.Frames))
	}
}

func TestStoreExpandNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
