package ai

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gopongai/gopong/internal/game"
)

func TestWeightsRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.json")

	p := NewPlayer(8, 6, Options{Seed: 3, NumNodes: 5})
	// Nudge the weights away from their initial values
	cells := make([]float64, 48)
	cells[10] = 1.0
	p.Decide(game.Observation{Grid: game.Grid{W: 8, H: 6, Cells: cells}})
	p.Reward(0.5)
	p.GameOver(true)

	if err := p.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadPlayer(path, 8, 6)
	if err != nil {
		t.Fatalf("LoadPlayer failed: %v", err)
	}

	if loaded.bias != p.bias {
		t.Errorf("bias = %v, expected %v", loaded.bias, p.bias)
	}
	if loaded.GamesPlayed() != p.GamesPlayed() {
		t.Errorf("GamesPlayed = %d, expected %d", loaded.GamesPlayed(), p.GamesPlayed())
	}
	if loaded.TotalReward() != p.TotalReward() {
		t.Errorf("TotalReward = %v, expected %v", loaded.TotalReward(), p.TotalReward())
	}
	if len(loaded.units) != len(p.units) {
		t.Fatalf("units = %d, expected %d", len(loaded.units), len(p.units))
	}
	for i := range p.units {
		for j := range p.units[i] {
			if loaded.units[i][j] != p.units[i][j] {
				t.Fatalf("units[%d][%d] = %v, expected %v", i, j, loaded.units[i][j], p.units[i][j])
			}
		}
	}
}

func TestLoadPlayerGridMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.json")

	p := NewPlayer(8, 6, Options{Seed: 3})
	if err := p.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := LoadPlayer(path, 40, 30); err == nil {
		t.Error("expected an error loading 8x6 weights into a 40x30 game")
	}
}

func TestLoadWeightsValidation(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		data string
	}{
		{"not json", "not json at all"},
		{"zero grid", `{"grid_w":0,"grid_h":6,"num_nodes":1,"units":[[]]}`},
		{"unit count mismatch", `{"grid_w":2,"grid_h":2,"num_nodes":3,"units":[[0,0,0,0],[0,0,0,0]]}`},
		{"unit size mismatch", `{"grid_w":2,"grid_h":2,"num_nodes":1,"units":[[0,0]]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatalf("write fixture: %v", err)
			}
			if _, err := LoadWeights(path); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestLoadWeightsMissingFile(t *testing.T) {
	if _, err := LoadWeights(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
