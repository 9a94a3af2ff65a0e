package ai

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Weights is the serialized form of a trained player. The grid size is
// stored alongside the units so a weights file can never be loaded
// against a mismatched observation.
type Weights struct {
	GridW        int         `json:"grid_w"`
	GridH        int         `json:"grid_h"`
	NumNodes     int         `json:"num_nodes"`
	LearningRate float64     `json:"learning_rate"`
	Deadzone     float64     `json:"deadzone"`
	Bias         float64     `json:"bias"`
	Units        [][]float64 `json:"units"`
	GamesPlayed  int         `json:"games_played"`
	TotalReward  float64     `json:"total_reward"`
	SavedAt      time.Time   `json:"saved_at"`
}

// Weights returns a deep copy of the player's current weights.
func (p *Player) Weights() Weights {
	units := make([][]float64, len(p.units))
	for i, u := range p.units {
		units[i] = append([]float64(nil), u...)
	}
	return Weights{
		GridW:        p.gridW,
		GridH:        p.gridH,
		NumNodes:     p.numNodes,
		LearningRate: p.lr,
		Deadzone:     p.deadzone,
		Bias:         p.bias,
		Units:        units,
		GamesPlayed:  p.gamesPlayed,
		TotalReward:  p.totalReward,
		SavedAt:      time.Now(),
	}
}

// Save writes the player's weights to a JSON file.
func (p *Player) Save(path string) error {
	data, err := json.MarshalIndent(p.Weights(), "", "  ")
	if err != nil {
		return fmt.Errorf("ai: cannot marshal weights: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("ai: cannot write weights file: %w", err)
	}
	return nil
}

// LoadWeights reads and validates a weights file.
func LoadWeights(path string) (Weights, error) {
	var w Weights

	data, err := os.ReadFile(path)
	if err != nil {
		return w, fmt.Errorf("ai: cannot read weights file: %w", err)
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return w, fmt.Errorf("ai: cannot parse weights file %s: %w", path, err)
	}

	if w.GridW <= 0 || w.GridH <= 0 {
		return w, fmt.Errorf("ai: weights file %s has invalid grid size %dx%d", path, w.GridW, w.GridH)
	}
	if w.NumNodes <= 0 || len(w.Units) != w.NumNodes {
		return w, fmt.Errorf("ai: weights file %s has %d units, header says %d", path, len(w.Units), w.NumNodes)
	}
	inputs := w.GridW * w.GridH
	for i, u := range w.Units {
		if len(u) != inputs {
			return w, fmt.Errorf("ai: weights file %s unit %d has %d weights, expected %d", path, i, len(u), inputs)
		}
	}
	return w, nil
}

// LoadPlayer restores a player from a weights file, checking that it was
// trained on the same grid the game will encode.
func LoadPlayer(path string, gridW, gridH int) (*Player, error) {
	w, err := LoadWeights(path)
	if err != nil {
		return nil, err
	}
	if w.GridW != gridW || w.GridH != gridH {
		return nil, fmt.Errorf("ai: weights are for a %dx%d grid, the game encodes %dx%d",
			w.GridW, w.GridH, gridW, gridH)
	}

	units := make([][]float64, len(w.Units))
	for i, u := range w.Units {
		units[i] = append([]float64(nil), u...)
	}
	deadzone := w.Deadzone
	if deadzone <= 0 {
		deadzone = DefaultDeadzone
	}
	lr := w.LearningRate
	if lr <= 0 {
		lr = DefaultLearningRate
	}

	return &Player{
		gridW:       w.GridW,
		gridH:       w.GridH,
		numNodes:    w.NumNodes,
		lr:          lr,
		deadzone:    deadzone,
		units:       units,
		bias:        w.Bias,
		gamesPlayed: w.GamesPlayed,
		totalReward: w.TotalReward,
	}, nil
}
