// Package config provides YAML-based configuration for the game rules,
// physics and AI hyperparameters.
package config

// GameConfig contains all tunables loaded from YAML.
type GameConfig struct {
	Field  FieldConfig  `yaml:"field"`
	Paddle PaddleConfig `yaml:"paddle"`
	Ball   BallConfig   `yaml:"ball"`
	Rules  RulesConfig  `yaml:"rules"`
	Grid   GridConfig   `yaml:"grid"`
	AI     AIConfig     `yaml:"ai"`
}

// FieldConfig defines the logical playing field. Sizes are in field
// units, not terminal cells; rendering scales to the terminal.
type FieldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PaddleConfig defines paddle geometry and movement.
type PaddleConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Speed  float64 `yaml:"speed"`
	Offset float64 `yaml:"offset"` // Distance from the paddle's wall
}

// BallConfig defines ball geometry and movement.
type BallConfig struct {
	Size  float64 `yaml:"size"`
	Speed float64 `yaml:"speed"`
	// MaxBounceAngleDeg is the deflection at the very edge of a paddle,
	// in degrees from horizontal.
	MaxBounceAngleDeg float64 `yaml:"max_bounce_angle_deg"`
}

// RulesConfig defines scoring and match flow.
type RulesConfig struct {
	PointsToWin int  `yaml:"points_to_win"`
	WinByTwo    bool `yaml:"win_by_two"`
	// ResetDelayMs is how long the ball is held at center after a point.
	ResetDelayMs int `yaml:"reset_delay_ms"`
}

// GridConfig defines the observation grid the AI sees.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// AIConfig defines learning hyperparameters.
type AIConfig struct {
	NumNodes     int     `yaml:"num_nodes"`
	LearningRate float64 `yaml:"learning_rate"`
	Deadzone     float64 `yaml:"deadzone"`
	HitReward    float64 `yaml:"hit_reward"`
}
