package core

// RuntimeConfig contains platform-level settings for a game session.
// Screen dimensions track the terminal; the simulation itself runs in
// field units and is scaled at render time.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in cells
	ScreenH  int   // Screen height in cells
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed, 0 means use current time in the platform layer
}

// DefaultRuntimeConfig returns a RuntimeConfig with sensible defaults.
func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0,
	}
}
