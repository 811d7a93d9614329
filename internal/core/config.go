package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // UI ticks per second (default 30)
	Seed     int64 // RNG seed for deterministic setup and pairing
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Turn     int    // Current turn, starting at 1
	Active   string // Display name of the tank whose turn it is
	Phase    string // Human-readable phase
	GameOver bool   // Whether the duel has ended
	Paused   bool   // Whether the game is paused
	Winner   string // Display name of the winner once GameOver is set
}

// StepResult is returned by Game.Step() after each UI tick.
type StepResult struct {
	State GameState

	// Message is a one-line status the platform may show, such as the
	// reason an intent was rejected. Empty when there is nothing to say.
	Message string
}
