package game

// Config holds battle options.
type Config struct {
	// Seed for random number generation. Used for reproducible battles.
	// A seed of 0 means a random seed will be generated.
	Seed int64

	// Step is the simulated seconds per step.
	Step float64

	// MaxSeconds ends the battle as expired once reached.
	MaxSeconds float64
}

// Default battle options.
const (
	DefaultStep       = 0.1
	DefaultMaxSeconds = 180.0
)

// withDefaults fills unset fields.
func (c Config) withDefaults() Config {
	if c.Step <= 0 {
		c.Step = DefaultStep
	}
	if c.MaxSeconds <= 0 {
		c.MaxSeconds = DefaultMaxSeconds
	}
	return c
}
