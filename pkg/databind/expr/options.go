package expr

// DefaultMaxStackDepth bounds the value stack during Run.
const DefaultMaxStackDepth = 256

// runConfig holds configuration for program execution.
type runConfig struct {
	maxStackDepth int
}

// defaultRunConfig returns the default execution configuration.
func defaultRunConfig() runConfig {
	return runConfig{
		maxStackDepth: DefaultMaxStackDepth,
	}
}

// RunOption configures execution behavior.
type RunOption func(*runConfig)

// WithMaxStackDepth sets the maximum number of values on the VM stack.
// Default: 256
//
// Exceeding the limit aborts the run with ErrStackOverflow.
func WithMaxStackDepth(n int) RunOption {
	return func(c *runConfig) {
		if n > 0 {
			c.maxStackDepth = n
		}
	}
}
