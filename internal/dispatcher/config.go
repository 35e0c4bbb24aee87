package dispatcher

// Config holds dispatcher options. The mapstructure tags let the CLI load
// it from the "dispatcher" configuration section.
type Config struct {
	// EnableMetrics enables per-action timing and statistics.
	EnableMetrics bool `mapstructure:"metrics"`

	// RecoverFromPanic turns a handler panic into an error result.
	RecoverFromPanic bool `mapstructure:"recover"`

	// MaxRepeatCount caps the repeat count of an action. Zero means no limit.
	MaxRepeatCount int `mapstructure:"maxCount"`

	// Reveal asks the host to show the primary selection after each
	// successful action.
	Reveal bool `mapstructure:"reveal"`
}

// DefaultConfig returns the default dispatcher configuration.
func DefaultConfig() Config {
	return Config{
		RecoverFromPanic: true,
		MaxRepeatCount:   10000,
		Reveal:           true,
	}
}

// WithMetrics returns a copy of the config with metrics enabled.
func (c Config) WithMetrics() Config {
	c.EnableMetrics = true
	return c
}
