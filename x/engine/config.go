package engine

import "time"

// Config holds execution-engine tunables.
type Config struct {
	// FeeBufferPct is the percentage added on top of the base gas estimate to
	// form the submission gas budget.
	FeeBufferPct uint64 `mapstructure:"fee_buffer_pct" yaml:"fee_buffer_pct"`

	// ValidityWindow bounds how long a submission stays valid. A submission not
	// confirmed within the window fails instead of lingering for replay under
	// different network conditions.
	ValidityWindow time.Duration `mapstructure:"validity_window" yaml:"validity_window"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		FeeBufferPct:   20,
		ValidityWindow: 5 * time.Minute,
	}
}
