package source

import "time"

// Config holds matching-service client configuration.
type Config struct {
	// BaseURL of the matching service REST API.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// RequestTimeout bounds a single fetch call.
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		RequestTimeout: 30 * time.Second,
	}
}
