package batching

import (
	"fmt"
	"time"
)

const (
	// DefaultMaxOperations flushes a batch as soon as it holds this many
	// operations.
	DefaultMaxOperations = 5

	// DefaultIdleWindowMs flushes a batch after this long without a new
	// operation.
	DefaultIdleWindowMs = 60000

	// DefaultRequestTimeoutMs bounds the save and feedback calls of one flush.
	DefaultRequestTimeoutMs = 120000
)

// Config controls when the Batcher flushes.
type Config struct {
	MaxOperations    int `json:"max_operations" validate:"min=1,max=100"`
	IdleWindowMs     int `json:"idle_window_ms" validate:"min=1,max=3600000"`
	RequestTimeoutMs int `json:"request_timeout_ms" validate:"min=0"`
}

// DefaultConfig returns the standard flush thresholds: five operations or
// one idle minute, whichever comes first.
func DefaultConfig() *Config {
	return &Config{
		MaxOperations:    DefaultMaxOperations,
		IdleWindowMs:     DefaultIdleWindowMs,
		RequestTimeoutMs: DefaultRequestTimeoutMs,
	}
}

// Validate checks thresholds are within sane bounds.
func (c *Config) Validate() error {
	if c.MaxOperations <= 0 {
		return fmt.Errorf("max operations must be positive, got %d", c.MaxOperations)
	}
	if c.MaxOperations > 100 {
		return fmt.Errorf("max operations too large (max 100), got %d", c.MaxOperations)
	}
	if c.IdleWindowMs <= 0 {
		return fmt.Errorf("idle window must be positive, got %d ms", c.IdleWindowMs)
	}
	if c.IdleWindowMs > 3600000 {
		return fmt.Errorf("idle window too large (max 1h), got %d ms", c.IdleWindowMs)
	}
	if c.RequestTimeoutMs < 0 {
		return fmt.Errorf("request timeout must be non-negative, got %d ms", c.RequestTimeoutMs)
	}
	return nil
}

// GetIdleWindow returns IdleWindowMs as a time.Duration.
func (c *Config) GetIdleWindow() time.Duration {
	return time.Duration(c.IdleWindowMs) * time.Millisecond
}

// GetRequestTimeout returns RequestTimeoutMs as a time.Duration. Zero means
// no timeout.
func (c *Config) GetRequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}
