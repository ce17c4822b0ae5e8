package store

import (
	"fmt"
	"time"
)

// Config controls the badger database behind Store.
type Config struct {
	Path           string
	InMemory       bool
	SyncWrites     bool
	GCInterval     time.Duration
	GCDiscardRatio float64
}

// DefaultConfig returns durable settings with a 5 minute value log GC.
func DefaultConfig() *Config {
	return &Config{
		SyncWrites:     true,
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// InMemoryConfig returns settings for tests: no disk I/O and no GC.
func InMemoryConfig() *Config {
	return &Config{InMemory: true}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if !c.InMemory && c.Path == "" {
		return fmt.Errorf("path is required for persistent database")
	}
	if c.GCInterval < 0 {
		return fmt.Errorf("gc interval must be non-negative, got %v", c.GCInterval)
	}
	if c.GCDiscardRatio < 0 || c.GCDiscardRatio > 1 {
		return fmt.Errorf("gc discard ratio must be between 0 and 1, got %v", c.GCDiscardRatio)
	}
	return nil
}
