// Package config provides configuration management for the thinkmapctl CLI.
package config

import (
	"github.com/concave-dev/thinkmap/internal/batching"
	"github.com/concave-dev/thinkmap/internal/version"
)

const (
	DefaultAPIAddr = "127.0.0.1:8008" // Default API server address (routable)
)

// Version returns the current thinkmapctl CLI version from the centralized version package
var Version = version.ThinkmapctlVersion

// Global holds the global CLI configuration
var Global struct {
	APIAddr     string // Address of thinkmapd to connect to
	LogLevel    string // Log level for CLI operations
	Timeout     int    // Request timeout in seconds
	Verbose     bool   // Show verbose output
	Output      string // Output format: table, json
	Credentials string // Path of the credentials file
}

// Auth holds the auth command configuration
var Auth struct {
	Password      string // Password for register/login (prompted when empty)
	PasswordStdin bool   // Read the password from stdin
}

// Map holds the map command configuration
var Map struct {
	Title string // Title for map create
	Force bool   // Skip confirmation for map rm
}

// Edit holds the edit session configuration
var Edit struct {
	IdleSeconds   int // Idle window before queued edits are flushed
	MaxOperations int // Queue size that triggers an immediate flush
}

// BatchingConfig builds the batcher configuration from the edit flags.
func BatchingConfig() *batching.Config {
	cfg := batching.DefaultConfig()
	cfg.MaxOperations = Edit.MaxOperations
	cfg.IdleWindowMs = Edit.IdleSeconds * 1000
	return cfg
}
