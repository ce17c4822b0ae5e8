// Package config provides common default configuration values shared across
// thinkmap components (HTTP API, storage, CLI). This centralizes configuration
// management and keeps the server and client in agreement on addresses.
package config

const (
	// DefaultBindAddr is the default bind address for the API server.
	// Loopback keeps a fresh install from being reachable off-host.
	DefaultBindAddr = "127.0.0.1"

	// DefaultAPIPort is the default port of the thinkmapd REST API.
	DefaultAPIPort = 8008

	// DefaultLogLevel is the default log level for all components
	// INFO provides good balance of visibility without verbose debug output
	DefaultLogLevel = "INFO"

	// DefaultDataDir is the default data directory for persistent storage
	DefaultDataDir = "./data"
)
