// Package config provides configuration management for the thinkmap daemon.
//
// Global is filled from flags, then InitializeConfig applies environment
// overrides and ValidateConfig normalizes and checks the result. Fields
// whose defaults depend on whether the user set them (API address, data
// directory) are tracked with SetExplicitlySet.
//
// ENVIRONMENT:
//   - DEBUG=true forces DEBUG logging
//   - THINKMAP_JWT_SECRET supplies the token signing secret
//   - OPENAI_API_KEY enables the OpenAI feedback generator
//   - OPENAI_MODEL selects its model unless --feedback-model is set
package config

import (
	"time"

	configDefaults "github.com/concave-dev/thinkmap/internal/config"
)

// ConfigField represents a configuration field that can be explicitly set
type ConfigField int

const (
	APIAddrField ConfigField = iota
	DataDirField
	LogFileField
	JWTSecretField
)

// Feedback generator selections for --feedback.
const (
	GeneratorAuto   = "auto"   // OpenAI when OPENAI_API_KEY is set, rules otherwise
	GeneratorOpenAI = "openai" // Always OpenAI; startup fails without a key
	GeneratorRules  = "rules"  // Offline structural feedback
)

const (
	DefaultAPI             = configDefaults.DefaultBindAddr + ":8008"
	DefaultDataDir         = configDefaults.DefaultDataDir
	DefaultLogLevel        = configDefaults.DefaultLogLevel
	DefaultAccessTTL       = 15 * time.Minute
	DefaultRefreshTTL      = 30 * 24 * time.Hour
	DefaultFeedbackTimeout = 90 * time.Second

	// MinAccessTTL keeps access tokens usable well past the window in which
	// clients already treat them as expired and refresh.
	MinAccessTTL = time.Minute

	// SecretFileName is the generated signing secret inside the data directory.
	SecretFileName = "jwt.secret"
)

// Config holds all daemon configuration values
type Config struct {
	APIAddr         string        // HTTP API bind host (host part after validation)
	APIPort         int           // HTTP API port (derived from APIAddr)
	DataDir         string        // Badger database directory
	InMemory        bool          // Keep all data in memory (development)
	LogLevel        string        // Log level: DEBUG, INFO, WARN, ERROR
	LogFile         string        // Optional log file path
	JWTSecret       string        // Token signing secret (generated and persisted when empty)
	AccessTTL       time.Duration // Access token lifetime
	RefreshTTL      time.Duration // Refresh token lifetime
	Feedback        string        // Feedback generator: auto, openai, rules
	FeedbackModel   string        // OpenAI model override
	FeedbackTimeout time.Duration // Per-request feedback generation timeout

	apiAddrExplicitlySet   bool
	dataDirExplicitlySet   bool
	logFileExplicitlySet   bool
	jwtSecretExplicitlySet bool
}

// Global configuration instance
var Global Config

// SetExplicitlySet marks a configuration field as explicitly set by the user.
func (c *Config) SetExplicitlySet(field ConfigField, value bool) {
	switch field {
	case APIAddrField:
		c.apiAddrExplicitlySet = value
	case DataDirField:
		c.dataDirExplicitlySet = value
	case LogFileField:
		c.logFileExplicitlySet = value
	case JWTSecretField:
		c.jwtSecretExplicitlySet = value
	}
}

// IsExplicitlySet returns whether a configuration field was explicitly set by the user.
func (c *Config) IsExplicitlySet(field ConfigField) bool {
	switch field {
	case APIAddrField:
		return c.apiAddrExplicitlySet
	case DataDirField:
		return c.dataDirExplicitlySet
	case LogFileField:
		return c.logFileExplicitlySet
	case JWTSecretField:
		return c.jwtSecretExplicitlySet
	}
	return false
}
