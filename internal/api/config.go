// Package api provides the thinkmapd HTTP API server.
//
// This file defines the server configuration: the bind address plus the
// components the handlers depend on (store, token issuer, feedback
// generator). Config follows the DefaultConfig + Validate pattern used by
// every thinkmap component.
package api

import (
	"fmt"
	"time"

	"github.com/concave-dev/thinkmap/internal/feedback"
	"github.com/concave-dev/thinkmap/internal/store"
	"github.com/concave-dev/thinkmap/internal/tokens"
	"github.com/concave-dev/thinkmap/internal/validate"
)

const (
	// DefaultAPIPort is the default port for HTTP API server
	DefaultAPIPort = 8008

	// DefaultFeedbackTimeout bounds one feedback generation.
	DefaultFeedbackTimeout = 90 * time.Second
)

// Config holds the parameters for running the API server.
type Config struct {
	BindAddr        string             // HTTP server bind address (e.g., "127.0.0.1")
	BindPort        int                // HTTP server bind port
	FeedbackTimeout time.Duration      // Per-request feedback generation timeout
	Store           *store.Store       // Users, maps, feedback history
	Issuer          *tokens.Issuer     // JWT issue and verify
	Generator       feedback.Generator // Feedback text producer
}

// DefaultConfig returns a loopback configuration. Store, Issuer and
// Generator must be set by the caller.
func DefaultConfig() *Config {
	return &Config{
		BindAddr:        "127.0.0.1",
		BindPort:        DefaultAPIPort,
		FeedbackTimeout: DefaultFeedbackTimeout,
	}
}

// Validate checks network settings and that every dependency is wired.
func (c *Config) Validate() error {
	if err := validate.ValidateRequiredString(c.BindAddr, "bind address"); err != nil {
		return err
	}
	if err := validate.ValidatePortRange(c.BindPort); err != nil {
		return fmt.Errorf("bind port validation failed: %w", err)
	}
	if err := validate.ValidatePositiveTimeout(c.FeedbackTimeout, "feedback timeout"); err != nil {
		return err
	}
	if c.Store == nil {
		return fmt.Errorf("store cannot be nil")
	}
	if c.Issuer == nil {
		return fmt.Errorf("token issuer cannot be nil")
	}
	if c.Generator == nil {
		return fmt.Errorf("feedback generator cannot be nil")
	}
	return nil
}
