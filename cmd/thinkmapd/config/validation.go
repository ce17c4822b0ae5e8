package config

import (
	"fmt"
	"os"

	"github.com/concave-dev/thinkmap/internal/auth"
	"github.com/concave-dev/thinkmap/internal/logging"
	"github.com/concave-dev/thinkmap/internal/validate"
)

// InitializeConfig applies environment overrides before validation.
func InitializeConfig() {
	if os.Getenv("DEBUG") == "true" {
		Global.LogLevel = "DEBUG"
		logging.Info("DEBUG environment variable detected, setting log level to DEBUG")
	}

	if !Global.jwtSecretExplicitlySet {
		if secret := os.Getenv("THINKMAP_JWT_SECRET"); secret != "" {
			Global.JWTSecret = secret
			Global.jwtSecretExplicitlySet = true
			logging.Info("Using token secret from THINKMAP_JWT_SECRET")
		}
	}
}

// ValidateConfig normalizes and checks Global before the daemon starts.
func ValidateConfig() error {
	if err := logging.ValidateLogLevel(Global.LogLevel); err != nil {
		return err
	}

	apiNetAddr, err := validate.ParseBindAddress(Global.APIAddr)
	if err != nil {
		logging.Error("Invalid API address '%s': %v", Global.APIAddr, err)
		return fmt.Errorf("invalid API address: %w", err)
	}
	if Global.apiAddrExplicitlySet {
		if err := validate.ValidatePortRange(apiNetAddr.Port); err != nil {
			logging.Error("API port cannot be 0 - clients need a known port")
			return fmt.Errorf("API address requires specific port (not 0): %w", err)
		}
	}
	Global.APIAddr = apiNetAddr.Host
	Global.APIPort = apiNetAddr.Port

	if !Global.InMemory && Global.DataDir == "" {
		logging.Error("Data directory cannot be empty")
		return fmt.Errorf("data directory cannot be empty (or use --in-memory)")
	}
	if Global.InMemory && Global.dataDirExplicitlySet {
		return fmt.Errorf("--data-dir and --in-memory are mutually exclusive")
	}

	if Global.jwtSecretExplicitlySet && len(Global.JWTSecret) < 16 {
		return fmt.Errorf("token secret must be at least 16 bytes")
	}
	if Global.AccessTTL < MinAccessTTL {
		return fmt.Errorf("access token TTL %v is below the %v minimum (clients refresh tokens within %v of expiry)",
			Global.AccessTTL, MinAccessTTL, auth.ExpiryLeeway)
	}
	if err := validate.ValidatePositiveTimeout(Global.RefreshTTL, "refresh token TTL"); err != nil {
		return err
	}
	if Global.RefreshTTL < Global.AccessTTL {
		return fmt.Errorf("refresh token TTL (%v) must not be shorter than access token TTL (%v)",
			Global.RefreshTTL, Global.AccessTTL)
	}

	switch Global.Feedback {
	case GeneratorAuto, GeneratorRules:
	case GeneratorOpenAI:
		if os.Getenv("OPENAI_API_KEY") == "" {
			return fmt.Errorf("--feedback=openai requires OPENAI_API_KEY")
		}
	default:
		return fmt.Errorf("invalid feedback generator: %s (must be auto, openai or rules)", Global.Feedback)
	}
	if err := validate.ValidatePositiveTimeout(Global.FeedbackTimeout, "feedback timeout"); err != nil {
		return err
	}

	return nil
}
