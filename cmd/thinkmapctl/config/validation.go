package config

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/concave-dev/thinkmap/internal/logging"
	"github.com/concave-dev/thinkmap/internal/validate"
)

// ValidateGlobalFlags runs before every command
func ValidateGlobalFlags(cmd *cobra.Command, args []string) error {
	if err := ValidateAPIAddress(); err != nil {
		return err
	}
	if err := ValidateOutputFormat(); err != nil {
		return err
	}
	return validate.ValidatePositiveTimeout(time.Duration(Global.Timeout)*time.Second, "--timeout")
}

// ValidateAPIAddress checks that --api names a daemon we can dial
func ValidateAPIAddress() error {
	if _, err := validate.ParseDialAddress(Global.APIAddr); err != nil {
		logging.Error("Invalid API address '%s': %v", Global.APIAddr, err)
		return fmt.Errorf("invalid API address %q - expected IP:port (e.g., %s)", Global.APIAddr, DefaultAPIAddr)
	}
	return nil
}

// ValidateOutputFormat validates the --output flag
func ValidateOutputFormat() error {
	return validate.ValidateOneOf(Global.Output, "output format", "table", "json")
}

// ValidateEditFlags validates the edit session flags and the resulting
// batcher configuration.
func ValidateEditFlags() error {
	if Edit.IdleSeconds < 1 {
		return fmt.Errorf("--idle must be at least 1 second")
	}
	if err := BatchingConfig().Validate(); err != nil {
		return fmt.Errorf("invalid edit settings: %w", err)
	}
	return nil
}
