// Package commands provides the command structure for the thinkmap daemon.
//
// thinkmapd is a single root command: flags are parsed, the log file is
// opened if requested, environment overrides are applied and the
// configuration is validated before the daemon starts.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/concave-dev/thinkmap/cmd/thinkmapd/config"
	"github.com/concave-dev/thinkmap/cmd/thinkmapd/daemon"
	"github.com/concave-dev/thinkmap/cmd/thinkmapd/utils"
	"github.com/concave-dev/thinkmap/internal/logging"
	"github.com/concave-dev/thinkmap/internal/version"
)

// Global variable to track log file handle for cleanup
var logFileHandle *os.File

// CleanupLogFile closes the log file handle if it exists
func CleanupLogFile() {
	if logFileHandle != nil {
		if err := logFileHandle.Close(); err != nil {
			// The log file is what failed, so report on stderr directly
			fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
		}
		logFileHandle = nil
	}
}

// Root command for the thinkmap daemon
var RootCmd = &cobra.Command{
	Use:   "thinkmapd",
	Short: "thinkmap daemon: mind maps, essays and AI feedback over HTTP",
	Long: `thinkmap daemon (thinkmapd) stores users, mind maps and essays, and
generates feedback on batches of edits sent by thinkmapctl.

Feedback comes from OpenAI when OPENAI_API_KEY is set, or from offline
structural rules otherwise.`,
	Version:      version.ThinkmapdVersion,
	SilenceUsage: true,
	Example: `  # Start with defaults (127.0.0.1:8008, ./data)
  thinkmapd

  # Listen on all interfaces with a persistent secret
  THINKMAP_JWT_SECRET=... thinkmapd --api=0.0.0.0:8008 --data-dir=/var/lib/thinkmap

  # Development: in-memory storage, offline feedback, debug logs
  thinkmapd --in-memory --feedback=rules --log-level=DEBUG`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.DisplayLogo(version.ThinkmapdVersion)
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		CheckExplicitFlags(cmd)

		if config.Global.IsExplicitlySet(config.LogFileField) && config.Global.LogFile != "" {
			logDir := filepath.Dir(config.Global.LogFile)
			if err := os.MkdirAll(logDir, 0755); err != nil {
				return fmt.Errorf("failed to create log directory %s: %w", logDir, err)
			}

			var err error
			logFileHandle, err = os.OpenFile(config.Global.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("failed to open log file %s: %w", config.Global.LogFile, err)
			}

			logging.SetOutput(logFileHandle)
		}

		// Apply the level before InitializeConfig logs anything, then again
		// for environment overrides
		logging.SetLevel(config.Global.LogLevel)
		config.InitializeConfig()
		logging.SetLevel(config.Global.LogLevel)

		if err := config.ValidateConfig(); err != nil {
			CleanupLogFile()
			return err
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		defer CleanupLogFile()
		return daemon.Run()
	},
}

// SetupCommands initializes all commands and their relationships
func SetupCommands() {
	SetupFlags(RootCmd)
}
