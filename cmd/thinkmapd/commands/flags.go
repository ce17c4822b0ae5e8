// Package commands contains Cobra CLI command definitions for thinkmapd.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/concave-dev/thinkmap/cmd/thinkmapd/config"
)

// SetupFlags configures all command line flags for the daemon
func SetupFlags(cmd *cobra.Command) {
	// Network flags
	cmd.Flags().StringVar(&config.Global.APIAddr, "api", config.DefaultAPI,
		"Address and port for the HTTP API server (e.g., "+config.DefaultAPI+")\n"+
			"When not specified, the next free port is used if 8008 is busy")

	// Storage flags
	cmd.Flags().StringVar(&config.Global.DataDir, "data-dir", config.DefaultDataDir,
		"Directory for the database and generated token secret")
	cmd.Flags().BoolVar(&config.Global.InMemory, "in-memory", false,
		"Keep all data in memory (development only, lost on exit)")

	// Token flags
	cmd.Flags().StringVar(&config.Global.JWTSecret, "jwt-secret", "",
		"Token signing secret, at least 16 bytes (or THINKMAP_JWT_SECRET)\n"+
			"Generated and stored in the data directory when not specified")
	cmd.Flags().DurationVar(&config.Global.AccessTTL, "access-ttl", config.DefaultAccessTTL,
		"Access token lifetime")
	cmd.Flags().DurationVar(&config.Global.RefreshTTL, "refresh-ttl", config.DefaultRefreshTTL,
		"Refresh token lifetime")

	// Feedback flags
	cmd.Flags().StringVar(&config.Global.Feedback, "feedback", config.GeneratorAuto,
		"Feedback generator: auto, openai, rules\n"+
			"auto uses OpenAI when OPENAI_API_KEY is set")
	cmd.Flags().StringVar(&config.Global.FeedbackModel, "feedback-model", "",
		"OpenAI model for feedback (default OPENAI_MODEL or gpt-4o-mini)")
	cmd.Flags().DurationVar(&config.Global.FeedbackTimeout, "feedback-timeout", config.DefaultFeedbackTimeout,
		"Maximum time to generate one feedback response")

	// Operational flags
	cmd.Flags().StringVar(&config.Global.LogLevel, "log-level", config.DefaultLogLevel,
		"Log level: DEBUG, INFO, WARN, ERROR")
	cmd.Flags().StringVar(&config.Global.LogFile, "log-file", "",
		"Write logs to this file instead of stderr")
}

// CheckExplicitFlags checks if flags were explicitly set by the user
func CheckExplicitFlags(cmd *cobra.Command) {
	config.Global.SetExplicitlySet(config.APIAddrField, cmd.Flags().Changed("api"))
	config.Global.SetExplicitlySet(config.DataDirField, cmd.Flags().Changed("data-dir"))
	config.Global.SetExplicitlySet(config.LogFileField, cmd.Flags().Changed("log-file"))
	config.Global.SetExplicitlySet(config.JWTSecretField, cmd.Flags().Changed("jwt-secret"))
}
