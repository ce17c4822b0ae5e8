// Package commands provides the command tree for thinkmapctl.
//
// COMMAND STRUCTURE:
//   - auth: account and session management (register, login, logout, whoami)
//   - map: mind map management (ls, create, show, rm)
//   - feedback: feedback history (ls)
//   - edit: interactive editing with batched AI feedback
//   - info: daemon health
//
// Commands only declare usage and arguments. The main package assigns the
// RunE handlers and flags.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/concave-dev/thinkmap/internal/logging"
)

// Root command
var RootCmd = &cobra.Command{
	Use:   "thinkmapctl",
	Short: "Mind map and essay editor with batched AI feedback",
	Long: `thinkmapctl is the command-line client for thinkmapd.

Build a mind map of an argument next to the essay that develops it. While
you edit, changes are queued and sent for feedback in batches: after five
changes, or after a minute without one.`,
	SilenceUsage: true,
	Example: `  # Create an account and log in
  thinkmapctl auth register ada

  # Create a map and start editing it
  thinkmapctl map create "Cities without cars"
  thinkmapctl edit "Cities without cars"

  # Review earlier feedback
  thinkmapctl feedback ls "Cities without cars"

  # Talk to a remote daemon, JSON output
  thinkmapctl --api=192.168.1.100:8008 -o json map ls`,
}

// SetupCommands initializes all commands and their relationships
func SetupCommands() {
	RootCmd.AddCommand(infoCmd)
	RootCmd.AddCommand(authCmd)
	RootCmd.AddCommand(mapCmd)
	RootCmd.AddCommand(feedbackCmd)
	RootCmd.AddCommand(editCmd)
}

// SetupGlobalFlags configures all global persistent flags
func SetupGlobalFlags(rootCmd *cobra.Command, apiAddrPtr *string, logLevelPtr *string,
	timeoutPtr *int, verbosePtr *bool, outputPtr *string, credentialsPtr *string, defaultAPIAddr string) {
	rootCmd.PersistentFlags().StringVar(apiAddrPtr, "api", defaultAPIAddr,
		"thinkmapd API address")
	rootCmd.PersistentFlags().StringVar(logLevelPtr, "log-level", "ERROR",
		"Log level: DEBUG, INFO, WARN, ERROR")
	rootCmd.PersistentFlags().IntVar(timeoutPtr, "timeout", 30,
		"Request timeout in seconds")
	rootCmd.PersistentFlags().BoolVarP(verbosePtr, "verbose", "v", false,
		"Show verbose output")
	rootCmd.PersistentFlags().StringVarP(outputPtr, "output", "o", "table",
		"Output format: table, json")
	rootCmd.PersistentFlags().StringVar(credentialsPtr, "credentials", "",
		"Credentials file (default ~/.thinkmap/credentials.yaml)")
}

// exactArgs is cobra.ExactArgs with the CLI's error logging.
func exactArgs(n int, what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			cmd.Help()
			fmt.Println()
			logging.Error("Invalid arguments: expected %d %s, got %d", n, what, len(args))
			return fmt.Errorf("requires exactly %d argument(s) (%s)", n, what)
		}
		return nil
	}
}
