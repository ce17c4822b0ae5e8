package commands

import (
	"github.com/spf13/cobra"
)

// Info command (daemon health)
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show thinkmapd health and version",
	Long: `Show the health, version, uptime and feedback generator of the
thinkmapd instance selected with --api. No login is required.`,
	Example: `  thinkmapctl info
  thinkmapctl --api=10.0.0.5:8008 -o json info`,
	Args: cobra.NoArgs,
	// RunE will be set by the main package that imports this
}

// GetInfoCommand returns the info command for handler assignment
func GetInfoCommand() *cobra.Command {
	return infoCmd
}
