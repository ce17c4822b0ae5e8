package commands

import (
	"github.com/spf13/cobra"
)

// Map command (parent command for map operations)
var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Manage mind maps",
	Long: `Commands for listing, creating, inspecting and deleting mind maps.

MAP arguments accept a full ID, a unique ID prefix as shown by 'map ls', or
the map's exact title.`,
}

var mapLsCmd = &cobra.Command{
	Use:     "ls",
	Short:   "List your maps, most recently updated first",
	Example: `  thinkmapctl map ls
  thinkmapctl -o json map ls`,
	Args: cobra.NoArgs,
}

var mapCreateCmd = &cobra.Command{
	Use:   "create [TITLE]",
	Short: "Create an empty map",
	Long: `Create an empty map. Without a title the server generates one.`,
	Example: `  thinkmapctl map create "Cities without cars"
  thinkmapctl map create`,
}

var mapShowCmd = &cobra.Command{
	Use:   "show MAP",
	Short: "Show a map's nodes, connections and essay",
	Args:  exactArgs(1, "map ID or title"),
}

var mapRmCmd = &cobra.Command{
	Use:   "rm MAP",
	Short: "Delete a map and its feedback history",
	Long: `Delete a map and its feedback history.

SAFETY: Only a full ID or exact title is accepted unless --force is given.`,
	Example: `  thinkmapctl map rm "Cities without cars"
  thinkmapctl map rm 0f3a9c21 --force`,
	Args: exactArgs(1, "map ID or title"),
}

// Feedback command (parent command for feedback history)
var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Inspect feedback history",
}

var feedbackLsCmd = &cobra.Command{
	Use:   "ls MAP",
	Short: "List feedback received for a map, oldest first",
	Example: `  thinkmapctl feedback ls "Cities without cars"
  thinkmapctl feedback ls 0f3a9c21 --verbose`,
	Args: exactArgs(1, "map ID or title"),
}

// SetupMapCommands initializes map and feedback commands
func SetupMapCommands() {
	mapCmd.AddCommand(mapLsCmd)
	mapCmd.AddCommand(mapCreateCmd)
	mapCmd.AddCommand(mapShowCmd)
	mapCmd.AddCommand(mapRmCmd)
	feedbackCmd.AddCommand(feedbackLsCmd)
}

// GetMapCommands returns the map command structures for handler assignment
func GetMapCommands() (*cobra.Command, *cobra.Command, *cobra.Command, *cobra.Command) {
	return mapLsCmd, mapCreateCmd, mapShowCmd, mapRmCmd
}

// GetFeedbackCommands returns the feedback command structures for handler assignment
func GetFeedbackCommands() *cobra.Command {
	return feedbackLsCmd
}
