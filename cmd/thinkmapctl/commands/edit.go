package commands

import (
	"github.com/spf13/cobra"
)

// Edit command (interactive session)
var editCmd = &cobra.Command{
	Use:   "edit MAP",
	Short: "Edit a map interactively with batched feedback",
	Long: `Open an interactive editing session on a map.

Each change is applied immediately and queued. The queue is saved and sent
for feedback when it reaches --max-ops changes, or when --idle seconds pass
without a change; every new change restarts the idle timer. Use 'flush' to
send early. Remaining changes are sent on quit.

Type 'help' inside the session for the command list.`,
	Example: `  thinkmapctl edit "Cities without cars"

  # Shorter batches while drafting
  thinkmapctl edit 0f3a9c21 --idle=20 --max-ops=3

  # Scripted edits
  printf 'add thesis Ban cars\nessay Cars pollute.\nquit\n' | thinkmapctl edit 0f3a9c21`,
	Args: exactArgs(1, "map ID or title"),
}

// GetEditCommand returns the edit command for handler assignment
func GetEditCommand() *cobra.Command {
	return editCmd
}
