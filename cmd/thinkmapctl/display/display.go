// Package display provides output formatting for thinkmapctl.
//
// Every function honours the global --output flag: "table" renders aligned
// columns with text/tabwriter for people, "json" prints indented JSON for
// scripts. Display code never talks to the API.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/concave-dev/thinkmap/cmd/thinkmapctl/client"
	"github.com/concave-dev/thinkmap/cmd/thinkmapctl/config"
	"github.com/concave-dev/thinkmap/cmd/thinkmapctl/utils"
	"github.com/concave-dev/thinkmap/internal/batching"
	"github.com/concave-dev/thinkmap/internal/feedback"
	"github.com/concave-dev/thinkmap/internal/logging"
	"github.com/concave-dev/thinkmap/internal/mindmap"
)

// Out is where display functions write. Tests replace it.
var Out io.Writer = os.Stdout

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	loadingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	headingStyle = lipgloss.NewStyle().Bold(true)
)

func jsonOutput() bool {
	return config.Global.Output == "json"
}

// printJSON writes v as indented JSON.
func printJSON(v any) {
	encoder := json.NewEncoder(Out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		logging.Error("Failed to encode JSON: %v", err)
		fmt.Fprintln(Out, "Error encoding JSON output")
	}
}

// DisplayMaps prints the caller's maps.
func DisplayMaps(maps []*mindmap.Map) {
	if jsonOutput() {
		if maps == nil {
			maps = []*mindmap.Map{}
		}
		printJSON(maps)
		return
	}
	if len(maps) == 0 {
		fmt.Fprintln(Out, "No maps found")
		return
	}

	w := tabwriter.NewWriter(Out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ID\tTITLE\tNODES\tEDGES\tESSAY\tVERSION\tUPDATED")
	for _, m := range maps {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%d\t%s\n",
			logging.TruncateID(m.ID), utils.Truncate(m.Title, 40), len(m.Nodes), len(m.Edges),
			humanize.Comma(int64(len(strings.Fields(m.Essay))))+" words", m.Version, utils.FormatAge(m.UpdatedAt))
	}
}

// DisplayMap prints one map in full.
func DisplayMap(m *mindmap.Map) {
	if jsonOutput() {
		printJSON(m)
		return
	}

	fmt.Fprintf(Out, "Map: %s\n", headingStyle.Render(m.Title))
	fmt.Fprintf(Out, "  ID:       %s\n", m.ID)
	fmt.Fprintf(Out, "  Version:  %d\n", m.Version)
	fmt.Fprintf(Out, "  Created:  %s\n", utils.FormatAge(m.CreatedAt))
	fmt.Fprintf(Out, "  Updated:  %s\n", utils.FormatAge(m.UpdatedAt))

	fmt.Fprintf(Out, "\nNodes (%d):\n", len(m.Nodes))
	if len(m.Nodes) > 0 {
		w := tabwriter.NewWriter(Out, 0, 0, 2, ' ', 0)
		for _, n := range m.Nodes {
			fmt.Fprintf(w, "  %s\t%s\n", n.ID, n.Label)
		}
		w.Flush()
	}

	fmt.Fprintf(Out, "\nConnections (%d):\n", len(m.Edges))
	for _, e := range m.Edges {
		fmt.Fprintf(Out, "  %s\n", e)
	}

	fmt.Fprintf(Out, "\nEssay (%s words):\n", humanize.Comma(int64(len(strings.Fields(m.Essay)))))
	if strings.TrimSpace(m.Essay) == "" {
		fmt.Fprintln(Out, "  (empty)")
	} else {
		for _, line := range strings.Split(m.Essay, "\n") {
			fmt.Fprintf(Out, "  %s\n", line)
		}
	}
}

// DisplayFeedbackHistory prints stored feedback for a map.
func DisplayFeedbackHistory(list []*feedback.Feedback) {
	if jsonOutput() {
		if list == nil {
			list = []*feedback.Feedback{}
		}
		printJSON(list)
		return
	}
	if len(list) == 0 {
		fmt.Fprintln(Out, "No feedback yet")
		return
	}

	if !config.Global.Verbose {
		w := tabwriter.NewWriter(Out, 0, 0, 2, ' ', 0)
		defer w.Flush()
		fmt.Fprintln(w, "ID\tCHANGES\tGENERATOR\tCREATED\tFEEDBACK")
		for _, fb := range list {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
				logging.TruncateID(fb.ID), fb.OperationCount, fb.Generator,
				utils.FormatAge(fb.CreatedAt), utils.Truncate(fb.Text, 60))
		}
		return
	}

	for i, fb := range list {
		if i > 0 {
			fmt.Fprintln(Out)
		}
		fmt.Fprintf(Out, "%s  %s  (%s)\n", headingStyle.Render(logging.TruncateID(fb.ID)),
			utils.FormatAge(fb.CreatedAt), fb.Generator)
		if fb.Summary != "" {
			fmt.Fprintln(Out, fb.Summary)
		}
		fmt.Fprintln(Out, fb.Text)
	}
}

// DisplayEntry prints one feedback entry of an edit session as it changes
// state.
func DisplayEntry(e batching.Entry) {
	if jsonOutput() {
		printJSON(e)
		return
	}

	var status string
	switch e.Status {
	case batching.StatusSuccess:
		status = successStyle.Render("✓ feedback")
	case batching.StatusError:
		status = errorStyle.Render("✗ failed")
	default:
		status = loadingStyle.Render("… requesting")
	}

	fmt.Fprintf(Out, "[%s] %s (%s)\n", logging.TruncateID(e.ID), status, e.Reason)
	switch e.Status {
	case batching.StatusLoading:
		fmt.Fprintln(Out, e.Description)
	case batching.StatusSuccess:
		fmt.Fprintln(Out, e.Message)
	case batching.StatusError:
		fmt.Fprintf(Out, "%s: %s\n", e.Message, e.Error)
	}
}

// DisplaySessionStatus prints the queue length and entries of an edit
// session.
func DisplaySessionStatus(pending int, entries []batching.Entry) {
	if jsonOutput() {
		if entries == nil {
			entries = []batching.Entry{}
		}
		printJSON(map[string]any{"pending": pending, "entries": entries})
		return
	}

	fmt.Fprintf(Out, "Queued changes: %d\n", pending)
	if len(entries) == 0 {
		return
	}

	w := tabwriter.NewWriter(Out, 0, 0, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintln(w, "ENTRY\tSTATUS\tREASON\tCHANGES\tAGE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			logging.TruncateID(e.ID), e.Status, e.Reason, len(e.Operations), utils.FormatAge(e.CreatedAt))
	}
}

// DisplayUser prints the logged-in account.
func DisplayUser(u *client.User, api string) {
	if jsonOutput() {
		printJSON(u)
		return
	}
	fmt.Fprintf(Out, "Logged in to %s as %s (%s)\n", api, u.Username, logging.TruncateID(u.ID))
}

// DisplayHealth prints the daemon health report.
func DisplayHealth(h *client.Health, api string) {
	if jsonOutput() {
		printJSON(h)
		return
	}
	fmt.Fprintf(Out, "thinkmapd at %s\n", api)
	fmt.Fprintf(Out, "  Status:     %s\n", h.Status)
	fmt.Fprintf(Out, "  Version:    %s\n", h.Version)
	fmt.Fprintf(Out, "  Uptime:     %s\n", h.Uptime)
	fmt.Fprintf(Out, "  Generator:  %s\n", h.Generator)
}
