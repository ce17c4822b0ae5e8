// Package main implements the thinkmap daemon (thinkmapd).
package main

import (
	"os"

	"github.com/concave-dev/thinkmap/cmd/thinkmapd/commands"
)

func init() {
	commands.SetupCommands()
}

func main() {
	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
