// Package main provides the entry point for the thinkmap CLI (thinkmapctl).
//
// INITIALIZATION FLOW:
// 1. Command structure setup with hierarchical organization
// 2. Flag configuration for global and command-specific options
// 3. Handler assignment linking commands to API operations
// 4. Global flag validation before every command
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/concave-dev/thinkmap/cmd/thinkmapctl/commands"
	"github.com/concave-dev/thinkmap/cmd/thinkmapctl/config"
	"github.com/concave-dev/thinkmap/cmd/thinkmapctl/handlers"
	"github.com/concave-dev/thinkmap/internal/batching"
)

func init() {
	rootCmd := commands.RootCmd

	rootCmd.Version = config.Version
	rootCmd.PersistentPreRunE = config.ValidateGlobalFlags

	commands.SetupCommands()
	commands.SetupAuthCommands()
	commands.SetupMapCommands()

	commands.SetupGlobalFlags(rootCmd, &config.Global.APIAddr, &config.Global.LogLevel,
		&config.Global.Timeout, &config.Global.Verbose, &config.Global.Output,
		&config.Global.Credentials, config.DefaultAPIAddr)

	registerCmd, loginCmd, _, _ := commands.GetAuthCommands()
	setupAuthFlags(registerCmd, loginCmd)

	_, mapCreateCmd, _, mapRmCmd := commands.GetMapCommands()
	mapCreateCmd.Flags().StringVar(&config.Map.Title, "title", "", "Map title (generated if empty)")
	mapRmCmd.Flags().BoolVarP(&config.Map.Force, "force", "f", false, "Accept a partial ID")

	editCmd := commands.GetEditCommand()
	editCmd.Flags().IntVar(&config.Edit.IdleSeconds, "idle", batching.DefaultIdleWindowMs/1000,
		"Seconds without a change before queued changes are sent")
	editCmd.Flags().IntVar(&config.Edit.MaxOperations, "max-ops", batching.DefaultMaxOperations,
		"Queued changes that trigger an immediate send")

	setupCommandHandlers()
}

// setupAuthFlags configures password input for register and login
func setupAuthFlags(cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		cmd.Flags().StringVar(&config.Auth.Password, "password", "",
			"Password (prompted when omitted; visible in shell history)")
		cmd.Flags().BoolVar(&config.Auth.PasswordStdin, "password-stdin", false,
			"Read the password from stdin")
	}
}

// setupCommandHandlers assigns RunE functions to commands
func setupCommandHandlers() {
	commands.GetInfoCommand().RunE = handlers.HandleInfo

	registerCmd, loginCmd, logoutCmd, whoamiCmd := commands.GetAuthCommands()
	registerCmd.RunE = handlers.HandleRegister
	loginCmd.RunE = handlers.HandleLogin
	logoutCmd.RunE = handlers.HandleLogout
	whoamiCmd.RunE = handlers.HandleWhoami

	mapLsCmd, mapCreateCmd, mapShowCmd, mapRmCmd := commands.GetMapCommands()
	mapLsCmd.RunE = handlers.HandleMapList
	mapCreateCmd.RunE = handlers.HandleMapCreate
	mapShowCmd.RunE = handlers.HandleMapShow
	mapRmCmd.RunE = handlers.HandleMapDelete

	commands.GetFeedbackCommands().RunE = handlers.HandleFeedbackList
	commands.GetEditCommand().RunE = handlers.HandleEdit
}

// main is the main entry point
func main() {
	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
