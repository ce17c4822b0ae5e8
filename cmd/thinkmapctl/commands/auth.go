package commands

import (
	"github.com/spf13/cobra"
)

// Auth command (parent command for session operations)
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage your thinkmapd account and session",
	Long: `Commands for creating an account and managing the stored session.

Login stores an access token and a refresh token in the credentials file.
Expired access tokens are refreshed automatically; concurrent requests share
a single refresh.`,
}

var authRegisterCmd = &cobra.Command{
	Use:   "register USERNAME",
	Short: "Create an account and log in",
	Example: `  thinkmapctl auth register ada
  echo "$PASSWORD" | thinkmapctl auth register ada --password-stdin`,
	Args: exactArgs(1, "username"),
}

var authLoginCmd = &cobra.Command{
	Use:   "login USERNAME",
	Short: "Log in and store credentials",
	Example: `  thinkmapctl auth login ada
  thinkmapctl --api=10.0.0.5:8008 auth login ada`,
	Args: exactArgs(1, "username"),
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the stored session and remove credentials",
	Args:  cobra.NoArgs,
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account",
	Args:  cobra.NoArgs,
}

// SetupAuthCommands initializes auth commands and their relationships
func SetupAuthCommands() {
	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authWhoamiCmd)
}

// GetAuthCommands returns the auth command structures for handler assignment
func GetAuthCommands() (*cobra.Command, *cobra.Command, *cobra.Command, *cobra.Command) {
	return authRegisterCmd, authLoginCmd, authLogoutCmd, authWhoamiCmd
}
