package handlers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/concave-dev/thinkmap/cmd/thinkmapctl/client"
	"github.com/concave-dev/thinkmap/cmd/thinkmapctl/config"
	"github.com/concave-dev/thinkmap/cmd/thinkmapctl/display"
	"github.com/concave-dev/thinkmap/internal/auth"
	"github.com/concave-dev/thinkmap/internal/logging"
	"github.com/concave-dev/thinkmap/internal/validate"
)

// passwordInput is where passwords are read from. Tests replace it.
var passwordInput io.Reader = os.Stdin

// readPassword returns --password, or one line from stdin.
func readPassword() (string, error) {
	if config.Auth.Password != "" {
		return config.Auth.Password, nil
	}
	if !config.Auth.PasswordStdin {
		fmt.Fprint(os.Stderr, "Password: ")
	}
	line, err := bufio.NewReader(passwordInput).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return password, nil
}

// saveSession stores a fresh token pair.
func saveSession(creds *auth.FileStore, resp *client.TokenResponse) error {
	return creds.Save(auth.Credentials{
		API:      config.Global.APIAddr,
		Username: resp.Username,
		Access:   resp.Access,
		Refresh:  resp.Refresh,
	})
}

func authenticate(args []string, register bool) error {
	setup()

	username := strings.ToLower(strings.TrimSpace(args[0]))
	if err := validate.UsernameFormat(username); err != nil {
		return fmt.Errorf("invalid username: %w", err)
	}
	password, err := readPassword()
	if err != nil {
		return err
	}

	creds, err := openCredentials()
	if err != nil {
		return err
	}
	api := client.CreateAPIClient(creds)

	ctx, cancel := requestContext()
	defer cancel()

	var resp *client.TokenResponse
	if register {
		logging.Info("Registering %s on API server: %s", username, config.Global.APIAddr)
		resp, err = api.Register(ctx, username, password)
	} else {
		logging.Info("Logging in as %s on API server: %s", username, config.Global.APIAddr)
		resp, err = api.Login(ctx, username, password)
	}
	if err != nil {
		return err
	}

	if err := saveSession(creds, resp); err != nil {
		return err
	}
	logging.Debug("Stored credentials in %s", creds.Path())

	display.DisplayUser(&client.User{ID: resp.UserID, Username: resp.Username}, config.Global.APIAddr)
	return nil
}

// HandleRegister handles 'auth register USERNAME'.
func HandleRegister(cmd *cobra.Command, args []string) error {
	return authenticate(args, true)
}

// HandleLogin handles 'auth login USERNAME'.
func HandleLogin(cmd *cobra.Command, args []string) error {
	return authenticate(args, false)
}

// HandleLogout revokes the stored refresh token and removes the
// credentials file. The file is removed even when the server is
// unreachable.
func HandleLogout(cmd *cobra.Command, args []string) error {
	setup()

	creds, err := openCredentials()
	if err != nil {
		return err
	}
	if !creds.LoggedIn() {
		fmt.Fprintln(display.Out, "Not logged in")
		return nil
	}

	ctx, cancel := requestContext()
	defer cancel()
	if err := client.CreateAPIClient(creds).Logout(ctx, creds.RefreshToken()); err != nil {
		logging.Warn("Failed to revoke refresh token: %v", err)
	}

	if err := creds.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(display.Out, "Logged out")
	return nil
}

// HandleWhoami shows the account behind the stored credentials.
func HandleWhoami(cmd *cobra.Command, args []string) error {
	setup()

	_, api, err := requireLogin()
	if err != nil {
		return err
	}

	ctx, cancel := requestContext()
	defer cancel()
	user, err := api.Me(ctx)
	if err != nil {
		return err
	}
	display.DisplayUser(user, config.Global.APIAddr)
	return nil
}
