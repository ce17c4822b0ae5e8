// Package handlers provides command handler functions for thinkmapctl.
//
// Handlers are cobra RunE functions organised by resource:
// - auth.go: register, login, logout, whoami
// - maps.go: map ls, create, show, rm and feedback history
// - edit.go: the interactive edit session that batches changes for feedback
// - info.go: daemon health
//
// Every handler sets up logging, builds an API client from the global flags
// and the stored credentials, and leaves presentation to the display
// package.
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/concave-dev/thinkmap/cmd/thinkmapctl/client"
	"github.com/concave-dev/thinkmap/cmd/thinkmapctl/config"
	"github.com/concave-dev/thinkmap/cmd/thinkmapctl/utils"
	"github.com/concave-dev/thinkmap/internal/auth"
	"github.com/concave-dev/thinkmap/internal/logging"
)

// credentialsPath returns --credentials or the default location.
func credentialsPath() string {
	if config.Global.Credentials != "" {
		return config.Global.Credentials
	}
	return auth.DefaultCredentialsPath()
}

// openCredentials loads the credentials file.
func openCredentials() (*auth.FileStore, error) {
	creds, err := auth.OpenFileStore(credentialsPath())
	if err != nil {
		return nil, err
	}
	return creds, nil
}

// requireLogin loads credentials and fails when no session is stored.
func requireLogin() (*auth.FileStore, *client.APIClient, error) {
	creds, err := openCredentials()
	if err != nil {
		return nil, nil, err
	}
	if !creds.LoggedIn() {
		return nil, nil, fmt.Errorf("not logged in - run 'thinkmapctl auth login' first")
	}
	if stored := creds.Credentials().API; stored != "" && stored != config.Global.APIAddr {
		logging.Warn("Credentials were issued by %s, not %s", stored, config.Global.APIAddr)
	}
	return creds, client.CreateAPIClient(creds), nil
}

// requestContext bounds one CLI request with --timeout.
func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(config.Global.Timeout)*time.Second)
}

func setup() {
	utils.SetupLogging()
}
