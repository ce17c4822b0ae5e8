package handlers

import (
	"github.com/spf13/cobra"

	"github.com/concave-dev/thinkmap/cmd/thinkmapctl/client"
	"github.com/concave-dev/thinkmap/cmd/thinkmapctl/config"
	"github.com/concave-dev/thinkmap/cmd/thinkmapctl/display"
)

// HandleInfo shows daemon health. It works without logging in.
func HandleInfo(cmd *cobra.Command, args []string) error {
	setup()

	creds, err := openCredentials()
	if err != nil {
		return err
	}

	ctx, cancel := requestContext()
	defer cancel()
	health, err := client.CreateAPIClient(creds).Health(ctx)
	if err != nil {
		return err
	}
	display.DisplayHealth(health, config.Global.APIAddr)
	return nil
}
