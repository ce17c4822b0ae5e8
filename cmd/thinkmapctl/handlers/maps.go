package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/concave-dev/thinkmap/cmd/thinkmapctl/client"
	"github.com/concave-dev/thinkmap/cmd/thinkmapctl/config"
	"github.com/concave-dev/thinkmap/cmd/thinkmapctl/display"
	"github.com/concave-dev/thinkmap/cmd/thinkmapctl/utils"
	"github.com/concave-dev/thinkmap/internal/logging"
	"github.com/concave-dev/thinkmap/internal/mindmap"
)

// resolveMap turns a map ID, ID prefix or title into a full map.
func resolveMap(ctx context.Context, api *client.APIClient, identifier string) (*mindmap.Map, error) {
	maps, err := api.ListMaps(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list maps for resolution: %w", err)
	}
	return utils.ResolveMapIdentifier(maps, identifier)
}

// HandleMapList handles 'map ls'.
func HandleMapList(cmd *cobra.Command, args []string) error {
	setup()

	_, api, err := requireLogin()
	if err != nil {
		return err
	}

	ctx, cancel := requestContext()
	defer cancel()
	maps, err := api.ListMaps(ctx)
	if err != nil {
		return err
	}
	display.DisplayMaps(maps)
	return nil
}

// HandleMapCreate handles 'map create [TITLE]'. With no title the server
// generates one.
func HandleMapCreate(cmd *cobra.Command, args []string) error {
	setup()

	title := config.Map.Title
	if len(args) > 0 {
		title = strings.Join(args, " ")
	}

	_, api, err := requireLogin()
	if err != nil {
		return err
	}

	ctx, cancel := requestContext()
	defer cancel()
	m, err := api.CreateMap(ctx, title)
	if err != nil {
		return err
	}

	logging.Info("Created map %s", logging.FormatMapID(m.ID))
	if config.Global.Output == "json" {
		display.DisplayMap(m)
		return nil
	}
	fmt.Fprintf(display.Out, "Created map %q (%s)\n", m.Title, logging.TruncateID(m.ID))
	return nil
}

// HandleMapShow handles 'map show MAP'.
func HandleMapShow(cmd *cobra.Command, args []string) error {
	setup()

	_, api, err := requireLogin()
	if err != nil {
		return err
	}

	ctx, cancel := requestContext()
	defer cancel()
	m, err := resolveMap(ctx, api, args[0])
	if err != nil {
		return err
	}
	display.DisplayMap(m)
	return nil
}

// HandleMapDelete handles 'map rm MAP'. Only an exact ID or title is
// accepted unless --force is given, so a short prefix cannot delete the
// wrong map.
func HandleMapDelete(cmd *cobra.Command, args []string) error {
	setup()

	_, api, err := requireLogin()
	if err != nil {
		return err
	}

	ctx, cancel := requestContext()
	defer cancel()
	m, err := resolveMap(ctx, api, args[0])
	if err != nil {
		return err
	}
	if !config.Map.Force && m.ID != args[0] && !strings.EqualFold(m.Title, args[0]) {
		return fmt.Errorf("'%s' is a partial ID for map %s (%s) - use the full ID or --force", args[0], m.ID, m.Title)
	}

	if err := api.DeleteMap(ctx, m.ID); err != nil {
		return err
	}
	fmt.Fprintf(display.Out, "Deleted map %q (%s)\n", m.Title, logging.TruncateID(m.ID))
	return nil
}

// HandleFeedbackList handles 'feedback ls MAP'.
func HandleFeedbackList(cmd *cobra.Command, args []string) error {
	setup()

	_, api, err := requireLogin()
	if err != nil {
		return err
	}

	ctx, cancel := requestContext()
	defer cancel()
	m, err := resolveMap(ctx, api, args[0])
	if err != nil {
		return err
	}
	list, err := api.ListFeedback(ctx, m.ID)
	if err != nil {
		return err
	}
	display.DisplayFeedbackHistory(list)
	return nil
}
