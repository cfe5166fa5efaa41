package cmd_serve

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/st3ffan/hack-the-stackathon/pkg/api/apperr"
	"github.com/st3ffan/hack-the-stackathon/pkg/api/config"
	"github.com/st3ffan/hack-the-stackathon/pkg/clouds/mongodb"
	"github.com/st3ffan/hack-the-stackathon/pkg/cmd/root_cmd"
	"github.com/st3ffan/hack-the-stackathon/pkg/listing"
	"github.com/st3ffan/hack-the-stackathon/pkg/web"
)

type listingCmd struct {
	Root     *root_cmd.RootCmd
	Host     string
	Port     int
	Sample   bool
	Fallback string
}

func NewListingCmd(rootCmd *root_cmd.RootCmd) *cobra.Command {
	lCmd := &listingCmd{
		Root: rootCmd,
	}
	cmd := &cobra.Command{
		Use:   "listing",
		Short: "Serve the corporation listing",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := lCmd.Run(cmd.Context())
			if lCmd.Root.IsCancellation(err) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&lCmd.Host, "host", lCmd.Host, "Address to listen on (default from settings: 0.0.0.0)")
	cmd.Flags().IntVar(&lCmd.Port, "port", lCmd.Port, "Port to listen on (default from settings: 8080)")
	cmd.Flags().BoolVar(&lCmd.Sample, "sample", lCmd.Sample, "Serve the built-in sample data without connecting to the database")
	cmd.Flags().StringVar(&lCmd.Fallback, "fallback", lCmd.Fallback, "What to do when the database is unreachable: `fail` or `sample` (default from settings: fail)")
	return cmd
}

func (c *listingCmd) Run(ctx context.Context) error {
	log := c.Root.Logger
	settings := *c.Root.Settings
	if c.Fallback != "" {
		settings.Listing.Fallback = config.FallbackMode(c.Fallback)
		if err := settings.Validate(); err != nil {
			return err
		}
	}
	s := settings.Listing

	var svc *listing.Service
	var pinger web.Pinger
	switch {
	case c.Sample:
		log.Info(ctx, "serving sample data, no database connection")
		svc = listing.NewSampleService(log)
	default:
		client, err := c.Root.Connect(ctx, s.Database)
		if err != nil {
			// only an unreachable database degrades; bad configuration always aborts
			if s.Fallback != config.FallbackSample || !apperr.Is(err, apperr.KindConnection) {
				return err
			}
			log.Warn(ctx, "database unavailable, serving sample data: %v", err)
			svc = listing.NewSampleService(log)
			break
		}
		defer func() { _ = client.Close(context.Background()) }()
		svc = listing.NewService(mongodb.NewCollection[listing.Corporation](client, s.Collection), log)
		pinger = client
	}

	server := web.NewServer("listing", hostOr(c.Host, s.Host), portOr(c.Port, s.Port), web.NewListingRouter(svc, pinger, log), log)
	return server.Start(ctx)
}
