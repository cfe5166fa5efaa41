package cmd_seed

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/st3ffan/hack-the-stackathon/pkg/api/logger/color"
	"github.com/st3ffan/hack-the-stackathon/pkg/clouds/mongodb"
	"github.com/st3ffan/hack-the-stackathon/pkg/cmd/root_cmd"
	"github.com/st3ffan/hack-the-stackathon/pkg/listing"
)

func NewSeedCmd(rootCmd *root_cmd.RootCmd) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample corporations into the listing collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			settings := rootCmd.Settings.Listing

			client, err := rootCmd.Connect(ctx, settings.Database)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close(context.Background()) }()

			svc := listing.NewService(mongodb.NewCollection[listing.Corporation](client, settings.Collection), rootCmd.Logger)
			n, err := svc.Seed(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Inserted %s corporations into %s\n", color.GreenFmt("%d", n), settings.Collection)
			return nil
		},
	}
}
