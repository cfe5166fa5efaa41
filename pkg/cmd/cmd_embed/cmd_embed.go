package cmd_embed

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/st3ffan/hack-the-stackathon/pkg/api/logger/color"
	"github.com/st3ffan/hack-the-stackathon/pkg/clouds/mongodb"
	"github.com/st3ffan/hack-the-stackathon/pkg/cmd/root_cmd"
	"github.com/st3ffan/hack-the-stackathon/pkg/embedgen"
	"github.com/st3ffan/hack-the-stackathon/pkg/embeddings"
	"github.com/st3ffan/hack-the-stackathon/pkg/images"
)

type embedCmd struct {
	Root   *root_cmd.RootCmd
	DryRun bool
	Local  bool
	Output string
	Dir    string
	Count  int
}

func NewEmbedCmd(rootCmd *root_cmd.RootCmd) *cobra.Command {
	eCmd := &embedCmd{
		Root:   rootCmd,
		Output: "embeddings.json",
	}
	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Generate image embeddings with Voyage AI and upload them",
		Long:  "Embeds 1.jpg..N.jpg from the image directory and inserts one record per image into the embeddings collection.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return eCmd.Run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&eCmd.DryRun, "dry-run", eCmd.DryRun, "List the images that would be embedded without calling any service")
	cmd.Flags().BoolVar(&eCmd.Local, "local", eCmd.Local, "Keep embeddings in a local index and snapshot file instead of uploading them")
	cmd.Flags().StringVarP(&eCmd.Output, "output", "o", eCmd.Output, "Snapshot file written in --local mode")
	cmd.Flags().StringVar(&eCmd.Dir, "dir", eCmd.Dir, "Image directory (default from settings)")
	cmd.Flags().IntVarP(&eCmd.Count, "count", "n", eCmd.Count, "Number of images to look for (default from settings: 5)")
	return cmd
}

func (c *embedCmd) Run(ctx context.Context) error {
	log := c.Root.Logger
	settings := c.Root.Settings

	dir := settings.Images.Dir
	if c.Dir != "" {
		dir = c.Dir
	}
	count := settings.Images.Count
	if c.Count > 0 {
		count = c.Count
	}

	opts := []embedgen.Option{
		embedgen.WithBatchSize(settings.Embedding.BatchSize),
		embedgen.WithModel(settings.Embedding.Model),
		embedgen.WithDryRun(c.DryRun),
	}

	var embedder embedgen.ImageEmbedder
	if !c.DryRun {
		voyageClient, err := c.Root.Voyage()
		if err != nil {
			return err
		}
		embedder = voyageClient

		if c.Local {
			index, err := embeddings.NewIndex(settings.Search.Collection)
			if err != nil {
				return err
			}
			opts = append(opts, embedgen.WithLocalIndex(index), embedgen.WithSnapshot(c.Root.Fs, c.Output))
		} else {
			client, err := c.Root.Connect(ctx, "")
			if err != nil {
				return err
			}
			defer func() { _ = client.Close(context.Background()) }()

			if users, err := client.AuthenticatedUsers(ctx); err != nil {
				log.Warn(ctx, "could not read connection status: %v", err)
			} else {
				log.Info(ctx, "Authenticated as: %s", strings.Join(users, ", "))
			}
			opts = append(opts, embedgen.WithSink(mongodb.NewCollection[embeddings.Record](client, settings.Search.Collection)))
		}
	}

	store := images.NewStore(c.Root.Fs, dir, log)
	res, err := embedgen.New(embedder, store, count, log, opts...).Run(ctx)
	if err != nil {
		return err
	}

	switch {
	case c.DryRun:
		fmt.Printf("Dry run: %s images would be embedded from %s\n", color.YellowFmt("%d", res.Loaded), dir)
	case c.Local:
		fmt.Printf("Embedded %s images into %s\n", color.GreenFmt("%d", len(res.Records)), c.Output)
	case res.Loaded > 0:
		fmt.Printf("Uploaded %s embeddings to %s\n", color.GreenFmt("%d", res.Inserted), settings.Search.Collection)
	}
	return nil
}
