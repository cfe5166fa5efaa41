package cmd_serve

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/st3ffan/hack-the-stackathon/pkg/api/apperr"
	"github.com/st3ffan/hack-the-stackathon/pkg/clouds/mongodb"
	"github.com/st3ffan/hack-the-stackathon/pkg/cmd/root_cmd"
	"github.com/st3ffan/hack-the-stackathon/pkg/embeddings"
	"github.com/st3ffan/hack-the-stackathon/pkg/search"
	"github.com/st3ffan/hack-the-stackathon/pkg/web"
)

const (
	BackendAtlas = "atlas"
	BackendLocal = "local"
)

type searchCmd struct {
	Root    *root_cmd.RootCmd
	Host    string
	Port    int
	Backend string
	Vectors string
}

func NewSearchCmd(rootCmd *root_cmd.RootCmd) *cobra.Command {
	sCmd := &searchCmd{
		Root:    rootCmd,
		Backend: BackendAtlas,
		Vectors: "embeddings.json",
	}
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Serve semantic image search over the stored image embeddings",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := sCmd.Run(cmd.Context())
			if sCmd.Root.IsCancellation(err) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&sCmd.Host, "host", sCmd.Host, "Address to listen on (default from settings: 0.0.0.0)")
	cmd.Flags().IntVar(&sCmd.Port, "port", sCmd.Port, "Port to listen on (default from settings: 8081)")
	cmd.Flags().StringVar(&sCmd.Backend, "backend", sCmd.Backend, "Vector search backend: `atlas` or `local`")
	cmd.Flags().StringVar(&sCmd.Vectors, "vectors", sCmd.Vectors, "Embeddings snapshot loaded by the local backend (written by `embed --local`)")
	return cmd
}

func (c *searchCmd) Run(ctx context.Context) error {
	log := c.Root.Logger
	s := c.Root.Settings.Search

	embedder, err := c.Root.Voyage()
	if err != nil {
		return err
	}

	var backend search.Backend
	var pinger web.Pinger
	switch c.Backend {
	case BackendAtlas:
		client, err := c.Root.Connect(ctx, "")
		if err != nil {
			return err
		}
		defer func() { _ = client.Close(context.Background()) }()
		backend = search.NewAtlasBackend(mongodb.NewCollection[embeddings.Record](client, s.Collection), s.Index, s.Path, s.NumCandidates)
		pinger = client
	case BackendLocal:
		records, err := embeddings.LoadRecords(c.Root.Fs, c.Vectors)
		if err != nil {
			return apperr.Configuration("load local index", "%v", err)
		}
		index, err := embeddings.NewIndex(s.Collection)
		if err != nil {
			return err
		}
		if err := index.Add(ctx, records); err != nil {
			return err
		}
		log.Info(ctx, "loaded %d embeddings from %s into the local index", index.Count(), c.Vectors)
		backend = search.NewLocalBackend(index)
	default:
		return apperr.Configuration("serve search", "unknown backend %q, expected %q or %q", c.Backend, BackendAtlas, BackendLocal)
	}

	svc := search.NewService(embedder, backend, c.Root.Images(), log, search.WithLimit(s.Limit))
	server := web.NewServer("search", hostOr(c.Host, s.Host), portOr(c.Port, s.Port), web.NewSearchRouter(svc, pinger, log), log)
	return server.Start(ctx)
}
