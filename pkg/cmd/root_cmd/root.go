package root_cmd

import (
	"context"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/atomic"

	"github.com/st3ffan/hack-the-stackathon/pkg/api/config"
	"github.com/st3ffan/hack-the-stackathon/pkg/api/logger"
	"github.com/st3ffan/hack-the-stackathon/pkg/clouds/mongodb"
	"github.com/st3ffan/hack-the-stackathon/pkg/embeddings/voyage"
	"github.com/st3ffan/hack-the-stackathon/pkg/images"
)

// DefaultConfigFile is read from the working directory when --config is not given.
const DefaultConfigFile = "stackathon.yaml"

type Params struct {
	Verbose    bool
	Silent     bool
	ConfigPath string

	IsCanceled *atomic.Bool
	CancelFunc func()
}

type RootCmd struct {
	*Params

	Logger   logger.Logger
	Fs       afero.Fs
	Settings *config.Settings
	Resolver *config.Resolver
}

// Init loads settings and prepares the environment resolver. Fs, Resolver and
// Logger are only set when they are still empty.
func (c *RootCmd) Init() error {
	if c.Logger == nil {
		c.Logger = logger.New()
	}
	if c.Fs == nil {
		c.Fs = afero.NewOsFs()
	}

	configPath := c.ConfigPath
	if configPath != "" {
		expanded, err := homedir.Expand(configPath)
		if err != nil {
			return errors.Wrapf(err, "failed to expand %s", configPath)
		}
		configPath = expanded
	} else if exists, _ := afero.Exists(c.Fs, DefaultConfigFile); exists {
		configPath = DefaultConfigFile
	}
	settings, err := config.ReadSettings(c.Fs, configPath)
	if err != nil {
		return err
	}
	c.Settings = settings

	if c.Resolver == nil {
		resolver, err := config.NewResolver()
		if err != nil {
			return err
		}
		resolver.Fs = c.Fs
		c.Resolver = resolver
	}
	return nil
}

// ApplyLogLevel stores the level selected by --verbose/--silent in the command context.
func (c *RootCmd) ApplyLogLevel(cmd *cobra.Command) {
	if c.Verbose {
		cmd.SetContext(c.Logger.SetLogLevel(cmd.Context(), logger.LogLevelDebug))
	}
	if c.Silent {
		cmd.SetContext(c.Logger.SetLogLevel(cmd.Context(), logger.LogLevelError))
	}
}

// Connect resolves DEMO_* and opens the database connection. database
// overrides DEMO_DB when not empty.
func (c *RootCmd) Connect(ctx context.Context, database string) (*mongodb.Client, error) {
	cfg, err := c.Resolver.Resolve()
	if err != nil {
		return nil, err
	}
	return mongodb.Connect(ctx, cfg,
		mongodb.WithLogger(c.Logger),
		mongodb.WithFs(c.Fs),
		mongodb.WithDatabase(database),
		mongodb.WithTimeouts(c.Settings.Mongo.ConnectTimeout, c.Settings.Mongo.ServerSelectionTimeout),
	)
}

func (c *RootCmd) Voyage() (*voyage.Client, error) {
	key, err := config.VoyageAPIKey(c.Resolver.Env)
	if err != nil {
		return nil, err
	}
	return voyage.New(key,
		voyage.WithModel(c.Settings.Embedding.Model),
		voyage.WithBaseURL(c.Settings.Embedding.BaseURL),
	), nil
}

func (c *RootCmd) Images() *images.Store {
	return images.NewStore(c.Fs, c.Settings.Images.Dir, c.Logger)
}

// IsCancellation reports whether err was caused by the user interrupting the command.
func (c *RootCmd) IsCancellation(err error) bool {
	return c.IsCanceled != nil && c.IsCanceled.Load() && errors.Is(err, context.Canceled)
}
