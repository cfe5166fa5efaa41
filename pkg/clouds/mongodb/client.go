package mongodb

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/st3ffan/hack-the-stackathon/pkg/api/apperr"
	"github.com/st3ffan/hack-the-stackathon/pkg/api/config"
	"github.com/st3ffan/hack-the-stackathon/pkg/api/logger"
)

// Client is a single X.509 authenticated connection to an Atlas cluster,
// bound to one database.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
	log    logger.Logger
}

type connectOptions struct {
	fs                     afero.Fs
	log                    logger.Logger
	database               string
	connectTimeout         time.Duration
	serverSelectionTimeout time.Duration
}

type Option func(o *connectOptions)

func WithLogger(log logger.Logger) Option {
	return func(o *connectOptions) {
		o.log = log
	}
}

// WithFs sets the filesystem the client certificate is read from.
func WithFs(fs afero.Fs) Option {
	return func(o *connectOptions) {
		o.fs = fs
	}
}

// WithDatabase overrides the database named by the connection config.
func WithDatabase(name string) Option {
	return func(o *connectOptions) {
		if name != "" {
			o.database = name
		}
	}
}

func WithTimeouts(connect, serverSelection time.Duration) Option {
	return func(o *connectOptions) {
		o.connectTimeout = connect
		o.serverSelectionTimeout = serverSelection
	}
}

// Connect opens the connection described by cfg and verifies it with a ping.
// Every failure is returned as a connection error.
func Connect(ctx context.Context, cfg *config.ConnectionConfig, opts ...Option) (*Client, error) {
	const op = "connect to mongodb"

	o := connectOptions{
		fs:                     afero.NewOsFs(),
		log:                    logger.New(),
		database:               cfg.DatabaseName,
		connectTimeout:         config.DefaultConnectTimeout,
		serverSelectionTimeout: config.DefaultServerSelectTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	uri, err := NormalizeX509URI(cfg.ClusterURI)
	if err != nil {
		return nil, err
	}
	o.log.Debug(ctx, "Using connection string: %s", RedactURI(uri))
	o.log.Debug(ctx, "Using certificate at: %s", cfg.CertificatePath)

	tlsConfig, err := loadTLSConfig(o.fs, cfg.CertificatePath)
	if err != nil {
		return nil, apperr.Connection(op, err)
	}

	clientOpts := options.Client().
		ApplyURI(uri).
		SetTLSConfig(tlsConfig).
		SetConnectTimeout(o.connectTimeout).
		SetServerSelectionTimeout(o.serverSelectionTimeout)

	// connect and server selection timeouts bound the dial; ctx only carries cancellation
	mongoClient, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, apperr.Connection(op, errors.Wrapf(err, "failed to create client"))
	}

	c := &Client{
		client: mongoClient,
		db:     mongoClient.Database(o.database),
		log:    o.log,
	}
	if err := c.Ping(ctx); err != nil {
		_ = mongoClient.Disconnect(context.Background())
		return nil, apperr.Connection(op, err)
	}

	o.log.Info(ctx, "Connected to MongoDB database %q", o.database)
	return c, nil
}

// loadTLSConfig reads a PEM file holding both the client certificate and its key.
func loadTLSConfig(fs afero.Fs, certPath string) (*tls.Config, error) {
	pemBytes, err := afero.ReadFile(fs, certPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read certificate %s", certPath)
	}
	cert, err := tls.X509KeyPair(pemBytes, pemBytes)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load client certificate from %s", certPath)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// Ping runs the no-op ping command against the admin database.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return errors.Wrapf(err, "ping failed")
	}
	return nil
}

type connectionStatus struct {
	AuthInfo struct {
		AuthenticatedUsers []struct {
			User string `bson:"user"`
			DB   string `bson:"db"`
		} `bson:"authenticatedUsers"`
	} `bson:"authInfo"`
}

// AuthenticatedUsers reports the users the server considers this connection
// authenticated as, formatted as db.user.
func (c *Client) AuthenticatedUsers(ctx context.Context) ([]string, error) {
	var status connectionStatus
	if err := c.client.Database("admin").RunCommand(ctx, bson.D{{Key: "connectionStatus", Value: 1}}).Decode(&status); err != nil {
		return nil, apperr.Query("connection status", err)
	}
	users := make([]string, 0, len(status.AuthInfo.AuthenticatedUsers))
	for _, u := range status.AuthInfo.AuthenticatedUsers {
		users = append(users, u.DB+"."+u.User)
	}
	return users, nil
}

func (c *Client) Database() *mongo.Database {
	return c.db
}

// Close disconnects the client; it is safe to call on a nil Client.
func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Disconnect(ctx); err != nil {
		return errors.Wrapf(err, "failed to disconnect")
	}
	c.log.Info(ctx, "Connection closed")
	return nil
}
