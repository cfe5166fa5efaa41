package config

import (
	"time"

	"github.com/st3ffan/hack-the-stackathon/pkg/api/apperr"
)

type FallbackMode string

const (
	// FallbackFail aborts startup when the database cannot be reached.
	FallbackFail FallbackMode = "fail"
	// FallbackSample serves the built-in sample corporations instead.
	FallbackSample FallbackMode = "sample"
)

const (
	DefaultSearchPort          = 8081
	DefaultListingPort         = 8080
	DefaultEmbeddingModel      = "voyage-multimodal-3.5"
	DefaultVectorIndex         = "default"
	DefaultVectorPath          = "vector"
	DefaultNumCandidates       = 100
	DefaultSearchLimit         = 1
	DefaultImageCount          = 5
	DefaultEmbedBatchSize      = 10
	DefaultConnectTimeout      = 60 * time.Second
	DefaultServerSelectTimeout = 60 * time.Second
)

type Settings struct {
	Search    SearchSettings    `yaml:"search"`
	Listing   ListingSettings   `yaml:"listing"`
	Embedding EmbeddingSettings `yaml:"embedding"`
	Mongo     MongoSettings     `yaml:"mongo"`
	Images    ImageSettings     `yaml:"images"`
}

type SearchSettings struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	Collection    string `yaml:"collection"`
	Index         string `yaml:"index"`
	Path          string `yaml:"path"`
	NumCandidates int    `yaml:"numCandidates"`
	Limit         int    `yaml:"limit"`
}

type ListingSettings struct {
	Host       string       `yaml:"host"`
	Port       int          `yaml:"port"`
	Database   string       `yaml:"database,omitempty"` // overrides DEMO_DB for the listing app
	Collection string       `yaml:"collection"`
	Fallback   FallbackMode `yaml:"fallback"`
}

type EmbeddingSettings struct {
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"baseURL,omitempty"`
	BatchSize int    `yaml:"batchSize"`
}

type MongoSettings struct {
	ConnectTimeout         time.Duration `yaml:"connectTimeout"`
	ServerSelectionTimeout time.Duration `yaml:"serverSelectionTimeout"`
}

type ImageSettings struct {
	Dir   string `yaml:"dir"`
	Count int    `yaml:"count"`
}

func DefaultSettings() Settings {
	return Settings{
		Search: SearchSettings{
			Host:          "0.0.0.0",
			Port:          DefaultSearchPort,
			Collection:    "image_embeddings",
			Index:         DefaultVectorIndex,
			Path:          DefaultVectorPath,
			NumCandidates: DefaultNumCandidates,
			Limit:         DefaultSearchLimit,
		},
		Listing: ListingSettings{
			Host:       "0.0.0.0",
			Port:       DefaultListingPort,
			Collection: "corporations",
			Fallback:   FallbackFail,
		},
		Embedding: EmbeddingSettings{
			Model:     DefaultEmbeddingModel,
			BatchSize: DefaultEmbedBatchSize,
		},
		Mongo: MongoSettings{
			ConnectTimeout:         DefaultConnectTimeout,
			ServerSelectionTimeout: DefaultServerSelectTimeout,
		},
		Images: ImageSettings{
			Dir:   ".",
			Count: DefaultImageCount,
		},
	}
}

func (s *Settings) Validate() error {
	const op = "validate settings"
	switch {
	case s.Search.Limit < 1:
		return apperr.Configuration(op, "search.limit must be at least 1, got %d", s.Search.Limit)
	case s.Search.NumCandidates < s.Search.Limit:
		return apperr.Configuration(op, "search.numCandidates (%d) must not be lower than search.limit (%d)", s.Search.NumCandidates, s.Search.Limit)
	case s.Search.Collection == "" || s.Listing.Collection == "":
		return apperr.Configuration(op, "collection names must not be empty")
	case s.Listing.Fallback != FallbackFail && s.Listing.Fallback != FallbackSample:
		return apperr.Configuration(op, "unknown listing.fallback %q, expected %q or %q", s.Listing.Fallback, FallbackFail, FallbackSample)
	case s.Embedding.BatchSize < 1:
		return apperr.Configuration(op, "embedding.batchSize must be at least 1, got %d", s.Embedding.BatchSize)
	case s.Images.Count < 1:
		return apperr.Configuration(op, "images.count must be at least 1, got %d", s.Images.Count)
	case s.Mongo.ConnectTimeout <= 0 || s.Mongo.ServerSelectionTimeout <= 0:
		return apperr.Configuration(op, "mongo timeouts must be positive")
	}
	return nil
}
