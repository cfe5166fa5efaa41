package search

import (
	"context"
	"strings"

	"github.com/st3ffan/hack-the-stackathon/pkg/api/apperr"
	"github.com/st3ffan/hack-the-stackathon/pkg/api/logger"
	"github.com/st3ffan/hack-the-stackathon/pkg/images"
)

const DefaultLimit = 1

// Hit is one matched image. ImageData is nil when the image file could not be read.
type Hit struct {
	Name      string  `json:"name" bson:"name"`
	Filename  string  `json:"filename" bson:"filename"`
	Score     float64 `json:"score" bson:"score"`
	ImageData *string `json:"image_data" bson:"-"`
}

type Response struct {
	Success bool   `json:"success"`
	Query   string `json:"query"`
	Results []Hit  `json:"results"`
	Count   int    `json:"count"`
}

//go:generate ../../bin/mockery --name QueryEmbedder --output ./mocks --filename query_embedder_mock.go --outpkg search_mocks --structname QueryEmbedderMock
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

//go:generate ../../bin/mockery --name Backend --output ./mocks --filename backend_mock.go --outpkg search_mocks --structname BackendMock
type Backend interface {
	Search(ctx context.Context, vector []float32, limit int) ([]Hit, error)
}

type ImageReader interface {
	Read(name string) ([]byte, error)
}

type Service struct {
	embedder QueryEmbedder
	backend  Backend
	images   ImageReader
	log      logger.Logger
	limit    int
}

type Option func(s *Service)

func WithLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

func NewService(embedder QueryEmbedder, backend Backend, images ImageReader, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		embedder: embedder,
		backend:  backend,
		images:   images,
		log:      log,
		limit:    DefaultLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search embeds query and returns the closest images with their bytes inlined.
func (s *Service) Search(ctx context.Context, query string) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Validation("search", "Query text is required")
	}

	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, apperr.Internal("embed query", err)
	}
	s.log.Debug(ctx, "embedded query %q into %d dimensions", query, len(vector))

	hits, err := s.backend.Search(ctx, vector, s.limit)
	if err != nil {
		return nil, apperr.Query("vector search", err)
	}
	if hits == nil {
		hits = []Hit{}
	}
	for i := range hits {
		hits[i].ImageData = s.inlineImage(ctx, hits[i])
	}

	return &Response{
		Success: true,
		Query:   query,
		Results: hits,
		Count:   len(hits),
	}, nil
}

func (s *Service) inlineImage(ctx context.Context, hit Hit) *string {
	name := hit.Filename
	if name == "" {
		name = hit.Name
	}
	if name == "" || s.images == nil {
		return nil
	}
	data, err := s.images.Read(name)
	if err != nil {
		s.log.Warn(ctx, "could not load image %s: %v", name, err)
		return nil
	}
	uri := images.DataURI(data)
	return &uri
}
