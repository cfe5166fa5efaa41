package search

import (
	"context"

	"github.com/samber/lo"

	"github.com/st3ffan/hack-the-stackathon/pkg/clouds/mongodb"
	"github.com/st3ffan/hack-the-stackathon/pkg/embeddings"
)

const DefaultNumCandidates = 100

// AtlasBackend runs $vectorSearch against a collection of embedding records.
type AtlasBackend struct {
	coll          *mongodb.Collection[embeddings.Record]
	index         string
	path          string
	numCandidates int
}

func NewAtlasBackend(coll *mongodb.Collection[embeddings.Record], index, path string, numCandidates int) *AtlasBackend {
	if numCandidates <= 0 {
		numCandidates = DefaultNumCandidates
	}
	return &AtlasBackend{
		coll:          coll,
		index:         index,
		path:          path,
		numCandidates: numCandidates,
	}
}

func (b *AtlasBackend) Search(ctx context.Context, vector []float32, limit int) ([]Hit, error) {
	pipeline := mongodb.VectorSearch{
		Index:         b.index,
		Path:          b.path,
		QueryVector:   vector,
		NumCandidates: b.numCandidates,
		Limit:         limit,
		Fields:        []string{"name", "filename"},
		ScoreField:    "score",
	}.Pipeline()
	return mongodb.Aggregate[Hit](ctx, b.coll, pipeline)
}

// LocalBackend answers queries from an in-process index.
type LocalBackend struct {
	index *embeddings.Index
}

func NewLocalBackend(index *embeddings.Index) *LocalBackend {
	return &LocalBackend{index: index}
}

func (b *LocalBackend) Search(ctx context.Context, vector []float32, limit int) ([]Hit, error) {
	matches, err := b.index.Query(ctx, vector, limit)
	if err != nil {
		return nil, err
	}
	return lo.Map(matches, func(m embeddings.Match, _ int) Hit {
		return Hit{Name: m.Name, Filename: m.Filename, Score: m.Score}
	}), nil
}
