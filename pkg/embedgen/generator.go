package embedgen

import (
	"context"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/afero"

	"github.com/st3ffan/hack-the-stackathon/pkg/api/logger"
	"github.com/st3ffan/hack-the-stackathon/pkg/embeddings"
	"github.com/st3ffan/hack-the-stackathon/pkg/embeddings/voyage"
	"github.com/st3ffan/hack-the-stackathon/pkg/images"
)

const DefaultBatchSize = 10

//go:generate ../../bin/mockery --name ImageEmbedder --output ./mocks --filename image_embedder_mock.go --outpkg embedgen_mocks --structname ImageEmbedderMock
type ImageEmbedder interface {
	EmbedImages(ctx context.Context, dataURIs []string, inputType voyage.InputType) ([][]float32, error)
}

type ImageLoader interface {
	LoadAll(ctx context.Context, count int) ([]images.Image, error)
}

//go:generate ../../bin/mockery --name RecordSink --output ./mocks --filename record_sink_mock.go --outpkg embedgen_mocks --structname RecordSinkMock
type RecordSink interface {
	InsertMany(ctx context.Context, records []embeddings.Record) (int, error)
}

type Result struct {
	Loaded   int
	Inserted int
	Records  []embeddings.Record
}

type Generator struct {
	embedder  ImageEmbedder
	loader    ImageLoader
	log       logger.Logger
	count     int
	batchSize int
	model     string

	sink     RecordSink
	index    *embeddings.Index
	fs       afero.Fs
	snapshot string
	dryRun   bool
}

type Option func(g *Generator)

// WithSink stores generated records, typically in a mongodb collection.
func WithSink(sink RecordSink) Option {
	return func(g *Generator) {
		g.sink = sink
	}
}

// WithLocalIndex adds generated records to an in-process index and checks that
// every image finds itself.
func WithLocalIndex(index *embeddings.Index) Option {
	return func(g *Generator) {
		g.index = index
	}
}

// WithSnapshot writes generated records to path as JSON.
func WithSnapshot(fs afero.Fs, path string) Option {
	return func(g *Generator) {
		g.fs = fs
		g.snapshot = path
	}
}

func WithBatchSize(size int) Option {
	return func(g *Generator) {
		if size > 0 {
			g.batchSize = size
		}
	}
}

func WithModel(model string) Option {
	return func(g *Generator) {
		g.model = model
	}
}

func WithDryRun(dryRun bool) Option {
	return func(g *Generator) {
		g.dryRun = dryRun
	}
}

func New(embedder ImageEmbedder, loader ImageLoader, count int, log logger.Logger, opts ...Option) *Generator {
	g := &Generator{
		embedder:  embedder,
		loader:    loader,
		log:       log,
		count:     count,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run loads the images, embeds them as documents and hands the records to the
// configured sink, index and snapshot.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	loaded, err := g.loader.LoadAll(ctx, g.count)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load images")
	}
	res := &Result{Loaded: len(loaded)}
	if len(loaded) == 0 {
		g.log.Info(ctx, "no embeddings to upload")
		return res, nil
	}

	if g.dryRun {
		for _, img := range loaded {
			g.log.Info(ctx, "would embed %s (%d bytes)", img.Filename, len(img.Data))
		}
		return res, nil
	}

	for i, batch := range lo.Chunk(loaded, g.batchSize) {
		g.log.Debug(ctx, "embedding batch %d (%d images)", i+1, len(batch))
		vectors, err := g.embedder.EmbedImages(ctx, lo.Map(batch, func(img images.Image, _ int) string {
			return img.DataURI()
		}), voyage.InputTypeDocument)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to embed batch %d", i+1)
		}
		if len(vectors) != len(batch) {
			return nil, errors.Errorf("got %d embeddings for batch of %d images", len(vectors), len(batch))
		}
		for j, img := range batch {
			res.Records = append(res.Records, embeddings.Record{
				Name:     img.Filename,
				Filename: img.Filename,
				Vector:   vectors[j],
			})
		}
	}
	g.log.Info(ctx, "generated %d embeddings", len(res.Records))

	if g.sink != nil {
		n, err := g.sink.InsertMany(ctx, res.Records)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to upload embeddings")
		}
		res.Inserted = n
		g.log.Info(ctx, "uploaded %d embeddings", n)
	}

	if g.snapshot != "" {
		if err := embeddings.SaveRecords(g.fs, g.snapshot, g.model, res.Records); err != nil {
			return nil, err
		}
		g.log.Info(ctx, "saved embeddings to %s", g.snapshot)
	}

	if g.index != nil {
		if err := g.checkLocal(ctx, res.Records); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (g *Generator) checkLocal(ctx context.Context, records []embeddings.Record) error {
	if err := g.index.Add(ctx, records); err != nil {
		return err
	}
	for _, r := range records {
		matches, err := g.index.Query(ctx, r.Vector, 1)
		if err != nil {
			return err
		}
		if len(matches) == 0 || matches[0].Filename != r.Filename {
			g.log.Warn(ctx, "local index: %s does not find itself", r.Filename)
			continue
		}
		g.log.Info(ctx, "local index: %s -> %s (%.4f)", r.Filename, matches[0].Filename, matches[0].Score)
	}
	return nil
}
