package embeddings

import (
	"context"
	"encoding/json"
	"path/filepath"
	"runtime"

	chromem "github.com/philippgille/chromem-go"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/afero"
)

// Match is a record found by a similarity query.
type Match struct {
	Name     string  `json:"name"`
	Filename string  `json:"filename"`
	Score    float64 `json:"score"`
}

// Index is an in-memory cosine similarity index over image records.
type Index struct {
	db         *chromem.DB
	collection *chromem.Collection
}

var errNoEmbeddingFunc = errors.New("local index only accepts precomputed embeddings")

func NewIndex(name string) (*Index, error) {
	db := chromem.NewDB()
	collection, err := db.GetOrCreateCollection(name, nil, func(ctx context.Context, text string) ([]float32, error) {
		return nil, errNoEmbeddingFunc
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create collection %s", name)
	}
	return &Index{db: db, collection: collection}, nil
}

// Add indexes records by filename; re-adding a filename replaces it.
func (i *Index) Add(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	docs := lo.Map(records, func(r Record, _ int) chromem.Document {
		return chromem.Document{
			ID:        r.Filename,
			Content:   r.Name,
			Embedding: r.Vector,
			Metadata: map[string]string{
				"name":     r.Name,
				"filename": r.Filename,
			},
		}
	})
	if err := i.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return errors.Wrapf(err, "failed to add %d records to local index", len(records))
	}
	return nil
}

func (i *Index) Count() int {
	return i.collection.Count()
}

// Query returns up to limit records most similar to vector, best first.
func (i *Index) Query(ctx context.Context, vector []float32, limit int) ([]Match, error) {
	if limit > i.Count() {
		limit = i.Count()
	}
	if limit <= 0 {
		return []Match{}, nil
	}
	results, err := i.collection.QueryEmbedding(ctx, vector, limit, nil, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "local index query failed")
	}
	return lo.Map(results, func(r chromem.Result, _ int) Match {
		return Match{
			Name:     r.Metadata["name"],
			Filename: r.Metadata["filename"],
			Score:    float64(r.Similarity),
		}
	}), nil
}

type snapshot struct {
	Model   string   `json:"model"`
	Records []Record `json:"records"`
}

// SaveRecords writes records as a JSON snapshot that LoadRecords can read back.
func SaveRecords(fs afero.Fs, path string, model string, records []Record) error {
	data, err := json.MarshalIndent(snapshot{Model: model, Records: records}, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "failed to marshal embeddings")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create directory %s", dir)
		}
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

func LoadRecords(fs afero.Fs, path string) ([]Record, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return s.Records, nil
}
