package listing

import (
	"context"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/st3ffan/hack-the-stackathon/pkg/api/logger"
	"github.com/st3ffan/hack-the-stackathon/pkg/clouds/mongodb"
)

const sortKey = "rank"

// Service lists corporations from a collection, or from the sample dataset
// when it has no collection.
type Service struct {
	coll *mongodb.Collection[Corporation]
	log  logger.Logger
}

func NewService(coll *mongodb.Collection[Corporation], log logger.Logger) *Service {
	return &Service{coll: coll, log: log}
}

func NewSampleService(log logger.Logger) *Service {
	return &Service{log: log}
}

func (s *Service) Sample() bool {
	return s.coll == nil
}

// List returns every corporation sorted by rank. Read failures are logged and
// produce an empty list.
func (s *Service) List(ctx context.Context) []Corporation {
	if s.Sample() {
		return SampleCorporations()
	}

	corporations := make([]Corporation, 0)
	for corp, err := range s.coll.FindAll(ctx, sortKey) {
		if err != nil {
			s.log.Error(ctx, "failed to load corporations: %v", err)
			return []Corporation{}
		}
		corporations = append(corporations, corp)
	}
	s.log.Debug(ctx, "loaded %d corporations from %s", len(corporations), s.coll.Name())
	return corporations
}

// Seed inserts the sample dataset with fresh ids and returns the inserted count.
func (s *Service) Seed(ctx context.Context) (int, error) {
	if s.Sample() {
		return 0, errors.New("cannot seed without a database connection")
	}
	docs := lo.Map(SampleCorporations(), func(c Corporation, _ int) Corporation {
		c.ID = nil
		return c
	})
	return s.coll.InsertMany(ctx, docs)
}
