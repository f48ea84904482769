package catalog

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service fronts the repository with a read-through cache for single
// product lookups, the hot path behind every product page and add-to-cart.
type Service struct {
	repo   Repository
	cache  ProductCache
	logger *zap.Logger
	sfg    singleflight.Group // Prevents cache stampede
}

func NewService(repo Repository, cache ProductCache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// Get returns one product, serving from cache when possible. Concurrent
// misses for the same ID collapse into a single repository read.
func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	v, err, _ := s.sfg.Do(id, func() (interface{}, error) {
		product, err := s.cache.Get(ctx, id)
		if err == nil {
			return product, nil
		}

		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Warn("product cache get failed", zap.String("id", id), zap.Error(err))
		}

		product, errGet := s.repo.GetByID(ctx, id)
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), id, product); errSet != nil {
				s.logger.Warn("product cache set failed", zap.String("id", id), zap.Error(errSet))
			}
		}()

		return product, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*Product), nil
}

// List queries the repository directly; listings change too often to be
// worth caching.
func (s *Service) List(ctx context.Context, f Filter) ([]Product, error) {
	return s.repo.List(ctx, f)
}
