package search

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachedService wraps a search Service with an in-memory read-through cache.
// Repeated proactive triggers for the same query within a session then cost
// only one upstream call.
type CachedService struct {
	inner Service
	cache *cache.Cache
}

var _ Service = &CachedService{}

func NewCachedService(inner Service) *CachedService {
	// Results stay fresh for 15 minutes, expired entries purged every 30
	c := cache.New(15*time.Minute, 30*time.Minute)
	return &CachedService{
		inner: inner,
		cache: c,
	}
}

func (s *CachedService) Search(ctx context.Context, query string) ([]Result, error) {
	key := strings.ToLower(strings.TrimSpace(query))
	if x, found := s.cache.Get(key); found {
		return x.([]Result), nil
	}

	results, err := s.inner.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, results, cache.DefaultExpiration)
	return results, nil
}
