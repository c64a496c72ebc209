package datasource

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/luwen/surgelens/internal/contracts"
	"github.com/luwen/surgelens/pkg/logger"
	"github.com/luwen/surgelens/pkg/redis"
)

// CachedSource decorates a Source with a Redis read-through cache and
// singleflight collapsing, so one (symbol, window) in flight serves
// every concurrent caller. With caching disabled it still dedupes.
type CachedSource struct {
	inner      Source
	cache      *redis.Cache
	group      singleflight.Group
	seriesTTL  time.Duration
	profileTTL time.Duration
	logger     *logger.Logger
}

// NewCachedSource wraps a source. A zero seriesTTL falls back to the
// daily-bar default.
func NewCachedSource(inner Source, cache *redis.Cache, seriesTTL time.Duration, log *logger.Logger) *CachedSource {
	if seriesTTL <= 0 {
		seriesTTL = redis.TTLDaily
	}
	return &CachedSource{
		inner:      inner,
		cache:      cache,
		seriesTTL:  seriesTTL,
		profileTTL: redis.TTLMedium,
		logger:     log.WithField("module", "datasource_cache"),
	}
}

// FetchSeries serves from cache when possible, otherwise fetches once
// per key and fills the cache.
func (s *CachedSource) FetchSeries(ctx context.Context, symbol string, from, to time.Time) (*SeriesResult, error) {
	key := redis.SeriesKey(symbol, from.Format("2006-01-02"), to.Format("2006-01-02"))

	var cached SeriesResult
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Cache read failed")
	}
	if hit {
		return &cached, nil
	}

	// The leader's fetch serves every collapsed caller, so it must not
	// die with whichever caller happened to start it.
	fetchCtx := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		result, err := s.inner.FetchSeries(fetchCtx, symbol, from, to)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(fetchCtx, key, result, s.seriesTTL); err != nil {
			s.logger.WithError(err).WithField("key", key).Warn("Cache write failed")
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*SeriesResult), nil
}

// FetchProfile caches company metadata under a shorter TTL.
func (s *CachedSource) FetchProfile(ctx context.Context, symbol string) (*contracts.CompanyProfile, error) {
	key := redis.ProfileKey(symbol)

	var cached contracts.CompanyProfile
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Cache read failed")
	}
	if hit {
		return &cached, nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		profile, err := s.inner.FetchProfile(fetchCtx, symbol)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(fetchCtx, key, profile, s.profileTTL); err != nil {
			s.logger.WithError(err).WithField("key", key).Warn("Cache write failed")
		}
		return profile, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*contracts.CompanyProfile), nil
}
