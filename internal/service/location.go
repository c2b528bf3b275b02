package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kavirajan452/poel-step-registeration-form/internal/form"
	"github.com/kavirajan452/poel-step-registeration-form/internal/repository"
)

// cacheTimeout bounds every cache round trip so a slow Redis never stalls a
// lookup; on timeout the query falls through to the database.
const cacheTimeout = 500 * time.Millisecond

// LocationService serves the country/state/city dependency chain. Unknown
// parents yield empty lists, never errors.
type LocationService interface {
	Countries(ctx context.Context) ([]string, error)
	States(ctx context.Context, country string) ([]string, error)
	Cities(ctx context.Context, state string) ([]string, error)
}

// locationService reads through an optional Redis cache in front of the
// repository. A nil client disables caching entirely.
type locationService struct {
	repo  repository.LocationRepository
	cache *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

// NewLocationService constructs a LocationService. cache may be nil.
func NewLocationService(repo repository.LocationRepository, cache *redis.Client, ttl time.Duration, log *zap.Logger) LocationService {
	return &locationService{repo: repo, cache: cache, ttl: ttl, log: log}
}

func (s *locationService) Countries(ctx context.Context) ([]string, error) {
	return s.lookup(ctx, "loc:countries", func(ctx context.Context) ([]string, error) {
		return s.repo.Countries(ctx)
	})
}

func (s *locationService) States(ctx context.Context, country string) ([]string, error) {
	if country == "" {
		return []string{}, nil
	}
	return s.lookup(ctx, "loc:states:"+country, func(ctx context.Context) ([]string, error) {
		return s.repo.StatesByCountry(ctx, country)
	})
}

func (s *locationService) Cities(ctx context.Context, state string) ([]string, error) {
	if state == "" {
		return []string{}, nil
	}
	return s.lookup(ctx, "loc:cities:"+state, func(ctx context.Context) ([]string, error) {
		return s.repo.CitiesByState(ctx, state)
	})
}

// lookupAdapter exposes a LocationService under the wizard's lookup interface
// so the client-side dependency chain can be driven against the same backend.
type lookupAdapter struct {
	svc LocationService
}

// AsLookup adapts the service for form.DependentSelects consumers.
func AsLookup(svc LocationService) form.LocationLookup {
	return lookupAdapter{svc: svc}
}

func (a lookupAdapter) GetStates(ctx context.Context, country string) ([]string, error) {
	return a.svc.States(ctx, country)
}

func (a lookupAdapter) GetCities(ctx context.Context, state string) ([]string, error) {
	return a.svc.Cities(ctx, state)
}

// lookup is the read-through path: cache hit wins, misses and cache errors
// fall back to the loader, and fresh results are cached best effort. Empty
// results are cached too; an unknown parent stays cheap on repeat lookups.
func (s *locationService) lookup(ctx context.Context, key string, load func(context.Context) ([]string, error)) ([]string, error) {
	if s.cache != nil {
		cctx, cancel := context.WithTimeout(ctx, cacheTimeout)
		raw, err := s.cache.Get(cctx, key).Result()
		cancel()
		switch {
		case err == nil:
			var names []string
			if jerr := json.Unmarshal([]byte(raw), &names); jerr == nil {
				return names, nil
			}
			s.log.Warn("corrupt cache entry", zap.String("key", key))
		case err != redis.Nil:
			s.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	names, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}

	if s.cache != nil {
		if raw, jerr := json.Marshal(names); jerr == nil {
			cctx, cancel := context.WithTimeout(ctx, cacheTimeout)
			if serr := s.cache.Set(cctx, key, raw, s.ttl).Err(); serr != nil {
				s.log.Warn("cache write failed", zap.String("key", key), zap.Error(serr))
			}
			cancel()
		}
	}
	return names, nil
}
