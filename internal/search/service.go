// Package search composes geocoding, the provider waterfall, ranking, and
// the result cache into the per-request search operation.
package search

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/rotisserie/eris"

	"github.com/sells-group/zipsearch/internal/cache"
	"github.com/sells-group/zipsearch/internal/geocode"
	"github.com/sells-group/zipsearch/internal/model"
)

const metersPerMile = 1609.344

var zipPattern = regexp.MustCompile(`^\d{5}$`)

// Origin values tag where a response's payload came from.
const (
	OriginCache = "cache"
	OriginLive  = "live"
)

// Query is one incoming search request. Zero RadiusMiles or Limit take the
// configured defaults.
type Query struct {
	Code        string
	RadiusMiles float64
	Limit       int
}

// Response is the complete search outcome.
type Response struct {
	Origin string
	model.SearchPayload
}

// Orchestrator runs the provider fallback sequence. It never fails; at worst
// it returns the placeholder dataset.
type Orchestrator interface {
	Run(ctx context.Context, center model.LatLng, radiusMeters float64, limit int) []model.Business
}

// Options configures a Service.
type Options struct {
	CacheTTL           time.Duration
	DefaultRadiusMiles float64
	DefaultLimit       int
	MaxLimit           int
}

// Service is the search façade invoked per request.
type Service struct {
	geocoder  geocode.Geocoder
	waterfall Orchestrator
	cache     *cache.Cache
	opts      Options
	flight    singleflight.Group
}

// NewService creates a search service. The cache is owned by the caller and
// shared across requests; everything else is per-request.
func NewService(geocoder geocode.Geocoder, waterfall Orchestrator, c *cache.Cache, opts Options) *Service {
	if opts.DefaultRadiusMiles <= 0 {
		opts.DefaultRadiusMiles = 10
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 10
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 50
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 10 * time.Minute
	}
	return &Service{
		geocoder:  geocoder,
		waterfall: waterfall,
		cache:     c,
		opts:      opts,
	}
}

// Execute validates the query, then answers from cache or runs the live
// pipeline. Identical concurrent misses are collapsed into one fetch.
func (s *Service) Execute(ctx context.Context, q Query) (*Response, error) {
	q = s.normalize(q)
	// 00000 is never assigned, so it fails validation rather than geocoding.
	if !zipPattern.MatchString(q.Code) || q.Code == "00000" {
		return nil, eris.Wrapf(ErrInvalidInput, "code %q", q.Code)
	}

	key := cacheKey(q)
	if payload, ok := s.cache.Get(key); ok {
		zap.L().Debug("search: cache hit", zap.String("key", key))
		return &Response{Origin: OriginCache, SearchPayload: payload}, nil
	}

	v, err, shared := s.flight.Do(key, func() (any, error) {
		return s.fetch(ctx, q, key)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		zap.L().Debug("search: coalesced concurrent miss", zap.String("key", key))
	}
	return &Response{Origin: OriginLive, SearchPayload: v.(model.SearchPayload)}, nil
}

func (s *Service) fetch(ctx context.Context, q Query, key string) (model.SearchPayload, error) {
	loc, err := s.geocoder.Resolve(ctx, q.Code)
	if err != nil {
		switch {
		case errors.Is(err, geocode.ErrNotFound):
			return model.SearchPayload{}, eris.Wrapf(ErrGeocodeNotFound, "code %s", q.Code)
		case errors.Is(err, geocode.ErrUnavailable):
			return model.SearchPayload{}, eris.Wrapf(ErrGeocodeUnavailable, "code %s: %v", q.Code, err)
		default:
			return model.SearchPayload{}, eris.Wrapf(err, "search: geocode %s", q.Code)
		}
	}

	results := s.waterfall.Run(ctx, loc.LatLng, q.RadiusMiles*metersPerMile, q.Limit)

	// Rank over all candidates; truncate strictly afterwards.
	Rank(results)
	if len(results) > q.Limit {
		results = results[:q.Limit]
	}

	payload := model.SearchPayload{
		Results: results,
		Center:  loc.LatLng,
		City:    loc.City,
		State:   loc.State,
	}
	s.cache.Put(key, payload, s.opts.CacheTTL)

	zap.L().Info("search: live result",
		zap.String("code", q.Code),
		zap.Float64("radius_miles", q.RadiusMiles),
		zap.Int("limit", q.Limit),
		zap.Int("results", len(results)),
	)
	return payload, nil
}

func (s *Service) normalize(q Query) Query {
	if q.RadiusMiles <= 0 {
		q.RadiusMiles = s.opts.DefaultRadiusMiles
	}
	if q.Limit <= 0 {
		q.Limit = s.opts.DefaultLimit
	}
	if q.Limit > s.opts.MaxLimit {
		q.Limit = s.opts.MaxLimit
	}
	return q
}

// cacheKey composes the exact query tuple. Distinct radius or limit values
// get distinct cache lines even for the same code.
func cacheKey(q Query) string {
	return fmt.Sprintf("%s:%g:%d", q.Code, q.RadiusMiles, q.Limit)
}
