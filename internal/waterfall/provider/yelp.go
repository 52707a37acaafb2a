package provider

import (
	"context"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/sells-group/zipsearch/internal/model"
	"github.com/sells-group/zipsearch/pkg/yelp"
)

// YelpProvider searches Yelp Fusion. It is the primary provider in the
// waterfall order.
type YelpProvider struct {
	client  yelp.Client
	limiter *rate.Limiter
	timeout time.Duration
}

// NewYelp creates a Yelp-backed provider with an outbound rate limit in
// requests per second.
func NewYelp(client yelp.Client, reqPerSec float64, timeout time.Duration) *YelpProvider {
	if reqPerSec <= 0 {
		reqPerSec = 5
	}
	return &YelpProvider{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(reqPerSec), 1),
		timeout: timeout,
	}
}

// Name implements Provider.
func (p *YelpProvider) Name() string { return "yelp" }

// Provenance implements Provider.
func (p *YelpProvider) Provenance() model.Provenance { return model.ProvenancePrimary }

// Search implements Provider.
func (p *YelpProvider) Search(ctx context.Context, center model.LatLng, radiusMeters float64, limit int) ([]model.Business, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, &Error{Vendor: p.Name(), Err: err}
	}

	radius := int(radiusMeters)
	if radius > yelp.MaxRadiusMeters {
		radius = yelp.MaxRadiusMeters
	}
	if limit > yelp.MaxLimit {
		limit = yelp.MaxLimit
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.SearchBusinesses(ctx, yelp.SearchParams{
		Latitude:     center.Lat,
		Longitude:    center.Lng,
		RadiusMeters: radius,
		Limit:        limit,
	})
	if err != nil {
		return nil, &Error{Vendor: p.Name(), Err: err}
	}

	results := make([]model.Business, 0, len(resp.Businesses))
	for _, b := range resp.Businesses {
		biz := model.Business{
			Name:        b.Name,
			Rating:      b.Rating,
			ReviewCount: b.ReviewCount,
			Address:     yelpAddress(b.Location),
			Phone:       b.DisplayPhone,
			URL:         b.URL,
			Provenance:  p.Provenance(),
		}
		if b.Coordinates.Latitude != 0 || b.Coordinates.Longitude != 0 {
			biz.Coordinates = &model.LatLng{Lat: b.Coordinates.Latitude, Lng: b.Coordinates.Longitude}
		}
		results = append(results, biz)
	}
	return results, nil
}

func yelpAddress(loc yelp.Location) string {
	if len(loc.DisplayAddress) > 0 {
		return strings.Join(loc.DisplayAddress, ", ")
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{loc.Address1, loc.City, loc.State} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
