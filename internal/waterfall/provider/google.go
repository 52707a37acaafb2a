package provider

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/sells-group/zipsearch/internal/model"
	"github.com/sells-group/zipsearch/pkg/google"
)

// GoogleProvider searches Google Places Nearby Search. It is the secondary
// provider in the waterfall order.
type GoogleProvider struct {
	client  google.Client
	limiter *rate.Limiter
	timeout time.Duration
}

// NewGoogle creates a Places-backed provider with an outbound rate limit in
// requests per second.
func NewGoogle(client google.Client, reqPerSec float64, timeout time.Duration) *GoogleProvider {
	if reqPerSec <= 0 {
		reqPerSec = 10
	}
	return &GoogleProvider{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(reqPerSec), 1),
		timeout: timeout,
	}
}

// Name implements Provider.
func (p *GoogleProvider) Name() string { return "google" }

// Provenance implements Provider.
func (p *GoogleProvider) Provenance() model.Provenance { return model.ProvenanceSecondary }

// Search implements Provider.
func (p *GoogleProvider) Search(ctx context.Context, center model.LatLng, radiusMeters float64, limit int) ([]model.Business, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, &Error{Vendor: p.Name(), Err: err}
	}

	radius := radiusMeters
	if radius > google.MaxRadiusMeters {
		radius = google.MaxRadiusMeters
	}
	count := limit
	if count > google.MaxResultCount {
		count = google.MaxResultCount
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.NearbySearch(ctx, google.NearbySearchRequest{
		LocationRestriction: google.LocationRestriction{
			Circle: google.Circle{
				Center: google.LatLng{Latitude: center.Lat, Longitude: center.Lng},
				Radius: radius,
			},
		},
		MaxResultCount: count,
	})
	if err != nil {
		return nil, &Error{Vendor: p.Name(), Err: err}
	}

	results := make([]model.Business, 0, len(resp.Places))
	for _, pl := range resp.Places {
		biz := model.Business{
			Name:        pl.DisplayName.Text,
			Rating:      pl.Rating,
			ReviewCount: pl.UserRatingCount,
			Address:     pl.FormattedAddress,
			Phone:       pl.NationalPhoneNumber,
			URL:         pl.GoogleMapsURI,
			Provenance:  p.Provenance(),
		}
		if pl.Location != nil {
			biz.Coordinates = &model.LatLng{Lat: pl.Location.Latitude, Lng: pl.Location.Longitude}
		}
		results = append(results, biz)
	}
	return results, nil
}
