// Package geocode resolves U.S. postal codes to coordinates and locality
// labels.
package geocode

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/zipsearch/internal/model"
	"github.com/sells-group/zipsearch/pkg/zippopotam"
)

var (
	// ErrNotFound means the code is well-formed but the lookup service has
	// no record for it.
	ErrNotFound = eris.New("geocode: postal code not found")
	// ErrUnavailable means the lookup service could not be reached or
	// returned an unusable response.
	ErrUnavailable = eris.New("geocode: lookup service unavailable")
)

// Geocoder resolves a postal code to a Location.
type Geocoder interface {
	Resolve(ctx context.Context, code string) (model.Location, error)
}

type zippopotamGeocoder struct {
	client  zippopotam.Client
	timeout time.Duration
}

// New creates a Geocoder backed by Zippopotam.us. Each resolve carries its
// own timeout so a hung lookup cannot stall the request indefinitely.
func New(client zippopotam.Client, timeout time.Duration) Geocoder {
	return &zippopotamGeocoder{client: client, timeout: timeout}
}

// Resolve issues one lookup, no retries. The caller decides what a failure
// means for the overall search.
func (g *zippopotamGeocoder) Resolve(ctx context.Context, code string) (model.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.Lookup(ctx, "us", code)
	if err != nil {
		if errors.Is(err, zippopotam.ErrNotFound) {
			return model.Location{}, eris.Wrapf(ErrNotFound, "code %s", code)
		}
		return model.Location{}, eris.Wrapf(ErrUnavailable, "code %s: %v", code, err)
	}
	if len(resp.Places) == 0 {
		return model.Location{}, eris.Wrapf(ErrNotFound, "code %s: no places", code)
	}

	// A code can span multiple localities; the first entry is the primary.
	place := resp.Places[0]
	lat, err := strconv.ParseFloat(place.Latitude, 64)
	if err != nil {
		return model.Location{}, eris.Wrapf(ErrUnavailable, "code %s: bad latitude %q", code, place.Latitude)
	}
	lng, err := strconv.ParseFloat(place.Longitude, 64)
	if err != nil {
		return model.Location{}, eris.Wrapf(ErrUnavailable, "code %s: bad longitude %q", code, place.Longitude)
	}

	return model.Location{
		LatLng: model.LatLng{Lat: lat, Lng: lng},
		City:   place.PlaceName,
		State:  place.StateAbbr,
	}, nil
}
