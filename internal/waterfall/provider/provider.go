// Package provider defines the interface and implementations for nearby
// business search providers.
package provider

import (
	"context"
	"fmt"

	"github.com/sells-group/zipsearch/internal/model"
)

// Provider is a single business-search vendor. Adapters translate a
// coordinate+radius+limit query into vendor requests and normalize the
// responses into model.Business values tagged with their provenance.
type Provider interface {
	// Name returns the vendor identifier used in logs.
	Name() string
	// Provenance is the tag stamped on every result this provider returns.
	Provenance() model.Provenance
	// Search returns up to limit businesses near center. Radius is clamped
	// to the vendor's documented maximum internally; the caller's value is
	// never modified.
	Search(ctx context.Context, center model.LatLng, radiusMeters float64, limit int) ([]model.Business, error)
}

// Error wraps a vendor call failure. The waterfall recovers these locally;
// they never reach the API caller.
type Error struct {
	Vendor string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Vendor, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
