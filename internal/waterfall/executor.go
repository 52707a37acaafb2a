// Package waterfall runs the ordered provider fallback for a search.
package waterfall

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/zipsearch/internal/model"
	"github.com/sells-group/zipsearch/internal/waterfall/provider"
)

// Executor tries configured providers in priority order. The first provider
// to return at least one result wins; results are never merged across
// providers. When every provider is absent, fails, or comes back empty, the
// placeholder dataset is returned so a resolved postal code always yields a
// non-empty response.
type Executor struct {
	providers   []provider.Provider
	placeholder []model.Business
}

// NewExecutor creates an executor over the configured providers, in the
// order they should be attempted. The placeholder dataset must be non-empty.
func NewExecutor(providers []provider.Provider, placeholder []model.Business) *Executor {
	return &Executor{
		providers:   providers,
		placeholder: placeholder,
	}
}

// Run executes the fallback sequence. Each provider is attempted at most
// once; provider errors are recovered here and treated as zero results.
func (e *Executor) Run(ctx context.Context, center model.LatLng, radiusMeters float64, limit int) []model.Business {
	for _, p := range e.providers {
		results, err := p.Search(ctx, center, radiusMeters, limit)
		if err != nil {
			zap.L().Warn("waterfall: provider search failed",
				zap.String("provider", p.Name()),
				zap.Error(err),
			)
			continue
		}
		if len(results) == 0 {
			zap.L().Debug("waterfall: provider returned no results",
				zap.String("provider", p.Name()),
			)
			continue
		}
		return results
	}

	zap.L().Info("waterfall: no provider results, using placeholder dataset",
		zap.Int("providers_tried", len(e.providers)),
	)
	return e.placeholderAt(center)
}

// placeholderAt copies the placeholder dataset with the resolved center
// stamped as each entry's coordinates, so map consumers still get pins.
func (e *Executor) placeholderAt(center model.LatLng) []model.Business {
	out := make([]model.Business, len(e.placeholder))
	for i, b := range e.placeholder {
		b.Coordinates = &model.LatLng{Lat: center.Lat, Lng: center.Lng}
		b.Provenance = model.ProvenancePlaceholder
		out[i] = b
	}
	return out
}
