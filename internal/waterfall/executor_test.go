package waterfall

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/zipsearch/internal/model"
	"github.com/sells-group/zipsearch/internal/waterfall/provider"
)

// mockProvider implements provider.Provider for testing.
type mockProvider struct {
	name       string
	provenance model.Provenance
	results    []model.Business
	err        error
	called     int
}

func (m *mockProvider) Name() string                   { return m.name }
func (m *mockProvider) Provenance() model.Provenance   { return m.provenance }
func (m *mockProvider) Search(_ context.Context, _ model.LatLng, _ float64, _ int) ([]model.Business, error) {
	m.called++
	return m.results, m.err
}

var testCenter = model.LatLng{Lat: 37.7725, Lng: -122.4147}

func primaryResults() []model.Business {
	return []model.Business{
		{Name: "Primary One", Rating: 4.5, ReviewCount: 100, Provenance: model.ProvenancePrimary},
		{Name: "Primary Two", Rating: 4.0, ReviewCount: 50, Provenance: model.ProvenancePrimary},
	}
}

func TestRun_PrimaryWins_SecondaryNotCalled(t *testing.T) {
	primary := &mockProvider{name: "yelp", provenance: model.ProvenancePrimary, results: primaryResults()}
	secondary := &mockProvider{name: "google", provenance: model.ProvenanceSecondary}

	exec := NewExecutor([]provider.Provider{primary, secondary}, DefaultPlaceholder())
	results := exec.Run(context.Background(), testCenter, 16093, 10)

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, model.ProvenancePrimary, r.Provenance)
	}
	assert.Equal(t, 1, primary.called)
	assert.Equal(t, 0, secondary.called)
}

func TestRun_PrimaryEmpty_SecondaryWins(t *testing.T) {
	primary := &mockProvider{name: "yelp", provenance: model.ProvenancePrimary}
	secondary := &mockProvider{name: "google", provenance: model.ProvenanceSecondary, results: []model.Business{
		{Name: "Secondary One", Rating: 4.2, ReviewCount: 30, Provenance: model.ProvenanceSecondary},
	}}

	exec := NewExecutor([]provider.Provider{primary, secondary}, DefaultPlaceholder())
	results := exec.Run(context.Background(), testCenter, 16093, 10)

	require.Len(t, results, 1)
	assert.Equal(t, model.ProvenanceSecondary, results[0].Provenance)
	assert.Equal(t, 1, primary.called)
	assert.Equal(t, 1, secondary.called)
}

func TestRun_PrimaryError_SecondaryWins(t *testing.T) {
	primary := &mockProvider{
		name:       "yelp",
		provenance: model.ProvenancePrimary,
		err:        &provider.Error{Vendor: "yelp", Err: eris.New("boom")},
	}
	secondary := &mockProvider{name: "google", provenance: model.ProvenanceSecondary, results: []model.Business{
		{Name: "Secondary One", Rating: 4.2, ReviewCount: 30, Provenance: model.ProvenanceSecondary},
	}}

	exec := NewExecutor([]provider.Provider{primary, secondary}, DefaultPlaceholder())
	results := exec.Run(context.Background(), testCenter, 16093, 10)

	require.Len(t, results, 1)
	assert.Equal(t, "Secondary One", results[0].Name)
}

func TestRun_AllFail_Placeholder(t *testing.T) {
	primary := &mockProvider{name: "yelp", err: &provider.Error{Vendor: "yelp", Err: eris.New("down")}}
	secondary := &mockProvider{name: "google", err: &provider.Error{Vendor: "google", Err: eris.New("down")}}

	exec := NewExecutor([]provider.Provider{primary, secondary}, DefaultPlaceholder())
	results := exec.Run(context.Background(), testCenter, 16093, 10)

	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, model.ProvenancePlaceholder, r.Provenance)
		require.NotNil(t, r.Coordinates)
		assert.InDelta(t, testCenter.Lat, r.Coordinates.Lat, 0.0001)
		assert.InDelta(t, testCenter.Lng, r.Coordinates.Lng, 0.0001)
	}
}

func TestRun_NoProviders_Placeholder(t *testing.T) {
	exec := NewExecutor(nil, DefaultPlaceholder())
	results := exec.Run(context.Background(), testCenter, 16093, 10)

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, model.ProvenancePlaceholder, r.Provenance)
	}
}

func TestRun_EachProviderAttemptedOnce(t *testing.T) {
	primary := &mockProvider{name: "yelp"}
	secondary := &mockProvider{name: "google"}

	exec := NewExecutor([]provider.Provider{primary, secondary}, DefaultPlaceholder())
	exec.Run(context.Background(), testCenter, 16093, 10)

	assert.Equal(t, 1, primary.called)
	assert.Equal(t, 1, secondary.called)
}

func TestRun_PlaceholderDoesNotMutateDataset(t *testing.T) {
	placeholder := DefaultPlaceholder()
	exec := NewExecutor(nil, placeholder)

	exec.Run(context.Background(), testCenter, 16093, 10)

	for _, b := range placeholder {
		assert.Nil(t, b.Coordinates)
	}
}
