package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/zipsearch/internal/model"
	"github.com/sells-group/zipsearch/internal/search"
)

// mockSearcher implements Searcher for testing.
type mockSearcher struct {
	resp    *search.Response
	err     error
	queries []search.Query
}

func (m *mockSearcher) Execute(_ context.Context, q search.Query) (*search.Response, error) {
	m.queries = append(m.queries, q)
	return m.resp, m.err
}

func successResponse() *search.Response {
	return &search.Response{
		Origin: search.OriginLive,
		SearchPayload: model.SearchPayload{
			Results: []model.Business{
				{Name: "High", Rating: 4.9, ReviewCount: 200, Address: "1 Main St", Provenance: model.ProvenancePrimary},
			},
			Center: model.LatLng{Lat: 37.7725, Lng: -122.4147},
			City:   "San Francisco",
			State:  "CA",
		},
	}
}

func doSearch(t *testing.T, svc Searcher, target string) *httptest.ResponseRecorder {
	t.Helper()
	srv := New(svc, 0)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestSearch_Success(t *testing.T) {
	m := &mockSearcher{resp: successResponse()}
	rec := doSearch(t, m, "/search?code=94103&radiusMiles=10&limit=5")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Origin       string           `json:"origin"`
		Results      []model.Business `json:"results"`
		Center       model.LatLng     `json:"center"`
		LocalityName string           `json:"localityName"`
		RegionCode   string           `json:"regionCode"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "live", body.Origin)
	assert.Equal(t, "San Francisco", body.LocalityName)
	assert.Equal(t, "CA", body.RegionCode)
	require.Len(t, body.Results, 1)
	assert.Equal(t, model.ProvenancePrimary, body.Results[0].Provenance)

	require.Len(t, m.queries, 1)
	assert.Equal(t, "94103", m.queries[0].Code)
	assert.InDelta(t, 10.0, m.queries[0].RadiusMiles, 0.001)
	assert.Equal(t, 5, m.queries[0].Limit)
}

func TestSearch_NonNumericParams_PassedAsZero(t *testing.T) {
	m := &mockSearcher{resp: successResponse()}
	rec := doSearch(t, m, "/search?code=94103&radiusMiles=abc&limit=xyz")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, m.queries, 1)
	// Zero values let the service apply its configured defaults.
	assert.Zero(t, m.queries[0].RadiusMiles)
	assert.Zero(t, m.queries[0].Limit)
}

func TestSearch_InvalidCode_400(t *testing.T) {
	m := &mockSearcher{err: eris.Wrap(search.ErrInvalidInput, "code \"123\"")}
	rec := doSearch(t, m, "/search?code=123")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error)
}

func TestSearch_GeocodeNotFound_404(t *testing.T) {
	m := &mockSearcher{err: eris.Wrap(search.ErrGeocodeNotFound, "code 99999")}
	rec := doSearch(t, m, "/search?code=99999")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearch_GeocodeUnavailable_404(t *testing.T) {
	m := &mockSearcher{err: eris.Wrap(search.ErrGeocodeUnavailable, "code 94103")}
	rec := doSearch(t, m, "/search?code=94103")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearch_InternalError_500(t *testing.T) {
	m := &mockSearcher{err: eris.New("unexpected")}
	rec := doSearch(t, m, "/search?code=94103")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal error", body.Error)
}

func TestSearch_RequestIDHeader(t *testing.T) {
	m := &mockSearcher{resp: successResponse()}
	rec := doSearch(t, m, "/search?code=94103")

	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestSearch_RequestIDPropagated(t *testing.T) {
	m := &mockSearcher{resp: successResponse()}
	srv := New(m, 0)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/search?code=94103", nil)
	req.Header.Set("X-Request-Id", "caller-id")
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "caller-id", rec.Header().Get("X-Request-Id"))
}

func TestHealth(t *testing.T) {
	rec := doSearch(t, &mockSearcher{}, "/health")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
