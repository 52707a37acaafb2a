package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/sells-group/zipsearch/internal/model"
	"github.com/sells-group/zipsearch/internal/search"
)

// Searcher is the search backend the server fronts.
type Searcher interface {
	Execute(ctx context.Context, q search.Query) (*search.Response, error)
}

type handler struct {
	svc Searcher
}

// searchResponse is the wire shape of a successful search.
type searchResponse struct {
	Origin       string           `json:"origin"`
	Results      []model.Business `json:"results"`
	Center       model.LatLng     `json:"center"`
	LocalityName string           `json:"localityName"`
	RegionCode   string           `json:"regionCode"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// search handles GET /search?code=&radiusMiles=&limit=. Absent or
// non-numeric parameters fall back to the service defaults.
func (h *handler) search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	q := search.Query{
		Code:        params.Get("code"),
		RadiusMiles: parseFloat(params.Get("radiusMiles")),
		Limit:       parseInt(params.Get("limit")),
	}

	resp, err := h.svc.Execute(r.Context(), q)
	if err != nil {
		switch {
		case errors.Is(err, search.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "code must be a 5-digit ZIP")
		case errors.Is(err, search.ErrGeocodeNotFound), errors.Is(err, search.ErrGeocodeUnavailable):
			writeError(w, http.StatusNotFound, "could not resolve postal code")
		default:
			zap.L().Error("search request failed",
				zap.String("code", q.Code),
				zap.Error(err),
			)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Origin:       resp.Origin,
		Results:      resp.Results,
		Center:       resp.Center,
		LocalityName: resp.City,
		RegionCode:   resp.State,
	})
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0
	}
	return v
}

func parseInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
