// Package yelp is a client for the Yelp Fusion business search API.
package yelp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.yelp.com"

const (
	// MaxRadiusMeters is Yelp's documented search radius cap.
	MaxRadiusMeters = 40000
	// MaxLimit is the largest page size Yelp accepts.
	MaxLimit = 50
)

// Client performs Yelp Fusion API operations.
type Client interface {
	SearchBusinesses(ctx context.Context, params SearchParams) (*SearchResponse, error)
}

// SearchParams are the query parameters for GET /v3/businesses/search.
type SearchParams struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters int
	Limit        int
}

// SearchResponse is the body of GET /v3/businesses/search.
type SearchResponse struct {
	Total      int        `json:"total"`
	Businesses []Business `json:"businesses"`
}

// Business is a single Yelp search hit.
type Business struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Rating       float64     `json:"rating"`
	ReviewCount  int         `json:"review_count"`
	Phone        string      `json:"phone"`
	DisplayPhone string      `json:"display_phone"`
	URL          string      `json:"url"`
	Location     Location    `json:"location"`
	Coordinates  Coordinates `json:"coordinates"`
}

// Location holds a business's address fields.
type Location struct {
	Address1       string   `json:"address1"`
	City           string   `json:"city"`
	State          string   `json:"state"`
	ZipCode        string   `json:"zip_code"`
	DisplayAddress []string `json:"display_address"`
}

// Coordinates is a business's position.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a Yelp Fusion API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) SearchBusinesses(ctx context.Context, params SearchParams) (*SearchResponse, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(params.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(params.Longitude, 'f', -1, 64))
	if params.RadiusMeters > 0 {
		q.Set("radius", strconv.Itoa(params.RadiusMeters))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v3/businesses/search?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "yelp: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "yelp: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "yelp: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("yelp: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result SearchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "yelp: unmarshal response")
	}

	return &result, nil
}
