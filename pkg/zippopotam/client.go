// Package zippopotam is a client for the keyless Zippopotam.us postal code
// lookup API.
package zippopotam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.zippopotam.us"

// ErrNotFound is returned when the service has no record for a postal code.
var ErrNotFound = eris.New("zippopotam: postal code not found")

// Client performs postal code lookups.
type Client interface {
	Lookup(ctx context.Context, country, code string) (*LookupResponse, error)
}

// LookupResponse is the body of GET /{country}/{code}.
type LookupResponse struct {
	PostCode string  `json:"post code"`
	Country  string  `json:"country"`
	Places   []Place `json:"places"`
}

// Place is one locality associated with a postal code. Zippopotam encodes
// coordinates as strings.
type Place struct {
	PlaceName string `json:"place name"`
	State     string `json:"state"`
	StateAbbr string `json:"state abbreviation"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
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
	baseURL string
	http    *http.Client
}

// NewClient creates a Zippopotam.us client. The API is keyless.
func NewClient(opts ...Option) Client {
	c := &httpClient{
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

func (c *httpClient) Lookup(ctx context.Context, country, code string) (*LookupResponse, error) {
	url := fmt.Sprintf("%s/%s/%s", c.baseURL, country, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "zippopotam: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "zippopotam: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "zippopotam: read response")
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, eris.Wrapf(ErrNotFound, "code %s", code)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("zippopotam: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result LookupResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "zippopotam: unmarshal response")
	}

	return &result, nil
}
