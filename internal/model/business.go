// Package model holds the domain types shared across the search pipeline.
package model

// Provenance identifies which path produced a business result.
type Provenance string

const (
	// ProvenancePrimary marks results from the first-priority live provider.
	ProvenancePrimary Provenance = "primary-provider"
	// ProvenanceSecondary marks results from the fallback live provider.
	ProvenanceSecondary Provenance = "secondary-provider"
	// ProvenancePlaceholder marks the static dataset returned when no live
	// provider yields results.
	ProvenancePlaceholder Provenance = "placeholder"
)

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Location is a resolved postal code: its center plus locality labels.
// Immutable after the geocoder produces it.
type Location struct {
	LatLng
	City  string
	State string
}

// Business is a single normalized search result. Adapters own instances
// until they return them; nothing mutates a Business after normalization.
type Business struct {
	Name        string     `json:"name"`
	Rating      float64    `json:"rating"`
	ReviewCount int        `json:"reviewCount"`
	Address     string     `json:"address"`
	Phone       string     `json:"phone,omitempty"`
	Coordinates *LatLng    `json:"coordinates,omitempty"`
	URL         string     `json:"externalUrl,omitempty"`
	Provenance  Provenance `json:"provenance"`
}

// SearchPayload is the cacheable body of a search response: the ranked
// results plus the resolved center and locality labels.
type SearchPayload struct {
	Results []Business `json:"results"`
	Center  LatLng     `json:"center"`
	City    string     `json:"localityName"`
	State   string     `json:"regionCode"`
}
