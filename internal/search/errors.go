package search

import "github.com/rotisserie/eris"

var (
	// ErrInvalidInput means the postal code failed the format check. No
	// outbound call is made in that case.
	ErrInvalidInput = eris.New("search: invalid postal code")
	// ErrGeocodeNotFound means the code is well-formed but unresolvable.
	ErrGeocodeNotFound = eris.New("search: postal code could not be resolved")
	// ErrGeocodeUnavailable means the geocoding service was unreachable.
	// Callers treat it the same as not-found.
	ErrGeocodeUnavailable = eris.New("search: geocoding service unavailable")
)
