package domain

import "errors"

var (
	// ErrNoFileProvided is returned when an upload request carries no image
	ErrNoFileProvided = errors.New("no file uploaded")

	// ErrDecode is returned when uploaded bytes are not a decodable image
	ErrDecode = errors.New("image decode failed")

	// ErrNotFound is returned when valid input matches no data upstream
	ErrNotFound = errors.New("product not found")

	// ErrUpstreamUnreachable is returned on network failures or non-success
	// status codes from an external service
	ErrUpstreamUnreachable = errors.New("upstream service unreachable")

	// ErrInternal wraps anything unexpected
	ErrInternal = errors.New("internal error")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrSourceEmpty is returned by an enrichment source that answered but had nothing
	ErrSourceEmpty = errors.New("source returned no usable data")

	// ErrClassifierUnavailable is returned when no eco-score model is configured
	ErrClassifierUnavailable = errors.New("eco-score classifier not configured")

	// ErrOCRUnavailable is returned when no text recognition backend is configured
	ErrOCRUnavailable = errors.New("text recognition not configured")
)
