package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")

	// Pipeline errors
	ErrUpstreamUnavailable   = fmt.Errorf("upstream unavailable")
	ErrPaginationInterrupted = fmt.Errorf("pagination interrupted")
	ErrEnrichmentBatchFailed = fmt.Errorf("enrichment batch failed")
	ErrArtworkDownloadFailed = fmt.Errorf("artwork download failed")
	ErrAssemblyInvariant     = fmt.Errorf("assembly invariant violation")

	// API and service errors
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	ErrAPIRequest       = fmt.Errorf("API request failed")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrTrackNotFound    = fmt.Errorf("track not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
