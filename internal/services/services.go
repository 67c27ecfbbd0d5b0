// package services defines interface Catalog for interacting with
// music-streaming HTTP APIs
package services

import (
	"context"
	"fmt"
	"strings"

	"playdex/internal/models"
	"playdex/internal/shared"
)

// Catalog defines the read-only operations the indexing pipeline performs
// against a music streaming provider.
type Catalog interface {
	// Authenticate obtains an access token for subsequent requests.
	// Returns an error if the provider rejects the credentials.
	Authenticate(ctx context.Context) error

	// GetPlaylist retrieves playlist-level metadata by ID.
	GetPlaylist(ctx context.Context, playlistID string) (*models.PlaylistMetadata, error)

	// PlaylistTracksPage retrieves one page of playlist items at the given
	// offset. Limit is clamped to the provider's per-request maximum.
	PlaylistTracksPage(ctx context.Context, playlistID string, limit, offset int) (*TracksPage, error)

	// AudioFeaturesBatch retrieves audio features for up to the provider's
	// per-request maximum of track IDs. The result is sparse: IDs the
	// provider has no features for are simply absent.
	AudioFeaturesBatch(ctx context.Context, trackIDs []string) (map[string]*models.AudioFeatures, error)

	// Name returns the name of the provider (e.g., "Spotify")
	Name() string
}

// TracksPage is one page of a playlist's track listing.
type TracksPage struct {
	Items  []PageItem
	Total  int
	Limit  int
	Offset int
	Next   *string // nil when this is the last page
}

// PageItem is a single playlist entry. Entry is nil when the item cannot be
// indexed (local file, removed track, non-track episode); Reason says why.
type PageItem struct {
	Entry  *models.RawTrackEntry
	Reason string
}

// ExtractPlaylistID resolves a caller-supplied playlist reference to a bare
// playlist ID. Accepted forms:
//
//	https://open.spotify.com/playlist/<id>[?query]
//	https://music.apple.com/<storefront>/playlist/<name>/<id>
//	spotify:playlist:<id>
//	<id>
func ExtractPlaylistID(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("%w: empty playlist reference", shared.ErrInvalidInput)
	}

	if idx := strings.Index(s, "playlist/"); idx >= 0 {
		s = s[idx+len("playlist/"):]
		s = strings.SplitN(s, "?", 2)[0]
		// Apple Music URLs nest the playlist name before the ID; the ID is
		// the last path segment either way.
		segments := strings.Split(s, "/")
		s = ""
		for i := len(segments) - 1; i >= 0; i-- {
			if segments[i] != "" {
				s = segments[i]
				break
			}
		}
	} else if strings.HasPrefix(s, "spotify:playlist:") {
		s = strings.TrimPrefix(s, "spotify:playlist:")
	}

	if s == "" || strings.ContainsAny(s, "/?:& ") {
		return "", fmt.Errorf("%w: could not extract playlist ID from %q", shared.ErrInvalidInput, raw)
	}
	return s, nil
}
