// Apple Music API implementation of [Catalog]
//
// Apple Music API response types based on https://developer.apple.com/documentation/applemusicapi
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"playdex/internal/models"
	"playdex/internal/shared"
)

const (
	appleMusicBaseURL = "https://api.music.apple.com/v1"

	// AppleMaxPageSize is the playlist tracks relationship's per-request
	// item limit.
	AppleMaxPageSize = 300

	// appleArtworkSize replaces the {w}x{h} template in artwork URLs.
	appleArtworkSize = "1200x1200"
)

// appleArtwork represents a templated artwork resource.
type appleArtwork struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type applePreview struct {
	URL string `json:"url"`
}

// appleTrackAttributes holds the song attributes the indexer consumes.
type appleTrackAttributes struct {
	Name             string         `json:"name"`
	ArtistName       string         `json:"artistName"`
	AlbumName        string         `json:"albumName"`
	DurationInMillis int            `json:"durationInMillis"`
	ReleaseDate      string         `json:"releaseDate"`
	GenreNames       []string       `json:"genreNames"`
	TrackNumber      int            `json:"trackNumber"`
	DiscNumber       int            `json:"discNumber"`
	ISRC             string         `json:"isrc"`
	ContentRating    string         `json:"contentRating"`
	Previews         []applePreview `json:"previews"`
	Artwork          appleArtwork   `json:"artwork"`
}

// appleTrack is one resource of a tracks relationship.
type appleTrack struct {
	ID         string               `json:"id"`
	Type       string               `json:"type"`
	Attributes appleTrackAttributes `json:"attributes"`
}

// appleTracksPage is one page of a playlist's tracks relationship. Next is
// the relative path of the following page, empty on the last one.
type appleTracksPage struct {
	Data []appleTrack `json:"data"`
	Next string       `json:"next"`
	Meta struct {
		Total int `json:"total"`
	} `json:"meta"`
}

type appleDescription struct {
	Standard string `json:"standard"`
}

type applePlaylistAttributes struct {
	Name             string           `json:"name"`
	CuratorName      string           `json:"curatorName"`
	Description      appleDescription `json:"description"`
	LastModifiedDate string           `json:"lastModifiedDate"`
	URL              string           `json:"url"`
}

type applePlaylist struct {
	ID            string                  `json:"id"`
	Type          string                  `json:"type"`
	Attributes    applePlaylistAttributes `json:"attributes"`
	Relationships struct {
		Tracks appleTracksPage `json:"tracks"`
	} `json:"relationships"`
}

type applePlaylistResponse struct {
	Data []applePlaylist `json:"data"`
}

// AppleMusicService implements the [Catalog] interface for the official
// Apple Music API. Requests carry a pre-generated developer token; there is
// no per-run token exchange.
type AppleMusicService struct {
	baseURL        string
	developerToken string
	storefront     string
	httpClient     *http.Client
}

// NewAppleMusicService creates an Apple Music service for the given
// developer token and storefront. An empty storefront defaults to "us".
func NewAppleMusicService(developerToken, storefront string) (*AppleMusicService, error) {
	if developerToken == "" {
		return nil, fmt.Errorf("%w: missing developer token", shared.ErrMissingCredentials)
	}
	if storefront == "" {
		storefront = "us"
	}

	return &AppleMusicService{
		baseURL:        appleMusicBaseURL,
		developerToken: developerToken,
		storefront:     storefront,
	}, nil
}

func (s *AppleMusicService) Name() string {
	return "Apple Music"
}

// Authenticate verifies the developer token against the API's test endpoint.
// The token itself is static, so this is a reachability and validity check
// rather than a token exchange.
func (s *AppleMusicService) Authenticate(ctx context.Context) error {
	if s.httpClient == nil {
		s.httpClient = &http.Client{}
	}
	if err := s.doRequest(ctx, "/test", nil); err != nil {
		return err
	}
	return nil
}

// doRequest performs an authenticated GET request to the Apple Music API.
func (s *AppleMusicService) doRequest(ctx context.Context, endpoint string, result any) error {
	if s.httpClient == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	apiURL := s.baseURL + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.developerToken)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: developer token rejected (status %d)", shared.ErrAuthFailed, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, endpoint)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: apple music API status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// GetPlaylist retrieves playlist metadata by catalog ID.
func (s *AppleMusicService) GetPlaylist(ctx context.Context, playlistID string) (*models.PlaylistMetadata, error) {
	var response applePlaylistResponse
	endpoint := fmt.Sprintf("/catalog/%s/playlists/%s", s.storefront, playlistID)
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}
	if len(response.Data) == 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}

	playlist := response.Data[0]
	attrs := playlist.Attributes

	trackCount := playlist.Relationships.Tracks.Meta.Total
	if trackCount == 0 {
		trackCount = len(playlist.Relationships.Tracks.Data)
	}

	return &models.PlaylistMetadata{
		Provider:    "apple_music",
		ID:          playlist.ID,
		Name:        attrs.Name,
		Description: attrs.Description.Standard,
		Owner:       attrs.CuratorName,
		TrackCount:  trackCount,
		URL:         attrs.URL,
	}, nil
}

// PlaylistTracksPage retrieves one page of the playlist's tracks
// relationship.
func (s *AppleMusicService) PlaylistTracksPage(ctx context.Context, playlistID string, limit, offset int) (*TracksPage, error) {
	if limit <= 0 || limit > AppleMaxPageSize {
		limit = AppleMaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	endpoint := fmt.Sprintf("/catalog/%s/playlists/%s/tracks?limit=%d&offset=%d",
		s.storefront, playlistID, limit, offset)

	var response appleTracksPage
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	page := &TracksPage{
		Total:  response.Meta.Total,
		Limit:  limit,
		Offset: offset,
	}
	if response.Next != "" {
		next := response.Next
		page.Next = &next
	}
	for _, track := range response.Data {
		page.Items = append(page.Items, convertAppleTrack(track))
	}
	return page, nil
}

// AudioFeaturesBatch always reports no features: Apple Music has no
// audio-features endpoint, and the sparse contract lets every ID be absent.
func (s *AppleMusicService) AudioFeaturesBatch(ctx context.Context, trackIDs []string) (map[string]*models.AudioFeatures, error) {
	return map[string]*models.AudioFeatures{}, nil
}

// convertAppleTrack maps a tracks-relationship resource to a [PageItem].
// Non-song resources (music videos) get a nil Entry and a skip reason.
func convertAppleTrack(track appleTrack) PageItem {
	switch {
	case track.ID == "":
		return PageItem{Reason: "item has no ID"}
	case track.Type != "songs":
		return PageItem{Reason: fmt.Sprintf("unsupported item type %q", track.Type)}
	}

	attrs := track.Attributes

	artistName := attrs.ArtistName
	if artistName == "" {
		artistName = "Unknown Artist"
	}
	albumName := attrs.AlbumName
	if albumName == "" {
		albumName = "Unknown Album"
	}

	previewURL := ""
	if len(attrs.Previews) > 0 {
		previewURL = attrs.Previews[0].URL
	}

	var artwork []models.ArtworkCandidate
	if attrs.Artwork.URL != "" {
		artwork = append(artwork, models.ArtworkCandidate{
			URL:    resolveAppleArtworkURL(attrs.Artwork.URL),
			Width:  attrs.Artwork.Width,
			Height: attrs.Artwork.Height,
		})
	}

	return PageItem{Entry: &models.RawTrackEntry{
		ID:          track.ID,
		Name:        attrs.Name,
		ArtistName:  artistName,
		AllArtists:  []string{artistName},
		AlbumName:   albumName,
		DurationMS:  attrs.DurationInMillis,
		Explicit:    attrs.ContentRating == "explicit",
		TrackNumber: attrs.TrackNumber,
		DiscNumber:  attrs.DiscNumber,
		ReleaseDate: attrs.ReleaseDate,
		Genres:      attrs.GenreNames,
		ISRC:        attrs.ISRC,
		PreviewURL:  previewURL,
		Artwork:     artwork,
	}}
}

// resolveAppleArtworkURL fills the {w}x{h} size template with a
// high-resolution size. URLs without the template pass through unchanged.
func resolveAppleArtworkURL(url string) string {
	return strings.Replace(url, "{w}x{h}", appleArtworkSize, 1)
}
