// Spotify API implementation of [Catalog]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2/clientcredentials"

	"playdex/internal/models"
	"playdex/internal/shared"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// MaxPageSize is the playlist tracks endpoint's per-request item limit.
	MaxPageSize = 100
	// MaxFeatureBatch is the audio features endpoint's per-request ID limit.
	MaxFeatureBatch = 100
)

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

type followers struct {
	Total int `json:"total"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID                   string         `json:"id"`
	Name                 string         `json:"name"`
	AlbumType            string         `json:"album_type"`
	ReleaseDate          string         `json:"release_date"`
	ReleaseDatePrecision string         `json:"release_date_precision"`
	TotalTracks          int            `json:"total_tracks"`
	Images               []SpotifyImage `json:"images"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	Name         string          `json:"name"`
	Artists      []SpotifyArtist `json:"artists"`
	Album        SpotifyAlbum    `json:"album"`
	DurationMS   int             `json:"duration_ms"`
	Explicit     bool            `json:"explicit"`
	Popularity   *int            `json:"popularity"`
	TrackNumber  int             `json:"track_number"`
	DiscNumber   int             `json:"disc_number"`
	PreviewURL   string          `json:"preview_url"`
	IsLocal      bool            `json:"is_local"`
	ExternalURLs externalURLs    `json:"external_urls"`
}

type addedBy struct {
	ID string `json:"id"`
}

// SpotifyPlaylistItem represents a track within a playlist context.
type SpotifyPlaylistItem struct {
	AddedAt string        `json:"added_at"`
	AddedBy addedBy       `json:"added_by"`
	IsLocal bool          `json:"is_local"`
	Track   *SpotifyTrack `json:"track"`
}

// SpotifyPaginatedItems represents a paginated response of playlist items.
type SpotifyPaginatedItems struct {
	Items    []SpotifyPlaylistItem `json:"items"`
	Total    int                   `json:"total"`
	Limit    int                   `json:"limit"`
	Offset   int                   `json:"offset"`
	Next     *string               `json:"next"`
	Previous *string               `json:"previous"`
}

type owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type playlistTracks struct {
	Total int `json:"total"`
}

// SpotifyPlaylist represents a Spotify playlist.
type SpotifyPlaylist struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Owner         owner          `json:"owner"`
	Public        bool           `json:"public"`
	Collaborative bool           `json:"collaborative"`
	Followers     followers      `json:"followers"`
	SnapshotID    string         `json:"snapshot_id"`
	Tracks        playlistTracks `json:"tracks"`
	Images        []SpotifyImage `json:"images"`
	ExternalURLs  externalURLs   `json:"external_urls"`
}

type spotifyAudioFeatures struct {
	ID string `json:"id"`
	models.AudioFeatures
}

// SpotifyService implements the [Catalog] interface for Spotify API
// interactions. Uses the OAuth2 client-credentials flow, which covers all
// public catalog reads without user authorization.
type SpotifyService struct {
	baseURL    string
	config     *clientcredentials.Config
	httpClient *http.Client
}

// NewSpotifyService creates a new Spotify service with the given client credentials.
func NewSpotifyService(clientID, clientSecret string) (*SpotifyService, error) {
	if clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}
	if clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyTokenURL,
	}

	return &SpotifyService{
		baseURL: spotifyBaseURL,
		config:  config,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Authenticate requests an access token using the client-credentials flow.
// The returned HTTP client refreshes the token on expiry.
func (s *SpotifyService) Authenticate(ctx context.Context) error {
	if _, err := s.config.Token(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	s.httpClient = s.config.Client(ctx)
	return nil
}

// doRequest performs an authenticated GET request to the Spotify API.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	if s.httpClient == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	apiURL := s.baseURL + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, endpoint)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: spotify API status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// GetPlaylist retrieves playlist metadata by ID.
func (s *SpotifyService) GetPlaylist(ctx context.Context, playlistID string) (*models.PlaylistMetadata, error) {
	var playlist SpotifyPlaylist
	endpoint := fmt.Sprintf("/playlists/%s", playlistID)
	if err := s.doRequest(ctx, endpoint, &playlist); err != nil {
		return nil, err
	}

	return &models.PlaylistMetadata{
		Provider:      "spotify",
		ID:            playlist.ID,
		Name:          playlist.Name,
		Description:   playlist.Description,
		Owner:         playlist.Owner.DisplayName,
		OwnerID:       playlist.Owner.ID,
		Public:        playlist.Public,
		Collaborative: playlist.Collaborative,
		FollowerCount: playlist.Followers.Total,
		TrackCount:    playlist.Tracks.Total,
		SpotifyURL:    playlist.ExternalURLs.Spotify,
		SnapshotID:    playlist.SnapshotID,
	}, nil
}

// PlaylistTracksPage retrieves one page of playlist items.
func (s *SpotifyService) PlaylistTracksPage(ctx context.Context, playlistID string, limit, offset int) (*TracksPage, error) {
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks?limit=%d&offset=%d", playlistID, limit, offset)

	var response SpotifyPaginatedItems
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	page := &TracksPage{
		Total:  response.Total,
		Limit:  response.Limit,
		Offset: response.Offset,
		Next:   response.Next,
	}
	for _, item := range response.Items {
		page.Items = append(page.Items, convertPlaylistItem(item))
	}
	return page, nil
}

// AudioFeaturesBatch retrieves audio features for up to [MaxFeatureBatch]
// track IDs. The response is sparse: tracks without features are omitted.
func (s *SpotifyService) AudioFeaturesBatch(ctx context.Context, trackIDs []string) (map[string]*models.AudioFeatures, error) {
	if len(trackIDs) == 0 {
		return map[string]*models.AudioFeatures{}, nil
	}
	if len(trackIDs) > MaxFeatureBatch {
		return nil, fmt.Errorf("%w: maximum %d track IDs per batch", shared.ErrInvalidArgument, MaxFeatureBatch)
	}

	ids := strings.Join(trackIDs, ",")
	endpoint := fmt.Sprintf("/audio-features?ids=%s", url.QueryEscape(ids))

	var response struct {
		AudioFeatures []*spotifyAudioFeatures `json:"audio_features"`
	}
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	features := make(map[string]*models.AudioFeatures, len(response.AudioFeatures))
	for _, f := range response.AudioFeatures {
		if f == nil || f.ID == "" {
			// Some tracks have no audio features
			continue
		}
		af := f.AudioFeatures
		features[f.ID] = &af
	}
	return features, nil
}

// convertPlaylistItem maps a playlist item to a [PageItem]. Items that are
// not indexable tracks get a nil Entry and a skip reason; the pipeline still
// assigns them a position index.
func convertPlaylistItem(item SpotifyPlaylistItem) PageItem {
	switch {
	case item.Track == nil:
		return PageItem{Reason: "missing track object (removed or unavailable)"}
	case item.IsLocal || item.Track.IsLocal:
		return PageItem{Reason: "local file"}
	case item.Track.Type != "track":
		return PageItem{Reason: fmt.Sprintf("unsupported item type %q", item.Track.Type)}
	case item.Track.ID == "":
		return PageItem{Reason: "track has no ID"}
	}

	track := item.Track

	artistNames := make([]string, 0, len(track.Artists))
	for _, a := range track.Artists {
		artistNames = append(artistNames, a.Name)
	}
	primaryArtist := "Unknown Artist"
	if len(artistNames) > 0 {
		primaryArtist = artistNames[0]
	}

	albumName := track.Album.Name
	if albumName == "" {
		albumName = "Unknown Album"
	}

	artwork := make([]models.ArtworkCandidate, 0, len(track.Album.Images))
	for _, img := range track.Album.Images {
		artwork = append(artwork, models.ArtworkCandidate{
			URL:    img.URL,
			Width:  img.Width,
			Height: img.Height,
		})
	}

	return PageItem{Entry: &models.RawTrackEntry{
		ID:                   track.ID,
		Name:                 track.Name,
		ArtistName:           primaryArtist,
		AllArtists:           artistNames,
		AlbumName:            albumName,
		AlbumID:              track.Album.ID,
		DurationMS:           track.DurationMS,
		Explicit:             track.Explicit,
		Popularity:           track.Popularity,
		TrackNumber:          track.TrackNumber,
		DiscNumber:           track.DiscNumber,
		ReleaseDate:          track.Album.ReleaseDate,
		ReleaseDatePrecision: track.Album.ReleaseDatePrecision,
		AlbumType:            track.Album.AlbumType,
		AlbumTotalTracks:     track.Album.TotalTracks,
		PreviewURL:           track.PreviewURL,
		SpotifyURL:           track.ExternalURLs.Spotify,
		AddedAt:              item.AddedAt,
		AddedBy:              item.AddedBy.ID,
		Artwork:              artwork,
	}}
}
