package models

// PlaylistHandle identifies the playlist being indexed. Raw preserves the
// caller-supplied URL or ID, ID holds the resolved upstream identifier.
type PlaylistHandle struct {
	Raw string `json:"raw"`
	ID  string `json:"id"`
}

// ArtworkCandidate is one artwork image resolution offered by the API.
type ArtworkCandidate struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// RawTrackEntry is one playlist page item as returned by the source API.
// Index is the 1-based playlist position assigned during pagination; it is
// stable and unique for the run even when later stages fail for the track.
type RawTrackEntry struct {
	Index                int                `json:"index"`
	ID                   string             `json:"id"`
	Name                 string             `json:"name"`
	ArtistName           string             `json:"artist_name"`
	AllArtists           []string           `json:"all_artists"`
	AlbumName            string             `json:"album_name"`
	AlbumID              string             `json:"album_id"`
	DurationMS           int                `json:"duration_ms"`
	Explicit             bool               `json:"explicit"`
	Popularity           *int               `json:"popularity"`
	TrackNumber          int                `json:"track_number"`
	DiscNumber           int                `json:"disc_number"`
	ReleaseDate          string             `json:"release_date"`
	ReleaseDatePrecision string             `json:"release_date_precision"`
	AlbumType            string             `json:"album_type"`
	AlbumTotalTracks     int                `json:"total_tracks"`
	Genres               []string           `json:"genre_names,omitempty"`
	ISRC                 string             `json:"isrc,omitempty"`
	PreviewURL           string             `json:"preview_url"`
	SpotifyURL           string             `json:"spotify_url"`
	AddedAt              string             `json:"added_at"`
	AddedBy              string             `json:"added_by"`
	Artwork              []ArtworkCandidate `json:"-"`
}

// BestArtworkURL returns the URL of the highest-resolution artwork
// candidate, selected by declared pixel area. Returns "" when the track has
// no artwork.
func (t *RawTrackEntry) BestArtworkURL() string {
	best := ""
	bestArea := -1
	for _, c := range t.Artwork {
		area := c.Width * c.Height
		if area > bestArea {
			bestArea = area
			best = c.URL
		}
	}
	return best
}

// AudioFeatures holds the extended attributes returned by the audio
// features endpoint.
type AudioFeatures struct {
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Key              int     `json:"key"`
	Loudness         float64 `json:"loudness"`
	Mode             int     `json:"mode"`
	Speechiness      float64 `json:"speechiness"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Liveness         float64 `json:"liveness"`
	Valence          float64 `json:"valence"`
	Tempo            float64 `json:"tempo"`
	TimeSignature    int     `json:"time_signature"`
}

// EnrichedTrack is a RawTrackEntry plus its optional extended attributes.
// AudioFeatures is nil when enrichment failed or was skipped for the track;
// a nil payload never removes the track from the snapshot.
type EnrichedTrack struct {
	RawTrackEntry
	AudioFeatures *AudioFeatures `json:"audio_features,omitempty"`
}

// ArtworkStatus describes the outcome of materializing one track's artwork.
type ArtworkStatus string

const (
	ArtworkDownloaded ArtworkStatus = "downloaded"
	ArtworkSkipped    ArtworkStatus = "skipped"
	ArtworkFailed     ArtworkStatus = "failed"
)

// ArtworkRecord records where a track's artwork came from and where it
// landed on disk. LocalPath is empty unless Status is ArtworkDownloaded.
type ArtworkRecord struct {
	Index     int           `json:"index"`
	SourceURL string        `json:"source_url"`
	LocalPath string        `json:"local_path"`
	Status    ArtworkStatus `json:"status"`
	Err       error         `json:"-"`
}

// PlaylistMetadata is the playlist-level header of a snapshot. Provider
// names the upstream catalog the snapshot was indexed from ("spotify" or
// "apple_music").
type PlaylistMetadata struct {
	Provider      string `json:"provider"`
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Owner         string `json:"owner"`
	OwnerID       string `json:"owner_id"`
	Public        bool   `json:"public"`
	Collaborative bool   `json:"collaborative"`
	FollowerCount int    `json:"follower_count"`
	TrackCount    int    `json:"track_count"`
	URL           string `json:"url"`
	SpotifyURL    string `json:"spotify_url"`
	SnapshotID    string `json:"snapshot_id"`
}

// TrackRecord is one entry of the snapshot's ordered track sequence: an
// enriched track zipped with its artwork record.
type TrackRecord struct {
	Index                int            `json:"index"`
	ID                   string         `json:"id"`
	Name                 string         `json:"name"`
	ArtistName           string         `json:"artist_name"`
	AllArtists           []string       `json:"all_artists"`
	AlbumName            string         `json:"album_name"`
	AlbumID              string         `json:"album_id"`
	DurationMS           int            `json:"duration_ms"`
	Explicit             bool           `json:"explicit"`
	Popularity           *int           `json:"popularity"`
	TrackNumber          int            `json:"track_number"`
	DiscNumber           int            `json:"disc_number"`
	ReleaseDate          string         `json:"release_date"`
	ReleaseDatePrecision string         `json:"release_date_precision"`
	AlbumType            string         `json:"album_type"`
	AlbumTotalTracks     int            `json:"total_tracks"`
	Genres               []string       `json:"genre_names,omitempty"`
	ISRC                 string         `json:"isrc,omitempty"`
	PreviewURL           string         `json:"preview_url"`
	SpotifyURL           string         `json:"spotify_url"`
	AddedAt              string         `json:"added_at"`
	AddedBy              string         `json:"added_by"`
	ArtworkURL           string         `json:"artwork_url"`
	ArtworkLocalPath     *string        `json:"artwork_local_path"`
	ArtworkStatus        ArtworkStatus  `json:"artwork_status"`
	AudioFeatures        *AudioFeatures `json:"audio_features,omitempty"`
}

// Summary holds aggregate statistics derived from the track sequence. It is
// recomputed on every run and never persisted independently.
type Summary struct {
	TotalTracks        int      `json:"total_tracks"`
	TotalDurationMS    int      `json:"total_duration_ms"`
	TotalDurationHours float64  `json:"total_duration_hours"`
	UniqueArtists      int      `json:"unique_artists"`
	UniqueAllArtists   int      `json:"unique_all_artists"`
	UniqueAlbums       int      `json:"unique_albums"`
	AveragePopularity  *float64 `json:"average_popularity"`
	Genres             []string `json:"genres,omitempty"`
	ExplicitTracks     int      `json:"explicit_tracks"`
	TracksWithPreview  int      `json:"tracks_with_preview"`
	ArtworkDownloaded  int      `json:"artwork_downloaded"`
	ArtworkSkipped     int      `json:"artwork_skipped"`
	ArtworkFailed      int      `json:"artwork_failed"`
	IndexedAt          string   `json:"indexed_at"`
}

// PlaylistSnapshot is the output document of one indexing run.
type PlaylistSnapshot struct {
	PlaylistMetadata PlaylistMetadata `json:"playlist_metadata"`
	Tracks           []TrackRecord    `json:"tracks"`
	Summary          Summary          `json:"summary"`
}
