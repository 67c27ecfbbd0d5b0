// package analysis derives aggregate reports from saved playlist snapshots
package analysis

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"playdex/internal/models"
	"playdex/internal/shared"
)

// DefaultTopN bounds ranked listings in a report.
const DefaultTopN = 10

// NameCount is one row of a ranked listing.
type NameCount struct {
	Name   string `json:"name"`
	Tracks int    `json:"tracks"`
}

// DurationStats summarizes track lengths across the snapshot.
type DurationStats struct {
	TotalMS int     `json:"total_ms"`
	MinMS   int     `json:"min_ms"`
	MaxMS   int     `json:"max_ms"`
	MeanMS  float64 `json:"mean_ms"`
}

// FeatureMeans holds per-attribute averages over the tracks that carry
// audio features. TrackCount records how many contributed.
type FeatureMeans struct {
	TrackCount       int     `json:"track_count"`
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Valence          float64 `json:"valence"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Tempo            float64 `json:"tempo"`
}

// ArtworkRates reports materialization outcomes for the snapshot.
type ArtworkRates struct {
	Downloaded   int     `json:"downloaded"`
	Skipped      int     `json:"skipped"`
	Failed       int     `json:"failed"`
	DownloadRate float64 `json:"download_rate"`
}

// Report is the analysis output for one snapshot.
type Report struct {
	PlaylistID   string        `json:"playlist_id"`
	PlaylistName string        `json:"playlist_name"`
	TrackCount   int           `json:"track_count"`
	TopArtists   []NameCount   `json:"top_artists"`
	TopAlbums    []NameCount   `json:"top_albums"`
	Duration     DurationStats `json:"duration"`
	Decades      []NameCount   `json:"decades"`
	Features     *FeatureMeans `json:"audio_features,omitempty"`
	Artwork      ArtworkRates  `json:"artwork"`
	IndexedAt    string        `json:"indexed_at"`
}

// LoadSnapshot reads a snapshot JSON file written by a previous indexing run.
func LoadSnapshot(path string) (*models.PlaylistSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot models.PlaylistSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: failed to parse snapshot %s: %v", shared.ErrInvalidInput, path, err)
	}

	return &snapshot, nil
}

// Analyze computes a report over the snapshot's track table. topN bounds the
// ranked listings; values below 1 fall back to DefaultTopN.
func Analyze(snapshot *models.PlaylistSnapshot, topN int) *Report {
	if topN < 1 {
		topN = DefaultTopN
	}

	report := &Report{
		PlaylistID:   snapshot.PlaylistMetadata.ID,
		PlaylistName: snapshot.PlaylistMetadata.Name,
		TrackCount:   len(snapshot.Tracks),
		IndexedAt:    snapshot.Summary.IndexedAt,
	}

	artists := make(map[string]int)
	albums := make(map[string]int)
	decades := make(map[string]int)

	duration := DurationStats{MinMS: -1}
	var featureSum FeatureMeans

	for _, track := range snapshot.Tracks {
		if track.ArtistName != "" {
			artists[track.ArtistName]++
		}
		if track.AlbumName != "" {
			albums[track.AlbumName]++
		}
		decades[decadeOf(track.ReleaseDate)]++

		duration.TotalMS += track.DurationMS
		if duration.MinMS < 0 || track.DurationMS < duration.MinMS {
			duration.MinMS = track.DurationMS
		}
		if track.DurationMS > duration.MaxMS {
			duration.MaxMS = track.DurationMS
		}

		if f := track.AudioFeatures; f != nil {
			featureSum.TrackCount++
			featureSum.Danceability += f.Danceability
			featureSum.Energy += f.Energy
			featureSum.Valence += f.Valence
			featureSum.Acousticness += f.Acousticness
			featureSum.Instrumentalness += f.Instrumentalness
			featureSum.Tempo += f.Tempo
		}

		switch track.ArtworkStatus {
		case models.ArtworkDownloaded:
			report.Artwork.Downloaded++
		case models.ArtworkFailed:
			report.Artwork.Failed++
		default:
			report.Artwork.Skipped++
		}
	}

	if duration.MinMS < 0 {
		duration.MinMS = 0
	}
	if n := len(snapshot.Tracks); n > 0 {
		duration.MeanMS = float64(duration.TotalMS) / float64(n)
		report.Artwork.DownloadRate = float64(report.Artwork.Downloaded) / float64(n)
	}
	report.Duration = duration

	if featureSum.TrackCount > 0 {
		n := float64(featureSum.TrackCount)
		report.Features = &FeatureMeans{
			TrackCount:       featureSum.TrackCount,
			Danceability:     featureSum.Danceability / n,
			Energy:           featureSum.Energy / n,
			Valence:          featureSum.Valence / n,
			Acousticness:     featureSum.Acousticness / n,
			Instrumentalness: featureSum.Instrumentalness / n,
			Tempo:            featureSum.Tempo / n,
		}
	}

	report.TopArtists = rank(artists, topN)
	report.TopAlbums = rank(albums, topN)
	report.Decades = rank(decades, len(decades))

	return report
}

// decadeOf buckets a release date by decade, e.g. "1994-06-21" -> "1990s".
// Dates without a parseable year land in "unknown".
func decadeOf(releaseDate string) string {
	if len(releaseDate) < 4 {
		return "unknown"
	}
	year, err := strconv.Atoi(releaseDate[:4])
	if err != nil || year < 1000 {
		return "unknown"
	}
	return fmt.Sprintf("%ds", year/10*10)
}

// rank converts a count map into a listing sorted by count descending, then
// name ascending, truncated to topN rows.
func rank(counts map[string]int, topN int) []NameCount {
	listing := make([]NameCount, 0, len(counts))
	for name, n := range counts {
		listing = append(listing, NameCount{Name: name, Tracks: n})
	}
	sort.Slice(listing, func(i, j int) bool {
		if listing[i].Tracks != listing[j].Tracks {
			return listing[i].Tracks > listing[j].Tracks
		}
		return listing[i].Name < listing[j].Name
	})
	if len(listing) > topN {
		listing = listing[:topN]
	}
	return listing
}
