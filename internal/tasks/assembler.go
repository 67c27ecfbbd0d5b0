package tasks

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"playdex/internal/models"
	"playdex/internal/shared"
)

// Assemble zips enriched tracks with their artwork records into the final
// snapshot and computes summary statistics in a single traversal.
//
// Tracks and artwork must be 1:1 and index-aligned; a mismatch is a
// programming-contract violation between pipeline stages and fails with
// [shared.ErrAssemblyInvariant].
func Assemble(meta models.PlaylistMetadata, tracks []models.EnrichedTrack, artwork []models.ArtworkRecord, logger *log.Logger) (*models.PlaylistSnapshot, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	if len(tracks) != len(artwork) {
		return nil, fmt.Errorf("%w: %d tracks vs %d artwork records",
			shared.ErrAssemblyInvariant, len(tracks), len(artwork))
	}

	summary := models.Summary{TotalTracks: len(tracks)}

	primaryArtists := make(map[string]bool)
	allArtists := make(map[string]bool)
	albums := make(map[string]bool)
	genres := make(map[string]bool)
	popularitySum := 0
	popularityCount := 0

	records := make([]models.TrackRecord, 0, len(tracks))
	for i, track := range tracks {
		art := artwork[i]
		if art.Index != track.Index {
			return nil, fmt.Errorf("%w: artwork record %d has index %d, track has %d",
				shared.ErrAssemblyInvariant, i, art.Index, track.Index)
		}

		if track.DurationMS == 0 {
			logger.Warn("track reports no duration, counting as 0", "index", track.Index, "name", track.Name)
		}
		summary.TotalDurationMS += track.DurationMS

		if track.ArtistName != "" {
			primaryArtists[track.ArtistName] = true
		}
		for _, name := range track.AllArtists {
			if name != "" {
				allArtists[name] = true
			}
		}
		if track.AlbumName != "" {
			albums[track.AlbumName] = true
		}
		for _, genre := range track.Genres {
			if genre != "" {
				genres[genre] = true
			}
		}
		if track.Popularity != nil {
			popularitySum += *track.Popularity
			popularityCount++
		}
		if track.Explicit {
			summary.ExplicitTracks++
		}
		if track.PreviewURL != "" {
			summary.TracksWithPreview++
		}

		switch art.Status {
		case models.ArtworkDownloaded:
			summary.ArtworkDownloaded++
		case models.ArtworkFailed:
			summary.ArtworkFailed++
		default:
			summary.ArtworkSkipped++
		}

		records = append(records, buildTrackRecord(track, art))
	}

	summary.TotalDurationHours = float64(summary.TotalDurationMS) / (1000 * 60 * 60)
	summary.UniqueArtists = len(primaryArtists)
	summary.UniqueAllArtists = len(allArtists)
	summary.UniqueAlbums = len(albums)
	if popularityCount > 0 {
		avg := float64(popularitySum) / float64(popularityCount)
		summary.AveragePopularity = &avg
	}
	if len(genres) > 0 {
		for genre := range genres {
			summary.Genres = append(summary.Genres, genre)
		}
		sort.Strings(summary.Genres)
	}
	summary.IndexedAt = time.Now().UTC().Format(time.RFC3339)

	return &models.PlaylistSnapshot{
		PlaylistMetadata: meta,
		Tracks:           records,
		Summary:          summary,
	}, nil
}

func buildTrackRecord(track models.EnrichedTrack, art models.ArtworkRecord) models.TrackRecord {
	var localPath *string
	if art.Status == models.ArtworkDownloaded && art.LocalPath != "" {
		p := art.LocalPath
		localPath = &p
	}

	status := art.Status
	if status == "" {
		status = models.ArtworkSkipped
	}

	return models.TrackRecord{
		Index:                track.Index,
		ID:                   track.ID,
		Name:                 track.Name,
		ArtistName:           track.ArtistName,
		AllArtists:           track.AllArtists,
		AlbumName:            track.AlbumName,
		AlbumID:              track.AlbumID,
		DurationMS:           track.DurationMS,
		Explicit:             track.Explicit,
		Popularity:           track.Popularity,
		TrackNumber:          track.TrackNumber,
		DiscNumber:           track.DiscNumber,
		ReleaseDate:          track.ReleaseDate,
		ReleaseDatePrecision: track.ReleaseDatePrecision,
		AlbumType:            track.AlbumType,
		AlbumTotalTracks:     track.AlbumTotalTracks,
		Genres:               track.Genres,
		ISRC:                 track.ISRC,
		PreviewURL:           track.PreviewURL,
		SpotifyURL:           track.SpotifyURL,
		AddedAt:              track.AddedAt,
		AddedBy:              track.AddedBy,
		ArtworkURL:           art.SourceURL,
		ArtworkLocalPath:     localPath,
		ArtworkStatus:        status,
		AudioFeatures:        track.AudioFeatures,
	}
}
