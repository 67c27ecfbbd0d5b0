// package formatter renders playlist snapshots to files in various formats
// (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"playdex/internal/models"
	"playdex/internal/shared"
)

// SnapshotFilename builds the default snapshot filename for a playlist,
// e.g. spotify_playlist_37i9dQZF1DXcBWIGoYBM5M_20260825_143000.json.
// Apple Music snapshots use the bare playlist_ prefix; the pl.-prefixed ID
// keeps the two families distinguishable by glob.
func SnapshotFilename(provider, playlistID string, now time.Time) string {
	prefix := "spotify_playlist_"
	if provider == "apple_music" {
		prefix = "playlist_"
	}
	return fmt.Sprintf("%s%s_%s.json", prefix, playlistID, now.Format("20060102_150405"))
}

// WriteSnapshotJSON writes the snapshot as pretty-printed JSON into dir,
// creating it if needed. An empty filename selects the default naming scheme.
// Returns the path of the written file.
func WriteSnapshotJSON(snapshot *models.PlaylistSnapshot, dir, filename string) (string, error) {
	if filename == "" {
		meta := snapshot.PlaylistMetadata
		filename = SnapshotFilename(meta.Provider, meta.ID, time.Now())
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	data, err := shared.MarshalJSON(snapshot, true)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot file: %w", err)
	}

	return path, nil
}

// ExportToCSV converts a snapshot's track table to CSV with columns:
// Index, ID, Name, Artist, Album, Duration, Explicit, Popularity, ArtworkStatus
func ExportToCSV(snapshot *models.PlaylistSnapshot) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Index", "ID", "Name", "Artist", "Album", "Duration", "Explicit", "Popularity", "ArtworkStatus"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range snapshot.Tracks {
		popularity := ""
		if track.Popularity != nil {
			popularity = strconv.Itoa(*track.Popularity)
		}
		record := []string{
			strconv.Itoa(track.Index),
			track.ID,
			track.Name,
			track.ArtistName,
			track.AlbumName,
			shared.FormatDuration(track.DurationMS),
			strconv.FormatBool(track.Explicit),
			popularity,
			string(track.ArtworkStatus),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a snapshot to a Markdown report with a summary
// section and a numbered track listing. Downloaded artwork is linked by its
// local path.
func ExportToMarkdown(snapshot *models.PlaylistSnapshot) ([]byte, error) {
	var buf bytes.Buffer
	meta := snapshot.PlaylistMetadata
	summary := snapshot.Summary

	buf.WriteString(fmt.Sprintf("# %s\n\n", meta.Name))

	if meta.Description != "" {
		buf.WriteString(fmt.Sprintf("**Description**: %s\n\n", meta.Description))
	}
	if meta.Owner != "" {
		buf.WriteString(fmt.Sprintf("**Owner**: %s\n", meta.Owner))
	}
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n", summary.TotalTracks))
	buf.WriteString(fmt.Sprintf("**Duration**: %s (%.2f hours)\n", shared.FormatDuration(summary.TotalDurationMS), summary.TotalDurationHours))
	buf.WriteString(fmt.Sprintf("**Unique artists**: %d\n", summary.UniqueArtists))
	if summary.AveragePopularity != nil {
		buf.WriteString(fmt.Sprintf("**Average popularity**: %.1f\n", *summary.AveragePopularity))
	}
	buf.WriteString(fmt.Sprintf("**Indexed at**: %s\n\n", summary.IndexedAt))

	buf.WriteString("## Tracks\n\n")
	for _, track := range snapshot.Tracks {
		duration := shared.FormatDuration(track.DurationMS)
		albumPart := ""
		if track.AlbumName != "" {
			albumPart = fmt.Sprintf(" (%s)", track.AlbumName)
		}
		artworkPart := ""
		if track.ArtworkLocalPath != nil {
			artworkPart = fmt.Sprintf(" — [artwork](%s)", *track.ArtworkLocalPath)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]%s\n", track.Index, track.ArtistName, track.Name, albumPart, duration, artworkPart))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a snapshot to plain text format
func ExportToText(snapshot *models.PlaylistSnapshot) ([]byte, error) {
	var buf bytes.Buffer
	meta := snapshot.PlaylistMetadata

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", meta.Name))
	if meta.Description != "" {
		buf.WriteString(fmt.Sprintf("Description: %s\n", meta.Description))
	}
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", snapshot.Summary.TotalTracks))

	for _, track := range snapshot.Tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", track.Index, track.ArtistName, track.Name))
	}

	return buf.Bytes(), nil
}

// WriteExport renders the snapshot in the requested format ("csv",
// "markdown" or "text") next to the JSON snapshot. The base filename is
// derived from jsonPath so companion files sort together.
func WriteExport(snapshot *models.PlaylistSnapshot, format, jsonPath string) (string, error) {
	base := jsonPath[:len(jsonPath)-len(filepath.Ext(jsonPath))]

	var data []byte
	var path string
	var err error

	switch format {
	case "csv":
		data, err = ExportToCSV(snapshot)
		path = base + ".csv"
	case "markdown", "md":
		data, err = ExportToMarkdown(snapshot)
		path = base + ".md"
	case "text", "txt":
		data, err = ExportToText(snapshot)
		path = base + ".txt"
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidInput, format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to render %s export: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s export: %w", format, err)
	}

	return path, nil
}
