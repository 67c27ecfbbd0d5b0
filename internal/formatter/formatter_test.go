package formatter

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"playdex/internal/models"
	th "playdex/internal/testing"
)

func sampleSnapshot() *models.PlaylistSnapshot {
	pop1, pop2 := 80, 60
	avg := 70.0
	local := "playlist_images/001_Artist_One_Song_One.jpg"

	return &models.PlaylistSnapshot{
		PlaylistMetadata: models.PlaylistMetadata{
			Provider:    "spotify",
			ID:          "test123",
			Name:        "Test Playlist",
			Description: "A test playlist",
			Owner:       "Test Owner",
			TrackCount:  2,
		},
		Tracks: []models.TrackRecord{
			{
				Index:            1,
				ID:               "track1",
				Name:             "Song One",
				ArtistName:       "Artist One",
				AlbumName:        "Album One",
				DurationMS:       180000,
				Popularity:       &pop1,
				ArtworkLocalPath: &local,
				ArtworkStatus:    models.ArtworkDownloaded,
			},
			{
				Index:         2,
				ID:            "track2",
				Name:          "Song Two",
				ArtistName:    "Artist Two",
				DurationMS:    240000,
				Explicit:      true,
				Popularity:    &pop2,
				ArtworkStatus: models.ArtworkSkipped,
			},
		},
		Summary: models.Summary{
			TotalTracks:        2,
			TotalDurationMS:    420000,
			TotalDurationHours: 0.1167,
			UniqueArtists:      2,
			UniqueAllArtists:   2,
			UniqueAlbums:       1,
			AveragePopularity:  &avg,
			ExplicitTracks:     1,
			ArtworkDownloaded:  1,
			ArtworkSkipped:     1,
			IndexedAt:          "2026-08-25T14:30:00Z",
		},
	}
}

func TestSnapshotFilename(t *testing.T) {
	now := time.Date(2026, 8, 25, 14, 30, 0, 0, time.UTC)

	got := SnapshotFilename("spotify", "abc123", now)
	want := "spotify_playlist_abc123_20260825_143000.json"
	if got != want {
		t.Errorf("SnapshotFilename() = %s, want %s", got, want)
	}

	got = SnapshotFilename("apple_music", "pl.u-abc123", now)
	want = "playlist_pl.u-abc123_20260825_143000.json"
	if got != want {
		t.Errorf("SnapshotFilename() = %s, want %s", got, want)
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleSnapshot())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Index,ID,Name,Artist,Album,Duration,Explicit,Popularity,ArtworkStatus") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "track1") || !strings.Contains(output, "Song One") {
			t.Errorf("CSV missing track1 data")
		}
		if !strings.Contains(output, "3:00") {
			t.Errorf("CSV missing formatted duration")
		}
		if !strings.Contains(output, "downloaded") || !strings.Contains(output, "skipped") {
			t.Errorf("CSV missing artwork status")
		}
	})

	t.Run("ExportToCSV with absent popularity", func(t *testing.T) {
		snap := sampleSnapshot()
		snap.Tracks[0].Popularity = nil

		data, err := ExportToCSV(snap)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}
		if !strings.Contains(string(data), "1,track1,Song One,Artist One,Album One,3:00,false,,downloaded") {
			t.Errorf("expected empty popularity column, got: %s", data)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleSnapshot())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "# Test Playlist") {
			t.Errorf("Markdown missing title")
		}
		if !strings.Contains(output, "**Description**: A test playlist") {
			t.Errorf("Markdown missing description")
		}
		if !strings.Contains(output, "**Tracks**: 2") {
			t.Errorf("Markdown missing track count")
		}
		if !strings.Contains(output, "**Average popularity**: 70.0") {
			t.Errorf("Markdown missing average popularity")
		}
		if !strings.Contains(output, "## Tracks") {
			t.Errorf("Markdown missing tracks section")
		}
		if !strings.Contains(output, "1. Artist One - Song One (Album One) [3:00]") {
			t.Errorf("Markdown missing track1, got: %s", output)
		}
		if !strings.Contains(output, "[artwork](playlist_images/001_Artist_One_Song_One.jpg)") {
			t.Errorf("Markdown missing artwork link")
		}
		if !strings.Contains(output, "2. Artist Two - Song Two [4:00]") {
			t.Errorf("Markdown missing track2 (no album)")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleSnapshot())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Playlist: Test Playlist") {
			t.Errorf("Text missing playlist name")
		}
		if !strings.Contains(output, "Tracks: 2") {
			t.Errorf("Text missing track count")
		}
		if !strings.Contains(output, "1. Artist One - Song One") {
			t.Errorf("Text missing track1")
		}
		if !strings.Contains(output, "2. Artist Two - Song Two") {
			t.Errorf("Text missing track2")
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteSnapshotJSON", func(t *testing.T) {
		t.Run("WithDefaultFilename", func(t *testing.T) {
			dir := t.TempDir()

			path, err := WriteSnapshotJSON(sampleSnapshot(), dir, "")
			if err != nil {
				t.Fatalf("WriteSnapshotJSON failed: %v", err)
			}

			base := filepath.Base(path)
			if !strings.HasPrefix(base, "spotify_playlist_test123_") || !strings.HasSuffix(base, ".json") {
				t.Errorf("unexpected default filename: %s", base)
			}

			th.AssertFileExists(t, path)

			content := th.MustReadFile(t, path)
			if !strings.Contains(content, `"playlist_metadata"`) {
				t.Errorf("JSON missing playlist_metadata section")
			}
			if !strings.Contains(content, `"total_duration_ms": 420000`) {
				t.Errorf("JSON missing summary, got: %s", content)
			}
			if !strings.Contains(content, `"track1"`) {
				t.Errorf("JSON missing track data")
			}
		})

		t.Run("WithCustomFilename", func(t *testing.T) {
			dir := t.TempDir()

			path, err := WriteSnapshotJSON(sampleSnapshot(), dir, "custom.json")
			if err != nil {
				t.Fatalf("WriteSnapshotJSON failed: %v", err)
			}
			if filepath.Base(path) != "custom.json" {
				t.Errorf("expected custom.json, got %s", filepath.Base(path))
			}
			th.AssertFileExists(t, path)
		})

		t.Run("CreatesOutputDirectory", func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "nested", "out")

			if _, err := WriteSnapshotJSON(sampleSnapshot(), dir, "snap.json"); err != nil {
				t.Fatalf("WriteSnapshotJSON failed: %v", err)
			}
			th.AssertDirExists(t, dir)
		})
	})

	t.Run("WriteExport", func(t *testing.T) {
		formats := []struct {
			format string
			ext    string
			marker string
		}{
			{format: "csv", ext: ".csv", marker: "Index,ID,Name"},
			{format: "markdown", ext: ".md", marker: "# Test Playlist"},
			{format: "text", ext: ".txt", marker: "Playlist: Test Playlist"},
		}

		for _, tt := range formats {
			t.Run(tt.format, func(t *testing.T) {
				dir := t.TempDir()
				jsonPath := filepath.Join(dir, "snap.json")

				path, err := WriteExport(sampleSnapshot(), tt.format, jsonPath)
				if err != nil {
					t.Fatalf("WriteExport failed: %v", err)
				}
				if filepath.Ext(path) != tt.ext {
					t.Errorf("expected extension %s, got %s", tt.ext, filepath.Ext(path))
				}

				content := th.MustReadFile(t, path)
				if !strings.Contains(content, tt.marker) {
					t.Errorf("export missing %q, got: %s", tt.marker, content)
				}
			})
		}

		t.Run("UnknownFormat", func(t *testing.T) {
			_, err := WriteExport(sampleSnapshot(), "yaml", "snap.json")
			if err == nil {
				t.Error("expected error for unknown format")
			}
		})
	})
}
