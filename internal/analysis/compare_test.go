package analysis

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"playdex/internal/models"
	"playdex/internal/shared"
	th "playdex/internal/testing"
)

func writeSnapshotFixture(t *testing.T, dir, filename, provider, name string, trackCount int) {
	t.Helper()

	snapshot := &models.PlaylistSnapshot{
		PlaylistMetadata: models.PlaylistMetadata{
			Provider: provider,
			ID:       "fixture",
			Name:     name,
		},
		Summary: models.Summary{TotalTracks: trackCount},
	}
	data, err := shared.MarshalJSON(snapshot, true)
	if err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
}

func TestComparePlatforms(t *testing.T) {
	t.Run("counts and samples per provider", func(t *testing.T) {
		dir := t.TempDir()
		writeSnapshotFixture(t, dir, "spotify_playlist_pl1_20260820_100000.json", "spotify", "Old Mix", 10)
		writeSnapshotFixture(t, dir, "spotify_playlist_pl1_20260825_100000.json", "spotify", "New Mix", 12)
		writeSnapshotFixture(t, dir, "playlist_pl.u-abc_20260825_100000.json", "apple_music", "Morning Mix", 25)

		comparison, err := ComparePlatforms(dir)
		if err != nil {
			t.Fatalf("ComparePlatforms() error = %v", err)
		}

		if comparison.SpotifySnapshots != 2 {
			t.Errorf("expected 2 spotify snapshots, got %d", comparison.SpotifySnapshots)
		}
		if comparison.AppleMusicSnapshots != 1 {
			t.Errorf("expected 1 apple music snapshot, got %d", comparison.AppleMusicSnapshots)
		}

		if comparison.Spotify == nil || comparison.Spotify.PlaylistName != "New Mix" {
			t.Errorf("expected newest spotify sample 'New Mix', got %+v", comparison.Spotify)
		}
		if comparison.AppleMusic == nil || comparison.AppleMusic.TrackCount != 25 {
			t.Errorf("unexpected apple music sample %+v", comparison.AppleMusic)
		}
	})

	t.Run("apple glob does not match spotify files", func(t *testing.T) {
		dir := t.TempDir()
		writeSnapshotFixture(t, dir, "spotify_playlist_pl1_20260825_100000.json", "spotify", "Mix", 5)

		comparison, err := ComparePlatforms(dir)
		if err != nil {
			t.Fatalf("ComparePlatforms() error = %v", err)
		}
		if comparison.AppleMusicSnapshots != 0 {
			t.Errorf("expected no apple music snapshots, got %d", comparison.AppleMusicSnapshots)
		}
		if comparison.AppleMusic != nil {
			t.Errorf("expected no apple music sample, got %+v", comparison.AppleMusic)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := ComparePlatforms(filepath.Join(t.TempDir(), "absent"))
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("unparsable snapshot is counted but skipped as sample", func(t *testing.T) {
		dir := t.TempDir()
		broken := filepath.Join(dir, "spotify_playlist_pl1_20260825_100000.json")
		if err := os.WriteFile(broken, []byte("{not json"), 0644); err != nil {
			t.Fatalf("failed to write broken fixture: %v", err)
		}
		th.AssertFileExists(t, broken)

		comparison, err := ComparePlatforms(dir)
		if err != nil {
			t.Fatalf("ComparePlatforms() error = %v", err)
		}
		if comparison.SpotifySnapshots != 1 {
			t.Errorf("expected broken snapshot to be counted, got %d", comparison.SpotifySnapshots)
		}
		if comparison.Spotify != nil {
			t.Errorf("expected no sample from a broken snapshot, got %+v", comparison.Spotify)
		}
	})
}

func TestRenderComparison(t *testing.T) {
	dir := t.TempDir()
	writeSnapshotFixture(t, dir, "spotify_playlist_pl1_20260825_100000.json", "spotify", "Mix", 12)
	writeSnapshotFixture(t, dir, "playlist_pl.u-abc_20260825_100000.json", "apple_music", "Morning Mix", 25)

	comparison, err := ComparePlatforms(dir)
	if err != nil {
		t.Fatalf("ComparePlatforms() error = %v", err)
	}

	output := string(RenderComparison(comparison))

	for _, want := range []string{
		"Spotify snapshots: 1",
		"Apple Music snapshots: 1",
		"Audio features",
		"ISRC codes",
		"Latest Spotify snapshot: Mix (12 tracks)",
		"Latest Apple Music snapshot: Morning Mix (25 tracks)",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("comparison output missing %q, got:\n%s", want, output)
		}
	}
}
