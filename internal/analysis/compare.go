package analysis

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"playdex/internal/shared"
)

// Snapshot filename families per provider. Apple Music catalog IDs carry
// the pl. prefix, which keeps the bare playlist_ glob from matching
// Spotify snapshots.
const (
	spotifySnapshotGlob    = "spotify_playlist_*.json"
	appleMusicSnapshotGlob = "playlist_pl.*.json"
)

// PlatformSample describes the newest snapshot found for one provider.
type PlatformSample struct {
	Path         string `json:"path"`
	PlaylistName string `json:"playlist_name"`
	TrackCount   int    `json:"track_count"`
}

// Capability is one row of the provider capability matrix.
type Capability struct {
	Name       string `json:"name"`
	Spotify    bool   `json:"spotify"`
	AppleMusic bool   `json:"apple_music"`
}

// PlatformComparison summarizes the snapshots a data directory holds for
// each provider, with a capability matrix of what each upstream exposes.
type PlatformComparison struct {
	DataDir             string          `json:"data_dir"`
	SpotifySnapshots    int             `json:"spotify_snapshots"`
	AppleMusicSnapshots int             `json:"apple_music_snapshots"`
	Spotify             *PlatformSample `json:"spotify,omitempty"`
	AppleMusic          *PlatformSample `json:"apple_music,omitempty"`
	Capabilities        []Capability    `json:"capabilities"`
}

// ComparePlatforms scans dataDir for snapshots of both providers and builds
// the comparison. Snapshot files that fail to parse are counted but yield no
// sample.
func ComparePlatforms(dataDir string) (*PlatformComparison, error) {
	if _, err := os.Stat(dataDir); err != nil {
		return nil, fmt.Errorf("%w: no snapshot directory at %s", shared.ErrInvalidInput, dataDir)
	}

	spotifyFiles, err := filepath.Glob(filepath.Join(dataDir, spotifySnapshotGlob))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dataDir, err)
	}
	appleFiles, err := filepath.Glob(filepath.Join(dataDir, appleMusicSnapshotGlob))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dataDir, err)
	}

	comparison := &PlatformComparison{
		DataDir:             dataDir,
		SpotifySnapshots:    len(spotifyFiles),
		AppleMusicSnapshots: len(appleFiles),
		Capabilities:        capabilityMatrix(),
	}
	comparison.Spotify = latestSample(spotifyFiles)
	comparison.AppleMusic = latestSample(appleFiles)

	return comparison, nil
}

// latestSample loads the newest snapshot of a filename family. Timestamped
// names sort chronologically, so the lexically last path is the newest.
func latestSample(paths []string) *PlatformSample {
	sort.Strings(paths)
	for i := len(paths) - 1; i >= 0; i-- {
		snapshot, err := LoadSnapshot(paths[i])
		if err != nil {
			continue
		}
		return &PlatformSample{
			Path:         paths[i],
			PlaylistName: snapshot.PlaylistMetadata.Name,
			TrackCount:   snapshot.Summary.TotalTracks,
		}
	}
	return nil
}

func capabilityMatrix() []Capability {
	return []Capability{
		{Name: "Audio features", Spotify: true, AppleMusic: false},
		{Name: "Popularity scores", Spotify: true, AppleMusic: false},
		{Name: "ISRC codes", Spotify: false, AppleMusic: true},
		{Name: "Genre names", Spotify: false, AppleMusic: true},
		{Name: "Preview URLs", Spotify: true, AppleMusic: true},
		{Name: "High-res artwork", Spotify: true, AppleMusic: true},
	}
}

// RenderComparison renders the comparison as plain text.
func RenderComparison(comparison *PlatformComparison) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Platform comparison (%s)\n\n", comparison.DataDir))
	buf.WriteString(fmt.Sprintf("Spotify snapshots: %d\n", comparison.SpotifySnapshots))
	buf.WriteString(fmt.Sprintf("Apple Music snapshots: %d\n\n", comparison.AppleMusicSnapshots))

	buf.WriteString(fmt.Sprintf("%-20s %-8s %s\n", "Capability", "Spotify", "Apple Music"))
	for _, c := range comparison.Capabilities {
		buf.WriteString(fmt.Sprintf("%-20s %-8s %s\n", c.Name, yesNo(c.Spotify), yesNo(c.AppleMusic)))
	}

	if comparison.Spotify != nil || comparison.AppleMusic != nil {
		buf.WriteString("\n")
	}
	if comparison.Spotify != nil {
		buf.WriteString(fmt.Sprintf("Latest Spotify snapshot: %s (%d tracks)\n",
			comparison.Spotify.PlaylistName, comparison.Spotify.TrackCount))
	}
	if comparison.AppleMusic != nil {
		buf.WriteString(fmt.Sprintf("Latest Apple Music snapshot: %s (%d tracks)\n",
			comparison.AppleMusic.PlaylistName, comparison.AppleMusic.TrackCount))
	}

	return buf.Bytes()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
