package analysis

import (
	"bytes"
	"fmt"

	"playdex/internal/shared"
)

// RenderText formats a report for terminal output.
func RenderText(report *Report) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s (%s)\n", report.PlaylistName, report.PlaylistID)
	fmt.Fprintf(&buf, "Tracks: %d\n", report.TrackCount)
	if report.IndexedAt != "" {
		fmt.Fprintf(&buf, "Indexed at: %s\n", report.IndexedAt)
	}

	d := report.Duration
	fmt.Fprintf(&buf, "\nDuration\n")
	fmt.Fprintf(&buf, "  total: %s\n", shared.FormatDuration(d.TotalMS))
	fmt.Fprintf(&buf, "  shortest: %s  longest: %s  mean: %s\n",
		shared.FormatDuration(d.MinMS), shared.FormatDuration(d.MaxMS), shared.FormatDuration(int(d.MeanMS)))

	if len(report.TopArtists) > 0 {
		fmt.Fprintf(&buf, "\nTop artists\n")
		for i, row := range report.TopArtists {
			fmt.Fprintf(&buf, "  %d. %s (%d)\n", i+1, row.Name, row.Tracks)
		}
	}

	if len(report.TopAlbums) > 0 {
		fmt.Fprintf(&buf, "\nTop albums\n")
		for i, row := range report.TopAlbums {
			fmt.Fprintf(&buf, "  %d. %s (%d)\n", i+1, row.Name, row.Tracks)
		}
	}

	if len(report.Decades) > 0 {
		fmt.Fprintf(&buf, "\nDecades\n")
		for _, row := range report.Decades {
			fmt.Fprintf(&buf, "  %s: %d\n", row.Name, row.Tracks)
		}
	}

	if f := report.Features; f != nil {
		fmt.Fprintf(&buf, "\nAudio features (mean over %d tracks)\n", f.TrackCount)
		fmt.Fprintf(&buf, "  danceability: %.3f  energy: %.3f  valence: %.3f\n", f.Danceability, f.Energy, f.Valence)
		fmt.Fprintf(&buf, "  acousticness: %.3f  instrumentalness: %.3f  tempo: %.1f\n", f.Acousticness, f.Instrumentalness, f.Tempo)
	}

	a := report.Artwork
	fmt.Fprintf(&buf, "\nArtwork\n")
	fmt.Fprintf(&buf, "  downloaded: %d  skipped: %d  failed: %d (%.0f%% downloaded)\n",
		a.Downloaded, a.Skipped, a.Failed, a.DownloadRate*100)

	return buf.Bytes()
}
