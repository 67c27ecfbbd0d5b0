package tasks

import "fmt"

// ProgressUpdate represents a progress event during an indexing run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ResolvePlaylist Phase = iota
	FetchPlaylist
	FetchTracks
	EnrichTracks
	DownloadArtwork
	AssembleSnapshot
)

func (p Phase) String() string {
	switch p {
	case ResolvePlaylist:
		return "resolve_playlist"
	case FetchPlaylist:
		return "fetch_playlist"
	case FetchTracks:
		return "fetch_tracks"
	case EnrichTracks:
		return "enrich_tracks"
	case DownloadArtwork:
		return "download_artwork"
	case AssembleSnapshot:
		return "assemble_snapshot"
	default:
		return ""
	}
}

func resolvedPlaylistUpdate(raw, id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolvePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Resolved %s to playlist ID %s", raw, id),
	}
}

func fetchPlaylistUpdate(name string, trackCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist: %s (%d tracks)", name, trackCount),
	}
}

func fetchPageUpdate(fetched, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    fetched,
		Total:   total,
		Message: fmt.Sprintf("Retrieved %d/%d tracks...", fetched, total),
	}
}

func enrichBatchUpdate(batch, totalBatches int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EnrichTracks,
		Step:    batch,
		Total:   totalBatches,
		Message: fmt.Sprintf("Fetching audio features (batch %d/%d)...", batch, totalBatches),
	}
}

func artworkStartUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadArtwork,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Downloading artwork for %d tracks...", total),
	}
}

func artworkTrackUpdate(step, total int, name string, status string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadArtwork,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s: %s", step, total, name, status),
	}
}

func assembleUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   AssembleSnapshot,
		Step:    1,
		Total:   1,
		Message: "Assembling snapshot...",
	}
}
