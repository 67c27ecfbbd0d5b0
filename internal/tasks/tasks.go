package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"playdex/internal/models"
	"playdex/internal/services"
	"playdex/internal/shared"
)

// Options contains configuration for an indexing run.
type Options struct {
	PageSize       int           // Playlist page size (default 100, capped by the API)
	BatchSize      int           // Audio-features batch size (default 100, capped by the API)
	RateLimit      float64       // Upstream requests per second (default 5)
	ArtworkDir     string        // Destination directory for artwork files
	ArtworkWorkers int           // Concurrent artwork downloads (default 4, capped at 8)
	ArtworkRetries int           // Download attempts per artwork (default 3)
	RequestTimeout time.Duration // Per-request timeout (default 30s)
	FilenameMaxLen int           // Filename stem length bound (default 100)
	ForceArtwork   bool          // Re-download artwork even when the file exists
	SkipFeatures   bool          // Skip the audio-features enrichment stage
}

// withDefaults fills unset options and clamps out-of-range values.
func (o Options) withDefaults() Options {
	if o.PageSize <= 0 || o.PageSize > services.MaxPageSize {
		o.PageSize = services.MaxPageSize
	}
	if o.BatchSize <= 0 || o.BatchSize > services.MaxFeatureBatch {
		o.BatchSize = services.MaxFeatureBatch
	}
	if o.RateLimit <= 0 {
		o.RateLimit = 5.0
	}
	if o.ArtworkDir == "" {
		o.ArtworkDir = "playlist_images"
	}
	if o.ArtworkWorkers <= 0 {
		o.ArtworkWorkers = 4
	}
	if o.ArtworkWorkers > 8 {
		o.ArtworkWorkers = 8
	}
	if o.ArtworkRetries <= 0 {
		o.ArtworkRetries = 3
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 30 * time.Second
	}
	if o.FilenameMaxLen <= 0 {
		o.FilenameMaxLen = 100
	}
	return o
}

// RunResult contains everything produced by one indexing run, including the
// non-fatal failures that were downgraded along the way.
type RunResult struct {
	RunID          string                   // Unique ID for this run
	Handle         models.PlaylistHandle    // Raw reference + resolved ID
	Snapshot       *models.PlaylistSnapshot // Assembled snapshot (always set on success)
	SkippedEntries int                      // Page items dropped as malformed
	FailedBatches  int                      // Enrichment batches that failed outright
	PaginationErr  error                    // Set when pagination was interrupted mid-run
}

// Indexer orchestrates one playlist indexing run against a [services.Catalog].
type Indexer struct {
	catalog services.Catalog
	limiter *rate.Limiter
	logger  *log.Logger
	opts    Options
}

// NewIndexer creates an Indexer with the provided catalog and options.
func NewIndexer(catalog services.Catalog, logger *log.Logger, opts Options) *Indexer {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	opts = opts.withDefaults()

	return &Indexer{
		catalog: catalog,
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		logger:  logger,
		opts:    opts,
	}
}

// Options returns the effective (defaulted) options for this indexer.
func (ix *Indexer) Options() Options {
	return ix.opts
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (ix *Indexer) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// wait blocks on the shared rate limiter, bounding the request rate of the
// sequential fetch and enrich stages.
func (ix *Indexer) wait(ctx context.Context) error {
	return ix.limiter.Wait(ctx)
}

// Run executes a full indexing run: resolve the playlist reference, fetch
// metadata, paginate the track listing, enrich with audio features,
// materialize artwork, and assemble the snapshot.
//
// Per-item failures never abort the run; a snapshot is produced whenever the
// playlist itself can be fetched. The returned RunResult records downgraded
// failures so callers can report them.
func (ix *Indexer) Run(ctx context.Context, rawPlaylist string, progress chan<- ProgressUpdate) (*RunResult, error) {
	if ix.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrAPIRequest)
	}

	result := &RunResult{RunID: shared.GenerateID()}

	playlistID, err := services.ExtractPlaylistID(rawPlaylist)
	if err != nil {
		return nil, err
	}
	result.Handle = models.PlaylistHandle{Raw: rawPlaylist, ID: playlistID}
	ix.sendProgress(progress, resolvedPlaylistUpdate(rawPlaylist, playlistID))

	logger := shared.WithLogger(ix.logger, "run_id", result.RunID, "playlist_id", playlistID)

	meta, err := ix.fetchMetadata(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	meta.URL = rawPlaylist
	ix.sendProgress(progress, fetchPlaylistUpdate(meta.Name, meta.TrackCount))
	logger.Info("indexing playlist", "name", meta.Name, "tracks", meta.TrackCount)

	entries, skipped, err := ix.FetchAll(ctx, playlistID, progress)
	result.SkippedEntries = skipped
	if err != nil {
		if !errors.Is(err, shared.ErrPaginationInterrupted) {
			return nil, err
		}
		// Partial-result tolerance: keep what was fetched and keep going.
		result.PaginationErr = err
		logger.Warn("pagination interrupted, continuing with partial track list",
			"fetched", len(entries), "error", err)
	}

	var features map[string]*models.AudioFeatures
	if ix.opts.SkipFeatures {
		logger.Info("skipping audio features stage")
	} else {
		var failedBatches int
		features, failedBatches = ix.Enrich(ctx, entries, progress)
		result.FailedBatches = failedBatches
	}

	tracks := make([]models.EnrichedTrack, len(entries))
	for i, entry := range entries {
		tracks[i] = models.EnrichedTrack{RawTrackEntry: entry, AudioFeatures: features[entry.ID]}
	}

	records, err := ix.MaterializeAll(ctx, tracks, ix.opts.ArtworkDir, progress)
	if err != nil {
		return nil, err
	}

	ix.sendProgress(progress, assembleUpdate())
	snapshot, err := Assemble(*meta, tracks, records, logger)
	if err != nil {
		return nil, err
	}
	result.Snapshot = snapshot

	logger.Info("run complete",
		"tracks", snapshot.Summary.TotalTracks,
		"skipped_entries", result.SkippedEntries,
		"failed_batches", result.FailedBatches,
		"artwork_downloaded", snapshot.Summary.ArtworkDownloaded,
		"artwork_failed", snapshot.Summary.ArtworkFailed)

	return result, nil
}

// fetchMetadata retrieves playlist-level metadata. A failure here is the
// systemic "cannot reach upstream at all" case and aborts the run.
func (ix *Indexer) fetchMetadata(ctx context.Context, playlistID string) (*models.PlaylistMetadata, error) {
	if err := ix.wait(ctx); err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, ix.opts.RequestTimeout)
	defer cancel()

	meta, err := ix.catalog.GetPlaylist(reqCtx, playlistID)
	if err != nil {
		if errors.Is(err, shared.ErrPlaylistNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrUpstreamUnavailable, err)
	}
	return meta, nil
}
