package tasks

import (
	"context"

	"playdex/internal/models"
)

// Enrich fetches audio features for the given entries in fixed-size batches
// and returns a mapping from track ID to features. The mapping is sparse:
// an absent ID means no features are available, either because the provider
// has none for that track or because the track's batch failed.
//
// Batches are strictly sequential and share the run's rate limiter. A
// failed batch (transport error, non-2xx, malformed payload) marks every ID
// in it absent and the next batch proceeds; one bad batch never drops
// tracks from the final output. The second return value counts failed
// batches.
func (ix *Indexer) Enrich(ctx context.Context, entries []models.RawTrackEntry, progress chan<- ProgressUpdate) (map[string]*models.AudioFeatures, int) {
	features := make(map[string]*models.AudioFeatures)

	// Duplicate IDs (the same song at several positions) collapse to one
	// lookup; the result attaches to every position.
	seen := make(map[string]bool, len(entries))
	var ids []string
	for _, entry := range entries {
		if entry.ID == "" || seen[entry.ID] {
			continue
		}
		seen[entry.ID] = true
		ids = append(ids, entry.ID)
	}

	if len(ids) == 0 {
		return features, 0
	}

	batchSize := ix.opts.BatchSize
	totalBatches := (len(ids) + batchSize - 1) / batchSize
	failedBatches := 0

	for i := 0; i < len(ids); i += batchSize {
		end := min(i+batchSize, len(ids))
		batch := ids[i:end]
		batchNum := i/batchSize + 1

		ix.sendProgress(progress, enrichBatchUpdate(batchNum, totalBatches))

		if err := ix.wait(ctx); err != nil {
			ix.logger.Warn("enrichment stopped", "batch", batchNum, "error", err)
			failedBatches += totalBatches - batchNum + 1
			break
		}

		reqCtx, cancel := context.WithTimeout(ctx, ix.opts.RequestTimeout)
		batchFeatures, err := ix.catalog.AudioFeaturesBatch(reqCtx, batch)
		cancel()

		if err != nil {
			// Affected tracks lose their extended attributes only.
			failedBatches++
			ix.logger.Warn("enrichment batch failed",
				"batch", batchNum, "total_batches", totalBatches, "ids", len(batch), "error", err)
			continue
		}

		for id, f := range batchFeatures {
			features[id] = f
		}
	}

	return features, failedBatches
}
