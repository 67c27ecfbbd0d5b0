package tasks

import (
	"context"
	"fmt"

	"playdex/internal/models"
	"playdex/internal/shared"
)

// FetchAll walks the playlist's paged track listing and returns the full
// ordered entry list. Every page item consumes one 1-based position index,
// assigned in server order and never reused; malformed items (removed
// tracks, local files, non-track episodes) are logged and dropped without
// halting pagination, leaving a gap at their index.
//
// A failure on the first page returns [shared.ErrUpstreamUnavailable]. A
// failure mid-pagination returns the entries collected so far together with
// [shared.ErrPaginationInterrupted]; the caller decides whether to tolerate
// the partial result. An empty playlist yields an empty slice and no error.
//
// The second return value is the number of malformed items skipped.
func (ix *Indexer) FetchAll(ctx context.Context, playlistID string, progress chan<- ProgressUpdate) ([]models.RawTrackEntry, int, error) {
	var entries []models.RawTrackEntry

	position := 0
	skipped := 0
	offset := 0

	for {
		if err := ix.wait(ctx); err != nil {
			return entries, skipped, fmt.Errorf("%w: %v", shared.ErrPaginationInterrupted, err)
		}

		reqCtx, cancel := context.WithTimeout(ctx, ix.opts.RequestTimeout)
		page, err := ix.catalog.PlaylistTracksPage(reqCtx, playlistID, ix.opts.PageSize, offset)
		cancel()

		if err != nil {
			if offset == 0 {
				return nil, 0, fmt.Errorf("%w: first page: %v", shared.ErrUpstreamUnavailable, err)
			}
			return entries, skipped, fmt.Errorf("%w: at offset %d: %v", shared.ErrPaginationInterrupted, offset, err)
		}

		if len(page.Items) == 0 {
			break
		}

		for _, item := range page.Items {
			position++
			if item.Entry == nil {
				skipped++
				ix.logger.Warn("skipping playlist item", "position", position, "reason", item.Reason)
				continue
			}
			entry := *item.Entry
			entry.Index = position
			entries = append(entries, entry)
		}

		ix.sendProgress(progress, fetchPageUpdate(position, page.Total))

		// The server signals the last page with an absent next cursor; a
		// short page means the same thing.
		if page.Next == nil || len(page.Items) < ix.opts.PageSize {
			break
		}
		offset += ix.opts.PageSize
	}

	return entries, skipped, nil
}
