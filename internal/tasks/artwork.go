package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"playdex/internal/models"
	"playdex/internal/shared"
)

type artworkJob struct {
	pos   int // Slot in the records slice
	track models.EnrichedTrack
	path  string // Derived destination path
	url   string // Chosen artwork URL ("" means skip)
}

type artworkResult struct {
	pos    int
	record models.ArtworkRecord
}

// MaterializeAll downloads artwork for every track into destDir and returns
// one ArtworkRecord per track, index-aligned with the input. Tracks without
// an artwork URL are skipped without a network call. Downloads run on a
// bounded worker pool; each worker writes a distinct file path, so no
// locking is needed beyond creating the directory up front.
func (ix *Indexer) MaterializeAll(ctx context.Context, tracks []models.EnrichedTrack, destDir string, progress chan<- ProgressUpdate) ([]models.ArtworkRecord, error) {
	records := make([]models.ArtworkRecord, len(tracks))
	if len(tracks) == 0 {
		return records, nil
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create artwork directory: %w", err)
	}

	pad := indexPadWidth(tracks)
	client := ix.newArtworkClient()

	jobs := make(chan artworkJob, len(tracks))
	results := make(chan artworkResult, len(tracks))

	var wg sync.WaitGroup
	for i := 0; i < ix.opts.ArtworkWorkers; i++ {
		wg.Add(1)
		go ix.artworkWorker(ctx, &wg, client, jobs, results)
	}

	ix.sendProgress(progress, artworkStartUpdate(len(tracks)))
	for i, track := range tracks {
		jobs <- artworkJob{
			pos:   i,
			track: track,
			path:  filepath.Join(destDir, ix.artworkFilename(track, pad)),
			url:   track.BestArtworkURL(),
		}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		records[res.pos] = res.record
		ix.sendProgress(progress, artworkTrackUpdate(
			completed, len(tracks), tracks[res.pos].Name, string(res.record.Status)))
	}

	if err := ctx.Err(); err != nil {
		return records, err
	}
	return records, nil
}

// newArtworkClient builds a resty client with bounded exponential backoff:
// retries on transport errors and 5xx responses only.
func (ix *Indexer) newArtworkClient() *resty.Client {
	return resty.New().
		SetTimeout(ix.opts.RequestTimeout).
		SetRetryCount(ix.opts.ArtworkRetries - 1).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})
}

// artworkWorker consumes jobs and materializes one artwork file per job.
func (ix *Indexer) artworkWorker(ctx context.Context, wg *sync.WaitGroup, client *resty.Client, jobs <-chan artworkJob, results chan<- artworkResult) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			results <- artworkResult{pos: job.pos, record: models.ArtworkRecord{
				Index:     job.track.Index,
				SourceURL: job.url,
				Status:    models.ArtworkFailed,
				Err:       ctx.Err(),
			}}
			continue
		default:
		}

		results <- artworkResult{pos: job.pos, record: ix.materializeOne(ctx, client, job)}
	}
}

// materializeOne resolves one track's artwork to a local file.
func (ix *Indexer) materializeOne(ctx context.Context, client *resty.Client, job artworkJob) models.ArtworkRecord {
	record := models.ArtworkRecord{Index: job.track.Index, SourceURL: job.url}

	if job.url == "" {
		record.Status = models.ArtworkSkipped
		return record
	}

	if !ix.opts.ForceArtwork {
		if _, err := os.Stat(job.path); err == nil {
			ix.logger.Debug("artwork already exists, skipping download", "path", job.path)
			record.Status = models.ArtworkDownloaded
			record.LocalPath = job.path
			return record
		}
	}

	if err := ix.downloadArtwork(ctx, client, job.url, job.path); err != nil {
		ix.logger.Warn("artwork download failed", "index", job.track.Index, "url", job.url, "error", err)
		record.Status = models.ArtworkFailed
		record.Err = err
		return record
	}

	record.Status = models.ArtworkDownloaded
	record.LocalPath = job.path
	return record
}

// downloadArtwork fetches the image and writes it to path. The body lands
// in a temp file first and is renamed on completion, so a cancelled or
// failed download never leaves a partial file at the final path.
func (ix *Indexer) downloadArtwork(ctx context.Context, client *resty.Client, url, path string) error {
	resp, err := client.R().SetContext(ctx).Get(url)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrArtworkDownloadFailed, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: status %d", shared.ErrArtworkDownloadFailed, resp.StatusCode())
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, resp.Body(), 0644); err != nil {
		return fmt.Errorf("%w: write: %v", shared.ErrArtworkDownloadFailed, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: rename: %v", shared.ErrArtworkDownloadFailed, err)
	}
	return nil
}

// artworkFilename derives the deterministic, collision-free filename for a
// track: zero-padded position index, sanitized artist and track name,
// bounded stem length. Zero-padding is sized to the playlist so lexical
// file order matches playlist order.
func (ix *Indexer) artworkFilename(track models.EnrichedTrack, pad int) string {
	base := fmt.Sprintf("%0*d_%s_%s", pad, track.Index, track.ArtistName, track.Name)
	return shared.SanitizeFilename(base, ix.opts.FilenameMaxLen) + ".jpg"
}

// indexPadWidth returns the zero-pad width covering the widest position
// index present, with a floor of three digits.
func indexPadWidth(tracks []models.EnrichedTrack) int {
	maxIndex := 0
	for _, t := range tracks {
		if t.Index > maxIndex {
			maxIndex = t.Index
		}
	}
	if width := len(strconv.Itoa(maxIndex)); width > 3 {
		return width
	}
	return 3
}
