// Package tasks implements the playlist indexing pipeline.
//
// The core abstraction is [Indexer], which orchestrates one indexing run:
// paginate the playlist's track listing, enrich tracks with audio features
// in bounded batches, materialize artwork files on disk through a worker
// pool, and assemble the final snapshot with summary statistics.
//
// Failure policy follows the smallest-scope rule: per-page, per-batch, and
// per-track failures are downgraded to recorded statuses and the run keeps
// going; only a failed first request aborts the run. Operations emit
// progress updates via channels for non-blocking status reporting to the
// CLI/UI layers.
package tasks
