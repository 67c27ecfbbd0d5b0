package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"playdex/internal/formatter"
	"playdex/internal/shared"
	"playdex/internal/tasks"
)

// Index runs a full indexing pass and writes the snapshot to disk.
func (r *Runner) Index(ctx context.Context, cmd *cli.Command) error {
	playlist := cmd.String("playlist")
	if playlist == "" {
		playlist = cmd.Args().First()
	}
	if playlist == "" {
		return fmt.Errorf("%w: playlist URL or ID is required", shared.ErrMissingArgument)
	}

	if err := r.requireCatalog(ctx); err != nil {
		return err
	}

	indexer := tasks.NewIndexer(r.catalog, r.logger, r.indexOptions(cmd))

	r.writePlain("Indexing %s...\n\n", playlist)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.ResolvePlaylist, tasks.FetchPlaylist:
				r.writePlain("• %s\n", update.Message)
			case tasks.FetchTracks, tasks.EnrichTracks:
				r.writePlain("  %s\n", update.Message)
			case tasks.DownloadArtwork:
				if update.Step == 0 {
					r.writePlain("\n%s\n", update.Message)
				}
			case tasks.AssembleSnapshot:
				r.writePlain("\n%s\n", update.Message)
			}
		}
	}()

	result, err := indexer.Run(ctx, playlist, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	outDir := cmd.String("out")
	if outDir == "" {
		outDir = r.config.Output.DataDir
	}

	path, err := formatter.WriteSnapshotJSON(result.Snapshot, outDir, cmd.String("output-file"))
	if err != nil {
		return err
	}

	format := cmd.String("format")
	if format == "" {
		format = r.config.Output.Format
	}
	var exportPath string
	if format != "" && format != "json" {
		if exportPath, err = formatter.WriteExport(result.Snapshot, format, path); err != nil {
			return err
		}
	}

	summary := result.Snapshot.Summary
	r.writePlainHeader("Indexing Complete!")
	r.writePlain("Playlist: %s\n", result.Snapshot.PlaylistMetadata.Name)
	r.writePlain("Tracks: %d (%s)\n", summary.TotalTracks, shared.FormatDuration(summary.TotalDurationMS))
	r.writePlain("Artwork: %d downloaded, %d skipped, %d failed\n",
		summary.ArtworkDownloaded, summary.ArtworkSkipped, summary.ArtworkFailed)
	r.writePlain("Snapshot: %s\n", path)
	if exportPath != "" {
		r.writePlain("Export: %s\n", exportPath)
	}

	if result.SkippedEntries > 0 {
		r.writePlain("\nSkipped %d malformed playlist entries\n", result.SkippedEntries)
	}
	if result.FailedBatches > 0 {
		r.writePlain("%d audio-feature batches failed; affected tracks carry no features\n", result.FailedBatches)
	}
	if result.PaginationErr != nil {
		r.writePlain("Warning: pagination was interrupted, snapshot is partial: %v\n", result.PaginationErr)
	}

	return nil
}

// indexCommand builds the index command definition.
func indexCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "index",
		Aliases: []string{"idx"},
		Usage:   "Index a playlist into a JSON snapshot with artwork",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "playlist",
				Aliases: []string{"p"},
				Usage:   "Playlist URL, URI or ID",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output directory for the snapshot",
			},
			&cli.StringFlag{
				Name:  "output-file",
				Usage: "Snapshot filename (defaults to a timestamped name)",
			},
			&cli.StringFlag{
				Name:  "artwork-dir",
				Usage: "Directory for downloaded artwork",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Companion export format (csv, markdown, text)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent artwork downloads",
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Audio-features batch size",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Upstream requests per second",
			},
			&cli.BoolFlag{
				Name:  "skip-features",
				Usage: "Skip the audio-features stage",
			},
			&cli.BoolFlag{
				Name:  "force-artwork",
				Usage: "Re-download artwork even when the file exists",
			},
		},
		Action: r.Index,
	}
}
