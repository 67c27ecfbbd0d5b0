package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"playdex/internal/formatter"
	"playdex/internal/shared"
	"playdex/internal/tasks"
	"playdex/internal/ui"
)

// TUI launches the interactive terminal UI for an indexing run.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
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

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/playdex-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	indexer := tasks.NewIndexer(r.catalog, fileLogger, r.indexOptions(cmd))

	model := ui.NewModel(ctx, indexer, playlist)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if model.Err() != nil {
		return model.Err()
	}

	if result := model.Result(); result != nil && result.Snapshot != nil {
		path, err := formatter.WriteSnapshotJSON(result.Snapshot, r.config.Output.DataDir, "")
		if err != nil {
			return err
		}
		r.writePlain("Snapshot: %s\n", path)
	}

	return nil
}

// tuiCommand returns the top-level TUI command for interactive indexing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for an indexing run",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "playlist",
				Aliases: []string{"p"},
				Usage:   "Playlist URL, URI or ID",
			},
			&cli.BoolFlag{
				Name:  "skip-features",
				Usage: "Skip the audio-features stage",
			},
		},
		Action: r.TUI,
	}
}
