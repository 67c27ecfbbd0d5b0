package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"playdex/internal/services"
	"playdex/internal/shared"
)

// PlaylistInfo fetches and prints playlist-level metadata without indexing.
func (r *Runner) PlaylistInfo(ctx context.Context, cmd *cli.Command) error {
	raw := cmd.String("id")
	if raw == "" {
		raw = cmd.StringArg("playlist")
	}
	if raw == "" {
		return fmt.Errorf("%w: playlist URL or ID is required", shared.ErrMissingArgument)
	}

	playlistID, err := services.ExtractPlaylistID(raw)
	if err != nil {
		return err
	}

	if err := r.requireCatalog(ctx); err != nil {
		return err
	}

	meta, err := r.catalog.GetPlaylist(ctx, playlistID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(meta, cmd.Bool("pretty"))
	}

	r.writePlain("Playlist: %s\n", meta.Name)
	r.writePlain("Provider: %s\n", meta.Provider)
	if meta.Description != "" {
		r.writePlain("Description: %s\n", meta.Description)
	}
	r.writePlain("Owner: %s\n", meta.Owner)
	r.writePlain("Tracks: %d\n", meta.TrackCount)
	r.writePlain("Followers: %d\n", meta.FollowerCount)
	url := meta.SpotifyURL
	if url == "" {
		url = meta.URL
	}
	r.writePlain("URL: %s\n", url)

	return nil
}

// playlistCommand handles playlist metadata operations
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Playlist metadata operations",
		Commands: []*cli.Command{
			{
				Name:  "info",
				Usage: "Show playlist metadata without indexing",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "id",
						Usage: "Playlist URL, URI or ID",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.PlaylistInfo,
			},
		},
	}
}
