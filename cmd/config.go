package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"playdex/internal/shared"
)

// ConfigInit writes an example config.toml for the user to fill in.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("created config file", "path", path)
	r.writePlain("Created %s\n", path)
	r.writePlain("Set credentials.spotify.client_id and client_secret, or export SPOTIFY_CLIENT_ID / SPOTIFY_CLIENT_SECRET.\n")
	r.writePlain("For Apple Music, set provider = \"apple_music\" and credentials.apple_music.developer_token (or APPLE_MUSIC_DEVELOPER_TOKEN).\n")

	return nil
}

// ConfigShow prints the effective configuration after env overlay.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	redacted := *r.config
	if redacted.Credentials.Spotify.ClientSecret != "" {
		redacted.Credentials.Spotify.ClientSecret = "********"
	}
	if redacted.Credentials.AppleMusic.DeveloperToken != "" {
		redacted.Credentials.AppleMusic.DeveloperToken = "********"
	}
	return r.writeJSON(redacted, true)
}

// configCommand handles configuration management.
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage configuration",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Create an example config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.ConfigInit,
			},
			{
				Name:   "show",
				Usage:  "Print the effective configuration",
				Action: r.ConfigShow,
			},
		},
	}
}
