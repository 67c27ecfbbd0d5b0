package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"playdex/internal/services"
	"playdex/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}
	config.LoadEnvCredentials()

	var catalog services.Catalog
	switch config.Provider {
	case "apple_music":
		if svc, err := services.NewAppleMusicService(
			config.Credentials.AppleMusic.DeveloperToken,
			config.Credentials.AppleMusic.Storefront,
		); err == nil {
			catalog = svc
		}
	default:
		if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
			if svc, err := services.NewSpotifyService(
				config.Credentials.Spotify.ClientID,
				config.Credentials.Spotify.ClientSecret,
			); err == nil {
				catalog = svc
			}
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Catalog: catalog,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "playdex",
		Usage:    "Index Spotify and Apple Music playlists into local JSON snapshots",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
