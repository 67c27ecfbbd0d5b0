package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
// Provider selects the upstream catalog ("spotify" or "apple_music").
type Config struct {
	Provider    string            `toml:"provider"`
	Credentials CredentialsConfig `toml:"credentials"`
	Output      OutputConfig      `toml:"output"`
	Indexer     IndexerConfig     `toml:"indexer"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify    SpotifyConfig    `toml:"spotify"`
	AppleMusic AppleMusicConfig `toml:"apple_music"`
}

// SpotifyConfig contains Spotify API credentials for the client-credentials flow.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// AppleMusicConfig contains the Apple Music API developer token and storefront.
type AppleMusicConfig struct {
	DeveloperToken string `toml:"developer_token"`
	Storefront     string `toml:"storefront"`
}

// OutputConfig contains snapshot and artwork destination settings.
type OutputConfig struct {
	DataDir    string `toml:"data_dir"`
	ArtworkDir string `toml:"artwork_dir"`
	Format     string `toml:"format"`
}

// IndexerConfig contains pipeline tuning knobs.
type IndexerConfig struct {
	PageSize              int     `toml:"page_size"`
	BatchSize             int     `toml:"batch_size"`
	RequestsPerSecond     float64 `toml:"requests_per_second"`
	ArtworkWorkers        int     `toml:"artwork_workers"`
	ArtworkRetries        int     `toml:"artwork_retries"`
	RequestTimeoutSeconds int     `toml:"request_timeout_seconds"`
	FilenameMaxLength     int     `toml:"filename_max_length"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnvCredentials overlays catalog credentials from the environment onto
// the config. A .env file in the working directory is loaded first when
// present; a missing file is not an error. SPOTIFY_SECRET is accepted as an
// alias for SPOTIFY_CLIENT_SECRET.
func (c *Config) LoadEnvCredentials() {
	_ = godotenv.Load()

	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Credentials.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Credentials.Spotify.ClientSecret = v
	} else if v := os.Getenv("SPOTIFY_SECRET"); v != "" {
		c.Credentials.Spotify.ClientSecret = v
	}
	if v := os.Getenv("APPLE_MUSIC_DEVELOPER_TOKEN"); v != "" {
		c.Credentials.AppleMusic.DeveloperToken = v
	}
	if v := os.Getenv("APPLE_MUSIC_STOREFRONT"); v != "" {
		c.Credentials.AppleMusic.Storefront = v
	}
	if v := os.Getenv("PLAYDEX_PROVIDER"); v != "" {
		c.Provider = v
	}
}

// Validate checks that the selected provider's credentials are present for
// an index run.
func (c *Config) Validate() error {
	if c.Provider == "apple_music" {
		if c.Credentials.AppleMusic.DeveloperToken == "" {
			return fmt.Errorf("%w: apple_music developer_token is required", ErrMissingCredentials)
		}
		return nil
	}
	if c.Credentials.Spotify.ClientID == "" || c.Credentials.Spotify.ClientSecret == "" {
		return fmt.Errorf("%w: spotify client_id and client_secret are required", ErrMissingCredentials)
	}
	return nil
}
