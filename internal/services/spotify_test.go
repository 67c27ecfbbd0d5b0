package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"playdex/internal/shared"
)

func TestExtractPlaylistID(t *testing.T) {
	tc := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "open.spotify.com URL",
			input: "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
			want:  "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:  "URL with query parameters",
			input: "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=0ee4dc39da894242",
			want:  "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:  "spotify URI",
			input: "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M",
			want:  "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:  "bare ID",
			input: "37i9dQZF1DXcBWIGoYBM5M",
			want:  "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:  "apple music URL with nested name",
			input: "https://music.apple.com/us/playlist/encapsulative/pl.u-BNA6rRRCemXeve6",
			want:  "pl.u-BNA6rRRCemXeve6",
		},
		{
			name:  "apple music URL with trailing slash",
			input: "https://music.apple.com/us/playlist/encapsulative/pl.u-BNA6rRRCemXeve6/",
			want:  "pl.u-BNA6rRRCemXeve6",
		},
		{
			name:    "empty input",
			input:   "   ",
			wantErr: true,
		},
		{
			name:    "URL with empty ID",
			input:   "https://open.spotify.com/playlist/",
			wantErr: true,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractPlaylistID(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ExtractPlaylistID(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractPlaylistID(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ExtractPlaylistID(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewSpotifyService(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		srv, err := NewSpotifyService("test_client_id", "test_client_secret")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if srv.Name() != "Spotify" {
			t.Errorf("expected service name 'Spotify', got %s", srv.Name())
		}
	})

	t.Run("missing client id", func(t *testing.T) {
		if _, err := NewSpotifyService("", "secret"); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("missing client secret", func(t *testing.T) {
		if _, err := NewSpotifyService("id", ""); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})
}

func TestDoRequestNotAuthenticated(t *testing.T) {
	srv, err := NewSpotifyService("id", "secret")
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	if _, err := srv.GetPlaylist(context.Background(), "abc"); !errors.Is(err, shared.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
}

// testService returns a SpotifyService wired to an httptest server.
func testService(t *testing.T, handler http.HandlerFunc) *SpotifyService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	srv, err := NewSpotifyService("id", "secret")
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	srv.baseURL = server.URL
	srv.httpClient = server.Client()
	return srv
}

func TestGetPlaylist(t *testing.T) {
	srv := testService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/playlists/pl123" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{
			"id": "pl123",
			"name": "Test Playlist",
			"description": "A playlist",
			"owner": {"id": "user1", "display_name": "User One"},
			"public": true,
			"collaborative": false,
			"followers": {"total": 42},
			"snapshot_id": "snap1",
			"tracks": {"total": 3},
			"external_urls": {"spotify": "https://open.spotify.com/playlist/pl123"}
		}`))
	})

	meta, err := srv.GetPlaylist(context.Background(), "pl123")
	if err != nil {
		t.Fatalf("GetPlaylist() error = %v", err)
	}

	if meta.Name != "Test Playlist" {
		t.Errorf("expected name 'Test Playlist', got %s", meta.Name)
	}
	if meta.Owner != "User One" || meta.OwnerID != "user1" {
		t.Errorf("unexpected owner mapping: %s / %s", meta.Owner, meta.OwnerID)
	}
	if meta.FollowerCount != 42 {
		t.Errorf("expected 42 followers, got %d", meta.FollowerCount)
	}
	if meta.TrackCount != 3 {
		t.Errorf("expected track count 3, got %d", meta.TrackCount)
	}
}

func TestGetPlaylistNotFound(t *testing.T) {
	srv := testService(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	if _, err := srv.GetPlaylist(context.Background(), "nope"); !errors.Is(err, shared.ErrPlaylistNotFound) {
		t.Errorf("expected ErrPlaylistNotFound, got %v", err)
	}
}

func TestPlaylistTracksPage(t *testing.T) {
	srv := testService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"items": [
				{
					"added_at": "2023-01-01T00:00:00Z",
					"added_by": {"id": "user1"},
					"track": {
						"id": "t1",
						"type": "track",
						"name": "Song One",
						"artists": [{"id": "a1", "name": "Artist A"}, {"id": "a2", "name": "Artist B"}],
						"album": {
							"id": "al1",
							"name": "Album One",
							"album_type": "album",
							"release_date": "2020-05-01",
							"release_date_precision": "day",
							"total_tracks": 12,
							"images": [
								{"url": "https://img/small", "width": 64, "height": 64},
								{"url": "https://img/large", "width": 640, "height": 640}
							]
						},
						"duration_ms": 201000,
						"explicit": true,
						"popularity": 73,
						"track_number": 3,
						"disc_number": 1,
						"preview_url": "https://preview/t1",
						"external_urls": {"spotify": "https://open.spotify.com/track/t1"}
					}
				},
				{"added_at": "2023-01-02T00:00:00Z", "track": null},
				{"added_at": "2023-01-03T00:00:00Z", "is_local": true, "track": {"id": "", "type": "track", "name": "Local Song"}},
				{"added_at": "2023-01-04T00:00:00Z", "track": {"id": "ep1", "type": "episode", "name": "Podcast"}}
			],
			"total": 4,
			"limit": 100,
			"offset": 0,
			"next": null
		}`))
	})

	page, err := srv.PlaylistTracksPage(context.Background(), "pl123", 100, 0)
	if err != nil {
		t.Fatalf("PlaylistTracksPage() error = %v", err)
	}

	if len(page.Items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(page.Items))
	}
	if page.Next != nil {
		t.Error("expected nil next cursor")
	}

	entry := page.Items[0].Entry
	if entry == nil {
		t.Fatal("expected first item to convert to an entry")
	}
	if entry.ArtistName != "Artist A" {
		t.Errorf("expected primary artist 'Artist A', got %s", entry.ArtistName)
	}
	if len(entry.AllArtists) != 2 {
		t.Errorf("expected 2 artists, got %d", len(entry.AllArtists))
	}
	if entry.Popularity == nil || *entry.Popularity != 73 {
		t.Errorf("unexpected popularity: %v", entry.Popularity)
	}
	if got := entry.BestArtworkURL(); got != "https://img/large" {
		t.Errorf("expected highest-resolution artwork, got %s", got)
	}

	for i, reason := range map[int]string{1: "missing", 2: "local", 3: "unsupported"} {
		item := page.Items[i]
		if item.Entry != nil {
			t.Errorf("item %d should not convert to an entry", i)
		}
		if item.Reason == "" {
			t.Errorf("item %d should carry a skip reason (want mention of %q)", i, reason)
		}
	}
}

func TestAudioFeaturesBatch(t *testing.T) {
	t.Run("sparse response with nulls", func(t *testing.T) {
		srv := testService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{
				"audio_features": [
					{"id": "t1", "danceability": 0.8, "energy": 0.6, "tempo": 120.5, "key": 5, "time_signature": 4},
					null
				]
			}`))
		})

		features, err := srv.AudioFeaturesBatch(context.Background(), []string{"t1", "t2"})
		if err != nil {
			t.Fatalf("AudioFeaturesBatch() error = %v", err)
		}

		if len(features) != 1 {
			t.Fatalf("expected 1 feature entry, got %d", len(features))
		}
		f, ok := features["t1"]
		if !ok {
			t.Fatal("expected features for t1")
		}
		if f.Danceability != 0.8 || f.Tempo != 120.5 {
			t.Errorf("unexpected feature values: %+v", f)
		}
		if _, ok := features["t2"]; ok {
			t.Error("t2 should be absent, not present with zero values")
		}
	})

	t.Run("empty input", func(t *testing.T) {
		srv := testService(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected for empty input")
		})

		features, err := srv.AudioFeaturesBatch(context.Background(), nil)
		if err != nil {
			t.Fatalf("AudioFeaturesBatch() error = %v", err)
		}
		if len(features) != 0 {
			t.Errorf("expected empty map, got %d entries", len(features))
		}
	})

	t.Run("oversized batch rejected", func(t *testing.T) {
		srv := testService(t, func(w http.ResponseWriter, r *http.Request) {})

		ids := make([]string, MaxFeatureBatch+1)
		for i := range ids {
			ids[i] = "id"
		}
		if _, err := srv.AudioFeaturesBatch(context.Background(), ids); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("server error", func(t *testing.T) {
		srv := testService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		if _, err := srv.AudioFeaturesBatch(context.Background(), []string{"t1"}); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}
