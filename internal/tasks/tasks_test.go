package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"playdex/internal/models"
	"playdex/internal/services"
	"playdex/internal/shared"
)

// mockCatalog is a test double for [services.Catalog].
type mockCatalog struct {
	meta       *models.PlaylistMetadata
	metaErr    error
	pages      map[int]*services.TracksPage // keyed by offset
	pageErr    map[int]error                // keyed by offset
	features   map[string]*models.AudioFeatures
	failBatch  map[int]bool // 1-based batch call number → fail
	batchCalls int
	pageCalls  int
}

func (m *mockCatalog) Authenticate(ctx context.Context) error { return nil }
func (m *mockCatalog) Name() string                           { return "mock" }

func (m *mockCatalog) GetPlaylist(ctx context.Context, playlistID string) (*models.PlaylistMetadata, error) {
	if m.metaErr != nil {
		return nil, m.metaErr
	}
	if m.meta == nil {
		return nil, fmt.Errorf("playlist not found")
	}
	return m.meta, nil
}

func (m *mockCatalog) PlaylistTracksPage(ctx context.Context, playlistID string, limit, offset int) (*services.TracksPage, error) {
	m.pageCalls++
	if err, ok := m.pageErr[offset]; ok {
		return nil, err
	}
	if page, ok := m.pages[offset]; ok {
		return page, nil
	}
	return &services.TracksPage{Offset: offset, Limit: limit}, nil
}

func (m *mockCatalog) AudioFeaturesBatch(ctx context.Context, trackIDs []string) (map[string]*models.AudioFeatures, error) {
	m.batchCalls++
	if m.failBatch[m.batchCalls] {
		return nil, fmt.Errorf("%w: batch %d", shared.ErrEnrichmentBatchFailed, m.batchCalls)
	}
	result := make(map[string]*models.AudioFeatures)
	for _, id := range trackIDs {
		if f, ok := m.features[id]; ok {
			result[id] = f
		}
	}
	return result, nil
}

// trackItem builds a well-formed page item.
func trackItem(id, name, artist string, durationMS int, artworkURL string) services.PageItem {
	entry := &models.RawTrackEntry{
		ID:         id,
		Name:       name,
		ArtistName: artist,
		AllArtists: []string{artist},
		AlbumName:  "Album of " + artist,
		DurationMS: durationMS,
	}
	if artworkURL != "" {
		entry.Artwork = []models.ArtworkCandidate{{URL: artworkURL, Width: 640, Height: 640}}
	}
	return services.PageItem{Entry: entry}
}

func badItem(reason string) services.PageItem {
	return services.PageItem{Reason: reason}
}

func page(total int, hasNext bool, items ...services.PageItem) *services.TracksPage {
	p := &services.TracksPage{Items: items, Total: total}
	if hasNext {
		next := "next-page"
		p.Next = &next
	}
	return p
}

// testIndexer builds an Indexer with a fast rate limit and quiet logger.
func testIndexer(catalog services.Catalog, opts Options) *Indexer {
	if opts.RateLimit == 0 {
		opts.RateLimit = 10000
	}
	return NewIndexer(catalog, shared.NewLogger(io.Discard), opts)
}

func TestRun(t *testing.T) {
	artworkServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jpeg-bytes"))
	}))
	defer artworkServer.Close()

	pop := func(n int) *int { return &n }

	catalog := &mockCatalog{
		meta: &models.PlaylistMetadata{ID: "pl1", Name: "Mix", TrackCount: 3},
		pages: map[int]*services.TracksPage{
			0: page(3, false,
				trackItem("t1", "One", "Artist A", 200000, artworkServer.URL+"/1.jpg"),
				trackItem("t2", "Two", "Artist B", 300000, ""),
				trackItem("t3", "Three", "Artist A", 100000, artworkServer.URL+"/3.jpg"),
			),
		},
		features: map[string]*models.AudioFeatures{
			"t1": {Danceability: 0.9, Tempo: 128},
			"t3": {Danceability: 0.2, Tempo: 80},
		},
	}
	catalog.pages[0].Items[0].Entry.Popularity = pop(80)
	catalog.pages[0].Items[1].Entry.Popularity = pop(60)

	ix := testIndexer(catalog, Options{ArtworkDir: t.TempDir()})

	result, err := ix.Run(context.Background(), "https://open.spotify.com/playlist/pl1", nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Handle.ID != "pl1" {
		t.Errorf("expected resolved ID pl1, got %s", result.Handle.ID)
	}
	if result.RunID == "" {
		t.Error("expected a run ID")
	}

	snap := result.Snapshot
	if snap == nil {
		t.Fatal("expected a snapshot")
	}
	if len(snap.Tracks) != 3 {
		t.Fatalf("expected 3 tracks, got %d", len(snap.Tracks))
	}

	for i, track := range snap.Tracks {
		if track.Index != i+1 {
			t.Errorf("track %d has index %d, want %d", i, track.Index, i+1)
		}
	}

	if snap.Tracks[0].AudioFeatures == nil || snap.Tracks[0].AudioFeatures.Tempo != 128 {
		t.Error("expected features attached to track 1")
	}
	if snap.Tracks[1].AudioFeatures != nil {
		t.Error("track 2 has no features upstream, expected nil")
	}

	if snap.Tracks[0].ArtworkStatus != models.ArtworkDownloaded {
		t.Errorf("expected track 1 artwork downloaded, got %s", snap.Tracks[0].ArtworkStatus)
	}
	if snap.Tracks[1].ArtworkStatus != models.ArtworkSkipped {
		t.Errorf("expected track 2 artwork skipped, got %s", snap.Tracks[1].ArtworkStatus)
	}
	if snap.Tracks[1].ArtworkLocalPath != nil {
		t.Error("skipped track should have no local path")
	}

	if snap.Summary.TotalDurationMS != 600000 {
		t.Errorf("expected total duration 600000, got %d", snap.Summary.TotalDurationMS)
	}
	if snap.Summary.AveragePopularity == nil || *snap.Summary.AveragePopularity != 70 {
		t.Errorf("unexpected average popularity: %v", snap.Summary.AveragePopularity)
	}
}

func TestRunFirstPageFailure(t *testing.T) {
	catalog := &mockCatalog{
		meta:    &models.PlaylistMetadata{ID: "pl1", Name: "Mix"},
		pageErr: map[int]error{0: fmt.Errorf("connection refused")},
	}

	ix := testIndexer(catalog, Options{ArtworkDir: t.TempDir()})

	_, err := ix.Run(context.Background(), "pl1", nil)
	if !errors.Is(err, shared.ErrUpstreamUnavailable) {
		t.Errorf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestRunMetadataFailureAborts(t *testing.T) {
	catalog := &mockCatalog{metaErr: fmt.Errorf("connection refused")}

	ix := testIndexer(catalog, Options{ArtworkDir: t.TempDir()})

	_, err := ix.Run(context.Background(), "pl1", nil)
	if !errors.Is(err, shared.ErrUpstreamUnavailable) {
		t.Errorf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestRunToleratesPaginationInterruption(t *testing.T) {
	catalog := &mockCatalog{
		meta: &models.PlaylistMetadata{ID: "pl1", Name: "Mix", TrackCount: 4},
		pages: map[int]*services.TracksPage{
			0: page(4, true,
				trackItem("t1", "One", "A", 1000, ""),
				trackItem("t2", "Two", "B", 1000, ""),
			),
		},
		pageErr: map[int]error{2: fmt.Errorf("timeout")},
	}

	ix := testIndexer(catalog, Options{PageSize: 2, ArtworkDir: t.TempDir(), SkipFeatures: true})

	result, err := ix.Run(context.Background(), "pl1", nil)
	if err != nil {
		t.Fatalf("Run() should tolerate interruption, got %v", err)
	}
	if result.PaginationErr == nil {
		t.Error("expected recorded pagination error")
	}
	if len(result.Snapshot.Tracks) != 2 {
		t.Errorf("expected partial snapshot with 2 tracks, got %d", len(result.Snapshot.Tracks))
	}
}

func TestRunEmptyPlaylist(t *testing.T) {
	artworkDir := t.TempDir() + "/art"

	catalog := &mockCatalog{
		meta:  &models.PlaylistMetadata{ID: "pl1", Name: "Empty", TrackCount: 0},
		pages: map[int]*services.TracksPage{},
	}

	ix := testIndexer(catalog, Options{ArtworkDir: artworkDir})

	result, err := ix.Run(context.Background(), "pl1", nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	snap := result.Snapshot
	if len(snap.Tracks) != 0 {
		t.Errorf("expected 0 tracks, got %d", len(snap.Tracks))
	}
	if snap.Summary.TotalTracks != 0 {
		t.Errorf("expected summary total 0, got %d", snap.Summary.TotalTracks)
	}
	if snap.Summary.AveragePopularity != nil {
		t.Error("expected nil average popularity for empty playlist")
	}

	// No artwork directory, no files.
	if _, statErr := os.Stat(artworkDir); statErr == nil {
		t.Error("expected no artwork directory for empty playlist")
	}
}

func TestRunInvalidPlaylistReference(t *testing.T) {
	ix := testIndexer(&mockCatalog{}, Options{})

	if _, err := ix.Run(context.Background(), "   ", nil); !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestProgressUpdatesNonBlocking(t *testing.T) {
	catalog := &mockCatalog{
		meta: &models.PlaylistMetadata{ID: "pl1", Name: "Mix", TrackCount: 1},
		pages: map[int]*services.TracksPage{
			0: page(1, false, trackItem("t1", "One", "A", 1000, "")),
		},
	}

	ix := testIndexer(catalog, Options{ArtworkDir: t.TempDir(), SkipFeatures: true})

	// Unbuffered channel with no reader: sends must be dropped, not block.
	progress := make(chan ProgressUpdate)
	if _, err := ix.Run(context.Background(), "pl1", progress); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}
