// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"playdex/internal/models"
	"playdex/internal/services"
)

// MockCatalog is a configurable test double for [services.Catalog].
type MockCatalog struct {
	Meta       *models.PlaylistMetadata
	MetaErr    error
	Pages      map[int]*services.TracksPage
	PageErr    error
	Features   map[string]*models.AudioFeatures
	FeatureErr error
	AuthErr    error

	PageCalls  int
	BatchCalls int
}

func (m *MockCatalog) Authenticate(ctx context.Context) error { return m.AuthErr }
func (m *MockCatalog) Name() string                           { return "mock" }

func (m *MockCatalog) GetPlaylist(ctx context.Context, playlistID string) (*models.PlaylistMetadata, error) {
	if m.MetaErr != nil {
		return nil, m.MetaErr
	}
	return m.Meta, nil
}

func (m *MockCatalog) PlaylistTracksPage(ctx context.Context, playlistID string, limit, offset int) (*services.TracksPage, error) {
	m.PageCalls++
	if m.PageErr != nil {
		return nil, m.PageErr
	}
	if page, ok := m.Pages[offset]; ok {
		return page, nil
	}
	return &services.TracksPage{Offset: offset, Limit: limit}, nil
}

func (m *MockCatalog) AudioFeaturesBatch(ctx context.Context, trackIDs []string) (map[string]*models.AudioFeatures, error) {
	m.BatchCalls++
	if m.FeatureErr != nil {
		return nil, m.FeatureErr
	}
	result := make(map[string]*models.AudioFeatures)
	for _, id := range trackIDs {
		if f, ok := m.Features[id]; ok {
			result[id] = f
		}
	}
	return result, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
