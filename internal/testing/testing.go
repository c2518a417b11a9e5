// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/ytlikes/internal/models"
	"github.com/desertthunder/ytlikes/internal/services"
	"github.com/desertthunder/ytlikes/internal/shared"
	"github.com/desertthunder/ytlikes/internal/tasks"
)

// MockService is an in-memory [services.Service] whose ratings land immediately.
//
// Liked items are prepended like the real liked collection, so it also serves
// as a [tasks.RemoteStore] for end-to-end command tests.
type MockService struct {
	mu sync.Mutex

	Playlists []models.Collection
	Exports   map[string]*models.CollectionExport
	Liked     []models.Item
	Ratings   []Rating
	Status    *services.HealthStatus

	PlaylistsErr error
	ExportErr    error
	RateErr      error
	HealthErr    error
}

// Rating records one RateItem call.
type Rating struct {
	ItemID string
	Status models.LikeStatus
}

var (
	_ services.Service  = (*MockService)(nil)
	_ tasks.RemoteStore = (*MockService)(nil)
	_ tasks.ItemSource  = (*MockService)(nil)
)

func (m *MockService) Name() string { return "mock" }

func (m *MockService) Authenticate(ctx context.Context, credentials map[string]string) error {
	return nil
}

func (m *MockService) GetPlaylists(ctx context.Context) ([]models.Collection, error) {
	if m.PlaylistsErr != nil {
		return nil, m.PlaylistsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := append([]models.Collection(nil), m.Playlists...)
	if len(m.Liked) > 0 {
		out = append(out, models.Collection{ID: models.LikedCollectionID, Name: models.LikedCollectionName, ItemCount: len(m.Liked)})
	}
	return out, nil
}

func (m *MockService) ExportPlaylist(ctx context.Context, playlistID string) (*models.CollectionExport, error) {
	if m.ExportErr != nil {
		return nil, m.ExportErr
	}
	if export, ok := m.Exports[playlistID]; ok {
		return export, nil
	}
	return nil, shared.ErrPlaylistNotFound
}

func (m *MockService) GetLikedItems(ctx context.Context) ([]models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Item(nil), m.Liked...), nil
}

func (m *MockService) RateItem(ctx context.Context, itemID string, status models.LikeStatus) error {
	if m.RateErr != nil {
		return m.RateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Ratings = append(m.Ratings, Rating{ItemID: itemID, Status: status})
	idx := -1
	for i, item := range m.Liked {
		if item.ItemID == itemID {
			idx = i
			break
		}
	}
	switch {
	case status == models.Like && idx < 0:
		m.Liked = append([]models.Item{{ItemID: itemID}}, m.Liked...)
	case status != models.Like && idx >= 0:
		m.Liked = append(m.Liked[:idx], m.Liked[idx+1:]...)
	}
	return nil
}

func (m *MockService) Health(ctx context.Context) (*services.HealthStatus, error) {
	if m.HealthErr != nil {
		return nil, m.HealthErr
	}
	if m.Status != nil {
		return m.Status, nil
	}
	return &services.HealthStatus{Status: "ok", Authenticated: true}, nil
}

func (m *MockService) FindCollection(ctx context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if name == models.LikedCollectionName && len(m.Liked) > 0 {
		return models.LikedCollectionID, nil
	}
	for _, p := range m.Playlists {
		if p.Name == name {
			return p.ID, nil
		}
	}
	return "", shared.ErrPlaylistNotFound
}

func (m *MockService) ReadMembership(ctx context.Context, collectionID string, limit int) (tasks.Membership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.Liked
	if collectionID != models.LikedCollectionID {
		export, ok := m.Exports[collectionID]
		if !ok {
			return nil, shared.ErrPlaylistNotFound
		}
		items = export.Items
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	membership := make(tasks.Membership, len(items))
	for _, item := range items {
		membership[item.ItemID] = struct{}{}
	}
	return membership, nil
}

func (m *MockService) FetchSequence(ctx context.Context, collectionID string) ([]models.Item, error) {
	if collectionID == models.LikedCollectionID {
		return m.GetLikedItems(ctx)
	}
	export, err := m.ExportPlaylist(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	return export.Items, nil
}

// RatingsFor lists rated item IDs with the given status, in call order.
func (m *MockService) RatingsFor(status models.LikeStatus) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for _, r := range m.Ratings {
		if r.Status == status {
			ids = append(ids, r.ItemID)
		}
	}
	return ids
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

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
