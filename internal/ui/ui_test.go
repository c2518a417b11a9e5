package ui

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytlikes/internal/models"
	"github.com/desertthunder/ytlikes/internal/tasks"
	tu "github.com/desertthunder/ytlikes/internal/testing"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	ctrlC = tea.KeyMsg{Type: tea.KeyCtrlC}
)

func newMockService() *tu.MockService {
	return &tu.MockService{
		Playlists: []models.Collection{{ID: "PL1", Name: "Road Trip", ItemCount: 4}},
		Exports: map[string]*models.CollectionExport{
			"PL1": {
				Collection: models.Collection{ID: "PL1", Name: "Road Trip", ItemCount: 4},
				Items: []models.Item{
					{ItemID: "a", Title: "Alpha", Artists: []string{"A"}},
					{ItemID: "b", Title: "Bravo", Artists: []string{"B"}},
					{ItemID: "a", Title: "Alpha", Artists: []string{"A"}},
					{ItemID: "c", Title: "Charlie", Artists: []string{"C"}},
				},
			},
		},
	}
}

func testOptions() tasks.Options {
	opts := tasks.DefaultOptions()
	opts.Delay = 0
	opts.BatchSize = 2
	return opts
}

// blockingImporter holds the run open until its context is cancelled.
type blockingImporter struct {
	started chan struct{}
}

func (b *blockingImporter) Run(ctx context.Context, job *tasks.ImportJob, progress chan<- tasks.ProgressUpdate) (*tasks.ImportResult, error) {
	close(b.started)
	<-ctx.Done()
	return &tasks.ImportResult{State: tasks.Cancelled, Total: job.Sequence.Len()}, ctx.Err()
}

func (b *blockingImporter) Unlike(context.Context, []models.Item, time.Duration, int, chan<- tasks.ProgressUpdate) (*tasks.UnlikeResult, error) {
	return nil, errors.New("not supported")
}

// toConfirm drives m from Init to the confirm view.
func toConfirm(t *testing.T, m *Model) {
	t.Helper()

	m.Update(m.Init()())
	if len(m.playlistList.Items()) != 1 {
		t.Fatalf("expected 1 playlist, got %d", len(m.playlistList.Items()))
	}

	_, cmd := m.Update(enter)
	if cmd == nil {
		t.Fatal("expected fetch command on enter")
	}
	m.Update(cmd())
	if m.view != TrackListView {
		t.Fatalf("expected track list view, got %d", m.view)
	}

	m.Update(enter)
	if m.view != ConfirmView {
		t.Fatalf("expected confirm view, got %d", m.view)
	}
}

func TestModel_ImportFlow(t *testing.T) {
	mock := newMockService()
	engine := tasks.NewImportEngine(mock, tasks.EngineOpts{})
	m := NewModel(context.Background(), mock, engine, testOptions(), true)

	toConfirm(t, m)

	if m.sequence.Len() != 4 || m.sequence.UniqueCount() != 3 {
		t.Errorf("expected 4 songs with 3 unique, got %d/%d", m.sequence.Len(), m.sequence.UniqueCount())
	}
	if first := m.sequence.Item(0).ItemID; first != "c" {
		t.Errorf("expected reversed replay order starting at c, got %s", first)
	}
	if view := m.View(); !strings.Contains(view, "Like every song in 'Road Trip'") || !strings.Contains(view, "3 unique") {
		t.Errorf("unexpected confirm view:\n%s", view)
	}

	_, cmd := m.Update(runes("y"))
	if m.view != ImportView {
		t.Fatalf("expected import view, got %d", m.view)
	}
	if !strings.Contains(m.View(), "Importing 'Road Trip'") {
		t.Errorf("unexpected import view:\n%s", m.View())
	}

	for i := 0; cmd != nil && i < 1000; i++ {
		_, cmd = m.Update(cmd())
	}

	if m.view != ResultView {
		t.Fatalf("expected result view, got %d", m.view)
	}
	if m.err != nil {
		t.Fatalf("unexpected import error: %v", m.err)
	}
	if m.result.State != tasks.Done || m.result.CommittedIndex != 4 {
		t.Errorf("expected done at 4, got %s at %d", m.result.State, m.result.CommittedIndex)
	}
	if got := mock.RatingsFor(models.Like); !slices.Equal(got, []string{"c", "a", "b"}) {
		t.Errorf("expected likes c, a, b; got %v", got)
	}
	if !strings.Contains(m.View(), "Import complete") {
		t.Errorf("unexpected result view:\n%s", m.View())
	}

	m.Update(runes("r"))
	if m.view != PlaylistListView || m.result != nil || m.sequence != nil {
		t.Errorf("restart should reset to the playlist list")
	}
}

func TestModel_CancelImport(t *testing.T) {
	importer := &blockingImporter{started: make(chan struct{})}
	m := NewModel(context.Background(), newMockService(), importer, testOptions(), true)

	toConfirm(t, m)

	_, cmd := m.Update(runes("y"))
	<-importer.started

	m.Update(ctrlC)
	m.Update(cmd())

	if m.view != ResultView {
		t.Fatalf("expected result view, got %d", m.view)
	}
	if m.result.State != tasks.Cancelled || !errors.Is(m.err, context.Canceled) {
		t.Errorf("expected cancelled result, got %s, %v", m.result.State, m.err)
	}
	if !strings.Contains(m.View(), "cancelled") {
		t.Errorf("unexpected result view:\n%s", m.View())
	}
}

func TestModel_Navigation(t *testing.T) {
	t.Run("confirm can go back", func(t *testing.T) {
		m := NewModel(context.Background(), newMockService(), &blockingImporter{}, testOptions(), true)
		toConfirm(t, m)

		m.Update(runes("n"))
		if m.view != TrackListView {
			t.Errorf("expected track list view, got %d", m.view)
		}

		m.Update(esc)
		if m.view != PlaylistListView {
			t.Errorf("expected playlist list view, got %d", m.view)
		}
	})

	t.Run("quit from playlist list", func(t *testing.T) {
		m := NewModel(context.Background(), newMockService(), &blockingImporter{}, testOptions(), true)
		m.Update(m.Init()())

		_, cmd := m.Update(runes("q"))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("expected tea.QuitMsg")
		}
	})

	t.Run("liked collection is not offered as a source", func(t *testing.T) {
		mock := newMockService()
		mock.Liked = []models.Item{{ItemID: "x"}}
		m := NewModel(context.Background(), mock, &blockingImporter{}, testOptions(), true)

		m.Update(m.Init()())
		if len(m.playlistList.Items()) != 1 {
			t.Errorf("expected only Road Trip, got %d playlists", len(m.playlistList.Items()))
		}
	})

	t.Run("window resize before playlists load", func(t *testing.T) {
		m := NewModel(context.Background(), newMockService(), &blockingImporter{}, testOptions(), true)
		m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
		m.Update(runes("j"))

		if w, h := m.listSize(); w != 96 || h != 32 {
			t.Errorf("expected 96x32, got %dx%d", w, h)
		}
	})
}

func TestModel_Errors(t *testing.T) {
	t.Run("playlist fetch failure", func(t *testing.T) {
		mock := newMockService()
		mock.PlaylistsErr = errors.New("proxy down")
		m := NewModel(context.Background(), mock, &blockingImporter{}, testOptions(), true)

		m.Update(m.Init()())
		if !strings.Contains(m.View(), "proxy down") {
			t.Errorf("expected error in view, got:\n%s", m.View())
		}
	})

	t.Run("song fetch failure", func(t *testing.T) {
		mock := newMockService()
		mock.ExportErr = errors.New("export failed")
		m := NewModel(context.Background(), mock, &blockingImporter{}, testOptions(), true)

		m.Update(m.Init()())
		_, cmd := m.Update(enter)
		m.Update(cmd())

		if m.view != PlaylistListView || !strings.Contains(m.View(), "export failed") {
			t.Errorf("expected error on playlist view, got %d:\n%s", m.view, m.View())
		}
	})

	t.Run("invalid options", func(t *testing.T) {
		opts := testOptions()
		opts.BatchSize = 0
		m := NewModel(context.Background(), newMockService(), &blockingImporter{}, opts, true)
		toConfirm(t, m)

		_, cmd := m.Update(runes("y"))
		if cmd != nil || m.view != ResultView || !errors.Is(m.err, tasks.ErrInvalidJob) {
			t.Errorf("expected invalid job error, got %v", m.err)
		}
		if !strings.Contains(m.View(), "Import failed") {
			t.Errorf("unexpected view:\n%s", m.View())
		}
	})
}

func TestListItems(t *testing.T) {
	pl := playlistItem{playlist: models.Collection{Name: "Mix", ItemCount: 3, Description: "weekly"}}
	if pl.Title() != "Mix" || pl.Description() != "3 songs • weekly" || pl.FilterValue() != "Mix" {
		t.Errorf("unexpected playlist item %q / %q", pl.Title(), pl.Description())
	}

	tests := []struct {
		name string
		item songItem
		want string
	}{
		{"plain", songItem{position: 1, item: models.Item{ItemID: "a", Artists: []string{"A", "B"}}}, "A, B"},
		{"duplicate", songItem{position: 2, item: models.Item{ItemID: "a"}, duplicate: true}, "Unknown • duplicate"},
		{"no id", songItem{position: 3, item: models.Item{Title: "Local"}}, "Unknown • no video ID, skipped"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.Description(); got != tt.want {
				t.Errorf("Description() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := (songItem{position: 7, item: models.Item{}}).Title(); got != "7. Unknown" {
		t.Errorf("Title() = %q", got)
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		done, total int
		filled      int
	}{
		{0, 10, 0},
		{5, 10, 5},
		{10, 10, 10},
		{0, 0, 10},
	}
	for _, tt := range tests {
		bar := progressBar(tt.done, tt.total, 10)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("progressBar(%d, %d) filled %d, want %d", tt.done, tt.total, got, tt.filled)
		}
		if got := strings.Count(bar, "░"); got != 10-tt.filled {
			t.Errorf("progressBar(%d, %d) empty %d, want %d", tt.done, tt.total, got, 10-tt.filled)
		}
	}
}
