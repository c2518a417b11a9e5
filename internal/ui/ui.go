package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytlikes/internal/formatter"
	"github.com/desertthunder/ytlikes/internal/models"
	"github.com/desertthunder/ytlikes/internal/services"
	"github.com/desertthunder/ytlikes/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	TrackListView
	ConfirmView
	ImportView
	ResultView
)

const barWidth = 30

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	cancel       context.CancelFunc
	view         ViewState
	youtube      services.Service
	importer     tasks.Importer
	opts         tasks.Options
	reverse      bool
	width        int
	height       int
	playlistList list.Model
	trackList    list.Model
	listsReady   bool
	selected     *models.CollectionExport
	sequence     *tasks.Sequence
	progressChan chan tasks.ProgressUpdate
	doneChan     chan Msg
	progress     tasks.ProgressUpdate
	result       *tasks.ImportResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
//
// opts.StartIndex is ignored; the TUI always imports the whole playlist.
func NewModel(ctx context.Context, youtube services.Service, importer tasks.Importer, opts tasks.Options, reverse bool) *Model {
	opts.StartIndex = 0
	return &Model{
		ctx:      ctx,
		view:     PlaylistListView,
		youtube:  youtube,
		importer: importer,
		opts:     opts,
		reverse:  reverse,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init initializes the TUI by fetching the library playlists.
func (m *Model) Init() tea.Cmd {
	return m.fetchPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w, h := m.listSize()
		if m.listsReady {
			m.playlistList.SetSize(w, h)
		}
		if m.sequence != nil {
			m.trackList.SetSize(w, h)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ImportView:
			return m.handleImportKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPlaylistsFetched:
		data := msg.data.(playlistsFetched)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		items := make([]list.Item, 0, len(data.playlists))
		for _, pl := range data.playlists {
			if pl.ID == models.LikedCollectionID {
				continue
			}
			items = append(items, playlistItem{playlist: pl})
		}
		w, h := m.listSize()
		m.playlistList = list.New(items, list.NewDefaultDelegate(), w, h)
		m.playlistList.Title = "YouTube Music Playlists"
		m.listsReady = true
		return m, nil

	case MsgSongsFetched:
		data := msg.data.(songsFetched)
		if data.err != nil {
			m.err = data.err
			m.view = PlaylistListView
			return m, nil
		}
		m.selected = data.export
		m.sequence = tasks.NewSequence(data.export.Items, m.reverse)

		items := make([]list.Item, m.sequence.Len())
		for i := range m.sequence.Len() {
			items[i] = songItem{position: i + 1, item: m.sequence.Item(i), duplicate: m.sequence.IsDuplicate(i)}
		}
		w, h := m.listSize()
		m.trackList = list.New(items, list.NewDefaultDelegate(), w, h)
		m.trackList.Title = fmt.Sprintf("Songs in '%s' (replay order)", data.export.Collection.Name)
		m.view = TrackListView
		return m, nil

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgImportComplete:
		data := msg.data.(importComplete)
		m.result = data.result
		m.err = data.err
		m.view = ResultView
		m.progressChan = nil
		m.doneChan = nil
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case PlaylistListView:
		return m.renderPlaylistList()
	case TrackListView:
		return m.renderTrackList()
	case ConfirmView:
		return m.renderConfirm()
	case ImportView:
		return m.renderImport()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.playlistList.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case m.err != nil:
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if pl, ok := m.playlistList.SelectedItem().(playlistItem); ok {
			return m, m.fetchSongs(pl.playlist.ID)
		}
		return m, nil
	}

	return m.updateLists(msg)
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.trackList.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = PlaylistListView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		m.view = ConfirmView
		return m, nil
	}

	return m.updateLists(msg)
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		return m, m.startImport()
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.view = TrackListView
	}
	return m, nil
}

// handleImportKeys only allows cancelling; the run stops at its next remote call
// and reports through [MsgImportComplete].
func (m *Model) handleImportKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.cancel) && m.cancel != nil {
		m.cancel()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		m.view = PlaylistListView
		m.selected = nil
		m.sequence = nil
		m.result = nil
		m.err = nil
		m.progress = tasks.ProgressUpdate{}
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.view == PlaylistListView && m.listsReady:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case m.view == TrackListView && m.sequence != nil:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) listSize() (int, int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20
	}
	return max(m.width-4, 20), max(m.height-8, 5)
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.youtube.GetPlaylists(m.ctx)
		return playlistsFetchedMsg(playlists, err)
	}
}

func (m *Model) fetchSongs(playlistID string) tea.Cmd {
	return func() tea.Msg {
		export, err := m.youtube.ExportPlaylist(m.ctx, playlistID)
		return songsFetchedMsg(export, err)
	}
}

// startImport runs the engine in a goroutine. The completion message is queued
// before the progress channel closes so waitForProgress always finds it.
func (m *Model) startImport() tea.Cmd {
	job, err := tasks.NewImportJob(m.sequence, m.opts)
	if err != nil {
		m.err = err
		m.view = ResultView
		return nil
	}

	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.doneChan = make(chan Msg, 1)
	m.view = ImportView

	progress, done := m.progressChan, m.doneChan
	go func() {
		result, err := m.importer.Run(ctx, job, progress)
		done <- importCompleteMsg(result, err)
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.doneChan
	return func() tea.Msg {
		if progress == nil {
			return importCompleteMsg(m.result, m.err)
		}

		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderPlaylistList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}

func (m *Model) renderTrackList() string {
	importKey := key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "import"),
	)
	summary := styles.help.Render(formatter.DuplicateSummary(m.sequence.Len(), m.sequence.UniqueCount()))
	helpKeys := []key.Binding{importKey, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n\n%s", m.trackList.View(), summary, helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Like every song in '%s'?", m.selected.Collection.Name))
	info := fmt.Sprintf(
		"\nSongs: %d (%d unique)\nTarget: %s\nBatch size: %d  Delay: %s  Retries: %d\n",
		m.sequence.Len(),
		m.sequence.UniqueCount(),
		m.opts.Collection,
		m.opts.BatchSize,
		m.opts.Delay,
		m.opts.MaxRetries,
	)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderImport() string {
	title := styles.title.Render(fmt.Sprintf("Importing '%s'", m.selected.Collection.Name))

	var phase string
	switch m.progress.Phase {
	case tasks.ApplyItems:
		phase = fmt.Sprintf("Liking songs (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.VerifyBatch:
		phase = "Verifying batch..."
	case tasks.CommitBatch:
		phase = styles.ok.Render("Batch committed")
	case tasks.RollbackBatch:
		phase = styles.warn.Render("Rolling back unverified batch...")
	default:
		phase = "Starting..."
	}

	total := m.sequence.Len()
	committed := 0
	if snap, ok := m.progress.Data.(tasks.Snapshot); ok {
		committed = snap.Committed
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.cancel})
	return fmt.Sprintf("%s\n%s %d/%d committed\n\n%s\n%s\n\n%s",
		title, progressBar(committed, total, barWidth), committed, total, phase, m.progress.Message, helpView)
}

func (m *Model) renderResult() string {
	if m.result == nil {
		msg := "No result available"
		if m.err != nil {
			msg = fmt.Sprintf("Import failed: %v", m.err)
		}
		return styles.err.Render(msg + "\n\nPress r to restart, q to quit")
	}

	body := formatter.ImportSummary(m.result)
	if m.err != nil && m.result.State == tasks.FatalAbort {
		body += "\n" + styles.err.Render(m.err.Error())
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n\n%s", body, helpView)
}

// progressBar renders a fixed-width bar for done out of total.
func progressBar(done, total, width int) string {
	filled := width
	if total > 0 {
		filled = min(done*width/total, width)
	}
	return styles.bar.Render(strings.Repeat("█", filled)) + strings.Repeat("░", width-filled)
}
