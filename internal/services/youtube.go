// YouTube Music API [Service] implementation
//
// Communicates with the FastAPI proxy server running on port 8080.
// The proxy wraps the ytmusicapi Python library for YouTube Music operations.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/ytlikes/internal/models"
	"github.com/desertthunder/ytlikes/internal/shared"
	"github.com/desertthunder/ytlikes/internal/tasks"
	"golang.org/x/time/rate"
)

const defaultYTBaseURL string = "http://localhost:8080"

// YouTubeArtist represents an artist in YouTube Music responses.
type YouTubeArtist struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type youtubeAlbum struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// YouTubeTrack represents a track/video in YouTube Music responses.
type YouTubeTrack struct {
	VideoID     string          `json:"videoId"`
	Title       string          `json:"title"`
	Artists     []YouTubeArtist `json:"artists"`
	Album       *youtubeAlbum   `json:"album"`
	Duration    string          `json:"duration"`
	DurationSec int             `json:"duration_seconds"`
	SetVideoID  string          `json:"setVideoId,omitempty"`
}

// Item converts the response track. Artists with empty names are dropped.
func (t YouTubeTrack) Item() models.Item {
	item := models.Item{
		ItemID:   t.VideoID,
		Title:    t.Title,
		Duration: t.DurationSec,
	}
	for _, a := range t.Artists {
		if a.Name != "" {
			item.Artists = append(item.Artists, a.Name)
		}
	}
	if t.Album != nil {
		item.Album = t.Album.Name
	}
	return item
}

// YouTubePlaylist represents a playlist from YouTube Music.
type YouTubePlaylist struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Privacy     string         `json:"privacy"`
	TrackCount  int            `json:"trackCount"`
	Tracks      []YouTubeTrack `json:"tracks,omitempty"`
}

func (p YouTubePlaylist) items() []models.Item {
	items := make([]models.Item, len(p.Tracks))
	for i, t := range p.Tracks {
		items[i] = t.Item()
	}
	return items
}

// YouTubeService implements [Service], [tasks.RemoteStore] and [tasks.ItemSource] via the proxy.
//
// Every request waits on a client-side limiter before it is sent, so the
// engine's fixed delay is never the only thing standing between the CLI and a 429.
type YouTubeService struct {
	baseURL    string
	authFile   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var (
	_ Service           = (*YouTubeService)(nil)
	_ tasks.RemoteStore = (*YouTubeService)(nil)
	_ tasks.ItemSource  = (*YouTubeService)(nil)
)

// NewYouTubeService creates a new YouTube Music service instance.
//
// requestsPerSecond <= 0 disables client-side limiting.
func NewYouTubeService(baseURL string, requestsPerSecond float64, client *http.Client) *YouTubeService {
	if baseURL == "" {
		baseURL = defaultYTBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}

	return &YouTubeService{
		baseURL:    baseURL,
		httpClient: client,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube Music"
}

// Authenticate stores the authentication file path for subsequent requests.
//
// Expects credentials["auth_file"] to contain the path to browser.json.
func (y *YouTubeService) Authenticate(ctx context.Context, credentials map[string]string) error {
	authFile, ok := credentials["auth_file"]
	if !ok || authFile == "" {
		return fmt.Errorf("%w: missing auth_file in credentials", shared.ErrMissingCredentials)
	}

	y.authFile = authFile
	return nil
}

func (y *YouTubeService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if err := y.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, y.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if y.authFile != "" {
		req.Header.Set("X-Auth-File", y.authFile)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &TransportError{Method: method, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Method: method, Endpoint: endpoint, StatusCode: resp.StatusCode}
		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			apiErr.Detail = errResp.Detail
		}
		return apiErr
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// GetPlaylists retrieves all playlists in the library.
//
// Calls GET /api/library/playlists on the proxy.
func (y *YouTubeService) GetPlaylists(ctx context.Context) ([]models.Collection, error) {
	var ytPlaylists []struct {
		PlaylistID  string `json:"playlistId"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Privacy     string `json:"privacy"`
		Count       int    `json:"count"`
	}

	if err := y.doRequest(ctx, http.MethodGet, "/api/library/playlists", nil, &ytPlaylists); err != nil {
		return nil, err
	}

	playlists := make([]models.Collection, len(ytPlaylists))
	for i, ytp := range ytPlaylists {
		playlists[i] = models.Collection{
			ID:          ytp.PlaylistID,
			Name:        ytp.Title,
			Description: ytp.Description,
			ItemCount:   ytp.Count,
			Public:      ytp.Privacy == "PUBLIC",
		}
	}

	return playlists, nil
}

// getPlaylist calls GET /api/playlists/{id}, capped at limit tracks when limit > 0.
func (y *YouTubeService) getPlaylist(ctx context.Context, playlistID string, limit int) (*YouTubePlaylist, error) {
	endpoint := "/api/playlists/" + url.PathEscape(playlistID)
	if limit > 0 {
		endpoint += "?limit=" + strconv.Itoa(limit)
	}

	var playlist YouTubePlaylist
	if err := y.doRequest(ctx, http.MethodGet, endpoint, nil, &playlist); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
		}
		return nil, err
	}
	return &playlist, nil
}

// ExportPlaylist exports a playlist with all its tracks.
//
// Calls GET /api/playlists/{id} on the proxy.
func (y *YouTubeService) ExportPlaylist(ctx context.Context, playlistID string) (*models.CollectionExport, error) {
	playlist, err := y.getPlaylist(ctx, playlistID, 0)
	if err != nil {
		return nil, err
	}

	return &models.CollectionExport{
		Collection: models.Collection{
			ID:          playlist.ID,
			Name:        playlist.Title,
			Description: playlist.Description,
			ItemCount:   playlist.TrackCount,
			Public:      playlist.Privacy == "PUBLIC",
		},
		Items: playlist.items(),
	}, nil
}

// GetLikedItems retrieves every liked song.
//
// Calls GET /api/library/liked-songs on the proxy. The liked collection is
// served by its own endpoint; the generic playlist endpoint truncates it.
func (y *YouTubeService) GetLikedItems(ctx context.Context) ([]models.Item, error) {
	var liked YouTubePlaylist
	if err := y.doRequest(ctx, http.MethodGet, "/api/library/liked-songs", nil, &liked); err != nil {
		return nil, err
	}
	return liked.items(), nil
}

// RateItem sets the rating of one song.
//
// Calls POST /api/songs/{videoId}/rating on the proxy.
func (y *YouTubeService) RateItem(ctx context.Context, itemID string, status models.LikeStatus) error {
	body := struct {
		Rating models.LikeStatus `json:"rating"`
	}{Rating: status}

	endpoint := fmt.Sprintf("/api/songs/%s/rating", url.PathEscape(itemID))
	return y.doRequest(ctx, http.MethodPost, endpoint, body, nil)
}

// FindCollection resolves a library playlist by exact title.
func (y *YouTubeService) FindCollection(ctx context.Context, name string) (string, error) {
	playlists, err := y.GetPlaylists(ctx)
	if err != nil {
		return "", err
	}
	for _, p := range playlists {
		if p.Name == name {
			return p.ID, nil
		}
	}
	return "", fmt.Errorf("%w: no playlist named %q", shared.ErrPlaylistNotFound, name)
}

// ReadMembership reads the first limit video IDs of a playlist.
func (y *YouTubeService) ReadMembership(ctx context.Context, collectionID string, limit int) (tasks.Membership, error) {
	playlist, err := y.getPlaylist(ctx, collectionID, limit)
	if err != nil {
		return nil, err
	}

	membership := make(tasks.Membership, len(playlist.Tracks))
	for _, t := range playlist.Tracks {
		if t.VideoID != "" {
			membership[t.VideoID] = struct{}{}
		}
	}
	return membership, nil
}

// FetchSequence returns a playlist's items in playlist order. The liked
// collection is read through [YouTubeService.GetLikedItems].
func (y *YouTubeService) FetchSequence(ctx context.Context, collectionID string) ([]models.Item, error) {
	if collectionID == models.LikedCollectionID {
		return y.GetLikedItems(ctx)
	}
	export, err := y.ExportPlaylist(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	return export.Items, nil
}

// Health calls GET /health on the proxy.
func (y *YouTubeService) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	if err := y.doRequest(ctx, http.MethodGet, "/health", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
