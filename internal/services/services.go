// package services defines interface Service for the YouTube Music proxy
package services

import (
	"context"

	"github.com/desertthunder/ytlikes/internal/models"
)

// Service defines the library operations the CLI needs from a music provider.
type Service interface {
	// Authenticate records the credentials sent with each request.
	// Returns an error if the credentials are incomplete.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// GetPlaylists retrieves all playlists in the user's library.
	GetPlaylists(ctx context.Context) ([]models.Collection, error)

	// ExportPlaylist retrieves a playlist with all its items in playlist order.
	ExportPlaylist(ctx context.Context, playlistID string) (*models.CollectionExport, error)

	// GetLikedItems retrieves the full liked collection, newest first.
	GetLikedItems(ctx context.Context) ([]models.Item, error)

	// RateItem sets the like status of one item.
	RateItem(ctx context.Context, itemID string, status models.LikeStatus) error

	// Health reports whether the proxy is up and can read its auth file.
	Health(ctx context.Context) (*HealthStatus, error)

	// Name returns the name of the service (e.g., "YouTube Music")
	Name() string
}

// HealthStatus is the proxy's /health payload.
type HealthStatus struct {
	Status        string `json:"status"`
	Authenticated bool   `json:"authenticated"`
	Version       string `json:"version,omitempty"`
}

// OK reports whether the proxy answered healthy.
func (h *HealthStatus) OK() bool {
	return h != nil && h.Status == "ok"
}
