package tasks

import (
	"context"
	"time"

	"github.com/desertthunder/ytlikes/internal/models"
)

// Importer defines the rating operations run against the remote store.
type Importer interface {
	// Run drives job to a terminal state, sending progress without blocking.
	Run(ctx context.Context, job *ImportJob, progress chan<- ProgressUpdate) (*ImportResult, error)

	// Unlike clears the rating of every item in reverse order.
	Unlike(ctx context.Context, items []models.Item, delay time.Duration, maxRetries int, progress chan<- ProgressUpdate) (*UnlikeResult, error)
}

var _ Importer = (*ImportEngine)(nil)
