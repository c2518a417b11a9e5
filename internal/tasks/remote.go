package tasks

import (
	"context"
	"time"

	"github.com/desertthunder/ytlikes/internal/models"
)

// Membership is a bulk read of a remote collection's ItemIDs.
type Membership map[string]struct{}

// Has reports whether itemID was present in the read.
func (m Membership) Has(itemID string) bool {
	_, ok := m[itemID]
	return ok
}

// NewMembership builds a Membership from item IDs.
func NewMembership(ids ...string) Membership {
	m := make(Membership, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

// RemoteStore is the system of record for item state.
//
// It offers no transactions or batch mutations and reads may lag writes.
type RemoteStore interface {
	// RateItem sets the like status of a single item.
	RateItem(ctx context.Context, itemID string, status models.LikeStatus) error

	// FindCollection resolves a collection name to its handle.
	// Returns an error wrapping shared.ErrPlaylistNotFound when the collection does not exist.
	FindCollection(ctx context.Context, name string) (string, error)

	// ReadMembership reads up to limit ItemIDs from the head of a collection.
	ReadMembership(ctx context.Context, collectionID string, limit int) (Membership, error)
}

// ItemSource supplies the ordered list of mutation targets.
type ItemSource interface {
	FetchSequence(ctx context.Context, collectionID string) ([]models.Item, error)
}

// Sleeper pauses between remote calls.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to [Sleeper].
type SleeperFunc func(ctx context.Context, d time.Duration) error

func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error { return f(ctx, d) }

// TimerSleeper waits on a timer and returns early with ctx.Err() on cancellation.
var TimerSleeper Sleeper = SleeperFunc(func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
})
