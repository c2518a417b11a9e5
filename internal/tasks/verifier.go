package tasks

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytlikes/internal/shared"
)

// Window is a half-open index range [Start, End) over a [Sequence].
type Window struct {
	Start int
	End   int
}

// Len is the number of positions in the window.
func (w Window) Len() int {
	return w.End - w.Start
}

// VerifyResult is the outcome of one verification pass.
type VerifyResult struct {
	Confirmed         bool
	FirstUnconfirmed  int  // valid when !Confirmed
	CollectionMissing bool // the collection did not exist; nothing was read
	Checked           int  // positions whose ItemID was looked up
}

// Verifier re-reads remote membership to confirm that a window landed.
type Verifier struct {
	remote     RemoteStore
	collection string
	sleeper    Sleeper
	policy     RetryPolicy
	logger     *log.Logger
}

// NewVerifier creates a Verifier checking membership of the named collection.
func NewVerifier(remote RemoteStore, collection string, sleeper Sleeper, policy RetryPolicy, logger *log.Logger) *Verifier {
	return &Verifier{remote: remote, collection: collection, sleeper: sleeper, policy: policy, logger: logger}
}

// Verify returns the first position in w, scanned in order, whose ItemID is absent.
//
// The read is sized at twice the window to absorb eventual-consistency skew. Items
// without an ItemID and duplicate occurrences are vacuously confirmed. A missing
// collection makes the whole window unconfirmed from w.Start.
func (v *Verifier) Verify(ctx context.Context, seq *Sequence, w Window) (VerifyResult, error) {
	if !hasCanonicalIDs(seq, w) {
		return VerifyResult{Confirmed: true}, nil
	}

	membership, found, err := readCollection(ctx, v.remote, v.collection, 2*w.Len(), v.sleeper, v.policy, v.logger, "verify")
	if err != nil {
		return VerifyResult{}, err
	}
	if !found {
		v.logger.Debug("collection not found, window unconfirmed", "collection", v.collection, "start", w.Start+1)
		return VerifyResult{FirstUnconfirmed: w.Start, CollectionMissing: true}, nil
	}

	checked := 0
	for i := w.Start; i < w.End; i++ {
		item := seq.Item(i)
		if !item.Mutable() || seq.IsDuplicate(i) {
			continue
		}
		checked++
		if !membership.Has(item.ItemID) {
			return VerifyResult{FirstUnconfirmed: i, Checked: checked}, nil
		}
	}

	return VerifyResult{Confirmed: true, Checked: checked}, nil
}

// hasCanonicalIDs reports whether any position in w would need a remote lookup.
func hasCanonicalIDs(seq *Sequence, w Window) bool {
	for i := w.Start; i < w.End; i++ {
		if seq.Item(i).Mutable() && !seq.IsDuplicate(i) {
			return true
		}
	}
	return false
}

// readCollection resolves the collection and reads its membership, retrying transient failures.
//
// found is false when the collection does not exist.
func readCollection(
	ctx context.Context,
	remote RemoteStore,
	name string,
	limit int,
	sleeper Sleeper,
	policy RetryPolicy,
	logger *log.Logger,
	op string,
) (Membership, bool, error) {
	var collectionID string
	missing := false

	_, err := policy.do(ctx, sleeper, logger, op, -1, name, func() error {
		id, err := remote.FindCollection(ctx, name)
		if errors.Is(err, shared.ErrPlaylistNotFound) {
			missing = true
			return nil
		}
		collectionID = id
		return err
	})
	if err != nil {
		return nil, false, err
	}
	if missing {
		return nil, false, nil
	}

	var membership Membership
	_, err = policy.do(ctx, sleeper, logger, op, -1, collectionID, func() error {
		m, err := remote.ReadMembership(ctx, collectionID, limit)
		if errors.Is(err, shared.ErrPlaylistNotFound) {
			missing = true
			return nil
		}
		membership = m
		return err
	})
	if err != nil {
		return nil, false, err
	}
	if missing {
		return nil, false, nil
	}

	return membership, true, nil
}
