package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/ytlikes/internal/models"
)

func likeAll(t *testing.T, remote *fakeRemote, ids ...string) {
	t.Helper()
	for _, id := range ids {
		if err := remote.RateItem(context.Background(), id, models.Like); err != nil {
			t.Fatalf("RateItem(%s) error = %v", id, err)
		}
	}
	remote.calls = nil
}

func TestVerifier_Verify(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, Delay: time.Second}

	t.Run("all present", func(t *testing.T) {
		remote := newFakeRemote()
		likeAll(t, remote, "a", "b", "c")
		v := NewVerifier(remote, models.LikedCollectionName, &recordingSleeper{}, policy, testLogger())

		res, err := v.Verify(context.Background(), NewSequence(itemsWithIDs("a", "b", "c"), false), Window{0, 3})
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if !res.Confirmed || res.Checked != 3 {
			t.Errorf("result = %+v, want confirmed with 3 checked", res)
		}
		if len(remote.readLimits) != 1 || remote.readLimits[0] != 6 {
			t.Errorf("read limits = %v, want [6]", remote.readLimits)
		}
	})

	t.Run("reports the first absence in window order", func(t *testing.T) {
		remote := newFakeRemote()
		likeAll(t, remote, "a", "c")
		v := NewVerifier(remote, models.LikedCollectionName, &recordingSleeper{}, policy, testLogger())

		res, err := v.Verify(context.Background(), NewSequence(itemsWithIDs("a", "b", "c"), false), Window{0, 3})
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if res.Confirmed || res.FirstUnconfirmed != 1 {
			t.Errorf("result = %+v, want first unconfirmed 1", res)
		}
	})

	t.Run("only checks the window", func(t *testing.T) {
		remote := newFakeRemote()
		likeAll(t, remote, "c", "d")
		v := NewVerifier(remote, models.LikedCollectionName, &recordingSleeper{}, policy, testLogger())

		res, err := v.Verify(context.Background(), NewSequence(itemsWithIDs("a", "b", "c", "d"), false), Window{2, 4})
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if !res.Confirmed {
			t.Errorf("result = %+v, want confirmed", res)
		}
	})

	t.Run("missing collection fails at window start without reading", func(t *testing.T) {
		remote := newFakeRemote()
		remote.neverExists = true
		v := NewVerifier(remote, models.LikedCollectionName, &recordingSleeper{}, policy, testLogger())

		res, err := v.Verify(context.Background(), NewSequence(makeItems(10), false), Window{3, 8})
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if res.Confirmed || res.FirstUnconfirmed != 3 || !res.CollectionMissing {
			t.Errorf("result = %+v, want unconfirmed from 3", res)
		}
		if remote.readCalls != 0 {
			t.Errorf("read calls = %d, want 0", remote.readCalls)
		}
	})

	t.Run("vacuous window needs no read", func(t *testing.T) {
		remote := newFakeRemote()
		remote.neverExists = true
		v := NewVerifier(remote, models.LikedCollectionName, &recordingSleeper{}, policy, testLogger())

		items := []models.Item{{ItemID: "a"}, {Title: "no id"}, {ItemID: "a"}}
		res, err := v.Verify(context.Background(), NewSequence(items, false), Window{1, 3})
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if !res.Confirmed {
			t.Errorf("result = %+v, want confirmed", res)
		}
		if remote.findCalls != 0 {
			t.Errorf("find calls = %d, want 0", remote.findCalls)
		}
	})

	t.Run("retries a failed lookup", func(t *testing.T) {
		remote := newFakeRemote()
		likeAll(t, remote, "a")
		remote.findErrs = []error{errors.New("EOF")}
		sleeper := &recordingSleeper{}
		v := NewVerifier(remote, models.LikedCollectionName, sleeper, policy, testLogger())

		res, err := v.Verify(context.Background(), NewSequence(itemsWithIDs("a"), false), Window{0, 1})
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if !res.Confirmed || remote.findCalls != 2 || sleeper.count() != 1 {
			t.Errorf("result = %+v, find calls = %d, pauses = %d", res, remote.findCalls, sleeper.count())
		}
	})
}
