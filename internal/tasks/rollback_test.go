package tasks

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/desertthunder/ytlikes/internal/models"
)

func newRollbackController(remote *fakeRemote, sleeper Sleeper) *RollbackController {
	policy := RetryPolicy{MaxAttempts: 3, Delay: time.Second}
	mutator := NewMutator(remote, sleeper, policy, testLogger())
	return NewRollbackController(remote, models.LikedCollectionName, mutator, sleeper, policy, testLogger())
}

func TestRollbackController_Rollback(t *testing.T) {
	t.Run("reverses the range once", func(t *testing.T) {
		remote := newFakeRemote()
		likeAll(t, remote, "a", "b", "c", "d")
		rb := newRollbackController(remote, &recordingSleeper{})

		report, err := rb.Rollback(context.Background(), NewSequence(itemsWithIDs("a", "b", "c", "d"), false), Window{1, 4})
		if err != nil {
			t.Fatalf("Rollback() error = %v", err)
		}
		if got, want := remote.callsFor(models.Indifferent), []string{"b", "c", "d"}; !slices.Equal(got, want) {
			t.Errorf("unlike calls = %v, want %v", got, want)
		}
		if report.Cycles != 1 || report.Reversals != 3 {
			t.Errorf("report = %+v", report)
		}
		if !slices.Equal(remote.liked, []string{"a"}) {
			t.Errorf("liked = %v, want [a]", remote.liked)
		}
	})

	t.Run("repeats the whole range until none remain", func(t *testing.T) {
		remote := newFakeRemote()
		likeAll(t, remote, "a", "b", "c")
		remote.drops[key(models.Indifferent, "c")] = 2
		sleeper := &recordingSleeper{}
		rb := newRollbackController(remote, sleeper)

		report, err := rb.Rollback(context.Background(), NewSequence(itemsWithIDs("a", "b", "c"), false), Window{0, 3})
		if err != nil {
			t.Fatalf("Rollback() error = %v", err)
		}
		if report.Cycles != 3 || report.Reversals != 9 {
			t.Errorf("report = %+v, want 3 cycles and 9 reversals", report)
		}
		// one pause per accepted call plus one between cycles
		if got := sleeper.count(); got != 9+2 {
			t.Errorf("pauses = %d, want 11", got)
		}
	})

	t.Run("missing collection confirms trivially", func(t *testing.T) {
		remote := newFakeRemote()
		remote.neverExists = true
		rb := newRollbackController(remote, &recordingSleeper{})

		report, err := rb.Rollback(context.Background(), NewSequence(itemsWithIDs("a", "b"), false), Window{0, 2})
		if err != nil {
			t.Fatalf("Rollback() error = %v", err)
		}
		if report.Cycles != 1 || remote.readCalls != 0 {
			t.Errorf("report = %+v, read calls = %d", report, remote.readCalls)
		}
	})

	t.Run("leaves duplicates of earlier items alone", func(t *testing.T) {
		remote := newFakeRemote()
		likeAll(t, remote, "a", "b")
		rb := newRollbackController(remote, &recordingSleeper{})

		_, err := rb.Rollback(context.Background(), NewSequence(itemsWithIDs("a", "b", "a", ""), false), Window{1, 4})
		if err != nil {
			t.Fatalf("Rollback() error = %v", err)
		}
		if got, want := remote.callsFor(models.Indifferent), []string{"b"}; !slices.Equal(got, want) {
			t.Errorf("unlike calls = %v, want %v", got, want)
		}
	})

	t.Run("nothing to reverse", func(t *testing.T) {
		remote := newFakeRemote()
		rb := newRollbackController(remote, &recordingSleeper{})

		report, err := rb.Rollback(context.Background(), NewSequence(itemsWithIDs("a", "a"), false), Window{1, 2})
		if err != nil {
			t.Fatalf("Rollback() error = %v", err)
		}
		if report.Cycles != 0 || remote.findCalls != 0 {
			t.Errorf("report = %+v, find calls = %d", report, remote.findCalls)
		}
	})

	t.Run("reversal failure is fatal", func(t *testing.T) {
		remote := newFakeRemote()
		likeAll(t, remote, "a")
		remote.always[key(models.Indifferent, "a")] = errors.New("HTTP 503")
		rb := newRollbackController(remote, &recordingSleeper{})

		_, err := rb.Rollback(context.Background(), NewSequence(itemsWithIDs("a"), false), Window{0, 1})
		var me *MutationError
		if !errors.As(err, &me) || me.Op != "rollback" {
			t.Errorf("Rollback() error = %v, want rollback *MutationError", err)
		}
	})
}
