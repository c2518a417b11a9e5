package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytlikes/internal/models"
)

// RollbackReport summarizes one Rollback call.
type RollbackReport struct {
	Cycles    int // reverse-and-recheck cycles run
	Reversals int // remote reversal calls accepted
}

// RollbackController reverses an unconfirmed range and waits until the remote agrees.
//
// Unlike the [Mutator] it has no retry ceiling on the recheck: a persistent mismatch
// means the remote is broken and there is no better recovery than to keep trying.
type RollbackController struct {
	remote     RemoteStore
	collection string
	mutator    *Mutator
	sleeper    Sleeper
	policy     RetryPolicy
	logger     *log.Logger
}

// NewRollbackController creates a controller that reverses through mutator.
func NewRollbackController(remote RemoteStore, collection string, mutator *Mutator, sleeper Sleeper, policy RetryPolicy, logger *log.Logger) *RollbackController {
	return &RollbackController{
		remote:     remote,
		collection: collection,
		mutator:    mutator,
		sleeper:    sleeper,
		policy:     policy,
		logger:     logger,
	}
}

// Rollback reverses every canonical occurrence in w, then re-reads the collection
// and repeats the full cycle until none of the range's ItemIDs remain.
//
// Duplicates whose canonical occurrence precedes w.Start are left alone: that
// occurrence is already confirmed. A missing collection confirms trivially.
func (r *RollbackController) Rollback(ctx context.Context, seq *Sequence, w Window) (RollbackReport, error) {
	var report RollbackReport

	targets := r.targets(seq, w)
	if len(targets) == 0 {
		return report, nil
	}

	for {
		report.Cycles++

		for _, i := range targets {
			if _, err := r.mutator.Apply(ctx, i, seq.Item(i), models.Indifferent); err != nil {
				if me, ok := err.(*MutationError); ok {
					me.Op = "rollback"
				}
				return report, err
			}
			report.Reversals++
		}

		membership, found, err := readCollection(ctx, r.remote, r.collection, 2*w.Len(), r.sleeper, r.policy, r.logger, "rollback")
		if err != nil {
			return report, err
		}
		if !found {
			r.logger.Info("rollback verified (collection empty)", "start", w.Start+1, "end", w.End)
			return report, nil
		}

		remaining := 0
		for _, i := range targets {
			if membership.Has(seq.Item(i).ItemID) {
				remaining++
			}
		}
		if remaining == 0 {
			r.logger.Info("rollback verified", "start", w.Start+1, "end", w.End, "cycles", report.Cycles)
			return report, nil
		}

		r.logger.Warn("rollback verification failed, retrying", "remaining", remaining, "cycle", report.Cycles)
		if err := r.sleeper.Sleep(ctx, r.policy.Delay); err != nil {
			return report, err
		}
	}
}

// targets lists positions in w whose ItemID was first seen inside w.
func (r *RollbackController) targets(seq *Sequence, w Window) []int {
	var out []int
	for i := w.Start; i < w.End; i++ {
		if seq.Item(i).Mutable() && !seq.IsDuplicate(i) {
			out = append(out, i)
		}
	}
	return out
}
