package tasks

import (
	"context"
	"time"

	"github.com/desertthunder/ytlikes/internal/models"
)

// UnlikeResult summarizes a bulk unlike.
type UnlikeResult struct {
	Total          int
	Unliked        int
	Skipped        int
	DuplicateSkips int
}

// Unlike clears the rating of every item in reverse list order, pacing calls by delay.
//
// There is no verification pass: clearing a rating twice is harmless, so a
// rerun is the recovery for anything that did not land. A fatal remote failure
// stops the run and the partial result is returned with the error.
func (e *ImportEngine) Unlike(ctx context.Context, items []models.Item, delay time.Duration, maxRetries int, progress chan<- ProgressUpdate) (*UnlikeResult, error) {
	seq := NewSequence(items, true)
	mutator := NewMutator(e.remote, e.sleeper, RetryPolicy{MaxAttempts: maxRetries, Delay: delay}, e.logger)

	result := &UnlikeResult{Total: seq.Len()}
	for i := range seq.Len() {
		item := seq.Item(i)
		if seq.IsDuplicate(i) {
			result.DuplicateSkips++
			continue
		}

		sendProgress(progress, unlikeUpdate(i+1, seq.Len(), item))
		report, err := mutator.Apply(ctx, i, item, models.Indifferent)
		if err != nil {
			return result, err
		}
		if report.Outcome == Skipped {
			result.Skipped++
			continue
		}
		result.Unliked++
	}

	sendProgress(progress, ProgressUpdate{Phase: Finished, Step: result.Total, Total: result.Total, Message: "Unlike complete"})
	return result, nil
}
