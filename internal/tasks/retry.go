package tasks

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// RetryPolicy is a bounded retry with a fixed pause between attempts.
//
// Remote throttling responds to steady pacing, so there is no backoff.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// do calls fn until it succeeds, fails permanently, or MaxAttempts is reached.
//
// It returns the number of attempts made and the last error. Exhaustion and
// permanent failures are wrapped in a *MutationError; context errors are returned as is.
func (p RetryPolicy) do(ctx context.Context, sleeper Sleeper, logger *log.Logger, op string, index int, itemID string, fn func() error) (int, error) {
	attempts := max(p.MaxAttempts, 1)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if cerr := ctx.Err(); cerr != nil {
			return attempt - 1, cerr
		}

		if err = fn(); err == nil {
			return attempt, nil
		}

		if ctx.Err() != nil {
			return attempt, ctx.Err()
		}

		if !isTransient(err) {
			return attempt, &MutationError{Op: op, Index: index, ItemID: itemID, Attempts: attempt, Kind: ErrPermanentFailure, Err: err}
		}

		if attempt == attempts {
			break
		}

		logger.Warn("remote call failed, retrying", "op", op, "item", itemID, "attempt", attempt, "max", attempts, "error", err)
		if serr := sleeper.Sleep(ctx, p.Delay); serr != nil {
			return attempt, serr
		}
	}

	return attempts, &MutationError{Op: op, Index: index, ItemID: itemID, Attempts: attempts, Kind: ErrRetriesExhausted, Err: err}
}
