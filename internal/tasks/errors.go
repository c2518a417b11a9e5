package tasks

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

var (
	// ErrRetriesExhausted marks a remote call that kept failing transiently until the retry budget ran out.
	ErrRetriesExhausted = errors.New("retries exhausted")
	// ErrPermanentFailure marks a remote call rejected in a way retrying cannot fix.
	ErrPermanentFailure = errors.New("permanent remote failure")
	// ErrInvalidJob is returned when import options are out of range.
	ErrInvalidJob = errors.New("invalid import job")
)

// MutationError is the fatal error that aborts a run.
//
// It surfaces the last underlying remote error through errors.Is/As.
type MutationError struct {
	Op       string // "rate", "verify" or "rollback"
	Index    int    // 0-based sequence position, -1 when not tied to one item
	ItemID   string
	Attempts int
	Kind     error // ErrRetriesExhausted or ErrPermanentFailure
	Err      error
}

func (e *MutationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s item %d (%s) failed after %d attempt(s): %v: %v", e.Op, e.Index+1, e.ItemID, e.Attempts, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s failed after %d attempt(s): %v: %v", e.Op, e.Attempts, e.Kind, e.Err)
}

func (e *MutationError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// temporary is implemented by remote errors that know whether they are worth retrying.
type temporary interface {
	Temporary() bool
}

// isTransient classifies err. Unknown errors and transport failures are retried.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	// *url.Error reports Temporary() false for EOF and connection resets.
	var ue *url.Error
	if errors.As(err, &ue) {
		return true
	}
	var t temporary
	if errors.As(err, &t) {
		return t.Temporary()
	}
	return true
}
