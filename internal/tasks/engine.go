package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytlikes/internal/models"
	"github.com/desertthunder/ytlikes/internal/shared"
)

// State is a node of the import state machine.
type State int

const (
	Idle State = iota
	Applying
	Verifying
	Committed
	RollingBack
	Done
	FatalAbort
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Applying:
		return "applying"
	case Verifying:
		return "verifying"
	case Committed:
		return "committed"
	case RollingBack:
		return "rolling_back"
	case Done:
		return "done"
	case FatalAbort:
		return "fatal_abort"
	case Cancelled:
		return "cancelled"
	default:
		return ""
	}
}

// Terminal reports whether the run has stopped in s.
func (s State) Terminal() bool {
	return s == Done || s == FatalAbort || s == Cancelled
}

// Options configures an import job.
type Options struct {
	Delay      time.Duration     // pause between remote calls and between retries
	BatchSize  int               // items per verification cycle
	MaxRetries int               // attempts per remote call before the run aborts
	StartIndex int               // 0-based resume point
	Collection string            // collection verified against
	Status     models.LikeStatus // rating applied to each item
}

// DefaultOptions mirrors the [sync] section of the example config.
func DefaultOptions() Options {
	return Options{
		Delay:      time.Second,
		BatchSize:  25,
		MaxRetries: 5,
		Collection: models.LikedCollectionName,
		Status:     models.Like,
	}
}

// ImportJob is the mutable state of one run, owned by the engine while it runs.
//
// All items in [StartIndex, CommittedIndex) have been observed in the remote
// collection by a verification pass.
type ImportJob struct {
	ID             string
	Sequence       *Sequence
	StartIndex     int
	CommittedIndex int
	CurrentIndex   int
	BatchSize      int
	Delay          time.Duration
	MaxRetries     int
	Collection     string
	Status         models.LikeStatus
	State          State
}

// NewImportJob validates opts against seq and returns an Idle job.
func NewImportJob(seq *Sequence, opts Options) (*ImportJob, error) {
	if seq == nil {
		return nil, fmt.Errorf("%w: no sequence", ErrInvalidJob)
	}
	if opts.BatchSize < 1 {
		return nil, fmt.Errorf("%w: batch size must be at least 1, got %d", ErrInvalidJob, opts.BatchSize)
	}
	if opts.MaxRetries < 1 {
		return nil, fmt.Errorf("%w: max retries must be at least 1, got %d", ErrInvalidJob, opts.MaxRetries)
	}
	if opts.Delay < 0 {
		return nil, fmt.Errorf("%w: delay must not be negative, got %s", ErrInvalidJob, opts.Delay)
	}
	if opts.StartIndex < 0 || opts.StartIndex > seq.Len() {
		return nil, fmt.Errorf("%w: start index %d outside [0, %d]", ErrInvalidJob, opts.StartIndex, seq.Len())
	}
	if opts.Collection == "" {
		opts.Collection = models.LikedCollectionName
	}
	if opts.Status == "" {
		opts.Status = models.Like
	}

	return &ImportJob{
		ID:             shared.GenerateID(),
		Sequence:       seq,
		StartIndex:     opts.StartIndex,
		CommittedIndex: opts.StartIndex,
		CurrentIndex:   opts.StartIndex,
		BatchSize:      opts.BatchSize,
		Delay:          opts.Delay,
		MaxRetries:     opts.MaxRetries,
		Collection:     opts.Collection,
		Status:         opts.Status,
		State:          Idle,
	}, nil
}

// ImportResult summarizes a finished or aborted run.
type ImportResult struct {
	JobID          string
	State          State
	Total          int
	Unique         int
	StartIndex     int
	CommittedIndex int
	Mutations      int // rating calls accepted while applying
	Skipped        int // positions without an ItemID
	DuplicateSkips int // positions handled through their canonical occurrence
	Verifications  int
	Rollbacks      int
	Reversals      int // rating calls accepted while rolling back
}

// EngineOpts carries the engine's optional collaborators.
type EngineOpts struct {
	Checkpoints CheckpointStore
	Sleeper     Sleeper
	Logger      *log.Logger
}

// ImportEngine drives an [ImportJob] through apply, verify, and commit or rollback
// until every item is confirmed or a remote call fails fatally.
//
// Exactly one remote call is in flight at a time.
type ImportEngine struct {
	remote      RemoteStore
	checkpoints CheckpointStore
	sleeper     Sleeper
	logger      *log.Logger
}

// NewImportEngine creates an engine. Nil collaborators fall back to an in-memory
// checkpoint store, a timer-backed sleeper, and a discarding logger.
func NewImportEngine(remote RemoteStore, opts EngineOpts) *ImportEngine {
	e := &ImportEngine{
		remote:      remote,
		checkpoints: opts.Checkpoints,
		sleeper:     opts.Sleeper,
		logger:      opts.Logger,
	}
	if e.checkpoints == nil {
		e.checkpoints = NewMemoryCheckpointStore()
	}
	if e.sleeper == nil {
		e.sleeper = TimerSleeper
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	return e
}

// Run executes job to a terminal state.
//
// On a fatal remote failure the returned error is a *MutationError and the
// result's CommittedIndex is the last confirmed checkpoint. Cancelling ctx stops
// the run the same way with [Cancelled].
func (e *ImportEngine) Run(ctx context.Context, job *ImportJob, progress chan<- ProgressUpdate) (*ImportResult, error) {
	if job == nil || job.State != Idle {
		return nil, fmt.Errorf("%w: job is not idle", ErrInvalidJob)
	}

	// job.Sequence keeps the full duplicate report; the run only dedupes within what it replays.
	seq := job.Sequence.From(job.StartIndex)
	n := seq.Len()
	logger := shared.WithLogger(e.logger, "job", job.ID)

	policy := RetryPolicy{MaxAttempts: job.MaxRetries, Delay: job.Delay}
	mutator := NewMutator(e.remote, e.sleeper, policy, logger)
	verifier := NewVerifier(e.remote, job.Collection, e.sleeper, policy, logger)
	rollback := NewRollbackController(e.remote, job.Collection, mutator, e.sleeper, policy, logger)

	result := &ImportResult{
		JobID:      job.ID,
		Total:      n,
		Unique:     seq.UniqueCount(),
		StartIndex: job.StartIndex,
	}

	job.CommittedIndex = job.StartIndex
	job.CurrentIndex = job.StartIndex
	e.save(ctx, logger, job)

	firstUnconfirmed := -1
	e.transition(logger, job, Applying)

	for {
		switch job.State {
		case Applying:
			if job.CurrentIndex >= n {
				e.transition(logger, job, Done)
				continue
			}

			i := job.CurrentIndex
			item := seq.Item(i)
			if seq.IsDuplicate(i) {
				logger.Debug("duplicate, handled at first occurrence", "index", i+1, "first", seq.Canonical(i)+1)
				result.DuplicateSkips++
			} else {
				sendProgress(progress, applyUpdate(job, item))
				report, err := mutator.Apply(ctx, i, item, job.Status)
				if err != nil {
					return e.abort(logger, job, result, err)
				}
				switch report.Outcome {
				case Applied:
					result.Mutations++
				case Skipped:
					result.Skipped++
				}
			}

			job.CurrentIndex++
			if job.CurrentIndex-job.CommittedIndex >= job.BatchSize || job.CurrentIndex == n {
				e.transition(logger, job, Verifying)
			}

		case Verifying:
			sendProgress(progress, verifyUpdate(job))
			res, err := verifier.Verify(ctx, seq, Window{Start: job.CommittedIndex, End: job.CurrentIndex})
			if err != nil {
				return e.abort(logger, job, result, err)
			}
			result.Verifications++

			if res.Confirmed {
				e.transition(logger, job, Committed)
				continue
			}
			firstUnconfirmed = res.FirstUnconfirmed
			logger.Warn("verification failed", "index", firstUnconfirmed+1, "collection_missing", res.CollectionMissing)
			e.transition(logger, job, RollingBack)

		case Committed:
			job.CommittedIndex = job.CurrentIndex
			e.save(ctx, logger, job)
			logger.Info("batch committed", "committed", job.CommittedIndex, "total", n)
			sendProgress(progress, commitUpdate(job))

			if job.CurrentIndex == n {
				e.transition(logger, job, Done)
			} else {
				e.transition(logger, job, Applying)
			}

		case RollingBack:
			sendProgress(progress, rollbackUpdate(job, firstUnconfirmed))
			report, err := rollback.Rollback(ctx, seq, Window{Start: firstUnconfirmed, End: job.CurrentIndex})
			result.Reversals += report.Reversals
			if err != nil {
				return e.abort(logger, job, result, err)
			}
			result.Rollbacks++

			job.CommittedIndex = firstUnconfirmed
			job.CurrentIndex = firstUnconfirmed
			e.save(ctx, logger, job)
			logger.Info("rolled back, retrying", "from", firstUnconfirmed+1)
			e.transition(logger, job, Applying)

		case Done:
			result.State = Done
			result.CommittedIndex = job.CommittedIndex
			sendProgress(progress, finishedUpdate(job))
			return result, nil

		default:
			return result, fmt.Errorf("%w: unexpected state %s", ErrInvalidJob, job.State)
		}
	}
}

func (e *ImportEngine) transition(logger *log.Logger, job *ImportJob, to State) {
	logger.Debug("state transition", "from", job.State, "to", to, "committed", job.CommittedIndex, "current", job.CurrentIndex)
	job.State = to
}

// save records the checkpoint. A failing store never stops the run: the
// in-memory CommittedIndex stays authoritative.
func (e *ImportEngine) save(ctx context.Context, logger *log.Logger, job *ImportJob) {
	if err := e.checkpoints.Save(context.WithoutCancel(ctx), job.ID, job.CommittedIndex); err != nil {
		logger.Warn("failed to record checkpoint", "committed", job.CommittedIndex, "error", err)
	}
}

func (e *ImportEngine) abort(logger *log.Logger, job *ImportJob, result *ImportResult, err error) (*ImportResult, error) {
	to := FatalAbort
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		to = Cancelled
	}
	e.transition(logger, job, to)

	result.State = to
	result.CommittedIndex = job.CommittedIndex

	if to == Cancelled {
		logger.Warn("import interrupted", "committed", job.CommittedIndex, "resume_from", job.CommittedIndex+1)
	} else {
		logger.Error("import aborted", "committed", job.CommittedIndex, "error", err)
	}
	return result, err
}
