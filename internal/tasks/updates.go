package tasks

import (
	"fmt"

	"github.com/desertthunder/ytlikes/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data; [Snapshot] for import phases
}

// Snapshot is the engine's cursor state at the moment an update was sent.
type Snapshot struct {
	State     State
	Committed int
	Current   int
}

// Operation phase enumeration
type Phase int

const (
	FetchSource Phase = iota
	FetchTarget
	ApplyItems
	VerifyBatch
	CommitBatch
	RollbackBatch
	UnlikeItems
	Compare
	Finished
)

func (p Phase) String() string {
	switch p {
	case FetchSource:
		return "fetch_source"
	case FetchTarget:
		return "fetch_target"
	case ApplyItems:
		return "apply"
	case VerifyBatch:
		return "verify"
	case CommitBatch:
		return "commit"
	case RollbackBatch:
		return "rollback"
	case UnlikeItems:
		return "unlike"
	case Compare:
		return "compare"
	case Finished:
		return "finished"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func snapshot(job *ImportJob) Snapshot {
	return Snapshot{State: job.State, Committed: job.CommittedIndex, Current: job.CurrentIndex}
}

func applyUpdate(job *ImportJob, item models.Item) ProgressUpdate {
	n := job.Sequence.Len()
	return ProgressUpdate{
		Phase:   ApplyItems,
		Step:    job.CurrentIndex + 1,
		Total:   n,
		Message: fmt.Sprintf("[%d/%d] Liking: %s by %s", job.CurrentIndex+1, n, item.DisplayTitle(), item.ArtistNames()),
		Data:    snapshot(job),
	}
}

func verifyUpdate(job *ImportJob) ProgressUpdate {
	return ProgressUpdate{
		Phase:   VerifyBatch,
		Step:    job.CurrentIndex,
		Total:   job.Sequence.Len(),
		Message: fmt.Sprintf("Verifying batch of %d songs...", job.CurrentIndex-job.CommittedIndex),
		Data:    snapshot(job),
	}
}

func commitUpdate(job *ImportJob) ProgressUpdate {
	n := job.Sequence.Len()
	return ProgressUpdate{
		Phase:   CommitBatch,
		Step:    job.CommittedIndex,
		Total:   n,
		Message: fmt.Sprintf("Verified! Committed up to song %d/%d", job.CommittedIndex, n),
		Data:    snapshot(job),
	}
}

func rollbackUpdate(job *ImportJob, first int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RollbackBatch,
		Step:    first + 1,
		Total:   job.Sequence.Len(),
		Message: fmt.Sprintf("Verification failed at song %d, rolling back songs %d to %d...", first+1, first+1, job.CurrentIndex),
		Data:    snapshot(job),
	}
}

func finishedUpdate(job *ImportJob) ProgressUpdate {
	n := job.Sequence.Len()
	return ProgressUpdate{
		Phase:   Finished,
		Step:    job.CommittedIndex,
		Total:   n,
		Message: fmt.Sprintf("Done! Processed %d songs (%d unique).", n, job.Sequence.UniqueCount()),
		Data:    snapshot(job),
	}
}

func unlikeUpdate(step, total int, item models.Item) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UnlikeItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Unliking: %s by %s", step, total, item.DisplayTitle(), item.ArtistNames()),
	}
}

func fetchSourceUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    1,
		Total:   2,
		Message: fmt.Sprintf("Fetching source playlist (%s)...", name),
	}
}

func fetchTargetUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTarget,
		Step:    2,
		Total:   2,
		Message: fmt.Sprintf("Fetching target playlist (%s)...", name),
	}
}

func compareUpdate(source, target int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Compare,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Comparing %d source songs against %d target songs...", source, target),
	}
}
