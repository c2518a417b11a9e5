// Package tasks replays an ordered list of rating changes against YouTube Music,
// which offers no transactions, no batch API and lagging reads.
//
// # Core Operations
//
// The [Importer] interface defines the operations the CLI drives:
//
//  1. [Importer.Run] : checkpointed import
//     - Applies one rating at a time through the [Mutator] (bounded retry, fixed pacing)
//     - Every BatchSize items, re-reads the collection with the [Verifier]
//     - Commits the checkpoint when the whole window is observed
//     - Otherwise the [RollbackController] reverses the unconfirmed tail and the
//     cursor rewinds to the first unconfirmed item
//
//  2. [Importer.Unlike] : bulk rating reset in reverse list order
//
// [CompareCollections] and [Diff] report how a target collection differs from its source.
//
// # State Machine
//
//	Idle → Applying → Verifying → Committed → Applying … → Done
//	                            ↘ RollingBack → Applying
//
// [FatalAbort] ends a run whose remote call exhausted its retries or was rejected
// permanently; [Cancelled] ends a run whose context was cancelled. Both leave
// CommittedIndex at the last confirmed checkpoint, which is where a later run
// should start.
//
// # Duplicates
//
// [Sequence] indexes the first occurrence of every ItemID. Later occurrences are
// never sent to the remote, are vacuously confirmed, and are left alone by rollback.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
// Updates use select with default so a slow reader never stalls a run.
package tasks
