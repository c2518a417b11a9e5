// Package repositories implements SQLite persistence for import history.
//
// Key Implementations:
//   - [ImportRunRepository] : one row per `likes import` run with status and counters
//   - [CheckpointRepository] : append-only log of committed indexes, usable as the
//     engine's [tasks.CheckpointStore]
//
// Checkpoints are recorded for the user, not read back by the engine: a crashed
// run is resumed by passing its committed index + 1 as --start.
//
// Sequence numbers provide stable, human-readable ordering (run #3) independent of UUIDs.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
