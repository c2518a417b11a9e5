package models

import (
	"fmt"
	"time"
)

// RunStatus is the lifecycle state of an [ImportRun].
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunAborted   RunStatus = "aborted"
	RunCancelled RunStatus = "cancelled"
)

// ImportRun records one execution of the likes import and its commit checkpoint.
//
// CommittedIndex is 0-based and exclusive: every item before it was confirmed present.
type ImportRun struct {
	id             string
	sequence       int
	sourceID       string
	sourceName     string
	collection     string
	status         RunStatus
	totalItems     int
	startIndex     int
	committedIndex int
	mutations      int
	rollbacks      int
	reversed       bool
	errorMessage   string
	startedAt      *time.Time
	completedAt    *time.Time
	createdAt      time.Time
	updatedAt      time.Time
}

var _ Model = (*ImportRun)(nil)

// NewImportRun creates a pending run for the given source playlist.
func NewImportRun(sourceID, sourceName, collection string, totalItems, startIndex int, reversed bool) *ImportRun {
	now := time.Now()
	return &ImportRun{
		sourceID:       sourceID,
		sourceName:     sourceName,
		collection:     collection,
		status:         RunPending,
		totalItems:     totalItems,
		startIndex:     startIndex,
		committedIndex: startIndex,
		reversed:       reversed,
		createdAt:      now,
		updatedAt:      now,
	}
}

// RestoreImportRun rebuilds a run from stored columns.
func RestoreImportRun(
	id string, sequence int, sourceID, sourceName, collection string, status RunStatus,
	totalItems, startIndex, committedIndex, mutations, rollbacks int, reversed bool,
	errorMessage string, startedAt, completedAt *time.Time, createdAt, updatedAt time.Time,
) *ImportRun {
	return &ImportRun{
		id: id, sequence: sequence, sourceID: sourceID, sourceName: sourceName, collection: collection,
		status: status, totalItems: totalItems, startIndex: startIndex, committedIndex: committedIndex,
		mutations: mutations, rollbacks: rollbacks, reversed: reversed, errorMessage: errorMessage,
		startedAt: startedAt, completedAt: completedAt, createdAt: createdAt, updatedAt: updatedAt,
	}
}

func (r *ImportRun) ID() string              { return r.id }
func (r *ImportRun) Sequence() int           { return r.sequence }
func (r *ImportRun) SourceID() string        { return r.sourceID }
func (r *ImportRun) SourceName() string      { return r.sourceName }
func (r *ImportRun) Collection() string      { return r.collection }
func (r *ImportRun) Status() RunStatus       { return r.status }
func (r *ImportRun) TotalItems() int         { return r.totalItems }
func (r *ImportRun) StartIndex() int         { return r.startIndex }
func (r *ImportRun) CommittedIndex() int     { return r.committedIndex }
func (r *ImportRun) Mutations() int          { return r.mutations }
func (r *ImportRun) Rollbacks() int          { return r.rollbacks }
func (r *ImportRun) Reversed() bool          { return r.reversed }
func (r *ImportRun) ErrorMessage() string    { return r.errorMessage }
func (r *ImportRun) StartedAt() *time.Time   { return r.startedAt }
func (r *ImportRun) CompletedAt() *time.Time { return r.completedAt }
func (r *ImportRun) CreatedAt() time.Time    { return r.createdAt }
func (r *ImportRun) UpdatedAt() time.Time    { return r.updatedAt }

func (r *ImportRun) SetID(id string)              { r.id = id }
func (r *ImportRun) SetSequence(seq int)          { r.sequence = seq }
func (r *ImportRun) SetUpdatedAt(t time.Time)     { r.updatedAt = t }
func (r *ImportRun) SetCommittedIndex(i int)      { r.committedIndex = i }
func (r *ImportRun) SetCounters(mutations, rollbacks int) {
	r.mutations = mutations
	r.rollbacks = rollbacks
}

// Start marks the run as running.
func (r *ImportRun) Start() {
	now := time.Now()
	r.status = RunRunning
	r.startedAt = &now
}

// Finish moves the run into a terminal status, recording err when non-nil.
func (r *ImportRun) Finish(status RunStatus, err error) {
	now := time.Now()
	r.status = status
	r.completedAt = &now
	if err != nil {
		r.errorMessage = err.Error()
	}
}

// Validate checks the run's invariants.
func (r *ImportRun) Validate() error {
	if r.sourceID == "" {
		return fmt.Errorf("source playlist ID is required")
	}
	if r.collection == "" {
		return fmt.Errorf("target collection is required")
	}
	if r.startIndex < 0 || r.startIndex > r.totalItems {
		return fmt.Errorf("start index %d out of range [0, %d]", r.startIndex, r.totalItems)
	}
	if r.committedIndex < r.startIndex || r.committedIndex > r.totalItems {
		return fmt.Errorf("committed index %d out of range [%d, %d]", r.committedIndex, r.startIndex, r.totalItems)
	}
	switch r.status {
	case RunPending, RunRunning, RunCompleted, RunAborted, RunCancelled:
	default:
		return fmt.Errorf("invalid status: %s", r.status)
	}
	return nil
}
