package tasks

import (
	"context"
	"sync"
)

// CheckpointStore records the committed index of a job.
//
// The engine saves after every commit and rewind. Implementations must not be
// relied on for automatic resume: the caller always supplies the start index.
// Load lets a caller report where an interrupted job can be picked up.
type CheckpointStore interface {
	Save(ctx context.Context, jobID string, committed int) error
	Load(ctx context.Context, jobID string) (int, bool, error)
}

// MemoryCheckpointStore keeps checkpoints for the lifetime of the process.
type MemoryCheckpointStore struct {
	mu     sync.Mutex
	values map[string]int
}

func NewMemoryCheckpointStore() *MemoryCheckpointStore {
	return &MemoryCheckpointStore{values: make(map[string]int)}
}

func (s *MemoryCheckpointStore) Save(_ context.Context, jobID string, committed int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[jobID] = committed
	return nil
}

func (s *MemoryCheckpointStore) Load(_ context.Context, jobID string) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[jobID]
	return v, ok, nil
}
