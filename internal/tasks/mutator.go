package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytlikes/internal/models"
)

// Outcome is what happened to one sequence position while applying.
type Outcome int

const (
	Applied Outcome = iota // remote mutation issued and accepted
	Skipped                // no ItemID; nothing to mutate
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Skipped:
		return "skipped"
	default:
		return ""
	}
}

// MutationReport describes a single Apply call.
type MutationReport struct {
	Outcome  Outcome
	Attempts int
}

// Mutator applies one mutation with bounded retry and fixed pacing.
//
// It carries no state between calls.
type Mutator struct {
	remote  RemoteStore
	sleeper Sleeper
	policy  RetryPolicy
	logger  *log.Logger
}

// NewMutator creates a Mutator that retries each item up to policy.MaxAttempts times.
func NewMutator(remote RemoteStore, sleeper Sleeper, policy RetryPolicy, logger *log.Logger) *Mutator {
	return &Mutator{remote: remote, sleeper: sleeper, policy: policy, logger: logger}
}

// Apply sets item to status.
//
// Items without an ItemID are reported as Skipped without a remote call. After an
// accepted call the mutator pauses for the policy delay so consecutive calls stay
// under the remote's rate limit. A returned *MutationError is fatal for the run.
func (m *Mutator) Apply(ctx context.Context, index int, item models.Item, status models.LikeStatus) (MutationReport, error) {
	if !item.Mutable() {
		m.logger.Warn("skipping item without identifier", "index", index+1, "title", item.DisplayTitle())
		return MutationReport{Outcome: Skipped}, nil
	}

	attempts, err := m.policy.do(ctx, m.sleeper, m.logger, "rate", index, item.ItemID, func() error {
		return m.remote.RateItem(ctx, item.ItemID, status)
	})
	if err != nil {
		return MutationReport{Outcome: Applied, Attempts: attempts}, err
	}

	if err := m.sleeper.Sleep(ctx, m.policy.Delay); err != nil {
		return MutationReport{Outcome: Applied, Attempts: attempts}, err
	}

	return MutationReport{Outcome: Applied, Attempts: attempts}, nil
}
