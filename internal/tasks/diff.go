package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytlikes/internal/models"
	"github.com/desertthunder/ytlikes/internal/shared"
)

// Positioned is an item with its 0-based position in the list it came from.
type Positioned struct {
	Position int
	Item     models.Item
}

// DiffResult compares a source list against a target by ItemID.
type DiffResult struct {
	Source       models.Collection
	Target       models.Collection
	SourceTotal  int
	SourceUnique int
	TargetTotal  int
	Missing      []Positioned // first occurrence of source IDs absent from target, in source order
	Extra        []Positioned // target IDs absent from source, in target order
	Duplicates   []Duplicate  // repeat occurrences within source
	TargetDups   []Duplicate  // repeat occurrences within target
}

// InSync reports whether target holds exactly the source's distinct IDs.
func (d *DiffResult) InSync() bool {
	return len(d.Missing) == 0 && len(d.Extra) == 0
}

// Diff compares two item lists. Items without an ItemID are ignored.
func Diff(source, target []models.Item) *DiffResult {
	seq := NewSequence(source, false)
	result := &DiffResult{
		SourceTotal:  len(source),
		SourceUnique: seq.UniqueCount(),
		TargetTotal:  len(target),
		Duplicates:   seq.Duplicates(),
		TargetDups:   NewSequence(target, false).Duplicates(),
	}

	targetIDs := make(map[string]struct{}, len(target))
	for _, item := range target {
		if item.Mutable() {
			targetIDs[item.ItemID] = struct{}{}
		}
	}

	for i, item := range source {
		if !item.Mutable() || seq.IsDuplicate(i) {
			continue
		}
		if _, ok := targetIDs[item.ItemID]; !ok {
			result.Missing = append(result.Missing, Positioned{Position: i, Item: item})
		}
	}

	reported := make(map[string]struct{})
	for i, item := range target {
		if !item.Mutable() {
			continue
		}
		if _, ok := seq.FirstPosition(item.ItemID); ok {
			continue
		}
		if _, ok := reported[item.ItemID]; ok {
			continue
		}
		reported[item.ItemID] = struct{}{}
		result.Extra = append(result.Extra, Positioned{Position: i, Item: item})
	}

	return result
}

// CompareCollections fetches both collections through src and diffs them.
func CompareCollections(ctx context.Context, src ItemSource, source, target models.Collection, progress chan<- ProgressUpdate) (*DiffResult, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: item source not initialized", shared.ErrServiceUnavailable)
	}

	sendProgress(progress, fetchSourceUpdate(source.Name))
	sourceItems, err := src.FetchSequence(ctx, source.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source playlist %q: %w", source.Name, err)
	}

	sendProgress(progress, fetchTargetUpdate(target.Name))
	targetItems, err := src.FetchSequence(ctx, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch target playlist %q: %w", target.Name, err)
	}

	sendProgress(progress, compareUpdate(len(sourceItems), len(targetItems)))
	result := Diff(sourceItems, targetItems)
	result.Source = source
	result.Target = target
	return result, nil
}
