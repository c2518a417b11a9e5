package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/ytlikes/internal/formatter"
	"github.com/desertthunder/ytlikes/internal/models"
	"github.com/desertthunder/ytlikes/internal/repositories"
	"github.com/desertthunder/ytlikes/internal/shared"
	"github.com/desertthunder/ytlikes/internal/tasks"
	"github.com/urfave/cli/v3"
)

// LikesImport likes every song of a playlist in batches, verifying each batch
// against the liked collection before advancing the checkpoint.
func (r *Runner) LikesImport(ctx context.Context, cmd *cli.Command) error {
	sync, err := r.syncOptions(cmd)
	if err != nil {
		return err
	}
	if err := r.authenticate(ctx); err != nil {
		return err
	}

	playlist, err := r.selectPlaylist(ctx, cmd.String("playlist"), "Enter playlist number to import likes from", false)
	if err != nil {
		return err
	}

	items, err := r.fetchItems(ctx, playlist)
	if err != nil {
		return err
	}

	seq := tasks.NewSequence(items, sync.Reverse)
	r.writePlain("%s\n", formatter.DuplicateSummary(seq.Len(), seq.UniqueCount()))
	if dups := seq.Duplicates(); len(dups) > 0 {
		r.writePlainln("Duplicates (liked once, at their first position):")
		r.writePlain("%s\n", formatter.DuplicatesTable(dups))
	}

	start := cmd.Int("start")
	if start < 1 || start > seq.Len() {
		return fmt.Errorf("%w: --start must be between 1 and %d, got %d", shared.ErrInvalidFlag, seq.Len(), start)
	}

	job, err := tasks.NewImportJob(seq, tasks.Options{
		Delay:      sync.DelayDuration(),
		BatchSize:  sync.BatchSize,
		MaxRetries: sync.MaxRetries,
		StartIndex: start - 1,
		Collection: sync.Collection,
		Status:     models.Like,
	})
	if err != nil {
		return err
	}

	runs, checkpoints, release := r.history()
	defer release()

	var store tasks.CheckpointStore
	run := models.NewImportRun(playlist.ID, playlist.Name, sync.Collection, seq.Len(), job.StartIndex, sync.Reverse)
	if runs != nil {
		if err := runs.Create(run); err != nil {
			r.logger.Warn("failed to record run, continuing without history", "error", err)
			runs = nil
		} else {
			job.ID = run.ID()
			store = checkpoints
			run.Start()
			r.updateRun(runs, run)
		}
	}

	r.writePlainHeader(fmt.Sprintf("Importing %q into %s", playlist.Name, sync.Collection))
	if job.StartIndex > 0 {
		r.writePlain("Resuming at song %d/%d\n", start, seq.Len())
	}

	progress := make(chan tasks.ProgressUpdate, 64)
	wait := r.drainProgress(progress)
	result, runErr := r.newEngine(store).Run(ctx, job, progress)
	close(progress)
	wait()

	if result == nil {
		return runErr
	}

	if runs != nil {
		run.SetCommittedIndex(result.CommittedIndex)
		run.SetCounters(result.Mutations, result.Rollbacks)
		run.Finish(runStatus(result.State), runErr)
		r.updateRun(runs, run)
	}

	r.writePlainln("%s", formatter.ImportSummary(result))
	if runs != nil {
		r.writePlain("Recorded as run #%d\n", run.Sequence())
	}

	switch {
	case runErr == nil:
		return nil
	case result.State == tasks.Cancelled:
		r.logger.Warn("import cancelled", "committed", result.CommittedIndex, "total", result.Total)
		return nil
	default:
		return fmt.Errorf("import aborted: %w", runErr)
	}
}

// LikesUnlike clears the rating of every song in a playlist after confirmation.
func (r *Runner) LikesUnlike(ctx context.Context, cmd *cli.Command) error {
	delay := cmd.Float("delay")
	if delay < 0 {
		return fmt.Errorf("%w: --delay must be >= 0, got %v", shared.ErrInvalidFlag, delay)
	}
	maxRetries := r.config.Sync.MaxRetries
	if cmd.IsSet("max-retries") {
		maxRetries = cmd.Int("max-retries")
	}
	if maxRetries < 1 {
		return fmt.Errorf("%w: --max-retries must be >= 1, got %d", shared.ErrInvalidFlag, maxRetries)
	}

	if err := r.authenticate(ctx); err != nil {
		return err
	}

	playlist, err := r.selectPlaylist(ctx, cmd.String("playlist"), "Enter playlist number to unlike songs from", true)
	if err != nil {
		return err
	}

	items, err := r.fetchItems(ctx, playlist)
	if err != nil {
		return err
	}
	r.writePlain("Total songs: %d\n", len(items))

	if !cmd.Bool("yes") {
		r.writePlainln("WARNING: This will unlike all %d songs from '%s'", len(items), playlist.Name)
		ok, err := r.confirm("Are you sure you want to continue?")
		if err != nil {
			return err
		}
		if !ok {
			return r.writePlain("Cancelled. No songs were unliked.\n")
		}
	}

	sync := r.config.Sync
	sync.Delay = delay
	progress := make(chan tasks.ProgressUpdate, 64)
	wait := r.drainProgress(progress)
	result, err := r.newEngine(nil).Unlike(ctx, items, sync.DelayDuration(), maxRetries, progress)
	close(progress)
	wait()

	if result != nil {
		r.writePlainln("%s", formatter.UnlikeSummary(result))
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("unlike stopped: %w", err)
	}
	return nil
}

// LikesHistory lists recorded import runs, newest first.
//
// A run still marked running was interrupted before its row was finalized; its
// committed index comes from the checkpoint log instead.
func (r *Runner) LikesHistory(ctx context.Context, cmd *cli.Command) error {
	db, release, err := r.database()
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer release()

	criteria := map[string]any{"limit": cmd.Int("limit")}
	if status := cmd.String("status"); status != "" {
		criteria["status"] = status
	}

	runs, err := repositories.NewImportRunRepository(db).List(criteria)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return r.writePlain("No import runs recorded\n")
	}

	checkpoints := repositories.NewCheckpointRepository(db)
	for _, run := range runs {
		if run.Status() != models.RunRunning {
			continue
		}
		committed, ok, err := checkpoints.Load(ctx, run.ID())
		if err != nil {
			r.logger.Warn("failed to load checkpoint", "run", run.Sequence(), "error", err)
			continue
		}
		if ok && committed > run.CommittedIndex() {
			run.SetCommittedIndex(committed)
		}
	}
	return r.writePlain("%s\n", formatter.RunsTable(runs))
}

// syncOptions overlays command flags on the [sync] config section.
func (r *Runner) syncOptions(cmd *cli.Command) (shared.SyncConfig, error) {
	sync := r.config.Sync
	if cmd.IsSet("delay") {
		sync.Delay = cmd.Float("delay")
	}
	if cmd.IsSet("batch-size") {
		sync.BatchSize = cmd.Int("batch-size")
	}
	if cmd.IsSet("max-retries") {
		sync.MaxRetries = cmd.Int("max-retries")
	}
	if cmd.Bool("no-reverse") {
		sync.Reverse = false
	}
	if err := sync.Validate(); err != nil {
		return sync, fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}
	return sync, nil
}

// fetchItems loads a playlist's songs, or the liked collection for "LM".
func (r *Runner) fetchItems(ctx context.Context, playlist models.Collection) ([]models.Item, error) {
	r.writePlain("\nFetching songs from: %s\n\n", playlist.Name)
	items, err := r.youtube.FetchSequence(ctx, playlist.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch songs from %q: %w", playlist.Name, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no songs found in %q", shared.ErrTrackNotFound, playlist.Name)
	}
	return items, nil
}

func (r *Runner) updateRun(runs *repositories.ImportRunRepository, run *models.ImportRun) {
	if err := runs.Update(run); err != nil {
		r.logger.Warn("failed to update run", "run", run.Sequence(), "error", err)
	}
}

func runStatus(state tasks.State) models.RunStatus {
	switch state {
	case tasks.Done:
		return models.RunCompleted
	case tasks.Cancelled:
		return models.RunCancelled
	default:
		return models.RunAborted
	}
}
