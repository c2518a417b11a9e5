package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytlikes/internal/formatter"
	"github.com/desertthunder/ytlikes/internal/models"
	"github.com/desertthunder/ytlikes/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PlaylistsList prints every library playlist with its song count.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.authenticate(ctx); err != nil {
		return err
	}

	playlists, err := r.youtube.GetPlaylists(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch playlists: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	if len(playlists) == 0 {
		return r.writePlain("No playlists found\n")
	}
	r.writePlain("%s\n", formatter.PlaylistsTable(playlists))
	return r.writePlain("%d playlists\n", len(playlists))
}

// PlaylistsSongs prints a playlist's songs, optionally only the first or last N.
// Numbering always follows the full playlist.
func (r *Runner) PlaylistsSongs(ctx context.Context, cmd *cli.Command) error {
	head, tail := cmd.Int("head"), cmd.Int("tail")
	if _, _, err := formatter.Window(nil, head, tail); err != nil {
		return err
	}

	if err := r.authenticate(ctx); err != nil {
		return err
	}

	playlist, err := r.selectPlaylist(ctx, cmd.String("playlist"), "Enter playlist number to list songs from", true)
	if err != nil {
		return err
	}

	items, err := r.fetchItems(ctx, playlist)
	if err != nil {
		return err
	}

	shown, offset, err := formatter.Window(items, head, tail)
	if err != nil {
		return err
	}

	seq := tasks.NewSequence(items, false)
	r.writePlain("%s\n", formatter.ItemsTable(shown, offset))
	return r.writePlain("%s\n", formatter.DuplicateSummary(seq.Len(), seq.UniqueCount()))
}

// PlaylistsDiff compares a source playlist against a target by video ID.
func (r *Runner) PlaylistsDiff(ctx context.Context, cmd *cli.Command) error {
	if err := r.authenticate(ctx); err != nil {
		return err
	}

	source, err := r.selectPlaylist(ctx, cmd.String("source"), "Enter SOURCE playlist number", true)
	if err != nil {
		return err
	}
	target, err := r.selectPlaylist(ctx, cmd.String("target"), "Enter TARGET playlist number", true)
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 4)
	wait := r.drainProgress(progress)
	result, err := tasks.CompareCollections(ctx, r.youtube, source, target, progress)
	close(progress)
	wait()
	if err != nil {
		return err
	}

	r.writePlainln("%s", formatter.DiffSummary(result))
	r.writeDuplicates("source", result.Source, result.Duplicates)
	r.writeDuplicates("target", result.Target, result.TargetDups)

	if len(result.Missing) > 0 {
		r.writePlainln("Missing from %q (%d):", result.Target.Name, len(result.Missing))
		r.writePlain("%s\n", formatter.PositionedTable(result.Missing))
	}
	if len(result.Extra) > 0 {
		r.writePlainln("Only in %q (%d):", result.Target.Name, len(result.Extra))
		r.writePlain("%s\n", formatter.PositionedTable(result.Extra))
	}
	return nil
}

// PlaylistsExport writes a playlist's songs as CSV, JSON or text.
func (r *Runner) PlaylistsExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if err := r.authenticate(ctx); err != nil {
		return err
	}

	playlist, err := r.selectPlaylist(ctx, cmd.String("playlist"), "Enter playlist number to export", true)
	if err != nil {
		return err
	}

	items, err := r.fetchItems(ctx, playlist)
	if err != nil {
		return err
	}

	export := &models.CollectionExport{Collection: playlist, Items: items}
	path, err := formatter.WriteExport(export, format, cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("playlist exported", "playlist", playlist.Name, "songs", len(items), "path", path)
	return r.writePlain("%s\n", formatter.Status(true, fmt.Sprintf("Exported %d songs to %s", len(items), path)))
}

func (r *Runner) writeDuplicates(side string, c models.Collection, dups []tasks.Duplicate) {
	if len(dups) == 0 {
		return
	}
	r.writePlainln("Duplicates in %s %q (%d):", side, c.Name, len(dups))
	r.writePlain("%s\n", formatter.DuplicatesTable(dups))
}
