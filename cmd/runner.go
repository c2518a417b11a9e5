package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytlikes/internal/formatter"
	"github.com/desertthunder/ytlikes/internal/models"
	"github.com/desertthunder/ytlikes/internal/repositories"
	"github.com/desertthunder/ytlikes/internal/services"
	"github.com/desertthunder/ytlikes/internal/shared"
	"github.com/desertthunder/ytlikes/internal/tasks"
	"github.com/urfave/cli/v3"
)

// YouTubeClient is everything the commands need from the proxy: library reads,
// ratings, and the membership reads the import engine verifies against.
type YouTubeClient interface {
	services.Service
	tasks.RemoteStore
	tasks.ItemSource
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	youtube    YouTubeClient
	sleeper    tasks.Sleeper
	db         *sql.DB
	logger     *log.Logger
	output     io.Writer
	input      *bufio.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	YouTube    YouTubeClient
	Sleeper    tasks.Sleeper // nil uses wall-clock pauses
	DB         *sql.DB       // nil opens config.Database per command
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = "config.toml"
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		youtube:    opts.YouTube,
		sleeper:    opts.Sleeper,
		db:         opts.DB,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      bufio.NewReader(opts.Input),
	}
}

// app builds the root command.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "ytlikes",
		Usage:   "Import a YouTube Music playlist into your liked songs, verified in batches",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   r.configPath,
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.before,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		likesCommand, playlistsCommand, setupCommand, authCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// before loads the config file and applies root flags ahead of any command action.
// A missing file is only an error when --config was given explicitly.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	path := cmd.String("config")
	r.configPath = path
	if _, err := os.Stat(path); err == nil {
		config, err := shared.LoadConfig(path)
		if err != nil {
			return ctx, err
		}
		r.config = config
		r.logger.Debug("loaded config", "path", path)
	} else if cmd.IsSet("config") {
		return ctx, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
	}

	if r.youtube == nil {
		yt := r.config.Credentials.YouTube
		r.youtube = services.NewYouTubeService(yt.ProxyURL, yt.RequestsPerSecond, nil)
	}
	return ctx, nil
}

// newEngine builds an import engine over the proxy, recording checkpoints in store.
func (r *Runner) newEngine(store tasks.CheckpointStore) *tasks.ImportEngine {
	return tasks.NewImportEngine(r.youtube, tasks.EngineOpts{
		Checkpoints: store,
		Sleeper:     r.sleeper,
		Logger:      r.logger,
	})
}

// authenticate checks that browser.json exists and hands it to the proxy client.
func (r *Runner) authenticate(ctx context.Context) error {
	path := shared.ExpandHome(r.config.Credentials.YouTube.HeadersPath)
	if path == "" {
		return fmt.Errorf("%w: credentials.youtube.headers_path is not set", shared.ErrMissingCredentials)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s not found, run 'ytlikes setup youtube' first", shared.ErrMissingCredentials, path)
	}
	if info.IsDir() || info.Size() == 0 {
		return fmt.Errorf("%w: %s is not a browser.json file", shared.ErrInvalidCredentials, path)
	}
	return r.youtube.Authenticate(ctx, map[string]string{"auth_file": path})
}

// database returns the injected connection or opens the configured one.
// The returned func releases what was opened.
func (r *Runner) database() (*sql.DB, func(), error) {
	if r.db != nil {
		return r.db, func() {}, nil
	}
	db, err := shared.OpenMigrated(r.config.Database)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { db.Close() }, nil
}

// history opens run history when record_runs is on. Failures are logged and
// the import continues unrecorded.
func (r *Runner) history() (*repositories.ImportRunRepository, *repositories.CheckpointRepository, func()) {
	if !r.config.Sync.RecordRuns {
		return nil, nil, func() {}
	}
	db, release, err := r.database()
	if err != nil {
		r.logger.Warn("run history unavailable, continuing without it", "error", err)
		return nil, nil, func() {}
	}
	return repositories.NewImportRunRepository(db), repositories.NewCheckpointRepository(db), release
}

// selectPlaylist resolves ref (an ID or exact name) against the library, or
// prompts for a number from the playlists table when ref is empty. The liked
// collection is offered only when includeLiked is set.
func (r *Runner) selectPlaylist(ctx context.Context, ref, prompt string, includeLiked bool) (models.Collection, error) {
	library, err := r.youtube.GetPlaylists(ctx)
	if err != nil {
		return models.Collection{}, fmt.Errorf("failed to fetch playlists: %w", err)
	}

	playlists := make([]models.Collection, 0, len(library)+1)
	for _, p := range library {
		if p.ID != models.LikedCollectionID || includeLiked {
			playlists = append(playlists, p)
		}
	}
	if includeLiked && !containsID(playlists, models.LikedCollectionID) {
		playlists = append(playlists, models.Collection{ID: models.LikedCollectionID, Name: models.LikedCollectionName})
	}

	if ref != "" {
		for _, p := range playlists {
			if p.ID == ref || p.Name == ref {
				return p, nil
			}
		}
		return models.Collection{}, fmt.Errorf("%w: %q", shared.ErrPlaylistNotFound, ref)
	}

	if len(playlists) == 0 {
		return models.Collection{}, fmt.Errorf("%w: library has no playlists", shared.ErrPlaylistNotFound)
	}

	r.writePlain("%s\n", formatter.PlaylistsTable(playlists))
	n, err := r.promptNumber(prompt, len(playlists))
	if err != nil {
		return models.Collection{}, err
	}
	return playlists[n-1], nil
}

// promptNumber asks until it reads an integer in [1, max].
func (r *Runner) promptNumber(prompt string, max int) (int, error) {
	for {
		r.writePlain("\n%s: ", prompt)
		line, err := r.readLine()
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			r.writePlain("Please enter a valid number\n")
			continue
		}
		if n < 1 || n > max {
			r.writePlain("Please enter a number between 1 and %d\n", max)
			continue
		}
		return n, nil
	}
}

// confirm asks a yes/no question that defaults to no.
func (r *Runner) confirm(prompt string) (bool, error) {
	r.writePlain("\n%s (y/N): ", prompt)
	line, err := r.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (r *Runner) readLine() (string, error) {
	line, err := r.input.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("%w: no input", shared.ErrInvalidInput)
	}
	return strings.TrimSpace(line), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return err
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// drainProgress prints updates until progress is closed; wait blocks until the
// last one is written.
func (r *Runner) drainProgress(progress <-chan tasks.ProgressUpdate) (wait func()) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			switch update.Phase {
			case tasks.CommitBatch:
				r.writePlain("%s\n", formatter.Status(true, update.Message))
			case tasks.RollbackBatch:
				r.writePlain("%s\n", formatter.Status(false, update.Message))
			case tasks.Finished:
				r.writePlain("\n%s\n", update.Message)
			default:
				r.writePlain("%s\n", update.Message)
			}
		}
	}()
	return func() { <-done }
}

func containsID(playlists []models.Collection, id string) bool {
	for _, p := range playlists {
		if p.ID == id {
			return true
		}
	}
	return false
}
