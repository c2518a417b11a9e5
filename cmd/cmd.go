// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func playlistFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "playlist",
		Aliases: []string{"p"},
		Usage:   "Playlist ID or exact name (prompts when omitted)",
	}
}

// likesCommand handles the liked songs import and its history
func likesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "likes",
		Usage: "Liked songs operations",
		Commands: []*cli.Command{
			{
				Name:  "import",
				Usage: "Like every song of a playlist, verifying each batch before moving on",
				Flags: []cli.Flag{
					playlistFlag(),
					&cli.FloatFlag{
						Name:  "delay",
						Usage: "Seconds between requests (default: config sync.delay)",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Songs per verification batch (default: config sync.batch_size)",
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Attempts per request before aborting (default: config sync.max_retries)",
					},
					&cli.BoolFlag{
						Name:  "no-reverse",
						Usage: "Like songs in playlist order instead of last to first",
					},
					&cli.IntFlag{
						Name:  "start",
						Usage: "1-based position to resume from",
						Value: 1,
					},
				},
				Action: r.LikesImport,
			},
			{
				Name:  "unlike",
				Usage: "Remove the like from every song of a playlist",
				Flags: []cli.Flag{
					playlistFlag(),
					&cli.FloatFlag{
						Name:  "delay",
						Usage: "Seconds between requests",
						Value: 0.5,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Attempts per request before aborting (default: config sync.max_retries)",
					},
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation prompt",
					},
				},
				Action: r.LikesUnlike,
			},
			{
				Name:  "history",
				Usage: "List recorded import runs",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Only show runs with this status (running, completed, aborted, cancelled)",
					},
				},
				Action: r.LikesHistory,
			},
		},
	}
}

// playlistsCommand handles read-only playlist operations
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Inspect library playlists",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List library playlists",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.PlaylistsList,
			},
			{
				Name:  "songs",
				Usage: "List the songs of a playlist",
				Flags: []cli.Flag{
					playlistFlag(),
					&cli.IntFlag{
						Name:  "head",
						Usage: "Show only the first N songs",
					},
					&cli.IntFlag{
						Name:  "tail",
						Usage: "Show only the last N songs",
					},
				},
				Action: r.PlaylistsSongs,
			},
			{
				Name:  "diff",
				Usage: "Compare two playlists and show missing and extra songs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "source",
						Aliases: []string{"s"},
						Usage:   "Source playlist ID or exact name",
					},
					&cli.StringFlag{
						Name:    "target",
						Aliases: []string{"t"},
						Usage:   "Target playlist ID or exact name (\"Liked Music\" allowed)",
					},
				},
				Action: r.PlaylistsDiff,
			},
			{
				Name:  "export",
				Usage: "Write a playlist's songs to a file",
				Flags: []cli.Flag{
					playlistFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (csv, json, txt)",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: <playlist id>_songs.<ext>)",
					},
				},
				Action: r.PlaylistsExport,
			},
		},
	}
}

// setupCommand handles setup operations for config, database and authentication.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write the example configuration file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the run history database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:    "youtube",
				Aliases: []string{"yt", "ytmusic"},
				Usage:   "Configure YouTube Music authentication from browser headers",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing cURL command",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Output path for browser.json (default: config credentials.youtube.headers_path)",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing browser.json",
					},
				},
				Action: r.SetupYouTube,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Check current authentication state (calls /health)",
				Action: r.AuthStatus,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive imports.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Pick a playlist and watch its import interactively",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where the TUI writes its log",
				Value: "./tmp/ytlikes-tui.log",
			},
		},
		Action: r.TUI,
	}
}
