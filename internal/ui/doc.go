// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI walks through a likes import:
//  1. [PlaylistListView] : Browse and select a source playlist
//  2. [TrackListView] : Preview songs and the duplicate count
//  3. [ConfirmView] : Confirm the import settings
//  4. [ImportView] : Monitor commits and rollbacks as they happen
//  5. [ResultView] : Display the committed position and counters
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the import engine, providing non-blocking status reporting during imports.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
