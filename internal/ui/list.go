package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/ytlikes/internal/models"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = songItem{}
)

// playlistItem wraps [models.Collection] to implement [list.Item].
type playlistItem struct {
	playlist models.Collection
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d songs", i.playlist.ItemCount)
	if i.playlist.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.playlist.Description)
	}
	return desc
}

// songItem wraps [models.Item] with its 1-based replay position.
type songItem struct {
	position  int
	item      models.Item
	duplicate bool
}

func (i songItem) FilterValue() string { return i.item.Title + " " + i.item.ArtistNames() }
func (i songItem) Title() string {
	return fmt.Sprintf("%d. %s", i.position, i.item.DisplayTitle())
}
func (i songItem) Description() string {
	desc := i.item.ArtistNames()
	if desc == "" {
		desc = "Unknown"
	}
	switch {
	case !i.item.Mutable():
		desc += " • no video ID, skipped"
	case i.duplicate:
		desc += " • duplicate"
	}
	return desc
}
