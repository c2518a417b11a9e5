package models

import "strings"

// LikedCollectionName is the title of the implicit collection holding liked items.
const LikedCollectionName = "Liked Music"

// LikedCollectionID is the fixed playlist ID of the liked collection.
const LikedCollectionID = "LM"

// LikeStatus is the rating applied to an item.
type LikeStatus string

const (
	Like        LikeStatus = "LIKE"
	Dislike     LikeStatus = "DISLIKE"
	Indifferent LikeStatus = "INDIFFERENT"
)

// Item is a remote-addressable track.
//
// Identity comparisons use ItemID exclusively; Title and Artists are display metadata.
// An empty ItemID marks the item as non-mutable.
type Item struct {
	ItemID   string   `json:"videoId"`
	Title    string   `json:"title"`
	Artists  []string `json:"artists"`
	Album    string   `json:"album,omitempty"`
	Duration int      `json:"duration_seconds,omitempty"`
}

// Mutable reports whether the item carries an identifier.
func (i Item) Mutable() bool {
	return i.ItemID != ""
}

// ArtistNames joins contributor names for display.
func (i Item) ArtistNames() string {
	return strings.Join(i.Artists, ", ")
}

// DisplayTitle returns the title, or "Unknown" when the remote omitted one.
func (i Item) DisplayTitle() string {
	if i.Title == "" {
		return "Unknown"
	}
	return i.Title
}

// Collection represents a remote playlist.
type Collection struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ItemCount   int    `json:"count"`
	Public      bool   `json:"public"`
}

// CollectionExport is a collection with its full ordered item list.
type CollectionExport struct {
	Collection Collection `json:"collection"`
	Items      []Item     `json:"items"`
}
