// package formatter renders collections, items and run reports as terminal tables and exports item lists to CSV, JSON or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/ytlikes/internal/models"
	"github.com/desertthunder/ytlikes/internal/shared"
)

// Format selects an export encoding.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	Text Format = "text"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case CSV, JSON, Text:
		return f, nil
	case "txt":
		return Text, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want csv, json or text)", s)
	}
}

// Extension returns the file extension used for f.
func (f Format) Extension() string {
	if f == Text {
		return "txt"
	}
	return string(f)
}

// ExportToCSV converts a CollectionExport to CSV format with columns: Position, VideoID, Title, Artists, Album, Duration
func ExportToCSV(export *models.CollectionExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "VideoID", "Title", "Artists", "Album", "Duration"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, item := range export.Items {
		record := []string{
			strconv.Itoa(i + 1),
			item.ItemID,
			item.Title,
			item.ArtistNames(),
			item.Album,
			shared.FormatDuration(item.Duration),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToJSON encodes the collection and its items.
func ExportToJSON(export *models.CollectionExport, pretty bool) ([]byte, error) {
	return shared.MarshalJSON(export, pretty)
}

// ExportToText converts a CollectionExport to plain text format
func ExportToText(export *models.CollectionExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", export.Collection.Name)
	if export.Collection.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", export.Collection.Description)
	}
	fmt.Fprintf(&buf, "Songs: %d\n\n", len(export.Items))

	for i, item := range export.Items {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, item.DisplayTitle(), artistsOrUnknown(item))
	}

	return buf.Bytes(), nil
}

// Export encodes export in the given format.
func Export(export *models.CollectionExport, format Format) ([]byte, error) {
	switch format {
	case CSV:
		return ExportToCSV(export)
	case JSON:
		return ExportToJSON(export, true)
	case Text:
		return ExportToText(export)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// WriteExport writes export to path in the given format.
//
// Defaults to {collection.ID}_songs.{ext} as the filename.
func WriteExport(export *models.CollectionExport, format Format, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s_songs.%s", export.Collection.ID, format.Extension())
	}

	data, err := Export(export, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

// Window selects the first head or last tail items, returning the 0-based
// offset of the first selected item so numbering matches the full list.
//
// head and tail are mutually exclusive; zero for both selects everything.
func Window(items []models.Item, head, tail int) ([]models.Item, int, error) {
	switch {
	case head < 0 || tail < 0:
		return nil, 0, fmt.Errorf("head and tail must not be negative")
	case head > 0 && tail > 0:
		return nil, 0, fmt.Errorf("--head and --tail are mutually exclusive")
	case head > 0:
		return items[:min(head, len(items))], 0, nil
	case tail > 0:
		offset := max(len(items)-tail, 0)
		return items[offset:], offset, nil
	default:
		return items, 0, nil
	}
}

func artistsOrUnknown(item models.Item) string {
	if len(item.Artists) == 0 {
		return "Unknown"
	}
	return item.ArtistNames()
}
