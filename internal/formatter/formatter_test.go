package formatter

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/ytlikes/internal/models"
	"github.com/desertthunder/ytlikes/internal/tasks"
	th "github.com/desertthunder/ytlikes/internal/testing"
)

func testExport() *models.CollectionExport {
	return &models.CollectionExport{
		Collection: models.Collection{
			ID:          "PL123",
			Name:        "Test Playlist",
			Description: "A test playlist",
			ItemCount:   3,
		},
		Items: []models.Item{
			{ItemID: "v1", Title: "Song One", Artists: []string{"Artist One"}, Album: "Album One", Duration: 180},
			{ItemID: "v2", Title: "Song Two", Artists: []string{"Artist Two", "Guest"}, Duration: 245},
			{Title: "Local File"},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testExport())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Position,VideoID,Title,Artists,Album,Duration") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "1,v1,Song One,Artist One,Album One,3:00") {
			t.Errorf("CSV missing first row, got: %s", output)
		}
		if !strings.Contains(output, `2,v2,Song Two,"Artist Two, Guest",,4:05`) {
			t.Errorf("CSV should quote joined artists, got: %s", output)
		}
		if !strings.Contains(output, "3,,Local File,,,-") {
			t.Errorf("CSV missing item without ID, got: %s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(testExport(), false)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded models.CollectionExport
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.Collection.ID != "PL123" || len(decoded.Items) != 3 {
			t.Errorf("unexpected decoded export: %+v", decoded.Collection)
		}
		if !strings.Contains(string(data), `"videoId":"v1"`) {
			t.Errorf("JSON should use videoId keys, got: %s", data)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testExport())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"Playlist: Test Playlist",
			"Description: A test playlist",
			"Songs: 3",
			"1. Song One - Artist One",
			"2. Song Two - Artist Two, Guest",
			"3. Local File - Unknown",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Text missing %q, got: %s", want, output)
			}
		}
	})

	t.Run("Export rejects unknown format", func(t *testing.T) {
		if _, err := Export(testExport(), Format("xml")); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", CSV, false},
		{"JSON", JSON, false},
		{"txt", Text, false},
		{"text", Text, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	if Text.Extension() != "txt" || CSV.Extension() != "csv" {
		t.Errorf("unexpected extensions %q, %q", Text.Extension(), CSV.Extension())
	}
}

func TestWriteExport(t *testing.T) {
	t.Run("WithDefaultPath", func(t *testing.T) {
		tempDir := t.TempDir()
		originalDir := th.MustGetwd(t)
		th.MustChdir(t, tempDir)
		defer th.MustChdir(t, originalDir)

		path, err := WriteExport(testExport(), CSV, "")
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if path != "PL123_songs.csv" {
			t.Errorf("expected 'PL123_songs.csv', got '%s'", path)
		}

		th.AssertFileExists(t, path)
		if content := th.MustReadFile(t, path); !strings.Contains(content, "Song One") {
			t.Errorf("CSV file missing item data")
		}
	})

	t.Run("WithCustomPath", func(t *testing.T) {
		path := t.TempDir() + "/likes.txt"

		got, err := WriteExport(testExport(), Text, path)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if got != path {
			t.Errorf("expected %s, got %s", path, got)
		}
		if content := th.MustReadFile(t, path); !strings.Contains(content, "Playlist: Test Playlist") {
			t.Errorf("text file missing header")
		}
	})

	t.Run("UnwritablePath", func(t *testing.T) {
		if _, err := WriteExport(testExport(), JSON, t.TempDir()+"/missing/dir/out.json"); err == nil {
			t.Error("expected error for missing directory")
		}
	})
}

func TestWindow(t *testing.T) {
	items := make([]models.Item, 10)
	for i := range items {
		items[i] = models.Item{ItemID: string(rune('a' + i))}
	}

	tests := []struct {
		name       string
		head, tail int
		wantLen    int
		wantOffset int
		wantErr    bool
	}{
		{"all", 0, 0, 10, 0, false},
		{"head", 3, 0, 3, 0, false},
		{"head beyond length", 20, 0, 10, 0, false},
		{"tail", 0, 4, 4, 6, false},
		{"tail beyond length", 0, 20, 10, 0, false},
		{"both", 2, 2, 0, 0, true},
		{"negative", -1, 0, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, offset, err := Window(items, tt.head, tt.tail)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Window() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != tt.wantLen || offset != tt.wantOffset {
				t.Errorf("expected %d items at offset %d, got %d at %d", tt.wantLen, tt.wantOffset, len(got), offset)
			}
			if len(got) > 0 && got[0].ItemID != items[offset].ItemID {
				t.Errorf("first item %s does not match offset %d", got[0].ItemID, offset)
			}
		})
	}
}

func TestTables(t *testing.T) {
	t.Run("PlaylistsTable", func(t *testing.T) {
		out := PlaylistsTable([]models.Collection{
			{ID: "PL1", Name: "Road Trip", ItemCount: 42},
			{ID: "LM", Name: "Liked Music", ItemCount: 7},
		})
		for _, want := range []string{"Name", "Songs", "Road Trip", "42", "Liked Music", "PL1"} {
			if !strings.Contains(out, want) {
				t.Errorf("table missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("ItemsTable keeps numbering from offset", func(t *testing.T) {
		out := ItemsTable(testExport().Items[1:], 1)
		if !strings.Contains(out, "2") || !strings.Contains(out, "Song Two") {
			t.Errorf("table missing second item:\n%s", out)
		}
		if !strings.Contains(out, "4:05") {
			t.Errorf("table missing formatted duration:\n%s", out)
		}
		if strings.Contains(out, "Song One") {
			t.Errorf("table should not contain items before the offset:\n%s", out)
		}
	})

	t.Run("DuplicatesTable", func(t *testing.T) {
		out := DuplicatesTable([]tasks.Duplicate{
			{Position: 4, FirstPosition: 1, Item: models.Item{ItemID: "v2", Title: "Again"}},
		})
		for _, want := range []string{"First At", "Again", "5", "2"} {
			if !strings.Contains(out, want) {
				t.Errorf("table missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("PositionedTable", func(t *testing.T) {
		out := PositionedTable([]tasks.Positioned{{Position: 9, Item: models.Item{ItemID: "v9", Title: "Gone"}}})
		if !strings.Contains(out, "10") || !strings.Contains(out, "Gone") || !strings.Contains(out, "v9") {
			t.Errorf("unexpected table:\n%s", out)
		}
	})

	t.Run("RunsTable", func(t *testing.T) {
		started := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		aborted := models.RestoreImportRun(
			"id", 3, "PL1", "Road Trip", models.LikedCollectionName, models.RunAborted,
			100, 0, 50, 57, 1, true, "retries exhausted", &started, nil, started, started,
		)
		done := models.RestoreImportRun(
			"id2", 4, "PL1", "Road Trip", models.LikedCollectionName, models.RunCompleted,
			10, 0, 10, 10, 0, true, "", &started, nil, started, started,
		)

		out := RunsTable([]*models.ImportRun{done, aborted})
		for _, want := range []string{"Road Trip", "aborted", "50/100", "51", "retries exhausted", "completed", "10/10"} {
			if !strings.Contains(out, want) {
				t.Errorf("table missing %q:\n%s", want, out)
			}
		}
	})
}

func TestSummaries(t *testing.T) {
	t.Run("DuplicateSummary", func(t *testing.T) {
		if got := DuplicateSummary(5, 5); got != "Songs: 5 total, 5 unique" {
			t.Errorf("unexpected summary %q", got)
		}
		if got := DuplicateSummary(7, 5); !strings.Contains(got, "2 duplicates") {
			t.Errorf("expected duplicate count, got %q", got)
		}
	})

	t.Run("ImportSummary done", func(t *testing.T) {
		out := ImportSummary(&tasks.ImportResult{State: tasks.Done, Total: 10, CommittedIndex: 10, Mutations: 9, DuplicateSkips: 1})
		if !strings.Contains(out, "Import complete") || !strings.Contains(out, "Committed: 10/10") {
			t.Errorf("unexpected summary:\n%s", out)
		}
		if strings.Contains(out, "--start") {
			t.Errorf("completed run should not suggest resuming:\n%s", out)
		}
	})

	t.Run("ImportSummary aborted", func(t *testing.T) {
		out := ImportSummary(&tasks.ImportResult{State: tasks.FatalAbort, Total: 100, CommittedIndex: 50, Rollbacks: 1})
		if !strings.Contains(out, "Import aborted") || !strings.Contains(out, "--start 51") {
			t.Errorf("unexpected summary:\n%s", out)
		}
	})

	t.Run("ImportSummary cancelled", func(t *testing.T) {
		out := ImportSummary(&tasks.ImportResult{State: tasks.Cancelled, Total: 4, CommittedIndex: 2})
		if !strings.Contains(out, "cancelled") || !strings.Contains(out, "--start 3") {
			t.Errorf("unexpected summary:\n%s", out)
		}
	})

	t.Run("UnlikeSummary", func(t *testing.T) {
		out := UnlikeSummary(&tasks.UnlikeResult{Total: 5, Unliked: 3, Skipped: 1, DuplicateSkips: 1})
		if !strings.Contains(out, "Unliked: 3/5") {
			t.Errorf("unexpected summary:\n%s", out)
		}
	})

	t.Run("DiffSummary", func(t *testing.T) {
		result := tasks.Diff(testExport().Items, testExport().Items[:1])
		result.Source = models.Collection{Name: "Src"}
		result.Target = models.Collection{Name: "Dst"}

		out := DiffSummary(result)
		if !strings.Contains(out, "Missing from target: 1") {
			t.Errorf("unexpected summary:\n%s", out)
		}

		synced := tasks.Diff(testExport().Items, testExport().Items)
		if out := DiffSummary(synced); !strings.Contains(out, "In sync") {
			t.Errorf("expected in sync, got:\n%s", out)
		}
	})

	t.Run("Status", func(t *testing.T) {
		if got := Status(true, "ready"); !strings.Contains(got, "✓ ready") {
			t.Errorf("unexpected ok status %q", got)
		}
		if got := Status(false, "down"); !strings.Contains(got, "✗ down") {
			t.Errorf("unexpected error status %q", got)
		}
	})
}
