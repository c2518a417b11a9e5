package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/ytlikes/internal/models"
	"github.com/desertthunder/ytlikes/internal/shared"
	"github.com/desertthunder/ytlikes/internal/tasks"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))

	okStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	errStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF0000"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

// PlaylistsTable lists collections with their song counts.
func PlaylistsTable(collections []models.Collection) string {
	t := newTable("#", "Name", "Songs", "ID")
	for i, c := range collections {
		t.Row(strconv.Itoa(i+1), c.Name, strconv.Itoa(c.ItemCount), c.ID)
	}
	return t.String()
}

// ItemsTable lists items numbered from offset+1.
func ItemsTable(items []models.Item, offset int) string {
	t := newTable("#", "Title", "Artists", "Duration", "VideoID")
	for i, item := range items {
		t.Row(
			strconv.Itoa(offset+i+1),
			item.DisplayTitle(),
			artistsOrUnknown(item),
			shared.FormatDuration(item.Duration),
			item.ItemID,
		)
	}
	return t.String()
}

// DuplicatesTable lists repeat occurrences with 1-based positions.
func DuplicatesTable(dups []tasks.Duplicate) string {
	t := newTable("Position", "Title", "Artists", "First At")
	for _, d := range dups {
		t.Row(
			strconv.Itoa(d.Position+1),
			d.Item.DisplayTitle(),
			artistsOrUnknown(d.Item),
			strconv.Itoa(d.FirstPosition+1),
		)
	}
	return t.String()
}

// PositionedTable lists items with their 1-based position in the list they came from.
func PositionedTable(entries []tasks.Positioned) string {
	t := newTable("Position", "Title", "Artists", "VideoID")
	for _, e := range entries {
		t.Row(strconv.Itoa(e.Position+1), e.Item.DisplayTitle(), artistsOrUnknown(e.Item), e.Item.ItemID)
	}
	return t.String()
}

// RunsTable lists recorded import runs, newest first. Resume is the 1-based --start
// value that picks the run up after its last checkpoint.
func RunsTable(runs []*models.ImportRun) string {
	t := newTable("Run", "Source", "Status", "Committed", "Resume", "Started", "Error")
	for _, r := range runs {
		t.Row(
			strconv.Itoa(r.Sequence()),
			r.SourceName(),
			string(r.Status()),
			fmt.Sprintf("%d/%d", r.CommittedIndex(), r.TotalItems()),
			resumeAt(r),
			formatTime(r.StartedAt()),
			truncate(r.ErrorMessage(), 40),
		)
	}
	return t.String()
}

// DuplicateSummary reports total against unique counts.
func DuplicateSummary(total, unique int) string {
	line := fmt.Sprintf("Songs: %d total, %d unique", total, unique)
	if total > unique {
		return line + " " + warnStyle.Render(fmt.Sprintf("(%d duplicates)", total-unique))
	}
	return line
}

// ImportSummary renders the outcome of an import run.
func ImportSummary(result *tasks.ImportResult) string {
	var b strings.Builder

	switch result.State {
	case tasks.Done:
		b.WriteString(okStyle.Render("✓ Import complete"))
	case tasks.Cancelled:
		b.WriteString(warnStyle.Render("Import cancelled"))
	default:
		b.WriteString(errStyle.Render("✗ Import aborted"))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Committed: %d/%d\n", result.CommittedIndex, result.Total)
	fmt.Fprintf(&b, "Liked: %d  Skipped: %d  Duplicates: %d\n", result.Mutations, result.Skipped, result.DuplicateSkips)
	fmt.Fprintf(&b, "Verifications: %d  Rollbacks: %d  Reversals: %d", result.Verifications, result.Rollbacks, result.Reversals)

	if result.State != tasks.Done && result.CommittedIndex < result.Total {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render(fmt.Sprintf("Resume with --start %d", result.CommittedIndex+1)))
	}
	return b.String()
}

// UnlikeSummary renders the outcome of a bulk unlike.
func UnlikeSummary(result *tasks.UnlikeResult) string {
	return fmt.Sprintf("%s\nUnliked: %d/%d  Skipped: %d  Duplicates: %d",
		okStyle.Render("✓ Unlike complete"), result.Unliked, result.Total, result.Skipped, result.DuplicateSkips)
}

// DiffSummary renders the counts of a playlist comparison.
func DiffSummary(result *tasks.DiffResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Source %q: %d songs (%d unique)\n", result.Source.Name, result.SourceTotal, result.SourceUnique)
	fmt.Fprintf(&b, "Target %q: %d songs\n", result.Target.Name, result.TargetTotal)
	if result.InSync() {
		b.WriteString(okStyle.Render("✓ In sync"))
		return b.String()
	}
	fmt.Fprintf(&b, "Missing from target: %d  Extra in target: %d", len(result.Missing), len(result.Extra))
	return b.String()
}

// Status renders a one-line ok or error marker.
func Status(ok bool, msg string) string {
	if ok {
		return okStyle.Render("✓ " + msg)
	}
	return errStyle.Render("✗ " + msg)
}

func resumeAt(r *models.ImportRun) string {
	if r.CommittedIndex() >= r.TotalItems() {
		return "-"
	}
	return strconv.Itoa(r.CommittedIndex() + 1)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
