// Package format renders API objects for terminal output: aligned text
// summaries, plain-text tables, JSON, and CSV export.
package format

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/grandcamel/confluence-skills/internal/confluence"
	"github.com/grandcamel/confluence-skills/internal/convert"
)

// Page renders a one-page summary: title, identifiers, version, and a
// plain-text preview of the body.
func Page(page *confluence.Page, previewLen int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Title:   %s\n", page.Title)
	fmt.Fprintf(&sb, "ID:      %s\n", page.ID)
	if page.Space != nil {
		fmt.Fprintf(&sb, "Space:   %s\n", page.Space.Key)
	}
	fmt.Fprintf(&sb, "Status:  %s\n", page.Status)
	fmt.Fprintf(&sb, "Version: %d\n", page.Version.Number)
	if page.Version.When != "" {
		fmt.Fprintf(&sb, "Updated: %s\n", Timestamp(page.Version.When))
	}

	if page.Body != nil && page.Body.Storage.Value != "" {
		preview := convert.ExtractTextFromXHTML(page.Body.Storage.Value)
		if previewLen > 0 {
			preview = Truncate(preview, previewLen)
		}
		if preview != "" {
			sb.WriteString("\n")
			sb.WriteString(preview)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Space renders a one-space summary.
func Space(space *confluence.Space) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Key:  %s\n", space.Key)
	fmt.Fprintf(&sb, "Name: %s\n", space.Name)
	if space.Type != "" {
		fmt.Fprintf(&sb, "Type: %s\n", space.Type)
	}
	return sb.String()
}

// Table renders rows as an aligned plain-text table with a header rule.
func Table(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return "No data.\n"
	}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(cell)
			if i < len(widths)-1 {
				sb.WriteString(strings.Repeat(" ", w-len(cell)))
			}
		}
		sb.WriteString("\n")
	}

	writeRow(headers)
	total := 0
	for _, w := range widths {
		total += w
	}
	sb.WriteString(strings.Repeat("-", total+2*(len(widths)-1)))
	sb.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}
	return sb.String()
}

// JSON renders any value as indented JSON.
func JSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return string(data), nil
}

// Timestamp reformats an RFC 3339 timestamp into a compact local form.
// Unparseable input is returned unchanged rather than dropped.
func Timestamp(value string) string {
	if value == "" {
		return "N/A"
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return t.Format("2006-01-02 15:04")
}

// CSV writes rows (with a header row first) to w in CSV format. Exporting
// nothing is treated as a caller mistake.
func CSV(w io.Writer, headers []string, rows [][]string) error {
	if len(rows) == 0 {
		return fmt.Errorf("no data to export")
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Truncate shortens s to at most n runes, appending an ellipsis when content
// was cut. n <= 3 degrades to a bare cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// Comments renders footer comments as a numbered list with plain-text
// bodies.
func Comments(comments []*confluence.Comment) string {
	if len(comments) == 0 {
		return "No comments.\n"
	}
	var sb strings.Builder
	for i, c := range comments {
		fmt.Fprintf(&sb, "%d. [%s] version %d\n", i+1, c.ID, c.Version.Number)
		if c.Body != nil && c.Body.Storage.Value != "" {
			text := convert.ExtractTextFromXHTML(c.Body.Storage.Value)
			if text != "" {
				fmt.Fprintf(&sb, "   %s\n", text)
			}
		}
	}
	return sb.String()
}

// SearchResults renders CQL hits as a table of ID, type, and title.
func SearchResults(results []*confluence.SearchResult) string {
	if len(results) == 0 {
		return "No results.\n"
	}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		title := r.Content.Title
		if title == "" {
			title = r.Title
		}
		rows = append(rows, []string{r.Content.ID, r.Content.Type, title})
	}
	return Table([]string{"ID", "TYPE", "TITLE"}, rows)
}
