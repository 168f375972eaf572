package convert

import (
	"fmt"
	"strings"
)

// DocumentToMarkdown serializes a Document to canonical markdown. Output is
// deterministic: serializing the same Document twice yields identical
// strings, and the canonical form survives a parse/serialize round trip.
func DocumentToMarkdown(doc *Document) string {
	if doc == nil {
		return ""
	}
	var parts []string
	for _, b := range doc.Blocks {
		if s := blockToMarkdown(b); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

func blockToMarkdown(b Block) string {
	switch n := b.(type) {
	case *Paragraph:
		return inlinesToMarkdown(n.Content)
	case *Heading:
		return strings.Repeat("#", ClampHeadingLevel(n.Level)) + " " + inlinesToMarkdown(n.Content)
	case *BulletList:
		return renderListItems(n.Items, func(int) string { return "- " })
	case *OrderedList:
		start := n.Start
		if start < 1 {
			start = 1
		}
		return renderListItems(n.Items, func(i int) string { return fmt.Sprintf("%d. ", start+i) })
	case *CodeBlock:
		return "```" + n.Language + "\n" + n.Code + "\n```"
	case *Blockquote:
		var inner []string
		for _, child := range n.Blocks {
			if s := blockToMarkdown(child); s != "" {
				inner = append(inner, s)
			}
		}
		return prefixLines(strings.Join(inner, "\n\n"), "> ")
	case *Rule:
		return "---"
	case *Table:
		return tableToMarkdown(n)
	case *Macro:
		// Lossy: macros have no markdown form, so only the body survives.
		var inner []string
		for _, child := range n.Body {
			if s := blockToMarkdown(child); s != "" {
				inner = append(inner, s)
			}
		}
		return strings.Join(inner, "\n\n")
	default:
		return ""
	}
}

// renderListItems renders items one per line with the given prefix, indenting
// nested blocks by the prefix width so markdown parsers keep them attached to
// the item.
func renderListItems(items []*ListItem, prefix func(i int) string) string {
	var lines []string
	for i, item := range items {
		p := prefix(i)
		indent := strings.Repeat(" ", len(p))
		var inner []string
		for _, b := range item.Blocks {
			if s := blockToMarkdown(b); s != "" {
				inner = append(inner, s)
			}
		}
		body := strings.Join(inner, "\n")
		if body == "" {
			lines = append(lines, strings.TrimRight(p, " "))
			continue
		}
		first := true
		for _, line := range strings.Split(body, "\n") {
			if first {
				lines = append(lines, p+line)
				first = false
			} else if line == "" {
				lines = append(lines, "")
			} else {
				lines = append(lines, indent+line)
			}
		}
	}
	return strings.Join(lines, "\n")
}

func tableToMarkdown(t *Table) string {
	if len(t.Rows) == 0 {
		return ""
	}
	var lines []string
	for i, row := range t.Rows {
		var cells []string
		for _, cell := range row.Cells {
			cells = append(cells, strings.ReplaceAll(inlinesToMarkdown(cell.Content), "\n", " "))
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
		if i == 0 {
			seps := make([]string, len(row.Cells))
			for j := range seps {
				seps[j] = "---"
			}
			lines = append(lines, "| "+strings.Join(seps, " | ")+" |")
		}
	}
	return strings.Join(lines, "\n")
}

func inlinesToMarkdown(content []Inline) string {
	var sb strings.Builder
	for _, in := range content {
		switch n := in.(type) {
		case *Text:
			sb.WriteString(wrapMarks(n.Value, n.Marks))
		case *Link:
			sb.WriteString("[" + n.Text + "](" + n.Href + ")")
		case *Image:
			sb.WriteString("![" + n.Alt + "](" + n.Src + ")")
		case *LineBreak:
			sb.WriteString("  \n")
		}
	}
	return sb.String()
}

// wrapMarks applies mark delimiters in a fixed nesting order so that output
// is deterministic and round-trip stable: code sits innermost, then bold,
// then italic, with underline and strikethrough outermost. Underline has no
// markdown equivalent and degrades to emphasis.
func wrapMarks(value string, marks MarkSet) string {
	if value == "" || marks.Empty() {
		return value
	}
	if marks.Has(MarkCode) {
		value = "`" + value + "`"
	}
	if marks.Has(MarkBold) {
		value = "**" + value + "**"
	}
	if marks.Has(MarkItalic) {
		value = "*" + value + "*"
	}
	if marks.Has(MarkUnderline) {
		value = "_" + value + "_"
	}
	if marks.Has(MarkStrike) {
		value = "~~" + value + "~~"
	}
	return value
}

func prefixLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = strings.TrimRight(prefix, " ")
		} else {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
