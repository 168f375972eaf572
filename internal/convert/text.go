package convert

import (
	"regexp"
	"strings"
)

var blankLines = regexp.MustCompile(`\n{2,}`)

// TextToDocument converts plain text to a Document, one paragraph per
// blank-line-separated chunk. This is a direct pass-through: no inline or
// macro scanning is applied.
func TextToDocument(text string) *Document {
	doc := &Document{}
	if strings.TrimSpace(text) == "" {
		return doc
	}
	for _, chunk := range blankLines.Split(strings.ReplaceAll(text, "\r\n", "\n"), -1) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		para := &Paragraph{}
		lines := strings.Split(chunk, "\n")
		for i, line := range lines {
			if i > 0 {
				para.Content = append(para.Content, &LineBreak{})
			}
			para.Content = append(para.Content, &Text{Value: line})
		}
		doc.Blocks = append(doc.Blocks, para)
	}
	return doc
}

// DocumentToText flattens a Document to plain text, discarding all styling.
// Blocks are separated by blank lines; list items keep a "- " prefix so the
// output stays readable.
func DocumentToText(doc *Document) string {
	if doc == nil {
		return ""
	}
	var parts []string
	for _, b := range doc.Blocks {
		if s := blockToText(b); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

func blockToText(b Block) string {
	switch n := b.(type) {
	case *Paragraph:
		return PlainText(n.Content)
	case *Heading:
		return PlainText(n.Content)
	case *CodeBlock:
		return n.Code
	case *Blockquote:
		var lines []string
		for _, line := range strings.Split(blockText(n.Blocks), "\n") {
			lines = append(lines, "> "+line)
		}
		return strings.Join(lines, "\n")
	case *BulletList:
		return listToText(n.Items)
	case *OrderedList:
		return listToText(n.Items)
	case *Table:
		var rows []string
		for _, row := range n.Rows {
			var cells []string
			for _, cell := range row.Cells {
				cells = append(cells, PlainText(cell.Content))
			}
			rows = append(rows, strings.Join(cells, " | "))
		}
		return strings.Join(rows, "\n")
	case *Macro:
		return blockText(n.Body)
	case *Rule:
		return ""
	default:
		return ""
	}
}

func listToText(items []*ListItem) string {
	var lines []string
	for _, it := range items {
		lines = append(lines, "- "+blockText(it.Blocks))
	}
	return strings.Join(lines, "\n")
}
