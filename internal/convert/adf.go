package convert

import (
	"encoding/json"
	"strings"
)

// ADFDocument is the root of an Atlassian Document Format tree.
type ADFDocument struct {
	Type    string     `json:"type"`
	Version int        `json:"version"`
	Content []*ADFNode `json:"content"`
}

// ADFNode is a node in an ADF document.
type ADFNode struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []*ADFNode     `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
	Marks   []*ADFMark     `json:"marks,omitempty"`
}

// ADFMark is a text mark (formatting) in ADF.
type ADFMark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// ADFDocumentFromJSON decodes raw JSON into an ADF document.
func ADFDocumentFromJSON(data []byte) (*ADFDocument, error) {
	var doc ADFDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DocumentToADF converts a Document to an ADF tree. Macros have no ADF
// representation; only their body content survives.
func DocumentToADF(doc *Document) *ADFDocument {
	adf := &ADFDocument{Type: "doc", Version: 1, Content: []*ADFNode{}}
	if doc == nil {
		return adf
	}
	adf.Content = blocksToADF(doc.Blocks)
	return adf
}

func blocksToADF(blocks []Block) []*ADFNode {
	nodes := []*ADFNode{}
	for _, b := range blocks {
		nodes = append(nodes, blockToADF(b)...)
	}
	return nodes
}

func blockToADF(b Block) []*ADFNode {
	switch n := b.(type) {
	case *Paragraph:
		return []*ADFNode{{Type: "paragraph", Content: inlinesToADF(n.Content)}}
	case *Heading:
		return []*ADFNode{{
			Type:    "heading",
			Attrs:   map[string]any{"level": ClampHeadingLevel(n.Level)},
			Content: inlinesToADF(n.Content),
		}}
	case *BulletList:
		return []*ADFNode{{Type: "bulletList", Content: listItemsToADF(n.Items)}}
	case *OrderedList:
		start := n.Start
		if start < 1 {
			start = 1
		}
		return []*ADFNode{{
			Type:    "orderedList",
			Attrs:   map[string]any{"order": start},
			Content: listItemsToADF(n.Items),
		}}
	case *CodeBlock:
		node := &ADFNode{
			Type:    "codeBlock",
			Content: []*ADFNode{{Type: "text", Text: n.Code}},
		}
		if n.Language != "" {
			node.Attrs = map[string]any{"language": n.Language}
		}
		return []*ADFNode{node}
	case *Blockquote:
		return []*ADFNode{{Type: "blockquote", Content: blocksToADF(n.Blocks)}}
	case *Rule:
		return []*ADFNode{{Type: "rule"}}
	case *Table:
		return []*ADFNode{tableToADF(n)}
	case *Macro:
		return blocksToADF(n.Body)
	default:
		return nil
	}
}

func listItemsToADF(items []*ListItem) []*ADFNode {
	nodes := []*ADFNode{}
	for _, item := range items {
		nodes = append(nodes, &ADFNode{Type: "listItem", Content: blocksToADF(item.Blocks)})
	}
	return nodes
}

func tableToADF(t *Table) *ADFNode {
	rows := []*ADFNode{}
	for _, row := range t.Rows {
		cellType := "tableCell"
		if row.Header {
			cellType = "tableHeader"
		}
		cells := []*ADFNode{}
		for _, cell := range row.Cells {
			content := inlinesToADF(cell.Content)
			if len(content) == 0 {
				content = []*ADFNode{{Type: "text", Text: ""}}
			}
			cells = append(cells, &ADFNode{
				Type:    cellType,
				Content: []*ADFNode{{Type: "paragraph", Content: content}},
			})
		}
		rows = append(rows, &ADFNode{Type: "tableRow", Content: cells})
	}
	return &ADFNode{Type: "table", Content: rows}
}

func inlinesToADF(content []Inline) []*ADFNode {
	nodes := []*ADFNode{}
	for _, in := range content {
		switch n := in.(type) {
		case *Text:
			if n.Value == "" {
				continue
			}
			nodes = append(nodes, &ADFNode{Type: "text", Text: n.Value, Marks: marksToADF(n.Marks)})
		case *Link:
			nodes = append(nodes, &ADFNode{
				Type: "text",
				Text: n.Text,
				Marks: []*ADFMark{{
					Type:  "link",
					Attrs: map[string]any{"href": n.Href},
				}},
			})
		case *Image:
			// ADF media nodes require upload metadata; degrade to alt text.
			alt := n.Alt
			if alt == "" {
				alt = n.Src
			}
			nodes = append(nodes, &ADFNode{Type: "text", Text: alt})
		case *LineBreak:
			nodes = append(nodes, &ADFNode{Type: "hardBreak"})
		}
	}
	return nodes
}

// marksToADF emits marks in a fixed order so serialization is deterministic.
func marksToADF(marks MarkSet) []*ADFMark {
	if marks.Empty() {
		return nil
	}
	var out []*ADFMark
	for _, pair := range []struct {
		mark Mark
		name string
	}{
		{MarkStrike, "strike"},
		{MarkUnderline, "underline"},
		{MarkItalic, "em"},
		{MarkBold, "strong"},
		{MarkCode, "code"},
	} {
		if marks.Has(pair.mark) {
			out = append(out, &ADFMark{Type: pair.name})
		}
	}
	return out
}

// ADFToDocument converts an ADF tree to a Document. Unknown node types are
// skipped after recursing into their content, so the conversion never fails.
func ADFToDocument(adf *ADFDocument) *Document {
	doc := &Document{}
	if adf == nil {
		return doc
	}
	doc.Blocks = adfNodesToBlocks(adf.Content)
	return doc
}

func adfNodesToBlocks(nodes []*ADFNode) []Block {
	var blocks []Block
	for _, n := range nodes {
		blocks = append(blocks, adfNodeToBlocks(n)...)
	}
	return blocks
}

func adfNodeToBlocks(n *ADFNode) []Block {
	if n == nil {
		return nil
	}
	switch n.Type {
	case "paragraph":
		return []Block{&Paragraph{Content: adfNodesToInlines(n.Content)}}
	case "heading":
		return []Block{&Heading{
			Level:   ClampHeadingLevel(adfIntAttr(n, "level", 1)),
			Content: adfNodesToInlines(n.Content),
		}}
	case "bulletList":
		return []Block{&BulletList{Items: adfListItems(n.Content)}}
	case "orderedList":
		return []Block{&OrderedList{
			Start: adfIntAttr(n, "order", 1),
			Items: adfListItems(n.Content),
		}}
	case "codeBlock":
		var code strings.Builder
		for _, child := range n.Content {
			code.WriteString(child.Text)
		}
		return []Block{&CodeBlock{
			Language: adfStringAttr(n, "language"),
			Code:     code.String(),
		}}
	case "blockquote":
		return []Block{&Blockquote{Blocks: adfNodesToBlocks(n.Content)}}
	case "rule":
		return []Block{&Rule{}}
	case "table":
		return []Block{adfTable(n)}
	default:
		return adfNodesToBlocks(n.Content)
	}
}

func adfListItems(nodes []*ADFNode) []*ListItem {
	var items []*ListItem
	for _, n := range nodes {
		if n.Type != "listItem" {
			continue
		}
		items = append(items, &ListItem{Blocks: adfNodesToBlocks(n.Content)})
	}
	return items
}

func adfTable(n *ADFNode) Block {
	table := &Table{}
	for _, rowNode := range n.Content {
		if rowNode.Type != "tableRow" {
			continue
		}
		row := &TableRow{}
		for _, cellNode := range rowNode.Content {
			switch cellNode.Type {
			case "tableHeader":
				row.Header = true
			case "tableCell":
			default:
				continue
			}
			var runs []Inline
			for _, inner := range cellNode.Content {
				if inner.Type == "paragraph" {
					runs = append(runs, adfNodesToInlines(inner.Content)...)
				}
			}
			row.Cells = append(row.Cells, &TableCell{Content: runs})
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func adfNodesToInlines(nodes []*ADFNode) []Inline {
	var runs []Inline
	for _, n := range nodes {
		switch n.Type {
		case "text":
			if href, ok := adfLinkHref(n.Marks); ok {
				runs = append(runs, &Link{Text: n.Text, Href: href})
				continue
			}
			runs = append(runs, &Text{Value: n.Text, Marks: adfMarksToSet(n.Marks)})
		case "hardBreak":
			runs = append(runs, &LineBreak{})
		default:
			runs = append(runs, adfNodesToInlines(n.Content)...)
		}
	}
	return runs
}

func adfLinkHref(marks []*ADFMark) (string, bool) {
	for _, m := range marks {
		if m.Type == "link" {
			if href, ok := m.Attrs["href"].(string); ok {
				return href, true
			}
			return "", true
		}
	}
	return "", false
}

func adfMarksToSet(marks []*ADFMark) MarkSet {
	var set MarkSet
	for _, m := range marks {
		switch m.Type {
		case "strong":
			set = set.With(MarkBold)
		case "em":
			set = set.With(MarkItalic)
		case "underline":
			set = set.With(MarkUnderline)
		case "strike":
			set = set.With(MarkStrike)
		case "code":
			set = set.With(MarkCode)
		}
	}
	return set
}

func adfIntAttr(n *ADFNode, key string, def int) int {
	if n.Attrs == nil {
		return def
	}
	switch v := n.Attrs[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return def
	}
}

func adfStringAttr(n *ADFNode, key string) string {
	if n.Attrs == nil {
		return ""
	}
	if v, ok := n.Attrs[key].(string); ok {
		return v
	}
	return ""
}
