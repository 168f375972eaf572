package convert

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// mdParser is a pre-configured goldmark instance with the GFM table and
// strikethrough extensions. goldmark never fails on malformed markdown:
// unmatched delimiters fall back to literal text, which is exactly the
// best-effort contract this package guarantees.
var mdParser = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
	),
)

// MarkdownToDocument parses UTF-8 markdown into a Document. Unrecognized
// constructs degrade to literal paragraph text; the function never fails.
func MarkdownToDocument(markdown string) *Document {
	doc := &Document{}
	if strings.TrimSpace(markdown) == "" {
		return doc
	}
	source := []byte(markdown)
	root := mdParser.Parser().Parse(text.NewReader(source))
	w := &mdWalker{source: source}
	doc.Blocks = w.blocks(root)
	return doc
}

// mdWalker converts a goldmark AST into Document blocks.
type mdWalker struct {
	source []byte
}

func (w *mdWalker) blocks(n ast.Node) []Block {
	var blocks []Block
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if b := w.block(child); b != nil {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

func (w *mdWalker) block(n ast.Node) Block {
	switch node := n.(type) {
	case *ast.Paragraph:
		content := w.inlines(node)
		if len(content) == 0 {
			return nil
		}
		return &Paragraph{Content: content}
	case *ast.TextBlock:
		content := w.inlines(node)
		if len(content) == 0 {
			return nil
		}
		return &Paragraph{Content: content}
	case *ast.Heading:
		return &Heading{Level: ClampHeadingLevel(node.Level), Content: w.inlines(node)}
	case *ast.List:
		return w.list(node)
	case *ast.FencedCodeBlock:
		return &CodeBlock{
			Language: string(node.Language(w.source)),
			Code:     w.rawLines(node),
		}
	case *ast.CodeBlock:
		return &CodeBlock{Code: w.rawLines(node)}
	case *ast.Blockquote:
		return &Blockquote{Blocks: w.blocks(node)}
	case *ast.ThematicBreak:
		return &Rule{}
	case *extast.Table:
		return w.table(node)
	case *ast.HTMLBlock:
		// Raw HTML has no block equivalent; keep its text so content is
		// never lost.
		raw := strings.TrimSpace(w.rawLines(node))
		if raw == "" {
			return nil
		}
		return &Paragraph{Content: []Inline{&Text{Value: raw}}}
	default:
		return nil
	}
}

func (w *mdWalker) list(n *ast.List) Block {
	var items []*ListItem
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		li, ok := child.(*ast.ListItem)
		if !ok {
			continue
		}
		items = append(items, &ListItem{Blocks: w.blocks(li)})
	}
	if n.IsOrdered() {
		start := n.Start
		if start < 1 {
			start = 1
		}
		return &OrderedList{Start: start, Items: items}
	}
	return &BulletList{Items: items}
}

func (w *mdWalker) table(n *extast.Table) Block {
	table := &Table{}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch row := child.(type) {
		case *extast.TableHeader:
			table.Rows = append(table.Rows, w.tableRow(row, true))
		case *extast.TableRow:
			table.Rows = append(table.Rows, w.tableRow(row, false))
		}
	}
	return table
}

func (w *mdWalker) tableRow(n ast.Node, header bool) *TableRow {
	row := &TableRow{Header: header}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if cell, ok := child.(*extast.TableCell); ok {
			row.Cells = append(row.Cells, &TableCell{Content: w.inlines(cell)})
		}
	}
	return row
}

// rawLines joins the raw source lines of a code or HTML block, without the
// trailing newline.
func (w *mdWalker) rawLines(n ast.Node) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(w.source))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func (w *mdWalker) inlines(n ast.Node) []Inline {
	var runs []Inline
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		runs = append(runs, w.inline(child, 0)...)
	}
	return runs
}

func (w *mdWalker) inline(n ast.Node, marks MarkSet) []Inline {
	switch node := n.(type) {
	case *ast.Text:
		value := string(node.Segment.Value(w.source))
		var runs []Inline
		if value != "" {
			runs = append(runs, &Text{Value: value, Marks: marks})
		}
		if node.HardLineBreak() {
			runs = append(runs, &LineBreak{})
		} else if node.SoftLineBreak() {
			runs = append(runs, &Text{Value: " ", Marks: marks})
		}
		return runs
	case *ast.String:
		if len(node.Value) == 0 {
			return nil
		}
		return []Inline{&Text{Value: string(node.Value), Marks: marks}}
	case *ast.Emphasis:
		mark := MarkItalic
		if node.Level == 2 {
			mark = MarkBold
		}
		return w.childInlines(node, marks.With(mark))
	case *extast.Strikethrough:
		return w.childInlines(node, marks.With(MarkStrike))
	case *ast.CodeSpan:
		value := w.codeSpanText(node)
		if value == "" {
			return nil
		}
		return []Inline{&Text{Value: value, Marks: marks.With(MarkCode)}}
	case *ast.Link:
		return []Inline{&Link{Text: w.flatText(node), Href: string(node.Destination)}}
	case *ast.AutoLink:
		url := string(node.URL(w.source))
		return []Inline{&Link{Text: url, Href: url}}
	case *ast.Image:
		return []Inline{&Image{Src: string(node.Destination), Alt: w.flatText(node)}}
	case *ast.RawHTML:
		// Inline HTML has no node of its own; keep it as literal text so
		// content is never dropped.
		var sb strings.Builder
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			sb.Write(seg.Value(w.source))
		}
		if sb.Len() == 0 {
			return nil
		}
		return []Inline{&Text{Value: sb.String(), Marks: marks}}
	default:
		return w.childInlines(n, marks)
	}
}

func (w *mdWalker) childInlines(n ast.Node, marks MarkSet) []Inline {
	var runs []Inline
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		runs = append(runs, w.inline(child, marks)...)
	}
	return runs
}

func (w *mdWalker) codeSpanText(n *ast.CodeSpan) string {
	var sb strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			sb.Write(t.Segment.Value(w.source))
		}
	}
	return sb.String()
}

// flatText collapses an inline subtree to its literal text, used for link
// labels and image alt text.
func (w *mdWalker) flatText(n ast.Node) string {
	var sb strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch t := child.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(w.source))
		case *ast.String:
			sb.Write(t.Value)
		default:
			sb.WriteString(w.flatText(child))
		}
	}
	return sb.String()
}
