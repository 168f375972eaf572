// Package convert implements the bidirectional rich-text conversion engine
// between plain text, Markdown, Confluence Storage Format (XHTML), and the
// Atlassian Document Format (ADF).
//
// All conversions route through a shared Document tree of typed Block and
// Inline nodes. Parsers are best-effort and never fail on malformed content;
// the strict checks live in ValidateXHTML and ValidateADF, which are separate
// entry points. Every conversion builds a fresh tree from immutable input, so
// all functions in this package are safe for concurrent use.
package convert

import "strings"

// Document is the root container: an ordered sequence of top-level blocks.
// An empty document is valid.
type Document struct {
	Blocks []Block
}

// Block represents a structural content unit in the document tree.
type Block interface {
	// BlockType returns the type identifier (e.g. "paragraph", "table").
	BlockType() string
}

// Inline represents a character-level content unit nested inside a block.
type Inline interface {
	// InlineType returns the type identifier (e.g. "text", "link").
	InlineType() string
}

// Mark is a character-level style flag. Marks form a set: applying the same
// mark twice is a no-op.
type Mark uint8

const (
	MarkBold Mark = 1 << iota
	MarkItalic
	MarkUnderline
	MarkStrike
	MarkCode
)

// MarkSet is a set of Marks stored as a bitmask.
type MarkSet uint8

// Has reports whether m is in the set.
func (s MarkSet) Has(m Mark) bool { return uint8(s)&uint8(m) != 0 }

// With returns the set with m added.
func (s MarkSet) With(m Mark) MarkSet { return MarkSet(uint8(s) | uint8(m)) }

// Without returns the set with m removed.
func (s MarkSet) Without(m Mark) MarkSet { return MarkSet(uint8(s) &^ uint8(m)) }

// Empty reports whether the set has no marks.
func (s MarkSet) Empty() bool { return s == 0 }

// Paragraph is a block of inline runs.
type Paragraph struct {
	Content []Inline
}

// BlockType implements Block.
func (*Paragraph) BlockType() string { return "paragraph" }

// Heading is a level 1-6 heading of inline runs.
type Heading struct {
	Level   int
	Content []Inline
}

// BlockType implements Block.
func (*Heading) BlockType() string { return "heading" }

// NewHeading builds a heading, clamping level into [1,6].
func NewHeading(level int, content ...Inline) *Heading {
	return &Heading{Level: ClampHeadingLevel(level), Content: content}
}

// ClampHeadingLevel forces a heading level into the valid 1-6 range.
func ClampHeadingLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 6 {
		return 6
	}
	return level
}

// BulletList is an unordered list.
type BulletList struct {
	Items []*ListItem
}

// BlockType implements Block.
func (*BulletList) BlockType() string { return "bullet_list" }

// OrderedList is a numbered list starting at Start.
type OrderedList struct {
	Start int
	Items []*ListItem
}

// BlockType implements Block.
func (*OrderedList) BlockType() string { return "ordered_list" }

// ListItem holds the nested blocks of a single list entry. Nested lists live
// here, enabling indefinite nesting.
type ListItem struct {
	Blocks []Block
}

// CodeBlock is a verbatim code block with an optional language tag.
type CodeBlock struct {
	Language string
	Code     string
}

// BlockType implements Block.
func (*CodeBlock) BlockType() string { return "code_block" }

// Blockquote wraps nested blocks.
type Blockquote struct {
	Blocks []Block
}

// BlockType implements Block.
func (*Blockquote) BlockType() string { return "blockquote" }

// Rule is a horizontal rule.
type Rule struct{}

// BlockType implements Block.
func (*Rule) BlockType() string { return "rule" }

// Table is an ordered sequence of rows.
type Table struct {
	Rows []*TableRow
}

// BlockType implements Block.
func (*Table) BlockType() string { return "table" }

// TableRow is a row of cells. Header distinguishes th from td rows.
type TableRow struct {
	Header bool
	Cells  []*TableCell
}

// TableCell holds a cell's inline runs.
type TableCell struct {
	Content []Inline
}

// Macro is a Confluence structured macro with named parameters and an
// optional block body. Macros only exist on the storage-format side; the
// other serializers degrade them to their body content.
type Macro struct {
	Name   string
	Params map[string]string
	Body   []Block
}

// BlockType implements Block.
func (*Macro) BlockType() string { return "macro" }

// Text is a styled text run.
type Text struct {
	Value string
	Marks MarkSet
}

// InlineType implements Inline.
func (*Text) InlineType() string { return "text" }

// Link is a hyperlink run.
type Link struct {
	Text string
	Href string
}

// InlineType implements Inline.
func (*Link) InlineType() string { return "link" }

// Image is an inline image reference.
type Image struct {
	Src string
	Alt string
}

// InlineType implements Inline.
func (*Image) InlineType() string { return "image" }

// LineBreak is a hard line break.
type LineBreak struct{}

// InlineType implements Inline.
func (*LineBreak) InlineType() string { return "line_break" }

// PlainText concatenates the literal text of a run of inlines.
func PlainText(content []Inline) string {
	var sb strings.Builder
	for _, in := range content {
		switch n := in.(type) {
		case *Text:
			sb.WriteString(n.Value)
		case *Link:
			sb.WriteString(n.Text)
		case *Image:
			sb.WriteString(n.Alt)
		case *LineBreak:
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// blockText extracts the literal text of a block tree, joining block
// boundaries with newlines.
func blockText(blocks []Block) string {
	var parts []string
	for _, b := range blocks {
		switch n := b.(type) {
		case *Paragraph:
			parts = append(parts, PlainText(n.Content))
		case *Heading:
			parts = append(parts, PlainText(n.Content))
		case *CodeBlock:
			parts = append(parts, n.Code)
		case *Blockquote:
			parts = append(parts, blockText(n.Blocks))
		case *BulletList:
			for _, it := range n.Items {
				parts = append(parts, blockText(it.Blocks))
			}
		case *OrderedList:
			for _, it := range n.Items {
				parts = append(parts, blockText(it.Blocks))
			}
		case *Table:
			for _, row := range n.Rows {
				var cells []string
				for _, cell := range row.Cells {
					cells = append(cells, PlainText(cell.Content))
				}
				parts = append(parts, strings.Join(cells, " "))
			}
		case *Macro:
			if s := blockText(n.Body); s != "" {
				parts = append(parts, s)
			}
		}
	}
	return strings.Join(parts, "\n")
}
