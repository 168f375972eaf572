package convert

import (
	"strings"
	"testing"
)

// TestMarkdownToDocument_Blocks verifies block-level parsing.
func TestMarkdownToDocument_Blocks(t *testing.T) {
	doc := MarkdownToDocument("# Title\n\nHello **world**\n\n- A\n- B")
	if len(doc.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(doc.Blocks))
	}

	h, ok := doc.Blocks[0].(*Heading)
	if !ok {
		t.Fatalf("expected heading, got %T", doc.Blocks[0])
	}
	if h.Level != 1 || PlainText(h.Content) != "Title" {
		t.Errorf("unexpected heading: level=%d text=%q", h.Level, PlainText(h.Content))
	}

	p, ok := doc.Blocks[1].(*Paragraph)
	if !ok {
		t.Fatalf("expected paragraph, got %T", doc.Blocks[1])
	}
	if PlainText(p.Content) != "Hello world" {
		t.Errorf("unexpected paragraph text %q", PlainText(p.Content))
	}
	last, ok := p.Content[len(p.Content)-1].(*Text)
	if !ok || !last.Marks.Has(MarkBold) {
		t.Errorf("expected bold run at end of paragraph, got %#v", p.Content)
	}

	list, ok := doc.Blocks[2].(*BulletList)
	if !ok {
		t.Fatalf("expected bullet list, got %T", doc.Blocks[2])
	}
	if len(list.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(list.Items))
	}
	if got := blockText(list.Items[0].Blocks); got != "A" {
		t.Errorf("item 0 text = %q, want %q", got, "A")
	}
}

func TestMarkdownToDocument_InlineMarks(t *testing.T) {
	tests := []struct {
		name  string
		input string
		mark  Mark
	}{
		{"bold", "**x**", MarkBold},
		{"bold underscore", "__x__", MarkBold},
		{"italic", "*x*", MarkItalic},
		{"italic underscore", "_x_", MarkItalic},
		{"strike", "~~x~~", MarkStrike},
		{"code", "`x`", MarkCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := MarkdownToDocument(tt.input)
			if len(doc.Blocks) != 1 {
				t.Fatalf("expected 1 block, got %d", len(doc.Blocks))
			}
			p := doc.Blocks[0].(*Paragraph)
			if len(p.Content) != 1 {
				t.Fatalf("expected 1 run, got %d", len(p.Content))
			}
			run := p.Content[0].(*Text)
			if run.Value != "x" || !run.Marks.Has(tt.mark) {
				t.Errorf("got value=%q marks=%b", run.Value, run.Marks)
			}
		})
	}
}

func TestMarkdownToDocument_LinkAndImage(t *testing.T) {
	doc := MarkdownToDocument("[Link](https://example.com) and ![Alt](image.png)")
	p := doc.Blocks[0].(*Paragraph)

	link, ok := p.Content[0].(*Link)
	if !ok || link.Text != "Link" || link.Href != "https://example.com" {
		t.Errorf("unexpected link %#v", p.Content[0])
	}
	img, ok := p.Content[len(p.Content)-1].(*Image)
	if !ok || img.Src != "image.png" || img.Alt != "Alt" {
		t.Errorf("unexpected image %#v", p.Content[len(p.Content)-1])
	}
}

func TestMarkdownToDocument_CodeBlock(t *testing.T) {
	doc := MarkdownToDocument("```python\nprint('hello')\n```")
	cb, ok := doc.Blocks[0].(*CodeBlock)
	if !ok {
		t.Fatalf("expected code block, got %T", doc.Blocks[0])
	}
	if cb.Language != "python" || cb.Code != "print('hello')" {
		t.Errorf("got language=%q code=%q", cb.Language, cb.Code)
	}
}

func TestMarkdownToDocument_MultiLineCodeBlock(t *testing.T) {
	doc := MarkdownToDocument("```go\nfunc a() {}\nfunc b() {}\n```")
	cb, ok := doc.Blocks[0].(*CodeBlock)
	if !ok {
		t.Fatalf("expected code block, got %T", doc.Blocks[0])
	}
	if cb.Code != "func a() {}\nfunc b() {}" {
		t.Errorf("code = %q", cb.Code)
	}
}

func TestMarkdownToDocument_InlineRawHTMLKeptAsText(t *testing.T) {
	doc := MarkdownToDocument("before <span>kept</span> after")
	p, ok := doc.Blocks[0].(*Paragraph)
	if !ok {
		t.Fatalf("expected paragraph, got %T", doc.Blocks[0])
	}
	if got := PlainText(p.Content); got != "before <span>kept</span> after" {
		t.Errorf("text = %q", got)
	}
}

func TestMarkdownToDocument_OrderedListStart(t *testing.T) {
	doc := MarkdownToDocument("3. First\n4. Second")
	list, ok := doc.Blocks[0].(*OrderedList)
	if !ok {
		t.Fatalf("expected ordered list, got %T", doc.Blocks[0])
	}
	if list.Start != 3 {
		t.Errorf("start = %d, want 3", list.Start)
	}
	if len(list.Items) != 2 {
		t.Errorf("items = %d, want 2", len(list.Items))
	}
}

func TestMarkdownToDocument_NeverFails(t *testing.T) {
	// Unmatched delimiters and stray markup degrade to literal text.
	inputs := []string{
		"**unterminated bold",
		"[broken link](",
		"~~",
		"``` \x00 broken fence",
		"> > > deep quotes ###",
	}
	for _, input := range inputs {
		doc := MarkdownToDocument(input)
		if doc == nil {
			t.Errorf("nil document for %q", input)
		}
	}
}

func TestMarkdownToDocument_Empty(t *testing.T) {
	doc := MarkdownToDocument("")
	if len(doc.Blocks) != 0 {
		t.Errorf("expected empty document, got %d blocks", len(doc.Blocks))
	}
}

// TestDocumentToMarkdown_RoundTripExact verifies the canonical scenario
// reproduces its input exactly.
func TestDocumentToMarkdown_RoundTripExact(t *testing.T) {
	input := "# Title\n\nHello **world**\n\n- A\n- B"
	got := DocumentToMarkdown(MarkdownToDocument(input))
	if got != input {
		t.Errorf("round trip mismatch:\n got %q\nwant %q", got, input)
	}
}

// TestDocumentToMarkdown_Idempotent verifies canonical markdown is a fixed
// point of parse/serialize, for every supported construct.
func TestDocumentToMarkdown_Idempotent(t *testing.T) {
	sources := []string{
		"# Heading\n\ntext",
		"## Two\n\n### Three",
		"plain *italic* **bold** ~~strike~~ `code`",
		"- one\n- two\n- three",
		"1. first\n2. second",
		"5. fifth\n6. sixth",
		"```go\nfunc main() {}\n```",
		"```\nno language\n```",
		"> quoted text",
		"---",
		"| A | B |\n| --- | --- |\n| 1 | 2 |",
		"[text](https://example.com)",
		"![alt](src.png)",
	}
	for _, src := range sources {
		first := DocumentToMarkdown(MarkdownToDocument(src))
		second := DocumentToMarkdown(MarkdownToDocument(first))
		if first != second {
			t.Errorf("not idempotent for %q:\nfirst  %q\nsecond %q", src, first, second)
		}
	}
}

func TestDocumentToMarkdown_MarkOrdering(t *testing.T) {
	doc := &Document{Blocks: []Block{
		&Paragraph{Content: []Inline{
			&Text{Value: "x", Marks: MarkSet(0).With(MarkItalic).With(MarkBold).With(MarkCode)},
		}},
	}}
	// Code sits innermost, then bold, then italic.
	if got := DocumentToMarkdown(doc); got != "***`x`***" {
		t.Errorf("got %q, want %q", got, "***`x`***")
	}
	// Serialization is deterministic regardless of how the set was built.
	doc2 := &Document{Blocks: []Block{
		&Paragraph{Content: []Inline{
			&Text{Value: "x", Marks: MarkSet(0).With(MarkCode).With(MarkBold).With(MarkItalic).With(MarkBold)},
		}},
	}}
	if DocumentToMarkdown(doc) != DocumentToMarkdown(doc2) {
		t.Error("mark ordering depends on insertion order")
	}
}

func TestDocumentToMarkdown_NestedList(t *testing.T) {
	input := "- parent\n  - child\n- sibling"
	got := DocumentToMarkdown(MarkdownToDocument(input))
	if got != input {
		t.Errorf("nested list round trip:\n got %q\nwant %q", got, input)
	}
}

func TestDocumentToMarkdown_Table(t *testing.T) {
	doc := &Document{Blocks: []Block{
		&Table{Rows: []*TableRow{
			{Header: true, Cells: []*TableCell{
				{Content: []Inline{&Text{Value: "H1"}}},
				{Content: []Inline{&Text{Value: "H2"}}},
			}},
			{Cells: []*TableCell{
				{Content: []Inline{&Text{Value: "V1"}}},
				{Content: []Inline{&Text{Value: "V2"}}},
			}},
		}},
	}}
	got := DocumentToMarkdown(doc)
	for _, want := range []string{"| H1 | H2 |", "| --- | --- |", "| V1 | V2 |"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}
}

func TestDocumentToMarkdown_MacroDegradesToBody(t *testing.T) {
	doc := &Document{Blocks: []Block{
		&Macro{Name: "expand", Params: map[string]string{"title": "More"}, Body: []Block{
			&Paragraph{Content: []Inline{&Text{Value: "hidden content"}}},
		}},
	}}
	got := DocumentToMarkdown(doc)
	if got != "hidden content" {
		t.Errorf("got %q, want body content only", got)
	}
}

func TestMarkdownMarksSurviveRoundTrip(t *testing.T) {
	doc := MarkdownToDocument("*a* **b** ~~c~~ `d`")
	out := DocumentToMarkdown(doc)
	doc2 := MarkdownToDocument(out)
	p1 := doc.Blocks[0].(*Paragraph)
	p2 := doc2.Blocks[0].(*Paragraph)
	if PlainText(p1.Content) != PlainText(p2.Content) {
		t.Errorf("text changed: %q vs %q", PlainText(p1.Content), PlainText(p2.Content))
	}
	if DocumentToMarkdown(doc2) != out {
		t.Errorf("second serialization differs")
	}
}
