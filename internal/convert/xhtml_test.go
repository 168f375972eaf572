package convert

import (
	"reflect"
	"strings"
	"testing"
)

func TestXHTMLToDocument_Paragraph(t *testing.T) {
	doc := XHTMLToDocument("<p>Hello <strong>world</strong></p>")
	if len(doc.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(doc.Blocks))
	}
	p := doc.Blocks[0].(*Paragraph)
	want := []Inline{
		&Text{Value: "Hello "},
		&Text{Value: "world", Marks: MarkSet(0).With(MarkBold)},
	}
	if !reflect.DeepEqual(p.Content, want) {
		t.Errorf("got %#v", p.Content)
	}
}

func TestXHTMLToMarkdown_InlineMarks(t *testing.T) {
	input := "<p><strong>b</strong> <em>i</em> <u>u</u> <s>s</s> <code>c</code></p>"
	got := XHTMLToMarkdown(input)
	if got != "**b** *i* _u_ ~~s~~ `c`" {
		t.Errorf("got %q", got)
	}
	// Legacy tag aliases map to the same marks.
	if XHTMLToMarkdown("<p><b>b</b> <i>i</i> <del>s</del></p>") != "**b** *i* ~~s~~" {
		t.Errorf("alias tags: got %q", XHTMLToMarkdown("<p><b>b</b> <i>i</i> <del>s</del></p>"))
	}
}

func TestXHTMLToDocument_Entities(t *testing.T) {
	doc := XHTMLToDocument("<p>a &amp; b &lt;c&gt;</p>")
	p := doc.Blocks[0].(*Paragraph)
	if got := PlainText(p.Content); got != "a & b <c>" {
		t.Errorf("got %q", got)
	}
}

func TestXHTMLToDocument_Lists(t *testing.T) {
	doc := XHTMLToDocument(`<ul><li>A</li><li>B</li></ul><ol start="3"><li>C</li></ol>`)
	if len(doc.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(doc.Blocks))
	}
	ul := doc.Blocks[0].(*BulletList)
	if len(ul.Items) != 2 || blockText(ul.Items[1].Blocks) != "B" {
		t.Errorf("unexpected bullet list %#v", ul)
	}
	ol := doc.Blocks[1].(*OrderedList)
	if ol.Start != 3 || len(ol.Items) != 1 {
		t.Errorf("unexpected ordered list start=%d items=%d", ol.Start, len(ol.Items))
	}
}

func TestXHTMLToDocument_Table(t *testing.T) {
	input := `
		<table>
			<thead><tr><th>H1</th><th>H2</th></tr></thead>
			<tbody><tr><td>V1</td><td>V2</td></tr></tbody>
		</table>`
	doc := XHTMLToDocument(input)
	table, ok := doc.Blocks[0].(*Table)
	if !ok {
		t.Fatalf("expected table, got %T", doc.Blocks[0])
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if !table.Rows[0].Header || table.Rows[1].Header {
		t.Errorf("header flags wrong: %v %v", table.Rows[0].Header, table.Rows[1].Header)
	}
	if got := PlainText(table.Rows[1].Cells[1].Content); got != "V2" {
		t.Errorf("cell text = %q", got)
	}
}

func TestXHTMLToDocument_XMLDeclAndCDATA(t *testing.T) {
	input := `<?xml version="1.0"?><p>before</p><pre><![CDATA[x < y && y > z]]></pre>`
	doc := XHTMLToDocument(input)
	if len(doc.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(doc.Blocks))
	}
	cb := doc.Blocks[1].(*CodeBlock)
	if cb.Code != "x < y && y > z" {
		t.Errorf("code = %q", cb.Code)
	}
}

func TestXHTMLToDocument_CodeMacro(t *testing.T) {
	input := `<ac:structured-macro ac:name="code" ac:schema-version="1">` +
		`<ac:parameter ac:name="language">python</ac:parameter>` +
		`<ac:plain-text-body><![CDATA[print("hello")]]></ac:plain-text-body>` +
		`</ac:structured-macro>`
	doc := XHTMLToDocument(input)
	cb, ok := doc.Blocks[0].(*CodeBlock)
	if !ok {
		t.Fatalf("expected code block, got %T", doc.Blocks[0])
	}
	if cb.Language != "python" || cb.Code != `print("hello")` {
		t.Errorf("got language=%q code=%q", cb.Language, cb.Code)
	}
	if got := XHTMLToMarkdown(input); got != "```python\nprint(\"hello\")\n```" {
		t.Errorf("markdown = %q", got)
	}
}

func TestXHTMLToDocument_LegacyMacro(t *testing.T) {
	input := `<ac:macro ac:name="code"><ac:plain-text-body>x = 1</ac:plain-text-body></ac:macro>`
	doc := XHTMLToDocument(input)
	cb, ok := doc.Blocks[0].(*CodeBlock)
	if !ok || cb.Code != "x = 1" {
		t.Fatalf("legacy macro: got %#v", doc.Blocks[0])
	}
}

func TestXHTMLToDocument_PanelMacros(t *testing.T) {
	tests := []struct {
		macro string
		want  string
	}{
		{"info", "**Info:** Be careful"},
		{"note", "**Note:** Be careful"},
		{"warning", "**Warning:** Be careful"},
		{"tip", "**Tip:** Be careful"},
	}
	for _, tt := range tests {
		input := `<ac:structured-macro ac:name="` + tt.macro + `">` +
			`<ac:rich-text-body><p>Be careful</p></ac:rich-text-body>` +
			`</ac:structured-macro>`
		if got := XHTMLToMarkdown(input); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.macro, got, tt.want)
		}
	}
}

func TestXHTMLToDocument_StatusMacro(t *testing.T) {
	block := `<ac:structured-macro ac:name="status">` +
		`<ac:parameter ac:name="colour">Green</ac:parameter>` +
		`<ac:parameter ac:name="title">In Progress</ac:parameter>` +
		`</ac:structured-macro>`
	if got := XHTMLToMarkdown(block); got != "`In Progress`" {
		t.Errorf("block status = %q", got)
	}
	// Inside a paragraph the lozenge stays in the text flow.
	if got := XHTMLToMarkdown("<p>State: " + block + "</p>"); got != "State: `In Progress`" {
		t.Errorf("inline status = %q", got)
	}
}

func TestXHTMLToDocument_TOCMacro(t *testing.T) {
	input := `<ac:structured-macro ac:name="toc" />`
	if got := XHTMLToMarkdown(input); got != "[Table of Contents]" {
		t.Errorf("got %q", got)
	}
}

func TestXHTMLToDocument_UnknownMacro(t *testing.T) {
	withBody := `<ac:structured-macro ac:name="jiraroadmap">` +
		`<ac:rich-text-body><p>kept content</p></ac:rich-text-body>` +
		`</ac:structured-macro>`
	if got := XHTMLToMarkdown(withBody); got != "kept content" {
		t.Errorf("unknown macro with body = %q", got)
	}
	empty := `<ac:structured-macro ac:name="jiraroadmap" ac:macro-id="abc" />`
	doc := XHTMLToDocument(empty)
	if len(doc.Blocks) != 0 {
		t.Errorf("empty unknown macro produced %#v", doc.Blocks)
	}
}

func TestXHTMLToDocument_ACImage(t *testing.T) {
	input := `<p><ac:image ac:alt="diagram"><ri:url ri:value="https://example.com/d.png" /></ac:image></p>`
	doc := XHTMLToDocument(input)
	p := doc.Blocks[0].(*Paragraph)
	img, ok := p.Content[0].(*Image)
	if !ok || img.Src != "https://example.com/d.png" || img.Alt != "diagram" {
		t.Errorf("got %#v", p.Content[0])
	}

	attachment := `<p><ac:image><ri:attachment ri:filename="shot.png" /></ac:image></p>`
	doc = XHTMLToDocument(attachment)
	img = doc.Blocks[0].(*Paragraph).Content[0].(*Image)
	if img.Src != "shot.png" {
		t.Errorf("attachment src = %q", img.Src)
	}
}

func TestXHTMLToDocument_NeverFails(t *testing.T) {
	inputs := []string{
		"<p>unclosed",
		"</div></div>",
		"<p><em>cross</p></em>",
		"plain text no tags",
		"<ac:structured-macro>no name</ac:structured-macro>",
		"<table><td>stray cell</td></table>",
	}
	for _, input := range inputs {
		doc := XHTMLToDocument(input)
		if doc == nil {
			t.Errorf("nil document for %q", input)
		}
	}
}

func TestXHTMLToDocument_UnknownTagsPassThrough(t *testing.T) {
	doc := XHTMLToDocument(`<ac:layout><ac:layout-section><ac:layout-cell><p>inside</p></ac:layout-cell></ac:layout-section></ac:layout>`)
	if len(doc.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(doc.Blocks))
	}
	if got := PlainText(doc.Blocks[0].(*Paragraph).Content); got != "inside" {
		t.Errorf("got %q", got)
	}
}

func TestExtractTextFromXHTML(t *testing.T) {
	input := "<h1>Title</h1>\n<p>Hello   <strong>world</strong> &amp; more</p>"
	if got := ExtractTextFromXHTML(input); got != "Title Hello world & more" {
		t.Errorf("got %q", got)
	}
	if got := ExtractTextFromXHTML(""); got != "" {
		t.Errorf("empty input: got %q", got)
	}
}

func TestDocumentToXHTML_Escaping(t *testing.T) {
	doc := &Document{Blocks: []Block{
		&Paragraph{Content: []Inline{&Text{Value: "Use <tag> & stuff"}}},
	}}
	got := DocumentToXHTML(doc)
	if !strings.Contains(got, "&lt;tag&gt;") || !strings.Contains(got, "&amp;") {
		t.Errorf("got %q", got)
	}
}

func TestDocumentToXHTML_MarkNesting(t *testing.T) {
	doc := &Document{Blocks: []Block{
		&Paragraph{Content: []Inline{&Text{
			Value: "x",
			Marks: MarkSet(0).With(MarkBold).With(MarkItalic).With(MarkCode).With(MarkUnderline).With(MarkStrike),
		}}},
	}}
	want := "<p><s><u><em><strong><code>x</code></strong></em></u></s></p>"
	if got := DocumentToXHTML(doc); got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestDocumentToXHTML_CodeBlocks(t *testing.T) {
	withLang := &Document{Blocks: []Block{&CodeBlock{Language: "go", Code: "x := 1"}}}
	got := DocumentToXHTML(withLang)
	want := `<ac:structured-macro ac:name="code"><ac:parameter ac:name="language">go</ac:parameter>` +
		`<ac:plain-text-body><![CDATA[x := 1]]></ac:plain-text-body></ac:structured-macro>`
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}

	noLang := &Document{Blocks: []Block{&CodeBlock{Code: "a < b"}}}
	if got := DocumentToXHTML(noLang); got != "<pre>a &lt; b</pre>" {
		t.Errorf("no language: got %q", got)
	}
}

func TestDocumentToXHTML_Image(t *testing.T) {
	doc := &Document{Blocks: []Block{
		&Paragraph{Content: []Inline{&Image{Src: "https://example.com/a.png", Alt: "alt text"}}},
	}}
	want := `<p><ac:image ac:alt="alt text"><ri:url ri:value="https://example.com/a.png" /></ac:image></p>`
	if got := DocumentToXHTML(doc); got != want {
		t.Errorf("got %q", got)
	}
}

func TestDocumentToXHTML_MacroParamsSorted(t *testing.T) {
	doc := &Document{Blocks: []Block{
		&Macro{Name: "status", Params: map[string]string{"title": "Done", "colour": "Green"}},
	}}
	want := `<ac:structured-macro ac:name="status">` +
		`<ac:parameter ac:name="colour">Green</ac:parameter>` +
		`<ac:parameter ac:name="title">Done</ac:parameter>` +
		`</ac:structured-macro>`
	if got := DocumentToXHTML(doc); got != want {
		t.Errorf("got %q", got)
	}
}

// TestXHTMLRoundTrip serializes a composite document and parses it back,
// expecting the identical tree.
func TestXHTMLRoundTrip(t *testing.T) {
	doc := &Document{Blocks: []Block{
		&Heading{Level: 2, Content: []Inline{&Text{Value: "Section"}}},
		&Paragraph{Content: []Inline{
			&Text{Value: "Hello "},
			&Text{Value: "world", Marks: MarkSet(0).With(MarkBold)},
			&LineBreak{},
			&Link{Text: "docs", Href: "https://example.com"},
		}},
		&BulletList{Items: []*ListItem{
			{Blocks: []Block{&Paragraph{Content: []Inline{&Text{Value: "one"}}}}},
			{Blocks: []Block{&Paragraph{Content: []Inline{&Text{Value: "two"}}}}},
		}},
		&OrderedList{Start: 3, Items: []*ListItem{
			{Blocks: []Block{&Paragraph{Content: []Inline{&Text{Value: "third"}}}}},
		}},
		&CodeBlock{Language: "go", Code: "x := 1"},
		&CodeBlock{Code: "no language"},
		&Blockquote{Blocks: []Block{&Paragraph{Content: []Inline{&Text{Value: "quoted"}}}}},
		&Rule{},
		&Table{Rows: []*TableRow{
			{Header: true, Cells: []*TableCell{{Content: []Inline{&Text{Value: "H"}}}}},
			{Cells: []*TableCell{{Content: []Inline{&Text{Value: "V"}}}}},
		}},
	}}
	got := XHTMLToDocument(DocumentToXHTML(doc))
	if !reflect.DeepEqual(got, doc) {
		t.Errorf("round trip mismatch:\n got %#v\nwant %#v", got.Blocks, doc.Blocks)
	}
}
