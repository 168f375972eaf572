package convert

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestDocumentToADF_Shape(t *testing.T) {
	adf := MarkdownToADF("# Title\n\nHello **world**")
	if adf.Type != "doc" || adf.Version != 1 {
		t.Fatalf("root type=%q version=%d", adf.Type, adf.Version)
	}
	if len(adf.Content) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(adf.Content))
	}

	h := adf.Content[0]
	if h.Type != "heading" || h.Attrs["level"] != 1 {
		t.Errorf("heading node: %#v", h)
	}
	if len(h.Content) != 1 || h.Content[0].Text != "Title" {
		t.Errorf("heading content: %#v", h.Content)
	}

	p := adf.Content[1]
	if p.Type != "paragraph" || len(p.Content) != 2 {
		t.Fatalf("paragraph node: %#v", p)
	}
	bold := p.Content[1]
	if bold.Text != "world" || len(bold.Marks) != 1 || bold.Marks[0].Type != "strong" {
		t.Errorf("bold run: %#v", bold)
	}
}

func TestDocumentToADF_EmptyDocument(t *testing.T) {
	adf := DocumentToADF(&Document{})
	if adf.Content == nil || len(adf.Content) != 0 {
		t.Errorf("expected empty non-nil content, got %#v", adf.Content)
	}
	data, err := json.Marshal(adf)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got := string(data); got != `{"type":"doc","version":1,"content":[]}` {
		t.Errorf("json = %s", got)
	}
}

func TestDocumentToADF_MarkOrder(t *testing.T) {
	adf := DocumentToADF(&Document{Blocks: []Block{
		&Paragraph{Content: []Inline{&Text{
			Value: "x",
			Marks: MarkSet(0).With(MarkCode).With(MarkBold).With(MarkItalic),
		}}},
	}})
	marks := adf.Content[0].Content[0].Marks
	got := make([]string, len(marks))
	for i, m := range marks {
		got[i] = m.Type
	}
	want := []string{"em", "strong", "code"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mark order = %v, want %v", got, want)
	}
}

func TestDocumentToADF_Link(t *testing.T) {
	adf := DocumentToADF(&Document{Blocks: []Block{
		&Paragraph{Content: []Inline{&Link{Text: "docs", Href: "https://example.com"}}},
	}})
	run := adf.Content[0].Content[0]
	if run.Text != "docs" || len(run.Marks) != 1 || run.Marks[0].Type != "link" {
		t.Fatalf("link run: %#v", run)
	}
	if run.Marks[0].Attrs["href"] != "https://example.com" {
		t.Errorf("href = %v", run.Marks[0].Attrs["href"])
	}
}

func TestDocumentToADF_ImageDegradesToAltText(t *testing.T) {
	adf := DocumentToADF(&Document{Blocks: []Block{
		&Paragraph{Content: []Inline{&Image{Src: "a.png", Alt: "diagram"}}},
	}})
	run := adf.Content[0].Content[0]
	if run.Type != "text" || run.Text != "diagram" {
		t.Errorf("got %#v", run)
	}
}

func TestADFDocumentFromJSON(t *testing.T) {
	raw := `{
		"type": "doc",
		"version": 1,
		"content": [
			{"type": "heading", "attrs": {"level": 2}, "content": [{"type": "text", "text": "Section"}]},
			{"type": "orderedList", "attrs": {"order": 4}, "content": [
				{"type": "listItem", "content": [
					{"type": "paragraph", "content": [{"type": "text", "text": "item"}]}
				]}
			]}
		]
	}`
	adf, err := ADFDocumentFromJSON([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	doc := ADFToDocument(adf)
	if len(doc.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(doc.Blocks))
	}
	h := doc.Blocks[0].(*Heading)
	if h.Level != 2 || PlainText(h.Content) != "Section" {
		t.Errorf("heading: %#v", h)
	}
	// JSON numbers decode as float64; the attr reader must still see 4.
	ol := doc.Blocks[1].(*OrderedList)
	if ol.Start != 4 {
		t.Errorf("start = %d, want 4", ol.Start)
	}
}

func TestADFDocumentFromJSON_Invalid(t *testing.T) {
	if _, err := ADFDocumentFromJSON([]byte(`{"type": `)); err == nil {
		t.Error("expected error for truncated JSON")
	}
}

func TestADFToDocument_HeadingClamp(t *testing.T) {
	adf := &ADFDocument{Type: "doc", Version: 1, Content: []*ADFNode{
		{Type: "heading", Attrs: map[string]any{"level": 10}, Content: []*ADFNode{{Type: "text", Text: "deep"}}},
		{Type: "heading", Attrs: map[string]any{"level": 0}, Content: []*ADFNode{{Type: "text", Text: "zero"}}},
	}}
	doc := ADFToDocument(adf)
	if doc.Blocks[0].(*Heading).Level != 6 {
		t.Errorf("level 10 clamped to %d, want 6", doc.Blocks[0].(*Heading).Level)
	}
	if doc.Blocks[1].(*Heading).Level != 1 {
		t.Errorf("level 0 clamped to %d, want 1", doc.Blocks[1].(*Heading).Level)
	}
}

func TestADFToDocument_UnknownNodeRecurses(t *testing.T) {
	adf := &ADFDocument{Type: "doc", Version: 1, Content: []*ADFNode{
		{Type: "panel", Attrs: map[string]any{"panelType": "info"}, Content: []*ADFNode{
			{Type: "paragraph", Content: []*ADFNode{{Type: "text", Text: "inside panel"}}},
		}},
	}}
	doc := ADFToDocument(adf)
	if len(doc.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(doc.Blocks))
	}
	if got := PlainText(doc.Blocks[0].(*Paragraph).Content); got != "inside panel" {
		t.Errorf("got %q", got)
	}
}

// TestADFRoundTrip converts a composite document to ADF and back, expecting
// the identical tree.
func TestADFRoundTrip(t *testing.T) {
	doc := &Document{Blocks: []Block{
		&Heading{Level: 3, Content: []Inline{&Text{Value: "Section"}}},
		&Paragraph{Content: []Inline{
			&Text{Value: "Hello "},
			&Text{Value: "world", Marks: MarkSet(0).With(MarkBold).With(MarkItalic)},
			&LineBreak{},
			&Link{Text: "docs", Href: "https://example.com"},
		}},
		&BulletList{Items: []*ListItem{
			{Blocks: []Block{&Paragraph{Content: []Inline{&Text{Value: "one"}}}}},
		}},
		&OrderedList{Start: 5, Items: []*ListItem{
			{Blocks: []Block{&Paragraph{Content: []Inline{&Text{Value: "fifth"}}}}},
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
	got := ADFToDocument(DocumentToADF(doc))
	if !reflect.DeepEqual(got, doc) {
		t.Errorf("round trip mismatch:\n got %#v\nwant %#v", got.Blocks, doc.Blocks)
	}
}

func TestADFMacroBodyFlattens(t *testing.T) {
	adf := DocumentToADF(&Document{Blocks: []Block{
		&Macro{Name: "expand", Body: []Block{
			&Paragraph{Content: []Inline{&Text{Value: "body"}}},
		}},
	}})
	if len(adf.Content) != 1 || adf.Content[0].Type != "paragraph" {
		t.Fatalf("got %#v", adf.Content)
	}
	data, _ := json.Marshal(adf)
	if strings.Contains(string(data), "expand") {
		t.Errorf("macro name leaked into ADF: %s", data)
	}
}
