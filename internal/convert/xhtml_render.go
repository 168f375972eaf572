package convert

import (
	"fmt"
	"html"
	"sort"
	"strings"
)

// DocumentToXHTML serializes a Document to Confluence storage-format XHTML.
// Literal text is entity-escaped. Two deliberate asymmetries with the
// parser: images always render as ac:image/ri:url (the storage-format
// convention, even though bare <img> is accepted on parse), and code blocks
// with a language render as the code macro while language-less ones render a
// plain <pre>.
func DocumentToXHTML(doc *Document) string {
	if doc == nil {
		return ""
	}
	var sb strings.Builder
	for _, b := range doc.Blocks {
		sb.WriteString(blockToXHTML(b))
	}
	return sb.String()
}

func blockToXHTML(b Block) string {
	switch n := b.(type) {
	case *Paragraph:
		return "<p>" + inlinesToXHTML(n.Content) + "</p>"
	case *Heading:
		level := ClampHeadingLevel(n.Level)
		return fmt.Sprintf("<h%d>%s</h%d>", level, inlinesToXHTML(n.Content), level)
	case *BulletList:
		return "<ul>" + listItemsToXHTML(n.Items) + "</ul>"
	case *OrderedList:
		if n.Start > 1 {
			return fmt.Sprintf(`<ol start="%d">%s</ol>`, n.Start, listItemsToXHTML(n.Items))
		}
		return "<ol>" + listItemsToXHTML(n.Items) + "</ol>"
	case *CodeBlock:
		return codeBlockToXHTML(n)
	case *Blockquote:
		var sb strings.Builder
		sb.WriteString("<blockquote>")
		for _, child := range n.Blocks {
			sb.WriteString(blockToXHTML(child))
		}
		sb.WriteString("</blockquote>")
		return sb.String()
	case *Rule:
		return "<hr />"
	case *Table:
		return tableToXHTML(n)
	case *Macro:
		return macroToXHTML(n)
	default:
		return ""
	}
}

func listItemsToXHTML(items []*ListItem) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString("<li>")
		// A lone paragraph renders unwrapped, matching Confluence's own
		// storage output for simple list items.
		if len(item.Blocks) == 1 {
			if p, ok := item.Blocks[0].(*Paragraph); ok {
				sb.WriteString(inlinesToXHTML(p.Content))
				sb.WriteString("</li>")
				continue
			}
		}
		for _, b := range item.Blocks {
			sb.WriteString(blockToXHTML(b))
		}
		sb.WriteString("</li>")
	}
	return sb.String()
}

func codeBlockToXHTML(n *CodeBlock) string {
	if n.Language == "" {
		return "<pre>" + html.EscapeString(n.Code) + "</pre>"
	}
	var sb strings.Builder
	sb.WriteString(`<ac:structured-macro ac:name="code">`)
	sb.WriteString(`<ac:parameter ac:name="language">`)
	sb.WriteString(html.EscapeString(n.Language))
	sb.WriteString(`</ac:parameter>`)
	sb.WriteString(`<ac:plain-text-body><![CDATA[`)
	sb.WriteString(n.Code)
	sb.WriteString(`]]></ac:plain-text-body>`)
	sb.WriteString(`</ac:structured-macro>`)
	return sb.String()
}

func tableToXHTML(t *Table) string {
	var sb strings.Builder
	sb.WriteString("<table><tbody>")
	for _, row := range t.Rows {
		tag := "td"
		if row.Header {
			tag = "th"
		}
		sb.WriteString("<tr>")
		for _, cell := range row.Cells {
			sb.WriteString("<" + tag + ">")
			sb.WriteString(inlinesToXHTML(cell.Content))
			sb.WriteString("</" + tag + ">")
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</tbody></table>")
	return sb.String()
}

func macroToXHTML(m *Macro) string {
	var sb strings.Builder
	sb.WriteString(`<ac:structured-macro ac:name="`)
	sb.WriteString(html.EscapeString(m.Name))
	sb.WriteString(`">`)
	keys := make([]string, 0, len(m.Params))
	for k := range m.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(`<ac:parameter ac:name="`)
		sb.WriteString(html.EscapeString(k))
		sb.WriteString(`">`)
		sb.WriteString(html.EscapeString(m.Params[k]))
		sb.WriteString(`</ac:parameter>`)
	}
	if len(m.Body) > 0 {
		sb.WriteString(`<ac:rich-text-body>`)
		for _, b := range m.Body {
			sb.WriteString(blockToXHTML(b))
		}
		sb.WriteString(`</ac:rich-text-body>`)
	}
	sb.WriteString(`</ac:structured-macro>`)
	return sb.String()
}

func inlinesToXHTML(content []Inline) string {
	var sb strings.Builder
	for _, in := range content {
		switch n := in.(type) {
		case *Text:
			sb.WriteString(markedTextToXHTML(n))
		case *Link:
			sb.WriteString(`<a href="` + html.EscapeString(n.Href) + `">`)
			sb.WriteString(html.EscapeString(n.Text))
			sb.WriteString("</a>")
		case *Image:
			sb.WriteString(imageToXHTML(n))
		case *LineBreak:
			sb.WriteString("<br />")
		}
	}
	return sb.String()
}

// markedTextToXHTML nests mark tags in the same fixed order the markdown
// serializer uses, keeping cross-format output deterministic.
func markedTextToXHTML(t *Text) string {
	s := html.EscapeString(t.Value)
	if t.Marks.Has(MarkCode) {
		s = "<code>" + s + "</code>"
	}
	if t.Marks.Has(MarkBold) {
		s = "<strong>" + s + "</strong>"
	}
	if t.Marks.Has(MarkItalic) {
		s = "<em>" + s + "</em>"
	}
	if t.Marks.Has(MarkUnderline) {
		s = "<u>" + s + "</u>"
	}
	if t.Marks.Has(MarkStrike) {
		s = "<s>" + s + "</s>"
	}
	return s
}

// imageToXHTML emits the attachment-link macro form rather than a bare
// <img>; Confluence's storage format references external images through
// ri:url. The parser accepts both shapes.
func imageToXHTML(img *Image) string {
	var sb strings.Builder
	sb.WriteString("<ac:image")
	if img.Alt != "" {
		sb.WriteString(` ac:alt="` + html.EscapeString(img.Alt) + `"`)
	}
	sb.WriteString(`><ri:url ri:value="`)
	sb.WriteString(html.EscapeString(img.Src))
	sb.WriteString(`" /></ac:image>`)
	return sb.String()
}
