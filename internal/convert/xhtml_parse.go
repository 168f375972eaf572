package convert

import (
	stdhtml "html"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	xmlDeclRe     = regexp.MustCompile(`<\?xml[^>]*\?>`)
	cdataRe       = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)
	wsRe          = regexp.MustCompile(`[ \t\r\n]+`)
	selfClosingRe = regexp.MustCompile(`<((?:ac|ri):[\w-]+)((?:[^<>"']|"[^"]*"|'[^']*')*?)\s*/>`)
)

// XHTMLToDocument parses Confluence storage-format XHTML into a Document.
// The parser is best-effort: unknown tags pass their content through,
// malformed markup is recovered by the HTML5 parse algorithm, and the
// function never fails on content. Strict acceptance is ValidateXHTML's job.
func XHTMLToDocument(xhtml string) *Document {
	doc := &Document{}
	root := parseHTMLFragment(xhtml)
	if root == nil {
		return doc
	}
	doc.Blocks = parseContainer(root)
	return doc
}

// ExtractTextFromXHTML strips all markup from storage-format XHTML,
// unescapes entities and collapses whitespace.
func ExtractTextFromXHTML(xhtml string) string {
	root := parseHTMLFragment(xhtml)
	if root == nil {
		return ""
	}
	return strings.TrimSpace(wsRe.ReplaceAllString(textContent(root), " "))
}

// parseHTMLFragment normalizes storage-format quirks (XML declaration,
// CDATA sections) and parses the fragment, returning the body node.
// golang.org/x/net/html recovers from arbitrary malformed input, which gives
// the never-fail contract for free.
func parseHTMLFragment(s string) *html.Node {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	s = xmlDeclRe.ReplaceAllString(s, "")
	// The HTML5 tokenizer treats CDATA sections outside foreign content as
	// bogus comments, so surface their payload as escaped text first.
	s = cdataRe.ReplaceAllStringFunc(s, func(m string) string {
		inner := cdataRe.FindStringSubmatch(m)[1]
		return stdhtml.EscapeString(inner)
	})
	// The HTML5 tree builder ignores the self-closing slash on unknown
	// elements, which would leave <ac:.../> open and swallow its siblings.
	s = selfClosingRe.ReplaceAllString(s, "<$1$2></$1>")
	root, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return nil
	}
	return findElement(root, "body")
}

func findElement(n *html.Node, name string) *html.Node {
	if n.Type == html.ElementNode && n.Data == name {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, name); found != nil {
			return found
		}
	}
	return nil
}

// localName strips a namespace prefix (ac:, ri:) from a tag or attribute name.
func localName(name string) string {
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if localName(a.Key) == name {
			return a.Val
		}
	}
	return ""
}

// textContent returns the raw concatenated text of a subtree, whitespace
// preserved.
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		sb.WriteString(textContent(child))
	}
	return sb.String()
}

// blockCollector accumulates blocks while grouping loose inline content into
// implicit paragraphs.
type blockCollector struct {
	blocks  []Block
	pending []Inline
}

func (c *blockCollector) addInlines(runs []Inline) {
	c.pending = append(c.pending, runs...)
}

func (c *blockCollector) addText(s string) {
	collapsed := wsRe.ReplaceAllString(s, " ")
	if strings.TrimSpace(collapsed) == "" && len(c.pending) == 0 {
		return
	}
	c.pending = append(c.pending, &Text{Value: collapsed})
}

func (c *blockCollector) addBlock(b Block) {
	c.flush()
	if b != nil {
		c.blocks = append(c.blocks, b)
	}
}

func (c *blockCollector) addBlocks(bs []Block) {
	c.flush()
	c.blocks = append(c.blocks, bs...)
}

// flush turns pending inline content into a paragraph, dropping
// whitespace-only runs at the edges.
func (c *blockCollector) flush() {
	runs := trimInlineEdges(c.pending)
	c.pending = nil
	if len(runs) > 0 {
		c.blocks = append(c.blocks, &Paragraph{Content: runs})
	}
}

func trimInlineEdges(runs []Inline) []Inline {
	for len(runs) > 0 {
		t, ok := runs[0].(*Text)
		if !ok {
			break
		}
		t.Value = strings.TrimLeft(t.Value, " ")
		if t.Value != "" {
			break
		}
		runs = runs[1:]
	}
	for len(runs) > 0 {
		t, ok := runs[len(runs)-1].(*Text)
		if !ok {
			break
		}
		t.Value = strings.TrimRight(t.Value, " ")
		if t.Value != "" {
			break
		}
		runs = runs[:len(runs)-1]
	}
	return runs
}

// parseContainer converts an element's children into blocks.
func parseContainer(n *html.Node) []Block {
	c := &blockCollector{}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		parseNodeInto(child, c)
	}
	c.flush()
	return c.blocks
}

func parseNodeInto(n *html.Node, c *blockCollector) {
	switch n.Type {
	case html.TextNode:
		c.addText(n.Data)
		return
	case html.ElementNode:
		// handled below
	default:
		return
	}

	switch name := localName(n.Data); name {
	case "p":
		c.addBlock(&Paragraph{Content: trimInlineEdges(parseInlineChildren(n, 0))})
	case "h1", "h2", "h3", "h4", "h5", "h6":
		c.addBlock(&Heading{
			Level:   int(name[1] - '0'),
			Content: trimInlineEdges(parseInlineChildren(n, 0)),
		})
	case "ul":
		c.addBlock(&BulletList{Items: parseListItems(n)})
	case "ol":
		start := 1
		if s := attrValue(n, "start"); s != "" {
			start = atoiDefault(s, 1)
		}
		c.addBlock(&OrderedList{Start: start, Items: parseListItems(n)})
	case "blockquote":
		c.addBlock(&Blockquote{Blocks: parseContainer(n)})
	case "pre":
		c.addBlock(parsePre(n))
	case "hr":
		c.addBlock(&Rule{})
	case "table":
		c.addBlock(parseTable(n))
	case "structured-macro":
		blocks := translateMacro(parseStructuredMacro(n))
		// An inline-sized macro (status lozenge and friends) stays in the
		// surrounding text flow instead of breaking the paragraph.
		if len(blocks) == 1 {
			if p, ok := blocks[0].(*Paragraph); ok && len(c.pending) > 0 {
				c.addInlines(p.Content)
				return
			}
		}
		c.addBlocks(blocks)
	case "macro":
		// Legacy <ac:macro> form, same routing. Without a name there is
		// nothing to translate, so the content passes through.
		if m := parseStructuredMacro(n); m.name != "" {
			c.addBlocks(translateMacro(m))
		} else {
			for child := n.FirstChild; child != nil; child = child.NextSibling {
				parseNodeInto(child, c)
			}
		}
	case "image":
		c.addInlines(parseACImage(n))
	case "br":
		c.addInlines([]Inline{&LineBreak{}})
	case "strong", "b", "em", "i", "u", "s", "del", "code", "a", "img", "span", "sub", "sup":
		c.addInlines(parseInline(n, 0))
	case "layout", "layout-section", "layout-cell", "div", "section", "tbody", "thead", "tfoot":
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			parseNodeInto(child, c)
		}
	default:
		// Unknown tag: drop the tag, keep its content.
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			parseNodeInto(child, c)
		}
	}
}

func atoiDefault(s string, def int) int {
	v := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return def
		}
		v = v*10 + int(r-'0')
	}
	if v < 1 {
		return def
	}
	return v
}

func parseListItems(n *html.Node) []*ListItem {
	var items []*ListItem
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		if localName(child.Data) == "li" {
			items = append(items, &ListItem{Blocks: parseContainer(child)})
		}
	}
	return items
}

func parsePre(n *html.Node) Block {
	language := ""
	target := n
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && localName(child.Data) == "code" {
			target = child
			for _, a := range child.Attr {
				if a.Key == "class" && strings.HasPrefix(a.Val, "language-") {
					language = strings.TrimPrefix(a.Val, "language-")
				}
			}
			break
		}
	}
	code := strings.TrimSuffix(textContent(target), "\n")
	return &CodeBlock{Language: language, Code: code}
}

func parseTable(n *html.Node) Block {
	table := &Table{}
	collectTableRows(n, table)
	return table
}

func collectTableRows(n *html.Node, table *Table) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		switch localName(child.Data) {
		case "thead", "tbody", "tfoot":
			collectTableRows(child, table)
		case "tr":
			table.Rows = append(table.Rows, parseTableRow(child))
		}
	}
}

func parseTableRow(n *html.Node) *TableRow {
	row := &TableRow{}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		switch localName(child.Data) {
		case "th":
			row.Header = true
			row.Cells = append(row.Cells, parseTableCell(child))
		case "td":
			row.Cells = append(row.Cells, parseTableCell(child))
		}
	}
	return row
}

func parseTableCell(n *html.Node) *TableCell {
	return &TableCell{Content: trimInlineEdges(parseInlineChildren(n, 0))}
}

// parseInlineChildren converts an element's children to inline runs,
// carrying the accumulated mark set.
func parseInlineChildren(n *html.Node, marks MarkSet) []Inline {
	var runs []Inline
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		runs = append(runs, parseInline(child, marks)...)
	}
	return runs
}

func parseInline(n *html.Node, marks MarkSet) []Inline {
	switch n.Type {
	case html.TextNode:
		value := wsRe.ReplaceAllString(n.Data, " ")
		if value == "" {
			return nil
		}
		return []Inline{&Text{Value: value, Marks: marks}}
	case html.ElementNode:
		// handled below
	default:
		return nil
	}

	switch localName(n.Data) {
	case "strong", "b":
		return parseInlineChildren(n, marks.With(MarkBold))
	case "em", "i":
		return parseInlineChildren(n, marks.With(MarkItalic))
	case "u":
		return parseInlineChildren(n, marks.With(MarkUnderline))
	case "s", "del":
		return parseInlineChildren(n, marks.With(MarkStrike))
	case "code":
		return parseInlineChildren(n, marks.With(MarkCode))
	case "a":
		return []Inline{&Link{
			Text: strings.TrimSpace(wsRe.ReplaceAllString(textContent(n), " ")),
			Href: attrValue(n, "href"),
		}}
	case "img":
		return []Inline{&Image{Src: attrValue(n, "src"), Alt: attrValue(n, "alt")}}
	case "image":
		return parseACImage(n)
	case "br":
		return []Inline{&LineBreak{}}
	case "structured-macro":
		// Inline context: keep whatever text the macro translates to.
		var runs []Inline
		for _, b := range translateMacro(parseStructuredMacro(n)) {
			if p, ok := b.(*Paragraph); ok {
				runs = append(runs, p.Content...)
			} else if s := blockText([]Block{b}); s != "" {
				runs = append(runs, &Text{Value: s, Marks: marks})
			}
		}
		return runs
	default:
		return parseInlineChildren(n, marks)
	}
}

// parseACImage reads Confluence's <ac:image> element, resolving the source
// from a nested ri:url or ri:attachment reference.
func parseACImage(n *html.Node) []Inline {
	img := &Image{Alt: attrValue(n, "alt")}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		switch localName(child.Data) {
		case "url":
			img.Src = attrValue(child, "value")
		case "attachment":
			img.Src = attrValue(child, "filename")
		}
	}
	if img.Src == "" {
		return nil
	}
	return []Inline{img}
}

// parseStructuredMacro reads an ac:structured-macro element: the name
// attribute, parameter children, and plain-text/rich-text bodies. Extra
// attributes double as parameters, matching content produced by tools that
// inline parameters on the macro element.
func parseStructuredMacro(n *html.Node) parsedMacro {
	m := parsedMacro{params: map[string]string{}}
	for _, a := range n.Attr {
		key := localName(a.Key)
		if key == "name" {
			m.name = strings.ToLower(a.Val)
		} else if key != "schema-version" && key != "macro-id" {
			m.params[key] = a.Val
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		switch localName(child.Data) {
		case "parameter":
			if key := attrValue(child, "name"); key != "" {
				m.params[key] = strings.TrimSpace(textContent(child))
			}
		case "plain-text-body":
			m.plainBody = strings.TrimSpace(textContent(child))
		case "rich-text-body":
			m.richBody = parseContainer(child)
		case "default-parameter":
			m.params[""] = strings.TrimSpace(textContent(child))
		}
	}
	return m
}
