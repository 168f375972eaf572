package convert

// Cross-format conversions. Every pair routes through the shared Document
// tree; there are no pairwise converters to keep in sync.

// XHTMLToMarkdown converts storage-format XHTML to markdown.
func XHTMLToMarkdown(xhtml string) string {
	return DocumentToMarkdown(XHTMLToDocument(xhtml))
}

// MarkdownToXHTML converts markdown to storage-format XHTML.
func MarkdownToXHTML(markdown string) string {
	return DocumentToXHTML(MarkdownToDocument(markdown))
}

// XHTMLToADF converts storage-format XHTML to an ADF document.
func XHTMLToADF(xhtml string) *ADFDocument {
	return DocumentToADF(XHTMLToDocument(xhtml))
}

// ADFToXHTML converts an ADF document to storage-format XHTML.
func ADFToXHTML(adf *ADFDocument) string {
	return DocumentToXHTML(ADFToDocument(adf))
}

// ADFToMarkdown converts an ADF document to markdown.
func ADFToMarkdown(adf *ADFDocument) string {
	return DocumentToMarkdown(ADFToDocument(adf))
}

// MarkdownToADF converts markdown to an ADF document.
func MarkdownToADF(markdown string) *ADFDocument {
	return DocumentToADF(MarkdownToDocument(markdown))
}

// TextToADF converts plain text to an ADF document.
func TextToADF(text string) *ADFDocument {
	return DocumentToADF(TextToDocument(text))
}

// ADFToText flattens an ADF document to plain text.
func ADFToText(adf *ADFDocument) string {
	return DocumentToText(ADFToDocument(adf))
}
