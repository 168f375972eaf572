package convert

import (
	"fmt"
	stdhtml "html"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ValidationError is a strict structural validation failure. Unlike the
// best-effort parsers, the validators report exactly what is wrong and where.
type ValidationError struct {
	Message string
	Tag     string
}

func (e *ValidationError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Tag)
	}
	return e.Message
}

// voidElements never take a closing tag and are exempt from balance checks.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// ValidateXHTML checks tag balance in storage-format XHTML with a stack scan
// over the token stream. It returns nil for well-formed input and a
// *ValidationError naming the offending tag otherwise. Self-closing tags and
// void elements are exempt. This is the strict counterpart to the forgiving
// XHTMLToDocument parser.
func ValidateXHTML(xhtml string) error {
	// CDATA payloads are opaque data, not markup; escape them so code-macro
	// bodies cannot leak tags into the balance scan.
	xhtml = cdataRe.ReplaceAllStringFunc(xhtml, func(m string) string {
		inner := cdataRe.FindStringSubmatch(m)[1]
		return stdhtml.EscapeString(inner)
	})
	z := html.NewTokenizer(strings.NewReader(xhtml))
	var stack []string
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				return &ValidationError{Message: "tokenize error: " + z.Err().Error()}
			}
			if len(stack) > 0 {
				return &ValidationError{Message: "unclosed tags", Tag: strings.Join(stack, ", ")}
			}
			return nil
		case html.StartTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if voidElements[tag] {
				continue
			}
			stack = append(stack, tag)
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if voidElements[tag] {
				continue
			}
			if len(stack) == 0 {
				return &ValidationError{Message: "unexpected closing tag", Tag: tag}
			}
			top := stack[len(stack)-1]
			if top != tag {
				return &ValidationError{
					Message: fmt.Sprintf("mismatched tag: expected </%s>", top),
					Tag:     tag,
				}
			}
			stack = stack[:len(stack)-1]
		case html.SelfClosingTagToken, html.TextToken, html.CommentToken, html.DoctypeToken:
			// no balance effect
		}
	}
}

// ValidateADF checks the top-level shape of an ADF value: the root must be a
// mapping with type "doc" and a content list. Nested nodes are not validated.
// Accepts a decoded JSON object or an *ADFDocument.
func ValidateADF(v any) error {
	switch adf := v.(type) {
	case *ADFDocument:
		if adf == nil {
			return &ValidationError{Message: "ADF root must be a mapping, got nil"}
		}
		if adf.Type != "doc" {
			return &ValidationError{Message: fmt.Sprintf("ADF type must be %q, got %q", "doc", adf.Type)}
		}
		if adf.Content == nil {
			return &ValidationError{Message: "ADF document missing content"}
		}
		return nil
	case ADFDocument:
		return ValidateADF(&adf)
	case map[string]any:
		typ, ok := adf["type"]
		if !ok {
			return &ValidationError{Message: "ADF document missing type"}
		}
		if typ != "doc" {
			return &ValidationError{Message: fmt.Sprintf("ADF type must be %q, got %v", "doc", typ)}
		}
		content, ok := adf["content"]
		if !ok {
			return &ValidationError{Message: "ADF document missing content"}
		}
		if _, ok := content.([]any); !ok {
			return &ValidationError{Message: fmt.Sprintf("ADF content must be a list, got %T", content)}
		}
		return nil
	default:
		return &ValidationError{Message: fmt.Sprintf("ADF root must be a mapping, got %T", v)}
	}
}
