package convert

// parsedMacro carries a structured-macro element through translation.
type parsedMacro struct {
	name      string
	params    map[string]string
	plainBody string  // CDATA content of plain-text-body
	richBody  []Block // parsed content of rich-text-body
}

// macroHandler translates a structured macro into document blocks.
type macroHandler func(m parsedMacro) []Block

// macroTable maps macro names to their block-node translations. It is
// consulted by the XHTML parser only; the serializer emits macros directly
// (code blocks being the one construct it writes back as a macro). The table
// is immutable after init.
var macroTable = map[string]macroHandler{
	"code":    translateCodeMacro,
	"info":    panelMacro("Info"),
	"note":    panelMacro("Note"),
	"warning": panelMacro("Warning"),
	"tip":     panelMacro("Tip"),
	"status":  translateStatusMacro,
	"toc":     translateTOCMacro,
}

// translateMacro routes a structured macro through the table. Unknown macros
// are dropped, retaining only their body content; this never fails.
func translateMacro(m parsedMacro) []Block {
	if handler, ok := macroTable[m.name]; ok {
		return handler(m)
	}
	if len(m.richBody) > 0 {
		return m.richBody
	}
	if m.plainBody != "" {
		return []Block{&Paragraph{Content: []Inline{&Text{Value: m.plainBody}}}}
	}
	return nil
}

func translateCodeMacro(m parsedMacro) []Block {
	code := m.plainBody
	if code == "" {
		code = blockText(m.richBody)
	}
	return []Block{&CodeBlock{Language: m.params["language"], Code: code}}
}

// panelMacro renders info/note/warning/tip panels as a paragraph opening with
// a bolded label, which is how they read once serialized to markdown.
func panelMacro(label string) macroHandler {
	return func(m parsedMacro) []Block {
		lead := []Inline{&Text{Value: label + ":", Marks: MarkSet(0).With(MarkBold)}}
		body := m.richBody
		if len(body) == 0 && m.plainBody != "" {
			body = []Block{&Paragraph{Content: []Inline{&Text{Value: m.plainBody}}}}
		}
		if len(body) == 0 {
			return []Block{&Paragraph{Content: lead}}
		}
		if first, ok := body[0].(*Paragraph); ok {
			merged := &Paragraph{Content: append(append(lead, &Text{Value: " "}), first.Content...)}
			return append([]Block{merged}, body[1:]...)
		}
		return append([]Block{&Paragraph{Content: lead}}, body...)
	}
}

func translateStatusMacro(m parsedMacro) []Block {
	title := m.params["title"]
	if title == "" {
		return nil
	}
	return []Block{&Paragraph{Content: []Inline{
		&Text{Value: title, Marks: MarkSet(0).With(MarkCode)},
	}}}
}

func translateTOCMacro(parsedMacro) []Block {
	return []Block{&Paragraph{Content: []Inline{&Text{Value: "[Table of Contents]"}}}}
}
