package svgdom

import (
	"bytes"
	"strings"
)

// Writer serializes a document as it is walked. Elements without
// content are written self-closing.
type Writer struct {
	buf  bytes.Buffer
	open bool // start tag written, '>' pending
	tags []string
}

func (w *Writer) closeStart(selfClose bool) {
	if !w.open {
		return
	}
	if selfClose {
		w.buf.WriteString("/>")
		w.tags = w.tags[:len(w.tags)-1]
	} else {
		w.buf.WriteByte('>')
	}
	w.open = false
}

// WriteRaw emits s without escaping, for prolog material.
func (w *Writer) WriteRaw(s string) {
	w.closeStart(false)
	w.buf.WriteString(s)
}

// StartElement opens a tag; attributes may follow until the next
// structural write.
func (w *Writer) StartElement(name string) {
	w.closeStart(false)
	w.buf.WriteByte('<')
	w.buf.WriteString(name)
	w.open = true
	w.tags = append(w.tags, name)
}

// WriteAttribute emits one attribute on the currently open start tag.
func (w *Writer) WriteAttribute(name, value string) {
	w.buf.WriteByte(' ')
	w.buf.WriteString(name)
	w.buf.WriteString(`="`)
	w.buf.WriteString(escapeAttr(value))
	w.buf.WriteByte('"')
}

// WriteText emits escaped character data.
func (w *Writer) WriteText(s string) {
	w.closeStart(false)
	w.buf.WriteString(escapeText(s))
}

// EndElement closes the innermost element.
func (w *Writer) EndElement() {
	if w.open {
		w.closeStart(true)
		return
	}
	name := w.tags[len(w.tags)-1]
	w.tags = w.tags[:len(w.tags)-1]
	w.buf.WriteString("</")
	w.buf.WriteString(name)
	w.buf.WriteByte('>')
}

// Bytes returns the document written so far.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

func escapeText(s string) string { return textEscaper.Replace(s) }
func escapeAttr(s string) string { return attrEscaper.Replace(s) }
