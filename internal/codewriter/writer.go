// Package codewriter accumulates generated Go source and turns it into a
// formatted file.
package codewriter

import (
	"bytes"
	"strings"
)

// SourceWriter is an append-only, indentation-aware text sink.
type SourceWriter struct {
	buf         bytes.Buffer
	indent      int
	atLineStart bool
}

// New creates an empty SourceWriter.
func New() *SourceWriter {
	return &SourceWriter{atLineStart: true}
}

// Indent increases the indentation of subsequent lines.
func (w *SourceWriter) Indent() { w.indent++ }

// Outdent decreases the indentation of subsequent lines.
func (w *SourceWriter) Outdent() {
	if w.indent > 0 {
		w.indent--
	}
}

// Print writes s, indenting each new line.
func (w *SourceWriter) Print(s string) {
	for len(s) > 0 {
		if w.atLineStart {
			if s[0] != '\n' {
				w.buf.WriteString(strings.Repeat("\t", w.indent))
			}
			w.atLineStart = false
		}
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			w.buf.WriteString(s)
			return
		}
		w.buf.WriteString(s[:i+1])
		w.atLineStart = true
		s = s[i+1:]
	}
}

// Println writes s followed by a newline.
func (w *SourceWriter) Println(s ...string) {
	w.Print(strings.Join(s, ""))
	w.Print("\n")
}

// WriteMethod writes a function or method with the given signature and
// body, followed by a blank line. The body may span several lines.
func (w *SourceWriter) WriteMethod(signature, body string) {
	w.Println(signature, " {")
	w.Indent()
	if body = strings.TrimRight(body, "\n"); body != "" {
		w.Println(body)
	}
	w.Outdent()
	w.Println("}")
	w.Println()
}

// WriteField writes a single field or variable declaration line.
func (w *SourceWriter) WriteField(decl string) {
	w.Println(decl)
}

// Len returns the number of bytes written.
func (w *SourceWriter) Len() int { return w.buf.Len() }

// Bytes returns the accumulated text.
func (w *SourceWriter) Bytes() []byte { return w.buf.Bytes() }

// String returns the accumulated text.
func (w *SourceWriter) String() string { return w.buf.String() }
