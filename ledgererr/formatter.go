// Package ledgererr implements the structured error model of spec.md §7:
// one exported error type per failure kind, an aggregate that collects
// recoverable per-entry errors up to a caller-supplied budget, a separate
// non-fatal Warnings aggregate, and a text formatter that renders an error
// with the source line and a caret when the error can point at a span.
//
// A Formatter interface with Text and JSON implementations. The text
// formatter renders a plain source snippet plus caret directly from an
// error's span and the raw source bytes, needing no separate renderer for
// the underlying source format (rendering back to Ledger text is out of
// scope per spec.md §1).
package ledgererr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ledgerpipe/ledgerpipe/entity"
)

// Positioned is implemented by any structured error that can point at a
// span of source text (spec.md §6 "Errors": the optional location field).
type Positioned interface {
	error
	Position() (filename string, span entity.Span, ok bool)
}

// Formatter formats errors for output in different forms.
type Formatter interface {
	Format(err error) string
	FormatAll(errs []error) string
}

// TextFormatter renders one error per call: the message alone, or — when
// err implements Positioned and source is non-empty — the message followed
// by the offending source line(s) and a caret under the span's start.
type TextFormatter struct {
	Source []byte
}

// NewTextFormatter creates a TextFormatter that resolves spans against
// source. source may be nil; Format then always falls back to err.Error().
func NewTextFormatter(source []byte) *TextFormatter {
	return &TextFormatter{Source: source}
}

// Format renders a single error.
func (tf *TextFormatter) Format(err error) string {
	pe, ok := err.(Positioned)
	if !ok {
		return err.Error()
	}
	filename, span, ok := pe.Position()
	if !ok || len(tf.Source) == 0 {
		return err.Error()
	}
	return tf.formatWithSourceContext(filename, span, err.Error())
}

// FormatAll renders every error, separated by a blank line.
func (tf *TextFormatter) FormatAll(errs []error) string {
	var buf bytes.Buffer
	for i, err := range errs {
		buf.WriteString(tf.Format(err))
		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}
	return buf.String()
}

// formatWithSourceContext locates span's line within tf.Source and renders
// it indented under the message, with a caret under the span's start
// column, bean-check style.
func (tf *TextFormatter) formatWithSourceContext(filename string, span entity.Span, message string) string {
	line, col, text := sourceLineAt(tf.Source, span.Start)

	var buf bytes.Buffer
	if filename != "" {
		fmt.Fprintf(&buf, "%s:%d:%d: %s\n\n", filename, line, col, message)
	} else {
		fmt.Fprintf(&buf, "%d:%d: %s\n\n", line, col, message)
	}
	buf.WriteString("   ")
	buf.WriteString(text)
	buf.WriteByte('\n')
	buf.WriteString("   ")
	if col > 1 {
		buf.WriteString(strings.Repeat(" ", col-1))
	}
	buf.WriteString("^\n")
	return buf.String()
}

// sourceLineAt returns the 1-based line and column of offset within
// source, along with that line's text (without its trailing newline).
// Bounds are clamped so a span past the end of source never panics.
func sourceLineAt(source []byte, offset int) (line, col int, text string) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(source) {
		offset = len(source)
	}

	line = 1
	lineStart := 0
	for i := 0; i < offset; i++ {
		if source[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	col = offset - lineStart + 1

	lineEnd := len(source)
	if idx := bytes.IndexByte(source[lineStart:], '\n'); idx >= 0 {
		lineEnd = lineStart + idx
	}
	return line, col, string(source[lineStart:lineEnd])
}

// JSONFormatter formats errors as JSON, for embedders that want structured
// diagnostics rather than human-readable text (spec.md §6: "the exact wire
// representation is left to embedders").
type JSONFormatter struct{}

// NewJSONFormatter creates a JSONFormatter.
func NewJSONFormatter() *JSONFormatter { return &JSONFormatter{} }

// errorJSON is the wire shape one formatted error takes.
type errorJSON struct {
	Type     string     `json:"type"`
	Message  string     `json:"message"`
	Filename string     `json:"filename,omitempty"`
	Span     *spanJSON  `json:"span,omitempty"`
}

type spanJSON struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Format renders a single error as a JSON object.
func (jf *JSONFormatter) Format(err error) string {
	data, _ := json.Marshal(jf.toJSON(err))
	return string(data)
}

// FormatAll renders every error as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	out := make([]errorJSON, len(errs))
	for i, err := range errs {
		out[i] = jf.toJSON(err)
	}
	data, _ := json.MarshalIndent(out, "", "  ")
	return string(data)
}

func (jf *JSONFormatter) toJSON(err error) errorJSON {
	ej := errorJSON{Type: fmt.Sprintf("%T", err), Message: err.Error()}
	if pe, ok := err.(Positioned); ok {
		if filename, span, ok := pe.Position(); ok {
			ej.Filename = filename
			ej.Span = &spanJSON{Start: span.Start, End: span.End}
		}
	}
	return ej
}
