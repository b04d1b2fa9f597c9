// Package output renders query results for the CLI in text or JSON form.
package output

import (
	"bytes"
	"strings"
	"text/tabwriter"
)

// Format represents the output format type.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// Formatter is implemented by types that can render themselves in both
// text and JSON form.
type Formatter interface {
	FormatText() string
	FormatJSON() ([]byte, error)
}

// FormatOutput renders the given Formatter in the requested format.
func FormatOutput(f Formatter, format Format) (string, error) {
	switch format {
	case FormatJSON:
		data, err := f.FormatJSON()
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return f.FormatText(), nil
	}
}

// TableWriter provides kubectl-style aligned column output.
type TableWriter struct {
	buf     bytes.Buffer
	w       *tabwriter.Writer
	hasData bool
}

// NewTableWriter creates a TableWriter with three-space column padding.
func NewTableWriter() *TableWriter {
	t := &TableWriter{}
	t.w = tabwriter.NewWriter(&t.buf, 0, 0, 3, ' ', 0)
	return t
}

// Header writes the header row with the given column names.
func (t *TableWriter) Header(columns ...string) {
	t.hasData = true
	_, _ = t.w.Write([]byte(strings.Join(columns, "\t") + "\n"))
}

// Row writes a data row with the given values.
func (t *TableWriter) Row(values ...string) {
	t.hasData = true
	_, _ = t.w.Write([]byte(strings.Join(values, "\t") + "\n"))
}

// String flushes the writer and returns the formatted output.
// Returns empty string if no data was written.
func (t *TableWriter) String() string {
	if !t.hasData {
		return ""
	}
	_ = t.w.Flush()
	return strings.TrimSuffix(t.buf.String(), "\n")
}
