// Package output serializes a question-to-answers mapping to its output
// file format.
package output

import (
	"fmt"
	"io"
)

// Mapping is one file's result: cleaned question text to its ordered list
// of cleaned answer texts.
type Mapping map[string][]string

// Format represents output format types.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Writer serializes one Mapping.
type Writer interface {
	// Write serializes the mapping.
	Write(m Mapping) error

	// Close flushes buffered data.
	Close() error
}

// WriterOption configures a writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	pretty bool
	indent string
}

// WithPretty enables pretty-printing for formats that support it.
func WithPretty(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.pretty = enabled
	}
}

// WithIndent sets the indentation string.
func WithIndent(indent string) WriterOption {
	return func(c *writerConfig) {
		c.indent = indent
	}
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format, opts ...WriterOption) (Writer, error) {
	cfg := &writerConfig{
		indent: "  ",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch format {
	case FormatJSON, "":
		return NewJSONWriter(w, cfg.pretty, cfg.indent), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// Valid reports whether the format is one NewWriter accepts.
func (f Format) Valid() bool {
	switch f {
	case FormatJSON, FormatYAML, "":
		return true
	}
	return false
}
