package output

import (
	"bufio"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLWriter writes the mapping as a YAML document.
type YAMLWriter struct {
	w *bufio.Writer
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{
		w: bufio.NewWriter(w),
	}
}

// Write serializes the mapping as YAML.
func (w *YAMLWriter) Write(m Mapping) error {
	if m == nil {
		m = Mapping{}
	}

	encoder := yaml.NewEncoder(w.w)
	encoder.SetIndent(2)
	if err := encoder.Encode(m); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	return w.w.Flush()
}

// Close flushes the writer.
func (w *YAMLWriter) Close() error {
	return w.w.Flush()
}
