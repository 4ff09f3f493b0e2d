package output

import (
	"bufio"
	"encoding/json"
	"io"
)

// JSONWriter writes the mapping as a single JSON object. The compact form
// (pretty disabled) is the corpus-native output format.
type JSONWriter struct {
	w      *bufio.Writer
	pretty bool
	indent string
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer, pretty bool, indent string) *JSONWriter {
	return &JSONWriter{
		w:      bufio.NewWriter(w),
		pretty: pretty,
		indent: indent,
	}
}

// Write serializes the mapping as one JSON object.
func (w *JSONWriter) Write(m Mapping) error {
	if m == nil {
		m = Mapping{}
	}

	var data []byte
	var err error
	if w.pretty {
		data, err = json.MarshalIndent(m, "", w.indent)
	} else {
		data, err = json.Marshal(m)
	}
	if err != nil {
		return err
	}

	if _, err := w.w.Write(data); err != nil {
		return err
	}
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONWriter) Close() error {
	return w.w.Flush()
}
