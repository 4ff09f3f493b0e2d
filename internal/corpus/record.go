// Package corpus defines the wire format of the scraped question/answer
// corpus and the single parse boundary for reading it.
//
// One input line is one Website record. Field names follow the corpus as
// scraped (Fasttext_language, Questions, Answers, name_markup, text_markup).
// Markup fields are optional in the wild, so they are modelled as pointers:
// a nil pointer means the field was absent, an empty string means it was
// present but empty. The two cases behave differently downstream.
package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// EnglishTag is the language tag that marks a record as English.
const EnglishTag = "en"

// Website is one scraped unit of the corpus, one line of input.
type Website struct {
	Language  string     `json:"Fasttext_language"`
	Questions []Question `json:"Questions"`
}

// Question is a single question scraped from a website, with its answers.
type Question struct {
	NameMarkup *string  `json:"name_markup"`
	TextMarkup *string  `json:"text_markup"`
	Answers    []Answer `json:"Answers"`
}

// Answer is a single candidate answer to a question.
type Answer struct {
	TextMarkup *string `json:"text_markup"`
}

// IsEnglish reports whether the record's language tag is exactly "en".
func (w Website) IsEnglish() bool {
	return w.Language == EnglishTag
}

// DecodeLine parses one corpus line. Absent fields are not an error; only
// malformed JSON is.
func DecodeLine(line []byte) (Website, error) {
	var w Website
	if err := json.Unmarshal(line, &w); err != nil {
		return Website{}, fmt.Errorf("decoding website record: %w", err)
	}
	return w, nil
}

// maxLineSize bounds a single corpus line. Lines hold whole scraped pages,
// so the default bufio.Scanner limit of 64KB is far too small.
const maxLineSize = 64 * 1024 * 1024

// Reader iterates the line-delimited records of one corpus file.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), maxLineSize)
	return &Reader{scanner: scanner}
}

// Next returns the next record. It returns io.EOF when the input is
// exhausted. A malformed line is a terminal error for the whole file.
func (r *Reader) Next() (Website, error) {
	for r.scanner.Scan() {
		r.line++
		raw := r.scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		w, err := DecodeLine(raw)
		if err != nil {
			return Website{}, fmt.Errorf("line %d: %w", r.line, err)
		}
		return w, nil
	}
	if err := r.scanner.Err(); err != nil {
		return Website{}, fmt.Errorf("line %d: reading corpus: %w", r.line+1, err)
	}
	return Website{}, io.EOF
}

// Line returns the number of the last line read, starting at 1.
func (r *Reader) Line() int {
	return r.line
}
