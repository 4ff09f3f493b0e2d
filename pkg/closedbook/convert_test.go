package closedbook

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/qadistill/qadistill/internal/output"
)

func writeCorpusFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing corpus file: %v", err)
	}
	return path
}

func readMapping(t *testing.T, path string) map[string][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output file: %v", err)
	}
	var m map[string][]string
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("output is not a JSON mapping: %v", err)
	}
	return m
}

func convertOne(t *testing.T, cfg Config, content string) map[string][]string {
	t.Helper()
	dir := t.TempDir()
	in := writeCorpusFile(t, dir, "corpus.json", content)
	out := filepath.Join(dir, "out.json")

	c := New(cfg)
	if _, err := c.ConvertFile(context.Background(), in, out); err != nil {
		t.Fatalf("unexpected conversion error: %v", err)
	}
	return readMapping(t, out)
}

func TestConvertFile_EndToEnd(t *testing.T) {
	line := `{"Fasttext_language":"en","Questions":[{"name_markup":"<p>Capital</p>","text_markup":"of France?","Answers":[{"text_markup":"Paris"}]}]}`

	cfg := DefaultConfig()
	cfg.OnlyEnglish = true

	m := convertOne(t, cfg, line+"\n")
	if len(m) != 1 {
		t.Fatalf("expected 1 question, got %d: %v", len(m), m)
	}
	answers, ok := m["Capital of France?"]
	if !ok {
		t.Fatalf("expected key %q, got %v", "Capital of France?", m)
	}
	if len(answers) != 1 || answers[0] != "Paris" {
		t.Errorf("unexpected answers: %v", answers)
	}
}

func TestConvertFile_LanguageFilter(t *testing.T) {
	line := `{"Fasttext_language":"fr","Questions":[{"name_markup":"<p>Capital</p>","text_markup":"of France?","Answers":[{"text_markup":"Paris"}]}]}`

	t.Run("non-English dropped when filter on", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.OnlyEnglish = true
		m := convertOne(t, cfg, line+"\n")
		if len(m) != 0 {
			t.Errorf("expected empty mapping, got %v", m)
		}
	})

	t.Run("kept when filter off", func(t *testing.T) {
		m := convertOne(t, DefaultConfig(), line+"\n")
		if len(m) != 1 {
			t.Errorf("expected 1 question, got %v", m)
		}
	})
}

func TestConvertFile_DuplicateQuestionLastWriteWins(t *testing.T) {
	content := `{"Questions":[{"text_markup":"Q","Answers":[{"text_markup":"A1"}]}]}
{"Questions":[{"text_markup":"Q","Answers":[{"text_markup":"A2"}]}]}
`
	dir := t.TempDir()
	in := writeCorpusFile(t, dir, "corpus.json", content)
	out := filepath.Join(dir, "out.json")

	c := New(DefaultConfig())
	stats, err := c.ConvertFile(context.Background(), in, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := readMapping(t, out)
	if len(m) != 1 {
		t.Fatalf("expected 1 question, got %v", m)
	}
	if len(m["Q"]) != 1 || m["Q"][0] != "A2" {
		t.Errorf("expected later answer list to replace earlier, got %v", m["Q"])
	}
	if stats.Overwritten != 1 {
		t.Errorf("expected 1 overwritten key, got %d", stats.Overwritten)
	}
}

func TestConvertFile_SkipConditions(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{
			name: "question with no markup fields",
			line: `{"Questions":[{"Answers":[{"text_markup":"A"}]}]}`,
		},
		{
			name: "question text cleans to nothing",
			line: `{"Questions":[{"text_markup":"   ","Answers":[{"text_markup":"A"}]}]}`,
		},
		{
			name: "question with no answers",
			line: `{"Questions":[{"text_markup":"Q"}]}`,
		},
		{
			name: "all answers clean to nothing",
			line: `{"Questions":[{"text_markup":"Q","Answers":[{"text_markup":"  "},{}]}]}`,
		},
		{
			name: "website with no questions",
			line: `{"Fasttext_language":"en"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := convertOne(t, DefaultConfig(), tt.line+"\n")
			if len(m) != 0 {
				t.Errorf("expected empty mapping, got %v", m)
			}
		})
	}
}

func TestConvertFile_AnswerFiltering(t *testing.T) {
	line := `{"Questions":[{"text_markup":"Q","Answers":[{"text_markup":"<b>keep</b>"},{"text_markup":"  "},{},{"text_markup":"also keep"}]}]}`

	m := convertOne(t, DefaultConfig(), line+"\n")
	answers := m["Q"]
	if len(answers) != 2 {
		t.Fatalf("expected 2 surviving answers, got %v", answers)
	}
	if answers[0] != "keep" || answers[1] != "also keep" {
		t.Errorf("expected source order preserved, got %v", answers)
	}
}

func TestConvertFile_NameOnlyQuestionKeepsTrailingSpace(t *testing.T) {
	// When only name_markup is present the separating space is still
	// appended, so the key carries it. This matches the reference corpus
	// format exactly.
	line := `{"Questions":[{"name_markup":"Only name","Answers":[{"text_markup":"A"}]}]}`

	m := convertOne(t, DefaultConfig(), line+"\n")
	if _, ok := m["Only name "]; !ok {
		t.Errorf("expected key with trailing space, got %v", m)
	}
}

func TestConvertFile_KeepMarkup(t *testing.T) {
	line := `{"Questions":[{"text_markup":"<b>Q &amp; A</b>","Answers":[{"text_markup":"<i>ans</i>"}]}]}`

	cfg := DefaultConfig()
	cfg.KeepMarkup = true

	m := convertOne(t, cfg, line+"\n")
	answers, ok := m["<b>Q & A</b>"]
	if !ok {
		t.Fatalf("expected markup preserved in key, got %v", m)
	}
	if len(answers) != 1 || answers[0] != "<i>ans</i>" {
		t.Errorf("expected markup preserved in answer, got %v", answers)
	}
}

func TestConvertFile_MalformedLine(t *testing.T) {
	content := `{"Questions":[{"text_markup":"Q","Answers":[{"text_markup":"A"}]}]}
this is not json
`
	dir := t.TempDir()
	in := writeCorpusFile(t, dir, "corpus.json", content)
	out := filepath.Join(dir, "out.json")

	c := New(DefaultConfig())
	if _, err := c.ConvertFile(context.Background(), in, out); err == nil {
		t.Fatal("expected error for malformed line")
	}

	// A failed file must not leave an output file behind.
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected no output file after failure, stat err: %v", err)
	}
}

func TestConvertFile_MissingInput(t *testing.T) {
	c := New(DefaultConfig())
	_, err := c.ConvertFile(context.Background(), filepath.Join(t.TempDir(), "nope.json"), filepath.Join(t.TempDir(), "out.json"))
	if err == nil {
		t.Fatal("expected error for missing input file")
	}
}

func TestConvertFile_Idempotent(t *testing.T) {
	content := `{"Fasttext_language":"en","Questions":[{"name_markup":"<p>Capital</p>","text_markup":"of France?","Answers":[{"text_markup":"Paris"},{"text_markup":"paris"}]}]}` + "\n"
	dir := t.TempDir()
	in := writeCorpusFile(t, dir, "corpus.json", content)

	c := New(DefaultConfig())

	out1 := filepath.Join(dir, "out1.json")
	out2 := filepath.Join(dir, "out2.json")
	if _, err := c.ConvertFile(context.Background(), in, out1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.ConvertFile(context.Background(), in, out2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b1, _ := os.ReadFile(out1)
	b2, _ := os.ReadFile(out2)
	if string(b1) != string(b2) {
		t.Errorf("expected byte-identical outputs, got %q vs %q", b1, b2)
	}
}

func TestConvertFile_Stats(t *testing.T) {
	content := `{"Fasttext_language":"en","Questions":[{"text_markup":"Q1","Answers":[{"text_markup":"A"},{"text_markup":"B"}]}]}
{"Fasttext_language":"de","Questions":[{"text_markup":"Q2","Answers":[{"text_markup":"C"}]}]}
`
	dir := t.TempDir()
	in := writeCorpusFile(t, dir, "corpus.json", content)
	out := filepath.Join(dir, "out.json")

	cfg := DefaultConfig()
	cfg.OnlyEnglish = true

	stats, err := New(cfg).ConvertFile(context.Background(), in, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Websites != 2 {
		t.Errorf("expected 2 websites, got %d", stats.Websites)
	}
	if stats.SkippedLanguage != 1 {
		t.Errorf("expected 1 language skip, got %d", stats.SkippedLanguage)
	}
	if stats.Questions != 1 {
		t.Errorf("expected 1 question, got %d", stats.Questions)
	}
	if stats.Answers != 2 {
		t.Errorf("expected 2 answers, got %d", stats.Answers)
	}
	if stats.BytesIn == 0 || stats.BytesOut == 0 {
		t.Errorf("expected byte counters to be set, got in=%d out=%d", stats.BytesIn, stats.BytesOut)
	}
}

func TestConvertFile_YAMLFormat(t *testing.T) {
	line := `{"Questions":[{"text_markup":"Q","Answers":[{"text_markup":"A"}]}]}`
	dir := t.TempDir()
	in := writeCorpusFile(t, dir, "corpus.json", line+"\n")
	out := filepath.Join(dir, "out.json")

	cfg := DefaultConfig()
	cfg.Format = output.FormatYAML

	if _, err := New(cfg).ConvertFile(context.Background(), in, out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty YAML output")
	}
}
