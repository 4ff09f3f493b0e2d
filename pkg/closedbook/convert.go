// Package closedbook converts a scraped question/answer corpus into
// training data for closed-book question answering: one flat mapping from
// cleaned question text to its list of cleaned candidate answers per input
// file.
package closedbook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/qadistill/qadistill/internal/corpus"
	"github.com/qadistill/qadistill/internal/output"
	"github.com/qadistill/qadistill/pkg/extract"
)

// Converter runs corpus conversions with a fixed configuration.
type Converter struct {
	cfg Config
}

// New creates a Converter. The configuration is validated by the run entry
// points, not here.
func New(cfg Config) *Converter {
	return &Converter{cfg: cfg}
}

// FileStats describes what one file conversion produced.
type FileStats struct {
	Websites        int   // records read
	SkippedLanguage int   // records dropped by the English filter
	Questions       int   // distinct question keys in the mapping
	Answers         int   // answer texts across all kept questions
	Overwritten     int   // duplicate question keys replaced
	BytesIn         int64 // input file size
	BytesOut        int64 // serialized output size
}

// ConvertFile converts one corpus file into one output mapping file.
//
// A malformed line aborts the file: no output file is produced and the
// error names the offending line. Records that merely lack fields, fail
// the language filter, or clean to nothing are silently skipped; that is
// the dominant, expected path through real scraped data.
func (c *Converter) ConvertFile(ctx context.Context, inputPath, outputPath string) (FileStats, error) {
	var stats FileStats

	in, err := os.Open(inputPath)
	if err != nil {
		return stats, fmt.Errorf("opening input: %w", err)
	}
	defer func() { _ = in.Close() }()

	if info, err := in.Stat(); err == nil {
		stats.BytesIn = info.Size()
	}

	mapping, err := c.aggregate(in, &stats)
	if err != nil {
		return stats, fmt.Errorf("%s: %w", inputPath, err)
	}

	stats.Questions = len(mapping)
	for _, answers := range mapping {
		stats.Answers += len(answers)
	}

	// The whole mapping is buffered before anything is written, so a
	// failed conversion never leaves a partial output file behind.
	if err := c.writeMapping(outputPath, mapping, &stats); err != nil {
		return stats, err
	}
	return stats, nil
}

// aggregate consumes every record of one file and builds its mapping.
func (c *Converter) aggregate(r io.Reader, stats *FileStats) (output.Mapping, error) {
	mapping := output.Mapping{}
	reader := corpus.NewReader(r)

	for {
		website, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return mapping, nil
		}
		if err != nil {
			return nil, err
		}

		stats.Websites++
		if c.cfg.OnlyEnglish && !website.IsEnglish() {
			stats.SkippedLanguage++
			continue
		}

		for _, question := range website.Questions {
			key, answers := c.distill(question)
			if key == "" || len(answers) == 0 {
				continue
			}
			if _, dup := mapping[key]; dup {
				stats.Overwritten++
			}
			// Last write wins for repeated question texts.
			mapping[key] = answers
		}
	}
}

// distill builds one question's mapping entry: the cleaned question key
// and its surviving answer texts.
func (c *Converter) distill(question corpus.Question) (string, []string) {
	questionText := ""

	if question.NameMarkup != nil {
		if text, ok := extract.Text(*question.NameMarkup, c.cfg.KeepMarkup); ok {
			questionText += text + " "
		}
	}
	if question.TextMarkup != nil {
		if text, ok := extract.Text(*question.TextMarkup, c.cfg.KeepMarkup); ok {
			questionText += text
		}
	}
	if questionText == "" {
		return "", nil
	}

	var answers []string
	for _, answer := range question.Answers {
		if answer.TextMarkup == nil {
			continue
		}
		text, ok := extract.Text(*answer.TextMarkup, c.cfg.KeepMarkup)
		if !ok || text == "" {
			continue
		}
		answers = append(answers, text)
	}
	return questionText, answers
}

// writeMapping serializes the mapping to a fresh output file.
func (c *Converter) writeMapping(path string, mapping output.Mapping, stats *FileStats) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer func() { _ = out.Close() }()

	writer, err := output.NewWriter(out, c.cfg.Format, output.WithPretty(c.cfg.Pretty))
	if err != nil {
		return err
	}
	if err := writer.Write(mapping); err != nil {
		return fmt.Errorf("writing output %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("writing output %s: %w", path, err)
	}

	if info, err := out.Stat(); err == nil {
		stats.BytesOut = info.Size()
	}
	return nil
}
