package closedbook

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/qadistill/qadistill/internal/logger"
	"github.com/qadistill/qadistill/internal/pool"
)

// FileResult is the outcome of one file's conversion task.
type FileResult struct {
	InputPath  string
	OutputPath string
	Stats      FileStats
	Duration   time.Duration
	Err        error
}

// RunReport summarizes a whole corpus run.
type RunReport struct {
	Files     []FileResult
	Converted int
	Failed    int

	Websites  int
	Questions int
	Answers   int
	BytesIn   int64
	BytesOut  int64
}

// ConvertDir converts every regular file in the input folder, fanning the
// per-file tasks across the configured number of workers. It blocks until
// every task has reported and returns a report carrying one FileResult per
// task.
//
// Configuration errors fail before any task is dispatched. A failing file
// is logged and counted but never aborts the rest of the run.
func (c *Converter) ConvertDir(ctx context.Context) (RunReport, error) {
	if err := c.cfg.Validate(); err != nil {
		return RunReport{}, err
	}

	// Task filenames are enumerated from the exact folder the
	// configuration validated; every regular input file maps to one
	// same-named output file.
	entries, err := os.ReadDir(c.cfg.InputDir)
	if err != nil {
		return RunReport{}, fmt.Errorf("reading input folder: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.cfg.OutputDir), 0o755); err != nil {
		return RunReport{}, fmt.Errorf("creating output parent: %w", err)
	}
	if err := os.Mkdir(c.cfg.OutputDir, 0o755); err != nil {
		if errors.Is(err, os.ErrExist) {
			return RunReport{}, fmt.Errorf("%w: %s", ErrOutputDirExists, c.cfg.OutputDir)
		}
		return RunReport{}, fmt.Errorf("creating output folder: %w", err)
	}

	tasks := make([]pool.Task, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			logger.Debug("skipping directory entry", "name", entry.Name())
			continue
		}
		tasks = append(tasks, pool.Task{
			InputPath:  filepath.Join(c.cfg.InputDir, entry.Name()),
			OutputPath: filepath.Join(c.cfg.OutputDir, entry.Name()),
		})
	}
	logger.Debug("corpus enumerated", "files", len(tasks), "workers", c.cfg.Workers)

	// Each task writes only its own slot; slots never overlap.
	statsByInput := make(map[string]*FileStats, len(tasks))
	for _, task := range tasks {
		statsByInput[task.InputPath] = &FileStats{}
	}

	results := pool.Run(ctx, c.cfg.Workers, tasks, func(ctx context.Context, task pool.Task) error {
		stats, err := c.ConvertFile(ctx, task.InputPath, task.OutputPath)
		if err != nil {
			return err
		}
		*statsByInput[task.InputPath] = stats
		return nil
	})

	report := RunReport{Files: make([]FileResult, 0, len(results))}
	for _, r := range results {
		fr := FileResult{
			InputPath:  r.Task.InputPath,
			OutputPath: r.Task.OutputPath,
			Stats:      *statsByInput[r.Task.InputPath],
			Duration:   r.Duration,
			Err:        r.Err,
		}
		report.Files = append(report.Files, fr)

		if r.Failed() {
			report.Failed++
			logger.Error("file conversion failed", "input", r.Task.InputPath, "error", r.Err)
			continue
		}
		report.Converted++
		report.Websites += fr.Stats.Websites
		report.Questions += fr.Stats.Questions
		report.Answers += fr.Stats.Answers
		report.BytesIn += fr.Stats.BytesIn
		report.BytesOut += fr.Stats.BytesOut
		logger.Debug("file converted",
			"input", r.Task.InputPath,
			"questions", fr.Stats.Questions,
			"answers", fr.Stats.Answers,
			"duration", r.Duration)
	}

	return report, nil
}
