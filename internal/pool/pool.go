// Package pool runs independent file-conversion tasks across a bounded set
// of workers and reports a status for every task.
package pool

import (
	"context"
	"sync"
	"time"
)

// Task is one unit of work: convert one input file to one output file.
type Task struct {
	InputPath  string
	OutputPath string
}

// Result is the completion status of one task.
type Result struct {
	Task     Task
	Duration time.Duration
	Err      error
}

// Failed reports whether the task ended in error.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Run executes fn for every task with at most workers running at once and
// blocks until all dispatched tasks finish. It returns one Result per task,
// in no particular order. Tasks share nothing; a failing task never affects
// the others.
//
// Cancelling ctx stops tasks that have not started yet (they report the
// context error) but lets in-flight tasks drain.
func Run(ctx context.Context, workers int, tasks []Task, fn func(context.Context, Task) error) []Result {
	if workers < 1 {
		workers = 1
	}

	results := make(chan Result, len(tasks))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for _, task := range tasks {
		wg.Add(1)
		go func(t Task) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				results <- Result{Task: t, Err: err}
				return
			}

			start := time.Now()
			err := fn(ctx, t)
			results <- Result{Task: t, Duration: time.Since(start), Err: err}
		}(task)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]Result, 0, len(tasks))
	for r := range results {
		collected = append(collected, r)
	}
	return collected
}
