// =============================================================================
// XML to JSON Converter - Conversion Dispatcher
// =============================================================================
//
// This module runs conversions over a fixed pool of workers and tracks how
// many have finished.
//
// WORKER POOL:
//   - Exactly N goroutines read file paths from an unbuffered jobs channel
//   - Each worker converts one file to completion before taking the next
//   - Each finished file (success or failure) sends one Result
//
// COMPLETION TRACKING:
//   A single aggregating loop owns the completion counter. It increments the
//   counter once per Result, mirrors it into an atomic for Completed(), and
//   notifies the progress observer. The loop ends only after every worker
//   has been joined, so Dispatch never returns with work in flight.
//
// FAILURES:
//   Best effort. A failing file (even a panicking one) becomes a failed
//   Result; the other files keep going.
//
// =============================================================================

package dispatch

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ginjaninja78/XML-to-JSON-conversion/internal/config"
	"github.com/ginjaninja78/XML-to-JSON-conversion/internal/converter"
)

// ProgressFunc is called by the aggregating loop after each finished file.
type ProgressFunc func(completed, total int)

// Dispatcher converts batches of files on a fixed-size worker pool.
type Dispatcher struct {
	conv      *converter.Converter
	workers   int
	logger    converter.Logger
	completed atomic.Int64
}

// NewDispatcher creates a Dispatcher with the given pool size.
//
// RETURNS:
//   - An error wrapping ErrInvalidInput when workers is outside
//     config.MinWorkers..config.MaxWorkers.
func NewDispatcher(conv *converter.Converter, workers int, logger converter.Logger) (*Dispatcher, error) {
	if err := config.ValidateWorkers(workers); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if logger == nil {
		logger = conv.Logger()
	}
	return &Dispatcher{
		conv:    conv,
		workers: workers,
		logger:  logger,
	}, nil
}

// Workers returns the pool size.
func (d *Dispatcher) Workers() int {
	return d.workers
}

// Completed returns how many files of the current or last batch have
// finished, successfully or not. Safe to call from any goroutine.
func (d *Dispatcher) Completed() int {
	return int(d.completed.Load())
}

// Dispatch converts every file and waits for all of them.
//
// PARAMETERS:
//   - files: The XML files to convert, already fully discovered.
//   - progress: Optional observer, called once per finished file from the
//     aggregating goroutine.
//
// RETURNS:
//   - A Summary whose Completed count equals len(files).
func (d *Dispatcher) Dispatch(files []string, progress ProgressFunc) Summary {
	startTime := time.Now()
	total := len(files)
	summary := Summary{Mode: ModeBatch, Total: total}

	d.completed.Store(0)

	jobs := make(chan string)
	results := make(chan converter.Result, d.workers)

	var wg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go d.worker(i, jobs, results, &wg)
	}

	go func() {
		for _, file := range files {
			jobs <- file
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for result := range results {
		completed++
		d.completed.Store(int64(completed))
		summary.record(result)

		if result.Success {
			d.logger.Debug("[%d/%d] %s -> %s", completed, total, result.FilePath, result.OutputFile)
		} else {
			d.logger.Debug("[%d/%d] %s failed", completed, total, result.FilePath)
		}

		if progress != nil {
			progress(completed, total)
		}
	}

	summary.Elapsed = time.Since(startTime)
	return summary
}

// worker converts files until the jobs channel is closed.
func (d *Dispatcher) worker(id int, jobs <-chan string, results chan<- converter.Result, wg *sync.WaitGroup) {
	defer wg.Done()

	for file := range jobs {
		results <- d.runOne(id, file)
	}
}

// runOne converts a single file, turning a panic into a failed Result so the
// worker survives and the counter still advances.
func (d *Dispatcher) runOne(id int, file string) (result converter.Result) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Worker %d recovered from panic on %s: %v", id, file, r)
			result = converter.Result{
				FilePath: file,
				Error: &converter.ConversionError{
					Path:  file,
					Stage: converter.StageConvert,
					Err:   fmt.Errorf("panic: %v", r),
				},
			}
		}
	}()

	return d.conv.Run(file)
}
