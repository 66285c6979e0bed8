// =============================================================================
// XML to JSON Converter - Conversion Run
// =============================================================================
//
// This file runs one conversion from resolved configuration. It wires the
// logger and the progress display to the dispatcher and reports the outcome.
//
// PROCESSING PIPELINE:
//   1. Build the console logger (stderr)
//   2. Dispatch: single file, or discover + convert on the worker pool
//   3. Report every failed file
//   4. Print "Conversion complete!" once the run reached its end
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/ginjaninja78/XML-to-JSON-conversion/internal/config"
	"github.com/ginjaninja78/XML-to-JSON-conversion/internal/dispatch"
	"github.com/ginjaninja78/XML-to-JSON-conversion/internal/logger"
)

// CompletionMessage is printed on stdout when every scheduled file has been
// handled, whether or not all of them converted.
const CompletionMessage = "Conversion complete!"

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runConvert converts path with the given configuration.
//
// RETURNS:
//   - nil when every file converted.
//   - The dispatch error otherwise. Per-file failures have already been
//     logged by the time it is returned.
func runConvert(path string, cfg *config.Config, stdout, stderr io.Writer) error {
	log := logger.NewConsoleLogger(stderr, cfg.LogLevel)

	opts := dispatch.Options{
		Path:           path,
		RecursionDepth: cfg.RecursionDepth,
		DeleteXMLs:     cfg.DeleteXMLs,
		Workers:        cfg.NumWorkers,
		Logger:         log,
	}

	if !cfg.NoProgress {
		opts.NewProgress = func(total int) dispatch.Progress {
			return logger.NewProgressDisplay(stderr, total)
		}
	}

	summary, err := dispatch.Run(opts)

	// Invalid input and empty discovery stop the run before any conversion.
	if err != nil && !errors.Is(err, dispatch.ErrConversionFailed) {
		return err
	}

	for _, failed := range summary.Failed {
		log.Error("%v", failed.Error)
	}

	fmt.Fprintln(stdout, CompletionMessage)

	if err != nil {
		return fmt.Errorf("%d of %d file(s) failed to convert: %w", len(summary.Failed), summary.Total, dispatch.ErrConversionFailed)
	}

	return nil
}
