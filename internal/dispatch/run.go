package dispatch

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/XML-to-JSON-conversion/internal/config"
	"github.com/ginjaninja78/XML-to-JSON-conversion/internal/converter"
	"github.com/ginjaninja78/XML-to-JSON-conversion/internal/discovery"
	"github.com/ginjaninja78/XML-to-JSON-conversion/pkg/utils"
)

// Progress observes a batch. internal/logger.ProgressDisplay satisfies it.
type Progress interface {
	Update(completed, total int)
	Finish()
}

// Options configures one run.
type Options struct {
	// Path is a directory (batch mode) or a single .xml file.
	Path string

	// RecursionDepth limits batch discovery. nil means unlimited.
	RecursionDepth *int

	// DeleteXMLs removes each source after its JSON file is written.
	// Honored in both modes.
	DeleteXMLs bool

	// Workers is the batch pool size. Validated in both modes.
	Workers int

	Logger converter.Logger

	// NewProgress builds the observer once the number of files is known.
	// nil runs without one.
	NewProgress func(total int) Progress
}

// Run converts Path according to its kind.
//
// RETURNS:
//   - ErrInvalidInput if Path is missing, is neither a directory nor an .xml
//     file, or Workers is out of range. Nothing is traversed in that case.
//   - ErrNoXMLFiles if batch discovery found nothing.
//   - ErrConversionFailed if any file failed. The Summary is still complete.
func Run(opts Options) (Summary, error) {
	if err := config.ValidateWorkers(opts.Workers); err != nil {
		return Summary{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	kind, err := utils.ClassifyPath(opts.Path)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	conv := converter.New(opts.DeleteXMLs, opts.Logger)
	conv.Logger().Debug("%s is a %s", opts.Path, kind)

	switch kind {
	case utils.PathDirectory:
		return runBatch(opts, conv)
	case utils.PathXMLFile:
		return runSingle(opts, conv)
	default:
		return Summary{}, fmt.Errorf("%w: %s is neither a directory nor an %s file", ErrInvalidInput, opts.Path, utils.XMLSuffix)
	}
}

// runSingle converts one file synchronously, with no pool and no progress.
func runSingle(opts Options, conv *converter.Converter) (Summary, error) {
	log := conv.Logger()
	summary := Summary{RunID: uuid.NewString(), Mode: ModeSingle, Total: 1}

	log.Debug("[%s] Converting single file %s", summary.RunID, opts.Path)

	result := conv.Run(opts.Path)
	summary.record(result)
	summary.Elapsed = result.Duration

	return summary, summary.Err()
}

// runBatch discovers every XML file under Path, then converts them on the
// worker pool.
func runBatch(opts Options, conv *converter.Converter) (Summary, error) {
	log := conv.Logger()
	runID := uuid.NewString()
	startTime := time.Now()

	// =========================================================================
	// DISCOVERY
	// =========================================================================
	// Every file is found before the first one is scheduled, so the total is
	// known up front.

	files, walkErrs := discovery.Collect(discovery.Walk(opts.Path, opts.RecursionDepth))

	for _, walkErr := range walkErrs {
		var we *discovery.WalkError
		if errors.As(walkErr, &we) && we.Path == opts.Path {
			return Summary{RunID: runID, Mode: ModeBatch}, fmt.Errorf("%w: %w", ErrInvalidInput, walkErr)
		}
		log.Warn("[%s] Skipping %v", runID, walkErr)
	}

	if len(files) == 0 {
		summary := Summary{RunID: runID, Mode: ModeBatch, WalkErrors: walkErrs, Elapsed: time.Since(startTime)}
		return summary, fmt.Errorf("%w under %s", ErrNoXMLFiles, opts.Path)
	}

	// =========================================================================
	// CONVERSION
	// =========================================================================

	dispatcher, err := NewDispatcher(conv, opts.Workers, log)
	if err != nil {
		return Summary{RunID: runID, Mode: ModeBatch}, err
	}

	log.Info("[%s] Found %d XML file(s) under %s, converting with %d worker(s)", runID, len(files), opts.Path, dispatcher.Workers())

	var progress Progress
	var observe ProgressFunc
	if opts.NewProgress != nil {
		progress = opts.NewProgress(len(files))
		observe = progress.Update
	}

	summary := dispatcher.Dispatch(files, observe)
	summary.RunID = runID
	summary.WalkErrors = walkErrs
	summary.Elapsed = time.Since(startTime)

	if progress != nil {
		progress.Finish()
	}

	log.Info("[%s] Converted %d of %d file(s) in %s", runID, summary.Succeeded, summary.Total, summary.Elapsed.Round(time.Millisecond))

	return summary, summary.Err()
}
