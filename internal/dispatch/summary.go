package dispatch

import (
	"errors"
	"fmt"
	"time"

	"github.com/ginjaninja78/XML-to-JSON-conversion/internal/converter"
)

// Mode is how a run was dispatched.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeBatch  Mode = "batch"
)

// Summary describes a finished run.
type Summary struct {
	// RunID tags the log lines of one run.
	RunID string

	Mode Mode

	// Total is the number of XML files scheduled.
	Total int

	// Completed counts finished files, successful or not.
	Completed int

	Succeeded int

	// Failed holds the results of every file that did not convert.
	Failed []converter.Result

	// WalkErrors are directories discovery could not list. They are
	// reported but do not fail the run.
	WalkErrors []error

	Elapsed time.Duration
}

func (s *Summary) record(result converter.Result) {
	s.Completed++
	if result.Success {
		s.Succeeded++
		return
	}
	s.Failed = append(s.Failed, result)
}

// Err joins the per-file failures under ErrConversionFailed, or returns nil
// when every file converted.
func (s Summary) Err() error {
	if len(s.Failed) == 0 {
		return nil
	}

	errs := make([]error, 0, len(s.Failed))
	for _, result := range s.Failed {
		errs = append(errs, result.Error)
	}

	return fmt.Errorf("%w: %d of %d file(s): %w", ErrConversionFailed, len(s.Failed), s.Total, errors.Join(errs...))
}
