package dispatch

import "errors"

var (
	// ErrInvalidInput means the path or the run options were rejected before
	// any file was touched.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoXMLFiles means batch discovery found nothing to convert.
	ErrNoXMLFiles = errors.New("no XML files found")

	// ErrConversionFailed is wrapped around the per-file failures of a run.
	ErrConversionFailed = errors.New("conversion failed")
)
